package repository

import "context"

// Repository defines the generic data access contract shared by every entity.
// Entity repositories implement it directly and override the reads that
// need related records loaded or a custom filter.
//
// T is the entity type (e.g., Country, Team)
type Repository[T any] interface {
	// GetByID retrieves an entity by its primary key
	// Returns nil and ErrNotFound if the entity doesn't exist
	GetByID(ctx context.Context, id int64) (*T, error)

	// GetAll retrieves every entity ordered by name
	GetAll(ctx context.Context) ([]*T, error)

	// GetPaginated retrieves one page of entities matching the pagination filter
	GetPaginated(ctx context.Context, pagination Pagination) ([]*T, error)

	// GetTotalRecords counts the entities matching the pagination filter,
	// ignoring page and page size
	GetTotalRecords(ctx context.Context, pagination Pagination) (int64, error)

	// Create inserts a new entity and sets its ID
	// Returns ErrAlreadyExists on a uniqueness violation and ErrForeignKey
	// when a referenced row does not exist
	Create(ctx context.Context, entity *T) error

	// Update modifies an existing entity
	// Returns ErrNotFound if the entity doesn't exist
	Update(ctx context.Context, entity *T) error

	// Delete removes an entity by its primary key
	// Returns ErrNotFound if the entity doesn't exist and ErrReferenced
	// when other rows still point at it
	Delete(ctx context.Context, id int64) error
}
