package repository

import "errors"

// Sentinels returned by every Repository implementation. Drivers' constraint
// errors are translated into these so services never see driver types.
var (
	ErrNotFound = errors.New("entity not found")
	// ErrAlreadyExists reports a unique index violation.
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrForeignKey reports a write that references a missing row.
	ErrForeignKey = errors.New("referenced entity does not exist")
	// ErrReferenced reports a delete blocked by rows that still point here.
	ErrReferenced = errors.New("entity is still referenced")
)
