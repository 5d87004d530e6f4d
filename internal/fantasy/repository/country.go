package repository

import (
	"context"
	"errors"
	"time"

	"fantasy/internal/common/cache"
	"fantasy/internal/common/db"
	"fantasy/internal/fantasy/model"
	pkgrepo "fantasy/pkg/repository"
)

const (
	defaultComboTTL      = 30 * time.Minute
	defaultComboEmptyTTL = time.Minute
	countryComboKey      = "fantasy:countries:combo"
)

// CountryRepository reads and writes countries. Reads that return full
// countries load their teams with an explicit second query.
type CountryRepository interface {
	pkgrepo.Repository[model.Country]

	// GetCombo returns every country as an id/name pair ordered by name.
	GetCombo(ctx context.Context) ([]model.CountryCombo, error)
}

type SQLCountryRepository struct {
	crud     crud[model.Country]
	cache    cache.Cache
	ttl      time.Duration
	emptyTTL time.Duration
}

// NewCountryRepository creates a country repository. cacheClient may be nil.
func NewCountryRepository(provider db.Provider, cacheClient cache.Cache) *SQLCountryRepository {
	return NewCountryRepositoryWithTTL(provider, cacheClient, defaultComboTTL, defaultComboEmptyTTL)
}

func NewCountryRepositoryWithTTL(provider db.Provider, cacheClient cache.Cache, ttl, emptyTTL time.Duration) *SQLCountryRepository {
	if ttl <= 0 {
		ttl = defaultComboTTL
	}
	if emptyTTL <= 0 {
		emptyTTL = defaultComboEmptyTTL
	}
	return &SQLCountryRepository{
		crud: crud[model.Country]{
			provider:     provider,
			table:        "countries",
			from:         "countries c",
			columns:      "c.id, c.name",
			idColumn:     "c.id",
			nameColumn:   "c.name",
			filterColumn: "c.name",
			scan:         scanCountry,
		},
		cache:    cacheClient,
		ttl:      ttl,
		emptyTTL: emptyTTL,
	}
}

func (r *SQLCountryRepository) GetByID(ctx context.Context, id int64) (*model.Country, error) {
	database, err := r.crud.database()
	if err != nil {
		return nil, err
	}
	country, err := r.crud.getByID(ctx, database, id)
	if err != nil {
		return nil, err
	}
	if err := loadTeams(ctx, database, []*model.Country{country}); err != nil {
		return nil, err
	}
	return country, nil
}

func (r *SQLCountryRepository) GetAll(ctx context.Context) ([]*model.Country, error) {
	database, err := r.crud.database()
	if err != nil {
		return nil, err
	}
	countries, err := r.crud.getAll(ctx, database)
	if err != nil {
		return nil, err
	}
	if err := loadTeams(ctx, database, countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *SQLCountryRepository) GetPaginated(ctx context.Context, pagination pkgrepo.Pagination) ([]*model.Country, error) {
	database, err := r.crud.database()
	if err != nil {
		return nil, err
	}
	countries, err := r.crud.getPaginated(ctx, database, pagination)
	if err != nil {
		return nil, err
	}
	if err := loadTeams(ctx, database, countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (r *SQLCountryRepository) GetTotalRecords(ctx context.Context, pagination pkgrepo.Pagination) (int64, error) {
	database, err := r.crud.database()
	if err != nil {
		return 0, err
	}
	return r.crud.getTotalRecords(ctx, database, pagination)
}

func (r *SQLCountryRepository) GetCombo(ctx context.Context) ([]model.CountryCombo, error) {
	items, err := cache.GetJSONWithCached(ctx, r.cache, countryComboKey, r.ttl, r.emptyTTL, r.getComboFromDB)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.CountryCombo{}
	}
	return items, nil
}

func (r *SQLCountryRepository) getComboFromDB(ctx context.Context) ([]model.CountryCombo, error) {
	database, err := r.crud.database()
	if err != nil {
		return nil, err
	}
	rows, err := database.Query(ctx, "SELECT id, name FROM countries ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CountryCombo, 0)
	for rows.Next() {
		var item model.CountryCombo
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SQLCountryRepository) Create(ctx context.Context, country *model.Country) error {
	if country == nil {
		return errors.New("country is nil")
	}
	database, err := r.crud.database()
	if err != nil {
		return err
	}
	return cache.UpdateCached(ctx, r.cache, func(ctx context.Context) error {
		id, err := r.crud.insert(ctx, database, "INSERT INTO countries (name) VALUES (?)", country.Name)
		if err != nil {
			return err
		}
		country.ID = id
		return nil
	}, countryComboKey)
}

func (r *SQLCountryRepository) Update(ctx context.Context, country *model.Country) error {
	if country == nil {
		return errors.New("country is nil")
	}
	database, err := r.crud.database()
	if err != nil {
		return err
	}
	return cache.UpdateCached(ctx, r.cache, func(ctx context.Context) error {
		return r.crud.update(ctx, database, country.ID, "UPDATE countries SET name = ? WHERE id = ?", country.Name, country.ID)
	}, countryComboKey)
}

func (r *SQLCountryRepository) Delete(ctx context.Context, id int64) error {
	database, err := r.crud.database()
	if err != nil {
		return err
	}
	return cache.UpdateCached(ctx, r.cache, func(ctx context.Context) error {
		return r.crud.delete(ctx, database, id)
	}, countryComboKey)
}

func scanCountry(scanner db.Scanner) (*model.Country, error) {
	var country model.Country
	if err := scanner.Scan(&country.ID, &country.Name); err != nil {
		return nil, err
	}
	return &country, nil
}

// loadTeams fills Teams of every country with one query, teams ordered by name.
func loadTeams(ctx context.Context, q db.Querier, countries []*model.Country) error {
	if len(countries) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Country, len(countries))
	args := make([]interface{}, 0, len(countries))
	for _, country := range countries {
		country.Teams = []*model.Team{}
		byID[country.ID] = country
		args = append(args, country.ID)
	}

	query := "SELECT id, name, image, country_id, is_image_square FROM teams WHERE country_id IN (" +
		placeholders(len(args)) + ") ORDER BY name, id"
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		team, err := scanTeamRow(rows)
		if err != nil {
			return err
		}
		if country, ok := byID[team.CountryID]; ok {
			country.Teams = append(country.Teams, team)
		}
	}
	return rows.Err()
}
