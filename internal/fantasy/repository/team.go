package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"fantasy/internal/common/cache"
	"fantasy/internal/common/db"
	"fantasy/internal/fantasy/model"
	pkgrepo "fantasy/pkg/repository"
)

const teamComboKeyPrefix = "fantasy:teams:combo:"

// TeamRepository reads and writes teams. Every read joins the owning
// country and the pagination filter matches the country name.
type TeamRepository interface {
	pkgrepo.Repository[model.Team]

	// GetCombo returns the teams of a country as id/name pairs ordered by name.
	GetCombo(ctx context.Context, countryID int64) ([]model.TeamCombo, error)
}

type SQLTeamRepository struct {
	crud     crud[model.Team]
	cache    cache.Cache
	ttl      time.Duration
	emptyTTL time.Duration
}

// NewTeamRepository creates a team repository. cacheClient may be nil.
func NewTeamRepository(provider db.Provider, cacheClient cache.Cache) *SQLTeamRepository {
	return NewTeamRepositoryWithTTL(provider, cacheClient, defaultComboTTL, defaultComboEmptyTTL)
}

func NewTeamRepositoryWithTTL(provider db.Provider, cacheClient cache.Cache, ttl, emptyTTL time.Duration) *SQLTeamRepository {
	if ttl <= 0 {
		ttl = defaultComboTTL
	}
	if emptyTTL <= 0 {
		emptyTTL = defaultComboEmptyTTL
	}
	return &SQLTeamRepository{
		crud: crud[model.Team]{
			provider:     provider,
			table:        "teams",
			from:         "teams t INNER JOIN countries c ON c.id = t.country_id",
			columns:      "t.id, t.name, t.image, t.country_id, t.is_image_square, c.id, c.name",
			idColumn:     "t.id",
			nameColumn:   "t.name",
			filterColumn: "c.name",
			scan:         scanTeamWithCountry,
		},
		cache:    cacheClient,
		ttl:      ttl,
		emptyTTL: emptyTTL,
	}
}

func (r *SQLTeamRepository) GetByID(ctx context.Context, id int64) (*model.Team, error) {
	database, err := r.crud.database()
	if err != nil {
		return nil, err
	}
	return r.crud.getByID(ctx, database, id)
}

func (r *SQLTeamRepository) GetAll(ctx context.Context) ([]*model.Team, error) {
	database, err := r.crud.database()
	if err != nil {
		return nil, err
	}
	return r.crud.getAll(ctx, database)
}

func (r *SQLTeamRepository) GetPaginated(ctx context.Context, pagination pkgrepo.Pagination) ([]*model.Team, error) {
	database, err := r.crud.database()
	if err != nil {
		return nil, err
	}
	return r.crud.getPaginated(ctx, database, pagination)
}

func (r *SQLTeamRepository) GetTotalRecords(ctx context.Context, pagination pkgrepo.Pagination) (int64, error) {
	database, err := r.crud.database()
	if err != nil {
		return 0, err
	}
	return r.crud.getTotalRecords(ctx, database, pagination)
}

func (r *SQLTeamRepository) GetCombo(ctx context.Context, countryID int64) ([]model.TeamCombo, error) {
	items, err := cache.GetJSONWithCached(ctx, r.cache, teamComboKey(countryID), r.ttl, r.emptyTTL,
		func(ctx context.Context) ([]model.TeamCombo, error) {
			return r.getComboFromDB(ctx, countryID)
		})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.TeamCombo{}
	}
	return items, nil
}

func (r *SQLTeamRepository) getComboFromDB(ctx context.Context, countryID int64) ([]model.TeamCombo, error) {
	database, err := r.crud.database()
	if err != nil {
		return nil, err
	}
	rows, err := database.Query(ctx, "SELECT id, name FROM teams WHERE country_id = ? ORDER BY name, id", countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.TeamCombo, 0)
	for rows.Next() {
		var item model.TeamCombo
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *SQLTeamRepository) Create(ctx context.Context, team *model.Team) error {
	if team == nil {
		return errors.New("team is nil")
	}
	database, err := r.crud.database()
	if err != nil {
		return err
	}
	return cache.UpdateCached(ctx, r.cache, func(ctx context.Context) error {
		id, err := r.crud.insert(ctx, database,
			"INSERT INTO teams (name, image, country_id, is_image_square) VALUES (?, ?, ?, ?)",
			team.Name, nullableString(team.Image), team.CountryID, team.IsImageSquare)
		if err != nil {
			return err
		}
		team.ID = id
		return nil
	}, teamComboKey(team.CountryID))
}

func (r *SQLTeamRepository) Update(ctx context.Context, team *model.Team) error {
	if team == nil {
		return errors.New("team is nil")
	}
	database, err := r.crud.database()
	if err != nil {
		return err
	}
	previousCountryID, err := r.countryIDOf(ctx, database, team.ID)
	if err != nil {
		return err
	}
	return cache.UpdateCached(ctx, r.cache, func(ctx context.Context) error {
		return r.crud.update(ctx, database, team.ID,
			"UPDATE teams SET name = ?, image = ?, country_id = ?, is_image_square = ? WHERE id = ?",
			team.Name, nullableString(team.Image), team.CountryID, team.IsImageSquare, team.ID)
	}, teamComboKey(previousCountryID), teamComboKey(team.CountryID))
}

func (r *SQLTeamRepository) Delete(ctx context.Context, id int64) error {
	database, err := r.crud.database()
	if err != nil {
		return err
	}
	countryID, err := r.countryIDOf(ctx, database, id)
	if err != nil {
		return err
	}
	return cache.UpdateCached(ctx, r.cache, func(ctx context.Context) error {
		return r.crud.delete(ctx, database, id)
	}, teamComboKey(countryID))
}

func (r *SQLTeamRepository) countryIDOf(ctx context.Context, q db.Querier, teamID int64) (int64, error) {
	var countryID int64
	err := q.QueryRow(ctx, "SELECT country_id FROM teams WHERE id = ?", teamID).Scan(&countryID)
	if err != nil {
		if db.IsNoRows(err) {
			return 0, pkgrepo.ErrNotFound
		}
		return 0, err
	}
	return countryID, nil
}

func teamComboKey(countryID int64) string {
	return teamComboKeyPrefix + strconv.FormatInt(countryID, 10)
}

func nullableString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func scanTeamRow(scanner db.Scanner) (*model.Team, error) {
	var (
		team  model.Team
		image sql.NullString
	)
	if err := scanner.Scan(&team.ID, &team.Name, &image, &team.CountryID, &team.IsImageSquare); err != nil {
		return nil, err
	}
	team.Image = image.String
	return &team, nil
}

func scanTeamWithCountry(scanner db.Scanner) (*model.Team, error) {
	var (
		team    model.Team
		country model.Country
		image   sql.NullString
	)
	err := scanner.Scan(&team.ID, &team.Name, &image, &team.CountryID, &team.IsImageSquare, &country.ID, &country.Name)
	if err != nil {
		return nil, err
	}
	team.Image = image.String
	team.Country = &country
	return &team, nil
}
