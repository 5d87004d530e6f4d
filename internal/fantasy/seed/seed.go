package seed

import (
	"context"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"fantasy/internal/common/db"
	"fantasy/internal/common/storage"
	"fantasy/internal/fantasy/model"
	"fantasy/internal/fantasy/repository"
	pkgrepo "fantasy/pkg/repository"
	"fantasy/pkg/utils/logger"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"go.uber.org/zap"
)

//go:embed data/countries.sql
var countriesScript string

// colombianClubs are seeded for Colombia next to the country-named team.
var colombianClubs = []string{
	"America de Cali",
	"Atletico Nacional",
	"Deportivo Cali",
	"Deportes Tolima",
	"Independiente Medellin",
	"Junior",
	"Millonarios",
	"Once Caldas",
	"Santa Fe",
}

const colombia = "Colombia"

// Config controls where seed images are read from.
type Config struct {
	// FlagsDir holds "<name>.png" pictures for seeded teams; an AFS URL or a path.
	FlagsDir string `yaml:"flagsDir"`
}

// Seeder brings an empty database to a usable state: schema, countries and
// one team per country.
type Seeder struct {
	provider  db.Provider
	countries repository.CountryRepository
	teams     repository.TeamRepository
	blobs     storage.BlobStorage
	fs        afs.Service
	flagsURL  string
}

// NewSeeder creates a Seeder. blobs may be nil, in which case teams are seeded without images.
func NewSeeder(provider db.Provider, countries repository.CountryRepository, teams repository.TeamRepository, blobs storage.BlobStorage, cfg Config) *Seeder {
	return &Seeder{
		provider:  provider,
		countries: countries,
		teams:     teams,
		blobs:     blobs,
		fs:        afs.New(),
		flagsURL:  flagsURL(cfg.FlagsDir),
	}
}

// Seed migrates the schema, then loads countries and teams into empty tables.
func (s *Seeder) Seed(ctx context.Context) error {
	database, err := db.CurrentDatabase(s.provider)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, database, repository.Migrations()); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	if err := s.checkCountries(ctx, database); err != nil {
		return err
	}
	return s.checkTeams(ctx)
}

func (s *Seeder) checkCountries(ctx context.Context, database db.Database) error {
	total, err := s.countries.GetTotalRecords(ctx, pkgrepo.Pagination{})
	if err != nil {
		return fmt.Errorf("count countries failed: %w", err)
	}
	if total > 0 {
		return nil
	}
	err = database.Transaction(ctx, func(tx db.Transaction) error {
		return db.ExecScript(ctx, tx, countriesScript)
	})
	if err != nil {
		return fmt.Errorf("seed countries failed: %w", err)
	}
	logger.Info(ctx, "countries seeded")
	return nil
}

func (s *Seeder) checkTeams(ctx context.Context) error {
	total, err := s.teams.GetTotalRecords(ctx, pkgrepo.Pagination{})
	if err != nil {
		return fmt.Errorf("count teams failed: %w", err)
	}
	if total > 0 {
		return nil
	}
	countries, err := s.countries.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list countries failed: %w", err)
	}

	created := 0
	for _, country := range countries {
		for _, name := range teamNames(country) {
			team := &model.Team{
				Name:      name,
				CountryID: country.ID,
				Image:     s.uploadImage(ctx, name),
			}
			if err := s.teams.Create(ctx, team); err != nil {
				return fmt.Errorf("seed team %q failed: %w", name, err)
			}
			created++
		}
	}
	logger.Info(ctx, "teams seeded", zap.Int("count", created))
	return nil
}

func teamNames(country *model.Country) []string {
	if country.Name == colombia {
		return append([]string{country.Name}, colombianClubs...)
	}
	return []string{country.Name}
}

// uploadImage stores "<flagsDir>/<name>.png" when present and returns its
// locator; any failure leaves the team without an image.
func (s *Seeder) uploadImage(ctx context.Context, name string) string {
	if s.blobs == nil || s.flagsURL == "" {
		return ""
	}
	source := url.Join(s.flagsURL, name+".png")
	exists, err := s.fs.Exists(ctx, source)
	if err != nil || !exists {
		return ""
	}
	content, err := s.fs.DownloadWithURL(ctx, source)
	if err != nil {
		logger.Warn(ctx, "read seed image failed", zap.String("source", source), zap.Error(err))
		return ""
	}
	locator, err := s.blobs.SaveFile(ctx, content, ".jpg", "teams")
	if err != nil {
		logger.Warn(ctx, "store seed image failed", zap.String("source", source), zap.Error(err))
		return ""
	}
	return locator
}

func flagsURL(dir string) string {
	dir = strings.TrimRight(strings.TrimSpace(dir), "/")
	if dir == "" || strings.Contains(dir, "://") {
		return dir
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return "file://" + filepath.ToSlash(dir)
}
