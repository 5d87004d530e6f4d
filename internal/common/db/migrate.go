package db

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"fantasy/pkg/utils/logger"

	"go.uber.org/zap"
)

// Migration is one versioned schema change loaded from a file named
// "<version>_<name>_<dialect>.up.sql", e.g. "0001_create_tables_sqlite.up.sql".
type Migration struct {
	Version int64
	Name    string
	SQL     string
}

func migrationsTableSchema(dialect Dialect) string {
	switch dialect {
	case DialectPostgres:
		return `CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			version INTEGER NOT NULL UNIQUE
		)`
	case DialectMySQL:
		return `CREATE TABLE IF NOT EXISTS migrations (
			id INT NOT NULL AUTO_INCREMENT,
			name TEXT NOT NULL,
			version INT NOT NULL,
			UNIQUE (version),
			PRIMARY KEY (id)
		)`
	default:
		return `CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			version INTEGER NOT NULL UNIQUE
		)`
	}
}

// LoadMigrations reads the up migrations for dialect from fsys, oldest first.
func LoadMigrations(fsys fs.FS, dialect Dialect) ([]Migration, error) {
	suffix := "_" + string(dialect) + ".up.sql"
	files, err := fs.Glob(fsys, "*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("list migrations failed: %w", err)
	}

	migrations := make([]Migration, 0, len(files))
	for _, file := range files {
		base := strings.TrimSuffix(path.Base(file), suffix)
		versionPart, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("invalid migration file name %q", file)
		}
		version, err := strconv.ParseInt(versionPart, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version in %q: %w", file, err)
		}
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read migration %q failed: %w", file, err)
		}
		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(data)})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// Migrate applies every migration in fsys newer than the recorded version.
func Migrate(ctx context.Context, database Database, fsys fs.FS) error {
	dialect := database.Dialect()
	migrations, err := LoadMigrations(fsys, dialect)
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		return fmt.Errorf("no migrations found for dialect %s", dialect)
	}

	if _, err := database.Exec(ctx, migrationsTableSchema(dialect)); err != nil {
		return fmt.Errorf("create migrations table failed: %w", err)
	}

	var current int64
	if err := database.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&current); err != nil {
		return fmt.Errorf("read migration version failed: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		logger.Info(ctx, "running migration", zap.Int64("version", m.Version), zap.String("name", m.Name))
		err := database.Transaction(ctx, func(tx Transaction) error {
			if err := ExecScript(ctx, tx, m.SQL); err != nil {
				return fmt.Errorf("migration %d %s failed: %w", m.Version, m.Name, err)
			}
			_, err := tx.Exec(ctx, "INSERT INTO migrations (name, version) VALUES (?, ?)", m.Name, m.Version)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ExecScript runs every statement of a SQL script in order.
func ExecScript(ctx context.Context, q Querier, script string) error {
	for _, stmt := range splitStatements(script) {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// splitStatements splits a script on ';' line endings and drops comments.
// Migration files must not contain ';' inside string literals.
func splitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(current.String()), ";")
			if stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		statements = append(statements, rest)
	}
	return statements
}
