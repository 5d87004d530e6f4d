package db

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
)

var testMigrations = fstest.MapFS{
	"0001_create_tables_sqlite.up.sql": &fstest.MapFile{Data: []byte(`
-- parents and children
CREATE TABLE parents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE UNIQUE INDEX ix_parents_name ON parents (name);
CREATE TABLE children (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	parent_id INTEGER NOT NULL REFERENCES parents (id) ON DELETE RESTRICT
);
`)},
	"0002_add_note_sqlite.up.sql":     &fstest.MapFile{Data: []byte(`ALTER TABLE parents ADD COLUMN note TEXT;`)},
	"0001_create_tables_mysql.up.sql": &fstest.MapFile{Data: []byte(`CREATE TABLE ignored (id INT);`)},
}

func openTestSQLite(t *testing.T) *SQLDatabase {
	t.Helper()
	database, err := NewSQLite("file:" + filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestLoadMigrationsFiltersDialect(t *testing.T) {
	migrations, err := LoadMigrations(testMigrations, DialectSQLite)
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "create_tables" {
		t.Fatalf("unexpected first migration %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "add_note" {
		t.Fatalf("unexpected second migration %+v", migrations[1])
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	database := openTestSQLite(t)

	if err := Migrate(ctx, database, testMigrations); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(ctx, database, testMigrations); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var version int64
	if err := database.QueryRow(ctx, "SELECT MAX(version) FROM migrations").Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != 2 {
		t.Fatalf("version = %d, want 2", version)
	}
	if _, err := database.Exec(ctx, "INSERT INTO parents (name, note) VALUES (?, ?)", "a", "n"); err != nil {
		t.Fatalf("insert after migrate: %v", err)
	}
}

func TestMigrateWithoutMigrations(t *testing.T) {
	database := openTestSQLite(t)
	if err := Migrate(context.Background(), database, fstest.MapFS{}); err == nil {
		t.Fatal("expected error when no migrations match")
	}
}

func TestSQLiteConstraintClassification(t *testing.T) {
	ctx := context.Background()
	database := openTestSQLite(t)
	if err := Migrate(ctx, database, testMigrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	parentID, err := InsertReturningID(ctx, database, "INSERT INTO parents (name) VALUES (?)", "Colombia")
	if err != nil {
		t.Fatalf("insert parent: %v", err)
	}
	if parentID != 1 {
		t.Fatalf("parent id = %d, want 1", parentID)
	}

	_, err = database.Exec(ctx, "INSERT INTO parents (name) VALUES (?)", "Colombia")
	key, ok := UniqueViolation(err)
	if !ok {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if key != "parents.name" {
		t.Fatalf("unique key = %q, want parents.name", key)
	}
	if ForeignKeyViolation(err) {
		t.Fatal("unique violation classified as foreign key")
	}

	_, err = database.Exec(ctx, "INSERT INTO children (parent_id) VALUES (?)", 42)
	if !ForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation for missing parent, got %v", err)
	}

	if _, err := database.Exec(ctx, "INSERT INTO children (parent_id) VALUES (?)", parentID); err != nil {
		t.Fatalf("insert child: %v", err)
	}
	_, err = database.Exec(ctx, "DELETE FROM parents WHERE id = ?", parentID)
	if !ForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation for referenced parent, got %v", err)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	database := openTestSQLite(t)
	if err := Migrate(ctx, database, testMigrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	err := database.Transaction(ctx, func(tx Transaction) error {
		if _, err := tx.Exec(ctx, "INSERT INTO parents (name) VALUES (?)", "Peru"); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, "INSERT INTO parents (name) VALUES (?)", "Peru")
		return err
	})
	if err == nil {
		t.Fatal("expected duplicate error from transaction")
	}

	var count int64
	if err := database.QueryRow(ctx, "SELECT COUNT(*) FROM parents").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0 after rollback", count)
	}

	err = database.QueryRow(ctx, "SELECT id FROM parents WHERE name = ?", "Peru").Scan(&count)
	if !IsNoRows(err) {
		t.Fatalf("expected no rows, got %v", err)
	}
}
