package db

import (
	"database/sql/driver"
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqlitePragmas are appended to every SQLite DSN; foreign keys are off by
// default in SQLite and the schema relies on ON DELETE RESTRICT.
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
}

func init() {
	// SQLite's built-in lower() folds ASCII only; filters must match "Österreich" as well.
	sqlite.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// NewSQLite opens a SQLite database file.
// DSN format: "file:fantasy.db" or a plain path.
func NewSQLite(dsn string) (*SQLDatabase, error) {
	config := DefaultConfig()
	config.Driver = string(DialectSQLite)
	config.DSN = dsn
	return NewSQLiteWithConfig(config)
}

// NewSQLiteWithConfig opens a SQLite database with custom configuration
func NewSQLiteWithConfig(config *Config) (*SQLDatabase, error) {
	return openSQL(DialectSQLite, sqliteDSN(config.DSN), config)
}

func sqliteDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	var missing []string
	for _, pragma := range sqlitePragmas {
		if !strings.Contains(dsn, pragma) {
			missing = append(missing, pragma)
		}
	}
	if len(missing) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(missing, "&")
}

func sqliteCode(err error) (int, bool) {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return 0, false
	}
	return liteErr.Code(), true
}

func sqliteUniqueViolation(err error) (string, bool) {
	code, ok := sqliteCode(err)
	if !ok {
		return "", false
	}
	if code != sqlite3.SQLITE_CONSTRAINT_UNIQUE && code != sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return "", false
	}
	// "UNIQUE constraint failed: countries.name (2067)"
	msg := err.Error()
	if idx := strings.LastIndex(msg, "failed: "); idx != -1 {
		msg = msg[idx+len("failed: "):]
	}
	if idx := strings.Index(msg, " ("); idx != -1 {
		msg = msg[:idx]
	}
	return msg, true
}

func sqliteForeignKeyViolation(err error) bool {
	code, ok := sqliteCode(err)
	return ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}
