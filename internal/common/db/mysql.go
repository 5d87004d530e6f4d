package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const (
	mysqlDuplicateEntry       = 1062
	mysqlRowIsReferenced      = 1451
	mysqlNoReferencedRow      = 1452
	mysqlRowIsReferencedNamed = 1217
	mysqlNoReferencedRowNamed = 1216
)

// NewMySQL creates a new MySQL database connection with connection pool
// DSN format: "user:password@tcp(host:port)/dbname?parseTime=true&loc=Local"
func NewMySQL(dsn string) (*SQLDatabase, error) {
	config := DefaultConfig()
	config.Driver = string(DialectMySQL)
	config.DSN = dsn
	return NewMySQLWithConfig(config)
}

// NewMySQLWithConfig creates a new MySQL database connection with custom configuration
func NewMySQLWithConfig(config *Config) (*SQLDatabase, error) {
	return openSQL(DialectMySQL, config.DSN, config)
}

func mysqlUniqueViolation(err error) (string, bool) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return ExtractDuplicateKeyName(myErr.Message), true
	}
	return "", false
}

func mysqlForeignKeyViolation(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	switch myErr.Number {
	case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferencedNamed, mysqlNoReferencedRowNamed:
		return true
	}
	return false
}

// ExtractDuplicateKeyName parses duplicate key name from MySQL error message.
func ExtractDuplicateKeyName(message string) string {
	if message == "" {
		return ""
	}
	const marker = "for key "
	idx := strings.LastIndex(message, marker)
	if idx == -1 {
		return ""
	}
	key := strings.TrimSpace(message[idx+len(marker):])
	key = strings.Trim(key, " `\"'")
	// MySQL 8 prefixes the index with its table: "countries.ix_countries_name".
	if dot := strings.LastIndex(key, "."); dot != -1 {
		key = key[dot+1:]
	}
	return key
}
