package main

import (
	"database/sql"
	"fmt"
	"time"
)

// Dialect abstracts one engine's catalog layout and literal syntax so the
// export and conversion paths can be written once. Catalog reads return
// columns in enumeration order; implementations must not reorder them.
type Dialect interface {
	// Name returns a human-readable engine name ("MySQL", "Oracle", ...).
	Name() string

	// Key returns the config/registry key ("mysql", "oracle", ...).
	Key() string

	// OpenDB opens a database/sql handle with engine-specific DSN options
	// applied (read-only where the driver supports it).
	OpenDB(dsn string) (*sql.DB, error)

	// DefaultSchema derives the schema/owner/database name to introspect
	// when the config does not name one. May return "" for engines where
	// the connection itself scopes the catalog.
	DefaultSchema(dsn string) (string, error)

	// ListTables returns base table names in deterministic order.
	ListTables(db *sql.DB, schemaName string) ([]string, error)

	// DescribeColumns returns the table's columns in catalog order.
	DescribeColumns(db *sql.DB, schemaName, tableName string) ([]Column, error)

	// ListSourceObjects discovers views, routines and triggers that a
	// generated script will not cover.
	ListSourceObjects(db *sql.DB, schemaName string) (*SourceObjects, error)

	// QuoteIdentifier quotes an identifier for use in queries against this
	// engine.
	QuoteIdentifier(name string) string

	// DateLiteral renders a date value in this dialect's literal syntax.
	DateLiteral(t time.Time) string

	// TimestampLiteral renders a timestamp value, including time-of-day
	// and fractional seconds where the dialect wants them.
	TimestampLiteral(t time.Time) string

	// BytesLiteral renders a binary value as a hex literal.
	BytesLiteral(b []byte) string
}

// collectStringRows collects single-column string results.
func collectStringRows(db *sql.DB, query string, args []any, out *[]string) error {
	rows, err := db.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return err
		}
		*out = append(*out, v)
	}
	return rows.Err()
}

// newDialect returns the adapter for a dialect key. The set is closed;
// conversion support per pair is decided separately by conversionFor.
func newDialect(key string) (Dialect, error) {
	switch key {
	case "mysql":
		return &mysqlDialect{}, nil
	case "oracle":
		return &oracleDialect{}, nil
	case "postgres":
		return &postgresDialect{}, nil
	case "sqlite":
		return &sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q (must be mysql, oracle, postgres or sqlite)", key)
	}
}
