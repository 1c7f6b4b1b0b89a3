package main

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// sqliteDialect is export-only. SQLite files have no server-side catalog
// service, so everything comes from sqlite_master and table_info pragmas.
type sqliteDialect struct{}

func (s *sqliteDialect) Name() string { return "SQLite" }
func (s *sqliteDialect) Key() string  { return "sqlite" }

func (s *sqliteDialect) OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// DefaultSchema derives a logical name from the file path, for header
// comments and logging only.
func (s *sqliteDialect) DefaultSchema(dsn string) (string, error) {
	path := dsn
	if strings.HasPrefix(dsn, "file:") {
		if u, err := url.Parse(dsn); err == nil {
			path = u.Path
			if path == "" {
				path = u.Opaque
			}
		} else {
			path = strings.TrimPrefix(dsn, "file:")
			if idx := strings.IndexByte(path, '?'); idx >= 0 {
				path = path[:idx]
			}
		}
	}
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	if base == "" || base == ":memory:" || base == "." {
		return "sqlite", nil
	}
	return base, nil
}

func (s *sqliteDialect) ListTables(db *sql.DB, _ string) ([]string, error) {
	var tables []string
	err := collectStringRows(db,
		`SELECT name FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		 ORDER BY name`,
		nil, &tables)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (s *sqliteDialect) DescribeColumns(db *sql.DB, _, tableName string) ([]Column, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", s.QuoteIdentifier(tableName)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var cid, notNull, pk int
		var name, declared string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &declared, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}

		c := Column{
			Name:       name,
			ColumnType: declared,
			Nullable:   notNull == 0,
			OrdinalPos: cid + 1,
		}
		c.DataType, c.CharMaxLen, c.Precision, c.Scale = splitDeclaredType(declared)
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// splitDeclaredType decomposes a SQLite declared type ("VARCHAR(50)",
// "DECIMAL(10,2)", "INTEGER") into a lowercased base type plus size
// attributes. A single number is a length, two numbers are precision and
// scale.
func splitDeclaredType(declared string) (base string, length, prec, scale *int64) {
	base = strings.ToLower(strings.TrimSpace(declared))
	open := strings.IndexByte(base, '(')
	if open < 0 {
		return base, nil, nil, nil
	}

	p, s := parseNumericSpec(base[open:])
	base = strings.TrimSpace(base[:open])
	if p == nil {
		return base, nil, nil, nil
	}
	if strings.Contains(declared, ",") {
		return base, nil, p, s
	}
	return base, p, nil, nil
}

func (s *sqliteDialect) ListSourceObjects(db *sql.DB, _ string) (*SourceObjects, error) {
	objs := &SourceObjects{}

	if err := collectStringRows(db,
		`SELECT name FROM sqlite_master WHERE type = 'view' ORDER BY name`,
		nil, &objs.Views); err != nil {
		return nil, fmt.Errorf("introspect views: %w", err)
	}
	if err := collectStringRows(db,
		`SELECT name FROM sqlite_master WHERE type = 'trigger' ORDER BY name`,
		nil, &objs.Triggers); err != nil {
		return nil, fmt.Errorf("introspect triggers: %w", err)
	}
	return objs, nil
}

func (s *sqliteDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *sqliteDialect) DateLiteral(t time.Time) string {
	return "'" + t.Format("2006-01-02") + "'"
}

func (s *sqliteDialect) TimestampLiteral(t time.Time) string {
	return "'" + t.Format("2006-01-02 15:04:05") + "'"
}

func (s *sqliteDialect) BytesLiteral(b []byte) string {
	return "X'" + strings.ToUpper(hex.EncodeToString(b)) + "'"
}
