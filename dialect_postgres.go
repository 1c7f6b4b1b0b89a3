package main

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"
)

// postgresDialect is export-only: it can read the catalog and emit native
// schema/data scripts, but no conversion direction is defined for it.
type postgresDialect struct{}

func (p *postgresDialect) Name() string { return "PostgreSQL" }
func (p *postgresDialect) Key() string  { return "postgres" }

func (p *postgresDialect) OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (p *postgresDialect) DefaultSchema(string) (string, error) { return "public", nil }

func (p *postgresDialect) ListTables(db *sql.DB, schemaName string) ([]string, error) {
	var tables []string
	err := collectStringRows(db,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		 ORDER BY table_name`,
		[]any{schemaName}, &tables)
	if err != nil {
		return nil, fmt.Errorf("list tables for %s: %w", schemaName, err)
	}
	return tables, nil
}

func (p *postgresDialect) DescribeColumns(db *sql.DB, schemaName, tableName string) ([]Column, error) {
	rows, err := db.Query(
		`SELECT column_name, data_type,
		        character_maximum_length, numeric_precision, numeric_scale,
		        is_nullable, ordinal_position
		 FROM information_schema.columns
		 WHERE table_schema = $1 AND table_name = $2
		 ORDER BY ordinal_position`,
		schemaName, tableName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		var charLen, prec, scale sql.NullInt64
		var nullable string
		if err := rows.Scan(
			&c.Name, &c.DataType,
			&charLen, &prec, &scale,
			&nullable, &c.OrdinalPos,
		); err != nil {
			return nil, err
		}
		c.Nullable = strings.EqualFold(nullable, "YES")
		if charLen.Valid {
			c.CharMaxLen = int64ptr(charLen.Int64)
		}
		if prec.Valid {
			c.Precision = int64ptr(prec.Int64)
		}
		if scale.Valid {
			c.Scale = int64ptr(scale.Int64)
		}
		c.ColumnType = pgColumnType(c)
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// pgColumnType re-assembles the native rendering; information_schema keeps
// the size attributes in separate columns.
func pgColumnType(c Column) string {
	switch c.DataType {
	case "character varying", "character", "bit", "bit varying":
		if c.CharMaxLen != nil {
			return fmt.Sprintf("%s(%d)", c.DataType, *c.CharMaxLen)
		}
	case "numeric", "decimal":
		if c.Precision != nil {
			if c.Scale != nil && *c.Scale != 0 {
				return fmt.Sprintf("%s(%d,%d)", c.DataType, *c.Precision, *c.Scale)
			}
			return fmt.Sprintf("%s(%d)", c.DataType, *c.Precision)
		}
	}
	return c.DataType
}

func (p *postgresDialect) ListSourceObjects(db *sql.DB, schemaName string) (*SourceObjects, error) {
	objs := &SourceObjects{}

	if err := collectStringRows(db,
		`SELECT table_name FROM information_schema.views
		 WHERE table_schema = $1 ORDER BY table_name`,
		[]any{schemaName}, &objs.Views); err != nil {
		return nil, fmt.Errorf("introspect views: %w", err)
	}
	if err := collectStringRows(db,
		`SELECT routine_type || ' ' || routine_name FROM information_schema.routines
		 WHERE routine_schema = $1 ORDER BY routine_type, routine_name`,
		[]any{schemaName}, &objs.Routines); err != nil {
		return nil, fmt.Errorf("introspect routines: %w", err)
	}
	if err := collectStringRows(db,
		`SELECT DISTINCT trigger_name FROM information_schema.triggers
		 WHERE trigger_schema = $1 ORDER BY trigger_name`,
		[]any{schemaName}, &objs.Triggers); err != nil {
		return nil, fmt.Errorf("introspect triggers: %w", err)
	}
	return objs, nil
}

func (p *postgresDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (p *postgresDialect) DateLiteral(t time.Time) string {
	return "'" + t.Format("2006-01-02") + "'"
}

func (p *postgresDialect) TimestampLiteral(t time.Time) string {
	return "'" + t.Format("2006-01-02 15:04:05.000000") + "'"
}

func (p *postgresDialect) BytesLiteral(b []byte) string {
	return `'\x` + strings.ToUpper(hex.EncodeToString(b)) + `'`
}
