package main

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	_ "github.com/sijms/go-ora/v2" // pure-Go Oracle driver, registers "oracle"
)

type oracleDialect struct{}

func (o *oracleDialect) Name() string { return "Oracle" }
func (o *oracleDialect) Key() string  { return "oracle" }

func (o *oracleDialect) OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("open oracle: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// DefaultSchema returns "" so catalog reads fall back to the USER_* views,
// which scope to the connected account.
func (o *oracleDialect) DefaultSchema(string) (string, error) { return "", nil }

func (o *oracleDialect) ListTables(db *sql.DB, schemaName string) ([]string, error) {
	var tables []string
	if schemaName == "" {
		if err := collectStringRows(db,
			`SELECT table_name FROM user_tables ORDER BY table_name`,
			nil, &tables); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		return tables, nil
	}
	if err := collectStringRows(db,
		`SELECT table_name FROM all_tables WHERE owner = :1 ORDER BY table_name`,
		[]any{strings.ToUpper(schemaName)}, &tables); err != nil {
		return nil, fmt.Errorf("list tables for %s: %w", schemaName, err)
	}
	return tables, nil
}

func (o *oracleDialect) DescribeColumns(db *sql.DB, schemaName, tableName string) ([]Column, error) {
	query := `SELECT column_name, data_type, data_length, char_length, data_precision, data_scale, nullable, column_id
	          FROM user_tab_columns WHERE table_name = :1 ORDER BY column_id`
	args := []any{strings.ToUpper(tableName)}
	if schemaName != "" {
		query = `SELECT column_name, data_type, data_length, char_length, data_precision, data_scale, nullable, column_id
		         FROM all_tab_columns WHERE owner = :1 AND table_name = :2 ORDER BY column_id`
		args = []any{strings.ToUpper(schemaName), strings.ToUpper(tableName)}
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		var dataLength, charLength, prec, scale sql.NullInt64
		var nullable string
		if err := rows.Scan(
			&c.Name, &c.DataType, &dataLength, &charLength,
			&prec, &scale, &nullable, &c.OrdinalPos,
		); err != nil {
			return nil, err
		}
		c.Nullable = nullable != "N"
		if charLength.Valid && charLength.Int64 > 0 {
			c.CharMaxLen = int64ptr(charLength.Int64)
		} else if dataLength.Valid && dataLength.Int64 > 0 && oracleTypeHasLength(c.DataType) {
			c.CharMaxLen = int64ptr(dataLength.Int64)
		}
		if prec.Valid {
			c.Precision = int64ptr(prec.Int64)
		}
		if scale.Valid {
			c.Scale = int64ptr(scale.Int64)
		}
		c.ColumnType = oracleColumnType(c)
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// oracleColumnType re-assembles the native rendering from catalog fields,
// since *_TAB_COLUMNS stores the size attributes separately.
func oracleColumnType(c Column) string {
	switch baseOracleType(c.DataType) {
	case "NUMBER":
		if c.Precision == nil {
			return "NUMBER"
		}
		if c.Scale == nil || *c.Scale == 0 {
			return fmt.Sprintf("NUMBER(%d)", *c.Precision)
		}
		return fmt.Sprintf("NUMBER(%d,%d)", *c.Precision, *c.Scale)
	case "VARCHAR2", "NVARCHAR2", "CHAR", "NCHAR", "RAW":
		if c.CharMaxLen != nil {
			return fmt.Sprintf("%s(%d)", c.DataType, *c.CharMaxLen)
		}
	}
	return c.DataType
}

func oracleTypeHasLength(dataType string) bool {
	switch baseOracleType(dataType) {
	case "VARCHAR2", "NVARCHAR2", "CHAR", "NCHAR", "RAW":
		return true
	}
	return false
}

func (o *oracleDialect) ListSourceObjects(db *sql.DB, schemaName string) (*SourceObjects, error) {
	objs := &SourceObjects{}
	owner := strings.ToUpper(schemaName)

	views := `SELECT view_name FROM user_views ORDER BY view_name`
	routines := `SELECT object_type || ' ' || object_name FROM user_objects
	             WHERE object_type IN ('PROCEDURE', 'FUNCTION') ORDER BY object_type, object_name`
	triggers := `SELECT trigger_name FROM user_triggers ORDER BY trigger_name`
	var args []any
	if owner != "" {
		views = `SELECT view_name FROM all_views WHERE owner = :1 ORDER BY view_name`
		routines = `SELECT object_type || ' ' || object_name FROM all_objects
		            WHERE owner = :1 AND object_type IN ('PROCEDURE', 'FUNCTION') ORDER BY object_type, object_name`
		triggers = `SELECT trigger_name FROM all_triggers WHERE owner = :1 ORDER BY trigger_name`
		args = []any{owner}
	}

	if err := collectStringRows(db, views, args, &objs.Views); err != nil {
		return nil, fmt.Errorf("introspect views: %w", err)
	}
	if err := collectStringRows(db, routines, args, &objs.Routines); err != nil {
		return nil, fmt.Errorf("introspect routines: %w", err)
	}
	if err := collectStringRows(db, triggers, args, &objs.Triggers); err != nil {
		return nil, fmt.Errorf("introspect triggers: %w", err)
	}
	return objs, nil
}

func (o *oracleDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (o *oracleDialect) DateLiteral(t time.Time) string {
	return fmt.Sprintf("TO_DATE('%s', 'YYYY-MM-DD')", t.Format("2006-01-02"))
}

func (o *oracleDialect) TimestampLiteral(t time.Time) string {
	return fmt.Sprintf("TO_TIMESTAMP('%s', 'YYYY-MM-DD HH24:MI:SS.FF')", t.Format("2006-01-02 15:04:05.000000"))
}

func (o *oracleDialect) BytesLiteral(b []byte) string {
	return fmt.Sprintf("HEXTORAW('%s')", strings.ToUpper(hex.EncodeToString(b)))
}
