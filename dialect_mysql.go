package main

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

type mysqlDialect struct {
	charset string
}

func (m *mysqlDialect) Name() string { return "MySQL" }
func (m *mysqlDialect) Key() string  { return "mysql" }

// OpenDB normalizes the DSN for catalog reads: parse time values into
// time.Time, pin the session to UTC, and interpolate parameters so row
// reads come back as driver-native types.
func (m *mysqlDialect) OpenDB(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.InterpolateParams = true
	cfg.Loc = time.UTC
	if m.charset != "" {
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params["charset"] = m.charset
	}
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (m *mysqlDialect) DefaultSchema(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("mysql dsn names no database and source.schema is not set")
	}
	return cfg.DBName, nil
}

func (m *mysqlDialect) ListTables(db *sql.DB, schemaName string) ([]string, error) {
	var tables []string
	err := collectStringRows(db,
		`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		 WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		 ORDER BY TABLE_NAME`,
		[]any{schemaName}, &tables)
	if err != nil {
		return nil, fmt.Errorf("list tables for %s: %w", schemaName, err)
	}
	return tables, nil
}

func (m *mysqlDialect) DescribeColumns(db *sql.DB, schemaName, tableName string) ([]Column, error) {
	rows, err := db.Query(
		`SELECT COLUMN_NAME, DATA_TYPE, COLUMN_TYPE,
		        CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION, NUMERIC_SCALE,
		        IS_NULLABLE, ORDINAL_POSITION
		 FROM INFORMATION_SCHEMA.COLUMNS
		 WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		 ORDER BY ORDINAL_POSITION`,
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
			&c.Name, &c.DataType, &c.ColumnType,
			&charLen, &prec, &scale,
			&nullable, &c.OrdinalPos,
		); err != nil {
			return nil, err
		}
		c.DataType = strings.ToLower(c.DataType)
		c.ColumnType = strings.ToLower(c.ColumnType)
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
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (m *mysqlDialect) ListSourceObjects(db *sql.DB, schemaName string) (*SourceObjects, error) {
	objs := &SourceObjects{}

	if err := collectStringRows(db,
		`SELECT TABLE_NAME FROM INFORMATION_SCHEMA.VIEWS
		 WHERE TABLE_SCHEMA = ? ORDER BY TABLE_NAME`,
		[]any{schemaName}, &objs.Views); err != nil {
		return nil, fmt.Errorf("introspect views: %w", err)
	}

	rows, err := db.Query(
		`SELECT ROUTINE_TYPE, ROUTINE_NAME FROM INFORMATION_SCHEMA.ROUTINES
		 WHERE ROUTINE_SCHEMA = ? ORDER BY ROUTINE_TYPE, ROUTINE_NAME`,
		schemaName)
	if err != nil {
		return nil, fmt.Errorf("introspect routines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var routineType, routineName string
		if err := rows.Scan(&routineType, &routineName); err != nil {
			return nil, fmt.Errorf("scan routines: %w", err)
		}
		objs.Routines = append(objs.Routines, fmt.Sprintf("%s %s", strings.ToUpper(routineType), routineName))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routines: %w", err)
	}

	if err := collectStringRows(db,
		`SELECT TRIGGER_NAME FROM INFORMATION_SCHEMA.TRIGGERS
		 WHERE TRIGGER_SCHEMA = ? ORDER BY TRIGGER_NAME`,
		[]any{schemaName}, &objs.Triggers); err != nil {
		return nil, fmt.Errorf("introspect triggers: %w", err)
	}

	return objs, nil
}

func (m *mysqlDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (m *mysqlDialect) DateLiteral(t time.Time) string {
	return "'" + t.Format("2006-01-02") + "'"
}

func (m *mysqlDialect) TimestampLiteral(t time.Time) string {
	return "'" + t.Format("2006-01-02 15:04:05") + "'"
}

func (m *mysqlDialect) BytesLiteral(b []byte) string {
	return "0x" + strings.ToUpper(hex.EncodeToString(b))
}
