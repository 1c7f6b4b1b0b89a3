package main

import (
	"database/sql"
	"fmt"
	"strings"
)

// Exporter emits schema and data scripts in the source engine's own
// dialect, types verbatim, no translation.
type Exporter struct {
	db *sql.DB
	d  Dialect
}

func newExporter(db *sql.DB, d Dialect) *Exporter {
	return &Exporter{db: db, d: d}
}

// TableList returns the table names, one per line, optionally forced to a
// case. caseFormat is "", "uppercase" or "lowercase".
func (e *Exporter) TableList(schemaName, caseFormat string) (string, error) {
	if err := validateCaseFormat(caseFormat); err != nil {
		return "", err
	}
	tables, err := e.d.ListTables(e.db, schemaName)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, t := range tables {
		switch caseFormat {
		case "uppercase":
			t = strings.ToUpper(t)
		case "lowercase":
			t = strings.ToLower(t)
		}
		b.WriteString(t)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func validateCaseFormat(caseFormat string) error {
	switch caseFormat {
	case "", "uppercase", "lowercase":
		return nil
	default:
		return fmt.Errorf("case format must be uppercase or lowercase, got %q", caseFormat)
	}
}

// TableSchema renders one table's CREATE TABLE with native types.
func (e *Exporter) TableSchema(schemaName, table string) (string, error) {
	cols, err := e.d.DescribeColumns(e.db, schemaName, table)
	if err != nil {
		return "", fmt.Errorf("describe columns for %s: %w", table, err)
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("table %s has no columns in the catalog (does it exist?)", table)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- Schema for table %s\n", table)
	b.WriteString(renderCreateTable(table, nativeColumns(cols)))
	return b.String(), nil
}

// DatabaseSchema renders every table's native CREATE TABLE, blank-line
// separated. On a metadata failure midway the text accumulated so far is
// returned alongside the error.
func (e *Exporter) DatabaseSchema(schemaName string) (string, error) {
	tables, err := e.d.ListTables(e.db, schemaName)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, table := range tables {
		if i > 0 {
			b.WriteByte('\n')
		}
		ddl, err := e.TableSchema(schemaName, table)
		if err != nil {
			return b.String(), err
		}
		b.WriteString(ddl)
	}
	return b.String(), nil
}

// TableData lazily yields one INSERT per row, column names included (the
// export form is meant to be re-runnable against a restored schema), values
// in the source's own literal syntax.
func (e *Exporter) TableData(schemaName, table string) (*InsertIterator, error) {
	cols, err := e.d.DescribeColumns(e.db, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("describe columns for %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s has no columns in the catalog (does it exist?)", table)
	}
	return newInsertIterator(e.db, e.d, e.d, table, cols, true)
}
