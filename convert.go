package main

import (
	"database/sql"
	"fmt"
	"strings"
)

// Converter translates one source engine's schema and data into another
// engine's dialect. It holds a single connection; every operation opens
// exactly one forward-only cursor and releases it on all exit paths.
type Converter struct {
	db        *sql.DB
	source    Dialect
	target    Dialect
	mapColumn mapColumnFunc
}

func newConverter(db *sql.DB, source, target Dialect) (*Converter, error) {
	fn, err := conversionFor(source.Key(), target.Key())
	if err != nil {
		return nil, err
	}
	return &Converter{db: db, source: source, target: target, mapColumn: fn}, nil
}

// mapColumns translates every column of one table, collecting a diagnostic
// per identity fallback so unmapped types are reviewable, never silent.
func (c *Converter) mapColumns(table string, cols []Column) ([]TargetColumn, []Diagnostic) {
	specs := make([]TargetColumn, len(cols))
	var diags []Diagnostic
	for i, col := range cols {
		mapped, ok := c.mapColumn(col)
		if !ok {
			diags = append(diags, Diagnostic{Table: table, Column: col.Name, Native: identityType(col)})
		}
		specs[i] = TargetColumn{Name: col.Name, Type: mapped, Nullable: col.Nullable}
	}
	return specs, diags
}

// ConvertTableSchema produces target-dialect CREATE TABLE DDL for one table.
func (c *Converter) ConvertTableSchema(schemaName, table string) (string, []Diagnostic, error) {
	cols, err := c.source.DescribeColumns(c.db, schemaName, table)
	if err != nil {
		return "", nil, fmt.Errorf("describe columns for %s: %w", table, err)
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("table %s has no columns in the catalog (does it exist?)", table)
	}
	specs, diags := c.mapColumns(table, cols)
	return renderCreateTable(table, specs), diags, nil
}

// ConvertDatabaseSchema produces DDL for every table of the schema, one
// blank line apart, preceded by a header comment naming both dialects. A
// metadata failure on table N aborts the operation; the text accumulated
// up to that point is returned alongside the error so nothing fails
// silently partway.
func (c *Converter) ConvertDatabaseSchema(schemaName string) (string, []Diagnostic, error) {
	tables, err := c.source.ListTables(c.db, schemaName)
	if err != nil {
		return "", nil, fmt.Errorf("list tables for schema %s: %w", schemaName, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- Converted database schema from %s to %s\n", c.source.Name(), c.target.Name())

	var diags []Diagnostic
	for _, table := range tables {
		ddl, d, err := c.ConvertTableSchema(schemaName, table)
		if err != nil {
			return b.String(), diags, err
		}
		diags = append(diags, d...)
		b.WriteByte('\n')
		b.WriteString(ddl)
	}
	return b.String(), diags, nil
}

// ConvertTableData reads the table once, front to back, and yields one
// target-dialect INSERT statement per row. The iterator is single-pass and
// not restartable; the caller must Close it.
func (c *Converter) ConvertTableData(schemaName, table string) (*InsertIterator, error) {
	cols, err := c.source.DescribeColumns(c.db, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("describe columns for %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s has no columns in the catalog (does it exist?)", table)
	}
	return newInsertIterator(c.db, c.source, c.target, table, cols, false)
}

// InsertIterator lazily turns a row cursor into INSERT statements. One row
// in, one statement out; the whole table is never materialized. A row that
// cannot be encoded poisons the iterator: data conversion is all-or-nothing
// per table, because downstream INSERT ordering assumes completeness.
type InsertIterator struct {
	rows    *sql.Rows
	cols    []Column
	encoder Dialect
	table   string
	prefix  string // "INSERT INTO <t> [(cols)] VALUES ("
	stmt    string
	err     error
	rowNum  int
	done    bool // cursor exhausted
	closed  bool
}

func newInsertIterator(db *sql.DB, source, encoder Dialect, table string, cols []Column, withColumnNames bool) (*InsertIterator, error) {
	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s", source.QuoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("read rows from %s: %w", table, err)
	}

	names, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("read rows from %s: %w", table, err)
	}
	if len(names) != len(cols) {
		rows.Close()
		return nil, fmt.Errorf("table %s: cursor has %d columns but catalog reports %d", table, len(names), len(cols))
	}

	prefix := fmt.Sprintf("INSERT INTO %s VALUES (", table)
	if withColumnNames {
		colNames := make([]string, len(cols))
		for i, col := range cols {
			colNames[i] = col.Name
		}
		prefix = fmt.Sprintf("INSERT INTO %s (%s) VALUES (", table, strings.Join(colNames, ", "))
	}

	return &InsertIterator{
		rows:    rows,
		cols:    cols,
		encoder: encoder,
		table:   table,
		prefix:  prefix,
	}, nil
}

// Next advances to the next row and builds its INSERT statement. It returns
// false at the end of the cursor or on the first error; check Err.
func (it *InsertIterator) Next() bool {
	if it.err != nil || it.closed {
		return false
	}
	if !it.rows.Next() {
		it.done = true
		if err := it.rows.Err(); err != nil {
			it.err = fmt.Errorf("row %d: cursor aborted: %w", it.rowNum+1, err)
		}
		return false
	}
	it.rowNum++

	raw := make([]any, len(it.cols))
	ptrs := make([]any, len(it.cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := it.rows.Scan(ptrs...); err != nil {
		it.err = fmt.Errorf("row %d: scan: %w", it.rowNum, err)
		return false
	}

	encoded := make([]string, len(it.cols))
	for i, val := range raw {
		rv, err := classifyValue(val, it.cols[i])
		if err != nil {
			it.err = fmt.Errorf("row %d: %w", it.rowNum, err)
			return false
		}
		lit, err := encodeLiteral(rv, it.encoder)
		if err != nil {
			it.err = fmt.Errorf("row %d, column %s: %w", it.rowNum, it.cols[i].Name, err)
			return false
		}
		encoded[i] = lit
	}

	it.stmt = it.prefix + strings.Join(encoded, ", ") + ");"
	return true
}

// Statement returns the INSERT built by the last successful Next.
func (it *InsertIterator) Statement() string { return it.stmt }

// Err returns the error that stopped iteration, if any.
func (it *InsertIterator) Err() error { return it.err }

// Rows returns how many rows have been converted so far.
func (it *InsertIterator) Rows() int { return it.rowNum }

// Close releases the underlying cursor. Safe to call more than once.
// Closing before the cursor is exhausted is an abort: Err reports it, so a
// cancelled run is never mistaken for a complete one.
func (it *InsertIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	err := it.rows.Close()
	if it.err == nil && !it.done {
		it.err = fmt.Errorf("table %s: read aborted after %d rows (cursor closed before exhaustion)", it.table, it.rowNum)
	}
	return err
}
