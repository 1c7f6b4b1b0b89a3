package main

import (
	"database/sql"
	"strings"
	"testing"
)

func newSQLiteFixture(t *testing.T, stmts ...string) *sql.DB {
	t.Helper()
	d := &sqliteDialect{}
	db, err := d.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("fixture statement %q: %v", stmt, err)
		}
	}
	return db
}

func newUsersFixture(t *testing.T) *sql.DB {
	t.Helper()
	return newSQLiteFixture(t,
		`CREATE TABLE users (id INTEGER NOT NULL, name VARCHAR(50), created_at TIMESTAMP)`,
		`CREATE TABLE orders (id INTEGER NOT NULL, amount DECIMAL(10,2))`,
		`INSERT INTO users VALUES (1, 'O''Brien', NULL)`,
		`INSERT INTO orders VALUES (1, '10.50')`,
	)
}

func TestExportTableList(t *testing.T) {
	db := newUsersFixture(t)
	e := newExporter(db, &sqliteDialect{})

	got, err := e.TableList("", "")
	if err != nil {
		t.Fatalf("TableList error: %v", err)
	}
	if got != "orders\nusers\n" {
		t.Errorf("TableList = %q, want sorted one-per-line list", got)
	}

	upper, err := e.TableList("", "uppercase")
	if err != nil {
		t.Fatalf("TableList uppercase error: %v", err)
	}
	if upper != "ORDERS\nUSERS\n" {
		t.Errorf("TableList uppercase = %q", upper)
	}

	if _, err := e.TableList("", "titlecase"); err == nil {
		t.Error("expected error for unknown case format")
	}
}

func TestExportTableSchema(t *testing.T) {
	db := newUsersFixture(t)
	e := newExporter(db, &sqliteDialect{})

	got, err := e.TableSchema("", "users")
	if err != nil {
		t.Fatalf("TableSchema error: %v", err)
	}
	want := "-- Schema for table users\n" +
		"CREATE TABLE users (\n" +
		"    id INTEGER NOT NULL,\n" +
		"    name VARCHAR(50),\n" +
		"    created_at TIMESTAMP\n" +
		");\n"
	if got != want {
		t.Errorf("TableSchema =\n%s\nwant\n%s", got, want)
	}
}

func TestExportTableSchemaMissingTable(t *testing.T) {
	db := newUsersFixture(t)
	e := newExporter(db, &sqliteDialect{})

	if _, err := e.TableSchema("", "nope"); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestExportDatabaseSchema(t *testing.T) {
	db := newUsersFixture(t)
	e := newExporter(db, &sqliteDialect{})

	got, err := e.DatabaseSchema("")
	if err != nil {
		t.Fatalf("DatabaseSchema error: %v", err)
	}
	if !strings.Contains(got, "CREATE TABLE orders (") || !strings.Contains(got, "CREATE TABLE users (") {
		t.Errorf("DatabaseSchema missing a table:\n%s", got)
	}
	// Tables come out blank-line separated, alphabetical.
	if !strings.Contains(got, ");\n\n-- Schema for table users") {
		t.Errorf("DatabaseSchema separator wrong:\n%s", got)
	}
}

func TestExportTableData(t *testing.T) {
	db := newUsersFixture(t)
	e := newExporter(db, &sqliteDialect{})

	it, err := e.TableData("", "users")
	if err != nil {
		t.Fatalf("TableData error: %v", err)
	}
	defer it.Close()

	if !it.Next() {
		t.Fatalf("expected one row, err: %v", it.Err())
	}
	want := "INSERT INTO users (id, name, created_at) VALUES (1, 'O''Brien', NULL);"
	if it.Statement() != want {
		t.Errorf("statement = %q, want %q", it.Statement(), want)
	}
	if it.Next() {
		t.Fatal("expected exactly one row")
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	if it.Rows() != 1 {
		t.Errorf("Rows() = %d, want 1", it.Rows())
	}
}

func TestExportTableDataDecimal(t *testing.T) {
	db := newUsersFixture(t)
	e := newExporter(db, &sqliteDialect{})

	it, err := e.TableData("", "orders")
	if err != nil {
		t.Fatalf("TableData error: %v", err)
	}
	defer it.Close()

	if !it.Next() {
		t.Fatalf("expected one row, err: %v", it.Err())
	}
	// Decimal text from the driver is re-emitted canonically, unquoted.
	want := "INSERT INTO orders (id, amount) VALUES (1, 10.5);"
	if it.Statement() != want {
		t.Errorf("statement = %q, want %q", it.Statement(), want)
	}
}

func TestExportTableDataBlob(t *testing.T) {
	db := newSQLiteFixture(t,
		`CREATE TABLE payloads (id INTEGER NOT NULL, body BLOB)`,
	)
	if _, err := db.Exec(`INSERT INTO payloads VALUES (1, ?)`, []byte{0xde, 0xad, 0xbe, 0xef}); err != nil {
		t.Fatalf("insert blob: %v", err)
	}
	e := newExporter(db, &sqliteDialect{})

	it, err := e.TableData("", "payloads")
	if err != nil {
		t.Fatalf("TableData error: %v", err)
	}
	defer it.Close()

	if !it.Next() {
		t.Fatalf("expected one row, err: %v", it.Err())
	}
	want := "INSERT INTO payloads (id, body) VALUES (1, X'DEADBEEF');"
	if it.Statement() != want {
		t.Errorf("statement = %q, want %q", it.Statement(), want)
	}
}

func TestSQLiteListSourceObjects(t *testing.T) {
	db := newSQLiteFixture(t,
		`CREATE TABLE t (id INTEGER)`,
		`CREATE VIEW v_t AS SELECT id FROM t`,
		`CREATE TRIGGER trg_t AFTER INSERT ON t BEGIN SELECT 1; END`,
	)
	d := &sqliteDialect{}

	objs, err := d.ListSourceObjects(db, "")
	if err != nil {
		t.Fatalf("ListSourceObjects error: %v", err)
	}
	if len(objs.Views) != 1 || objs.Views[0] != "v_t" {
		t.Errorf("views = %v, want [v_t]", objs.Views)
	}
	if len(objs.Triggers) != 1 || objs.Triggers[0] != "trg_t" {
		t.Errorf("triggers = %v, want [trg_t]", objs.Triggers)
	}
}
