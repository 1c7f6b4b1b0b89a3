package main

import (
	"testing"
)

func TestNewDialect(t *testing.T) {
	for _, key := range []string{"mysql", "oracle", "postgres", "sqlite"} {
		d, err := newDialect(key)
		if err != nil {
			t.Fatalf("newDialect(%q) error: %v", key, err)
		}
		if d.Key() != key {
			t.Errorf("newDialect(%q).Key() = %q", key, d.Key())
		}
	}
	if _, err := newDialect("mssql"); err == nil {
		t.Error("expected error for unknown dialect key")
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		d    Dialect
		in   string
		want string
	}{
		{&mysqlDialect{}, "users", "`users`"},
		{&mysqlDialect{}, "odd`name", "`odd``name`"},
		{&oracleDialect{}, "USERS", `"USERS"`},
		{&oracleDialect{}, `odd"name`, `"odd""name"`},
		{&postgresDialect{}, "users", `"users"`},
		{&sqliteDialect{}, "users", `"users"`},
	}
	for _, tt := range tests {
		if got := tt.d.QuoteIdentifier(tt.in); got != tt.want {
			t.Errorf("%s.QuoteIdentifier(%q) = %q, want %q", tt.d.Key(), tt.in, got, tt.want)
		}
	}
}

func TestMySQLDefaultSchema(t *testing.T) {
	d := &mysqlDialect{}

	got, err := d.DefaultSchema("user:pass@tcp(localhost:3306)/appdb?parseTime=true")
	if err != nil {
		t.Fatalf("DefaultSchema error: %v", err)
	}
	if got != "appdb" {
		t.Errorf("DefaultSchema = %q, want appdb", got)
	}

	if _, err := d.DefaultSchema("user:pass@tcp(localhost:3306)/"); err == nil {
		t.Error("expected error when the DSN names no database")
	}
	if _, err := d.DefaultSchema("::not a dsn::"); err == nil {
		t.Error("expected error for unparsable DSN")
	}
}

func TestSQLiteDefaultSchema(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"/data/app.db", "app"},
		{"app.sqlite3", "app"},
		{"file:/data/inventory.db?mode=ro", "inventory"},
		{":memory:", "sqlite"},
	}
	d := &sqliteDialect{}
	for _, tt := range tests {
		got, err := d.DefaultSchema(tt.dsn)
		if err != nil {
			t.Fatalf("DefaultSchema(%q) error: %v", tt.dsn, err)
		}
		if got != tt.want {
			t.Errorf("DefaultSchema(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestOracleColumnType(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		want string
	}{
		{"bare number", Column{DataType: "NUMBER"}, "NUMBER"},
		{"number with precision", Column{DataType: "NUMBER", Precision: int64ptr(10), Scale: int64ptr(0)}, "NUMBER(10)"},
		{"number with scale", Column{DataType: "NUMBER", Precision: int64ptr(10), Scale: int64ptr(2)}, "NUMBER(10,2)"},
		{"varchar2", Column{DataType: "VARCHAR2", CharMaxLen: int64ptr(100)}, "VARCHAR2(100)"},
		{"date keeps bare name", Column{DataType: "DATE", CharMaxLen: int64ptr(7)}, "DATE"},
		{"timestamp qualifier preserved", Column{DataType: "TIMESTAMP(6)"}, "TIMESTAMP(6)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := oracleColumnType(tt.col); got != tt.want {
				t.Errorf("oracleColumnType(%+v) = %q, want %q", tt.col, got, tt.want)
			}
		})
	}
}

func TestSplitDeclaredType(t *testing.T) {
	tests := []struct {
		in     string
		base   string
		length *int64
		prec   *int64
		scale  *int64
	}{
		{"INTEGER", "integer", nil, nil, nil},
		{"VARCHAR(50)", "varchar", int64ptr(50), nil, nil},
		{"DECIMAL(10,2)", "decimal", nil, int64ptr(10), int64ptr(2)},
		{"decimal(10, 2)", "decimal", nil, int64ptr(10), int64ptr(2)},
		{"", "", nil, nil, nil},
		{"BLOB", "blob", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			base, length, prec, scale := splitDeclaredType(tt.in)
			if base != tt.base {
				t.Errorf("base = %q, want %q", base, tt.base)
			}
			if !int64ptrEqual(length, tt.length) || !int64ptrEqual(prec, tt.prec) || !int64ptrEqual(scale, tt.scale) {
				t.Errorf("splitDeclaredType(%q) = (%s, %s, %s), want (%s, %s, %s)",
					tt.in, fmtPtr(length), fmtPtr(prec), fmtPtr(scale),
					fmtPtr(tt.length), fmtPtr(tt.prec), fmtPtr(tt.scale))
			}
		})
	}
}
