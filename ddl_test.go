package main

import (
	"strings"
	"testing"
)

func TestRenderCreateTable(t *testing.T) {
	cols := []TargetColumn{
		{Name: "id", Type: "NUMBER(10)", Nullable: false},
		{Name: "name", Type: "VARCHAR2(50)", Nullable: true},
	}

	want := "CREATE TABLE users (\n" +
		"    id NUMBER(10) NOT NULL,\n" +
		"    name VARCHAR2(50)\n" +
		");\n"

	got := renderCreateTable("users", cols)
	if got != want {
		t.Errorf("renderCreateTable =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderCreateTableDeterministic(t *testing.T) {
	cols := []TargetColumn{
		{Name: "a", Type: "INT"},
		{Name: "b", Type: "TEXT", Nullable: true},
	}
	first := renderCreateTable("t", cols)
	second := renderCreateTable("t", cols)
	if first != second {
		t.Fatalf("renderCreateTable not byte-identical across calls:\n%q\n%q", first, second)
	}
}

func TestRenderCreateTableSingleColumn(t *testing.T) {
	got := renderCreateTable("one", []TargetColumn{{Name: "only", Type: "INT"}})
	want := "CREATE TABLE one (\n    only INT NOT NULL\n);\n"
	if got != want {
		t.Errorf("renderCreateTable = %q, want %q", got, want)
	}
	if strings.Contains(got, ",") {
		t.Error("single-column DDL must not contain a comma")
	}
}

func TestRenderCreateTableBalanced(t *testing.T) {
	got := renderCreateTable("t", []TargetColumn{
		{Name: "a", Type: "VARCHAR2(10)"},
		{Name: "b", Type: "NUMBER(10, 2)", Nullable: true},
	})
	if strings.Count(got, "(") != strings.Count(got, ")") {
		t.Errorf("unbalanced parens in DDL:\n%s", got)
	}
	if strings.Contains(got, ",\n);") {
		t.Errorf("dangling trailing comma in DDL:\n%s", got)
	}
}

func TestNativeColumns(t *testing.T) {
	cols := []Column{
		{Name: "id", DataType: "int", ColumnType: "int(11)"},
		{Name: "note", DataType: "text"},
	}
	specs := nativeColumns(cols)
	if specs[0].Type != "int(11)" {
		t.Errorf("nativeColumns kept %q, want full column type", specs[0].Type)
	}
	if specs[1].Type != "text" {
		t.Errorf("nativeColumns fallback = %q, want data type", specs[1].Type)
	}
}
