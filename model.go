package main

import "fmt"

// Column describes a single table column as read from the source engine's
// catalog. CharMaxLen, Precision and Scale are pointers because "0" and
// "not specified" are different things for numeric types; nil means the
// catalog did not report a value.
type Column struct {
	Name       string
	DataType   string // base type, e.g. "varchar", "number"
	ColumnType string // full native rendering, e.g. "decimal(10,2)"
	CharMaxLen *int64
	Precision  *int64
	Scale      *int64
	Nullable   bool
	OrdinalPos int
}

// TargetColumn is a column whose type is already expressed in the target
// dialect's vocabulary.
type TargetColumn struct {
	Name     string
	Type     string
	Nullable bool
}

// SourceObjects lists catalog objects that sqlporter does not convert
// (views, routines, triggers). They are reported so the operator knows a
// generated script is not the whole story.
type SourceObjects struct {
	Views    []string
	Routines []string
	Triggers []string
}

// Diagnostic records a non-fatal finding during conversion, currently a
// native type that had no mapping rule and was passed through unchanged.
type Diagnostic struct {
	Table  string
	Column string
	Native string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s.%s: no mapping rule for %q, type kept as-is", d.Table, d.Column, d.Native)
}

func int64ptr(v int64) *int64 { return &v }
