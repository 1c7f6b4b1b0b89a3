package main

import (
	"fmt"
	"strings"
)

// renderCreateTable assembles a CREATE TABLE statement from columns whose
// types are already in the target vocabulary. Output is deterministic:
// identical input yields byte-identical text, so scripts diff cleanly.
// Callers must reject an empty column list before rendering.
func renderCreateTable(tableName string, cols []TargetColumn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", tableName)

	for i, col := range cols {
		fmt.Fprintf(&b, "    %s %s", col.Name, col.Type)
		if !col.Nullable {
			b.WriteString(" NOT NULL")
		}
		if i < len(cols)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}

	b.WriteString(");\n")
	return b.String()
}

// nativeColumns re-expresses catalog columns in their own dialect, for
// non-converting schema exports.
func nativeColumns(cols []Column) []TargetColumn {
	specs := make([]TargetColumn, len(cols))
	for i, col := range cols {
		typ := col.ColumnType
		if typ == "" {
			typ = col.DataType
		}
		specs[i] = TargetColumn{Name: col.Name, Type: typ, Nullable: col.Nullable}
	}
	return specs
}
