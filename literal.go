package main

import (
	"fmt"
	"strconv"
	"strings"
)

// encodeLiteral renders a RowValue as a SQL literal in the given dialect.
// Strings are single-quoted with embedded quotes doubled; nothing else is
// escaped. Date and timestamp syntax comes from the dialect. The returned
// error only fires for a variant outside the known set, which aborts the
// row (and with it the table conversion).
func encodeLiteral(v RowValue, d Dialect) (string, error) {
	switch v.Kind {
	case KindNull:
		return "NULL", nil
	case KindString:
		return quoteSQLString(v.Str), nil
	case KindInt:
		return strconv.FormatInt(v.Int, 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64), nil
	case KindDecimal:
		return v.Dec.String(), nil
	case KindDate:
		return d.DateLiteral(v.Time), nil
	case KindTimestamp:
		return d.TimestampLiteral(v.Time), nil
	case KindBytes:
		return d.BytesLiteral(v.Bytes), nil
	default:
		return "", fmt.Errorf("unknown row value kind %d", v.Kind)
	}
}

// quoteSQLString produces a standard SQL string literal: single-quoted,
// every embedded single quote doubled. This is the injection barrier for
// generated INSERT statements.
func quoteSQLString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
