package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind enumerates the closed set of row value variants. The variant is
// decided once, at the read boundary, so the literal encoder can match
// exhaustively instead of type-switching on driver-specific runtime types.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindDecimal
	KindDate
	KindTimestamp
	KindBytes
)

// RowValue is one typed value read from one row and column. It lives for a
// single row-processing iteration and is never retained across rows.
type RowValue struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Dec   decimal.Decimal
	Time  time.Time
	Bytes []byte
}

func nullValue() RowValue            { return RowValue{Kind: KindNull} }
func stringValue(s string) RowValue  { return RowValue{Kind: KindString, Str: s} }
func intValue(v int64) RowValue      { return RowValue{Kind: KindInt, Int: v} }
func floatValue(v float64) RowValue  { return RowValue{Kind: KindFloat, Float: v} }
func bytesValue(b []byte) RowValue   { return RowValue{Kind: KindBytes, Bytes: b} }
func timeValue(t time.Time, col Column) RowValue {
	if strings.EqualFold(col.DataType, "date") {
		return RowValue{Kind: KindDate, Time: t}
	}
	return RowValue{Kind: KindTimestamp, Time: t}
}

// classifyValue converts a driver-provided value into a RowValue variant,
// using the column's catalog type to disambiguate byte slices and strings
// (drivers commonly return []byte for text and numeric columns alike).
// A runtime type outside the known set is fatal to the row.
func classifyValue(val any, col Column) (RowValue, error) {
	if val == nil {
		return nullValue(), nil
	}

	switch v := val.(type) {
	case string:
		if rv, ok, err := numericFromText(v, col); ok {
			return rv, err
		}
		return stringValue(v), nil
	case []byte:
		if rv, ok, err := numericFromText(string(v), col); ok {
			return rv, err
		}
		if isTextualColumn(col) {
			return stringValue(string(v)), nil
		}
		return bytesValue(v), nil
	case int64:
		return intValue(v), nil
	case int:
		return intValue(int64(v)), nil
	case int32:
		return intValue(int64(v)), nil
	case uint64:
		return RowValue{Kind: KindDecimal, Dec: decimal.NewFromUint64(v)}, nil
	case float64:
		return floatValue(v), nil
	case float32:
		return floatValue(float64(v)), nil
	case bool:
		if v {
			return intValue(1), nil
		}
		return intValue(0), nil
	case time.Time:
		return timeValue(v, col), nil
	case decimal.Decimal:
		return RowValue{Kind: KindDecimal, Dec: v}, nil
	default:
		return RowValue{}, fmt.Errorf("column %s: unsupported runtime value type %T", col.Name, val)
	}
}

// numericFromText recovers a numeric value from driver-provided text when
// the column's declared type is numeric. The MySQL text protocol returns
// every non-NULL, non-time value as []byte, so integer, float and decimal
// columns all arrive as decimal text and must not be treated as binary.
func numericFromText(s string, col Column) (RowValue, bool, error) {
	switch {
	case isDecimalColumn(col):
		rv, err := decimalFromText(s, col)
		return rv, true, err
	case isIntegerColumn(col):
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			// Unsigned BIGINT text can exceed int64; keep the exact digits.
			rv, derr := decimalFromText(s, col)
			if derr != nil {
				return RowValue{}, true, fmt.Errorf("column %s: cannot parse %q as integer", col.Name, s)
			}
			return rv, true, nil
		}
		return intValue(n), true, nil
	case isFloatColumn(col):
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return RowValue{}, true, fmt.Errorf("column %s: cannot parse %q as float: %w", col.Name, s, err)
		}
		return floatValue(f), true, nil
	}
	return RowValue{}, false, nil
}

func decimalFromText(s string, col Column) (RowValue, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return RowValue{}, fmt.Errorf("column %s: cannot parse %q as decimal: %w", col.Name, s, err)
	}
	return RowValue{Kind: KindDecimal, Dec: d}, nil
}

func isDecimalColumn(col Column) bool {
	switch strings.ToLower(col.DataType) {
	case "decimal", "numeric", "number":
		return true
	}
	return false
}

func isIntegerColumn(col Column) bool {
	switch strings.ToLower(col.DataType) {
	case "tinyint", "smallint", "mediumint", "int", "integer", "bigint", "year":
		return true
	}
	return false
}

func isFloatColumn(col Column) bool {
	switch strings.ToLower(col.DataType) {
	case "float", "double", "real", "double precision", "binary_float", "binary_double":
		return true
	}
	return false
}

func isTextualColumn(col Column) bool {
	dt := strings.ToLower(col.DataType)
	switch dt {
	case "char", "varchar", "varchar2", "nvarchar2", "nchar",
		"text", "tinytext", "mediumtext", "longtext",
		"clob", "nclob", "enum", "set", "json",
		"character", "character varying":
		return true
	}
	// SQLite declared types are free-form; treat anything char/text-ish as text.
	return strings.Contains(dt, "char") || strings.Contains(dt, "text")
}
