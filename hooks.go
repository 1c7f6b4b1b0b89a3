package main

import (
	"fmt"
	"os"
	"strings"
)

// loadHookSQL reads the named SQL files, expands {{table}}, and returns
// their statements normalized to one semicolon-terminated statement per
// line, ready to splice into a generated script.
func loadHookSQL(cfg *Config, files []string, table string) (string, error) {
	if len(files) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(cfg.resolvePath(f))
		if err != nil {
			return "", fmt.Errorf("hook %s: %w", f, err)
		}
		sqlText := strings.ReplaceAll(string(data), "{{table}}", table)
		for _, stmt := range splitStatements(sqlText) {
			b.WriteString(stmt)
			b.WriteString(";\n")
		}
	}
	return b.String(), nil
}

// splitStatements splits SQL text on semicolons, ignoring empty entries
// and semicolons inside single-quoted strings.
func splitStatements(sqlText string) []string {
	var stmts []string
	var current strings.Builder
	inQuote := false

	for i := 0; i < len(sqlText); i++ {
		c := sqlText[i]
		switch {
		case c == '\'' && !inQuote:
			inQuote = true
			current.WriteByte(c)
		case c == '\'' && inQuote:
			// Doubled quotes ('') stay inside the literal.
			if i+1 < len(sqlText) && sqlText[i+1] == '\'' {
				current.WriteByte(c)
				current.WriteByte(c)
				i++
			} else {
				inQuote = false
				current.WriteByte(c)
			}
		case c == ';' && !inQuote:
			s := strings.TrimSpace(current.String())
			if s != "" {
				stmts = append(stmts, s)
			}
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		stmts = append(stmts, s)
	}

	return stmts
}
