package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "SELECT 1", []string{"SELECT 1"}},
		{"two statements", "SELECT 1; SELECT 2;", []string{"SELECT 1", "SELECT 2"}},
		{"trailing whitespace", "SELECT 1 ;\n\n", []string{"SELECT 1"}},
		{"empty entries dropped", ";;SELECT 1;;", []string{"SELECT 1"}},
		{
			"semicolon inside string literal",
			"INSERT INTO t VALUES ('a;b'); SELECT 1",
			[]string{"INSERT INTO t VALUES ('a;b')", "SELECT 1"},
		},
		{
			"doubled quote keeps literal open",
			"INSERT INTO t VALUES ('it''s; fine'); SELECT 1",
			[]string{"INSERT INTO t VALUES ('it''s; fine')", "SELECT 1"},
		},
		{"empty input", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitStatements(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("splitStatements(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("statement %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadHookSQL(t *testing.T) {
	dir := t.TempDir()
	hook := filepath.Join(dir, "pre.sql")
	content := "ALTER TABLE {{table}} DISABLE KEYS;\nSET foreign_key_checks = 0"
	if err := os.WriteFile(hook, []byte(content), 0o644); err != nil {
		t.Fatalf("write hook: %v", err)
	}

	cfg := &Config{configDir: dir}
	got, err := loadHookSQL(cfg, []string{"pre.sql"}, "users")
	if err != nil {
		t.Fatalf("loadHookSQL error: %v", err)
	}
	want := "ALTER TABLE users DISABLE KEYS;\nSET foreign_key_checks = 0;\n"
	if got != want {
		t.Errorf("loadHookSQL = %q, want %q", got, want)
	}
}

func TestLoadHookSQLNoFiles(t *testing.T) {
	got, err := loadHookSQL(&Config{}, nil, "users")
	if err != nil {
		t.Fatalf("loadHookSQL error: %v", err)
	}
	if got != "" {
		t.Errorf("loadHookSQL with no files = %q, want empty", got)
	}
}

func TestLoadHookSQLMissingFile(t *testing.T) {
	cfg := &Config{configDir: t.TempDir()}
	if _, err := loadHookSQL(cfg, []string{"nope.sql"}, "users"); err == nil {
		t.Fatal("expected error for missing hook file")
	}
}
