package store

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (x int);\n\n  ;CREATE INDEX i ON a (x);\n")
	if len(got) != 2 {
		t.Fatalf("want 2 statements, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got[1], "CREATE INDEX") {
		t.Fatalf("unexpected second statement: %q", got[1])
	}
}

func TestSchemaCoversTables(t *testing.T) {
	stmts := splitStatements(schemaSQL)
	for _, table := range []string{"cities", "connections", "tsp_results", "solver_config"} {
		found := false
		for _, s := range stmts {
			if strings.Contains(s, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				found = true
			}
		}
		if !found {
			t.Fatalf("schema does not create %s", table)
		}
	}
}

func TestClampLimit(t *testing.T) {
	cases := map[int]int{-1: 10, 0: 10, 3: 3, 500: 500, 9000: 500}
	for in, want := range cases {
		if got := clampLimit(in); got != want {
			t.Fatalf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
