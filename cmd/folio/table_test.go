package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteTableRulesHeaderAndKeepsRows(t *testing.T) {
	var out bytes.Buffer
	err := writeTable(&out, []string{"ID", "TITLE"}, [][]string{
		{"chat", "community-chat"},
		{"koko", "koko voice assistant"},
	})
	if err != nil {
		t.Fatalf("write table: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and two rows, got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "ID") || !strings.Contains(lines[0], "TITLE") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "─") {
		t.Fatalf("expected a rule under the header, got %q", lines[1])
	}
	if !strings.Contains(lines[3], "koko") || !strings.Contains(lines[3], "koko voice assistant") {
		t.Fatalf("unexpected row %q", lines[3])
	}
	if strings.Contains(out.String(), "│") {
		t.Fatalf("expected no column borders:\n%s", out.String())
	}
}
