package migrations

import (
	"strings"
	"testing"
)

func TestEmbeddedFS_ContainsDocumentsMigration(t *testing.T) {
	content, err := FS.ReadFile("001_documents.sql")
	if err != nil {
		t.Fatalf("read embedded migration: %v", err)
	}
	s := string(content)
	for _, want := range []string{"-- +goose Up", "-- +goose Down", "CREATE TABLE documents"} {
		if !strings.Contains(s, want) {
			t.Errorf("migration missing %q", want)
		}
	}
}
