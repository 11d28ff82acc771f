package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateDeck(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid deck", func(t *testing.T) {
		path := writeFile(t, dir, "good.json",
			`{"name":"good","description":"A deck","values":["1","2","3","?"]}`)
		result := validateDeck(path)
		if !result.Valid {
			t.Errorf("expected valid, got errors: %v", result.Errors)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := writeFile(t, dir, "broken.json", `{nope`)
		result := validateDeck(path)
		if result.Valid {
			t.Error("expected invalid for broken JSON")
		}
	})

	t.Run("missing name", func(t *testing.T) {
		path := writeFile(t, dir, "noname.json", `{"values":["1"]}`)
		if result := validateDeck(path); result.Valid {
			t.Error("expected invalid for missing name")
		}
	})

	t.Run("empty values", func(t *testing.T) {
		path := writeFile(t, dir, "novalues.json", `{"name":"x","values":[]}`)
		if result := validateDeck(path); result.Valid {
			t.Error("expected invalid for empty values")
		}
	})

	t.Run("duplicate values", func(t *testing.T) {
		path := writeFile(t, dir, "dupes.json", `{"name":"x","values":["5","5"]}`)
		if result := validateDeck(path); result.Valid {
			t.Error("expected invalid for duplicate values")
		}
	})

	t.Run("missing description is a warning only", func(t *testing.T) {
		path := writeFile(t, dir, "nodesc.json", `{"name":"x","values":["1","2"]}`)
		result := validateDeck(path)
		if !result.Valid {
			t.Errorf("missing description should not invalidate: %v", result.Errors)
		}
		if len(result.Errors) == 0 {
			t.Error("expected a warning about the missing description")
		}
	})
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{"name":"a","description":"d","values":["1"]}`)
	writeFile(t, dir, "b.json", `{"name":"b","values":[]}`)
	writeFile(t, dir, "ignore.txt", `not json`)

	results, err := validateDir(dir)
	if err != nil {
		t.Fatalf("validateDir failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	valid := 0
	for _, r := range results {
		if r.Valid {
			valid++
		}
	}
	if valid != 1 {
		t.Errorf("expected exactly 1 valid deck, got %d", valid)
	}
}
