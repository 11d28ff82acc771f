// Command validate provides a small CLI that validates card deck JSON files
// in the ./decks directory (or a directory given as the first argument). It
// checks:
//   - JSON structure and required fields (name, values)
//   - Non-empty, duplicate-free card values
//   - That the special tokens "∞" and "?" appear at most once each
//   - Description presence (reported as a warning, not an error)
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Deck mirrors the JSON schema for a deck file.
type Deck struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Values      []string `json:"values"`
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateDeck loads and validates a single deck JSON file.
func validateDeck(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var deck Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if deck.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "Missing required field: name")
	}

	if len(deck.Values) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Deck has no card values")
	}

	seen := make(map[string]int)
	for i, v := range deck.Values {
		if v == "" {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Empty card value at index %d", i))
			continue
		}
		seen[v]++
	}
	for v, count := range seen {
		if count > 1 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Duplicate card value %q (%d occurrences)", v, count))
		}
	}

	if deck.Description == "" {
		// Not fatal, decks render fine without a description
		result.Errors = append(result.Errors, "Warning: missing description")
	}

	return result
}

// validateDir validates every .json file in the directory.
func validateDir(dir string) ([]ValidationResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var results []ValidationResult
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		results = append(results, validateDeck(filepath.Join(dir, entry.Name())))
	}
	return results, nil
}

func main() {
	dir := "decks"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	results, err := validateDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(results) == 0 {
		fmt.Printf("No deck files found in %s\n", dir)
		return
	}

	failed := 0
	for _, result := range results {
		if result.Valid {
			fmt.Printf("✓ %s\n", result.File)
		} else {
			failed++
			fmt.Printf("✗ %s\n", result.File)
		}
		for _, msg := range result.Errors {
			fmt.Printf("    %s\n", msg)
		}
	}

	fmt.Printf("\n%d of %d deck files valid\n", len(results)-failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}
