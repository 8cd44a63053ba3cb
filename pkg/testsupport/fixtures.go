// Package testsupport holds shared fixture loaders for contract tests.
package testsupport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/rowset"
)

// LoadRawSection reads a JSON describe fixture. Testing helpers fail the
// test on error to keep contract tests concise.
func LoadRawSection(t *testing.T, path string) metadata.RawSection {
	t.Helper()

	raw, err := LoadRawSectionFromPath(path)
	if err != nil {
		t.Fatalf("load describe fixture: %v", err)
	}
	return raw
}

// LoadRawSectionFromPath returns a RawSection without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadRawSectionFromPath(path string) (metadata.RawSection, error) {
	if path == "" {
		return metadata.RawSection{}, fmt.Errorf("testsupport: describe path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return metadata.RawSection{}, fmt.Errorf("testsupport: read describe fixture: %w", err)
	}
	var raw metadata.RawSection
	if err := json.Unmarshal(data, &raw); err != nil {
		return metadata.RawSection{}, fmt.Errorf("testsupport: unmarshal describe fixture: %w", err)
	}
	return raw, nil
}

// LoadRows reads a JSON array of flat rows for table and rowset tests.
func LoadRows(t *testing.T, path string) []rowset.Flat {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read rows fixture: %v", err)
	}
	var rows []rowset.Flat
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("unmarshal rows fixture: %v", err)
	}
	return rows
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
