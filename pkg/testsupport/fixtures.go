// Package testsupport carries shared test helpers: fixture loading and
// recording fakes for the cache backend, the AI provider, and the store.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// FixturePath resolves a file under the package's testdata directory.
func FixturePath(name string) string {
	return filepath.Join("testdata", name)
}

// LoadFixture reads a fixture file, failing the test on any error.
func LoadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(FixturePath(name))
	if err != nil {
		t.Fatalf("load fixture %s: %v", name, err)
	}
	return data
}

// LoadFixtureJSON reads a fixture file and unmarshals it into v.
func LoadFixtureJSON(t *testing.T, name string, v any) {
	t.Helper()
	if err := json.Unmarshal(LoadFixture(t, name), v); err != nil {
		t.Fatalf("decode fixture %s: %v", name, err)
	}
}
