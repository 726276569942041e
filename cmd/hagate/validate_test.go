package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeBrokenConfig lays out a config dir with one resolvable and one
// unknown entity reference, plus a minimal registry snapshot.
func writeBrokenConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("HAGATE_STORAGE", "")
	dir := t.TempDir()
	storage := filepath.Join(dir, ".storage")
	if err := os.MkdirAll(storage, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(storage, "core.entity_registry"): `{
			"key": "core.entity_registry",
			"data": {"entities": [
				{"entity_id": "light.porch", "id": "11111111111111111111111111111111", "disabled_by": null}
			]}
		}`,
		filepath.Join(dir, "a.yaml"): "entity_id: light.porch\n",
		filepath.Join(dir, "b.yaml"): "entity_id: sensor.ghost\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunValidate_FailIfTripsWhenExpressionHolds(t *testing.T) {
	dir := writeBrokenConfig(t)
	validateFailIf = "unknown > 0"
	defer func() { validateFailIf = "" }()

	err := runValidate(validateCmd, []string{dir})
	if err == nil {
		t.Fatal("expected a tripped gate with one unknown entity")
	}
	if !strings.Contains(err.Error(), "tripped") {
		t.Errorf("err = %v", err)
	}
}

func TestRunValidate_FailIfReplacesVerdict(t *testing.T) {
	dir := writeBrokenConfig(t)
	validateFailIf = "syntax_errors > 0"
	defer func() { validateFailIf = "" }()

	// one unknown entity fails the default verdict, but the gate only
	// watches syntax errors
	if err := runValidate(validateCmd, []string{dir}); err != nil {
		t.Fatalf("gate tripped: %v", err)
	}
}

func TestRunValidate_DefaultVerdictFails(t *testing.T) {
	dir := writeBrokenConfig(t)
	if err := runValidate(validateCmd, []string{dir}); err == nil {
		t.Error("expected failure for the unknown entity")
	}
}
