package validate

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/homecfg/hagate/pkg/registry"
)

const entityRegistryJSON = `{
  "version": 1,
  "key": "core.entity_registry",
  "data": {
    "entities": [
      {"entity_id": "sensor.front_door", "id": "11111111111111111111111111111111", "disabled_by": null},
      {"entity_id": "light.porch", "id": "22222222222222222222222222222222", "disabled_by": null, "area_id": "porch"},
      {"entity_id": "switch.heater", "id": "33333333333333333333333333333333", "disabled_by": "user"}
    ]
  }
}`

const deviceRegistryJSON = `{
  "version": 1,
  "key": "core.device_registry",
  "data": {
    "devices": []
  }
}`

const areaRegistryJSON = `{
  "version": 1,
  "key": "core.area_registry",
  "data": {
    "areas": [
      {"id": "porch", "name": "Porch"},
      {"id": "kitchen", "name": "Kitchen"}
    ]
  }
}`

func writeStorage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	storage := filepath.Join(dir, ".storage")
	if err := os.MkdirAll(storage, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{
		"core.entity_registry": entityRegistryJSON,
		"core.device_registry": deviceRegistryJSON,
		"core.area_registry":   areaRegistryJSON,
	} {
		if err := os.WriteFile(filepath.Join(storage, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return storage
}

func writeConfig(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	snap, warnings := registry.Load(writeStorage(t))
	if len(warnings) != 0 {
		t.Fatalf("registry warnings: %v", warnings)
	}
	return &Runner{Snapshot: snap}
}

func TestRunKnownAndUnknownEntities(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"a.yaml": "entity_id: sensor.front_door\n",
		"b.yaml": "entity_id: sensor.unknown_thing\n",
	})
	report, err := newTestRunner(t).RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if report.Verdict {
		t.Error("verdict = pass, want fail")
	}
	if len(report.SyntaxErrors) != 0 {
		t.Errorf("syntax errors = %v", report.SyntaxErrors)
	}
	counts := report.Counts()
	if counts[ClassUnknown] != 1 || counts[ClassValid] != 1 {
		t.Fatalf("counts = %v", counts)
	}
	for _, f := range report.Findings {
		if f.Classification == ClassUnknown {
			if filepath.Base(f.File) != "b.yaml" || f.ID != "sensor.unknown_thing" {
				t.Errorf("unknown finding = %+v", f)
			}
		}
	}
}

func TestRunDisabledEntityStillPasses(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"a.yaml": "entity_id: switch.heater\n",
	})
	report, err := newTestRunner(t).RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Verdict {
		t.Error("verdict = fail, want pass")
	}
	if counts := report.Counts(); counts[ClassDisabled] != 1 {
		t.Fatalf("counts = %v", counts)
	}
	if report.WarningCount() != 1 {
		t.Errorf("warning count = %d", report.WarningCount())
	}
}

func TestRunDuplicateKeyContinuesBatch(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"bad.yaml":  "entity_id: light.porch\nentity_id: light.porch\n",
		"good.yaml": "entity_id: sensor.front_door\n",
	})
	report, err := newTestRunner(t).RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n := report.SyntaxErrorCount(); n != 1 {
		t.Fatalf("syntax errors = %v", report.SyntaxErrors)
	}
	if !strings.Contains(report.SyntaxErrors[0].Message, "duplicate key") {
		t.Errorf("message = %q", report.SyntaxErrors[0].Message)
	}
	// the other file is still classified
	if counts := report.Counts(); counts[ClassValid] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestRunUnrecognizedTagReportsOneError(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"configuration.yaml": "value: !env_var HOME\n",
	})
	report, err := newTestRunner(t).RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n := report.SyntaxErrorCount(); n != 1 {
		t.Fatalf("syntax errors = %v", report.SyntaxErrors)
	}
	if !strings.Contains(report.SyntaxErrors[0].Message, "!env_var") {
		t.Errorf("error does not name the tag: %q", report.SyntaxErrors[0].Message)
	}
}

func TestRunConfigDefinedEntityResolves(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"configuration.yaml": `
input_boolean:
  guest_mode:
    name: Guest mode
`,
		"automations.yaml": `
- alias: Guest arrives
  trigger:
    platform: state
    entity_id: input_boolean.guest_mode
  action: []
`,
	})
	report, err := newTestRunner(t).RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Verdict {
		t.Fatalf("verdict = fail: findings %v, syntax %v", report.Findings, report.SyntaxErrors)
	}
	if counts := report.Counts(); counts[ClassValid] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestRunBuiltinEntities(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"a.yaml": "entity_id: [sun.sun, zone.home]\n",
	})
	report, err := newTestRunner(t).RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if counts := report.Counts(); counts[ClassValid] != 2 || counts[ClassUnknown] != 0 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestRunAreaConsistencyWarning(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"a.yaml": `
target:
  entity_id: light.porch
  area_id: kitchen
`,
	})
	report, err := newTestRunner(t).RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	counts := report.Counts()
	if counts[ClassConsistency] != 1 {
		t.Fatalf("counts = %v, findings = %v", counts, report.Findings)
	}
	// mismatch is a warning, both references resolve
	if !report.Verdict {
		t.Error("verdict = fail, want pass")
	}
}

func TestRunRegistryUnavailable(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"a.yaml": "entity_id: sensor.front_door\n",
	})
	snap, _ := registry.Load(filepath.Join(t.TempDir(), "missing"))
	runner := &Runner{Snapshot: snap}
	report, err := runner.RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if report.RegistryAvailable {
		t.Error("RegistryAvailable = true")
	}
	if len(report.Advisories) == 0 {
		t.Fatal("expected an advisory")
	}
	if counts := report.Counts(); counts[ClassUnknown] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestRunSkipsSecretsAndBlueprints(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"secrets.yaml":                     "api_key: hunter2\n",
		"blueprints/automation/m.yaml":     "trigger:\n  entity_id: !input sensor\n",
		"configuration.yaml":               "homeassistant: {}\n",
		filepath.Join("notes", "todo.txt"): "not yaml\n",
	})
	report, err := newTestRunner(t).RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Files) != 1 || filepath.Base(report.Files[0]) != "configuration.yaml" {
		t.Fatalf("files = %v", report.Files)
	}
}

func TestRunRestoreStateDiagnostic(t *testing.T) {
	storage := writeStorage(t)
	restoreJSON := `{"key": "core.restore_state", "data": [
		{"state": {"entity_id": "sensor.renamed_away", "state": "3"}}
	]}`
	if err := os.WriteFile(filepath.Join(storage, "core.restore_state"), []byte(restoreJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := writeConfig(t, map[string]string{
		"a.yaml": "entity_id: [sensor.renamed_away, sensor.never_seen]\n",
	})

	snap, _ := registry.Load(storage)
	report, err := (&Runner{Snapshot: snap}).RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	// restore state is diagnostic only, both stay unknown and the run fails
	if report.Verdict {
		t.Error("verdict = pass, want fail")
	}
	if counts := report.Counts(); counts[ClassUnknown] != 2 {
		t.Fatalf("counts = %v", counts)
	}
	details := map[string]string{}
	for _, f := range report.Findings {
		details[f.ID] = f.Detail
	}
	if !strings.Contains(details["sensor.renamed_away"], "restore state") {
		t.Errorf("detail = %q", details["sensor.renamed_away"])
	}
	if details["sensor.never_seen"] != "" {
		t.Errorf("detail = %q", details["sensor.never_seen"])
	}
}

func TestDiscoverDotNamedRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".homeassistant")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "automations.yaml"), []byte("[]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	paths, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("paths = %v, want the file inside the dot-named root", paths)
	}
}

func TestDiscoverRelativeDotRoot(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"a.yaml":                  "entity_id: sensor.front_door\n",
		".storage/core.fake":      "{}",
		".hidden/ignored.yaml":    "entity_id: sensor.x\n",
		"blueprints/auto/bp.yaml": "trigger: {}\n",
	})
	t.Chdir(dir)
	paths, err := Discover(".")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(".", "a.yaml") {
		t.Fatalf("paths = %v, want a.yaml only", paths)
	}
}

func TestRunIdempotent(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"a.yaml": "entity_id: [sensor.front_door, sensor.mystery, switch.heater]\n",
		"b.yaml": "area_id: porch\nbad: !bogus x\n",
	})
	runner := newTestRunner(t)
	first, err := runner.RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := runner.RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reports differ:\n%+v\n%+v", first, second)
	}
}

func TestRunFindingOrderFollowsFiles(t *testing.T) {
	dir := writeConfig(t, map[string]string{
		"b.yaml": "entity_id: light.porch\n",
		"a.yaml": "entity_id: sensor.front_door\n",
	})
	report, err := newTestRunner(t).RunDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Findings) != 2 {
		t.Fatalf("findings = %v", report.Findings)
	}
	if filepath.Base(report.Findings[0].File) != "a.yaml" {
		t.Errorf("first finding from %s", report.Findings[0].File)
	}
}
