package validate

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/homecfg/hagate/pkg/hayaml"
	"github.com/homecfg/hagate/pkg/refs"
	"github.com/homecfg/hagate/pkg/registry"
)

// Runner drives the full pipeline over a set of configuration files.
type Runner struct {
	Snapshot         *registry.Snapshot
	SnapshotWarnings []registry.Warning
	Logger           *slog.Logger
}

// NewRunner loads the registry snapshot from storageDir and returns a runner
// ready to validate. A missing storage directory is not fatal.
func NewRunner(storageDir string, logger *slog.Logger) *Runner {
	snap, warnings := registry.Load(storageDir)
	return &Runner{Snapshot: snap, SnapshotWarnings: warnings, Logger: logger}
}

// RunDir discovers YAML files under configDir and validates them.
// secrets.yaml and blueprint directories are excluded: secrets hold no
// references by contract and blueprints are parameter templates, not config.
func (r *Runner) RunDir(configDir string) (*Report, error) {
	paths, err := Discover(configDir)
	if err != nil {
		return nil, err
	}
	return r.Run(paths)
}

// Run validates the given files in deterministic order and returns the
// aggregated report. Per-file problems become report entries; only an I/O
// failure aborts the run.
func (r *Runner) Run(paths []string) (*Report, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	snap := r.Snapshot
	if snap == nil {
		snap = registry.EmptySnapshot()
	}

	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	report := &Report{
		Files:             sorted,
		Findings:          []Finding{},
		SyntaxErrors:      []SyntaxError{},
		RegistryAvailable: snap.Available(),
	}
	if !snap.Available() {
		report.Advisories = append(report.Advisories,
			"registry snapshot unavailable, references cannot be resolved")
	}
	for _, w := range r.SnapshotWarnings {
		report.Advisories = append(report.Advisories,
			fmt.Sprintf("%s: %s", w.Source, w.Message))
	}

	// Load every file first: config-defined entities from one file resolve
	// references in another, so extraction needs the full set of documents.
	docs := make(map[string]*hayaml.Document, len(sorted))
	var loaded []*hayaml.Document
	for _, path := range sorted {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		doc, err := hayaml.Load(data, path)
		if err != nil {
			le, ok := err.(*hayaml.LoadError)
			if !ok {
				return nil, err
			}
			logger.Debug("structural failure", "file", path, "error", le.Message)
			report.SyntaxErrors = append(report.SyntaxErrors,
				errorf(path, le.Line, PhaseStructural, "%s", le.Message))
			continue
		}
		docs[path] = doc
		loaded = append(loaded, doc)
	}

	c := &classifier{snap: snap, defined: refs.ExtractDefined(loaded)}

	for _, path := range sorted {
		doc, ok := docs[path]
		if !ok {
			continue // failed structural load, already reported
		}
		logger.Debug("validating", "file", path)
		report.SyntaxErrors = append(report.SyntaxErrors, checkSyntax(doc)...)
		if filepath.Base(path) == "automations.yaml" {
			report.SyntaxErrors = append(report.SyntaxErrors, checkSemantic(doc)...)
		}
		report.Findings = append(report.Findings, c.classify(path, refs.Extract(doc))...)
	}

	sort.SliceStable(report.SyntaxErrors, func(i, j int) bool {
		a, b := report.SyntaxErrors[i], report.SyntaxErrors[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	report.finalize()
	logger.Info("validation complete",
		"files", len(sorted),
		"findings", len(report.Findings),
		"syntax_errors", report.SyntaxErrorCount(),
		"verdict", report.Verdict)
	return report, nil
}

// Discover lists YAML files under root, sorted, excluding secrets.yaml and
// anything under a blueprints directory.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				// The root itself may be "." or a dot-named directory
				// such as ~/.homeassistant; only children are skipped.
				return nil
			}
			if d.Name() == "blueprints" || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if d.Name() == "secrets.yaml" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover config files: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}
