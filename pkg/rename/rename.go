// Package rename rewrites an entity id across configuration files. It edits
// the YAML text directly so comments, ordering and formatting survive.
package rename

import (
	"fmt"
	"os"
	"regexp"

	"github.com/homecfg/hagate/pkg/refs"
	"github.com/homecfg/hagate/pkg/registry"
)

// Change is one file touched by a rename.
type Change struct {
	Path        string
	Occurrences int
	content     []byte
}

// Plan is a computed rename, not yet applied.
type Plan struct {
	OldID   string
	NewID   string
	Changes []Change
}

// Total returns the number of occurrences across all files.
func (p *Plan) Total() int {
	n := 0
	for _, c := range p.Changes {
		n += c.Occurrences
	}
	return n
}

// New computes a rename plan over the given files. The old id is matched on
// word boundaries only, so sensor.door never matches inside
// sensor.door_contact or binary_sensor.door.
func New(oldID, newID string, snap *registry.Snapshot, paths []string) (*Plan, error) {
	if !refs.IsEntityID(oldID) {
		return nil, fmt.Errorf("%q is not a valid entity id", oldID)
	}
	if !refs.IsEntityID(newID) {
		return nil, fmt.Errorf("%q is not a valid entity id", newID)
	}
	if oldID == newID {
		return nil, fmt.Errorf("old and new entity id are both %q", oldID)
	}
	if snap != nil {
		if _, ok := snap.Entity(newID); ok {
			return nil, fmt.Errorf("%q already exists in the registry", newID)
		}
	}

	re, err := boundaryPattern(oldID)
	if err != nil {
		return nil, err
	}

	plan := &Plan{OldID: oldID, NewID: newID}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		matches := re.FindAllIndex(data, -1)
		if len(matches) == 0 {
			continue
		}
		plan.Changes = append(plan.Changes, Change{
			Path:        path,
			Occurrences: len(matches),
			content:     re.ReplaceAll(data, []byte(newID)),
		})
	}
	return plan, nil
}

// Apply writes the rewritten files. The plan holds full rewritten contents,
// so a file changed on disk since New was computed is overwritten with the
// planned result.
func (p *Plan) Apply() error {
	for _, c := range p.Changes {
		info, err := os.Stat(c.Path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", c.Path, err)
		}
		if err := os.WriteFile(c.Path, c.content, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", c.Path, err)
		}
	}
	return nil
}

// boundaryPattern matches the id on word boundaries. The dot is a non-word
// character, so template attribute access like states.sensor.door.state still
// matches while sensor.door_contact and binary_sensor.door do not.
func boundaryPattern(id string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(id) + `\b`)
	if err != nil {
		return nil, fmt.Errorf("compile rename pattern: %w", err)
	}
	return re, nil
}
