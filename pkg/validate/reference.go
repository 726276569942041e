package validate

import (
	"fmt"

	"github.com/homecfg/hagate/pkg/refs"
	"github.com/homecfg/hagate/pkg/registry"
)

// builtinEntities always exist regardless of registry content.
var builtinEntities = map[string]bool{
	"sun.sun":   true,
	"zone.home": true,
}

// classifier resolves extracted references against the registry snapshot and
// the set of entities the configuration itself defines.
type classifier struct {
	snap    *registry.Snapshot
	defined map[string]bool
}

func (c *classifier) classify(file string, result refs.Result) []Finding {
	findings := make([]Finding, 0, len(result.Refs)+len(result.Pairs))
	for _, ref := range result.Refs {
		findings = append(findings, c.classifyRef(file, ref))
	}
	findings = append(findings, c.checkPairs(file, result.Pairs)...)
	return findings
}

func (c *classifier) classifyRef(file string, ref refs.Ref) Finding {
	f := Finding{File: file, Path: ref.Path, Line: ref.Line, ID: ref.ID, Kind: ref.Kind}
	switch ref.Kind {
	case refs.KindEntity:
		switch {
		case builtinEntities[ref.ID]:
			f.Classification = ClassValid
		case c.defined[ref.ID]:
			f.Classification = ClassValid
			f.Detail = "defined in configuration"
		default:
			if e, ok := c.snap.Entity(ref.ID); ok {
				f.Classification = ClassValid
				if e.Disabled {
					f.Classification = ClassDisabled
				}
			} else {
				f.Classification = ClassUnknown
				// Restore entries survive renames and removals, so the hit
				// is a hint toward the stale id, not a resolution.
				if c.snap.InRestoreState(ref.ID) {
					f.Detail = "not in registry but found in restore state"
				}
			}
		}
	case refs.KindRegistryID:
		if e, ok := c.snap.EntityByRegistryID(ref.ID); ok {
			f.Classification = ClassValid
			f.Detail = fmt.Sprintf("resolves to %s", e.EntityID)
			if e.Disabled {
				f.Classification = ClassDisabled
			}
		} else {
			f.Classification = ClassUnknown
		}
	case refs.KindDevice:
		f.Classification = ClassValid
		if _, ok := c.snap.Device(ref.ID); !ok {
			f.Classification = ClassUnknown
		}
	case refs.KindArea:
		f.Classification = ClassValid
		if _, ok := c.snap.Area(ref.ID); !ok {
			f.Classification = ClassUnknown
		}
	}
	return f
}

// checkPairs flags entities whose registry placement disagrees with the
// device or area named next to them. The references themselves were already
// classified individually; this only adds consistency warnings.
func (c *classifier) checkPairs(file string, pairs []refs.Pair) []Finding {
	var findings []Finding
	for _, pair := range pairs {
		e, ok := c.snap.Entity(pair.EntityID)
		if !ok {
			continue
		}
		if pair.AreaID != "" {
			if area := c.snap.EntityArea(e); area != "" && area != pair.AreaID {
				findings = append(findings, Finding{
					File: file, Path: pair.Path, Line: pair.Line,
					ID: pair.EntityID, Kind: refs.KindEntity,
					Classification: ClassConsistency,
					Detail: fmt.Sprintf("entity belongs to area %q, not %q",
						area, pair.AreaID),
				})
			}
		}
		if pair.DeviceID != "" && e.DeviceID != "" && e.DeviceID != pair.DeviceID {
			findings = append(findings, Finding{
				File: file, Path: pair.Path, Line: pair.Line,
				ID: pair.EntityID, Kind: refs.KindEntity,
				Classification: ClassConsistency,
				Detail: fmt.Sprintf("entity belongs to device %q, not %q",
					e.DeviceID, pair.DeviceID),
			})
		}
	}
	return findings
}
