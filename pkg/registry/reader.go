package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/homecfg/hagate/pkg/refs"
)

// Storage file names, as written by Home Assistant.
const (
	entityRegistryFile = "core.entity_registry"
	deviceRegistryFile = "core.device_registry"
	areaRegistryFile   = "core.area_registry"
	restoreStateFile   = "core.restore_state"
)

// Warning is a non-fatal problem encountered while loading a snapshot.
type Warning struct {
	Source  string // storage file name, or "" for directory-level warnings
	Message string
}

func (w Warning) String() string {
	if w.Source != "" {
		return fmt.Sprintf("%s: %s", w.Source, w.Message)
	}
	return w.Message
}

func warningf(source, format string, args ...any) Warning {
	return Warning{Source: source, Message: fmt.Sprintf(format, args...)}
}

// storage envelope shared by all .storage registry files.
type storageFile struct {
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
}

type entityRecord struct {
	EntityID     string  `json:"entity_id"`
	ID           string  `json:"id"`
	Name         *string `json:"name"`
	OriginalName *string `json:"original_name"`
	DeviceID     *string `json:"device_id"`
	AreaID       *string `json:"area_id"`
	DisabledBy   *string `json:"disabled_by"`
}

type deviceRecord struct {
	ID     string  `json:"id"`
	Name   *string `json:"name"`
	AreaID *string `json:"area_id"`
}

type areaRecord struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// Load reads the three registry storage files from dir and builds a
// Snapshot. A missing directory or file is not fatal: the result is simply
// emptier, with a warning. One malformed record never blocks the others.
func Load(dir string) (*Snapshot, []Warning) {
	snap := EmptySnapshot()
	var warnings []Warning

	if _, err := os.Stat(dir); err != nil {
		warnings = append(warnings, warningf("", "registry storage %s unavailable", dir))
		return snap, warnings
	}

	warnings = append(warnings, loadEntities(dir, snap)...)
	warnings = append(warnings, loadDevices(dir, snap)...)
	warnings = append(warnings, loadAreas(dir, snap)...)
	warnings = append(warnings, loadRestoreState(dir, snap)...)
	return snap, warnings
}

// readStorage reads one storage file and unmarshals its data section into
// out. Returns (false, warning) when the file is missing or unreadable.
func readStorage(dir, name string, out any) (bool, []Warning) {
	path := filepath.Join(dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, []Warning{warningf(name, "registry file not found")}
		}
		return false, []Warning{warningf(name, "read failed: %v", err)}
	}

	var sf storageFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return false, []Warning{warningf(name, "malformed storage file: %v", err)}
	}
	if len(sf.Data) == 0 {
		return false, []Warning{warningf(name, "storage file has no data section")}
	}
	if err := json.Unmarshal(sf.Data, out); err != nil {
		return false, []Warning{warningf(name, "malformed data section: %v", err)}
	}
	return true, nil
}

func loadEntities(dir string, snap *Snapshot) []Warning {
	var data struct {
		Entities []json.RawMessage `json:"entities"`
	}
	ok, warnings := readStorage(dir, entityRegistryFile, &data)
	if !ok {
		return warnings
	}
	snap.available = true

	for i, raw := range data.Entities {
		var rec entityRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			warnings = append(warnings, warningf(entityRegistryFile, "skipping malformed entity record %d: %v", i, err))
			continue
		}
		if rec.EntityID == "" {
			warnings = append(warnings, warningf(entityRegistryFile, "skipping entity record %d: missing entity_id", i))
			continue
		}
		if _, dup := snap.entities[rec.EntityID]; dup {
			warnings = append(warnings, warningf(entityRegistryFile, "duplicate entity_id %q, keeping first", rec.EntityID))
			continue
		}
		e := &Entity{
			EntityID:   rec.EntityID,
			RegistryID: rec.ID,
			Name:       firstString(rec.Name, rec.OriginalName),
			DeviceID:   stringOr(rec.DeviceID),
			AreaID:     stringOr(rec.AreaID),
			Disabled:   rec.DisabledBy != nil,
		}
		snap.entities[e.EntityID] = e
		if e.RegistryID != "" {
			snap.byRegistryID[e.RegistryID] = e
		}
	}
	return warnings
}

func loadDevices(dir string, snap *Snapshot) []Warning {
	var data struct {
		Devices []json.RawMessage `json:"devices"`
	}
	ok, warnings := readStorage(dir, deviceRegistryFile, &data)
	if !ok {
		return warnings
	}
	snap.available = true

	for i, raw := range data.Devices {
		var rec deviceRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			warnings = append(warnings, warningf(deviceRegistryFile, "skipping malformed device record %d: %v", i, err))
			continue
		}
		if rec.ID == "" {
			warnings = append(warnings, warningf(deviceRegistryFile, "skipping device record %d: missing id", i))
			continue
		}
		if _, dup := snap.devices[rec.ID]; dup {
			warnings = append(warnings, warningf(deviceRegistryFile, "duplicate device id %q, keeping first", rec.ID))
			continue
		}
		snap.devices[rec.ID] = &Device{
			ID:     rec.ID,
			Name:   stringOr(rec.Name),
			AreaID: stringOr(rec.AreaID),
		}
	}
	return warnings
}

func loadAreas(dir string, snap *Snapshot) []Warning {
	var data struct {
		Areas []json.RawMessage `json:"areas"`
	}
	ok, warnings := readStorage(dir, areaRegistryFile, &data)
	if !ok {
		return warnings
	}
	snap.available = true

	for i, raw := range data.Areas {
		var rec areaRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			warnings = append(warnings, warningf(areaRegistryFile, "skipping malformed area record %d: %v", i, err))
			continue
		}
		if rec.ID == "" {
			warnings = append(warnings, warningf(areaRegistryFile, "skipping area record %d: missing id", i))
			continue
		}
		if _, dup := snap.areas[rec.ID]; dup {
			warnings = append(warnings, warningf(areaRegistryFile, "duplicate area id %q, keeping first", rec.ID))
			continue
		}
		snap.areas[rec.ID] = &Area{ID: rec.ID, Name: stringOr(rec.Name)}
	}
	return warnings
}

// loadRestoreState reads core.restore_state. Restore data can be stale after
// renames or removals, so it never makes a reference valid; the snapshot keeps
// the ids for diagnostics only and the file does not affect availability.
// A missing file is normal.
func loadRestoreState(dir string, snap *Snapshot) []Warning {
	raw, err := os.ReadFile(filepath.Join(dir, restoreStateFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return []Warning{warningf(restoreStateFile, "read failed: %v", err)}
	}

	var sf struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &sf); err != nil {
		return []Warning{warningf(restoreStateFile, "malformed storage file: %v", err)}
	}

	for _, item := range sf.Data {
		var rec struct {
			State struct {
				EntityID string `json:"entity_id"`
			} `json:"state"`
		}
		if err := json.Unmarshal(item, &rec); err != nil {
			continue // restore entries are best-effort
		}
		if refs.IsEntityID(rec.State.EntityID) {
			snap.restore[rec.State.EntityID] = true
		}
	}
	return nil
}

func stringOr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func firstString(ps ...*string) string {
	for _, p := range ps {
		if p != nil && *p != "" {
			return *p
		}
	}
	return ""
}
