// Package registry loads a point-in-time snapshot of the Home Assistant
// entity, device and area registries from the .storage directory.
package registry

// Entity is one entity registry entry.
type Entity struct {
	EntityID   string
	RegistryID string // the 32-hex internal id; referenced by device automations
	Name       string
	DeviceID   string
	AreaID     string
	Disabled   bool
}

// Domain returns the entity's domain (the part before the first dot).
func (e *Entity) Domain() string {
	for i := 0; i < len(e.EntityID); i++ {
		if e.EntityID[i] == '.' {
			return e.EntityID[:i]
		}
	}
	return ""
}

// Device is one device registry entry.
type Device struct {
	ID     string
	Name   string
	AreaID string
}

// Area is one area registry entry.
type Area struct {
	ID   string
	Name string
}

// Snapshot is an immutable view of all three registries. It is safe to share
// across concurrent validations.
type Snapshot struct {
	entities     map[string]*Entity
	byRegistryID map[string]*Entity
	devices      map[string]*Device
	areas        map[string]*Area
	restore      map[string]bool
	available    bool
}

// EmptySnapshot returns a snapshot with no registry data. Lookups classify
// everything as unknown; Available reports false.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		entities:     map[string]*Entity{},
		byRegistryID: map[string]*Entity{},
		devices:      map[string]*Device{},
		areas:        map[string]*Area{},
		restore:      map[string]bool{},
	}
}

// Available reports whether any registry source was actually loaded.
// A missing .storage directory yields an empty, unavailable snapshot.
func (s *Snapshot) Available() bool { return s.available }

// Entity looks up an entity by entity_id.
func (s *Snapshot) Entity(id string) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// EntityByRegistryID looks up an entity by its internal registry id.
func (s *Snapshot) EntityByRegistryID(id string) (*Entity, bool) {
	e, ok := s.byRegistryID[id]
	return e, ok
}

// InRestoreState reports whether restore state storage has seen the entity.
// Restore entries can outlive a rename or removal, so presence here is a
// diagnostic hint, never a resolution.
func (s *Snapshot) InRestoreState(id string) bool {
	return s.restore[id]
}

// Device looks up a device by id.
func (s *Snapshot) Device(id string) (*Device, bool) {
	d, ok := s.devices[id]
	return d, ok
}

// Area looks up an area by id.
func (s *Snapshot) Area(id string) (*Area, bool) {
	a, ok := s.areas[id]
	return a, ok
}

// Counts returns the number of entities, devices and areas.
func (s *Snapshot) Counts() (entities, devices, areas int) {
	return len(s.entities), len(s.devices), len(s.areas)
}

// EntityArea resolves the area an entity effectively belongs to: its own
// area_id when set, otherwise its device's area.
func (s *Snapshot) EntityArea(e *Entity) string {
	if e.AreaID != "" {
		return e.AreaID
	}
	if d, ok := s.devices[e.DeviceID]; ok {
		return d.AreaID
	}
	return ""
}
