package data

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Vec2 is a plain yaml point.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PrefabEntry describes a batch of identical entities to spawn. Optional
// blocks left out of the yaml produce no component.
type PrefabEntry struct {
	Name     string        `yaml:"name"`
	Count    int           `yaml:"count"`
	Origin   Vec2          `yaml:"origin"`
	Spacing  Vec2          `yaml:"spacing"` // offset between consecutive spawns
	Velocity *Vec2         `yaml:"velocity"`
	Lifetime time.Duration `yaml:"lifetime"` // 0 = immortal
	Steering string        `yaml:"steering"` // Lua function name
	Dormant  bool          `yaml:"dormant"`
}

// PrefabTable holds prefabs in file order with lookup by name.
type PrefabTable struct {
	entries []*PrefabEntry
	byName  map[string]*PrefabEntry
}

// LoadPrefabTable loads prefabs.yaml.
func LoadPrefabTable(path string) (*PrefabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefab list: %w", err)
	}
	return ParsePrefabTable(raw)
}

// ParsePrefabTable parses prefab yaml already in memory.
func ParsePrefabTable(raw []byte) (*PrefabTable, error) {
	var entries []PrefabEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse prefab list: %w", err)
	}
	t := &PrefabTable{
		entries: make([]*PrefabEntry, 0, len(entries)),
		byName:  make(map[string]*PrefabEntry, len(entries)),
	}
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("prefab #%d has no name", i+1)
		}
		if _, dup := t.byName[e.Name]; dup {
			return nil, fmt.Errorf("prefab %q defined twice", e.Name)
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("prefab %q has negative count %d", e.Name, e.Count)
		}
		if e.Lifetime < 0 {
			return nil, fmt.Errorf("prefab %q has negative lifetime %s", e.Name, e.Lifetime)
		}
		t.entries = append(t.entries, e)
		t.byName[e.Name] = e
	}
	return t, nil
}

// Get returns the prefab with the given name, or nil if none.
func (t *PrefabTable) Get(name string) *PrefabEntry {
	return t.byName[name]
}

// All returns prefabs in file order.
func (t *PrefabTable) All() []*PrefabEntry {
	return t.entries
}

// Count returns the number of prefabs loaded.
func (t *PrefabTable) Count() int {
	return len(t.entries)
}

// Total returns how many entities the whole table spawns.
func (t *PrefabTable) Total() int {
	n := 0
	for _, e := range t.entries {
		n += e.Count
	}
	return n
}
