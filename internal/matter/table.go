package matter

import (
	"encoding/json"
	"fmt"
	"os"
)

// Table is the dense, 0-indexed matter rule table. Index and Definition.ID
// always agree while the table is valid.
type Table struct {
	Definitions []Definition `json:"definitions"`
	Empty       uint8        `json:"empty"`
}

// Validate checks table invariants: ids must equal their index and every
// reaction's Becomes must reference an existing entry. It runs once at load
// and a failure is a fatal configuration error.
func (t *Table) Validate() error {
	if len(t.Definitions) == 0 {
		return fmt.Errorf("matter table: empty table")
	}
	if len(t.Definitions) > MaxMatters {
		return fmt.Errorf("matter table: %d definitions exceed the maximum of %d", len(t.Definitions), MaxMatters)
	}
	if int(t.Empty) >= len(t.Definitions) {
		return fmt.Errorf("matter table: empty id %d out of range", t.Empty)
	}
	for i, d := range t.Definitions {
		if int(d.ID) != i {
			return fmt.Errorf("matter table: definition %q: id %d does not equal index %d", d.Name, d.ID, i)
		}
		for j, r := range d.Reactions {
			if int(r.Becomes) >= len(t.Definitions) {
				return fmt.Errorf("matter table: id %d (%q) reaction %d: becomes %d references no definition", d.ID, d.Name, j, r.Becomes)
			}
		}
	}
	return nil
}

// Get returns the definition for id.
func (t *Table) Get(id uint8) Definition { return t.Definitions[id] }

// Len reports the number of definitions.
func (t *Table) Len() int { return len(t.Definitions) }

// AddOrUpdate appends def when its id equals the table length and replaces
// the entry in place otherwise. The caller re-uploads the table to the step
// engine afterwards.
func (t *Table) AddOrUpdate(def Definition) error {
	if int(def.ID) > len(t.Definitions) {
		return fmt.Errorf("matter table: id %d (%q) is not contiguous with table length %d", def.ID, def.Name, len(t.Definitions))
	}
	if int(def.ID) == len(t.Definitions) {
		if len(t.Definitions) == MaxMatters {
			return fmt.Errorf("matter table: cannot add %q, table is full", def.Name)
		}
		t.Definitions = append(t.Definitions, def)
		return nil
	}
	t.Definitions[def.ID] = def
	return nil
}

// Remove deletes the entry for id and shifts all higher ids down by one.
// Removing the reserved empty matter is disallowed. Reactions elsewhere in
// the table that named a shifted id keep their old Becomes value; they are
// not renumbered.
func (t *Table) Remove(id uint8) error {
	if id == t.Empty {
		return fmt.Errorf("matter table: cannot remove the empty matter (id %d)", id)
	}
	if int(id) >= len(t.Definitions) {
		return fmt.Errorf("matter table: cannot remove id %d, table has %d entries", id, len(t.Definitions))
	}
	t.Definitions = append(t.Definitions[:id], t.Definitions[id+1:]...)
	for i := range t.Definitions {
		t.Definitions[i].ID = uint8(i)
	}
	// The empty sentinel shifts down with everything above the removed id.
	if id < t.Empty {
		t.Empty--
	}
	return nil
}

// FindByColor returns the id of the definition with the exact packed color,
// or the empty id when no definition matches.
func (t *Table) FindByColor(c uint32) uint8 {
	for _, d := range t.Definitions {
		if d.Color == c {
			return d.ID
		}
	}
	return t.Empty
}

// Load reads and validates a table document from path.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("matter table %s: %w", path, err)
	}
	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("matter table %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("matter table %s: %w", path, err)
	}
	return &t, nil
}

// Save writes the table document to path.
func (t *Table) Save(path string) error {
	raw, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("matter table %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("matter table %s: %w", path, err)
	}
	return nil
}
