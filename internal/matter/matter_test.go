package matter

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultTableValidates(t *testing.T) {
	tab := DefaultTable()
	if err := tab.Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
	if tab.Get(IDSand).Name != "Sand" {
		t.Fatalf("expected Sand at id %d, got %q", IDSand, tab.Get(IDSand).Name)
	}
	if !tab.Get(IDWater).State.Disperses() {
		t.Fatal("water should disperse")
	}
	if !tab.Get(IDFire).Reactions[0].Decays() {
		t.Fatal("fire's first reaction should be a decay")
	}
}

func TestValidateRejectsIDMismatch(t *testing.T) {
	tab := DefaultTable()
	tab.Definitions[IDRock].ID = 99
	err := tab.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "Rock") {
		t.Fatalf("error should name the offending definition, got %v", err)
	}
}

func TestValidateRejectsDanglingBecomes(t *testing.T) {
	tab := DefaultTable()
	tab.Definitions[IDSand].Reactions[0].Becomes = uint8(tab.Len())
	if err := tab.Validate(); err == nil {
		t.Fatal("expected validation error for out-of-range becomes")
	}
}

func TestAddOrUpdate(t *testing.T) {
	tab := DefaultTable()
	n := tab.Len()

	oil := Definition{ID: uint8(n), Name: "Oil", Color: 0x2b2b20ff, Weight: 0.8, State: StateLiquid, Dispersion: 4}
	if err := tab.AddOrUpdate(oil); err != nil {
		t.Fatalf("append: %v", err)
	}
	if tab.Len() != n+1 || tab.Get(uint8(n)).Name != "Oil" {
		t.Fatalf("append did not take, len=%d", tab.Len())
	}

	oil.Weight = 0.9
	if err := tab.AddOrUpdate(oil); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if tab.Len() != n+1 || tab.Get(uint8(n)).Weight != 0.9 {
		t.Fatal("replace should modify in place")
	}

	if err := tab.AddOrUpdate(Definition{ID: uint8(n + 5), Name: "Gap"}); err == nil {
		t.Fatal("non-contiguous id should be rejected")
	}
}

func TestRemoveShiftsIDs(t *testing.T) {
	tab := DefaultTable()
	n := tab.Len()
	iceName := tab.Get(IDIce).Name

	if err := tab.Remove(IDRock); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if tab.Len() != n-1 {
		t.Fatalf("len = %d, want %d", tab.Len(), n-1)
	}
	// Ice sat one above rock and moves down into its slot.
	if got := tab.Get(IDRock); got.Name != iceName || got.ID != IDRock {
		t.Fatalf("shifted entry = %q id %d, want %q id %d", got.Name, got.ID, iceName, IDRock)
	}
	for i, d := range tab.Definitions {
		if int(d.ID) != i {
			t.Fatalf("id %d at index %d after remove", d.ID, i)
		}
	}
}

func TestRemoveEmptyDisallowed(t *testing.T) {
	tab := DefaultTable()
	if err := tab.Remove(tab.Empty); err == nil {
		t.Fatal("removing the empty matter should fail")
	}
}

func TestFindByColor(t *testing.T) {
	tab := DefaultTable()
	if got := tab.FindByColor(0xc2b280ff); got != IDSand {
		t.Fatalf("FindByColor(sand) = %d, want %d", got, IDSand)
	}
	if got := tab.FindByColor(0x01020304); got != tab.Empty {
		t.Fatalf("unknown color should map to empty, got %d", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matters.json")
	tab := DefaultTable()
	if err := tab.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Len() != tab.Len() {
		t.Fatalf("loaded %d definitions, want %d", loaded.Len(), tab.Len())
	}
	if loaded.Get(IDLava) != tab.Get(IDLava) {
		t.Fatal("lava definition changed across save/load")
	}
}

func TestPackUnpackColor(t *testing.T) {
	c := UnpackColor(0xe25822ff)
	if c.R != 0xe2 || c.G != 0x58 || c.B != 0x22 || c.A != 0xff {
		t.Fatalf("unpack = %v", c)
	}
	if PackColor(c) != 0xe25822ff {
		t.Fatalf("pack round trip = %#x", PackColor(c))
	}
}

func TestRemoveBelowEmptyRenumbersSentinel(t *testing.T) {
	tab := &Table{
		Empty: 2,
		Definitions: []Definition{
			{ID: 0, Name: "Stone", State: StateSolid, Color: 0x01000000},
			{ID: 1, Name: "Dust", State: StatePowder, Color: 0x02000000},
			{ID: 2, Name: "Empty", State: StateEmpty},
		},
	}
	if err := tab.Validate(); err != nil {
		t.Fatalf("table: %v", err)
	}
	if err := tab.Remove(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if tab.Empty != 1 {
		t.Fatalf("empty sentinel = %d, want 1", tab.Empty)
	}
	if got := tab.Get(tab.Empty); got.State != StateEmpty {
		t.Fatalf("sentinel points at %q, want the empty definition", got.Name)
	}
}
