package scenario

import (
	"path/filepath"
	"testing"
)

func TestLoadScenario(t *testing.T) {
	list, err := Load("testdata/extra.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(list))
	}
	sc := list[0]
	if sc.ID != "night_shift" || sc.Name != "Night shift" {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if len(sc.Cranes) != 2 {
		t.Fatalf("expected 2 cranes, got %d", len(sc.Cranes))
	}
	if sc.Cranes[0].InitialSlewAngle != 90 || sc.Cranes[1].IsActive() {
		t.Fatalf("unexpected cranes %+v", sc.Cranes)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuiltInPresets(t *testing.T) {
	presets := BuiltIn()
	want := map[string]int{
		"normal_operation":       3,
		"approaching":            2,
		"head_on_collision":      2,
		"crossing_paths":         2,
		"multi_crane_congestion": 4,
	}
	if len(presets) != len(want) {
		t.Fatalf("expected %d presets, got %d", len(want), len(presets))
	}
	for id, n := range want {
		sc, ok := presets[id]
		if !ok {
			t.Fatalf("preset %s not found", id)
		}
		if sc.ID != id || sc.Name == "" || sc.Description == "" {
			t.Fatalf("preset %s incomplete: %+v", id, sc)
		}
		if len(sc.Cranes) != n {
			t.Fatalf("preset %s: expected %d cranes, got %d", id, n, len(sc.Cranes))
		}
		seen := map[string]bool{}
		for _, c := range sc.Cranes {
			if seen[c.ID] {
				t.Fatalf("preset %s: duplicate crane %s", id, c.ID)
			}
			seen[c.ID] = true
			if c.BoomLength <= 0 {
				t.Fatalf("preset %s: crane %s without boom", id, c.ID)
			}
		}
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()
	if err := c.LoadFile("testdata/extra.yaml"); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if _, ok := c.Get("night_shift"); !ok {
		t.Fatalf("loaded scenario not found")
	}
	if _, ok := c.Get("nope"); ok {
		t.Fatalf("unexpected scenario")
	}
	list := c.List()
	if len(list) != 6 {
		t.Fatalf("expected 6 summaries, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Fatalf("summaries not sorted: %v", list)
		}
	}
}
