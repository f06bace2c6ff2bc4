package snapshot

import "testing"

func TestUnitIsDead(t *testing.T) {
	cases := []struct {
		name   string
		unit   CombatUnit
		expect bool
	}{
		{"alive with health", CombatUnit{Status: UnitAlive, Health: 50}, false},
		{"dead status", CombatUnit{Status: UnitDead, Health: 50}, true},
		{"zero health", CombatUnit{Status: UnitAlive, Health: 0}, true},
		{"negative health", CombatUnit{Status: UnitAlive, Health: -10}, true},
	}

	for _, tc := range cases {
		if got := tc.unit.IsDead(); got != tc.expect {
			t.Errorf("%s: IsDead() = %v, want %v", tc.name, got, tc.expect)
		}
	}
}

func TestUnitHasTarget(t *testing.T) {
	u := CombatUnit{}
	if u.HasTarget() {
		t.Error("Expected no target for empty CurrentTarget")
	}
	u.CurrentTarget = "enemy-1"
	if !u.HasTarget() {
		t.Error("Expected target for non-empty CurrentTarget")
	}
}

func TestSnapshotUnitLookup(t *testing.T) {
	s := &CombatSnapshot{
		Units: []CombatUnit{
			{UnitID: "a"},
			{UnitID: "b"},
		},
	}

	if u, ok := s.Unit("b"); !ok || u.UnitID != "b" {
		t.Errorf("Unit(b) = %v, %v; want unit b, true", u, ok)
	}
	if _, ok := s.Unit("missing"); ok {
		t.Error("Expected lookup miss for unknown id")
	}

	var nilSnap *CombatSnapshot
	if _, ok := nilSnap.Unit("a"); ok {
		t.Error("Expected lookup miss on nil snapshot")
	}
}

func TestSnapshotIDSets(t *testing.T) {
	s := &CombatSnapshot{
		Units: []CombatUnit{{UnitID: "a"}, {UnitID: "b"}},
		Projectiles: []ProjectileState{
			{ProjectileID: "p1"},
		},
	}

	ids := s.UnitIDs()
	if len(ids) != 2 {
		t.Fatalf("Expected 2 unit ids, got %d", len(ids))
	}
	if _, ok := ids["a"]; !ok {
		t.Error("Expected unit id a in set")
	}

	pids := s.ProjectileIDs()
	if len(pids) != 1 {
		t.Fatalf("Expected 1 projectile id, got %d", len(pids))
	}

	var nilSnap *CombatSnapshot
	if got := nilSnap.UnitIDs(); len(got) != 0 {
		t.Errorf("Expected empty id set on nil snapshot, got %d", len(got))
	}
}
