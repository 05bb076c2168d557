package main

import "testing"

func TestLineAttackHitsNearestTarget(t *testing.T) {
	w := mustWorld(t, boxMap())
	shooter := spawnTestEntity(w, "shooter", 256, 512, EntSolid|EntShootable)
	near := spawnTestEntity(w, "near", 456, 512, EntSolid|EntShootable)
	spawnTestEntity(w, "far", 700, 512, EntSolid|EntShootable)

	hit := w.LineAttack(shooter, FixedFromInt(900), FixedFromInt(512))
	if hit == nil || hit.Target == nil {
		t.Fatal("expected a target hit")
	}
	if hit.Target != near {
		t.Errorf("hit %s, want the nearer target", hit.Target.ID)
	}
	if hit.Frac <= 0 || hit.Frac >= FracUnit {
		t.Errorf("frac = %d, want inside (0, 1)", hit.Frac)
	}
}

func TestLineAttackStopsAtWall(t *testing.T) {
	md := boxMap()
	addWall(md, 512, 256, 512, 768, false)
	w := mustWorld(t, md)
	shooter := spawnTestEntity(w, "shooter", 256, 512, EntSolid|EntShootable)
	spawnTestEntity(w, "hidden", 800, 512, EntSolid|EntShootable)

	hit := w.LineAttack(shooter, FixedFromInt(1000), FixedFromInt(512))
	if hit == nil {
		t.Fatal("expected a wall hit")
	}
	if hit.Target != nil {
		t.Errorf("hit target %s behind a solid wall", hit.Target.ID)
	}
	if hit.Wall == nil || hit.Wall.ID != 4 {
		t.Fatalf("hit the wrong wall: %+v", hit)
	}
	// Impact point lands on the wall plane, within fixed-point rounding.
	if fixedAbs(hit.X-FixedFromInt(512)) > FracUnit {
		t.Errorf("impact X = %d, want ~%d", hit.X, FixedFromInt(512))
	}
}

func TestLineAttackIgnoresShooterAndUnshootable(t *testing.T) {
	w := mustWorld(t, boxMap())
	shooter := spawnTestEntity(w, "shooter", 256, 512, EntSolid|EntShootable)
	spawnTestEntity(w, "scenery", 400, 512, EntSolid) // not shootable
	target := spawnTestEntity(w, "target", 600, 512, EntSolid|EntShootable)

	hit := w.LineAttack(shooter, FixedFromInt(900), FixedFromInt(512))
	if hit == nil || hit.Target != target {
		t.Fatalf("expected the shootable target, got %+v", hit)
	}
}

func TestLineAttackMiss(t *testing.T) {
	w := mustWorld(t, boxMap())
	shooter := spawnTestEntity(w, "shooter", 256, 512, EntSolid|EntShootable)

	// Shot ends in open space short of the boundary.
	hit := w.LineAttack(shooter, FixedFromInt(600), FixedFromInt(512))
	if hit != nil {
		t.Fatalf("expected a miss, got %+v", hit)
	}
}

func TestCheckSight(t *testing.T) {
	md := boxMap()
	addWall(md, 512, 256, 512, 768, false)
	addWall(md, 512, 768, 512, 1024, true)
	w := mustWorld(t, md)

	a := spawnTestEntity(w, "a", 256, 512, EntSolid)
	b := spawnTestEntity(w, "b", 768, 512, EntSolid)
	c := spawnTestEntity(w, "c", 768, 900, EntSolid)
	d := spawnTestEntity(w, "d", 256, 900, EntSolid)

	if w.CheckSight(a, b) {
		t.Error("sight through a solid wall")
	}
	if !w.CheckSight(d, c) {
		t.Error("sight blocked by a passable boundary")
	}
	if !w.CheckSight(a, d) {
		t.Error("sight blocked in open space")
	}
}
