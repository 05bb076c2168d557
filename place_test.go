package main

import "testing"

func TestCheckSpot(t *testing.T) {
	md := boxMap()
	addWall(md, 512, 256, 512, 768, false)
	addWall(md, 200, 800, 400, 800, true)
	w := mustWorld(t, md)

	if !w.CheckSpot(FixedFromInt(256), FixedFromInt(512), FixedFromInt(20)) {
		t.Error("open spot rejected")
	}
	if w.CheckSpot(FixedFromInt(512), FixedFromInt(512), FixedFromInt(20)) {
		t.Error("spot overlapping a solid wall accepted")
	}
	// A passable boundary through the spot does not obstruct it.
	if !w.CheckSpot(FixedFromInt(300), FixedFromInt(800), FixedFromInt(20)) {
		t.Error("spot on a passable boundary rejected")
	}
	// Outside the arena, the boundary wall crosses the square.
	if w.CheckSpot(FixedFromInt(0), FixedFromInt(512), FixedFromInt(20)) {
		t.Error("spot straddling the arena boundary accepted")
	}
}

func TestTeleport(t *testing.T) {
	md := boxMap()
	addWall(md, 512, 256, 512, 768, false)
	w := mustWorld(t, md)
	e := spawnTestEntity(w, "e", 256, 512, EntSolid)
	e.VelX = FixedFromInt(5)
	e.VelY = FixedFromInt(5)

	if w.Teleport(e, FixedFromInt(512), FixedFromInt(512)) {
		t.Fatal("teleport into a wall succeeded")
	}
	if e.X != FixedFromInt(256) {
		t.Error("failed teleport moved the entity")
	}
	if e.VelX == 0 {
		t.Error("failed teleport cleared velocity")
	}

	if !w.Teleport(e, FixedFromInt(768), FixedFromInt(512)) {
		t.Fatal("teleport to an open spot failed")
	}
	if e.X != FixedFromInt(768) || e.Y != FixedFromInt(512) {
		t.Errorf("position = (%d, %d)", e.X.Int(), e.Y.Int())
	}
	if e.VelX != 0 || e.VelY != 0 {
		t.Error("teleport did not clear velocity")
	}

	// Residency follows the teleport.
	found := false
	w.blockmap.IterEntitiesInCell(e.cellX, e.cellY, func(o *Entity) bool {
		if o == e {
			found = true
		}
		return true
	})
	if !found {
		t.Error("entity not resident in destination cell")
	}
}
