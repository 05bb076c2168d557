package main

// Missile tuning. Radius and offset are world units (the offset is the spawn
// distance from the shooter), speed is a per-tick delta, lifetime is ticks.
const (
	MissileRadius   = 6
	MissileSpeed    = Fixed(24) << FracBits
	MissileDamage   = 15
	MissileLifetime = 3 * TickRate
	MissileOffset   = Fixed(28) << FracBits
)

// Missile is a slow projectile. Each tick its path segment for that tick is
// traced with the early-out policy, so it can never tunnel through a wall or
// skip over a target regardless of speed.
type Missile struct {
	ID      string
	OwnerID string
	Ent     *Entity
	Damage  int
	Life    int
	Alive   bool

	// Hit is set when the missile struck a shootable entity this tick.
	Hit *Entity
}

// NewMissile launches a missile from the shooter toward (tx, ty). The
// entity is linked into the blockmap by the caller via World.Spawn.
func NewMissile(id string, shooter *Entity, tx, ty Fixed) *Missile {
	dir := PointToDir(shooter.X, shooter.Y, tx, ty)
	return &Missile{
		ID:      id,
		OwnerID: shooter.ID,
		Damage:  MissileDamage,
		Life:    MissileLifetime,
		Alive:   true,
		Ent: &Entity{
			ID:      id,
			Kind:    KindMissile,
			OwnerID: shooter.ID,
			X:       shooter.X + FixedMul(dirCos[dir], MissileOffset),
			Y:       shooter.Y + FixedMul(dirSin[dir], MissileOffset),
			VelX:    FixedMul(dirCos[dir], MissileSpeed),
			VelY:    FixedMul(dirSin[dir], MissileSpeed),
			Radius:  FixedFromInt(MissileRadius),
			Height:  FixedFromInt(8),
			Dir:     dir,
		},
	}
}

// Update advances the missile one tick. On impact Alive goes false and Hit
// carries the struck entity (nil for a wall impact).
func (ms *Missile) Update(w *World) {
	if !ms.Alive {
		return
	}
	e := ms.Ent
	x2 := e.X + e.VelX
	y2 := e.Y + e.VelY

	var hitEnt *Entity
	clear := w.tracer.PathTraverse(e.X, e.Y, x2, y2,
		TraceWalls|TraceEntities|TraceEarlyOut,
		func(ic *Intercept) bool {
			if ic.Wall != nil {
				return ic.Wall.TwoSided
			}
			t := ic.Entity
			if t == e || t.ID == ms.OwnerID || t.Flags&EntShootable == 0 {
				return true
			}
			hitEnt = t
			return false
		})

	if !clear {
		ms.Alive = false
		ms.Hit = hitEnt
		return
	}

	w.SetPosition(e, x2, y2)
	ms.Life--
	if ms.Life <= 0 {
		ms.Alive = false
	}
}

// ToState converts to the wire representation.
func (ms *Missile) ToState() MissileState {
	return MissileState{
		ID:    ms.ID,
		X:     int32(ms.Ent.X),
		Y:     int32(ms.Ent.Y),
		Dir:   ms.Ent.Dir,
		Owner: ms.OwnerID,
	}
}
