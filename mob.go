package main

// Mob tuning.
const (
	MobRadius     = 20 // world units
	MobMaxHP      = 60
	MobSpeed      = Fixed(4) << FracBits // units/tick
	MobSightRange = Fixed(768) << FracBits
	MobAttackCD   = 35 // ticks between shots
	MobWanderMin  = 20 // ticks before a wander turn may happen
)

// Mob is a hostile drone. It wanders until a player comes into sight, then
// turns toward the target and fires missiles at it. All of its senses run
// through the trace engine: CheckSight for vision, TryMove for walking.
type Mob struct {
	ID    string
	Ent   *Entity
	Alive bool

	TargetID string
	AttackCD int
	wanderT  int
}

// NewMob creates a mob avatar; the game spawns its entity into the world.
func NewMob(id string) *Mob {
	return &Mob{
		ID:    id,
		Alive: true,
		Ent: &Entity{
			ID:     id,
			Kind:   KindMob,
			Radius: FixedFromInt(MobRadius),
			Height: FixedFromInt(56),
			Flags:  EntSolid | EntShootable,
			HP:     MobMaxHP,
		},
	}
}

// acquireTarget picks the nearest visible, living player.
func (m *Mob) acquireTarget(w *World, players map[string]*Player) *Player {
	var best *Player
	bestDist := MobSightRange
	for _, p := range players {
		if !p.Alive {
			continue
		}
		d := ApproxDistance(p.Ent.X-m.Ent.X, p.Ent.Y-m.Ent.Y)
		if d >= bestDist {
			continue
		}
		if !w.CheckSight(m.Ent, p.Ent) {
			continue
		}
		best = p
		bestDist = d
	}
	return best
}

// Update advances the mob one tick. Returns a missile if the mob fired.
func (m *Mob) Update(g *Game) *Missile {
	if !m.Alive {
		return nil
	}
	w := g.world
	e := m.Ent

	target := (*Player)(nil)
	if t, ok := g.players[m.TargetID]; ok && t.Alive && w.CheckSight(e, t.Ent) {
		target = t
	} else {
		m.TargetID = ""
		if t := m.acquireTarget(w, g.players); t != nil {
			target = t
			m.TargetID = t.ID
		}
	}

	if target != nil {
		e.Dir = PointToDir(e.X, e.Y, target.Ent.X, target.Ent.Y)
	} else {
		m.wanderT--
		if m.wanderT <= 0 {
			e.Dir = (e.Dir + g.randN(3) - 1 + NumDirs) & (NumDirs - 1)
			m.wanderT = MobWanderMin + g.randN(MobWanderMin)
		}
	}

	x := e.X + FixedMul(dirCos[e.Dir], MobSpeed)
	y := e.Y + FixedMul(dirSin[e.Dir], MobSpeed)
	if !w.TryMove(e, x, y) && target == nil {
		// Walked into something while wandering: pick a new heading soon.
		m.wanderT = 0
	}

	if m.AttackCD > 0 {
		m.AttackCD--
	}
	if target != nil && m.AttackCD == 0 {
		m.AttackCD = MobAttackCD
		return NewMissile(g.nextID(), e, target.Ent.X, target.Ent.Y)
	}
	return nil
}

// TakeDamage applies damage and reports whether the mob died.
func (m *Mob) TakeDamage(dmg int) bool {
	if !m.Alive {
		return false
	}
	m.Ent.HP -= dmg
	if m.Ent.HP <= 0 {
		m.Ent.HP = 0
		m.Alive = false
		return true
	}
	return false
}

// ToState converts to the wire representation.
func (m *Mob) ToState() MobState {
	return MobState{
		ID:    m.ID,
		X:     int32(m.Ent.X),
		Y:     int32(m.Ent.Y),
		Dir:   m.Ent.Dir,
		HP:    m.Ent.HP,
		MaxHP: MobMaxHP,
		Alive: m.Alive,
	}
}
