package main

// Player tuning. Velocities and thrust are per-tick fixed-point deltas, so
// the whole movement pipeline stays in deterministic integer math.
const (
	PlayerRadius  = 16 // world units
	PlayerMaxHP   = 100
	PlayerThrust  = FracUnit + FracUnit/2 // 1.5 units/tick² of thrust
	PlayerMaxSpd  = Fixed(12) << FracBits // units/tick
	FrictionMul   = Fixed(59392)          // 0.90625, shift-exact
	TurnEvery     = 2                     // ticks per 22.5° turn step
	FireCooldown  = 12                    // ticks between shots
	RespawnTicks  = 3 * TickRate
	AttackRange   = Fixed(1024) << FracBits
	HitscanDamage = 20
)

// Player is a connected player's avatar plus its per-tick input.
type Player struct {
	ID    string
	Name  string
	Ent   *Entity
	Alive bool

	Frags  int
	Deaths int

	FireCD   int
	RespawnT int
	turnCD   int

	// Latest input, applied once per tick.
	TurnInput int // -1, 0, +1
	Thrust    bool
	Firing    bool

	// Authenticated account, 0 for guests.
	authPlayerID int64
}

// NewPlayer creates a player avatar. The entity is not yet in a world;
// the game spawns it at a validated spot.
func NewPlayer(id, name string) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Alive: true,
		Ent: &Entity{
			ID:     id,
			Kind:   KindPlayer,
			Radius: FixedFromInt(PlayerRadius),
			Height: FixedFromInt(56),
			Flags:  EntSolid | EntShootable,
			HP:     PlayerMaxHP,
		},
	}
}

// Update advances the player one tick: turning, thrust, friction, speed
// clamp, then the actual move through the collision trace.
func (p *Player) Update(w *World) {
	if !p.Alive {
		return
	}
	e := p.Ent

	if p.turnCD > 0 {
		p.turnCD--
	} else if p.TurnInput != 0 {
		e.Dir = (e.Dir + p.TurnInput + NumDirs) & (NumDirs - 1)
		p.turnCD = TurnEvery
	}

	if p.Thrust {
		e.VelX += FixedMul(dirCos[e.Dir], PlayerThrust)
		e.VelY += FixedMul(dirSin[e.Dir], PlayerThrust)
	}

	e.VelX = FixedMul(e.VelX, FrictionMul)
	e.VelY = FixedMul(e.VelY, FrictionMul)

	speed := ApproxDistance(e.VelX, e.VelY)
	if speed > PlayerMaxSpd {
		scale := FixedDiv(PlayerMaxSpd, speed)
		e.VelX = FixedMul(e.VelX, scale)
		e.VelY = FixedMul(e.VelY, scale)
	}

	if e.VelX != 0 || e.VelY != 0 {
		w.SlideMove(e)
	}

	if p.FireCD > 0 {
		p.FireCD--
	}
}

// CanFire reports whether the player may fire this tick.
func (p *Player) CanFire() bool {
	return p.Alive && p.Firing && p.FireCD == 0
}

// TakeDamage applies damage and reports whether the player died.
func (p *Player) TakeDamage(dmg int) bool {
	if !p.Alive {
		return false
	}
	p.Ent.HP -= dmg
	if p.Ent.HP <= 0 {
		p.Ent.HP = 0
		p.Alive = false
		p.Deaths++
		p.RespawnT = RespawnTicks
		return true
	}
	return false
}

// ToState converts to the wire representation.
func (p *Player) ToState() PlayerState {
	e := p.Ent
	return PlayerState{
		ID:    p.ID,
		Name:  p.Name,
		X:     int32(e.X),
		Y:     int32(e.Y),
		Dir:   e.Dir,
		HP:    e.HP,
		MaxHP: PlayerMaxHP,
		Frags: p.Frags,
		Alive: p.Alive,
	}
}
