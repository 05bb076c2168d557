package main

import "testing"

func TestPlayerThrustMoves(t *testing.T) {
	w := mustWorld(t, boxMap())
	p := NewPlayer("p1", "tester")
	p.Ent.X, p.Ent.Y = FixedFromInt(512), FixedFromInt(512)
	w.Spawn(p.Ent)

	p.Thrust = true
	startX := p.Ent.X
	p.Update(w)

	if p.Ent.VelX <= 0 {
		t.Errorf("velocity after thrust = %d", p.Ent.VelX)
	}
	if p.Ent.X <= startX {
		t.Error("player did not move forward")
	}
	if p.Ent.Y != FixedFromInt(512) {
		t.Error("facing +X but moved on Y")
	}
}

func TestPlayerFrictionStops(t *testing.T) {
	w := mustWorld(t, boxMap())
	p := NewPlayer("p1", "tester")
	p.Ent.X, p.Ent.Y = FixedFromInt(512), FixedFromInt(512)
	w.Spawn(p.Ent)
	p.Ent.VelX = FixedFromInt(8)

	for i := 0; i < 300; i++ {
		p.Update(w)
	}
	if p.Ent.VelX != 0 {
		t.Errorf("velocity after 300 coasting ticks = %d", p.Ent.VelX)
	}
}

func TestPlayerSpeedClamp(t *testing.T) {
	w := mustWorld(t, boxMap())
	p := NewPlayer("p1", "tester")
	p.Ent.X, p.Ent.Y = FixedFromInt(200), FixedFromInt(512)
	w.Spawn(p.Ent)

	p.Thrust = true
	for i := 0; i < 20; i++ {
		p.Update(w)
	}
	speed := ApproxDistance(p.Ent.VelX, p.Ent.VelY)
	if speed > PlayerMaxSpd+FracUnit {
		t.Errorf("speed = %d, clamp is %d", speed, PlayerMaxSpd)
	}
	if speed < PlayerMaxSpd/2 {
		t.Errorf("speed = %d, expected near the clamp", speed)
	}
}

func TestPlayerTurnStepping(t *testing.T) {
	w := mustWorld(t, boxMap())
	p := NewPlayer("p1", "tester")
	p.Ent.X, p.Ent.Y = FixedFromInt(512), FixedFromInt(512)
	w.Spawn(p.Ent)

	p.TurnInput = 1
	p.Update(w)
	if p.Ent.Dir != 1 {
		t.Fatalf("dir after first turn tick = %d, want 1", p.Ent.Dir)
	}
	// The turn cooldown holds the facing for the next ticks.
	p.Update(w)
	p.Update(w)
	if p.Ent.Dir != 1 {
		t.Fatalf("dir during cooldown = %d, want 1", p.Ent.Dir)
	}
	p.Update(w)
	if p.Ent.Dir != 2 {
		t.Errorf("dir after cooldown = %d, want 2", p.Ent.Dir)
	}

	// Turning left from 0 wraps to 15.
	q := NewPlayer("p2", "lefty")
	q.Ent.X, q.Ent.Y = FixedFromInt(300), FixedFromInt(300)
	w.Spawn(q.Ent)
	q.TurnInput = -1
	q.Update(w)
	if q.Ent.Dir != NumDirs-1 {
		t.Errorf("left turn from 0 = %d, want %d", q.Ent.Dir, NumDirs-1)
	}
}

func TestPlayerFireCooldown(t *testing.T) {
	w := mustWorld(t, boxMap())
	p := NewPlayer("p1", "tester")
	p.Ent.X, p.Ent.Y = FixedFromInt(512), FixedFromInt(512)
	w.Spawn(p.Ent)
	p.Firing = true

	if !p.CanFire() {
		t.Fatal("fresh player cannot fire")
	}
	p.FireCD = FireCooldown
	if p.CanFire() {
		t.Fatal("fired during cooldown")
	}
	for i := 0; i < FireCooldown; i++ {
		p.Update(w)
	}
	if !p.CanFire() {
		t.Error("cooldown did not expire")
	}
}

func TestPlayerTakeDamage(t *testing.T) {
	p := NewPlayer("p1", "tester")

	if p.TakeDamage(30) {
		t.Error("non-lethal damage reported a kill")
	}
	if p.Ent.HP != PlayerMaxHP-30 {
		t.Errorf("hp = %d", p.Ent.HP)
	}
	if !p.TakeDamage(200) {
		t.Error("lethal damage not reported")
	}
	if p.Alive || p.Ent.HP != 0 || p.Deaths != 1 {
		t.Errorf("death state: alive=%v hp=%d deaths=%d", p.Alive, p.Ent.HP, p.Deaths)
	}
	if p.RespawnT != RespawnTicks {
		t.Errorf("respawn timer = %d", p.RespawnT)
	}
	if p.TakeDamage(10) {
		t.Error("damage to a dead player reported a kill")
	}
}
