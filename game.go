package main

import (
	"crypto/rand"
	"encoding/binary"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 35 // simulation ticks per second
	BroadcastEvery = 2  // snapshot every N ticks
	TickDuration   = time.Second / TickRate
)

const (
	maxPlayersPerSession  = 16
	maxMissilesPerSession = 200
	maxMobsPerSession     = 6
	mobSpawnEvery         = 10 * TickRate
	itemSpawnEvery        = 8 * TickRate
	spawnAttempts         = 32
)

// Broadcaster is the send-side of a connected client.
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game runs one session's simulation. The tick goroutine is the only writer
// of the world, its blockmap, and all entities; every accessor takes the
// game mutex, which gives the trace engine the per-tick exclusivity it
// needs (grid residency and the query token stay stable for the duration of
// any one trace).
type Game struct {
	mu       sync.RWMutex
	world    *World
	players  map[string]*Player
	mobs     map[string]*Mob
	missiles map[string]*Missile
	items    map[string]*Item
	clients  map[string]Broadcaster

	tick     uint64
	running  bool
	stop     chan struct{}
	randSrc  uint64
	idSerial uint64
}

// NewGame creates a game over a loaded world.
func NewGame(w *World) *Game {
	g := &Game{
		world:    w,
		players:  make(map[string]*Player),
		mobs:     make(map[string]*Mob),
		missiles: make(map[string]*Missile),
		items:    make(map[string]*Item),
		clients:  make(map[string]Broadcaster),
		stop:     make(chan struct{}),
	}
	var b [8]byte
	rand.Read(b[:])
	g.randSrc = binary.LittleEndian.Uint64(b[:]) | 1
	return g
}

// Run starts the game loop.
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// randN returns a pseudo-random int in [0, n) from a per-game xorshift.
func (g *Game) randN(n int) int {
	g.randSrc ^= g.randSrc << 13
	g.randSrc ^= g.randSrc >> 7
	g.randSrc ^= g.randSrc << 17
	return int(g.randSrc % uint64(n))
}

// nextID returns a session-unique entity ID.
func (g *Game) nextID() string {
	g.idSerial++
	return "e" + strconv.FormatUint(g.idSerial, 36)
}

// findSpot picks a random position inside the world where a bounding square
// of the given radius fits, validated through the placement trace. Returns
// false if no spot was found within the attempt limit.
func (g *Game) findSpot(radius Fixed) (Fixed, Fixed, bool) {
	w := g.world
	spanX := int((w.MaxX - w.MinX) >> FracBits)
	spanY := int((w.MaxY - w.MinY) >> FracBits)
	margin := radius.Int() * 2
	if spanX <= 2*margin || spanY <= 2*margin {
		return 0, 0, false
	}
	for i := 0; i < spawnAttempts; i++ {
		x := w.MinX + FixedFromInt(margin+g.randN(spanX-2*margin))
		y := w.MinY + FixedFromInt(margin+g.randN(spanY-2*margin))
		if w.CheckSpot(x, y, radius) {
			return x, y, true
		}
	}
	return 0, 0, false
}

// AddPlayer adds a new player to the game at a validated spawn spot.
// Returns nil when the session is full or no spot could be found.
func (g *Game) AddPlayer(name string, authPlayerID int64) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) >= maxPlayersPerSession {
		return nil
	}
	p := NewPlayer(GenerateID(4), name)
	p.authPlayerID = authPlayerID
	x, y, ok := g.findSpot(p.Ent.Radius)
	if !ok {
		return nil
	}
	p.Ent.X, p.Ent.Y = x, y
	g.world.Spawn(p.Ent)
	g.players[p.ID] = p
	return p
}

// RemovePlayer removes a player, returning (frags, deaths, authPlayerID)
// so the caller can persist stats for authenticated accounts.
func (g *Game) RemovePlayer(id string) (int, int, int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[id]
	if !ok {
		return 0, 0, 0
	}
	if p.Ent.linked {
		g.world.Remove(p.Ent)
	}
	delete(g.players, id)
	delete(g.clients, id)
	return p.Frags, p.Deaths, p.authPlayerID
}

// SetClient associates a broadcaster with a player.
func (g *Game) SetClient(playerID string, client Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[playerID] = client
}

// HandleInput stores a player's latest input for the next tick.
func (g *Game) HandleInput(playerID string, input ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.players[playerID]
	if !ok {
		return
	}
	if input.Turn > 1 {
		input.Turn = 1
	} else if input.Turn < -1 {
		input.Turn = -1
	}
	p.TurnInput = input.Turn
	p.Thrust = input.Thrust
	p.Firing = input.Fire
}

// PlayerCount returns the number of players.
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.players)
}

// MapName returns the name of the loaded map.
func (g *Game) MapName() string {
	return g.world.Name
}

// update runs one simulation tick.
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++
	w := g.world

	for _, p := range g.players {
		if !p.Alive {
			p.RespawnT--
			if p.RespawnT <= 0 {
				g.respawnPlayer(p)
			}
			continue
		}
		p.Update(w)
		if p.CanFire() {
			p.FireCD = FireCooldown
			g.fireHitscan(p)
		}
		for _, it := range g.items {
			if it.Alive && it.Touches(p.Ent) {
				it.Alive = false
				p.Ent.HP += ItemHeal
				if p.Ent.HP > PlayerMaxHP {
					p.Ent.HP = PlayerMaxHP
				}
			}
		}
	}

	for id, m := range g.mobs {
		if !m.Alive {
			delete(g.mobs, id)
			continue
		}
		if ms := m.Update(g); ms != nil && len(g.missiles) < maxMissilesPerSession {
			w.Spawn(ms.Ent)
			g.missiles[ms.ID] = ms
		}
	}

	for id, ms := range g.missiles {
		ms.Update(w)
		if ms.Alive {
			continue
		}
		if ms.Hit != nil {
			g.applyHit(ms.OwnerID, ms.Hit, ms.Damage)
		}
		w.Remove(ms.Ent)
		delete(g.missiles, id)
	}

	for id, it := range g.items {
		it.Update()
		if !it.Alive {
			if it.Ent.linked {
				w.Remove(it.Ent)
			}
			delete(g.items, id)
		}
	}

	if g.tick%mobSpawnEvery == 0 && len(g.mobs) < maxMobsPerSession {
		g.spawnMob()
	}
	if g.tick%itemSpawnEvery == 0 && len(g.items) < MaxItems {
		g.spawnItem()
	}

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

func (g *Game) respawnPlayer(p *Player) {
	x, y, ok := g.findSpot(p.Ent.Radius)
	if !ok {
		p.RespawnT = TickRate // try again in a second
		return
	}
	p.Ent.X, p.Ent.Y = x, y
	p.Ent.VelX, p.Ent.VelY = 0, 0
	p.Ent.HP = PlayerMaxHP
	p.Alive = true
	p.FireCD = 0
	g.world.Spawn(p.Ent)
}

func (g *Game) spawnMob() {
	m := NewMob(g.nextID())
	x, y, ok := g.findSpot(m.Ent.Radius)
	if !ok {
		return
	}
	m.Ent.X, m.Ent.Y = x, y
	m.Ent.Dir = g.randN(NumDirs)
	g.world.Spawn(m.Ent)
	g.mobs[m.ID] = m
}

func (g *Game) spawnItem() {
	x, y, ok := g.findSpot(FixedFromInt(ItemRadius))
	if !ok {
		return
	}
	it := NewItem(g.nextID(), x, y)
	g.world.Spawn(it.Ent)
	g.items[it.ID] = it
}

// fireHitscan resolves a player's shot: a full-length trace toward the
// facing direction, nearest shootable target or blocking wall wins.
func (g *Game) fireHitscan(p *Player) {
	e := p.Ent
	x2 := e.X + FixedMul(dirCos[e.Dir], AttackRange)
	y2 := e.Y + FixedMul(dirSin[e.Dir], AttackRange)
	hit := g.world.LineAttack(e, x2, y2)
	if hit == nil || hit.Target == nil {
		return
	}
	g.applyHit(p.ID, hit.Target, HitscanDamage)
}

// applyHit routes damage to whatever the entity belongs to and handles
// kill credit.
func (g *Game) applyHit(attackerID string, target *Entity, dmg int) {
	if victim, ok := g.players[target.ID]; ok {
		if !victim.TakeDamage(dmg) {
			return
		}
		g.world.Remove(victim.Ent)
		killerName := "drone"
		if killer, ok := g.players[attackerID]; ok {
			killer.Frags++
			killerName = killer.Name
		}
		g.broadcastMsg(Envelope{T: MsgKill, Data: KillMsg{
			KillerID:   attackerID,
			KillerName: killerName,
			VictimID:   victim.ID,
			VictimName: victim.Name,
		}})
		if client, ok := g.clients[victim.ID]; ok {
			client.SendJSON(Envelope{T: MsgDeath, Data: DeathMsg{
				KillerID:   attackerID,
				KillerName: killerName,
			}})
		}
		return
	}
	if mob, ok := g.mobs[target.ID]; ok {
		if !mob.TakeDamage(dmg) {
			return
		}
		g.world.Remove(mob.Ent)
		if killer, ok := g.players[attackerID]; ok {
			killer.Frags++
		}
	}
}

// broadcastState snapshots the session and sends it to every client as a
// binary msgpack frame.
func (g *Game) broadcastState() {
	state := StateMsg{
		Tick:     g.tick,
		Players:  make([]PlayerState, 0, len(g.players)),
		Mobs:     make([]MobState, 0, len(g.mobs)),
		Missiles: make([]MissileState, 0, len(g.missiles)),
		Items:    make([]ItemState, 0, len(g.items)),
	}
	for _, p := range g.players {
		state.Players = append(state.Players, p.ToState())
	}
	for _, m := range g.mobs {
		state.Mobs = append(state.Mobs, m.ToState())
	}
	for _, ms := range g.missiles {
		state.Missiles = append(state.Missiles, ms.ToState())
	}
	for _, it := range g.items {
		state.Items = append(state.Items, it.ToState())
	}

	data, err := msgpack.Marshal(&state)
	if err != nil {
		log.Printf("state encode: %v", err)
		return
	}
	for _, client := range g.clients {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a JSON message to all clients in the session.
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}
