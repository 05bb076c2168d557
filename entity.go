package main

// EntityKind tags what a simulation object is. Behavior lives with the game
// layer; the engine only cares about position, size, and flags.
type EntityKind int

const (
	KindPlayer EntityKind = iota
	KindMob
	KindMissile
	KindItem
)

// EntFlags control how the engine treats an entity.
type EntFlags uint32

const (
	// EntSolid blocks movement of other entities.
	EntSolid EntFlags = 1 << iota
	// EntShootable can be hit by hit-scan attacks and missiles.
	EntShootable
	// EntNoBlockmap keeps the entity out of the spatial index entirely;
	// traces never see it.
	EntNoBlockmap
)

// Entity is a movable simulation object. Its position must only be changed
// through World.SetPosition so blockmap residency always mirrors it.
type Entity struct {
	ID      string
	Kind    EntityKind
	OwnerID string

	X, Y, Z    Fixed
	VelX, VelY Fixed
	Radius     Fixed
	Height     Fixed
	Dir        int // 16-way facing
	Flags      EntFlags
	HP         int

	world  *World
	cellX  int
	cellY  int
	linked bool
}
