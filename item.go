package main

// Item tuning.
const (
	ItemRadius  = 12 // world units
	ItemHeal    = 25
	ItemTimeout = 30 * TickRate // ticks before an untouched item despawns
	MaxItems    = 8
)

// Item is a health pack lying in the world. It sits in the blockmap (so
// traces can see it) but is neither solid nor shootable; players collect it
// by touch.
type Item struct {
	ID    string
	Ent   *Entity
	Life  int
	Alive bool
}

// NewItem creates an item at the given position. The spot must already have
// been validated with CheckSpot.
func NewItem(id string, x, y Fixed) *Item {
	return &Item{
		ID:    id,
		Life:  ItemTimeout,
		Alive: true,
		Ent: &Entity{
			ID:     id,
			Kind:   KindItem,
			X:      x,
			Y:      y,
			Radius: FixedFromInt(ItemRadius),
			Height: FixedFromInt(16),
		},
	}
}

// Update ticks down the item lifetime.
func (it *Item) Update() {
	if !it.Alive {
		return
	}
	it.Life--
	if it.Life <= 0 {
		it.Alive = false
	}
}

// Touches reports whether an entity's bounding square overlaps the item's.
func (it *Item) Touches(e *Entity) bool {
	reach := it.Ent.Radius + e.Radius
	return fixedAbs(e.X-it.Ent.X) < reach && fixedAbs(e.Y-it.Ent.Y) < reach
}

// ToState converts to the wire representation.
func (it *Item) ToState() ItemState {
	return ItemState{
		ID: it.ID,
		X:  int32(it.Ent.X),
		Y:  int32(it.Ent.Y),
	}
}
