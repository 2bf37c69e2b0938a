package game

import "github.com/pthm-cable/nevo/components"

// IDGen hands out entity IDs. IDs start at 1 and are never reused.
type IDGen struct {
	last components.EntityID
}

// Next returns the next unused ID.
func (g *IDGen) Next() components.EntityID {
	g.last++
	return g.last
}

// Last returns the most recently issued ID, or 0 if none was issued.
func (g *IDGen) Last() components.EntityID {
	return g.last
}
