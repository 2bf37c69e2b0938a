// Package components defines ECS components for the simulation.
package components

// Kind discriminates the entity variants.
type Kind uint8

const (
	KindPlant Kind = iota
	KindAnimal
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPlant:
		return "plant"
	case KindAnimal:
		return "animal"
	default:
		return "unknown"
	}
}

// EntityID is the stable handle of an entity. IDs are never reused.
type EntityID uint64

// Identity bundles the stable ID and variant of an entity.
type Identity struct {
	ID   EntityID
	Kind Kind
}
