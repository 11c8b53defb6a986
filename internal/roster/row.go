package roster

import (
	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
)

// Row is one roster entry: Building or Done
type Row interface {
	// Name returns the name the row was entered with
	Name() string
	// Clone returns a deep copy of the row
	Clone() Row

	isRow()
}

// Building is a combatant that still has unfilled fields
type Building struct {
	Builder *combat.Builder
}

// Done is a fully described combatant
type Done struct {
	Combatant *combat.Combatant
}

// NewBuilding wraps a builder in a row
func NewBuilding(b *combat.Builder) Row {
	return Building{Builder: b}
}

// NewDone wraps a combatant in a row
func NewDone(c *combat.Combatant) Row {
	return Done{Combatant: c}
}

// Name returns the builder's name
func (b Building) Name() string { return b.Builder.Name }

// Clone returns a deep copy
func (b Building) Clone() Row { return Building{Builder: b.Builder.Clone()} }

func (Building) isRow() {}

// Name returns the combatant's name
func (d Done) Name() string { return d.Combatant.Name }

// Clone returns a deep copy
func (d Done) Clone() Row { return Done{Combatant: d.Combatant.Clone()} }

func (Done) isRow() {}

// rename returns a copy of the row under a new name
func rename(row Row, name string) Row {
	out := row.Clone()
	switch r := out.(type) {
	case Building:
		r.Builder.Name = name
	case Done:
		r.Combatant.Name = name
	}
	return out
}
