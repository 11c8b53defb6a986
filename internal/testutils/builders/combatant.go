// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/entities/meter"
)

// CombatantBuilder provides a fluent interface for building test Combatant instances
type CombatantBuilder struct {
	combatant *combat.Combatant
}

// NewCombatantBuilder creates a healthy level 1 fighter on team 1 with
// initiative 6, 10 hit points and one attack
func NewCombatantBuilder() *CombatantBuilder {
	c := combat.NewCombatant(
		"Test Fighter",
		combat.SingleClass(combat.ClassFighter, 1),
		meter.Full(10),
		meter.Full[uint](1),
		combat.DefaultAC,
	)
	team, init := uint(1), uint(6)
	c.Team = &team
	c.Initiative = &init
	return &CombatantBuilder{combatant: c}
}

// WithName sets the name
func (b *CombatantBuilder) WithName(name string) *CombatantBuilder {
	b.combatant.Name = name
	return b
}

// WithClass sets the class and re-derives the attack rating
func (b *CombatantBuilder) WithClass(class combat.ClassDescriptor) *CombatantBuilder {
	b.combatant.Class = class
	b.combatant.RecalculateTHAC0()
	return b
}

// WithHP sets the hit point meter
func (b *CombatantBuilder) WithHP(current, maximum int) *CombatantBuilder {
	b.combatant.HP = meter.New(current, maximum)
	return b
}

// WithAttacks sets a full attack meter
func (b *CombatantBuilder) WithAttacks(n uint) *CombatantBuilder {
	b.combatant.Attacks = meter.Full(n)
	return b
}

// WithTeam sets the team
func (b *CombatantBuilder) WithTeam(team uint) *CombatantBuilder {
	b.combatant.Team = &team
	return b
}

// WithInitiative sets the base initiative
func (b *CombatantBuilder) WithInitiative(init uint) *CombatantBuilder {
	b.combatant.Initiative = &init
	return b
}

// WithoutInitiative clears the base initiative
func (b *CombatantBuilder) WithoutInitiative() *CombatantBuilder {
	b.combatant.Initiative = nil
	return b
}

// WithStatus sets the status
func (b *CombatantBuilder) WithStatus(status combat.Status) *CombatantBuilder {
	b.combatant.Status = status
	return b
}

// WithDealt sets the damage dealt so far
func (b *CombatantBuilder) WithDealt(dealt int) *CombatantBuilder {
	b.combatant.Dealt = dealt
	return b
}

// Build returns the built combatant
func (b *CombatantBuilder) Build() *combat.Combatant {
	return b.combatant.Clone()
}
