package encounter

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
)

// Event types published on the bus after a command is saved
const (
	EventCombatHit      = "combat.hit"
	EventCombatDamaged  = "combat.damaged"
	EventCombatHealed   = "combat.healed"
	EventStatusChanged  = "combat.status_changed"
	EventCombatRemoved  = "combat.removed"
	EventRoundAdvanced  = "round.advanced"
	EventCombatantAdded = "combatant.added"
)

// Keys set on event contexts
const (
	ContextKeyDamage = "damage"
	ContextKeyAmount = "amount"
	ContextKeyFrom   = "from"
	ContextKeyTo     = "to"
	ContextKeyRound  = "round"
)

const (
	entityTypeEncounter = "encounter"
	entityTypeCombatant = "combatant"
)

// entityRef identifies an encounter or combatant on the event bus
type entityRef struct {
	id         string
	entityType string
}

func (e *entityRef) GetID() string {
	return e.id
}

func (e *entityRef) GetType() string {
	return e.entityType
}

var _ core.Entity = (*entityRef)(nil)

func encounterRef(id string) core.Entity {
	return &entityRef{id: id, entityType: entityTypeEncounter}
}

func combatantRef(name string) core.Entity {
	return &entityRef{id: name, entityType: entityTypeCombatant}
}

func newEvent(eventType string, source, target core.Entity, values map[string]any) events.Event {
	e := events.NewGameEvent(eventType, source, target)
	for k, v := range values {
		e.Context().Set(k, v)
	}
	return e
}

// statusEvent returns a status change event, or nil when nothing changed
func statusEvent(encounterID, name string, before, after combat.Status) events.Event {
	if before == after {
		return nil
	}
	return newEvent(EventStatusChanged, encounterRef(encounterID), combatantRef(name), map[string]any{
		ContextKeyFrom: before.String(),
		ContextKeyTo:   after.String(),
	})
}
