package encounter

import (
	"time"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/roster"
)

// Encounter is the presentation form of a stored encounter
type Encounter struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	View      roster.View
}

// EncounterSummary is one entry of ListEncounters
type EncounterSummary struct {
	ID        string
	Name      string
	Round     uint
	Rows      int
	UpdatedAt time.Time
}

// CreateEncounterInput defines the request for creating an encounter
type CreateEncounterInput struct {
	Name string
}

// CreateEncounterOutput defines the response for creating an encounter
type CreateEncounterOutput struct {
	Encounter *Encounter
}

// GetEncounterInput defines the request for reading an encounter
type GetEncounterInput struct {
	EncounterID string
}

// GetEncounterOutput defines the response for reading an encounter
type GetEncounterOutput struct {
	Encounter *Encounter
}

// ListEncountersInput defines the request for listing encounters
type ListEncountersInput struct{}

// ListEncountersOutput defines the response for listing encounters
type ListEncountersOutput struct {
	Encounters []*EncounterSummary
}

// DeleteEncounterInput defines the request for deleting an encounter
type DeleteEncounterInput struct {
	EncounterID string
}

// DeleteEncounterOutput defines the response for deleting an encounter
type DeleteEncounterOutput struct{}

// AddCombatantInput defines the request for adding a row. Fields holds any
// values already known; the row stays Building until all are supplied.
type AddCombatantInput struct {
	EncounterID string
	Name        string
	Fields      map[combat.Field]string
}

// AddCombatantOutput defines the response for adding a row
type AddCombatantOutput struct {
	Encounter *Encounter
	Index     int
	Built     bool
}

// FillFieldInput defines the request for filling one field of a Building row
type FillFieldInput struct {
	EncounterID string
	Index       int
	Field       combat.Field
	Value       string
}

// FillFieldOutput defines the response for filling a field
type FillFieldOutput struct {
	Encounter *Encounter
	Built     bool
}

// AssignTeamInput defines the request for assigning a team
type AssignTeamInput struct {
	EncounterID string
	Index       int
	Team        uint
}

// AssignTeamOutput defines the response for assigning a team
type AssignTeamOutput struct {
	Encounter *Encounter
}

// AssignInitiativeInput defines the request for assigning base initiative
type AssignInitiativeInput struct {
	EncounterID string
	Index       int
	Initiative  uint
}

// AssignInitiativeOutput defines the response for assigning base initiative
type AssignInitiativeOutput struct {
	Encounter *Encounter
}

// RollInitiativeInput defines the request for rolling base initiative. A nil
// Index rolls for every row that has none yet.
type RollInitiativeInput struct {
	EncounterID string
	Index       *int
}

// InitiativeRoll is one rolled base initiative
type InitiativeRoll struct {
	Name  string
	Value uint
}

// RollInitiativeOutput defines the response for rolling base initiative
type RollInitiativeOutput struct {
	Encounter *Encounter
	Rolls     []InitiativeRoll
}

// SetAbilitiesInput defines the request for recording ability scores
type SetAbilitiesInput struct {
	EncounterID string
	Index       int
	// Abilities is "str/int/wis/dex/con/cha"
	Abilities string
}

// SetAbilitiesOutput defines the response for recording ability scores
type SetAbilitiesOutput struct {
	Encounter *Encounter
}

// SetXPBonusInput defines the request for setting the experience bonus flag
type SetXPBonusInput struct {
	EncounterID string
	Index       int
	Bonus       bool
}

// SetXPBonusOutput defines the response for setting the experience bonus flag
type SetXPBonusOutput struct {
	Encounter *Encounter
}

// SetLevelInput defines the request for changing level or hit dice
type SetLevelInput struct {
	EncounterID string
	Index       int
	Level       int
}

// SetLevelOutput defines the response for changing level or hit dice
type SetLevelOutput struct {
	Encounter *Encounter
}

// RecalculateInput defines the request for re-deriving an attack rating
type RecalculateInput struct {
	EncounterID string
	Index       int
}

// RecalculateOutput defines the response for re-deriving an attack rating
type RecalculateOutput struct {
	Encounter *Encounter
}

// AttackInput defines the request for one combatant hitting another
type AttackInput struct {
	EncounterID string
	Attacker    int
	Target      int
	Damage      int
}

// AttackOutput defines the response for an attack
type AttackOutput struct {
	Encounter *Encounter
}

// DamageInput defines the request for damage without an attacker
type DamageInput struct {
	EncounterID string
	Index       int
	Damage      int
}

// DamageOutput defines the response for damage without an attacker
type DamageOutput struct {
	Encounter *Encounter
}

// HealInput defines the request for healing
type HealInput struct {
	EncounterID string
	Index       int
	Amount      int
}

// HealOutput defines the response for healing
type HealOutput struct {
	Encounter *Encounter
}

// AdvanceRoundInput defines the request for starting the next round
type AdvanceRoundInput struct {
	EncounterID string
}

// AdvanceRoundOutput defines the response for starting the next round
type AdvanceRoundOutput struct {
	Encounter *Encounter
	Removed   []string
}

// ComputeXPInput defines the request for computing experience
type ComputeXPInput struct {
	EncounterID string
	Index       int
}

// ComputeXPOutput defines the response for computing experience
type ComputeXPOutput struct {
	Name string
	XP   int
}

// DuplicateInput defines the request for copying a row
type DuplicateInput struct {
	EncounterID string
	Index       int
	// Name renames the copy when not empty
	Name string
}

// DuplicateOutput defines the response for copying a row
type DuplicateOutput struct {
	Encounter *Encounter
}

// ResetStatsInput defines the request for clearing damage statistics
type ResetStatsInput struct {
	EncounterID string
}

// ResetStatsOutput defines the response for clearing damage statistics
type ResetStatsOutput struct {
	Encounter *Encounter
}

// ImportTemplatesInput defines the request for importing prepared combatants
type ImportTemplatesInput struct {
	EncounterID string
	// Data is a JSON list of templates
	Data []byte
}

// ImportTemplatesOutput defines the response for importing prepared combatants
type ImportTemplatesOutput struct {
	Encounter *Encounter
	Added     int
}
