package builders

import (
	"time"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/repositories/encounters"
	"github.com/KirkDiggler/combat-tracker/internal/roster"
	"github.com/KirkDiggler/combat-tracker/internal/testutils"
)

// EncounterBuilder provides a fluent interface for building stored encounters
type EncounterBuilder struct {
	data *encounters.EncounterData
	rows []roster.RowSnapshot
}

// NewEncounterBuilder creates an empty encounter in round 1
func NewEncounterBuilder() *EncounterBuilder {
	return &EncounterBuilder{
		data: &encounters.EncounterData{
			ID:        testutils.TestEncounterID,
			Name:      testutils.TestEncounterName,
			Snapshot:  &roster.Snapshot{Round: 1},
			CreatedAt: testutils.TestTime,
			UpdatedAt: testutils.TestTime,
		},
	}
}

// WithID sets the encounter ID
func (b *EncounterBuilder) WithID(id string) *EncounterBuilder {
	b.data.ID = id
	return b
}

// WithName sets the encounter name
func (b *EncounterBuilder) WithName(name string) *EncounterBuilder {
	b.data.Name = name
	return b
}

// WithRound sets the round
func (b *EncounterBuilder) WithRound(round uint) *EncounterBuilder {
	b.data.Snapshot.Round = round
	return b
}

// WithCreatedAt sets both timestamps
func (b *EncounterBuilder) WithCreatedAt(t time.Time) *EncounterBuilder {
	b.data.CreatedAt = t
	b.data.UpdatedAt = t
	return b
}

// WithCombatant appends a Done row, in the order given
func (b *EncounterBuilder) WithCombatant(c *combat.Combatant) *EncounterBuilder {
	b.rows = append(b.rows, roster.RowSnapshot{Done: c.Clone()})
	return b
}

// WithBuilding appends a Building row
func (b *EncounterBuilder) WithBuilding(builder *combat.Builder) *EncounterBuilder {
	b.rows = append(b.rows, roster.RowSnapshot{Building: builder.Clone()})
	return b
}

// Build returns a fresh copy of the encounter
func (b *EncounterBuilder) Build() *encounters.EncounterData {
	out := *b.data
	out.Snapshot = &roster.Snapshot{
		Round: b.data.Snapshot.Round,
		Rows:  make([]roster.RowSnapshot, len(b.rows)),
	}
	for i, row := range b.rows {
		if row.Done != nil {
			out.Snapshot.Rows[i].Done = row.Done.Clone()
		}
		if row.Building != nil {
			out.Snapshot.Rows[i].Building = row.Building.Clone()
		}
	}
	return &out
}
