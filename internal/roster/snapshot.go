package roster

import (
	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// Snapshot is the serializable state of a roster: the round and the rows in
// order. Cursor and selection are not part of it.
type Snapshot struct {
	Round uint          `json:"round"`
	Rows  []RowSnapshot `json:"rows"`
}

// RowSnapshot holds exactly one of Building or Done
type RowSnapshot struct {
	Building *combat.Builder   `json:"building,omitempty"`
	Done     *combat.Combatant `json:"done,omitempty"`
}

// Snapshot returns a deep copy of the roster state
func (r *Roster) Snapshot() *Snapshot {
	s := &Snapshot{Round: r.round, Rows: make([]RowSnapshot, len(r.rows))}
	for i, row := range r.rows {
		switch row := row.Clone().(type) {
		case Building:
			s.Rows[i].Building = row.Builder
		case Done:
			s.Rows[i].Done = row.Combatant
		}
	}
	return s
}

// FromSnapshot rebuilds a roster without resorting it
func FromSnapshot(s *Snapshot) (*Roster, error) {
	if s == nil {
		return nil, errors.InvalidArgument("snapshot is required")
	}
	if s.Round == 0 {
		return nil, errors.DataLoss("snapshot round must be at least 1")
	}
	if len(s.Rows) > MaxRows {
		return nil, errors.DataLossf("snapshot holds %d rows, more than %d", len(s.Rows), MaxRows)
	}

	r := New()
	r.round = s.Round
	r.rows = make([]Row, len(s.Rows))
	for i, rs := range s.Rows {
		switch {
		case rs.Building != nil && rs.Done == nil:
			r.rows[i] = Building{Builder: rs.Building.Clone()}
		case rs.Done != nil && rs.Building == nil:
			r.rows[i] = Done{Combatant: rs.Done.Clone()}
		default:
			return nil, errors.DataLossf("snapshot row %d must hold exactly one of building or done", i)
		}
	}
	return r, nil
}
