package roster

import (
	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/entities/meter"
)

// View is a read-only picture of the roster for presentation
type View struct {
	Round uint      `json:"round"`
	Rows  []RowView `json:"rows"`
}

// RowView carries the plain values a presentation layer needs for one row.
// Combatant fields are zero for Building rows.
type RowView struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Cursor   bool   `json:"cursor,omitempty"`
	Selected bool   `json:"selected,omitempty"`

	Building     bool         `json:"building,omitempty"`
	NextField    combat.Field `json:"next_field,omitempty"`
	FilledFields int          `json:"filled_fields,omitempty"`

	Class               string            `json:"class,omitempty"`
	Team                *uint             `json:"team,omitempty"`
	Initiative          *uint             `json:"init,omitempty"`
	EffectiveInitiative uint              `json:"effective_init,omitempty"`
	HP                  meter.Meter[int]  `json:"hp"`
	Attacks             meter.Meter[uint] `json:"attacks"`
	AC                  int               `json:"ac"`
	THAC0               int               `json:"thac0"`
	Status              combat.StatusKind `json:"status"`
	StunSeverity        uint              `json:"stun_severity,omitempty"`
	Glyph               string            `json:"glyph"`
	Dealt               int               `json:"dealt"`
	Received            int               `json:"received"`
	XPBonus             bool              `json:"xp_bonus,omitempty"`
}

// View returns the current presentation values
func (r *Roster) View() View {
	v := View{Round: r.round, Rows: make([]RowView, len(r.rows))}
	for i, row := range r.rows {
		rv := RowView{
			Index:    i,
			Name:     row.Name(),
			Cursor:   i == r.cursor,
			Selected: i == r.selected,
		}
		switch row := row.(type) {
		case Building:
			rv.Building = true
			rv.NextField, _ = row.Builder.NextMissing()
			rv.FilledFields = len(combat.BuildOrder) - len(row.Builder.Missing())
		case Done:
			c := row.Combatant
			rv.Class = c.Class.String()
			rv.Team = copyUint(c.Team)
			rv.Initiative = copyUint(c.Initiative)
			rv.EffectiveInitiative, _ = c.EffectiveInitiative()
			rv.HP = c.HP
			rv.Attacks = c.Attacks
			rv.AC = c.AC
			rv.THAC0 = c.THAC0
			rv.Status = c.Status.Kind()
			rv.StunSeverity = c.Status.Severity()
			rv.Glyph = c.Status.Glyph()
			rv.Dealt = c.Dealt
			rv.Received = c.Received
			rv.XPBonus = c.XPBonus
		}
		v.Rows[i] = rv
	}
	return v
}

func copyUint(v *uint) *uint {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
