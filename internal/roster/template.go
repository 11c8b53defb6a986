package roster

import (
	"encoding/json"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/entities/meter"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// Template pre-fills a combatant from a prepared list. Team, initiative and
// attacks are still asked for once the row is in the roster.
type Template struct {
	Name      string                 `json:"name"`
	Level     int                    `json:"level/hd"`
	Class     combat.ClassDescriptor `json:"class"`
	Abilities *combat.Abilities      `json:"abilities,omitempty"`
	HP        string                 `json:"hp"`
	AC        *int                   `json:"ac,omitempty"`
}

// ParseTemplates decodes a JSON list of templates
func ParseTemplates(data []byte) ([]Template, error) {
	var templates []Template
	if err := json.Unmarshal(data, &templates); err != nil {
		var typed *errors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid template list").
			WithReason(combat.ReasonParse)
	}
	return templates, nil
}

// Builder turns the template into a partly filled builder. A missing armor
// rating defaults to unarmored.
func (t Template) Builder() (*combat.Builder, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", t.Name, vb)
	errors.ValidateNonNegative("level/hd", t.Level, vb)
	if t.Class.Kind == "" {
		vb.RequiredField("class")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	hp, err := meter.ParseOrFull[int](t.HP)
	if err != nil {
		return nil, errors.Wrapf(err, "template %s", t.Name)
	}
	ac := combat.DefaultAC
	if t.AC != nil {
		ac = *t.AC
	}
	level := t.Level
	class := t.Class.WithLevel(level)

	b := combat.NewBuilder(t.Name)
	b.Class = &class
	b.Level = &level
	b.HP = &hp
	b.AC = &ac
	if t.Abilities != nil {
		abilities := *t.Abilities
		b.Abilities = &abilities
	}
	return b, nil
}
