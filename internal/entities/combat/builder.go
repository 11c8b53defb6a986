package combat

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/combat-tracker/internal/entities/meter"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// Field names a value collected while a combatant is being entered
type Field string

// Fields in the order they are requested
const (
	FieldClass      Field = "class"
	FieldLevel      Field = "hd"
	FieldHP         Field = "hp"
	FieldAttacks    Field = "attacks"
	FieldAC         Field = "ac"
	FieldTeam       Field = "team"
	FieldInitiative Field = "init"
)

// BuildOrder lists every field a Builder needs, in prompt order
var BuildOrder = []Field{FieldClass, FieldLevel, FieldHP, FieldAttacks, FieldAC, FieldTeam, FieldInitiative}

// ParseField maps an operator-typed field name onto a Field
func ParseField(name string) (Field, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "level", "lvl":
		return FieldLevel, nil
	case "initiative":
		return FieldInitiative, nil
	}
	for _, f := range BuildOrder {
		if string(f) == name {
			return f, nil
		}
	}
	return "", errors.InvalidArgumentf("unknown field %q", name).WithReason(ReasonParse)
}

// Builder is a combatant still being entered. Only the name is known up
// front; Build succeeds once every other slot is filled.
type Builder struct {
	Name       string             `json:"name"`
	Class      *ClassDescriptor   `json:"class,omitempty"`
	Level      *int               `json:"level,omitempty"`
	HP         *meter.Meter[int]  `json:"hp,omitempty"`
	Attacks    *meter.Meter[uint] `json:"attacks,omitempty"`
	AC         *int               `json:"ac,omitempty"`
	Team       *uint              `json:"team,omitempty"`
	Initiative *uint              `json:"init,omitempty"`
	Abilities  *Abilities         `json:"abilities,omitempty"`
}

// NewBuilder starts entering a combatant with the given name
func NewBuilder(name string) *Builder {
	return &Builder{Name: name}
}

// Fill parses text into the given field. The builder is unchanged on error.
func (b *Builder) Fill(field Field, text string) error {
	text = strings.TrimSpace(text)
	switch field {
	case FieldClass:
		d, err := ParseDescriptor(text)
		if err != nil {
			return err
		}
		b.Class = &d
	case FieldLevel:
		n, err := parseUint(field, text)
		if err != nil {
			return err
		}
		level := int(n)
		b.Level = &level
	case FieldHP:
		m, err := meter.ParseOrFull[int](text)
		if err != nil {
			return err
		}
		b.HP = &m
	case FieldAttacks:
		m, err := meter.ParseOrFull[uint](text)
		if err != nil {
			return err
		}
		b.Attacks = &m
	case FieldAC:
		n, err := strconv.Atoi(text)
		if err != nil {
			return errors.WrapWithCodef(err, errors.CodeInvalidArgument, "invalid ac %q", text).WithReason(ReasonParse)
		}
		b.AC = &n
	case FieldTeam:
		n, err := parseUint(field, text)
		if err != nil {
			return err
		}
		b.Team = &n
	case FieldInitiative:
		n, err := parseUint(field, text)
		if err != nil {
			return err
		}
		b.Initiative = &n
	default:
		return errors.InvalidArgumentf("unknown field %q", field).WithReason(ReasonParse)
	}
	return nil
}

func parseUint(field Field, text string) (uint, error) {
	n, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "invalid %s %q", field, text).
			WithReason(ReasonParse)
	}
	return uint(n), nil
}

// Missing lists the unfilled fields in prompt order
func (b *Builder) Missing() []Field {
	var missing []Field
	for _, f := range BuildOrder {
		if !b.has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// NextMissing returns the first field still to be requested
func (b *Builder) NextMissing() (Field, bool) {
	missing := b.Missing()
	if len(missing) == 0 {
		return "", false
	}
	return missing[0], true
}

func (b *Builder) has(f Field) bool {
	switch f {
	case FieldClass:
		return b.Class != nil
	case FieldLevel:
		return b.Level != nil
	case FieldHP:
		return b.HP != nil
	case FieldAttacks:
		return b.Attacks != nil
	case FieldAC:
		return b.AC != nil
	case FieldTeam:
		return b.Team != nil
	case FieldInitiative:
		return b.Initiative != nil
	default:
		return false
	}
}

// Build returns the finished combatant, or false while any field is missing.
// The attack rating is computed from the class at this moment.
func (b *Builder) Build() (*Combatant, bool) {
	if len(b.Missing()) > 0 {
		return nil, false
	}

	c := NewCombatant(b.Name, b.Class.WithLevel(*b.Level), *b.HP, *b.Attacks, *b.AC)
	c.Team = uintPtr(*b.Team)
	c.Initiative = uintPtr(*b.Initiative)
	if b.Abilities != nil {
		abilities := *b.Abilities
		c.Abilities = &abilities
	}
	return c, true
}

// Clone returns a deep copy
func (b *Builder) Clone() *Builder {
	out := &Builder{Name: b.Name}
	if b.Class != nil {
		d := b.Class.WithLevel(b.Class.LevelOrHitDice())
		out.Class = &d
	}
	if b.Level != nil {
		level := *b.Level
		out.Level = &level
	}
	if b.HP != nil {
		hp := *b.HP
		out.HP = &hp
	}
	if b.Attacks != nil {
		attacks := *b.Attacks
		out.Attacks = &attacks
	}
	if b.AC != nil {
		ac := *b.AC
		out.AC = &ac
	}
	if b.Team != nil {
		out.Team = uintPtr(*b.Team)
	}
	if b.Initiative != nil {
		out.Initiative = uintPtr(*b.Initiative)
	}
	if b.Abilities != nil {
		abilities := *b.Abilities
		out.Abilities = &abilities
	}
	return out
}
