package combat

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

const (
	// ReasonInvalidClassName tags a class token that names no known class
	ReasonInvalidClassName = "invalid_class_name"

	// ReasonParse tags a malformed value typed by the operator
	ReasonParse = "parse_error"
)

// ClassGroup is an attack-progression family
type ClassGroup int

// Class groups
const (
	GroupPriest  ClassGroup = iota // divine and primal casters
	GroupWarrior                   // martial classes, also used for monsters
	GroupWizard                    // arcane casters
	GroupRogue                     // roguish classes
)

// MaxTableLevel is the last level with its own table entry; higher levels clamp to it
const MaxTableLevel = 13

// thac0Tables holds the attack rating for levels 1..13 of each group.
// Lower is better.
var thac0Tables = [...][MaxTableLevel]int{
	GroupPriest:  {20, 20, 20, 18, 18, 18, 16, 16, 16, 14, 14, 14, 12},
	GroupWarrior: {20, 19, 18, 17, 16, 15, 14, 13, 12, 11, 10, 9, 8},
	GroupWizard:  {20, 20, 20, 19, 19, 19, 18, 18, 18, 17, 17, 17, 16},
	GroupRogue:   {20, 20, 19, 19, 18, 18, 17, 17, 16, 16, 15, 15, 14},
}

// String returns the group name
func (g ClassGroup) String() string {
	switch g {
	case GroupPriest:
		return "priest"
	case GroupWarrior:
		return "warrior"
	case GroupWizard:
		return "wizard"
	case GroupRogue:
		return "rogue"
	default:
		return "unknown"
	}
}

// Rating returns the group's attack rating at level, clamped to 1..13
func (g ClassGroup) Rating(level int) int {
	return thac0Tables[g][ClampLevel(level)-1]
}

// ClampLevel maps any level or hit dice count onto a table index 1..13
func ClampLevel(n int) int {
	return max(1, min(n, MaxTableLevel))
}

// Class is a character class
type Class string

// Classes
const (
	ClassCleric      Class = "cleric"
	ClassDruid       Class = "druid"
	ClassMonk        Class = "monk"
	ClassFighter     Class = "fighter"
	ClassPaladin     Class = "paladin"
	ClassRanger      Class = "ranger"
	ClassMage        Class = "mage"
	ClassIllusionist Class = "illusionist"
	ClassThief       Class = "thief"
	ClassAssassin    Class = "assassin"
	ClassBard        Class = "bard"
)

var classGroups = map[Class]ClassGroup{
	ClassCleric:      GroupPriest,
	ClassDruid:       GroupPriest,
	ClassMonk:        GroupPriest,
	ClassFighter:     GroupWarrior,
	ClassPaladin:     GroupWarrior,
	ClassRanger:      GroupWarrior,
	ClassMage:        GroupWizard,
	ClassIllusionist: GroupWizard,
	ClassThief:       GroupRogue,
	ClassAssassin:    GroupRogue,
	ClassBard:        GroupRogue,
}

var classAbbreviations = map[string]Class{
	"c": ClassCleric, "cl": ClassCleric,
	"d": ClassDruid, "dr": ClassDruid,
	"mo": ClassMonk,
	"f": ClassFighter, "fi": ClassFighter,
	"p": ClassPaladin, "pa": ClassPaladin,
	"r": ClassRanger, "ra": ClassRanger,
	"m": ClassMage, "mu": ClassMage,
	"i": ClassIllusionist, "il": ClassIllusionist,
	"t": ClassThief, "th": ClassThief,
	"a": ClassAssassin, "as": ClassAssassin,
	"b": ClassBard, "ba": ClassBard,
}

// Group returns the attack-progression family of the class
func (c Class) Group() ClassGroup {
	return classGroups[c]
}

// ParseClass resolves a full class name or its abbreviation, case-insensitively
func ParseClass(token string) (Class, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if _, ok := classGroups[Class(token)]; ok {
		return Class(token), nil
	}
	if class, ok := classAbbreviations[token]; ok {
		return class, nil
	}
	return "", errors.InvalidArgumentf("invalid class name %q", token).
		WithReason(ReasonInvalidClassName)
}

// DescriptorKind tags a ClassDescriptor
type DescriptorKind string

// Descriptor kinds
const (
	DescriptorSingle  DescriptorKind = "single"
	DescriptorMulti   DescriptorKind = "multi"
	DescriptorMonster DescriptorKind = "monster"
)

// ClassDescriptor says how a combatant's attack rating is derived. Build one
// with SingleClass, MultiClass or Monster.
type ClassDescriptor struct {
	Kind    DescriptorKind `json:"kind"`
	Classes []Class        `json:"classes,omitempty"`
	Level   int            `json:"level,omitempty"`
	Magical bool           `json:"magical,omitempty"`
	HitDice int            `json:"hit_dice,omitempty"`
}

// SingleClass describes a single-classed character
func SingleClass(class Class, level int) ClassDescriptor {
	return ClassDescriptor{Kind: DescriptorSingle, Classes: []Class{class}, Level: level}
}

// MultiClass describes a character advancing in several classes at one level
func MultiClass(classes []Class, level int) ClassDescriptor {
	return ClassDescriptor{Kind: DescriptorMulti, Classes: append([]Class(nil), classes...), Level: level}
}

// Monster describes a monster by hit dice
func Monster(magical bool, hitDice int) ClassDescriptor {
	return ClassDescriptor{Kind: DescriptorMonster, Magical: magical, HitDice: hitDice}
}

// IsMonster reports whether the descriptor is a monster
func (d ClassDescriptor) IsMonster() bool {
	return d.Kind == DescriptorMonster
}

// LevelOrHitDice returns the level for characters or hit dice for monsters
func (d ClassDescriptor) LevelOrHitDice() int {
	if d.IsMonster() {
		return d.HitDice
	}
	return d.Level
}

// WithLevel returns a copy at a new level, or new hit dice for monsters
func (d ClassDescriptor) WithLevel(level int) ClassDescriptor {
	out := d
	out.Classes = append([]Class(nil), d.Classes...)
	if out.IsMonster() {
		out.HitDice = level
	} else {
		out.Level = level
	}
	return out
}

// Rating resolves the attack rating (THAC0) for the descriptor
func (d ClassDescriptor) Rating() int {
	switch d.Kind {
	case DescriptorMonster:
		return GroupWarrior.Rating(d.HitDice)
	default:
		best := 0
		for i, class := range d.Classes {
			rating := class.Group().Rating(d.Level)
			if i == 0 || rating < best {
				best = rating
			}
		}
		return best
	}
}

// String renders the descriptor in the compact notation ParseDescriptor reads
func (d ClassDescriptor) String() string {
	if d.IsMonster() {
		marker := "."
		if d.Magical {
			marker = "!"
		}
		return marker + strconv.Itoa(d.HitDice)
	}
	names := make([]string, len(d.Classes))
	for i, class := range d.Classes {
		names[i] = string(class)
	}
	return strings.Join(names, "/") + strconv.Itoa(d.Level)
}

// ParseDescriptor reads the compact class notation: an optional trailing run
// of digits is the level or hit dice (default 1); "!" is a magical monster,
// "." an ordinary one; anything else is a "/"-separated list of classes.
//
//	"f5"     fighter 5
//	"c/mu3"  cleric/mage 3
//	"!4"     magical monster, 4 hit dice
func ParseDescriptor(text string) (ClassDescriptor, error) {
	text = strings.TrimSpace(text)
	cut := len(text)
	for cut > 0 && text[cut-1] >= '0' && text[cut-1] <= '9' {
		cut--
	}
	head, digits := strings.TrimSpace(text[:cut]), text[cut:]

	level := 1
	if digits != "" {
		n, err := strconv.Atoi(digits)
		if err != nil {
			return ClassDescriptor{}, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "invalid level in %q", text).
				WithReason(ReasonParse)
		}
		level = n
	}

	switch head {
	case "!":
		return Monster(true, level), nil
	case ".":
		return Monster(false, level), nil
	case "":
		return ClassDescriptor{}, errors.InvalidArgumentf("class is required in %q", text).
			WithReason(ReasonInvalidClassName)
	}

	tokens := strings.Split(head, "/")
	classes := make([]Class, 0, len(tokens))
	for _, token := range tokens {
		class, err := ParseClass(token)
		if err != nil {
			return ClassDescriptor{}, err
		}
		classes = append(classes, class)
	}

	if len(classes) == 1 {
		return SingleClass(classes[0], level), nil
	}
	return MultiClass(classes, level), nil
}

// UnmarshalJSON accepts either the structured form or the compact notation
// string used in template files.
func (d *ClassDescriptor) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		parsed, err := ParseDescriptor(text)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}

	type plain ClassDescriptor
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return errors.WrapWithCode(err, errors.CodeDataLoss, "invalid class descriptor")
	}
	*d = ClassDescriptor(p)
	return nil
}
