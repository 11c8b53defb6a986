package combat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// Ability score bounds
const (
	MinAbilityScore = 3
	MaxAbilityScore = 25
)

// Abilities is the six-score ability block
type Abilities struct {
	Strength     int `json:"str"`
	Intelligence int `json:"int"`
	Wisdom       int `json:"wis"`
	Dexterity    int `json:"dex"`
	Constitution int `json:"con"`
	Charisma     int `json:"cha"`
}

var abilityFields = []string{"strength", "intelligence", "wisdom", "dexterity", "constitution", "charisma"}

// ParseAbilities reads "str/int/wis/dex/con/cha"
func ParseAbilities(text string) (*Abilities, error) {
	terms := strings.Split(strings.TrimSpace(text), "/")
	if len(terms) != len(abilityFields) {
		return nil, errors.InvalidArgumentf("expected %d scores separated by '/', got %d", len(abilityFields), len(terms)).
			WithReason(ReasonParse)
	}

	scores := make([]int, len(terms))
	for i, term := range terms {
		n, err := strconv.Atoi(strings.TrimSpace(term))
		if err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "invalid %s score %q", abilityFields[i], term).
				WithReason(ReasonParse)
		}
		scores[i] = n
	}

	vb := errors.NewValidationBuilder()
	for i, score := range scores {
		errors.ValidateRange(abilityFields[i], score, MinAbilityScore, MaxAbilityScore, vb)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	return &Abilities{
		Strength:     scores[0],
		Intelligence: scores[1],
		Wisdom:       scores[2],
		Dexterity:    scores[3],
		Constitution: scores[4],
		Charisma:     scores[5],
	}, nil
}

// String renders the block in the form ParseAbilities reads
func (a Abilities) String() string {
	return fmt.Sprintf("%d/%d/%d/%d/%d/%d",
		a.Strength, a.Intelligence, a.Wisdom, a.Dexterity, a.Constitution, a.Charisma)
}
