package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

func TestParseAbilities(t *testing.T) {
	a, err := combat.ParseAbilities("18/9/12/15/16/8")
	require.NoError(t, err)
	assert.Equal(t, &combat.Abilities{
		Strength:     18,
		Intelligence: 9,
		Wisdom:       12,
		Dexterity:    15,
		Constitution: 16,
		Charisma:     8,
	}, a)
	assert.Equal(t, "18/9/12/15/16/8", a.String())
}

func TestParseAbilitiesErrors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		reason string
	}{
		{name: "too few scores", input: "10/10/10", reason: combat.ReasonParse},
		{name: "not a number", input: "10/x/10/10/10/10", reason: combat.ReasonParse},
		{name: "below range", input: "2/10/10/10/10/10"},
		{name: "above range", input: "10/10/10/10/10/26"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := combat.ParseAbilities(tc.input)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
			if tc.reason != "" {
				assert.True(t, errors.HasReason(err, tc.reason))
			}
		})
	}
}
