package roster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/roster"
)

const templates = `[
	{"name": "Hobgoblin", "level/hd": 2, "class": ".1", "hp": "11", "ac": 5},
	{
		"name": "Sister Alys",
		"level/hd": 4,
		"class": "cleric",
		"abilities": {"str": 12, "int": 10, "wis": 17, "dex": 9, "con": 14, "cha": 13},
		"hp": "22/25"
	}
]`

func TestParseTemplates(t *testing.T) {
	parsed, err := roster.ParseTemplates([]byte(templates))
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	hob, err := parsed[0].Builder()
	require.NoError(t, err)
	assert.Equal(t, "Hobgoblin", hob.Name)
	assert.Equal(t, 2, hob.Class.HitDice)
	assert.Equal(t, 5, *hob.AC)
	assert.Equal(t, "11/11", hob.HP.String(), "a bare number is a full meter")
	assert.Equal(t, []combat.Field{combat.FieldAttacks, combat.FieldTeam, combat.FieldInitiative}, hob.Missing())

	alys, err := parsed[1].Builder()
	require.NoError(t, err)
	assert.Equal(t, combat.DefaultAC, *alys.AC)
	assert.Equal(t, 4, *alys.Level)
	assert.Equal(t, 22, alys.HP.Current())
	require.NotNil(t, alys.Abilities)
	assert.Equal(t, 17, alys.Abilities.Wisdom)

	require.NoError(t, alys.Fill(combat.FieldAttacks, "1/1"))
	require.NoError(t, alys.Fill(combat.FieldTeam, "1"))
	require.NoError(t, alys.Fill(combat.FieldInitiative, "6"))
	c, ok := alys.Build()
	require.True(t, ok)
	assert.Equal(t, 18, c.THAC0)
}

func TestParseTemplatesErrors(t *testing.T) {
	_, err := roster.ParseTemplates([]byte(`{"name": "not a list"}`))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = roster.ParseTemplates([]byte(`[{"name": "Bad", "class": "warlock2", "hp": "1/1"}]`))
	require.Error(t, err)
	assert.True(t, errors.HasReason(err, combat.ReasonInvalidClassName))
}

func TestTemplateBuilderValidation(t *testing.T) {
	_, err := roster.Template{Name: "", Class: combat.Monster(false, 1), HP: "1/1"}.Builder()
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = roster.Template{Name: "NoClass", HP: "1/1"}.Builder()
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = roster.Template{Name: "BadHP", Class: combat.Monster(false, 1), HP: "many"}.Builder()
	assert.True(t, errors.IsInvalidArgument(err))
}
