package meter_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/combat-tracker/internal/entities/meter"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		current int
		maximum int
		wantErr bool
	}{
		{name: "simple fraction", input: "7/12", current: 7, maximum: 12},
		{name: "surrounding whitespace", input: " 3 / 4 ", current: 3, maximum: 4},
		{name: "negative current", input: "-3/10", current: -3, maximum: 10},
		{name: "missing slash", input: "12", wantErr: true},
		{name: "too many fields", input: "1/2/3", wantErr: true},
		{name: "not a number", input: "a/2", wantErr: true},
		{name: "empty maximum", input: "3/", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := meter.Parse[int](tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidArgument(err))
				assert.True(t, errors.HasReason(err, meter.ReasonParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.current, m.Current())
			assert.Equal(t, tc.maximum, m.Max())
		})
	}
}

func TestParseOrFull(t *testing.T) {
	m, err := meter.ParseOrFull[int]("38")
	require.NoError(t, err)
	assert.Equal(t, meter.Full(38), m)

	m, err = meter.ParseOrFull[int](" 5/12 ")
	require.NoError(t, err)
	assert.Equal(t, meter.New(5, 12), m)

	attacks, err := meter.ParseOrFull[uint]("2")
	require.NoError(t, err)
	assert.Equal(t, "2/2", attacks.String())

	for _, bad := range []string{"", "x", "1/2/3"} {
		_, err := meter.ParseOrFull[int](bad)
		require.Error(t, err, bad)
		assert.True(t, errors.HasReason(err, meter.ReasonParse), bad)
	}

	_, err = meter.ParseOrFull[uint]("-2")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestParseUnsignedRejectsNegative(t *testing.T) {
	_, err := meter.Parse[uint]("-1/2")
	require.Error(t, err)
	assert.True(t, errors.HasReason(err, meter.ReasonParse))
}

func TestParseRejectsOverflow(t *testing.T) {
	_, err := meter.Parse[uint8]("300/300")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestRoundTrip(t *testing.T) {
	for maximum := 0; maximum <= 20; maximum++ {
		for current := 0; current <= maximum; current++ {
			text := fmt.Sprintf("%d/%d", current, maximum)
			m, err := meter.Parse[uint](text)
			require.NoError(t, err)
			assert.Equal(t, text, m.String())
		}
	}
}

func TestIncreaseNeverExceedsMaximum(t *testing.T) {
	for maximum := 0; maximum <= 10; maximum++ {
		for current := -5; current <= maximum; current++ {
			for delta := 0; delta <= 15; delta++ {
				m := meter.New(current, maximum)
				m.Increase(delta)
				assert.LessOrEqual(t, m.Current(), m.Max(), "start %d/%d +%d", current, maximum, delta)
			}
		}
	}
}

func TestIncrease(t *testing.T) {
	m := meter.New(3, 10)
	m.Increase(4)
	assert.Equal(t, 7, m.Current())

	m.Increase(40)
	assert.Equal(t, 10, m.Current())
}

func TestDecreaseSignedGoesNegative(t *testing.T) {
	m := meter.New(5, 10)
	require.NoError(t, m.Decrease(20))
	assert.Equal(t, -15, m.Current())
	assert.Equal(t, 10, m.Max())
}

func TestDecreaseUnsignedRefusesToWrap(t *testing.T) {
	m := meter.New[uint](1, 2)

	require.NoError(t, m.Decrease(1))
	assert.Equal(t, uint(0), m.Current())

	err := m.Decrease(1)
	require.Error(t, err)
	assert.True(t, errors.IsOutOfRange(err))
	assert.True(t, errors.HasReason(err, meter.ReasonUnderflow))
	assert.Equal(t, uint(0), m.Current(), "failed decrease must not change the meter")
}

func TestRefill(t *testing.T) {
	m := meter.New[uint](0, 3)
	m.Refill()
	assert.Equal(t, uint(3), m.Current())
}

func TestJSON(t *testing.T) {
	type holder struct {
		HP meter.Meter[int] `json:"hp"`
	}

	data, err := json.Marshal(holder{HP: meter.New(4, 9)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hp":"4/9"}`, string(data))

	var decoded holder
	require.NoError(t, json.Unmarshal([]byte(`{"hp":"2/8"}`), &decoded))
	assert.Equal(t, meter.New(2, 8), decoded.HP)

	assert.Error(t, json.Unmarshal([]byte(`{"hp":"eight"}`), &decoded))
}
