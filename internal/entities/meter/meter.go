// Package meter provides a bounded current/maximum counter used for hit points
// and attacks per round.
package meter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

const (
	// ReasonParse tags errors produced while parsing fraction text
	ReasonParse = "parse_error"

	// ReasonUnderflow tags a decrease that would wrap an unsigned meter
	ReasonUnderflow = "meter_underflow"
)

// Integer is the set of numeric types a Meter may count in
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Meter tracks a current value out of a maximum.
//
// Increase never lets current exceed maximum. Decrease is not clamped: a
// signed meter may go negative, an unsigned meter refuses to wrap.
type Meter[T Integer] struct {
	current T
	maximum T
}

// New returns a meter at current out of maximum
func New[T Integer](current, maximum T) Meter[T] {
	return Meter[T]{current: current, maximum: maximum}
}

// Full returns a meter whose current value equals its maximum
func Full[T Integer](maximum T) Meter[T] {
	return Meter[T]{current: maximum, maximum: maximum}
}

// Parse reads a meter from "<current>/<maximum>"
func Parse[T Integer](text string) (Meter[T], error) {
	terms := strings.Split(strings.TrimSpace(text), "/")
	if len(terms) != 2 {
		return Meter[T]{}, errors.InvalidArgumentf("expected <current>/<maximum>, got %q", text).
			WithReason(ReasonParse)
	}

	current, err := parseInteger[T](terms[0])
	if err != nil {
		return Meter[T]{}, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "invalid current value in %q", text).
			WithReason(ReasonParse)
	}

	maximum, err := parseInteger[T](terms[1])
	if err != nil {
		return Meter[T]{}, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "invalid maximum value in %q", text).
			WithReason(ReasonParse)
	}

	return Meter[T]{current: current, maximum: maximum}, nil
}

// ParseOrFull reads either "<current>/<maximum>" or a lone maximum, which
// yields a full meter. Operators type "38" for a fresh 38/38.
func ParseOrFull[T Integer](text string) (Meter[T], error) {
	if strings.Contains(text, "/") {
		return Parse[T](text)
	}
	maximum, err := parseInteger[T](text)
	if err != nil {
		return Meter[T]{}, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "expected <maximum> or <current>/<maximum>, got %q", text).
			WithReason(ReasonParse)
	}
	return Full(maximum), nil
}

// MustParse is Parse for literals known to be valid
func MustParse[T Integer](text string) Meter[T] {
	m, err := Parse[T](text)
	if err != nil {
		panic(err)
	}
	return m
}

func parseInteger[T Integer](text string) (T, error) {
	var zero T
	text = strings.TrimSpace(text)

	// zero-1 wraps for unsigned types
	if zero-1 > zero {
		v, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return zero, err
		}
		if uint64(T(v)) != v {
			return zero, fmt.Errorf("%s out of range", text)
		}
		return T(v), nil
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return zero, err
	}
	if int64(T(v)) != v {
		return zero, fmt.Errorf("%s out of range", text)
	}
	return T(v), nil
}

// Current returns the current value
func (m Meter[T]) Current() T {
	return m.current
}

// Max returns the maximum value
func (m Meter[T]) Max() T {
	return m.maximum
}

// Increase adds amount, capping at the maximum
func (m *Meter[T]) Increase(amount T) {
	m.current = min(m.maximum, m.current+amount)
}

// Refill sets current back to the maximum
func (m *Meter[T]) Refill() {
	m.current = m.maximum
}

// Decrease subtracts amount without a floor. A subtraction that would wrap
// around (an unsigned meter going below zero) fails and leaves the meter
// untouched.
func (m *Meter[T]) Decrease(amount T) error {
	var zero T
	next := m.current - amount
	if amount > zero && next > m.current {
		return errors.OutOfRangef("cannot take %v from %v", amount, m.current).
			WithReason(ReasonUnderflow)
	}
	m.current = next
	return nil
}

// String formats the meter as "<current>/<maximum>"
func (m Meter[T]) String() string {
	return fmt.Sprintf("%d/%d", m.current, m.maximum)
}

// MarshalText implements encoding.TextMarshaler
func (m Meter[T]) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Meter[T]) UnmarshalText(text []byte) error {
	parsed, err := Parse[T](string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
