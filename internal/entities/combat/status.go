package combat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// StatusKind is the tag of a Status
type StatusKind int

// Status kinds in ascending order of severity
const (
	StatusHealthy StatusKind = iota
	StatusStunned
	StatusDead
)

// String returns the status kind name
func (k StatusKind) String() string {
	switch k {
	case StatusHealthy:
		return "healthy"
	case StatusStunned:
		return "stunned"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as its name
func (k StatusKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MaxStunSeverity is the worst stun a single hit can inflict
const MaxStunSeverity = 8

// Status is the incapacitation state of a combatant: Healthy, Stunned(1..8)
// or Dead. Statuses are totally ordered Healthy < Stunned(n) < Dead, with
// stuns ordered by severity. Dead is terminal.
type Status struct {
	kind     StatusKind
	severity uint
}

// Healthy returns the healthy status
func Healthy() Status {
	return Status{kind: StatusHealthy}
}

// Stunned returns a stun of the given severity, clamped to 1..8
func Stunned(severity uint) Status {
	return Status{kind: StatusStunned, severity: max(1, min(severity, MaxStunSeverity))}
}

// Dead returns the terminal status
func Dead() Status {
	return Status{kind: StatusDead}
}

// Kind returns the status tag
func (s Status) Kind() StatusKind {
	return s.kind
}

// Severity returns the stun severity, or 0 when not stunned
func (s Status) Severity() uint {
	return s.severity
}

// IsDead reports whether the status is terminal
func (s Status) IsDead() bool {
	return s.kind == StatusDead
}

// IsStunned reports whether the status is any stun
func (s Status) IsStunned() bool {
	return s.kind == StatusStunned
}

// Compare returns -1, 0 or +1 as s is less than, equal to or greater than other
func (s Status) Compare(other Status) int {
	switch {
	case s.kind < other.kind:
		return -1
	case s.kind > other.kind:
		return 1
	case s.severity < other.severity:
		return -1
	case s.severity > other.severity:
		return 1
	default:
		return 0
	}
}

// Worse reports whether s is strictly more severe than other
func (s Status) Worse(other Status) bool {
	return s.Compare(other) > 0
}

// Glyph returns the single-character marker for the status
func (s Status) Glyph() string {
	switch s.kind {
	case StatusDead:
		return "#"
	case StatusStunned:
		return "*"
	default:
		return "+"
	}
}

// String renders the status as "healthy", "stunned:N" or "dead"
func (s Status) String() string {
	if s.kind == StatusStunned {
		return fmt.Sprintf("%s:%d", s.kind, s.severity)
	}
	return s.kind.String()
}

// MarshalJSON encodes the status as its string form
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the string form produced by MarshalJSON
func (s *Status) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return errors.WrapWithCode(err, errors.CodeDataLoss, "status must be a string")
	}

	kind, severity, hasSeverity := strings.Cut(text, ":")
	switch {
	case kind == StatusHealthy.String() && !hasSeverity:
		*s = Healthy()
	case kind == StatusDead.String() && !hasSeverity:
		*s = Dead()
	case kind == StatusStunned.String() && hasSeverity:
		n, err := strconv.ParseUint(severity, 10, 32)
		if err != nil || n < 1 || n > MaxStunSeverity {
			return errors.DataLossf("invalid stun severity %q", severity)
		}
		*s = Stunned(uint(n))
	default:
		return errors.DataLossf("unknown status %q", text)
	}
	return nil
}

// StunLock computes the stun a hit of damage inflicts on a combatant that had
// hp before the hit. The closer damage comes to hp, the worse the stun.
func StunLock(damage, hp int) Status {
	// damage*k >= hp*(k-1) for k = 7..2 gives Stunned(k+1)
	for k := 7; k >= 2; k-- {
		if damage*k >= hp*(k-1) {
			return Stunned(uint(k + 1))
		}
	}
	switch {
	case damage*3 >= hp:
		return Stunned(2)
	case damage*4 >= hp:
		return Stunned(1)
	default:
		return Healthy()
	}
}
