package combat

import "github.com/KirkDiggler/combat-tracker/internal/errors"

// Reasons attached to combat-rule errors
const (
	ReasonNotEnoughAttacks = "not_enough_attacks"
	ReasonNotInCombat      = "not_in_combat"
	ReasonNotBuilt         = "not_built"
)

// ErrNotEnoughAttacks reports an attacker whose action meter is exhausted
func ErrNotEnoughAttacks(name string) *errors.Error {
	return errors.FailedPreconditionf("%s has no attacks left this round", name).
		WithReason(ReasonNotEnoughAttacks).
		WithMeta("combatant", name)
}

// ErrNotInCombat reports a combatant without a team or base initiative
func ErrNotInCombat(name string) *errors.Error {
	return errors.FailedPreconditionf("%s has no team or initiative yet", name).
		WithReason(ReasonNotInCombat).
		WithMeta("combatant", name)
}

// ErrNotBuilt reports an operation aimed at a combatant still being entered
func ErrNotBuilt(name string, missing Field) *errors.Error {
	return errors.FailedPreconditionf("%s is missing %s", name, missing).
		WithReason(ReasonNotBuilt).
		WithMeta("combatant", name).
		WithMeta("missing_field", string(missing))
}
