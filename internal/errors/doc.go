// Package errors provides the structured error type used across the combat tracker.
//
// Every error that crosses a package boundary carries:
//   - a Code describing the broad class of failure
//   - a user-facing Message the operator can read at the prompt
//   - optional Meta, including a machine-readable reason
//
// # Basic Usage
//
//	err := errors.NotFound("encounter not found").
//	    WithMeta("encounter_id", id)
//
//	if err := repo.Save(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save encounter")
//	}
//
// # Reasons
//
// Combat-rule violations share CodeFailedPrecondition and are told apart by a
// reason stored in the metadata:
//
//	err := errors.FailedPrecondition("attacker has no attacks left").
//	    WithReason("not_enough_attacks")
//
//	if errors.HasReason(err, "not_enough_attacks") {
//	    // re-prompt the operator
//	}
//
// Reasons survive Wrap, so callers may add context freely.
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", input.Name, vb)
//	errors.ValidateRange("strength", input.Strength, 3, 25, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Layer-Specific Guidelines
//
// Entity layer:
//   - Parse failures return InvalidArgument with a parse reason
//   - Rule violations return FailedPrecondition with a rule reason
//
// Repository layer:
//   - Return NotFound with the encounter ID in metadata
//   - Wrap storage errors with context
//
// Orchestrator layer:
//   - Validate inputs and return InvalidArgument errors
//   - Wrap repository errors with business context
package errors
