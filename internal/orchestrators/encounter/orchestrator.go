// Package encounter applies operator commands to stored encounters. Every
// command loads the encounter, runs against its roster, saves the result and
// publishes what happened. A command that fails saves nothing.
package encounter

import (
	"context"
	"log/slog"
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/idgen"
	"github.com/KirkDiggler/combat-tracker/internal/repositories/encounters"
	"github.com/KirkDiggler/combat-tracker/internal/roster"
)

// MaxEncounterNameLength bounds the name an operator gives an encounter
const MaxEncounterNameLength = 64

// Service defines the interface for encounter operations
type Service interface {
	CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*CreateEncounterOutput, error)
	GetEncounter(ctx context.Context, input *GetEncounterInput) (*GetEncounterOutput, error)
	ListEncounters(ctx context.Context, input *ListEncountersInput) (*ListEncountersOutput, error)
	DeleteEncounter(ctx context.Context, input *DeleteEncounterInput) (*DeleteEncounterOutput, error)

	// AddCombatant appends a row and resorts the roster
	AddCombatant(ctx context.Context, input *AddCombatantInput) (*AddCombatantOutput, error)
	// FillField supplies one missing value of a Building row
	FillField(ctx context.Context, input *FillFieldInput) (*FillFieldOutput, error)
	AssignTeam(ctx context.Context, input *AssignTeamInput) (*AssignTeamOutput, error)
	AssignInitiative(ctx context.Context, input *AssignInitiativeInput) (*AssignInitiativeOutput, error)
	// RollInitiative rolls base initiative on the initiative die
	RollInitiative(ctx context.Context, input *RollInitiativeInput) (*RollInitiativeOutput, error)
	SetAbilities(ctx context.Context, input *SetAbilitiesInput) (*SetAbilitiesOutput, error)
	SetXPBonus(ctx context.Context, input *SetXPBonusInput) (*SetXPBonusOutput, error)
	// SetLevel changes level without touching the attack rating
	SetLevel(ctx context.Context, input *SetLevelInput) (*SetLevelOutput, error)
	Recalculate(ctx context.Context, input *RecalculateInput) (*RecalculateOutput, error)

	Attack(ctx context.Context, input *AttackInput) (*AttackOutput, error)
	Damage(ctx context.Context, input *DamageInput) (*DamageOutput, error)
	Heal(ctx context.Context, input *HealInput) (*HealOutput, error)
	// AdvanceRound resorts, drops the dead and moves everyone to the next round
	AdvanceRound(ctx context.Context, input *AdvanceRoundInput) (*AdvanceRoundOutput, error)
	ComputeXP(ctx context.Context, input *ComputeXPInput) (*ComputeXPOutput, error)

	Duplicate(ctx context.Context, input *DuplicateInput) (*DuplicateOutput, error)
	ResetStats(ctx context.Context, input *ResetStatsInput) (*ResetStatsOutput, error)
	ImportTemplates(ctx context.Context, input *ImportTemplatesInput) (*ImportTemplatesOutput, error)
}

// Config holds the dependencies for the encounter orchestrator
type Config struct {
	Repository  encounters.Repository
	IDGenerator idgen.Generator
	Clock       clock.Clock
	DiceRoller  dice.Roller
	EventBus    events.EventBus
	// Tracer is optional; spans are dropped without one
	Tracer trace.Tracer
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.DiceRoller == nil {
		vb.RequiredField("DiceRoller")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	return vb.Build()
}

type orchestrator struct {
	repo   encounters.Repository
	idGen  idgen.Generator
	clock  clock.Clock
	roller dice.Roller
	bus    events.EventBus
	tracer trace.Tracer
}

// NewOrchestrator creates a new encounter orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("encounter")
	}

	return &orchestrator{
		repo:   cfg.Repository,
		idGen:  cfg.IDGenerator,
		clock:  cfg.Clock,
		roller: cfg.DiceRoller,
		bus:    cfg.EventBus,
		tracer: tracer,
	}, nil
}

// CreateEncounter starts an empty encounter in round 1
func (o *orchestrator) CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*CreateEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Name, vb)
	errors.ValidateMaxLength("name", input.Name, MaxEncounterNameLength, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "encounter.create")
	defer span.End()

	now := o.clock.Now()
	r := roster.New()
	data := &encounters.EncounterData{
		ID:        o.idGen.Generate(),
		Name:      input.Name,
		Snapshot:  r.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	span.SetAttributes(attribute.String("encounter.id", data.ID))

	if _, err := o.repo.Save(ctx, &encounters.SaveInput{Encounter: data}); err != nil {
		o.fail(span, "create", data.ID, err)
		return nil, errors.Wrapf(err, "failed to save encounter %s", data.ID)
	}

	slog.Info("Encounter created",
		"encounter_id", data.ID,
		"name", data.Name,
	)

	return &CreateEncounterOutput{Encounter: toEncounter(data, r)}, nil
}

// GetEncounter returns the current view of an encounter
func (o *orchestrator) GetEncounter(ctx context.Context, input *GetEncounterInput) (*GetEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *Encounter
	err := o.read(ctx, "get", input.EncounterID, func(data *encounters.EncounterData, r *roster.Roster) error {
		out = toEncounter(data, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &GetEncounterOutput{Encounter: out}, nil
}

// ListEncounters summarizes every stored encounter
func (o *orchestrator) ListEncounters(ctx context.Context, input *ListEncountersInput) (*ListEncountersOutput, error) {
	ctx, span := o.tracer.Start(ctx, "encounter.list")
	defer span.End()

	list, err := o.repo.List(ctx, &encounters.ListInput{})
	if err != nil {
		o.fail(span, "list", "", err)
		return nil, errors.Wrap(err, "failed to list encounters")
	}

	out := &ListEncountersOutput{Encounters: make([]*EncounterSummary, 0, len(list.Encounters))}
	for _, data := range list.Encounters {
		out.Encounters = append(out.Encounters, &EncounterSummary{
			ID:        data.ID,
			Name:      data.Name,
			Round:     data.Snapshot.Round,
			Rows:      len(data.Snapshot.Rows),
			UpdatedAt: data.UpdatedAt,
		})
	}
	return out, nil
}

// DeleteEncounter removes an encounter
func (o *orchestrator) DeleteEncounter(ctx context.Context, input *DeleteEncounterInput) (*DeleteEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	ctx, span := o.tracer.Start(ctx, "encounter.delete",
		trace.WithAttributes(attribute.String("encounter.id", input.EncounterID)))
	defer span.End()

	if _, err := o.repo.Delete(ctx, &encounters.DeleteInput{ID: input.EncounterID}); err != nil {
		o.fail(span, "delete", input.EncounterID, err)
		return nil, errors.Wrapf(err, "failed to delete encounter %s", input.EncounterID)
	}

	slog.Info("Encounter deleted", "encounter_id", input.EncounterID)
	return &DeleteEncounterOutput{}, nil
}

// AddCombatant appends a row built from whatever fields are supplied
func (o *orchestrator) AddCombatant(ctx context.Context, input *AddCombatantInput) (*AddCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Name, vb)
	for field := range input.Fields {
		if !slices.Contains(combat.BuildOrder, field) {
			vb.InvalidField("fields", "unknown field "+string(field))
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	out := &AddCombatantOutput{}
	enc, err := o.execute(ctx, "add_combatant", input.EncounterID, func(r *roster.Roster, emit emitter) error {
		b := combat.NewBuilder(input.Name)
		for _, field := range combat.BuildOrder {
			if value, ok := input.Fields[field]; ok {
				if err := b.Fill(field, value); err != nil {
					return err
				}
			}
		}

		var row roster.Row = roster.NewBuilding(b)
		if c, ok := b.Build(); ok {
			row = roster.NewDone(c)
			out.Built = true
		}

		removed, err := r.AddRow(row)
		if err != nil {
			return err
		}
		out.Index = r.IndexOf(row)
		emit(newEvent(EventCombatantAdded, encounterRef(input.EncounterID), combatantRef(input.Name), nil))
		emitRemoved(emit, input.EncounterID, removed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Encounter = enc
	return out, nil
}

// FillField supplies one field of a Building row
func (o *orchestrator) FillField(ctx context.Context, input *FillFieldInput) (*FillFieldOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &FillFieldOutput{}
	enc, err := o.execute(ctx, "fill_field", input.EncounterID, func(r *roster.Roster, _ emitter) error {
		built, err := r.FillField(input.Index, input.Field, input.Value)
		out.Built = built
		return err
	})
	if err != nil {
		return nil, err
	}
	out.Encounter = enc
	return out, nil
}

// AssignTeam sets the team of a row
func (o *orchestrator) AssignTeam(ctx context.Context, input *AssignTeamInput) (*AssignTeamOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.execute(ctx, "assign_team", input.EncounterID, func(r *roster.Roster, _ emitter) error {
		return r.AssignTeam(input.Index, input.Team)
	})
	if err != nil {
		return nil, err
	}
	return &AssignTeamOutput{Encounter: enc}, nil
}

// AssignInitiative sets the base initiative of a row
func (o *orchestrator) AssignInitiative(ctx context.Context, input *AssignInitiativeInput) (*AssignInitiativeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.execute(ctx, "assign_initiative", input.EncounterID, func(r *roster.Roster, _ emitter) error {
		return r.AssignInitiative(input.Index, input.Initiative)
	})
	if err != nil {
		return nil, err
	}
	return &AssignInitiativeOutput{Encounter: enc}, nil
}

// RollInitiative rolls one die of InitiativeModifier sides for the chosen
// row, or for every row still without a base initiative
func (o *orchestrator) RollInitiative(ctx context.Context, input *RollInitiativeInput) (*RollInitiativeOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &RollInitiativeOutput{}
	enc, err := o.execute(ctx, "roll_initiative", input.EncounterID, func(r *roster.Roster, _ emitter) error {
		var targets []int
		if input.Index != nil {
			if _, err := r.Row(*input.Index); err != nil {
				return err
			}
			targets = []int{*input.Index}
		} else {
			for i, row := range r.Rows() {
				if !hasInitiative(row) {
					targets = append(targets, i)
				}
			}
		}

		for _, i := range targets {
			roll, err := o.roller.Roll(combat.InitiativeModifier)
			if err != nil {
				return errors.Wrap(err, "failed to roll initiative")
			}
			if err := r.AssignInitiative(i, uint(roll)); err != nil {
				return err
			}
			row, _ := r.Row(i)
			out.Rolls = append(out.Rolls, InitiativeRoll{Name: row.Name(), Value: uint(roll)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Encounter = enc
	return out, nil
}

// SetAbilities parses and records ability scores
func (o *orchestrator) SetAbilities(ctx context.Context, input *SetAbilitiesInput) (*SetAbilitiesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	abilities, err := combat.ParseAbilities(input.Abilities)
	if err != nil {
		return nil, err
	}

	enc, err := o.execute(ctx, "set_abilities", input.EncounterID, func(r *roster.Roster, _ emitter) error {
		return r.SetAbilities(input.Index, *abilities)
	})
	if err != nil {
		return nil, err
	}
	return &SetAbilitiesOutput{Encounter: enc}, nil
}

// SetXPBonus sets the experience bonus flag
func (o *orchestrator) SetXPBonus(ctx context.Context, input *SetXPBonusInput) (*SetXPBonusOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.execute(ctx, "set_xp_bonus", input.EncounterID, func(r *roster.Roster, _ emitter) error {
		return r.SetXPBonus(input.Index, input.Bonus)
	})
	if err != nil {
		return nil, err
	}
	return &SetXPBonusOutput{Encounter: enc}, nil
}

// SetLevel changes level or hit dice
func (o *orchestrator) SetLevel(ctx context.Context, input *SetLevelInput) (*SetLevelOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.execute(ctx, "set_level", input.EncounterID, func(r *roster.Roster, _ emitter) error {
		return r.SetLevel(input.Index, input.Level)
	})
	if err != nil {
		return nil, err
	}
	return &SetLevelOutput{Encounter: enc}, nil
}

// Recalculate re-derives an attack rating from the current class and level
func (o *orchestrator) Recalculate(ctx context.Context, input *RecalculateInput) (*RecalculateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.execute(ctx, "recalculate", input.EncounterID, func(r *roster.Roster, _ emitter) error {
		return r.Recalculate(input.Index)
	})
	if err != nil {
		return nil, err
	}
	return &RecalculateOutput{Encounter: enc}, nil
}

// Attack has one combatant hit another
func (o *orchestrator) Attack(ctx context.Context, input *AttackInput) (*AttackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.execute(ctx, "attack", input.EncounterID, func(r *roster.Roster, emit emitter) error {
		if err := r.MoveTo(input.Attacker); err != nil {
			return err
		}
		if err := r.Select(); err != nil {
			return err
		}
		if err := r.MoveTo(input.Target); err != nil {
			return err
		}

		before := statusOf(r, input.Target)
		if err := r.Attack(input.Damage); err != nil {
			return err
		}

		attacker, _ := r.Row(input.Attacker)
		target, _ := r.Row(input.Target)
		emit(newEvent(EventCombatHit, combatantRef(attacker.Name()), combatantRef(target.Name()), map[string]any{
			ContextKeyDamage: input.Damage,
		}))
		emit(statusEvent(input.EncounterID, target.Name(), before, statusOf(r, input.Target)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &AttackOutput{Encounter: enc}, nil
}

// Damage applies damage with no attacker
func (o *orchestrator) Damage(ctx context.Context, input *DamageInput) (*DamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.execute(ctx, "damage", input.EncounterID, func(r *roster.Roster, emit emitter) error {
		if err := r.MoveTo(input.Index); err != nil {
			return err
		}
		before := statusOf(r, input.Index)
		if err := r.Damage(input.Damage); err != nil {
			return err
		}

		row, _ := r.Row(input.Index)
		emit(newEvent(EventCombatDamaged, encounterRef(input.EncounterID), combatantRef(row.Name()), map[string]any{
			ContextKeyDamage: input.Damage,
		}))
		emit(statusEvent(input.EncounterID, row.Name(), before, statusOf(r, input.Index)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DamageOutput{Encounter: enc}, nil
}

// Heal restores hit points
func (o *orchestrator) Heal(ctx context.Context, input *HealInput) (*HealOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.execute(ctx, "heal", input.EncounterID, func(r *roster.Roster, emit emitter) error {
		if err := r.MoveTo(input.Index); err != nil {
			return err
		}
		if err := r.Heal(input.Amount); err != nil {
			return err
		}

		row, _ := r.Row(input.Index)
		emit(newEvent(EventCombatHealed, encounterRef(input.EncounterID), combatantRef(row.Name()), map[string]any{
			ContextKeyAmount: input.Amount,
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &HealOutput{Encounter: enc}, nil
}

// AdvanceRound starts the next round
func (o *orchestrator) AdvanceRound(ctx context.Context, input *AdvanceRoundInput) (*AdvanceRoundOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &AdvanceRoundOutput{}
	enc, err := o.execute(ctx, "advance_round", input.EncounterID, func(r *roster.Roster, emit emitter) error {
		removed := r.AdvanceRound()
		for _, c := range removed {
			out.Removed = append(out.Removed, c.Name)
		}
		emitRemoved(emit, input.EncounterID, removed)
		emit(newEvent(EventRoundAdvanced, encounterRef(input.EncounterID), nil, map[string]any{
			ContextKeyRound: r.Round(),
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Encounter = enc
	return out, nil
}

// ComputeXP reports the experience a combatant has earned so far
func (o *orchestrator) ComputeXP(ctx context.Context, input *ComputeXPInput) (*ComputeXPOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &ComputeXPOutput{}
	err := o.read(ctx, "compute_xp", input.EncounterID, func(_ *encounters.EncounterData, r *roster.Roster) error {
		xp, err := r.ComputeXP(input.Index)
		if err != nil {
			return err
		}
		row, _ := r.Row(input.Index)
		out.Name = row.Name()
		out.XP = xp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Duplicate copies a row, optionally under a new name
func (o *orchestrator) Duplicate(ctx context.Context, input *DuplicateInput) (*DuplicateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.execute(ctx, "duplicate", input.EncounterID, func(r *roster.Roster, emit emitter) error {
		removed, err := r.Duplicate(input.Index, input.Name)
		if err != nil {
			return err
		}
		emitRemoved(emit, input.EncounterID, removed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &DuplicateOutput{Encounter: enc}, nil
}

// ResetStats clears damage statistics on every combatant
func (o *orchestrator) ResetStats(ctx context.Context, input *ResetStatsInput) (*ResetStatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	enc, err := o.execute(ctx, "reset_stats", input.EncounterID, func(r *roster.Roster, _ emitter) error {
		r.ResetStats()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ResetStatsOutput{Encounter: enc}, nil
}

// ImportTemplates adds a Building row for each template in the list
func (o *orchestrator) ImportTemplates(ctx context.Context, input *ImportTemplatesInput) (*ImportTemplatesOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	templates, err := roster.ParseTemplates(input.Data)
	if err != nil {
		return nil, err
	}
	builders := make([]*combat.Builder, 0, len(templates))
	for _, t := range templates {
		b, err := t.Builder()
		if err != nil {
			return nil, err
		}
		builders = append(builders, b)
	}

	enc, err := o.execute(ctx, "import_templates", input.EncounterID, func(r *roster.Roster, emit emitter) error {
		if r.Len()+len(builders) > roster.MaxRows {
			return errors.ResourceExhaustedf("importing %d rows would exceed %d", len(builders), roster.MaxRows).
				WithReason(roster.ReasonRosterFull)
		}
		for _, b := range builders {
			removed, err := r.AddRow(roster.NewBuilding(b))
			if err != nil {
				return err
			}
			emit(newEvent(EventCombatantAdded, encounterRef(input.EncounterID), combatantRef(b.Name), nil))
			emitRemoved(emit, input.EncounterID, removed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ImportTemplatesOutput{Encounter: enc, Added: len(builders)}, nil
}

type emitter func(events.Event)

// command mutates a roster and reports events through emit
type command func(r *roster.Roster, emit emitter) error

// execute loads an encounter, runs cmd against it, saves the result and
// publishes the collected events. Nothing is saved or published when cmd fails.
func (o *orchestrator) execute(ctx context.Context, name, encounterID string, cmd command) (*Encounter, error) {
	ctx, span := o.tracer.Start(ctx, "encounter."+name,
		trace.WithAttributes(attribute.String("encounter.id", encounterID)))
	defer span.End()

	data, r, err := o.load(ctx, encounterID)
	if err != nil {
		o.fail(span, name, encounterID, err)
		return nil, err
	}

	var pending []events.Event
	emit := func(e events.Event) {
		if e != nil {
			pending = append(pending, e)
		}
	}
	if err := cmd(r, emit); err != nil {
		o.fail(span, name, encounterID, err)
		return nil, err
	}

	data.Snapshot = r.Snapshot()
	data.UpdatedAt = o.clock.Now()
	if _, err := o.repo.Save(ctx, &encounters.SaveInput{Encounter: data}); err != nil {
		o.fail(span, name, encounterID, err)
		return nil, errors.Wrapf(err, "failed to save encounter %s", encounterID)
	}

	o.publish(ctx, pending)

	slog.Info("Encounter command applied",
		"command", name,
		"encounter_id", encounterID,
		"round", r.Round(),
		"rows", r.Len(),
		"events", len(pending),
	)

	return toEncounter(data, r), nil
}

// read loads an encounter for a command that changes nothing
func (o *orchestrator) read(ctx context.Context, name, encounterID string, fn func(*encounters.EncounterData, *roster.Roster) error) error {
	ctx, span := o.tracer.Start(ctx, "encounter."+name,
		trace.WithAttributes(attribute.String("encounter.id", encounterID)))
	defer span.End()

	data, r, err := o.load(ctx, encounterID)
	if err == nil {
		err = fn(data, r)
	}
	if err != nil {
		o.fail(span, name, encounterID, err)
		return err
	}
	return nil
}

func (o *orchestrator) load(ctx context.Context, encounterID string) (*encounters.EncounterData, *roster.Roster, error) {
	if encounterID == "" {
		return nil, nil, errors.InvalidArgument("encounter ID is required")
	}

	got, err := o.repo.Get(ctx, &encounters.GetInput{ID: encounterID})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to load encounter %s", encounterID)
	}

	r, err := roster.FromSnapshot(got.Encounter.Snapshot)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "encounter %s has an unreadable snapshot", encounterID)
	}
	return got.Encounter, r, nil
}

func (o *orchestrator) publish(ctx context.Context, pending []events.Event) {
	for _, e := range pending {
		if err := o.bus.Publish(ctx, e); err != nil {
			slog.Warn("Failed to publish encounter event",
				"event_type", e.Type(),
				"error", err,
			)
		}
	}
}

// fail records err on the span and logs it. Operator mistakes log at warn,
// anything else at error.
func (o *orchestrator) fail(span trace.Span, name, encounterID string, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, errors.GetMessage(err))

	switch errors.GetCode(err) {
	case errors.CodeInvalidArgument, errors.CodeFailedPrecondition, errors.CodeNotFound,
		errors.CodeResourceExhausted, errors.CodeOutOfRange:
		slog.Warn("Encounter command rejected",
			"command", name,
			"encounter_id", encounterID,
			"reason", errors.GetReason(err),
			"error", err,
		)
	default:
		slog.Error("Encounter command failed",
			"command", name,
			"encounter_id", encounterID,
			"error", err,
		)
	}
}

func toEncounter(data *encounters.EncounterData, r *roster.Roster) *Encounter {
	return &Encounter{
		ID:        data.ID,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
		View:      r.View(),
	}
}

func emitRemoved(emit emitter, encounterID string, removed []*combat.Combatant) {
	for _, c := range removed {
		emit(newEvent(EventCombatRemoved, encounterRef(encounterID), combatantRef(c.Name), nil))
	}
}

func statusOf(r *roster.Roster, i int) combat.Status {
	row, err := r.Row(i)
	if err != nil {
		return combat.Healthy()
	}
	if done, ok := row.(roster.Done); ok {
		return done.Combatant.Status
	}
	return combat.Healthy()
}

func hasInitiative(row roster.Row) bool {
	switch row := row.(type) {
	case roster.Done:
		return row.Combatant.Initiative != nil
	case roster.Building:
		return row.Builder.Initiative != nil
	default:
		return true
	}
}
