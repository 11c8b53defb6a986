package encounter_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/encounter"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/idgen"
	"github.com/KirkDiggler/combat-tracker/internal/repositories/encounters"
	encountermock "github.com/KirkDiggler/combat-tracker/internal/repositories/encounters/mock"
	"github.com/KirkDiggler/combat-tracker/internal/testutils"
	"github.com/KirkDiggler/combat-tracker/internal/testutils/builders"
	"github.com/KirkDiggler/combat-tracker/internal/testutils/mocks"
)

// recordingBus keeps every published event
type recordingBus struct {
	published []events.Event
	err       error
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return b.err
}
func (b *recordingBus) Subscribe(_ string, _ events.Handler) string { return "sub-id" }
func (b *recordingBus) SubscribeFunc(_ string, _ int, _ events.HandlerFunc) string {
	return "sub-id"
}
func (b *recordingBus) Unsubscribe(_ string) error { return nil }
func (b *recordingBus) Clear(_ string)             {}
func (b *recordingBus) ClearAll()                  {}

func (b *recordingBus) types() []string {
	out := make([]string, 0, len(b.published))
	for _, e := range b.published {
		out = append(out, e.Type())
	}
	return out
}

// scriptedRoller returns its rolls in order, then repeats the last one
type scriptedRoller struct {
	rolls []int
	sizes []int
}

func (r *scriptedRoller) Roll(size int) (int, error) {
	r.sizes = append(r.sizes, size)
	v := r.rolls[0]
	if len(r.rolls) > 1 {
		r.rolls = r.rolls[1:]
	}
	return v, nil
}

func (r *scriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i], _ = r.Roll(size)
	}
	return out, nil
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockRepo     *encountermock.MockRepository
	bus          *recordingBus
	roller       *scriptedRoller
	clock        *clock.Fixed
	orchestrator encounter.Service
	ctx          context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = encountermock.NewMockRepository(s.ctrl)
	s.bus = &recordingBus{}
	s.roller = &scriptedRoller{rolls: []int{7}}
	s.clock = clock.NewFixed(testutils.TestTime.Add(time.Hour))
	s.ctx = context.Background()

	orchestrator, err := encounter.NewOrchestrator(&encounter.Config{
		Repository:  s.mockRepo,
		IDGenerator: idgen.NewSequential("enc"),
		Clock:       s.clock,
		DiceRoller:  s.roller,
		EventBus:    s.bus,
	})
	s.Require().NoError(err)
	s.orchestrator = orchestrator
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) TestNewOrchestrator_MissingDependencies() {
	_, err := encounter.NewOrchestrator(&encounter.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Repository")
	s.Contains(err.Error(), "EventBus")

	_, err = encounter.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestCreateEncounter() {
	saved := mocks.ExpectSave(s.mockRepo)

	out, err := s.orchestrator.CreateEncounter(s.ctx, &encounter.CreateEncounterInput{Name: "Crypt"})
	s.Require().NoError(err)

	s.Equal("enc-1", out.Encounter.ID)
	s.Equal("Crypt", out.Encounter.Name)
	s.Equal(uint(1), out.Encounter.View.Round)
	s.Empty(out.Encounter.View.Rows)
	s.Equal(s.clock.Now(), saved.Encounter.CreatedAt)
	s.Equal(uint(1), saved.Encounter.Snapshot.Round)
}

func (s *OrchestratorTestSuite) TestCreateEncounter_NameRequired() {
	_, err := s.orchestrator.CreateEncounter(s.ctx, &encounter.CreateEncounterInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestCreateEncounter_NameTooLong() {
	name := strings.Repeat("x", encounter.MaxEncounterNameLength+1)

	_, err := s.orchestrator.CreateEncounter(s.ctx, &encounter.CreateEncounterInput{Name: name})
	s.True(errors.IsInvalidArgument(err))
	s.True(errors.HasReason(err, errors.ReasonValidation))
}

func (s *OrchestratorTestSuite) TestGetEncounter_EmptyID() {
	_, err := s.orchestrator.GetEncounter(s.ctx, &encounter.GetEncounterInput{})
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "encounter ID is required")
}

func (s *OrchestratorTestSuite) TestGetEncounter_NotFound() {
	mocks.ExpectMissing(s.mockRepo, "enc-missing")

	_, err := s.orchestrator.GetEncounter(s.ctx, &encounter.GetEncounterInput{EncounterID: "enc-missing"})
	s.True(errors.IsNotFound(err))
	s.Contains(err.Error(), "failed to load encounter")
}

func (s *OrchestratorTestSuite) TestGetEncounter_CorruptSnapshot() {
	data := builders.NewEncounterBuilder().WithRound(0).Build()
	mocks.ExpectLoad(s.mockRepo, data)

	_, err := s.orchestrator.GetEncounter(s.ctx, &encounter.GetEncounterInput{EncounterID: data.ID})
	s.True(errors.IsDataLoss(err))
}

func (s *OrchestratorTestSuite) TestDamage_SavesAndPublishes() {
	data := builders.NewEncounterBuilder().
		WithCombatant(builders.NewCombatantBuilder().WithName("orc").WithHP(10, 10).Build()).
		Build()
	mocks.ExpectLoad(s.mockRepo, data)
	saved := mocks.ExpectSave(s.mockRepo)

	out, err := s.orchestrator.Damage(s.ctx, &encounter.DamageInput{
		EncounterID: data.ID,
		Index:       0,
		Damage:      5,
	})
	s.Require().NoError(err)

	s.Equal(1, saved.Calls)
	s.Equal(s.clock.Now(), saved.Encounter.UpdatedAt)
	s.Equal(testutils.TestTime, saved.Encounter.CreatedAt)
	s.Equal(5, saved.Encounter.Snapshot.Rows[0].Done.HP.Current())
	s.Equal(combat.StatusStunned, out.Encounter.View.Rows[0].Status)
	s.Equal([]string{encounter.EventCombatDamaged, encounter.EventStatusChanged}, s.bus.types())
}

func (s *OrchestratorTestSuite) TestDamage_RejectedCommandSavesNothing() {
	data := builders.NewEncounterBuilder().
		WithCombatant(builders.NewCombatantBuilder().WithName("orc").Build()).
		Build()
	mocks.ExpectLoad(s.mockRepo, data)

	_, err := s.orchestrator.Damage(s.ctx, &encounter.DamageInput{
		EncounterID: data.ID,
		Index:       0,
		Damage:      -1,
	})
	s.True(errors.IsInvalidArgument(err))
	s.Empty(s.bus.published)
}

func (s *OrchestratorTestSuite) TestAttack_NotEnoughAttacks() {
	data := builders.NewEncounterBuilder().
		WithCombatant(builders.NewCombatantBuilder().WithName("orc").WithAttacks(0).WithInitiative(9).Build()).
		WithCombatant(builders.NewCombatantBuilder().WithName("elf").WithInitiative(3).Build()).
		Build()
	mocks.ExpectLoad(s.mockRepo, data)

	_, err := s.orchestrator.Attack(s.ctx, &encounter.AttackInput{
		EncounterID: data.ID,
		Attacker:    0,
		Target:      1,
		Damage:      2,
	})
	s.True(errors.IsFailedPrecondition(err))
	s.True(errors.HasReason(err, combat.ReasonNotEnoughAttacks))
	s.Empty(s.bus.published)
}

func (s *OrchestratorTestSuite) TestRollInitiative_FillsOnlyMissing() {
	orc := builders.NewCombatantBuilder().
		WithName("orc").
		WithClass(combat.Monster(false, 2)).
		WithTeam(2).
		WithoutInitiative().
		Build()
	data := builders.NewEncounterBuilder().
		WithCombatant(builders.NewCombatantBuilder().WithName("elf").WithInitiative(3).Build()).
		WithCombatant(orc).
		Build()
	mocks.ExpectLoad(s.mockRepo, data)
	saved := mocks.ExpectSave(s.mockRepo)

	out, err := s.orchestrator.RollInitiative(s.ctx, &encounter.RollInitiativeInput{EncounterID: data.ID})
	s.Require().NoError(err)

	s.Equal([]encounter.InitiativeRoll{{Name: "orc", Value: 7}}, out.Rolls)
	s.Equal([]int{combat.InitiativeModifier}, s.roller.sizes)

	var rolled *combat.Combatant
	for _, row := range saved.Encounter.Snapshot.Rows {
		if row.Done != nil && row.Done.Name == "orc" {
			rolled = row.Done
		}
	}
	s.Require().NotNil(rolled)
	s.Require().NotNil(rolled.Initiative)
	s.Equal(uint(7), *rolled.Initiative)
	s.Equal(uint(2), *rolled.Team)
	s.Equal(orc.THAC0, rolled.THAC0)
}

func (s *OrchestratorTestSuite) TestSaveFailure() {
	data := builders.NewEncounterBuilder().
		WithCombatant(builders.NewCombatantBuilder().Build()).
		Build()
	mocks.ExpectLoad(s.mockRepo, data)
	s.mockRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailable("redis down"))

	_, err := s.orchestrator.Heal(s.ctx, &encounter.HealInput{EncounterID: data.ID, Amount: 1})
	s.True(errors.IsUnavailable(err))
	s.Contains(err.Error(), "failed to save encounter")
	s.Empty(s.bus.published)
}

func (s *OrchestratorTestSuite) TestPublishFailureDoesNotFailCommand() {
	s.bus.err = errors.Internal("handler exploded")
	data := builders.NewEncounterBuilder().
		WithCombatant(builders.NewCombatantBuilder().Build()).
		Build()
	mocks.ExpectLoad(s.mockRepo, data)
	mocks.ExpectSave(s.mockRepo)

	_, err := s.orchestrator.AdvanceRound(s.ctx, &encounter.AdvanceRoundInput{EncounterID: data.ID})
	s.NoError(err)
	s.Equal([]string{encounter.EventRoundAdvanced}, s.bus.types())
}

func (s *OrchestratorTestSuite) TestComputeXP_DoesNotSave() {
	data := builders.NewEncounterBuilder().
		WithCombatant(builders.NewCombatantBuilder().WithName("orc").WithDealt(100).Build()).
		Build()
	mocks.ExpectLoad(s.mockRepo, data)

	out, err := s.orchestrator.ComputeXP(s.ctx, &encounter.ComputeXPInput{EncounterID: data.ID})
	s.Require().NoError(err)
	s.Equal("orc", out.Name)
	s.Positive(out.XP)
}

func (s *OrchestratorTestSuite) TestListEncounters() {
	s.mockRepo.EXPECT().
		List(gomock.Any(), &encounters.ListInput{}).
		Return(&encounters.ListOutput{Encounters: []*encounters.EncounterData{
			builders.NewEncounterBuilder().
				WithRound(4).
				WithCombatant(builders.NewCombatantBuilder().Build()).
				Build(),
		}}, nil)

	out, err := s.orchestrator.ListEncounters(s.ctx, &encounter.ListEncountersInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Encounters, 1)
	s.Equal(testutils.TestEncounterName, out.Encounters[0].Name)
	s.Equal(uint(4), out.Encounters[0].Round)
	s.Equal(1, out.Encounters[0].Rows)
}

func (s *OrchestratorTestSuite) TestDeleteEncounter() {
	s.mockRepo.EXPECT().
		Delete(gomock.Any(), &encounters.DeleteInput{ID: "enc-1"}).
		Return(&encounters.DeleteOutput{}, nil)

	_, err := s.orchestrator.DeleteEncounter(s.ctx, &encounter.DeleteEncounterInput{EncounterID: "enc-1"})
	s.NoError(err)
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

// FlowTestSuite drives whole encounters through an in-memory repository
type FlowTestSuite struct {
	suite.Suite
	bus          *recordingBus
	roller       *scriptedRoller
	orchestrator encounter.Service
	ctx          context.Context
	id           string
}

func (s *FlowTestSuite) SetupTest() {
	s.bus = &recordingBus{}
	s.roller = &scriptedRoller{rolls: []int{4}}
	s.ctx = context.Background()

	orchestrator, err := encounter.NewOrchestrator(&encounter.Config{
		Repository:  encounters.NewInMemory(),
		IDGenerator: idgen.NewSequential("enc"),
		Clock:       clock.NewFixed(testutils.TestTime),
		DiceRoller:  s.roller,
		EventBus:    s.bus,
	})
	s.Require().NoError(err)
	s.orchestrator = orchestrator

	out, err := s.orchestrator.CreateEncounter(s.ctx, &encounter.CreateEncounterInput{Name: "Crypt"})
	s.Require().NoError(err)
	s.id = out.Encounter.ID
}

func (s *FlowTestSuite) add(name string, fields map[combat.Field]string) *encounter.AddCombatantOutput {
	out, err := s.orchestrator.AddCombatant(s.ctx, &encounter.AddCombatantInput{
		EncounterID: s.id,
		Name:        name,
		Fields:      fields,
	})
	s.Require().NoError(err)
	return out
}

func (s *FlowTestSuite) fullFields(team, init string) map[combat.Field]string {
	return map[combat.Field]string{
		combat.FieldClass:      "f",
		combat.FieldLevel:      "3",
		combat.FieldHP:         "10",
		combat.FieldAttacks:    "1",
		combat.FieldAC:         "5",
		combat.FieldTeam:       team,
		combat.FieldInitiative: init,
	}
}

func (s *FlowTestSuite) view() []string {
	out, err := s.orchestrator.GetEncounter(s.ctx, &encounter.GetEncounterInput{EncounterID: s.id})
	s.Require().NoError(err)
	names := make([]string, 0, len(out.Encounter.View.Rows))
	for _, row := range out.Encounter.View.Rows {
		names = append(names, row.Name)
	}
	return names
}

func (s *FlowTestSuite) TestAddCombatant_SortsByInitiative() {
	s.add("slow", s.fullFields("1", "2"))
	out := s.add("fast", s.fullFields("2", "9"))

	s.True(out.Built)
	s.Equal(0, out.Index)
	s.Equal([]string{"fast", "slow"}, s.view())
}

func (s *FlowTestSuite) TestAddCombatant_UnknownField() {
	_, err := s.orchestrator.AddCombatant(s.ctx, &encounter.AddCombatantInput{
		EncounterID: s.id,
		Name:        "odd",
		Fields:      map[combat.Field]string{"colour": "red"},
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *FlowTestSuite) TestFillField_CompletesBuilder() {
	fields := s.fullFields("1", "5")
	delete(fields, combat.FieldInitiative)
	out := s.add("rook", fields)
	s.False(out.Built)

	got, err := s.orchestrator.GetEncounter(s.ctx, &encounter.GetEncounterInput{EncounterID: s.id})
	s.Require().NoError(err)
	s.True(got.Encounter.View.Rows[0].Building)
	s.Equal(combat.FieldInitiative, got.Encounter.View.Rows[0].NextField)

	fill, err := s.orchestrator.FillField(s.ctx, &encounter.FillFieldInput{
		EncounterID: s.id,
		Index:       out.Index,
		Field:       combat.FieldInitiative,
		Value:       "5",
	})
	s.Require().NoError(err)
	s.True(fill.Built)
	s.Equal(18, fill.Encounter.View.Rows[0].THAC0)
}

func (s *FlowTestSuite) TestRollInitiative_OnlyRowsWithout() {
	s.add("set", s.fullFields("1", "8"))
	fields := s.fullFields("1", "")
	delete(fields, combat.FieldInitiative)
	s.add("unset", fields)

	out, err := s.orchestrator.RollInitiative(s.ctx, &encounter.RollInitiativeInput{EncounterID: s.id})
	s.Require().NoError(err)

	s.Equal([]encounter.InitiativeRoll{{Name: "unset", Value: 4}}, out.Rolls)
	s.Equal([]int{combat.InitiativeModifier}, s.roller.sizes)
}

func (s *FlowTestSuite) TestAttackFlow() {
	s.add("hero", s.fullFields("1", "9"))
	s.add("orc", s.fullFields("2", "3"))

	out, err := s.orchestrator.Attack(s.ctx, &encounter.AttackInput{
		EncounterID: s.id,
		Attacker:    0,
		Target:      1,
		Damage:      5,
	})
	s.Require().NoError(err)

	hero, orc := out.Encounter.View.Rows[0], out.Encounter.View.Rows[1]
	s.Equal(5, hero.Dealt)
	s.Equal(uint(0), hero.Attacks.Current())
	s.Equal(5, orc.Received)
	s.Equal(combat.StatusStunned, orc.Status)
	s.Contains(s.bus.types(), encounter.EventCombatHit)
	s.Contains(s.bus.types(), encounter.EventStatusChanged)

	// attacks are spent until the round advances
	_, err = s.orchestrator.Attack(s.ctx, &encounter.AttackInput{
		EncounterID: s.id, Attacker: 0, Target: 1, Damage: 1,
	})
	s.True(errors.IsFailedPrecondition(err))

	_, err = s.orchestrator.AdvanceRound(s.ctx, &encounter.AdvanceRoundInput{EncounterID: s.id})
	s.Require().NoError(err)
	_, err = s.orchestrator.Attack(s.ctx, &encounter.AttackInput{
		EncounterID: s.id, Attacker: 0, Target: 1, Damage: 1,
	})
	s.NoError(err)
}

func (s *FlowTestSuite) TestAdvanceRound_RemovesDead() {
	s.add("hero", s.fullFields("1", "9"))
	s.add("orc", s.fullFields("2", "3"))

	_, err := s.orchestrator.Damage(s.ctx, &encounter.DamageInput{EncounterID: s.id, Index: 1, Damage: 30})
	s.Require().NoError(err)

	out, err := s.orchestrator.AdvanceRound(s.ctx, &encounter.AdvanceRoundInput{EncounterID: s.id})
	s.Require().NoError(err)

	s.Equal([]string{"orc"}, out.Removed)
	s.Equal(uint(2), out.Encounter.View.Round)
	s.Equal([]string{"hero"}, s.view())
	s.Contains(s.bus.types(), encounter.EventCombatRemoved)
}

func (s *FlowTestSuite) TestComputeXP_TeamBonus() {
	s.add("hero", s.fullFields("1", "9"))
	s.add("squire", s.fullFields("1", "5"))
	s.add("orc", s.fullFields("2", "3"))

	_, err := s.orchestrator.Attack(s.ctx, &encounter.AttackInput{
		EncounterID: s.id, Attacker: 0, Target: 2, Damage: 3,
	})
	s.Require().NoError(err)

	hero, err := s.orchestrator.ComputeXP(s.ctx, &encounter.ComputeXPInput{EncounterID: s.id, Index: 0})
	s.Require().NoError(err)
	squire, err := s.orchestrator.ComputeXP(s.ctx, &encounter.ComputeXPInput{EncounterID: s.id, Index: 1})
	s.Require().NoError(err)

	s.Greater(hero.XP, squire.XP)
	s.Positive(squire.XP)
}

func (s *FlowTestSuite) TestDuplicateAndReset() {
	s.add("orc", s.fullFields("2", "3"))

	out, err := s.orchestrator.Duplicate(s.ctx, &encounter.DuplicateInput{EncounterID: s.id, Index: 0, Name: "orc2"})
	s.Require().NoError(err)
	s.Len(out.Encounter.View.Rows, 2)

	_, err = s.orchestrator.Damage(s.ctx, &encounter.DamageInput{EncounterID: s.id, Index: 0, Damage: 1})
	s.Require().NoError(err)
	reset, err := s.orchestrator.ResetStats(s.ctx, &encounter.ResetStatsInput{EncounterID: s.id})
	s.Require().NoError(err)
	for _, row := range reset.Encounter.View.Rows {
		s.Zero(row.Received)
	}
}

func (s *FlowTestSuite) TestImportTemplates() {
	data := []byte(`[
		{"name": "skeleton", "class": "!1", "hp": "7"},
		{"name": "priest", "class": "c", "level/hd": 4, "hp": "18", "ac": 4}
	]`)

	out, err := s.orchestrator.ImportTemplates(s.ctx, &encounter.ImportTemplatesInput{EncounterID: s.id, Data: data})
	s.Require().NoError(err)
	s.Equal(2, out.Added)
	for _, row := range out.Encounter.View.Rows {
		s.True(row.Building)
	}

	_, err = s.orchestrator.ImportTemplates(s.ctx, &encounter.ImportTemplatesInput{EncounterID: s.id, Data: []byte("{")})
	s.True(errors.IsInvalidArgument(err))
}

func (s *FlowTestSuite) TestLevelAndRecalculate() {
	s.add("hero", s.fullFields("1", "9"))

	out, err := s.orchestrator.SetLevel(s.ctx, &encounter.SetLevelInput{EncounterID: s.id, Index: 0, Level: 9})
	s.Require().NoError(err)
	s.Equal(18, out.Encounter.View.Rows[0].THAC0)

	recalc, err := s.orchestrator.Recalculate(s.ctx, &encounter.RecalculateInput{EncounterID: s.id, Index: 0})
	s.Require().NoError(err)
	s.Equal(12, recalc.Encounter.View.Rows[0].THAC0)
}

func (s *FlowTestSuite) TestSetAbilitiesAndBonus() {
	s.add("hero", s.fullFields("1", "9"))

	_, err := s.orchestrator.SetAbilities(s.ctx, &encounter.SetAbilitiesInput{
		EncounterID: s.id, Index: 0, Abilities: "nonsense",
	})
	s.True(errors.IsInvalidArgument(err))

	out, err := s.orchestrator.SetXPBonus(s.ctx, &encounter.SetXPBonusInput{EncounterID: s.id, Index: 0, Bonus: true})
	s.Require().NoError(err)
	s.True(out.Encounter.View.Rows[0].XPBonus)
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowTestSuite))
}
