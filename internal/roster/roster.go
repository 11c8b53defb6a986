package roster

import (
	"cmp"
	"slices"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
)

// MaxRows is the most rows a roster holds
const MaxRows = 32

// Reasons attached to roster errors
const (
	ReasonNoSelection  = "no_selection"
	ReasonAlreadyBuilt = "already_built"
	ReasonRosterFull   = "roster_full"
)

// Roster is the ordered set of rows in an encounter together with the round
// counter and the operator's cursor and selection. It is not safe for
// concurrent use.
type Roster struct {
	round    uint
	rows     []Row
	cursor   int
	selected int
}

// New returns an empty roster in round 1
func New() *Roster {
	return &Roster{round: 1, selected: -1}
}

// Round returns the current round
func (r *Roster) Round() uint {
	return r.round
}

// Len returns the number of rows
func (r *Roster) Len() int {
	return len(r.rows)
}

// Rows returns the rows in order. The slice is a copy; the rows are not.
func (r *Roster) Rows() []Row {
	return slices.Clone(r.rows)
}

// Row returns the row at position i
func (r *Roster) Row(i int) (Row, error) {
	return r.row(i)
}

// IndexOf returns the position of row, or -1
func (r *Roster) IndexOf(row Row) int {
	return slices.Index(r.rows, row)
}

// AddRow appends a row and resorts. Combatants removed by the sort are
// returned.
func (r *Roster) AddRow(row Row) ([]*combat.Combatant, error) {
	if row == nil {
		return nil, errors.InvalidArgument("row is required")
	}
	if len(r.rows) >= MaxRows {
		return nil, errors.ResourceExhaustedf("roster already holds %d rows", MaxRows).
			WithReason(ReasonRosterFull)
	}

	r.rows = append(r.rows, row)
	return r.Sort(), nil
}

type keyedRow struct {
	key uint
	row Row
}

// Sort orders rows by effective initiative, highest first, keeping the prior
// order among equal keys. Dead combatants are dropped and returned. Building
// rows and combatants without a base initiative sort with key 0. The cursor
// returns to the top and the selection is cleared.
func (r *Roster) Sort() []*combat.Combatant {
	kept := make([]keyedRow, 0, len(r.rows))
	var removed []*combat.Combatant
	for _, row := range r.rows {
		done, ok := row.(Done)
		if !ok {
			kept = append(kept, keyedRow{row: row})
			continue
		}
		if done.Combatant.Status.IsDead() {
			removed = append(removed, done.Combatant)
			continue
		}
		key, _ := done.Combatant.EffectiveInitiative()
		kept = append(kept, keyedRow{key: key, row: row})
	}

	slices.SortStableFunc(kept, func(a, b keyedRow) int {
		return cmp.Compare(b.key, a.key)
	})

	rows := make([]Row, len(kept))
	for i, k := range kept {
		rows[i] = k.row
	}
	r.rows = rows
	r.cursor = 0
	r.selected = -1
	return removed
}

// AdvanceRound starts the next round: the round counter increments, rows are
// resorted, then every combatant advances. Combatants removed by the sort are
// returned.
func (r *Roster) AdvanceRound() []*combat.Combatant {
	r.round++
	removed := r.Sort()
	for _, row := range r.rows {
		if done, ok := row.(Done); ok {
			done.Combatant.AdvanceRound()
		}
	}
	return removed
}

// Cursor returns the position of the cursor row
func (r *Roster) Cursor() int {
	return r.cursor
}

// Selected returns the selected position, if any
func (r *Roster) Selected() (int, bool) {
	return r.selected, r.selected >= 0
}

// MoveUp moves the cursor one row up, stopping at the top
func (r *Roster) MoveUp() {
	if r.cursor > 0 {
		r.cursor--
	}
}

// MoveDown moves the cursor one row down, stopping at the bottom
func (r *Roster) MoveDown() {
	if r.cursor+1 < len(r.rows) {
		r.cursor++
	}
}

// MoveTo puts the cursor on row i
func (r *Roster) MoveTo(i int) error {
	if _, err := r.row(i); err != nil {
		return err
	}
	r.cursor = i
	return nil
}

// Select marks the cursor row as the acting row
func (r *Roster) Select() error {
	if _, err := r.row(r.cursor); err != nil {
		return err
	}
	r.selected = r.cursor
	return nil
}

// Deselect clears the selection
func (r *Roster) Deselect() {
	r.selected = -1
}

// Attack has the selected row hit the cursor row for damage. The attacker
// spends one attack; the target takes the damage.
func (r *Roster) Attack(damage int) error {
	if damage < 0 {
		return errors.InvalidArgumentf("damage must not be negative, got %d", damage)
	}
	from, ok := r.Selected()
	if !ok {
		return errors.FailedPrecondition("no attacker selected").WithReason(ReasonNoSelection)
	}

	attacker, err := r.done(from)
	if err != nil {
		return err
	}
	target, err := r.done(r.cursor)
	if err != nil {
		return err
	}
	if err := attacker.InCombat(); err != nil {
		return err
	}
	if !attacker.CanAttack() {
		return combat.ErrNotEnoughAttacks(attacker.Name)
	}

	a := attacker.Clone()
	t := a
	if target != attacker {
		t = target.Clone()
	}
	if err := a.DealHit(damage); err != nil {
		return err
	}
	if err := t.ReceiveDamage(damage); err != nil {
		return err
	}

	*attacker = *a
	if target != attacker {
		*target = *t
	}
	return nil
}

// Damage applies damage to the cursor row with no attacker
func (r *Roster) Damage(damage int) error {
	if damage < 0 {
		return errors.InvalidArgumentf("damage must not be negative, got %d", damage)
	}
	target, err := r.done(r.cursor)
	if err != nil {
		return err
	}

	t := target.Clone()
	if err := t.ReceiveDamage(damage); err != nil {
		return err
	}
	*target = *t
	return nil
}

// Heal restores hit points to the cursor row
func (r *Roster) Heal(amount int) error {
	if amount < 0 {
		return errors.InvalidArgumentf("heal amount must not be negative, got %d", amount)
	}
	target, err := r.done(r.cursor)
	if err != nil {
		return err
	}
	target.Heal(amount)
	return nil
}

// FillField parses text into a field of the Building row at i. When that
// completes the builder the row becomes Done in place; the result reports
// whether it did.
func (r *Roster) FillField(i int, field combat.Field, text string) (bool, error) {
	return r.updateBuilder(i, func(b *combat.Builder) error {
		return b.Fill(field, text)
	})
}

// AssignTeam sets the team of row i
func (r *Roster) AssignTeam(i int, team uint) error {
	return r.assign(i,
		func(c *combat.Combatant) { c.Team = &team },
		func(b *combat.Builder) { b.Team = &team },
	)
}

// AssignInitiative sets the base initiative of row i
func (r *Roster) AssignInitiative(i int, initiative uint) error {
	return r.assign(i,
		func(c *combat.Combatant) { c.Initiative = &initiative },
		func(b *combat.Builder) { b.Initiative = &initiative },
	)
}

// SetAbilities records the ability scores of row i
func (r *Roster) SetAbilities(i int, abilities combat.Abilities) error {
	return r.assign(i,
		func(c *combat.Combatant) { c.Abilities = &abilities },
		func(b *combat.Builder) { b.Abilities = &abilities },
	)
}

// SetLevel changes the level or hit dice of row i. A combatant keeps its
// attack rating until Recalculate is called.
func (r *Roster) SetLevel(i int, level int) error {
	if level < 0 {
		return errors.InvalidArgumentf("level must not be negative, got %d", level)
	}
	return r.assign(i,
		func(c *combat.Combatant) { c.SetLevel(level) },
		func(b *combat.Builder) { b.Level = &level },
	)
}

// SetXPBonus sets the experience bonus flag of combatant i
func (r *Roster) SetXPBonus(i int, bonus bool) error {
	c, err := r.done(i)
	if err != nil {
		return err
	}
	c.XPBonus = bonus
	return nil
}

// Recalculate re-derives the attack rating of combatant i from its class
func (r *Roster) Recalculate(i int) error {
	c, err := r.done(i)
	if err != nil {
		return err
	}
	c.RecalculateTHAC0()
	return nil
}

// ComputeXP returns the experience of combatant i. Its team bonus sums, over
// every combatant on the same team including itself, that combatant's
// contribution divided by the number of rows in the roster.
func (r *Roster) ComputeXP(i int) (int, error) {
	c, err := r.done(i)
	if err != nil {
		return 0, err
	}
	if c.Team == nil {
		return 0, combat.ErrNotInCombat(c.Name)
	}

	n := len(r.rows)
	bonus := 0
	for _, row := range r.rows {
		mate, ok := row.(Done)
		if !ok || mate.Combatant.Team == nil || *mate.Combatant.Team != *c.Team {
			continue
		}
		bonus += mate.Combatant.TeamXPContribution() / n
	}
	return c.XP(bonus), nil
}

// SelectedXP returns the experience of the selected combatant
func (r *Roster) SelectedXP() (int, error) {
	i, ok := r.Selected()
	if !ok {
		return 0, errors.FailedPrecondition("no combatant selected").WithReason(ReasonNoSelection)
	}
	return r.ComputeXP(i)
}

// Duplicate appends a copy of row i, renamed when name is not empty
func (r *Roster) Duplicate(i int, name string) ([]*combat.Combatant, error) {
	row, err := r.row(i)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return r.AddRow(row.Clone())
	}
	return r.AddRow(rename(row, name))
}

// ResetStats clears damage statistics on every combatant
func (r *Roster) ResetStats() {
	for _, row := range r.rows {
		if done, ok := row.(Done); ok {
			done.Combatant.ResetStats()
		}
	}
}

func (r *Roster) row(i int) (Row, error) {
	if i < 0 || i >= len(r.rows) {
		return nil, errors.NotFoundf("no row at position %d", i).WithMeta("index", i)
	}
	return r.rows[i], nil
}

func (r *Roster) done(i int) (*combat.Combatant, error) {
	row, err := r.row(i)
	if err != nil {
		return nil, err
	}
	switch row := row.(type) {
	case Done:
		return row.Combatant, nil
	case Building:
		missing, _ := row.Builder.NextMissing()
		return nil, combat.ErrNotBuilt(row.Builder.Name, missing)
	default:
		return nil, errors.Internalf("unexpected row type %T", row)
	}
}

// updateBuilder applies fn to a copy of the builder at i and stores the
// result, promoting it to Done when complete.
func (r *Roster) updateBuilder(i int, fn func(*combat.Builder) error) (bool, error) {
	row, err := r.row(i)
	if err != nil {
		return false, err
	}
	building, ok := row.(Building)
	if !ok {
		return false, errors.FailedPreconditionf("%s is already built", row.Name()).
			WithReason(ReasonAlreadyBuilt)
	}

	next := building.Builder.Clone()
	if err := fn(next); err != nil {
		return false, err
	}
	if c, ok := next.Build(); ok {
		r.rows[i] = Done{Combatant: c}
		return true, nil
	}
	r.rows[i] = Building{Builder: next}
	return false, nil
}

func (r *Roster) assign(i int, onDone func(*combat.Combatant), onBuilding func(*combat.Builder)) error {
	row, err := r.row(i)
	if err != nil {
		return err
	}
	if done, ok := row.(Done); ok {
		onDone(done.Combatant)
		return nil
	}
	_, err = r.updateBuilder(i, func(b *combat.Builder) error {
		onBuilding(b)
		return nil
	})
	return err
}
