package combat

import (
	"github.com/KirkDiggler/combat-tracker/internal/entities/meter"
)

const (
	// LeveledDeathFloor is the hit point total at or below which a character dies
	LeveledDeathFloor = -10

	// MonsterDeathFloor is the hit point total at or below which a monster dies
	MonsterDeathFloor = -4

	// InitiativeModifier is the spread of possible base initiative rolls
	InitiativeModifier = 12

	// DefaultAC is the armor rating of an unarmored combatant
	DefaultAC = 10

	// XPBonusMultiplier scales the experience of combatants with the bonus flag
	XPBonusMultiplier = 1.1

	dealtXPFactor    = 10
	receivedXPFactor = 20
	teamXPFactor     = 20
)

// Combatant is a fully described participant in an encounter
type Combatant struct {
	Name       string            `json:"name"`
	Class      ClassDescriptor   `json:"class"`
	Abilities  *Abilities        `json:"abilities,omitempty"`
	HP         meter.Meter[int]  `json:"hp"`
	Attacks    meter.Meter[uint] `json:"attacks"`
	AC         int               `json:"ac"`
	THAC0      int               `json:"thac0"`
	Status     Status            `json:"status"`
	Team       *uint             `json:"team,omitempty"`
	Initiative *uint             `json:"init,omitempty"`
	Dealt      int               `json:"dealt"`
	Received   int               `json:"received"`
	Round      uint              `json:"round"`
	XPBonus    bool              `json:"xp_bonus,omitempty"`
}

// NewCombatant creates a healthy combatant in its first round. The attack
// rating is resolved from the class descriptor once, here.
func NewCombatant(name string, class ClassDescriptor, hp meter.Meter[int], attacks meter.Meter[uint], ac int) *Combatant {
	return &Combatant{
		Name:    name,
		Class:   class,
		HP:      hp,
		Attacks: attacks,
		AC:      ac,
		THAC0:   class.Rating(),
		Status:  Healthy(),
		Round:   1,
	}
}

// Clone returns a deep copy
func (c *Combatant) Clone() *Combatant {
	out := *c
	out.Class = c.Class.WithLevel(c.Class.LevelOrHitDice())
	if c.Abilities != nil {
		abilities := *c.Abilities
		out.Abilities = &abilities
	}
	if c.Team != nil {
		out.Team = uintPtr(*c.Team)
	}
	if c.Initiative != nil {
		out.Initiative = uintPtr(*c.Initiative)
	}
	return &out
}

// DeathFloor is the hit point total at or below which the combatant dies
func (c *Combatant) DeathFloor() int {
	if c.Class.IsMonster() {
		return MonsterDeathFloor
	}
	return LeveledDeathFloor
}

// InCombat returns an error unless both team and base initiative are set
func (c *Combatant) InCombat() error {
	if c.Team == nil || c.Initiative == nil {
		return ErrNotInCombat(c.Name)
	}
	return nil
}

// CanAttack reports whether an attack remains this round
func (c *Combatant) CanAttack() bool {
	return c.Attacks.Current() >= 1
}

// DealHit records damage this combatant inflicted and spends one attack
func (c *Combatant) DealHit(damage int) error {
	if !c.CanAttack() {
		return ErrNotEnoughAttacks(c.Name)
	}
	if err := c.Attacks.Decrease(1); err != nil {
		return err
	}
	c.Dealt += damage
	return nil
}

// ReceiveDamage applies a hit. A hit that takes hit points to the death
// floor kills. Otherwise a stun worse than the current status replaces it and
// immediately costs up to its severity in attacks; a lesser stun never
// downgrades the current one. Nothing changes if an error is returned.
func (c *Combatant) ReceiveDamage(damage int) error {
	hp := c.HP
	if err := hp.Decrease(damage); err != nil {
		return err
	}

	status, attacks := c.Status, c.Attacks
	switch {
	case status.IsDead():
	case c.HP.Current()-damage <= c.DeathFloor():
		status = Dead()
	default:
		candidate := StunLock(damage, c.HP.Current())
		if candidate.Worse(status) {
			status = candidate
			if err := attacks.Decrease(min(candidate.Severity(), attacks.Current())); err != nil {
				return err
			}
		}
	}

	c.Received += damage
	c.Status, c.Attacks, c.HP = status, attacks, hp
	return nil
}

// Heal restores hit points up to the maximum
func (c *Combatant) Heal(amount int) {
	c.HP.Increase(amount)
}

// AdvanceRound moves the combatant into the next round: any stun wears off
// and attacks refill.
func (c *Combatant) AdvanceRound() {
	c.Round++
	if c.Status.IsStunned() {
		c.Status = Healthy()
	}
	c.Attacks.Refill()
}

// EffectiveInitiative is the ordering key for the round. The second result
// is false when no base initiative has been assigned.
func (c *Combatant) EffectiveInitiative() (uint, bool) {
	if c.Initiative == nil {
		return 0, false
	}
	base := *c.Initiative
	switch c.Status.Kind() {
	case StatusHealthy:
		return base + 2*InitiativeModifier, true
	case StatusStunned:
		return base + InitiativeModifier - c.Status.Severity(), true
	default:
		return 0, true
	}
}

// XP is the experience earned so far, including a share of the team pool
func (c *Combatant) XP(teamBonus int) int {
	total := float64(c.Dealt*dealtXPFactor + c.Received*receivedXPFactor + teamBonus)
	if c.XPBonus {
		total *= XPBonusMultiplier
	}
	return int(total)
}

// TeamXPContribution is what this combatant adds to its team's bonus pool
func (c *Combatant) TeamXPContribution() int {
	return c.Dealt * teamXPFactor
}

// ResetStats clears accumulated damage statistics
func (c *Combatant) ResetStats() {
	c.Dealt = 0
	c.Received = 0
}

// SetLevel changes level (or hit dice) without touching the attack rating
func (c *Combatant) SetLevel(level int) {
	c.Class = c.Class.WithLevel(level)
}

// RecalculateTHAC0 re-derives the attack rating from the class descriptor
func (c *Combatant) RecalculateTHAC0() {
	c.THAC0 = c.Class.Rating()
}

func uintPtr(v uint) *uint {
	return &v
}
