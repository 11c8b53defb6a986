package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/encounter"
)

func addCombatCommands(root *cobra.Command, a *app) {
	attackCmd := &cobra.Command{
		Use:     "attack ATTACKER TARGET DAMAGE",
		Short:   "One combatant hits another for some damage",
		GroupID: "combat",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.encounterID()
			if err != nil {
				return err
			}
			attacker, err := parseRow(args[0])
			if err != nil {
				return err
			}
			target, err := parseRow(args[1])
			if err != nil {
				return err
			}
			damage, err := parseInt("damage", args[2])
			if err != nil {
				return err
			}
			out, err := a.svc.Attack(cmd.Context(), &encounter.AttackInput{
				EncounterID: id,
				Attacker:    attacker,
				Target:      target,
				Damage:      damage,
			})
			if err != nil {
				return err
			}
			return renderEncounter(a.out, out.Encounter)
		},
	}

	damageCmd := &cobra.Command{
		Use:     "damage ROW AMOUNT",
		Short:   "Damage a combatant with no attacker (traps, falls, spells)",
		GroupID: "combat",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rowCommand(cmd, args[0], func(id string, row int) (*encounter.Encounter, error) {
				damage, err := parseInt("damage", args[1])
				if err != nil {
					return nil, err
				}
				out, err := a.svc.Damage(cmd.Context(), &encounter.DamageInput{
					EncounterID: id, Index: row, Damage: damage,
				})
				if err != nil {
					return nil, err
				}
				return out.Encounter, nil
			})
		},
	}

	healCmd := &cobra.Command{
		Use:     "heal ROW AMOUNT",
		Short:   "Restore hit points, up to the maximum",
		GroupID: "combat",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rowCommand(cmd, args[0], func(id string, row int) (*encounter.Encounter, error) {
				amount, err := parseInt("amount", args[1])
				if err != nil {
					return nil, err
				}
				out, err := a.svc.Heal(cmd.Context(), &encounter.HealInput{
					EncounterID: id, Index: row, Amount: amount,
				})
				if err != nil {
					return nil, err
				}
				return out.Encounter, nil
			})
		},
	}

	nextCmd := &cobra.Command{
		Use:     "next",
		Short:   "Advance to the next round",
		GroupID: "combat",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.encounterID()
			if err != nil {
				return err
			}
			out, err := a.svc.AdvanceRound(cmd.Context(), &encounter.AdvanceRoundInput{EncounterID: id})
			if err != nil {
				return err
			}
			return renderEncounter(a.out, out.Encounter)
		},
	}

	xpCmd := &cobra.Command{
		Use:     "xp ROW",
		Short:   "Show the experience a combatant has earned",
		GroupID: "combat",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.encounterID()
			if err != nil {
				return err
			}
			row, err := parseRow(args[0])
			if err != nil {
				return err
			}
			out, err := a.svc.ComputeXP(cmd.Context(), &encounter.ComputeXPInput{EncounterID: id, Index: row})
			if err != nil {
				return err
			}
			a.printf("%s: %d xp\n", out.Name, out.XP)
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:     "reset",
		Short:   "Clear damage dealt and received for everyone",
		GroupID: "combat",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.encounterID()
			if err != nil {
				return err
			}
			out, err := a.svc.ResetStats(cmd.Context(), &encounter.ResetStatsInput{EncounterID: id})
			if err != nil {
				return err
			}
			return renderEncounter(a.out, out.Encounter)
		},
	}

	root.AddCommand(attackCmd, damageCmd, healCmd, nextCmd, xpCmd, resetCmd)
}
