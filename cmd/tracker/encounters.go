package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/encounter"
)

func addEncounterCommands(root *cobra.Command, a *app) {
	newCmd := &cobra.Command{
		Use:     "new NAME",
		Short:   "Start a new encounter",
		GroupID: "encounters",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.svc.CreateEncounter(cmd.Context(), &encounter.CreateEncounterInput{Name: args[0]})
			if err != nil {
				return err
			}
			a.printf("Created encounter %s (%s)\n", out.Encounter.Name, out.Encounter.ID)
			a.printf("\n# To work on it, run:\nexport TRACKER_ENCOUNTER=%s\n", out.Encounter.ID)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List stored encounters",
		GroupID: "encounters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.svc.ListEncounters(cmd.Context(), &encounter.ListEncountersInput{})
			if err != nil {
				return err
			}
			return renderList(a.out, out.Encounters, a.cfg.Encounter)
		},
	}

	showCmd := &cobra.Command{
		Use:     "show",
		Short:   "Show the current encounter",
		GroupID: "encounters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.encounterID()
			if err != nil {
				return err
			}
			out, err := a.svc.GetEncounter(cmd.Context(), &encounter.GetEncounterInput{EncounterID: id})
			if err != nil {
				return err
			}
			return renderEncounter(a.out, out.Encounter)
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm [ENCOUNTER]",
		Short:   "Delete an encounter, the current one by default",
		GroupID: "encounters",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			} else {
				var err error
				if id, err = a.encounterID(); err != nil {
					return err
				}
			}
			if _, err := a.svc.DeleteEncounter(cmd.Context(), &encounter.DeleteEncounterInput{EncounterID: id}); err != nil {
				return err
			}
			a.printf("Deleted encounter %s\n", id)
			return nil
		},
	}

	root.AddCommand(newCmd, listCmd, showCmd, rmCmd)
}
