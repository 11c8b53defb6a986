package main

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/encounter"
)

func addCombatantCommands(root *cobra.Command, a *app) {
	addCmd := &cobra.Command{
		Use:   "add NAME [FIELD=VALUE...]",
		Short: "Add a combatant, filling whatever fields are given",
		Long: `Add a combatant. Fields not given now can be filled later with "fill".
Fields are class, hd (or level), hp, attacks, ac, team and init, for example:

  tracker add Brunhild class=f5 hd=5 hp=38 attacks=2 ac=3 team=1 init=7
  tracker add "Goblin 1" class=.1 hd=1 hp=5`,
		GroupID: "combatants",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.encounterID()
			if err != nil {
				return err
			}
			fields, err := parseFields(args[1:])
			if err != nil {
				return err
			}
			out, err := a.svc.AddCombatant(cmd.Context(), &encounter.AddCombatantInput{
				EncounterID: id,
				Name:        args[0],
				Fields:      fields,
			})
			if err != nil {
				return err
			}
			if !out.Built {
				row := out.Encounter.View.Rows[out.Index]
				a.printf("Row %d still needs %s\n", out.Index+1, row.NextField)
			}
			return renderEncounter(a.out, out.Encounter)
		},
	}

	fillCmd := &cobra.Command{
		Use:     "fill ROW FIELD VALUE",
		Short:   "Fill one missing field of a combatant being built",
		GroupID: "combatants",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.encounterID()
			if err != nil {
				return err
			}
			row, err := parseRow(args[0])
			if err != nil {
				return err
			}
			field, err := combat.ParseField(args[1])
			if err != nil {
				return err
			}
			out, err := a.svc.FillField(cmd.Context(), &encounter.FillFieldInput{
				EncounterID: id,
				Index:       row,
				Field:       field,
				Value:       args[2],
			})
			if err != nil {
				return err
			}
			if out.Built {
				a.printf("Row %d is ready to fight\n", row+1)
			}
			return renderEncounter(a.out, out.Encounter)
		},
	}

	teamCmd := &cobra.Command{
		Use:     "team ROW TEAM",
		Short:   "Assign a combatant to a team",
		GroupID: "combatants",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rowCommand(cmd, args[0], func(id string, row int) (*encounter.Encounter, error) {
				team, err := parseUint("team", args[1])
				if err != nil {
					return nil, err
				}
				out, err := a.svc.AssignTeam(cmd.Context(), &encounter.AssignTeamInput{
					EncounterID: id, Index: row, Team: team,
				})
				if err != nil {
					return nil, err
				}
				return out.Encounter, nil
			})
		},
	}

	initCmd := &cobra.Command{
		Use:     "init ROW VALUE",
		Short:   "Set a combatant's base initiative",
		GroupID: "combatants",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rowCommand(cmd, args[0], func(id string, row int) (*encounter.Encounter, error) {
				value, err := parseUint("initiative", args[1])
				if err != nil {
					return nil, err
				}
				out, err := a.svc.AssignInitiative(cmd.Context(), &encounter.AssignInitiativeInput{
					EncounterID: id, Index: row, Initiative: value,
				})
				if err != nil {
					return nil, err
				}
				return out.Encounter, nil
			})
		},
	}

	rollCmd := &cobra.Command{
		Use:     "roll-init [ROW]",
		Short:   "Roll base initiative for one row, or every row without one",
		GroupID: "combatants",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.encounterID()
			if err != nil {
				return err
			}
			input := &encounter.RollInitiativeInput{EncounterID: id}
			if len(args) == 1 {
				row, err := parseRow(args[0])
				if err != nil {
					return err
				}
				input.Index = &row
			}
			out, err := a.svc.RollInitiative(cmd.Context(), input)
			if err != nil {
				return err
			}
			for _, roll := range out.Rolls {
				a.printf("%s rolls %d\n", roll.Name, roll.Value)
			}
			return renderEncounter(a.out, out.Encounter)
		},
	}

	abilitiesCmd := &cobra.Command{
		Use:     "abilities ROW STR/INT/WIS/DEX/CON/CHA",
		Short:   "Record ability scores",
		GroupID: "combatants",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rowCommand(cmd, args[0], func(id string, row int) (*encounter.Encounter, error) {
				out, err := a.svc.SetAbilities(cmd.Context(), &encounter.SetAbilitiesInput{
					EncounterID: id, Index: row, Abilities: args[1],
				})
				if err != nil {
					return nil, err
				}
				return out.Encounter, nil
			})
		},
	}

	bonusCmd := &cobra.Command{
		Use:     "bonus ROW on|off",
		Short:   "Turn the experience bonus on or off",
		GroupID: "combatants",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rowCommand(cmd, args[0], func(id string, row int) (*encounter.Encounter, error) {
				bonus, err := parseSwitch(args[1])
				if err != nil {
					return nil, err
				}
				out, err := a.svc.SetXPBonus(cmd.Context(), &encounter.SetXPBonusInput{
					EncounterID: id, Index: row, Bonus: bonus,
				})
				if err != nil {
					return nil, err
				}
				return out.Encounter, nil
			})
		},
	}

	levelCmd := &cobra.Command{
		Use:     "level ROW LEVEL",
		Short:   "Change level or hit dice; use recalc to update THAC0",
		GroupID: "combatants",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rowCommand(cmd, args[0], func(id string, row int) (*encounter.Encounter, error) {
				level, err := parseInt("level", args[1])
				if err != nil {
					return nil, err
				}
				out, err := a.svc.SetLevel(cmd.Context(), &encounter.SetLevelInput{
					EncounterID: id, Index: row, Level: level,
				})
				if err != nil {
					return nil, err
				}
				return out.Encounter, nil
			})
		},
	}

	recalcCmd := &cobra.Command{
		Use:     "recalc ROW",
		Short:   "Recompute THAC0 from class and level",
		GroupID: "combatants",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rowCommand(cmd, args[0], func(id string, row int) (*encounter.Encounter, error) {
				out, err := a.svc.Recalculate(cmd.Context(), &encounter.RecalculateInput{
					EncounterID: id, Index: row,
				})
				if err != nil {
					return nil, err
				}
				return out.Encounter, nil
			})
		},
	}

	dupCmd := &cobra.Command{
		Use:     "dup ROW [NAME]",
		Short:   "Copy a combatant, optionally renaming the copy",
		GroupID: "combatants",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rowCommand(cmd, args[0], func(id string, row int) (*encounter.Encounter, error) {
				input := &encounter.DuplicateInput{EncounterID: id, Index: row}
				if len(args) == 2 {
					input.Name = args[1]
				}
				out, err := a.svc.Duplicate(cmd.Context(), input)
				if err != nil {
					return nil, err
				}
				return out.Encounter, nil
			})
		},
	}

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add combatants from a JSON template list (- reads stdin)",
		Long: `Add combatants from a JSON list of templates, for example:

  [{"name": "Hobgoblin", "level/hd": 1, "class": ".1", "hp": "7", "ac": 5}]

Team, initiative and attacks are asked for afterwards with "fill".`,
		GroupID: "combatants",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.encounterID()
			if err != nil {
				return err
			}
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			out, err := a.svc.ImportTemplates(cmd.Context(), &encounter.ImportTemplatesInput{
				EncounterID: id,
				Data:        data,
			})
			if err != nil {
				return err
			}
			a.printf("Imported %d combatants\n", out.Added)
			return renderEncounter(a.out, out.Encounter)
		},
	}

	root.AddCommand(addCmd, fillCmd, teamCmd, initCmd, rollCmd, abilitiesCmd,
		bonusCmd, levelCmd, recalcCmd, dupCmd, importCmd)
}

// rowCommand runs fn against the current encounter and one parsed row, then
// shows the result
func (a *app) rowCommand(cmd *cobra.Command, rowArg string, fn func(id string, row int) (*encounter.Encounter, error)) error {
	id, err := a.encounterID()
	if err != nil {
		return err
	}
	row, err := parseRow(rowArg)
	if err != nil {
		return err
	}
	enc, err := fn(id, row)
	if err != nil {
		return err
	}
	return renderEncounter(a.out, enc)
}

func parseSwitch(arg string) (bool, error) {
	switch arg {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(arg)
	if err != nil {
		return false, errors.InvalidArgumentf("expected on or off, got %q", arg)
	}
	return b, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "failed to read %s", path)
	}
	return data, nil
}
