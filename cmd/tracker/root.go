package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/combat-tracker/internal/config"
)

// flags holds the persistent command-line overrides
type flags struct {
	store     string
	sqlite    string
	redis     string
	encounter string
	logLevel  string
	tracing   bool
}

// apply copies every flag the operator actually set onto cfg
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("store") {
		cfg.Store = f.store
	}
	if set("db") {
		cfg.SQLitePath = f.sqlite
	}
	if set("redis") {
		cfg.RedisAddr = f.redis
	}
	if set("encounter") {
		cfg.Encounter = f.encounter
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if set("tracing") {
		cfg.Tracing = f.tracing
	}
}

func newRootCmd(a *app) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "tracker",
		Short: "Combat encounter tracker",
		Long: `tracker keeps the state of a tabletop combat encounter: who is fighting,
in what order, how hurt and how stunned they are, and how much experience
they have earned.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.open(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.store, "store", config.StoreSQLite, "encounter store: memory, sqlite or redis")
	pf.StringVar(&f.sqlite, "db", "tracker.db", "SQLite database path")
	pf.StringVar(&f.redis, "redis", "localhost:6379", "Redis address")
	pf.StringVarP(&f.encounter, "encounter", "e", "", "encounter ID to act on (default $TRACKER_ENCOUNTER)")
	pf.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.BoolVar(&f.tracing, "tracing", false, "export traces over OTLP/HTTP")

	root.AddGroup(
		&cobra.Group{ID: "encounters", Title: "Encounters:"},
		&cobra.Group{ID: "combatants", Title: "Combatants:"},
		&cobra.Group{ID: "combat", Title: "Combat:"},
	)
	addEncounterCommands(root, a)
	addCombatantCommands(root, a)
	addCombatCommands(root, a)

	return root
}
