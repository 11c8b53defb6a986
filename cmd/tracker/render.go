package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/KirkDiggler/combat-tracker/internal/entities/combat"
	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/encounter"
	"github.com/KirkDiggler/combat-tracker/internal/roster"
)

func renderEncounter(out io.Writer, enc *encounter.Encounter) error {
	fmt.Fprintf(out, "%s (%s), round %d\n\n", enc.Name, enc.ID, enc.View.Round)
	if len(enc.View.Rows) == 0 {
		fmt.Fprintln(out, "No combatants yet. Add one with \"tracker add NAME\".")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\t\tNAME\tCLASS\tTEAM\tINIT\tHP\tATT\tAC\tTHAC0\tSTATUS\tDEALT\tRECV")
	for _, row := range enc.View.Rows {
		if row.Building {
			fmt.Fprintf(w, "%d\t?\t%s\t%s\t\t\t\t\t\t\tneeds %s (%d/%d)\t\t\n",
				row.Index+1, row.Name, row.Class, row.NextField, row.FilledFields, len(combat.BuildOrder))
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\t%d\t%d\n",
			row.Index+1,
			row.Glyph,
			row.Name,
			row.Class,
			optional(row.Team),
			initiative(row),
			row.HP,
			row.Attacks,
			row.AC,
			row.THAC0,
			status(row),
			row.Dealt,
			row.Received,
		)
	}
	return w.Flush()
}

func renderList(out io.Writer, list []*encounter.EncounterSummary, current string) error {
	if len(list) == 0 {
		fmt.Fprintln(out, "No encounters. Start one with \"tracker new NAME\".")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tROUND\tROWS\tUPDATED")
	for _, s := range list {
		marker := ""
		if s.ID == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			marker, s.ID, s.Name, s.Round, s.Rows, s.UpdatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func optional(v *uint) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func initiative(row roster.RowView) string {
	if row.Initiative == nil {
		return "-"
	}
	return fmt.Sprintf("%d (%d)", row.EffectiveInitiative, *row.Initiative)
}

func status(row roster.RowView) string {
	if row.Status == combat.StatusStunned {
		return fmt.Sprintf("%s(%d)", row.Status, row.StunSeverity)
	}
	return row.Status.String()
}
