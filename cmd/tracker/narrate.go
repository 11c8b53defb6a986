package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/encounter"
)

// subscribeNarration prints one line per encounter event and logs it
func subscribeNarration(bus events.EventBus, out io.Writer) {
	lines := map[string]func(source, target string) string{
		encounter.EventCombatHit:      func(s, t string) string { return s + " hits " + t },
		encounter.EventCombatDamaged:  func(_, t string) string { return t + " takes damage" },
		encounter.EventCombatHealed:   func(_, t string) string { return t + " is healed" },
		encounter.EventStatusChanged:  func(_, t string) string { return t + " changes condition" },
		encounter.EventCombatRemoved:  func(_, t string) string { return t + " is dead and leaves the fight" },
		encounter.EventCombatantAdded: func(_, t string) string { return t + " joins" },
		encounter.EventRoundAdvanced:  func(_, _ string) string { return "next round" },
	}

	for eventType, line := range lines {
		bus.SubscribeFunc(eventType, 0, func(_ context.Context, e events.Event) error {
			source, target := entityID(e.Source()), entityID(e.Target())
			slog.Info("Encounter event",
				"type", e.Type(),
				"source", source,
				"target", target,
			)
			fmt.Fprintf(out, "- %s\n", line(source, target))
			return nil
		})
	}
}

func entityID(e core.Entity) string {
	if e == nil {
		return ""
	}
	return e.GetID()
}
