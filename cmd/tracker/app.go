package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/combat-tracker/internal/config"
	"github.com/KirkDiggler/combat-tracker/internal/errors"
	"github.com/KirkDiggler/combat-tracker/internal/orchestrators/encounter"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/combat-tracker/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/combat-tracker/internal/redis"
	"github.com/KirkDiggler/combat-tracker/internal/repositories/encounters"
	"github.com/KirkDiggler/combat-tracker/internal/telemetry"
)

// app is everything one command needs, opened from config
type app struct {
	cfg     *config.Config
	svc     encounter.Service
	out     io.Writer
	closers []func(context.Context) error
}

func (a *app) open(ctx context.Context, cfg *config.Config, out io.Writer) error {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	a.cfg = cfg
	a.out = out

	repo, err := a.openStore(ctx, cfg)
	if err != nil {
		return err
	}

	tracer := telemetry.NoopTracer()
	if cfg.Tracing {
		tracer, err = a.openTracing(ctx)
		if err != nil {
			return err
		}
	}

	var gen idgen.Generator = idgen.NewShort("enc")
	if cfg.IDStyle == config.IDStyleUUID {
		gen = idgen.NewUUID("")
	}

	bus := events.NewBus()
	subscribeNarration(bus, out)

	a.svc, err = encounter.NewOrchestrator(&encounter.Config{
		Repository:  repo,
		IDGenerator: gen,
		Clock:       clock.New(),
		DiceRoller:  dice.DefaultRoller,
		EventBus:    bus,
		Tracer:      tracer,
	})
	if err != nil {
		return err
	}

	slog.Debug("Tracker ready",
		"store", cfg.Store,
		"encounter_id", cfg.Encounter,
		"tracing", cfg.Tracing,
	)
	return nil
}

func (a *app) openStore(ctx context.Context, cfg *config.Config) (encounters.Repository, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return encounters.NewInMemory(), nil
	case config.StoreSQLite:
		repo, err := encounters.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return repo.Close() })
		return repo, nil
	case config.StoreRedis:
		client, err := redisclient.Open(ctx, redisclient.Config{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		return encounters.NewRedis(&encounters.RedisConfig{Client: client, TTL: cfg.RedisTTL})
	default:
		return nil, errors.InvalidArgumentf("unknown store %q", cfg.Store)
	}
}

func (a *app) openTracing(ctx context.Context) (trace.Tracer, error) {
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, shutdown)
	return telemetry.Tracer("encounter"), nil
}

// close releases everything open opened, newest first
func (a *app) close(ctx context.Context) error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			slog.Warn("Failed to close resource", "error", err)
			if first == nil {
				first = err
			}
		}
	}
	a.closers = nil
	return first
}

// encounterID returns the encounter the operator is working on
func (a *app) encounterID() (string, error) {
	if a.cfg.Encounter == "" {
		return "", errors.InvalidArgument("no encounter chosen: pass --encounter or set TRACKER_ENCOUNTER")
	}
	return a.cfg.Encounter, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
