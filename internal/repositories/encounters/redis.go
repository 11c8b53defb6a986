package encounters

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/combat-tracker/internal/errors"
	redisclient "github.com/KirkDiggler/combat-tracker/internal/redis"
)

const (
	// Key pattern: encounter:{id}
	encounterKeyPrefix = "encounter:"
	encounterIndexKey  = "encounter:index"

	// DefaultRedisTTL is how long an untouched encounter is kept
	DefaultRedisTTL = 7 * 24 * time.Hour
)

// RedisConfig contains configuration for the Redis encounter repository
type RedisConfig struct {
	Client redisclient.Client
	// TTL is refreshed on every save; zero means DefaultRedisTTL
	TTL time.Duration
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.TTL < 0 {
		return errors.InvalidArgumentf("ttl must not be negative, got %s", cfg.TTL)
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed encounter repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultRedisTTL
	}

	return &redisRepository{
		client: cfg.Client,
		ttl:    ttl,
	}, nil
}

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Encounter)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal encounter")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, encounterKeyPrefix+input.Encounter.ID, data, r.ttl)
	pipe.SAdd(ctx, encounterIndexKey, input.Encounter.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to save encounter %s", input.Encounter.ID)
	}

	return &SaveOutput{}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	result, err := r.client.Get(ctx, encounterKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, notFound(input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get encounter")
	}

	encounter, err := decode([]byte(result))
	if err != nil {
		return nil, err
	}
	return &GetOutput{Encounter: encounter}, nil
}

func (r *redisRepository) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, encounterIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list encounter ids")
	}
	if len(ids) == 0 {
		return &ListOutput{Encounters: []*EncounterData{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = encounterKeyPrefix + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load encounters")
	}

	encounters := make([]*EncounterData, 0, len(values))
	var expired []any
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		encounter, err := decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		encounters = append(encounters, encounter)
	}

	if len(expired) > 0 {
		if err := r.client.SRem(ctx, encounterIndexKey, expired...).Err(); err != nil {
			slog.Warn("failed to prune expired encounters from index",
				"count", len(expired),
				"error", err)
		}
	}

	sortEncounters(encounters)
	return &ListOutput{Encounters: encounters}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateID(input.ID); err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, encounterKeyPrefix+input.ID)
	pipe.SRem(ctx, encounterIndexKey, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete encounter %s", input.ID)
	}
	if del.Val() == 0 {
		return nil, notFound(input.ID)
	}

	return &DeleteOutput{}, nil
}
