package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/arena-backend/internal/entity"
)

var ErrStatsNotFound = errors.New("stats not found")

const (
	statsKeyPrefix = "stats:"

	killsField  = "kills"
	deathsField = "deaths"
)

// StatsRepository keeps lifetime kill/death tallies per display name.
type StatsRepository interface {
	RecordKill(ctx context.Context, killerName, victimName string) error
	GetByName(ctx context.Context, name string) (*entity.PlayerStats, error)
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

func (that *dbStats) RecordKill(ctx context.Context, killerName, victimName string) error {
	if err := that.client.HIncrBy(ctx, statsKeyPrefix+killerName, killsField, 1).Err(); err != nil {
		return fmt.Errorf("failed to record kill: %w", err)
	}

	if err := that.client.HIncrBy(ctx, statsKeyPrefix+victimName, deathsField, 1).Err(); err != nil {
		return fmt.Errorf("failed to record death: %w", err)
	}

	return nil
}

func (that *dbStats) GetByName(ctx context.Context, name string) (*entity.PlayerStats, error) {
	values, err := that.client.HGetAll(ctx, statsKeyPrefix+name).Result()
	if err != nil {
		return &entity.PlayerStats{}, fmt.Errorf("failed to get stats by name: %w", err)
	}

	if len(values) == 0 {
		return &entity.PlayerStats{}, ErrStatsNotFound
	}

	stats := &entity.PlayerStats{Name: name}
	stats.Kills, _ = strconv.Atoi(values[killsField])
	stats.Deaths, _ = strconv.Atoi(values[deathsField])

	return stats, nil
}
