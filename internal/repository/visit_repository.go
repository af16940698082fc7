package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	visitRetention  = 90 * 24 * time.Hour
	sessionDedupTTL = 24 * time.Hour
	maxVisitsPerDay = 1000
)

// VisitRepository is the time-bucketed key-value visit log. One key per
// recorded visit, expiring after the retention window.
type VisitRepository struct {
	Log     *zap.Logger
	DBCache *redis.Client
}

func NewVisitRepository(zap *zap.Logger, dbCache *redis.Client) *VisitRepository {
	return &VisitRepository{
		Log:     zap,
		DBCache: dbCache,
	}
}

// Bound reports whether a log store is attached at all.
func (repository *VisitRepository) Bound() bool {
	return repository != nil && repository.DBCache != nil
}

func (repository *VisitRepository) SaveVisit(ctx context.Context, date string, visit model.Visit) error {
	raw, err := sonic.Marshal(visit)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("v:%s:%s", date, uuid.New())

	err = repository.DBCache.Set(ctx, key, raw, visitRetention).Err()
	if err != nil {
		return err
	}

	return nil
}

// MarkSession records the (day, session, page) idempotency key. It returns
// true when this is the first beacon for that key.
func (repository *VisitRepository) MarkSession(ctx context.Context, date string, session string, page string) (bool, error) {
	key := fmt.Sprintf("s:%s:%s:%s", date, session, page)

	first, err := repository.DBCache.SetNX(ctx, key, "1", sessionDedupTTL).Result()
	if err != nil {
		return false, err
	}

	return first, nil
}

func (repository *VisitRepository) ListByDate(ctx context.Context, date string) ([]model.Visit, error) {
	pattern := fmt.Sprintf("v:%s:*", date)

	keys := make([]string, 0)
	var cursor uint64
	for {
		batch, next, err := repository.DBCache.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 || len(keys) >= maxVisitsPerDay {
			break
		}
	}
	if len(keys) > maxVisitsPerDay {
		keys = keys[:maxVisitsPerDay]
	}

	visits := make([]model.Visit, 0, len(keys))
	if len(keys) == 0 {
		return visits, nil
	}

	values, err := repository.DBCache.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// key expired between SCAN and MGET
			continue
		}

		var visit model.Visit
		err = sonic.Unmarshal([]byte(raw), &visit)
		if err != nil {
			repository.Log.Warn("skipping malformed visit record", zap.Error(err))
			continue
		}
		visits = append(visits, visit)
	}

	return visits, nil
}
