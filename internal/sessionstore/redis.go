// Package sessionstore реализует хранилище незавершённых регистраций,
// привязанных к серверной сессии. Записи сериализуются в JSON и живут в Redis
// не дольше срока жизни самой сессии; бизнес-окно в 30 минут проверяется
// отдельно на уровне workflow по метке времени записи.
package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/juntimo/juntimo-backend/internal/config"
	"github.com/juntimo/juntimo-backend/internal/models"
)

// Store инкапсулирует подключение к Redis и срок хранения записей.
type Store struct {
	Db  *redis.Client
	ttl time.Duration
}

// InitServer подключается к Redis и возвращает готовое хранилище.
// ttl ограничивает время жизни записи в хранилище (срок жизни сессии).
func InitServer(ctx context.Context, cfg config.RedisConnection, ttl time.Duration) (*Store, error) {
	const op = "sessionstore.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db, ttl: ttl}, nil
}

func key(sessionID string) string {
	return "pending:" + sessionID
}

// Put сохраняет запись для сессии, затирая предыдущую, если она была.
func (s *Store) Put(ctx context.Context, sessionID string, rec models.PendingEnrollment) error {
	const op = "sessionstore.Put"
	jsonData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Db.Set(ctx, key(sessionID), jsonData, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get возвращает запись сессии. Второй результат false, если записи нет.
func (s *Store) Get(ctx context.Context, sessionID string) (*models.PendingEnrollment, bool, error) {
	const op = "sessionstore.Get"
	val, err := s.Db.Get(ctx, key(sessionID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	var rec models.PendingEnrollment
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &rec, true, nil
}

// Clear удаляет запись сессии. Отсутствие записи ошибкой не считается.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	const op = "sessionstore.Clear"
	if err := s.Db.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
