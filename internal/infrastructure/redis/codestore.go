package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/loanlead-api/internal/config"
	"github.com/loanlead-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// compareAndDelete removes KEYS[1] only while it still holds ARGV[1].
var compareAndDelete = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// consumeIssue removes KEYS[1] only while its issue_id is ARGV[1].
var consumeIssue = redis.NewScript(`
	local v = redis.call('GET', KEYS[1])
	if not v then
		return 0
	end
	if cjson.decode(v)['issue_id'] == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// NewClient connects to Redis and verifies the connection with a PING.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// CodeStore is a CodeStore shared by every instance through Redis.
// Keys expire natively at the record's expiry; reads still check expiry themselves.
type CodeStore struct {
	client redis.Cmdable
	prefix string
	nowF   func() time.Time
}

// NewCodeStore returns a store writing keys under prefix.
func NewCodeStore(client redis.Cmdable, prefix string) *CodeStore {
	if prefix == "" {
		prefix = "loanlead:otp:"
	}
	return &CodeStore{client: client, prefix: prefix, nowF: time.Now}
}

func (s *CodeStore) key(identifier string) string {
	return s.prefix + identifier
}

// Put overwrites the record for rec.Identifier. Local codes are stored as bcrypt hashes.
func (s *CodeStore) Put(ctx context.Context, rec *domain.VerificationRecord) error {
	sealed, err := rec.Seal()
	if err != nil {
		return err
	}
	ttl := sealed.ExpiresAt.Sub(s.nowF())
	if ttl <= 0 {
		return s.Delete(ctx, rec.Identifier)
	}
	data, err := json.Marshal(sealed)
	if err != nil {
		return fmt.Errorf("redis codestore: marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(rec.Identifier), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis codestore: put failed: %w", err)
	}
	return nil
}

// Get returns the live record for identifier.
func (s *CodeStore) Get(ctx context.Context, identifier string) (*domain.VerificationRecord, error) {
	key := s.key(identifier)
	raw, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFoundOrExpired)
	}
	if err != nil {
		return nil, fmt.Errorf("redis codestore: get failed: %w", err)
	}
	var rec domain.VerificationRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("redis codestore: unmarshal: %w", err)
	}
	if rec.Expired(s.nowF()) {
		if err := compareAndDelete.Run(ctx, s.client, []string{key}, raw).Err(); err != nil && !errors.Is(err, redis.Nil) {
			slog.Warn("failed to delete expired verification", "identifier", identifier, "err", err)
		}
		return nil, fmt.Errorf("verification expired: %w", domain.ErrNotFoundOrExpired)
	}
	return &rec, nil
}

// Consume deletes the record for identifier only while it still belongs to issueID.
// It reports domain.ErrNotFoundOrExpired when nothing was removed.
func (s *CodeStore) Consume(ctx context.Context, identifier, issueID string) error {
	n, err := consumeIssue.Run(ctx, s.client, []string{s.key(identifier)}, issueID).Int()
	if err != nil {
		return fmt.Errorf("redis codestore: consume failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("verification already consumed: %w", domain.ErrNotFoundOrExpired)
	}
	return nil
}

// Delete removes the record for identifier if present.
func (s *CodeStore) Delete(ctx context.Context, identifier string) error {
	if err := s.client.Del(ctx, s.key(identifier)).Err(); err != nil {
		return fmt.Errorf("redis codestore: delete failed: %w", err)
	}
	return nil
}
