// internal/audit/redis.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list (queue) name for prize claim records.
var DefaultQueueName = "button_game_claims"

// ClaimRecord is one prize claim, pushed onto the audit queue so an external
// consumer can reconcile redeemed claim codes. It is an outbound feed only;
// the server never reads it back and keeps no durable state of its own.
type ClaimRecord struct {
	Keyphrase string `json:"keyphrase"`
	Nickname  string `json:"nickname"`
	Slot      int    `json:"slot"`
	Tier      string `json:"tier"`
	Label     string `json:"label"`
	ClaimCode string `json:"claim_code"`
	Timestamp int64  `json:"timestamp"`
}

// Publisher pushes claim records to a Redis list. A nil Publisher is valid
// and drops every record, so callers never need to branch on whether the
// audit feed is configured.
type Publisher struct {
	rdb   *redis.Client
	queue string
}

// Connect builds a Publisher from the environment:
//   - REDIS_ADDR (unset => audit feed disabled, returns nil Publisher)
//   - REDIS_DB (optional, default 0)
//   - AUDIT_QUEUE_NAME (optional, default "button_game_claims")
func Connect() (*Publisher, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   getEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &Publisher{
		rdb:   rdb,
		queue: getEnv("AUDIT_QUEUE_NAME", DefaultQueueName),
	}, nil
}

// PublishClaim serializes the record to JSON and pushes it onto the queue.
func (p *Publisher) PublishClaim(ctx context.Context, rec ClaimRecord) error {
	if p == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal ClaimRecord: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
