package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked tokens. Logout revokes a single access token
// by its jti; a role change or a reused refresh token cuts off every session a
// user opened before that moment.
type TokenBlacklist interface {
	// AddToBlacklist revokes one token. ttl is the token's remaining lifetime;
	// the entry is useless after that.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// AddUserTokensToBlacklist rejects every token of the user issued up to now.
	// ttl should cover the longest-lived token the user can hold.
	AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error
	IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error)
}

// RedisTokenBlacklist shares revocations between all API instances
type RedisTokenBlacklist struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisTokenBlacklist(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client, prefix: "shop:auth:"}
}

func (b *RedisTokenBlacklist) revokedKey(jti string) string {
	return b.prefix + "revoked:" + jti
}

func (b *RedisTokenBlacklist) cutoffKey(userID string) string {
	return b.prefix + "sessions-cutoff:" + userID
}

func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.revokedKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("look up revoked token: %w", err)
	}
	return n > 0, nil
}

func (b *RedisTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.cutoffKey(userID), time.Now().UnixNano(), ttl).Err(); err != nil {
		return fmt.Errorf("end sessions of user %s: %w", userID, err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	cutoff, err := b.client.Get(ctx, b.cutoffKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up session cutoff: %w", err)
	}
	return tokenIssuedAt.UnixNano() <= cutoff, nil
}

// InMemoryTokenBlacklist is the single-instance fallback used when Redis is
// disabled. Entries are dropped lazily once their ttl has passed.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time  // jti -> entry expiry
	cutoffs map[string]userCutoff // user id -> session cutoff
}

type userCutoff struct {
	at      time.Time
	expires time.Time
}

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revoked: make(map[string]time.Time),
		cutoffs: make(map[string]userCutoff),
	}
}

func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expires, ok := b.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expires) {
		delete(b.revoked, jti)
		return false, nil
	}
	return true, nil
}

func (b *InMemoryTokenBlacklist) AddUserTokensToBlacklist(_ context.Context, userID string, ttl time.Duration) error {
	now := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cutoffs[userID] = userCutoff{at: now, expires: now.Add(ttl)}
	return nil
}

func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID string, tokenIssuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff, ok := b.cutoffs[userID]
	if !ok {
		return false, nil
	}
	if time.Now().After(cutoff.expires) {
		delete(b.cutoffs, userID)
		return false, nil
	}
	return !tokenIssuedAt.After(cutoff.at), nil
}
