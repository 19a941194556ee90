package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist records revoked access tokens so they stop working before
// their natural expiry. Revocation happens per token (logout) or per
// operator (offboarding, credential rotation).
type TokenBlacklist interface {
	// Revoke marks a single token's JTI as revoked. The ttl should cover
	// the remaining lifetime of the token.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a token's JTI has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeOperator invalidates every token the operator currently holds.
	// Tokens issued after the call remain valid.
	RevokeOperator(ctx context.Context, operatorID string, ttl time.Duration) error

	// IsOperatorRevoked reports whether a token issued at the given time
	// falls under an operator-wide revocation.
	IsOperatorRevoked(ctx context.Context, operatorID string, issuedAt time.Time) (bool, error)
}

// RedisTokenBlacklist keeps the revocation register in Redis so every
// instance behind the load balancer sees a revocation immediately.
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist wraps an existing Redis client. The client is
// shared with the idempotency store; the blacklist never closes it.
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func jtiKey(jti string) string {
	return "auth:revoked:jti:" + jti
}

func operatorKey(operatorID string) string {
	return "auth:revoked:operator:" + operatorID
}

// Revoke marks a token's JTI as revoked until its natural expiry
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks the register for the token's JTI
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

// RevokeOperator stores the revocation instant for the operator. Any token
// issued at or before that instant is rejected.
func (b *RedisTokenBlacklist) RevokeOperator(ctx context.Context, operatorID string, ttl time.Duration) error {
	cutoff := time.Now().UnixNano()
	if err := b.client.Set(ctx, operatorKey(operatorID), cutoff, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke operator tokens: %w", err)
	}
	return nil
}

// IsOperatorRevoked compares the token's issue time against the stored cutoff
func (b *RedisTokenBlacklist) IsOperatorRevoked(ctx context.Context, operatorID string, issuedAt time.Time) (bool, error) {
	val, err := b.client.Get(ctx, operatorKey(operatorID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check operator revocation: %w", err)
	}

	cutoff, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse operator revocation cutoff: %w", err)
	}

	return issuedAt.UnixNano() <= cutoff, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is the single-instance fallback used when Redis is
// unavailable, and the implementation the middleware tests run against.
type InMemoryTokenBlacklist struct {
	mu              sync.RWMutex
	revokedJTIs     map[string]time.Time
	operatorCutoffs map[string]time.Time
}

// NewInMemoryTokenBlacklist creates an empty in-process revocation register
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revokedJTIs:     make(map[string]time.Time),
		operatorCutoffs: make(map[string]time.Time),
	}
}

// Revoke marks a token's JTI as revoked for the given ttl
func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revokedJTIs[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks the register, lazily dropping expired entries
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiresAt, exists := b.revokedJTIs[jti]
	if !exists {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		delete(b.revokedJTIs, jti)
		return false, nil
	}
	return true, nil
}

// RevokeOperator records the revocation instant for the operator
func (b *InMemoryTokenBlacklist) RevokeOperator(_ context.Context, operatorID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.operatorCutoffs[operatorID] = time.Now()
	return nil
}

// IsOperatorRevoked compares issue time against the stored cutoff with
// nanosecond precision
func (b *InMemoryTokenBlacklist) IsOperatorRevoked(_ context.Context, operatorID string, issuedAt time.Time) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cutoff, exists := b.operatorCutoffs[operatorID]
	if !exists {
		return false, nil
	}
	return issuedAt.UnixNano() <= cutoff.UnixNano(), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
