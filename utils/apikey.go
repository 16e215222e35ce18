package utils

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"regexp"
	"sync"
	"time"
)

// API keys are opaque bearer credentials for the developer API. Only the
// SHA-256 hash of a key is ever persisted; the raw key is shown once at
// creation time.

const (
	maxKeysPerWindow = 5
	keyRateWindow    = time.Hour
)

var (
	reSecretKey = regexp.MustCompile(`^sk_live_[0-9]+_[0-9a-f]{64}$`)
	rePublicKey = regexp.MustCompile(`^pk_live_[0-9a-f]{32}$`)
)

// GenerateSecretKey returns a new secret key: sk_live_<unix ts>_<64 hex chars>.
// The hex part carries 256 bits of randomness; the timestamp component makes
// key issuance auditable without a DB lookup.
func GenerateSecretKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate key material: %w", err)
	}
	return fmt.Sprintf("sk_live_%d_%s", time.Now().Unix(), hex.EncodeToString(b)), nil
}

// GeneratePublicKey returns a new publishable key: pk_live_<32 hex chars>.
func GeneratePublicKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate key material: %w", err)
	}
	return fmt.Sprintf("pk_live_%s", hex.EncodeToString(b)), nil
}

// HashApiKey returns the hex SHA-256 digest stored in the api_keys table.
func HashApiKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// VerifyApiKey re-hashes the presented key and compares against the stored
// hash in constant time.
func VerifyApiKey(presented, storedHash string) bool {
	computed := HashApiKey(presented)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// IsValidKeyFormat rejects obviously malformed keys before any DB lookup.
func IsValidKeyFormat(key string) bool {
	return reSecretKey.MatchString(key) || rePublicKey.MatchString(key)
}

// KeyPrefix returns the display prefix kept alongside the hash.
func KeyPrefix(key string) string {
	if len(key) <= 16 {
		return key
	}
	return key[:16]
}

// keyIssueRecord tracks key generations for one account within the current window.
type keyIssueRecord struct {
	Count   int
	ResetAt time.Time
}

// KeyIssuanceLimiter caps key generation per account to maxKeysPerWindow per
// rolling hour. When Redis is configured the counter lives there so the cap
// holds across instances; otherwise an in-process map is used, with windows
// reset lazily and stale entries swept periodically.
type KeyIssuanceLimiter struct {
	mu      sync.Mutex
	records map[uint]*keyIssueRecord
	now     func() time.Time // overridable in tests
}

var keyLimiter = NewKeyIssuanceLimiter()

func NewKeyIssuanceLimiter() *KeyIssuanceLimiter {
	l := &KeyIssuanceLimiter{
		records: make(map[uint]*keyIssueRecord),
		now:     time.Now,
	}
	go l.sweepLoop()
	return l
}

// AllowKeyIssuance reports whether the account may generate another key now.
// When denied, retryAt is the moment the window resets.
func AllowKeyIssuance(userID uint) (allowed bool, retryAt time.Time) {
	return keyLimiter.Allow(userID)
}

func (l *KeyIssuanceLimiter) Allow(userID uint) (bool, time.Time) {
	if RedisClient != nil {
		if ok, retryAt, err := l.allowRedis(userID); err == nil {
			return ok, retryAt
		}
		// Redis error falls back to the in-memory path
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, exists := l.records[userID]
	if !exists || now.After(rec.ResetAt) {
		l.records[userID] = &keyIssueRecord{Count: 1, ResetAt: now.Add(keyRateWindow)}
		return true, time.Time{}
	}
	if rec.Count >= maxKeysPerWindow {
		return false, rec.ResetAt
	}
	rec.Count++
	return true, time.Time{}
}

func (l *KeyIssuanceLimiter) allowRedis(userID uint) (bool, time.Time, error) {
	ctx := context.Background()
	key := fmt.Sprintf("apikey:issue:u:%d", userID)
	count, err := RedisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, time.Time{}, err
	}
	if count == 1 {
		_, _ = RedisClient.Expire(ctx, key, keyRateWindow).Result()
	}
	if count > maxKeysPerWindow {
		ttl, err := RedisClient.TTL(ctx, key).Result()
		if err != nil || ttl <= 0 {
			ttl = keyRateWindow
		}
		return false, l.now().Add(ttl), nil
	}
	return true, time.Time{}, nil
}

func (l *KeyIssuanceLimiter) sweepLoop() {
	tick := time.NewTicker(10 * time.Minute)
	defer tick.Stop()
	for range tick.C {
		l.mu.Lock()
		now := l.now()
		for id, rec := range l.records {
			if now.After(rec.ResetAt) {
				delete(l.records, id)
			}
		}
		l.mu.Unlock()
	}
}
