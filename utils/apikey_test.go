package utils

import (
	"strings"
	"testing"
	"time"
)

func TestSecretKeyRoundTrip(t *testing.T) {
	key, err := GenerateSecretKey()
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	if !IsValidKeyFormat(key) {
		t.Fatalf("generated key %q does not match the expected format", key)
	}
	if !strings.HasPrefix(key, "sk_live_") {
		t.Fatalf("key %q missing sk_live_ prefix", key)
	}

	hash := HashApiKey(key)
	if len(hash) != 64 {
		t.Fatalf("hash length = %d, want 64", len(hash))
	}
	if !VerifyApiKey(key, hash) {
		t.Fatal("VerifyApiKey rejected the original key")
	}
}

func TestVerifyApiKeyRejectsMutation(t *testing.T) {
	key, err := GenerateSecretKey()
	if err != nil {
		t.Fatalf("GenerateSecretKey: %v", err)
	}
	hash := HashApiKey(key)

	// Flip the last character
	last := key[len(key)-1]
	flipped := byte('0')
	if last == '0' {
		flipped = '1'
	}
	mutated := key[:len(key)-1] + string(flipped)
	if VerifyApiKey(mutated, hash) {
		t.Fatal("VerifyApiKey accepted a mutated key")
	}
}

func TestPublicKeyFormat(t *testing.T) {
	key, err := GeneratePublicKey()
	if err != nil {
		t.Fatalf("GeneratePublicKey: %v", err)
	}
	if !IsValidKeyFormat(key) {
		t.Fatalf("generated key %q does not match the expected format", key)
	}
	if !strings.HasPrefix(key, "pk_live_") {
		t.Fatalf("key %q missing pk_live_ prefix", key)
	}
}

func TestIsValidKeyFormatRejectsGarbage(t *testing.T) {
	bad := []string{
		"",
		"sk_live_",
		"sk_test_1700000000_" + strings.Repeat("a", 64),
		"sk_live_1700000000_" + strings.Repeat("a", 63),  // short hex
		"sk_live_1700000000_" + strings.Repeat("g", 64),  // non-hex
		"pk_live_" + strings.Repeat("a", 31),
		"Bearer sk_live_1700000000_" + strings.Repeat("a", 64),
	}
	for _, k := range bad {
		if IsValidKeyFormat(k) {
			t.Errorf("IsValidKeyFormat(%q) = true, want false", k)
		}
	}
}

func TestKeyIssuanceLimiterCapsWindow(t *testing.T) {
	l := &KeyIssuanceLimiter{
		records: make(map[uint]*keyIssueRecord),
		now:     time.Now,
	}

	for i := 0; i < maxKeysPerWindow; i++ {
		if ok, _ := l.Allow(7); !ok {
			t.Fatalf("issuance %d denied, want allowed", i+1)
		}
	}

	ok, retryAt := l.Allow(7)
	if ok {
		t.Fatal("issuance over the cap allowed, want denied")
	}
	if retryAt.IsZero() || !retryAt.After(time.Now()) {
		t.Fatalf("retryAt = %v, want a future reset time", retryAt)
	}
}

func TestKeyIssuanceLimiterResetsAfterWindow(t *testing.T) {
	current := time.Now()
	l := &KeyIssuanceLimiter{
		records: make(map[uint]*keyIssueRecord),
		now:     func() time.Time { return current },
	}

	for i := 0; i < maxKeysPerWindow; i++ {
		l.Allow(9)
	}
	if ok, _ := l.Allow(9); ok {
		t.Fatal("expected denial at the cap")
	}

	current = current.Add(keyRateWindow + time.Minute)
	if ok, _ := l.Allow(9); !ok {
		t.Fatal("expected a fresh window after the reset time passed")
	}
}

func TestKeyIssuanceLimiterIsolatesUsers(t *testing.T) {
	l := &KeyIssuanceLimiter{
		records: make(map[uint]*keyIssueRecord),
		now:     time.Now,
	}

	for i := 0; i < maxKeysPerWindow; i++ {
		l.Allow(1)
	}
	if ok, _ := l.Allow(1); ok {
		t.Fatal("user 1 should be capped")
	}
	if ok, _ := l.Allow(2); !ok {
		t.Fatal("user 2 should not be affected by user 1's cap")
	}
}
