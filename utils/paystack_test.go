package utils

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaystackSignature(t *testing.T) {
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_abc")

	body := []byte(`{"event":"charge.success","data":{"reference":"SDS-1"}}`)
	if !VerifyPaystackSignature(body, signBody(body, "sk_test_abc")) {
		t.Error("valid signature rejected")
	}
	if VerifyPaystackSignature(body, signBody(body, "sk_test_wrong")) {
		t.Error("signature from the wrong key accepted")
	}
	if VerifyPaystackSignature(body, "") {
		t.Error("empty signature accepted")
	}
	if VerifyPaystackSignature([]byte(`tampered`), signBody(body, "sk_test_abc")) {
		t.Error("signature accepted for a different body")
	}
}

func TestInitializePaystackTransactionConvertsToPesewas(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.paystack.com/abc",
				"access_code":       "abc",
				"reference":         "SDS-77",
			},
		})
	}))
	defer srv.Close()

	t.Setenv("PAYSTACK_BASE_URL", srv.URL)
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test_abc")

	resp, err := InitializePaystackTransaction(context.Background(), srv.Client(), "SDS-77", "user@example.com", 12.50)
	if err != nil {
		t.Fatalf("InitializePaystackTransaction: %v", err)
	}
	if resp.Data.AuthorizationURL == "" {
		t.Error("missing authorization url")
	}
	if got["amount"] != float64(1250) {
		t.Errorf("amount = %v, want 1250 pesewas", got["amount"])
	}
}
