package utils

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Paystack client for checkout payments. Amounts are in pesewas on the wire
// (GHS * 100).

func getPaystackConfig() (baseURL, secretKey, callbackURL string, err error) {
	baseURL = os.Getenv("PAYSTACK_BASE_URL")
	secretKey = os.Getenv("PAYSTACK_SECRET_KEY")
	callbackURL = os.Getenv("PAYSTACK_CALLBACK_URL")

	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	if secretKey == "" {
		return "", "", "", fmt.Errorf("PAYSTACK_SECRET_KEY is required")
	}
	return baseURL, secretKey, callbackURL, nil
}

type PaystackInitRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // pesewas
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
	Currency    string `json:"currency"`
}

type PaystackInitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type PaystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"` // success, failed, abandoned
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		PaidAt    string `json:"paid_at"`
		Channel   string `json:"channel"`
	} `json:"data"`
}

// InitializePaystackTransaction creates a hosted checkout session and returns
// the authorization URL the customer is redirected to.
func InitializePaystackTransaction(ctx context.Context, client *http.Client, reference, email string, amountGHS float64) (*PaystackInitResponse, error) {
	baseURL, secretKey, callbackURL, err := getPaystackConfig()
	if err != nil {
		return nil, err
	}
	if email == "" {
		// Paystack requires an email; guests get a store-side placeholder
		email = fmt.Sprintf("%s@guest.smartdatastore.com", strings.ToLower(reference))
	}

	reqBody := PaystackInitRequest{
		Email:       email,
		Amount:      int64(amountGHS * 100),
		Reference:   reference,
		CallbackURL: callbackURL,
		Currency:    "GHS",
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/transaction/initialize", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+secretKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack initialize failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out PaystackInitResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !out.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", out.Message)
	}
	return &out, nil
}

// VerifyPaystackTransaction queries the gateway for the authoritative payment
// state of a reference. Callers must not trust the webhook body alone.
func VerifyPaystackTransaction(ctx context.Context, client *http.Client, reference string) (*PaystackVerifyResponse, error) {
	baseURL, secretKey, _, err := getPaystackConfig()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+secretKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out PaystackVerifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}

// VerifyPaystackSignature checks the x-paystack-signature header: hex
// HMAC-SHA512 of the raw body with the secret key.
func VerifyPaystackSignature(body []byte, signature string) bool {
	_, secretKey, _, err := getPaystackConfig()
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
