package utils

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"smartdata/models"
)

// Outbound webhook notifier. Delivery is best-effort: the caller's transaction
// update must never be rolled back or blocked because a subscriber endpoint is
// down, so every failure mode is folded into WebhookResult instead of an error.

const (
	webhookUserAgent      = "SmartDataStore-Webhook/1.0"
	DefaultWebhookRetries = 3
)

// Overridable so tests do not sleep for real seconds.
var (
	webhookTimeout     = 10 * time.Second
	webhookBackoffBase = time.Second
)

// WebhookEvent values sent in the payload's event field.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
)

// WebhookProduct is one delivery target inside a notification. Bulk orders
// produce one entry per recipient.
type WebhookProduct struct {
	BundleID   uint   `json:"bundle_id"`
	BundleName string `json:"bundle_name"`
	Phone      string `json:"phone"`
}

// WebhookPayload is the wire format POSTed to the subscriber. It is built from
// a transaction snapshot and never persisted.
type WebhookPayload struct {
	Event          string           `json:"event"`
	Reference      string           `json:"reference"`
	Status         string           `json:"status"`
	PaymentStatus  string           `json:"payment_status"`
	DeliveryStatus string           `json:"delivery_status"`
	PreviousStatus string           `json:"previous_status,omitempty"`
	Amount         float64          `json:"amount"`
	Network        string           `json:"network"`
	IsBulkOrder    bool             `json:"is_bulk_order"`
	Products       []WebhookProduct `json:"products"`
	CreatedAt      time.Time        `json:"created_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
}

// WebhookResult reports the outcome of a delivery. Err is the last observed
// error when Success is false.
type WebhookResult struct {
	Success    bool
	StatusCode int
	Attempts   int
	Err        string
}

// BuildWebhookPayload projects a transaction into the wire format. For bulk
// orders the serialized phone number list expands into one product entry per
// recipient; a malformed list degrades to a single entry built from the
// transaction-level fields rather than failing the notification.
func BuildWebhookPayload(tx *models.Transaction, event, previousStatus string) WebhookPayload {
	payload := WebhookPayload{
		Event:          event,
		Reference:      tx.Reference,
		Status:         tx.Status,
		PaymentStatus:  tx.PaymentStatus,
		DeliveryStatus: tx.DeliveryStatus,
		PreviousStatus: previousStatus,
		Amount:         tx.Amount,
		Network:        tx.Network,
		IsBulkOrder:    tx.IsBulkOrder,
		CreatedAt:      tx.CreatedAt,
		CompletedAt:    tx.CompletedAt,
	}

	fallback := WebhookProduct{
		BundleID:   tx.ProductID,
		BundleName: tx.ProductName,
		Phone:      tx.CustomerPhone,
	}

	if !tx.IsBulkOrder || tx.PhoneNumbers == nil {
		payload.Products = []WebhookProduct{fallback}
		return payload
	}

	var recipients []models.BulkRecipient
	if err := json.Unmarshal([]byte(*tx.PhoneNumbers), &recipients); err != nil || len(recipients) == 0 {
		payload.Products = []WebhookProduct{fallback}
		return payload
	}

	products := make([]WebhookProduct, 0, len(recipients))
	for _, rec := range recipients {
		p := WebhookProduct{
			BundleID:   rec.BundleID,
			BundleName: rec.BundleName,
			Phone:      rec.Phone,
		}
		if p.BundleID == 0 {
			p.BundleID = tx.ProductID
		}
		if p.BundleName == "" {
			p.BundleName = tx.ProductName
		}
		products = append(products, p)
	}
	payload.Products = products
	return payload
}

// SignWebhookPayload computes the X-Webhook-Signature value: base64 of the
// HMAC-SHA256 of the body, keyed with the subscriber's secret.
func SignWebhookPayload(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// DeliverWebhook POSTs the payload to url with up to maxAttempts tries.
// Each attempt has a 10 second budget. A 2xx response succeeds immediately;
// non-2xx responses and connection errors are retried after 2^(attempt-1)
// seconds. A client-side timeout ends the loop at once: if the subscriber
// cannot answer within the budget, hammering it again right away will not help.
func DeliverWebhook(ctx context.Context, url string, payload WebhookPayload, secret string, maxAttempts int) WebhookResult {
	if maxAttempts <= 0 {
		maxAttempts = DefaultWebhookRetries
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return WebhookResult{Success: false, Attempts: 0, Err: fmt.Sprintf("marshal payload: %v", err)}
	}
	signature := SignWebhookPayload(body, secret)

	client := &http.Client{Timeout: webhookTimeout}
	result := WebhookResult{}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result.Attempts = attempt

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			result.Err = fmt.Sprintf("build request: %v", err)
			return result
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", webhookUserAgent)
		req.Header.Set("X-Webhook-Signature", signature)

		resp, err := client.Do(req)
		if err != nil {
			result.Err = err.Error()
			if isTimeout(err) {
				return result
			}
		} else {
			result.StatusCode = resp.StatusCode
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				result.Success = true
				result.Err = ""
				return result
			}
			result.Err = fmt.Sprintf("endpoint returned status %d", resp.StatusCode)
		}

		if attempt < maxAttempts {
			wait := webhookBackoffBase * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				result.Err = ctx.Err().Error()
				return result
			}
		}
	}
	return result
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
