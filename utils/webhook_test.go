package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"smartdata/models"
)

func fastBackoff(t *testing.T) {
	t.Helper()
	oldBase := webhookBackoffBase
	oldTimeout := webhookTimeout
	webhookBackoffBase = time.Millisecond
	webhookTimeout = 200 * time.Millisecond
	t.Cleanup(func() {
		webhookBackoffBase = oldBase
		webhookTimeout = oldTimeout
	})
}

func sampleTx() *models.Transaction {
	return &models.Transaction{
		Reference:      "SDS-0000000010001",
		Amount:         5.50,
		ProductID:      3,
		ProductName:    "MTN 1GB",
		ProductType:    "bundle",
		Network:        "MTN",
		CustomerPhone:  "0241234567",
		Status:         "pending",
		PaymentStatus:  "paid",
		DeliveryStatus: "processing",
		CreatedAt:      time.Now(),
	}
}

func TestDeliverWebhookRetriesThenSucceeds(t *testing.T) {
	fastBackoff(t)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	payload := BuildWebhookPayload(sampleTx(), EventOrderStatusUpdated, "pending")
	result := DeliverWebhook(context.Background(), srv.URL, payload, "secret", 3)

	if !result.Success {
		t.Fatalf("delivery failed: %+v", result)
	}
	if result.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", result.Attempts)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", result.StatusCode)
	}
}

func TestDeliverWebhookGivesUpAfterMaxAttempts(t *testing.T) {
	fastBackoff(t)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	payload := BuildWebhookPayload(sampleTx(), EventOrderStatusUpdated, "pending")
	result := DeliverWebhook(context.Background(), srv.URL, payload, "secret", 3)

	if result.Success {
		t.Fatal("delivery succeeded against an always-failing endpoint")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("endpoint hit %d times, want 3", got)
	}
}

func TestDeliverWebhookTimeoutAbortsRetries(t *testing.T) {
	fastBackoff(t)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(time.Second) // longer than the shortened client timeout
	}))
	defer srv.Close()

	payload := BuildWebhookPayload(sampleTx(), EventOrderStatusUpdated, "pending")
	result := DeliverWebhook(context.Background(), srv.URL, payload, "secret", 3)

	if result.Success {
		t.Fatal("delivery succeeded against a hanging endpoint")
	}
	if result.Attempts != 1 {
		t.Errorf("attempts = %d, want 1 (timeout should not retry)", result.Attempts)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("endpoint hit %d times, want 1", got)
	}
}

func TestDeliverWebhookSignsBody(t *testing.T) {
	fastBackoff(t)

	var gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Webhook-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	payload := BuildWebhookPayload(sampleTx(), EventOrderCreated, "")
	result := DeliverWebhook(context.Background(), srv.URL, payload, "topsecret", 1)
	if !result.Success {
		t.Fatalf("delivery failed: %+v", result)
	}

	if want := SignWebhookPayload(gotBody, "topsecret"); gotSig != want {
		t.Errorf("signature = %q, want %q", gotSig, want)
	}
	if SignWebhookPayload(gotBody, "othersecret") == gotSig {
		t.Error("signature does not depend on the secret")
	}
}

func TestBuildWebhookPayloadBulkExpansion(t *testing.T) {
	tx := sampleTx()
	tx.IsBulkOrder = true
	recipients := []models.BulkRecipient{
		{Phone: "0241111111", BundleID: 3, BundleName: "MTN 1GB"},
		{Phone: "0242222222", BundleID: 4, BundleName: "MTN 2GB"},
		{Phone: "0243333333"},
	}
	serialized, _ := json.Marshal(recipients)
	s := string(serialized)
	tx.PhoneNumbers = &s

	payload := BuildWebhookPayload(tx, EventOrderStatusUpdated, "pending")
	if len(payload.Products) != 3 {
		t.Fatalf("products = %d, want 3", len(payload.Products))
	}
	if payload.Products[1].BundleName != "MTN 2GB" {
		t.Errorf("second product = %+v, want the per-recipient bundle", payload.Products[1])
	}
	// Recipient without a bundle override inherits the order-level product
	if payload.Products[2].BundleID != tx.ProductID || payload.Products[2].BundleName != tx.ProductName {
		t.Errorf("third product = %+v, want order-level fallback", payload.Products[2])
	}
}

func TestBuildWebhookPayloadSingleOrder(t *testing.T) {
	payload := BuildWebhookPayload(sampleTx(), EventOrderCreated, "")
	if len(payload.Products) != 1 {
		t.Fatalf("products = %d, want 1", len(payload.Products))
	}
	if payload.Products[0].Phone != "0241234567" {
		t.Errorf("product phone = %q", payload.Products[0].Phone)
	}
}

func TestBuildWebhookPayloadMalformedBulkList(t *testing.T) {
	tx := sampleTx()
	tx.IsBulkOrder = true
	bad := "{not json"
	tx.PhoneNumbers = &bad

	payload := BuildWebhookPayload(tx, EventOrderStatusUpdated, "pending")
	if len(payload.Products) != 1 {
		t.Fatalf("products = %d, want 1 fallback entry", len(payload.Products))
	}
	if payload.Products[0].BundleID != tx.ProductID {
		t.Errorf("fallback product = %+v", payload.Products[0])
	}
}
