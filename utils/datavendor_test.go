package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartdata/models"
)

func TestMapVendorStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"pending", models.DeliveryPending, true},
		{"queued", models.DeliveryPending, true},
		{"accepted", models.DeliveryPending, true},
		{"processing", models.DeliveryProcessing, true},
		{"in_progress", models.DeliveryProcessing, true},
		{"sent", models.DeliveryProcessing, true},
		{"delivered", models.DeliveryDelivered, true},
		{"completed", models.DeliveryDelivered, true},
		{"success", models.DeliveryDelivered, true},
		{"failed", models.DeliveryFailed, true},
		{"rejected", models.DeliveryFailed, true},
		{"error", models.DeliveryFailed, true},
		{"refunded", models.DeliveryFailed, true},
		{"DELIVERED", models.DeliveryDelivered, true}, // case-insensitive
		{" sent ", models.DeliveryProcessing, true},   // whitespace trimmed
		{"something_new", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, ok := MapVendorStatus(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("MapVendorStatus(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestSubmitVendorOrder(t *testing.T) {
	var gotReq VendorOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(VendorOrderResponse{
			Success: true,
			OrderID: "VND-555",
			Status:  "accepted",
		})
	}))
	defer srv.Close()

	t.Setenv("VENDOR_BASE_URL", srv.URL)
	t.Setenv("VENDOR_API_KEY", "test-key")

	items := []VendorOrderItem{
		{Phone: "0241234567", VendorCode: "MTN1GB"},
		{Phone: "0551234567", VendorCode: "MTN2GB"},
	}
	resp, err := SubmitVendorOrder(context.Background(), srv.Client(), "SDS-123", items)
	if err != nil {
		t.Fatalf("SubmitVendorOrder: %v", err)
	}
	if resp.OrderID != "VND-555" {
		t.Errorf("order id = %q, want VND-555", resp.OrderID)
	}
	if gotReq.Reference != "SDS-123" || len(gotReq.Items) != 2 {
		t.Errorf("vendor received %+v", gotReq)
	}
}

func TestSubmitVendorOrderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(VendorOrderResponse{Success: false, Message: "insufficient float"})
	}))
	defer srv.Close()

	t.Setenv("VENDOR_BASE_URL", srv.URL)
	t.Setenv("VENDOR_API_KEY", "test-key")

	_, err := SubmitVendorOrder(context.Background(), srv.Client(), "SDS-124", []VendorOrderItem{{Phone: "0241234567", VendorCode: "MTN1GB"}})
	if err == nil {
		t.Fatal("expected error for rejected order")
	}
}

func TestCheckVendorOrderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/SDS-125" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(VendorOrderResponse{Success: true, Reference: "SDS-125", Status: "delivered"})
	}))
	defer srv.Close()

	t.Setenv("VENDOR_BASE_URL", srv.URL)
	t.Setenv("VENDOR_API_KEY", "test-key")

	resp, err := CheckVendorOrderStatus(context.Background(), srv.Client(), "SDS-125")
	if err != nil {
		t.Fatalf("CheckVendorOrderStatus: %v", err)
	}
	if resp.Status != "delivered" {
		t.Errorf("status = %q, want delivered", resp.Status)
	}
}
