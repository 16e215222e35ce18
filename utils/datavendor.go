package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"smartdata/models"
)

// Client for the upstream data-bundle fulfilment API. The vendor accepts an
// order keyed by our transaction reference, processes it asynchronously, and
// reports progress either through the /callback/fulfillment webhook or when
// polled via CheckVendorOrderStatus.

func getVendorConfig() (baseURL, apiKey string, err error) {
	baseURL = os.Getenv("VENDOR_BASE_URL")
	apiKey = os.Getenv("VENDOR_API_KEY")
	if baseURL == "" || apiKey == "" {
		return "", "", fmt.Errorf("VENDOR_BASE_URL and VENDOR_API_KEY are required")
	}
	return strings.TrimRight(baseURL, "/"), apiKey, nil
}

type VendorOrderItem struct {
	Phone      string `json:"phone"`
	VendorCode string `json:"product_code"`
}

type VendorOrderRequest struct {
	Reference string            `json:"reference"`
	Items     []VendorOrderItem `json:"items"`
}

type VendorOrderResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

// SubmitVendorOrder places a fulfilment order for one or more recipients.
func SubmitVendorOrder(ctx context.Context, client *http.Client, reference string, items []VendorOrderItem) (*VendorOrderResponse, error) {
	baseURL, apiKey, err := getVendorConfig()
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(VendorOrderRequest{Reference: reference, Items: items})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vendor order failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out VendorOrderResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("vendor rejected order %s: %s", reference, out.Message)
	}
	return &out, nil
}

// CheckVendorOrderStatus polls the vendor for the current state of an order.
func CheckVendorOrderStatus(ctx context.Context, client *http.Client, reference string) (*VendorOrderResponse, error) {
	baseURL, apiKey, err := getVendorConfig()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/orders/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vendor status check failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out VendorOrderResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}

// MapVendorStatus translates the vendor's status vocabulary onto the delivery
// axis. Unknown statuses return ok=false and must leave the record untouched.
func MapVendorStatus(vendorStatus string) (deliveryStatus string, ok bool) {
	switch strings.ToLower(strings.TrimSpace(vendorStatus)) {
	case "pending", "queued", "accepted":
		return models.DeliveryPending, true
	case "processing", "in_progress", "sent":
		return models.DeliveryProcessing, true
	case "delivered", "completed", "success":
		return models.DeliveryDelivered, true
	case "failed", "rejected", "error", "refunded":
		return models.DeliveryFailed, true
	default:
		return "", false
	}
}
