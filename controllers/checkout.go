package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"smartdata/database"
	"smartdata/middleware"
	"smartdata/models"
	"smartdata/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Checkout creates the pending transaction and hands the customer to the
// payment gateway. Fulfilment starts only after the payment callback confirms
// the charge.

type CheckoutRequest struct {
	ProductID    uint                   `json:"product_id"`
	Phone        string                 `json:"phone"`
	PhoneNumbers []models.BulkRecipient `json:"phone_numbers,omitempty"`
	Email        string                 `json:"email,omitempty"`
	AgentSlug    string                 `json:"agent_slug,omitempty"`
}

type checkoutResponse struct {
	Reference        string  `json:"reference"`
	Amount           float64 `json:"amount"`
	AuthorizationURL string  `json:"authorization_url"`
}

// CheckoutHandler handles POST /checkout for single and bulk bundle orders.
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.ProductID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "product_id is required"})
		return
	}

	var product models.Product
	if err := database.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Product not found"})
		return
	}

	tx, _, status, err := BuildBundleOrder(&product, &req)
	if err != nil {
		utils.WriteJSON(w, status, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	// Optional: authenticated checkout ties the order to the account
	if uid, err := utils.ExtractUserIDFromRequest(r); err == nil && uid > 0 {
		tx.UserID = &uid
	}

	if err := database.DB.Create(tx).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create order"})
		return
	}

	client := &http.Client{Timeout: 20 * time.Second}
	initResp, err := utils.InitializePaystackTransaction(r.Context(), client, tx.Reference, req.Email, tx.Amount)
	if err != nil {
		log.Printf("[checkout] paystack init failed for %s: %v", tx.Reference, err)
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Payment initialization failed, please try again"})
		return
	}

	NotifyOrderStatus(tx, utils.EventOrderCreated, "")

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Order created", Data: checkoutResponse{
		Reference:        tx.Reference,
		Amount:           tx.Amount,
		AuthorizationURL: initResp.Data.AuthorizationURL,
	}})
}

// BuildBundleOrder validates recipients against their bundle's carrier and
// assembles the pending transaction. Exactly one of a single phone or a
// non-empty bulk list must be present. The returned slice holds the bundle
// each recipient resolved to, in order, so callers that reprice (the
// storefront) can price overrides correctly.
func BuildBundleOrder(product *models.Product, req *CheckoutRequest) (*models.Transaction, []models.Product, int, error) {
	isBulk := len(req.PhoneNumbers) > 0
	if isBulk && req.Phone != "" {
		return nil, nil, http.StatusBadRequest, fmt.Errorf("provide either phone or phone_numbers, not both")
	}
	if !isBulk && req.Phone == "" {
		return nil, nil, http.StatusBadRequest, fmt.Errorf("phone is required")
	}

	tx := &models.Transaction{
		Reference:   utils.GenerateReference(),
		Amount:      product.Price,
		ProductID:   product.ID,
		ProductName: product.Name,
		ProductType: "bundle",
		Network:     product.Network,
		IsBulkOrder: isBulk,
	}
	if req.Email != "" {
		tx.CustomerEmail = &req.Email
	}

	if isBulk {
		recipients, items, total, err := expandBulkRecipients(product, req.PhoneNumbers, lookupActiveProduct)
		if err != nil {
			return nil, nil, http.StatusBadRequest, err
		}
		serialized, err := json.Marshal(recipients)
		if err != nil {
			return nil, nil, http.StatusInternalServerError, fmt.Errorf("failed to serialize recipients")
		}
		s := string(serialized)
		tx.PhoneNumbers = &s
		tx.CustomerPhone = recipients[0].Phone
		tx.Amount = total
		return tx, items, 0, nil
	}

	normalized, err := utils.ValidateNetworkForBundle(req.Phone, product.Network)
	if err != nil {
		return nil, nil, http.StatusBadRequest, err
	}
	tx.CustomerPhone = normalized
	return tx, []models.Product{*product}, 0, nil
}

// expandBulkRecipients resolves each recipient to its bundle, honouring
// per-recipient overrides, and validates the phone against the carrier of the
// bundle it actually resolved to. Every recipient is charged at its own
// bundle's price, so an override to a different bundle moves both the carrier
// check and the amount with it.
func expandBulkRecipients(base *models.Product, in []models.BulkRecipient, lookup func(uint) (*models.Product, error)) ([]models.BulkRecipient, []models.Product, float64, error) {
	recipients := make([]models.BulkRecipient, 0, len(in))
	items := make([]models.Product, 0, len(in))
	total := 0.0
	for _, rec := range in {
		resolved := base
		if rec.BundleID != 0 && rec.BundleID != base.ID {
			p, err := lookup(rec.BundleID)
			if err != nil {
				return nil, nil, 0, fmt.Errorf("bundle %d is not available", rec.BundleID)
			}
			resolved = p
		}
		normalized, err := utils.ValidateNetworkForBundle(rec.Phone, resolved.Network)
		if err != nil {
			return nil, nil, 0, err
		}
		rec.Phone = normalized
		rec.BundleID = resolved.ID
		rec.BundleName = resolved.Name
		recipients = append(recipients, rec)
		items = append(items, *resolved)
		total += resolved.Price
	}
	return recipients, items, total, nil
}

func lookupActiveProduct(id uint) (*models.Product, error) {
	var p models.Product
	if err := database.DB.Where("id = ? AND is_active = ?", id, true).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

type CheckerCheckoutRequest struct {
	CheckerType string `json:"checker_type" validate:"required"`
	Phone       string `json:"phone" validate:"required,phonegh"`
	Email       string `json:"email,omitempty"`
}

// CheckerCheckoutHandler handles POST /checkout/result-checker. The PIN is
// assigned from stock after payment, so the order only needs the checker type
// and a contact number for SMS delivery of the card link.
func CheckerCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var req CheckerCheckoutRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	normalized, err := utils.NormalizePhoneNumber(req.Phone)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	var sample models.ResultCheckerPin
	if err := database.DB.Where("checker_type = ? AND status = ?", req.CheckerType, "available").First(&sample).Error; err != nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: fmt.Sprintf("%s checkers are out of stock", req.CheckerType)})
		return
	}

	tx := &models.Transaction{
		Reference:     utils.GenerateReference(),
		Amount:        sample.Price,
		ProductID:     sample.ID,
		ProductName:   req.CheckerType,
		ProductType:   "result_checker",
		CustomerPhone: normalized,
	}
	if req.Email != "" {
		tx.CustomerEmail = &req.Email
	}
	if uid, err := utils.ExtractUserIDFromRequest(r); err == nil && uid > 0 {
		tx.UserID = &uid
	}

	if err := database.DB.Create(tx).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create order"})
		return
	}

	client := &http.Client{Timeout: 20 * time.Second}
	initResp, err := utils.InitializePaystackTransaction(r.Context(), client, tx.Reference, req.Email, tx.Amount)
	if err != nil {
		log.Printf("[checkout] paystack init failed for %s: %v", tx.Reference, err)
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Payment initialization failed, please try again"})
		return
	}

	NotifyOrderStatus(tx, utils.EventOrderCreated, "")

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Order created", Data: checkoutResponse{
		Reference:        tx.Reference,
		Amount:           tx.Amount,
		AuthorizationURL: initResp.Data.AuthorizationURL,
	}})
}

// DispatchFulfillment pushes a paid order to the vendor (bundles) or assigns
// stock directly (result checkers). Called from the payment callback.
func DispatchFulfillment(ctx context.Context, tx *models.Transaction) {
	if tx.ProductType == "result_checker" {
		fulfillResultChecker(ctx, tx)
		return
	}

	var product models.Product
	if err := database.DB.First(&product, tx.ProductID).Error; err != nil {
		log.Printf("[fulfillment] product %d missing for %s", tx.ProductID, tx.Reference)
		return
	}

	items := []utils.VendorOrderItem{{Phone: tx.CustomerPhone, VendorCode: product.VendorCode}}
	if tx.IsBulkOrder && tx.PhoneNumbers != nil {
		var recipients []models.BulkRecipient
		if err := json.Unmarshal([]byte(*tx.PhoneNumbers), &recipients); err == nil && len(recipients) > 0 {
			items = items[:0]
			for _, rec := range recipients {
				code := product.VendorCode
				if rec.BundleID != 0 && rec.BundleID != product.ID {
					var override models.Product
					if err := database.DB.First(&override, rec.BundleID).Error; err == nil {
						code = override.VendorCode
					}
				}
				items = append(items, utils.VendorOrderItem{Phone: rec.Phone, VendorCode: code})
			}
		}
	}

	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := utils.SubmitVendorOrder(ctx, client, tx.Reference, items)
	if err != nil {
		log.Printf("[fulfillment] vendor submit failed for %s: %v", tx.Reference, err)
		// left pending; the reconcile cron retries via status polling once the
		// vendor has the order, and admins can resubmit otherwise
		return
	}

	updates := map[string]interface{}{"delivery_status": models.DeliveryProcessing, "vendor_ref": resp.OrderID}
	if err := database.DB.Model(&models.Transaction{}).Where("reference = ?", tx.Reference).Updates(updates).Error; err != nil {
		log.Printf("[fulfillment] failed to mark %s processing: %v", tx.Reference, err)
		return
	}
	tx.DeliveryStatus = models.DeliveryProcessing
	tx.VendorRef = &resp.OrderID
}

// fulfillResultChecker assigns an available PIN to the order, renders the card
// and completes delivery without a vendor round-trip.
func fulfillResultChecker(ctx context.Context, tx *models.Transaction) {
	var pin models.ResultCheckerPin
	err := database.DB.Transaction(func(dbtx *gorm.DB) error {
		claimed, err := claimAvailablePin(dbtx, tx.ProductName, tx.Reference)
		if err != nil {
			return err
		}
		pin = *claimed
		return nil
	})
	if err != nil {
		log.Printf("[fulfillment] no %s stock for %s: %v", tx.ProductName, tx.Reference, err)
		_ = ApplyDeliveryUpdate(tx, models.DeliveryFailed)
		return
	}

	var setting models.Setting
	_ = database.DB.First(&setting).Error
	card := utils.RenderCheckerCard(setting.StoreName, pin.CheckerType, pin.Serial, pin.Pin, tx.Reference)
	if url, err := utils.UploadCheckerCard(ctx, tx.Reference, pin.Serial, card); err != nil {
		log.Printf("[fulfillment] card upload failed for %s: %v", tx.Reference, err)
	} else {
		_ = database.DB.Model(&pin).Update("card_url", url).Error
	}

	_ = ApplyDeliveryUpdate(tx, models.DeliveryDelivered)
}

// availablePinQuery selects the oldest available pin of the given type with a
// row lock, so two orders paying at the same moment cannot both read the same
// pin inside their transactions.
func availablePinQuery(dbtx *gorm.DB, checkerType string) *gorm.DB {
	return dbtx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("checker_type = ? AND status = ?", checkerType, "available").
		Order("id ASC")
}

// claimAvailablePin marks the locked pin sold to the given reference. The
// status guard on the update means a pin that slipped to sold between reads
// surfaces as not found instead of being sold twice.
func claimAvailablePin(dbtx *gorm.DB, checkerType, reference string) (*models.ResultCheckerPin, error) {
	var pin models.ResultCheckerPin
	if err := availablePinQuery(dbtx, checkerType).First(&pin).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	res := dbtx.Model(&models.ResultCheckerPin{}).
		Where("id = ? AND status = ?", pin.ID, "available").
		Updates(map[string]interface{}{
			"status":   "sold",
			"sold_ref": reference,
			"sold_at":  now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	pin.Status = "sold"
	pin.SoldRef = &reference
	pin.SoldAt = &now
	return &pin, nil
}
