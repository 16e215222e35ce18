package controllers

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"smartdata/models"
	"smartdata/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func bundleCatalogue(products ...models.Product) func(uint) (*models.Product, error) {
	return func(id uint) (*models.Product, error) {
		for i := range products {
			if products[i].ID == id {
				return &products[i], nil
			}
		}
		return nil, fmt.Errorf("product %d not found", id)
	}
}

func TestExpandBulkRecipientsPricesOverrides(t *testing.T) {
	base := models.Product{ID: 3, Name: "MTN 1GB", Network: utils.NetworkMTN, Price: 5.00}
	big := models.Product{ID: 9, Name: "MTN 5GB", Network: utils.NetworkMTN, Price: 12.00}

	in := []models.BulkRecipient{
		{Phone: "0244000001"},
		{Phone: "0244000002", BundleID: 9},
		{Phone: "0550000003", BundleID: 9},
	}

	recipients, items, total, err := expandBulkRecipients(&base, in, bundleCatalogue(big))
	if err != nil {
		t.Fatalf("expandBulkRecipients: %v", err)
	}
	if want := 5.00 + 12.00 + 12.00; total != want {
		t.Fatalf("total = %.2f, want %.2f", total, want)
	}
	if len(recipients) != 3 || len(items) != 3 {
		t.Fatalf("got %d recipients and %d items, want 3 each", len(recipients), len(items))
	}
	if recipients[0].BundleID != base.ID || recipients[0].BundleName != base.Name {
		t.Errorf("recipient 0 resolved to %d %q, want the base bundle", recipients[0].BundleID, recipients[0].BundleName)
	}
	if recipients[1].BundleID != big.ID || recipients[1].BundleName != big.Name {
		t.Errorf("recipient 1 resolved to %d %q, want the override bundle", recipients[1].BundleID, recipients[1].BundleName)
	}
	if items[2].Price != big.Price {
		t.Errorf("item 2 price = %.2f, want %.2f", items[2].Price, big.Price)
	}
}

func TestExpandBulkRecipientsChecksOverrideCarrier(t *testing.T) {
	base := models.Product{ID: 3, Name: "MTN 1GB", Network: utils.NetworkMTN, Price: 5.00}
	telecel := models.Product{ID: 7, Name: "Telecel 2GB", Network: utils.NetworkTelecel, Price: 8.00}

	// The phone is an MTN number, so the Telecel override must be rejected
	// even though the base bundle would accept it.
	in := []models.BulkRecipient{{Phone: "0244000001", BundleID: 7}}
	if _, _, _, err := expandBulkRecipients(&base, in, bundleCatalogue(telecel)); err == nil {
		t.Fatal("expected a carrier mismatch error for the override bundle")
	}
}

func TestExpandBulkRecipientsRejectsUnknownOverride(t *testing.T) {
	base := models.Product{ID: 3, Name: "MTN 1GB", Network: utils.NetworkMTN, Price: 5.00}

	in := []models.BulkRecipient{{Phone: "0244000001", BundleID: 42}}
	_, _, _, err := expandBulkRecipients(&base, in, bundleCatalogue())
	if err == nil {
		t.Fatal("expected an error for an override to a missing bundle")
	}
	if !strings.Contains(err.Error(), "not available") {
		t.Errorf("error = %q, want it to say the bundle is not available", err)
	}
}

func TestBuildBundleOrderRequiresExactlyOneRecipientField(t *testing.T) {
	base := models.Product{ID: 3, Name: "MTN 1GB", Network: utils.NetworkMTN, Price: 5.00}

	if _, _, _, err := BuildBundleOrder(&base, &CheckoutRequest{ProductID: 3}); err == nil {
		t.Error("expected an error when neither phone nor phone_numbers is set")
	}
	req := &CheckoutRequest{
		ProductID:    3,
		Phone:        "0244000001",
		PhoneNumbers: []models.BulkRecipient{{Phone: "0244000002"}},
	}
	if _, _, _, err := BuildBundleOrder(&base, req); err == nil {
		t.Error("expected an error when both phone and phone_numbers are set")
	}
}

func TestAvailablePinQueryLocksRow(t *testing.T) {
	db := dryRunDB(t)

	var pin models.ResultCheckerPin
	stmt := availablePinQuery(db, "WASSCE").Find(&pin)
	sql := stmt.Statement.SQL.String()
	if !strings.Contains(sql, "FOR UPDATE") {
		t.Fatalf("pin selection must lock the row, got %q", sql)
	}
	if !strings.Contains(sql, "status") {
		t.Fatalf("pin selection must filter on status, got %q", sql)
	}
}

func TestClaimAvailablePinGuardsOnStatus(t *testing.T) {
	// A dry-run update matches no rows, which is exactly what a pin flipping
	// to sold between the read and the write looks like. The claim must
	// surface that as not found rather than report the pin as sold.
	db := dryRunDB(t)

	_, err := claimAvailablePin(db, "WASSCE", "TX-1")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want gorm.ErrRecordNotFound", err)
	}
}
