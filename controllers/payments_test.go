package controllers

import (
	"strings"
	"testing"

	"smartdata/models"
)

func TestPaymentSettled(t *testing.T) {
	cases := []struct {
		name string
		tx   models.Transaction
		want bool
	}{
		{"pending order", models.Transaction{Status: models.StatusPending, PaymentStatus: models.PaymentPending}, false},
		{"already paid", models.Transaction{Status: models.StatusPending, PaymentStatus: models.PaymentPaid}, true},
		{"payment failed", models.Transaction{Status: models.StatusFailed, PaymentStatus: models.PaymentFailed}, true},
		{"terminal order", models.Transaction{Status: models.StatusCompleted, PaymentStatus: models.PaymentPending}, true},
	}
	for _, tc := range cases {
		if got := paymentSettled(&tc.tx); got != tc.want {
			t.Errorf("%s: paymentSettled = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPendingPaymentScopeGuardsTransition(t *testing.T) {
	db := dryRunDB(t)

	var rows []models.Transaction
	stmt := pendingPaymentScope(db, "TX-1").Find(&rows)
	sql := stmt.Statement.SQL.String()
	if !strings.Contains(sql, "reference = ?") || !strings.Contains(sql, "payment_status = ?") {
		t.Fatalf("settlement must be guarded on reference and pending payment status, got %q", sql)
	}
	found := false
	for _, v := range stmt.Statement.Vars {
		if v == models.PaymentPending {
			found = true
		}
	}
	if !found {
		t.Fatalf("settlement guard must bind the pending status, vars = %v", stmt.Statement.Vars)
	}
}

func TestSettlePaymentReportsLostRace(t *testing.T) {
	// A dry-run update touches no rows, same as a webhook redelivery arriving
	// after another delivery already settled the payment. The caller must see
	// won=false and skip fulfilment.
	db := dryRunDB(t)

	won, err := settlePayment(db, "TX-1", map[string]interface{}{"payment_status": models.PaymentPaid})
	if err != nil {
		t.Fatalf("settlePayment: %v", err)
	}
	if won {
		t.Fatal("settlePayment reported a win with zero rows affected")
	}
}
