package domain

import "testing"

// TestDeriveTransactionID tests the reference-plus-suffix id scheme
func TestDeriveTransactionID(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		suffix    string
		expected  string
	}{
		{name: "capture", reference: "123456", suffix: SuffixCapture, expected: "123456-CAPTURE"},
		{name: "refund", reference: "123456", suffix: SuffixRefund, expected: "123456-REFUND"},
		{name: "void", reference: "123456", suffix: SuffixVoid, expected: "123456-VOID"},
		{name: "instant_capture", reference: "123456", suffix: SuffixInstantCapture, expected: "123456-INSTANT_CAPTURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTransactionID(tt.reference, tt.suffix); got != tt.expected {
				t.Errorf("DeriveTransactionID(%q, %q) = %q, want %q", tt.reference, tt.suffix, got, tt.expected)
			}
		})
	}
}

// TestNewPaymentRecord tests record construction from a window callback
func TestNewPaymentRecord(t *testing.T) {
	record := NewPaymentRecord("100000123", "987654", true)

	if record.OrderID != "100000123" {
		t.Errorf("OrderID = %q", record.OrderID)
	}
	if record.Reference != "987654" {
		t.Errorf("Reference = %q", record.Reference)
	}
	if !record.InstantCapture {
		t.Error("InstantCapture = false, want true")
	}
	if record.Closed {
		t.Error("new record must not be closed")
	}
	if record.TransactionID != "" {
		t.Errorf("TransactionID = %q, want empty before any action", record.TransactionID)
	}
	if record.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("record ID was not generated")
	}
}

// TestPaymentRecord_HasReference tests eligibility's reference check
func TestPaymentRecord_HasReference(t *testing.T) {
	var nilRecord *PaymentRecord
	if nilRecord.HasReference() {
		t.Error("nil record must not have a reference")
	}

	empty := &PaymentRecord{OrderID: "100000123"}
	if empty.HasReference() {
		t.Error("record without reference must report false")
	}

	withRef := NewPaymentRecord("100000123", "987654", false)
	if !withRef.HasReference() {
		t.Error("record with reference must report true")
	}
}

// TestPaymentRecord_ApplyAction tests the derived id, parent link and closed
// flag after a validated action
func TestPaymentRecord_ApplyAction(t *testing.T) {
	record := NewPaymentRecord("100000123", "987654", false)
	before := record.UpdatedAt

	record.ApplyAction(SuffixCapture)

	if record.TransactionID != "987654-CAPTURE" {
		t.Errorf("TransactionID = %q, want %q", record.TransactionID, "987654-CAPTURE")
	}
	if record.ParentTransactionID != "987654" {
		t.Errorf("ParentTransactionID = %q, want the original reference", record.ParentTransactionID)
	}
	if !record.Closed {
		t.Error("record must be closed after an applied action")
	}
	if record.Reference != "987654" {
		t.Errorf("Reference = %q, the reference must never be mutated", record.Reference)
	}
	if record.UpdatedAt.Before(before) {
		t.Error("UpdatedAt went backwards")
	}
}

// TestOrder_RemoveSurchargeItem tests removal of the surcharge fee line
func TestOrder_RemoveSurchargeItem(t *testing.T) {
	order := &Order{Items: []OrderItem{
		{SKU: "widget-1"},
		{SKU: SurchargeSKU},
		{SKU: "widget-2"},
	}}

	if !order.RemoveSurchargeItem() {
		t.Fatal("expected surcharge line to be removed")
	}
	if len(order.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(order.Items))
	}
	for _, item := range order.Items {
		if item.SKU == SurchargeSKU {
			t.Error("surcharge line still present")
		}
	}

	if order.RemoveSurchargeItem() {
		t.Error("second removal must report false")
	}
}
