package bills

import (
	"math"
	"testing"
)

func TestNewBill_ComputesTaxAndTotal(t *testing.T) {
	b := NewBill(7, 42, 3, 100, BillTypeConsultation, 0.05)

	if b.Amount != 100 {
		t.Errorf("expected amount 100, got %v", b.Amount)
	}
	if math.Abs(b.TaxAmount-5) > 1e-9 {
		t.Errorf("expected tax 5, got %v", b.TaxAmount)
	}
	if math.Abs(b.TotalAmount-105) > 1e-9 {
		t.Errorf("expected total 105, got %v", b.TotalAmount)
	}
	if b.Status != StatusOpen {
		t.Errorf("expected new bill to be OPEN, got %s", b.Status)
	}
	if b.RefundPolicy != nil {
		t.Error("expected new bill to carry no refund policy")
	}
}

func TestNewBill_ZeroTaxRate(t *testing.T) {
	b := NewBill(1, 2, 3, 80, BillTypeNoShowFee, 0)
	if b.TaxAmount != 0 {
		t.Errorf("expected zero tax, got %v", b.TaxAmount)
	}
	if b.TotalAmount != 80 {
		t.Errorf("expected total 80, got %v", b.TotalAmount)
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusOpen.Terminal() || StatusPaid.Terminal() {
		t.Error("OPEN and PAID must allow further transitions")
	}
	if !StatusVoid.Terminal() || !StatusRefund.Terminal() {
		t.Error("VOID and REFUND must be terminal")
	}
}

func TestEnums_Valid(t *testing.T) {
	if !StatusPaid.Valid() || Status("BOGUS").Valid() {
		t.Error("Status.Valid misclassified a value")
	}
	if !BillTypeCancellationFee.Valid() || BillType("BOGUS").Valid() {
		t.Error("BillType.Valid misclassified a value")
	}
	if !RefundPolicyPartial.Valid() || RefundPolicy("BOGUS").Valid() {
		t.Error("RefundPolicy.Valid misclassified a value")
	}
}
