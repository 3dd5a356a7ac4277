package bills

import (
	"testing"

	"github.com/medicore/billing/internal/platform/httperr"
)

func TestDecidePayment(t *testing.T) {
	if err := DecidePayment(StatusOpen); err != nil {
		t.Fatalf("expected OPEN bill to accept payment, got %v", err)
	}

	tests := []struct {
		name    string
		current Status
		code    httperr.Code
	}{
		{"paid bill", StatusPaid, httperr.CodeAlreadyPaid},
		{"voided bill", StatusVoid, httperr.CodeBillVoided},
		{"refunded bill", StatusRefund, httperr.CodeBillVoided},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DecidePayment(tt.current)
			if err == nil {
				t.Fatal("expected error")
			}
			if !httperr.Is(err, tt.code) {
				t.Errorf("expected code %s, got %v", tt.code, err)
			}
		})
	}
}

func TestDecideCancellation_PaidBill(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		policy     RefundPolicy
		wantStatus Status
		wantRefund float64
	}{
		{"full refund returns total", 105, RefundPolicyFull, StatusRefund, 105},
		{"partial refund returns half", 200, RefundPolicyPartial, StatusRefund, 100},
		{"cancellation fee keeps money", 105, RefundPolicyCancellationFee, StatusVoid, 0},
		{"no refund keeps money", 105, RefundPolicyNone, StatusVoid, 0},
		{"unrecognized policy falls back to void", 105, RefundPolicy("SOMETHING_ELSE"), StatusVoid, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := DecideCancellation(StatusPaid, tt.total, tt.policy)
			if !out.Changed {
				t.Fatal("expected a transition for a PAID bill")
			}
			if out.NextStatus != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, out.NextStatus)
			}
			if out.RefundAmount != tt.wantRefund {
				t.Errorf("expected refund %.2f, got %.2f", tt.wantRefund, out.RefundAmount)
			}
		})
	}
}

func TestDecideCancellation_OpenBill(t *testing.T) {
	// An unpaid bill is voided no matter what policy is submitted.
	for _, policy := range []RefundPolicy{RefundPolicyFull, RefundPolicyPartial, RefundPolicyCancellationFee, RefundPolicyNone} {
		out := DecideCancellation(StatusOpen, 105, policy)
		if !out.Changed {
			t.Fatalf("policy %s: expected a transition for an OPEN bill", policy)
		}
		if out.NextStatus != StatusVoid {
			t.Errorf("policy %s: expected VOID, got %s", policy, out.NextStatus)
		}
		if out.RefundAmount != 0 {
			t.Errorf("policy %s: expected zero refund, got %.2f", policy, out.RefundAmount)
		}
	}
}

func TestDecideCancellation_TerminalIsNoOp(t *testing.T) {
	for _, current := range []Status{StatusVoid, StatusRefund} {
		out := DecideCancellation(current, 105, RefundPolicyFull)
		if out.Changed {
			t.Errorf("expected no transition from %s", current)
		}
		if out.NextStatus != current {
			t.Errorf("expected status to remain %s, got %s", current, out.NextStatus)
		}
		if out.RefundAmount != 0 {
			t.Errorf("expected zero refund from %s", current)
		}
	}
}
