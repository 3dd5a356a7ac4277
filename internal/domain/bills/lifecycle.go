package bills

import "github.com/medicore/billing/internal/platform/httperr"

// DecidePayment checks whether a bill in the given status may be marked
// paid. Only OPEN bills accept payment.
func DecidePayment(current Status) error {
	switch current {
	case StatusOpen:
		return nil
	case StatusPaid:
		return httperr.AlreadyPaid()
	case StatusVoid:
		return httperr.BillVoided("Bill has been voided")
	case StatusRefund:
		return httperr.BillVoided("Bill has been refunded")
	default:
		return httperr.BillVoided("Bill is not payable")
	}
}

// CancelOutcome is the decision for a cancellation against a bill's current
// state. When Changed is false the bill stays as it is.
type CancelOutcome struct {
	NextStatus   Status
	RefundAmount float64
	Changed      bool
}

// DecideCancellation applies the cancellation policy to the bill's current
// state:
//
//	OPEN bills are voided regardless of policy, nothing was charged yet.
//	PAID bills follow the refund policy: FULL_REFUND returns the total,
//	PARTIAL_REFUND returns half, and any other policy voids with no refund.
//	VOID and REFUND bills are left untouched.
func DecideCancellation(current Status, totalAmount float64, policy RefundPolicy) CancelOutcome {
	if current.Terminal() {
		return CancelOutcome{NextStatus: current}
	}

	if current == StatusPaid {
		switch policy {
		case RefundPolicyFull:
			return CancelOutcome{NextStatus: StatusRefund, RefundAmount: totalAmount, Changed: true}
		case RefundPolicyPartial:
			return CancelOutcome{NextStatus: StatusRefund, RefundAmount: totalAmount * PartialRefundRate, Changed: true}
		default:
			// CANCELLATION_FEE, NO_REFUND, and anything unrecognized keep
			// the money and void the bill.
			return CancelOutcome{NextStatus: StatusVoid, Changed: true}
		}
	}

	return CancelOutcome{NextStatus: StatusVoid, Changed: true}
}
