// Package bills implements billing records for medical appointments: bill
// generation with tax, the payment and cancellation lifecycle, and paginated
// queries.
package bills

import (
	"time"
)

// Status is the lifecycle state of a bill.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusPaid   Status = "PAID"
	StatusVoid   Status = "VOID"
	StatusRefund Status = "REFUND"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusPaid, StatusVoid, StatusRefund:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusVoid || s == StatusRefund
}

// BillType categorizes what a bill charges for.
type BillType string

const (
	BillTypeConsultation    BillType = "CONSULTATION"
	BillTypeNoShowFee       BillType = "NO_SHOW_FEE"
	BillTypeCancellationFee BillType = "CANCELLATION_FEE"
)

func (t BillType) Valid() bool {
	switch t {
	case BillTypeConsultation, BillTypeNoShowFee, BillTypeCancellationFee:
		return true
	}
	return false
}

// RefundPolicy governs what happens to a paid bill when the appointment is
// cancelled.
type RefundPolicy string

const (
	RefundPolicyFull            RefundPolicy = "FULL_REFUND"
	RefundPolicyPartial         RefundPolicy = "PARTIAL_REFUND"
	RefundPolicyCancellationFee RefundPolicy = "CANCELLATION_FEE"
	RefundPolicyNone            RefundPolicy = "NO_REFUND"
)

func (p RefundPolicy) Valid() bool {
	switch p {
	case RefundPolicyFull, RefundPolicyPartial, RefundPolicyCancellationFee, RefundPolicyNone:
		return true
	}
	return false
}

// PartialRefundRate is the fraction of the total returned under
// PARTIAL_REFUND.
const PartialRefundRate = 0.5

// Bill maps to the bills table. One bill exists per appointment.
type Bill struct {
	BillID        int64         `db:"bill_id" json:"billId"`
	AppointmentID int64         `db:"appointment_id" json:"appointmentId"`
	PatientID     int64         `db:"patient_id" json:"patientId"`
	DoctorID      int64         `db:"doctor_id" json:"doctorId"`
	Amount        float64       `db:"amount" json:"amount"`
	TaxAmount     float64       `db:"tax_amount" json:"taxAmount"`
	TotalAmount   float64       `db:"total_amount" json:"totalAmount"`
	Status        Status        `db:"status" json:"status"`
	BillType      BillType      `db:"bill_type" json:"billType"`
	RefundPolicy  *RefundPolicy `db:"refund_policy" json:"refundPolicy,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}

// NewBill assembles an OPEN bill for an appointment, computing tax and total
// from the base amount once at creation.
func NewBill(appointmentID, patientID, doctorID int64, amount float64, billType BillType, taxRate float64) *Bill {
	tax := amount * taxRate
	return &Bill{
		AppointmentID: appointmentID,
		PatientID:     patientID,
		DoctorID:      doctorID,
		Amount:        amount,
		TaxAmount:     tax,
		TotalAmount:   amount + tax,
		Status:        StatusOpen,
		BillType:      billType,
	}
}
