package bills

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/medicore/billing/internal/platform/db"
	"github.com/medicore/billing/internal/platform/httperr"
	"github.com/medicore/billing/internal/platform/notifier"
)

// Service orchestrates bill mutations. Every mutation runs in a single
// transaction with the target row locked; notifications go out only after
// the transaction has committed.
type Service struct {
	repo     Repository
	tx       db.Runner
	notifier notifier.Notifier
	taxRate  float64
	logger   zerolog.Logger
}

func NewService(repo Repository, tx db.Runner, n notifier.Notifier, taxRate float64, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		tx:       tx,
		notifier: n,
		taxRate:  taxRate,
		logger:   logger,
	}
}

// GenerateInput carries the validated fields for bill generation.
type GenerateInput struct {
	AppointmentID int64
	PatientID     int64
	DoctorID      int64
	Amount        float64
	BillType      BillType
}

// Generate creates the bill for an appointment. The unique constraint on
// appointment_id makes concurrent generation safe: exactly one insert wins,
// the rest surface as DuplicateBill.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*Bill, error) {
	bill := NewBill(in.AppointmentID, in.PatientID, in.DoctorID, in.Amount, in.BillType, s.taxRate)

	err := s.tx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, bill)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("bill_id", bill.BillID).
		Int64("appointment_id", bill.AppointmentID).
		Float64("total_amount", bill.TotalAmount).
		Msg("bill generated")

	s.notify(ctx, notifier.Event{
		Type:      notifier.EventBillGenerated,
		PatientID: bill.PatientID,
		Message:   fmt.Sprintf("Bill generated for appointment %d. Total amount: $%.2f", bill.AppointmentID, bill.TotalAmount),
		Metadata:  map[string]interface{}{"bill_id": bill.BillID},
	})

	return bill, nil
}

// MarkPaid transitions an OPEN bill to PAID, recording the gateway payment id.
func (s *Service) MarkPaid(ctx context.Context, id, paymentID int64) (*Bill, error) {
	var bill *Bill
	err := s.tx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := DecidePayment(current.Status); err != nil {
			return err
		}
		bill, err = s.repo.UpdateStatus(ctx, current.BillID, StatusPaid, current.RefundPolicy)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("bill_id", bill.BillID).
		Int64("payment_id", paymentID).
		Msg("bill paid")

	s.notify(ctx, notifier.Event{
		Type:      notifier.EventBillPaid,
		PatientID: bill.PatientID,
		Message:   fmt.Sprintf("Payment received for bill %d. Amount: $%.2f", bill.BillID, bill.TotalAmount),
		Metadata:  map[string]interface{}{"bill_id": bill.BillID, "payment_id": paymentID},
	})

	return bill, nil
}

// CancelResult reports what a cancellation did. When no bill exists for the
// appointment, Acknowledged is true and Bill is nil; RefundAmount is only
// meaningful when HasRefund is set.
type CancelResult struct {
	Bill         *Bill
	RefundAmount float64
	HasRefund    bool
	Acknowledged bool
}

// Cancel processes an appointment cancellation against its bill, applying
// the refund policy. A cancellation with no bill on file succeeds as a
// recorded no-op. Bills already VOID or REFUND are returned unchanged.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, policy RefundPolicy) (*CancelResult, error) {
	var result CancelResult
	var outcome CancelOutcome

	err := s.tx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByAppointmentForUpdate(ctx, appointmentID)
		if err != nil {
			if httperr.Is(err, httperr.CodeBillNotFound) {
				result.Acknowledged = true
				return nil
			}
			return err
		}

		outcome = DecideCancellation(current.Status, current.TotalAmount, policy)
		if !outcome.Changed {
			result.Bill = current
			return nil
		}

		updated, err := s.repo.UpdateStatus(ctx, current.BillID, outcome.NextStatus, &policy)
		if err != nil {
			return err
		}
		result.Bill = updated
		if outcome.NextStatus == StatusRefund {
			result.RefundAmount = outcome.RefundAmount
			result.HasRefund = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Acknowledged {
		s.logger.Info().
			Int64("appointment_id", appointmentID).
			Str("refund_policy", string(policy)).
			Msg("cancellation recorded, no bill to process")
		return &result, nil
	}

	if !outcome.Changed {
		s.logger.Info().
			Int64("bill_id", result.Bill.BillID).
			Str("status", string(result.Bill.Status)).
			Msg("cancellation ignored, bill already settled")
		return &result, nil
	}

	s.logger.Info().
		Int64("bill_id", result.Bill.BillID).
		Str("status", string(result.Bill.Status)).
		Float64("refund_amount", result.RefundAmount).
		Msg("bill cancelled")

	if result.HasRefund {
		s.notify(ctx, notifier.Event{
			Type:      notifier.EventBillRefunded,
			PatientID: result.Bill.PatientID,
			Message:   fmt.Sprintf("Refund of $%.2f issued for bill %d", result.RefundAmount, result.Bill.BillID),
			Metadata:  map[string]interface{}{"bill_id": result.Bill.BillID, "refund_amount": result.RefundAmount},
		})
	} else {
		s.notify(ctx, notifier.Event{
			Type:      notifier.EventBillCancelled,
			PatientID: result.Bill.PatientID,
			Message:   fmt.Sprintf("Bill %d has been cancelled", result.Bill.BillID),
			Metadata:  map[string]interface{}{"bill_id": result.Bill.BillID},
		})
	}

	return &result, nil
}

// Get returns a single bill by id.
func (s *Service) Get(ctx context.Context, id int64) (*Bill, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByAppointment returns the bill for an appointment.
func (s *Service) GetByAppointment(ctx context.Context, appointmentID int64) (*Bill, error) {
	return s.repo.GetByAppointment(ctx, appointmentID)
}

// List returns a page of bills plus the total match count.
func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Bill, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// notify delivers a lifecycle event after commit. Failures are logged and
// swallowed, the billing state change already happened.
func (s *Service) notify(ctx context.Context, event notifier.Event) {
	if err := s.notifier.Notify(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn().
			Err(err).
			Str("event", event.Type).
			Int64("patient_id", event.PatientID).
			Msg("notification delivery failed")
	}
}
