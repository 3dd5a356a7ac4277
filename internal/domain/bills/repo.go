package bills

import "context"

// ListFilter narrows List results. Nil fields are ignored.
type ListFilter struct {
	PatientID *int64
	Status    *Status
}

// Repository is the bill store contract. The ForUpdate variants lock the row
// and are only meaningful inside a transaction.
type Repository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id int64) (*Bill, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*Bill, error)
	GetByAppointment(ctx context.Context, appointmentID int64) (*Bill, error)
	GetByAppointmentForUpdate(ctx context.Context, appointmentID int64) (*Bill, error)
	UpdateStatus(ctx context.Context, id int64, status Status, refundPolicy *RefundPolicy) (*Bill, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Bill, int, error)
}
