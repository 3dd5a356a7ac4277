package bills

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/billing/internal/platform/db"
	"github.com/medicore/billing/internal/platform/httperr"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const billCols = `bill_id, appointment_id, patient_id, doctor_id,
	amount, tax_amount, total_amount, status, bill_type, refund_policy,
	created_at, updated_at`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	err := row.Scan(&b.BillID, &b.AppointmentID, &b.PatientID, &b.DoctorID,
		&b.Amount, &b.TaxAmount, &b.TotalAmount, &b.Status, &b.BillType, &b.RefundPolicy,
		&b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

func (r *repoPG) Create(ctx context.Context, b *Bill) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO bills (appointment_id, patient_id, doctor_id,
			amount, tax_amount, total_amount, status, bill_type)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING bill_id, created_at, updated_at`,
		b.AppointmentID, b.PatientID, b.DoctorID,
		b.Amount, b.TaxAmount, b.TotalAmount, b.Status, b.BillType).
		Scan(&b.BillID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return httperr.DuplicateBill()
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

func (r *repoPG) getBy(ctx context.Context, column string, value int64, forUpdate bool) (*Bill, error) {
	query := `SELECT ` + billCols + ` FROM bills WHERE ` + column + ` = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	b, err := scanBill(r.conn(ctx).QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httperr.BillNotFound("Bill not found")
		}
		return nil, fmt.Errorf("query bill by %s: %w", column, err)
	}
	return b, nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Bill, error) {
	return r.getBy(ctx, "bill_id", id, false)
}

func (r *repoPG) GetByIDForUpdate(ctx context.Context, id int64) (*Bill, error) {
	return r.getBy(ctx, "bill_id", id, true)
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID int64) (*Bill, error) {
	return r.getBy(ctx, "appointment_id", appointmentID, false)
}

func (r *repoPG) GetByAppointmentForUpdate(ctx context.Context, appointmentID int64) (*Bill, error) {
	return r.getBy(ctx, "appointment_id", appointmentID, true)
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status Status, refundPolicy *RefundPolicy) (*Bill, error) {
	b, err := scanBill(r.conn(ctx).QueryRow(ctx, `
		UPDATE bills SET status = $2, refund_policy = $3, updated_at = NOW()
		WHERE bill_id = $1
		RETURNING `+billCols, id, status, refundPolicy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httperr.BillNotFound("Bill not found")
		}
		return nil, fmt.Errorf("update bill status: %w", err)
	}
	return b, nil
}

func (r *repoPG) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Bill, int, error) {
	where := ""
	args := []interface{}{}
	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		where += fmt.Sprintf(" AND patient_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM bills WHERE 1=1` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bills: %w", err)
	}

	args = append(args, limit, offset)
	pageQuery := fmt.Sprintf(`SELECT `+billCols+` FROM bills WHERE 1=1`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.conn(ctx).Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var items []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan bill: %w", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bills: %w", err)
	}
	return items, total, nil
}
