package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/xssnick/whisp/pkg/repo"
)

func (r *Repo) CreateInvoice(ctx context.Context, id string, user uint64, amount int64) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO invoices (id,user_id,amount,created_at) VALUES ($1,$2,$3,$4)", id, user, amount, time.Now().UTC())
	if err != nil {
		return err
	}

	return nil
}

func (r *Repo) GetInvoice(ctx context.Context, id string) (*repo.Invoice, error) {
	var inv struct {
		UserID    uint64    `db:"user_id"`
		Amount    int64     `db:"amount"`
		Paid      bool      `db:"paid"`
		CreatedAt time.Time `db:"created_at"`
	}

	err := r.db.GetContext(ctx, &inv, "SELECT user_id,amount,paid,created_at FROM invoices WHERE id=$1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repo.ErrNotFound
		}

		return nil, err
	}

	return &repo.Invoice{
		ID:        id,
		UserID:    inv.UserID,
		Amount:    inv.Amount,
		Paid:      inv.Paid,
		CreatedAt: inv.CreatedAt,
	}, nil
}

// MarkInvoicePaid flips an unpaid invoice and reports who gets credited.
// Second call on the same invoice returns ErrNotFound.
func (r *Repo) MarkInvoicePaid(ctx context.Context, id string) (uint64, int64, error) {
	var inv struct {
		UserID uint64 `db:"user_id"`
		Amount int64  `db:"amount"`
	}

	err := r.db.GetContext(ctx, &inv, "UPDATE invoices SET paid=true WHERE id=$1 AND paid=false RETURNING user_id,amount", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, 0, repo.ErrNotFound
		}

		return 0, 0, err
	}

	return inv.UserID, inv.Amount, nil
}

func (r *Repo) CreateComplaint(ctx context.Context, complainer, target uint64, reason string) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO complaints (complainer,target,reason,created_at) VALUES ($1,$2,$3,$4)", complainer, target, reason, time.Now().UTC())
	if err != nil {
		return err
	}

	return nil
}

func (r *Repo) ListComplaints(ctx context.Context, unhandledOnly bool) ([]repo.Complaint, error) {
	var items []struct {
		ID         uint64    `db:"id"`
		Complainer uint64    `db:"complainer"`
		Target     uint64    `db:"target"`
		Reason     string    `db:"reason"`
		Handled    bool      `db:"handled"`
		CreatedAt  time.Time `db:"created_at"`
	}

	err := r.db.SelectContext(ctx, &items, "SELECT id,complainer,target,reason,handled,created_at FROM complaints WHERE handled=false OR $1=false ORDER BY created_at ASC", unhandledOnly)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	res := make([]repo.Complaint, len(items))
	for i, v := range items {
		res[i] = repo.Complaint{
			ID:         v.ID,
			Complainer: v.Complainer,
			Target:     v.Target,
			Reason:     v.Reason,
			Handled:    v.Handled,
			CreatedAt:  v.CreatedAt,
		}
	}

	return res, nil
}

func (r *Repo) MarkComplaintHandled(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE complaints SET handled=true WHERE id=$1", id)
	if err != nil {
		return err
	}

	return nil
}
