package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/xssnick/whisp/pkg/repo"
)

func (r *Repo) GetUserIDByPhone(ctx context.Context, phone uint64) (uint64, error) {
	var id uint64

	err := r.db.GetContext(ctx, &id, "SELECT id FROM users WHERE phone=$1", phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, repo.ErrNotFound
		}

		return 0, err
	}

	return id, nil
}

func (r *Repo) CreateUser(ctx context.Context, phone uint64) (uint64, error) {
	var id uint64

	err := r.db.GetContext(ctx, &id, "INSERT INTO users (phone,created_at) VALUES ($1,$2) RETURNING id", phone, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *Repo) GetUserProfile(ctx context.Context, id uint64) (*repo.UserProfile, error) {
	p := struct {
		Phone       uint64     `db:"phone"`
		Name        string     `db:"name"`
		About       string     `db:"about"`
		Reputation  int        `db:"reputation"`
		Balance     int64      `db:"balance"`
		RegFinished bool       `db:"reg_finished"`
		VIPUntil    *time.Time `db:"vip_until"`
		CreatedAt   time.Time  `db:"created_at"`
	}{}

	err := r.db.GetContext(ctx, &p, "SELECT phone,name,about,reputation,balance,reg_finished,vip_until,created_at FROM users WHERE id=$1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repo.ErrNotFound
		}

		return nil, err
	}

	return &repo.UserProfile{
		ID:          id,
		Phone:       p.Phone,
		Name:        p.Name,
		About:       p.About,
		Reputation:  p.Reputation,
		Balance:     p.Balance,
		VIPUntil:    p.VIPUntil,
		RegFinished: p.RegFinished,
		CreatedAt:   p.CreatedAt,
	}, nil
}

func (r *Repo) EditProfile(ctx context.Context, id uint64, data repo.UserEdit) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET name=$1,about=$2,reg_finished=true WHERE id=$3", data.Name, data.About, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repo) GetModerationState(ctx context.Context, id uint64) (repo.ModerationState, error) {
	var st struct {
		Banned     bool       `db:"banned"`
		MutedUntil *time.Time `db:"muted_until"`
	}

	err := r.db.GetContext(ctx, &st, "SELECT banned,muted_until FROM users WHERE id=$1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			// unknown user is not moderated
			return repo.ModerationState{}, nil
		}

		return repo.ModerationState{}, err
	}

	return repo.ModerationState{
		Banned:     st.Banned,
		MutedUntil: st.MutedUntil,
	}, nil
}

func (r *Repo) SetBanned(ctx context.Context, id uint64, banned bool) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET banned=$1 WHERE id=$2", banned, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repo) SetMuted(ctx context.Context, id uint64, until time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET muted_until=$1 WHERE id=$2", until.UTC(), id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repo) AdjustReputation(ctx context.Context, id uint64, delta int) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET reputation=reputation+$1 WHERE id=$2", delta, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repo) AddBalance(ctx context.Context, id uint64, amount int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET balance=balance+$1 WHERE id=$2", amount, id)
	if err != nil {
		return err
	}

	return nil
}

// GiveVIP extends an active vip period or starts a new one from now.
func (r *Repo) GiveVIP(ctx context.Context, id uint64, days int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET vip_until=(
	CASE WHEN vip_until IS NOT NULL AND vip_until > NOW() THEN vip_until ELSE NOW() END
	) + ($1 || ' days')::interval WHERE id=$2`, days, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]repo.UserListItem, error) {
	var users []struct {
		ID         uint64     `db:"id"`
		Name       string     `db:"name"`
		Reputation int        `db:"reputation"`
		Balance    int64      `db:"balance"`
		VIPUntil   *time.Time `db:"vip_until"`
		Banned     bool       `db:"banned"`
		MutedUntil *time.Time `db:"muted_until"`
	}

	err := r.db.SelectContext(ctx, &users, "SELECT id,name,reputation,balance,vip_until,banned,muted_until FROM users ORDER BY id ASC")
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	res := make([]repo.UserListItem, len(users))
	for i, v := range users {
		res[i] = repo.UserListItem{
			ID:         v.ID,
			Name:       v.Name,
			Reputation: v.Reputation,
			Balance:    v.Balance,
			VIPUntil:   v.VIPUntil,
			Banned:     v.Banned,
			MutedUntil: v.MutedUntil,
		}
	}

	return res, nil
}
