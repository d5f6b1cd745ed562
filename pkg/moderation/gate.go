package moderation

import (
	"context"
	"time"

	"github.com/xssnick/whisp/pkg/repo"
)

type Repo interface {
	GetModerationState(ctx context.Context, id uint64) (repo.ModerationState, error)
}

// Gate answers whether a user may act right now. It is a pure query
// against repo state, callers re-check on every inbound action since
// ban and mute can land mid-session.
type Gate struct {
	repo Repo
}

func NewGate(r Repo) *Gate {
	return &Gate{repo: r}
}

// Check returns nil, repo.ErrBanned or repo.ErrMuted. An expired mute
// counts as allowed.
func (g *Gate) Check(ctx context.Context, uid uint64) error {
	st, err := g.repo.GetModerationState(ctx, uid)
	if err != nil {
		return err
	}

	if st.Banned {
		return repo.ErrBanned
	}

	if st.MutedUntil != nil && time.Now().Before(*st.MutedUntil) {
		return repo.ErrMuted
	}

	return nil
}
