package relay

import (
	"context"
	"log"

	"github.com/xssnick/whisp/pkg/pairing"
	"github.com/xssnick/whisp/pkg/repo"
)

type Sessions interface {
	Get(uid uint64) (pairing.Session, bool)
	Unbind(uid uint64) (uint64, pairing.Kind, error)
}

type Gate interface {
	Check(ctx context.Context, uid uint64) error
}

type Notifier interface {
	Notify(uid uint64, e repo.Event)
}

// Relay forwards opaque content between the two sides of a chat
// session. It never looks inside the payload, only checks that the
// kind is one it knows how to deliver.
type Relay struct {
	sessions Sessions
	gate     Gate
	notifier Notifier
}

func NewRelay(sessions Sessions, gate Gate, notifier Notifier) *Relay {
	return &Relay{
		sessions: sessions,
		gate:     gate,
		notifier: notifier,
	}
}

func supported(kind string) bool {
	switch kind {
	case repo.ContentText, repo.ContentPhoto, repo.ContentSticker,
		repo.ContentVoice, repo.ContentVideo:
		return true
	}

	return false
}

// Route delivers content from the sender to their bound peer. Returns
// the peer id on delivery. Mute suppresses delivery without touching
// the session.
func (r *Relay) Route(ctx context.Context, sender uint64, c repo.Content) (uint64, error) {
	s, ok := r.sessions.Get(sender)
	if !ok || s.Kind != pairing.KindChat {
		return 0, repo.ErrNotBound
	}

	if err := r.gate.Check(ctx, sender); err != nil {
		return 0, err
	}

	if !supported(c.Kind) {
		return 0, repo.ErrUnsupportedContent
	}

	peer := s.Peer(sender)

	cc := c
	r.notifier.Notify(peer, repo.Event{
		Type:    repo.EventMessage,
		Content: &cc,
	})

	return peer, nil
}

// Stop tears the sender's session down and tells the peer the partner
// left. A stopped game ends abnormally for the peer. The event kind
// comes from Unbind itself, a separate Get snapshot can race with a
// concurrent teardown.
func (r *Relay) Stop(ctx context.Context, uid uint64) (uint64, error) {
	peer, kind, err := r.sessions.Unbind(uid)
	if err != nil {
		return 0, err
	}

	log.Println("session stopped", uid, "peer", peer)

	ev := repo.Event{Type: repo.EventPartnerLeft}
	if kind != pairing.KindChat {
		ev = repo.Event{
			Type: repo.EventGameAborted,
			Kind: kind.String(),
			Text: "partner left the game",
		}
	}

	r.notifier.Notify(peer, ev)

	return peer, nil
}
