package pairing

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/xssnick/whisp/pkg/repo"
)

type Gate interface {
	Check(ctx context.Context, uid uint64) error
}

type waiting struct {
	uid   uint64
	kind  Kind
	since time.Time
}

type Config struct {
	Gate Gate
}

// Hub owns the waiting queue and the session table. Both are mutated
// only under one mutex, so enqueue+match+bind and unbind are single
// atomic steps and a user can never be consumed by two matches at once.
type Hub struct {
	gate Gate

	mx       sync.Mutex
	queue    []waiting
	sessions map[uint64]*Session
	rnd      *rand.Rand
}

func NewHub(cfg Config) *Hub {
	return &Hub{
		gate:     cfg.Gate,
		sessions: map[uint64]*Session{},
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Find enqueues the user and immediately tries to match. Returns the
// created session when a partner was waiting, nil when the user is now
// in search. Re-enqueue of an already waiting user replaces the old
// entry (last write wins).
func (h *Hub) Find(ctx context.Context, uid uint64, kind Kind) (*Session, error) {
	if err := h.gate.Check(ctx, uid); err != nil {
		return nil, err
	}

	h.mx.Lock()
	defer h.mx.Unlock()

	if h.sessions[uid] != nil {
		return nil, repo.ErrAlreadyBound
	}

	h.removeWaiting(uid, kind)

	other, ok := h.earliest(uid, kind)
	if !ok {
		h.queue = append(h.queue, waiting{
			uid:   uid,
			kind:  kind,
			since: time.Now(),
		})

		return nil, nil
	}

	// other enqueued first, uid is the one that completed the pair
	s := h.bind(other.uid, uid, kind)

	log.Println("matched", s.Kind, other.uid, uid)

	return s, nil
}

// earliest picks the oldest waiting entry of the kind, excluding the
// caller. Equal timestamps break by lowest uid.
func (h *Hub) earliest(uid uint64, kind Kind) (waiting, bool) {
	var best waiting
	var found bool

	for _, w := range h.queue {
		if w.kind != kind || w.uid == uid {
			continue
		}

		if !found || w.since.Before(best.since) ||
			(w.since.Equal(best.since) && w.uid < best.uid) {
			best = w
			found = true
		}
	}

	return best, found
}

// bind consumes every waiting entry of both users and creates the
// mutual session. Callers hold the mutex and have verified neither
// side is bound.
func (h *Hub) bind(a, b uint64, kind Kind) *Session {
	h.removeWaitingAll(a)
	h.removeWaitingAll(b)

	s := &Session{
		A:         a,
		B:         b,
		Kind:      kind,
		StartedAt: time.Now(),
	}

	switch kind {
	case KindRPS:
		s.Game = &RPSGame{}
	case KindGuess:
		s.Game = &GuessGame{
			Secret: 1 + h.rnd.Intn(10),
			Setter: a,
		}
	}

	h.sessions[a] = s
	h.sessions[b] = s

	return s
}

func (h *Hub) removeWaiting(uid uint64, kind Kind) bool {
	for i := range h.queue {
		if h.queue[i].uid == uid && h.queue[i].kind == kind {
			h.queue = append(h.queue[:i], h.queue[i+1:]...)
			return true
		}
	}

	return false
}

func (h *Hub) removeWaitingAll(uid uint64) {
	q := h.queue[:0]
	for _, w := range h.queue {
		if w.uid != uid {
			q = append(q, w)
		}
	}
	h.queue = q
}

func (h *Hub) Cancel(uid uint64, kind Kind) error {
	h.mx.Lock()
	defer h.mx.Unlock()

	if !h.removeWaiting(uid, kind) {
		return repo.ErrNotWaiting
	}

	return nil
}

// Waiting reports the kind the user is currently searching for.
func (h *Hub) Waiting(uid uint64) (Kind, bool) {
	h.mx.Lock()
	defer h.mx.Unlock()

	for _, w := range h.queue {
		if w.uid == uid {
			return w.kind, true
		}
	}

	return 0, false
}

// Get returns a snapshot of the user's session. Game state must only
// be touched through Update.
func (h *Hub) Get(uid uint64) (Session, bool) {
	h.mx.Lock()
	defer h.mx.Unlock()

	s := h.sessions[uid]
	if s == nil {
		return Session{}, false
	}

	return *s, true
}

// Unbind removes both sides of the user's session. Returns the peer
// and the torn-down session's kind so the caller can notify the peer
// correctly without a second racy lookup.
func (h *Hub) Unbind(uid uint64) (uint64, Kind, error) {
	h.mx.Lock()
	defer h.mx.Unlock()

	s := h.sessions[uid]
	if s == nil {
		return 0, 0, repo.ErrNotBound
	}

	peer := s.Peer(uid)
	delete(h.sessions, uid)
	delete(h.sessions, peer)

	return peer, s.Kind, nil
}

// UnbindAll forcibly removes any session and any waiting entries of the
// user. Used when a user is banned. Returns the affected peer and the
// session kind, if any.
func (h *Hub) UnbindAll(uid uint64) (uint64, Kind, bool) {
	h.mx.Lock()
	defer h.mx.Unlock()

	h.removeWaitingAll(uid)

	s := h.sessions[uid]
	if s == nil {
		return 0, 0, false
	}

	peer := s.Peer(uid)
	delete(h.sessions, uid)
	delete(h.sessions, peer)

	return peer, s.Kind, true
}

// Update runs fn on the user's session inside the critical section, so
// a game move and its check-and-resolve are one atomic step. When fn
// reports done, both sides are unbound before the lock is released.
// A half-missing pair is treated as the peer being gone: the remaining
// side is cleaned up and ErrPeerGone returned.
func (h *Hub) Update(uid uint64, fn func(s *Session) (bool, error)) (Session, error) {
	h.mx.Lock()
	defer h.mx.Unlock()

	s := h.sessions[uid]
	if s == nil {
		return Session{}, repo.ErrNotBound
	}

	peer := s.Peer(uid)
	if h.sessions[peer] != s {
		delete(h.sessions, uid)
		return *s, repo.ErrPeerGone
	}

	done, err := fn(s)
	if done {
		delete(h.sessions, uid)
		delete(h.sessions, peer)
	}

	return *s, err
}
