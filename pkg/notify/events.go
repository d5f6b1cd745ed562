package notify

import (
	"sync"

	"github.com/xssnick/whisp/pkg/repo"
)

type Poller interface {
	PushEvent(id uint64)
}

// Events is the best-effort delivery channel: a bounded pending queue
// per user, drained by the long-poll endpoint. Notify never fails and
// never blocks the caller, a full queue drops the oldest entry.
type Events struct {
	poller  Poller
	limit   int
	lock    sync.Mutex
	pending map[uint64][]repo.Event
}

func NewEvents(poller Poller, limit int) *Events {
	if limit <= 0 {
		limit = 64
	}

	return &Events{
		poller:  poller,
		limit:   limit,
		pending: map[uint64][]repo.Event{},
	}
}

func (e *Events) Notify(uid uint64, ev repo.Event) {
	e.lock.Lock()
	q := append(e.pending[uid], ev)
	if len(q) > e.limit {
		q = q[len(q)-e.limit:]
	}
	e.pending[uid] = q
	e.lock.Unlock()

	e.poller.PushEvent(uid)
}

// Drain hands out and clears everything pending for the user.
func (e *Events) Drain(uid uint64) []repo.Event {
	e.lock.Lock()
	defer e.lock.Unlock()

	q := e.pending[uid]
	if len(q) == 0 {
		return nil
	}

	delete(e.pending, uid)

	return q
}
