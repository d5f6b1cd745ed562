package typing

import (
	"sync"
	"time"
)

type Poller interface {
	PushEvent(id uint64)
}

type mark struct {
	tm time.Time
}

// Typer carries "partner is typing" through to the watching side of a
// chat session. Marks expire on their own so a vanished client stops
// showing as typing.
type Typer struct {
	poller  Poller
	ttl     time.Duration
	lock    sync.RWMutex
	active  map[uint64]mark
	stopper chan bool
}

func NewTyper(poller Poller, ttl time.Duration) *Typer {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}

	return &Typer{
		poller:  poller,
		ttl:     ttl,
		active:  map[uint64]mark{},
		stopper: make(chan bool),
	}
}

func (t *Typer) Cleaner() {
	for {
		select {
		case <-t.stopper:
			return
		case <-time.After(1 * time.Second):
		}

		now := time.Now()
		expired := make([]uint64, 0, 8)

		t.lock.RLock()
		for watcher, m := range t.active {
			if now.Sub(m.tm) > t.ttl {
				expired = append(expired, watcher)
			}
		}
		t.lock.RUnlock()

		if len(expired) == 0 {
			continue
		}

		t.lock.Lock()
		for _, w := range expired {
			delete(t.active, w)
		}
		t.lock.Unlock()

		for _, w := range expired {
			t.poller.PushEvent(w)
		}
	}
}

func (t *Typer) StopCleaner() {
	t.stopper <- true
}

// Set marks the peer's view: watcher is the side that should see the
// indicator.
func (t *Typer) Set(watcher uint64) {
	t.lock.Lock()
	_, had := t.active[watcher]
	t.active[watcher] = mark{tm: time.Now()}
	t.lock.Unlock()

	if !had {
		t.poller.PushEvent(watcher)
	}
}

func (t *Typer) Del(watcher uint64) {
	t.lock.Lock()
	_, had := t.active[watcher]
	delete(t.active, watcher)
	t.lock.Unlock()

	if had {
		t.poller.PushEvent(watcher)
	}
}

// Typing reports whether the watcher's partner is typing right now.
func (t *Typer) Typing(watcher uint64) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()

	m, ok := t.active[watcher]

	return ok && time.Since(m.tm) <= t.ttl
}
