package poller

import (
	"strconv"
	"sync"
	"time"
)

type waiter struct {
	ch      chan bool
	created time.Time
}

// stream is the wakeup state of one user: a version counter and the
// long-poll waiters parked on it.
type stream struct {
	version  uint64
	waiters  []waiter
	accessed time.Time
	sync.Mutex
}

// Poller wakes long-poll requests when something new is queued for a
// user. Clients pass the version they saw last and block until it
// moves.
type Poller struct {
	streams map[uint64]*stream
	lock    sync.RWMutex
	stopper chan bool
	wg      sync.WaitGroup
}

func NewPoller() *Poller {
	return &Poller{
		streams: make(map[uint64]*stream, 1024),
		stopper: make(chan bool, 1),
	}
}

// StartCleaner drops idle streams and stale waiters in the background.
func (p *Poller) StartCleaner(tick time.Duration) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		for {
			select {
			case <-p.stopper:
				return
			case <-time.After(tick):
			}

			nw := time.Now()
			old := make([]uint64, 0, 8)

			p.lock.RLock()
			for id, s := range p.streams {
				s.Lock()
				if nw.Sub(s.accessed) > 1*time.Minute && len(s.waiters) == 0 {
					old = append(old, id)
				} else {
					keep := s.waiters[:0]
					for _, w := range s.waiters {
						if nw.Sub(w.created) <= 15*time.Second {
							keep = append(keep, w)
						}
					}
					s.waiters = keep
				}
				s.Unlock()
			}
			p.lock.RUnlock()

			if len(old) > 0 {
				p.lock.Lock()
				for _, id := range old {
					delete(p.streams, id)
				}
				p.lock.Unlock()
			}
		}
	}()
}

func (p *Poller) StopCleaner() {
	p.stopper <- true
	p.wg.Wait()
}

func (p *Poller) get(id uint64, create bool) *stream {
	p.lock.RLock()
	s := p.streams[id]
	p.lock.RUnlock()

	if s != nil || !create {
		return s
	}

	p.lock.Lock()
	s = p.streams[id]
	if s == nil {
		s = &stream{accessed: time.Now()}
		p.streams[id] = s
	}
	p.lock.Unlock()

	return s
}

// PushEvent bumps the user's version and releases everyone waiting.
func (p *Poller) PushEvent(id uint64) {
	s := p.get(id, true)

	s.Lock()
	s.version++
	s.accessed = time.Now()
	for _, w := range s.waiters {
		close(w.ch)
	}
	s.waiters = nil
	s.Unlock()
}

func (p *Poller) GetEvent(id uint64) string {
	s := p.get(id, false)
	if s == nil {
		return ""
	}

	s.Lock()
	defer s.Unlock()

	return strconv.FormatUint(s.version, 10)
}

// WaitEvent parks the caller until the version moves past seen. The
// second result is false when the version already moved, the returned
// channel is closed in that case.
func (p *Poller) WaitEvent(seen uint64, id uint64) (chan bool, bool) {
	s := p.get(id, true)

	ch := make(chan bool, 1)

	s.Lock()
	defer s.Unlock()

	s.accessed = time.Now()

	if s.version != seen {
		close(ch)
		return ch, false
	}

	s.waiters = append(s.waiters, waiter{
		ch:      ch,
		created: time.Now(),
	})

	return ch, true
}

// ForgotEvent removes a waiter that gave up before the version moved.
func (p *Poller) ForgotEvent(id uint64, ch chan bool) {
	s := p.get(id, false)
	if s == nil {
		return
	}

	s.Lock()
	defer s.Unlock()

	for i := range s.waiters {
		if s.waiters[i].ch == ch {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
			return
		}
	}
}
