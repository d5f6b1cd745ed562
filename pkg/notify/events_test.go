package notify

import (
	"strconv"
	"testing"

	"github.com/xssnick/whisp/pkg/repo"
)

type countingPoller struct {
	pushed map[uint64]int
}

func (p *countingPoller) PushEvent(id uint64) {
	if p.pushed == nil {
		p.pushed = map[uint64]int{}
	}
	p.pushed[id]++
}

func TestNotifyDrainOrder(t *testing.T) {
	p := &countingPoller{}
	e := NewEvents(p, 10)

	for i := 0; i < 3; i++ {
		e.Notify(1, repo.Event{Type: repo.EventMessage, Text: strconv.Itoa(i)})
	}

	evs := e.Drain(1)
	if len(evs) != 3 {
		t.Fatalf("drained %d events", len(evs))
	}
	for i, ev := range evs {
		if ev.Text != strconv.Itoa(i) {
			t.Errorf("event %d out of order: %q", i, ev.Text)
		}
	}

	if p.pushed[1] != 3 {
		t.Errorf("poller woken %d times", p.pushed[1])
	}

	if evs = e.Drain(1); evs != nil {
		t.Errorf("second drain returned %d events", len(evs))
	}
}

func TestNotifyDropsOldest(t *testing.T) {
	e := NewEvents(&countingPoller{}, 2)

	e.Notify(1, repo.Event{Text: "a"})
	e.Notify(1, repo.Event{Text: "b"})
	e.Notify(1, repo.Event{Text: "c"})

	evs := e.Drain(1)
	if len(evs) != 2 {
		t.Fatalf("drained %d events", len(evs))
	}
	if evs[0].Text != "b" || evs[1].Text != "c" {
		t.Errorf("oldest should be dropped, got %q %q", evs[0].Text, evs[1].Text)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	e := NewEvents(&countingPoller{}, 10)

	e.Notify(1, repo.Event{Text: "for one"})

	if evs := e.Drain(2); evs != nil {
		t.Error("user 2 got user 1's events")
	}
	if evs := e.Drain(1); len(evs) != 1 {
		t.Error("user 1 lost their event")
	}
}

func TestZeroLimitDefaults(t *testing.T) {
	e := NewEvents(&countingPoller{}, 0)

	for i := 0; i < 100; i++ {
		e.Notify(1, repo.Event{})
	}

	if evs := e.Drain(1); len(evs) != 64 {
		t.Errorf("default cap should hold 64, got %d", len(evs))
	}
}
