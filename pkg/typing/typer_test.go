package typing

import (
	"testing"
	"time"
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

func TestSetAndDel(t *testing.T) {
	p := &countingPoller{}
	tp := NewTyper(p, time.Minute)

	if tp.Typing(1) {
		t.Fatal("typing without a mark")
	}

	tp.Set(1)
	if !tp.Typing(1) {
		t.Fatal("mark not visible")
	}
	if tp.Typing(2) {
		t.Error("mark leaked to another watcher")
	}

	// refreshing an existing mark is silent
	tp.Set(1)
	if p.pushed[1] != 1 {
		t.Errorf("set pushed %d times", p.pushed[1])
	}

	tp.Del(1)
	if tp.Typing(1) {
		t.Error("mark survived del")
	}
	if p.pushed[1] != 2 {
		t.Errorf("del should wake the watcher, pushes = %d", p.pushed[1])
	}

	// deleting a missing mark is silent
	tp.Del(1)
	if p.pushed[1] != 2 {
		t.Error("del of a missing mark pushed")
	}
}

func TestMarkExpires(t *testing.T) {
	tp := NewTyper(&countingPoller{}, 10*time.Millisecond)

	tp.Set(1)
	time.Sleep(30 * time.Millisecond)

	if tp.Typing(1) {
		t.Error("expired mark still reported")
	}
}

func TestCleanerWakesWatcher(t *testing.T) {
	p := &countingPoller{}
	tp := NewTyper(p, 10*time.Millisecond)

	go tp.Cleaner()
	defer tp.StopCleaner()

	tp.Set(1)
	time.Sleep(1500 * time.Millisecond)

	if p.pushed[1] < 2 {
		t.Errorf("cleaner should push on expiry, pushes = %d", p.pushed[1])
	}
}
