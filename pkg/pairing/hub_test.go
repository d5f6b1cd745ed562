package pairing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/xssnick/whisp/pkg/repo"
)

type allowGate struct{}

func (allowGate) Check(ctx context.Context, uid uint64) error { return nil }

type denyGate struct {
	err error
}

func (g denyGate) Check(ctx context.Context, uid uint64) error { return g.err }

func newTestHub() *Hub {
	return NewHub(Config{Gate: allowGate{}})
}

func TestFindMatchesFIFO(t *testing.T) {
	h := newTestHub()

	s, err := h.Find(context.Background(), 1, KindChat)
	if err != nil || s != nil {
		t.Fatalf("first find should enqueue, got %v %v", s, err)
	}

	time.Sleep(time.Millisecond)

	s, err = h.Find(context.Background(), 2, KindChat)
	if err != nil {
		t.Fatalf("second find err: %v", err)
	}
	if s == nil {
		t.Fatal("second find should match")
	}

	if s.A != 1 || s.B != 2 {
		t.Errorf("earlier enqueuer should be side A, got %d %d", s.A, s.B)
	}

	if s.Kind != KindChat {
		t.Errorf("wrong kind %v", s.Kind)
	}

	for _, uid := range []uint64{1, 2} {
		got, ok := h.Get(uid)
		if !ok {
			t.Fatalf("user %d should be bound", uid)
		}
		if got.Peer(uid) != 3-uid {
			t.Errorf("user %d wrong peer %d", uid, got.Peer(uid))
		}
		if _, waiting := h.Waiting(uid); waiting {
			t.Errorf("user %d still waiting after match", uid)
		}
	}
}

func TestFindPrefersOldest(t *testing.T) {
	h := newTestHub()

	// built directly, sequential finds would pair 10 with 11 right away
	base := time.Now()
	h.queue = []waiting{
		{uid: 11, kind: KindChat, since: base.Add(2 * time.Millisecond)},
		{uid: 10, kind: KindChat, since: base},
		{uid: 12, kind: KindChat, since: base.Add(4 * time.Millisecond)},
	}

	s, err := h.Find(context.Background(), 13, KindChat)
	if err != nil || s == nil {
		t.Fatalf("expected match, got %v %v", s, err)
	}
	if s.A != 10 {
		t.Errorf("oldest waiter should win, got %d", s.A)
	}

	s, err = h.Find(context.Background(), 14, KindChat)
	if err != nil || s == nil {
		t.Fatalf("expected match, got %v %v", s, err)
	}
	if s.A != 11 {
		t.Errorf("next oldest waiter should win, got %d", s.A)
	}
}

func TestFindTieBreakLowestUID(t *testing.T) {
	h := newTestHub()

	since := time.Now()
	h.queue = []waiting{
		{uid: 7, kind: KindChat, since: since},
		{uid: 3, kind: KindChat, since: since},
		{uid: 5, kind: KindChat, since: since},
	}

	s, err := h.Find(context.Background(), 9, KindChat)
	if err != nil || s == nil {
		t.Fatalf("expected match, got %v %v", s, err)
	}

	if s.A != 3 {
		t.Errorf("equal timestamps should break by lowest uid, got %d", s.A)
	}
}

func TestFindKindsDoNotMix(t *testing.T) {
	h := newTestHub()

	if _, err := h.Find(context.Background(), 1, KindRPS); err != nil {
		t.Fatal(err)
	}

	s, err := h.Find(context.Background(), 2, KindChat)
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Fatal("chat search must not match an rps waiter")
	}
}

func TestReEnqueueReplaces(t *testing.T) {
	h := newTestHub()

	for i := 0; i < 3; i++ {
		if _, err := h.Find(context.Background(), 1, KindChat); err != nil {
			t.Fatal(err)
		}
	}

	if len(h.queue) != 1 {
		t.Fatalf("re-enqueue should keep one entry, got %d", len(h.queue))
	}

	if err := h.Cancel(1, KindChat); err != nil {
		t.Fatalf("cancel err: %v", err)
	}

	if err := h.Cancel(1, KindChat); err != repo.ErrNotWaiting {
		t.Errorf("second cancel should report not waiting, got %v", err)
	}
}

func TestFindAlreadyBound(t *testing.T) {
	h := newTestHub()

	h.Find(context.Background(), 1, KindChat)
	h.Find(context.Background(), 2, KindChat)

	if _, err := h.Find(context.Background(), 1, KindChat); err != repo.ErrAlreadyBound {
		t.Errorf("expected ErrAlreadyBound, got %v", err)
	}

	if _, err := h.Find(context.Background(), 1, KindRPS); err != repo.ErrAlreadyBound {
		t.Errorf("bound user must not queue for a game either, got %v", err)
	}
}

func TestGateDenies(t *testing.T) {
	for _, want := range []error{repo.ErrBanned, repo.ErrMuted} {
		h := NewHub(Config{Gate: denyGate{err: want}})

		s, err := h.Find(context.Background(), 1, KindChat)
		if err != want || s != nil {
			t.Errorf("expected %v, got %v %v", want, err, s)
		}

		if len(h.queue) != 0 {
			t.Error("denied user must not be enqueued")
		}
	}
}

func TestUnbindClearsBothSides(t *testing.T) {
	h := newTestHub()

	h.Find(context.Background(), 1, KindChat)
	h.Find(context.Background(), 2, KindChat)

	peer, kind, err := h.Unbind(1)
	if err != nil || peer != 2 {
		t.Fatalf("unbind got %d %v", peer, err)
	}
	if kind != KindChat {
		t.Errorf("unbind reported kind %v", kind)
	}

	if _, ok := h.Get(1); ok {
		t.Error("unbound user still has a session")
	}
	if _, ok := h.Get(2); ok {
		t.Error("peer side not cleared")
	}

	if _, _, err = h.Unbind(1); err != repo.ErrNotBound {
		t.Errorf("second unbind should fail, got %v", err)
	}
}

func TestUnbindReportsGameKind(t *testing.T) {
	h := newTestHub()

	h.Find(context.Background(), 1, KindRPS)
	h.Find(context.Background(), 2, KindRPS)

	_, kind, err := h.Unbind(2)
	if err != nil {
		t.Fatal(err)
	}
	if kind != KindRPS {
		t.Errorf("unbind reported kind %v", kind)
	}
}

func TestUnbindAll(t *testing.T) {
	h := newTestHub()

	// waiting only
	h.Find(context.Background(), 1, KindChat)
	if peer, _, had := h.UnbindAll(1); had || peer != 0 {
		t.Errorf("waiting user has no peer, got %d %v", peer, had)
	}
	if _, waiting := h.Waiting(1); waiting {
		t.Error("waiting entry not removed")
	}

	// bound
	h.Find(context.Background(), 1, KindChat)
	h.Find(context.Background(), 2, KindChat)
	peer, kind, had := h.UnbindAll(1)
	if !had || peer != 2 {
		t.Fatalf("expected peer 2, got %d %v", peer, had)
	}
	if kind != KindChat {
		t.Errorf("teardown reported kind %v", kind)
	}
	if _, ok := h.Get(2); ok {
		t.Error("peer side not cleared on forced teardown")
	}
}

func TestBindConsumesAllWaitingEntries(t *testing.T) {
	h := newTestHub()

	h.Find(context.Background(), 1, KindChat)
	h.Find(context.Background(), 1, KindRPS)

	s, err := h.Find(context.Background(), 2, KindChat)
	if err != nil || s == nil {
		t.Fatalf("expected match, got %v %v", s, err)
	}

	if _, waiting := h.Waiting(1); waiting {
		t.Error("bound user must not keep waiting entries of other kinds")
	}
}

func TestGuessGameInit(t *testing.T) {
	h := newTestHub()

	h.Find(context.Background(), 1, KindGuess)
	time.Sleep(time.Millisecond)

	s, err := h.Find(context.Background(), 2, KindGuess)
	if err != nil || s == nil {
		t.Fatalf("expected match, got %v %v", s, err)
	}

	g, ok := s.Game.(*GuessGame)
	if !ok {
		t.Fatalf("guess session carries %T", s.Game)
	}

	if g.Setter != 1 {
		t.Errorf("first enqueuer should set the secret, got %d", g.Setter)
	}

	if g.Secret < 1 || g.Secret > 10 {
		t.Errorf("secret out of range: %d", g.Secret)
	}
}

func TestRPSGameInit(t *testing.T) {
	h := newTestHub()

	h.Find(context.Background(), 1, KindRPS)
	s, err := h.Find(context.Background(), 2, KindRPS)
	if err != nil || s == nil {
		t.Fatalf("expected match, got %v %v", s, err)
	}

	g, ok := s.Game.(*RPSGame)
	if !ok {
		t.Fatalf("rps session carries %T", s.Game)
	}

	if g.MoveA != MoveNone || g.MoveB != MoveNone {
		t.Error("fresh rps game should have no moves")
	}
}

func TestUpdatePeerGone(t *testing.T) {
	h := newTestHub()

	h.Find(context.Background(), 1, KindRPS)
	h.Find(context.Background(), 2, KindRPS)

	// simulate a half-missing pair, must never happen through the api
	h.mx.Lock()
	delete(h.sessions, 2)
	h.mx.Unlock()

	_, err := h.Update(1, func(s *Session) (bool, error) {
		t.Error("fn must not run on a broken pair")
		return false, nil
	})
	if err != repo.ErrPeerGone {
		t.Fatalf("expected ErrPeerGone, got %v", err)
	}

	if _, ok := h.Get(1); ok {
		t.Error("remaining side must be cleaned up")
	}
}

func TestUpdateDoneUnbinds(t *testing.T) {
	h := newTestHub()

	h.Find(context.Background(), 1, KindRPS)
	h.Find(context.Background(), 2, KindRPS)

	_, err := h.Update(1, func(s *Session) (bool, error) {
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := h.Get(1); ok {
		t.Error("session should be gone after terminal update")
	}
	if _, ok := h.Get(2); ok {
		t.Error("peer session should be gone after terminal update")
	}
}

// Every user is in at most one session and matched pairs are mutual,
// no matter how finds interleave.
func TestConcurrentFindsPerfectMatching(t *testing.T) {
	h := newTestHub()

	const users = 100

	var wg sync.WaitGroup
	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(uid uint64) {
			defer wg.Done()
			if _, err := h.Find(context.Background(), uid, KindChat); err != nil {
				t.Errorf("find %d: %v", uid, err)
			}
		}(uint64(i))
	}
	wg.Wait()

	bound := map[uint64]uint64{}
	waitingCnt := 0

	for i := uint64(1); i <= users; i++ {
		s, ok := h.Get(i)
		if !ok {
			if _, w := h.Waiting(i); !w {
				t.Errorf("user %d neither bound nor waiting", i)
			}
			waitingCnt++
			continue
		}

		peer := s.Peer(i)
		if peer == i {
			t.Errorf("user %d bound to itself", i)
		}

		ps, ok := h.Get(peer)
		if !ok || ps.Peer(peer) != i {
			t.Errorf("binding of %d and %d is not mutual", i, peer)
		}

		bound[i] = peer
	}

	for uid, peer := range bound {
		if bound[peer] != uid {
			t.Errorf("%d->%d not symmetric", uid, peer)
		}
	}

	if (users-waitingCnt)%2 != 0 {
		t.Errorf("odd number of bound users: %d", users-waitingCnt)
	}
	if waitingCnt > 1 && users%2 == 0 {
		// with an even crowd at most one transient leftover is possible
		// only from an odd crowd, an even one must fully pair up
		t.Errorf("%d users left waiting", waitingCnt)
	}
}
