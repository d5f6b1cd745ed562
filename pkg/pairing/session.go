package pairing

import (
	"time"
)

type Kind int

const (
	KindChat Kind = iota
	KindRPS
	KindGuess
)

func (k Kind) String() string {
	switch k {
	case KindChat:
		return "chat"
	case KindRPS:
		return "rps"
	case KindGuess:
		return "guess"
	}

	return "unknown"
}

type Move int

const (
	MoveNone Move = iota
	MoveRock
	MovePaper
	MoveScissors
)

func (m Move) String() string {
	switch m {
	case MoveRock:
		return "rock"
	case MovePaper:
		return "paper"
	case MoveScissors:
		return "scissors"
	}

	return "none"
}

// Game is the per-kind session payload. A tagged variant so a chat
// session can't carry game state and an rps session can't carry a
// secret number.
type Game interface {
	game()
}

type RPSGame struct {
	MoveA Move
	MoveB Move
}

func (*RPSGame) game() {}

// GuessGame is asymmetric: the setter holds the secret, the other side
// guesses. The setter is the party that enqueued first.
type GuessGame struct {
	Secret int
	Setter uint64
}

func (*GuessGame) game() {}

// Session is a mutual exclusive binding of two users. A user is in at
// most one session of any kind at a time.
type Session struct {
	A, B      uint64
	Kind      Kind
	Game      Game
	StartedAt time.Time
}

func (s *Session) Peer(uid uint64) uint64 {
	if s.A == uid {
		return s.B
	}

	return s.A
}

func (s *Session) Has(uid uint64) bool {
	return s.A == uid || s.B == uid
}
