package games

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/xssnick/whisp/pkg/pairing"
	"github.com/xssnick/whisp/pkg/repo"
)

type Hub interface {
	Update(uid uint64, fn func(s *pairing.Session) (bool, error)) (pairing.Session, error)
}

type Reputation interface {
	AdjustReputation(ctx context.Context, uid uint64, delta int) error
}

type Notifier interface {
	Notify(uid uint64, e repo.Event)
}

// Engine applies game moves to bound sessions. All transition logic
// runs inside the hub critical section, so two near-simultaneous moves
// cannot both miss the resolution.
type Engine struct {
	hub      Hub
	rep      Reputation
	notifier Notifier
}

func NewEngine(hub Hub, rep Reputation, notifier Notifier) *Engine {
	return &Engine{
		hub:      hub,
		rep:      rep,
		notifier: notifier,
	}
}

type Result struct {
	Kind     pairing.Kind
	Finished bool
	Draw     bool
	Winner   uint64
	Detail   string
}

func parseMove(input string) pairing.Move {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "rock":
		return pairing.MoveRock
	case "paper":
		return pairing.MovePaper
	case "scissors":
		return pairing.MoveScissors
	}

	return pairing.MoveNone
}

// beats reports whether a wins over b by the cyclic dominance rule.
func beats(a, b pairing.Move) bool {
	return (a == pairing.MoveRock && b == pairing.MoveScissors) ||
		(a == pairing.MoveScissors && b == pairing.MovePaper) ||
		(a == pairing.MovePaper && b == pairing.MoveRock)
}

// SubmitMove records the user's move or guess and resolves the game
// when it is terminal. On a terminal result the session is destroyed,
// the winner gets +1 reputation and both parties are notified.
//
// An rps move may be re-submitted and overwrites the previous one as
// long as the peer has not moved yet.
func (e *Engine) SubmitMove(ctx context.Context, uid uint64, input string) (*Result, error) {
	var res Result
	var loser uint64

	s, err := e.hub.Update(uid, func(s *pairing.Session) (bool, error) {
		res.Kind = s.Kind

		switch g := s.Game.(type) {
		case *pairing.RPSGame:
			mv := parseMove(input)
			if mv == pairing.MoveNone {
				return false, repo.ErrInvalidInput
			}

			if uid == s.A {
				g.MoveA = mv
			} else {
				g.MoveB = mv
			}

			if g.MoveA == pairing.MoveNone || g.MoveB == pairing.MoveNone {
				return false, nil
			}

			res.Finished = true
			res.Detail = g.MoveA.String() + " vs " + g.MoveB.String()

			switch {
			case g.MoveA == g.MoveB:
				res.Draw = true
			case beats(g.MoveA, g.MoveB):
				res.Winner, loser = s.A, s.B
			default:
				res.Winner, loser = s.B, s.A
			}

			return true, nil

		case *pairing.GuessGame:
			if uid == g.Setter {
				// only the guessing side submits
				return false, repo.ErrInvalidInput
			}

			n, aerr := strconv.Atoi(strings.TrimSpace(input))
			if aerr != nil || n < 1 || n > 10 {
				return false, repo.ErrInvalidInput
			}

			res.Finished = true
			res.Detail = "secret was " + strconv.Itoa(g.Secret)

			if n == g.Secret {
				res.Winner, loser = uid, g.Setter
			} else {
				// single shot, a miss ends the round in the setter's
				// favor with no reputation award
				res.Winner, loser = g.Setter, uid
			}

			return true, nil
		}

		// chat session, nothing to play
		return false, repo.ErrNotBound
	})
	if err != nil {
		if err == repo.ErrPeerGone {
			e.notifier.Notify(uid, repo.Event{
				Type: repo.EventGameAborted,
				Kind: s.Kind.String(),
				Text: "game ended abnormally",
			})
		}

		return nil, err
	}

	if !res.Finished {
		return &res, nil
	}

	// the guesser is the only side that earns reputation in guess
	award := res.Winner
	if g, ok := s.Game.(*pairing.GuessGame); ok && award == g.Setter {
		award = 0
	}

	if award != 0 {
		if rerr := e.rep.AdjustReputation(ctx, award, 1); rerr != nil {
			log.Println("reputation award failed:", award, rerr)
		}
	}

	if res.Draw {
		both := repo.Event{
			Type: repo.EventGameResult,
			Kind: s.Kind.String(),
			Text: "draw, " + res.Detail,
		}
		e.notifier.Notify(s.A, both)
		e.notifier.Notify(s.B, both)

		return &res, nil
	}

	e.notifier.Notify(res.Winner, repo.Event{
		Type: repo.EventGameResult,
		Kind: s.Kind.String(),
		Text: "you won, " + res.Detail,
	})
	e.notifier.Notify(loser, repo.Event{
		Type: repo.EventGameResult,
		Kind: s.Kind.String(),
		Text: "you lost, " + res.Detail,
	})

	return &res, nil
}

// StartEvents builds the per-side kickoff notifications for a freshly
// bound game session.
func StartEvents(s pairing.Session) (forA, forB repo.Event) {
	switch g := s.Game.(type) {
	case *pairing.RPSGame:
		ev := repo.Event{
			Type: repo.EventGameStart,
			Kind: s.Kind.String(),
			Text: "opponent found, send rock / paper / scissors",
		}
		return ev, ev

	case *pairing.GuessGame:
		setter := repo.Event{
			Type: repo.EventGameStart,
			Kind: s.Kind.String(),
			Text: "your secret number is " + strconv.Itoa(g.Secret) + ", partner is guessing",
		}
		guesser := repo.Event{
			Type: repo.EventGameStart,
			Kind: s.Kind.String(),
			Text: "opponent picked a number from 1 to 10, send your guess",
		}

		if g.Setter == s.A {
			return setter, guesser
		}
		return guesser, setter
	}

	ev := repo.Event{
		Type: repo.EventPartnerFound,
		Kind: s.Kind.String(),
	}
	return ev, ev
}
