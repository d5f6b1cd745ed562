package service

import (
	"log"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/games"
	"github.com/xssnick/whisp/pkg/pairing"
	"github.com/xssnick/whisp/pkg/repo"
)

type FindChat struct {
	*Service
}

func (s *FindChat) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid := flow.Context().Value("user_id").(uint64)

	return s.find(flow, uid, pairing.KindChat)
}

// find runs the shared enqueue-and-match step and fires the kickoff
// notifications when a pair formed.
func (s *Service) find(flow goeasy.Flow, uid uint64, kind pairing.Kind) interface{} {
	sess, err := s.Hub.Find(flow.Context(), uid, kind)
	if err != nil {
		switch err {
		case repo.ErrBanned:
			return simply.ErrAccessDenied("you are banned")
		case repo.ErrMuted:
			return simply.ErrAccessDenied("you are muted")
		case repo.ErrAlreadyBound:
			return simply.ErrBadRequest("already have a partner, stop first")
		}

		log.Println("find:", uid, kind, err)
		return simply.ErrInternal("server error")
	}

	if sess == nil {
		return simply.Dynamic{
			"matched": false,
		}
	}

	evA, evB := games.StartEvents(*sess)
	s.Notifier.Notify(sess.A, evA)
	s.Notifier.Notify(sess.B, evB)

	return simply.Dynamic{
		"matched": true,
	}
}

type CancelChat struct {
	*Service
}

func (s *CancelChat) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid := flow.Context().Value("user_id").(uint64)

	err := s.Hub.Cancel(uid, pairing.KindChat)
	if err != nil {
		if err == repo.ErrNotWaiting {
			return simply.ErrNotFound("not in search")
		}

		log.Println("cancel chat:", uid, err)
		return simply.ErrInternal("server error")
	}

	return simply.Empty()
}

type StopChat struct {
	*Service
}

func (s *StopChat) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid := flow.Context().Value("user_id").(uint64)

	_, err := s.Relay.Stop(flow.Context(), uid)
	if err != nil {
		if err == repo.ErrNotBound {
			// a lone "stop" also drops any pending search
			s.Hub.UnbindAll(uid)
			return simply.Empty()
		}

		log.Println("stop chat:", uid, err)
		return simply.ErrInternal("server error")
	}

	return simply.Empty()
}
