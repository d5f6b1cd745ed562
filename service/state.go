package service

import (
	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/pairing"
)

type State struct {
	*Service
}

// State reports what the client should render: idle, searching,
// chatting or playing.
func (s *State) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid := flow.Context().Value("user_id").(uint64)

	if sess, ok := s.Hub.Get(uid); ok {
		status := "chatting"
		if sess.Kind != pairing.KindChat {
			status = "playing"
		}

		return simply.Dynamic{
			"status": status,
			"kind":   sess.Kind.String(),
			"since":  sess.StartedAt.Unix(),
		}
	}

	if kind, ok := s.Hub.Waiting(uid); ok {
		return simply.Dynamic{
			"status": "searching",
			"kind":   kind.String(),
		}
	}

	return simply.Dynamic{
		"status": "idle",
	}
}
