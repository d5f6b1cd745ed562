package service

import (
	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/pairing"
)

type Typing struct {
	*Service
}

type TypingStop struct {
	*Service
}

func (l *Typing) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid := flow.Context().Value("user_id").(uint64)

	s, ok := l.Hub.Get(uid)
	if !ok || s.Kind != pairing.KindChat {
		return simply.ErrNotFound("no active chat")
	}

	l.Typer.Set(s.Peer(uid))

	return simply.Empty()
}

func (l *TypingStop) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid := flow.Context().Value("user_id").(uint64)

	s, ok := l.Hub.Get(uid)
	if !ok || s.Kind != pairing.KindChat {
		return simply.ErrNotFound("no active chat")
	}

	l.Typer.Del(s.Peer(uid))

	return simply.Empty()
}
