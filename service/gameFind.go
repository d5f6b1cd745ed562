package service

import (
	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/pairing"
	"github.com/xssnick/whisp/pkg/repo"
)

type FindGame struct {
	*Service
}

type gameRequest struct {
	Game string `json:"game"`
}

func gameKind(name string) (pairing.Kind, bool) {
	switch name {
	case "rps":
		return pairing.KindRPS, true
	case "guess":
		return pairing.KindGuess, true
	}

	return 0, false
}

func (s *FindGame) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(gameRequest{}, req.Body())
}

func (s *FindGame) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(gameRequest)

	uid := flow.Context().Value("user_id").(uint64)

	kind, ok := gameKind(req.Game)
	if !ok {
		return simply.ErrBadRequest("unknown game")
	}

	return s.find(flow, uid, kind)
}

type CancelGame struct {
	*Service
}

func (s *CancelGame) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(gameRequest{}, req.Body())
}

func (s *CancelGame) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(gameRequest)

	uid := flow.Context().Value("user_id").(uint64)

	kind, ok := gameKind(req.Game)
	if !ok {
		return simply.ErrBadRequest("unknown game")
	}

	err := s.Hub.Cancel(uid, kind)
	if err != nil {
		if err == repo.ErrNotWaiting {
			return simply.ErrNotFound("not in search")
		}

		return simply.ErrInternal("server error")
	}

	return simply.Empty()
}
