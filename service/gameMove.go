package service

import (
	"log"

	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/repo"
)

type GameMove struct {
	*Service
}

type gameMoveRequest struct {
	Move string `json:"move"`
}

func (s *GameMove) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(gameMoveRequest{}, req.Body())
}

func (s *GameMove) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(gameMoveRequest)

	uid := flow.Context().Value("user_id").(uint64)

	res, err := s.Games.SubmitMove(flow.Context(), uid, req.Move)
	if err != nil {
		switch err {
		case repo.ErrNotBound:
			return simply.ErrNotFound("no active game")
		case repo.ErrInvalidInput:
			return simply.ErrBadRequest("invalid move, try again")
		case repo.ErrPeerGone:
			return simply.ErrNotFound("game ended abnormally")
		}

		log.Println("game move:", uid, err)
		return simply.ErrInternal("server error")
	}

	return simply.Dynamic{
		"finished": res.Finished,
	}
}
