package service

import (
	"log"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/repo"
)

type ComplainChat struct {
	*Service
}

type complainRequest struct {
	Reason string `json:"reason"`
}

func (s *ComplainChat) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(complainRequest{}, req.Body())
}

func (s *ComplainChat) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(complainRequest)

	uid := flow.Context().Value("user_id").(uint64)

	sess, ok := s.Hub.Get(uid)
	if !ok {
		return simply.ErrNotFound("no active partner")
	}

	target := sess.Peer(uid)

	err := s.Repo.CreateComplaint(flow.Context(), uid, target, req.Reason)
	if err != nil {
		log.Println("complaint create:", uid, target, err)
		return simply.ErrInternal("server error")
	}

	if err = s.Repo.AdjustReputation(flow.Context(), target, -1); err != nil {
		log.Println("complaint reputation:", target, err)
	}

	for admin := range s.Admins {
		s.Notifier.Notify(admin, repo.Event{
			Type: repo.EventComplaint,
			From: uid,
			Text: "complaint on " + strconv.FormatUint(target, 10) + ": " + req.Reason,
		})
	}

	return simply.Empty()
}
