package service

import (
	"log"

	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/repo"
)

type SendContent struct {
	*Service
}

type sendContentRequest struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Photo   []byte `json:"photo"`
	Media   string `json:"media"`
	Caption string `json:"caption"`
}

func (l *SendContent) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(sendContentRequest{}, req.Body())
}

func (l *SendContent) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(sendContentRequest)

	uid := flow.Context().Value("user_id").(uint64)

	content := repo.Content{
		Kind:    req.Kind,
		Text:    req.Text,
		Media:   req.Media,
		Caption: req.Caption,
	}

	// raw photo bytes are stored locally, the peer gets a url behind an
	// opaque owner ref
	if req.Kind == repo.ContentPhoto && len(req.Photo) > 0 {
		name, err := l.ImgManager.SavePhoto(req.Photo, uid)
		if err != nil {
			log.Println("photo save err:", uid, err)
			return simply.ErrInternal("internal error while uploading photo")
		}

		owner, err := l.Tokens.MintOwner(uid)
		if err != nil {
			log.Println("owner ref err:", uid, err)
			return simply.ErrInternal("internal error")
		}

		content.Media = "/media/" + owner + "/" + name
	}

	peer, err := l.Relay.Route(flow.Context(), uid, content)
	if err != nil {
		switch err {
		case repo.ErrNotBound:
			return simply.ErrNotFound("no active chat")
		case repo.ErrMuted:
			return simply.ErrAccessDenied("you are muted")
		case repo.ErrBanned:
			return simply.ErrAccessDenied("you are banned")
		case repo.ErrUnsupportedContent:
			return simply.ErrBadRequest("this content type is not supported yet")
		}

		log.Println("route err:", uid, err)
		return simply.ErrInternal("internal error")
	}

	l.Typer.Del(peer)

	return simply.Empty()
}
