package service

import (
	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"
)

type Media struct {
	*Service
}

type mediaRequest struct {
	UserID uint64
	Name   string
}

func (s *Media) MiddlewareChain() []goeasy.HttpMiddleware {
	return []goeasy.HttpMiddleware{}
}

func (s *Media) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	ownerRef := flow.Context().Value("owner").(string)
	img := flow.Context().Value("img").(string)

	uid, err := s.Tokens.ParseOwner(ownerRef)
	if err != nil {
		return simply.ErrNotFound("image not found")
	}

	return mediaRequest{
		UserID: uid,
		Name:   img,
	}
}

func (s *Media) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(mediaRequest)

	img, err := s.ImgManager.GetImage(req.UserID, req.Name)
	if err != nil {
		return simply.ErrNotFound("image not found")
	}

	return img
}

func (s *Media) OnHttpResponse(flow goeasy.Flow, result interface{}, resp *fasthttp.Response) {
	if err, ok := result.(goeasy.Error); ok {
		resp.Header.SetContentType("text/plain")
		resp.Header.SetStatusCode(err.Code())
		return
	}

	resp.Header.SetContentType("image/jpeg")

	resp.SetBody(result.([]byte))
}
