package service

import (
	"log"

	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/repo"
)

const maxAvatarSlots = 3

type ProfileEdit struct {
	*Service
}

type profileEditRequest struct {
	Name   string   `json:"name"`
	About  string   `json:"about"`
	Images [][]byte `json:"images"`
}

func (s *ProfileEdit) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.JsonPtr(new(profileEditRequest), req.Body())
}

// ProfileEdit saves name and about and fills avatar slots, finishing
// registration on first save.
func (s *ProfileEdit) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(*profileEditRequest)

	uid := flow.Context().Value("user_id").(uint64)

	if req.Name == "" || len(req.Name) > 64 {
		return simply.ErrBadRequest("bad name")
	}
	if len(req.About) > 1024 {
		return simply.ErrBadRequest("about is too long")
	}
	if len(req.Images) > maxAvatarSlots {
		return simply.ErrBadRequest("too many images")
	}

	for slot, img := range req.Images {
		if len(img) == 0 {
			continue
		}

		if err := s.ImgManager.SaveAvatar(img, uid, slot); err != nil {
			log.Println("avatar", slot, "of", uid, "rejected:", err)
			return simply.ErrBadRequest("broken image")
		}
	}

	err := s.Repo.EditProfile(flow.Context(), uid, repo.UserEdit{
		Name:  req.Name,
		About: req.About,
	})
	if err != nil {
		log.Println("profile save for", uid, "failed:", err)
		return simply.ErrInternal("server error")
	}

	return simply.Empty()
}
