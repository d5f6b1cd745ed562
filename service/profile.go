package service

import (
	"log"
	"strconv"
	"time"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"
)

type Profile struct {
	*Service
}

type profileResponse struct {
	Phone      string     `json:"phone"`
	Name       string     `json:"name"`
	About      string     `json:"about"`
	Reputation int        `json:"reputation"`
	Balance    int64      `json:"balance"`
	VIPUntil   *time.Time `json:"vip_until"`
	Images     []string   `json:"images"`
}

func (s *Profile) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid := flow.Context().Value("user_id").(uint64)

	user, err := s.Repo.GetUserProfile(flow.Context(), uid)
	if err != nil {
		log.Println("profile get error:", err)
		return simply.ErrInternal("server error")
	}

	imgs, err := s.ImgManager.ListImages(uid)
	if err != nil {
		log.Println("profile images error:", err)
		return simply.ErrInternal("server error")
	}

	owner, err := s.Tokens.MintOwner(uid)
	if err != nil {
		log.Println("profile owner ref error:", err)
		return simply.ErrInternal("internal error")
	}

	for i := range imgs {
		imgs[i] = "/media/" + owner + "/" + imgs[i]
	}

	return profileResponse{
		Phone:      strconv.FormatUint(user.Phone, 10),
		Name:       user.Name,
		About:      user.About,
		Reputation: user.Reputation,
		Balance:    user.Balance,
		VIPUntil:   user.VIPUntil,
		Images:     imgs,
	}
}
