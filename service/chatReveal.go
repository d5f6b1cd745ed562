package service

import (
	"log"
	"strconv"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/pairing"
	"github.com/xssnick/whisp/pkg/repo"
)

type RevealChat struct {
	*Service
}

func profileCard(p *repo.UserProfile) string {
	about := p.About
	if about == "" {
		about = "no description"
	}

	vip := "no"
	if p.VIPUntil != nil {
		vip = p.VIPUntil.Format("2006-01-02")
	}

	return p.Name + "\n\n" + about +
		"\n\nreputation: " + strconv.Itoa(p.Reputation) +
		"\nbalance: " + strconv.FormatInt(p.Balance, 10) +
		"\nvip until: " + vip
}

// RevealChat sends the caller's profile card to the bound peer,
// breaking anonymity on the caller's own initiative only.
func (s *RevealChat) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid := flow.Context().Value("user_id").(uint64)

	sess, ok := s.Hub.Get(uid)
	if !ok || sess.Kind != pairing.KindChat {
		return simply.ErrNotFound("no active chat")
	}

	profile, err := s.Repo.GetUserProfile(flow.Context(), uid)
	if err != nil {
		log.Println("reveal profile get:", uid, err)
		return simply.ErrInternal("server error")
	}

	s.Notifier.Notify(sess.Peer(uid), repo.Event{
		Type: repo.EventProfile,
		Text: profileCard(profile),
	})

	return simply.Empty()
}
