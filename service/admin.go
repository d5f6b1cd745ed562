package service

import (
	"log"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/pairing"
	"github.com/xssnick/whisp/pkg/repo"
)

type adminUserRequest struct {
	User   uint64 `json:"user"`
	Amount int64  `json:"amount"`
}

type AdminUsers struct {
	*Service
}

func (s *AdminUsers) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid := flow.Context().Value("user_id").(uint64)
	if !s.isAdmin(uid) {
		return simply.ErrAccessDenied("admins only")
	}

	users, err := s.Repo.ListUsers(flow.Context())
	if err != nil {
		log.Println("admin users list:", err)
		return simply.ErrInternal("server error")
	}

	type item struct {
		ID         uint64     `json:"id"`
		Name       string     `json:"name"`
		Reputation int        `json:"reputation"`
		Balance    int64      `json:"balance"`
		VIPUntil   *time.Time `json:"vip_until"`
		Banned     bool       `json:"banned"`
		MutedUntil *time.Time `json:"muted_until"`
	}

	res := make([]item, len(users))
	for i, u := range users {
		res[i] = item{
			ID:         u.ID,
			Name:       u.Name,
			Reputation: u.Reputation,
			Balance:    u.Balance,
			VIPUntil:   u.VIPUntil,
			Banned:     u.Banned,
			MutedUntil: u.MutedUntil,
		}
	}

	return res
}

type AdminBan struct {
	*Service
}

func (s *AdminBan) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(adminUserRequest{}, req.Body())
}

// AdminBan flips the ban flag and immediately tears down whatever the
// user is in, search or session, notifying the abandoned peer.
func (s *AdminBan) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(adminUserRequest)

	uid := flow.Context().Value("user_id").(uint64)
	if !s.isAdmin(uid) {
		return simply.ErrAccessDenied("admins only")
	}

	err := s.Repo.SetBanned(flow.Context(), req.User, true)
	if err != nil {
		log.Println("admin ban:", req.User, err)
		return simply.ErrInternal("server error")
	}

	peer, kind, had := s.Hub.UnbindAll(req.User)
	if had {
		ev := repo.Event{Type: repo.EventPartnerLeft}
		if kind != pairing.KindChat {
			ev = repo.Event{
				Type: repo.EventGameAborted,
				Kind: kind.String(),
				Text: "partner left the game",
			}
		}

		s.Notifier.Notify(peer, ev)
	}

	return simply.Empty()
}

type AdminUnban struct {
	*Service
}

func (s *AdminUnban) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(adminUserRequest{}, req.Body())
}

func (s *AdminUnban) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(adminUserRequest)

	uid := flow.Context().Value("user_id").(uint64)
	if !s.isAdmin(uid) {
		return simply.ErrAccessDenied("admins only")
	}

	err := s.Repo.SetBanned(flow.Context(), req.User, false)
	if err != nil {
		log.Println("admin unban:", req.User, err)
		return simply.ErrInternal("server error")
	}

	return simply.Empty()
}

type AdminMute struct {
	*Service
}

type adminMuteRequest struct {
	User    uint64 `json:"user"`
	Minutes int    `json:"minutes"`
}

func (s *AdminMute) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(adminMuteRequest{}, req.Body())
}

func (s *AdminMute) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(adminMuteRequest)

	uid := flow.Context().Value("user_id").(uint64)
	if !s.isAdmin(uid) {
		return simply.ErrAccessDenied("admins only")
	}

	if req.Minutes <= 0 {
		return simply.ErrBadRequest("bad minutes")
	}

	err := s.Repo.SetMuted(flow.Context(), req.User, time.Now().Add(time.Duration(req.Minutes)*time.Minute))
	if err != nil {
		log.Println("admin mute:", req.User, err)
		return simply.ErrInternal("server error")
	}

	return simply.Empty()
}

type AdminAddBalance struct {
	*Service
}

func (s *AdminAddBalance) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(adminUserRequest{}, req.Body())
}

func (s *AdminAddBalance) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(adminUserRequest)

	uid := flow.Context().Value("user_id").(uint64)
	if !s.isAdmin(uid) {
		return simply.ErrAccessDenied("admins only")
	}

	err := s.Repo.AddBalance(flow.Context(), req.User, req.Amount)
	if err != nil {
		log.Println("admin add balance:", req.User, err)
		return simply.ErrInternal("server error")
	}

	return simply.Empty()
}

type AdminGiveVIP struct {
	*Service
}

type adminVIPRequest struct {
	User uint64 `json:"user"`
	Days int    `json:"days"`
}

func (s *AdminGiveVIP) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(adminVIPRequest{}, req.Body())
}

func (s *AdminGiveVIP) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(adminVIPRequest)

	uid := flow.Context().Value("user_id").(uint64)
	if !s.isAdmin(uid) {
		return simply.ErrAccessDenied("admins only")
	}

	if req.Days <= 0 {
		return simply.ErrBadRequest("bad days")
	}

	err := s.Repo.GiveVIP(flow.Context(), req.User, req.Days)
	if err != nil {
		log.Println("admin give vip:", req.User, err)
		return simply.ErrInternal("server error")
	}

	return simply.Empty()
}

type AdminMarkPaid struct {
	*Service
}

func (s *AdminMarkPaid) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(checkInvoiceRequest{}, req.Body())
}

func (s *AdminMarkPaid) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(checkInvoiceRequest)

	uid := flow.Context().Value("user_id").(uint64)
	if !s.isAdmin(uid) {
		return simply.ErrAccessDenied("admins only")
	}

	user, amount, err := s.Repo.MarkInvoicePaid(flow.Context(), req.InvoiceID)
	if err != nil {
		if err == repo.ErrNotFound {
			return simply.ErrNotFound("invoice not found or already paid")
		}

		log.Println("admin mark paid:", req.InvoiceID, err)
		return simply.ErrInternal("server error")
	}

	if err = s.Repo.AddBalance(flow.Context(), user, amount); err != nil {
		log.Println("admin mark paid credit:", user, amount, err)
		return simply.ErrInternal("server error")
	}

	s.Notifier.Notify(user, repo.Event{
		Type: repo.EventPayment,
		Text: "payment of " + strconv.FormatInt(amount, 10) + " credited",
	})

	return simply.Empty()
}

type AdminComplaintHandled struct {
	*Service
}

type adminComplaintRequest struct {
	ID uint64 `json:"id"`
}

func (s *AdminComplaintHandled) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(adminComplaintRequest{}, req.Body())
}

func (s *AdminComplaintHandled) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(adminComplaintRequest)

	uid := flow.Context().Value("user_id").(uint64)
	if !s.isAdmin(uid) {
		return simply.ErrAccessDenied("admins only")
	}

	err := s.Repo.MarkComplaintHandled(flow.Context(), req.ID)
	if err != nil {
		log.Println("admin complaint handled:", req.ID, err)
		return simply.ErrInternal("server error")
	}

	return simply.Empty()
}

type AdminComplaints struct {
	*Service
}

func (s *AdminComplaints) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid := flow.Context().Value("user_id").(uint64)
	if !s.isAdmin(uid) {
		return simply.ErrAccessDenied("admins only")
	}

	items, err := s.Repo.ListComplaints(flow.Context(), true)
	if err != nil {
		log.Println("admin complaints:", err)
		return simply.ErrInternal("server error")
	}

	type item struct {
		ID         uint64 `json:"id"`
		Complainer uint64 `json:"complainer"`
		Target     uint64 `json:"target"`
		Reason     string `json:"reason"`
		Time       int64  `json:"time"`
	}

	res := make([]item, len(items))
	for i, c := range items {
		res[i] = item{
			ID:         c.ID,
			Complainer: c.Complainer,
			Target:     c.Target,
			Reason:     c.Reason,
			Time:       c.CreatedAt.Unix(),
		}
	}

	return res
}
