package service

import (
	"crypto/rand"
	"encoding/hex"
	"log"

	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/repo"
)

type Donate struct {
	*Service
}

type donateRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Donate) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(donateRequest{}, req.Body())
}

// Donate creates a local invoice and hands back a deep link to the
// external payment bot. Payment confirmation arrives via the admin
// mark-paid action.
func (s *Donate) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(donateRequest)

	uid := flow.Context().Value("user_id").(uint64)

	if req.Amount <= 0 {
		return simply.ErrBadRequest("bad amount")
	}

	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		log.Println("invoice id gen:", err)
		return simply.ErrInternal("server error")
	}
	id := hex.EncodeToString(raw)

	err := s.Repo.CreateInvoice(flow.Context(), id, uid, req.Amount)
	if err != nil {
		log.Println("invoice create:", uid, err)
		return simply.ErrInternal("server error")
	}

	return simply.Dynamic{
		"invoice_id": id,
		"pay_url":    s.PayLinkBase + id,
	}
}

type CheckInvoice struct {
	*Service
}

type checkInvoiceRequest struct {
	InvoiceID string `json:"invoice_id"`
}

func (s *CheckInvoice) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(checkInvoiceRequest{}, req.Body())
}

func (s *CheckInvoice) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(checkInvoiceRequest)

	uid := flow.Context().Value("user_id").(uint64)

	inv, err := s.Repo.GetInvoice(flow.Context(), req.InvoiceID)
	if err != nil {
		if err == repo.ErrNotFound {
			return simply.ErrNotFound("invoice not found")
		}

		log.Println("invoice get:", req.InvoiceID, err)
		return simply.ErrInternal("server error")
	}

	if inv.UserID != uid && !s.isAdmin(uid) {
		return simply.ErrNotFound("invoice not found")
	}

	return simply.Dynamic{
		"paid":   inv.Paid,
		"amount": inv.Amount,
	}
}
