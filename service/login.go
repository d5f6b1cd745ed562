package service

import (
	"log"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/repo"
)

const codeDigits = 6

// otpBase ties the code pair to one phone number.
func otpBase(phone uint64) string {
	return "login:" + strconv.FormatUint(phone, 10)
}

func validPhone(phone uint64) bool {
	return phone >= 1000000000
}

type Login struct {
	*Service
}

type loginRequest struct {
	Phone uint64 `json:"phone,string"`
}

func (l *Login) MiddlewareChain() []goeasy.HttpMiddleware {
	return []goeasy.HttpMiddleware{}
}

func (l *Login) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(loginRequest{}, req.Body())
}

// Login starts the phone verification: the short code goes out via sms,
// the long proof goes back to the client and both return on finish.
func (l *Login) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(loginRequest)

	if !validPhone(req.Phone) {
		return simply.ErrBadRequest("bad phone number")
	}

	proof, code := l.OTP.Generate(otpBase(req.Phone), codeDigits)

	if err := l.SMS.NotifyCode(req.Phone, code); err != nil {
		log.Println("sms to", req.Phone, "failed:", err)
		return simply.ErrInternal("code delivery failed")
	}

	return simply.Dynamic{
		"auth_code": proof,
	}
}

type LoginEnd struct {
	*Service
}

type loginEndRequest struct {
	Phone      uint64 `json:"phone,string"`
	NotifyCode string `json:"notify_code"`
	AuthCode   []byte `json:"auth_code"`
}

func (l *LoginEnd) MiddlewareChain() []goeasy.HttpMiddleware {
	return []goeasy.HttpMiddleware{}
}

func (l *LoginEnd) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	return simply.Json(loginEndRequest{}, req.Body())
}

func (l *LoginEnd) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(loginEndRequest)

	if !validPhone(req.Phone) {
		return simply.ErrBadRequest("bad phone number")
	}

	if !l.OTP.Validate(otpBase(req.Phone), codeDigits, req.AuthCode, req.NotifyCode) {
		return simply.ErrAccessDenied("incorrect code")
	}

	uid, fresh, err := l.userByPhone(flow, req.Phone)
	if err != nil {
		log.Println("login of", req.Phone, "failed:", err)
		return simply.ErrInternal("login failed")
	}

	tkn, err := l.Tokens.Mint(uid)
	if err != nil {
		log.Println("token mint for", uid, "failed:", err)
		return simply.ErrInternal("login failed")
	}

	return simply.Dynamic{
		"id":    uid,
		"token": tkn,
		"isnew": fresh,
	}
}

// userByPhone resolves or registers the account. fresh means the client
// should run the profile setup flow.
func (l *LoginEnd) userByPhone(flow goeasy.Flow, phone uint64) (uint64, bool, error) {
	uid, err := l.Repo.GetUserIDByPhone(flow.Context(), phone)
	if err == repo.ErrNotFound {
		uid, err = l.Repo.CreateUser(flow.Context(), phone)
		return uid, true, err
	}
	if err != nil {
		return 0, false, err
	}

	profile, err := l.Repo.GetUserProfile(flow.Context(), uid)
	if err != nil {
		return 0, false, err
	}

	return uid, !profile.RegFinished, nil
}
