package service

import (
	"context"
	"encoding/base64"

	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"
)

// Auth turns the Auth-Token header into a user id in the flow context.
// Every route except login, version and media goes through it.
type Auth struct {
	*Service
}

func (a *Auth) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	raw := req.Header.Peek("Auth-Token")
	if len(raw) == 0 {
		return simply.ErrUnauthorized("token required")
	}

	tkn, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return simply.ErrUnauthorized("malformed token")
	}

	return tkn
}

func (a *Auth) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	uid, err := a.Tokens.Parse(p.([]byte))
	if err != nil {
		return simply.ErrUnauthorized("invalid token")
	}

	flow.UpdateContext(context.WithValue(flow.Context(), "user_id", uid))

	return nil
}
