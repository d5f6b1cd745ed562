package repo

import (
	"errors"
)

var ErrNotFound = errors.New("not found")
var ErrNotBound = errors.New("no active partner")
var ErrAlreadyBound = errors.New("already has an active partner")
var ErrNotWaiting = errors.New("not in search")
var ErrPeerGone = errors.New("partner state is gone")
var ErrBanned = errors.New("user is banned")
var ErrMuted = errors.New("user is muted")
var ErrInvalidInput = errors.New("invalid input")
var ErrUnsupportedContent = errors.New("unsupported content type")
