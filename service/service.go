package service

import (
	"context"
	"time"

	"github.com/xssnick/goeasy"

	"github.com/xssnick/whisp/pkg/games"
	"github.com/xssnick/whisp/pkg/pairing"
	"github.com/xssnick/whisp/pkg/repo"
	"github.com/xssnick/whisp/pkg/token"
)

type Hub interface {
	Find(ctx context.Context, uid uint64, kind pairing.Kind) (*pairing.Session, error)
	Cancel(uid uint64, kind pairing.Kind) error
	Waiting(uid uint64) (pairing.Kind, bool)
	Get(uid uint64) (pairing.Session, bool)
	UnbindAll(uid uint64) (uint64, pairing.Kind, bool)
}

type Relay interface {
	Route(ctx context.Context, sender uint64, c repo.Content) (uint64, error)
	Stop(ctx context.Context, uid uint64) (uint64, error)
}

type Games interface {
	SubmitMove(ctx context.Context, uid uint64, input string) (*games.Result, error)
}

type Notifier interface {
	Notify(uid uint64, e repo.Event)
	Drain(uid uint64) []repo.Event
}

type SMS interface {
	NotifyCode(phone uint64, code string) error
}

type OTP interface {
	Generate(base string, digs int) (long []byte, short string)
	Validate(base string, digs int, slong []byte, sshort string) bool
}

type Typer interface {
	Set(watcher uint64)
	Del(watcher uint64)
	Typing(watcher uint64) bool
}

type Poller interface {
	ForgotEvent(id uint64, ch chan bool)
	WaitEvent(seen uint64, id uint64) (chan bool, bool)
	PushEvent(id uint64)
	GetEvent(id uint64) string
}

type ImageManager interface {
	SaveAvatar(data []byte, user uint64, slot int) error
	SavePhoto(data []byte, user uint64) (string, error)
	GetImage(user uint64, name string) ([]byte, error)
	ListImages(user uint64) ([]string, error)
}

type Repo interface {
	GetUserIDByPhone(ctx context.Context, phone uint64) (uint64, error)
	CreateUser(ctx context.Context, phone uint64) (uint64, error)
	GetUserProfile(ctx context.Context, id uint64) (*repo.UserProfile, error)
	EditProfile(ctx context.Context, id uint64, data repo.UserEdit) error

	SetBanned(ctx context.Context, id uint64, banned bool) error
	SetMuted(ctx context.Context, id uint64, until time.Time) error
	AdjustReputation(ctx context.Context, id uint64, delta int) error
	AddBalance(ctx context.Context, id uint64, amount int64) error
	GiveVIP(ctx context.Context, id uint64, days int) error
	ListUsers(ctx context.Context) ([]repo.UserListItem, error)

	CreateInvoice(ctx context.Context, id string, user uint64, amount int64) error
	GetInvoice(ctx context.Context, id string) (*repo.Invoice, error)
	MarkInvoicePaid(ctx context.Context, id string) (uint64, int64, error)

	CreateComplaint(ctx context.Context, complainer, target uint64, reason string) error
	ListComplaints(ctx context.Context, unhandledOnly bool) ([]repo.Complaint, error)
	MarkComplaintHandled(ctx context.Context, id uint64) error
}

type Service struct {
	goeasy.BasicService

	Repo       Repo
	OTP        OTP
	SMS        SMS
	Tokens     *token.Minter
	ImgManager ImageManager
	Hub        Hub
	Relay      Relay
	Games      Games
	Notifier   Notifier
	Typer      Typer
	Poller     Poller

	Admins      map[uint64]bool
	PayLinkBase string
}

func (b *Service) MiddlewareChain() []goeasy.HttpMiddleware {
	return []goeasy.HttpMiddleware{&Auth{Service: b}}
}

func (b *Service) isAdmin(uid uint64) bool {
	return b.Admins[uid]
}
