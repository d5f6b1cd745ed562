package main

import (
	"crypto/sha256"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy/server"

	"github.com/xssnick/whisp/pkg/games"
	"github.com/xssnick/whisp/pkg/moderation"
	"github.com/xssnick/whisp/pkg/notify"
	"github.com/xssnick/whisp/pkg/otp"
	"github.com/xssnick/whisp/pkg/pairing"
	"github.com/xssnick/whisp/pkg/photomgr"
	"github.com/xssnick/whisp/pkg/poller"
	"github.com/xssnick/whisp/pkg/relay"
	"github.com/xssnick/whisp/pkg/repo/postgres"
	"github.com/xssnick/whisp/pkg/token"
	"github.com/xssnick/whisp/pkg/typing"
	"github.com/xssnick/whisp/service"

	_ "github.com/lib/pq"
)

// adminIDs parses the comma separated ADMIN_IDS environment variable.
func adminIDs(env string) map[uint64]bool {
	admins := map[uint64]bool{}

	for _, part := range strings.Split(env, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			log.Println("skipping bad admin id:", part)
			continue
		}

		admins[id] = true
	}

	return admins
}

func main() {
	srv := server.New(server.Config{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    15 * time.Second,
	})

	pg, err := postgres.NewPostgresRepo(postgres.Config{
		Host:     "localhost",
		Login:    "test",
		Password: "mysecret",
		DB:       "whisp",
		Port:     54320,
	})
	if err != nil {
		log.Fatalln(err)
	}
	defer pg.Close()

	tokens, err := token.NewMinter(make([]byte, 32))
	if err != nil {
		log.Fatalln(err)
	}

	totp := otp.NewTOTP(sha256.New, []byte("secret228"))

	imgr := photomgr.New("./media")

	poll := poller.NewPoller()
	poll.StartCleaner(1 * time.Second)

	events := notify.NewEvents(poll, 128)

	tpr := typing.NewTyper(poll, 3*time.Second)
	go tpr.Cleaner()

	gate := moderation.NewGate(pg)

	hub := pairing.NewHub(pairing.Config{
		Gate: gate,
	})

	rl := relay.NewRelay(hub, gate, events)

	engine := games.NewEngine(hub, pg, events)

	svc := &service.Service{
		Repo:       pg,
		OTP:        totp,
		SMS:        notify.NewSMSNotifier(),
		Tokens:     tokens,
		ImgManager: imgr,
		Hub:        hub,
		Relay:      rl,
		Games:      engine,
		Notifier:   events,
		Typer:      tpr,
		Poller:     poll,

		Admins:      adminIDs(os.Getenv("ADMIN_IDS")),
		PayLinkBase: "https://t.me/CryptoBot?start=",
	}

	srv.MustRegister(fasthttp.MethodGet, "/version", &service.Info{Service: svc, Version: "1.0", Started: time.Now()})
	srv.MustRegister(fasthttp.MethodPost, "/login", &service.Login{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/login/finish", &service.LoginEnd{Service: svc})

	srv.MustRegister(fasthttp.MethodGet, "/profile", &service.Profile{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/profile/edit", &service.ProfileEdit{Service: svc})

	srv.MustRegister(fasthttp.MethodPost, "/chat/find", &service.FindChat{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/chat/cancel", &service.CancelChat{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/chat/stop", &service.StopChat{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/chat/send", &service.SendContent{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/chat/typing", &service.Typing{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/chat/typing/stop", &service.TypingStop{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/chat/reveal", &service.RevealChat{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/chat/complain", &service.ComplainChat{Service: svc})

	srv.MustRegister(fasthttp.MethodPost, "/game/find", &service.FindGame{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/game/cancel", &service.CancelGame{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/game/move", &service.GameMove{Service: svc})

	srv.MustRegister(fasthttp.MethodGet, "/state", &service.State{Service: svc})
	srv.MustRegister(fasthttp.MethodGet, "/events", &service.Events{Service: svc})

	srv.MustRegister(fasthttp.MethodPost, "/balance/donate", &service.Donate{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/balance/check", &service.CheckInvoice{Service: svc})

	srv.MustRegister(fasthttp.MethodGet, "/admin/users", &service.AdminUsers{Service: svc})
	srv.MustRegister(fasthttp.MethodGet, "/admin/complaints", &service.AdminComplaints{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/admin/complaint/handled", &service.AdminComplaintHandled{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/admin/ban", &service.AdminBan{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/admin/unban", &service.AdminUnban{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/admin/mute", &service.AdminMute{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/admin/balance", &service.AdminAddBalance{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/admin/vip", &service.AdminGiveVIP{Service: svc})
	srv.MustRegister(fasthttp.MethodPost, "/admin/invoice/paid", &service.AdminMarkPaid{Service: svc})

	srv.MustRegister(fasthttp.MethodGet, "/media/:owner/:img", &service.Media{Service: svc})

	log.Println(srv.Listen(":7777"))
}
