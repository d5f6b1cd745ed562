package service

import (
	"time"

	"github.com/valyala/fasthttp"

	"github.com/xssnick/goeasy"
	"github.com/xssnick/goeasy/simply"

	"github.com/xssnick/whisp/pkg/repo"
)

type Events struct {
	*Service
}

type eventsRequest struct {
	Hash  uint64
	Force bool
}

func (l *Events) OnHttpRequest(flow goeasy.Flow, req *fasthttp.Request) interface{} {
	hash, err := req.URI().QueryArgs().GetUint("hash")

	return eventsRequest{
		Hash:  uint64(hash),
		Force: err != nil,
	}
}

// Events is the delivery side of the notify channel: long-polls until
// something new is queued, then drains the pending list.
func (l *Events) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	req := p.(eventsRequest)

	uid := flow.Context().Value("user_id").(uint64)

	if !req.Force {
		ch, waiting := l.Poller.WaitEvent(req.Hash, uid)
		if waiting {
			select {
			case <-ch:
			case <-time.After(10 * time.Second):
				l.Poller.ForgotEvent(uid, ch)
				return simply.Dynamic{
					"retry": true,
				}
			}
		}
	}

	evs := l.Notifier.Drain(uid)
	if evs == nil {
		evs = []repo.Event{}
	}

	return simply.Dynamic{
		"hash":        l.Poller.GetEvent(uid),
		"events":      evs,
		"peer_typing": l.Typer.Typing(uid),
	}
}
