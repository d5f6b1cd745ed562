package service

import (
	"time"

	"github.com/xssnick/goeasy"
)

type Info struct {
	*Service

	Version string
	Started time.Time
}

type infoResponse struct {
	Version string
	Uptime  int64
}

func (i *Info) OnProcess(flow goeasy.Flow, p interface{}) interface{} {
	return infoResponse{
		Version: i.Version,
		Uptime:  int64(time.Since(i.Started).Seconds()),
	}
}
