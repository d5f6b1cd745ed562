package repo

import (
	"time"
)

type UserEdit struct {
	Name  string
	About string
}

type UserProfile struct {
	ID          uint64
	Phone       uint64
	Name        string
	About       string
	Reputation  int
	Balance     int64
	VIPUntil    *time.Time
	RegFinished bool
	CreatedAt   time.Time
}

// ModerationState is what the gate reads on every inbound action.
type ModerationState struct {
	Banned     bool
	MutedUntil *time.Time
}

type UserListItem struct {
	ID         uint64
	Name       string
	Reputation int
	Balance    int64
	VIPUntil   *time.Time
	Banned     bool
	MutedUntil *time.Time
}
