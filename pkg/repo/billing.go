package repo

import (
	"time"
)

type Invoice struct {
	ID        string
	UserID    uint64
	Amount    int64
	Paid      bool
	CreatedAt time.Time
}

type Complaint struct {
	ID         uint64
	Complainer uint64
	Target     uint64
	Reason     string
	Handled    bool
	CreatedAt  time.Time
}
