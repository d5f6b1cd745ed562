package repo

// Content is an opaque relayed payload. The relay forwards it verbatim,
// it never looks inside.
type Content struct {
	Kind    string `json:"kind"`
	Text    string `json:"text,omitempty"`
	Media   string `json:"media,omitempty"`
	Caption string `json:"caption,omitempty"`
}

const (
	ContentText    = "text"
	ContentPhoto   = "photo"
	ContentSticker = "sticker"
	ContentVoice   = "voice"
	ContentVideo   = "video"
)

// Event is a single outbound notification queued for a user and drained
// by the long-poll endpoint.
type Event struct {
	Type    string   `json:"type"`
	Kind    string   `json:"kind,omitempty"`
	Text    string   `json:"text,omitempty"`
	Content *Content `json:"content,omitempty"`
	From    uint64   `json:"from,omitempty"`
}

const (
	EventPartnerFound = "partner_found"
	EventPartnerLeft  = "partner_left"
	EventMessage      = "message"
	EventProfile      = "profile"
	EventGameStart    = "game_start"
	EventGameResult   = "game_result"
	EventGameAborted  = "game_aborted"
	EventComplaint    = "complaint"
	EventPayment      = "payment"
)
