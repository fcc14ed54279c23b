package domain

// Verdict summarizes the result of a single liveness probe.
type Verdict string

const (
	// VerdictResponded means the bot produced a usable reply.
	VerdictResponded Verdict = "responded"
	// VerdictEmpty means no reply, or a reply that signals the bot is
	// not actually up (parked, in maintenance, offline message).
	VerdictEmpty Verdict = "empty"
)

// Reply is the raw outcome of a probe before classification.
// The zero value is the empty-reply sentinel.
type Reply struct {
	Text   string
	Inline bool // Satisfied via an inline query result instead of a message
}

// Empty reports whether nothing usable was received within the timeout.
func (r Reply) Empty() bool {
	return r.Text == "" && !r.Inline
}

// Peer is a resolved handle to a Telegram account, as seen by the
// userbot client.
type Peer struct {
	UserID         int64
	AccessHash     int64
	Username       string
	FirstName      string
	LastName       string
	Bot            bool
	Verified       bool
	InlineQueries  bool
	BotInfoVersion int
}
