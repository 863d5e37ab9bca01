package realtime

import "github.com/google/uuid"

// Session represents one live client connection. The transport layer owns
// the underlying conn; the registry only holds references, so a session
// must be removed with LeaveAll as part of connection teardown.
type Session struct {
	ID string

	// Send abstracts over the websocket conn to avoid an import cycle
	// with the transport package.
	Send func(kind string, payload any) error
}

func NewSession(send func(kind string, payload any) error) *Session {
	return &Session{ID: uuid.NewString(), Send: send}
}
