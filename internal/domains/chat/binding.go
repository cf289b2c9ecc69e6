package chat

// Binding ties a request to a persisted session, or records that session
// resolution failed. An unbound request still chats; persistence is skipped.
type Binding struct {
	sessionID string
}

var Unbound = Binding{}

func Bound(sessionID string) Binding {
	return Binding{sessionID: sessionID}
}

func (b Binding) SessionID() (string, bool) {
	return b.sessionID, b.sessionID != ""
}

func (b Binding) String() string {
	if b.sessionID == "" {
		return "unbound"
	}
	return b.sessionID
}
