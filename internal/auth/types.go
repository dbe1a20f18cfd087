package auth

type SessionKey string

// OIDCError is returned by the callback flow. RedirectURL is where the browser
// should be sent, Message is for logs only.
type OIDCError struct {
	RedirectURL string
	Message     string
}

func (e *OIDCError) Error() string {
	return e.Message
}
