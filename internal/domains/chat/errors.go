package chat

import (
	"errors"

	"github.com/zeebo/errs"
)

var (
	// ValidationError is client-correctable (400).
	ValidationError = errs.Class("invalid chat request")
	// RateLimited carries retry-after semantics (429).
	RateLimited = errs.Class("rate limited")
	// UpstreamConfigError means the provider rejected our credentials (500).
	UpstreamConfigError = errs.Class("chat provider misconfigured")
	// UpstreamTransientError is any other provider failure (500).
	UpstreamTransientError = errs.Class("chat provider failed")
	// StorageError wraps conversation store failures. Never surfaced.
	StorageError = errs.Class("chat storage")

	ErrSessionNotFound = errors.New("chat session not found")
)

// Client-facing messages. Provider error text is only ever logged.
const (
	MsgRateLimited   = "Too many requests. Please wait a moment before trying again."
	MsgNotConfigured = "Chat service is not configured. Please contact the site owner."
	MsgGeneric       = "Something went wrong. Please try again."
)

// PublicMessage maps an error from the chat path to what the client may see.
func PublicMessage(err error) string {
	switch {
	case ValidationError.Has(err):
		return validationText(err)
	case RateLimited.Has(err):
		return MsgRateLimited
	case UpstreamConfigError.Has(err):
		return MsgNotConfigured
	default:
		return MsgGeneric
	}
}

type validationMsg string

func (v validationMsg) Error() string { return string(v) }

func invalid(msg string) error {
	return ValidationError.Wrap(validationMsg(msg))
}

func validationText(err error) string {
	var v validationMsg
	if errors.As(err, &v) {
		return "Invalid request: " + string(v)
	}
	return "Invalid request"
}
