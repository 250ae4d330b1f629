// Package payment opens hosted checkout sessions with a payment provider.
package payment

import (
	"context"

	"github.com/mmynk/shopboard/internal/calculator"
)

// SessionRequest describes the checkout session to open.
type SessionRequest struct {
	// OrderID is attached to the session so a payment can be traced back.
	OrderID  string
	Currency string
	Lines    []calculator.LineTotal

	// CustomerEmail pre-fills the provider's form when the buyer is signed in.
	CustomerEmail string

	SuccessURL string
	CancelURL  string
}

// Session is a provider-hosted checkout the client redirects to.
type Session struct {
	ID  string
	URL string
}

// Provider creates checkout sessions. Errors returned by implementations
// wrap apperr.ErrUpstream.
type Provider interface {
	Name() string
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}
