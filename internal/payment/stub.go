package payment

import (
	"context"
	"net/url"

	"github.com/google/uuid"
)

// StubProvider issues local session identifiers without contacting any
// provider. It is used when no provider key is configured.
type StubProvider struct{}

var _ Provider = StubProvider{}

func (StubProvider) Name() string { return "stub" }

// CreateSession returns a "cs_stub_" session whose URL is the success URL.
func (StubProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := "cs_stub_" + uuid.New().String()
	redirect := req.SuccessURL
	if u, err := url.Parse(req.SuccessURL); err == nil {
		q := u.Query()
		q.Set("session_id", id)
		u.RawQuery = q.Encode()
		redirect = u.String()
	}

	return &Session{ID: id, URL: redirect}, nil
}
