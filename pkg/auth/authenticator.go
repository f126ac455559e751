package auth

import (
	"net/http"

	"github.com/pkg/errors"
)

type Authenticator interface {
	// AddAuthenticationHeader adds the authentication header to the request.
	AddAuthenticationHeader(request *http.Request) error
	// IsSupported returns true if the authenticator is ready for use.
	IsSupported() bool
}

var _ Authenticator = (*tokenAuthenticator)(nil)

type tokenAuthenticator struct {
	tokenFunc func() string
}

// NewTokenAuthenticator creates an authenticator that attaches the token returned by tokenFunc
// as a bearer credential. The token is resolved per request and never cached here, so a tenant
// switch is picked up by the very next request.
func NewTokenAuthenticator(tokenFunc func() string) Authenticator {
	return &tokenAuthenticator{
		tokenFunc: tokenFunc,
	}
}

func (t *tokenAuthenticator) AddAuthenticationHeader(request *http.Request) error {
	if request == nil {
		return errors.New("request must not be nil")
	}

	token := t.tokenFunc()
	if len(token) > 0 {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	return nil
}

func (t *tokenAuthenticator) IsSupported() bool {
	return len(t.tokenFunc()) > 0
}
