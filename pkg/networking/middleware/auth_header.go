package middleware

import (
	"net/http"

	"github.com/armorview/go-console-framework/pkg/auth"
	"github.com/armorview/go-console-framework/pkg/configuration"
)

type AuthHeaderMiddleware struct {
	next          http.RoundTripper
	authenticator auth.Authenticator
	config        configuration.Configuration
}

func NewAuthHeaderMiddleware(
	config configuration.Configuration,
	authenticator auth.Authenticator,
	roundTripper http.RoundTripper,
) *AuthHeaderMiddleware {
	return &AuthHeaderMiddleware{
		next:          roundTripper,
		config:        config,
		authenticator: authenticator,
	}
}

func (n *AuthHeaderMiddleware) RoundTrip(request *http.Request) (*http.Response, error) {
	if request.URL == nil {
		return n.next.RoundTrip(request)
	}

	// requests to the protected backend automatically get the session token attached
	if n.isProtectedApi(request) {
		if err := n.authenticator.AddAuthenticationHeader(request); err != nil {
			return nil, err
		}
	}

	return n.next.RoundTrip(request)
}

func (n *AuthHeaderMiddleware) isProtectedApi(request *http.Request) bool {
	apiUrl := n.config.GetUrl(configuration.API_URL)
	if apiUrl == nil {
		return false
	}
	return request.URL.Host == apiUrl.Host
}
