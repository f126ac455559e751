// Package networking provides the HTTP clients every resource client sends its requests through.
// Requests to the protected backend get the session token attached as a bearer credential by a
// RoundTripper middleware, so no resource client has to know about auth.
package networking

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/armorview/go-console-framework/pkg/auth"
	"github.com/armorview/go-console-framework/pkg/configuration"
	"github.com/armorview/go-console-framework/pkg/networking/middleware"
)

type NetworkAccess interface {
	GetDefaultHeader(url *url.URL) http.Header
	GetRoundTripper() http.RoundTripper
	// GetHttpClient returns the client for the authenticated backend base.
	GetHttpClient() *http.Client
	AddHeaderField(key string, value string)
}

type networkImpl struct {
	config        configuration.Configuration
	authenticator auth.Authenticator
	logger        *zerolog.Logger
	staticHeader  http.Header
}

func NewNetworkAccess(config configuration.Configuration, authenticator auth.Authenticator, logger *zerolog.Logger) NetworkAccess {
	return &networkImpl{
		config:        config,
		authenticator: authenticator,
		logger:        logger,
		staticHeader:  http.Header{},
	}
}

func (n *networkImpl) AddHeaderField(key string, value string) {
	n.staticHeader.Add(key, value)
}

func (n *networkImpl) GetDefaultHeader(u *url.URL) http.Header {
	h := http.Header{}

	for k, v := range n.staticHeader {
		for i := range v {
			h.Add(k, v[i])
		}
	}

	h.Set("Content-Type", "application/json")
	return h
}

func (n *networkImpl) baseRoundTripper() http.RoundTripper {
	insecure := n.config.GetBool(configuration.INSECURE_HTTPS)

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: insecure, //nolint:gosec // configuration driven
		},
	}

	var rt http.RoundTripper = transport
	rt = middleware.NewRetryMiddleware(n.config, n.logger, rt)
	rt = newLoggingRoundTripper(n.logger, rt)
	rt = &defaultHeaderRoundTripper{network: n, next: rt}
	return rt
}

func (n *networkImpl) GetRoundTripper() http.RoundTripper {
	rt := n.baseRoundTripper()
	rt = middleware.NewAuthHeaderMiddleware(n.config, n.authenticator, rt)
	rt = middleware.NewRequestIdMiddleware(rt)
	return rt
}

func (n *networkImpl) GetHttpClient() *http.Client {
	return &http.Client{
		Transport: n.GetRoundTripper(),
		Timeout:   n.timeout(),
	}
}

func (n *networkImpl) timeout() time.Duration {
	seconds := n.config.GetInt(configuration.TIMEOUT)
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// defaultHeaderRoundTripper adds default headers without overwriting entries the caller set.
type defaultHeaderRoundTripper struct {
	network NetworkAccess
	next    http.RoundTripper
}

func (c *defaultHeaderRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	defaultHeader := c.network.GetDefaultHeader(request.URL)

	for k, v := range defaultHeader {
		if _, found := request.Header[k]; !found {
			for i := range v {
				request.Header.Add(k, v[i])
			}
		}
	}

	return c.next.RoundTrip(request)
}
