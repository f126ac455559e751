// Package api defines the typed resource clients of the findings console backend: Findings,
// Tickets, Runbooks, Auth/Tenant and Scan. Every query is cached under its resource namespace
// plus serialized arguments and tagged for invalidation; every mutation declares the tags it
// invalidates. The clients perform no retries on their own, retry and backoff are a caller
// decision.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/armorview/go-console-framework/pkg/configuration"
	"github.com/armorview/go-console-framework/pkg/networking"
	"github.com/armorview/go-console-framework/pkg/querycache"
	"github.com/armorview/go-console-framework/pkg/session"
)

// Cache tag types shared across the resource clients.
const (
	TagFinding  = "Finding"
	TagTicket   = "Ticket"
	TagRunbooks = "Runbooks"
	TagAuth     = "Auth"
)

// Client bundles the resource clients with their shared infrastructure.
type Client struct {
	config    configuration.Configuration
	network   networking.NetworkAccess
	cache     *querycache.Cache
	session   *session.Store
	refresher *Refresher
	logger    *zerolog.Logger

	Findings *FindingsClient
	Tickets  *TicketsClient
	Runbooks *RunbooksClient
	Auth     *AuthClient
	Scan     *ScanClient
}

func NewClient(
	config configuration.Configuration,
	network networking.NetworkAccess,
	cache *querycache.Cache,
	sessionStore *session.Store,
	logger *zerolog.Logger,
) *Client {
	c := &Client{
		config:    config,
		network:   network,
		cache:     cache,
		session:   sessionStore,
		refresher: NewRefresher(config, logger),
		logger:    logger,
	}

	c.Findings = &FindingsClient{client: c}
	c.Tickets = &TicketsClient{client: c}
	c.Runbooks = &RunbooksClient{client: c}
	c.Auth = &AuthClient{client: c}
	c.Scan = &ScanClient{client: c}
	return c
}

// Cache exposes the shared query cache, mainly for the view layer to trigger explicit refetches.
func (c *Client) Cache() *querycache.Cache {
	return c.cache
}

// Refresher exposes the delayed-refetch scheduler.
func (c *Client) Refresher() *Refresher {
	return c.refresher
}

func (c *Client) apiBase() string {
	base := c.config.GetString(configuration.API_URL)
	if base == "" {
		base = configuration.DefaultApiUrl
	}
	return strings.TrimSuffix(base, "/")
}

// do sends one request against the authenticated base and decodes the response into out.
// Non-2xx responses surface as *Error carrying the backend message when present.
func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	return c.doWith(ctx, c.network.GetHttpClient(), c.apiBase(), method, path, query, body, out)
}

func (c *Client) doWith(ctx context.Context, httpClient *http.Client, base string, method string, path string, query url.Values, body any, out any) error {
	requestUrl := base + path
	if len(query) > 0 {
		requestUrl += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		marshaled, err := json.Marshal(body)
		if err != nil {
			return &Error{cause: err}
		}
		bodyReader = bytes.NewReader(marshaled)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestUrl, bodyReader)
	if err != nil {
		return &Error{cause: err}
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return &Error{cause: err}
	}

	//goland:noinspection GoUnhandledErrorResult
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return &Error{cause: err}
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return newResponseError(response.StatusCode, responseBody)
	}

	if out != nil && len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, out); err != nil {
			return &Error{Status: response.StatusCode, cause: err}
		}
	}

	return nil
}

func newResponseError(status int, body []byte) *Error {
	apiError := &Error{Status: status}

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiError.Message = parsed.Message
	}

	return apiError
}
