// Package session holds the process-wide answer to "who is logged in, as whom, with what token".
// The store is an explicit dependency handed to every component that needs session data; the token
// is written through to durable configuration storage so that a new process rehydrates the same
// session.
package session

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/configuration"
)

// Listener is invoked after every session mutation.
type Listener func()

type Store struct {
	mu       sync.RWMutex
	config   configuration.Configuration
	logger   *zerolog.Logger
	token    string
	user     *contract.User
	tenant   *contract.Tenant
	tenants  []contract.Tenant
	epoch    uint64
	listener []Listener
}

// CredentialOpt applies one field of a partial credential update. Fields without an opt stay
// untouched, which distinguishes "not provided" from an explicit nil.
type CredentialOpt func(*Store)

// WithToken sets the session token. An empty token removes the persisted value.
func WithToken(token string) CredentialOpt {
	return func(s *Store) {
		s.setTokenLocked(token)
	}
}

// WithUser sets the current user. Passing nil explicitly clears it.
func WithUser(user *contract.User) CredentialOpt {
	return func(s *Store) {
		s.user = user
	}
}

// WithCurrentTenant sets the active tenant. Passing nil explicitly clears it.
func WithCurrentTenant(tenant *contract.Tenant) CredentialOpt {
	return func(s *Store) {
		s.tenant = tenant
	}
}

// WithTenants sets the list of tenants the user belongs to.
func WithTenants(tenants []contract.Tenant) CredentialOpt {
	return func(s *Store) {
		s.tenants = tenants
	}
}

// New creates a session store hydrated from the persisted token, if any.
func New(config configuration.Configuration, logger *zerolog.Logger) *Store {
	config.PersistInStorage(configuration.AUTHENTICATION_TOKEN)

	s := &Store{
		config: config,
		logger: logger,
		token:  config.GetString(configuration.AUTHENTICATION_TOKEN),
	}
	return s
}

// SetCredentials merges the provided fields into the session. A provided token is written
// through to durable storage, every token change advances the session epoch.
func (s *Store) SetCredentials(opts ...CredentialOpt) {
	s.mu.Lock()
	for _, opt := range opts {
		opt(s)
	}
	s.mu.Unlock()
	s.notify()
}

// ClearCredentials resets all fields and removes the persisted token. Used on logout.
func (s *Store) ClearCredentials() {
	s.mu.Lock()
	s.setTokenLocked("")
	s.user = nil
	s.tenant = nil
	s.tenants = nil
	s.mu.Unlock()
	s.notify()
}

// SetCurrentTenant updates only the active tenant, used after a tenant switch completes.
func (s *Store) SetCurrentTenant(tenant contract.Tenant) {
	s.mu.Lock()
	s.tenant = &tenant
	s.mu.Unlock()
	s.notify()
}

func (s *Store) setTokenLocked(token string) {
	if s.token == token {
		return
	}
	s.token = token
	s.epoch++

	if token != "" {
		s.config.Set(configuration.AUTHENTICATION_TOKEN, token)
	} else {
		s.config.Unset(configuration.AUTHENTICATION_TOKEN)
	}

	if s.logger != nil {
		s.logger.Debug().Uint64("epoch", s.epoch).Msg("session token changed")
	}
}

// Token returns the current bearer token, empty if unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) User() *contract.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) CurrentTenant() *contract.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenant
}

func (s *Store) Tenants() []contract.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenants
}

// Epoch returns the current session epoch. The epoch advances on every token change, so cached
// data stamped with an older epoch belongs to a previous session or tenant scope and must not be
// served again.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// OnChange registers a listener invoked after every session mutation.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	s.listener = append(s.listener, l)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := append([]Listener{}, s.listener...)
	s.mu.RUnlock()

	for _, l := range listeners {
		l()
	}
}
