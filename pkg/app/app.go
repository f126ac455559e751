// Package app assembles the framework: configuration, logging, session, networking, cache and
// the resource clients, wired in the right order with sane defaults. Callers that need finer
// control can build the pieces themselves; the engine is the batteries-included path.
package app

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/armorview/go-console-framework/pkg/api"
	"github.com/armorview/go-console-framework/pkg/auth"
	"github.com/armorview/go-console-framework/pkg/configuration"
	"github.com/armorview/go-console-framework/pkg/logging"
	"github.com/armorview/go-console-framework/pkg/networking"
	"github.com/armorview/go-console-framework/pkg/querycache"
	"github.com/armorview/go-console-framework/pkg/session"
)

// Engine bundles the shared infrastructure with the resource clients.
type Engine struct {
	config    configuration.Configuration
	logger    zerolog.Logger
	logWriter io.Writer
	scrubber  logging.ScrubbingWriter
	session   *session.Store
	network   networking.NetworkAccess
	cache     *querycache.Cache
	client    *api.Client
}

// NewEngine creates a fully wired engine. Without options it reads the default configuration
// files and logs to stderr at the configured level, with the session token scrubbed from all
// output.
func NewEngine(opts ...Opts) *Engine {
	engine := &Engine{
		logWriter: os.Stderr,
	}

	for _, opt := range opts {
		opt(engine)
	}

	if engine.config == nil {
		engine.config = configuration.New()
	}
	initConfiguration(engine.config)

	engine.scrubber = logging.NewScrubbingWriter(engine.logWriter)
	engine.logger = zerolog.New(engine.scrubber).
		Level(logLevel(engine.config)).
		With().Timestamp().Logger()

	engine.session = session.New(engine.config, &engine.logger)
	engine.session.OnChange(func() {
		if token := engine.session.Token(); token != "" {
			engine.scrubber.AddTerm(token)
		}
	})
	if token := engine.session.Token(); token != "" {
		engine.scrubber.AddTerm(token)
	}

	authenticator := auth.NewTokenAuthenticator(engine.session.Token)
	engine.network = networking.NewNetworkAccess(engine.config, authenticator, &engine.logger)
	engine.cache = querycache.New(engine.config, &engine.logger, engine.session.Epoch)
	engine.client = api.NewClient(engine.config, engine.network, engine.cache, engine.session, &engine.logger)

	return engine
}

// initConfiguration registers the default values every component relies on.
func initConfiguration(config configuration.Configuration) {
	config.AddDefaultValue(configuration.API_URL, configuration.StandardDefaultValueFunction(configuration.DefaultApiUrl))
	config.AddDefaultValue(configuration.REFETCH_DELAY_MS, configuration.StandardDefaultValueFunction(configuration.DefaultRefetchDelayMs))
	config.AddDefaultValue(configuration.CACHE_TTL_SECONDS, configuration.StandardDefaultValueFunction(configuration.DefaultCacheTtlSeconds))
	config.AddDefaultValue(configuration.OAUTH_AUTHORIZATION_PATH, configuration.StandardDefaultValueFunction(configuration.DefaultOauthPath))

	config.AddAlternativeKeys(configuration.AUTHENTICATION_TOKEN, []string{"console_token"})
}

func logLevel(config configuration.Configuration) zerolog.Level {
	if config.GetBool(configuration.DEBUG) {
		return zerolog.DebugLevel
	}

	level, err := zerolog.ParseLevel(config.GetString(configuration.LOG_LEVEL))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func (e *Engine) GetConfiguration() configuration.Configuration {
	return e.config
}

func (e *Engine) GetLogger() *zerolog.Logger {
	return &e.logger
}

func (e *Engine) GetSession() *session.Store {
	return e.session
}

func (e *Engine) GetNetworkAccess() networking.NetworkAccess {
	return e.network
}

func (e *Engine) GetCache() *querycache.Cache {
	return e.cache
}

func (e *Engine) GetClient() *api.Client {
	return e.client
}

// Close cancels pending delayed refetches.
func (e *Engine) Close() {
	e.client.Refresher().Stop()
}
