package app

import (
	"io"

	"github.com/armorview/go-console-framework/pkg/configuration"
)

type Opts func(engine *Engine)

// WithConfiguration replaces the default file-backed configuration.
func WithConfiguration(config configuration.Configuration) Opts {
	return func(engine *Engine) {
		engine.config = config
	}
}

// WithLogWriter redirects log output away from stderr. The writer is still wrapped in the
// token-scrubbing writer.
func WithLogWriter(writer io.Writer) Opts {
	return func(engine *Engine) {
		engine.logWriter = writer
	}
}
