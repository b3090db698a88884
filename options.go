package ptb

import (
	"github.com/sirupsen/logrus"
)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger. The default is the standard logrus
// logger.
func WithLogger(log logrus.FieldLogger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

// WithBuildOptions sets the options applied to every build the engine runs,
// such as WithGasBudget.
func WithBuildOptions(opts ...BuildOption) EngineOption {
	return func(e *Engine) {
		e.buildOpts = opts
	}
}
