// Package log wires a single process-wide structured logger, the
// generalization of insaplace-saml/logger.DefaultLogger (referenced by
// samlsp/fetch_metadata.go as logger.DefaultLogger.Printf) onto
// go.uber.org/zap's SugaredLogger, the idiom the rest of the example
// corpus's HTTP services use for request-scoped logging.
package log

import "go.uber.org/zap"

// DefaultLogger is the process-wide logger used by handlers and the
// dispatcher to record unhandled errors. Set it once at process startup
// with SetDefaultLogger; tests may substitute zap.NewNop().Sugar().
var DefaultLogger = newProductionSugar()

func newProductionSugar() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger.Sugar()
}

// SetDefaultLogger replaces the process-wide logger, e.g. with a
// development config or a nop logger in tests.
func SetDefaultLogger(l *zap.SugaredLogger) {
	DefaultLogger = l
}

// WithCorrelationID returns a child logger carrying a per-request
// identifier, so every log line a handler emits for a given request can
// be grepped together.
func WithCorrelationID(id string) *zap.SugaredLogger {
	return DefaultLogger.With("correlation_id", id)
}
