package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/indieinfra/safari-admin/config"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// NewLogger builds the process logger. Debug mode or format "console" writes
// human-readable lines; anything else writes JSON.
func NewLogger(cfg config.Logging, debug bool, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if debug && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}

	if debug || cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// RequestLogger holds request-scoped context to enrich logs.
type RequestLogger struct {
	logger zerolog.Logger
}

// WithRequest creates a request-scoped logger wrapping the provided logger.
func WithRequest(l zerolog.Logger, r *http.Request, user string) *RequestLogger {
	zc := l.With().
		Str("method", r.Method).
		Str("path", r.URL.Path)

	if id := middleware.GetReqID(r.Context()); id != "" {
		zc = zc.Str("request_id", id)
	}
	if user != "" {
		zc = zc.Str("user", user)
	}

	return &RequestLogger{logger: zc.Logger()}
}

// ContextWithLogger stores the request logger in context for downstream handlers.
func ContextWithLogger(ctx context.Context, rl *RequestLogger) context.Context {
	return context.WithValue(ctx, loggerKey, rl)
}

func (rl *RequestLogger) Logger() *zerolog.Logger { return &rl.logger }

func (rl *RequestLogger) Debugf(format string, v ...any) {
	rl.logger.Debug().Msg(fmt.Sprintf(format, v...))
}
func (rl *RequestLogger) Infof(format string, v ...any) {
	rl.logger.Info().Msg(fmt.Sprintf(format, v...))
}
func (rl *RequestLogger) Warnf(format string, v ...any) {
	rl.logger.Warn().Msg(fmt.Sprintf(format, v...))
}
func (rl *RequestLogger) Errorf(format string, v ...any) {
	rl.logger.Error().Msg(fmt.Sprintf(format, v...))
}

// FromContext retrieves a request logger from context when available.
func FromContext(ctx context.Context) *RequestLogger {
	if ctx == nil {
		return nil
	}

	if rl, ok := ctx.Value(loggerKey).(*RequestLogger); ok {
		return rl
	}

	return nil
}

// LoggerFor returns the request logger from r, or one derived from fallback
// when no middleware installed it.
func LoggerFor(r *http.Request, fallback zerolog.Logger) *RequestLogger {
	if rl := FromContext(r.Context()); rl != nil {
		return rl
	}

	return WithRequest(fallback, r, "")
}
