package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/indieinfra/safari-admin/server/util"
)

// wrappedWriter captures the status code written by downstream handlers.
type wrappedWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *wrappedWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *wrappedWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

func (rw *wrappedWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Logger installs a request-scoped logger in the context and logs method,
// path, status code and duration for every request.
func Logger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rl := util.WithRequest(log, r, "")
			ww := &wrappedWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r.WithContext(util.ContextWithLogger(r.Context(), rl)))

			event := rl.Logger().Info()
			if ww.statusCode >= http.StatusInternalServerError {
				event = rl.Logger().Error()
			}
			event.
				Int("status", ww.statusCode).
				Int("bytes", ww.bytes).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
