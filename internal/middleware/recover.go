package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/programpal/pathfinder/internal/ctxkeys"
)

// Recover turns a handler panic into a 500 response. If the handler already
// started its response the panic is only logged.
// With reportToSentry the panic is captured by sentry-go first and re-raised here.
func Recover(reportToSentry bool) func(http.Handler) http.Handler {
	var sentryHandler *sentryhttp.Handler
	if reportToSentry {
		sentryHandler = sentryhttp.New(sentryhttp.Options{Repanic: true})
	}

	return func(next http.Handler) http.Handler {
		if sentryHandler != nil {
			next = sentryHandler.Handle(next)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				slog.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", ctxkeys.RequestID(r.Context()),
					"stack", string(debug.Stack()),
					"response_started", rw.written,
				)
				if rw.written {
					return
				}
				writeError(rw, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
