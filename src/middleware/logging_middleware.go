package middleware

import (
	"net/http"
	"time"

	"spendwise-server/src/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// RequestLogger attaches log to every request and writes one access line
// per response. It expects chi's RequestID middleware to run first.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := hlog.AccessHandler(accessLine)(next)
		h = hlog.URLHandler("url")(h)
		h = hlog.MethodHandler("method")(h)
		h = hlog.RemoteAddrHandler("ip")(h)
		h = requestIDHandler(h)
		return hlog.NewHandler(log)(h)
	}
}

func requestIDHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str(logger.FieldRequestID, id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLine(r *http.Request, status, size int, duration time.Duration) {
	log := hlog.FromRequest(r)

	var evt *zerolog.Event
	switch {
	case status >= http.StatusInternalServerError:
		evt = log.Error()
	case status >= http.StatusBadRequest:
		evt = log.Warn()
	default:
		evt = log.Info()
	}

	evt.Str(logger.FieldComponent, logger.ComponentHTTP).
		Int(logger.FieldStatus, status).
		Int(logger.FieldSize, size).
		Dur(logger.FieldDuration, duration).
		Msg("request")
}
