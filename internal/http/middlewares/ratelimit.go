package middlewares

import (
	"net/http"
	"strconv"

	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
	"github.com/dropDatabas3/hellocard/internal/rate"
)

// KeyFunc deriva la clave de rate limiting de un request.
type KeyFunc func(r *http.Request) string

// KeyByIPPath: una ventana por cliente y por ruta. Es la clave por defecto
// de los endpoints de login/registro.
func KeyByIPPath(r *http.Request) string {
	return clientIP(r) + "|" + r.URL.Path
}

// WithRateLimit limita requests según el limiter. Si el limiter falla
// (Redis caído) el request pasa: rate limiting es best-effort, no un
// control de acceso.
func WithRateLimit(l rate.Limiter, key KeyFunc) Middleware {
	if key == nil {
		key = KeyByIPPath
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil {
				next.ServeHTTP(w, r)
				return
			}
			res, err := l.Allow(r.Context(), key(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if res.Remaining >= 0 {
				w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				}
				httperrors.WriteError(w, httperrors.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
