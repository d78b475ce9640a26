package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/hellocard/internal/observability/logger"
	"github.com/dropDatabas3/hellocard/internal/session"
)

// WithSession resuelve el Subject del bearer token y lo deja en el contexto.
// Nunca corta el request: un token inválido deja sesión anónima y una falla
// transitoria deja el estado en loading; el guard decide el efecto después.
func WithSession(p *session.Provider) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			subject, loading, err := p.Resolve(r.Context(), raw)
			if err != nil {
				logger.From(r.Context()).Warn("session resolution failed",
					logger.Component("middlewares.session"), logger.Err(err))
			}

			st := sessionState{Subject: subject, Loading: loading}
			if subject != nil {
				st.Raw = raw
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), st)))
		})
	}
}

func bearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("Bearer "):])
}
