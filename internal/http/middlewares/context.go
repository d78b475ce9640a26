package middlewares

import (
	"context"

	"github.com/dropDatabas3/hellocard/internal/authz"
)

// contextKey es un tipo propio para evitar colisiones en el contexto.
type contextKey string

const (
	requestIDKey contextKey = "hc.request_id"
	sessionKey   contextKey = "hc.session"
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// GetRequestID devuelve el request ID del contexto ("" si no hay).
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// sessionState es lo que el middleware de sesión deja en el contexto:
// el sujeto resuelto (nil = anónimo) y si la resolución quedó pendiente
// por una falla transitoria.
type sessionState struct {
	Subject *authz.Subject
	Loading bool
	Raw     string // access token crudo, para logout (revocación por jti)
}

func withSession(ctx context.Context, st sessionState) context.Context {
	return context.WithValue(ctx, sessionKey, st)
}

// GetSubject devuelve el sujeto autenticado del contexto (nil si anónimo o
// si el middleware de sesión no corrió).
func GetSubject(ctx context.Context) *authz.Subject {
	st, _ := ctx.Value(sessionKey).(sessionState)
	return st.Subject
}

// SessionLoading indica si la resolución de sesión quedó pendiente.
func SessionLoading(ctx context.Context) bool {
	st, _ := ctx.Value(sessionKey).(sessionState)
	return st.Loading
}

// GetRawToken devuelve el access token crudo del request ("" si anónimo).
func GetRawToken(ctx context.Context) string {
	st, _ := ctx.Value(sessionKey).(sessionState)
	return st.Raw
}

// GetUserID devuelve el ID del usuario autenticado ("" si anónimo).
func GetUserID(ctx context.Context) string {
	if s := GetSubject(ctx); s != nil {
		return s.ID
	}
	return ""
}
