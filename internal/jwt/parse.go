package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("token inválido")

// Parse valida un access token (firma, issuer, expiración con leeway) y
// retorna las claims. No toca la base: es pura verificación criptográfica.
func (i *Issuer) Parse(raw string) (jwtv5.MapClaims, error) {
	tk, err := jwtv5.Parse(raw, i.Keyfunc(),
		jwtv5.WithValidMethods([]string{"EdDSA"}),
		jwtv5.WithIssuer(i.Iss),
		jwtv5.WithLeeway(30*time.Second),
	)
	if err != nil || !tk.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tk.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ClaimString extrae una claim string (tolerante: "" si falta o no es string).
func ClaimString(claims jwtv5.MapClaims, key string) string {
	if claims == nil {
		return ""
	}
	s, _ := claims[key].(string)
	return s
}

// ClaimMap extrae una claim map anidada (nil si falta).
func ClaimMap(claims map[string]any, key string) map[string]any {
	if claims == nil {
		return nil
	}
	m, _ := claims[key].(map[string]any)
	return m
}

// ClaimStringSlice extrae una lista de strings de una claim.
// Tolera tanto []any (JSON decodificado) como []string.
func ClaimStringSlice(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, i := range v {
			if s, ok := i.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
