// Package session resuelve el Subject de autorización a partir del access
// token. La resolución distingue tres salidas: sujeto válido, anónimo, o
// "resolviendo" (loading=true) cuando una dependencia transitoria (cache,
// base) no contesta. El guard trata loading como fail-closed: nunca se
// degrada a anónimo por una falla de infraestructura.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/cache"
	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	"github.com/dropDatabas3/hellocard/internal/jwt"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
)

const (
	revokedKeyPrefix = "sess:revoked:"
	grantsKeyPrefix  = "sess:grants:"

	// TTL corto: los grants cambian desde el admin y el cambio tiene que
	// impactar sin esperar a que venza el access token.
	grantsTTL = 30 * time.Second
)

// Provider resuelve sesiones. Users puede ser nil (los grants salen solo
// del token, útil en tests).
type Provider struct {
	Issuer *jwt.Issuer
	Cache  cache.Client
	Users  repository.UserRepository
}

func NewProvider(iss *jwt.Issuer, c cache.Client, users repository.UserRepository) *Provider {
	return &Provider{Issuer: iss, Cache: c, Users: users}
}

// snapshot cacheado de los grants frescos de la cuenta.
type grantsSnapshot struct {
	Role     string   `json:"role"`
	Perms    []string `json:"perms"`
	Verified bool     `json:"verified"`
	Status   string   `json:"status"`
}

// Resolve arma el Subject desde el bearer token.
//
//   - token vacío o inválido  ⇒ (nil, false, nil): anónimo.
//   - token revocado          ⇒ (nil, false, nil): anónimo.
//   - cuenta deshabilitada    ⇒ (nil, false, nil): anónimo.
//   - cache/base no contestan ⇒ (nil, true, err): resolviendo; el caller
//     decide el efecto (el guard responde 503, nunca deja pasar).
func (p *Provider) Resolve(ctx context.Context, raw string) (*authz.Subject, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, nil
	}

	claims, err := p.Issuer.Parse(raw)
	if err != nil {
		// token vencido o firmado por otro: anónimo, no error
		return nil, false, nil
	}

	sub := jwt.ClaimString(claims, "sub")
	jti := jwt.ClaimString(claims, "jti")
	if sub == "" {
		return nil, false, nil
	}

	if p.Cache != nil && jti != "" {
		revoked, err := p.Cache.Exists(ctx, revokedKeyPrefix+jti)
		if err != nil {
			return nil, true, err
		}
		if revoked {
			return nil, false, nil
		}
	}

	custom := jwt.ClaimMap(claims, "custom")
	subject := &authz.Subject{
		ID:       sub,
		Role:     authz.NormalizeRole(stringClaim(custom, "role")),
		Verified: boolClaim(custom, "email_verified"),
	}
	for _, s := range jwt.ClaimStringSlice(custom, "perms") {
		subject.Permissions = append(subject.Permissions, authz.Permission(s))
	}

	// Grants frescos: el token puede tener hasta AccessTTL de atraso y una
	// revocación de permisos tiene que pegar antes.
	if p.Users != nil {
		snap, loading, err := p.freshGrants(ctx, sub)
		if loading {
			return nil, true, err
		}
		if snap == nil || snap.Status == "disabled" {
			// cuenta borrada o deshabilitada con token todavía vigente
			return nil, false, nil
		}
		subject.Role = authz.NormalizeRole(snap.Role)
		subject.Verified = snap.Verified
		subject.Permissions = subject.Permissions[:0]
		for _, s := range snap.Perms {
			subject.Permissions = append(subject.Permissions, authz.Permission(s))
		}
	}

	return subject, false, nil
}

// freshGrants lee los grants con cache de por medio. snap == nil sin loading
// significa "cuenta borrada": el caller lo trata como token huérfano.
func (p *Provider) freshGrants(ctx context.Context, userID string) (*grantsSnapshot, bool, error) {
	key := grantsKeyPrefix + userID

	if p.Cache != nil {
		if v, err := p.Cache.Get(ctx, key); err == nil {
			var snap grantsSnapshot
			if jsonErr := json.Unmarshal([]byte(v), &snap); jsonErr == nil {
				return &snap, false, nil
			}
			// entrada corrupta: se ignora y se va a la base
		} else if !cache.IsNotFound(err) {
			return nil, true, err
		}
	}

	u, err := p.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, true, err
	}

	snap := &grantsSnapshot{Role: u.Role, Perms: u.Permissions, Verified: u.EmailVerified, Status: u.Status}
	if p.Cache != nil {
		b, _ := json.Marshal(snap)
		if err := p.Cache.Set(ctx, key, string(b), grantsTTL); err != nil {
			logger.L().Warn("session grants cache set failed", logger.Component("session"), logger.Err(err))
		}
	}
	return snap, false, nil
}

// Revoke marca el jti como revocado hasta que venza el token (logout).
func (p *Provider) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if p.Cache == nil || jti == "" {
		return nil
	}
	return p.Cache.Set(ctx, revokedKeyPrefix+jti, "1", ttl)
}

// InvalidateGrants tira el snapshot cacheado (cambio de grants desde admin).
func (p *Provider) InvalidateGrants(ctx context.Context, userID string) error {
	if p.Cache == nil {
		return nil
	}
	return p.Cache.Delete(ctx, grantsKeyPrefix+userID)
}

func stringClaim(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func boolClaim(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}
