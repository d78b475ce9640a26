// Package jwt emite y valida los access tokens del servicio (EdDSA).
package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer firma tokens con una clave ed25519. El kid se deriva de la pubkey
// para que sobreviva reinicios con la misma seed.
type Issuer struct {
	Iss       string
	AccessTTL time.Duration

	kid  string
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewIssuer construye el issuer. seed en base64 (32 bytes) o vacío para
// generar una clave efímera (sólo dev: los tokens mueren con el proceso).
func NewIssuer(iss, seedB64 string, accessTTL time.Duration) (*Issuer, error) {
	if iss == "" {
		return nil, errors.New("issuer vacío")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}

	var priv ed25519.PrivateKey
	if seedB64 != "" {
		seed, err := base64.StdEncoding.DecodeString(seedB64)
		if err != nil {
			return nil, fmt.Errorf("seed inválida: %w", err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("seed debe tener %d bytes", ed25519.SeedSize)
		}
		priv = ed25519.NewKeyFromSeed(seed)
	} else {
		var err error
		_, priv, err = ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
	}

	pub := priv.Public().(ed25519.PublicKey)
	sum := sha256.Sum256(pub)
	kid := base64.RawURLEncoding.EncodeToString(sum[:8])

	return &Issuer{Iss: iss, AccessTTL: accessTTL, kid: kid, priv: priv, pub: pub}, nil
}

// ActiveKID devuelve el KID activo actual.
func (i *Issuer) ActiveKID() string { return i.kid }

// Keyfunc devuelve un jwt.Keyfunc para validar tokens firmados por este issuer.
func (i *Issuer) Keyfunc() jwtv5.Keyfunc {
	return func(t *jwtv5.Token) (any, error) {
		if kid, _ := t.Header["kid"].(string); kid != "" && kid != i.kid {
			return nil, fmt.Errorf("kid desconocido: %s", kid)
		}
		return i.pub, nil
	}
}

// IssueAccess emite un access token con claims estándar + custom (anidado).
// En custom viajan role, perms y email_verified; el session provider los lee
// para armar el Subject sin ir a la base en cada request.
func (i *Issuer) IssueAccess(sub string, custom map[string]any) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := jwtv5.MapClaims{
		"iss": i.Iss,
		"sub": sub,
		"iat": now.Unix(),
		"exp": exp.Unix(),
		"jti": uuid.NewString(),
	}
	if len(custom) > 0 {
		claims["custom"] = custom
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["kid"] = i.kid
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.priv)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
