package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/cache"
	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	dto "github.com/dropDatabas3/hellocard/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/jwt"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
	"github.com/dropDatabas3/hellocard/internal/security/password"
	"github.com/dropDatabas3/hellocard/internal/session"
)

const (
	refreshKeyPrefix = "auth:refresh:"
	verifyKeyPrefix  = "auth:verify:"

	minPasswordLen = 8
)

// Options son los parámetros de configuración del servicio.
type Options struct {
	PublicBaseURL string
	RefreshTTL    time.Duration
	VerifyTTL     time.Duration
	// DebugEchoLinks loguea el link de verificación en vez de depender del
	// mail (entornos locales sin SMTP).
	DebugEchoLinks bool
}

type service struct {
	users    repository.UserRepository
	issuer   *jwt.Issuer
	cache    cache.Client
	sessions *session.Provider
	mailer   VerificationMailer
	opts     Options
}

// NewService arma el servicio de autenticación. mailer puede ser nil si
// DebugEchoLinks está activo.
func NewService(users repository.UserRepository, issuer *jwt.Issuer, c cache.Client, sessions *session.Provider, mailer VerificationMailer, opts Options) Service {
	return &service{users: users, issuer: issuer, cache: c, sessions: sessions, mailer: mailer, opts: opts}
}

func (s *service) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, httperrors.ErrMissingFields.WithDetail("email y password son obligatorios")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, httperrors.ErrInvalidFormat.WithDetail("email inválido")
	}
	if len(in.Password) < minPasswordLen {
		return nil, httperrors.ErrInvalidFormat.WithDetail(fmt.Sprintf("password de al menos %d caracteres", minPasswordLen))
	}

	hash, err := password.Hash(password.Default, in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.CreateUser(ctx, repository.UserInput{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         string(authz.RoleUser),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, httperrors.ErrConflict.WithDetail("el email ya está registrado")
		}
		return nil, err
	}

	sent := s.sendVerification(ctx, u) == nil
	return &dto.RegisterResponse{UserID: u.ID, Email: u.Email, VerificationSent: sent}, nil
}

func (s *service) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, httperrors.ErrMissingFields.WithDetail("email y password son obligatorios")
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// mismo error que password incorrecto: no filtrar existencia
			return nil, httperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(in.Password, u.PasswordHash) {
		return nil, httperrors.ErrInvalidCredentials
	}
	if u.Status == "disabled" {
		return nil, httperrors.ErrAccountDisabled
	}

	return s.issueTokens(ctx, u)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, httperrors.ErrTokenInvalid
	}

	key := refreshKeyPrefix + refreshToken
	userID, err := s.cache.Get(ctx, key)
	if err != nil {
		if cache.IsNotFound(err) {
			return nil, httperrors.ErrTokenInvalid
		}
		return nil, httperrors.ErrServiceUnavailable.WithCause(err)
	}
	// rotación: el token usado muere acá, pase lo que pase después
	_ = s.cache.Delete(ctx, key)

	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperrors.ErrTokenInvalid
		}
		return nil, err
	}
	if u.Status == "disabled" {
		return nil, httperrors.ErrAccountDisabled
	}

	return s.issueTokens(ctx, u)
}

func (s *service) Logout(ctx context.Context, rawAccess, refreshToken string) error {
	if refreshToken != "" {
		_ = s.cache.Delete(ctx, refreshKeyPrefix+strings.TrimSpace(refreshToken))
	}
	if rawAccess == "" {
		return nil
	}
	claims, err := s.issuer.Parse(rawAccess)
	if err != nil {
		// token ya vencido: nada que revocar
		return nil
	}
	jti := jwt.ClaimString(claims, "jti")
	if jti == "" {
		return nil
	}
	ttl := s.issuer.AccessTTL
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if d := time.Until(exp.Time); d > 0 {
			ttl = d
		}
	}
	return s.sessions.Revoke(ctx, jti, ttl)
}

func (s *service) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperrors.ErrNotFound
		}
		return nil, err
	}
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &dto.MeResponse{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(authz.NormalizeRole(u.Role)),
		Permissions: perms,
		Verified:    u.EmailVerified,
	}, nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return httperrors.ErrTokenInvalid
	}
	key := verifyKeyPrefix + token
	userID, err := s.cache.Get(ctx, key)
	if err != nil {
		if cache.IsNotFound(err) {
			return httperrors.ErrTokenInvalid.WithDetail("token de verificación vencido o inválido")
		}
		return httperrors.ErrServiceUnavailable.WithCause(err)
	}
	_ = s.cache.Delete(ctx, key)

	if err := s.users.SetUserVerified(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperrors.ErrTokenInvalid
		}
		return err
	}
	return nil
}

func (s *service) ResendVerification(ctx context.Context, email string) error {
	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// respuesta idéntica exista o no la cuenta
		return nil
	}
	if u.EmailVerified {
		return nil
	}
	return s.sendVerification(ctx, u)
}

// issueTokens emite access + refresh para la cuenta.
func (s *service) issueTokens(ctx context.Context, u *repository.User) (*dto.LoginResponse, error) {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	access, exp, err := s.issuer.IssueAccess(u.ID, map[string]any{
		"role":           string(authz.NormalizeRole(u.Role)),
		"perms":          perms,
		"email_verified": u.EmailVerified,
	})
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	if err := s.cache.Set(ctx, refreshKeyPrefix+refresh, u.ID, s.opts.RefreshTTL); err != nil {
		return nil, httperrors.ErrServiceUnavailable.WithCause(err)
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(exp).Seconds()),
		RefreshToken: refresh,
	}, nil
}

func (s *service) sendVerification(ctx context.Context, u *repository.User) error {
	token := uuid.NewString()
	if err := s.cache.Set(ctx, verifyKeyPrefix+token, u.ID, s.opts.VerifyTTL); err != nil {
		return err
	}
	link := strings.TrimRight(s.opts.PublicBaseURL, "/") + "/verify-email?token=" + token

	if s.opts.DebugEchoLinks {
		logger.From(ctx).Info("verification link (debug echo)",
			logger.Component("services.auth"),
			logger.Email(u.Email),
			logger.String("link", link),
		)
		return nil
	}
	if s.mailer == nil {
		return errors.New("auth: mailer no configurado")
	}
	if err := s.mailer.SendVerification(ctx, u.Email, u.Name, link); err != nil {
		logger.From(ctx).Warn("verification mail failed",
			logger.Component("services.auth"), logger.Email(u.Email), logger.Err(err))
		return err
	}
	return nil
}
