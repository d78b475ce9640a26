// Package auth contiene el servicio de autenticación y sus contratos.
package auth

import (
	"context"

	dto "github.com/dropDatabas3/hellocard/internal/http/dto/auth"
)

// Service define las operaciones de autenticación que consumen los
// controllers.
type Service interface {
	// Register da de alta la cuenta y dispara el mail de verificación.
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error)

	// Login autentica con email/password. Una cuenta sin verificar puede
	// loguear: el route guard es quien la frena en las rutas protegidas.
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)

	// Refresh rota el refresh token y emite un access nuevo.
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)

	// Logout revoca el access token vigente y tira el refresh.
	Logout(ctx context.Context, rawAccess, refreshToken string) error

	// Me devuelve el snapshot de sesión del usuario autenticado.
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)

	// VerifyEmail consume el token del mail y marca la cuenta verificada.
	VerifyEmail(ctx context.Context, token string) error

	// ResendVerification regenera el token y reenvía el mail.
	ResendVerification(ctx context.Context, email string) error
}

// VerificationMailer envía el mail de verificación. internal/email lo
// implementa con SMTP; los tests usan un fake.
type VerificationMailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
}
