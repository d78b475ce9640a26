// Package auth contiene los DTOs de los endpoints de autenticación.
package auth

// RegisterRequest es el cuerpo de POST /v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterResponse confirma el alta; el access token recién llega al loguear
// con el email ya verificado.
type RegisterResponse struct {
	UserID           string `json:"user_id"`
	Email            string `json:"email"`
	VerificationSent bool   `json:"verification_sent"`
}

// LoginRequest es el cuerpo de POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse entrega el par de tokens.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"` // siempre "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // segundos
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest es el cuerpo de POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MeResponse es el snapshot de sesión que consume el frontend para armar
// el Subject del guard: rol, grants y estado de verificación.
type MeResponse struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Verified    bool     `json:"verified"`
}

// VerifyEmailRequest es el cuerpo de POST /v1/auth/verify-email.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}
