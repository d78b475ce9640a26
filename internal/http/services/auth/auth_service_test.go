package auth

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dropDatabas3/hellocard/internal/cache"
	dto "github.com/dropDatabas3/hellocard/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/jwt"
	"github.com/dropDatabas3/hellocard/internal/session"
	"github.com/dropDatabas3/hellocard/internal/store/memory"
)

// captureMailer guarda el último link de verificación en vez de mandarlo.
type captureMailer struct {
	to, link string
	sent     int
}

func (m *captureMailer) SendVerification(ctx context.Context, to, name, link string) error {
	m.to, m.link = to, link
	m.sent++
	return nil
}

type authFixture struct {
	svc      Service
	store    *memory.Store
	sessions *session.Provider
	mailer   *captureMailer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	iss, err := jwt.NewIssuer("https://test.hellocard.dev", "", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	st := memory.New()
	c := cache.NewMemory("test", time.Minute)
	sessions := session.NewProvider(iss, c, st)
	mailer := &captureMailer{}
	svc := NewService(st, iss, c, sessions, mailer, Options{
		PublicBaseURL: "http://localhost:3000",
		RefreshTTL:    time.Hour,
		VerifyTTL:     time.Hour,
	})
	return &authFixture{svc: svc, store: st, sessions: sessions, mailer: mailer}
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := err.(*httperrors.AppError)
	if !ok {
		t.Fatalf("quería *AppError %s, vino %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("code = %s, quería %s (detail: %s)", appErr.Code, code, appErr.Detail)
	}
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.RegisterRequest
		code string
	}{
		{"sin campos", dto.RegisterRequest{}, "MISSING_FIELDS"},
		{"email roto", dto.RegisterRequest{Email: "no-es-mail", Password: "supersecreta"}, "INVALID_FORMAT"},
		{"password corta", dto.RegisterRequest{Email: "ana@hellocard.dev", Password: "corta"}, "INVALID_FORMAT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tc.in)
			wantCode(t, err, tc.code)
		})
	}
}

func TestRegisterAndLoginFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	out, err := f.svc.Register(ctx, dto.RegisterRequest{
		Email: "Ana@HelloCard.dev", Name: "Ana", Password: "supersecreta",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if out.Email != "ana@hellocard.dev" {
		t.Fatalf("email no normalizado: %s", out.Email)
	}
	if !out.VerificationSent || f.mailer.sent != 1 {
		t.Fatalf("quería 1 mail de verificación, sent=%d", f.mailer.sent)
	}

	// mismo email (en otra capitalización) es conflicto
	_, err = f.svc.Register(ctx, dto.RegisterRequest{Email: "ANA@hellocard.dev", Password: "supersecreta"})
	wantCode(t, err, "CONFLICT")

	// una cuenta sin verificar igual puede loguear: el guard la frena después
	tokens, err := f.svc.Login(ctx, dto.LoginRequest{Email: "ana@hellocard.dev", Password: "supersecreta"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" || tokens.TokenType != "Bearer" {
		t.Fatalf("respuesta de login incompleta: %+v", tokens)
	}

	// password incorrecto y cuenta inexistente responden idéntico
	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "ana@hellocard.dev", Password: "incorrecta!"})
	wantCode(t, err, "INVALID_CREDENTIALS")
	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "nadie@hellocard.dev", Password: "supersecreta"})
	wantCode(t, err, "INVALID_CREDENTIALS")
}

func TestLogin_DisabledAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	out, err := f.svc.Register(ctx, dto.RegisterRequest{Email: "leo@hellocard.dev", Password: "supersecreta"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := f.store.SetUserStatus(ctx, out.UserID, "disabled"); err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}

	_, err = f.svc.Login(ctx, dto.LoginRequest{Email: "leo@hellocard.dev", Password: "supersecreta"})
	wantCode(t, err, "ACCOUNT_DISABLED")
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, dto.RegisterRequest{Email: "ana@hellocard.dev", Password: "supersecreta"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tokens, err := f.svc.Login(ctx, dto.LoginRequest{Email: "ana@hellocard.dev", Password: "supersecreta"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	renewed, err := f.svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if renewed.RefreshToken == tokens.RefreshToken {
		t.Fatal("el refresh token no rotó")
	}

	// el token usado murió en la rotación
	_, err = f.svc.Refresh(ctx, tokens.RefreshToken)
	wantCode(t, err, "TOKEN_INVALID")

	_, err = f.svc.Refresh(ctx, "")
	wantCode(t, err, "TOKEN_INVALID")
}

func TestLogout_RevokesAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, dto.RegisterRequest{Email: "ana@hellocard.dev", Password: "supersecreta"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	tokens, err := f.svc.Login(ctx, dto.LoginRequest{Email: "ana@hellocard.dev", Password: "supersecreta"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// antes del logout el access token resuelve sujeto
	sub, loading, err := f.sessions.Resolve(ctx, tokens.AccessToken)
	if err != nil || loading || sub == nil {
		t.Fatalf("Resolve pre-logout = (%v, %v, %v)", sub, loading, err)
	}

	if err := f.svc.Logout(ctx, tokens.AccessToken, tokens.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	sub, loading, err = f.sessions.Resolve(ctx, tokens.AccessToken)
	if err != nil || loading || sub != nil {
		t.Fatalf("Resolve post-logout = (%v, %v, %v), quería anónimo", sub, loading, err)
	}
	_, err = f.svc.Refresh(ctx, tokens.RefreshToken)
	wantCode(t, err, "TOKEN_INVALID")
}

func TestVerifyEmailFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	out, err := f.svc.Register(ctx, dto.RegisterRequest{Email: "ana@hellocard.dev", Name: "Ana", Password: "supersecreta"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// el mailer capturó el link; el token viaja como query param
	u, err := url.Parse(f.mailer.link)
	if err != nil || !strings.HasPrefix(f.mailer.link, "http://localhost:3000/verify-email?") {
		t.Fatalf("link inesperado: %q (%v)", f.mailer.link, err)
	}
	token := u.Query().Get("token")
	if token == "" {
		t.Fatalf("link sin token: %q", f.mailer.link)
	}

	if err := f.svc.VerifyEmail(ctx, token); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	me, err := f.svc.Me(ctx, out.UserID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if !me.Verified {
		t.Fatal("la cuenta sigue sin verificar")
	}

	// el token de verificación es de un solo uso
	wantCode(t, f.svc.VerifyEmail(ctx, token), "TOKEN_INVALID")

	// reenvío sobre cuenta ya verificada: no-op silencioso
	sent := f.mailer.sent
	if err := f.svc.ResendVerification(ctx, "ana@hellocard.dev"); err != nil {
		t.Fatalf("ResendVerification: %v", err)
	}
	if f.mailer.sent != sent {
		t.Fatal("no debía reenviar a cuenta verificada")
	}
	// y sobre cuenta inexistente responde igual (sin filtrar existencia)
	if err := f.svc.ResendVerification(ctx, "nadie@hellocard.dev"); err != nil {
		t.Fatalf("ResendVerification inexistente: %v", err)
	}
}
