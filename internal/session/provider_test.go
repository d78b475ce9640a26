package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/cache"
	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	"github.com/dropDatabas3/hellocard/internal/jwt"
	"github.com/dropDatabas3/hellocard/internal/store/memory"
)

func newTestProvider(t *testing.T) (*Provider, *memory.Store, *jwt.Issuer) {
	t.Helper()
	iss, err := jwt.NewIssuer("https://test.hellocard.dev", "", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	st := memory.New()
	c := cache.NewMemory("test", time.Minute)
	return NewProvider(iss, c, st), st, iss
}

func seedUser(t *testing.T, st *memory.Store, role string, perms []string) *repository.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), repository.UserInput{
		Email:        "sofia@hellocard.dev",
		Name:         "Sofía",
		PasswordHash: "x",
		Role:         role,
		Permissions:  perms,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := st.SetUserVerified(context.Background(), u.ID); err != nil {
		t.Fatalf("SetUserVerified: %v", err)
	}
	return u
}

func TestResolve_EmptyAndInvalidTokens(t *testing.T) {
	p, _, _ := newTestProvider(t)

	for _, raw := range []string{"", "   ", "no-es-un-jwt", "a.b.c"} {
		s, loading, err := p.Resolve(context.Background(), raw)
		if err != nil || loading || s != nil {
			t.Fatalf("Resolve(%q) = (%v, %v, %v), quería anónimo limpio", raw, s, loading, err)
		}
	}
}

func TestResolve_SubjectFromFreshGrants(t *testing.T) {
	p, st, iss := newTestProvider(t)
	u := seedUser(t, st, "SUBADMIN", []string{"users:view", "invoices:view"})

	// el token viaja con grants viejos; la resolución debe preferir la base
	raw, _, err := iss.IssueAccess(u.ID, map[string]any{
		"role": "USER", "perms": []string{}, "email_verified": false,
	})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	s, loading, err := p.Resolve(context.Background(), raw)
	if err != nil || loading {
		t.Fatalf("Resolve: loading=%v err=%v", loading, err)
	}
	if s == nil || s.Role != authz.RoleSubadmin || !s.Verified {
		t.Fatalf("subject = %+v, quería SUBADMIN verificado", s)
	}
	if !authz.Can(s, authz.PermUsersView) || authz.Can(s, authz.PermUsersDelete) {
		t.Fatalf("grants mal armados: %v", s.Permissions)
	}
}

func TestResolve_RevokedToken(t *testing.T) {
	p, st, iss := newTestProvider(t)
	u := seedUser(t, st, "USER", nil)

	raw, _, err := iss.IssueAccess(u.ID, nil)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	claims, err := iss.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := p.Revoke(context.Background(), jwt.ClaimString(claims, "jti"), time.Minute); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	s, loading, err := p.Resolve(context.Background(), raw)
	if err != nil || loading || s != nil {
		t.Fatalf("token revocado debe resolver anónimo, got (%v, %v, %v)", s, loading, err)
	}
}

func TestResolve_DisabledAccount(t *testing.T) {
	p, st, iss := newTestProvider(t)
	u := seedUser(t, st, "ADMIN", nil)
	if err := st.SetUserStatus(context.Background(), u.ID, "disabled"); err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}

	raw, _, err := iss.IssueAccess(u.ID, map[string]any{"role": "ADMIN"})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	s, loading, err := p.Resolve(context.Background(), raw)
	if err != nil || loading || s != nil {
		t.Fatalf("cuenta disabled debe resolver anónimo, got (%v, %v, %v)", s, loading, err)
	}
}

func TestResolve_DeletedAccount(t *testing.T) {
	p, _, iss := newTestProvider(t)

	raw, _, err := iss.IssueAccess("no-existe", map[string]any{"role": "ADMIN"})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	s, loading, err := p.Resolve(context.Background(), raw)
	if err != nil || loading || s != nil {
		t.Fatalf("token huérfano debe resolver anónimo, got (%v, %v, %v)", s, loading, err)
	}
}

// brokenCache simula un backend caído.
type brokenCache struct{}

var errDown = errors.New("cache down")

func (brokenCache) Get(context.Context, string) (string, error)              { return "", errDown }
func (brokenCache) Set(context.Context, string, string, time.Duration) error { return errDown }
func (brokenCache) Delete(context.Context, string) error                     { return errDown }
func (brokenCache) Exists(context.Context, string) (bool, error)             { return false, errDown }
func (brokenCache) Ping(context.Context) error                               { return errDown }
func (brokenCache) Close() error                                             { return nil }

func TestResolve_TransientFailureIsLoading(t *testing.T) {
	iss, err := jwt.NewIssuer("https://test.hellocard.dev", "", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	st := memory.New()
	p := NewProvider(iss, brokenCache{}, st)

	u, err := st.CreateUser(context.Background(), repository.UserInput{Email: "a@b.dev", PasswordHash: "x", Role: "USER"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	raw, _, err := iss.IssueAccess(u.ID, nil)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	s, loading, err := p.Resolve(context.Background(), raw)
	if !loading {
		t.Fatalf("cache caído debe resolver loading, got (%v, %v, %v)", s, loading, err)
	}
	if s != nil {
		t.Fatalf("loading nunca entrega subject, got %+v", s)
	}
}

func TestResolve_GrantsWithoutUserStore(t *testing.T) {
	iss, err := jwt.NewIssuer("https://test.hellocard.dev", "", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	p := NewProvider(iss, cache.NewMemory("test", time.Minute), nil)

	raw, _, err := iss.IssueAccess("u1", map[string]any{
		"role": "subadmin", "perms": []string{"coupons:view"}, "email_verified": true,
	})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	s, loading, err := p.Resolve(context.Background(), raw)
	if err != nil || loading || s == nil {
		t.Fatalf("Resolve = (%v, %v, %v)", s, loading, err)
	}
	if s.Role != authz.RoleSubadmin || !authz.Can(s, authz.PermCouponsView) {
		t.Fatalf("claims del token mal leídos: %+v", s)
	}
}
