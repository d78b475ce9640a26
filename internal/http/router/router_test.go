package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dropDatabas3/hellocard/internal/cache"
	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	"github.com/dropDatabas3/hellocard/internal/jwt"
	"github.com/dropDatabas3/hellocard/internal/session"
	"github.com/dropDatabas3/hellocard/internal/store/memory"
)

// newTestRouter arma el árbol completo con sesión real sobre el store en
// memoria. Los controllers quedan en nil: estos tests solo recorren guards
// y destinos de navegación, nunca llegan a un handler de negocio.
func newTestRouter(t *testing.T) (http.Handler, *memory.Store, *jwt.Issuer) {
	t.Helper()
	iss, err := jwt.NewIssuer("https://test.hellocard.dev", "", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	st := memory.New()
	sessions := session.NewProvider(iss, cache.NewMemory("test", time.Minute), st)
	return New(Deps{Sessions: sessions}), st, iss
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("body inválido: %v", err)
	}
	return body
}

func TestAnonymousDenial_LandsOnLoginPage(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cards", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, quería 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/login?returnTo=%2Fv1%2Fcards" {
		t.Fatalf("Location = %q", loc)
	}

	// el destino del redirect tiene que existir: seguirlo responde 200
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, loc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d, quería 200", loc, rec.Code)
	}
	body := decodePage(t, rec)
	if body["page"] != "login" || body["return_to"] != "/v1/cards" {
		t.Fatalf("página de login = %+v", body)
	}
}

func TestRoleDenial_LandsOnConsolePage(t *testing.T) {
	handler, st, iss := newTestRouter(t)

	u, err := st.CreateUser(context.Background(), repository.UserInput{
		Email: "sofia@hellocard.dev", Name: "Sofía", PasswordHash: "x", Role: "USER",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := st.SetUserVerified(context.Background(), u.ID); err != nil {
		t.Fatalf("SetUserVerified: %v", err)
	}
	raw, _, err := iss.IssueAccess(u.ID, nil)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/nav", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, quería 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/admin" {
		t.Fatalf("Location = %q, quería /admin", loc)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, loc, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /admin = %d, quería 200", rec.Code)
	}
}

func TestNavigationPages_Registered(t *testing.T) {
	handler, _, _ := newTestRouter(t)

	for path, page := range map[string]string{
		"/login":     "login",
		"/dashboard": "dashboard",
		"/admin":     "admin",
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, quería 200", path, rec.Code)
		}
		if body := decodePage(t, rec); body["page"] != page {
			t.Fatalf("GET %s sirvió %+v", path, body)
		}
	}
}
