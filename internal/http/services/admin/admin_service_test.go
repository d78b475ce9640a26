package admin

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/cache"
	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	dto "github.com/dropDatabas3/hellocard/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/jwt"
	"github.com/dropDatabas3/hellocard/internal/session"
	"github.com/dropDatabas3/hellocard/internal/store/memory"
)

func newAdminFixture(t *testing.T) (Service, *memory.Store) {
	t.Helper()
	iss, err := jwt.NewIssuer("https://test.hellocard.dev", "", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	st := memory.New()
	sessions := session.NewProvider(iss, cache.NewMemory("test", time.Minute), st)
	return NewService(st, sessions), st
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

func seedAccount(t *testing.T, st *memory.Store, email, role string) *repository.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), repository.UserInput{
		Email: email, PasswordHash: "x", Role: role,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestSetUserStatus(t *testing.T) {
	svc, st := newAdminFixture(t)
	ctx := context.Background()
	u := seedAccount(t, st, "leo@hellocard.dev", "user")

	wantCode(t, svc.SetUserStatus(ctx, u.ID, "suspendido"), "INVALID_FORMAT")
	wantCode(t, svc.SetUserStatus(ctx, "no-existe", "disabled"), "NOT_FOUND")

	if err := svc.SetUserStatus(ctx, u.ID, "disabled"); err != nil {
		t.Fatalf("SetUserStatus: %v", err)
	}
	got, err := st.GetUserByID(ctx, u.ID)
	if err != nil || got.Status != "disabled" {
		t.Fatalf("status = %q (%v), quería disabled", got.Status, err)
	}
}

func TestUpdateUserGrants(t *testing.T) {
	svc, st := newAdminFixture(t)
	ctx := context.Background()

	regular := seedAccount(t, st, "leo@hellocard.dev", "user")
	sub := seedAccount(t, st, "sofia@hellocard.dev", "subadmin")

	// grants sobre una cuenta USER no tienen sentido
	_, err := svc.UpdateUserGrants(ctx, regular.ID, []string{string(authz.PermUsersView)})
	wantCode(t, err, "BAD_REQUEST")

	// permiso fuera del registro se rechaza entero
	_, err = svc.UpdateUserGrants(ctx, sub.ID, []string{"users:view", "naves:despegar"})
	wantCode(t, err, "INVALID_FORMAT")

	// deduplica y persiste
	out, err := svc.UpdateUserGrants(ctx, sub.ID, []string{"users:view", "users:view", " invoices:view "})
	if err != nil {
		t.Fatalf("UpdateUserGrants: %v", err)
	}
	if len(out.Permissions) != 2 {
		t.Fatalf("permissions = %v, quería 2 únicos", out.Permissions)
	}
	got, _ := st.GetUserByID(ctx, sub.ID)
	if len(got.Permissions) != 2 {
		t.Fatalf("persistido = %v", got.Permissions)
	}
}

func TestCreateAdmin(t *testing.T) {
	svc, st := newAdminFixture(t)
	ctx := context.Background()

	out, err := svc.CreateAdmin(ctx, dto.CreateAdminRequest{
		Email: "Nueva@HelloCard.dev", Name: "Nueva", Password: "supersecreta",
		Permissions: []string{"users:view"},
	})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	got, err := st.GetUserByID(ctx, out.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if authz.NormalizeRole(got.Role) != authz.RoleSubadmin {
		t.Fatalf("role = %q, quería subadmin", got.Role)
	}
	// la consola no pasa por el flujo de verificación por mail
	if !got.EmailVerified {
		t.Fatal("la cuenta de consola debía nacer verificada")
	}

	_, err = svc.CreateAdmin(ctx, dto.CreateAdminRequest{Email: "nueva@hellocard.dev", Password: "supersecreta"})
	wantCode(t, err, "CONFLICT")
}

func TestVoidInvoice_Transitions(t *testing.T) {
	svc, st := newAdminFixture(t)
	ctx := context.Background()
	u := seedAccount(t, st, "leo@hellocard.dev", "user")

	inv, err := st.CreateInvoice(ctx, repository.Invoice{
		Number: "F-0001", UserID: u.ID,
		Amount: decimal.RequireFromString("19.99"), Currency: "usd",
		CheckoutKind: "fiat",
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if err := svc.VoidInvoice(ctx, inv.ID); err != nil {
		t.Fatalf("VoidInvoice: %v", err)
	}
	// anular dos veces es conflicto de estado, no 404
	wantCode(t, svc.VoidInvoice(ctx, inv.ID), "CONFLICT")
	wantCode(t, svc.VoidInvoice(ctx, "no-existe"), "NOT_FOUND")
}

func TestCoupon_Validation(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CouponRequest
	}{
		{"sin code", dto.CouponRequest{}},
		{"percent fuera de rango", dto.CouponRequest{Code: "x", PercentOff: 150}},
		{"percent y amount juntos", dto.CouponRequest{Code: "x", PercentOff: 10, AmountOff: decimal.RequireFromString("5")}},
		{"amount negativo", dto.CouponRequest{Code: "x", AmountOff: decimal.RequireFromString("-1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateCoupon(ctx, tc.in); err == nil {
				t.Fatal("debía rechazarse")
			}
		})
	}

	// el código se guarda normalizado a mayúsculas
	out, err := svc.CreateCoupon(ctx, dto.CouponRequest{Code: "lanzamiento", PercentOff: 20, Active: true})
	if err != nil {
		t.Fatalf("CreateCoupon: %v", err)
	}
	if out.Code != "LANZAMIENTO" {
		t.Fatalf("code = %q", out.Code)
	}
	_, err = svc.CreateCoupon(ctx, dto.CouponRequest{Code: "LANZAMIENTO", PercentOff: 10})
	wantCode(t, err, "CONFLICT")
}

func TestResolveReward(t *testing.T) {
	svc, st := newAdminFixture(t)
	ctx := context.Background()
	u := seedAccount(t, st, "leo@hellocard.dev", "user")

	r, err := st.CreateReward(ctx, repository.Reward{
		UserID: u.ID, ReferredID: "amiga",
		Amount: decimal.RequireFromString("5.00"), Currency: "usd",
	})
	if err != nil {
		t.Fatalf("CreateReward: %v", err)
	}

	wantCode(t, svc.ResolveReward(ctx, r.ID, "pendiente", "admin-1"), "INVALID_FORMAT")

	if err := svc.ResolveReward(ctx, r.ID, repository.RewardApproved, "admin-1"); err != nil {
		t.Fatalf("ResolveReward: %v", err)
	}
	// una recompensa resuelta no se vuelve a resolver
	wantCode(t, svc.ResolveReward(ctx, r.ID, repository.RewardRejected, "admin-2"), "CONFLICT")
}

func TestAdvanceOrder(t *testing.T) {
	svc, st := newAdminFixture(t)
	ctx := context.Background()
	u := seedAccount(t, st, "leo@hellocard.dev", "user")
	card, err := st.CreateCard(ctx, u.ID, repository.CardInput{Slug: "leo", Name: "Leo"})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	o, err := st.CreateOrder(ctx, repository.CardOrder{UserID: u.ID, CardID: card.ID, Address: "Av. Siempreviva 742"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// new → printing → shipped (con tracking) → delivered
	out, err := svc.AdvanceOrder(ctx, o.ID, "")
	if err != nil || out.Status != repository.OrderPrinting {
		t.Fatalf("primer avance: %+v (%v)", out, err)
	}
	out, err = svc.AdvanceOrder(ctx, o.ID, "TRK-123")
	if err != nil || out.Status != repository.OrderShipped || out.TrackingID != "TRK-123" {
		t.Fatalf("segundo avance: %+v (%v)", out, err)
	}
	out, err = svc.AdvanceOrder(ctx, o.ID, "")
	if err != nil || out.Status != repository.OrderDelivered {
		t.Fatalf("tercer avance: %+v (%v)", out, err)
	}
	if out.TrackingID != "TRK-123" {
		t.Fatalf("el tracking se perdió: %+v", out)
	}

	// delivered es terminal
	_, err = svc.AdvanceOrder(ctx, o.ID, "")
	wantCode(t, err, "CONFLICT")
}

func TestCancelSubscription(t *testing.T) {
	svc, st := newAdminFixture(t)
	ctx := context.Background()
	u := seedAccount(t, st, "leo@hellocard.dev", "user")

	sub, err := st.CreateSubscription(ctx, repository.Subscription{
		UserID: u.ID, Plan: "pro", PeriodEnd: time.Now().UTC().Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	// cancelación al cierre del período: sigue activa con la marca puesta
	if err := svc.CancelSubscription(ctx, sub.ID, false); err != nil {
		t.Fatalf("CancelSubscription: %v", err)
	}
	got, _ := st.GetSubscriptionByUser(ctx, u.ID)
	if got.Status == repository.SubCanceled || !got.CancelAtEnd {
		t.Fatalf("cancel_at_end: %+v", got)
	}

	// cancelación inmediata
	if err := svc.CancelSubscription(ctx, sub.ID, true); err != nil {
		t.Fatalf("CancelSubscription inmediata: %v", err)
	}
	got, _ = st.GetSubscriptionByUser(ctx, u.ID)
	if got.Status != repository.SubCanceled {
		t.Fatalf("status = %q", got.Status)
	}

	// ya cancelada: conflicto de estado
	wantCode(t, svc.CancelSubscription(ctx, sub.ID, true), "CONFLICT")
}
