package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/store/memory"
)

func owner(id string) *authz.Subject {
	return &authz.Subject{ID: id, Role: authz.RoleUser, Verified: true}
}

func seedInvoice(t *testing.T, st *memory.Store, userID, number, status string) *repository.Invoice {
	t.Helper()
	inv, err := st.CreateInvoice(context.Background(), repository.Invoice{
		Number: number, UserID: userID,
		Amount: decimal.RequireFromString("19.99"), Currency: "usd",
		CheckoutKind: "fiat",
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if status == repository.InvoicePaid {
		if err := st.MarkInvoicePaid(context.Background(), inv.ID, time.Now().UTC()); err != nil {
			t.Fatalf("MarkInvoicePaid: %v", err)
		}
		inv.Status = status
	}
	return inv
}

func TestListMyInvoices_ScopedToOwner(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()

	seedInvoice(t, st, "u1", "F-0001", repository.InvoicePending)
	seedInvoice(t, st, "u1", "F-0002", repository.InvoicePaid)
	seedInvoice(t, st, "u2", "F-0003", repository.InvoicePending)

	mine, err := svc.ListMyInvoices(ctx, owner("u1"), "", 50, 0)
	if err != nil {
		t.Fatalf("ListMyInvoices: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("facturas de u1 = %d, quería 2", len(mine))
	}

	paid, err := svc.ListMyInvoices(ctx, owner("u1"), repository.InvoicePaid, 50, 0)
	if err != nil {
		t.Fatalf("ListMyInvoices paid: %v", err)
	}
	if len(paid) != 1 || paid[0].Number != "F-0002" {
		t.Fatalf("filtro por estado devolvió %+v", paid)
	}

	empty, err := svc.ListMyInvoices(ctx, owner("u3"), "", 50, 0)
	if err != nil {
		t.Fatalf("ListMyInvoices u3: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("u3 sin facturas, vino %d", len(empty))
	}
}

func TestMySubscription(t *testing.T) {
	st := memory.New()
	svc := NewService(st)
	ctx := context.Background()

	_, err := svc.MySubscription(ctx, owner("u1"))
	appErr, ok := err.(*httperrors.AppError)
	if !ok || appErr.Code != "NOT_FOUND" {
		t.Fatalf("sin suscripción quería NOT_FOUND, vino %v", err)
	}

	periodEnd := time.Now().UTC().Add(30 * 24 * time.Hour)
	if _, err := st.CreateSubscription(ctx, repository.Subscription{
		UserID: "u1", Plan: "pro", PeriodEnd: periodEnd,
	}); err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	got, err := svc.MySubscription(ctx, owner("u1"))
	if err != nil {
		t.Fatalf("MySubscription: %v", err)
	}
	if got.Plan != "pro" || got.Status != repository.SubActive {
		t.Fatalf("suscripción = %+v", got)
	}
	if !got.PeriodEnd.Equal(periodEnd) {
		t.Fatalf("period_end = %v, quería %v", got.PeriodEnd, periodEnd)
	}
}
