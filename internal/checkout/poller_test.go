package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	"github.com/dropDatabas3/hellocard/internal/store/memory"
)

func seedInvoice(t *testing.T, st *memory.Store, kind string, expiresAt *time.Time) *repository.Invoice {
	t.Helper()
	inv, err := st.CreateInvoice(context.Background(), repository.Invoice{
		Number:       "F-" + kind,
		UserID:       "u1",
		Amount:       decimal.RequireFromString("19.99"),
		Currency:     "USD",
		CheckoutKind: kind,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	return inv
}

func TestSweep_ExpiresOnlyStaleCryptoCheckouts(t *testing.T) {
	st := memory.New()
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	stale := seedInvoice(t, st, repository.CheckoutCrypto, &past)
	fresh := seedInvoice(t, st, repository.CheckoutCrypto, &future)
	fiat := seedInvoice(t, st, repository.CheckoutFiat, &past)

	n, err := st.ExpirePendingCheckouts(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("ExpirePendingCheckouts: %v", err)
	}
	if n != 1 {
		t.Fatalf("expiró %d facturas, quería 1", n)
	}

	for _, tc := range []struct {
		id   string
		want string
	}{
		{stale.ID, repository.InvoiceExpired},
		{fresh.ID, repository.InvoicePending},
		{fiat.ID, repository.InvoicePending},
	} {
		inv, err := st.GetInvoiceByID(context.Background(), tc.id)
		if err != nil {
			t.Fatalf("GetInvoiceByID(%s): %v", tc.id, err)
		}
		if inv.Status != tc.want {
			t.Fatalf("factura %s: status = %s, quería %s", tc.id, inv.Status, tc.want)
		}
	}
}

func TestSweep_PaidInvoicesAreNeverExpired(t *testing.T) {
	st := memory.New()
	past := time.Now().UTC().Add(-time.Hour)

	inv := seedInvoice(t, st, repository.CheckoutCrypto, &past)
	if err := st.MarkInvoicePaid(context.Background(), inv.ID, time.Now().UTC()); err != nil {
		t.Fatalf("MarkInvoicePaid: %v", err)
	}

	n, err := st.ExpirePendingCheckouts(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("ExpirePendingCheckouts: %v", err)
	}
	if n != 0 {
		t.Fatalf("expiró %d facturas, quería 0", n)
	}
}

func TestPoller_RunStopsWithContext(t *testing.T) {
	p := NewPoller(memory.New(), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run retornó %v, quería context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("el poller no terminó al cancelar el contexto")
	}
}
