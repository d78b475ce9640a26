// Package billing contiene el servicio de facturación del propio usuario:
// sus facturas y su suscripción vigente. Las operaciones siempre filtran
// por el Subject de la sesión, nunca por parámetros del cliente.
package billing

import (
	"context"
	"errors"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	dto "github.com/dropDatabas3/hellocard/internal/http/dto/billing"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
)

// Repos agrupa los repositorios que consume el servicio.
type Repos interface {
	repository.InvoiceRepository
	repository.SubscriptionRepository
}

type Service interface {
	ListMyInvoices(ctx context.Context, s *authz.Subject, status string, limit, offset int) ([]dto.InvoiceView, error)

	// MySubscription devuelve la suscripción del usuario. NOT_FOUND si
	// nunca contrató un plan.
	MySubscription(ctx context.Context, s *authz.Subject) (*dto.SubscriptionView, error)
}

type service struct {
	repos Repos
}

func NewService(repos Repos) Service {
	return &service{repos: repos}
}

func (s *service) ListMyInvoices(ctx context.Context, sub *authz.Subject, status string, limit, offset int) ([]dto.InvoiceView, error) {
	list, err := s.repos.ListInvoices(ctx, repository.InvoiceFilter{
		UserID: sub.ID,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceView, 0, len(list))
	for i := range list {
		out = append(out, dto.FromInvoice(&list[i]))
	}
	return out, nil
}

func (s *service) MySubscription(ctx context.Context, sub *authz.Subject) (*dto.SubscriptionView, error) {
	current, err := s.repos.GetSubscriptionByUser(ctx, sub.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperrors.ErrNotFound.WithDetail("sin suscripción activa")
		}
		return nil, err
	}
	out := dto.FromSubscription(current)
	return &out, nil
}
