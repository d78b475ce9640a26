// Package admin contiene el servicio de la consola de administración.
// La autorización por permiso vive en el route guard; acá solo quedan
// las validaciones de datos y las reglas de negocio.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	dto "github.com/dropDatabas3/hellocard/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
	"github.com/dropDatabas3/hellocard/internal/observability/logger"
	"github.com/dropDatabas3/hellocard/internal/security/password"
	"github.com/dropDatabas3/hellocard/internal/session"
)

// Repos agrupa los repositorios que consume la consola.
type Repos interface {
	repository.UserRepository
	repository.InvoiceRepository
	repository.CouponRepository
	repository.RewardRepository
	repository.OrderRepository
	repository.SubscriptionRepository
}

// Service define las operaciones de la consola.
type Service interface {
	ListUsers(ctx context.Context, f repository.UserFilter) ([]dto.UserSummary, error)
	SetUserStatus(ctx context.Context, id, status string) error
	UpdateUserGrants(ctx context.Context, id string, permissions []string) (*dto.UserSummary, error)
	CreateAdmin(ctx context.Context, in dto.CreateAdminRequest) (*dto.UserSummary, error)

	ListInvoices(ctx context.Context, f repository.InvoiceFilter) ([]dto.InvoiceView, error)
	VoidInvoice(ctx context.Context, id string) error
	DeleteInvoice(ctx context.Context, id string) error

	ListCoupons(ctx context.Context, onlyActive bool) ([]dto.CouponView, error)
	CreateCoupon(ctx context.Context, in dto.CouponRequest) (*dto.CouponView, error)
	UpdateCoupon(ctx context.Context, id string, in dto.CouponRequest) (*dto.CouponView, error)
	DeleteCoupon(ctx context.Context, id string) error

	ListRewards(ctx context.Context, status string, limit, offset int) ([]dto.RewardView, error)
	ResolveReward(ctx context.Context, id, status, reviewerID string) error

	ListOrders(ctx context.Context, status string, limit, offset int) ([]dto.OrderView, error)
	AdvanceOrder(ctx context.Context, id, trackingID string) (*dto.OrderView, error)

	ListSubscriptions(ctx context.Context, status string, limit, offset int) ([]dto.SubscriptionView, error)
	CancelSubscription(ctx context.Context, id string, immediate bool) error
}

type service struct {
	repos    Repos
	sessions *session.Provider
}

func NewService(repos Repos, sessions *session.Provider) Service {
	return &service{repos: repos, sessions: sessions}
}

// ---------- usuarios ----------

func (s *service) ListUsers(ctx context.Context, f repository.UserFilter) ([]dto.UserSummary, error) {
	list, err := s.repos.ListUsers(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserSummary, 0, len(list))
	for i := range list {
		out = append(out, dto.FromUser(&list[i]))
	}
	return out, nil
}

func (s *service) SetUserStatus(ctx context.Context, id, status string) error {
	if status != "active" && status != "disabled" {
		return httperrors.ErrInvalidFormat.WithDetail(`status debe ser "active" o "disabled"`)
	}
	if err := s.repos.SetUserStatus(ctx, id, status); err != nil {
		return mapNotFound(err)
	}
	// un disable tiene que pegar antes de que venza el access token
	_ = s.sessions.InvalidateGrants(ctx, id)
	return nil
}

func (s *service) UpdateUserGrants(ctx context.Context, id string, permissions []string) (*dto.UserSummary, error) {
	u, err := s.repos.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if authz.NormalizeRole(u.Role) != authz.RoleSubadmin {
		return nil, httperrors.ErrBadRequest.WithDetail("los grants solo aplican a cuentas SUBADMIN")
	}
	cleaned, err := cleanPermissions(permissions)
	if err != nil {
		return nil, err
	}
	if err := s.repos.UpdateUserGrants(ctx, id, cleaned); err != nil {
		return nil, mapNotFound(err)
	}
	if err := s.sessions.InvalidateGrants(ctx, id); err != nil {
		logger.From(ctx).Warn("grants cache invalidation failed",
			logger.Component("services.admin"), logger.UserID(id), logger.Err(err))
	}

	u.Permissions = cleaned
	out := dto.FromUser(u)
	return &out, nil
}

func (s *service) CreateAdmin(ctx context.Context, in dto.CreateAdminRequest) (*dto.UserSummary, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, httperrors.ErrMissingFields.WithDetail("email y password son obligatorios")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, httperrors.ErrInvalidFormat.WithDetail("email inválido")
	}
	cleaned, err := cleanPermissions(in.Permissions)
	if err != nil {
		return nil, err
	}

	hash, err := password.Hash(password.Default, in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.repos.CreateUser(ctx, repository.UserInput{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         string(authz.RoleSubadmin),
		Permissions:  cleaned,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, httperrors.ErrConflict.WithDetail("el email ya está registrado")
		}
		return nil, err
	}
	// cuenta creada desde la consola: no pasa por el flujo de verificación
	if err := s.repos.SetUserVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	u.EmailVerified = true

	out := dto.FromUser(u)
	return &out, nil
}

// cleanPermissions valida contra el registro y deduplica.
func cleanPermissions(in []string) ([]string, error) {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		p := strings.TrimSpace(raw)
		if p == "" || seen[p] {
			continue
		}
		if !authz.IsKnown(authz.Permission(p)) {
			return nil, httperrors.ErrInvalidFormat.WithDetail(fmt.Sprintf("permiso desconocido: %q", p))
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// ---------- facturación ----------

func (s *service) ListInvoices(ctx context.Context, f repository.InvoiceFilter) ([]dto.InvoiceView, error) {
	list, err := s.repos.ListInvoices(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceView, 0, len(list))
	for i := range list {
		out = append(out, dto.FromInvoice(&list[i]))
	}
	return out, nil
}

func (s *service) VoidInvoice(ctx context.Context, id string) error {
	return mapTransition(s.repos.VoidInvoice(ctx, id), "solo se anula una factura pendiente")
}

func (s *service) DeleteInvoice(ctx context.Context, id string) error {
	return mapNotFound(s.repos.DeleteInvoice(ctx, id))
}

// ---------- cupones ----------

func validateCoupon(in dto.CouponRequest) error {
	if strings.TrimSpace(in.Code) == "" {
		return httperrors.ErrMissingFields.WithDetail("code es obligatorio")
	}
	if in.PercentOff < 0 || in.PercentOff > 100 {
		return httperrors.ErrInvalidFormat.WithDetail("percent_off fuera de rango (0-100)")
	}
	if in.PercentOff > 0 && in.AmountOff.IsPositive() {
		return httperrors.ErrInvalidFormat.WithDetail("percent_off y amount_off son excluyentes")
	}
	if in.AmountOff.IsNegative() {
		return httperrors.ErrInvalidFormat.WithDetail("amount_off no puede ser negativo")
	}
	return nil
}

func (s *service) ListCoupons(ctx context.Context, onlyActive bool) ([]dto.CouponView, error) {
	list, err := s.repos.ListCoupons(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CouponView, 0, len(list))
	for i := range list {
		out = append(out, dto.FromCoupon(&list[i]))
	}
	return out, nil
}

func (s *service) CreateCoupon(ctx context.Context, in dto.CouponRequest) (*dto.CouponView, error) {
	if err := validateCoupon(in); err != nil {
		return nil, err
	}
	c, err := s.repos.CreateCoupon(ctx, couponInput(in))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, httperrors.ErrConflict.WithDetail("el código ya existe")
		}
		return nil, err
	}
	out := dto.FromCoupon(c)
	return &out, nil
}

func (s *service) UpdateCoupon(ctx context.Context, id string, in dto.CouponRequest) (*dto.CouponView, error) {
	if err := validateCoupon(in); err != nil {
		return nil, err
	}
	c, err := s.repos.UpdateCoupon(ctx, id, couponInput(in))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, httperrors.ErrConflict.WithDetail("el código ya existe")
		}
		return nil, mapNotFound(err)
	}
	out := dto.FromCoupon(c)
	return &out, nil
}

func (s *service) DeleteCoupon(ctx context.Context, id string) error {
	return mapNotFound(s.repos.DeleteCoupon(ctx, id))
}

func couponInput(in dto.CouponRequest) repository.CouponInput {
	return repository.CouponInput{
		Code: strings.ToUpper(strings.TrimSpace(in.Code)), PercentOff: in.PercentOff,
		AmountOff: in.AmountOff, Currency: in.Currency, MaxUses: in.MaxUses,
		Active: in.Active, ValidFrom: in.ValidFrom, ValidUntil: in.ValidUntil,
	}
}

// ---------- recompensas ----------

func (s *service) ListRewards(ctx context.Context, status string, limit, offset int) ([]dto.RewardView, error) {
	list, err := s.repos.ListRewards(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RewardView, 0, len(list))
	for i := range list {
		out = append(out, dto.FromReward(&list[i]))
	}
	return out, nil
}

func (s *service) ResolveReward(ctx context.Context, id, status, reviewerID string) error {
	if status != repository.RewardApproved && status != repository.RewardRejected {
		return httperrors.ErrInvalidFormat.WithDetail(`status debe ser "approved" o "rejected"`)
	}
	err := s.repos.ResolveReward(ctx, id, status, reviewerID, time.Now().UTC())
	return mapTransition(err, "la recompensa ya fue resuelta")
}

// ---------- pedidos NFC ----------

func (s *service) ListOrders(ctx context.Context, status string, limit, offset int) ([]dto.OrderView, error) {
	list, err := s.repos.ListOrders(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderView, 0, len(list))
	for i := range list {
		out = append(out, dto.FromOrder(&list[i]))
	}
	return out, nil
}

func (s *service) AdvanceOrder(ctx context.Context, id, trackingID string) (*dto.OrderView, error) {
	o, err := s.repos.AdvanceOrder(ctx, id, trackingID)
	if err != nil {
		return nil, mapTransition(err, "el pedido ya está en su estado final")
	}
	out := dto.FromOrder(o)
	return &out, nil
}

// ---------- suscripciones ----------

func (s *service) ListSubscriptions(ctx context.Context, status string, limit, offset int) ([]dto.SubscriptionView, error) {
	list, err := s.repos.ListSubscriptions(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubscriptionView, 0, len(list))
	for i := range list {
		out = append(out, dto.FromSubscription(&list[i]))
	}
	return out, nil
}

func (s *service) CancelSubscription(ctx context.Context, id string, immediate bool) error {
	err := s.repos.CancelSubscription(ctx, id, immediate)
	return mapTransition(err, "la suscripción ya está cancelada")
}

// ---------- mapeo de errores ----------

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return httperrors.ErrNotFound
	}
	return err
}

func mapTransition(err error, detail string) error {
	if errors.Is(err, repository.ErrInvalidTransition) {
		return httperrors.ErrConflict.WithDetail(detail)
	}
	return mapNotFound(err)
}
