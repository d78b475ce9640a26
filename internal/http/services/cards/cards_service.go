// Package cards contiene el servicio de perfiles (cards digitales).
package cards

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/dropDatabas3/hellocard/internal/authz"
	"github.com/dropDatabas3/hellocard/internal/domain/repository"
	dto "github.com/dropDatabas3/hellocard/internal/http/dto/cards"
	httperrors "github.com/dropDatabas3/hellocard/internal/http/errors"
)

// Service define las operaciones sobre cards. Las operaciones de dueño
// reciben el Subject para validar pertenencia; un ADMIN puede operar
// cualquier card.
type Service interface {
	// PublicBySlug es la lectura pública (link/QR). Solo cards publicadas.
	PublicBySlug(ctx context.Context, slug string) (*dto.PublicCardResponse, error)

	Create(ctx context.Context, s *authz.Subject, in dto.CardRequest) (*dto.CardResponse, error)
	ListMine(ctx context.Context, s *authz.Subject) ([]dto.CardResponse, error)
	Get(ctx context.Context, s *authz.Subject, id string) (*dto.CardResponse, error)
	Update(ctx context.Context, s *authz.Subject, id string, in dto.CardRequest) (*dto.CardResponse, error)
	Delete(ctx context.Context, s *authz.Subject, id string) error
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,61}[a-z0-9]$`)

type service struct {
	cards repository.CardRepository
}

func NewService(cards repository.CardRepository) Service {
	return &service{cards: cards}
}

func (s *service) PublicBySlug(ctx context.Context, slug string) (*dto.PublicCardResponse, error) {
	c, err := s.cards.GetCardBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperrors.ErrNotFound
		}
		return nil, err
	}
	out := dto.FromCardPublic(c)
	return &out, nil
}

func (s *service) Create(ctx context.Context, sub *authz.Subject, in dto.CardRequest) (*dto.CardResponse, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	c, err := s.cards.CreateCard(ctx, sub.ID, toInput(in))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, httperrors.ErrConflict.WithDetail("el slug ya está en uso")
		}
		return nil, err
	}
	out := dto.FromCard(c)
	return &out, nil
}

func (s *service) ListMine(ctx context.Context, sub *authz.Subject) ([]dto.CardResponse, error) {
	list, err := s.cards.ListCardsByUser(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CardResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.FromCard(&list[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, sub *authz.Subject, id string) (*dto.CardResponse, error) {
	c, err := s.owned(ctx, sub, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromCard(c)
	return &out, nil
}

func (s *service) Update(ctx context.Context, sub *authz.Subject, id string, in dto.CardRequest) (*dto.CardResponse, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, sub, id); err != nil {
		return nil, err
	}
	c, err := s.cards.UpdateCard(ctx, id, toInput(in))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, httperrors.ErrConflict.WithDetail("el slug ya está en uso")
		}
		return nil, err
	}
	out := dto.FromCard(c)
	return &out, nil
}

func (s *service) Delete(ctx context.Context, sub *authz.Subject, id string) error {
	if _, err := s.owned(ctx, sub, id); err != nil {
		return err
	}
	return s.cards.DeleteCard(ctx, id)
}

// owned carga la card y valida pertenencia. Un 404 y un "no es tuya"
// responden igual para no filtrar existencia de IDs ajenos.
func (s *service) owned(ctx context.Context, sub *authz.Subject, id string) (*repository.Card, error) {
	c, err := s.cards.GetCardByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperrors.ErrNotFound
		}
		return nil, err
	}
	if c.UserID != sub.ID && !sub.IsAdmin() {
		return nil, httperrors.ErrNotFound
	}
	return c, nil
}

func validateInput(in dto.CardRequest) error {
	if strings.TrimSpace(in.Name) == "" {
		return httperrors.ErrMissingFields.WithDetail("name es obligatorio")
	}
	if !slugPattern.MatchString(strings.ToLower(strings.TrimSpace(in.Slug))) {
		return httperrors.ErrInvalidFormat.WithDetail("slug: minúsculas, dígitos y guiones, 2-63 caracteres")
	}
	return nil
}

func toInput(in dto.CardRequest) repository.CardInput {
	return repository.CardInput{
		Slug: strings.ToLower(strings.TrimSpace(in.Slug)), Name: strings.TrimSpace(in.Name),
		Title: in.Title, Company: in.Company, Phone: in.Phone, Email: in.Email,
		Website: in.Website, Bio: in.Bio, Links: in.Links, Gallery: in.Gallery,
		Published: in.Published,
	}
}
