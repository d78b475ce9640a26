package repository

import (
	"context"
	"time"
)

// Card es el perfil público compartible (link/QR): datos de contacto,
// links sociales y galería. Una card publicada se sirve por slug sin auth.
type Card struct {
	ID        string
	UserID    string
	Slug      string
	Name      string
	Title     string
	Company   string
	Phone     string
	Email     string
	Website   string
	Bio       string
	Links     []SocialLink
	Gallery   []MediaItem
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SocialLink es un link social ordenado del perfil.
type SocialLink struct {
	Kind  string `json:"kind"` // instagram | linkedin | x | ...
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// MediaItem es una entrada de la galería.
type MediaItem struct {
	Kind    string `json:"kind"` // image | video
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	Order   int    `json:"order"`
}

// CardInput datos para crear/actualizar una card.
type CardInput struct {
	Slug      string
	Name      string
	Title     string
	Company   string
	Phone     string
	Email     string
	Website   string
	Bio       string
	Links     []SocialLink
	Gallery   []MediaItem
	Published bool
}

// CardRepository define la persistencia de perfiles.
type CardRepository interface {
	CreateCard(ctx context.Context, userID string, in CardInput) (*Card, error)
	GetCardByID(ctx context.Context, id string) (*Card, error)

	// GetCardBySlug: lectura pública. Solo retorna cards publicadas.
	GetCardBySlug(ctx context.Context, slug string) (*Card, error)

	ListCardsByUser(ctx context.Context, userID string) ([]Card, error)
	UpdateCard(ctx context.Context, id string, in CardInput) (*Card, error)
	DeleteCard(ctx context.Context, id string) error
}
