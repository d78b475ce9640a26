// Package cards contiene los DTOs de perfiles (cards digitales).
package cards

import "github.com/dropDatabas3/hellocard/internal/domain/repository"

// CardRequest es el cuerpo de creación/edición de una card.
type CardRequest struct {
	Slug      string                  `json:"slug"`
	Name      string                  `json:"name"`
	Title     string                  `json:"title"`
	Company   string                  `json:"company"`
	Phone     string                  `json:"phone"`
	Email     string                  `json:"email"`
	Website   string                  `json:"website"`
	Bio       string                  `json:"bio"`
	Links     []repository.SocialLink `json:"links"`
	Gallery   []repository.MediaItem  `json:"gallery"`
	Published bool                    `json:"published"`
}

// CardResponse es la vista completa (dueño y admin).
type CardResponse struct {
	ID        string                  `json:"id"`
	Slug      string                  `json:"slug"`
	Name      string                  `json:"name"`
	Title     string                  `json:"title,omitempty"`
	Company   string                  `json:"company,omitempty"`
	Phone     string                  `json:"phone,omitempty"`
	Email     string                  `json:"email,omitempty"`
	Website   string                  `json:"website,omitempty"`
	Bio       string                  `json:"bio,omitempty"`
	Links     []repository.SocialLink `json:"links"`
	Gallery   []repository.MediaItem  `json:"gallery"`
	Published bool                    `json:"published"`
}

// PublicCardResponse es la vista pública por slug: sin IDs internos.
type PublicCardResponse struct {
	Slug    string                  `json:"slug"`
	Name    string                  `json:"name"`
	Title   string                  `json:"title,omitempty"`
	Company string                  `json:"company,omitempty"`
	Phone   string                  `json:"phone,omitempty"`
	Email   string                  `json:"email,omitempty"`
	Website string                  `json:"website,omitempty"`
	Bio     string                  `json:"bio,omitempty"`
	Links   []repository.SocialLink `json:"links"`
	Gallery []repository.MediaItem  `json:"gallery"`
}

// FromCard arma la vista completa.
func FromCard(c *repository.Card) CardResponse {
	return CardResponse{
		ID: c.ID, Slug: c.Slug, Name: c.Name, Title: c.Title, Company: c.Company,
		Phone: c.Phone, Email: c.Email, Website: c.Website, Bio: c.Bio,
		Links: c.Links, Gallery: c.Gallery, Published: c.Published,
	}
}

// FromCardPublic arma la vista pública.
func FromCardPublic(c *repository.Card) PublicCardResponse {
	return PublicCardResponse{
		Slug: c.Slug, Name: c.Name, Title: c.Title, Company: c.Company,
		Phone: c.Phone, Email: c.Email, Website: c.Website, Bio: c.Bio,
		Links: c.Links, Gallery: c.Gallery,
	}
}
