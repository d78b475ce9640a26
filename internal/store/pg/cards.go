package pg

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
)

const cardCols = `id, user_id, slug, name, title, company, phone, email, website, bio, links, gallery, published, created_at, updated_at`

// Links y gallery viven como JSONB; se (de)serializan acá para que el
// resto del código trabaje con los structs del dominio.
func scanCard(row pgx.Row) (*repository.Card, error) {
	var (
		c              repository.Card
		links, gallery []byte
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Slug, &c.Name, &c.Title, &c.Company,
		&c.Phone, &c.Email, &c.Website, &c.Bio, &links, &gallery,
		&c.Published, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &c.Links); err != nil {
			return nil, err
		}
	}
	if len(gallery) > 0 {
		if err := json.Unmarshal(gallery, &c.Gallery); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func cardJSON(in repository.CardInput) (links, gallery []byte, err error) {
	if in.Links == nil {
		in.Links = []repository.SocialLink{}
	}
	if in.Gallery == nil {
		in.Gallery = []repository.MediaItem{}
	}
	if links, err = json.Marshal(in.Links); err != nil {
		return nil, nil, err
	}
	if gallery, err = json.Marshal(in.Gallery); err != nil {
		return nil, nil, err
	}
	return links, gallery, nil
}

func (s *Store) CreateCard(ctx context.Context, userID string, in repository.CardInput) (*repository.Card, error) {
	links, gallery, err := cardJSON(in)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO card (id, user_id, slug, name, title, company, phone, email, website, bio, links, gallery, published)
VALUES ($1, $2, LOWER($3), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + cardCols + `;`
	c, err := scanCard(s.pool.QueryRow(ctx, q, uuid.NewString(), userID, in.Slug,
		in.Name, in.Title, in.Company, in.Phone, in.Email, in.Website, in.Bio,
		links, gallery, in.Published))
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	return c, err
}

func (s *Store) GetCardByID(ctx context.Context, id string) (*repository.Card, error) {
	const q = `SELECT ` + cardCols + ` FROM card WHERE id = $1;`
	return scanCard(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) GetCardBySlug(ctx context.Context, slug string) (*repository.Card, error) {
	const q = `SELECT ` + cardCols + ` FROM card WHERE slug = LOWER($1) AND published;`
	return scanCard(s.pool.QueryRow(ctx, q, slug))
}

func (s *Store) ListCardsByUser(ctx context.Context, userID string) ([]repository.Card, error) {
	const q = `SELECT ` + cardCols + ` FROM card WHERE user_id = $1 ORDER BY created_at;`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Card
	for rows.Next() {
		var (
			c              repository.Card
			links, gallery []byte
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Slug, &c.Name, &c.Title, &c.Company,
			&c.Phone, &c.Email, &c.Website, &c.Bio, &links, &gallery,
			&c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if len(links) > 0 {
			if err := json.Unmarshal(links, &c.Links); err != nil {
				return nil, err
			}
		}
		if len(gallery) > 0 {
			if err := json.Unmarshal(gallery, &c.Gallery); err != nil {
				return nil, err
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCard(ctx context.Context, id string, in repository.CardInput) (*repository.Card, error) {
	links, gallery, err := cardJSON(in)
	if err != nil {
		return nil, err
	}
	const q = `
UPDATE card SET
  slug = LOWER($2), name = $3, title = $4, company = $5, phone = $6,
  email = $7, website = $8, bio = $9, links = $10, gallery = $11,
  published = $12, updated_at = now()
WHERE id = $1
RETURNING ` + cardCols + `;`
	c, err := scanCard(s.pool.QueryRow(ctx, q, id, in.Slug, in.Name, in.Title,
		in.Company, in.Phone, in.Email, in.Website, in.Bio, links, gallery, in.Published))
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	return c, err
}

func (s *Store) DeleteCard(ctx context.Context, id string) error {
	const q = `DELETE FROM card WHERE id = $1;`
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CardRepository = (*Store)(nil)
