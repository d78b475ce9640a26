package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/hellocard/internal/domain/repository"
)

const userCols = `id, email, name, password_hash, role, permissions, email_verified, status, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&u.Permissions, &u.EmailVerified, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, in repository.UserInput) (*repository.User, error) {
	const q = `
INSERT INTO account (id, email, name, password_hash, role, permissions)
VALUES ($1, LOWER($2), $3, $4, $5, $6)
RETURNING ` + userCols + `;`
	perms := in.Permissions
	if perms == nil {
		perms = []string{}
	}
	u, err := scanUser(s.pool.QueryRow(ctx, q, uuid.NewString(), in.Email, in.Name, in.PasswordHash, in.Role, perms))
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	return u, err
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*repository.User, error) {
	const q = `SELECT ` + userCols + ` FROM account WHERE id = $1;`
	return scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*repository.User, error) {
	const q = `SELECT ` + userCols + ` FROM account WHERE email = LOWER($1);`
	return scanUser(s.pool.QueryRow(ctx, q, email))
}

func (s *Store) ListUsers(ctx context.Context, f repository.UserFilter) ([]repository.User, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Role != "" {
		add("role = $%d", f.Role)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Query != "" {
		add("(email ILIKE $%[1]d OR name ILIKE $%[1]d)", "%"+f.Query+"%")
	}
	q := `SELECT ` + userCols + ` FROM account`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.User
	for rows.Next() {
		var u repository.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
			&u.Permissions, &u.EmailVerified, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) SetUserStatus(ctx context.Context, id, status string) error {
	const q = `UPDATE account SET status = $2, updated_at = now() WHERE id = $1;`
	tag, err := s.pool.Exec(ctx, q, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) SetUserVerified(ctx context.Context, id string) error {
	const q = `UPDATE account SET email_verified = TRUE, updated_at = now() WHERE id = $1;`
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateUserGrants(ctx context.Context, id string, permissions []string) error {
	if permissions == nil {
		permissions = []string{}
	}
	const q = `UPDATE account SET permissions = $2, updated_at = now() WHERE id = $1;`
	tag, err := s.pool.Exec(ctx, q, id, permissions)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*Store)(nil)
