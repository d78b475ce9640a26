package repository

import (
	"context"
	"time"
)

// User es la cuenta de la plataforma. Role viaja crudo (string) y se
// normaliza en la lectura vía authz.NormalizeRole; Permissions son los
// grants por cuenta, relevantes para SUBADMIN.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	Role          string
	Permissions   []string
	EmailVerified bool
	Status        string // active | disabled
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserInput datos para crear una cuenta.
type UserInput struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Permissions  []string
}

// UserFilter filtros de listado del admin.
type UserFilter struct {
	Role   string
	Status string
	Query  string // email o nombre, substring
	Limit  int
	Offset int
}

// UserRepository define la persistencia de cuentas.
type UserRepository interface {
	CreateUser(ctx context.Context, in UserInput) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, f UserFilter) ([]User, error)

	// SetUserStatus habilita/deshabilita la cuenta ("active"/"disabled").
	SetUserStatus(ctx context.Context, id, status string) error

	// SetUserVerified marca el email como verificado.
	SetUserVerified(ctx context.Context, id string) error

	// UpdateUserGrants reemplaza los grants por cuenta (solo SUBADMIN los usa;
	// el oráculo ignora la lista para ADMIN).
	UpdateUserGrants(ctx context.Context, id string, permissions []string) error
}
