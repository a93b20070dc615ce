package domain

import (
	"context"

	"rentacar.com/internal/model"
)

// UserField names the user columns that carry a uniqueness constraint.
type UserField string

const (
	FieldEmail UserField = "email"
	FieldPhone UserField = "phone"
	FieldEGN   UserField = "egn"
)

// ===========================
// Persistence boundary
// ===========================

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	// FindByID fetches a user by primary key. ErrNotFound if absent.
	FindByID(ctx context.Context, id uint) (*model.User, error)
	// FindByField fetches a user by one of the unique columns.
	// Returns (nil, nil) when no user has the value.
	FindByField(ctx context.Context, field UserField, value string) (*model.User, error)
	// List returns every user record, unpaginated.
	List(ctx context.Context) ([]model.User, error)
	// Insert persists a new user. Duplicate unique values surface as ErrAlreadyExists.
	Insert(ctx context.Context, user *model.User) error
	// Update persists username/email/egn/password guarded by the record's version.
	// A stale version resolves to ErrNotFound when the record is gone, ErrConflict otherwise.
	Update(ctx context.Context, user *model.User) error
	// Delete removes a user by id. ErrNotFound if absent.
	Delete(ctx context.Context, id uint) error
}

// CarRepository defines persistence operations for car listings.
type CarRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Car, error)
	List(ctx context.Context, page, pageSize int) ([]model.Car, int64, error)
	Insert(ctx context.Context, car *model.Car) error
	Update(ctx context.Context, car *model.Car) error
	Delete(ctx context.Context, id uint) error
}

// ===========================
// Identity boundary
// ===========================

// IdentityService covers account creation, credentials and sessions.
// The flows orchestrate these calls; they never touch hashing or tokens directly.
type IdentityService interface {
	// CreateAccount hashes the password and persists the record.
	// Duplicate unique values come back as a *ValidationError with field messages.
	CreateAccount(ctx context.Context, user *model.User, password string) error
	// HashPassword returns the one-way hash for storage.
	HashPassword(password string) (string, error)
	// VerifyPassword reports whether the plaintext matches the stored hash.
	VerifyPassword(hash, password string) bool
	// AssignRole records role membership for the user (grouping policy + Role column).
	AssignRole(ctx context.Context, user *model.User, role string) error
	// RemoveRoles clears the user's role memberships, used on delete.
	RemoveRoles(ctx context.Context, user *model.User) error
	// SignIn issues a session token. Persistent sessions get a long expiry.
	SignIn(ctx context.Context, user *model.User, persistent bool) (string, error)
	// SignOut revokes a previously issued token.
	SignOut(ctx context.Context, token string) error
	// ExternalAuthSchemes lists configured external login providers.
	ExternalAuthSchemes() []string
}
