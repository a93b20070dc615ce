package validation

import (
	"context"

	"rentacar.com/internal/domain"
)

// Uniqueness validators. Each is a read-only lookup against the full user
// set through the injected repository; an empty candidate is trivially valid
// and left to the required-field checks. Check-then-insert is not atomic, so
// two concurrent registrations can both pass here; the unique indexes on the
// users table close that race and CreateAccount maps the constraint failure
// back to these same messages.

func UniqueEmail(ctx context.Context, users domain.UserRepository, value string) (*domain.FieldError, error) {
	return unique(ctx, users, domain.FieldEmail, value, "Email",
		"There is already a user with this email.")
}

func UniquePhone(ctx context.Context, users domain.UserRepository, value string) (*domain.FieldError, error) {
	return unique(ctx, users, domain.FieldPhone, value, "Phone",
		"There is already a user with this phone number.")
}

func UniqueEGN(ctx context.Context, users domain.UserRepository, value string) (*domain.FieldError, error) {
	return unique(ctx, users, domain.FieldEGN, value, "EGN",
		"There is already a user with this EGN.")
}

// UniqueEmailExcept is the edit-flow variant: the record under edit may keep
// its own value.
func UniqueEmailExcept(ctx context.Context, users domain.UserRepository, value string, selfID uint) (*domain.FieldError, error) {
	return uniqueExcept(ctx, users, domain.FieldEmail, value, selfID, "Email",
		"There is already a user with this email.")
}

func UniqueEGNExcept(ctx context.Context, users domain.UserRepository, value string, selfID uint) (*domain.FieldError, error) {
	return uniqueExcept(ctx, users, domain.FieldEGN, value, selfID, "EGN",
		"There is already a user with this EGN.")
}

func unique(ctx context.Context, users domain.UserRepository, field domain.UserField, value, name, message string) (*domain.FieldError, error) {
	if value == "" {
		return nil, nil
	}
	existing, err := users.FindByField(ctx, field, value)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &domain.FieldError{Field: name, Message: message}, nil
	}
	return nil, nil
}

func uniqueExcept(ctx context.Context, users domain.UserRepository, field domain.UserField, value string, selfID uint, name, message string) (*domain.FieldError, error) {
	if value == "" {
		return nil, nil
	}
	existing, err := users.FindByField(ctx, field, value)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != selfID {
		return &domain.FieldError{Field: name, Message: message}, nil
	}
	return nil, nil
}
