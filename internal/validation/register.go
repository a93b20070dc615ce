package validation

import (
	"context"

	"rentacar.com/internal/domain"
)

// RegistrationInput is the registration form payload.
type RegistrationInput struct {
	Phone     string `json:"Phone"`
	Username  string `json:"Username"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Email     string `json:"Email"`
	Password  string `json:"Password"`
	EGN       string `json:"EGN"`
}

// ValidateRegistration runs every field rule and uniqueness check, collecting
// all failures rather than stopping at the first one.
func ValidateRegistration(ctx context.Context, users domain.UserRepository, in RegistrationInput) ([]domain.FieldError, error) {
	var errs []domain.FieldError

	add := func(fe *domain.FieldError) {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}

	add(Required("Phone", in.Phone))
	if in.Phone != "" {
		add(TenDigits("Phone", in.Phone, "Phone number"))
	}

	add(Required("Username", in.Username))

	add(Required("FirstName", in.FirstName))
	if in.FirstName != "" {
		add(MinLen("FirstName", in.FirstName, 3, "First name must be 3 symbols long."))
	}

	add(Required("LastName", in.LastName))
	if in.LastName != "" {
		add(MinLen("LastName", in.LastName, 3, "Last name must be 3 symbols long."))
	}

	add(Required("Email", in.Email))
	if in.Email != "" {
		add(EmailAddress("Email", in.Email))
	}

	add(Required("Password", in.Password))
	if in.Password != "" {
		add(MinLen("Password", in.Password, 6, "The Password must be at least 6 characters long."))
	}

	add(Required("EGN", in.EGN))
	if in.EGN != "" {
		add(TenDigits("EGN", in.EGN, "EGN"))
	}

	fe, err := UniquePhone(ctx, users, in.Phone)
	if err != nil {
		return nil, err
	}
	add(fe)

	fe, err = UniqueEmail(ctx, users, in.Email)
	if err != nil {
		return nil, err
	}
	add(fe)

	fe, err = UniqueEGN(ctx, users, in.EGN)
	if err != nil {
		return nil, err
	}
	add(fe)

	return errs, nil
}
