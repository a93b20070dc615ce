package validation

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"rentacar.com/internal/model"
	"rentacar.com/internal/repository"
)

func newUserRepo(t *testing.T) (*repository.UserRepo, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return repository.NewUserRepo(db), db
}

func TestUniquenessValidators(t *testing.T) {
	repo, db := newUserRepo(t)
	ctx := context.Background()

	seed := model.User{
		Username: "taken@example.com",
		Email:    "taken@example.com",
		Phone:    "0888123456",
		EGN:      "9001011234",
		Password: "hash",
		Version:  1,
	}
	require.NoError(t, db.Create(&seed).Error)

	t.Run("taken values are rejected with the field message", func(t *testing.T) {
		fe, err := UniqueEmail(ctx, repo, "taken@example.com")
		require.NoError(t, err)
		require.NotNil(t, fe)
		require.Equal(t, "There is already a user with this email.", fe.Message)

		fe, err = UniquePhone(ctx, repo, "0888123456")
		require.NoError(t, err)
		require.NotNil(t, fe)
		require.Equal(t, "There is already a user with this phone number.", fe.Message)

		fe, err = UniqueEGN(ctx, repo, "9001011234")
		require.NoError(t, err)
		require.NotNil(t, fe)
		require.Equal(t, "There is already a user with this EGN.", fe.Message)
	})

	t.Run("free values pass", func(t *testing.T) {
		fe, err := UniqueEmail(ctx, repo, "free@example.com")
		require.NoError(t, err)
		require.Nil(t, fe)
	})

	t.Run("empty candidate is trivially valid", func(t *testing.T) {
		fe, err := UniqueEGN(ctx, repo, "")
		require.NoError(t, err)
		require.Nil(t, fe)
	})

	t.Run("edit variant allows keeping own value", func(t *testing.T) {
		fe, err := UniqueEGNExcept(ctx, repo, "9001011234", seed.ID)
		require.NoError(t, err)
		require.Nil(t, fe)

		fe, err = UniqueEGNExcept(ctx, repo, "9001011234", seed.ID+1)
		require.NoError(t, err)
		require.NotNil(t, fe)
	})
}

func TestValidateRegistrationCollectsAllFailures(t *testing.T) {
	repo, db := newUserRepo(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.User{
		Username: "dup@example.com",
		Email:    "dup@example.com",
		Phone:    "0888000000",
		EGN:      "8001019999",
		Password: "hash",
		Version:  1,
	}).Error)

	errs, err := ValidateRegistration(ctx, repo, RegistrationInput{
		Phone:     "12ab", // wrong length
		Username:  "someone",
		FirstName: "Jo", // too short
		LastName:  "Doe",
		Email:     "dup@example.com", // taken
		Password:  "12345",           // too short
		EGN:       "8001019999",      // taken
	})
	require.NoError(t, err)

	fields := map[string]bool{}
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	require.True(t, fields["Phone"])
	require.True(t, fields["FirstName"])
	require.True(t, fields["Email"])
	require.True(t, fields["Password"])
	require.True(t, fields["EGN"])
}

func TestValidateRegistrationValidInput(t *testing.T) {
	repo, _ := newUserRepo(t)

	errs, err := ValidateRegistration(context.Background(), repo, RegistrationInput{
		Phone:     "0888123456",
		Username:  "new@example.com",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Email:     "new@example.com",
		Password:  "secret1",
		EGN:       "9202025678",
	})
	require.NoError(t, err)
	require.Empty(t, errs)
}
