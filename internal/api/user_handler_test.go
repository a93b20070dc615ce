package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rentacar.com/internal/model"
)

func TestUserList(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "a@example.com", "0888000001", "9001010001")
	env.seedUser(t, "b@example.com", "0888000002", "9001010002")

	resp := env.request(t, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUserDetailNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/api/users/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/users/not-a-number", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserEditFormHasEmptyPassword(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "a@example.com", "0888000001", "9001010001")

	resp := env.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d/edit", u.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeBody(t, resp)
	assert.Equal(t, "", out["Password"])
	assert.NotNil(t, out["User"])
}

func TestUserEditIDMismatchIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "a@example.com", "0888000001", "9001010001")

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/users/%d/edit", u.ID), EditRequest{
		ID:       u.ID + 1, // body disagrees with the path
		EGN:      "9101010001",
		Email:    "changed@example.com",
		Username: "changed@example.com",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// No mutation happened.
	current, err := env.users.FindByID(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", current.Email)
}

func TestUserEditBlankPasswordKeepsHash(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "a@example.com", "0888000001", "9001010001")
	originalHash := u.Password

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/users/%d/edit", u.ID), EditRequest{
		ID:       u.ID,
		EGN:      "9101019999",
		Email:    "changed@example.com",
		Username: "changed-name",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	current, err := env.users.FindByID(t.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "9101019999", current.EGN)
	assert.Equal(t, "changed@example.com", current.Email)
	assert.Equal(t, "changed-name", current.Username)
	assert.Equal(t, originalHash, current.Password, "blank password leaves the hash unchanged")
	assert.Equal(t, model.RoleCustomer, current.Role, "edit never touches the role")
}

func TestUserEditNewPasswordRehashed(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "a@example.com", "0888000001", "9001010001")
	originalHash := u.Password

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/users/%d/edit", u.ID), EditRequest{
		ID:       u.ID,
		EGN:      u.EGN,
		Email:    u.Email,
		Username: u.Username,
		Password: "newsecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	current, err := env.users.FindByID(t.Context(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, originalHash, current.Password)
	assert.True(t, env.identity.VerifyPassword(current.Password, "newsecret"))
}

func TestUserEditKeepingOwnEGN(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "a@example.com", "0888000001", "9001010001")

	// Re-submitting the record's own unique values must not trip the
	// uniqueness checks.
	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/users/%d/edit", u.ID), EditRequest{
		ID:       u.ID,
		EGN:      u.EGN,
		Email:    u.Email,
		Username: "renamed",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUserEditTakenEGNRejected(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "a@example.com", "0888000001", "9001010001")
	other := env.seedUser(t, "b@example.com", "0888000002", "9001010002")

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/users/%d/edit", u.ID), EditRequest{
		ID:       u.ID,
		EGN:      other.EGN,
		Email:    u.Email,
		Username: u.Username,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	out := decodeBody(t, resp)
	errs := out["Errors"].([]any)
	require.Len(t, errs, 1)
	fe := errs[0].(map[string]any)
	assert.Equal(t, "There is already a user with this EGN.", fe["Message"])
}

func TestUserEditConcurrentChangeConflicts(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "a@example.com", "0888000001", "9001010001")

	// Another request bumps the version between this handler's read and save.
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", u.ID).
		Update("version", u.Version+1).Error)

	// The handler re-fetches, so simulate the race at the repository level.
	stale := *u
	stale.Email = "stale@example.com"
	err := env.users.Update(t.Context(), &stale)
	require.Error(t, err)
}

func TestDeleteConfirmViewIsServed(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "a@example.com", "0888000001", "9001010001")

	resp := env.request(t, http.MethodGet, fmt.Sprintf("/users/%d/delete", u.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/users/999/delete", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserDelete(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "a@example.com", "0888000001", "9001010001")
	env.seedUser(t, "b@example.com", "0888000002", "9001010002")

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/users/%d/delete", u.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Exactly that record is gone.
	assert.Equal(t, int64(1), env.userCount(t))
	_, err := env.users.FindByID(t.Context(), u.ID)
	assert.Error(t, err)
}

func TestUserDeleteMissingIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/users/424242/delete", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
