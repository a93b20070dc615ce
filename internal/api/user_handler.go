package api

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"rentacar.com/internal/domain"
	"rentacar.com/internal/validation"
)

// UserHandler serves the user administration screens: list, detail, edit and
// delete. Everything except the delete-confirm view sits behind the Admin
// policy in the /api group.
type UserHandler struct {
	users    domain.UserRepository
	identity domain.IdentityService
}

func NewUserHandler(users domain.UserRepository, idsvc domain.IdentityService) *UserHandler {
	return &UserHandler{
		users:    users,
		identity: idsvc,
	}
}

// EditRequest is the partial record the edit form submits. Only these fields
// are ever written back; the role in particular is fixed at creation.
type EditRequest struct {
	ID       uint   `json:"ID"`
	EGN      string `json:"EGN"`
	Email    string `json:"Email"`
	Username string `json:"Username"`
	Password string `json:"Password"` // optional new plaintext password
}

// EditView combines the full record with an empty password field for the
// edit form.
type EditView struct {
	User     interface{} `json:"User"`
	Password string      `json:"Password"`
}

// List returns all user records, unpaginated.
// GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Database error"})
	}
	return c.JSON(users)
}

// Detail returns a single user.
// GET /api/users/:id
func (h *UserHandler) Detail(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}
	user, err := h.users.FindByID(c.Context(), id)
	if err != nil {
		return notFound(c)
	}
	return c.JSON(user)
}

// EditForm returns the edit view for a user.
// GET /api/users/:id/edit
func (h *UserHandler) EditForm(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}
	user, err := h.users.FindByID(c.Context(), id)
	if err != nil {
		return notFound(c)
	}
	return c.JSON(EditView{User: user, Password: ""})
}

// Edit applies an admin edit: EGN, email and username are overwritten on the
// authoritative record, and a supplied password is re-hashed. The save is
// guarded by the record's version; a lost race resolves to NotFound when the
// record is gone and is otherwise a terminal conflict.
// POST /api/users/:id/edit
func (h *UserHandler) Edit(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	var req EditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid body"})
	}

	// The path id must match the submitted record. A mismatch is treated as
	// not-found rather than a validation error.
	if id != req.ID {
		return notFound(c)
	}

	fieldErrs, err := h.validateEdit(c, req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Validation failed"})
	}
	if len(fieldErrs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Errors": fieldErrs})
	}

	// Re-fetch the authoritative record and overwrite only the edited fields.
	user, err := h.users.FindByID(c.Context(), id)
	if err != nil {
		return notFound(c)
	}

	user.EGN = req.EGN
	user.Email = req.Email
	user.Username = req.Username
	if req.Password != "" {
		hashed, err := h.identity.HashPassword(req.Password)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Failed to hash password"})
		}
		user.Password = hashed
	}

	if err := h.users.Update(c.Context(), user); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return notFound(c)
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"Error": "The record was modified by another request"})
		case errors.Is(err, domain.ErrAlreadyExists):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"Errors": []domain.FieldError{{Field: "", Message: "A user with these details already exists."}},
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Update failed"})
		}
	}

	return c.JSON(fiber.Map{"Status": true, "Data": user})
}

// DeleteConfirm returns the record shown on the delete-confirmation view.
// GET /users/:id/delete
func (h *UserHandler) DeleteConfirm(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}
	user, err := h.users.FindByID(c.Context(), id)
	if err != nil {
		return notFound(c)
	}
	return c.JSON(user)
}

// Delete removes a user and their role memberships. A missing record is an
// explicit NotFound.
// POST /api/users/:id/delete
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	user, err := h.users.FindByID(c.Context(), id)
	if err != nil {
		return notFound(c)
	}

	if err := h.users.Delete(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Delete failed"})
	}

	if err := h.identity.RemoveRoles(c.Context(), user); err != nil {
		// The record is already gone; a dangling grouping row is harmless.
		log.Printf("Users: failed to remove roles for deleted user %d: %v", id, err)
	}

	return c.JSON(fiber.Map{"Status": true, "RedirectTo": "/api/users"})
}

func (h *UserHandler) validateEdit(c *fiber.Ctx, req EditRequest) ([]domain.FieldError, error) {
	var errs []domain.FieldError
	add := func(fe *domain.FieldError) {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}

	add(validation.Required("Username", req.Username))
	add(validation.Required("Email", req.Email))
	if req.Email != "" {
		add(validation.EmailAddress("Email", req.Email))
	}
	add(validation.Required("EGN", req.EGN))
	if req.EGN != "" {
		add(validation.TenDigits("EGN", req.EGN, "EGN"))
	}
	if req.Password != "" {
		add(validation.MinLen("Password", req.Password, 6, "The Password must be at least 6 characters long."))
	}

	// The record under edit may keep its own values.
	fe, err := validation.UniqueEmailExcept(c.Context(), h.users, req.Email, req.ID)
	if err != nil {
		return nil, err
	}
	add(fe)

	fe, err = validation.UniqueEGNExcept(c.Context(), h.users, req.EGN, req.ID)
	if err != nil {
		return nil, err
	}
	add(fe)

	return errs, nil
}

func parseID(c *fiber.Ctx) (uint, bool) {
	raw := c.Params("id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"Error": "Not found"})
}
