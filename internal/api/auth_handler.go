package api

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"rentacar.com/internal/config"
	"rentacar.com/internal/domain"
	"rentacar.com/internal/model"
	"rentacar.com/internal/validation"
)

type AuthHandler struct {
	users    domain.UserRepository
	identity domain.IdentityService
	cfg      *config.Config
}

func NewAuthHandler(users domain.UserRepository, idsvc domain.IdentityService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		users:    users,
		identity: idsvc,
		cfg:      cfg,
	}
}

type LoginRequest struct {
	Username   string `json:"Username"`
	Email      string `json:"Email"`
	Password   string `json:"Password"`
	Persistent bool   `json:"Persistent"`
}

type AuthResponse struct {
	Token    string `json:"Token"`
	ID       uint   `json:"ID"`
	Username string `json:"Username"`
	Email    string `json:"Email"`
	Role     string `json:"Role"`
}

// RegisterForm returns what the registration form needs: the redirect target
// and the configured external login schemes.
// GET /auth/register?returnUrl=/cars
func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	returnURL := c.Query("returnUrl")
	if returnURL == "" {
		returnURL = "/"
	}
	return c.JSON(fiber.Map{
		"ReturnURL":      returnURL,
		"ExternalLogins": h.identity.ExternalAuthSchemes(),
	})
}

// Register creates a new customer account.
// POST /auth/register?returnUrl=/cars
//
// All field rules and uniqueness checks run before any write; any failure
// redisplays the form with the collected {field, message} list and nothing
// is persisted. On success the account gets the Customer role and, unless
// the deployment requires confirmed accounts, a non-persistent session.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in validation.RegistrationInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid request"})
	}

	returnURL := c.Query("returnUrl")
	if returnURL == "" {
		returnURL = "/"
	}

	fieldErrs, err := validation.ValidateRegistration(c.Context(), h.users, in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Validation failed"})
	}
	if len(fieldErrs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Errors": fieldErrs})
	}

	// Email is mirrored into the username, matching the account model the
	// rest of the system expects.
	user := model.User{
		Username:       in.Email,
		Email:          in.Email,
		Phone:          in.Phone,
		EGN:            in.EGN,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		EmailConfirmed: true, // no confirmation email is sent
	}

	if err := h.identity.CreateAccount(c.Context(), &user, in.Password); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Errors": verr.Errors})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Failed to create account"})
	}

	if err := h.identity.AssignRole(c.Context(), &user, model.RoleCustomer); err != nil {
		// Surface as a form-level error; the user is not signed in.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"Errors": []domain.FieldError{{Field: "", Message: "Failed to assign role to the new account."}},
		})
	}

	log.Println("Auth: User created a new account with password.")

	if h.cfg.Auth.RequireConfirmed {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"ConfirmationRequired": true,
			"Email":                user.Email,
		})
	}

	token, err := h.identity.SignIn(c.Context(), &user, false)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Failed to sign in"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"Token":      token,
		"RedirectTo": returnURL,
		"ID":         user.ID,
		"Email":      user.Email,
		"Role":       user.Role,
	})
}

// Login authenticates a user and returns the session token.
// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Invalid request"})
	}

	// Usernames mirror emails, so one column lookup covers both.
	loginID := req.Email
	if loginID == "" {
		loginID = req.Username
	}
	if loginID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"Error": "Email or Username is required"})
	}

	user, err := h.users.FindByField(c.Context(), domain.FieldEmail, loginID)
	if err != nil || user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Invalid credentials"})
	}

	if !h.identity.VerifyPassword(user.Password, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Invalid credentials"})
	}

	token, err := h.identity.SignIn(c.Context(), user, req.Persistent)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Failed to sign token"})
	}

	return c.JSON(AuthResponse{
		Token:    token,
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	})
}

// Logout revokes the presented token.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	token := ""
	if len(authHeader) > len("Bearer ") {
		token = authHeader[len("Bearer "):]
	}
	if token != "" {
		if err := h.identity.SignOut(c.Context(), token); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"Error": "Failed to revoke session"})
		}
	}
	return c.JSON(fiber.Map{"Message": "Logged out successfully"})
}

// GetMe returns the signed-in user.
// GET /api/auth/me
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	userID := c.Locals("id")
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Unauthorized"})
	}

	id, ok := userID.(float64) // JWT numeric claims decode as float64
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"Error": "Unauthorized"})
	}

	user, err := h.users.FindByID(c.Context(), uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"Error": "User not found"})
	}

	return c.JSON(user)
}

// Providers lists external authentication schemes.
// GET /auth/providers
func (h *AuthHandler) Providers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"Providers": h.identity.ExternalAuthSchemes()})
}

// EnsureAdminUser checks if any user exists, if not creates a default admin.
func (h *AuthHandler) EnsureAdminUser() {
	ctx := context.Background()
	users, err := h.users.List(ctx)
	if err != nil || len(users) > 0 {
		return
	}
	log.Println("Auth: No users found. Creating default 'admin' user...")
	admin := model.User{
		Username:       "admin",
		Email:          "admin@admin.com",
		FirstName:      "Admin",
		LastName:       "Admin",
		EmailConfirmed: true,
	}
	if err := h.identity.CreateAccount(ctx, &admin, "admin123"); err != nil {
		log.Printf("Failed to create admin user: %v", err)
		return
	}
	if err := h.identity.AssignRole(ctx, &admin, model.RoleAdmin); err != nil {
		log.Printf("Failed to assign admin role: %v", err)
		return
	}
	log.Println("Auth: Created default user: admin@admin.com / admin123")
}
