package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"rentacar.com/internal/auth"
	"rentacar.com/internal/config"
	"rentacar.com/internal/identity"
	"rentacar.com/internal/model"
	"rentacar.com/internal/repository"
)

const testJWTSecret = "rentacar-test-secret"

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	users    *repository.UserRepo
	cars     *repository.CarRepo
	identity *identity.Service
}

// newTestEnv wires the handlers over an in-memory database. Routes are
// registered directly, without the Casbin middleware, so the tests exercise
// flow behavior rather than the policy gate.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Car{}))

	enforcer, err := auth.InitCasbin(db)
	require.NoError(t, err)

	users := repository.NewUserRepo(db)
	cars := repository.NewCarRepo(db)

	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{JWTSecret: testJWTSecret, TokenTTLHours: 1}

	idsvc := identity.NewService(users, enforcer, nil, cfg.Auth)

	authHandler := NewAuthHandler(users, idsvc, cfg)
	userHandler := NewUserHandler(users, idsvc)
	carHandler := NewCarHandler(cars)

	app := fiber.New()
	app.Get("/auth/register", authHandler.RegisterForm)
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Get("/auth/providers", authHandler.Providers)
	app.Get("/users/:id/delete", userHandler.DeleteConfirm)

	app.Get("/api/users", userHandler.List)
	app.Get("/api/users/:id", userHandler.Detail)
	app.Get("/api/users/:id/edit", userHandler.EditForm)
	app.Post("/api/users/:id/edit", userHandler.Edit)
	app.Post("/api/users/:id/delete", userHandler.Delete)

	app.Get("/api/cars", carHandler.List)
	app.Post("/api/cars", carHandler.Create)
	app.Get("/api/cars/:id", carHandler.Get)
	app.Put("/api/cars/:id", carHandler.Update)
	app.Delete("/api/cars/:id", carHandler.Delete)

	return &testEnv{
		app:      app,
		db:       db,
		users:    users,
		cars:     cars,
		identity: idsvc,
	}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) seedUser(t *testing.T, email, phone, egn string) *model.User {
	t.Helper()
	user := &model.User{
		Username:       email,
		Email:          email,
		Phone:          phone,
		EGN:            egn,
		FirstName:      "Ivan",
		LastName:       "Petrov",
		EmailConfirmed: true,
	}
	require.NoError(t, e.identity.CreateAccount(t.Context(), user, "secret1"))
	require.NoError(t, e.identity.AssignRole(t.Context(), user, model.RoleCustomer))
	return user
}

func (e *testEnv) userCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&model.User{}).Count(&count).Error)
	return count
}
