package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"rentacar.com/internal/api/middleware"
	"rentacar.com/internal/auth"
	"rentacar.com/internal/config"
	"rentacar.com/internal/identity"
	"rentacar.com/internal/repository"
)

// Router registers all routes.
type Router struct {
	app    *fiber.App
	cfg    *config.Config
	db     *gorm.DB
	rdb    *redis.Client
	router fiber.Router // /api group
}

func NewRouter(app *fiber.App, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Router {
	return &Router{
		app: app,
		cfg: cfg,
		db:  db,
		rdb: rdb,
	}
}

// RegisterRoutes wires repositories, the identity service and all handlers.
func (r *Router) RegisterRoutes() {
	enforcer, err := auth.InitCasbin(r.db)
	if err != nil {
		log.Fatalf("Failed to initialize Casbin: %v", err)
	}

	userRepo := repository.NewUserRepo(r.db)
	carRepo := repository.NewCarRepo(r.db)
	idsvc := identity.NewService(userRepo, enforcer, r.rdb, r.cfg.Auth)

	authHandler := NewAuthHandler(userRepo, idsvc, r.cfg)
	userHandler := NewUserHandler(userRepo, idsvc)
	carHandler := NewCarHandler(carRepo)

	// Public routes. Registration is anonymous; the delete-confirm view is
	// served ungated (only the POST that executes the delete sits behind the
	// Admin policy).
	r.app.Get("/auth/register", authHandler.RegisterForm)
	r.app.Post("/auth/register", authHandler.Register)
	r.app.Post("/auth/login", authHandler.Login)
	r.app.Get("/auth/providers", authHandler.Providers)
	r.app.Get("/users/:id/delete", userHandler.DeleteConfirm)
	authHandler.EnsureAdminUser()

	// Protected /api group.
	// Same fallback secret the identity service signs with.
	jwtSecret := r.cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "rentacar-dev-secret"
	}
	r.router = r.app.Group("/api")
	r.router.Use(middleware.CasbinMiddleware(enforcer, jwtSecret, r.rdb))

	r.registerUserRoutes(userHandler)
	r.registerCarRoutes(carHandler)
	r.registerAuthRoutes(authHandler)
}

func (r *Router) registerUserRoutes(h *UserHandler) {
	users := r.router.Group("/users")
	users.Get("/", h.List)
	users.Get("/:id", h.Detail)
	users.Get("/:id/edit", h.EditForm)
	users.Post("/:id/edit", h.Edit)
	users.Post("/:id/delete", h.Delete)
}

func (r *Router) registerCarRoutes(h *CarHandler) {
	cars := r.router.Group("/cars")
	cars.Get("/", h.List)
	cars.Post("/", h.Create)
	cars.Get("/:id", h.Get)
	cars.Put("/:id", h.Update)
	cars.Delete("/:id", h.Delete)
}

func (r *Router) registerAuthRoutes(h *AuthHandler) {
	r.router.Get("/auth/me", h.GetMe)
	r.router.Post("/auth/logout", h.Logout)
}
