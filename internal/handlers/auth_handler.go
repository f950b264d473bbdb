package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MehdiBenameur/skyhire/internal/service"
)

var (
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyhire_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	registrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyhire_registration_attempts_total",
			Help: "Total number of registration attempts",
		},
		[]string{"status"},
	)
)

type AuthHandler struct {
	userService *service.UserService
	jwtService  *service.JWTService
	serviceName string
}

func NewAuthHandler(userService *service.UserService, jwtService *service.JWTService, serviceName string) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		serviceName: serviceName,
	}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.Register)
	authGroup.Post("/login", h.Login)
}

func (h *AuthHandler) HealthCheck(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "OK",
		"service":   h.serviceName,
		"timestamp": time.Now(),
	})
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	if err := c.Bind().Body(&req); err != nil {
		registrationAttempts.WithLabelValues("failure").Inc()
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		registrationAttempts.WithLabelValues("failure").Inc()
		return respondError(c, fiber.StatusBadRequest, "Username, email, and password are required")
	}
	if len(req.Password) < 6 {
		registrationAttempts.WithLabelValues("failure").Inc()
		return respondError(c, fiber.StatusBadRequest, "Password must be at least 6 characters")
	}

	user, err := h.userService.Register(c.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		registrationAttempts.WithLabelValues("failure").Inc()
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	registrationAttempts.WithLabelValues("success").Inc()
	return respondSuccess(c, fiber.StatusCreated, "User created successfully", fiber.Map{
		"user": user,
	})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return respondError(c, fiber.StatusBadRequest, "Username and password are required")
	}

	user, err := h.userService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		log.Printf("Error login with username %s: %s", req.Username, err)
		loginAttempts.WithLabelValues("failure").Inc()
		return respondError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.jwtService.GenerateToken(user.ID.Hex(), user.Username, user.Email, user.Role)
	if err != nil {
		log.Printf("Error generating token for %s: %s", req.Username, err)
		loginAttempts.WithLabelValues("failure").Inc()
		return respondError(c, fiber.StatusInternalServerError, "Internal server error")
	}

	loginAttempts.WithLabelValues("success").Inc()
	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{
		"token": token,
		"user":  user,
	})
}
