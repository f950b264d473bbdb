package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/MehdiBenameur/skyhire/internal/middleware"
	"github.com/MehdiBenameur/skyhire/internal/models"
	"github.com/MehdiBenameur/skyhire/internal/service"
)

type UserHandler struct {
	profileService *service.ProfileService
	authGuard      fiber.Handler
}

func NewUserHandler(profileService *service.ProfileService, authGuard fiber.Handler) *UserHandler {
	return &UserHandler{
		profileService: profileService,
		authGuard:      authGuard,
	}
}

func (h *UserHandler) RegisterRoutes(app *fiber.App) {
	userGroup := app.Group("/users")

	// Public routes
	userGroup.Get("/search", h.Search)
	userGroup.Get("/public/:userId", h.GetPublicProfile)
	userGroup.Post("/profile/auto-create", h.AutoCreateProfile)

	// Protected routes
	userGroup.Get("/profile", h.GetProfile, h.authGuard)
	userGroup.Put("/profile", h.UpdateProfile, h.authGuard)
	userGroup.Get("/stats", h.GetStats, h.authGuard)
	userGroup.Post("/skills", h.AddSkill, h.authGuard)
	userGroup.Delete("/skills/:skillId", h.RemoveSkill, h.authGuard)
}

func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	profile, err := h.profileService.EnsureProfile(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"profile": profile})
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var update models.ProfileUpdate
	if err := c.Bind().Body(&update); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.profileService.EnsureProfile(c.Context(), userID); err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	profile, err := h.profileService.Update(c.Context(), userID, &update)
	if err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	return respondSuccess(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{"profile": profile})
}

func (h *UserHandler) GetStats(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	if _, err := h.profileService.EnsureProfile(c.Context(), userID); err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	stats, err := h.profileService.Stats(c.Context(), userID)
	if err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"stats": stats})
}

func (h *UserHandler) AddSkill(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	var skill models.Skill
	if err := c.Bind().Body(&skill); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.profileService.EnsureProfile(c.Context(), userID); err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	profile, err := h.profileService.AddSkill(c.Context(), userID, skill)
	if err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	return respondSuccess(c, fiber.StatusCreated, "Skill added", fiber.Map{"skills": profile.Skills})
}

func (h *UserHandler) RemoveSkill(c fiber.Ctx) error {
	profile, err := h.profileService.RemoveSkill(c.Context(), middleware.UserID(c), c.Params("skillId"))
	if err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	return respondSuccess(c, fiber.StatusOK, "Skill removed", fiber.Map{"skills": profile.Skills})
}

func (h *UserHandler) Search(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))

	result, err := h.profileService.Search(c.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		return respondFailure(c, err, "Profiles not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{
		"profiles":    result.Profiles,
		"totalCount":  result.TotalCount,
		"currentPage": result.CurrentPage,
	})
}

func (h *UserHandler) GetPublicProfile(c fiber.Ctx) error {
	profile, err := h.profileService.GetPublicByUserID(c.Context(), c.Params("userId"))
	if err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"profile": profile})
}

// AutoCreateProfile is the explicit variant of the lazy profile creation the
// authenticated endpoints do through EnsureProfile.
func (h *UserHandler) AutoCreateProfile(c fiber.Ctx) error {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.Bind().Body(&req); err != nil || req.UserID == "" {
		return respondError(c, fiber.StatusBadRequest, "User ID is required")
	}

	profile, err := h.profileService.EnsureProfile(c.Context(), req.UserID)
	if err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	return respondSuccess(c, fiber.StatusCreated, "Profile ready", fiber.Map{"profile": profile.PublicView()})
}
