package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MehdiBenameur/skyhire/internal/middleware"
	"github.com/MehdiBenameur/skyhire/internal/service"
)

var cvUploads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "skyhire_cv_uploads_total",
		Help: "Total number of CV upload attempts",
	},
	[]string{"status"},
)

type CVHandler struct {
	cvService      *service.CVService
	profileService *service.ProfileService
	authGuard      fiber.Handler
}

func NewCVHandler(cvService *service.CVService, profileService *service.ProfileService, authGuard fiber.Handler) *CVHandler {
	return &CVHandler{
		cvService:      cvService,
		profileService: profileService,
		authGuard:      authGuard,
	}
}

func (h *CVHandler) RegisterRoutes(app *fiber.App) {
	cvGroup := app.Group("/cv", h.authGuard)
	cvGroup.Post("/upload", h.Upload)
	cvGroup.Get("/", h.List)
	cvGroup.Get("/:id", h.Get)
	cvGroup.Get("/:id/analysis", h.GetAnalysis)
	cvGroup.Get("/:id/roadmap", h.GetRoadmap)
	cvGroup.Delete("/:id", h.Delete)
}

func (h *CVHandler) Upload(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	// Uploading is the first thing many fresh accounts do.
	if _, err := h.profileService.EnsureProfile(c.Context(), userID); err != nil {
		return respondFailure(c, err, "Profile not found")
	}

	fileHeader, err := c.FormFile("cv")
	if err != nil {
		cvUploads.WithLabelValues("failure").Inc()
		return respondError(c, fiber.StatusBadRequest, "Please upload a file")
	}

	cv, err := h.cvService.Upload(c.Context(), fileHeader, userID)
	if err != nil {
		cvUploads.WithLabelValues("failure").Inc()
		return respondFailure(c, err, "CV not found")
	}

	cvUploads.WithLabelValues("success").Inc()
	return respondSuccess(c, fiber.StatusCreated, "CV uploaded successfully. Analysis in progress...", fiber.Map{
		"cv": fiber.Map{
			"id":             cv.ID.Hex(),
			"originalName":   cv.OriginalName,
			"fileSize":       cv.FileSize,
			"uploadDate":     cv.UploadDate,
			"analysisStatus": cv.AnalysisStatus,
		},
	})
}

func (h *CVHandler) List(c fiber.Ctx) error {
	cvs, err := h.cvService.ListOwned(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondFailure(c, err, "CV not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{
		"results": len(cvs),
		"cvs":     cvs,
	})
}

func (h *CVHandler) Get(c fiber.Ctx) error {
	cv, err := h.cvService.GetOwned(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondFailure(c, err, "CV not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"cv": cv})
}

func (h *CVHandler) GetAnalysis(c fiber.Ctx) error {
	analysis, err := h.cvService.GetAnalysis(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondFailure(c, err, "CV analysis not available yet")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"analysis": analysis})
}

func (h *CVHandler) GetRoadmap(c fiber.Ctx) error {
	roadmap, err := h.cvService.GetRoadmap(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondFailure(c, err, "CV analysis not available")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"roadmap": roadmap})
}

func (h *CVHandler) Delete(c fiber.Ctx) error {
	if err := h.cvService.Delete(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return respondFailure(c, err, "CV not found")
	}

	return respondSuccess(c, fiber.StatusOK, "CV deleted successfully", nil)
}
