package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/MehdiBenameur/skyhire/internal/middleware"
	"github.com/MehdiBenameur/skyhire/internal/models"
	"github.com/MehdiBenameur/skyhire/internal/repository"
	"github.com/MehdiBenameur/skyhire/internal/service"
)

type JobHandler struct {
	jobService *service.JobService
	authGuard  fiber.Handler
	roleGuard  fiber.Handler
}

func NewJobHandler(jobService *service.JobService, authGuard fiber.Handler) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		authGuard:  authGuard,
		roleGuard:  middleware.RequireRoles(models.RoleRecruiter, models.RoleAdmin),
	}
}

func (h *JobHandler) RegisterRoutes(app *fiber.App) {
	jobGroup := app.Group("/jobs")

	// Public routes
	jobGroup.Get("/categories", h.Categories)
	jobGroup.Get("/", h.List)

	// Authenticated candidate routes. Registered before /:id so the
	// static prefixes win.
	jobGroup.Get("/user/matching", h.Matching, h.authGuard)
	jobGroup.Get("/user/applications", h.ApplicationHistory, h.authGuard)
	jobGroup.Get("/user/applications/:id", h.ApplicationDetail, h.authGuard)
	jobGroup.Get("/user/stats", h.SeekerStats, h.authGuard)

	// Recruiter/admin routes
	jobGroup.Patch("/applications/:id/status", h.UpdateApplicationStatus, h.authGuard, h.roleGuard)
	jobGroup.Post("/applications/:id/communication", h.AddCommunication, h.authGuard, h.roleGuard)
	jobGroup.Post("/", h.Create, h.authGuard, h.roleGuard)
	jobGroup.Put("/:id", h.Update, h.authGuard, h.roleGuard)
	jobGroup.Delete("/:id", h.Delete, h.authGuard, h.roleGuard)

	jobGroup.Get("/:id", h.Get)
	jobGroup.Post("/:id/apply", h.Apply, h.authGuard)
	jobGroup.Post("/:id/save", h.ToggleSave, h.authGuard)
}

func (h *JobHandler) List(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "20"))

	filter := repository.JobFilter{
		Category: c.Query("category"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.jobService.List(c.Context(), filter)
	if err != nil {
		return respondFailure(c, err, "Jobs not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{
		"jobs":        result.Jobs,
		"totalCount":  result.TotalCount,
		"currentPage": result.CurrentPage,
	})
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	job, err := h.jobService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondFailure(c, err, "Job not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"job": job})
}

func (h *JobHandler) Categories(c fiber.Ctx) error {
	categories, err := h.jobService.Categories(c.Context())
	if err != nil {
		return respondFailure(c, err, "Categories not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"categories": categories})
}

func (h *JobHandler) Matching(c fiber.Ctx) error {
	matches, err := h.jobService.Matching(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondFailure(c, err, "Jobs not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"jobs": matches})
}

func (h *JobHandler) Apply(c fiber.Ctx) error {
	var req struct {
		CoverLetter string `json:"coverLetter"`
	}
	// The body is optional; a bare POST applies without a cover letter.
	_ = c.Bind().Body(&req)

	app, err := h.jobService.Apply(c.Context(), c.Params("id"), middleware.UserID(c), req.CoverLetter)
	if err != nil {
		return respondFailure(c, err, "Job not found")
	}

	return respondSuccess(c, fiber.StatusCreated, "Application submitted", fiber.Map{"application": app})
}

func (h *JobHandler) ToggleSave(c fiber.Ctx) error {
	saved, err := h.jobService.ToggleSave(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondFailure(c, err, "Job not found")
	}

	message := "Job saved"
	if !saved {
		message = "Job unsaved"
	}
	return respondSuccess(c, fiber.StatusOK, message, fiber.Map{"saved": saved})
}

func (h *JobHandler) ApplicationHistory(c fiber.Ctx) error {
	apps, err := h.jobService.ApplicationHistory(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondFailure(c, err, "Applications not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{
		"results":      len(apps),
		"applications": apps,
	})
}

func (h *JobHandler) ApplicationDetail(c fiber.Ctx) error {
	app, err := h.jobService.ApplicationDetail(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondFailure(c, err, "Application not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"application": app})
}

func (h *JobHandler) SeekerStats(c fiber.Ctx) error {
	stats, err := h.jobService.SeekerStats(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondFailure(c, err, "Stats not found")
	}

	return respondSuccess(c, fiber.StatusOK, "", fiber.Map{"stats": stats})
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	var input models.JobInput
	if err := c.Bind().Body(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	job, err := h.jobService.Create(c.Context(), middleware.UserID(c), &input)
	if err != nil {
		return respondFailure(c, err, "Job not found")
	}

	return respondSuccess(c, fiber.StatusCreated, "Job created successfully", fiber.Map{"job": job})
}

func (h *JobHandler) Update(c fiber.Ctx) error {
	var input models.JobInput
	if err := c.Bind().Body(&input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	claims := middleware.Claims(c)
	job, err := h.jobService.Update(c.Context(), c.Params("id"), claims.UserID, claims.Role, &input)
	if err != nil {
		return respondFailure(c, err, "Job not found")
	}

	return respondSuccess(c, fiber.StatusOK, "Job updated successfully", fiber.Map{"job": job})
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
	claims := middleware.Claims(c)
	if err := h.jobService.Delete(c.Context(), c.Params("id"), claims.UserID, claims.Role); err != nil {
		return respondFailure(c, err, "Job not found")
	}

	return respondSuccess(c, fiber.StatusOK, "Job deleted successfully", nil)
}

func (h *JobHandler) UpdateApplicationStatus(c fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	app, err := h.jobService.UpdateApplicationStatus(c.Context(), c.Params("id"), models.ApplicationStatus(req.Status))
	if err != nil {
		return respondFailure(c, err, "Application not found")
	}

	return respondSuccess(c, fiber.StatusOK, "Application status updated", fiber.Map{"application": app})
}

func (h *JobHandler) AddCommunication(c fiber.Ctx) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	app, err := h.jobService.AddCommunication(c.Context(), c.Params("id"), middleware.UserID(c), req.Message)
	if err != nil {
		return respondFailure(c, err, "Application not found")
	}

	return respondSuccess(c, fiber.StatusCreated, "Communication added", fiber.Map{"application": app})
}
