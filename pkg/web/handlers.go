// Package web provides the REST API: workflow CRUD, transcript ingestion and
// run history.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
	"github.com/voxflow/voxflow/pkg/services"
)

type APIHandlers struct {
	workflowService   *services.Workflow
	transcriptService *services.Transcript
	runService        *services.Run
	validator         *validator.Validate
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	transcriptService *services.Transcript,
	runService *services.Run,
	v *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		workflowService:   workflowService,
		transcriptService: transcriptService,
		runService:        runService,
		validator:         v,
	}
}

// Register mounts every route on the app.
func (h *APIHandlers) Register(app *fiber.App) {
	app.Get("/health", h.HealthCheck)

	app.Get("/workflows", h.GetWorkflows)
	app.Post("/workflows", h.CreateWorkflow)
	app.Get("/workflows/:id", h.GetWorkflow)
	app.Put("/workflows/:id", h.UpdateWorkflow)
	app.Delete("/workflows/:id", h.DeleteWorkflow)

	app.Post("/transcripts", h.IngestTranscript)
	app.Get("/transcripts", h.GetTranscripts)
	app.Get("/transcripts/:id", h.GetTranscript)
	app.Post("/transcripts/:id/reprocess", h.ReprocessTranscript)

	app.Get("/runs", h.GetRuns)
	app.Get("/runs/:id", h.GetRun)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"workflows": workflows})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.workflowService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest

	err := c.Bind().JSON(&req)
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	workflow := &models.Workflow{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		Steps:        req.Steps,
		Enabled:      enabled,
		IsPinned:     req.IsPinned,
		AutoRun:      req.AutoRun,
		AutoRunOrder: req.AutoRunOrder,
	}

	created, err := h.workflowService.Create(c.Context(), workflow)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req UpdateWorkflowRequest

	err := c.Bind().JSON(&req)
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.workflowService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Icon != nil {
		existing.Icon = *req.Icon
	}

	if req.Steps != nil {
		existing.Steps = req.Steps
	}

	if req.Enabled != nil {
		existing.Enabled = *req.Enabled
	}

	if req.IsPinned != nil {
		existing.IsPinned = *req.IsPinned
	}

	if req.AutoRun != nil {
		existing.AutoRun = *req.AutoRun
	}

	if req.AutoRunOrder != nil {
		existing.AutoRunOrder = *req.AutoRunOrder
	}

	updated, err := h.workflowService.Update(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	err := h.workflowService.Delete(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) IngestTranscript(c fiber.Ctx) error {
	var req IngestTranscriptRequest

	err := c.Bind().JSON(&req)
	if err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	err = h.validator.Struct(req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	transcript, err := h.transcriptService.Ingest(c.Context(), &models.Transcript{
		Title:  req.Title,
		Text:   req.Text,
		Source: req.Source,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(transcript)
}

func (h *APIHandlers) GetTranscripts(c fiber.Ctx) error {
	transcripts, err := h.transcriptService.List(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"transcripts": transcripts})
}

func (h *APIHandlers) GetTranscript(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Transcript ID is required")
	}

	transcript, err := h.transcriptService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(transcript)
}

func (h *APIHandlers) ReprocessTranscript(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Transcript ID is required")
	}

	err := h.transcriptService.RequestReprocess(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

func (h *APIHandlers) GetRuns(c fiber.Ctx) error {
	workflowID := c.Query("workflow_id")

	var (
		runs []*models.WorkflowRun
		err  error
	)

	if workflowID != "" {
		runs, err = h.runService.ListByWorkflow(c.Context(), workflowID)
	} else {
		runs, err = h.runService.List(c.Context())
	}

	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"runs": runs})
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Run ID is required")
	}

	run, err := h.runService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(run)
}
