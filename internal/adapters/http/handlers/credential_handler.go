package handlers

import (
	"errors"

	"medcredhub/internal/adapters/persistence/repositories"
	"medcredhub/internal/core/services"
	"medcredhub/internal/pkg/pagination"
	"medcredhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SectionHandler serves the CRUD endpoints of one credential section
// (licenses, privileges, insurance, education, health records, work
// history). The sections share identical plumbing: parse, scope to the
// authenticated user, store.
type SectionHandler[T any] struct {
	repo  repositories.SectionRepository[T]
	label string
	// bind forces the owner and record ID after body parsing so a client
	// can never write another user's rows
	bind func(rec *T, userID, id uint)
}

// NewSectionHandler creates a handler for one credential section
func NewSectionHandler[T any](
	repo repositories.SectionRepository[T],
	label string,
	bind func(rec *T, userID, id uint),
) *SectionHandler[T] {
	return &SectionHandler[T]{
		repo:  repo,
		label: label,
		bind:  bind,
	}
}

// Register mounts the section's CRUD routes on a router group
func (h *SectionHandler[T]) Register(router fiber.Router) {
	router.Get("/", h.List)
	router.Post("/", h.Create)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Delete("/:id", h.Delete)
}

// List returns the user's records of the section, paginated
func (h *SectionHandler[T]) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	records, total, err := h.repo.ListPage(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list "+h.label+" records")
	}

	return response.Success(c, h.label+" records retrieved successfully",
		pagination.NewResponse(records, params, total))
}

// Create creates one record
func (h *SectionHandler[T]) Create(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var rec T
	if err := c.BodyParser(&rec); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	h.bind(&rec, userID, 0)

	if err := h.repo.Create(c.Context(), &rec); err != nil {
		return response.InternalServerError(c, "Failed to create "+h.label+" record")
	}

	return response.Created(c, h.label+" record created successfully", rec)
}

// Get returns one record by ID
func (h *SectionHandler[T]) Get(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	rec, err := services.GetSectionRecord(c.Context(), h.repo, userID, id)
	if err != nil {
		if errors.Is(err, services.ErrCredentialNotFound) {
			return response.NotFound(c, h.label+" record not found")
		}
		return response.InternalServerError(c, "Failed to get "+h.label+" record")
	}

	return response.Success(c, h.label+" record retrieved successfully", rec)
}

// Update replaces one record
func (h *SectionHandler[T]) Update(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	// Record must exist and belong to the user before overwriting
	if _, err := services.GetSectionRecord(c.Context(), h.repo, userID, id); err != nil {
		if errors.Is(err, services.ErrCredentialNotFound) {
			return response.NotFound(c, h.label+" record not found")
		}
		return response.InternalServerError(c, "Failed to get "+h.label+" record")
	}

	var rec T
	if err := c.BodyParser(&rec); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	h.bind(&rec, userID, id)

	if err := h.repo.Update(c.Context(), &rec); err != nil {
		return response.InternalServerError(c, "Failed to update "+h.label+" record")
	}

	return response.Success(c, h.label+" record updated successfully", rec)
}

// Delete removes one record
func (h *SectionHandler[T]) Delete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid record ID")
	}

	if err := services.DeleteSectionRecord(c.Context(), h.repo, userID, id); err != nil {
		if errors.Is(err, services.ErrCredentialNotFound) {
			return response.NotFound(c, h.label+" record not found")
		}
		return response.InternalServerError(c, "Failed to delete "+h.label+" record")
	}

	return response.Success(c, h.label+" record deleted successfully", nil)
}
