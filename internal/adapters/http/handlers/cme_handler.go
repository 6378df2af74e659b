package handlers

import (
	"errors"
	"strconv"

	"medcredhub/internal/core/services"
	"medcredhub/internal/pkg/pagination"
	"medcredhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CMEHandler handles CME entry endpoints
type CMEHandler struct {
	cmeService *services.CMEService
}

// NewCMEHandler creates a new CME handler
func NewCMEHandler(cmeService *services.CMEService) *CMEHandler {
	return &CMEHandler{cmeService: cmeService}
}

// List returns the user's CME entries with pagination
// @Summary List CME entries
// @Description Get the authenticated user's CME entries
// @Tags CME
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /cme [get]
func (h *CMEHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	entries, total, err := h.cmeService.List(c.Context(), userID, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list CME entries")
	}

	return response.Success(c, "CME entries retrieved successfully",
		pagination.NewResponse(entries, params, total))
}

// Create creates a CME entry
// @Summary Create CME entry
// @Description Record one earned continuing-education credit
// @Tags CME
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CMEEntryInput true "CME entry"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /cme [post]
func (h *CMEHandler) Create(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CMEEntryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entry, err := h.cmeService.Create(c.Context(), userID, &input)
	if err != nil {
		if errors.Is(err, services.ErrMissingTitle) {
			return response.BadRequest(c, "Title is required")
		}
		return response.InternalServerError(c, "Failed to create CME entry")
	}

	return response.Created(c, "CME entry created successfully", entry)
}

// Get returns one CME entry
// @Summary Get CME entry
// @Description Get one CME entry by ID
// @Tags CME
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cme/{id} [get]
func (h *CMEHandler) Get(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID")
	}

	entry, err := h.cmeService.GetByID(c.Context(), userID, id)
	if err != nil {
		if errors.Is(err, services.ErrCMEEntryNotFound) {
			return response.NotFound(c, "CME entry not found")
		}
		return response.InternalServerError(c, "Failed to get CME entry")
	}

	return response.Success(c, "CME entry retrieved successfully", entry)
}

// Update updates one CME entry
// @Summary Update CME entry
// @Description Replace the editable fields of a CME entry
// @Tags CME
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param body body services.CMEEntryInput true "CME entry"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cme/{id} [put]
func (h *CMEHandler) Update(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID")
	}

	var input services.CMEEntryInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	entry, err := h.cmeService.Update(c.Context(), userID, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCMEEntryNotFound):
			return response.NotFound(c, "CME entry not found")
		case errors.Is(err, services.ErrMissingTitle):
			return response.BadRequest(c, "Title is required")
		default:
			return response.InternalServerError(c, "Failed to update CME entry")
		}
	}

	return response.Success(c, "CME entry updated successfully", entry)
}

// Delete deletes one CME entry
// @Summary Delete CME entry
// @Description Remove a CME entry
// @Tags CME
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /cme/{id} [delete]
func (h *CMEHandler) Delete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID")
	}

	if err := h.cmeService.Delete(c.Context(), userID, id); err != nil {
		if errors.Is(err, services.ErrCMEEntryNotFound) {
			return response.NotFound(c, "CME entry not found")
		}
		return response.InternalServerError(c, "Failed to delete CME entry")
	}

	return response.Success(c, "CME entry deleted successfully", nil)
}

// parseIDParam parses the :id path parameter
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
