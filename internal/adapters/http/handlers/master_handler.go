package handlers

import (
	"errors"

	"medcredhub/internal/core/domain"
	"medcredhub/internal/core/services"
	"medcredhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MasterHandler handles master data endpoints (state CME rules, CPT codes)
type MasterHandler struct {
	masterService *services.MasterService
}

// NewMasterHandler creates a new master data handler
func NewMasterHandler(masterService *services.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

// ListStateRequirements returns every state CME rule
// @Summary List state CME requirements
// @Description Get the per-state, per-degree CME rules with topic mandates
// @Tags Master
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /master/state-requirements [get]
func (h *MasterHandler) ListStateRequirements(c *fiber.Ctx) error {
	reqs, err := h.masterService.ListStateRequirements(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list state requirements")
	}
	return response.Success(c, "State requirements retrieved successfully", reqs)
}

// GetStateRequirement returns the rule for one (state, degree) pair
// @Summary Get one state CME requirement
// @Description Get the rule for a state and degree type
// @Tags Master
// @Accept json
// @Produce json
// @Param state path string true "Two-letter state code"
// @Param degree query string false "Degree type (MD or DO)" default(MD)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/state-requirements/{state} [get]
func (h *MasterHandler) GetStateRequirement(c *fiber.Ctx) error {
	state := c.Params("state")
	degree := c.Query("degree", "MD")

	req, err := h.masterService.GetStateRequirement(c.Context(), state, degree)
	if err != nil {
		if errors.Is(err, services.ErrStateRequirementNotFound) {
			return response.NotFound(c, "State requirement not found")
		}
		return response.InternalServerError(c, "Failed to get state requirement")
	}
	return response.Success(c, "State requirement retrieved successfully", req)
}

// CreateStateRequirement adds a board rule (Admin)
// @Summary Create a state CME requirement
// @Description Add the rule for a (state, degree) pair with optional topic mandates. Admin only.
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.StateRequirementInput true "State requirement"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /master/state-requirements [post]
func (h *MasterHandler) CreateStateRequirement(c *fiber.Ctx) error {
	var input services.StateRequirementInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req, err := h.masterService.CreateStateRequirement(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStateRequirementExists):
			return response.Conflict(c, "State requirement already exists")
		case errors.Is(err, services.ErrInvalidStateCode),
			errors.Is(err, services.ErrInvalidRequirement),
			errors.Is(err, domain.ErrInvalidDegree):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create state requirement")
		}
	}
	return response.Created(c, "State requirement created successfully", req)
}

// ImportCPT bulk-inserts procedure codes (Admin)
// @Summary Import CPT codes
// @Description Bulk-insert procedure codes. Admin only.
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body []services.CPTCodeInput true "Codes to import"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /master/cpt [post]
func (h *MasterHandler) ImportCPT(c *fiber.Ctx) error {
	var inputs []services.CPTCodeInput
	if err := c.BodyParser(&inputs); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	total, err := h.masterService.ImportCPTCodes(c.Context(), inputs)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCodeList) {
			return response.BadRequest(c, "Every code needs a non-empty code and description")
		}
		return response.InternalServerError(c, "Failed to import CPT codes")
	}
	return response.Created(c, "CPT codes imported successfully", fiber.Map{"total": total})
}

// Stats returns master table row counts (Admin)
// @Summary Master data stats
// @Description Row counts of the master tables. Admin only.
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /master/stats [get]
func (h *MasterHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.masterService.Stats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get master data stats")
	}
	return response.Success(c, "Master data stats retrieved successfully", stats)
}

// SearchCPT searches procedure codes
// @Summary Search CPT codes
// @Description Search procedure codes by code prefix or description substring
// @Tags Master
// @Accept json
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /master/cpt/search [get]
func (h *MasterHandler) SearchCPT(c *fiber.Ctx) error {
	codes, err := h.masterService.SearchCPTCodes(c.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, services.ErrEmptySearchQuery) {
			return response.BadRequest(c, "Search query is required")
		}
		return response.InternalServerError(c, "Failed to search CPT codes")
	}
	return response.Success(c, "CPT codes retrieved successfully", codes)
}
