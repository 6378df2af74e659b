package handlers

import (
	"errors"
	"strings"

	"medcredhub/internal/core/services"
	"medcredhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ComplianceHandler handles CME compliance endpoints
type ComplianceHandler struct {
	complianceService *services.ComplianceService
}

// NewComplianceHandler creates a new compliance handler
func NewComplianceHandler(complianceService *services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService}
}

// GetAll returns compliance results for every tracked state
// @Summary Get compliance for all tracked states
// @Description Evaluate the user's CME entries against every tracked state's rule
// @Tags Compliance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /compliance [get]
func (h *ComplianceHandler) GetAll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	results, err := h.complianceService.ComputeAll(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to compute compliance")
	}

	return response.Success(c, "Compliance computed successfully", results)
}

// GetForState returns the compliance result for one state
// @Summary Get compliance for one state
// @Description Evaluate the user's CME entries against one state's rule. Unmapped states use the generic default and are flagged is_default.
// @Tags Compliance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param state path string true "Two-letter state code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /compliance/{state} [get]
func (h *ComplianceHandler) GetForState(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	state := strings.ToUpper(strings.TrimSpace(c.Params("state")))
	if len(state) != 2 {
		return response.BadRequest(c, "State must be a two-letter code")
	}

	result, err := h.complianceService.ComputeForState(c.Context(), userID, state)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to compute compliance")
	}

	return response.Success(c, "Compliance computed successfully", result)
}
