package handlers

import (
	"errors"

	"medcredhub/internal/core/services"
	"medcredhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CVHandler handles the CV generation endpoint
type CVHandler struct {
	cvService *services.CVService
}

// NewCVHandler creates a new CV handler
func NewCVHandler(cvService *services.CVService) *CVHandler {
	return &CVHandler{cvService: cvService}
}

// Generate returns the assembled CV document
// @Summary Generate CV
// @Description Assemble a curriculum vitae from the stored education, work history, licenses, privileges and CME summary
// @Tags CV
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /cv [get]
func (h *CVHandler) Generate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	doc, err := h.cvService.Generate(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to generate CV")
	}

	return response.Success(c, "CV generated successfully", doc)
}
