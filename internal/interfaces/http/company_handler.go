package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jnamyslo/belego-api/internal/application/billing"
	"github.com/jnamyslo/belego-api/internal/application/dto"
)

// CompanyHandler HTTP-Endpunkte für die Betriebsstammdaten. Die Installation
// kennt genau einen Betrieb, daher gibt es keine ID in der Route.
type CompanyHandler struct {
	uc *billing.CompanyUseCase
}

// NewCompanyHandler baut den Handler.
func NewCompanyHandler(uc *billing.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get godoc
// @Summary      Betriebsstammdaten lesen
// @Tags         company
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Betriebsstammdaten schreiben (legt den Betrieb beim ersten Aufruf an)
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateCompanyRequest  true  "Stammdaten"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/company [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
