package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jnamyslo/belego-api/internal/application/dto"
	"github.com/jnamyslo/belego-api/internal/domain/repository"
)

// LocalCompanyID Locals-Key für die Betriebs-ID in Fiber.
const LocalCompanyID = "company_id"

// CompanyContext lädt den Betrieb der Installation und legt seine ID in
// c.Locals ab. Solange kein Betrieb eingerichtet ist, antworten alle
// belegbezogenen Routen mit 409; nur /api/company selbst bleibt erreichbar.
func CompanyContext(repo repository.CompanyRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		company, err := repo.GetPrimary()
		if err != nil {
			return writeError(c, err)
		}
		if company == nil {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Code:    "SETUP_REQUIRED",
				Message: "betrieb ist noch nicht eingerichtet, zuerst PUT /api/company aufrufen",
			})
		}
		c.Locals(LocalCompanyID, company.ID)
		return c.Next()
	}
}

// GetCompanyID liefert die Betriebs-ID aus dem Kontext (nach CompanyContext).
func GetCompanyID(c *fiber.Ctx) string {
	v := c.Locals(LocalCompanyID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
