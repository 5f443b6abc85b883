package handler

import (
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
)

// GetOrphans lists schedules and bookings that point at a missing bus.
func (h *Handler) GetOrphans(c *fiber.Ctx) error {
	report, err := h.Integrity.Orphans(c.UserContext())
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, report)
}
