package handler

import (
	"errors"
	"time"

	"bus_ticketing/constants"
	"bus_ticketing/middleware"
	"bus_ticketing/model"
	"bus_ticketing/repository"
	"bus_ticketing/service"
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
)

// Handler bundles the collaborators of every HTTP endpoint.
type Handler struct {
	QR        *service.QRService
	Bookings  *service.BookingService
	Payments  *service.PaymentService
	Rollover  *service.ScheduleRollover
	Integrity *service.IntegrityService

	Tickets   *repository.TicketRepository
	Buses     *repository.BusRepository
	Schedules *repository.ScheduleRepository
	Stations  *repository.StationRepository
	Users     *repository.UserRepository
	Queue     *repository.QueueEvents

	Mailer   *utils.Mailer
	Location *time.Location
}

// principal returns the authenticated caller. The error is a 401 fiber.Error
// that handlers return as is.
func principal(c *fiber.Ctx) (model.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return model.Principal{}, fiber.NewError(fiber.StatusUnauthorized, constants.ERROR_MISSING_TOKEN)
	}
	return p, nil
}

func inputId(c *fiber.Ctx) uint {
	id, _ := c.Locals("inputId").(uint)
	return id
}

func parseLocalsError(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE INPUT TO LOCALS FAIL"))
}

func Health(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"message": "Bus ticketing API is running",
		"time":    time.Now().UTC(),
	})
}
