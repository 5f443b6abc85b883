package handler

import (
	"time"

	"bus_ticketing/apperror"
	"bus_ticketing/constants"
	"bus_ticketing/model"
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetSchedules(c *fiber.Ctx) error {
	filter, ok := c.Locals("filter").(model.ScheduleFilter)
	if !ok {
		return parseLocalsError(c)
	}
	if filter.Date != "" {
		if _, err := time.ParseInLocation("2006-01-02", filter.Date, h.Location); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
	}
	rows, total, err := h.Schedules.Search(c.UserContext(), filter, h.Location)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.PageResponse(c, rows, total, filter.Pagination)
}

func (h *Handler) GetScheduleCities(c *fiber.Ctx) error {
	cities, err := h.Schedules.Cities(c.UserContext())
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if cities == nil {
		cities = []string{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cities)
}

func (h *Handler) findSchedule(c *fiber.Ctx) (*model.Schedule, error) {
	s, err := h.Schedules.FindByID(c.UserContext(), inputId(c))
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperror.New(apperror.NotFound, "schedule not found")
	}
	return s, nil
}

func (h *Handler) GetScheduleById(c *fiber.Ctx) error {
	s, err := h.findSchedule(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, s)
}

func (h *Handler) CreateSchedule(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateScheduleInput)
	if !ok {
		return parseLocalsError(c)
	}
	bus, err := h.Buses.FindByID(c.UserContext(), input.BusId)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if bus == nil {
		return utils.AppErrorResponse(c, apperror.New(apperror.NotFound, "bus not found"))
	}
	date, err := time.ParseInLocation("2006-01-02", input.Date, h.Location)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	seats := input.AvailableSeats
	if seats == 0 {
		seats = bus.Capacity
	}
	schedule := &model.Schedule{
		BusId:          input.BusId,
		Route:          input.Route,
		DepartureTime:  input.DepartureTime,
		ArrivalTime:    input.ArrivalTime,
		Duration:       input.Duration,
		Date:           date,
		Price:          input.Price,
		PricePerSeat:   input.PricePerSeat,
		AvailableSeats: seats,
		Status:         model.ScheduleActive,
	}
	if err := h.Schedules.Create(c.UserContext(), schedule); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, schedule)
}

func (h *Handler) UpdateSchedule(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.UpdateScheduleInput)
	if !ok {
		return parseLocalsError(c)
	}
	s, err := h.findSchedule(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	patch := map[string]any{}
	if input.DepartureTime != nil {
		patch["departure_time"] = *input.DepartureTime
	}
	if input.ArrivalTime != nil {
		patch["arrival_time"] = *input.ArrivalTime
	}
	if input.Duration != nil {
		patch["duration"] = *input.Duration
	}
	if input.Date != nil {
		date, err := time.ParseInLocation("2006-01-02", *input.Date, h.Location)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		patch["date"] = date
	}
	if input.Price != nil {
		patch["price"] = *input.Price
	}
	if input.PricePerSeat != nil {
		patch["price_per_seat"] = *input.PricePerSeat
	}
	if input.AvailableSeats != nil {
		patch["available_seats"] = *input.AvailableSeats
	}
	if input.Status != nil {
		patch["status"] = *input.Status
	}

	if len(patch) > 0 {
		if _, err := h.Schedules.UpdateByID(c.UserContext(), s.ID, patch); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
		}
	}
	updated, err := h.findSchedule(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, updated)
}

func (h *Handler) DeleteSchedule(c *fiber.Ctx) error {
	deleted, err := h.Schedules.DeleteByID(c.UserContext(), inputId(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if !deleted {
		return utils.AppErrorResponse(c, apperror.New(apperror.NotFound, "schedule not found"))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": inputId(c)})
}

// UpdateExpiredSchedules runs the daily rollover on demand.
func (h *Handler) UpdateExpiredSchedules(c *fiber.Ctx) error {
	report, err := h.Rollover.Run(c.UserContext())
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, report)
}
