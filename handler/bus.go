package handler

import (
	"errors"
	"strings"

	"bus_ticketing/apperror"
	"bus_ticketing/constants"
	"bus_ticketing/model"
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func (h *Handler) GetBuses(c *fiber.Ctx) error {
	filter, ok := c.Locals("filter").(model.BusFilter)
	if !ok {
		return parseLocalsError(c)
	}
	rows, total, err := h.Buses.Search(c.UserContext(), filter)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.PageResponse(c, rows, total, filter.Pagination)
}

func (h *Handler) findBus(c *fiber.Ctx) (*model.Bus, error) {
	bus, err := h.Buses.FindByID(c.UserContext(), inputId(c))
	if err != nil {
		return nil, err
	}
	if bus == nil {
		return nil, apperror.New(apperror.NotFound, "bus not found")
	}
	return bus, nil
}

func (h *Handler) GetBusById(c *fiber.Ctx) error {
	bus, err := h.findBus(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, bus)
}

// GetBusSeats reports capacity and the seats held by live bookings. An
// optional scheduleId query narrows the bookings to one run.
func (h *Handler) GetBusSeats(c *fiber.Ctx) error {
	bus, err := h.findBus(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var scheduleId *uint
	if v := c.QueryInt("scheduleId"); v > 0 {
		scheduleId = utils.Ptr(uint(v))
	}
	booked, err := h.Tickets.BookedSeats(c.UserContext(), bus.ID, scheduleId)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if booked == nil {
		booked = []string{}
	}

	available := bus.Capacity - len(booked)
	if available < 0 {
		available = 0
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.SeatSummary{
		BusId:          bus.ID,
		Name:           bus.Name,
		Company:        bus.Company,
		LicensePlate:   bus.LicensePlate,
		Phone:          bus.Phone,
		Capacity:       bus.Capacity,
		BookedSeats:    booked,
		AvailableSeats: available,
	})
}

func (h *Handler) CreateBus(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateBusInput)
	if !ok {
		return parseLocalsError(c)
	}
	input.LicensePlate = strings.ToUpper(strings.TrimSpace(input.LicensePlate))

	existing, err := h.Buses.FindByPlate(c.UserContext(), input.LicensePlate)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if existing != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_DUPLICATE_PLATE, errors.New("duplicate license plate"))
	}

	bus := new(model.Bus)
	if err := copier.Copy(bus, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	if err := h.Buses.Create(c.UserContext(), bus); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, bus)
}

func (h *Handler) UpdateBus(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.UpdateBusInput)
	if !ok {
		return parseLocalsError(c)
	}
	bus, err := h.findBus(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	patch := map[string]any{}
	if input.Name != nil {
		patch["name"] = *input.Name
	}
	if input.Company != nil {
		patch["company"] = *input.Company
	}
	if input.Capacity != nil {
		patch["capacity"] = *input.Capacity
	}
	if input.Phone != nil {
		patch["phone"] = *input.Phone
	}
	if input.LicensePlate != nil {
		plate := strings.ToUpper(strings.TrimSpace(*input.LicensePlate))
		other, err := h.Buses.FindByPlate(c.UserContext(), plate)
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}
		if other != nil && other.ID != bus.ID {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_DUPLICATE_PLATE, errors.New("duplicate license plate"))
		}
		patch["license_plate"] = plate
	}

	if len(patch) > 0 {
		if _, err := h.Buses.UpdateByID(c.UserContext(), bus.ID, patch); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
		}
	}
	updated, err := h.findBus(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, updated)
}

// DeleteBus removes the bus only. Schedules and tickets that reference it are
// kept and show up in the integrity report.
func (h *Handler) DeleteBus(c *fiber.Ctx) error {
	deleted, err := h.Buses.DeleteByID(c.UserContext(), inputId(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if !deleted {
		return utils.AppErrorResponse(c, apperror.New(apperror.NotFound, "bus not found"))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": inputId(c)})
}
