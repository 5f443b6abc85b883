package handler

import (
	"bus_ticketing/model"
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateTicketInput)
	if !ok {
		return parseLocalsError(c)
	}
	p, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.Bookings.Create(c.UserContext(), p, input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, ticket)
}

func (h *Handler) GetMyBookings(c *fiber.Ctx) error {
	page, ok := c.Locals("filter").(model.Pagination)
	if !ok {
		return parseLocalsError(c)
	}
	p, err := principal(c)
	if err != nil {
		return err
	}
	rows, total, err := h.Bookings.Mine(c.UserContext(), p, page)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.PageResponse(c, rows, total, page)
}

func (h *Handler) GetBookingsByOrderNo(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	rows, err := h.Bookings.ByOrderNo(c.UserContext(), p, c.Params("orderNo"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rows)
}

func (h *Handler) GetBookingById(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.Bookings.Get(c.UserContext(), p, inputId(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}

func (h *Handler) UpdateBooking(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.UpdateTicketInput)
	if !ok {
		return parseLocalsError(c)
	}
	p, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.Bookings.Update(c.UserContext(), p, inputId(c), input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}

func (h *Handler) CancelBooking(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ticket, err := h.Bookings.Cancel(c.UserContext(), p, inputId(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}

// GetBookings is the admin listing with status, bus and payment filters.
func (h *Handler) GetBookings(c *fiber.Ctx) error {
	filter, ok := c.Locals("filter").(model.FilterTicketInput)
	if !ok {
		return parseLocalsError(c)
	}
	rows, total, err := h.Bookings.List(c.UserContext(), filter)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.PageResponse(c, rows, total, filter.Pagination)
}
