package handler

import (
	"fmt"

	"bus_ticketing/model"
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
)

// GenerateQR issues (or returns the current) boarding QR of a ticket.
func (h *Handler) GenerateQR(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ticketId := inputId(c)

	qr, created, err := h.QR.Issue(c.UserContext(), p, ticketId)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	// Only a newly written code is mailed; repeat calls return the same one.
	if created && h.Mailer.Enabled() {
		if ticket, _ := h.Tickets.FindByID(c.UserContext(), ticketId); ticket != nil {
			if user, _ := h.Users.FindByID(c.UserContext(), ticket.UserId); user != nil {
				h.Mailer.SendTicketQR(user.Email, user.Username, ticket, qr)
			}
		}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, qr)
}

func (h *Handler) VerifyQR(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.VerifyQRInput)
	if !ok {
		return parseLocalsError(c)
	}
	p, err := principal(c)
	if err != nil {
		return err
	}

	res, err := h.QR.Verify(c.UserContext(), p, input.QRData)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, res)
}

func (h *Handler) GetQRByTicket(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	qr, err := h.QR.GetByTicket(c.UserContext(), p, inputId(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, qr)
}

// GetQRTicketPDF streams the printable e-ticket.
func (h *Handler) GetQRTicketPDF(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ticketId := inputId(c)
	qr, err := h.QR.GetByTicket(c.UserContext(), p, ticketId)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	ticket, err := h.Bookings.Get(c.UserContext(), p, ticketId)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	pdf, err := utils.GenerateTicketPDF(ticket, qr, h.Location)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ticket-%d.pdf"`, ticketId))
	return c.Send(pdf)
}

func (h *Handler) InvalidateQR(c *fiber.Ctx) error {
	qr, err := h.QR.Invalidate(c.UserContext(), inputId(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, qr)
}

func (h *Handler) GetQRCodes(c *fiber.Ctx) error {
	filter, ok := c.Locals("filter").(model.QRFilter)
	if !ok {
		return parseLocalsError(c)
	}
	rows, total, err := h.QR.List(c.UserContext(), filter)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.PageResponse(c, rows, total, filter.Pagination)
}
