package handler

import (
	"encoding/json"

	"bus_ticketing/logger"
	"bus_ticketing/model"
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreatePaymentLink(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreatePaymentLinkInput)
	if !ok {
		return parseLocalsError(c)
	}
	p, err := principal(c)
	if err != nil {
		return err
	}
	link, err := h.Payments.CreateLink(c.UserContext(), p, input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, link)
}

func (h *Handler) ConfirmPaymentSuccess(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.ConfirmPaymentInput)
	if !ok {
		return parseLocalsError(c)
	}
	p, err := principal(c)
	if err != nil {
		return err
	}
	res, err := h.Payments.ConfirmSuccess(c.UserContext(), p, input.OrderNo)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, res)
}

// PaymentWebhook always answers 200 so the gateway does not retry; problems
// are only logged.
func (h *Handler) PaymentWebhook(c *fiber.Ctx) error {
	var input model.PaymentWebhookInput
	if err := json.Unmarshal(c.Body(), &input); err != nil {
		logger.Log.Warn("[PAYMENT] unreadable webhook body", "error", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}

	res, err := h.Payments.HandleWebhook(c.UserContext(), input)
	if err != nil {
		logger.Log.Error("[PAYMENT] webhook processing failed", "orderNo", input.OrderNo, "status", input.Status, "error", err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "result": res})
}
