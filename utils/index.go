package utils

import (
	"errors"

	"bus_ticketing/apperror"
	"bus_ticketing/constants"
	"bus_ticketing/logger"
	"bus_ticketing/model"

	"github.com/gofiber/fiber/v2"
)

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	var errMsg interface{}
	if err != nil {
		errMsg = err.Error()
	} else {
		errMsg = nil
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   errMsg,
	})
}

func SuccessResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// FiberErrorHandler renders errors returned from handlers with the same
// envelope as ErrorResponse.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ErrorResponse(c, fe.Code, fe.Message, err)
	}
	return AppErrorResponse(c, err)
}

// StatusOf maps an error kind onto its HTTP status.
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.NotFound:
		return fiber.StatusNotFound
	case apperror.Forbidden:
		return fiber.StatusForbidden
	case apperror.InvalidState, apperror.InvalidFormat, apperror.Expired, apperror.Invalidated:
		return fiber.StatusBadRequest
	case apperror.UpstreamFailure:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// AppErrorResponse renders a service error. Unclassified errors are logged
// and reported as a generic internal error.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return c.Status(StatusOf(appErr.Kind)).JSON(fiber.Map{
			"message": appErr.Msg,
			"code":    appErr.Kind,
			"error":   appErr.Error(),
		})
	}
	logger.Log.Error("request failed", "path", c.Path(), "error", err)
	return ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
}

// PageResponse wraps one page of rows with the paging echo used by list endpoints.
func PageResponse(c *fiber.Ctx, rows any, total int64, page model.Pagination) error {
	skip, limit := page.Offset()
	current := skip/limit + 1
	return SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       rows,
		Limit:      &limit,
		Page:       &current,
		TotalCount: total,
	})
}

func Ptr[T any](v T) *T {
	return &v
}
