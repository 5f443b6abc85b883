package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"bus_ticketing/constants"
	"bus_ticketing/model"
	"bus_ticketing/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// GetById parses a positive numeric route parameter into Locals("inputId").
func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.ParseUint(params, 10, 64)
		if err != nil || valueKey == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		c.Locals("inputId", uint(valueKey))
		return c.Next()
	}
}

// decodeStrict decodes a JSON body and rejects fields T does not declare.
func decodeStrict[T any](body []byte) (T, error) {
	var input T
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		return input, err
	}
	if dec.More() {
		return input, errors.New("unexpected data after JSON body")
	}
	return input, nil
}

// Body parses and validates the request body as T and stores it in
// Locals("input").
func Body[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := decodeStrict[T](c.Body())
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, fmt.Errorf("invalid input: %w", err))
		}

		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}

		c.Locals("input", input)
		return c.Next()
	}
}

// Query parses and validates query parameters as T into Locals("filter").
func Query[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter T
		if err := c.QueryParser(&filter); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(filter); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		c.Locals("filter", filter)
		return c.Next()
	}
}

func Delete() fiber.Handler {
	return Body[model.ArrayId]()
}
