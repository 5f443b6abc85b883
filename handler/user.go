package handler

import (
	"errors"

	"bus_ticketing/apperror"
	"bus_ticketing/constants"
	"bus_ticketing/helper"
	"bus_ticketing/model"
	"bus_ticketing/repository"
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func (h *Handler) loadUser(c *fiber.Ctx, id uint) (*model.User, error) {
	user, err := h.Users.FindByID(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}
	return user, nil
}

// userTaken reports whether another user already holds field=value.
func (h *Handler) userTaken(c *fiber.Ctx, field, value string, self uint) (bool, error) {
	other, err := h.Users.FindOne(c.UserContext(), map[string]any{field: value})
	if err != nil {
		return false, err
	}
	return other != nil && other.ID != self, nil
}

func (h *Handler) GetProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.loadUser(c, p.UserID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.UpdateProfileInput)
	if !ok {
		return parseLocalsError(c)
	}
	p, err := principal(c)
	if err != nil {
		return err
	}

	patch := map[string]any{}
	if input.Username != nil {
		taken, err := h.userTaken(c, "username", *input.Username, p.UserID)
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}
		if taken {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_DUPLICATE_USER, errors.New("username already in use"))
		}
		patch["username"] = *input.Username
	}
	if input.Email != nil {
		taken, err := h.userTaken(c, "email", *input.Email, p.UserID)
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}
		if taken {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_DUPLICATE_USER, errors.New("email already in use"))
		}
		patch["email"] = *input.Email
	}
	if input.Phone != nil {
		patch["phone"] = *input.Phone
	}

	if len(patch) > 0 {
		if _, err := h.Users.UpdateByID(c.UserContext(), p.UserID, patch); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_UPDATE, err)
		}
	}
	user, err := h.loadUser(c, p.UserID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

func (h *Handler) CreateUser(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateUserInput)
	if !ok {
		return parseLocalsError(c)
	}
	for _, f := range [][2]string{{"username", input.Username}, {"email", input.Email}} {
		field := f[0]
		taken, err := h.userTaken(c, field, f[1], 0)
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}
		if taken {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_DUPLICATE_USER, errors.New(field+" already in use"))
		}
	}

	user := new(model.User)
	if err := copier.Copy(user, &input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	if user.Role == "" {
		user.Role = constants.ROLE_USER
	}
	hashed, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_HASH_PASSWORD, err)
	}
	user.Password = hashed

	if err := h.Users.Create(c.UserContext(), user); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, user)
}

func (h *Handler) GetUsers(c *fiber.Ctx) error {
	filter, ok := c.Locals("filter").(model.UserFilter)
	if !ok {
		return parseLocalsError(c)
	}
	q := repository.Query{Filter: map[string]any{}, Sort: "created_at DESC"}
	if filter.Role != "" {
		if !utils.IsValidValueOfConstant(filter.Role, constants.ROLES) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, errors.New("unknown role "+filter.Role))
		}
		q.Filter["role"] = filter.Role
	}
	q.Skip, q.Limit = filter.Offset()

	users, total, err := h.Users.Find(c.UserContext(), q)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.PageResponse(c, users, total, filter.Pagination)
}

func (h *Handler) GetUserById(c *fiber.Ctx) error {
	user, err := h.loadUser(c, inputId(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}
