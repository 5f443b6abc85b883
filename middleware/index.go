package middleware

import (
	"context"
	"errors"
	"strings"

	"bus_ticketing/constants"
	"bus_ticketing/helper"
	"bus_ticketing/model"
	"bus_ticketing/utils"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// UserFinder loads the account behind a token.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Protected accepts an access_token cookie or a Bearer header, checks that the
// user still exists and stores the caller as a model.Principal.
func Protected(secret []byte, users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")

		if token == "" {
			// check header Authorization: Bearer xxx
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_MISSING_TOKEN, errors.New("no token"))
		}

		jwtToken, err := helper.ParseToken(token, secret)
		if err != nil || !jwtToken.Valid {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_INVALID_TOKEN, err)
		}
		claim, err := helper.ClaimFromToken(jwtToken)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_INVALID_TOKEN, err)
		}

		user, err := users.FindByID(c.UserContext(), claim.UserId)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		if user == nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_INVALID_TOKEN, errors.New("user no longer exists"))
		}

		c.Locals(principalKey, model.Principal{UserID: user.ID, Role: user.Role})
		return c.Next()
	}
}

// AdminOnly must run after Protected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok || !p.IsAdmin() {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ERROR_ADMIN_ONLY, errors.New("not admin"))
		}
		return c.Next()
	}
}

func PrincipalFrom(c *fiber.Ctx) (model.Principal, bool) {
	p, ok := c.Locals(principalKey).(model.Principal)
	return p, ok
}
