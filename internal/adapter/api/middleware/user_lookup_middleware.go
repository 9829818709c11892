package middleware

import (
	"github.com/labstack/echo/v4"

	"limelight/internal/usecase"
)

const UserLookupKey = "userLookup"

// UserLookup attaches a fresh request-scoped user cache to every request.
func UserLookup(users *usecase.UserUseCase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(UserLookupKey, users.NewLookup())
			return next(c)
		}
	}
}
