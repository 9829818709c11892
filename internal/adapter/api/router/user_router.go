package router

import (
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"limelight/internal/adapter/api/handler"
	"limelight/internal/adapter/api/middleware"
	"limelight/internal/usecase"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	userHandler := handler.GetUserHandler()
	mediaHandler := handler.GetMediaHandler()
	liveHandler := handler.GetLiveHandler()

	users := e.Group("/v1/users")
	users.Use(rateLimiter.RateLimitMiddleware())

	users.GET("/:identifier", userHandler.GetUser, authMiddleware.OptionalAuthenticate)
	users.GET("/:userId/live", liveHandler.StreamUser, authMiddleware.OptionalAuthenticate)

	// Leave headroom over the image limit for the multipart envelope.
	uploadLimit := echomw.BodyLimit(strconv.FormatInt(usecase.MaxImageSize/1024+64, 10) + "K")

	users.POST("/me/ensure", userHandler.EnsureMe, authMiddleware.Authenticate)
	users.POST("/me/images/:kind", mediaHandler.UploadImage, uploadLimit, authMiddleware.Authenticate)
	users.PATCH("/:userId", userHandler.UpdateProfile, authMiddleware.Authenticate)
}
