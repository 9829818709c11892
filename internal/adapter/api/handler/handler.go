package handler

import (
	"github.com/labstack/echo/v4"

	"limelight/internal/adapter/api/middleware"
	"limelight/internal/domain/entity"
	"limelight/internal/usecase"
)

var (
	userHandler    *UserHandler
	commentHandler *CommentHandler
	mediaHandler   *MediaHandler
	liveHandler    *LiveHandler
	healthHandler  *HealthHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	commentUseCase *usecase.CommentUseCase,
	mediaUseCase *usecase.MediaUseCase,
) {
	userHandler = NewUserHandler(userUseCase)
	commentHandler = NewCommentHandler(commentUseCase, userUseCase)
	mediaHandler = NewMediaHandler(mediaUseCase)
	liveHandler = NewLiveHandler(userUseCase)
	healthHandler = NewHealthHandler()
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetCommentHandler() *CommentHandler {
	return commentHandler
}

func GetMediaHandler() *MediaHandler {
	return mediaHandler
}

func GetLiveHandler() *LiveHandler {
	return liveHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

// lookupFrom returns the request-scoped user cache, creating one when the
// lookup middleware did not run.
func lookupFrom(c echo.Context, users *usecase.UserUseCase) *usecase.UserLookup {
	if lookup, ok := c.Get(middleware.UserLookupKey).(*usecase.UserLookup); ok {
		return lookup
	}
	lookup := users.NewLookup()
	c.Set(middleware.UserLookupKey, lookup)
	return lookup
}

// visibleTo hides owner-only fields unless the caller is the user.
func visibleTo(user *entity.UserInfo, caller string) *entity.UserInfo {
	if user == nil || (caller != "" && caller == user.UID) {
		return user
	}
	return user.Redacted()
}

func callerID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}
