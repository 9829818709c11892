package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"limelight/internal/domain/entity"
	"limelight/internal/infrastructure/websocket"
	"limelight/internal/usecase"
	"limelight/pkg/logger"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type LiveHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewLiveHandler(userUseCase *usecase.UserUseCase) *LiveHandler {
	return &LiveHandler{
		userUseCase: userUseCase,
	}
}

type liveMessage struct {
	Exists bool             `json:"exists"`
	User   *entity.UserInfo `json:"user,omitempty"`
}

// StreamUser pushes the user's record over a WebSocket every time it changes.
// Callers other than the user get the redacted record.
func (h *LiveHandler) StreamUser(c echo.Context) error {
	userID := c.Param("userId")
	caller := callerID(c)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed for %s: %v", userID, err)
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := websocket.NewClient(userID, conn)
	go client.ReadPump(cancel)

	go func() {
		defer cancel()
		err := h.userUseCase.Watch(ctx, userID, func(user *entity.UserInfo) error {
			return client.Push(ctx, liveMessage{Exists: user != nil, User: visibleTo(user, caller)})
		})
		if err != nil && ctx.Err() == nil {
			logger.Error("Live stream for %s failed: %v", userID, err)
		}
	}()

	if err := client.WritePump(ctx); err != nil {
		logger.Debug("Live stream for %s ended: %v", userID, err)
	}

	return nil
}
