package controller

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"market-chat/internal/infrastructure/auth"
	busport "market-chat/internal/infrastructure/bus/port"
	"market-chat/internal/pkg/chat/application/usecase"
	"market-chat/internal/pkg/chat/persistence/repository/adapter"
)

// LeaveRoomController deactivates the caller's participation in a room.
type LeaveRoomController struct {
	UC *usecase.LeaveRoomUseCase
}

func NewLeaveRoomController(pool *pgxpool.Pool, bus busport.Bus) *LeaveRoomController {
	repo := adapter.NewPgChatRepository(pool)
	dir := adapter.NewPgDirectoryRepository(pool)
	return &LeaveRoomController{UC: usecase.NewLeaveRoomUseCase(repo, dir, bus)}
}

func (h *LeaveRoomController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			respondError(c, errBadPathParam("roomId"))
			return
		}

		identity, _ := auth.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		err = h.UC.Execute(ctx, usecase.LeaveRoomInput{
			RoomID:         roomID,
			RequesterEmail: identity.Email,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		respondOK(c, "left chat room", nil)
	}
}
