package controller

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"market-chat/internal/infrastructure/auth"
	"market-chat/internal/pkg/chat/application/usecase"
	"market-chat/internal/pkg/chat/persistence/repository/adapter"
)

// GetMessagesController returns a room's history for an active participant.
type GetMessagesController struct {
	UC *usecase.GetMessagesUseCase
}

func NewGetMessagesController(pool *pgxpool.Pool) *GetMessagesController {
	repo := adapter.NewPgChatRepository(pool)
	dir := adapter.NewPgDirectoryRepository(pool)
	return &GetMessagesController{UC: usecase.NewGetMessagesUseCase(repo, dir)}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			respondError(c, errBadPathParam("roomId"))
			return
		}

		identity, _ := auth.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		views, err := h.UC.Execute(ctx, usecase.GetMessagesInput{
			RoomID:         roomID,
			RequesterEmail: identity.Email,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		respondOK(c, "chat room messages retrieved", views)
	}
}
