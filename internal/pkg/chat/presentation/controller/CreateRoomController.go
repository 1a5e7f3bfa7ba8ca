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

// CreateRoomController handles room creation/reuse for a post (one controller
// per endpoint).
type CreateRoomController struct {
	UC *usecase.CreateRoomUseCase
}

func NewCreateRoomController(pool *pgxpool.Pool) *CreateRoomController {
	repo := adapter.NewPgChatRepository(pool)
	dir := adapter.NewPgDirectoryRepository(pool)
	return &CreateRoomController{UC: usecase.NewCreateRoomUseCase(repo, dir)}
}

func (h *CreateRoomController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			respondError(c, errBadPathParam("postId"))
			return
		}

		identity, _ := auth.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		roomID, err := h.UC.Execute(ctx, usecase.CreateRoomInput{
			PostID:         postID,
			RequesterEmail: identity.Email,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		respondOK(c, "chat room ready", roomID)
	}
}
