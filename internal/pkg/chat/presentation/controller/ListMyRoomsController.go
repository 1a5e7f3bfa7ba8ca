package controller

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"market-chat/internal/infrastructure/auth"
	cacheport "market-chat/internal/infrastructure/cache/port"
	"market-chat/internal/pkg/chat/application/usecase"
	"market-chat/internal/pkg/chat/persistence/repository/adapter"
)

// ListMyRoomsController returns the caller's active rooms with previews.
type ListMyRoomsController struct {
	UC *usecase.ListMyRoomsUseCase
}

func NewListMyRoomsController(pool *pgxpool.Pool, cache cacheport.Cache) *ListMyRoomsController {
	repo := adapter.NewPgChatRepository(pool)
	dir := adapter.NewPgDirectoryRepository(pool)
	return &ListMyRoomsController{UC: usecase.NewListMyRoomsUseCase(repo, dir, cache)}
}

func (h *ListMyRoomsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := auth.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		views, err := h.UC.Execute(ctx, usecase.ListMyRoomsInput{
			RequesterEmail: identity.Email,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		respondOK(c, "my chat rooms retrieved", views)
	}
}
