package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"market-chat/internal/infrastructure/auth"
	busport "market-chat/internal/infrastructure/bus/port"
	cacheport "market-chat/internal/infrastructure/cache/port"
	qport "market-chat/internal/infrastructure/queue/port"
	"market-chat/internal/infrastructure/realtime"
	httpHandler "market-chat/internal/pkg/chat/presentation/http"
)

// RegisterRoutes mounts the chat API under /api/chat behind the JWT
// middleware.
func RegisterRoutes(r *gin.Engine, jwtSecret string, pool *pgxpool.Pool, bus busport.Bus, cache cacheport.Cache, queue qport.Client, router *realtime.Router) {
	api := r.Group("/api/chat")
	api.Use(auth.Middleware(jwtSecret))
	httpHandler.RegisterRoutes(api, pool, bus, cache, queue, router)
}
