package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	busport "market-chat/internal/infrastructure/bus/port"
	cacheport "market-chat/internal/infrastructure/cache/port"
	qport "market-chat/internal/infrastructure/queue/port"
	"market-chat/internal/infrastructure/realtime"
	"market-chat/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers chat endpoints under the given router group. It
// constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, bus busport.Bus, cache cacheport.Cache, queue qport.Client, router *realtime.Router) {
	createCtl := controller.NewCreateRoomController(pool)
	leaveCtl := controller.NewLeaveRoomController(pool, bus)
	getMsgCtl := controller.NewGetMessagesController(pool)
	myRoomsCtl := controller.NewListMyRoomsController(pool, cache)
	sendMsgCtl := controller.NewSendMessageController(queue)
	socketCtl := controller.NewChatSocketController(pool, router, bus, cache)

	// POST /api/chat/rooms/:id -> create or reuse the 1:1 room (:id is the post id)
	g.POST("/rooms/:id", createCtl.Handle())

	// GET /api/chat/rooms/my -> active rooms for the caller
	g.GET("/rooms/my", myRoomsCtl.Handle())

	// GET /api/chat/rooms/:id/messages -> time-ordered history
	g.GET("/rooms/:id/messages", getMsgCtl.Handle())

	// POST /api/chat/rooms/:id/messages -> async send via the task queue
	g.POST("/rooms/:id/messages", sendMsgCtl.Handle())

	// DELETE /api/chat/rooms/:id -> leave the room
	g.DELETE("/rooms/:id", leaveCtl.Handle())

	// GET /api/chat/ws -> websocket endpoint for realtime chat
	g.GET("/ws", socketCtl.Handle())
}
