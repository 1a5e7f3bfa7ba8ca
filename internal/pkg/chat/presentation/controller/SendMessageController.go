package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"market-chat/internal/infrastructure/auth"
	qport "market-chat/internal/infrastructure/queue/port"
	"market-chat/internal/pkg/chat/application/task"
)

// SendMessageController is the asynchronous REST send path: it enqueues a
// chat:send_message task and returns 202. The worker runs the same pipeline
// (authorize, persist, publish) as the live gateway; clients needing sync
// feedback use the websocket instead.
type SendMessageController struct {
	Queue qport.Client
}

func NewSendMessageController(queue qport.Client) *SendMessageController {
	return &SendMessageController{Queue: queue}
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			respondError(c, errBadPathParam("roomId"))
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, rsData{ResultCode: "400-1", Msg: err.Error()})
			return
		}

		identity, _ := auth.FromContext(c)

		payload, err := json.Marshal(task.SendMessageTaskPayload{
			ChatRoomID: roomID,
			SenderID:   identity.MemberID,
			Content:    req.Content,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		id, err := h.Queue.Enqueue(ctx, qport.Task{
			Type:    task.SendMessageTaskType,
			Payload: payload,
		}, qport.EnqueueOption{Queue: "chat", MaxRetry: 3})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusAccepted, rsData{ResultCode: "202", Msg: "message accepted", Data: id})
	}
}
