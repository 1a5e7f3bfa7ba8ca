package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"

	"market-chat/internal/infrastructure/auth"
	busport "market-chat/internal/infrastructure/bus/port"
	cacheport "market-chat/internal/infrastructure/cache/port"
	"market-chat/internal/infrastructure/realtime"
	chat "market-chat/internal/pkg/chat/application/domain"
	"market-chat/internal/pkg/chat/application/usecase"
	repoAdapter "market-chat/internal/pkg/chat/persistence/repository/adapter"
)

// ChatSocketController is the live transport gateway: it accepts inbound chat
// submissions from authenticated sessions and owns the per-instance Router
// that bus-delivered envelopes are pushed through. It holds no persistent
// state of its own.
type ChatSocketController struct {
	router          *realtime.Router
	sendMessageUC   *usecase.SendMessageUseCase
	joinRoomUC      *usecase.JoinRoomUseCase
	inflightTimeout time.Duration
}

func NewChatSocketController(pool *pgxpool.Pool, router *realtime.Router, bus busport.Bus, cache cacheport.Cache) *ChatSocketController {
	repo := repoAdapter.NewPgChatRepository(pool)
	dir := repoAdapter.NewPgDirectoryRepository(pool)
	return &ChatSocketController{
		router:          router,
		sendMessageUC:   usecase.NewSendMessageUseCase(repo, dir, bus, cache),
		joinRoomUC:      usecase.NewJoinRoomUseCase(repo),
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The JWT middleware already gates the upgrade; origin policy is
		// enforced at the edge.
		return true
	},
}

type inboundFrame struct {
	Type       string `json:"type"`
	ChatRoomID int64  `json:"chatRoomId,omitempty"`
	Content    string `json:"content,omitempty"`
}

type ackFrame struct {
	Type       string `json:"type"`
	ChatRoomID int64  `json:"chatRoomId,omitempty"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades the connection and processes frames until the client
// disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.FromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, rsData{ResultCode: "401-1", Msg: "authentication required"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; nothing more to do.
			return
		}

		conn := realtime.NewConnection(identity.MemberID, identity.Email, identity.Name, ws)
		ctl.router.Attach(conn)
		defer func() {
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected"}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "invalid payload")
				continue
			}

			switch frame.Type {
			case "join":
				ctl.handleJoin(c, conn, frame)
			case "leave":
				ctl.handleLeave(conn, frame)
			case "message":
				ctl.handleMessage(c, conn, frame)
			default:
				ctl.replyError(conn, "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.ChatRoomID == 0 {
		ctl.replyError(conn, "chatRoomId is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	err := ctl.joinRoomUC.Execute(ctx, usecase.JoinRoomInput{
		RoomID:   frame.ChatRoomID,
		MemberID: conn.MemberID,
	})
	if err != nil {
		ctl.replyUseCaseError(conn, err)
		return
	}

	ctl.router.Join(frame.ChatRoomID, conn)

	if payload, err := json.Marshal(ackFrame{Type: "joined", ChatRoomID: frame.ChatRoomID}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Connection, frame inboundFrame) {
	if frame.ChatRoomID == 0 {
		ctl.replyError(conn, "chatRoomId is required")
		return
	}
	// Unsubscribes this session from the topic only; room membership is left
	// via the REST endpoint.
	ctl.router.Leave(frame.ChatRoomID, conn)

	if payload, err := json.Marshal(ackFrame{Type: "left", ChatRoomID: frame.ChatRoomID}); err == nil {
		_ = conn.Send(payload)
	}
}

// handleMessage runs the pipeline. On success nothing is echoed directly: the
// envelope comes back through the fanout bus and reaches every subscribed
// session, this one included. Failures go to the sender's private queue only.
func (ctl *ChatSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.ChatRoomID == 0 {
		ctl.replyError(conn, "chatRoomId is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	_, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		RoomID:   frame.ChatRoomID,
		SenderID: conn.MemberID,
		Content:  frame.Content,
	})
	if err != nil {
		ctl.replyUseCaseError(conn, err)
	}
}

func (ctl *ChatSocketController) replyUseCaseError(conn *realtime.Connection, err error) {
	var svcErr *chat.ServiceError
	switch {
	case errors.As(err, &svcErr):
		ctl.replyError(conn, svcErr.Msg)
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "message could not be processed")
	default:
		ctl.replyError(conn, err.Error())
	}
}

// replyError sends an ERROR-kind envelope to the originating sender only,
// never to the room.
func (ctl *ChatSocketController) replyError(conn *realtime.Connection, message string) {
	payload, err := chat.NewErrorEnvelope(message).Encode()
	if err != nil {
		return
	}
	if !ctl.router.SendToUser(conn.UserKey, payload) {
		_ = conn.Send(payload)
	}
}
