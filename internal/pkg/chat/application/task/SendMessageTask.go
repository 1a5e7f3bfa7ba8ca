package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	busport "market-chat/internal/infrastructure/bus/port"
	cacheport "market-chat/internal/infrastructure/cache/port"
	qport "market-chat/internal/infrastructure/queue/port"
	chat "market-chat/internal/pkg/chat/application/domain"
	"market-chat/internal/pkg/chat/application/usecase"
	repoAdapter "market-chat/internal/pkg/chat/persistence/repository/adapter"
)

// SendMessageTaskType is the queue task name for the asynchronous REST send
// path. The worker runs the same message pipeline as the live gateway.
const SendMessageTaskType = "chat:send_message"

// SendMessageTaskPayload is the JSON payload transported via the queue. Kept
// decoupled from domain types to avoid coupling queue wire format to JSON tags
// on entities.
type SendMessageTaskPayload struct {
	ChatRoomID int64  `json:"chatRoomId"`
	SenderID   int64  `json:"senderId"`
	Content    string `json:"content"`
}

// RegisterSendMessageTask binds the task handler to the provided server.
func RegisterSendMessageTask(srv qport.Server, pool *pgxpool.Pool, bus busport.Bus, cache cacheport.Cache) {
	srv.Register(SendMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p SendMessageTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload cannot become valid on a retry
			return fmt.Errorf("%w: malformed payload: %v", qport.ErrSkipRetry, err)
		}

		repo := repoAdapter.NewPgChatRepository(pool)
		dir := repoAdapter.NewPgDirectoryRepository(pool)
		uc := usecase.NewSendMessageUseCase(repo, dir, bus, cache)

		// bound DB and bus time per task execution
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		_, err := uc.Execute(ctx, usecase.SendMessageInput{
			RoomID:   p.ChatRoomID,
			SenderID: p.SenderID,
			Content:  p.Content,
		})
		return classifyPipelineError(p.ChatRoomID, err)
	})
}

// classifyPipelineError decides whether a failed execution may be re-enqueued.
// A publish failure leaves the message persisted, so re-running the pipeline
// would insert a duplicate row; domain rejections cannot succeed on a retry
// either. Only repository failures, where nothing was stored, stay retryable.
func classifyPipelineError(roomID int64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, usecase.ErrPersistence) {
		return err
	}
	if errors.Is(err, chat.ErrPublishFailed) {
		slog.Warn("message persisted but not published, not retrying",
			"room_id", roomID, "error", err)
	}
	return fmt.Errorf("%w: %v", qport.ErrSkipRetry, err)
}
