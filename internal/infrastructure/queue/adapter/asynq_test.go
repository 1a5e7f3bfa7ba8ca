package adapter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-chat/internal/infrastructure/queue/port"
)

func TestRegisterTranslatesSkipRetry(t *testing.T) {
	srv, err := NewAsynqServer("redis://localhost:6379/0", 1, map[string]int{"default": 1})
	require.NoError(t, err)

	srv.Register("task:terminal", func(context.Context, port.Task) error {
		return fmt.Errorf("%w: bad input", port.ErrSkipRetry)
	})
	srv.Register("task:transient", func(context.Context, port.Task) error {
		return errors.New("db down")
	})
	srv.Register("task:ok", func(context.Context, port.Task) error { return nil })

	err = srv.mux.ProcessTask(context.Background(), asynq.NewTask("task:terminal", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = srv.mux.ProcessTask(context.Background(), asynq.NewTask("task:transient", nil))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	assert.NoError(t, srv.mux.ProcessTask(context.Background(), asynq.NewTask("task:ok", nil)))
}
