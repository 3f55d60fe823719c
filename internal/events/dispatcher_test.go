package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailnet/internal/events/types"
	"trailnet/internal/interfaces"
)

func TestPublishSyncInvokesRegisteredHandler(t *testing.T) {
	d := NewDispatcher()
	called := false
	d.Subscribe(types.StageStartedEvent, func(ctx context.Context, e interfaces.Event) error {
		called = true
		return nil
	})

	err := d.PublishSync(context.Background(), types.NewStageStarted("ingest", "ws"))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestPublishSyncNoHandlersIsNoOp(t *testing.T) {
	d := NewDispatcher()
	err := d.PublishSync(context.Background(), types.NewStageStarted("ingest", "ws"))
	assert.NoError(t, err)
}

func TestPublishSyncPropagatesHandlerError(t *testing.T) {
	d := NewDispatcher()
	d.Subscribe(types.StageStartedEvent, func(ctx context.Context, e interfaces.Event) error {
		return errors.New("boom")
	})
	err := d.PublishSync(context.Background(), types.NewStageStarted("ingest", "ws"))
	require.Error(t, err)
}

func TestHasHandlersReflectsSubscriptions(t *testing.T) {
	d := NewDispatcher()
	assert.False(t, d.HasHandlers(types.StageStartedEvent))
	d.Subscribe(types.StageStartedEvent, func(ctx context.Context, e interfaces.Event) error { return nil })
	assert.True(t, d.HasHandlers(types.StageStartedEvent))
}
