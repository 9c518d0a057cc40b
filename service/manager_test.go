package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestManager_ListenSignal_Stop(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()

	ctx, stop := NewManager(&logger).ListenSignal()
	assert.NoError(t, ctx.Err())

	stop()
	stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context is not cancelled after stop")
	}
}
