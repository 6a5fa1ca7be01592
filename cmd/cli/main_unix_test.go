//go:build unix

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalContext_CancelledByFirstSignal(t *testing.T) {
	// Keep the process alive whatever happens to the context's handler.
	guard := make(chan os.Signal, 4)
	signal.Notify(guard, syscall.SIGUSR1)
	t.Cleanup(func() { signal.Stop(guard) })

	ctx, stop := signalContext(context.Background(), syscall.SIGUSR1)
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	select {
	case <-ctx.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("context was not cancelled by the signal")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
