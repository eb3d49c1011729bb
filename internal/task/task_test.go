package task

import (
	"context"
	"testing"
	"time"

	"github.com/arloliu/go-fpgahal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Start(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mockLogger := logger.NewPermissiveMockLogger()
	mgr := NewManager(ctx, mockLogger)

	release := make(chan struct{})
	err := mgr.Start("worker", func(ctx context.Context) {
		select {
		case <-ctx.Done():
		case <-release:
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, mgr.TaskCount())

	close(release)
	mgr.Wait()
	assert.Equal(t, 0, mgr.TaskCount())
	assert.Equal(t, 0, mockLogger.CallCount("Error"))
}

func TestManager_Stop(t *testing.T) {
	mgr := NewManager(context.Background(), logger.NewPermissiveMockLogger())

	for i := 0; i < 3; i++ {
		require.NoError(t, mgr.Start("idle", func(ctx context.Context) { <-ctx.Done() }))
	}
	assert.Equal(t, 3, mgr.TaskCount())

	mgr.Stop()
	mgr.Wait()
	assert.Equal(t, 0, mgr.TaskCount())

	err := mgr.Start("late", func(context.Context) {})
	require.ErrorIs(t, err, ErrStopped)
}

func TestManager_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mgr := NewManager(ctx, logger.NewPermissiveMockLogger())

	require.NoError(t, mgr.Start("idle", func(ctx context.Context) { <-ctx.Done() }))
	cancel()

	done := make(chan struct{})
	go func() {
		mgr.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not observe parent cancellation")
	}
	assert.Error(t, mgr.Context().Err())
}

func TestManager_Panic(t *testing.T) {
	t.Run("logged without handler", func(t *testing.T) {
		mockLogger := logger.NewPermissiveMockLogger()
		mgr := NewManager(context.Background(), mockLogger)

		require.NoError(t, mgr.Start("boom", func(context.Context) { panic("bad register") }))
		mgr.Wait()

		assert.Equal(t, 1, mockLogger.CallCount("Error"))
		assert.Equal(t, 0, mgr.TaskCount())
	})

	t.Run("handler", func(t *testing.T) {
		mockLogger := logger.NewPermissiveMockLogger()
		mgr := NewManager(context.Background(), mockLogger)

		var gotName string
		var gotValue any
		mgr.OnPanic(func(name string, r any) {
			gotName = name
			gotValue = r
		})

		require.NoError(t, mgr.Start("boom", func(context.Context) { panic("bad register") }))
		mgr.Wait()

		assert.Equal(t, "boom", gotName)
		assert.Equal(t, "bad register", gotValue)
		assert.Equal(t, 0, mockLogger.CallCount("Error"))
	})
}

func TestManager_SetStartTimeout(t *testing.T) {
	mgr := NewManager(context.Background(), logger.NewPermissiveMockLogger())
	mgr.SetStartTimeout(0)
	assert.Equal(t, DefaultStartTimeout, mgr.startTimeout)

	mgr.SetStartTimeout(time.Second)
	assert.Equal(t, time.Second, mgr.startTimeout)
}
