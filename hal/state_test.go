package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandState(t *testing.T) {
	t.Run("normal path", func(t *testing.T) {
		var st atomicState
		assert.Equal(t, StateSubmitted, st.Get())
		assert.False(t, st.ToExecuting(), "must be queued first")

		assert.True(t, st.ToQueued())
		assert.True(t, st.ToExecuting())
		assert.True(t, st.ToCompleted())
		assert.Equal(t, StateCompleted, st.Get())

		assert.False(t, st.ToAbandoned(), "terminal states are final")
		assert.False(t, st.ToQueued())
		assert.Equal(t, StateCompleted, st.Get())
	})

	t.Run("abandoned from queued", func(t *testing.T) {
		var st atomicState
		st.ToQueued()
		assert.True(t, st.ToAbandoned())
		assert.False(t, st.ToExecuting())
		assert.False(t, st.ToCompleted())
		assert.Equal(t, StateAbandoned, st.Get())
	})

	t.Run("abandoned from executing", func(t *testing.T) {
		var st atomicState
		st.ToQueued()
		st.ToExecuting()
		assert.True(t, st.ToAbandoned())
		assert.False(t, st.ToCompleted())
	})

	t.Run("not abandoned before queued", func(t *testing.T) {
		var st atomicState
		assert.False(t, st.ToAbandoned())
	})

	tests := []struct {
		state    CommandState
		name     string
		terminal bool
	}{
		{StateSubmitted, "Submitted", false},
		{StateQueued, "Queued", false},
		{StateExecuting, "Executing", false},
		{StateCompleted, "Completed", true},
		{StateAbandoned, "Abandoned", true},
		{CommandState(42), "Unknown", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.state.String())
			assert.Equal(t, tt.terminal, tt.state.IsTerminal())
		})
	}
}
