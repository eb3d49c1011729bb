package hal

import "sync/atomic"

// commandIDGenerator hands out command IDs for one dispatcher.
// IDs start at 1 and increase by one per submission, so 0 never names a command.
// Callers hold dispatcher.mu so IDs follow queue order.
type commandIDGenerator struct {
	id atomic.Uint64
}

func (g *commandIDGenerator) genID() uint64 {
	return g.id.Add(1)
}
