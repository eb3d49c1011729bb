package hal

import "sync/atomic"

// Metrics contains atomic metrics for a dispatcher.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type Metrics struct {
	// SubmittedCount indicates the number of commands accepted for execution.
	SubmittedCount atomic.Uint64
	// RejectedCount indicates the number of submissions that failed.
	RejectedCount atomic.Uint64
	// CompletedCount indicates the number of commands that returned without error.
	CompletedCount atomic.Uint64
	// FailedCount indicates the number of commands that returned an error.
	FailedCount atomic.Uint64
	// AbandonedCount indicates the number of commands resolved with ErrWorkerGone.
	AbandonedCount atomic.Uint64

	// QueueDepth indicates the number of commands waiting for the worker.
	QueueDepth atomic.Int64
}

func (m *Metrics) incSubmittedCount() {
	m.SubmittedCount.Add(1)
	m.QueueDepth.Add(1)
}

func (m *Metrics) incRejectedCount() {
	m.RejectedCount.Add(1)
}

func (m *Metrics) decQueueDepth() {
	m.QueueDepth.Add(-1)
}

func (m *Metrics) incCompletedCount() {
	m.CompletedCount.Add(1)
}

func (m *Metrics) incFailedCount() {
	m.FailedCount.Add(1)
}

func (m *Metrics) incAbandonedCount() {
	m.AbandonedCount.Add(1)
}
