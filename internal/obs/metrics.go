package obs

import (
	"sync/atomic"
	"time"

	"main/internal/schema"
)

const maxNoteType = int(schema.NotePauseToggled)

// Metrics collects lightweight counters and latency stats for the
// registry. Counters are observability only; query results always come
// from index scans, never from here.
type Metrics struct {
	noteCounts  [maxNoteType + 1]uint64
	rejections  uint64
	queueDrops  uint64
	queueClosed uint64

	submitLatency  LatencyStats
	executeLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	NoteCounts     map[schema.NoteType]uint64
	Rejections     uint64
	QueueDrops     uint64
	QueueClosed    uint64
	SubmitLatency  LatencySnapshot
	ExecuteLatency LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveNote counts an emitted notification by type.
func (m *Metrics) ObserveNote(t schema.NoteType) {
	if m == nil {
		return
	}
	idx := int(t)
	if idx >= 0 && idx < len(m.noteCounts) {
		atomic.AddUint64(&m.noteCounts[idx], 1)
	}
}

// IncRejection records a mutating operation rejected with an error.
func (m *Metrics) IncRejection() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.rejections, 1)
}

// IncQueueDrop records a dropped notification.
func (m *Metrics) IncQueueDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueDrops, 1)
}

// IncQueueClosed records a publish attempt on a closed queue.
func (m *Metrics) IncQueueClosed() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueClosed, 1)
}

// ObserveSubmit measures submit latency.
func (m *Metrics) ObserveSubmit(d time.Duration) {
	if m == nil {
		return
	}
	m.submitLatency.Observe(d)
}

// ObserveExecute measures execute latency.
func (m *Metrics) ObserveExecute(d time.Duration) {
	if m == nil {
		return
	}
	m.executeLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	noteCounts := make(map[schema.NoteType]uint64)
	for i := range m.noteCounts {
		if v := atomic.LoadUint64(&m.noteCounts[i]); v > 0 {
			noteCounts[schema.NoteType(i)] = v
		}
	}
	return Snapshot{
		NoteCounts:     noteCounts,
		Rejections:     atomic.LoadUint64(&m.rejections),
		QueueDrops:     atomic.LoadUint64(&m.queueDrops),
		QueueClosed:    atomic.LoadUint64(&m.queueClosed),
		SubmitLatency:  m.submitLatency.Snapshot(),
		ExecuteLatency: m.executeLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
