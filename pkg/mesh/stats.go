package mesh

import (
	"errors"
	gomath "math"
	"runtime"

	"go.uber.org/zap"
)

// NoMinArea is the MinArea sentinel reported when the mesh has no
// triangle with strictly positive area (including the empty mesh).
// Callers must not render it as a real measurement.
const NoMinArea = float32(gomath.MaxFloat32)

// ErrStatisticsPending is returned by BeginStatistics while an earlier
// computation on the same mesh has not finished. New requests are
// rejected, never queued.
var ErrStatisticsPending = errors.New("mesh: statistics computation already in flight")

// TriangleStatistics holds area statistics over the full triangle set.
// MinArea only considers triangles with strictly positive area;
// MaxArea and AvgArea include degenerate zero-area triangles.
type TriangleStatistics struct {
	MinArea float32
	MaxArea float32
	AvgArea float32
}

func newTriangleStatistics() TriangleStatistics {
	return TriangleStatistics{MinArea: NoMinArea}
}

// merge combines two partial results. Min, max and the average's
// partial sums are all commutative and associative, so worker
// completion order never affects the outcome.
func (s TriangleStatistics) merge(other TriangleStatistics) TriangleStatistics {
	if other.MinArea < s.MinArea {
		s.MinArea = other.MinArea
	}
	if other.MaxArea > s.MaxArea {
		s.MaxArea = other.MaxArea
	}
	s.AvgArea += other.AvgArea
	return s
}

// StatsHandle is the future for one asynchronous statistics run.
type StatsHandle struct {
	done  chan struct{}
	stats TriangleStatistics
}

// Done returns a channel closed when the result is available.
func (h *StatsHandle) Done() <-chan struct{} {
	return h.done
}

// Poll reports whether the computation has finished, and the result
// if it has. It never blocks.
func (h *StatsHandle) Poll() (TriangleStatistics, bool) {
	select {
	case <-h.done:
		return h.stats, true
	default:
		return TriangleStatistics{}, false
	}
}

// Wait blocks until the result is available and returns it.
func (h *StatsHandle) Wait() TriangleStatistics {
	<-h.done
	return h.stats
}

// BeginStatistics launches an asynchronous area-statistics computation
// over the mesh using up to one worker per CPU and returns without
// blocking. The mesh must not be mutated until the handle completes.
func (m *Mesh) BeginStatistics() (*StatsHandle, error) {
	return m.BeginStatisticsWorkers(runtime.NumCPU())
}

// BeginStatisticsWorkers is BeginStatistics with an explicit worker
// cap. The effective worker count is clamped to [1, TriangleCount];
// an empty mesh completes immediately with the sentinel result.
func (m *Mesh) BeginStatisticsWorkers(workers int) (*StatsHandle, error) {
	m.statsMu.Lock()
	if m.statsPending {
		m.statsMu.Unlock()
		return nil, ErrStatisticsPending
	}
	m.statsPending = true
	m.statsMu.Unlock()

	triCount := m.TriangleCount()
	if workers < 1 {
		workers = 1
	}
	if workers > triCount {
		workers = triCount
	}

	log.Debug("statistics started",
		zap.Int("triangles", triCount),
		zap.Int("workers", workers))

	h := &StatsHandle{done: make(chan struct{})}
	results := make(chan TriangleStatistics, workers)

	// Balanced split: batch sizes differ by at most one triangle.
	for w := 0; w < workers; w++ {
		start := w * triCount / workers
		end := (w + 1) * triCount / workers
		go func(start, end int) {
			batch := newTriangleStatistics()
			for t := start; t < end; t++ {
				// Area is recomputed fresh per triangle, independent of
				// the accumulated vertex normals.
				area := m.TriangleAt(t).Area(m.Vertices)
				if area != 0 && area < batch.MinArea {
					batch.MinArea = area
				}
				if area > batch.MaxArea {
					batch.MaxArea = area
				}
				batch.AvgArea += area / float32(triCount)
			}
			results <- batch
		}(start, end)
	}

	// Aggregator: publishes only after every worker has reported.
	go func() {
		total := newTriangleStatistics()
		for w := 0; w < workers; w++ {
			total = total.merge(<-results)
		}
		h.stats = total

		m.statsMu.Lock()
		m.statsPending = false
		m.statsMu.Unlock()
		close(h.done)

		log.Debug("statistics finished",
			zap.Float32("min", total.MinArea),
			zap.Float32("max", total.MaxArea),
			zap.Float32("avg", total.AvgArea))
	}()

	return h, nil
}
