package mesh

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/meshview/pkg/math"
)

func TestStatisticsSingleRightTriangle(t *testing.T) {
	m := rightTriangleMesh()

	h, err := m.BeginStatistics()
	if err != nil {
		t.Fatalf("BeginStatistics failed: %v", err)
	}
	stats := h.Wait()

	if stats.MinArea != 0.5 {
		t.Errorf("MinArea = %v, want 0.5", stats.MinArea)
	}
	if stats.MaxArea != 0.5 {
		t.Errorf("MaxArea = %v, want 0.5", stats.MaxArea)
	}
	if stats.AvgArea != 0.5 {
		t.Errorf("AvgArea = %v, want 0.5", stats.AvgArea)
	}
}

func TestStatisticsEmptyMesh(t *testing.T) {
	m := &Mesh{}

	h, err := m.BeginStatistics()
	if err != nil {
		t.Fatalf("BeginStatistics failed: %v", err)
	}
	stats := h.Wait()

	if stats.MinArea != NoMinArea {
		t.Errorf("MinArea = %v, want sentinel %v", stats.MinArea, float32(NoMinArea))
	}
	if stats.MaxArea != 0 {
		t.Errorf("MaxArea = %v, want 0", stats.MaxArea)
	}
	if stats.AvgArea != 0 {
		t.Errorf("AvgArea = %v, want 0", stats.AvgArea)
	}
}

func TestStatisticsZeroAreaExcludedFromMin(t *testing.T) {
	// One real triangle plus one degenerate: the degenerate one must
	// never become the minimum but still counts toward the average.
	m := &Mesh{
		Vertices: []Vertex{
			{Position: math.Vec3{X: 0, Y: 0, Z: 0}},
			{Position: math.Vec3{X: 1, Y: 0, Z: 0}},
			{Position: math.Vec3{X: 0, Y: 1, Z: 0}},
		},
		Indices: []int32{0, 1, 2, 0, 0, 0},
	}
	m.RecalculateNormals()

	h, err := m.BeginStatistics()
	if err != nil {
		t.Fatalf("BeginStatistics failed: %v", err)
	}
	stats := h.Wait()

	if stats.MinArea != 0.5 {
		t.Errorf("MinArea = %v, want 0.5 (zero-area triangle excluded)", stats.MinArea)
	}
	if stats.MaxArea != 0.5 {
		t.Errorf("MaxArea = %v, want 0.5", stats.MaxArea)
	}
	if stats.AvgArea != 0.25 {
		t.Errorf("AvgArea = %v, want 0.25", stats.AvgArea)
	}
}

func TestStatisticsWorkerCountConsistency(t *testing.T) {
	m := cubeMesh(0.5)
	m.Subdivide()
	m.Subdivide() // 192 triangles

	one, err := m.BeginStatisticsWorkers(1)
	if err != nil {
		t.Fatalf("BeginStatisticsWorkers(1) failed: %v", err)
	}
	single := one.Wait()

	many, err := m.BeginStatisticsWorkers(8)
	if err != nil {
		t.Fatalf("BeginStatisticsWorkers(8) failed: %v", err)
	}
	parallel := many.Wait()

	if single.MinArea != parallel.MinArea {
		t.Errorf("MinArea differs: 1 worker %v, 8 workers %v", single.MinArea, parallel.MinArea)
	}
	if single.MaxArea != parallel.MaxArea {
		t.Errorf("MaxArea differs: 1 worker %v, 8 workers %v", single.MaxArea, parallel.MaxArea)
	}
	if diff := gomath.Abs(float64(single.AvgArea - parallel.AvgArea)); diff > 1e-4 {
		t.Errorf("AvgArea differs beyond tolerance: 1 worker %v, 8 workers %v",
			single.AvgArea, parallel.AvgArea)
	}
}

func TestStatisticsWorkerCountExceedsTriangles(t *testing.T) {
	m := rightTriangleMesh()

	h, err := m.BeginStatisticsWorkers(64)
	if err != nil {
		t.Fatalf("BeginStatisticsWorkers failed: %v", err)
	}
	stats := h.Wait()

	if stats.MinArea != 0.5 || stats.MaxArea != 0.5 || stats.AvgArea != 0.5 {
		t.Errorf("stats = %+v, want 0.5 across the board", stats)
	}
}

func TestStatisticsRejectsSecondInFlight(t *testing.T) {
	m := cubeMesh(0.5)

	m.statsMu.Lock()
	m.statsPending = true
	m.statsMu.Unlock()

	_, err := m.BeginStatistics()
	if !errors.Is(err, ErrStatisticsPending) {
		t.Errorf("expected ErrStatisticsPending, got %v", err)
	}

	m.statsMu.Lock()
	m.statsPending = false
	m.statsMu.Unlock()

	h, err := m.BeginStatistics()
	if err != nil {
		t.Fatalf("BeginStatistics after completion failed: %v", err)
	}
	h.Wait()
}

func TestStatisticsSequentialRuns(t *testing.T) {
	m := cubeMesh(0.5)

	for i := 0; i < 3; i++ {
		h, err := m.BeginStatistics()
		if err != nil {
			t.Fatalf("run %d: BeginStatistics failed: %v", i, err)
		}
		h.Wait()
	}
}

func TestStatsHandlePoll(t *testing.T) {
	m := cubeMesh(0.5)

	h, err := m.BeginStatistics()
	if err != nil {
		t.Fatalf("BeginStatistics failed: %v", err)
	}

	<-h.Done()

	stats, ready := h.Poll()
	if !ready {
		t.Fatal("Poll() not ready after Done() closed")
	}
	if stats.MaxArea != 0.5 {
		t.Errorf("MaxArea = %v, want 0.5", stats.MaxArea)
	}
}

func TestStatisticsCubeAreas(t *testing.T) {
	// Every face triangle of a half-extent 0.5 cube has area 0.5.
	m := cubeMesh(0.5)

	h, err := m.BeginStatistics()
	if err != nil {
		t.Fatalf("BeginStatistics failed: %v", err)
	}
	stats := h.Wait()

	if stats.MinArea != 0.5 {
		t.Errorf("MinArea = %v, want 0.5", stats.MinArea)
	}
	if stats.MaxArea != 0.5 {
		t.Errorf("MaxArea = %v, want 0.5", stats.MaxArea)
	}
	if diff := gomath.Abs(float64(stats.AvgArea - 0.5)); diff > 1e-6 {
		t.Errorf("AvgArea = %v, want ~0.5", stats.AvgArea)
	}
}

func BenchmarkStatistics(b *testing.B) {
	m := cubeMesh(0.5)
	for i := 0; i < 4; i++ {
		m.Subdivide() // 3072 triangles
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := m.BeginStatistics()
		if err != nil {
			b.Fatal(err)
		}
		h.Wait()
	}
}
