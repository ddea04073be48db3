package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestDisabledIsNoOp(t *testing.T) {
	m := New(Config{Enabled: false})

	m.Inc(MetricSignInSuccess)
	m.Observe(MetricValidateLatency, time.Millisecond)

	if m.Enabled() {
		t.Fatal("Enabled() should be false")
	}
	if got := m.Value(MetricSignInSuccess); got != 0 {
		t.Fatalf("Value = %d, want 0", got)
	}
}

func TestIncAndValue(t *testing.T) {
	m := New(Config{Enabled: true})

	for i := 0; i < 5; i++ {
		m.Inc(MetricRefreshSuccess)
	}
	m.Inc(MetricRefreshReuseDetected)

	if got := m.Value(MetricRefreshSuccess); got != 5 {
		t.Fatalf("refresh success = %d, want 5", got)
	}
	if got := m.Value(MetricRefreshReuseDetected); got != 1 {
		t.Fatalf("reuse detected = %d, want 1", got)
	}
	if got := m.Value(MetricSignInFailure); got != 0 {
		t.Fatalf("untouched counter = %d, want 0", got)
	}
}

func TestConcurrentInc(t *testing.T) {
	m := New(Config{Enabled: true})

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				m.Inc(MetricSignInSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricSignInSuccess); got != goroutines*perGoroutine {
		t.Fatalf("counter = %d, want %d", got, goroutines*perGoroutine)
	}
}

func TestLatencyHistogram(t *testing.T) {
	m := New(Config{Enabled: true, EnableLatency: true})

	m.Observe(MetricValidateLatency, 1*time.Millisecond)
	m.Observe(MetricValidateLatency, 30*time.Millisecond)
	m.Observe(MetricValidateLatency, 5*time.Second)

	snap := m.SnapshotNow()
	buckets, ok := snap.Histograms[MetricValidateLatency]
	if !ok {
		t.Fatal("histogram missing from snapshot")
	}
	if len(buckets) != 8 {
		t.Fatalf("bucket count = %d, want 8", len(buckets))
	}

	var total uint64
	for _, b := range buckets {
		total += b
	}
	if total != 3 {
		t.Fatalf("observations = %d, want 3", total)
	}
	if buckets[0] != 1 {
		t.Fatalf("<=5ms bucket = %d, want 1", buckets[0])
	}
	if buckets[len(buckets)-1] != 1 {
		t.Fatalf("overflow bucket = %d, want 1", buckets[len(buckets)-1])
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	m := New(Config{Enabled: true})

	m.Inc(MetricLogout)
	snap := m.SnapshotNow()
	m.Inc(MetricLogout)

	if snap.Counters[MetricLogout] != 1 {
		t.Fatalf("snapshot counter = %d, want 1", snap.Counters[MetricLogout])
	}
	if got := m.Value(MetricLogout); got != 2 {
		t.Fatalf("live counter = %d, want 2", got)
	}
}
