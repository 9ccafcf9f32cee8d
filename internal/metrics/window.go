package metrics

import (
	"sync"

	"github.com/montanaflynn/stats"
)

// windowSize is the number of recent drains kept for batch statistics.
const windowSize = 128

// DrainWindow is a ring buffer of recent drain batch sizes.
//
// Bounded: Count never exceeds len(Samples), old samples are overwritten.
type DrainWindow struct {
	mu      sync.Mutex
	Samples [windowSize]float64
	Index   int // next write position
	Count   int // valid samples (≤ windowSize)
}

// DrainStats summarizes the window.
type DrainStats struct {
	// Samples is the number of drains summarized
	Samples int
	// Mean batch size
	Mean float64
	// P95 batch size
	P95 float64
	// Max batch size
	Max float64
}

// AddSample records one drain of n envelopes.
func (w *DrainWindow) AddSample(n float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.Samples[w.Index] = n
	w.Index = (w.Index + 1) % len(w.Samples)
	if w.Count < len(w.Samples) {
		w.Count++
	}
}

// GetStats returns mean, p95 and max over the valid samples. Empty window
// returns zeros.
func (w *DrainWindow) GetStats() DrainStats {
	w.mu.Lock()
	data := make(stats.Float64Data, w.Count)
	copy(data, w.Samples[:w.Count])
	w.mu.Unlock()

	if len(data) == 0 {
		return DrainStats{}
	}

	// Errors only occur on empty input, handled above
	mean, _ := data.Mean()
	p95, _ := data.Percentile(95)
	max, _ := data.Max()

	return DrainStats{
		Samples: len(data),
		Mean:    mean,
		P95:     p95,
		Max:     max,
	}
}
