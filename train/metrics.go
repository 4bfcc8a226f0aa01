package train

import "time"

// window accumulates step timing stats between progress lines.
type window struct {
	samples  int
	elapsed  time.Duration
	steps    int
	lastLoss float32
}

// record adds one training step to the window.
func (w *window) record(batchSize int, stepTime time.Duration, loss float32) {
	w.samples += batchSize
	w.elapsed += stepTime
	w.steps++
	w.lastLoss = loss
}

// snapshot returns aggregated metrics and resets the window.
func (w *window) snapshot() snapshot {
	snap := snapshot{lastLoss: w.lastLoss}
	if w.elapsed > 0 {
		snap.imagesPerSec = float64(w.samples) / w.elapsed.Seconds()
	}
	if w.steps > 0 {
		snap.avgStepMS = (w.elapsed.Seconds() * 1000) / float64(w.steps)
	}

	w.samples = 0
	w.elapsed = 0
	w.steps = 0
	return snap
}

// snapshot represents loggable step metrics.
type snapshot struct {
	imagesPerSec float64
	avgStepMS    float64
	lastLoss     float32
}
