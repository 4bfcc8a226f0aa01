// Package train drives the training loop: repeated
// forward → loss → backward → update over batches, for a fixed number of
// epochs, reporting the mean loss per epoch.
package train

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chewxy/math32"

	"github.com/born-ml/digit/mnist"
	"github.com/born-ml/digit/nn"
	"github.com/born-ml/digit/optim"
)

// Config captures the knobs required by the training loop.
type Config struct {
	Epochs       int     // Number of full passes over the batches. Must be > 0.
	LearningRate float32 // SGD learning rate. Must be positive and finite.
	LogEvery     int     // Steps between progress lines (default 50).
}

// Validate rejects a broken configuration before any training happens.
func (c *Config) Validate() error {
	if c.Epochs <= 0 {
		return errors.New("train: epochs must be > 0")
	}
	if math32.IsNaN(c.LearningRate) || math32.IsInf(c.LearningRate, 0) || c.LearningRate <= 0 {
		return fmt.Errorf("train: learning rate must be a positive finite real, got %v", c.LearningRate)
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 50
	}
	return nil
}

// Trainer owns a network, its loss, and its optimizer for the duration of
// a run. The network's parameters are the only state that survives a
// step; activations and gradients live for one batch.
type Trainer struct {
	net       *nn.Network
	criterion *nn.CrossEntropy
	opt       *optim.SGD
	cfg       Config
}

// New creates a trainer for the given network.
//
// Returns an error for an invalid configuration (zero epochs,
// non-positive or non-finite learning rate).
func New(net *nn.Network, cfg Config) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opt, err := optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: cfg.LearningRate})
	if err != nil {
		return nil, err
	}
	return &Trainer{
		net:       net,
		criterion: nn.NewCrossEntropy(),
		opt:       opt,
		cfg:       cfg,
	}, nil
}

// Run trains over all batches for the configured number of epochs and
// returns the mean loss of each epoch, oldest first.
//
// Each step runs forward, loss, backward (on freshly zeroed gradient
// buffers), then the SGD update, fully completing before the next batch.
// A non-finite loss or gradient aborts the run with an error rather than
// letting corrupted parameters train on. The context is checked between
// batches; no step is interrupted mid-flight.
func (t *Trainer) Run(ctx context.Context, batches []*mnist.Batch) ([]float32, error) {
	if len(batches) == 0 {
		return nil, errors.New("train: no batches")
	}

	history := make([]float32, 0, t.cfg.Epochs)
	var win window
	step := 0

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		epochLoss := float32(0.0)

		for _, batch := range batches {
			if err := ctx.Err(); err != nil {
				return history, err
			}

			start := time.Now()

			logits := t.net.Forward(batch.Images)
			loss := t.criterion.Forward(logits, batch.Labels)
			if math32.IsNaN(loss) || math32.IsInf(loss, 0) {
				return history, fmt.Errorf("train: non-finite loss %v at epoch %d", loss, epoch)
			}

			t.net.ZeroGrad()
			t.net.Backward(t.criterion.Backward(logits, batch.Labels))
			if err := t.opt.Step(); err != nil {
				return history, fmt.Errorf("train: epoch %d: %w", epoch, err)
			}

			epochLoss += loss * float32(batch.Size)
			win.record(batch.Size, time.Since(start), loss)

			step++
			if step%t.cfg.LogEvery == 0 {
				snap := win.snapshot()
				log.Printf("step=%d images_per_sec=%.1f step_ms=%.2f loss=%.4f",
					step, snap.imagesPerSec, snap.avgStepMS, snap.lastLoss)
			}
		}

		meanLoss := epochLoss / float32(totalSamples(batches))
		history = append(history, meanLoss)
		log.Printf("epoch=%d/%d mean_loss=%.4f", epoch, t.cfg.Epochs, meanLoss)
	}

	return history, nil
}

// Network returns the trained network, for evaluation after Run.
func (t *Trainer) Network() *nn.Network {
	return t.net
}

func totalSamples(batches []*mnist.Batch) int {
	n := 0
	for _, b := range batches {
		n += b.Size
	}
	return n
}
