package mnist

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/digit/tensor"
)

// Batch is one immutable mini-batch: a [size, 784] image tensor and the
// matching label slice. Invariant: Images.Shape()[0] == len(Labels).
type Batch struct {
	Images *tensor.Tensor // [size, 784]
	Labels []int          // [size]
	Size   int
}

// Batches splits a dataset into mini-batches.
//
// When shuffle is true, sample order is permuted with a Fisher-Yates
// shuffle seeded by seed, so a run is reproducible. The last batch may
// be smaller when the sample count does not divide evenly.
func Batches(d *Dataset, batchSize int, shuffle bool, seed int64) ([]*Batch, error) {
	numSamples := d.NumSamples()
	if numSamples == 0 {
		return nil, fmt.Errorf("mnist: empty dataset")
	}
	if numSamples != len(d.Labels) {
		return nil, fmt.Errorf("mnist: %d images but %d labels", numSamples, len(d.Labels))
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("mnist: batch size must be > 0, got %d", batchSize)
	}

	indices := make([]int, numSamples)
	for i := range indices {
		indices[i] = i
	}
	if shuffle {
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(numSamples, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	numBatches := (numSamples + batchSize - 1) / batchSize
	batches := make([]*Batch, 0, numBatches)

	for start := 0; start < numSamples; start += batchSize {
		end := min(start+batchSize, numSamples)
		size := end - start

		images, err := tensor.New(tensor.Shape{size, ImageSize})
		if err != nil {
			return nil, fmt.Errorf("mnist: failed to create batch tensor: %w", err)
		}
		labels := make([]int, size)

		imagesData := images.Data()
		for j := start; j < end; j++ {
			idx := indices[j]
			if len(d.Images[idx]) != ImageSize {
				return nil, fmt.Errorf("mnist: image %d has %d pixels, want %d",
					idx, len(d.Images[idx]), ImageSize)
			}
			copy(imagesData[(j-start)*ImageSize:(j-start+1)*ImageSize], d.Images[idx])
			labels[j-start] = d.Labels[idx]
		}

		batches = append(batches, &Batch{Images: images, Labels: labels, Size: size})
	}

	return batches, nil
}
