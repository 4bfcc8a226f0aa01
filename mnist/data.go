// Package mnist loads handwritten-digit data and groups it into
// mini-batches for training.
//
// Two on-disk formats are supported: the official IDX binary files and
// Kaggle-style CSV. Pixels are normalized to [0, 1] at load time; labels
// are validated to be digits in [0, 9]. Downloading the dataset is the
// caller's problem.
package mnist

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Image geometry for MNIST.
const (
	ImageRows  = 28
	ImageCols  = 28
	ImageSize  = ImageRows * ImageCols // 784 flattened pixels
	NumClasses = 10
)

// Dataset holds flattened images and their labels.
//
// Invariant: len(Images) == len(Labels), every image has ImageSize
// pixels, every label is in [0, NumClasses).
type Dataset struct {
	Images [][]float32 // [num_samples][784], pixels in [0, 1]
	Labels []int       // [num_samples], values in [0, 9]
}

// NumSamples returns the total number of samples in the dataset.
func (d *Dataset) NumSamples() int {
	return len(d.Images)
}

// Split splits the dataset into two parts, the first holding
// (1 - ratio) of the samples. No copying: both halves alias d.
func (d *Dataset) Split(ratio float32) (*Dataset, *Dataset) {
	splitIdx := int(float32(d.NumSamples()) * (1.0 - ratio))
	return &Dataset{
			Images: d.Images[:splitIdx],
			Labels: d.Labels[:splitIdx],
		}, &Dataset{
			Images: d.Images[splitIdx:],
			Labels: d.Labels[splitIdx:],
		}
}

// LoadCSV loads digit data from a Kaggle-style CSV file:
//
//	label,pixel0,pixel1,...,pixel783
//	5,0,0,12,...,0
//
// maxSamples limits how many rows are kept (0 = all). Pixels are
// normalized from 0-255 to [0, 1].
func LoadCSV(filename string, maxSamples int) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file is empty or missing header")
	}

	// Skip header row.
	records = records[1:]
	numSamples := len(records)
	if maxSamples > 0 && numSamples > maxSamples {
		numSamples = maxSamples
		records = records[:numSamples]
	}

	images := make([][]float32, numSamples)
	labels := make([]int, numSamples)

	for i, record := range records {
		if len(record) != ImageSize+1 { // 1 label + 784 pixels
			return nil, fmt.Errorf("invalid record length at row %d: got %d, want %d",
				i+1, len(record), ImageSize+1)
		}

		label, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid label at row %d: %w", i+1, err)
		}
		if label < 0 || label >= NumClasses {
			return nil, fmt.Errorf("label out of range [0, %d] at row %d: %d", NumClasses-1, i+1, label)
		}
		labels[i] = label

		images[i] = make([]float32, ImageSize)
		for j := 0; j < ImageSize; j++ {
			pixel, err := strconv.Atoi(record[j+1])
			if err != nil {
				return nil, fmt.Errorf("invalid pixel at row %d, column %d: %w", i+1, j+1, err)
			}
			images[i][j] = float32(pixel) / 255.0
		}
	}

	return &Dataset{Images: images, Labels: labels}, nil
}

// Load loads digit data from official IDX binary files in dataDir.
//
// Expected files:
//   - train-images-idx3-ubyte and train-labels-idx1-ubyte (train=true)
//   - t10k-images-idx3-ubyte and t10k-labels-idx1-ubyte (train=false)
//
// maxSamples limits how many samples are kept (0 = all). Pixels are
// normalized from 0-255 to [0, 1].
func Load(dataDir string, train bool, maxSamples int) (*Dataset, error) {
	var imageFile, labelFile string
	if train {
		imageFile = filepath.Join(dataDir, "train-images-idx3-ubyte")
		labelFile = filepath.Join(dataDir, "train-labels-idx1-ubyte")
	} else {
		imageFile = filepath.Join(dataDir, "t10k-images-idx3-ubyte")
		labelFile = filepath.Join(dataDir, "t10k-labels-idx1-ubyte")
	}

	imagesRaw, err := readIDXImages(imageFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	labelsRaw, err := readIDXLabels(labelFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	if len(imagesRaw) != len(labelsRaw) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", len(imagesRaw), len(labelsRaw))
	}

	numSamples := len(imagesRaw)
	if maxSamples > 0 && numSamples > maxSamples {
		numSamples = maxSamples
	}

	images := make([][]float32, numSamples)
	labels := make([]int, numSamples)
	for i := 0; i < numSamples; i++ {
		if len(imagesRaw[i]) != ImageSize {
			return nil, fmt.Errorf("image %d has %d pixels, want %d", i, len(imagesRaw[i]), ImageSize)
		}
		images[i] = make([]float32, ImageSize)
		for j, p := range imagesRaw[i] {
			images[i][j] = float32(p) / 255.0
		}
		label := int(labelsRaw[i])
		if label < 0 || label >= NumClasses {
			return nil, fmt.Errorf("label out of range [0, %d] at sample %d: %d", NumClasses-1, i, label)
		}
		labels[i] = label
	}

	return &Dataset{Images: images, Labels: labels}, nil
}

// Synthetic creates a tiny synthetic dataset, one crude pattern per
// digit. Useful for exercising the pipeline without real data on disk;
// the patterns are not realistic digits.
func Synthetic() *Dataset {
	images := make([][]float32, NumClasses)
	labels := make([]int, NumClasses)

	for i := 0; i < NumClasses; i++ {
		images[i] = make([]float32, ImageSize)
		labels[i] = i

		// A bright horizontal band whose position encodes the digit.
		startRow := i * 2
		for row := startRow; row < startRow+8 && row < ImageRows; row++ {
			for col := 5; col < 23; col++ {
				images[i][row*ImageCols+col] = 0.8
			}
		}
	}

	return &Dataset{Images: images, Labels: labels}
}
