// Command digit trains a fully-connected digit classifier on MNIST.
//
// With -data pointing at a directory of IDX files (or -csv at a
// Kaggle-style CSV) it trains a 784→128→10 network and reports test
// accuracy. Without data flags it falls back to a tiny synthetic dataset
// so the pipeline can be exercised end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/born-ml/digit/mnist"
	"github.com/born-ml/digit/nn"
	"github.com/born-ml/digit/train"
)

const hiddenSize = 128

func main() {
	var (
		dataDir   = flag.String("data", "", "directory with MNIST IDX files (train-images-idx3-ubyte, ...)")
		csvPath   = flag.String("csv", "", "path to Kaggle-style MNIST CSV (alternative to -data)")
		epochs    = flag.Int("epochs", 3, "number of passes over the training data")
		lr        = flag.Float64("lr", 0.1, "SGD learning rate")
		batchSize = flag.Int("batch", 64, "mini-batch size")
		seed      = flag.Int64("seed", 1, "seed for weight init and shuffling")
		limit     = flag.Int("limit", 0, "max training samples to load (0 = all)")
	)
	flag.Parse()

	if err := run(*dataDir, *csvPath, *epochs, float32(*lr), *batchSize, *seed, *limit); err != nil {
		fmt.Fprintln(os.Stderr, "digit:", err)
		os.Exit(1)
	}
}

func run(dataDir, csvPath string, epochs int, lr float32, batchSize int, seed int64, limit int) error {
	trainData, testData, err := loadData(dataDir, csvPath, limit)
	if err != nil {
		return err
	}
	fmt.Printf("training on %d samples, evaluating on %d\n",
		trainData.NumSamples(), testData.NumSamples())

	batches, err := mnist.Batches(trainData, batchSize, true, seed)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	net := nn.NewNetwork(
		nn.NewLinear(mnist.ImageSize, hiddenSize, rng),
		nn.NewReLU(),
		nn.NewLinear(hiddenSize, mnist.NumClasses, rng),
	)

	trainer, err := train.New(net, train.Config{Epochs: epochs, LearningRate: lr})
	if err != nil {
		return err
	}
	if _, err := trainer.Run(context.Background(), batches); err != nil {
		return err
	}

	return evaluate(net, testData, batchSize)
}

// loadData resolves the three data sources in priority order:
// IDX directory, CSV file, synthetic fallback.
func loadData(dataDir, csvPath string, limit int) (trainData, testData *mnist.Dataset, err error) {
	switch {
	case dataDir != "":
		trainData, err = mnist.Load(dataDir, true, limit)
		if err != nil {
			return nil, nil, err
		}
		testData, err = mnist.Load(dataDir, false, 0)
		if err != nil {
			return nil, nil, err
		}
	case csvPath != "":
		all, err := mnist.LoadCSV(csvPath, limit)
		if err != nil {
			return nil, nil, err
		}
		trainData, testData = all.Split(0.2)
	default:
		fmt.Println("no -data or -csv given, using synthetic dataset")
		trainData = mnist.Synthetic()
		testData = trainData
	}
	return trainData, testData, nil
}

// evaluate reports accuracy over the test set and, for the first test
// sample, the per-class probability distribution.
func evaluate(net *nn.Network, testData *mnist.Dataset, batchSize int) error {
	batches, err := mnist.Batches(testData, batchSize, false, 0)
	if err != nil {
		return err
	}

	correct, total := 0, 0
	for _, b := range batches {
		preds := nn.Predict(net.Forward(b.Images))
		for i, p := range preds {
			if p == b.Labels[i] {
				correct++
			}
		}
		total += b.Size
	}
	fmt.Printf("test accuracy: %.2f%% (%d/%d)\n",
		100*float64(correct)/float64(total), correct, total)

	sample := batches[0]
	probs := nn.Probabilities(net.Forward(sample.Images))
	fmt.Printf("sample label=%d probabilities:\n", sample.Labels[0])
	for class, p := range probs.Row(0) {
		fmt.Printf("  %d: %.4f\n", class, p)
	}
	return nil
}
