package mnist

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// IDX magic numbers, per the format description on the MNIST page:
// a 4-byte magic, then big-endian uint32 dimensions, then raw bytes.
const (
	idxImagesMagic = 2051 // 0x00000803: unsigned byte, 3 dimensions
	idxLabelsMagic = 2049 // 0x00000801: unsigned byte, 1 dimension
)

// readIDXImages reads an IDX image file: magic, count, rows, cols,
// then count*rows*cols unsigned bytes.
func readIDXImages(filename string) ([][]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var header struct {
		Magic, NumImages, NumRows, NumCols uint32
	}
	if err := binary.Read(file, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header.Magic != idxImagesMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", header.Magic, idxImagesMagic)
	}

	imageSize := int(header.NumRows * header.NumCols)
	images := make([][]byte, header.NumImages)
	for i := range images {
		images[i] = make([]byte, imageSize)
		if _, err := io.ReadFull(file, images[i]); err != nil {
			return nil, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}

	return images, nil
}

// readIDXLabels reads an IDX label file: magic, count, then count
// unsigned bytes.
func readIDXLabels(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var header struct {
		Magic, NumLabels uint32
	}
	if err := binary.Read(file, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header.Magic != idxLabelsMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", header.Magic, idxLabelsMagic)
	}

	labels := make([]byte, header.NumLabels)
	if _, err := io.ReadFull(file, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}

	return labels, nil
}
