package diag

import (
	"fmt"

	"github.com/arloliu/hexpipe/internal/hash"
	"github.com/arloliu/hexpipe/signal"
)

// PartialSuffix marks the file name of a zero-padded partial block.
const PartialSuffix = "_PARTIAL"

// Block is one reconstructed kernel output, row-major.
type Block struct {
	Index   int          `json:"index"`
	Name    string       `json:"name"`
	Partial bool         `json:"partial"`
	Shape   signal.Shape `json:"shape"`
	Data    []int64      `json:"data"`
}

// Rows splits the block into Shape.Height rows sharing Data.
func (b Block) Rows() [][]int64 {
	rows := make([][]int64, b.Shape.Height)
	for r := range rows {
		rows[r] = b.Data[r*b.Shape.Width : (r+1)*b.Shape.Width]
	}

	return rows
}

// Matrix returns the block as a matrix view over Data.
func (b Block) Matrix() signal.Matrix[int64] {
	return signal.Matrix[int64]{Shape: b.Shape, Data: b.Data}
}

// Image narrows the block to an 8-bit image.
//
// Returns ErrOutOfRangeSample if the hardware emitted a value above 255.
func (b Block) Image() (signal.Matrix[uint8], error) {
	data, err := signal.Narrow(b.Data)
	if err != nil {
		return signal.Matrix[uint8]{}, fmt.Errorf("block %d (%s): %w", b.Index, b.Name, err)
	}

	return signal.NewMatrix(b.Shape, data)
}

// Fingerprint returns the xxHash64 of the block samples.
func (b Block) Fingerprint() uint64 {
	return hash.Samples(b.Data)
}

// FileName returns "<base>_kernel_<NN>_<name>", with "_PARTIAL" appended for a
// partial block. No extension is added.
func (b Block) FileName(base string) string {
	name := fmt.Sprintf("%s_kernel_%02d_%s", base, b.Index, b.Name)
	if b.Partial {
		name += PartialSuffix
	}

	return name
}
