package diag

import (
	"fmt"
	"slices"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/kernel"
	"github.com/arloliu/hexpipe/signal"
)

// Reconstruction is the block set cut from one decoded stream. It is built
// once and never mutated.
type Reconstruction struct {
	Shape   signal.Shape
	Kernels int
	Blocks  []Block
	Report  Report
}

// Complete returns the full blocks.
func (r *Reconstruction) Complete() []Block {
	if n := len(r.Blocks); n > 0 && r.Blocks[n-1].Partial {
		return r.Blocks[:n-1]
	}

	return r.Blocks
}

// PartialBlock returns the trailing zero-padded block, if any.
func (r *Reconstruction) PartialBlock() (Block, bool) {
	if n := len(r.Blocks); n > 0 && r.Blocks[n-1].Partial {
		return r.Blocks[n-1], true
	}

	return Block{}, false
}

// Reconstruct cuts samples into blocks of shape, labelled in order by names.
//
// Block i covers samples[i*w*h : (i+1)*w*h] for every full block with a name.
// Trailing samples that do not fill a block form one partial block, padded
// with zeros, when a name is left for it. Samples past k full blocks are
// counted in Report.OverflowSamples.
//
// Parameters:
//   - samples: Decoded stream, not modified
//   - shape: Per-kernel output shape
//   - k: Expected number of kernels
//   - names: Block labels in stream order; at least k entries
//
// Returns:
//   - *Reconstruction: Blocks and report
//   - error: ErrInvalidShape, or ErrInvalidKernelCount for k <= 0 or too few names
func Reconstruct(samples []int64, shape signal.Shape, k int, names []string) (*Reconstruction, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 || len(names) < k {
		return nil, fmt.Errorf("%w: %d kernels with %d names", errs.ErrInvalidKernelCount, k, len(names))
	}

	rep, err := Analyze(len(samples), shape, k)
	if err != nil {
		return nil, err
	}

	size := shape.Len()
	full := min(rep.CompleteKernels, len(names))
	blocks := make([]Block, 0, full+1)
	for i := 0; i < full; i++ {
		blocks = append(blocks, Block{
			Index: i,
			Name:  names[i],
			Shape: shape,
			Data:  slices.Clone(samples[i*size : (i+1)*size]),
		})
	}

	if rep.RemainderSamples > 0 && rep.CompleteKernels < len(names) {
		data := make([]int64, size)
		copy(data, samples[len(samples)-rep.RemainderSamples:])
		blocks = append(blocks, Block{
			Index:   rep.CompleteKernels,
			Name:    names[rep.CompleteKernels],
			Partial: true,
			Shape:   shape,
			Data:    data,
		})
	}

	return &Reconstruction{Shape: shape, Kernels: k, Blocks: blocks, Report: rep}, nil
}

// ReconstructBank reconstructs a full 2D bank stream, labelling blocks with the
// canonical 2D kernel labels.
func ReconstructBank(samples []int64, shape signal.Shape) (*Reconstruction, error) {
	return Reconstruct(samples, shape, kernel.Count2D, kernel.Labels(format.Dim2D))
}
