package conv

import (
	"fmt"

	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/kernel"
	"github.com/arloliu/hexpipe/signal"
)

// Reference2D predicts the 8-bit block the hardware emits for one 2D kernel:
// valid convolution, optional normalization by the kernel divisor, ReLU, then
// saturation to [0, 255].
func Reference2D(in signal.Matrix[uint8], k kernel.Kernel, opts ...Option) (signal.Matrix[uint8], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return signal.Matrix[uint8]{}, err
	}

	sums, err := Convolve2D(in, k, WithMode(cfg.mode))
	if err != nil {
		return signal.Matrix[uint8]{}, err
	}

	values := sums.Data
	if cfg.normalize {
		if values, err = Normalize(values, k.Divisor()); err != nil {
			return signal.Matrix[uint8]{}, err
		}
	}

	return signal.Matrix[uint8]{Shape: sums.Shape, Data: Saturate8(ReLU(values))}, nil
}

// ReferenceBank runs Reference2D for all 2D kernels in canonical order, which is
// also the block order of a complete hardware stream.
func ReferenceBank(in signal.Matrix[uint8], opts ...Option) ([]signal.Matrix[uint8], error) {
	kernels := kernel.CanonicalOrder(format.Dim2D)
	out := make([]signal.Matrix[uint8], 0, len(kernels))
	for _, k := range kernels {
		block, err := Reference2D(in, k, opts...)
		if err != nil {
			return nil, fmt.Errorf("kernel %s: %w", k.Name(), err)
		}
		out = append(out, block)
	}

	return out, nil
}
