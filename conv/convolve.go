package conv

import (
	"fmt"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/kernel"
	"github.com/arloliu/hexpipe/signal"
)

// Convolve1D applies a 1D kernel to an 8-bit stream in valid mode.
//
// Parameters:
//   - in: Input samples
//   - k: A kernel from the 1D bank
//   - opts: WithMode selects the tap order
//
// Returns:
//   - []int32: len(in)-k.Len()+1 outputs
//   - error: ErrInvalidDimensions if k is not 1D or longer than the input
func Convolve1D(in []uint8, k kernel.Kernel, opts ...Option) ([]int32, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	if k.Dim() != format.Dim1D {
		return nil, fmt.Errorf("%w: %s is not a 1D kernel", errs.ErrInvalidDimensions, k)
	}
	n := k.Len()
	if len(in) < n {
		return nil, fmt.Errorf("%w: %d samples for %d-tap kernel %s", errs.ErrInvalidDimensions, len(in), n, k.Name())
	}

	taps := orderedTaps(k, cfg.mode)
	out := make([]int32, len(in)-n+1)
	for i := range out {
		var acc int32
		for j, t := range taps {
			acc += int32(in[i+j]) * t
		}
		out[i] = acc
	}

	return out, nil
}

// Convolve2D applies a 3x3 kernel to a row-major 8-bit matrix in valid mode.
//
// Returns:
//   - signal.Matrix[int32]: (H-kh+1) x (W-kw+1) outputs
//   - error: ErrInvalidDimensions if k is not 2D, the matrix is malformed, or
//     the kernel does not fit
func Convolve2D(in signal.Matrix[uint8], k kernel.Kernel, opts ...Option) (signal.Matrix[int32], error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return signal.Matrix[int32]{}, err
	}
	if k.Dim() != format.Dim2D {
		return signal.Matrix[int32]{}, fmt.Errorf("%w: %s is not a 2D kernel", errs.ErrInvalidDimensions, k)
	}
	if in.Shape.Validate() != nil || len(in.Data) != in.Len() {
		return signal.Matrix[int32]{}, fmt.Errorf("%w: %d samples for shape %s", errs.ErrInvalidDimensions, len(in.Data), in.Shape)
	}
	kh, kw := k.Rows(), k.Cols()
	if in.Height < kh || in.Width < kw {
		return signal.Matrix[int32]{}, fmt.Errorf("%w: %s input for %dx%d kernel %s", errs.ErrInvalidDimensions, in.Shape, kh, kw, k.Name())
	}

	taps := orderedTaps(k, cfg.mode)
	shape := signal.Shape{Height: in.Height - kh + 1, Width: in.Width - kw + 1}
	out := make([]int32, shape.Len())
	for r := 0; r < shape.Height; r++ {
		for c := 0; c < shape.Width; c++ {
			var acc int32
			for i := 0; i < kh; i++ {
				row := in.Data[(r+i)*in.Width+c:]
				for j := 0; j < kw; j++ {
					acc += int32(row[j]) * taps[i*kw+j]
				}
			}
			out[r*shape.Width+c] = acc
		}
	}

	return signal.Matrix[int32]{Shape: shape, Data: out}, nil
}

// orderedTaps widens the taps, reversing them for true convolution. Reversing
// the row-major slice flips both axes of a 2D kernel.
func orderedTaps(k kernel.Kernel, mode format.ConvolutionMode) []int32 {
	src := k.Taps()
	taps := make([]int32, len(src))
	for i, t := range src {
		if mode == format.ModeConvolution {
			taps[len(src)-1-i] = int32(t)
		} else {
			taps[i] = int32(t)
		}
	}

	return taps
}

// Normalize divides every value by divisor, rounding to nearest with ties away
// from zero.
//
// Returns ErrInvalidDivisor for a non-positive divisor.
func Normalize(values []int32, divisor int32) ([]int32, error) {
	if divisor <= 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidDivisor, divisor)
	}

	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = divRound(v, divisor)
	}

	return out, nil
}

func divRound(v, d int32) int32 {
	q, r := v/d, v%d
	if r < 0 {
		r = -r
	}
	if 2*int64(r) >= int64(d) {
		if v < 0 {
			q--
		} else {
			q++
		}
	}

	return q
}
