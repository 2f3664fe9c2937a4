// Package kernel holds the compiled-in catalog of integer convolution kernels.
//
// The bank is a closed enumeration: every kernel has a typed identifier (ID1D or
// ID2D) whose numeric value is its position in the canonical order. The 2D order
// is part of the hex interchange contract, since a multi-kernel hardware stream
// carries one block per kernel in exactly this order:
//
//	identity, prewitt_h, prewitt_v, sharpen, box_blur, gaussian,
//	sobel_h, sobel_v, scharr, laplacian, laplacian_diag
//
// Coefficients are pre-scaled integers. Normalization divisors (9 for the 2D box
// blur, 16 for the 2D gaussian) are exposed as metadata and never folded into the
// stored taps; conv.Normalize applies them on request.
package kernel

import (
	"fmt"
	"strings"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/format"
)

// Kernel is an immutable description of one catalog entry.
//
// The zero value is not a valid kernel; obtain kernels from an ID, Lookup or
// CanonicalOrder.
type Kernel struct {
	name    string
	label   string
	dim     format.Dimensionality
	index   int
	rows    int
	cols    int
	taps    [9]int8 // row-major, only rows*cols entries are meaningful
	divisor int32
}

// Name returns the lower-case selection name, e.g. "sobel_h".
func (k Kernel) Name() string { return k.name }

// Label returns the display label used in reconstructed block file names, e.g. "Sobel_H".
func (k Kernel) Label() string { return k.label }

// Dim returns the kernel dimensionality.
func (k Kernel) Dim() format.Dimensionality { return k.dim }

// Index returns the kernel position in the canonical order of its bank.
func (k Kernel) Index() int { return k.index }

// Rows returns the number of tap rows (1 for 1D kernels).
func (k Kernel) Rows() int { return k.rows }

// Cols returns the number of tap columns.
func (k Kernel) Cols() int { return k.cols }

// Len returns the total number of taps.
func (k Kernel) Len() int { return k.rows * k.cols }

// At returns the tap at row r and column c.
func (k Kernel) At(r, c int) int8 {
	if r < 0 || r >= k.rows || c < 0 || c >= k.cols {
		panic(fmt.Sprintf("kernel %s: tap (%d,%d) out of range", k.name, r, c))
	}

	return k.taps[r*k.cols+c]
}

// Taps returns a row-major copy of the coefficients.
func (k Kernel) Taps() []int8 {
	out := make([]int8, k.Len())
	copy(out, k.taps[:k.Len()])

	return out
}

// Divisor returns the normalization divisor documented for the kernel (1 when none).
func (k Kernel) Divisor() int32 { return k.divisor }

// MagnitudeSum returns the sum of absolute tap values.
//
// MagnitudeSum * 255 bounds the absolute value of any convolution output over
// 8-bit input, which is why int32 is always wide enough.
func (k Kernel) MagnitudeSum() int32 {
	var sum int32
	for _, t := range k.taps[:k.Len()] {
		if t < 0 {
			sum -= int32(t)
		} else {
			sum += int32(t)
		}
	}

	return sum
}

func (k Kernel) String() string {
	return fmt.Sprintf("%s/%s", k.dim, k.name)
}

// Lookup finds a kernel by dimensionality and name.
//
// The name is trimmed and lower-cased before matching.
//
// Returns:
//   - Kernel: The matching kernel
//   - error: ErrInvalidKernelName for an unknown name, ErrInvalidDimensions for an unknown dimensionality
func Lookup(dim format.Dimensionality, name string) (Kernel, error) {
	switch dim {
	case format.Dim1D:
		id, err := Lookup1D(name)
		if err != nil {
			return Kernel{}, err
		}

		return id.Kernel(), nil
	case format.Dim2D:
		id, err := Lookup2D(name)
		if err != nil {
			return Kernel{}, err
		}

		return id.Kernel(), nil
	default:
		return Kernel{}, fmt.Errorf("%w: unknown dimensionality %d", errs.ErrInvalidDimensions, dim)
	}
}

// CanonicalOrder returns the kernels of a bank in wire order.
// An unknown dimensionality yields nil.
func CanonicalOrder(dim format.Dimensionality) []Kernel {
	switch dim {
	case format.Dim1D:
		out := make([]Kernel, len(bank1D))
		copy(out, bank1D[:])

		return out
	case format.Dim2D:
		out := make([]Kernel, len(bank2D))
		copy(out, bank2D[:])

		return out
	default:
		return nil
	}
}

// Names returns the selection names of a bank in canonical order.
func Names(dim format.Dimensionality) []string {
	kernels := CanonicalOrder(dim)
	names := make([]string, len(kernels))
	for i, k := range kernels {
		names[i] = k.name
	}

	return names
}

// Labels returns the display labels of a bank in canonical order.
func Labels(dim format.Dimensionality) []string {
	kernels := CanonicalOrder(dim)
	labels := make([]string, len(kernels))
	for i, k := range kernels {
		labels[i] = k.label
	}

	return labels
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
