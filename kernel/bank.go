package kernel

import (
	"fmt"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/format"
)

// ID1D identifies a 1D kernel; its value is the canonical index.
type ID1D uint8

const (
	Identity1D ID1D = iota
	Blur1D
	Gaussian1D
	Edge1D

	numKernels1D = int(Edge1D) + 1
)

// ID2D identifies a 2D kernel; its value is the canonical index and the block
// position in a multi-kernel hardware stream.
type ID2D uint8

const (
	Identity ID2D = iota
	PrewittH
	PrewittV
	Sharpen
	BoxBlur
	Gaussian
	SobelH
	SobelV
	Scharr
	Laplacian
	LaplacianDiag

	numKernels2D = int(LaplacianDiag) + 1
)

// Count1D and Count2D are the sizes of the two banks.
const (
	Count1D = numKernels1D
	Count2D = numKernels2D
)

func k1(id ID1D, name, label string, divisor int32, a, b, c int8) Kernel {
	return Kernel{
		name: name, label: label, dim: format.Dim1D, index: int(id),
		rows: 1, cols: 3, taps: [9]int8{a, b, c}, divisor: divisor,
	}
}

func k2(id ID2D, name, label string, divisor int32, taps [9]int8) Kernel {
	return Kernel{
		name: name, label: label, dim: format.Dim2D, index: int(id),
		rows: 3, cols: 3, taps: taps, divisor: divisor,
	}
}

var bank1D = [numKernels1D]Kernel{
	Identity1D: k1(Identity1D, "identity", "Identity", 1, 0, 1, 0),
	Blur1D:     k1(Blur1D, "blur", "Blur", 3, 1, 1, 1),
	Gaussian1D: k1(Gaussian1D, "gaussian", "Gaussian", 4, 1, 2, 1),
	Edge1D:     k1(Edge1D, "edge", "Edge", 1, -1, 0, 1),
}

var bank2D = [numKernels2D]Kernel{
	Identity: k2(Identity, "identity", "Identity", 1, [9]int8{
		0, 0, 0,
		0, 1, 0,
		0, 0, 0,
	}),
	PrewittH: k2(PrewittH, "prewitt_h", "Prewitt_H", 1, [9]int8{
		-1, 0, 1,
		-1, 0, 1,
		-1, 0, 1,
	}),
	PrewittV: k2(PrewittV, "prewitt_v", "Prewitt_V", 1, [9]int8{
		1, 1, 1,
		0, 0, 0,
		-1, -1, -1,
	}),
	Sharpen: k2(Sharpen, "sharpen", "Sharpening", 1, [9]int8{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}),
	BoxBlur: k2(BoxBlur, "box_blur", "Box_Blur", 9, [9]int8{
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	}),
	Gaussian: k2(Gaussian, "gaussian", "Gaussian_Blur", 16, [9]int8{
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	}),
	SobelH: k2(SobelH, "sobel_h", "Sobel_H", 1, [9]int8{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}),
	SobelV: k2(SobelV, "sobel_v", "Sobel_V", 1, [9]int8{
		1, 2, 1,
		0, 0, 0,
		-1, -2, -1,
	}),
	Scharr: k2(Scharr, "scharr", "Scharr", 1, [9]int8{
		-3, 0, 3,
		-10, 0, 10,
		-3, 0, 3,
	}),
	Laplacian: k2(Laplacian, "laplacian", "Laplacian", 1, [9]int8{
		0, 1, 0,
		1, -4, 1,
		0, 1, 0,
	}),
	LaplacianDiag: k2(LaplacianDiag, "laplacian_diag", "Laplacian_Diagonal", 1, [9]int8{
		1, 1, 1,
		1, -8, 1,
		1, 1, 1,
	}),
}

// Kernel returns the catalog entry for the identifier.
func (id ID1D) Kernel() Kernel {
	if int(id) >= numKernels1D {
		panic(fmt.Sprintf("kernel: invalid 1D id %d", id))
	}

	return bank1D[id]
}

func (id ID1D) String() string {
	if int(id) >= numKernels1D {
		return "unknown"
	}

	return bank1D[id].name
}

// Kernel returns the catalog entry for the identifier.
func (id ID2D) Kernel() Kernel {
	if int(id) >= numKernels2D {
		panic(fmt.Sprintf("kernel: invalid 2D id %d", id))
	}

	return bank2D[id]
}

func (id ID2D) String() string {
	if int(id) >= numKernels2D {
		return "unknown"
	}

	return bank2D[id].name
}

// Lookup1D resolves a case-insensitive 1D kernel name.
func Lookup1D(name string) (ID1D, error) {
	n := normalizeName(name)
	for i := range bank1D {
		if bank1D[i].name == n {
			return ID1D(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q is not a 1D kernel (valid: %v)", errs.ErrInvalidKernelName, name, Names(format.Dim1D))
}

// Lookup2D resolves a case-insensitive 2D kernel name.
func Lookup2D(name string) (ID2D, error) {
	n := normalizeName(name)
	for i := range bank2D {
		if bank2D[i].name == n {
			return ID2D(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q is not a 2D kernel (valid: %v)", errs.ErrInvalidKernelName, name, Names(format.Dim2D))
}
