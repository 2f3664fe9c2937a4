// Package hexpipe is the software side of a hardware convolution pipeline:
// a fixed integer kernel bank, a bit-exact model of the convolution, ReLU and
// max-pooling stages, the hex interchange format the hardware reads and
// writes, and diagnostics that rebuild per-kernel images from a possibly
// truncated output stream.
//
// # Core Features
//
//   - Compiled-in 1D (4 kernels) and 2D (11 kernels) banks in a fixed wire order
//   - Valid-mode integer convolution with int32 outputs that cannot overflow
//   - ReLU and max pooling with "valid" windows
//   - Hex encoder that refuses out-of-range samples instead of masking them
//   - Best-effort hex decoder that counts and reports malformed lines
//   - Block reconstruction with zero-padded partial blocks and a completeness
//     classification (Empty, Incomplete, Partial, Complete)
//   - Transparent zstd, S2 and LZ4 compression of hex dumps
//
// # Basic Usage
//
// Running the 1D pipeline:
//
//	run, _ := hexpipe.Run1D([]uint8{1, 2, 3, 4, 5}, "edge")
//	fmt.Println(run.Convolved, run.Activated, run.Pooled) // [2 2 2] [2 2 2] [2]
//
// Producing the stream the hardware should emit for an image:
//
//	img, _ := signal.ReadMatrix(f)
//	var buf bytes.Buffer
//	_ = hexpipe.WriteReferenceStream(&buf, img)
//
// Checking what the hardware actually emitted:
//
//	rec, res, _ := hexpipe.ReconstructStream(out, signal.Shape{Height: 62, Width: 62})
//	fmt.Println(rec.Report.Classification, res.InvalidCount)
//	for _, b := range rec.Blocks {
//	    fmt.Println(b.FileName("output"))
//	}
//
// # Package Structure
//
// This package wraps the most common flows. The building blocks live in
// kernel, conv, hexcodec, diag and compress, and can be used directly for
// finer control.
package hexpipe

import (
	"io"

	"github.com/arloliu/hexpipe/conv"
	"github.com/arloliu/hexpipe/diag"
	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/hexcodec"
	"github.com/arloliu/hexpipe/kernel"
	"github.com/arloliu/hexpipe/signal"
)

// Kernel looks up a kernel by dimensionality and case-insensitive name.
//
// Example:
//
//	k, err := hexpipe.Kernel(format.Dim2D, "Sobel_H")
func Kernel(dim format.Dimensionality, name string) (kernel.Kernel, error) {
	return kernel.Lookup(dim, name)
}

// KernelNames returns the valid kernel names for dim in canonical order.
func KernelNames(dim format.Dimensionality) []string {
	return kernel.Names(dim)
}

// Run1D runs convolution, ReLU and max pooling (2/2 by default) for one 1D
// kernel.
//
// Parameters:
//   - in: Flattened 8-bit input
//   - name: identity, blur, gaussian or edge, in any case
//   - opts: conv.WithMode, conv.WithPoolSize, conv.WithStride
//
// Returns:
//   - *conv.Run1D: The three intermediates
//   - error: ErrInvalidKernelName, ErrInvalidDimensions or ErrInvalidPoolConfig
func Run1D(in []uint8, name string, opts ...conv.Option) (*conv.Run1D, error) {
	return conv.Pipeline1D(in, name, opts...)
}

// WriteReferenceStream writes the hex stream the hardware is expected to emit
// for img: one block per 2D kernel in canonical order.
//
// Example:
//
//	err := hexpipe.WriteReferenceStream(f, img, conv.WithNormalize(true))
func WriteReferenceStream(w io.Writer, img signal.Matrix[uint8], opts ...conv.Option) error {
	blocks, err := conv.ReferenceBank(img, opts...)
	if err != nil {
		return err
	}

	return hexcodec.EncodeBlocks(w, blocks...)
}

// AnalyzeStream decodes r and reports how much of a k-kernel stream of the
// given block shape arrived.
//
// Malformed lines never fail the call; they are counted in the report and
// detailed in the returned DecodeResult.
func AnalyzeStream(r io.Reader, shape signal.Shape, k int) (diag.Report, *hexcodec.DecodeResult, error) {
	res, err := hexcodec.Decode(r)
	if err != nil {
		return diag.Report{}, nil, err
	}
	rep, err := diag.AnalyzeDecoded(res, shape, k)
	if err != nil {
		return diag.Report{}, nil, err
	}

	return rep, res, nil
}

// ReconstructStream decodes a full 2D bank stream from r and cuts it into
// blocks labelled with the canonical 2D kernel labels.
//
// Returns:
//   - *diag.Reconstruction: Blocks and report, including the invalid line count
//   - *hexcodec.DecodeResult: The decoded stream
//   - error: Read errors or ErrInvalidShape
func ReconstructStream(r io.Reader, shape signal.Shape) (*diag.Reconstruction, *hexcodec.DecodeResult, error) {
	res, err := hexcodec.Decode(r)
	if err != nil {
		return nil, nil, err
	}
	rec, err := diag.ReconstructBank(res.Samples, shape)
	if err != nil {
		return nil, nil, err
	}
	rec.Report.InvalidLines = res.InvalidCount

	return rec, res, nil
}
