// Package signal defines the sample streams exchanged between pipeline stages.
//
// Bit width and signedness are carried by the Go element type:
//   - uint8: raw 8-bit grayscale samples, the only values the hex format carries
//   - int32: convolution, activation and pooling results
//   - int64: decoded hex values, which are not range-checked on read
//
// 2D data is a Matrix stored row-major: row 0 left to right, then row 1, and so on.
package signal

import (
	"fmt"
	"math"

	"github.com/arloliu/hexpipe/errs"
)

// Integer is the set of sample element types.
type Integer interface {
	~uint8 | ~int16 | ~int32 | ~int64 | ~int
}

// Shape is the (height, width) of a 2D sample block.
type Shape struct {
	Height int `json:"height" toml:"height"`
	Width  int `json:"width" toml:"width"`
}

// Len returns Height*Width.
func (s Shape) Len() int {
	return s.Height * s.Width
}

// Validate reports ErrInvalidShape unless both sides are positive and
// Height*Width fits in an int.
func (s Shape) Validate() error {
	if s.Height <= 0 || s.Width <= 0 {
		return fmt.Errorf("%w: %dx%d", errs.ErrInvalidShape, s.Height, s.Width)
	}
	if s.Height > math.MaxInt/s.Width {
		return fmt.Errorf("%w: %dx%d overflows the sample count", errs.ErrInvalidShape, s.Height, s.Width)
	}

	return nil
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Height, s.Width)
}

// Matrix is a row-major 2D sample block.
type Matrix[T Integer] struct {
	Shape
	Data []T
}

// NewMatrix wraps data as a matrix of the given shape.
//
// The data slice is used as-is, not copied.
//
// Returns:
//   - Matrix[T]: The matrix view over data
//   - error: ErrInvalidShape for a non-positive shape, ErrInvalidDimensions if len(data) != shape.Len()
func NewMatrix[T Integer](shape Shape, data []T) (Matrix[T], error) {
	if err := shape.Validate(); err != nil {
		return Matrix[T]{}, err
	}
	if len(data) != shape.Len() {
		return Matrix[T]{}, fmt.Errorf("%w: %d samples for shape %s", errs.ErrInvalidDimensions, len(data), shape)
	}

	return Matrix[T]{Shape: shape, Data: data}, nil
}

// FromRows builds a matrix by copying equally sized rows.
func FromRows[T Integer](rows [][]T) (Matrix[T], error) {
	if len(rows) == 0 {
		return Matrix[T]{}, fmt.Errorf("%w: no rows", errs.ErrInvalidShape)
	}

	width := len(rows[0])
	data := make([]T, 0, len(rows)*width)
	for i, row := range rows {
		if len(row) != width {
			return Matrix[T]{}, fmt.Errorf("%w: row %d has %d samples, want %d", errs.ErrInvalidDimensions, i, len(row), width)
		}
		data = append(data, row...)
	}

	return NewMatrix(Shape{Height: len(rows), Width: width}, data)
}

// At returns the sample at row r, column c.
func (m Matrix[T]) At(r, c int) T {
	return m.Data[r*m.Width+c]
}

// Row returns row r as a sub-slice of the underlying data.
func (m Matrix[T]) Row(r int) []T {
	return m.Data[r*m.Width : (r+1)*m.Width]
}

// Rows returns the matrix as a slice of row sub-slices.
func (m Matrix[T]) Rows() [][]T {
	rows := make([][]T, m.Height)
	for r := range rows {
		rows[r] = m.Row(r)
	}

	return rows
}

// Narrow converts samples to uint8, failing on the first value outside [0, 255].
func Narrow[T Integer](in []T) ([]uint8, error) {
	out := make([]uint8, len(in))
	for i, v := range in {
		if v < 0 || int64(v) > 255 {
			return nil, fmt.Errorf("%w: value %d at index %d", errs.ErrOutOfRangeSample, int64(v), i)
		}
		out[i] = uint8(v)
	}

	return out, nil
}

// Widen converts 8-bit samples to a wider element type.
func Widen[T Integer](in []uint8) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = T(v)
	}

	return out
}
