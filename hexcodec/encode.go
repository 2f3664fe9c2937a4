package hexcodec

import (
	"fmt"
	"io"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/internal/pool"
	"github.com/arloliu/hexpipe/signal"
)

const (
	upperHex = "0123456789ABCDEF"
	// RecordSize is the encoded size of one sample: two digits and a newline.
	RecordSize = 3
)

// Append appends one record per sample to dst.
//
// Returns:
//   - []byte: dst extended with the records, or dst unchanged on error
//   - error: ErrOutOfRangeSample naming the first offending index
func Append[T signal.Integer](dst []byte, samples []T) ([]byte, error) {
	if err := checkRange(samples); err != nil {
		return dst, err
	}

	return appendRecords(dst, samples), nil
}

// Encode writes one record per sample to w.
//
// Nothing is written when a sample is out of range.
func Encode[T signal.Integer](w io.Writer, samples []T) error {
	if err := checkRange(samples); err != nil {
		return err
	}

	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	buf.Grow(len(samples) * RecordSize)
	buf.B = appendRecords(buf.B, samples)
	_, err := buf.WriteTo(w)

	return err
}

// EncodeBlocks writes 8-bit blocks back to back in the given order, each one
// row-major. This is the layout of a multi-kernel hardware stream.
//
// Returns ErrInvalidDimensions if a block's data does not match its shape.
func EncodeBlocks(w io.Writer, blocks ...signal.Matrix[uint8]) error {
	total := 0
	for i, b := range blocks {
		if b.Shape.Validate() != nil || len(b.Data) != b.Len() {
			return fmt.Errorf("%w: block %d has %d samples for shape %s", errs.ErrInvalidDimensions, i, len(b.Data), b.Shape)
		}
		total += len(b.Data)
	}

	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	buf.Grow(total * RecordSize)
	for _, b := range blocks {
		buf.B = appendRecords(buf.B, b.Data)
	}
	_, err := buf.WriteTo(w)

	return err
}

func checkRange[T signal.Integer](samples []T) error {
	for i, v := range samples {
		if v < 0 || int64(v) > 255 {
			return fmt.Errorf("%w: value %d at index %d", errs.ErrOutOfRangeSample, int64(v), i)
		}
	}

	return nil
}

func appendRecords[T signal.Integer](dst []byte, samples []T) []byte {
	for _, v := range samples {
		b := uint8(v)
		dst = append(dst, upperHex[b>>4], upperHex[b&0x0f], '\n')
	}

	return dst
}
