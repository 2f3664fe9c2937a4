package signal

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/hexpipe/errs"
)

// maxLineSize bounds a single text line; a flattened 2048x2048 image fits comfortably.
const maxLineSize = 64 * 1024 * 1024

// ReadMatrix reads the plain matrix text format: one row per line, samples
// separated by whitespace. Blank lines are ignored.
//
// Tokens may be integers or decimals ("12", "12.0", "1.2e+01"); decimals are
// rounded to nearest with ties away from zero.
//
// Returns:
//   - Matrix[uint8]: The parsed matrix
//   - error: ErrMalformedMatrix for ragged rows, bad tokens or an empty input,
//     ErrOutOfRangeSample for values outside [0, 255], or a read error
func ReadMatrix(r io.Reader) (Matrix[uint8], error) {
	var rows [][]int64
	err := scanRows(r, func(line int, row []int64) error {
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return fmt.Errorf("%w: line %d has %d samples, want %d", errs.ErrMalformedMatrix, line, len(row), len(rows[0]))
		}
		rows = append(rows, row)

		return nil
	})
	if err != nil {
		return Matrix[uint8]{}, err
	}
	if len(rows) == 0 {
		return Matrix[uint8]{}, fmt.Errorf("%w: no samples", errs.ErrMalformedMatrix)
	}

	flat := make([]int64, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		flat = append(flat, row...)
	}
	data, err := Narrow(flat)
	if err != nil {
		return Matrix[uint8]{}, err
	}

	return NewMatrix(Shape{Height: len(rows), Width: len(rows[0])}, data)
}

// ReadFlat reads either matrix text layout (rows, or a single line) and
// returns all samples flattened in reading order.
func ReadFlat(r io.Reader) ([]uint8, error) {
	values, err := ReadValues(r)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no samples", errs.ErrMalformedMatrix)
	}

	return Narrow(values)
}

// ReadValues reads whitespace separated numbers across all lines without any
// range check. It is the inverse of WriteStream for wide streams.
func ReadValues(r io.Reader) ([]int64, error) {
	var values []int64
	err := scanRows(r, func(_ int, row []int64) error {
		values = append(values, row...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}

// WriteMatrix writes one row per line, samples separated by single spaces.
func WriteMatrix[T Integer](w io.Writer, m Matrix[T]) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for r := 0; r < m.Height; r++ {
		buf = appendJoined(buf[:0], m.Row(r))
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteStream writes all samples on a single line separated by spaces, with no
// trailing newline.
func WriteStream[T Integer](w io.Writer, samples []T) error {
	_, err := w.Write(appendJoined(nil, samples))
	return err
}

func appendJoined[T Integer](dst []byte, samples []T) []byte {
	for i, v := range samples {
		if i > 0 {
			dst = append(dst, ' ')
		}
		dst = strconv.AppendInt(dst, int64(v), 10)
	}

	return dst
}

func scanRows(r io.Reader, fn func(line int, row []int64) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		row := make([]int64, len(fields))
		for i, f := range fields {
			v, err := parseNumber(f)
			if err != nil {
				return fmt.Errorf("%w: line %d: %q is not a number", errs.ErrMalformedMatrix, line, f)
			}
			row[i] = v
		}
		if err := fn(line, row); err != nil {
			return err
		}
	}

	return sc.Err()
}

func parseNumber(tok string) (int64, error) {
	if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return v, nil
	}

	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/2 {
		return 0, strconv.ErrRange
	}

	// math.Round rounds half away from zero.
	return int64(math.Round(f)), nil
}
