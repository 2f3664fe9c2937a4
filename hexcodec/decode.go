package hexcodec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/hexpipe/internal/options"
	"github.com/arloliu/hexpipe/signal"
)

const (
	// DefaultMaxReports is the number of invalid lines reported in detail.
	DefaultMaxReports = 5
	// DefaultMaxLineSize bounds the bytes kept from a single input line.
	DefaultMaxLineSize = 1024 * 1024
	// maxReportText bounds the text kept in an InvalidLine for an overlong line.
	maxReportText = 64
)

// InvalidLine describes one line that could not be parsed as hex.
type InvalidLine struct {
	Line int    `json:"line"` // 1-based, counting blank lines
	Text string `json:"text"` // trimmed line content
}

func (l InvalidLine) String() string {
	return fmt.Sprintf("invalid hex on line %d: '%s'", l.Line, l.Text)
}

// DecodeResult is the outcome of one decode call. It is never mutated by the
// package after being returned.
type DecodeResult struct {
	// Samples holds every successfully parsed value in stream order.
	Samples []int64
	// InvalidCount is the total number of non-blank lines that failed to parse.
	InvalidCount int
	// InvalidLines details the first failures, up to the configured maximum.
	InvalidLines []InvalidLine
	// Lines is the number of lines read, including blank ones.
	Lines int
	// BlankLines is the number of empty or whitespace-only lines skipped.
	BlankLines int
}

// Suppressed returns how many invalid lines were counted but not detailed.
func (r *DecodeResult) Suppressed() int {
	return r.InvalidCount - len(r.InvalidLines)
}

// Summary renders the invalid line reports, one per line, followed by a
// "... and N more invalid lines" line when some were suppressed. It is empty
// when every line parsed.
func (r *DecodeResult) Summary() string {
	if r.InvalidCount == 0 {
		return ""
	}

	var sb strings.Builder
	for _, l := range r.InvalidLines {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
	if n := r.Suppressed(); n > 0 {
		fmt.Fprintf(&sb, "... and %d more invalid lines\n", n)
	}

	return sb.String()
}

// Bytes narrows the samples to 8 bits, failing with ErrOutOfRangeSample on the
// first value outside [0, 255].
func (r *DecodeResult) Bytes() ([]uint8, error) {
	return signal.Narrow(r.Samples)
}

// DecodeOption configures Decode.
type DecodeOption = options.Option[*decodeConfig]

type decodeConfig struct {
	maxReports  int
	maxLineSize int
	strict      bool
}

func defaultDecodeConfig() *decodeConfig {
	return &decodeConfig{
		maxReports:  DefaultMaxReports,
		maxLineSize: DefaultMaxLineSize,
	}
}

// WithMaxReports sets how many invalid lines are detailed (default 5).
// Zero keeps only the count.
func WithMaxReports(n int) DecodeOption {
	return options.New(func(c *decodeConfig) error {
		if n < 0 {
			return fmt.Errorf("max reports must not be negative: %d", n)
		}
		c.maxReports = n

		return nil
	})
}

// WithMaxLineSize bounds the bytes kept from a single line (default 1MiB).
// The rest of a longer line is discarded and the line counts as invalid.
func WithMaxLineSize(n int) DecodeOption {
	return options.New(func(c *decodeConfig) error {
		if n <= 0 {
			return fmt.Errorf("max line size must be positive: %d", n)
		}
		c.maxLineSize = n

		return nil
	})
}

// WithStrictRecords accepts only records of exactly two hex digits; anything
// else counts as an invalid line.
func WithStrictRecords(strict bool) DecodeOption {
	return options.NoError(func(c *decodeConfig) { c.strict = strict })
}

// Decode reads a hex stream from r.
//
// Parameters:
//   - r: Source of the text stream
//   - opts: WithMaxReports, WithMaxLineSize, WithStrictRecords
//
// Returns:
//   - *DecodeResult: Parsed samples and invalid line accounting
//   - error: Only option or read errors; malformed lines are never errors
func Decode(r io.Reader, opts ...DecodeOption) (*DecodeResult, error) {
	cfg, err := options.Build(defaultDecodeConfig, opts...)
	if err != nil {
		return nil, err
	}

	lr := newLineReader(r, cfg.maxLineSize)
	res := &DecodeResult{Samples: make([]int64, 0, 4096)}
	for {
		line, truncated, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read hex stream at line %d: %w", res.Lines+1, err)
		}

		res.Lines++
		text := strings.TrimSpace(string(line))
		if text == "" && !truncated {
			res.BlankLines++
			continue
		}

		var v int64
		ok := !truncated
		if ok {
			v, ok = parseRecord(text, cfg.strict)
		}
		if !ok {
			res.InvalidCount++
			if len(res.InvalidLines) < cfg.maxReports {
				if truncated && len(text) > maxReportText {
					text = text[:maxReportText] + "..."
				}
				res.InvalidLines = append(res.InvalidLines, InvalidLine{Line: res.Lines, Text: text})
			}

			continue
		}
		res.Samples = append(res.Samples, v)
	}

	return res, nil
}

// DecodeBytes decodes an in-memory hex stream.
func DecodeBytes(data []byte, opts ...DecodeOption) (*DecodeResult, error) {
	return Decode(bytes.NewReader(data), opts...)
}

// DecodeString decodes a hex stream held in a string.
func DecodeString(s string, opts ...DecodeOption) (*DecodeResult, error) {
	return Decode(strings.NewReader(s), opts...)
}

// parseRecord parses one trimmed line. Outside strict mode it accepts an
// optional sign, an optional 0x prefix and "_" between digits. Magnitudes
// beyond int64 saturate to math.MaxInt64 or math.MinInt64.
func parseRecord(s string, strict bool) (int64, bool) {
	if strict {
		if len(s) != 2 {
			return 0, false
		}
		v, err := strconv.ParseUint(s, 16, 8)

		return int64(v), err == nil
	}

	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	prefixed := false
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
		prefixed = true
	}

	digits, ok := stripSeparators(s, prefixed)
	if !ok {
		return 0, false
	}

	u, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		u = math.MaxUint64
	}

	switch {
	case neg && u >= 1<<63:
		return math.MinInt64, true
	case neg:
		return -int64(u), true
	case u > math.MaxInt64:
		return math.MaxInt64, true
	default:
		return int64(u), true
	}
}

// stripSeparators drops single "_" between digits. A leading "_" is allowed
// only right after a 0x prefix.
func stripSeparators(s string, afterPrefix bool) (string, bool) {
	if s == "" {
		return "", false
	}
	if !strings.Contains(s, "_") {
		return s, true
	}

	buf := make([]byte, 0, len(s))
	prevDigit := afterPrefix
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			if !prevDigit {
				return "", false
			}
			prevDigit = false

			continue
		}
		buf = append(buf, s[i])
		prevDigit = true
	}
	if !prevDigit || len(buf) == 0 {
		return "", false
	}

	return string(buf), true
}

// lineReader yields lines ended by "\n", "\r\n" or a lone "\r", keeping at
// most max bytes of each and discarding the rest.
type lineReader struct {
	br  *bufio.Reader
	max int
	buf []byte
}

func newLineReader(r io.Reader, maxLine int) *lineReader {
	return &lineReader{
		br:  bufio.NewReaderSize(r, 64*1024),
		max: maxLine,
		buf: make([]byte, 0, min(256, maxLine)),
	}
}

// next returns the next line without its terminator and whether bytes were
// dropped from it. It returns io.EOF once the input is exhausted.
func (lr *lineReader) next() ([]byte, bool, error) {
	lr.buf = lr.buf[:0]
	truncated := false
	seen := false
	for {
		b, err := lr.br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && seen {
				return lr.buf, truncated, nil
			}

			return nil, false, err
		}
		seen = true

		switch b {
		case '\n':
			return lr.buf, truncated, nil
		case '\r':
			if nb, perr := lr.br.Peek(1); perr == nil && nb[0] == '\n' {
				_, _ = lr.br.ReadByte()
			}

			return lr.buf, truncated, nil
		}

		if len(lr.buf) < lr.max {
			lr.buf = append(lr.buf, b)
		} else {
			truncated = true
		}
	}
}
