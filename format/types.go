package format

import (
	"fmt"
	"strings"
)

type (
	Dimensionality  uint8
	Classification  uint8
	CompressionType uint8
	ConvolutionMode uint8
)

const (
	Dim1D Dimensionality = 0x1 // Dim1D represents 3-tap kernels over flattened streams.
	Dim2D Dimensionality = 0x2 // Dim2D represents 3x3 kernels over row-major matrices.

	Empty      Classification = 0x0 // Empty means no sample was decoded.
	Incomplete Classification = 0x1 // Incomplete means less than one full kernel block.
	Partial    Classification = 0x2 // Partial means at least one, but not all, kernel blocks.
	Complete   Classification = 0x3 // Complete means every expected kernel block is present.

	CompressionNone CompressionType = 0x1 // CompressionNone represents a plain text hex stream.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 frame compression.

	ModeCorrelation ConvolutionMode = 0x0 // ModeCorrelation slides the taps as stored.
	ModeConvolution ConvolutionMode = 0x1 // ModeConvolution reverses the taps before sliding.
)

func (d Dimensionality) String() string {
	switch d {
	case Dim1D:
		return "1D"
	case Dim2D:
		return "2D"
	default:
		return "Unknown"
	}
}

// ParseDimensionality accepts "1", "1d", "2" or "2d" in any case.
func ParseDimensionality(s string) (Dimensionality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1d":
		return Dim1D, nil
	case "2", "2d":
		return Dim2D, nil
	default:
		return 0, fmt.Errorf("invalid dimensionality: %q", s)
	}
}

func (c Classification) String() string {
	switch c {
	case Empty:
		return "Empty"
	case Incomplete:
		return "Incomplete"
	case Partial:
		return "Partial"
	case Complete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the classification by name so reports stay readable as JSON.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Extension returns the file suffix used for the compression type, or "" for none.
func (c CompressionType) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionS2:
		return ".s2"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

func (m ConvolutionMode) String() string {
	switch m {
	case ModeCorrelation:
		return "Correlation"
	case ModeConvolution:
		return "Convolution"
	default:
		return "Unknown"
	}
}

// ParseConvolutionMode accepts "correlation" or "convolution" in any case.
func ParseConvolutionMode(s string) (ConvolutionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correlation", "":
		return ModeCorrelation, nil
	case "convolution":
		return ModeConvolution, nil
	default:
		return 0, fmt.Errorf("invalid convolution mode: %q", s)
	}
}
