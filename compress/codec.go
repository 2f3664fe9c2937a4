package compress

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/format"
)

// Compressor compresses a complete hex dump.
type Compressor interface {
	// Compress returns a newly allocated compressed copy of data.
	// The input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a hex dump compressed by the matching Compressor.
type Decompressor interface {
	// Decompress returns the original data, or an error if data is corrupted
	// or was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates a fresh Codec for the compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of what is being compressed, used in error messages
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: ErrUnknownCompression for an invalid type
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: invalid %s compression: %s", errs.ErrUnknownCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a shared built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: unsupported compression type: %s", errs.ErrUnknownCompression, compressionType)
}

// ParseCompressionType maps a configuration value to a compression type.
//
// Accepted values (case-insensitive): "none", "", "zstd", "zst", "s2", "lz4".
func ParseCompressionType(name string) (format.CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "plain":
		return format.CompressionNone, nil
	case "zstd", "zst":
		return format.CompressionZstd, nil
	case "s2":
		return format.CompressionS2, nil
	case "lz4":
		return format.CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownCompression, name)
	}
}

// DetectFromPath picks the compression type from the file extension:
// .zst/.zstd, .s2 and .lz4 are recognized, everything else is plain text.
func DetectFromPath(path string) format.CompressionType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return format.CompressionZstd
	case ".s2":
		return format.CompressionS2
	case ".lz4":
		return format.CompressionLZ4
	default:
		return format.CompressionNone
	}
}
