package hexcodec

import (
	"bytes"
	"fmt"
	"os"

	"github.com/arloliu/hexpipe/compress"
	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/internal/options"
	"github.com/arloliu/hexpipe/internal/pool"
	"github.com/arloliu/hexpipe/signal"
)

// FileOption configures ReadFile and WriteFile.
type FileOption = options.Option[*fileConfig]

type fileConfig struct {
	compression format.CompressionType
	detect      bool
	decode      []DecodeOption
}

func defaultFileConfig() *fileConfig {
	return &fileConfig{compression: format.CompressionNone, detect: true}
}

// WithCompression forces the compression used for a file instead of detecting
// it from the extension.
func WithCompression(ct format.CompressionType) FileOption {
	return options.New(func(c *fileConfig) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		c.compression = ct
		c.detect = false

		return nil
	})
}

// WithDecodeOptions passes decode options through ReadFile.
func WithDecodeOptions(opts ...DecodeOption) FileOption {
	return options.NoError(func(c *fileConfig) { c.decode = append(c.decode, opts...) })
}

func (c *fileConfig) codec(path string) (compress.Codec, error) {
	ct := c.compression
	if c.detect {
		ct = compress.DetectFromPath(path)
	}

	return compress.CreateCodec(ct, "hex file")
}

// ReadFile decodes a hex dump, decompressing it first when the extension is
// .zst, .s2 or .lz4 (or WithCompression says so).
//
// Returns:
//   - *DecodeResult: Parsed samples and invalid line accounting
//   - error: Open, read or decompression failures only
func ReadFile(path string, opts ...FileOption) (*DecodeResult, error) {
	cfg, err := options.Build(defaultFileConfig, opts...)
	if err != nil {
		return nil, err
	}
	codec, err := cfg.codec(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := codec.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}

	return Decode(bytes.NewReader(data), cfg.decode...)
}

// WriteFile encodes samples to path, compressing the dump when requested.
// Nothing is created when a sample is out of range.
func WriteFile[T signal.Integer](path string, samples []T, opts ...FileOption) error {
	if err := checkRange(samples); err != nil {
		return err
	}

	return writeEncoded(path, opts, func(buf *pool.ByteBuffer) {
		buf.Grow(len(samples) * RecordSize)
		buf.B = appendRecords(buf.B, samples)
	})
}

// WriteBlocksFile writes blocks back to back to path, like EncodeBlocks.
func WriteBlocksFile(path string, blocks []signal.Matrix[uint8], opts ...FileOption) error {
	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	if err := EncodeBlocks(buf, blocks...); err != nil {
		return err
	}

	return writeEncoded(path, opts, func(dst *pool.ByteBuffer) {
		dst.B = append(dst.B, buf.B...)
	})
}

func writeEncoded(path string, opts []FileOption, fill func(*pool.ByteBuffer)) error {
	cfg, err := options.Build(defaultFileConfig, opts...)
	if err != nil {
		return err
	}
	codec, err := cfg.codec(path)
	if err != nil {
		return err
	}

	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)
	fill(buf)

	out, err := codec.Compress(buf.B)
	if err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}

	return os.WriteFile(path, out, 0o644)
}
