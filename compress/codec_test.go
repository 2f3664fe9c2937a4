package compress

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/format"
)

// hexDump builds a realistic hex stream: n records of two digits and a newline.
func hexDump(n int) []byte {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%02X\n", (i*7)%256)
	}

	return []byte(sb.String())
}

func getAllCodecs() map[format.CompressionType]Codec {
	return map[format.CompressionType]Codec{
		format.CompressionNone: NewNoOpCompressor(),
		format.CompressionZstd: NewZstdCompressor(),
		format.CompressionS2:   NewS2Compressor(),
		format.CompressionLZ4:  NewLZ4Compressor(),
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	for ct, codec := range getAllCodecs() {
		for _, n := range []int{1, 100, 62 * 62, 62 * 62 * 11} {
			t.Run(fmt.Sprintf("%s/%d", ct, n), func(t *testing.T) {
				data := hexDump(n)

				compressed, err := codec.Compress(data)
				require.NoError(t, err)

				restored, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.Equal(t, data, restored)

				if ct != format.CompressionNone && n > 1000 {
					require.Less(t, len(compressed), len(data))
				}
			})
		}
	}
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for ct, codec := range getAllCodecs() {
		t.Run(ct.String(), func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Empty(t, compressed)

			restored, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Empty(t, restored)
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	garbage := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, '0', 'A', '\n'}
	for ct, codec := range getAllCodecs() {
		if ct == format.CompressionNone {
			continue
		}
		t.Run(ct.String(), func(t *testing.T) {
			_, err := codec.Decompress(garbage)
			require.Error(t, err)
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	data := hexDump(4096)
	for ct, codec := range getAllCodecs() {
		t.Run(ct.String(), func(t *testing.T) {
			var wg sync.WaitGroup
			errCh := make(chan error, 8)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 10; j++ {
						c, err := codec.Compress(data)
						if err != nil {
							errCh <- err
							return
						}
						d, err := codec.Decompress(c)
						if err != nil {
							errCh <- err
							return
						}
						if string(d) != string(data) {
							errCh <- fmt.Errorf("round trip mismatch")
							return
						}
					}
				}()
			}
			wg.Wait()
			close(errCh)
			for err := range errCh {
				require.NoError(t, err)
			}
		})
	}
}

func TestCreateCodec(t *testing.T) {
	for ct := range getAllCodecs() {
		codec, err := CreateCodec(ct, "hex dump")
		require.NoError(t, err)
		require.NotNil(t, codec)

		shared, err := GetCodec(ct)
		require.NoError(t, err)
		require.NotNil(t, shared)
	}

	_, err := CreateCodec(format.CompressionType(0x7f), "hex dump")
	require.ErrorIs(t, err, errs.ErrUnknownCompression)
	require.Contains(t, err.Error(), "hex dump")

	_, err = GetCodec(format.CompressionType(0))
	require.ErrorIs(t, err, errs.ErrUnknownCompression)
}

func TestParseCompressionType(t *testing.T) {
	tests := map[string]format.CompressionType{
		"":      format.CompressionNone,
		"none":  format.CompressionNone,
		"ZSTD":  format.CompressionZstd,
		"zst":   format.CompressionZstd,
		" s2 ":  format.CompressionS2,
		"lz4":   format.CompressionLZ4,
		"plain": format.CompressionNone,
	}
	for in, want := range tests {
		got, err := ParseCompressionType(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseCompressionType("gzip")
	require.ErrorIs(t, err, errs.ErrUnknownCompression)
}

func TestDetectFromPath(t *testing.T) {
	require.Equal(t, format.CompressionZstd, DetectFromPath("out/results.hex.zst"))
	require.Equal(t, format.CompressionZstd, DetectFromPath("results.HEX.ZSTD"))
	require.Equal(t, format.CompressionS2, DetectFromPath("results.hex.s2"))
	require.Equal(t, format.CompressionLZ4, DetectFromPath("results.hex.lz4"))
	require.Equal(t, format.CompressionNone, DetectFromPath("results.hex"))
	require.Equal(t, format.CompressionNone, DetectFromPath("results"))

	for ct := range getAllCodecs() {
		if ct == format.CompressionNone {
			continue
		}
		require.Equal(t, ct, DetectFromPath("x.hex"+ct.Extension()))
	}
}
