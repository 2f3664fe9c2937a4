// Package compress provides the codecs used for compressed hex dumps.
//
// Hardware simulators emit one record per line, so an 11-kernel 62x62 run is
// more than 42k lines of nearly identical text. Those dumps compress very well
// and are often archived as .hex.zst, .hex.s2 or .hex.lz4 files. hexcodec reads
// and writes them through this package; the hex content itself is unchanged.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): the data passes through untouched
//   - Zstd (format.CompressionZstd): standard zstd frames, readable by the zstd CLI
//   - S2 (format.CompressionS2): a single S2 block
//   - LZ4 (format.CompressionLZ4): standard LZ4 frames, readable by the lz4 CLI
//
// Zstd uses klauspost/compress by default. Building with both cgo and the
// "gozstd" tag switches to the valyala/gozstd bindings.
//
// # Selecting a codec
//
//	ct := compress.DetectFromPath("results.hex.zst") // format.CompressionZstd
//	codec, err := compress.GetCodec(ct)
//	if err != nil {
//	    return err
//	}
//	plain, err := codec.Decompress(raw)
//
// All codecs are safe for concurrent use.
package compress
