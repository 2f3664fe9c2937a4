package compress

// ZstdCompressor produces standard Zstandard frames.
//
// The implementation is selected at build time: klauspost/compress by default,
// valyala/gozstd when built with cgo and the "gozstd" tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
