package hexcodec

import (
	"bytes"
	"io"
	"testing"
)

func BenchmarkEncode(b *testing.B) {
	samples := make([]uint8, 62*62*11)
	for i := range samples {
		samples[i] = uint8(i)
	}

	b.ReportAllocs()
	b.SetBytes(int64(len(samples) * RecordSize))
	for b.Loop() {
		_ = Encode(io.Discard, samples)
	}
}

func BenchmarkDecode(b *testing.B) {
	samples := make([]uint8, 62*62*11)
	for i := range samples {
		samples[i] = uint8(i)
	}
	var buf bytes.Buffer
	_ = Encode(&buf, samples)
	data := buf.Bytes()

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		_, _ = DecodeBytes(data)
	}
}
