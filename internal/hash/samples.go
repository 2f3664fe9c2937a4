// Package hash fingerprints sample blocks with xxHash64.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Samples computes the xxHash64 of samples serialized as little-endian int64.
//
// Two blocks with equal samples always share a fingerprint, regardless of the
// integer width they were decoded into.
func Samples(samples []int64) uint64 {
	d := xxhash.New()
	var buf [8 * 64]byte
	for len(samples) > 0 {
		n := min(len(samples), 64)
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint64(buf[i*8:], uint64(samples[i]))
		}
		_, _ = d.Write(buf[:n*8])
		samples = samples[n:]
	}

	return d.Sum64()
}
