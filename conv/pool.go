package conv

// MaxPool1D takes the maximum of each window of WithPoolSize samples, starting
// every WithStride samples (both default to 2).
//
// Windows that would run past the end are dropped rather than padded, so the
// output has PooledLen(len(in), size, stride) values.
//
// Returns ErrInvalidPoolConfig for a non-positive size or stride.
func MaxPool1D(in []int32, opts ...Option) ([]int32, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	return maxPool(in, cfg.poolSize, cfg.stride), nil
}

func maxPool(in []int32, size, stride int) []int32 {
	out := make([]int32, 0, PooledLen(len(in), size, stride))
	for start := 0; start+size <= len(in); start += stride {
		m := in[start]
		for _, v := range in[start+1 : start+size] {
			if v > m {
				m = v
			}
		}
		out = append(out, m)
	}

	return out
}

// PooledLen returns floor((n-size)/stride)+1, or 0 when n < size.
func PooledLen(n, size, stride int) int {
	if size <= 0 || stride <= 0 || n < size {
		return 0
	}

	return (n-size)/stride + 1
}
