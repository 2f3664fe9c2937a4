package conv

import (
	"fmt"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/internal/options"
)

const (
	// DefaultPoolSize is the max-pooling window length.
	DefaultPoolSize = 2
	// DefaultStride is the distance between max-pooling window starts.
	DefaultStride = 2
)

// Option configures convolution, pooling and reference runs.
type Option = options.Option[*config]

type config struct {
	mode      format.ConvolutionMode
	poolSize  int
	stride    int
	normalize bool
}

func defaultConfig() *config {
	return &config{
		mode:     format.ModeCorrelation,
		poolSize: DefaultPoolSize,
		stride:   DefaultStride,
	}
}

func buildConfig(opts []Option) (*config, error) {
	return options.Build(defaultConfig, opts...)
}

// WithMode selects correlation (default) or true convolution tap order.
func WithMode(mode format.ConvolutionMode) Option {
	return options.New(func(c *config) error {
		switch mode {
		case format.ModeCorrelation, format.ModeConvolution:
			c.mode = mode
			return nil
		default:
			return fmt.Errorf("invalid convolution mode: %d", mode)
		}
	})
}

// WithPoolSize sets the max-pooling window length (default 2).
func WithPoolSize(size int) Option {
	return options.New(func(c *config) error {
		if size <= 0 {
			return fmt.Errorf("%w: pool size %d", errs.ErrInvalidPoolConfig, size)
		}
		c.poolSize = size

		return nil
	})
}

// WithStride sets the max-pooling stride (default 2).
func WithStride(stride int) Option {
	return options.New(func(c *config) error {
		if stride <= 0 {
			return fmt.Errorf("%w: stride %d", errs.ErrInvalidPoolConfig, stride)
		}
		c.stride = stride

		return nil
	})
}

// WithNormalize makes Reference2D divide convolution output by the kernel divisor
// before activation. It is off by default: the hardware consumes raw sums.
func WithNormalize(enabled bool) Option {
	return options.NoError(func(c *config) { c.normalize = enabled })
}
