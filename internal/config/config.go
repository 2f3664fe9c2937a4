// Package config loads hexpipe.toml.
//
// Every key is optional; keys present in the file override Default().
//
//	[stream]
//	width = 62
//	height = 62
//	kernels = 11
//	compression = "zstd"
//	max_invalid_reports = 5
//
//	[pipeline]
//	pool_size = 2
//	stride = 2
//	mode = "correlation"
//	normalize = true
//
//	[output]
//	dir = "out"
//	base = "output"
//
//	[log]
//	level = "debug"
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/arloliu/hexpipe/compress"
	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/kernel"
	"github.com/arloliu/hexpipe/signal"
)

// StreamConfig describes the hex stream layout ([stream]).
type StreamConfig struct {
	Shape             signal.Shape
	Kernels           int
	Compression       format.CompressionType
	MaxInvalidReports int
}

// PipelineConfig holds the convolution pipeline settings ([pipeline]).
type PipelineConfig struct {
	PoolSize  int
	Stride    int
	Mode      format.ConvolutionMode
	Normalize bool
}

// OutputConfig names where generated files go ([output]).
type OutputConfig struct {
	Dir  string
	Base string
}

// Config is the merged result of Default and hexpipe.toml.
type Config struct {
	Stream   StreamConfig
	Pipeline PipelineConfig
	Output   OutputConfig
	LogLevel string
}

// Default matches the 64x64 input hardware build: 62x62 outputs for the
// full 2D bank.
func Default() Config {
	return Config{
		Stream: StreamConfig{
			Shape:             signal.Shape{Height: 62, Width: 62},
			Kernels:           kernel.Count2D,
			Compression:       format.CompressionNone,
			MaxInvalidReports: 5,
		},
		Pipeline: PipelineConfig{
			PoolSize: 2,
			Stride:   2,
			Mode:     format.ModeCorrelation,
		},
		Output: OutputConfig{
			Dir:  ".",
			Base: "output",
		},
		LogLevel: "info",
	}
}

type fileConfig struct {
	Stream struct {
		Width             int    `toml:"width"`
		Height            int    `toml:"height"`
		Kernels           int    `toml:"kernels"`
		Compression       string `toml:"compression"`
		MaxInvalidReports int    `toml:"max_invalid_reports"`
	} `toml:"stream"`
	Pipeline struct {
		PoolSize  int    `toml:"pool_size"`
		Stride    int    `toml:"stride"`
		Mode      string `toml:"mode"`
		Normalize bool   `toml:"normalize"`
	} `toml:"pipeline"`
	Output struct {
		Dir  string `toml:"dir"`
		Base string `toml:"base"`
	} `toml:"output"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// Load reads path and overlays the keys it defines on Default.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return apply(Default(), raw, meta)
}

// Parse is Load for an in-memory document.
func Parse(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return apply(Default(), raw, meta)
}

func apply(cfg Config, raw fileConfig, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	if meta.IsDefined("stream", "width") {
		cfg.Stream.Shape.Width = raw.Stream.Width
	}
	if meta.IsDefined("stream", "height") {
		cfg.Stream.Shape.Height = raw.Stream.Height
	}
	if meta.IsDefined("stream", "kernels") {
		cfg.Stream.Kernels = raw.Stream.Kernels
	}
	if meta.IsDefined("stream", "compression") {
		ct, err := compress.ParseCompressionType(raw.Stream.Compression)
		if err != nil {
			return Config{}, fmt.Errorf("parse stream.compression: %w", err)
		}
		cfg.Stream.Compression = ct
	}
	if meta.IsDefined("stream", "max_invalid_reports") {
		cfg.Stream.MaxInvalidReports = raw.Stream.MaxInvalidReports
	}

	if meta.IsDefined("pipeline", "pool_size") {
		cfg.Pipeline.PoolSize = raw.Pipeline.PoolSize
	}
	if meta.IsDefined("pipeline", "stride") {
		cfg.Pipeline.Stride = raw.Pipeline.Stride
	}
	if meta.IsDefined("pipeline", "mode") {
		mode, err := format.ParseConvolutionMode(raw.Pipeline.Mode)
		if err != nil {
			return Config{}, fmt.Errorf("parse pipeline.mode: %w", err)
		}
		cfg.Pipeline.Mode = mode
	}
	if meta.IsDefined("pipeline", "normalize") {
		cfg.Pipeline.Normalize = raw.Pipeline.Normalize
	}

	if meta.IsDefined("output", "dir") {
		cfg.Output.Dir = strings.TrimSpace(raw.Output.Dir)
	}
	if meta.IsDefined("output", "base") {
		cfg.Output.Base = strings.TrimSpace(raw.Output.Base)
	}
	if meta.IsDefined("log", "level") {
		cfg.LogLevel = strings.TrimSpace(raw.Log.Level)
	}

	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	if err := c.Stream.Shape.Validate(); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	if c.Stream.Kernels <= 0 {
		return fmt.Errorf("stream.kernels must be positive: %d", c.Stream.Kernels)
	}
	if c.Stream.MaxInvalidReports < 0 {
		return fmt.Errorf("stream.max_invalid_reports must not be negative: %d", c.Stream.MaxInvalidReports)
	}
	if c.Pipeline.PoolSize <= 0 || c.Pipeline.Stride <= 0 {
		return fmt.Errorf("pipeline pool_size and stride must be positive: %d, %d", c.Pipeline.PoolSize, c.Pipeline.Stride)
	}
	if c.Output.Base == "" {
		return fmt.Errorf("output.base must not be empty")
	}

	return nil
}
