package conv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/kernel"
	"github.com/arloliu/hexpipe/signal"
)

// Stage names one persisted intermediate of a 1D run.
type Stage string

const (
	StageConv   Stage = "conv1d"
	StageReLU   Stage = "relu1d"
	StagePooled Stage = "pooled1d"
)

// Run1D holds the three intermediates of one kernel applied to one 1D stream.
type Run1D struct {
	Kernel    kernel.Kernel
	Input     []uint8
	Convolved []int32
	Activated []int32
	Pooled    []int32
}

// Artifact is one named intermediate ready to be persisted.
type Artifact struct {
	Stage    Stage
	FileName string
	Samples  []int32
}

// Pipeline1D runs convolution, ReLU and max pooling for the 1D kernel named name.
//
// Parameters:
//   - in: Flattened 8-bit input stream
//   - name: Case-insensitive 1D kernel name (identity, blur, gaussian, edge)
//   - opts: WithMode, WithPoolSize, WithStride
//
// Returns:
//   - *Run1D: All three intermediates
//   - error: ErrInvalidKernelName, ErrInvalidDimensions or ErrInvalidPoolConfig
func Pipeline1D(in []uint8, name string, opts ...Option) (*Run1D, error) {
	id, err := kernel.Lookup1D(name)
	if err != nil {
		return nil, err
	}

	return runKernel1D(in, id.Kernel(), opts)
}

// Pipeline1DAll runs Pipeline1D for every 1D kernel in canonical order.
//
// A failing kernel does not stop the others; the successful runs are returned
// together with the joined errors of the failed ones.
func Pipeline1DAll(in []uint8, opts ...Option) ([]*Run1D, error) {
	kernels := kernel.CanonicalOrder(format.Dim1D)
	runs := make([]*Run1D, 0, len(kernels))

	var errList []error
	for _, k := range kernels {
		run, err := runKernel1D(in, k, opts)
		if err != nil {
			errList = append(errList, fmt.Errorf("kernel %s: %w", k.Name(), err))
			continue
		}
		runs = append(runs, run)
	}

	return runs, errors.Join(errList...)
}

func runKernel1D(in []uint8, k kernel.Kernel, opts []Option) (*Run1D, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	convolved, err := Convolve1D(in, k, WithMode(cfg.mode))
	if err != nil {
		return nil, err
	}
	activated := ReLU(convolved)

	return &Run1D{
		Kernel:    k,
		Input:     in,
		Convolved: convolved,
		Activated: activated,
		Pooled:    maxPool(activated, cfg.poolSize, cfg.stride),
	}, nil
}

// Artifacts names the intermediates as <base>_<stage>_<kernel>_stream.txt.
func (r *Run1D) Artifacts(base string) []Artifact {
	name := r.Kernel.Name()
	mk := func(stage Stage, samples []int32) Artifact {
		return Artifact{
			Stage:    stage,
			FileName: fmt.Sprintf("%s_%s_%s_stream.txt", base, stage, name),
			Samples:  samples,
		}
	}

	return []Artifact{
		mk(StageConv, r.Convolved),
		mk(StageReLU, r.Activated),
		mk(StagePooled, r.Pooled),
	}
}

// Persist writes every artifact into dir as a single space separated line and
// returns the written paths. dir is created if missing.
func (r *Run1D) Persist(dir, base string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	artifacts := r.Artifacts(base)
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(dir, a.FileName)
		if err := writeStreamFile(path, a.Samples); err != nil {
			return paths, fmt.Errorf("persist %s: %w", a.Stage, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func writeStreamFile(path string, samples []int32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := signal.WriteStream(f, samples); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
