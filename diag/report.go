// Package diag checks a decoded hardware stream for completeness and cuts it
// back into per-kernel blocks.
//
// A multi-kernel stream is K blocks of Height*Width samples, concatenated in
// canonical kernel order. When the capture stops early the stream is still
// useful: every full block is reconstructed as-is and the trailing samples
// become one zero-padded partial block. Truncation is reported through the
// Classification, never as an error.
package diag

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/hexcodec"
	"github.com/arloliu/hexpipe/signal"
)

// Report summarizes how much of an expected multi-kernel stream arrived.
type Report struct {
	TotalSamples     int                   `json:"total_samples"`
	ExpectedTotal    int                   `json:"expected_total"`
	CompletionRatio  float64               `json:"completion_ratio"`
	CompleteKernels  int                   `json:"complete_kernel_count"`
	RemainderSamples int                   `json:"remainder_samples"`
	OverflowSamples  int                   `json:"overflow_samples"`
	Classification   format.Classification `json:"classification"`
	InvalidLines     int                   `json:"invalid_lines"`
}

// Analyze computes the report for total decoded samples against k blocks of
// the given shape.
//
// Parameters:
//   - total: Number of decoded samples
//   - shape: Per-kernel output shape
//   - k: Expected number of kernels
//
// Returns:
//   - Report: Completion figures and classification
//   - error: ErrInvalidShape, or ErrInvalidKernelCount when k is not positive or
//     k blocks overflow the sample count
func Analyze(total int, shape signal.Shape, k int) (Report, error) {
	if err := shape.Validate(); err != nil {
		return Report{}, err
	}
	block := shape.Len()
	if k <= 0 || k > math.MaxInt/block {
		return Report{}, fmt.Errorf("%w: %d blocks of %s", errs.ErrInvalidKernelCount, k, shape)
	}
	if total < 0 {
		total = 0
	}

	complete := total / block
	remainder := total % block
	expected := k * block

	return Report{
		TotalSamples:     total,
		ExpectedTotal:    expected,
		CompletionRatio:  float64(total) / float64(expected),
		CompleteKernels:  complete,
		RemainderSamples: remainder,
		OverflowSamples:  max(0, total-expected),
		Classification:   classify(complete, remainder, k),
	}, nil
}

// AnalyzeDecoded is Analyze over a decode result, carrying its invalid line count.
func AnalyzeDecoded(res *hexcodec.DecodeResult, shape signal.Shape, k int) (Report, error) {
	rep, err := Analyze(len(res.Samples), shape, k)
	if err != nil {
		return Report{}, err
	}
	rep.InvalidLines = res.InvalidCount

	return rep, nil
}

func classify(complete, remainder, k int) format.Classification {
	switch {
	case complete == 0 && remainder == 0:
		return format.Empty
	case complete == 0:
		return format.Incomplete
	case complete < k:
		return format.Partial
	default:
		return format.Complete
	}
}

// Missing returns how many samples are still needed to complete the stream.
func (r Report) Missing() int {
	return max(0, r.ExpectedTotal-r.TotalSamples)
}

func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "samples: %d/%d (%.1f%%)\n", r.TotalSamples, r.ExpectedTotal, r.CompletionRatio*100)
	fmt.Fprintf(&sb, "complete kernels: %d\n", r.CompleteKernels)
	if r.RemainderSamples > 0 {
		fmt.Fprintf(&sb, "remainder samples: %d\n", r.RemainderSamples)
	}
	if r.OverflowSamples > 0 {
		fmt.Fprintf(&sb, "overflow samples: %d\n", r.OverflowSamples)
	}
	if r.InvalidLines > 0 {
		fmt.Fprintf(&sb, "invalid lines: %d\n", r.InvalidLines)
	}
	fmt.Fprintf(&sb, "classification: %s", r.Classification)

	return sb.String()
}
