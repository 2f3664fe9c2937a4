// Package conv implements the fixed-point convolution, activation and pooling
// stages that mirror the hardware CNN front-end.
//
// All stages are pure functions over in-memory samples: they never modify their
// input, never share state, and can be run concurrently on disjoint inputs.
//
// # Numeric semantics
//
// Inputs are 8-bit unsigned samples. Convolution output is int32, which holds
// MagnitudeSum*255 for every kernel in the bank, so overflow cannot occur.
// Convolution is "valid": only positions where the kernel fully overlaps the
// input are produced, so a 1D input of n samples and a 3-tap kernel yields n-2
// outputs, and a HxW matrix with a 3x3 kernel yields (H-2)x(W-2).
//
// Two tap orders are supported through WithMode:
//   - format.ModeCorrelation (default): out[i] = sum(in[i+j] * taps[j]). This is
//     the sliding window the hardware computes; edge over [1 2 3 4 5] is [2 2 2].
//   - format.ModeConvolution: taps are reversed first, matching numpy's
//     np.convolve(x, k, "valid"); edge over [1 2 3 4 5] is [-2 -2 -2].
//
// Integer sums are exact. Rounding only happens in Normalize, which divides by a
// kernel's documented divisor and rounds to nearest with ties away from zero.
//
// # Stages
//
//	raw, _ := conv.Convolve1D(samples, kernel.Edge1D.Kernel())
//	act := conv.ReLU(raw)
//	pooled, _ := conv.MaxPool1D(act, conv.WithPoolSize(2), conv.WithStride(2))
//
// Pipeline1D chains the three stages for a kernel chosen by name, and
// Reference2D predicts the 8-bit output block the hardware emits for one 2D
// kernel.
package conv
