package conv

import "github.com/arloliu/hexpipe/signal"

// ReLU returns max(0, x) for every value, preserving length and width.
func ReLU(in []int32) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		if v > 0 {
			out[i] = v
		}
	}

	return out
}

// ReLU2D applies ReLU to a matrix, keeping its shape.
func ReLU2D(in signal.Matrix[int32]) signal.Matrix[int32] {
	return signal.Matrix[int32]{Shape: in.Shape, Data: ReLU(in.Data)}
}

// Saturate8 clamps values into [0, 255], the hardware output stage.
func Saturate8(in []int32) []uint8 {
	out := make([]uint8, len(in))
	for i, v := range in {
		switch {
		case v < 0:
			out[i] = 0
		case v > 255:
			out[i] = 255
		default:
			out[i] = uint8(v)
		}
	}

	return out
}
