package conv

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/kernel"
	"github.com/arloliu/hexpipe/signal"
)

func randomStream(rng *rand.Rand, n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = uint8(rng.IntN(256))
	}

	return out
}

func widen(in []uint8) []int32 {
	return signal.Widen[int32](in)
}

func TestConvolve1D_EdgeExample(t *testing.T) {
	out, err := Convolve1D([]uint8{1, 2, 3, 4, 5}, kernel.Edge1D.Kernel())
	require.NoError(t, err)
	require.Equal(t, []int32{2, 2, 2}, out)
}

func TestConvolve1D_ConvolutionModeReversesTaps(t *testing.T) {
	out, err := Convolve1D([]uint8{1, 2, 3, 4, 5}, kernel.Edge1D.Kernel(), WithMode(format.ModeConvolution))
	require.NoError(t, err)
	require.Equal(t, []int32{-2, -2, -2}, out)

	// symmetric kernels do not depend on the mode
	in := []uint8{9, 1, 7, 3, 250}
	a, err := Convolve1D(in, kernel.Gaussian1D.Kernel())
	require.NoError(t, err)
	b, err := Convolve1D(in, kernel.Gaussian1D.Kernel(), WithMode(format.ModeConvolution))
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, []int32{9 + 2 + 7, 1 + 14 + 3, 7 + 6 + 250}, a)
}

func TestConvolve1D_IdentityCrops(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for n := 3; n < 64; n++ {
		in := randomStream(rng, n)
		out, err := Convolve1D(in, kernel.Identity1D.Kernel())
		require.NoError(t, err)
		require.Len(t, out, n-2)
		require.Equal(t, widen(in[1:n-1]), out)
	}
}

func TestConvolve1D_Errors(t *testing.T) {
	t.Run("input shorter than kernel", func(t *testing.T) {
		_, err := Convolve1D([]uint8{1, 2}, kernel.Blur1D.Kernel())
		require.ErrorIs(t, err, errs.ErrInvalidDimensions)
	})

	t.Run("2D kernel", func(t *testing.T) {
		_, err := Convolve1D([]uint8{1, 2, 3, 4}, kernel.SobelH.Kernel())
		require.ErrorIs(t, err, errs.ErrInvalidDimensions)
	})

	t.Run("zero kernel", func(t *testing.T) {
		_, err := Convolve1D([]uint8{1, 2, 3, 4}, kernel.Kernel{})
		require.ErrorIs(t, err, errs.ErrInvalidDimensions)
	})

	t.Run("exact fit", func(t *testing.T) {
		out, err := Convolve1D([]uint8{1, 2, 3}, kernel.Blur1D.Kernel())
		require.NoError(t, err)
		require.Equal(t, []int32{6}, out)
	})
}

func TestConvolve2D(t *testing.T) {
	in, err := signal.FromRows([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	require.NoError(t, err)

	tests := []struct {
		id   kernel.ID2D
		mode format.ConvolutionMode
		want int32
	}{
		{kernel.Identity, format.ModeCorrelation, 5},
		{kernel.SobelH, format.ModeCorrelation, 8},
		{kernel.SobelH, format.ModeConvolution, -8},
		{kernel.SobelV, format.ModeCorrelation, -24},
		{kernel.Laplacian, format.ModeCorrelation, 0},
		{kernel.BoxBlur, format.ModeCorrelation, 45},
		{kernel.Sharpen, format.ModeCorrelation, 5},
	}
	for _, tt := range tests {
		t.Run(tt.id.String()+"/"+tt.mode.String(), func(t *testing.T) {
			out, err := Convolve2D(in, tt.id.Kernel(), WithMode(tt.mode))
			require.NoError(t, err)
			require.Equal(t, signal.Shape{Height: 1, Width: 1}, out.Shape)
			require.Equal(t, []int32{tt.want}, out.Data)
		})
	}
}

func TestConvolve2D_ValidCropping(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	in, err := signal.NewMatrix(signal.Shape{Height: 6, Width: 9}, randomStream(rng, 54))
	require.NoError(t, err)

	out, err := Convolve2D(in, kernel.Identity.Kernel())
	require.NoError(t, err)
	require.Equal(t, signal.Shape{Height: 4, Width: 7}, out.Shape)
	for r := 0; r < 4; r++ {
		for c := 0; c < 7; c++ {
			require.Equal(t, int32(in.At(r+1, c+1)), out.At(r, c))
		}
	}
}

func TestConvolve2D_Errors(t *testing.T) {
	small, err := signal.FromRows([][]uint8{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	_, err = Convolve2D(small, kernel.Identity.Kernel())
	require.ErrorIs(t, err, errs.ErrInvalidDimensions)

	square, err := signal.FromRows([][]uint8{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	require.NoError(t, err)
	_, err = Convolve2D(square, kernel.Edge1D.Kernel())
	require.ErrorIs(t, err, errs.ErrInvalidDimensions)

	broken := signal.Matrix[uint8]{Shape: signal.Shape{Height: 3, Width: 3}, Data: []uint8{1}}
	_, err = Convolve2D(broken, kernel.Identity.Kernel())
	require.ErrorIs(t, err, errs.ErrInvalidDimensions)
}

func TestConvolve_NoOverflowAtExtremes(t *testing.T) {
	in := make([]uint8, 25)
	for i := range in {
		if i%5 >= 3 {
			in[i] = 255
		}
	}
	m, err := signal.NewMatrix(signal.Shape{Height: 5, Width: 5}, in)
	require.NoError(t, err)

	out, err := Convolve2D(m, kernel.Scharr.Kernel())
	require.NoError(t, err)
	bound := kernel.Scharr.Kernel().MagnitudeSum() * 255
	for _, v := range out.Data {
		require.LessOrEqual(t, v, bound)
		require.GreaterOrEqual(t, v, -bound)
	}
	require.Equal(t, int32(16*255), out.At(0, 1))
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]int32{-3, 3, 4, 5, -5, 0, -1, 1}, 2)
	require.NoError(t, err)
	require.Equal(t, []int32{-2, 2, 2, 3, -3, 0, -1, 1}, out)

	out, err = Normalize([]int32{4, 5, 1800, -13}, 9)
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 200, -1}, out)

	_, err = Normalize([]int32{1}, 0)
	require.ErrorIs(t, err, errs.ErrInvalidDivisor)
}

func TestReLU(t *testing.T) {
	in := []int32{-5, 0, 7, -1, 300}
	out := ReLU(in)
	require.Equal(t, []int32{0, 0, 7, 0, 300}, out)
	require.Equal(t, []int32{-5, 0, 7, -1, 300}, in, "input must not be modified")

	m := ReLU2D(signal.Matrix[int32]{Shape: signal.Shape{Height: 1, Width: 2}, Data: []int32{-1, 1}})
	require.Equal(t, []int32{0, 1}, m.Data)
	require.Equal(t, signal.Shape{Height: 1, Width: 2}, m.Shape)
}

func TestSaturate8(t *testing.T) {
	require.Equal(t, []uint8{0, 0, 128, 255, 255}, Saturate8([]int32{-40, 0, 128, 255, 9000}))
}

func TestMaxPool1D(t *testing.T) {
	t.Run("defaults drop the trailing remainder", func(t *testing.T) {
		out, err := MaxPool1D([]int32{1, 5, 2, 2, 9})
		require.NoError(t, err)
		require.Equal(t, []int32{5, 2}, out)
	})

	t.Run("overlapping windows", func(t *testing.T) {
		out, err := MaxPool1D([]int32{1, 5, 2, 8, 3}, WithPoolSize(3), WithStride(1))
		require.NoError(t, err)
		require.Equal(t, []int32{5, 8, 8}, out)
	})

	t.Run("input shorter than window", func(t *testing.T) {
		out, err := MaxPool1D([]int32{4})
		require.NoError(t, err)
		require.Empty(t, out)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		_, err := MaxPool1D([]int32{1, 2}, WithPoolSize(0))
		require.ErrorIs(t, err, errs.ErrInvalidPoolConfig)
		_, err = MaxPool1D([]int32{1, 2}, WithStride(-1))
		require.ErrorIs(t, err, errs.ErrInvalidPoolConfig)
	})
}

func TestPipelineLengthProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for n := 3; n < 40; n++ {
		in := randomStream(rng, n)
		for _, k := range kernel.CanonicalOrder(format.Dim1D) {
			convolved, err := Convolve1D(in, k)
			require.NoError(t, err)
			for size := 1; size <= 4; size++ {
				for stride := 1; stride <= 4; stride++ {
					pooled, err := MaxPool1D(ReLU(convolved), WithPoolSize(size), WithStride(stride))
					require.NoError(t, err)

					want := 0
					if len(convolved) >= size {
						want = (len(convolved)-size)/stride + 1
					}
					require.Len(t, pooled, want)
					require.Equal(t, want, PooledLen(len(convolved), size, stride))
				}
			}
		}
	}
}

func TestPipeline1D(t *testing.T) {
	run, err := Pipeline1D([]uint8{1, 2, 3, 4, 5}, " Edge ")
	require.NoError(t, err)
	require.Equal(t, "edge", run.Kernel.Name())
	require.Equal(t, []int32{2, 2, 2}, run.Convolved)
	require.Equal(t, []int32{2, 2, 2}, run.Activated)
	require.Equal(t, []int32{2}, run.Pooled)

	_, err = Pipeline1D([]uint8{1, 2, 3}, "sobel")
	require.ErrorIs(t, err, errs.ErrInvalidKernelName)

	_, err = Pipeline1D([]uint8{1, 2, 3}, "edge", WithStride(0))
	require.ErrorIs(t, err, errs.ErrInvalidPoolConfig)
}

func TestPipeline1D_ConvolutionModeActivation(t *testing.T) {
	run, err := Pipeline1D([]uint8{1, 2, 3, 4, 5}, "edge", WithMode(format.ModeConvolution))
	require.NoError(t, err)
	require.Equal(t, []int32{-2, -2, -2}, run.Convolved)
	require.Equal(t, []int32{0, 0, 0}, run.Activated)
	require.Equal(t, []int32{0}, run.Pooled)
}

func TestPipeline1DAll(t *testing.T) {
	runs, err := Pipeline1DAll([]uint8{10, 20, 30, 40})
	require.NoError(t, err)
	require.Len(t, runs, kernel.Count1D)
	for i, run := range runs {
		require.Equal(t, i, run.Kernel.Index())
	}

	runs, err = Pipeline1DAll([]uint8{1, 2})
	require.ErrorIs(t, err, errs.ErrInvalidDimensions)
	require.Empty(t, runs)
	require.Contains(t, err.Error(), "kernel gaussian")
}

func TestRun1D_Persist(t *testing.T) {
	run, err := Pipeline1D([]uint8{1, 2, 3, 4, 5, 6, 7}, "edge")
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "cat")
	paths, err := run.Persist(dir, "cat")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "cat_conv1d_edge_stream.txt"),
		filepath.Join(dir, "cat_relu1d_edge_stream.txt"),
		filepath.Join(dir, "cat_pooled1d_edge_stream.txt"),
	}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.Equal(t, "2 2 2 2 2", string(data))

	data, err = os.ReadFile(paths[2])
	require.NoError(t, err)
	require.Equal(t, "2 2", string(data))
}

func TestReference2D(t *testing.T) {
	flat := make([]uint8, 9)
	for i := range flat {
		flat[i] = 200
	}
	in, err := signal.NewMatrix(signal.Shape{Height: 3, Width: 3}, flat)
	require.NoError(t, err)

	raw, err := Reference2D(in, kernel.BoxBlur.Kernel())
	require.NoError(t, err)
	require.Equal(t, []uint8{255}, raw.Data)

	normalized, err := Reference2D(in, kernel.BoxBlur.Kernel(), WithNormalize(true))
	require.NoError(t, err)
	require.Equal(t, []uint8{200}, normalized.Data)

	edges, err := Reference2D(in, kernel.LaplacianDiag.Kernel())
	require.NoError(t, err)
	require.Equal(t, []uint8{0}, edges.Data)
}

func TestReferenceBank(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	in, err := signal.NewMatrix(signal.Shape{Height: 8, Width: 8}, randomStream(rng, 64))
	require.NoError(t, err)

	bank, err := ReferenceBank(in)
	require.NoError(t, err)
	require.Len(t, bank, kernel.Count2D)
	for _, block := range bank {
		require.Equal(t, signal.Shape{Height: 6, Width: 6}, block.Shape)
	}

	// identity passes the cropped input straight through
	for r := 0; r < 6; r++ {
		require.Equal(t, in.Row(r+1)[1:7], bank[kernel.Identity].Row(r))
	}

	tiny, err := signal.FromRows([][]uint8{{1, 2}, {3, 4}})
	require.NoError(t, err)
	_, err = ReferenceBank(tiny)
	require.ErrorIs(t, err, errs.ErrInvalidDimensions)
}
