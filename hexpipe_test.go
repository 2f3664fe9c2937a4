package hexpipe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/hexpipe/conv"
	"github.com/arloliu/hexpipe/errs"
	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/hexcodec"
	"github.com/arloliu/hexpipe/signal"
)

func TestKernel(t *testing.T) {
	k, err := Kernel(format.Dim2D, " Sobel_H ")
	require.NoError(t, err)
	require.Equal(t, "sobel_h", k.Name())
	require.Equal(t, 6, k.Index())

	_, err = Kernel(format.Dim1D, "sobel_h")
	require.ErrorIs(t, err, errs.ErrInvalidKernelName)

	require.Equal(t, []string{"identity", "blur", "gaussian", "edge"}, KernelNames(format.Dim1D))
}

func TestRun1D_EdgeExample(t *testing.T) {
	run, err := Run1D([]uint8{1, 2, 3, 4, 5}, "edge")
	require.NoError(t, err)
	require.Equal(t, []int32{2, 2, 2}, run.Convolved)
	require.Equal(t, []int32{2, 2, 2}, run.Activated)
	require.Equal(t, []int32{2}, run.Pooled)

	_, err = Run1D([]uint8{1, 2}, "edge")
	require.ErrorIs(t, err, errs.ErrInvalidDimensions)
}

func gradient(h, w int) signal.Matrix[uint8] {
	data := make([]uint8, h*w)
	for i := range data {
		data[i] = uint8((i * 13) % 256)
	}

	return signal.Matrix[uint8]{Shape: signal.Shape{Height: h, Width: w}, Data: data}
}

func TestReferenceStreamRoundTrip(t *testing.T) {
	img := gradient(6, 7)

	var buf bytes.Buffer
	require.NoError(t, WriteReferenceStream(&buf, img, conv.WithNormalize(true)))

	shape := signal.Shape{Height: 4, Width: 5}
	rec, res, err := ReconstructStream(bytes.NewReader(buf.Bytes()), shape)
	require.NoError(t, err)
	require.Zero(t, res.InvalidCount)
	require.Equal(t, format.Complete, rec.Report.Classification)
	require.Len(t, rec.Blocks, 11)

	blocks, err := conv.ReferenceBank(img, conv.WithNormalize(true))
	require.NoError(t, err)
	for i, b := range rec.Blocks {
		img, err := b.Image()
		require.NoError(t, err)
		require.Equal(t, blocks[i], img)
	}
}

func TestAnalyzeStream_Truncated(t *testing.T) {
	img := gradient(4, 4)

	var buf bytes.Buffer
	require.NoError(t, WriteReferenceStream(&buf, img))

	// keep three full 2x2 blocks and one extra record, plus some noise
	lines := strings.SplitAfter(buf.String(), "\n")
	cut := strings.Join(lines[:13], "") + "garbage\n\n"

	rep, res, err := AnalyzeStream(strings.NewReader(cut), signal.Shape{Height: 2, Width: 2}, 11)
	require.NoError(t, err)
	require.Equal(t, format.Partial, rep.Classification)
	require.Equal(t, 3, rep.CompleteKernels)
	require.Equal(t, 1, rep.RemainderSamples)
	require.Equal(t, 1, rep.InvalidLines)
	require.Equal(t, []hexcodec.InvalidLine{{Line: 14, Text: "garbage"}}, res.InvalidLines)

	rec, _, err := ReconstructStream(strings.NewReader(cut), signal.Shape{Height: 2, Width: 2})
	require.NoError(t, err)
	pb, ok := rec.PartialBlock()
	require.True(t, ok)
	require.Equal(t, "Sharpening", pb.Name)
	require.Equal(t, "output_kernel_03_Sharpening_PARTIAL", pb.FileName("output"))
}
