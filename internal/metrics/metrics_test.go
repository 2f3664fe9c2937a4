package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/hexpipe/diag"
	"github.com/arloliu/hexpipe/hexcodec"
	"github.com/arloliu/hexpipe/signal"
)

func TestRecorderTextfile(t *testing.T) {
	r := New()

	res, err := hexcodec.DecodeString("0A\n14\n1E\nzz\n28\n32\n3C\n")
	require.NoError(t, err)
	r.RecordDecode(res)
	r.RecordPipelineRun("edge")
	r.RecordPipelineRun("edge")

	rec, err := diag.Reconstruct(res.Samples, signal.Shape{Height: 2, Width: 2}, 3, []string{"A", "B", "C"})
	require.NoError(t, err)
	r.RecordReconstruction(rec)

	path := filepath.Join(t.TempDir(), "hexpipe.prom")
	require.NoError(t, r.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	require.Contains(t, text, "hexpipe_decode_samples_total 6")
	require.Contains(t, text, "hexpipe_decode_invalid_lines_total 1")
	require.Contains(t, text, `hexpipe_pipeline_runs_total{kernel="edge"} 2`)
	require.Contains(t, text, `hexpipe_reconstruct_blocks_total{partial="false"} 1`)
	require.Contains(t, text, `hexpipe_reconstruct_blocks_total{partial="true"} 1`)
	require.Contains(t, text, "hexpipe_stream_completion_ratio 0.5")
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.RecordPipelineRun("blur")

	fa, err := a.Registry().Gather()
	require.NoError(t, err)
	fb, err := b.Registry().Gather()
	require.NoError(t, err)
	require.Greater(t, len(fa), len(fb))
}
