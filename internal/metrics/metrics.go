// Package metrics records decode and reconstruction counters for one CLI run
// and exports them in the Prometheus text format, ready for a node_exporter
// textfile collector.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/hexpipe/diag"
	"github.com/arloliu/hexpipe/hexcodec"
)

const namespace = "hexpipe"

// Recorder owns a private registry with the hexpipe collectors.
type Recorder struct {
	reg *prometheus.Registry

	decodedSamples prometheus.Counter
	invalidLines   prometheus.Counter
	pipelineRuns   *prometheus.CounterVec
	blocks         *prometheus.CounterVec
	completion     prometheus.Gauge
}

// New returns a Recorder with every collector registered.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		decodedSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "samples_total",
			Help:      "Hex records decoded successfully.",
		}),
		invalidLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "decode",
			Name:      "invalid_lines_total",
			Help:      "Non-blank lines that were not valid hex.",
		}),
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Convolution pipeline runs by kernel.",
		}, []string{"kernel"}),
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconstruct",
			Name:      "blocks_total",
			Help:      "Reconstructed kernel blocks.",
		}, []string{"partial"}),
		completion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "completion_ratio",
			Help:      "Decoded samples over expected samples for the last analyzed stream.",
		}),
	}
	r.reg.MustRegister(r.decodedSamples, r.invalidLines, r.pipelineRuns, r.blocks, r.completion)

	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// RecordDecode counts decoded samples and invalid lines.
func (r *Recorder) RecordDecode(res *hexcodec.DecodeResult) {
	r.decodedSamples.Add(float64(len(res.Samples)))
	r.invalidLines.Add(float64(res.InvalidCount))
}

// RecordPipelineRun counts one pipeline run for the named kernel.
func (r *Recorder) RecordPipelineRun(kernel string) {
	r.pipelineRuns.WithLabelValues(kernel).Inc()
}

// RecordReport sets the completion ratio gauge.
func (r *Recorder) RecordReport(rep diag.Report) {
	r.completion.Set(rep.CompletionRatio)
}

// RecordReconstruction counts blocks by partial flag and records its report.
func (r *Recorder) RecordReconstruction(rec *diag.Reconstruction) {
	for _, b := range rec.Blocks {
		r.blocks.WithLabelValues(strconv.FormatBool(b.Partial)).Inc()
	}
	r.RecordReport(rec.Report)
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
