package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/arloliu/hexpipe/conv"
	"github.com/arloliu/hexpipe/diag"
	"github.com/arloliu/hexpipe/format"
	"github.com/arloliu/hexpipe/hexcodec"
	"github.com/arloliu/hexpipe/kernel"
	"github.com/arloliu/hexpipe/signal"
)

var classificationColors = map[format.Classification]*color.Color{
	format.Empty:      color.New(color.FgRed, color.Bold),
	format.Incomplete: color.New(color.FgRed),
	format.Partial:    color.New(color.FgYellow),
	format.Complete:   color.New(color.FgGreen, color.Bold),
}

func (a *app) kernels(args []string) error {
	fs := a.flagSet("kernels")
	dimFlag := fs.String("dim", "2", "kernel dimensionality: 1 or 2")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dim, err := format.ParseDimensionality(*dimFlag)
	if err != nil {
		return err
	}

	for _, k := range kernel.CanonicalOrder(dim) {
		fmt.Fprintf(a.stdout, "%2d  %-16s %-20s /%-3d %v\n", k.Index(), k.Name(), k.Label(), k.Divisor(), k.Taps())
	}

	return nil
}

func (a *app) encode(args []string) error {
	fs := a.flagSet("encode")
	in := fs.String("in", "", "matrix text file (rows or a single line)")
	out := fs.String("out", "", "hex file to write (.zst, .s2 or .lz4 to compress)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag(fs, "in", *in); err != nil {
		return err
	}
	if err := requireFlag(fs, "out", *out); err != nil {
		return err
	}

	samples, err := readFlat(*in)
	if err != nil {
		return err
	}
	if err := hexcodec.WriteFile(*out, samples, a.fileOptions()...); err != nil {
		return err
	}
	a.log.Info().Str("in", *in).Str("out", *out).Int("samples", len(samples)).Msg("encoded")

	return nil
}

func (a *app) run1D(args []string) error {
	fs := a.flagSet("run1d")
	in := fs.String("in", "", "matrix text file, flattened before the run")
	name := fs.String("kernel", "", "1D kernel name, or \"all\": "+strings.Join(kernel.Names(format.Dim1D), ", "))
	dir := fs.String("out", a.cfg.Output.Dir, "directory for the stage artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag(fs, "in", *in); err != nil {
		return err
	}
	if err := requireFlag(fs, "kernel", *name); err != nil {
		return err
	}

	samples, err := readFlat(*in)
	if err != nil {
		return err
	}

	opts := a.convOptions()
	var runs []*conv.Run1D
	var runErr error
	if strings.EqualFold(strings.TrimSpace(*name), "all") {
		runs, runErr = conv.Pipeline1DAll(samples, opts...)
	} else {
		var r *conv.Run1D
		if r, runErr = conv.Pipeline1D(samples, *name, opts...); runErr == nil {
			runs = append(runs, r)
		}
	}

	for _, r := range runs {
		paths, err := r.Persist(*dir, a.cfg.Output.Base)
		if err != nil {
			return err
		}
		a.metrics.RecordPipelineRun(r.Kernel.Name())
		a.log.Info().
			Str("kernel", r.Kernel.Name()).
			Int("input", len(r.Input)).
			Int("conv", len(r.Convolved)).
			Int("pooled", len(r.Pooled)).
			Msg("pipeline run")
		for _, p := range paths {
			fmt.Fprintln(a.stdout, p)
		}
	}

	return runErr
}

func (a *app) reference(args []string) error {
	fs := a.flagSet("reference")
	in := fs.String("in", "", "2D matrix text file")
	out := fs.String("out", "", "expected hex stream to write")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag(fs, "in", *in); err != nil {
		return err
	}
	if err := requireFlag(fs, "out", *out); err != nil {
		return err
	}

	m, err := readMatrix(*in)
	if err != nil {
		return err
	}
	blocks, err := conv.ReferenceBank(m, a.convOptions()...)
	if err != nil {
		return err
	}
	if err := hexcodec.WriteBlocksFile(*out, blocks, a.fileOptions()...); err != nil {
		return err
	}

	a.log.Info().
		Stringer("input", m.Shape).
		Stringer("block", blocks[0].Shape).
		Int("kernels", len(blocks)).
		Str("out", *out).
		Msg("reference stream written")

	return nil
}

type streamFlags struct {
	in      *string
	width   *int
	height  *int
	kernels *int
}

const kernelsUsage = "expected kernel count"

// reconstructKernelsUsage warns that blocks are named from the full 2D bank,
// so a stream longer than -kernels blocks still writes those extra files.
const reconstructKernelsUsage = kernelsUsage + "; blocks are labelled from the " +
	"11-name 2D bank (or -kernels names if larger), so a longer stream also writes " +
	"files for extra complete blocks and one partial block"

func (a *app) addStreamFlags(fs *flag.FlagSet, kernelsHelp string) streamFlags {
	return streamFlags{
		in:      fs.String("in", "", "hex stream to read"),
		width:   fs.Int("width", a.cfg.Stream.Shape.Width, "output width per kernel"),
		height:  fs.Int("height", a.cfg.Stream.Shape.Height, "output height per kernel"),
		kernels: fs.Int("kernels", a.cfg.Stream.Kernels, kernelsHelp),
	}
}

func (s streamFlags) shape() signal.Shape {
	return signal.Shape{Height: *s.height, Width: *s.width}
}

func (a *app) decode(path string) (*hexcodec.DecodeResult, error) {
	opts := append(a.fileOptions(), hexcodec.WithDecodeOptions(hexcodec.WithMaxReports(a.cfg.Stream.MaxInvalidReports)))
	res, err := hexcodec.ReadFile(path, opts...)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordDecode(res)

	if res.InvalidCount > 0 {
		for _, l := range res.InvalidLines {
			a.log.Warn().Str("file", path).Int("line", l.Line).Str("text", l.Text).Msg("invalid hex")
		}
		if n := res.Suppressed(); n > 0 {
			a.log.Warn().Str("file", path).Int("count", n).Msg("more invalid lines")
		}
	}

	return res, nil
}

func (a *app) analyze(args []string) error {
	fs := a.flagSet("analyze")
	sf := a.addStreamFlags(fs, kernelsUsage)
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag(fs, "in", *sf.in); err != nil {
		return err
	}

	res, err := a.decode(*sf.in)
	if err != nil {
		return err
	}
	rep, err := diag.AnalyzeDecoded(res, sf.shape(), *sf.kernels)
	if err != nil {
		return err
	}
	a.metrics.RecordReport(rep)

	if *asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(rep)
	}

	a.printReport(rep)
	if s := res.Summary(); s != "" {
		fmt.Fprint(a.stdout, s)
	}

	return nil
}

func (a *app) printReport(rep diag.Report) {
	text := rep.String()
	label := rep.Classification.String()
	if c, ok := classificationColors[rep.Classification]; ok {
		text = strings.Replace(text, "classification: "+label, "classification: "+c.Sprint(label), 1)
	}
	fmt.Fprintln(a.stdout, text)
}

func (a *app) reconstruct(args []string) error {
	fs := a.flagSet("reconstruct")
	sf := a.addStreamFlags(fs, reconstructKernelsUsage)
	dir := fs.String("out", a.cfg.Output.Dir, "directory for the per-kernel matrix files")
	expected := fs.String("expected", "", "reference hex stream to compare against")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlag(fs, "in", *sf.in); err != nil {
		return err
	}

	res, err := a.decode(*sf.in)
	if err != nil {
		return err
	}
	rec, err := diag.Reconstruct(res.Samples, sf.shape(), *sf.kernels, blockNames(*sf.kernels))
	if err != nil {
		return err
	}
	rec.Report.InvalidLines = res.InvalidCount
	a.metrics.RecordReconstruction(rec)

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return err
	}
	for _, b := range rec.Blocks {
		path := filepath.Join(*dir, b.FileName(a.cfg.Output.Base)+".txt")
		if err := writeMatrixFile(path, b.Matrix()); err != nil {
			return err
		}
		ev := a.log.Info()
		if b.Partial {
			ev = a.log.Warn()
		}
		ev.Int("index", b.Index).Str("name", b.Name).Bool("partial", b.Partial).Str("path", path).Msg("block")
	}

	for _, group := range diag.DuplicateBlocks(rec.Blocks) {
		a.log.Warn().Ints("blocks", group).Msg("identical kernel outputs")
	}

	a.printReport(rec.Report)

	if *expected == "" {
		return nil
	}

	return a.compareExpected(rec, *expected)
}

func (a *app) compareExpected(rec *diag.Reconstruction, path string) error {
	res, err := a.decode(path)
	if err != nil {
		return err
	}
	want, err := diag.Reconstruct(res.Samples, rec.Shape, rec.Kernels, blockNames(rec.Kernels))
	if err != nil {
		return err
	}

	for _, b := range rec.Complete() {
		if b.Index >= len(want.Blocks) || want.Blocks[b.Index].Partial {
			a.log.Warn().Str("name", b.Name).Msg("no expected block")
			continue
		}
		img, err := want.Blocks[b.Index].Image()
		if err != nil {
			return err
		}
		m, err := diag.Compare(b, img)
		if err != nil {
			return err
		}
		status := color.GreenString("match")
		if !m.Equal() {
			status = color.RedString(m.String())
		}
		fmt.Fprintf(a.stdout, "%2d %-20s %s\n", b.Index, b.Name, status)
	}

	return nil
}

// blockNames returns the canonical 2D labels, extended with generic names when
// more kernels are expected than the bank holds.
func blockNames(k int) []string {
	names := kernel.Labels(format.Dim2D)
	for i := len(names); i < k; i++ {
		names = append(names, fmt.Sprintf("Kernel_%02d", i))
	}

	return names
}

func (a *app) fileOptions() []hexcodec.FileOption {
	if a.cfg.Stream.Compression == format.CompressionNone {
		return nil
	}

	return []hexcodec.FileOption{hexcodec.WithCompression(a.cfg.Stream.Compression)}
}

func (a *app) convOptions() []conv.Option {
	return []conv.Option{
		conv.WithMode(a.cfg.Pipeline.Mode),
		conv.WithPoolSize(a.cfg.Pipeline.PoolSize),
		conv.WithStride(a.cfg.Pipeline.Stride),
		conv.WithNormalize(a.cfg.Pipeline.Normalize),
	}
}

func readFlat(path string) ([]uint8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return signal.ReadFlat(f)
}

func readMatrix(path string) (signal.Matrix[uint8], error) {
	f, err := os.Open(path)
	if err != nil {
		return signal.Matrix[uint8]{}, err
	}
	defer f.Close()

	return signal.ReadMatrix(f)
}

func writeMatrixFile[T signal.Integer](path string, m signal.Matrix[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := signal.WriteMatrix(f, m); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
