package plot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"container-labs/internal/dataframe"
	"container-labs/internal/experiments"
	"container-labs/internal/logging"
	"container-labs/internal/plot/figure"
	"container-labs/internal/plot/nested"
	"container-labs/internal/plot/overhead"
	"container-labs/internal/plot/render"
	"container-labs/internal/plot/scale"
	"container-labs/internal/plot/startup"
	"container-labs/internal/plot/tikz"

	"github.com/sirupsen/logrus"
)

type Options struct {
	ResultsDir string
	ImagesDir  string
	DPI        int
	TikZ       bool
}

type PlotManager struct {
	opts     Options
	renderer *render.Renderer
	tikz     *tikz.Generator
	logger   *logrus.Logger
}

// NewPlotManager fails when the rasterizer cannot draw a trivial chart.
func NewPlotManager(opts Options) (*PlotManager, error) {
	logger := logging.GetLogger()

	if err := render.Check(); err != nil {
		return nil, err
	}

	return &PlotManager{
		opts:     opts,
		renderer: render.New(opts.DPI),
		tikz:     tikz.NewGenerator(logger),
		logger:   logger,
	}, nil
}

// BuildFigures returns one figure per experiment that has data, in
// experiment order.
func BuildFigures(ds *experiments.Datasets) []*figure.Figure {
	candidates := []*figure.Figure{
		startup.Build(experiments.StartupGroups(ds.Startup)),
		scale.Build(experiments.ScaleGroups(ds.Scale)),
		overhead.Build(experiments.RuntimeGroups(ds.Runtime)),
		nested.Build(experiments.NestedGroups(ds.Nested)),
	}

	var figures []*figure.Figure
	for _, fig := range candidates {
		if fig != nil {
			figures = append(figures, fig)
		}
	}
	return figures
}

// GenerateAll renders every figure. A failing figure is logged and skipped;
// the failures are returned joined once all figures have been attempted.
func (pm *PlotManager) GenerateAll(ds *experiments.Datasets) ([]string, error) {
	checksum, err := dataframe.Checksum(ds.Frames()...)
	if err != nil {
		pm.logger.WithError(err).Warn("Failed to compute input checksum")
	}

	var saved []string
	var errs []error
	for _, fig := range BuildFigures(ds) {
		paths, err := pm.Generate(fig, checksum)
		saved = append(saved, paths...)
		if err != nil {
			pm.logger.WithField("figure", fig.Name).WithError(err).Error("Failed to generate chart")
			errs = append(errs, err)
		}
	}
	return saved, errors.Join(errs...)
}

// Generate renders a figure once and writes identical PNG copies to the
// results and images directories, plus TikZ sources when enabled.
func (pm *PlotManager) Generate(fig *figure.Figure, checksum string) ([]string, error) {
	png, err := pm.renderer.Render(fig)
	if err != nil {
		return nil, err
	}

	name := fig.Name + ".png"
	var saved []string
	for _, dir := range []string{pm.opts.ResultsDir, pm.opts.ImagesDir} {
		path := filepath.Join(dir, name)
		if err := writeFile(path, png); err != nil {
			return saved, err
		}
		pm.logger.WithField("path", path).Info("Saved")
		saved = append(saved, path)
	}

	if !pm.opts.TikZ {
		return saved, nil
	}

	plotTikz, wrapperTex, err := pm.tikz.Generate(fig, checksum)
	if err != nil {
		return saved, fmt.Errorf("tikz %s: %w", fig.Name, err)
	}
	for file, content := range map[string]string{
		tikz.PlotFileName(fig):    plotTikz,
		tikz.WrapperFileName(fig): wrapperTex,
	} {
		path := filepath.Join(pm.opts.ResultsDir, file)
		if err := writeFile(path, []byte(content)); err != nil {
			return saved, err
		}
		pm.logger.WithField("path", path).Info("Saved")
		saved = append(saved, path)
	}
	return saved, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
