// Package monitor renders PNG diagnostics of posture analysis output:
// per-frame skeleton traces and whole-video feature time series.
package monitor

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/wormlab-data/posture.report/internal/worm"
)

// PosturePlotter writes diagnostic plots for one analysis run into a
// single output directory.
type PosturePlotter struct {
	outputDir string
}

// NewPosturePlotter creates the output directory and returns a plotter
// writing into it.
func NewPosturePlotter(outputDir string) (*PosturePlotter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plot output dir: %w", err)
	}
	return &PosturePlotter{outputDir: outputDir}, nil
}

// OutputDir returns the directory plots are written to.
func (pp *PosturePlotter) OutputDir() string {
	return pp.outputDir
}

// PlotSkeleton renders one frame's skeleton (and contour, when present)
// as skeleton_<frame>.png. Unsegmented frames are skipped without error.
func (pp *PosturePlotter) PlotSkeleton(f worm.Frame) error {
	if !f.Code.Segmented() || len(f.Skeleton) == 0 {
		return nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Frame %d - Skeleton", f.Index)
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "y (px)"

	skelPts := make(plotter.XYs, len(f.Skeleton))
	for i, pt := range f.Skeleton {
		skelPts[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	skelLine, err := plotter.NewLine(skelPts)
	if err != nil {
		return err
	}
	skelLine.Color = color.RGBA{R: 200, A: 255}
	skelLine.Width = vg.Points(1.5)
	p.Add(skelLine)
	p.Legend.Add("skeleton", skelLine)

	if len(f.Contour) > 1 {
		contourPts := make(plotter.XYs, len(f.Contour)+1)
		for i, pt := range f.Contour {
			contourPts[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		// Close the contour loop.
		contourPts[len(f.Contour)] = contourPts[0]
		contourLine, err := plotter.NewLine(contourPts)
		if err != nil {
			return err
		}
		contourLine.Color = color.RGBA{B: 200, A: 255}
		contourLine.Width = vg.Points(1)
		p.Add(contourLine)
		p.Legend.Add("contour", contourLine)
	}

	p.Legend.Top = true
	file := filepath.Join(pp.outputDir, fmt.Sprintf("skeleton_%05d.png", f.Index))
	if err := p.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save skeleton plot: %w", err)
	}
	return nil
}

// PlotFeatureSeries renders the whole-video feature time series and
// returns the number of plot files written. Undefined (NaN) values are
// skipped, so unsegmented stretches appear as gaps in the lines.
func (pp *PosturePlotter) PlotFeatureSeries(features []worm.FrameFeatures) (int, error) {
	if len(features) == 0 {
		return 0, nil
	}

	plotCount := 0
	if err := pp.plotBendMeans(features); err != nil {
		return plotCount, err
	}
	plotCount++
	if err := pp.plotWavelengths(features); err != nil {
		return plotCount, err
	}
	plotCount++
	if err := pp.plotShapeSeries(features); err != nil {
		return plotCount, err
	}
	plotCount++
	return plotCount, nil
}

// plotBendMeans draws the five segment bend means as colored lines with
// a legend, one line per body segment.
func (pp *PosturePlotter) plotBendMeans(features []worm.FrameFeatures) error {
	p := plot.New()
	p.Title.Text = "Segment Bend Means"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Bend angle (deg)"

	colors := generateColors(len(worm.BendSegmentNames))
	for seg, name := range worm.BendSegmentNames {
		pts := make(plotter.XYs, 0, len(features))
		for _, ff := range features {
			v := ff.Bends[seg].Mean
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(ff.FrameIndex), Y: v})
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = colors[seg]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	p.Legend.Top = true
	file := filepath.Join(pp.outputDir, "bend_means.png")
	if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save bend means plot: %w", err)
	}
	return nil
}

// plotWavelengths draws the primary and secondary wavelengths plus the
// track length over frames.
func (pp *PosturePlotter) plotWavelengths(features []worm.FrameFeatures) error {
	p := plot.New()
	p.Title.Text = "Wavelengths and Track Length"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Length (px)"

	series := []struct {
		name  string
		value func(worm.FrameFeatures) float64
	}{
		{"primary wavelength", func(ff worm.FrameFeatures) float64 { return ff.WavelengthPrimary }},
		{"secondary wavelength", func(ff worm.FrameFeatures) float64 { return ff.WavelengthSecondary }},
		{"track length", func(ff worm.FrameFeatures) float64 { return ff.TrackLength }},
	}
	colors := generateColors(len(series))
	for i, s := range series {
		pts := make(plotter.XYs, 0, len(features))
		for _, ff := range features {
			v := s.value(ff)
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(ff.FrameIndex), Y: v})
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	p.Legend.Top = true
	file := filepath.Join(pp.outputDir, "wavelengths.png")
	if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save wavelengths plot: %w", err)
	}
	return nil
}

// plotShapeSeries draws eccentricity, amplitude ratio and bend count,
// which share a small common range.
func (pp *PosturePlotter) plotShapeSeries(features []worm.FrameFeatures) error {
	p := plot.New()
	p.Title.Text = "Shape Measures"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Value"

	series := []struct {
		name  string
		value func(worm.FrameFeatures) float64
	}{
		{"eccentricity", func(ff worm.FrameFeatures) float64 { return ff.Eccentricity }},
		{"amplitude ratio", func(ff worm.FrameFeatures) float64 { return ff.AmplitudeRatio }},
		{"bend count", func(ff worm.FrameFeatures) float64 { return ff.BendCount }},
	}
	colors := generateColors(len(series))
	for i, s := range series {
		pts := make(plotter.XYs, 0, len(features))
		for _, ff := range features {
			v := s.value(ff)
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(ff.FrameIndex), Y: v})
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	p.Legend.Top = true
	file := filepath.Join(pp.outputDir, "shape_measures.png")
	if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save shape measures plot: %w", err)
	}
	return nil
}

// generateColors creates a palette of distinct colors.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

// FormatTimestamp generates a timestamp string for directory naming.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakePlotOutputDir builds a timestamped output directory for one run's
// plots: <baseDir>/<video_basename>/<timestamp>.
func MakePlotOutputDir(baseDir, videoFile string) string {
	ts := FormatTimestamp(time.Now())
	if videoFile != "" {
		base := filepath.Base(videoFile)
		ext := filepath.Ext(base)
		name := base[:len(base)-len(ext)]
		return filepath.Join(baseDir, name, ts)
	}
	return filepath.Join(baseDir, "run_"+ts)
}
