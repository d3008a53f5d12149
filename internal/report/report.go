// Package report renders a posture analysis run as a standalone HTML
// page of ECharts visualisations: segment bend traces, wavelength and
// shape series, eigenworm projections and coiling events.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/wormlab-data/posture.report/internal/worm"
)

// RunInfo labels the report with the run's provenance.
type RunInfo struct {
	Title      string
	SourceName string
	FPS        float64
}

// Render writes the full HTML report to w.
func Render(w io.Writer, info RunInfo, features []worm.FrameFeatures, events []worm.CoilingEvent) error {
	if info.Title == "" {
		info.Title = "Posture Analysis"
	}

	page := components.NewPage()
	page.PageTitle = info.Title
	page.AddCharts(
		bendChart(info, features),
		wavelengthChart(info, features),
		shapeChart(info, features),
		eigenChart(info, features),
		coilingChart(info, events),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteFile renders the report into a file at path.
func WriteFile(path string, info RunInfo, features []worm.FrameFeatures, events []worm.CoilingEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := Render(f, info, features, events); err != nil {
		return err
	}
	return f.Close()
}

// subtitle summarises the run for chart subtitles.
func subtitle(info RunInfo, features []worm.FrameFeatures) string {
	segmented := 0
	for _, ff := range features {
		if ff.Segmented {
			segmented++
		}
	}
	return fmt.Sprintf("source=%s fps=%g frames=%d segmented=%d",
		info.SourceName, info.FPS, len(features), segmented)
}

// frameAxis returns the x axis labels (frame indices).
func frameAxis(features []worm.FrameFeatures) []string {
	x := make([]string, len(features))
	for i, ff := range features {
		x[i] = strconv.Itoa(ff.FrameIndex)
	}
	return x
}

// lineData maps a feature series to chart points, with NaN becoming a
// null point so unsegmented stretches show as gaps.
func lineData(features []worm.FrameFeatures, value func(worm.FrameFeatures) float64) []opts.LineData {
	data := make([]opts.LineData, len(features))
	for i, ff := range features {
		v := value(ff)
		if math.IsNaN(v) {
			data[i] = opts.LineData{Value: nil}
			continue
		}
		data[i] = opts.LineData{Value: v}
	}
	return data
}

func newLine(title string, info RunInfo, features []worm.FrameFeatures) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle(info, features)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
	)
	return line
}

func bendChart(info RunInfo, features []worm.FrameFeatures) components.Charter {
	line := newLine("Segment Bend Means (deg)", info, features)
	line.SetXAxis(frameAxis(features))
	for seg, name := range worm.BendSegmentNames {
		seg := seg
		line.AddSeries(name, lineData(features, func(ff worm.FrameFeatures) float64 {
			return ff.Bends[seg].Mean
		}))
	}
	return line
}

func wavelengthChart(info RunInfo, features []worm.FrameFeatures) components.Charter {
	line := newLine("Wavelengths and Track Length (px)", info, features)
	line.SetXAxis(frameAxis(features))
	line.AddSeries("primary wavelength", lineData(features, func(ff worm.FrameFeatures) float64 {
		return ff.WavelengthPrimary
	}))
	line.AddSeries("secondary wavelength", lineData(features, func(ff worm.FrameFeatures) float64 {
		return ff.WavelengthSecondary
	}))
	line.AddSeries("track length", lineData(features, func(ff worm.FrameFeatures) float64 {
		return ff.TrackLength
	}))
	return line
}

func shapeChart(info RunInfo, features []worm.FrameFeatures) components.Charter {
	line := newLine("Shape Measures", info, features)
	line.SetXAxis(frameAxis(features))
	line.AddSeries("eccentricity", lineData(features, func(ff worm.FrameFeatures) float64 {
		return ff.Eccentricity
	}))
	line.AddSeries("amplitude ratio", lineData(features, func(ff worm.FrameFeatures) float64 {
		return ff.AmplitudeRatio
	}))
	line.AddSeries("bend count", lineData(features, func(ff worm.FrameFeatures) float64 {
		return ff.BendCount
	}))
	return line
}

func eigenChart(info RunInfo, features []worm.FrameFeatures) components.Charter {
	line := newLine("Eigenworm Projections", info, features)
	line.SetXAxis(frameAxis(features))
	for i := 0; i < worm.EigenwormCount; i++ {
		i := i
		line.AddSeries(fmt.Sprintf("mode %d", i+1), lineData(features, func(ff worm.FrameFeatures) float64 {
			return ff.EigenProjections[i]
		}))
	}
	return line
}

func coilingChart(info RunInfo, events []worm.CoilingEvent) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Coiling Events",
			Subtitle: fmt.Sprintf("source=%s events=%d", info.SourceName, len(events)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "start frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "duration (s)"}),
	)

	x := make([]string, len(events))
	y := make([]opts.BarData, len(events))
	for i, ev := range events {
		x[i] = strconv.Itoa(ev.StartFrame)
		y[i] = opts.BarData{Value: ev.DurationSeconds}
	}
	bar.SetXAxis(x).AddSeries("duration", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}
