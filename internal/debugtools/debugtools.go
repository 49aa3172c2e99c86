// Package debugtools renders diagnostic PNGs from engine traces. It is
// never called from the stepped engine itself: only test helpers and
// an example host's optional tracing flag reach into it.
package debugtools

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/hopperlabs/gbx/internal/apu"
	"github.com/hopperlabs/gbx/internal/ppu"
)

// PlotAudioTrace renders the left/right channels of samples as two
// overlaid line plots and writes the result to path as a PNG.
func PlotAudioTrace(samples []apu.Sample, path string) error {
	p := plot.New()
	p.Title.Text = "Audio Trace"
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "amplitude"

	left := make(plotter.XYs, len(samples))
	right := make(plotter.XYs, len(samples))
	for i, s := range samples {
		left[i].X, left[i].Y = float64(i), float64(s.Left)
		right[i].X, right[i].Y = float64(i), float64(s.Right)
	}

	leftLine, err := plotter.NewLine(left)
	if err != nil {
		return fmt.Errorf("debugtools: build left-channel line: %w", err)
	}
	rightLine, err := plotter.NewLine(right)
	if err != nil {
		return fmt.Errorf("debugtools: build right-channel line: %w", err)
	}
	p.Add(leftLine, rightLine)
	p.Legend.Add("left", leftLine)
	p.Legend.Add("right", rightLine)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// PlotScanlineTiming renders mode-transition timing across a sequence
// of scanlines as a line plot and writes the result to path as a PNG.
func PlotScanlineTiming(trace []ppu.ModeSample, path string) error {
	p := plot.New()
	p.Title.Text = "Scanline Mode Timing"
	p.X.Label.Text = "scanline"
	p.Y.Label.Text = "mode"

	points := make(plotter.XYs, len(trace))
	for i, s := range trace {
		points[i].X, points[i].Y = float64(s.Line), float64(s.Mode)
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("debugtools: build mode-timing line: %w", err)
	}
	p.Add(line)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
