// Package psrplot records per-target confidence over frames and renders it as a chart.
package psrplot

import (
	"fmt"
	"image/color"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Sample is confidence of a single target on a single frame
type Sample struct {
	Frame      int
	Confidence float64
	Lost       bool
}

// Recorder accumulates samples per target. Safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	threshold float64
	series    map[uuid.UUID][]Sample
	order     []uuid.UUID
}

// NewRecorder creates recorder; threshold is drawn as a horizontal reference line
func NewRecorder(threshold float64) *Recorder {
	return &Recorder{
		threshold: threshold,
		series:    make(map[uuid.UUID][]Sample),
	}
}

// Add appends sample for target id
func (rec *Recorder) Add(id uuid.UUID, sample Sample) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if _, ok := rec.series[id]; !ok {
		rec.order = append(rec.order, id)
	}
	rec.series[id] = append(rec.series[id], sample)
}

// Samples returns copy of samples recorded for target id
func (rec *Recorder) Samples(id uuid.UUID) []Sample {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]Sample, len(rec.series[id]))
	copy(out, rec.series[id])
	return out
}

// Targets returns identifiers in order of first appearance
func (rec *Recorder) Targets() []uuid.UUID {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	out := make([]uuid.UUID, len(rec.order))
	copy(out, rec.order)
	return out
}

// LostRatio returns share of frames on which target id was lost
func (rec *Recorder) LostRatio(id uuid.UUID) float64 {
	samples := rec.Samples(id)
	if len(samples) == 0 {
		return 0
	}
	lost := 0
	for _, s := range samples {
		if s.Lost {
			lost++
		}
	}
	return float64(lost) / float64(len(samples))
}

// Plot builds chart with one line per target and the threshold line
func (rec *Recorder) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Peak-to-sidelobe ratio"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "PSR"

	minFrame, maxFrame := 0, 0
	for i, id := range rec.Targets() {
		samples := rec.Samples(id)
		if len(samples) == 0 {
			continue
		}
		sort.Slice(samples, func(a, b int) bool { return samples[a].Frame < samples[b].Frame })
		pts := make(plotter.XYs, len(samples))
		for j, s := range samples {
			pts[j] = plotter.XY{X: float64(s.Frame), Y: s.Confidence}
		}
		if i == 0 || samples[0].Frame < minFrame {
			minFrame = samples[0].Frame
		}
		if last := samples[len(samples)-1].Frame; i == 0 || last > maxFrame {
			maxFrame = last
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't build line for target %s", id.String())
		}
		line.Color = plotColor(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("target %d", i+1), line)
	}

	threshold, err := plotter.NewLine(plotter.XYs{
		{X: float64(minFrame), Y: rec.threshold},
		{X: float64(maxFrame), Y: rec.threshold},
	})
	if err != nil {
		return nil, errors.Wrap(err, "Can't build threshold line")
	}
	threshold.Color = color.RGBA{R: 200, A: 255}
	threshold.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(threshold)
	p.Legend.Add("threshold", threshold)
	return p, nil
}

// Save renders chart into file; format is taken from the extension (png, svg, pdf)
func (rec *Recorder) Save(path string) error {
	p, err := rec.Plot()
	if err != nil {
		return err
	}
	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "Can't save plot to %s", path)
	}
	return nil
}

var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

func plotColor(i int) color.Color {
	return palette[i%len(palette)]
}
