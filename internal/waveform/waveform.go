// Package waveform models the transmitted current profile of one half-period
// and the CSV descriptor format the Provus application reads it from.
package waveform

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// HalfPeriod is the scaled-time extent of the stored half-period. The second
// half-period is the antisymmetric mirror and is never persisted.
const HalfPeriod = 0.5

// DefaultZeroTime is written when the source file recorded no timing mark.
const DefaultZeroTime = 1e-9

// errors
var (
	ErrTooFewPoints = errors.New("waveform: at least two points required")
	ErrTimeOrder    = errors.New("waveform: point times must be strictly increasing")
)

// Point is one vertex of the piecewise-linear current profile.
type Point struct {
	Time    float64
	Current float64
}

// Waveform describes one half-period of the transmitter current.
type Waveform struct {
	Name          string
	BaseFrequency float64 // Hz
	ZeroTime      float64 // scaled time of the timing mark
	Points        []Point
}

// Validate reports the first invariant violation.
func (w Waveform) Validate() error {
	if w.Name == "" {
		return errors.New("waveform: name must not be empty")
	}
	if w.BaseFrequency <= 0 {
		return fmt.Errorf("waveform %s: base frequency must be > 0, got %g", w.Name, w.BaseFrequency)
	}
	if w.ZeroTime < 0 {
		return fmt.Errorf("waveform %s: zero time must be >= 0, got %g", w.Name, w.ZeroTime)
	}
	if len(w.Points) < 2 {
		return ErrTooFewPoints
	}
	if w.Points[0].Time < 0 {
		return fmt.Errorf("waveform %s: point times must be >= 0, got %g", w.Name, w.Points[0].Time)
	}
	for i := 1; i < len(w.Points); i++ {
		if w.Points[i].Time <= w.Points[i-1].Time {
			return ErrTimeOrder
		}
	}
	return nil
}

// Scaled normalizes millisecond-domain points so that the last point maps to
// HalfPeriod. Points already in scaled time are returned unchanged.
func (w Waveform) Scaled() Waveform {
	if len(w.Points) == 0 {
		return w
	}

	times := make([]float64, len(w.Points))
	for i, p := range w.Points {
		times[i] = p.Time
	}
	maxTime := floats.Max(times)
	if maxTime <= HalfPeriod || maxTime <= 0 {
		return w
	}

	out := w
	out.Points = make([]Point, len(w.Points))
	for i, p := range w.Points {
		out.Points[i] = Point{Time: HalfPeriod * p.Time / maxTime, Current: p.Current}
	}
	if out.ZeroTime > HalfPeriod {
		out.ZeroTime = HalfPeriod * out.ZeroTime / maxTime
	}
	return out
}

// Resample returns the waveform re-sampled at n evenly spaced times over the
// original extent, using piecewise-linear interpolation.
func (w Waveform) Resample(n int) (Waveform, error) {
	if n < 2 {
		return Waveform{}, ErrTooFewPoints
	}
	if err := w.Validate(); err != nil {
		return Waveform{}, err
	}

	xs := make([]float64, len(w.Points))
	ys := make([]float64, len(w.Points))
	for i, p := range w.Points {
		xs[i] = p.Time
		ys[i] = p.Current
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return Waveform{}, errors.Wrap(err, "waveform: interpolation fit error")
	}

	out := w
	out.Points = make([]Point, n)
	first, last := xs[0], xs[len(xs)-1]
	for i := 0; i < n; i++ {
		t := first + (last-first)*float64(i)/float64(n-1)
		out.Points[i] = Point{Time: t, Current: pl.Predict(t)}
	}
	return out, nil
}

// FullCycle returns one complete period: the stored half-period followed by
// its antisymmetric mirror. Used for previewing, never persisted.
func (w Waveform) FullCycle() []Point {
	out := make([]Point, 0, 2*len(w.Points))
	out = append(out, w.Points...)
	for _, p := range w.Points {
		out = append(out, Point{Time: p.Time + HalfPeriod, Current: -p.Current})
	}
	return out
}

// FileName encodes the waveform name and base frequency, e.g. Square_5.200.csv.
func (w Waveform) FileName() string {
	return fmt.Sprintf("%s_%.3f.csv", w.Name, w.BaseFrequency)
}

// CroneFileName is the shared descriptor name for Crone system waveforms.
// All PEM files at the same base frequency reference the same file.
func CroneFileName(baseFrequency float64) string {
	return fmt.Sprintf("Crone_%.1fHz.csv", baseFrequency)
}
