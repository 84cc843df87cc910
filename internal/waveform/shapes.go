package waveform

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// DefaultHalfSinePoints is the number of samples on the sine arch.
const DefaultHalfSinePoints = 37

// Square returns a 100% duty-cycle square wave.
func Square(baseFrequency float64) Waveform {
	return Waveform{
		Name:          "Square",
		BaseFrequency: baseFrequency,
		ZeroTime:      0,
		Points: []Point{
			{Time: 0.0000, Current: -1},
			{Time: 0.0001, Current: 1},
			{Time: 0.5000, Current: 1},
		},
	}
}

// SquareWithOfftime returns a square pulse over the first quarter-period
// followed by an off-time. The zero time sits just past the turn-off.
func SquareWithOfftime(baseFrequency float64) Waveform {
	return Waveform{
		Name:          "SquareOfftime",
		BaseFrequency: baseFrequency,
		ZeroTime:      0.25001,
		Points: []Point{
			{Time: 0.0000, Current: 0},
			{Time: 0.0001, Current: 1},
			{Time: 0.2500, Current: 1},
			{Time: 0.2501, Current: 0},
			{Time: 0.5000, Current: 0},
		},
	}
}

// Triangle returns a linear ramp from +1 to -1 over the half-period.
func Triangle(baseFrequency float64) Waveform {
	return Waveform{
		Name:          "Triangle",
		BaseFrequency: baseFrequency,
		ZeroTime:      0,
		Points: []Point{
			{Time: 0.0, Current: 1},
			{Time: 0.5, Current: -1},
		},
	}
}

// HalfSine returns a sine arch of the given pulse width, sampled at n points,
// with the remainder of the half-period off. n below 2 falls back to
// DefaultHalfSinePoints.
func HalfSine(baseFrequency, pulseWidthMS float64, n int) Waveform {
	if n < 2 {
		n = DefaultHalfSinePoints
	}
	periodMS := 1000.0 / baseFrequency
	pulseWidth := pulseWidthMS / periodMS

	points := make([]Point, 0, n+1)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		points = append(points, Point{
			Time:    frac * pulseWidth,
			Current: math.Sin(math.Pi * frac),
		})
	}
	if points[len(points)-1].Time < HalfPeriod {
		points = append(points, Point{Time: HalfPeriod, Current: 0})
	}

	return Waveform{
		Name:          "HalfSine",
		BaseFrequency: baseFrequency,
		ZeroTime:      0,
		Points:        points,
	}
}

// Crone returns the Crone transmitter profile: a square pulse over the first
// quarter-period with a linear turn-off ramp. The zero time marks the end of
// the ramp.
func Crone(baseFrequency, rampSeconds float64) Waveform {
	scaledRamp := rampSeconds * baseFrequency
	if scaledRamp <= 0 || scaledRamp >= 0.25 {
		scaledRamp = 0.0001
	}

	return Waveform{
		Name:          "Crone",
		BaseFrequency: baseFrequency,
		ZeroTime:      0.25,
		Points: []Point{
			{Time: 0, Current: 1},
			{Time: 0.25 - scaledRamp, Current: 1},
			{Time: 0.25, Current: 0},
			{Time: 0.5, Current: 0},
		},
	}
}

// FromShapeName builds one of the named shapes. Recognized names (case and
// separator insensitive): square, square-offtime, triangle, half-sine. The
// half-sine arch is sampled at halfSinePoints (DefaultHalfSinePoints when
// below 2); the other shapes ignore it.
func FromShapeName(shape string, baseFrequency float64, halfSinePoints int) (Waveform, error) {
	norm := strings.ToLower(shape)
	norm = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(norm)

	switch norm {
	case "", "square", "squarewave":
		return Square(baseFrequency), nil
	case "squareofftime", "squarewithofftime":
		return SquareWithOfftime(baseFrequency), nil
	case "triangle":
		return Triangle(baseFrequency), nil
	case "halfsine":
		return HalfSine(baseFrequency, 0.5*1000.0/baseFrequency, halfSinePoints), nil
	default:
		return Waveform{}, errors.Errorf("waveform: unknown shape %q", shape)
	}
}
