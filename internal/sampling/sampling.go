// Package sampling models receiver channel sampling schemes: the time windows
// the instrument integrates over, and the CSV descriptor Provus reads.
package sampling

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldType is the measured field quantity.
type FieldType string

// field types
const (
	FieldTypeB    FieldType = "b"
	FieldTypeDBDT FieldType = "dbdt"
)

// errors
var (
	ErrNoChannels     = errors.New("sampling: at least one channel required")
	ErrChannelOrder   = errors.New("sampling: channel windows must be ordered and non-overlapping")
	ErrInvalidChannel = errors.New("sampling: channel start must be before end")
	ErrWindowLengths  = errors.New("sampling: start and end window counts differ")
)

// DefaultLineWeight is the display line weight written for every channel.
const DefaultLineWeight = 2

// Color is an RGB display tag with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Channel is one receiver time gate in milliseconds.
type Channel struct {
	Name       string
	Start      float64
	End        float64
	Color      Color
	LineWeight int
}

// Gate is the primary time gate in milliseconds.
type Gate struct {
	Start float64
	End   float64
}

// Scheme is a named channel sampling scheme.
type Scheme struct {
	Name        string
	PrimaryGate Gate
	FieldType   FieldType
	Channels    []Channel
}

// Validate reports the first invariant violation: windows must be valid
// intervals, ordered and non-overlapping.
func (s Scheme) Validate() error {
	if s.Name == "" {
		return errors.New("sampling: name must not be empty")
	}
	if len(s.Channels) == 0 {
		return ErrNoChannels
	}
	for i, ch := range s.Channels {
		if ch.Start >= ch.End {
			return errors.Wrapf(ErrInvalidChannel, "channel %s", ch.Name)
		}
		if i > 0 && ch.Start < s.Channels[i-1].End {
			return errors.Wrapf(ErrChannelOrder, "channel %s", ch.Name)
		}
	}
	return nil
}

// FileName encodes the scheme name and channel count, e.g. survey1_20ch.csv.
func (s Scheme) FileName() string {
	return fmt.Sprintf("%s.csv", s.Name)
}

// SchemeName builds the conventional <base>_<n>ch scheme name.
func SchemeName(base string, channels int) string {
	return fmt.Sprintf("%s_%dch", base, channels)
}

// CroneSchemeName is the shared scheme name for Crone systems: all PEM files
// at the same base frequency and gate count reference the same descriptor.
func CroneSchemeName(baseFrequency float64, gates int) string {
	return fmt.Sprintf("Crone_%.1f_%dch", baseFrequency, gates)
}

// FromWindows builds a scheme from parallel start/end window slices in
// milliseconds. Channels are named Ch1..ChN and colored along the standard
// gradient; the primary gate is the first window.
func FromWindows(name string, starts, ends []float64, fieldType FieldType) (Scheme, error) {
	if len(starts) != len(ends) {
		return Scheme{}, ErrWindowLengths
	}
	if len(starts) == 0 {
		return Scheme{}, ErrNoChannels
	}

	s := Scheme{
		Name:        name,
		PrimaryGate: Gate{Start: starts[0], End: ends[0]},
		FieldType:   fieldType,
	}
	for i := range starts {
		s.Channels = append(s.Channels, Channel{
			Name:       fmt.Sprintf("Ch%d", i+1),
			Start:      starts[i],
			End:        ends[i],
			Color:      ChannelColor(i, len(starts)),
			LineWeight: DefaultLineWeight,
		})
	}

	if err := s.Validate(); err != nil {
		return Scheme{}, err
	}
	return s, nil
}

// ChannelColor returns the display color for channel i of n: a gradient from
// early green-ish to late red-ish gates, constant blue.
func ChannelColor(i, n int) Color {
	if n <= 1 {
		return Color{R: 0.5, G: 0.5, B: 0.5}
	}
	p := float64(i) / float64(n-1)
	return Color{
		R: clamp01(0.25 + p*0.55),
		G: clamp01(0.75 - p*0.65),
		B: 0.5,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
