// Package pemfile parses Crone PEM instrument files and normalizes their
// headers for Provus.
package pemfile

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// errors
var (
	ErrNoTimebase = errors.New("pemfile: no timebase found")
	ErrNoGates    = errors.New("pemfile: no gate boundary times found")
)

// Header holds the Crone system parameters parsed from a PEM file. Gate
// boundary times are seconds.
type Header struct {
	// Timebase is the quarter-period in milliseconds.
	Timebase float64
	// RampTime is the transmitter turn-off ramp in seconds.
	RampTime float64
	Units    string

	// GateBoundaries are n+1 boundary times defining n gates.
	GateBoundaries []float64
}

// BaseFrequency derives the base frequency from the quarter-period timebase.
func (h *Header) BaseFrequency() float64 {
	if h.Timebase <= 0 {
		return 0
	}
	return 250.0 / h.Timebase
}

// NumGates is the number of receiver gates.
func (h *Header) NumGates() int {
	if len(h.GateBoundaries) < 2 {
		return 0
	}
	return len(h.GateBoundaries) - 1
}

// Windows returns parallel start/end gate slices in milliseconds.
func (h *Header) Windows() (starts, ends []float64) {
	for i := 0; i+1 < len(h.GateBoundaries); i++ {
		starts = append(starts, h.GateBoundaries[i]*1000)
		ends = append(ends, h.GateBoundaries[i+1]*1000)
	}
	return starts, ends
}

var (
	timebaseRe = regexp.MustCompile(`(?i)TIMEBASE\s*[:=(]*\s*([\d.]+)`)
	rampRe     = regexp.MustCompile(`(?i)RAMP\s*[:=]\s*([\d.]+)`)
	unitsRe    = regexp.MustCompile(`(?i)UNITS\s*[:=]\s*(\S+)`)
)

// Parse scans a PEM file. Header constants follow the Crone conventions:
// TIMEBASE (quarter-period, ms), RAMP (microseconds), UNITS. Gate boundary
// times in seconds appear on '$'-prefixed lines.
func Parse(r io.Reader) (*Header, error) {
	h := &Header{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "~") {
			continue
		}

		if strings.HasPrefix(line, "$") {
			h.GateBoundaries = append(h.GateBoundaries, parseFloats(strings.TrimPrefix(line, "$"))...)
			continue
		}

		if h.Timebase == 0 {
			if m := timebaseRe.FindStringSubmatch(line); m != nil {
				v, err := strconv.ParseFloat(m[1], 64)
				if err == nil {
					h.Timebase = v
				}
			}
		}
		if h.RampTime == 0 {
			if m := rampRe.FindStringSubmatch(line); m != nil {
				v, err := strconv.ParseFloat(m[1], 64)
				if err == nil {
					h.RampTime = v / 1e6
				}
			}
		}
		if h.Units == "" {
			if m := unitsRe.FindStringSubmatch(line); m != nil {
				h.Units = m[1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read pem file error")
	}

	if h.Timebase <= 0 {
		return nil, ErrNoTimebase
	}
	if h.NumGates() == 0 {
		return nil, ErrNoGates
	}
	return h, nil
}

// ParseFile parses the PEM file at path.
func ParseFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open pem file error")
	}
	defer f.Close()
	return Parse(f)
}

func parseFloats(s string) []float64 {
	var out []float64
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			log.WithField("value", part).Warning("pemfile: could not parse float value")
			continue
		}
		out = append(out, v)
	}
	return out
}
