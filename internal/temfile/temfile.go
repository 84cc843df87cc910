// Package temfile parses TEM instrument file headers and writes the
// WAVEFORM / SAMPLING assignment flags back into them.
package temfile

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

// Header holds the constants and receiver time windows parsed from a TEM
// file. Window times are milliseconds after normalization.
type Header struct {
	BaseFrequency float64
	Units         string
	DutyCycle     string
	TxWaveform    string
	SurveyConfig  string
	DataType      string
	OffTime       string
	OnTime        string
	Line          string
	Loop          string
	Project       string
	Client        string
	Current       float64
	Instrument    string
	Receiver      string

	TimesStart  []float64
	TimesEnd    []float64
	TimesCenter []float64
	TimesWidth  []float64

	TimeUnitsOriginal string
}

// NumChannels is the number of receiver gates.
func (h *Header) NumChannels() int {
	return len(h.TimesStart)
}

var headerPatterns = map[string]*regexp.Regexp{
	"base_frequency": regexp.MustCompile(`(?i)(?:BFREQ|BASEFREQ|BASEFREQUENCY)\s*[:=]\s*([\d.]+)`),
	"units":          regexp.MustCompile(`(?i)UNITS\s*[:=]\s*(\S+)`),
	"duty_cycle":     regexp.MustCompile(`(?i)(?:DUTYCYCLE|DUTY)\s*[:=]\s*(\S+)`),
	"tx_waveform":    regexp.MustCompile(`(?i)(?:TXWAVEFORM|WAVEFORM)\s*[:=]\s*(\S+)`),
	"survey_config":  regexp.MustCompile(`(?i)(?:CONFIG|CONFIGURATION)\s*[:=]\s*(\S+)`),
	"data_type":      regexp.MustCompile(`(?i)DATATYPE\s*[:=]\s*(\S+)`),
	"off_time":       regexp.MustCompile(`(?i)OFFTIME\s*[:=]\s*(\S+)`),
	"on_time":        regexp.MustCompile(`(?i)ONTIME\s*[:=]\s*(\S+)`),
	"line":           regexp.MustCompile(`(?i)LINE\s*[:=]\s*(\S+)`),
	"loop":           regexp.MustCompile(`(?i)LOOP\s*[:=]\s*(\S+)`),
	"project":        regexp.MustCompile(`(?i)PROJECT\s*[:=]\s*(\S+)`),
	"client":         regexp.MustCompile(`(?i)CLIENT\s*[:=]\s*(\S+)`),
	"current":        regexp.MustCompile(`(?i)CURRENT\s*[:=]\s*([\d.]+)`),
	"instrument":     regexp.MustCompile(`(?i)(?:INSTRUMENT|SYSTEM)\s*[:=]\s*(\S+)`),
	"receiver":       regexp.MustCompile(`(?i)RECEIVER\s*[:=]\s*(\S+)`),
}

var timePatterns = map[string]*regexp.Regexp{
	"times_start":  regexp.MustCompile(`(?i)/?TIMESSTART\s*\(([^)]*)\)\s*[=:\s]+([\d.,\s]+)`),
	"times_end":    regexp.MustCompile(`(?i)/?TIMESEND\s*\(([^)]*)\)\s*[=:\s]+([\d.,\s]+)`),
	"times_center": regexp.MustCompile(`(?i)/?TIMES\s*\(([^)]*)\)\s*[=:\s]+([\d.,\s]+)`),
	"times_width":  regexp.MustCompile(`(?i)/?TIMESWIDTH\s*\(([^)]*)\)\s*[=:\s]+([\d.,\s]+)`),
}

// conversion factors to milliseconds
var timeUnitFactors = map[string]float64{
	"ms": 1, "msec": 1, "milliseconds": 1, "millisecond": 1,
	"s": 1000, "sec": 1000, "seconds": 1000, "second": 1000,
	"us": 0.001, "usec": 0.001, "microseconds": 0.001, "microsecond": 0.001,
	"ns": 1e-6, "nsec": 1e-6, "nanoseconds": 1e-6, "nanosecond": 1e-6,
	"min": 60000, "minutes": 60000, "minute": 60000,
	"h": 3600000, "hr": 3600000, "hours": 3600000, "hour": 3600000,
}

// Parse scans a TEM file line by line, collecting header constants and time
// window arrays. Window times are normalized to milliseconds and center/width
// arrays are converted to start/end when no explicit start/end arrays exist.
func Parse(r io.Reader) (*Header, error) {
	h := &Header{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.parseConstants(line)
		h.parseTimeWindows(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read tem file error")
	}

	h.normalizeTimeUnits()
	h.convertCenterWidth()
	return h, nil
}

// ParseFile parses the TEM file at path.
func ParseFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open tem file error")
	}
	defer f.Close()
	return Parse(f)
}

func (h *Header) parseConstants(line string) {
	for field, re := range headerPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := m[1]

		switch field {
		case "base_frequency", "current":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				log.WithFields(log.Fields{
					"field": field,
					"value": value,
				}).Warning("temfile: invalid numeric header value")
				continue
			}
			if field == "base_frequency" {
				h.BaseFrequency = v
			} else {
				h.Current = v
			}
		case "units":
			h.Units = value
		case "duty_cycle":
			h.DutyCycle = value
		case "tx_waveform":
			h.TxWaveform = value
		case "survey_config":
			h.SurveyConfig = value
		case "data_type":
			h.DataType = value
		case "off_time":
			h.OffTime = value
		case "on_time":
			h.OnTime = value
		case "line":
			h.Line = value
		case "loop":
			h.Loop = value
		case "project":
			h.Project = value
		case "client":
			h.Client = value
		case "instrument":
			h.Instrument = value
		case "receiver":
			h.Receiver = value
		}
	}
}

func (h *Header) parseTimeWindows(line string) {
	upper := strings.ToUpper(line)
	for field, re := range timePatterns {
		m := re.FindStringSubmatch(line)
		if m == nil || len(m) < 3 {
			continue
		}
		// a bare TIMES pattern also matches TIMESSTART / TIMESEND /
		// TIMESWIDTH lines, which carry their own arrays
		if field == "times_center" &&
			(strings.Contains(upper, "TIMESSTART") ||
				strings.Contains(upper, "TIMESEND") ||
				strings.Contains(upper, "TIMESWIDTH")) {
			continue
		}

		units := strings.TrimSpace(m[1])
		if h.TimeUnitsOriginal == "" && units != "" {
			h.TimeUnitsOriginal = units
		}

		values := parseFloatArray(m[2])
		switch field {
		case "times_start":
			h.TimesStart = values
		case "times_end":
			h.TimesEnd = values
		case "times_center":
			h.TimesCenter = values
		case "times_width":
			h.TimesWidth = values
		}
	}
}

func parseFloatArray(s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			log.WithField("value", part).Warning("temfile: could not parse float value")
			continue
		}
		out = append(out, v)
	}
	return out
}

func (h *Header) normalizeTimeUnits() {
	if h.TimeUnitsOriginal == "" {
		return
	}
	factor, ok := timeUnitFactors[strings.ToLower(strings.TrimSpace(h.TimeUnitsOriginal))]
	if !ok || factor == 1 {
		return
	}
	scale(h.TimesStart, factor)
	scale(h.TimesEnd, factor)
	scale(h.TimesCenter, factor)
	scale(h.TimesWidth, factor)
}

func scale(vals []float64, factor float64) {
	for i := range vals {
		vals[i] *= factor
	}
}

// convertCenterWidth derives start/end windows from center/width arrays.
// Non-positive or absurd (>= 1e6 ms) entries are discarded.
func (h *Header) convertCenterWidth() {
	if len(h.TimesCenter) == 0 || len(h.TimesWidth) == 0 {
		return
	}
	if len(h.TimesStart) > 0 || len(h.TimesEnd) > 0 {
		return
	}

	n := len(h.TimesCenter)
	if len(h.TimesWidth) < n {
		n = len(h.TimesWidth)
	}

	var centers, widths []float64
	for i := 0; i < n; i++ {
		c, w := h.TimesCenter[i], h.TimesWidth[i]
		if c > 0 && w > 0 && c < 1e6 && w < 1e6 {
			centers = append(centers, c)
			widths = append(widths, w)
		}
	}
	if len(centers) == 0 {
		return
	}

	h.TimesCenter = centers
	h.TimesWidth = widths
	h.TimesStart = make([]float64, len(centers))
	h.TimesEnd = make([]float64, len(centers))
	for i := range centers {
		h.TimesStart[i] = centers[i] - widths[i]/2
		h.TimesEnd[i] = centers[i] + widths[i]/2
	}
}
