package waveform

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// pointLabels mark rows that carry column labels instead of data.
var pointLabels = []string{"time", "amplitude", "current", "(ms)", "(0-1)"}

// Write emits the waveform descriptor:
//
//	Waveform Name,<name>
//	Base Frequency,<Hz>
//	Waveform Zero Time,<scaled>
//	Scaled Time,Current
//	<time>,<current>
//
// The waveform is validated and normalized to scaled time first.
func Write(w io.Writer, wf Waveform) error {
	wf = wf.Scaled()
	if err := wf.Validate(); err != nil {
		return err
	}

	zeroTime := wf.ZeroTime
	if zeroTime <= 0 {
		zeroTime = DefaultZeroTime
	}

	cw := csv.NewWriter(w)
	records := [][]string{
		{"Waveform Name", wf.Name},
		{"Base Frequency", fmt.Sprintf("%.6g", wf.BaseFrequency)},
		{"Waveform Zero Time", fmt.Sprintf("%.10f", zeroTime)},
		{"Scaled Time", "Current"},
	}
	for _, p := range wf.Points {
		records = append(records, []string{
			fmt.Sprintf("%.6f", p.Time),
			fmt.Sprintf("%.6f", p.Current),
		})
	}
	if err := cw.WriteAll(records); err != nil {
		return errors.Wrap(err, "write waveform csv error")
	}
	return nil
}

// WriteFile writes the descriptor to path, overwriting an existing file.
func WriteFile(path string, wf Waveform) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create waveform csv error")
	}
	defer f.Close()

	if err := Write(f, wf); err != nil {
		return err
	}
	return errors.Wrap(f.Sync(), "sync waveform csv error")
}

// Read parses a waveform descriptor. Point rows may be comma or whitespace
// delimited, label rows are skipped.
func Read(r io.Reader) (Waveform, error) {
	var wf Waveform

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Waveform Name"):
			wf.Name = fieldAfterComma(line)
		case strings.HasPrefix(line, "Base Frequency"), strings.HasPrefix(line, "BaseFrequency"):
			v, err := strconv.ParseFloat(fieldAfterComma(line), 64)
			if err != nil {
				return Waveform{}, errors.Wrap(err, "parse base frequency error")
			}
			wf.BaseFrequency = v
		case strings.HasPrefix(line, "Waveform Zero Time"):
			v, err := strconv.ParseFloat(fieldAfterComma(line), 64)
			if err != nil {
				return Waveform{}, errors.Wrap(err, "parse zero time error")
			}
			wf.ZeroTime = v
		default:
			p, ok := parsePointLine(line)
			if ok {
				wf.Points = append(wf.Points, p)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Waveform{}, errors.Wrap(err, "read waveform csv error")
	}
	return wf, nil
}

// ReadFile parses the descriptor at path.
func ReadFile(path string) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, errors.Wrap(err, "open waveform csv error")
	}
	defer f.Close()
	return Read(f)
}

// ParsePoints parses free-form point text as entered in the editor: one point
// per line, comma or whitespace delimited, label lines ignored.
func ParsePoints(text string) []Point {
	var points []Point
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if p, ok := parsePointLine(line); ok {
			points = append(points, p)
		}
	}
	return points
}

func parsePointLine(line string) (Point, bool) {
	lower := strings.ToLower(line)
	for _, label := range pointLabels {
		if strings.Contains(lower, label) {
			return Point{}, false
		}
	}

	var fields []string
	if strings.Contains(line, ",") {
		fields = strings.SplitN(line, ",", 2)
	} else {
		fields = strings.Fields(line)
	}
	if len(fields) < 2 {
		return Point{}, false
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return Point{}, false
	}
	c, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return Point{}, false
	}
	return Point{Time: t, Current: c}, true
}

func fieldAfterComma(line string) string {
	idx := strings.Index(line, ",")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(line[idx+1:])
}
