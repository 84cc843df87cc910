package sampling

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

// Write emits the sampling scheme descriptor:
//
//	Sampling Name,<name>
//	Primary Time Gate,<start>,<end>
//	Field Type,<b|dbdt>
//	Channel Name,ChStart,ChEnd,Red,Green,Blue,LineWt
//	Ch1,<start>,<end>,<r>,<g>,<b>,<wt>
//
// Times are milliseconds. The scheme is validated first.
func Write(w io.Writer, s Scheme) error {
	if err := s.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	records := [][]string{
		{"Sampling Name", s.Name},
		{"Primary Time Gate", fmt.Sprintf("%.3f", s.PrimaryGate.Start), fmt.Sprintf("%.3f", s.PrimaryGate.End)},
		{"Field Type", string(s.FieldType)},
		{"Channel Name", "ChStart", "ChEnd", "Red", "Green", "Blue", "LineWt"},
	}
	for _, ch := range s.Channels {
		records = append(records, []string{
			ch.Name,
			fmt.Sprintf("%.3f", ch.Start),
			fmt.Sprintf("%.3f", ch.End),
			fmt.Sprintf("%.2f", ch.Color.R),
			fmt.Sprintf("%.2f", ch.Color.G),
			fmt.Sprintf("%.2f", ch.Color.B),
			strconv.Itoa(ch.LineWeight),
		})
	}
	if err := cw.WriteAll(records); err != nil {
		return errors.Wrap(err, "write sampling csv error")
	}
	return nil
}

// WriteFile writes the descriptor to path, overwriting an existing file.
func WriteFile(path string, s Scheme) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create sampling csv error")
	}
	defer f.Close()

	if err := Write(f, s); err != nil {
		return err
	}
	return errors.Wrap(f.Sync(), "sync sampling csv error")
}

// Read parses a sampling scheme descriptor.
func Read(r io.Reader) (Scheme, error) {
	var s Scheme

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")

		switch fields[0] {
		case "Sampling Name":
			if len(fields) > 1 {
				s.Name = strings.TrimSpace(fields[1])
			}
		case "Primary Time Gate":
			if len(fields) < 3 {
				return Scheme{}, errors.New("sampling: malformed primary time gate row")
			}
			var err error
			if s.PrimaryGate.Start, err = strconv.ParseFloat(strings.TrimSpace(fields[1]), 64); err != nil {
				return Scheme{}, errors.Wrap(err, "parse primary gate start error")
			}
			if s.PrimaryGate.End, err = strconv.ParseFloat(strings.TrimSpace(fields[2]), 64); err != nil {
				return Scheme{}, errors.Wrap(err, "parse primary gate end error")
			}
		case "Field Type":
			if len(fields) > 1 {
				s.FieldType = FieldType(strings.TrimSpace(fields[1]))
			}
		case "Channel Name":
			// column label row
		default:
			ch, err := parseChannelRow(fields)
			if err != nil {
				return Scheme{}, err
			}
			s.Channels = append(s.Channels, ch)
		}
	}
	if err := scanner.Err(); err != nil {
		return Scheme{}, errors.Wrap(err, "read sampling csv error")
	}
	return s, nil
}

// ReadFile parses the descriptor at path.
func ReadFile(path string) (Scheme, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scheme{}, errors.Wrap(err, "open sampling csv error")
	}
	defer f.Close()
	return Read(f)
}

func parseChannelRow(fields []string) (Channel, error) {
	if len(fields) < 7 {
		return Channel{}, errors.Errorf("sampling: malformed channel row %q", strings.Join(fields, ","))
	}

	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return Channel{}, errors.Wrapf(err, "parse channel %s error", fields[0])
		}
		vals[i] = v
	}
	wt, err := strconv.Atoi(strings.TrimSpace(fields[6]))
	if err != nil {
		return Channel{}, errors.Wrapf(err, "parse channel %s line weight error", fields[0])
	}

	return Channel{
		Name:       strings.TrimSpace(fields[0]),
		Start:      vals[0],
		End:        vals[1],
		Color:      Color{R: vals[2], G: vals[3], B: vals[4]},
		LineWeight: wt,
	}, nil
}
