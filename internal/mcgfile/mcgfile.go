// Package mcgfile parses MCG instrument files: sectioned text with key/value
// constants, channel time windows and the recorded transmitter waveform.
package mcgfile

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

// Header holds the parsed MCG file content. Channel times are seconds as
// recorded; waveform point times are in the instrument's native domain.
type Header struct {
	BaseFrequency   float64
	OnTime          float64
	OffTime         float64
	TurnOffTime     float64
	TimingMark      float64
	WaveformType    int
	WaveformName    string
	TransmitterName string
	ReceiverName    string
	Configuration   int
	Units           int
	NumChannels     int
	TimeDomain      bool
	BFieldResponse  bool

	ChannelStarts  []float64
	ChannelEnds    []float64
	WaveformTimes  []float64
	WaveformValues []float64
}

var (
	keyValueRe      = regexp.MustCompile(`^\s*([^:]+?)\s*:\s*(.+?)$`)
	channelTimeRe   = regexp.MustCompile(`^\s*(\d+)\s+([\d.]+)\s+([\d.]+)\s*$`)
	waveformPointRe = regexp.MustCompile(`^\s*(\d+)\s+([\d.\-e]+)\s+([\d.\-e]+)\s*$`)
)

// Parse reads an MCG file. CHANNEL TIMES and STANDARD WAVEFORM sections are
// delimited by START OF / END OF markers; everything else is key/value.
func Parse(r io.Reader) (*Header, error) {
	h := &Header{TimeDomain: true}

	inChannelTimes := false
	inWaveform := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "----") {
			continue
		}

		switch {
		case strings.Contains(line, "START OF CHANNEL TIMES"):
			inChannelTimes = true
			continue
		case strings.Contains(line, "END OF CHANNEL TIMES"):
			inChannelTimes = false
			continue
		case strings.Contains(line, "START OF STANDARD WAVEFORM"):
			inWaveform = true
			continue
		case strings.Contains(line, "END OF STANDARD WAVEFORM"):
			inWaveform = false
			continue
		}

		// column label rows inside the sections
		if strings.Contains(line, "Ch  Start Time") || strings.Contains(line, "Pt  Time") {
			continue
		}

		switch {
		case inChannelTimes:
			h.parseChannelTime(line)
		case inWaveform:
			h.parseWaveformPoint(line)
		default:
			h.parseKeyValue(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read mcg file error")
	}
	return h, nil
}

// ParseFile parses the MCG file at path.
func ParseFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open mcg file error")
	}
	defer f.Close()
	return Parse(f)
}

func (h *Header) parseKeyValue(line string) {
	m := keyValueRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	key := strings.TrimSpace(m[1])
	value := strings.TrimSpace(m[2])

	var err error
	switch key {
	case "Base Frequency (Hz)":
		h.BaseFrequency, err = strconv.ParseFloat(value, 64)
	case "On Time (s)":
		h.OnTime, err = strconv.ParseFloat(value, 64)
	case "Off Time (s)":
		h.OffTime, err = strconv.ParseFloat(value, 64)
	case "Turn Off (s)":
		h.TurnOffTime, err = strconv.ParseFloat(value, 64)
	case "Timing Mark (s)", "Waveform Timing Mark (s)":
		h.TimingMark, err = strconv.ParseFloat(value, 64)
	case "Waveform Type":
		h.WaveformType, err = strconv.Atoi(value)
	case "Waveform Name":
		h.WaveformName = value
	case "Transmitter Name":
		h.TransmitterName = value
	case "Receiver Name":
		h.ReceiverName = value
	case "Configuration":
		h.Configuration, err = strconv.Atoi(value)
	case "Units":
		h.Units, err = strconv.Atoi(value)
	case "Number of channels":
		h.NumChannels, err = strconv.Atoi(value)
	case "Time Domain":
		h.TimeDomain = strings.EqualFold(value, "YES")
	case "B Field response":
		h.BFieldResponse = strings.EqualFold(value, "YES")
	}

	if err != nil {
		log.WithFields(log.Fields{
			"key":   key,
			"value": value,
		}).Warning("mcgfile: invalid header value")
	}
}

func (h *Header) parseChannelTime(line string) {
	m := channelTimeRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	start, err1 := strconv.ParseFloat(m[2], 64)
	end, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil {
		log.WithField("line", line).Warning("mcgfile: invalid channel time row")
		return
	}
	h.ChannelStarts = append(h.ChannelStarts, start)
	h.ChannelEnds = append(h.ChannelEnds, end)
}

func (h *Header) parseWaveformPoint(line string) {
	m := waveformPointRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	t, err1 := strconv.ParseFloat(m[2], 64)
	c, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil {
		log.WithField("line", line).Warning("mcgfile: invalid waveform point row")
		return
	}
	h.WaveformTimes = append(h.WaveformTimes, t)
	h.WaveformValues = append(h.WaveformValues, c)
}
