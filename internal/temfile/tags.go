package temfile

import (
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	waveformTagRe = regexp.MustCompile(`\s+WAVEFORM:[^\s&]+`)
	samplingTagRe = regexp.MustCompile(`\s+SAMPLING:[^\s&]+`)
)

// keywords used to locate the header line the tags are appended to
var (
	baseFreqKeywords = []string{"BASEFREQ", "BFREQ", "BASEFREQUENCY"}
	headerKeywords   = []string{"UNITS", "TXWAVEFORM", "DUTYCYCLE", "INSTRUMENT", "SYSTEM", "CONFIG", "DATATYPE", "OFFTIME"}
)

// WriteTags appends WAVEFORM:<w> SAMPLING:<s> to the base-frequency header
// line of the TEM file at path, replacing stale tags with different values
// and keeping a trailing '&' continuation marker in place. The rest of the
// file is preserved byte for byte. Returns false when both tags already
// matched and the file was left untouched.
func WriteTags(path, waveformName, samplingName string) (bool, error) {
	if waveformName == "" || samplingName == "" {
		return false, errors.New("temfile: waveform and sampling names must not be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrap(err, "read tem file error")
	}
	lines := strings.Split(string(b), "\n")

	idx := findTagLine(lines)
	if idx < 0 {
		return false, errors.Errorf("temfile: no header line found in %s", path)
	}

	hadCR := strings.HasSuffix(lines[idx], "\r")
	line := strings.TrimRight(lines[idx], "\r\n \t")
	waveformTag := "WAVEFORM:" + waveformName
	samplingTag := "SAMPLING:" + samplingName

	if strings.Contains(line, waveformTag) && strings.Contains(line, samplingTag) {
		log.WithFields(log.Fields{
			"file":     path,
			"waveform": waveformName,
			"sampling": samplingName,
		}).Debug("temfile: tags already present, skipping")
		return false, nil
	}

	// drop existing tags so a stale one is never left beside a fresh pair
	line = waveformTagRe.ReplaceAllString(line, "")
	line = samplingTagRe.ReplaceAllString(line, "")

	tags := " " + waveformTag + " " + samplingTag
	if strings.HasSuffix(line, "&") {
		line = strings.TrimRight(strings.TrimSuffix(line, "&"), " \t")
		line += tags + " &"
	} else {
		line += tags
	}
	if hadCR {
		line += "\r"
	}
	lines[idx] = line

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return false, errors.Wrap(err, "write tem file error")
	}

	log.WithFields(log.Fields{
		"file":     path,
		"waveform": waveformName,
		"sampling": samplingName,
	}).Info("temfile: header tags updated")
	return true, nil
}

// findTagLine prefers the base-frequency line, then any recognized header
// constant line, then the first non-empty line.
func findTagLine(lines []string) int {
	for i, line := range lines {
		upper := strings.ToUpper(line)
		for _, kw := range baseFreqKeywords {
			if strings.Contains(upper, kw) {
				return i
			}
		}
	}
	for i, line := range lines {
		upper := strings.ToUpper(line)
		for _, kw := range headerKeywords {
			if strings.Contains(upper, kw) {
				return i
			}
		}
	}
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			return i
		}
	}
	return -1
}
