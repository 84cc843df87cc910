// Package importer runs the conversion pipeline: parse instrument files,
// infer their waveform and sampling parameters, emit descriptor CSVs and
// feed the header and project file writers.
package importer

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/anthonyznova/ProvusDataFormatter/internal/config"
	"github.com/anthonyznova/ProvusDataFormatter/internal/mcgfile"
	"github.com/anthonyznova/ProvusDataFormatter/internal/pemfile"
	"github.com/anthonyznova/ProvusDataFormatter/internal/sampling"
	"github.com/anthonyznova/ProvusDataFormatter/internal/storage"
	"github.com/anthonyznova/ProvusDataFormatter/internal/temfile"
	"github.com/anthonyznova/ProvusDataFormatter/internal/waveform"
)

// errors
var (
	ErrNoBaseFrequency = errors.New("importer: no base frequency in file header")
	ErrNoTimeWindows   = errors.New("importer: no usable time windows in file header")
)

var (
	defaultShape   string
	halfSinePoints int
	overrides      []config.Override
)

// Setup configures the importer module.
func Setup(c config.Config) error {
	defaultShape = c.Formatter.DefaultShape
	halfSinePoints = c.Formatter.HalfSinePoints
	overrides = c.Formatter.Overrides
	return nil
}

// Result holds the review set of an import run.
type Result struct {
	Entries []*Entry
	Failed  map[string]error
}

// DiscoverFiles returns the .tem and .pem files directly below dir, sorted.
func DiscoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "importer: read data directory error")
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".tem", ".pem":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Import parses the given instrument files, infers descriptor assignments,
// writes the descriptor CSVs and returns the review set. A file that fails
// to parse is recorded in Failed and excluded from the entries.
func Import(paths []string) (*Result, error) {
	if storage.RootDir() == "" {
		return nil, storage.ErrRootNotSet
	}

	res := &Result{Failed: map[string]error{}}
	for _, path := range paths {
		var (
			entry *Entry
			err   error
		)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".tem":
			entry, err = importTEM(path)
		case ".pem":
			entry, err = importPEM(path)
		default:
			err = errors.Errorf("importer: unsupported file type %s", filepath.Ext(path))
		}

		if err != nil {
			log.WithError(err).WithField("file", path).Error("importer: file import failed")
			res.Failed[path] = err
			continue
		}

		applyOverrides(entry)
		res.Entries = append(res.Entries, entry)
		log.WithFields(log.Fields{
			"file":     filepath.Base(path),
			"waveform": entry.WaveformFile,
			"sampling": entry.SamplingFile,
			"style":    entry.DataStyle,
		}).Info("importer: file imported")
	}

	log.WithFields(log.Fields{
		"imported": len(res.Entries),
		"failed":   len(res.Failed),
	}).Info("importer: import complete")
	return res, nil
}

func importTEM(path string) (*Entry, error) {
	h, err := temfile.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if h.BaseFrequency <= 0 {
		return nil, ErrNoBaseFrequency
	}
	if h.NumChannels() == 0 || len(h.TimesStart) != len(h.TimesEnd) {
		return nil, ErrNoTimeWindows
	}

	wf := waveformForTEM(h)
	if !storage.WaveformExists(wf.FileName()) {
		if err := waveform.WriteFile(storage.WaveformPath(wf.FileName()), wf); err != nil {
			return nil, err
		}
	}

	stem := fileStem(path)
	scheme, err := sampling.FromWindows(
		sampling.SchemeName(stem, h.NumChannels()),
		h.TimesStart, h.TimesEnd,
		sampling.DetectFieldType(h.Units),
	)
	if err != nil {
		return nil, err
	}
	if err := sampling.WriteFile(storage.SamplingPath(scheme.FileName()), scheme); err != nil {
		return nil, err
	}

	style := DataStyleBoreholeSJV
	if strings.EqualFold(h.TxWaveform, "UTEM") {
		style = DataStyleBoreholeUTEM
	}

	return &Entry{
		Path:          path,
		FileType:      FileTypeTEM,
		BaseFrequency: h.BaseFrequency,
		Units:         h.Units,
		NumChannels:   h.NumChannels(),
		TxWaveform:    h.TxWaveform,
		WaveformFile:  wf.FileName(),
		SamplingFile:  scheme.FileName(),
		DataStyle:     style,
	}, nil
}

func importPEM(path string) (*Entry, error) {
	h, err := pemfile.ParseFile(path)
	if err != nil {
		return nil, err
	}

	baseFreq := h.BaseFrequency()
	wfName := waveform.CroneFileName(baseFreq)

	// Crone descriptors are shared across all PEM files at the same base
	// frequency; existing files are reused rather than rewritten.
	if storage.WaveformExists(wfName) {
		log.WithField("file", wfName).Info("importer: using existing waveform descriptor")
	} else {
		wf := waveform.Crone(baseFreq, h.RampTime)
		if err := waveform.WriteFile(storage.WaveformPath(wfName), wf); err != nil {
			return nil, err
		}
	}

	schemeName := sampling.CroneSchemeName(baseFreq, h.NumGates())
	schemeFile := schemeName + ".csv"
	if storage.SamplingExists(schemeFile) {
		log.WithField("file", schemeFile).Info("importer: using existing sampling descriptor")
	} else {
		starts, ends := h.Windows()
		scheme, err := sampling.FromWindows(schemeName, starts, ends, sampling.DetectFieldType(h.Units))
		if err != nil {
			return nil, err
		}
		if err := sampling.WriteFile(storage.SamplingPath(schemeFile), scheme); err != nil {
			return nil, err
		}
	}

	return &Entry{
		Path:          path,
		FileType:      FileTypePEM,
		BaseFrequency: baseFreq,
		Units:         h.Units,
		NumChannels:   h.NumGates(),
		TxWaveform:    "Crone",
		WaveformFile:  wfName,
		SamplingFile:  schemeFile,
		DataStyle:     DataStyleCrone,
	}, nil
}

// ImportMCG converts a single MCG file into waveform and sampling
// descriptors without adding a review entry, mirroring the dedicated
// MCG import action.
func ImportMCG(path string) error {
	if storage.RootDir() == "" {
		return storage.ErrRootNotSet
	}

	h, err := mcgfile.ParseFile(path)
	if err != nil {
		return err
	}

	stem := strings.ToLower(fileStem(path))

	if len(h.WaveformTimes) > 0 {
		// recorded times are seconds, Scaled expects the ms domain
		wf := waveform.Waveform{
			Name:          stem,
			BaseFrequency: h.BaseFrequency,
			ZeroTime:      h.TimingMark * 1000,
		}
		for i := range h.WaveformTimes {
			wf.Points = append(wf.Points, waveform.Point{
				Time:    h.WaveformTimes[i] * 1000,
				Current: h.WaveformValues[i],
			})
		}
		wf = wf.Scaled()
		if err := waveform.WriteFile(storage.WaveformPath(wf.FileName()), wf); err != nil {
			return err
		}
	}

	if len(h.ChannelStarts) > 0 && len(h.ChannelStarts) == len(h.ChannelEnds) {
		starts := make([]float64, len(h.ChannelStarts))
		ends := make([]float64, len(h.ChannelEnds))
		for i := range h.ChannelStarts {
			starts[i] = h.ChannelStarts[i] * 1000
			ends[i] = h.ChannelEnds[i] * 1000
		}

		scheme, err := sampling.FromWindows(
			sampling.SchemeName(stem, len(starts)),
			starts, ends,
			sampling.DetectFieldTypeCode(h.Units),
		)
		if err != nil {
			return err
		}
		if err := sampling.WriteFile(storage.SamplingPath(scheme.FileName()), scheme); err != nil {
			return err
		}
	}

	log.WithField("file", filepath.Base(path)).Info("importer: mcg file converted")
	return nil
}

// waveformForTEM maps the TEM header constants onto a waveform shape: UTEM
// systems transmit a triangle, a duty cycle below 100 means an off-time
// square, and anything else falls back to the configured default shape
// (square when unset).
func waveformForTEM(h *temfile.Header) waveform.Waveform {
	switch {
	case strings.EqualFold(h.TxWaveform, "UTEM"):
		return waveform.Triangle(h.BaseFrequency)
	case dutyCycleBelow100(h.DutyCycle):
		return waveform.SquareWithOfftime(h.BaseFrequency)
	}

	wf, err := waveform.FromShapeName(defaultShape, h.BaseFrequency, halfSinePoints)
	if err != nil {
		log.WithError(err).WithField("shape", defaultShape).Warning("importer: unknown default shape, assuming square")
		return waveform.Square(h.BaseFrequency)
	}
	return wf
}

func dutyCycleBelow100(duty string) bool {
	duty = strings.TrimSuffix(strings.TrimSpace(duty), "%")
	if duty == "" {
		return false
	}
	v, err := strconv.ParseFloat(duty, 64)
	if err != nil {
		return false
	}
	return v > 0 && v < 100
}

func applyOverrides(e *Entry) {
	base := filepath.Base(e.Path)
	for _, o := range overrides {
		ok, err := filepath.Match(o.Pattern, base)
		if err != nil {
			log.WithError(err).WithField("pattern", o.Pattern).Warning("importer: invalid override pattern")
			continue
		}
		if !ok {
			continue
		}
		if o.Waveform != "" {
			e.SetWaveform(o.Waveform)
		}
		if o.Sampling != "" {
			e.SetSampling(o.Sampling)
		}
		if o.DataStyle != "" {
			e.SetDataStyle(o.DataStyle)
		}
		log.WithFields(log.Fields{
			"file":    base,
			"pattern": o.Pattern,
		}).Info("importer: override applied")
	}
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
