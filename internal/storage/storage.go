// Package storage manages the Provus project tree on disk: the options
// directories holding waveform and sampling scheme descriptors below the
// configured root.
package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/anthonyznova/ProvusDataFormatter/internal/config"
)

// directory layout below the project root
const (
	OptionsDirName   = "Provus_Options"
	WaveformsDirName = "Waveforms"
	SamplingDirName  = "Channel_Sampling_Schemes"
)

// errors
var (
	ErrRootNotSet = errors.New("storage: root directory not set")
)

var rootDir string

// Setup validates the configured root directory and creates the options
// tree. Creating the tree is idempotent.
func Setup(c config.Config) error {
	log.Info("storage: setting up project tree")

	root := c.Formatter.RootDir
	if root == "" {
		return ErrRootNotSet
	}

	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrap(err, "storage: root directory error")
	}
	if !info.IsDir() {
		return errors.Errorf("storage: root %s is not a directory", root)
	}

	rootDir = root
	if err := ensureOptionDirs(); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"root":      rootDir,
		"waveforms": WaveformsDir(),
		"sampling":  SamplingDir(),
	}).Info("storage: project tree ready")
	return nil
}

func ensureOptionDirs() error {
	for _, dir := range []string{WaveformsDir(), SamplingDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "storage: create options directory error")
		}
	}
	return nil
}

// RootDir returns the configured project root.
func RootDir() string {
	return rootDir
}

// WaveformsDir returns the waveform descriptor directory.
func WaveformsDir() string {
	return filepath.Join(rootDir, OptionsDirName, WaveformsDirName)
}

// SamplingDir returns the sampling scheme descriptor directory.
func SamplingDir() string {
	return filepath.Join(rootDir, OptionsDirName, SamplingDirName)
}

// WaveformPath returns the full path of a waveform descriptor file name.
func WaveformPath(fileName string) string {
	return filepath.Join(WaveformsDir(), fileName)
}

// SamplingPath returns the full path of a sampling descriptor file name.
func SamplingPath(fileName string) string {
	return filepath.Join(SamplingDir(), fileName)
}

// WaveformExists reports whether the named waveform descriptor exists.
func WaveformExists(fileName string) bool {
	_, err := os.Stat(WaveformPath(fileName))
	return err == nil
}

// SamplingExists reports whether the named sampling descriptor exists.
func SamplingExists(fileName string) bool {
	_, err := os.Stat(SamplingPath(fileName))
	return err == nil
}

// ListWaveforms returns the sorted waveform descriptor file names.
func ListWaveforms() ([]string, error) {
	return listCSV(WaveformsDir())
}

// ListSamplingSchemes returns the sorted sampling descriptor file names.
func ListSamplingSchemes() ([]string, error) {
	return listCSV(SamplingDir())
}

func listCSV(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "storage: list directory error")
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
