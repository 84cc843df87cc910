package importer

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/anthonyznova/ProvusDataFormatter/internal/pemfile"
	"github.com/anthonyznova/ProvusDataFormatter/internal/project"
	"github.com/anthonyznova/ProvusDataFormatter/internal/storage"
	"github.com/anthonyznova/ProvusDataFormatter/internal/temfile"
)

// Summary counts the outcome of a header update run.
type Summary struct {
	Updated int
	Skipped int
	Errors  int
}

// UpdateHeaders writes the descriptor assignment into every entry's source
// file: TEM files get WAVEFORM / SAMPLING tags on their base-frequency line,
// PEM files are normalized. Individual failures are counted, not fatal.
func UpdateHeaders(entries []*Entry) Summary {
	var s Summary

	for _, e := range entries {
		switch e.FileType {
		case FileTypeTEM:
			if !e.Assigned() {
				log.WithField("file", e.Path).Warning("importer: waveform or sampling not assigned, skipping header update")
				s.Skipped++
				continue
			}
			updated, err := temfile.WriteTags(e.Path, descriptorName(e.WaveformFile), descriptorName(e.SamplingFile))
			switch {
			case err != nil:
				log.WithError(err).WithField("file", e.Path).Error("importer: header update failed")
				s.Errors++
			case updated:
				s.Updated++
			default:
				s.Skipped++
			}

		case FileTypePEM:
			updated, err := pemfile.Normalize(e.Path)
			switch {
			case err != nil:
				log.WithError(err).WithField("file", e.Path).Error("importer: pem normalization failed")
				s.Errors++
			case updated:
				s.Updated++
			default:
				s.Skipped++
			}
		}
	}

	log.WithFields(log.Fields{
		"updated": s.Updated,
		"skipped": s.Skipped,
		"errors":  s.Errors,
	}).Info("importer: header update complete")
	return s
}

// UpdateProject creates or merges the .ppf project descriptor: every entry
// with a data style is referenced by root-relative path, and all generated
// waveform / sampling descriptors are enumerated. Repeated runs with the
// same entries are idempotent.
func UpdateProject(entries []*Entry) error {
	root := storage.RootDir()
	if root == "" {
		return storage.ErrRootNotSet
	}

	d, err := project.Load(root)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.DataStyle == "" {
			log.WithField("file", e.Path).Warning("importer: data style not set, skipping project entry")
			continue
		}
		rel, err := filepath.Rel(root, e.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			log.WithField("file", e.Path).Warning("importer: file outside project root, skipping project entry")
			continue
		}
		d.MergeDataFile(rel, e.DataStyle)
	}

	waveforms, err := storage.ListWaveforms()
	if err != nil {
		return errors.Wrap(err, "importer: list waveform descriptors error")
	}
	for _, name := range waveforms {
		d.MergeWaveformFile(filepath.Join(storage.OptionsDirName, storage.WaveformsDirName, name))
	}

	schemes, err := storage.ListSamplingSchemes()
	if err != nil {
		return errors.Wrap(err, "importer: list sampling descriptors error")
	}
	for _, name := range schemes {
		d.MergeSamplingFile(filepath.Join(storage.OptionsDirName, storage.SamplingDirName, name))
	}

	return d.Save()
}

// descriptorName strips the .csv extension: header tags reference descriptor
// names, not file names.
func descriptorName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
