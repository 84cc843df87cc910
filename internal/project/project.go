// Package project reads and writes the Provus project descriptor (.ppf): an
// INI-style file referencing the project's data files and the generated
// waveform / sampling scheme descriptors.
package project

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// section names
const (
	SettingsSection  = "Project Settings"
	DataFilesSection = "Project Data Files"
	WaveformsSection = "Project Waveform Files"
	SamplingSection  = "Project Sampling Files"
)

// DataFileRef references one imported data file, path relative to the
// project root with forward slashes.
type DataFileRef struct {
	Path  string
	Style string
}

type section struct {
	name  string
	lines []string
}

// Descriptor is a loaded (or to-be-created) project file.
type Descriptor struct {
	Path        string
	ProjectName string

	DataFiles     []DataFileRef
	WaveformFiles []string
	SamplingFiles []string

	// settings lines other than Project Name, preserved verbatim
	settingsExtra []string
	// sections not managed by this tool, preserved verbatim
	extra []section

	existed bool
}

// Load finds the first .ppf file in the root directory and parses it. When
// none exists the returned descriptor targets <rootname>_project.ppf and
// Exists reports false.
func Load(rootDir string) (*Descriptor, error) {
	matches, err := filepath.Glob(filepath.Join(rootDir, "*.ppf"))
	if err != nil {
		return nil, errors.Wrap(err, "project: glob error")
	}
	sort.Strings(matches)

	rootName := filepath.Base(filepath.Clean(rootDir))
	if len(matches) == 0 {
		return &Descriptor{
			Path:        filepath.Join(rootDir, rootName+"_project.ppf"),
			ProjectName: rootName,
		}, nil
	}

	d, err := parseFile(matches[0])
	if err != nil {
		return nil, err
	}
	if d.ProjectName == "" {
		d.ProjectName = rootName
	}
	return d, nil
}

// Exists reports whether the descriptor was loaded from an existing file.
func (d *Descriptor) Exists() bool {
	return d.existed
}

// MergeDataFile records a data file reference. Merging is keyed by path:
// re-imported paths update their style in place, so repeated merges are
// idempotent.
func (d *Descriptor) MergeDataFile(relPath, style string) {
	relPath = filepath.ToSlash(relPath)
	for i := range d.DataFiles {
		if d.DataFiles[i].Path == relPath {
			d.DataFiles[i].Style = style
			return
		}
	}
	d.DataFiles = append(d.DataFiles, DataFileRef{Path: relPath, Style: style})
}

// MergeWaveformFile records a generated waveform descriptor path.
func (d *Descriptor) MergeWaveformFile(relPath string) {
	d.WaveformFiles = mergePath(d.WaveformFiles, relPath)
}

// MergeSamplingFile records a generated sampling descriptor path.
func (d *Descriptor) MergeSamplingFile(relPath string) {
	d.SamplingFiles = mergePath(d.SamplingFiles, relPath)
}

func mergePath(paths []string, relPath string) []string {
	relPath = filepath.ToSlash(relPath)
	for _, p := range paths {
		if p == relPath {
			return paths
		}
	}
	return append(paths, relPath)
}

// Save writes the descriptor back, regenerating the managed sections and
// preserving any others verbatim.
func (d *Descriptor) Save() error {
	var b strings.Builder

	b.WriteString("[" + SettingsSection + "]\n")
	fmt.Fprintf(&b, "Project Name=%q\n", d.ProjectName)
	for _, line := range d.settingsExtra {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	writeSection(&b, DataFilesSection, func() []string {
		lines := make([]string, 0, len(d.DataFiles))
		for _, ref := range d.DataFiles {
			lines = append(lines, ref.Path+","+ref.Style)
		}
		return lines
	}())
	writeSection(&b, WaveformsSection, d.WaveformFiles)
	writeSection(&b, SamplingSection, d.SamplingFiles)

	for _, s := range d.extra {
		b.WriteString("[" + s.name + "]\n")
		for _, line := range s.lines {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(d.Path, []byte(b.String()), 0644); err != nil {
		return errors.Wrap(err, "project: write descriptor error")
	}
	d.existed = true

	log.WithFields(log.Fields{
		"file":       d.Path,
		"data_files": len(d.DataFiles),
		"waveforms":  len(d.WaveformFiles),
		"sampling":   len(d.SamplingFiles),
	}).Info("project: descriptor written")
	return nil
}

func writeSection(b *strings.Builder, name string, lines []string) {
	b.WriteString("[" + name + "]\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

var projectNamePrefix = "Project Name="

func parseFile(path string) (*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "project: open descriptor error")
	}
	defer f.Close()

	d := &Descriptor{Path: path, existed: true}

	var current *section
	sections := []section{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			sections = append(sections, section{name: strings.Trim(trimmed, "[]")})
			current = &sections[len(sections)-1]
			continue
		}
		if current == nil || trimmed == "" {
			continue
		}
		current.lines = append(current.lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "project: read descriptor error")
	}

	for _, s := range sections {
		switch s.name {
		case SettingsSection:
			for _, line := range s.lines {
				trimmed := strings.TrimSpace(line)
				if strings.HasPrefix(trimmed, projectNamePrefix) {
					d.ProjectName = strings.Trim(strings.TrimPrefix(trimmed, projectNamePrefix), `"`)
				} else {
					d.settingsExtra = append(d.settingsExtra, line)
				}
			}
		case DataFilesSection:
			for _, line := range s.lines {
				parts := strings.SplitN(strings.TrimSpace(line), ",", 2)
				if len(parts) != 2 {
					log.WithField("line", line).Warning("project: skipping malformed data file entry")
					continue
				}
				d.MergeDataFile(parts[0], parts[1])
			}
		case WaveformsSection:
			for _, line := range s.lines {
				d.MergeWaveformFile(strings.TrimSpace(line))
			}
		case SamplingSection:
			for _, line := range s.lines {
				d.MergeSamplingFile(strings.TrimSpace(line))
			}
		default:
			d.extra = append(d.extra, s)
		}
	}
	return d, nil
}
