package importer

// Provus data file styles.
const (
	DataStyleBoreholeSJV  = "DataFileStyleBoreholeSJV"
	DataStyleBoreholeUTEM = "DataFileStyleBoreholeUTEM"
	DataStyleCrone        = "DataFileStyleCrone"
)

// FileType identifies the instrument file format.
type FileType string

// file types
const (
	FileTypeTEM FileType = "TEM"
	FileTypePEM FileType = "PEM"
)

// Entry is one review row: an imported data file and its inferred or
// user-assigned descriptor references. It references descriptor file names
// below the options tree, it does not own them.
type Entry struct {
	Path          string
	FileType      FileType
	BaseFrequency float64
	Units         string
	NumChannels   int
	TxWaveform    string

	WaveformFile string
	SamplingFile string
	DataStyle    string
}

// SetWaveform overrides the assigned waveform descriptor file.
func (e *Entry) SetWaveform(fileName string) {
	e.WaveformFile = fileName
}

// SetSampling overrides the assigned sampling descriptor file.
func (e *Entry) SetSampling(fileName string) {
	e.SamplingFile = fileName
}

// SetDataStyle overrides the assigned Provus data file style.
func (e *Entry) SetDataStyle(style string) {
	e.DataStyle = style
}

// Assigned reports whether both descriptor references are set, which is
// required before the entry's header can be tagged.
func (e *Entry) Assigned() bool {
	return e.WaveformFile != "" && e.SamplingFile != ""
}
