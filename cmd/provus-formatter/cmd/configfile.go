package cmd

import (
	"os"
	"text/template"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/anthonyznova/ProvusDataFormatter/internal/config"
)

const configTemplate = `[general]
# Log level
#
# debug=5, info=4, warning=3, error=2, fatal=1, panic=0
log_level={{ .General.LogLevel }}


# Formatter settings.
[formatter]
# Provus project root directory.
#
# The Provus_Options tree and the .ppf project file are created directly
# below this directory.
root_dir="{{ .Formatter.RootDir }}"

# Data file directory.
#
# Scanned for .tem / .pem files when no explicit file list is given.
# Empty means the root directory itself.
data_dir="{{ .Formatter.DataDir }}"

# Explicit data files to import (optional).
#
# When set, data_dir is not scanned.
files=[{{ range $i, $f := .Formatter.Files }}{{ if $i }}, {{ end }}"{{ $f }}"{{ end }}]

# Write WAVEFORM / SAMPLING flags into the data file headers.
update_headers={{ .Formatter.UpdateHeaders }}

# Create or merge the .ppf project descriptor.
update_project={{ .Formatter.UpdateProject }}

# Waveform shape assumed for TEM files without a usable TXWAVEFORM constant.
#
# One of: square, square-offtime, triangle, half-sine.
default_shape="{{ .Formatter.DefaultShape }}"

# Number of samples on the sine arch of generated half-sine waveforms.
half_sine_points={{ .Formatter.HalfSinePoints }}

{{ range .Formatter.Overrides }}
# Per-file review override.
[[formatter.overrides]]
pattern="{{ .Pattern }}"
waveform="{{ .Waveform }}"
sampling="{{ .Sampling }}"
data_style="{{ .DataStyle }}"
{{ end }}`

var configCmd = &cobra.Command{
	Use:   "configfile",
	Short: "Print the Provus Data Formatter configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := template.Must(template.New("config").Parse(configTemplate))
		err := t.Execute(os.Stdout, &config.C)
		if err != nil {
			return errors.Wrap(err, "execute config template error")
		}
		return nil
	},
}
