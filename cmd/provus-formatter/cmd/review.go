package cmd

import (
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const reviewTemplate = `{{ printf "%-28s %-9s %-6s %-8s %-10s %-24s %-28s %s" "File" "Freq(Hz)" "Units" "Gates" "TxWave" "Waveform" "Sampling" "DataStyle" }}
{{ range . -}}
{{ printf "%-28s %-9.3f %-6s %-8d %-10s %-24s %-28s %s" (base .Path) .BaseFrequency .Units .NumChannels .TxWaveform .WaveformFile .SamplingFile .DataStyle }}
{{ end }}`

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Import the data files and print the review table without touching headers or the project file",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := []func() error{
			setLogLevel,
			setupStorage,
			setupImporter,
			importFiles,
		}
		for _, t := range tasks {
			if err := t(); err != nil {
				log.Fatal(err)
			}
		}

		t := template.Must(template.New("review").Funcs(template.FuncMap{
			"base": filepath.Base,
		}).Parse(reviewTemplate))
		if err := t.Execute(os.Stdout, result.Entries); err != nil {
			return errors.Wrap(err, "execute review template error")
		}
		return nil
	},
}
