package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anthonyznova/ProvusDataFormatter/internal/importer"
)

var importMCGCmd = &cobra.Command{
	Use:   "import-mcg [file.mcg]",
	Short: "Convert an MCG instrument file into waveform and sampling descriptors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := []func() error{
			setLogLevel,
			setupStorage,
			setupImporter,
			func() error { return importer.ImportMCG(args[0]) },
		}
		for _, t := range tasks {
			if err := t(); err != nil {
				log.Fatal(err)
			}
		}
		return nil
	},
}
