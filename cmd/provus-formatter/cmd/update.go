package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anthonyznova/ProvusDataFormatter/internal/importer"
)

var updateHeadersCmd = &cobra.Command{
	Use:   "update-headers",
	Short: "Write WAVEFORM / SAMPLING flags into the data file headers",
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

		return headerUpdateError(importer.UpdateHeaders(result.Entries))
	},
}

// headerUpdateError turns failed header writes into a command error so the
// process exits non-zero.
func headerUpdateError(s importer.Summary) error {
	if s.Errors > 0 {
		return errors.Errorf("%d header update(s) failed", s.Errors)
	}
	return nil
}

var updateProjectCmd = &cobra.Command{
	Use:   "update-project",
	Short: "Create or merge the .ppf project descriptor",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := []func() error{
			setLogLevel,
			setupStorage,
			setupImporter,
			importFiles,
			func() error { return importer.UpdateProject(result.Entries) },
		}
		for _, t := range tasks {
			if err := t(); err != nil {
				log.Fatal(err)
			}
		}
		return nil
	},
}
