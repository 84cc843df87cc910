package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anthonyznova/ProvusDataFormatter/internal/config"
	"github.com/anthonyznova/ProvusDataFormatter/internal/importer"
	"github.com/anthonyznova/ProvusDataFormatter/internal/storage"
)

// result holds the review set of the current invocation.
var result *importer.Result

func run(cmd *cobra.Command, args []string) error {
	tasks := []func() error{
		setLogLevel,
		printStartMessage,
		setupStorage,
		setupImporter,
		importFiles,
		updateHeaders,
		updateProjectFile,
	}

	for _, t := range tasks {
		if err := t(); err != nil {
			log.Fatal(err)
		}
	}

	return nil
}

func setLogLevel() error {
	log.SetLevel(log.Level(uint8(config.C.General.LogLevel)))
	return nil
}

func printStartMessage() error {
	log.WithFields(log.Fields{
		"version": version,
		"root":    config.C.Formatter.RootDir,
	}).Info("starting Provus Data Formatter")
	return nil
}

func setupStorage() error {
	if err := storage.Setup(config.C); err != nil {
		return errors.Wrap(err, "setup storage error")
	}
	return nil
}

func setupImporter() error {
	if err := importer.Setup(config.C); err != nil {
		return errors.Wrap(err, "setup importer error")
	}
	return nil
}

func importFiles() error {
	files := config.C.Formatter.Files
	if len(files) == 0 {
		dir := config.C.Formatter.DataDir
		if dir == "" {
			dir = config.C.Formatter.RootDir
		}
		var err error
		files, err = importer.DiscoverFiles(dir)
		if err != nil {
			return errors.Wrap(err, "discover data files error")
		}
	}
	if len(files) == 0 {
		log.Warning("no data files found, nothing to do")
	}

	var err error
	result, err = importer.Import(files)
	if err != nil {
		return errors.Wrap(err, "import data files error")
	}
	return nil
}

func updateHeaders() error {
	if !config.C.Formatter.UpdateHeaders || result == nil {
		return nil
	}
	importer.UpdateHeaders(result.Entries)
	return nil
}

func updateProjectFile() error {
	if !config.C.Formatter.UpdateProject || result == nil {
		return nil
	}
	if err := importer.UpdateProject(result.Entries); err != nil {
		return errors.Wrap(err, "update project file error")
	}
	return nil
}
