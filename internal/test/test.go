// Package test provides helpers shared by the package tests.
package test

import (
	log "github.com/sirupsen/logrus"

	"github.com/anthonyznova/ProvusDataFormatter/internal/config"
)

// GetConfig returns a test configuration rooted at the given directory.
func GetConfig(rootDir string) config.Config {
	log.SetLevel(log.ErrorLevel)

	var c config.Config
	c.General.LogLevel = int(log.ErrorLevel)
	c.Formatter.RootDir = rootDir
	c.Formatter.UpdateHeaders = true
	c.Formatter.UpdateProject = true
	c.Formatter.DefaultShape = "square"
	c.Formatter.HalfSinePoints = 37
	return c
}
