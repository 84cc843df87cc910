package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anthonyznova/ProvusDataFormatter/internal/storage"
	"github.com/anthonyznova/ProvusDataFormatter/internal/waveform"
)

var (
	waveformShape      string
	waveformFrequency  float64
	waveformPulseWidth float64
	waveformPoints     int
)

var waveformCmd = &cobra.Command{
	Use:   "waveform",
	Short: "Waveform descriptor utilities",
}

var waveformGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a named waveform shape descriptor below the options tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := []func() error{
			setLogLevel,
			setupStorage,
		}
		for _, t := range tasks {
			if err := t(); err != nil {
				log.Fatal(err)
			}
		}

		var (
			wf  waveform.Waveform
			err error
		)
		if waveformPulseWidth > 0 {
			wf = waveform.HalfSine(waveformFrequency, waveformPulseWidth, waveformPoints)
		} else {
			wf, err = waveform.FromShapeName(waveformShape, waveformFrequency, waveformPoints)
			if err != nil {
				return err
			}
		}

		if err := waveform.WriteFile(storage.WaveformPath(wf.FileName()), wf); err != nil {
			return err
		}
		log.WithField("file", wf.FileName()).Info("waveform descriptor written")
		return nil
	},
}

var waveformNormalizeCmd = &cobra.Command{
	Use:   "normalize [file.csv]",
	Short: "Rewrite a waveform descriptor normalized to scaled time, in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setLogLevel(); err != nil {
			log.Fatal(err)
		}

		wf, err := waveform.ReadFile(args[0])
		if err != nil {
			return err
		}
		// WriteFile scales and validates before writing
		if err := waveform.WriteFile(args[0], wf); err != nil {
			return err
		}
		log.WithField("file", args[0]).Info("waveform descriptor normalized")
		return nil
	},
}

var waveformResampleCmd = &cobra.Command{
	Use:   "resample [file.csv]",
	Short: "Re-sample a waveform descriptor at evenly spaced times, in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setLogLevel(); err != nil {
			log.Fatal(err)
		}

		wf, err := waveform.ReadFile(args[0])
		if err != nil {
			return err
		}
		out, err := wf.Resample(waveformPoints)
		if err != nil {
			return err
		}
		if err := waveform.WriteFile(args[0], out); err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"file":   args[0],
			"points": waveformPoints,
		}).Info("waveform descriptor resampled")
		return nil
	},
}

func init() {
	waveformGenerateCmd.Flags().StringVar(&waveformShape, "shape", "square", "shape name: square, square-offtime, triangle, half-sine")
	waveformGenerateCmd.Flags().Float64Var(&waveformFrequency, "frequency", 0, "base frequency in Hz (required)")
	waveformGenerateCmd.Flags().Float64Var(&waveformPulseWidth, "pulse-width", 0, "half-sine pulse width in ms (implies half-sine)")
	waveformGenerateCmd.Flags().IntVar(&waveformPoints, "points", waveform.DefaultHalfSinePoints, "number of sample points")
	waveformGenerateCmd.MarkFlagRequired("frequency")

	waveformResampleCmd.Flags().IntVar(&waveformPoints, "points", waveform.DefaultHalfSinePoints, "number of sample points")

	waveformCmd.AddCommand(waveformGenerateCmd)
	waveformCmd.AddCommand(waveformNormalizeCmd)
	waveformCmd.AddCommand(waveformResampleCmd)
}
