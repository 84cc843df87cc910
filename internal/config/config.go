package config

// Version defines the ProvusDataFormatter version.
var Version string

// Config defines the configuration structure.
type Config struct {
	General struct {
		LogLevel int `mapstructure:"log_level"`
	}

	Formatter struct {
		// RootDir is the Provus project root. The Provus_Options tree and
		// the .ppf project file live directly below it.
		RootDir string `mapstructure:"root_dir"`

		// DataDir is scanned for .tem / .pem files when no explicit file
		// list is given. Empty means the root directory itself.
		DataDir string   `mapstructure:"data_dir"`
		Files   []string `mapstructure:"files"`

		UpdateHeaders bool `mapstructure:"update_headers"`
		UpdateProject bool `mapstructure:"update_project"`

		// DefaultShape is assumed for TEM files that carry no usable
		// TXWAVEFORM constant.
		DefaultShape string `mapstructure:"default_shape"`

		// HalfSinePoints is the number of samples on the sine arch when a
		// half-sine waveform is generated.
		HalfSinePoints int `mapstructure:"half_sine_points"`

		Overrides []Override `mapstructure:"overrides"`
	} `mapstructure:"formatter"`
}

// Override pins review values for data files matching a glob pattern,
// replacing what the inference assigned.
type Override struct {
	Pattern   string `mapstructure:"pattern"`
	Waveform  string `mapstructure:"waveform"`
	Sampling  string `mapstructure:"sampling"`
	DataStyle string `mapstructure:"data_style"`
}

// C holds the global configuration.
var C Config
