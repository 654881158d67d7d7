package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Fields are set by the flag set they
// are registered with.
type Flags struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	NoIndex    bool
}

// Register adds the configuration flags to fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	fs.BoolVar(&f.NoIndex, "no-index", false, "Use brute force closest point queries")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.NoIndex {
		cfg.Query.UseIndex = false
	}
}
