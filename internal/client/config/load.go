package config

import (
	"github.com/spf13/pflag"
)

// Load builds the configuration: defaults, then the JSON file named by the
// --config flag (if any), then flags that were set explicitly. fs must be
// the parsed flag set that RegisterFlags populated.
func (f *Flags) Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path, err := fs.GetString(FlagConfig); err == nil && path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}

	f.applyFlags(cfg, fs)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
