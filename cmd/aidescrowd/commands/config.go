package commands

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Config is the daemon configuration stored as config.yaml in the home
// directory.
type Config struct {
	ChainID string `yaml:"chain_id"`
	// DBDir is the LevelDB directory, relative to the home directory
	// unless absolute.
	DBDir    string `yaml:"db_dir"`
	LogLevel string `yaml:"log_level"`
	// LogFormat is either plain or json.
	LogFormat string `yaml:"log_format"`
	// Debug exposes internal error details in transaction results.
	Debug bool `yaml:"debug"`
	// MetricsAddr if set is the listen address of the /metrics endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		DBDir:     "data",
		LogLevel:  "info",
		LogFormat: aidchain.LogFormatPlain,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c *Config) Validate() error {
	var errs error
	if c.ChainID != "" && !aidchain.IsValidChainID(c.ChainID) {
		errs = errors.Append(errs, errors.Field("ChainID", errors.ErrInput, "invalid chain id %q", c.ChainID))
	}
	if c.DBDir == "" {
		errs = errors.Append(errs, errors.Field("DBDir", errors.ErrEmpty, "required"))
	}
	switch c.LogLevel {
	case "debug", "info", "error", "none":
	default:
		errs = errors.Append(errs, errors.Field("LogLevel", errors.ErrInput, "unknown level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "", aidchain.LogFormatPlain, aidchain.LogFormatJSON:
	default:
		errs = errors.Append(errs, errors.Field("LogFormat", errors.ErrInput, "unknown format %q", c.LogFormat))
	}
	return errs
}

// LoadConfig reads the configuration file. Missing values are taken from
// DefaultConfig. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return conf, nil
	case err != nil:
		return conf, errors.Wrapf(errors.ErrInput, "read config: %s", err)
	}
	if err := yaml.Unmarshal(raw, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "decode config: %s", err)
	}
	if err := conf.Validate(); err != nil {
		return conf, errors.Wrap(err, "config")
	}
	return conf, nil
}

// SaveConfig writes the configuration file.
func SaveConfig(path string, conf Config) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrap(err, "config")
	}
	raw, err := yaml.Marshal(&conf)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "encode config: %s", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return errors.Wrapf(errors.ErrInput, "write config: %s", err)
	}
	return nil
}
