package commands

import (
	"os"
	"path/filepath"

	"github.com/iov-one/aidchain/errors"
)

// Home is the directory holding all daemon files.
type Home string

// DefaultHome returns $HOME/.aidescrowd.
func DefaultHome() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".aidescrowd"
	}
	return filepath.Join(dir, ".aidescrowd")
}

func (h Home) ConfigFile() string {
	return filepath.Join(string(h), "config.yaml")
}

func (h Home) GenesisFile() string {
	return filepath.Join(string(h), "genesis.json")
}

func (h Home) KeyFile(name string) string {
	return filepath.Join(string(h), "keys", name+".key")
}

// DBDir resolves the database directory of given configuration.
func (h Home) DBDir(conf Config) string {
	if filepath.IsAbs(conf.DBDir) {
		return conf.DBDir
	}
	return filepath.Join(string(h), conf.DBDir)
}

// Ensure creates the home directory layout.
func (h Home) Ensure() error {
	if err := os.MkdirAll(filepath.Join(string(h), "keys"), 0o700); err != nil {
		return errors.Wrapf(errors.ErrInput, "create home: %s", err)
	}
	return nil
}
