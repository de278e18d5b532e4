// Package env resolves the config and log paths following the XDG base
// directory spec, with SUTERU_* overrides.
package env

import (
	"os"
	"path/filepath"
)

const (
	defaultXDGConfigDirname = ".config"
	defaultXDGDataDirname   = ".local/share"
)

var (
	SUTERU_CONFIG_PATH string

	SUTERU_LOG_PATH string
)

func init() {
	if e := os.Getenv("SUTERU_CONFIG_PATH"); e != "" {
		SUTERU_CONFIG_PATH = e
	} else {
		configDir := os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				panic(err)
			}
			configDir = filepath.Join(homeDir, defaultXDGConfigDirname)
		}
		SUTERU_CONFIG_PATH = filepath.Join(configDir, "suteru", "config.yaml")
	}

	if e := os.Getenv("SUTERU_LOG_PATH"); e != "" {
		SUTERU_LOG_PATH = e
	} else {
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				panic(err)
			}
			dataDir = filepath.Join(homeDir, defaultXDGDataDirname)
		}
		SUTERU_LOG_PATH = filepath.Join(dataDir, "suteru", "debug.log")
	}
}
