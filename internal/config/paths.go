package config

import (
	"errors"
	"os"
	"path/filepath"
)

const appDirName = "sky-colony"

// DataDir is where saves and the default config live. SKY_COLONY_HOME
// overrides the per user config directory.
func DataDir() (string, error) {
	if dir := os.Getenv("SKY_COLONY_HOME"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if base == "" {
		return "", errors.New("user config directory not found")
	}
	return filepath.Join(base, appDirName), nil
}

func DefaultConfigPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultSavePath() string {
	dir, err := DataDir()
	if err != nil {
		return "sky-colony.db"
	}
	return filepath.Join(dir, "sky-colony.db")
}
