// Package config loads the YAML configuration and compiles it into the
// immutable rule tables and favorites the navigator runs on.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AssocEntry is one file association. Exactly one of Match, Ext or Glob
// selects the files; Global alone marks the "use the global table here"
// entry inside a favorite.
type AssocEntry struct {
	Match    string `yaml:"match"`
	Ext      string `yaml:"ext"`
	Glob     string `yaml:"glob"`
	Command  string `yaml:"command"`
	Killable string `yaml:"killable"`
	Global   bool   `yaml:"global"`
}

// TransformEntry rewrites display names.
type TransformEntry struct {
	Match   string `yaml:"match"`
	Replace string `yaml:"replace"`
	Global  bool   `yaml:"global"`
}

// FavoriteEntry binds a number to a lister.
type FavoriteEntry struct {
	Num           int              `yaml:"num"`
	Name          string           `yaml:"name"`
	Path          string           `yaml:"path"`
	Module        string           `yaml:"module"`
	ProcRoot      string           `yaml:"proc_root"`
	FileAssoc     []AssocEntry     `yaml:"file_assoc"`
	NameTransform []TransformEntry `yaml:"name_transform"`
}

// File mirrors the configuration file.
type File struct {
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Remote struct {
		Socket string `yaml:"socket"`
	} `yaml:"remote"`
	Watch         *bool            `yaml:"watch"`
	FileAssoc     []AssocEntry     `yaml:"file_assoc"`
	NameTransform []TransformEntry `yaml:"name_transform"`
	Favorites     []FavoriteEntry  `yaml:"favorites"`
}

// DefaultPath returns $XDG_CONFIG_HOME/rclaunch/config.yaml, falling back to
// ~/.config/rclaunch/config.yaml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "rclaunch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "rclaunch", "config.yaml")
	}
	return filepath.Join(home, ".config", "rclaunch", "config.yaml")
}

// LoadFile reads path. A missing file yields the defaults.
func LoadFile(path string) (*File, error) {
	cfg := defaultFile()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes configuration bytes and merges them over the defaults.
func Parse(data []byte) (*File, error) {
	cfg := defaultFile()

	var tempCfg File
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Log.Level != "" {
		cfg.Log.Level = tempCfg.Log.Level
	}
	cfg.Log.File = tempCfg.Log.File
	cfg.Remote.Socket = tempCfg.Remote.Socket
	if tempCfg.Watch != nil {
		cfg.Watch = tempCfg.Watch
	}
	cfg.FileAssoc = tempCfg.FileAssoc
	cfg.NameTransform = tempCfg.NameTransform
	cfg.Favorites = tempCfg.Favorites

	return cfg, nil
}

func defaultFile() *File {
	cfg := &File{}
	cfg.Log.Level = "info"
	watch := true
	cfg.Watch = &watch
	return cfg
}

// WatchEnabled reports whether directory watching is on.
func (f *File) WatchEnabled() bool {
	return f.Watch == nil || *f.Watch
}
