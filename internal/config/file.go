package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration file. Pointer fields
// distinguish "absent" from zero values so that a partial file only
// overrides what it names.
type FileConfig struct {
	JournalPath     *string `json:"journal_path" yaml:"journal_path"`
	LogLevel        *string `json:"log_level" yaml:"log_level"`
	KDFTime         *uint32 `json:"kdf_time" yaml:"kdf_time"`
	KDFMemoryKiB    *uint32 `json:"kdf_memory_kib" yaml:"kdf_memory_kib"`
	KDFThreads      *uint8  `json:"kdf_threads" yaml:"kdf_threads"`
	BackupBucket    *string `json:"backup_bucket" yaml:"backup_bucket"`
	BackupPrefix    *string `json:"backup_prefix" yaml:"backup_prefix"`
	BackupRegion    *string `json:"backup_region" yaml:"backup_region"`
	BackupEndpoint  *string `json:"backup_endpoint" yaml:"backup_endpoint"`
	BackupAccessKey *string `json:"backup_access_key" yaml:"backup_access_key"`
	BackupSecretKey *string `json:"backup_secret_key" yaml:"backup_secret_key"`
}

// LoadFile overlays values from the config file at path onto c. Files
// ending in .yaml or .yml are read as YAML, anything else as JSON.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var f FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	f.apply(c)
	return nil
}

func (f *FileConfig) apply(c *Config) {
	setString(&c.JournalPath, f.JournalPath)
	setString(&c.LogLevel, f.LogLevel)
	if f.KDFTime != nil {
		c.KDFTime = *f.KDFTime
	}
	if f.KDFMemoryKiB != nil {
		c.KDFMemoryKiB = *f.KDFMemoryKiB
	}
	if f.KDFThreads != nil {
		c.KDFThreads = *f.KDFThreads
	}
	setString(&c.BackupBucket, f.BackupBucket)
	setString(&c.BackupPrefix, f.BackupPrefix)
	setString(&c.BackupRegion, f.BackupRegion)
	setString(&c.BackupEndpoint, f.BackupEndpoint)
	setString(&c.BackupAccessKey, f.BackupAccessKey)
	setString(&c.BackupSecretKey, f.BackupSecretKey)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
