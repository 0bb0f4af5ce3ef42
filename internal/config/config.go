// Package config handles configuration for the journal CLI, including
// defaults, a JSON overlay, and command-line flags.
package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/dmitrijs2005/gophjournal/internal/backup"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
)

// EnvJournalPath overrides the default journal path.
const EnvJournalPath = "GOPHJOURNAL_PATH"

var (
	getenv      = os.Getenv
	userHomeDir = homedir.Dir
	expandPath  = homedir.Expand
)

// Config holds runtime settings.
//
// Fields:
//   - JournalPath: journal file opened when no path argument is given.
//   - LogLevel: debug, info, warn or error.
//   - KDFTime / KDFMemoryKiB / KDFThreads: argon2id parameters for entries.
//   - Backup*: optional S3-compatible backup target. Empty bucket disables it.
type Config struct {
	JournalPath     string
	LogLevel        string
	KDFTime         uint32
	KDFMemoryKiB    uint32
	KDFThreads      uint8
	BackupBucket    string
	BackupPrefix    string
	BackupRegion    string
	BackupEndpoint  string
	BackupAccessKey string
	BackupSecretKey string
}

// LoadDefaults populates c with defaults. The journal path comes from
// GOPHJOURNAL_PATH when set, otherwise ~/.gophjournal/journal.txt.
func (c *Config) LoadDefaults() {
	c.JournalPath = defaultJournalPath()
	c.LogLevel = "warn"
	c.KDFTime = cryptox.DefaultParams.Time
	c.KDFMemoryKiB = cryptox.DefaultParams.Memory
	c.KDFThreads = cryptox.DefaultParams.Threads
	c.BackupBucket = ""
	c.BackupPrefix = "journals"
	c.BackupRegion = "us-east-1"
	c.BackupEndpoint = ""
	c.BackupAccessKey = ""
	c.BackupSecretKey = ""
}

func defaultJournalPath() string {
	if p := getenv(EnvJournalPath); p != "" {
		return p
	}
	home, err := userHomeDir()
	if err != nil || home == "" {
		return "journal.txt"
	}
	return filepath.Join(home, ".gophjournal", "journal.txt")
}

// ExpandJournalPath replaces a leading "~" in JournalPath with the home
// directory. Paths from config files are not expanded by a shell.
func (c *Config) ExpandJournalPath() error {
	p, err := expandPath(c.JournalPath)
	if err != nil {
		return err
	}
	c.JournalPath = p
	return nil
}

// KDFParams returns the argon2id parameters.
func (c *Config) KDFParams() cryptox.Params {
	return cryptox.Params{Time: c.KDFTime, Memory: c.KDFMemoryKiB, Threads: c.KDFThreads}
}

// BackupEnabled reports whether a backup bucket is configured.
func (c *Config) BackupEnabled() bool {
	return c.BackupBucket != ""
}

// Backup returns the backup settings.
func (c *Config) Backup() backup.Config {
	return backup.Config{
		Bucket:    c.BackupBucket,
		Prefix:    c.BackupPrefix,
		Region:    c.BackupRegion,
		Endpoint:  c.BackupEndpoint,
		AccessKey: c.BackupAccessKey,
		SecretKey: c.BackupSecretKey,
	}
}
