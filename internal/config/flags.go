package config

import (
	"github.com/spf13/pflag"
)

// Flags binds configuration flags to a flag set. Values given on the
// command line win over the JSON file, which wins over defaults.
type Flags struct {
	fs         *pflag.FlagSet
	configFile string
	v          Config
}

// BindFlags registers configuration flags on fs.
//
//	-c, --config string        JSON or YAML config file
//	-f, --file string          journal file
//	    --log-level string     debug, info, warn or error
//	    --kdf-time uint32      argon2id passes
//	    --kdf-memory uint32    argon2id memory in KiB
//	    --kdf-threads uint8    argon2id parallelism
//	    --backup-bucket string
//	    --backup-prefix string
//	    --backup-region string
//	    --backup-endpoint string
//	    --backup-access-key string
//	    --backup-secret-key string
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	f.v.LoadDefaults()

	fs.StringVarP(&f.configFile, "config", "c", "", "path to JSON or YAML config file")
	fs.StringVarP(&f.v.JournalPath, "file", "f", f.v.JournalPath, "journal file")
	fs.StringVar(&f.v.LogLevel, "log-level", f.v.LogLevel, "log level (debug, info, warn, error)")
	fs.Uint32Var(&f.v.KDFTime, "kdf-time", f.v.KDFTime, "argon2id time cost")
	fs.Uint32Var(&f.v.KDFMemoryKiB, "kdf-memory", f.v.KDFMemoryKiB, "argon2id memory cost in KiB")
	fs.Uint8Var(&f.v.KDFThreads, "kdf-threads", f.v.KDFThreads, "argon2id parallelism")
	fs.StringVar(&f.v.BackupBucket, "backup-bucket", f.v.BackupBucket, "S3 bucket for journal backups (empty disables backups)")
	fs.StringVar(&f.v.BackupPrefix, "backup-prefix", f.v.BackupPrefix, "S3 key prefix for journal backups")
	fs.StringVar(&f.v.BackupRegion, "backup-region", f.v.BackupRegion, "S3 region")
	fs.StringVar(&f.v.BackupEndpoint, "backup-endpoint", f.v.BackupEndpoint, "S3 base endpoint (e.g. http://127.0.0.1:9000/)")
	fs.StringVar(&f.v.BackupAccessKey, "backup-access-key", f.v.BackupAccessKey, "S3 access key")
	fs.StringVar(&f.v.BackupSecretKey, "backup-secret-key", f.v.BackupSecretKey, "S3 secret key")

	return f
}

// Load builds a Config: defaults, then the file named by --config, then
// every flag set explicitly. A leading "~" in the journal path is expanded.
// Call it after the flag set was parsed.
func (f *Flags) Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if f.configFile != "" {
		if err := cfg.LoadFile(f.configFile); err != nil {
			return nil, err
		}
	}

	// Persistent flags are parsed by the executing subcommand's set, so
	// Visit on fs would see nothing.
	f.fs.VisitAll(func(fl *pflag.Flag) {
		if !fl.Changed {
			return
		}
		switch fl.Name {
		case "file":
			cfg.JournalPath = f.v.JournalPath
		case "log-level":
			cfg.LogLevel = f.v.LogLevel
		case "kdf-time":
			cfg.KDFTime = f.v.KDFTime
		case "kdf-memory":
			cfg.KDFMemoryKiB = f.v.KDFMemoryKiB
		case "kdf-threads":
			cfg.KDFThreads = f.v.KDFThreads
		case "backup-bucket":
			cfg.BackupBucket = f.v.BackupBucket
		case "backup-prefix":
			cfg.BackupPrefix = f.v.BackupPrefix
		case "backup-region":
			cfg.BackupRegion = f.v.BackupRegion
		case "backup-endpoint":
			cfg.BackupEndpoint = f.v.BackupEndpoint
		case "backup-access-key":
			cfg.BackupAccessKey = f.v.BackupAccessKey
		case "backup-secret-key":
			cfg.BackupSecretKey = f.v.BackupSecretKey
		}
	})

	if err := cfg.ExpandJournalPath(); err != nil {
		return nil, err
	}
	return cfg, nil
}
