// Package config assembles runtime settings. Sources apply in order, later
// ones winning: built-in defaults, a YAML file, a .env file, NUTRILOG_*
// environment variables, command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/aguxez/nutrilog/api"
	"github.com/aguxez/nutrilog/storage"
	"github.com/aguxez/nutrilog/store"
)

const appName = "nutrilog"

type Config struct {
	APIURL        string        `yaml:"api_url" env:"NUTRILOG_API_URL"`
	APITimeout    time.Duration `yaml:"api_timeout" env:"NUTRILOG_API_TIMEOUT"`
	StorageDriver string        `yaml:"storage_driver" env:"NUTRILOG_STORAGE_DRIVER"`
	StoragePath   string        `yaml:"storage_path" env:"NUTRILOG_STORAGE_PATH"`
	// WatchSession reloads the session when another process changes the
	// storage file.
	WatchSession bool `yaml:"watch_session" env:"NUTRILOG_WATCH_SESSION"`
	// InboxDir, when set, is watched for food log CSV files to import.
	InboxDir     string        `yaml:"inbox_dir" env:"NUTRILOG_INBOX_DIR"`
	ProfileDelay time.Duration `yaml:"profile_delay" env:"NUTRILOG_PROFILE_DELAY"`
	LogLevel     string        `yaml:"log_level" env:"NUTRILOG_LOG_LEVEL"`
	LogFile      string        `yaml:"log_file" env:"NUTRILOG_LOG_FILE"`

	Advisor Advisor `yaml:"advisor"`
}

// Advisor configures the optional LLM advisor. It is disabled without a token.
type Advisor struct {
	BaseURL string `yaml:"base_url" env:"NUTRILOG_ADVISOR_BASE_URL"`
	Token   string `yaml:"token" env:"NUTRILOG_ADVISOR_TOKEN"`
	Model   string `yaml:"model" env:"NUTRILOG_ADVISOR_MODEL"`
}

func (a Advisor) Enabled() bool {
	return a.Token != ""
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:        api.DefaultBaseURL,
		APITimeout:    api.DefaultTimeout,
		StorageDriver: storage.DriverFile,
		WatchSession:  true,
		ProfileDelay:  store.DefaultProfileDelay,
		LogLevel:      "info",
		Advisor: Advisor{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "deepseek/deepseek-r1-distill-llama-70b",
		},
	}
}

// Load builds the configuration from args (without the program name) and
// the environment.
func Load(args []string) (Config, error) {
	cfg := Default()

	flags := flag.NewFlagSet(appName, flag.ContinueOnError)
	configPath := flags.String("config", "", "YAML config file (default $XDG_CONFIG_HOME/nutrilog/config.yaml)")
	envFile := flags.String("env-file", ".env", "dotenv file loaded into the environment")

	var flagged Config
	flags.StringVar(&flagged.APIURL, "api-url", "", "backend base URL")
	flags.DurationVar(&flagged.APITimeout, "api-timeout", 0, "backend request timeout")
	flags.StringVar(&flagged.StorageDriver, "storage", "", "session storage driver (file, sqlite, memory)")
	flags.StringVar(&flagged.StoragePath, "storage-path", "", "session storage location")
	flags.BoolVar(&flagged.WatchSession, "watch", false, "reload the session when the storage file changes")
	flags.StringVar(&flagged.InboxDir, "inbox", "", "directory watched for food log CSV imports")
	flags.StringVar(&flagged.LogLevel, "log-level", "", "log level")
	flags.StringVar(&flagged.LogFile, "log-file", "", "log file, - for stderr")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", *envFile, err)
		}
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("NUTRILOG_CONFIG")
	}
	explicit := path != ""
	if !explicit {
		path = defaultPath("config.yaml")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-url":
			cfg.APIURL = flagged.APIURL
		case "api-timeout":
			cfg.APITimeout = flagged.APITimeout
		case "storage":
			cfg.StorageDriver = flagged.StorageDriver
		case "storage-path":
			cfg.StoragePath = flagged.StoragePath
		case "watch":
			cfg.WatchSession = flagged.WatchSession
		case "inbox":
			cfg.InboxDir = flagged.InboxDir
		case "log-level":
			cfg.LogLevel = flagged.LogLevel
		case "log-file":
			cfg.LogFile = flagged.LogFile
		}
	})

	if cfg.StoragePath == "" && cfg.StorageDriver != storage.DriverMemory {
		name := "session.json"
		if cfg.StorageDriver == storage.DriverSQLite {
			name = "session.db"
		}
		cfg.StoragePath = defaultPath(name)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultPath(appName + ".log")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case storage.DriverFile, storage.DriverSQLite, storage.DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.StorageDriver != storage.DriverMemory && c.StoragePath == "" {
		return errors.New("storage path required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.APIURL == "" {
		return errors.New("api url required")
	}
	if c.APITimeout < 0 || c.ProfileDelay < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// defaultPath places name under the user's config directory, or the working
// directory when that is unknown.
func defaultPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, appName, name)
}
