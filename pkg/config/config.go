package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
)

type ScannerConfig struct {
	// Skip files smaller than a filesystem block; deduping those is unlikely
	// to save space.
	IgnoreSmall bool `koanf:"ignore_small"`
	DryRun      bool `koanf:"dry_run"`
}

type FilterConfig struct {
	IgnorePaths       []string `koanf:"ignore_paths"`
	IgnoreExtensions  []string `koanf:"ignore_extensions"`
	IgnorePatterns    []string `koanf:"ignore_patterns"`
	IgnoreExpressions []string `koanf:"ignore_expressions"`
}

type NotificationService struct {
	Discord string `koanf:"discord"`
}

type NotificationsConfig struct {
	Detailed     bool                `koanf:"detailed"`
	SkipEmptyRun bool                `koanf:"skip_empty_run"`
	Service      NotificationService `koanf:"service"`
}

type Configuration struct {
	Scanner       ScannerConfig       `koanf:"scanner"`
	Filter        FilterConfig        `koanf:"filter"`
	Notifications NotificationsConfig `koanf:"notifications"`
}

/* Vars */

var (
	k = koanf.New(".")

	// Config is the active configuration, populated by Init.
	Config Configuration
)

// Init loads defaults, the optional YAML config file and DUPESWEEP_ env vars,
// in that order of precedence (lowest first).
func Init(configFilePath string) error {
	defaults := map[string]interface{}{
		"scanner.ignore_small":         true,
		"scanner.dry_run":              false,
		"notifications.detailed":       true,
		"notifications.skip_empty_run": false,
	}

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return errors.Wrap(err, "load default configuration")
	}

	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err == nil {
			if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
				return errors.Wrapf(err, "load configuration file: %s", configFilePath)
			}
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "stat configuration file: %s", configFilePath)
		}
	}

	envProvider := env.Provider("DUPESWEEP_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "DUPESWEEP_")), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return errors.Wrap(err, "load environment configuration")
	}

	if err := k.Unmarshal("", &Config); err != nil {
		return errors.Wrap(err, "unmarshal configuration")
	}

	return nil
}
