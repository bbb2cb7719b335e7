package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dupesweep/dupesweep/pkg/config"
	"github.com/dupesweep/dupesweep/pkg/logger"
)

var (
	// Global flags
	flagLogLevel   = 0
	flagConfigFile = defaultConfigPath()
	flagLogFile    string
	flagDryRun     bool

	initialized bool
)

var rootCmd = &cobra.Command{
	Use:   "dupesweep",
	Short: "A CLI filesystem deduplicator",
	Long: `A CLI application that finds files with identical content under one or
more roots and reclaims space by replacing duplicates with hardlinks to a
single physical copy.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigFile, "config", "c", flagConfigFile, "Config file")
	rootCmd.PersistentFlags().StringVarP(&flagLogFile, "log", "l", "", "Log file")
	rootCmd.PersistentFlags().CountVarP(&flagLogLevel, "verbose", "v", "Verbose level")

	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Dry run mode")
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "dupesweep", "config.yaml")
}

// initCore initializes logging and configuration; every command calls it
// before doing work.
func initCore() {
	if initialized {
		return
	}
	initialized = true

	if err := logger.Init(flagLogLevel, flagLogFile); err != nil {
		fmt.Printf("Failed initializing logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.GetLogger("core")

	if err := config.Init(flagConfigFile); err != nil {
		log.WithError(err).Fatal("Failed initializing config")
	}
}
