package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vocabtest-backend/internal/config"
	"vocabtest-backend/internal/db"
	"vocabtest-backend/utilities"
)

const version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "vocabtest",
	Short: "Vocabulary bank and printable test builder",
	Long: `vocabtest keeps an instructor's English/Japanese vocabulary bank and
assembles printable tests from it by id range, explicit pick or random sample.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "warning: could not read .env:", err)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.xml", "path to the XML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the XML config. A missing file falls back to defaults
// plus VOCAB_* environment overrides.
func loadConfig() (*config.APIConfig, error) {
	cfg, err := config.LoadConfig(configPath)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "config %s not found, using defaults\n", configPath)
	return config.Parse(strings.NewReader("<API/>"))
}

// openStore loads config, starts logging and opens the migrated database.
func openStore() (*config.APIConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := utilities.SetupLogging(utilities.LogOptions{
		Dir:        cfg.Logging.Dir,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Debug:      cfg.Logging.Debug || cfg.RequestDump,
	}); err != nil {
		return nil, err
	}
	if err := db.InitDBFromConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, nil
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("VOCABTEST", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("VOCABTEST API (v%s)\n\n", version)
}
