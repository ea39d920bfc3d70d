package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"zerosugar/explorer/internal/config"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Zero-sugar product catalog browser",
	Long: `Serves the zero-sugar catalog: product search, category and sweetener
pages, product details and photo-based product lookup, backed by the
catalog REST API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory containing config.yaml")
}

// loadConfig reads the configuration and applies the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warnf("⚠️ Unknown log level %q, keeping %s", cfg.Log.Level, log.GetLevel())
	} else {
		log.SetLevel(level)
	}

	log.Info("Configuration loaded successfully")
	return cfg, nil
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		log.Errorf("❌ %v", err)
		os.Exit(1)
	}
}
