package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talentsift/talentsift/config"
	"github.com/talentsift/talentsift/logging"
)

const app = "talentsift"

var (
	cfgFile   string
	flagDebug bool
	flagJSON  bool
)

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "talentsift ranks and analyzes resumes against job descriptions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "json format for logging")
}

// loadConfig reads the config file and applies logging flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if flagDebug {
		cfg.Logging.Debug = true
	}
	if flagJSON {
		cfg.Logging.JSON = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging.JSON, cfg.Logging.Debug)
}
