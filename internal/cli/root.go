// internal/cli/root.go
// Package cli wires the medbench cobra commands together. Each pipeline
// stage (respond, grade, metrics, leaderboard) is a subcommand that reads
// the merged configuration snapshot produced here.
package medbench

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/livemedbench/medbench/internal/appconfig"
	"github.com/livemedbench/medbench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "medbench",
	Short: "medbench — rubric-based benchmark pipeline for medical consultation models",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// If the user did NOT set a flag, copy the config value into the
		// flag so both pflags and viper reflect the same, final value.
		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(viper.GetBool("debug")))
		}
		if !cmd.Flags().Changed("workers") {
			_ = cmd.Flags().Set("workers", strconv.Itoa(viper.GetInt("workers")))
		}
		if !cmd.Flags().Changed("logFile") {
			_ = cmd.Flags().Set("logFile", viper.GetString("logFile"))
		}

		// Materialize the fully merged configuration into currentConfig
		// (flags > config > defaults). This gives other packages a stable
		// snapshot. A missing file is tolerated here so `show config` can
		// still run; stage commands reject a nil config themselves.
		cfg, err := appconfig.Load(cfgFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err == nil {
			cfg.Debug = viper.GetBool("debug")
			if viper.GetInt("workers") > 0 {
				cfg.Workers = viper.GetInt("workers")
			}
			if viper.GetString("logFile") != "" {
				cfg.LogFile = viper.GetString("logFile")
			}
			currentConfig = &cfg
		}

		logPath := viper.GetString("logFile")
		if currentConfig != nil {
			logPath = currentConfig.LogFilePath()
		} else if logPath == "" {
			logPath = appconfig.Config{}.LogFilePath()
		}
		if err := logging.Init(logPath); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.json", "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging of provider traffic")
	rootCmd.PersistentFlags().Int("workers", 0, "concurrent cases per stage (0 = config value)")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config into viper so flag fallbacks work.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
