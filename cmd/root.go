// Package cmd implements the soundboard command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/soundboard/internal/config"
	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/paths"
	"github.com/zjrosen/soundboard/internal/tracing"
)

// LocalConfigFile is looked up in the working directory before the user config.
const LocalConfigFile = ".soundboard.yaml"

// version is set at build time with -ldflags "-X github.com/zjrosen/soundboard/cmd.version=...".
var version = "dev"

var (
	cfgFile  string
	dbPath   string
	debug    bool
	logFile  string
	cfg      config.Config
	cfgUsed  string
	cleanups []func() error
)

var rootCmd = &cobra.Command{
	Use:   "soundboard",
	Short: "A terminal soundboard",
	Long: `Play short sound clips from a grid of pads. Add sounds from URLs or files,
record your own from the microphone, and filter pads by category.

Run without arguments to open the board.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runBoard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./"+LocalConfigFile+" or "+paths.ConfigFile()+")")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sound database path (default "+filepath.Join(paths.DataDir(), paths.DBFileName)+")")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	c, used, err := loadConfig(cfgFile, dbPath)
	if err != nil {
		return err
	}
	cfg, cfgUsed = c, used

	if debug || logFile != "" {
		path := logFile
		if path == "" {
			path = filepath.Join(paths.DataDir(), paths.LogFileName)
		}
		closeLog, err := log.Init(path, debug)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, closeLog)
	}
	log.Info(log.CatConfig, "Starting", "version", version, "command", cmd.Name(), "config", cfgUsed)

	shutdown, err := tracing.Setup(cmd.Context(), cfg.Tracing, version, filepath.Join(paths.DataDir(), "traces.json"))
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	cleanups = append(cleanups, func() error { return shutdown(context.Background()) })
	return nil
}

func teardown(*cobra.Command, []string) error {
	var errs []error
	for i := len(cleanups) - 1; i >= 0; i-- {
		errs = append(errs, cleanups[i]())
	}
	cleanups = nil
	return errors.Join(errs...)
}

// loadConfig reads the config file (if any), environment overrides and the
// --db flag. It returns the config file used, or "" when none was found.
func loadConfig(flagPath, dbOverride string) (config.Config, string, error) {
	v := viper.New()
	config.SetDefaults(v)
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(config.EnvKeyReplacer())
	v.AutomaticEnv()

	path := resolveConfigPath(flagPath)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, "", fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if dbOverride != "" {
		v.Set("db_path", dbOverride)
	}

	c, err := config.Load(v)
	if err != nil {
		return config.Config{}, "", err
	}
	return c, path, nil
}

// resolveConfigPath picks the --config flag, then ./.soundboard.yaml, then
// the user config file. Missing files are skipped; an explicit flag is
// returned even if missing so reading it reports the error.
func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return paths.ExpandHome(flagPath)
	}
	for _, p := range []string{LocalConfigFile, paths.ConfigFile()} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
