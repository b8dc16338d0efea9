// Package cmd contains all CLI commands for the pyime tool.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/f3rmion/pyime/internal/config"
	"github.com/f3rmion/pyime/internal/engine"
	"github.com/f3rmion/pyime/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pyime",
	Short: "Pinyin input method engine",
	Long: `pyime decodes pinyin typed as taps, slide traces or circle-pad gestures,
ranks candidate hanzi and predicts whole phrases from a transition model
trained on what you commit.

Running 'pyime' without arguments launches the interactive sandbox.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/pyime)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")
	rootCmd.PersistentFlags().String("mode", "", "keyboard mode: slip or circle_pad")
	rootCmd.PersistentFlags().String("database", "", "SQLite database path")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix("PYIME")
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// loadConfig reads config.yaml and applies flag and PYIME_* overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigDir())
	if err != nil {
		return nil, err
	}

	if mode := viper.GetString("mode"); mode != "" {
		cfg.Mode = mode
	}
	if db := viper.GetString("database"); db != "" {
		cfg.Database = db
	}
	if viper.IsSet("page_size") {
		cfg.PageSize = viper.GetInt("page_size")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openEngine opens the store and loads an engine from cfg. Callers close
// the returned store.
func openEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, *store.Store, error) {
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	e, err := engine.Load(ctx,
		engine.Sources{
			Decomposition: cfg.Dictionary,
			Extras:        cfg.Extras,
			Floor:         cfg.ScoreFloor,
		},
		engine.WithStore(st),
		engine.WithLogger(newLogger()),
		engine.WithPageSize(cfg.PageSize),
		engine.WithBestSize(cfg.BestSize),
		engine.WithMaxCandidates(cfg.MaxCandidates),
	)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("loading engine: %w", err)
	}
	return e, st, nil
}
