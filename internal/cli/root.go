package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiranshivaraju/yaktalk/internal/app"
	"github.com/kiranshivaraju/yaktalk/internal/config"
)

var (
	cfgFile       string
	verbose       bool
	migrationsDir string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yaktalk",
	Short: "YakTalk - Korean drug information consultation",
	Long: `YakTalk answers questions about medicines from a Korean drug
information corpus and grades how urgently a reported side effect
needs medical attention.

It does not replace a doctor or pharmacist.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.yaktalk/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations", "", "apply migrations from this directory before running")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.yaktalk")
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Config file keys use the server's variable names (database_url, ai_provider, ...)
	// and the environment overrides them.
	viper.AutomaticEnv()

	// The CLI never dials Redis; the default only satisfies validation.
	viper.SetDefault("REDIS_URL", "redis://localhost:6379")

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadApp builds the consultation pipeline from the merged configuration.
func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadFrom(viper.GetString)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var opts []app.Option
	if migrationsDir != "" {
		opts = append(opts, app.WithMigrations(migrationsDir))
	}
	return app.New(ctx, cfg, opts...)
}
