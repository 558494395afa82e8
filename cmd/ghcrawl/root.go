package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/ghcrawl/internal/config"
	ghlog "github.com/nao1215/ghcrawl/internal/log"
)

// NewRootCmd creates the root command for ghcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ghcrawl",
		Short: "Crawl GitHub search results through rotating proxies",
		Long: `ghcrawl searches GitHub for keywords and collects every result across
all result pages, together with each item's owner and language statistics.

Requests carry a random browser identity and can be routed through a list
of HTTP or SOCKS5 proxies, or through an embedded Tor daemon.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .ghcrawl in current or home directory)")
	cmd.PersistentFlags().String("env-file", config.DefaultEnvFile,
		"Dotenv file loaded before reading GHCRAWL_* variables")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewProxyCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration shared by every subcommand.
// Later sources win: defaults, config file, environment, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = path

	// An explicit path must exist; the default locations are optional.
	if found := config.FindConfigFile(path); found != "" {
		f, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		if err := cfg.ApplyFile(f); err != nil {
			return nil, err
		}
	} else if path != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, path)
	}

	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("verbose") {
		if cfg.Verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("log-json") {
		if cfg.LogJSON, err = cmd.Flags().GetBool("log-json"); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger creates the secure logger selected by the configuration.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return ghlog.NewSecureJSONLogger(os.Stderr, cfg.Verbose)
	}
	return ghlog.NewSecureLogger(os.Stderr, cfg.Verbose)
}
