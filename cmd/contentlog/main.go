// Package main provides the contentlog command, which keeps the event
// history of JSON content documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gihan9a/contentlog/internal/config"
)

const defaultConfigPath = "contentlog.yml"

var version = "0.1.0-dev"

type app struct {
	configPath string
	user       string
	cfg        *config.Config
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "contentlog",
		Short:         "Record and replay the change history of JSON content documents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&a.user, "user", "u", "", "User recorded on new events (overrides config)")

	rootCmd.AddCommand(
		a.newCreateCmd(),
		a.newUpdateCmd(),
		a.newReplayCmd(),
		a.newLogCmd(),
		a.newVerifyCmd(),
		a.newWatchCmd(),
		a.newConfigCmd(),
	)

	return rootCmd
}

// loadConfig reads the configuration file, falling back to defaults when
// the default file is absent.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		if cmd.Flags().Changed("config") {
			return fmt.Errorf("loading config: %w", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: Could not load config file: %v", err)
			log.Printf("Using default configuration")
		}
		cfg = config.Default()
	}

	if a.user != "" {
		cfg.History.User = a.user
	}
	a.cfg = cfg
	return nil
}
