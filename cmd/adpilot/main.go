// Package main provides the adpilot CLI entry point: a guided, conversational
// workflow that assembles an ad record, authenticates the user and submits
// the record to the (mock) ads platform with bounded error recovery.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"adpilot/cmd/adpilot/ui"
	"adpilot/internal/adsapi"
	"adpilot/internal/advisor"
	"adpilot/internal/agent"
	"adpilot/internal/config"
	"adpilot/internal/oauth"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiKey     string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command. Running it starts one interactive
// submission session.
var rootCmd = &cobra.Command{
	Use:   "adpilot",
	Short: "adpilot - conversational ads submission agent",
	Long: `adpilot walks you through building an ad record in a short dialogue:
campaign name, objective, creative text, CTA and an optional (sometimes
mandatory) music attachment. It authenticates against the ads platform,
validates the record and submits it, recovering automatically from the
known classes of API failure.

Explanations of errors are generated with Gemini when GEMINI_API_KEY is
set, and by a deterministic offline stub otherwise.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runSession,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the adpilot version",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.DefaultConfig()
		fmt.Printf("%s %s\n", cfg.Name, cfg.Version)
	},
}

func runSession(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiKey != "" {
		cfg.Advisor.APIKey = apiKey
	}

	authority := oauth.NewAuthority(oauth.Credentials{
		ClientID:     cfg.Platform.ClientID,
		ClientSecret: cfg.Platform.ClientSecret,
	}, logger)

	platform := adsapi.NewClient(authority, logger)
	adv := advisor.New(cfg.Advisor.APIKey, cfg.Advisor.Model, logger)
	console := newTerminalConsole(os.Stdin, os.Stdout)

	session := agent.NewSession(console, platform, authority, adv, logger)
	if err := session.Run(ctx); err != nil {
		logger.Info("Session ended without submission", zap.Error(err))
		// The session already explained the failure conversationally.
		cmd.SilenceUsage = true
		return err
	}
	return nil
}

func init() {
	// Errors are printed once, styled, in main.
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to the config file")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key for the explanation layer")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.DefaultStyles().Error.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
