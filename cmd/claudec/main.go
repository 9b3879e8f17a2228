// PicoClaw - Ultra-lightweight personal AI agent
// Inspired by and based on nanobot: https://github.com/HKUDS/nanobot
// License: MIT
//
// Copyright (c) 2026 PicoClaw contributors

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/google/uuid"
	"github.com/nmnduy/claude-c/cmd/claudec/internal"
	versioncmd "github.com/nmnduy/claude-c/cmd/claudec/internal/version"
	"github.com/nmnduy/claude-c/pkg/agent"
	"github.com/nmnduy/claude-c/pkg/audit"
	"github.com/nmnduy/claude-c/pkg/config"
	"github.com/nmnduy/claude-c/pkg/editor"
	"github.com/nmnduy/claude-c/pkg/logger"
	"github.com/nmnduy/claude-c/pkg/providers"
	"github.com/nmnduy/claude-c/pkg/session"
	"github.com/nmnduy/claude-c/pkg/ui"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "claude-c",
		Short:         "A local, terminal-based coding agent",
		Version:       internal.FormatVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runInteractive,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s picoclaw {{.Version}}\n  Go: %s\n", internal.Logo, runtime.Version()))
	rootCmd.AddCommand(versioncmd.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runInteractive is the CLI's default (no subcommand, no positional
// arguments) behavior: enter interactive mode (§6.4).
func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	configureLogging(cfg)

	workingDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	sessionID := uuid.NewString()
	// Additional dirs are made absolute, deduplicated, and never include the
	// working directory itself.
	var additionalDirs []string
	seenDirs := map[string]bool{filepath.Clean(workingDir): true}
	for _, dir := range cfg.AdditionalDirs {
		dir = filepath.Clean(dir)
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if !seenDirs[dir] {
			seenDirs[dir] = true
			additionalDirs = append(additionalDirs, dir)
		}
	}
	systemPrompt := agent.BuildSystemPrompt(workingDir, additionalDirs)

	store := session.NewWithCapacity(systemPrompt, workingDir, sessionID, 0)
	store.AdditionalDirs = additionalDirs
	store.APIKey = cfg.OpenAIAPIKey
	store.EndpointURL = cfg.OpenAIAPIBase
	store.Model = cfg.Model()
	store.MaxRetryDurationMS = cfg.RetryBudgetMS()

	provider, err := providers.CreateProvider(cfg)
	if err != nil {
		return fmt.Errorf("selecting LLM provider: %w", err)
	}

	registry, cleanupMCP, err := agent.BuildRegistry(cfg, store)
	if err != nil {
		return fmt.Errorf("bootstrapping tool registry: %w", err)
	}
	defer cleanupMCP()

	sink, err := audit.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening audit sink: %w", err)
	}
	defer sink.Close()

	queue := ui.NewMessageQueue(ui.DefaultQueueCapacity)
	listener := agent.NewQueueListener(queue)

	worker := agent.NewWorker(cfg, store, registry, provider, sink, agent.Hooks{}, listener, 0, 0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go worker.Run(ctx)
	defer worker.Stop()

	loop, err := editor.NewLoop(queue, worker, store)
	if err != nil {
		return fmt.Errorf("starting terminal UI: %w", err)
	}
	defer loop.Close()

	loop.Run()
	return nil
}

func configureLogging(cfg *config.Config) {
	switch cfg.LogLevel {
	case "debug":
		logger.SetLevel(logger.DEBUG)
	case "warn":
		logger.SetLevel(logger.WARN)
	case "error":
		logger.SetLevel(logger.ERROR)
	default:
		logger.SetLevel(logger.INFO)
	}
	if cfg.LogPath != "" {
		if err := logger.EnableFileLogging(cfg.LogPath); err != nil {
			logger.ErrorCF("main", "failed to enable file logging", map[string]any{"error": err.Error()})
		}
	}
}
