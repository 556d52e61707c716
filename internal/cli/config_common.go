package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/loadbench/internal/config"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

// loadProjectConfig loads godotenv and project configuration.
// Without --config, a missing loadbench.yaml in the working directory is not an error
// and yields a nil config. An explicit --config path must exist.
func loadProjectConfig(configPath string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	var (
		projectCfg *config.ProjectConfig
		err        error
	)
	if configPath != "" {
		projectCfg, err = config.LoadFile(configPath)
	} else {
		projectCfg, err = config.Load(".")
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
	}
	if err != nil {
		name := configPath
		if name == "" {
			name = config.ConfigFileName
		}
		return nil, fmt.Errorf("failed to load %s: %w: %w", name, err, loadbench.ErrInvalidConfig)
	}
	return projectCfg, nil
}

// stringSetting applies flag > loadbench.yaml > flag default precedence.
func stringSetting(cmd *cobra.Command, flag, flagValue, yamlValue string) string {
	if !cmd.Flags().Changed(flag) && yamlValue != "" {
		return yamlValue
	}
	return flagValue
}

// intSetting applies flag > loadbench.yaml > flag default precedence.
func intSetting(cmd *cobra.Command, flag string, flagValue, yamlValue int) int {
	if !cmd.Flags().Changed(flag) && yamlValue != 0 {
		return yamlValue
	}
	return flagValue
}

// resolveEffectiveTimeout returns the effective timeout, preferring loadbench.yaml if flag wasn't set.
func resolveEffectiveTimeout(
	cmd *cobra.Command,
	projectCfg *config.ProjectConfig,
	flagTimeout time.Duration,
) (time.Duration, error) {
	if projectCfg != nil && projectCfg.Load.Timeout != "" && !cmd.Flags().Changed("timeout") {
		parsed, err := time.ParseDuration(projectCfg.Load.Timeout)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout in %s: %w: %w", config.ConfigFileName, err, loadbench.ErrInvalidConfig)
		}
		return parsed, nil
	}
	return flagTimeout, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM and, when timeout is
// positive, after timeout. The returned cancel func stops signal delivery.
func signalContext(timeout time.Duration, what string) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	// Handle interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintf(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling %s...\n", what)
			cancel()
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		close(done)
		cancel()
	}
}
