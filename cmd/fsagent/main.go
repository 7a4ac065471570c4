package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsagent/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsagent/internal/infrastructure/server"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries state resolved once by the root command's pre-run hook.
type app struct {
	envFile  string
	root     string
	logLevel string
	logDev   bool

	cfg    *config.Config
	logger *logging.Logger
}

func newApp() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:               "fsagent",
		Short:             "Sandboxed filesystem tools for language-model agents",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file to seed the environment from")
	flags.StringVar(&a.root, "root", "", "sandbox root directory (overrides FS_ROOT)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides LOG_LEVEL)")
	flags.BoolVar(&a.logDev, "log-dev", false, "human-readable development logs (overrides LOG_DEV)")

	cmd.AddCommand(
		newServeCommand(a),
		newToolsCommand(a),
		newCallCommand(a),
		newAskCommand(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Sandbox.Root = a.root
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-dev") {
		cfg.Logging.Development = a.logDev
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{cfg.Logging.Output},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) server() (*server.Server, error) {
	srv, err := server.NewServer(a.cfg, a.logger, version)
	if err != nil {
		a.logger.Error("Failed to create server", zap.Error(err))
		return nil, err
	}
	return srv, nil
}
