package main

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsagent/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsagent/internal/service"
	"github.com/GriffinCanCode/fsagent/internal/types"
)

func newServeCommand(a *app) *cobra.Command {
	var transport, host, port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the filesystem tools over MCP (stdio, sse or http)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("transport") {
				a.cfg.Transport.Mode = transport
			}
			if flags.Changed("host") {
				a.cfg.Transport.Host = host
			}
			if flags.Changed("port") {
				a.cfg.Transport.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			srv, err := a.server()
			if err != nil {
				return err
			}
			defer srv.Close()

			if err := srv.Run(cmd.Context()); err != nil {
				a.logger.Error("Server stopped", zap.Error(err))
				return err
			}
			a.logger.Info("Shut down")
			return nil
		},
	}
	cmd.Flags().StringVar(&transport, "transport", config.TransportStdio, "transport: stdio, sse or http (overrides MCP_TRANSPORT)")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "listen host for network transports (overrides MCP_HOST)")
	cmd.Flags().StringVar(&port, "port", "8000", "listen port for network transports (overrides MCP_PORT)")
	return cmd
}

func newToolsCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := a.server()
			if err != nil {
				return err
			}
			defer srv.Close()
			return service.ExportCatalog(cmd.OutOrStdout(), srv.Registry(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "json", "output format: json, yaml or toml")
	return cmd
}

func newCallCommand(a *app) *cobra.Command {
	var rawArgs string
	var raw bool
	cmd := &cobra.Command{
		Use:   "call ACTION",
		Short: "Run a single action and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arguments := map[string]interface{}{}
			if rawArgs != "" {
				if err := sonic.UnmarshalString(rawArgs, &arguments); err != nil {
					return fmt.Errorf("parse --args: %w", err)
				}
			}

			srv, err := a.server()
			if err != nil {
				return err
			}
			defer srv.Close()

			out := cmd.OutOrStdout()
			if raw {
				result, err := srv.Dispatcher().Call(cmd.Context(), args[0], arguments)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, service.Summarize(result))
				return err
			}

			outcome := srv.Dispatcher().Dispatch(cmd.Context(), types.ActionDescriptor{
				Name:      args[0],
				Arguments: arguments,
			})
			_, err = fmt.Fprintln(out, outcome.Summary)
			return err
		},
	}
	cmd.Flags().StringVar(&rawArgs, "args", "", "action arguments as a JSON object")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw result and fail on action errors")
	return cmd
}

func newAskCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask PROMPT...",
		Short: "Plan a natural-language request with Gemini and run it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := a.server()
			if err != nil {
				return err
			}
			defer srv.Close()

			summary := srv.Commander().Run(cmd.Context(), strings.Join(args, " "))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), summary)
			return err
		},
	}
}
