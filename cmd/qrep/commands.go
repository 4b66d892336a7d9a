package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/njchilds90/goquantum/internal/config"
	"github.com/njchilds90/goquantum/internal/mcp"
	"github.com/njchilds90/goquantum/internal/server"
	"github.com/njchilds90/goquantum/internal/telemetry"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string
	logJSON    bool

	cfg      config.Config
	logger   *slog.Logger
	shutdown func(context.Context) error
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "qrep",
		Short:         "Represent quantum expressions in a basis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.shutdown == nil {
				return nil
			}
			return a.shutdown(context.Background())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "log JSON lines to stderr")

	root.AddCommand(
		a.representCmd(),
		a.toolCmd(),
		a.serveCmd(),
		a.schemaCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Log)
	slog.SetDefault(a.logger)

	a.shutdown, err = telemetry.Init(cmd.Context(), telemetry.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: cfg.Tracing.ServiceVersion,
		Environment:    cfg.Tracing.Environment,
		TraceExporter:  cfg.Tracing.Exporter,
		Writer:         cmd.ErrOrStderr(),
	})
	return err
}

// newLogger writes text to a terminal and JSON lines elsewhere, unless the
// config asks for JSON.
func newLogger(w io.Writer, cfg config.Log) *slog.Logger {
	var level slog.Level
	_ = level.UnmarshalText([]byte(cfg.Level))
	opts := &slog.HandlerOptions{Level: level}

	asJSON := cfg.JSON
	if f, ok := w.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		asJSON = true
	}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ============================================================
// represent / tool
// ============================================================

func (a *app) representCmd() *cobra.Command {
	var expr, format, basis string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "represent",
		Short: "Represent an expression (JSON, or @file) and print the value",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := readJSONArg(expr)
			if err != nil {
				return fmt.Errorf("--expr: %w", err)
			}
			params := map[string]interface{}{"expr": e}
			if format != "" {
				params["format"] = format
			}
			if basis != "" {
				b, err := parseBasisArg(basis)
				if err != nil {
					return fmt.Errorf("--basis: %w", err)
				}
				params["basis"] = b
			}
			return a.runTool(cmd, mcp.ToolRequest{Tool: "represent", Params: params}, asJSON)
		},
	}
	cmd.Flags().StringVar(&expr, "expr", "", "expression JSON, or @path to read it from a file")
	cmd.Flags().StringVar(&format, "format", "", "symbolic, dense or sparse (default from config)")
	cmd.Flags().StringVar(&basis, "basis", "", "kind name or basis object JSON")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full tool response as JSON")
	_ = cmd.MarkFlagRequired("expr")
	return cmd
}

func (a *app) toolCmd() *cobra.Command {
	var raw string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tool <name>",
		Short: "Run any tool call with JSON params (or @file)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]interface{}{}
			if raw != "" {
				v, err := readJSONArg(raw)
				if err != nil {
					return fmt.Errorf("--params: %w", err)
				}
				m, ok := v.(map[string]interface{})
				if !ok {
					return fmt.Errorf("--params: must be a JSON object")
				}
				params = m
			}
			return a.runTool(cmd, mcp.ToolRequest{Tool: args[0], Params: params}, asJSON)
		},
	}
	cmd.Flags().StringVar(&raw, "params", "", "params JSON object, or @path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full tool response as JSON")
	return cmd
}

func (a *app) runTool(cmd *cobra.Command, req mcp.ToolRequest, asJSON bool) error {
	h := &mcp.Handler{Format: a.cfg.Represent.Format, Logger: a.logger}
	resp := h.Handle(cmd.Context(), req)
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else if resp.Error == "" {
		fmt.Fprintln(out, resp.String)
	}
	if resp.Error != "" {
		return fmt.Errorf("%s: %s", req.Tool, resp.Error)
	}
	return nil
}

// readJSONArg decodes s, or the file named after a leading "@".
func readJSONArg(s string) (interface{}, error) {
	data := []byte(s)
	if path, ok := strings.CutPrefix(s, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// parseBasisArg accepts a bare kind name or JSON.
func parseBasisArg(s string) (interface{}, error) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "{") || strings.HasPrefix(t, "@") {
		return readJSONArg(t)
	}
	return t, nil
}

// ============================================================
// serve / schema / config
// ============================================================

func (a *app) serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over HTTP (POST /tool, GET /schema, /health, /metrics)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(cfg, a.logger).Run(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on (overrides config)")
	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the tool schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), mcp.MCPToolSpec())
			return err
		},
	}
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
