package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/amp-labs/amp-flat/bench"
	"github.com/amp-labs/amp-flat/build"
	"github.com/amp-labs/amp-flat/logger"
	"github.com/amp-labs/amp-flat/shutdown"
	"github.com/amp-labs/amp-flat/telemetry"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const appName = "flatbench"

// buildInfo is a JSON build.Info, set with -ldflags "-X main.buildInfo=...".
var buildInfo string //nolint:gochecknoglobals

type runOptions struct {
	envFile    string
	size       int
	ops        int
	seed       uint64
	workers    int
	containers string
	format     string
	logLevel   string
	logJSON    bool
	noBanner   bool
	quiet      bool
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Compare sorted-array maps with a red-black tree",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCommand(), newVersionCommand())

	return root
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a generated workload against the selected containers",
		Long: "Replay a generated workload against the selected containers.\n\n" +
			"Every flag can also be set through the environment:\n\n" + envUsage(),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd, &opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.envFile, "env-file", "e", "", "Path to a .env file (default: ./.env when present)")
	flags.IntVar(&opts.size, "size", 0, "Number of entries each container is built from")
	flags.IntVar(&opts.ops, "ops", 0, "Number of operations per phase")
	flags.Uint64Var(&opts.seed, "seed", 0, "Workload seed")
	flags.IntVar(&opts.workers, "workers", 0, "Number of containers benchmarked concurrently")
	flags.StringVar(&opts.containers, "containers", "",
		"Comma separated containers to run ("+strings.Join(bench.Containers(), ", ")+")")
	flags.StringVarP(&opts.format, "format", "f", "", "Report format: text, json, yaml or prom")
	flags.StringVar(&opts.logLevel, "log-level", "", "Minimum log level")
	flags.BoolVar(&opts.logJSON, "log-json", false, "Log as JSON")
	flags.BoolVar(&opts.noBanner, "no-banner", false, "Print the text report without a banner")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress all log output")

	return cmd
}

// resolveConfig loads the environment and applies the flags that were set
// explicitly on the command line.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (bench.Config, error) {
	cfg, err := loadConfig(opts.envFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()

	if flags.Changed("size") {
		cfg.Size = opts.size
	}

	if flags.Changed("ops") {
		cfg.Ops = opts.ops
	}

	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}

	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}

	if flags.Changed("containers") {
		containers, err := bench.ParseContainers(opts.containers)
		if err != nil {
			return cfg, err
		}

		cfg.Containers = containers
	}

	if flags.Changed("format") {
		format, err := bench.ParseFormat(opts.format)
		if err != nil {
			return cfg, err
		}

		cfg.Format = format
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}

	if flags.Changed("log-json") {
		cfg.LogJSON = opts.logJSON
	}

	if flags.Changed("no-banner") {
		cfg.NoBanner = opts.noBanner
	}

	if flags.Changed("quiet") {
		cfg.Quiet = opts.quiet
	}

	return cfg, cfg.Validate()
}

func configureLogging(cmd *cobra.Command, cfg bench.Config) error {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	if _, err := logger.ParseOutput(cfg.LogOutput); err != nil {
		return err
	}

	var out io.Writer = cmd.ErrOrStderr()
	if strings.EqualFold(cfg.LogOutput, "stdout") {
		out = cmd.OutOrStdout()
	}

	logger.ConfigureLogging(appName,
		logger.WithJSON(cfg.LogJSON),
		logger.WithLevel(level),
		logger.WithOutput(out))

	return nil
}

func runBenchmark(cmd *cobra.Command, opts *runOptions) (err error) {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	if err := configureLogging(cmd, cfg); err != nil {
		return err
	}

	handler := shutdown.Listen(cmd.Context())
	defer handler.Stop()

	ctx := logger.WithMuted(logger.WithSubsystem(handler.Context(), appName), cfg.Quiet)

	otelConfig, err := telemetry.LoadConfigFromEnv(appName)
	if err != nil {
		return err
	}

	tp, err := telemetry.Initialize(ctx, otelConfig)
	if err != nil {
		return err
	}

	defer func() {
		// The run context may already be cancelled by a signal.
		if shutdownErr := tp.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil && err == nil {
			err = fmt.Errorf("flushing traces: %w", shutdownErr)
		}
	}()

	runner, err := bench.NewRunner(cfg, bench.WithTracerProvider(tp))
	if err != nil {
		return err
	}

	handler.BeforeShutdown(func() {
		logger.Get(ctx).Warn("interrupting benchmark", "completed_operations", runner.Completed())
	})

	report, runErr := runner.Run(ctx)
	if report != nil {
		if err := report.Render(cmd.OutOrStdout(), cfg.Format, bench.RenderOptions{NoBanner: cfg.NoBanner}); err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
	}

	return runErr
}

func newVersionCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := build.Current(buildInfo)
			out := cmd.OutOrStdout()

			switch strings.ToLower(format) {
			case "", "text":
				_, err := io.WriteString(out, info.String())

				return err
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")

				return enc.Encode(info)
			case "yaml":
				enc := yaml.NewEncoder(out)
				if err := enc.Encode(info); err != nil {
					return err
				}

				return enc.Close()
			default:
				return fmt.Errorf("%w: %q", bench.ErrUnknownFormat, format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")

	return cmd
}
