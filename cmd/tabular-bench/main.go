package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/columnlab/tabular/internal/scenarios"
	"github.com/columnlab/tabular/pkg/bench"
	"github.com/columnlab/tabular/pkg/config"
	"github.com/columnlab/tabular/pkg/datagen"
	"github.com/columnlab/tabular/pkg/formats"
	"github.com/columnlab/tabular/pkg/logger"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "tabular-bench",
		Short: "Benchmark harness for the tabular columnar table library",
		Long: `tabular-bench runs the demonstration scenarios for the tabular library:
column access paths, append variants, column encodings, and codec compression.
Results are printed as an aligned table; metrics are available in Prometheus
text format.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tabular-bench v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var configFile string
	var rows, iterations int
	var seed int64
	var compressionAlg, logLevel string
	var dumpMetrics, showResources bool

	runCmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run benchmark scenarios",
		Long: `Run the named scenarios, or all of them when none are given.

Scenarios:
  access    positional vs by-name column lookup, interface vs typed cell access
  append    single-row vs bulk in-place append vs non-destructive concat
  encode    aggregation over raw, nullable, and categorical columns
  compress  column and table codec round-trips

Example:
  tabular-bench run access append --rows 1000000 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultBenchConfig()
			if configFile != "" {
				if err := config.Load(configFile, cfg); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("rows") {
				cfg.Rows = rows
			}
			if cmd.Flags().Changed("iterations") {
				cfg.Iterations = iterations
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if cmd.Flags().Changed("compression") {
				cfg.Compression = compressionAlg
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if len(args) > 0 {
				cfg.Scenarios = args
			}
			return runScenarios(cfg, dumpMetrics, showResources)
		},
	}
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	runCmd.Flags().IntVar(&rows, "rows", 0, "row count for the scenarios")
	runCmd.Flags().IntVar(&iterations, "iterations", 0, "iterations per measured step")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "data generator seed")
	runCmd.Flags().StringVar(&compressionAlg, "compression", "", "codec algorithm (none, gzip, snappy, lz4, zstd, s2, deflate)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "dump Prometheus metrics after the run")
	runCmd.Flags().BoolVar(&showResources, "resources", false, "report process CPU and memory usage after the run")
	root.AddCommand(runCmd)

	var genRows, genDistinct, genStride int
	var genSeed int64
	var genFormat string

	genCmd := &cobra.Command{
		Use:   "generate [output]",
		Short: "Generate a deterministic demo table",
		Long: `Generate a demo table covering every column kind and write it to the
given file (or stdout) as JSON or CSV. The same seed always produces the
same table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := datagen.New(genSeed)
			table, err := gen.MixedTable(genRows, genDistinct, genStride)
			if err != nil {
				return err
			}

			out := os.Stdout
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			switch genFormat {
			case "json":
				return formats.WriteJSON(out, table)
			case "csv":
				return formats.WriteCSV(out, table)
			default:
				return fmt.Errorf("unknown format %q (want json or csv)", genFormat)
			}
		},
	}
	genCmd.Flags().IntVar(&genRows, "rows", 10_000, "row count")
	genCmd.Flags().IntVar(&genDistinct, "distinct", 10, "distinct categorical values")
	genCmd.Flags().IntVar(&genStride, "null-stride", 3, "every null-stride-th nullable cell is absent")
	genCmd.Flags().Int64Var(&genSeed, "seed", 42, "data generator seed")
	genCmd.Flags().StringVar(&genFormat, "format", "json", "output format (json or csv)")
	root.AddCommand(genCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runScenarios(cfg *config.BenchConfig, dumpMetrics, showResources bool) error {
	if err := logger.Init(logger.Config{
		Level:    cfg.Logging.Level,
		Encoding: cfg.Logging.Encoding,
	}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	var monitor *bench.ResourceMonitor
	if showResources {
		var err error
		if monitor, err = bench.NewResourceMonitor(); err != nil {
			return err
		}
	}

	runner, err := scenarios.NewRunner(cfg, log)
	if err != nil {
		return err
	}
	if err := runner.Run(cfg.Scenarios); err != nil {
		return err
	}

	if err := runner.Report(os.Stdout); err != nil {
		return err
	}
	if dumpMetrics {
		fmt.Println()
		if err := runner.DumpMetrics(os.Stdout); err != nil {
			return err
		}
	}
	if monitor != nil {
		usage, err := monitor.Usage()
		if err != nil {
			return err
		}
		log.Info("resource usage",
			zap.Float64("cpu_percent", usage.CPUPercent),
			zap.Uint64("rss_bytes", usage.MemoryRSS),
			zap.Uint64("heap_alloc_bytes", usage.HeapAllocBytes),
			zap.Int("goroutines", usage.GoroutineCount))
	}
	return nil
}
