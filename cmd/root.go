package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loadsim/loadsim/sim"
	"github.com/loadsim/loadsim/sim/trace"
	"github.com/loadsim/loadsim/sim/workload"
)

var (
	// CLI flags for the simulation core
	processorCount    int     // Size of the processor pool (0 = calibrate from host CPUs)
	overloadThreshold float64 // Load level that triggers rebalancing
	thermalThreshold  float64 // Temperature that triggers rebalancing
	saturationCap     float64 // Max load a processor holds before refusing work
	maxTicks          int64   // Tick budget before remaining tasks fail
	seed              int64   // Seed for deterministic task generation
	policyName        string  // Assignment policy name
	logLevel          string  // Log verbosity level

	// CLI flags for workload and output
	workloadFile string // YAML workload spec path ("" = built-in default workload)
	taskCount    int    // Task count for the built-in workload
	traceLevel   string // Decision trace level (none, decisions)
	showProgress bool   // Render a tick progress bar
	cfgFile      string // Optional config file with flag defaults
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "loadsim",
	Short: "Discrete-tick simulator for dynamic load balancing across heterogeneous processors",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the load balancing simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if cfgFile != "" {
			if err := applyConfigFile(cmd); err != nil {
				return err
			}
		}

		cfg := sim.DefaultSimConfig()
		cfg.OverloadThreshold = overloadThreshold
		cfg.ThermalThreshold = thermalThreshold
		cfg.SaturationCap = saturationCap
		cfg.MaxTicks = maxTicks
		cfg.Seed = seed
		cfg.Policy = policyName
		cfg.ProcessorCount = processorCount
		if cfg.ProcessorCount == 0 {
			host := &sim.HostMetricsSource{FallbackCount: 4, FallbackCapacity: cfg.SaturationCap}
			cfg.ProcessorCount, _ = host.ProcessorCount()
			logrus.Infof("Calibrated processor pool from host: %d units", cfg.ProcessorCount)
		}

		spec, err := resolveWorkload()
		if err != nil {
			return err
		}
		spec.Seed = seed
		tasks, err := workload.GenerateTasks(spec)
		if err != nil {
			return err
		}
		logrus.Infof("Generated %d tasks from %d workload classes", len(tasks), len(spec.Classes))

		collector := sim.NewCollectorSink()
		var sink sim.ReportSink = &sim.LoggingSink{Next: collector}

		s, err := sim.NewSimulator(cfg, sim.NewSliceSource(tasks), sink)
		if err != nil {
			return err
		}
		if trace.TraceLevel(traceLevel) == trace.TraceLevelDecisions {
			s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
		}

		if showProgress {
			bar := progressbar.NewOptions64(maxTicks,
				progressbar.OptionSetDescription("Simulating"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
			)
			s.OnTick = func(int64) { _ = bar.Add(1) }
			defer func() { _ = bar.Finish() }()
		}

		// Ctrl-C transitions the run straight to Completed with partial results.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report := s.Run(ctx)
		RenderReport(report, collector)
		if s.Trace != nil {
			RenderTraceSummary(trace.Summarize(s.Trace))
		}
		return nil
	},
}

// resolveWorkload loads the YAML workload spec, or falls back to a built-in
// mix modeled on the original generator: equal parts compute, memory, and
// io tasks arriving as a Poisson stream.
func resolveWorkload() (*workload.WorkloadSpec, error) {
	if workloadFile != "" {
		return workload.LoadWorkloadSpec(workloadFile)
	}
	perClass := max(taskCount/3, 1)
	classes := make([]workload.ClassSpec, 0, 3)
	for i, kind := range sim.TaskKinds {
		classes = append(classes, workload.ClassSpec{
			ID:       string(kind),
			Kind:     string(kind),
			Count:    perClass,
			Priority: i%3 + 1,
			Cost: workload.DistSpec{
				Type:   "uniform",
				Params: map[string]float64{"min": 5, "max": 40},
			},
			Arrival: workload.ArrivalSpec{Process: "poisson", Rate: 0.2},
		})
	}
	return &workload.WorkloadSpec{Version: "1", Classes: classes}, nil
}

// applyConfigFile loads defaults from a viper config file. Values from the
// file only apply to flags the user did not set explicitly.
func applyConfigFile(cmd *cobra.Command) error {
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	if !cmd.Flags().Changed("processors") && viper.IsSet("processors") {
		processorCount = viper.GetInt("processors")
	}
	if !cmd.Flags().Changed("overload-threshold") && viper.IsSet("overload_threshold") {
		overloadThreshold = viper.GetFloat64("overload_threshold")
	}
	if !cmd.Flags().Changed("thermal-threshold") && viper.IsSet("thermal_threshold") {
		thermalThreshold = viper.GetFloat64("thermal_threshold")
	}
	if !cmd.Flags().Changed("saturation-cap") && viper.IsSet("saturation_cap") {
		saturationCap = viper.GetFloat64("saturation_cap")
	}
	if !cmd.Flags().Changed("max-ticks") && viper.IsSet("max_ticks") {
		maxTicks = viper.GetInt64("max_ticks")
	}
	if !cmd.Flags().Changed("seed") && viper.IsSet("seed") {
		seed = viper.GetInt64("seed")
	}
	if !cmd.Flags().Changed("policy") && viper.IsSet("policy") {
		policyName = viper.GetString("policy")
	}
	logrus.Infof("Loaded configuration from %s", viper.ConfigFileUsed())
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().IntVar(&processorCount, "processors", 4, "Processor pool size (0 = one per host CPU)")
	runCmd.Flags().Float64Var(&overloadThreshold, "overload-threshold", 70.0, "Load level that triggers rebalancing")
	runCmd.Flags().Float64Var(&thermalThreshold, "thermal-threshold", 80.0, "Temperature that triggers rebalancing")
	runCmd.Flags().Float64Var(&saturationCap, "saturation-cap", 100.0, "Max load a processor holds before refusing work")
	runCmd.Flags().Int64Var(&maxTicks, "max-ticks", 10000, "Tick budget; pending tasks fail when exceeded")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for deterministic task generation")
	runCmd.Flags().StringVar(&policyName, "policy", sim.PolicyBestAffinity, "Assignment policy (best-affinity, least-loaded, round-robin)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&workloadFile, "workload", "", "YAML workload spec path (empty = built-in mixed workload)")
	runCmd.Flags().IntVar(&taskCount, "tasks", 99, "Task count for the built-in workload")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a tick progress bar")
	runCmd.Flags().StringVar(&cfgFile, "config", "", "Config file with flag defaults (yaml/toml/json)")

	rootCmd.AddCommand(runCmd)
}
