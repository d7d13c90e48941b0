package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/babylon-sim/babylon/sim"
	"github.com/babylon-sim/babylon/sim/dialectics"
	"github.com/babylon-sim/babylon/sim/entity"
	"github.com/babylon-sim/babylon/sim/lifecycle"
	"github.com/babylon-sim/babylon/sim/perf"
	"github.com/babylon-sim/babylon/sim/scenario"
	"github.com/babylon-sim/babylon/sim/store"
	"github.com/babylon-sim/babylon/sim/trace"
	"github.com/babylon-sim/babylon/sim/world"
)

var (
	// CLI flags for the simulation run
	seed              int64  // Seed for all subsystem RNGs
	simulationHorizon int64  // Total simulation time (in ticks)
	tickInterval      int64  // Spacing between ticks
	logLevel          string // Log verbosity level
	scenarioPath      string // Scenario YAML path; empty uses the baseline
	traceLevel        string // Decision trace level
	collectPerf       bool   // Attach a perf collector

	// CLI flags for society initial conditions; when set they override the
	// scenario's initial values, same as flags win over env
	initialGini         float64
	initialUnemployment float64
	initialGrowth       float64
	initialStability    float64
	initialRepression   float64

	// CLI flags for output
	storeDir   string // Persist final state into a badger store here
	metricsDir string // Write perf analysis JSON here
	seriesDir  string // Write per-tick indicator series here
	graphPath  string // Write the contradiction network in DOT form here
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "babylon",
	Short: "Discrete-event simulator of societal contradictions and power dynamics",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation scenario",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		appCfg, err := LoadEnv()
		if err != nil {
			logrus.Fatalf("Invalid environment: %v", err)
		}
		if appCfg.Debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
		if storeDir == "" {
			storeDir = appCfg.DatabaseURL
		}

		engCfg := sim.EngineConfig{Seed: seed, Horizon: simulationHorizon, TickInterval: tickInterval}
		if err := engCfg.Validate(); err != nil {
			logrus.Fatalf("Invalid engine config: %v", err)
		}
		obsCfg := sim.ObservabilityConfig{TraceLevel: traceLevel, Perf: collectPerf}
		if err := obsCfg.Validate(); err != nil {
			logrus.Fatalf("Invalid observability config: %v", err)
		}

		spec := scenario.Default()
		if scenarioPath != "" {
			spec, err = scenario.Load(scenarioPath)
			if err != nil {
				logrus.Fatalf("Could not load scenario: %v", err)
			}
		}

		logrus.Infof("Starting scenario %q: horizon=%d ticks, seed=%d", spec.Name, simulationHorizon, seed)
		startTime := time.Now()

		var collector *perf.Collector
		reg := entity.NewRegistry().WithWorkingSet(lifecycle.NewManager())
		if collectPerf {
			collector = perf.NewCollector()
			reg = reg.WithCollector(collector)
		}

		w, defs, seeds, err := spec.Build(reg)
		if err != nil {
			logrus.Fatalf("Could not build scenario: %v", err)
		}
		applyInitialConditions(w, initialConditionOverrides(cmd))

		tr := trace.NewSimulationTrace(trace.Config{Level: trace.Level(traceLevel)})
		analysis := dialectics.NewAnalysis().WithTrace(tr)
		if collector != nil {
			analysis = analysis.WithCollector(collector)
		}
		for _, c := range seeds {
			if err := analysis.Add(c); err != nil {
				logrus.Fatalf("Bad seeded contradiction: %v", err)
			}
		}

		// Initialize and run the simulator
		s := sim.NewSimulator(simulationHorizon, engCfg.TickInterval, seed, w, defs, analysis).WithTrace(tr)
		if collector != nil {
			s = s.WithCollector(collector)
		}
		s.Run()
		s.Metrics.Print()

		if storeDir != "" {
			persistRun(s, storeDir, collector)
		}
		if metricsDir != "" && collector != nil {
			path, err := collector.Save(metricsDir)
			if err != nil {
				logrus.Errorf("Could not save perf analysis: %v", err)
			} else {
				logrus.Infof("Perf analysis written to %s", path)
			}
		}
		if seriesDir != "" {
			s.Metrics.SaveSeries(s.Metrics.GiniSeries, filepath.Join(seriesDir, "gini_series.txt"))
			s.Metrics.SaveSeries(s.Metrics.StabilitySeries, filepath.Join(seriesDir, "stability_series.txt"))
		}
		if graphPath != "" {
			writeGraph(analysis, graphPath)
		}

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// initialConditionOverrides collects the society flags the user explicitly
// set, keyed by world indicator name.
func initialConditionOverrides(cmd *cobra.Command) map[string]float64 {
	overrides := make(map[string]float64)
	for flag, pair := range map[string]struct {
		indicator string
		value     float64
	}{
		"gini":         {world.IndicatorGini, initialGini},
		"unemployment": {world.IndicatorUnemployment, initialUnemployment},
		"growth":       {world.IndicatorGrowth, initialGrowth},
		"stability":    {world.IndicatorStability, initialStability},
		"repression":   {world.IndicatorRepression, initialRepression},
	} {
		if cmd.Flags().Changed(flag) {
			overrides[pair.indicator] = pair.value
		}
	}
	return overrides
}

// applyInitialConditions writes indicator overrides into the built world.
// Values pass through the world's clamping.
func applyInitialConditions(w *world.World, overrides map[string]float64) {
	for indicator, v := range overrides {
		if !w.SetIndicator(indicator, v) {
			logrus.Warnf("Unknown indicator %q in initial conditions", indicator)
		}
	}
}

// persistRun checkpoints the final world state into a badger store.
func persistRun(s *sim.Simulator, dir string, collector *perf.Collector) {
	st, err := store.Open(dir)
	if err != nil {
		logrus.Errorf("Could not open store: %v", err)
		return
	}
	defer func() {
		if err := st.Close(); err != nil {
			logrus.Errorf("Could not close store: %v", err)
		}
	}()
	if collector != nil {
		st = st.WithCollector(collector)
	}

	for _, e := range s.World.Registry.All() {
		if err := st.PutEntity(e); err != nil {
			logrus.Errorf("Could not persist entity %s: %v", e.ID, err)
		}
	}
	contradictions := s.Analysis.Contradictions()
	for _, c := range contradictions {
		if err := st.PutContradiction(c); err != nil {
			logrus.Errorf("Could not persist contradiction %s: %v", c.ID, err)
		}
	}
	snap := &store.Snapshot{
		Clock:          s.Metrics.SimEndedTime,
		Gini:           s.World.Economy.Gini,
		Unemployment:   s.World.Economy.Unemployment,
		Growth:         s.World.Economy.Growth,
		Stability:      s.World.Politics.Stability,
		Repression:     s.World.Politics.Repression,
		Entities:       s.World.Registry.All(),
		Contradictions: contradictions,
	}
	if err := st.PutSnapshot(snap); err != nil {
		logrus.Errorf("Could not persist snapshot: %v", err)
		return
	}
	logrus.Infof("Final state persisted to %s", dir)
}

// writeGraph exports the contradiction network for offline rendering.
func writeGraph(a *dialectics.Analysis, path string) {
	buf, err := a.Network().DOT()
	if err != nil {
		logrus.Errorf("Could not marshal network: %v", err)
		return
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		logrus.Errorf("Could not write %s: %v", path, err)
		return
	}
	logrus.Infof("Contradiction network written to %s", path)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for all subsystem RNGs")
	runCmd.Flags().Int64Var(&simulationHorizon, "horizon", 365, "Total simulation horizon (in ticks)")
	runCmd.Flags().Int64Var(&tickInterval, "tick-interval", 1, "Spacing between ticks")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML path (default: built-in baseline)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().BoolVar(&collectPerf, "perf", false, "Collect performance metrics during the run")

	runCmd.Flags().Float64Var(&initialGini, "gini", 0, "Initial gini coefficient (overrides the scenario)")
	runCmd.Flags().Float64Var(&initialUnemployment, "unemployment", 0, "Initial unemployment rate (overrides the scenario)")
	runCmd.Flags().Float64Var(&initialGrowth, "growth", 0, "Initial growth rate (overrides the scenario)")
	runCmd.Flags().Float64Var(&initialStability, "stability", 0, "Initial stability index (overrides the scenario)")
	runCmd.Flags().Float64Var(&initialRepression, "repression", 0, "Initial repression level (overrides the scenario)")

	runCmd.Flags().StringVar(&storeDir, "store-dir", "", "Persist final state into a badger store at this directory")
	runCmd.Flags().StringVar(&metricsDir, "metrics-dir", "", "Write perf analysis JSON into this directory")
	runCmd.Flags().StringVar(&seriesDir, "series-dir", "", "Write per-tick indicator series into this directory")
	runCmd.Flags().StringVar(&graphPath, "graph", "", "Write the contradiction network in DOT form to this file")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
