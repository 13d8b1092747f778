package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/dumbbellgas/internal/config"
	"github.com/san-kum/dumbbellgas/internal/export"
	"github.com/san-kum/dumbbellgas/internal/gas"
	"github.com/san-kum/dumbbellgas/internal/metrics"
	"github.com/san-kum/dumbbellgas/internal/obslog"
	"github.com/san-kum/dumbbellgas/internal/store"
	"github.com/san-kum/dumbbellgas/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	variant    string
	steps      int
	writeDt    float64
	verbose    bool
	seed       int64
	ensembleN  int
	svgPath    string
)

// main registers the dumbbellgas CLI's subcommands and executes the
// root command.
func main() {
	v := viper.New()
	config.BindEnvOverrides(v)

	rootCmd := &cobra.Command{
		Use:   "dumbbellgas",
		Short: "event-driven kinetic simulator of a dumbbell-shaped gas domain",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dumbbellgas", "output directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug-level logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario to completion and write its outputs",
		RunE:  runScenario(v),
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario YAML file")
	runCmd.Flags().StringVar(&preset, "preset", "symmetric", "preset scenario family")
	runCmd.Flags().StringVar(&variant, "variant", "balanced", "preset scenario variant")
	runCmd.Flags().IntVar(&steps, "steps", 100000, "number of events to process")
	runCmd.Flags().Float64Var(&writeDt, "write-dt", 0, "snapshot interval (0 disables results.dat)")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write a still frame of the final chamber state to this SVG path")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scenario with a live terminal visualization",
		RunE:  runLive(v),
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario YAML file")
	liveCmd.Flags().StringVar(&preset, "preset", "symmetric", "preset scenario family")
	liveCmd.Flags().StringVar(&variant, "variant", "balanced", "preset scenario variant")
	liveCmd.Flags().Float64Var(&writeDt, "write-dt", 0.01, "snapshot interval passed to each update (the live view writes no snapshots; it advances one event per frame)")
	liveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run N independent simulations concurrently and report per-member mass spread",
		RunE:  runEnsemble(v),
	}
	ensembleCmd.Flags().StringVar(&configFile, "config", "", "scenario YAML file")
	ensembleCmd.Flags().StringVar(&preset, "preset", "symmetric", "preset scenario family")
	ensembleCmd.Flags().StringVar(&variant, "variant", "balanced", "preset scenario variant")
	ensembleCmd.Flags().IntVar(&steps, "steps", 20000, "number of events each member processes")
	ensembleCmd.Flags().IntVar(&ensembleN, "n", 8, "ensemble size")
	ensembleCmd.Flags().Int64Var(&seed, "seed", 1, "base seed; member i uses seed+i")

	listCmd := &cobra.Command{
		Use:   "list [family]",
		Short: "list preset scenario families or variants within one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "print a run's .out summary",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSummary,
	}

	rootCmd.AddCommand(runCmd, liveCmd, ensembleCmd, listCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadScenario resolves --config, falling back to --preset/--variant,
// then applies any DUMBBELLGAS_ environment overrides.
func loadScenario(v *viper.Viper) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		p := config.GetPreset(preset, variant)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s/%s (use 'list' to see available presets)", preset, variant)
		}
		// Copy so overrides below never mutate the shared preset table.
		c := *p
		cfg = &c
	}
	config.ApplyEnvOverrides(v, cfg)
	if seed != 0 {
		cfg.Seed = seed
	}
	return cfg, nil
}

func runScenario(v *viper.Viper) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadScenario(v)
		if err != nil {
			return err
		}

		log := obslog.New(obslog.Options{Verbose: verbose})
		sim, err := gas.Setup(cfg.ToGasConfig(), log)
		if err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		if err := sim.Start(cfg.LeftRatio); err != nil {
			return fmt.Errorf("start: %w", err)
		}

		run, err := store.NewRun(filepath.Join(dataDir, "runs"), "")
		if err != nil {
			return fmt.Errorf("opening run output: %w", err)
		}
		defer run.Close()

		var writer gas.SnapshotWriter
		if writeDt > 0 {
			run.SetResultsHeader(store.ResultsHeaderFromDomain(sim.Domain()))
			writer = run
		}

		var chiSum float64
		var chiRows int
		for i := 0; i < steps; i++ {
			more, err := sim.Update(writeDt, writer)
			if err != nil {
				return fmt.Errorf("update: %w", err)
			}
			if !more {
				break
			}
			chiSum += sim.MassSpread()
			chiRows++
			if err := run.WriteChiRow(store.ChiRow{
				NumCollisions: sim.NumCollisions(),
				Time:          sim.Time(),
				InLeft:        sim.InLeft(),
				MassSpread:    sim.MassSpread(),
			}); err != nil {
				return fmt.Errorf("writing chi row: %w", err)
			}
		}

		summary, err := sim.Finish(run)
		if err != nil {
			return fmt.Errorf("finish: %w", err)
		}

		avgChi := summary.MassSpread
		if chiRows > 0 {
			avgChi = chiSum / float64(chiRows)
		}
		if err := run.WriteSummary(store.SummaryRow{
			SimID:      run.ID,
			AvgChi:     avgChi,
			Current0:   summary.Counters[0],
			Current1:   summary.Counters[1],
			Current2:   summary.Counters[2],
			Current3:   summary.Counters[3],
			ResetCount: summary.ResetCount,
		}); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}

		if svgPath != "" {
			walls, particles := viz.RenderLayers(sim, 120, 60)
			if err := os.WriteFile(svgPath, []byte(export.ChamberSVG(walls, particles, 4)), 0o644); err != nil {
				return fmt.Errorf("writing svg: %w", err)
			}
		}

		fmt.Printf("run id: %s\n", run.ID)
		fmt.Printf("events processed: %d\n", sim.NumCollisions())
		fmt.Printf("final mass spread: %.6f\n", sim.MassSpread())
		fmt.Printf("resets: %d\n", sim.ResetCount())
		fmt.Printf("output: %s\n", run.Dir())
		return nil
	}
}

func runLive(v *viper.Viper) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadScenario(v)
		if err != nil {
			return err
		}

		log := obslog.New(obslog.Options{Verbose: verbose})
		sim, err := gas.Setup(cfg.ToGasConfig(), log)
		if err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		if err := sim.Start(cfg.LeftRatio); err != nil {
			return fmt.Errorf("start: %w", err)
		}

		m := viz.NewModel(sim, writeDt)
		p := tea.NewProgram(m)
		if _, err := p.Run(); err != nil {
			return err
		}
		return nil
	}
}

func runEnsemble(v *viper.Viper) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadScenario(v)
		if err != nil {
			return err
		}

		log := obslog.New(obslog.Options{Verbose: verbose})
		results := gas.RunEnsemble(cfg.ToGasConfig(), seed, ensembleN, steps, cfg.LeftRatio, log)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SEED\tTAIL_MASS_SPREAD\tRESETS\tERROR")
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(w, "%d\t-\t-\t%v\n", r.Seed, r.Err)
				continue
			}
			tail := metrics.TailMean(r.MassSpread, r.TailWindow)
			fmt.Fprintf(w, "%d\t%.6f\t%d\t-\n", r.Seed, tail, r.ResetCount)
		}
		return w.Flush()
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("preset families:")
		for family := range config.Presets {
			fmt.Printf("  %s\n", family)
		}
		return nil
	}
	family := args[0]
	variants := config.ListPresets(family)
	if len(variants) == 0 {
		return fmt.Errorf("unknown preset family: %s", family)
	}
	fmt.Printf("variants for %s:\n", family)
	for _, v := range variants {
		fmt.Printf("  %s\n", v)
	}
	return nil
}

func exportSummary(cmd *cobra.Command, args []string) error {
	runID := args[0]
	path := filepath.Join(dataDir, "runs", runID+".out")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading summary: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
