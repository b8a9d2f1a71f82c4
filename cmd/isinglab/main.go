package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/isinglab/internal/analysis"
	"github.com/san-kum/isinglab/internal/config"
	"github.com/san-kum/isinglab/internal/ensemble"
	"github.com/san-kum/isinglab/internal/metrics"
	"github.com/san-kum/isinglab/internal/sim"
	"github.com/san-kum/isinglab/internal/store"
	"github.com/san-kum/isinglab/internal/viz"
)

var (
	dataDir       string
	width         int
	height        int
	temperature   float64
	field         float64
	coupling      float64
	equilSweeps   int
	measureSweeps int
	seed          int64
	randomInit    bool
	upProb        float64
	configFile    string
	preset        string
	// Sweep parameters
	tempMin   float64
	tempMax   float64
	tempSteps int
	fields    []float64
	sizes     []int
	samples   int
	workers   int
	seedStart int64
	outPath   string
	showHist  bool
	// Histogram bins
	bins int
)

// main is the entry point for the isinglab CLI; it registers commands
// and flags and executes the root command, exiting with status 1 on
// error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "isinglab",
		Short: "2D Ising model Monte Carlo lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".isinglab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one simulation",
		RunE:  runSimulation,
	}
	addParamFlags(runCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a temperature sweep and collect the magnetization distribution",
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&tempMin, "temp-min", 0.5, "lowest sweep temperature")
	sweepCmd.Flags().Float64Var(&tempMax, "temp-max", 4.0, "highest sweep temperature")
	sweepCmd.Flags().IntVar(&tempSteps, "temp-steps", 15, "number of sweep temperatures")
	sweepCmd.Flags().Float64SliceVar(&fields, "fields", nil, "external field values")
	sweepCmd.Flags().IntSliceVar(&sizes, "sizes", nil, "square lattice sizes")
	sweepCmd.Flags().IntVar(&samples, "samples", 50, "runs per parameter point")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all CPUs)")
	sweepCmd.Flags().Int64Var(&seedStart, "seed-start", time.Now().UnixNano(), "base seed for run derivation")
	sweepCmd.Flags().StringVar(&outPath, "out", "", "write distribution JSON to this path")
	sweepCmd.Flags().BoolVar(&showHist, "hist", false, "plot a histogram of final magnetizations")
	sweepCmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot magnetization and energy series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	histCmd := &cobra.Command{
		Use:   "hist [run_id]",
		Short: "histogram of a run's magnetization samples",
		Args:  cobra.ExactArgs(1),
		RunE:  histRun,
	}
	histCmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "autocorrelation analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-18s %dx%d T=%.3f\n", name, cfg.Width, cfg.Height, cfg.Temperature)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a simulation evolve in the terminal",
		RunE:  runLive,
	}
	addParamFlags(liveCmd)

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, plotCmd, histCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "lattice width")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "lattice height")
	cmd.Flags().Float64Var(&temperature, "temp", config.DefaultTemperature, "reduced temperature")
	cmd.Flags().Float64Var(&field, "field", 0.0, "external field")
	cmd.Flags().Float64Var(&coupling, "coupling", config.DefaultCoupling, "coupling constant J")
	cmd.Flags().IntVar(&equilSweeps, "equil", config.DefaultEquilSweeps, "equilibration sweeps")
	cmd.Flags().IntVar(&measureSweeps, "measure", config.DefaultMeasureSweeps, "measurement sweeps")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().BoolVar(&randomInit, "random-init", true, "random initial spins (false = all up)")
	cmd.Flags().Float64Var(&upProb, "up-prob", config.DefaultUpProbability, "up probability for random init")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves preset, config file, and CLI flags in increasing
// precedence, the same layering the flags documentation promises.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			names := config.ListPresets()
			sort.Strings(names)
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, names)
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("width") {
		cfg.Width = width
	}
	if cmd.Flags().Changed("height") {
		cfg.Height = height
	}
	if cmd.Flags().Changed("temp") {
		cfg.Temperature = temperature
	}
	if cmd.Flags().Changed("field") {
		cfg.Field = field
	}
	if cmd.Flags().Changed("coupling") {
		cfg.Coupling = coupling
	}
	if cmd.Flags().Changed("equil") {
		cfg.EquilSweeps = equilSweeps
	}
	if cmd.Flags().Changed("measure") {
		cfg.MeasureSweeps = measureSweeps
	}
	if cmd.Flags().Changed("random-init") {
		cfg.RandomInit = randomInit
	}
	if cmd.Flags().Changed("up-prob") {
		cfg.UpProbability = upProb
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	params := cfg.Params()

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	engine := sim.New(params)
	for _, m := range metrics.Defaults(params) {
		engine.AddMetric(m)
	}

	fmt.Printf("running %dx%d lattice at T=%.3f...\n", params.Width, params.Height, params.Temperature)
	start := time.Now()

	result, err := engine.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(result)
	if err != nil {
		return err
	}

	totalSweeps := params.EquilSweeps + params.MeasureSweeps
	fmt.Printf("completed in %v (%d sweeps)\n", elapsed, totalSweeps)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("final m: %+.4f  final e: %+.4f\n", result.FinalMagnetization, result.FinalEnergy)
	fmt.Println("\nmetrics:")

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("temp-min") {
		cfg.Sweep.TempMin = tempMin
	}
	if cmd.Flags().Changed("temp-max") {
		cfg.Sweep.TempMax = tempMax
	}
	if cmd.Flags().Changed("temp-steps") {
		cfg.Sweep.TempSteps = tempSteps
	}
	grid := cfg.SweepGrid()
	if cmd.Flags().Changed("fields") {
		grid.Fields = fields
	}
	if cmd.Flags().Changed("sizes") {
		for _, n := range sizes {
			grid.Sizes = append(grid.Sizes, ensemble.Size{Width: n, Height: n})
		}
	}

	reps := samples
	if cfg.Sweep.Samples > 0 && !cmd.Flags().Changed("samples") {
		reps = cfg.Sweep.Samples
	}
	nWorkers := workers
	if cfg.Sweep.Workers > 0 && !cmd.Flags().Changed("workers") {
		nWorkers = cfg.Sweep.Workers
	}

	sampler := &ensemble.Sampler{
		Base:      cfg.Params(),
		Samples:   reps,
		Workers:   nWorkers,
		SeedStart: seedStart,
		Progress: func(done, total int) {
			fmt.Printf("\rcompleted %d/%d   ", done, total)
		},
	}

	points := grid.Points(sampler.Base)
	fmt.Printf("sweeping %d parameter points, %d runs each...\n", len(points), reps)
	start := time.Now()

	dist, err := sampler.Run(context.Background(), grid)
	if err != nil {
		fmt.Println()
		return err
	}
	fmt.Printf("\rdone in %v          \n\n", time.Since(start))

	groups := dist.GroupByPoint()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tTEMP\tFIELD\tRUNS\tMEAN |M|\tSTD |M|")
	for _, pt := range points {
		outcomes := groups[pt]
		mean, std := meanStd(outcomes)
		fmt.Fprintf(w, "%dx%d\t%.3f\t%.3f\t%d\t%.4f\t%.4f\n",
			pt.Width, pt.Height, pt.Temperature, pt.Field, len(outcomes), mean, std)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if showHist {
		h := analysis.NewHistogram(dist.Magnetizations(), bins)
		fmt.Println()
		plotHistogram(h, "final magnetization per run")
	}

	if outPath != "" {
		if err := store.ExportDistribution(outPath, dist); err != nil {
			return err
		}
		fmt.Printf("\ndistribution written to %s\n", outPath)
	}

	return nil
}

func meanStd(outcomes []ensemble.Outcome) (float64, float64) {
	if len(outcomes) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, o := range outcomes {
		mean += o.MeanAbsMag
	}
	mean /= float64(len(outcomes))

	variance := 0.0
	for _, o := range outcomes {
		d := o.MeanAbsMag - mean
		variance += d * d
	}
	variance /= float64(len(outcomes))
	return mean, math.Sqrt(variance)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tTEMP\tFIELD\tSWEEPS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%.3f\t%.3f\t%d+%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Temperature,
			run.Field,
			run.EquilSweeps, run.MeasureSweeps,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("lattice: %dx%d  T=%.3f  h=%.3f\n", meta.Width, meta.Height, meta.Temperature, meta.Field)
	fmt.Printf("samples: %d\n\n", len(samples))

	mags := make([]float64, len(samples))
	energies := make([]float64, len(samples))
	for i, s := range samples {
		mags[i] = s.Magnetization
		energies[i] = s.Energy
	}

	fmt.Println(asciigraph.Plot(mags,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("magnetization per site"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(energies,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("energy per site"),
	))

	return nil
}

func histRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to bin")
	}

	mags := make([]float64, len(samples))
	for i, s := range samples {
		mags[i] = s.Magnetization
	}

	fmt.Printf("run: %s  (%d samples)\n\n", meta.ID, len(mags))
	h := analysis.NewHistogram(mags, bins)
	plotHistogram(h, "magnetization per site")

	return nil
}

func plotHistogram(h analysis.Histogram, caption string) {
	fractions := h.Normalized()
	if len(fractions) == 0 {
		fmt.Println("nothing to plot")
		return
	}

	fmt.Println(asciigraph.Plot(fractions,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption(fmt.Sprintf("%s  [%.3f .. %.3f]", caption, h.Min, h.Max)),
	))
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("not enough samples to analyze")
	}

	mags := make([]float64, len(samples))
	for i, s := range samples {
		mags[i] = s.Magnetization
	}

	fmt.Printf("autocorrelation analysis: %s\n", meta.ID)
	fmt.Printf("lattice: %dx%d  T=%.3f\n\n", meta.Width, meta.Height, meta.Temperature)

	maxLag := len(mags) / 4
	if maxLag > 100 {
		maxLag = 100
	}
	rho := analysis.Autocorrelation(mags, maxLag)

	fmt.Println(asciigraph.Plot(rho,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("magnetization autocorrelation"),
	))
	fmt.Println()

	tau := analysis.IntegratedAutocorrTime(mags)
	fmt.Printf("integrated autocorrelation time: %.2f sweeps\n", tau)
	fmt.Printf("effective independent samples: ~%.0f\n", float64(len(mags))/(2*tau))

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"sweep", "magnetization", "energy"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Sweep),
			strconv.FormatFloat(s.Magnetization, 'f', 6, 64),
			strconv.FormatFloat(s.Energy, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	return store.ExportJSONStdout(meta, samples)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg.Params())
}
