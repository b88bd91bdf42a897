package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/orbitlab/minorbit/internal/config"
	"github.com/orbitlab/minorbit/internal/engine"
	"github.com/orbitlab/minorbit/internal/ephemeris"
	"github.com/orbitlab/minorbit/internal/horizons"
	"github.com/orbitlab/minorbit/internal/integrator"
	"github.com/orbitlab/minorbit/internal/metrics"
	"github.com/orbitlab/minorbit/internal/results"
	"github.com/orbitlab/minorbit/internal/solar"
	"github.com/orbitlab/minorbit/internal/tui"
	"github.com/orbitlab/minorbit/internal/validate"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

var (
	dataDir        string
	settingsFile   string
	workers        int
	integratorName string
	live           bool
	allowPartial   bool
	skipValidation bool
)

const citationText = `Example APA citation:

Orbitlab contributors, (2026). minorbit (Version ` + version + `) [Source code].
Retrieved from https://github.com/orbitlab/minorbit
`

const licenseText = `minorbit is licensed under the terms of the MIT License.
See the license text at https://github.com/orbitlab/minorbit/blob/master/LICENSE
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "minorbit [run-file]",
		Short: "minor planet orbit propagator",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPropagation,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "run storage directory (default from settings)")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (yaml)")
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run [run-file]",
		Short: "propagate the minor planets in a run file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPropagation,
	}
	addRunFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot heliocentric distances of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [run-id]",
		Short: "re-validate a stored run against reference states",
		Args:  cobra.ExactArgs(1),
		RunE:  validateRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run-id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	licenseCmd := &cobra.Command{
		Use:   "license",
		Short: "print license information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(licenseText)
		},
	}

	citationCmd := &cobra.Command{
		Use:   "citation",
		Short: "print a citation example",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(citationText)
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, validateCmd, exportJSONCmd, licenseCmd, citationCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&workers, "workers", 0, "integrator worker count (0 = one per CPU)")
	cmd.Flags().StringVar(&integratorName, "integrator", "yoshida8", "integrator scheme")
	cmd.Flags().BoolVar(&live, "live", false, "live progress view")
	cmd.Flags().BoolVar(&allowPartial, "allow-partial", false, "propagate the subset of minor planets whose initial state resolved")
	cmd.Flags().BoolVar(&skipValidation, "no-validate", false, "skip the final comparison against reference states")
}

func loadSettings() (*config.Settings, error) {
	if settingsFile == "" {
		return config.DefaultSettings(), nil
	}
	return config.LoadSettings(settingsFile)
}

func storageDir(settings *config.Settings) string {
	if dataDir != "" {
		return dataDir
	}
	return settings.DataDir
}

// resolveRunFile picks the run file name: from the argument if given,
// otherwise interactively, defaulting to minorbit.txt on a bare Enter. A name
// without an extension gets ".txt" appended.
func resolveRunFile(args []string) (string, error) {
	var filename string
	if len(args) > 0 {
		filename = args[0]
	} else {
		fmt.Print("Input filename (Enter for minorbit.txt): ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		filename = strings.TrimSpace(line)
		if filename == "" {
			filename = "minorbit.txt"
		}
	}
	if !strings.Contains(filepath.Base(filename), ".") {
		filename += ".txt"
	}
	return filename, nil
}

func parseRunFile(filename string) (*config.Run, string, error) {
	run, err := config.ParseRunFile(filename)
	if err == nil {
		return run, filename, nil
	}
	// A misspelled name without the .txt suffix gets one retry.
	if os.IsNotExist(err) && !strings.HasSuffix(filename, ".txt") {
		retry := filename + ".txt"
		if run, rerr := config.ParseRunFile(retry); rerr == nil {
			return run, retry, nil
		}
	}
	return nil, filename, err
}

func runPropagation(cmd *cobra.Command, args []string) error {
	fmt.Printf(" = = = MINORBIT v%s = = =\n\n", version)

	filename, err := resolveRunFile(args)
	if err != nil {
		return err
	}

	run, filename, err := parseRunFile(filename)
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	fmt.Printf("Reading inputs from %s...\n\n", filename)
	fmt.Println("Inputs:")
	fmt.Println("  T0", run.Start.Format(time.DateOnly))
	fmt.Println("  TF", run.End.Format(time.DateOnly))
	fmt.Println("  DT", run.Dt.Seconds(), "seconds")
	fmt.Println("  RF", run.ResultFile)
	if len(run.Designations) == 0 {
		fmt.Println("  Warning: no minor planet designations in input file.")
	} else if len(run.Designations) < 20 {
		fmt.Println("  MP", strings.Join(run.Designations, ", "))
	} else {
		fmt.Printf("  MP %d designations\n", len(run.Designations))
	}
	fmt.Println()

	clock, err := engine.NewClock(run.Start, run.End, run.Dt)
	if err != nil {
		return err
	}

	poolSize := workers
	if poolSize == 0 {
		poolSize = settings.Workers
	}
	stepper, err := integrator.New(integratorName, poolSize)
	if err != nil {
		return err
	}

	client := horizons.NewClient(
		settings.Horizons.Endpoint,
		settings.Horizons.Center,
		time.Duration(settings.Horizons.TimeoutSeconds)*time.Second,
		settings.Horizons.Concurrency,
	)

	ctx := context.Background()

	particles, err := fetchInitialStates(ctx, client, run.Designations, run.Start)
	if err != nil {
		return err
	}

	if settings.Ephemeris.Source != "vsop87" {
		return fmt.Errorf("unknown ephemeris source: %s", settings.Ephemeris.Source)
	}
	source := ephemeris.NewVSOP87(settings.Ephemeris.VSOP87Dir)

	bodies := solar.Canonical()
	eng := engine.New(clock, bodies, particles, source, stepper)

	drift := metrics.NewEnergyDrift()
	eng.AddMetric(drift)

	fmt.Printf("Propagating %d particles over %d cycles (dt %v)...\n",
		len(particles), clock.Cycles(), run.Dt)
	wall := time.Now()

	var res *engine.Result
	if live {
		res, err = runLive(ctx, eng, run, clock)
	} else {
		eng.AddObserver(engine.ObserverFunc(func(cycle, total int, epoch time.Time) {
			if cycle%200 == 0 || cycle == total {
				fmt.Printf("  cycle %d/%d  epoch %s\n", cycle, total, epoch.Format(time.DateOnly))
			}
		}))
		res, err = eng.Run(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Completed in %v, final epoch %s\n\n",
		time.Since(wall).Round(time.Millisecond), res.FinalEpoch.Format(time.DateOnly))

	if err := results.WriteFile(run.ResultFile, res.Records); err != nil {
		return err
	}
	fmt.Println("Results written to", run.ResultFile)

	var validation map[string]float64
	if !skipValidation && len(particles) > 0 {
		refs := client.FetchAll(ctx, designationsOf(particles), res.FinalEpoch)
		reports := validate.Compare(eng.Particles(), refs)
		fmt.Println("\nValidation against reference states:")
		for _, r := range reports {
			if r.Err != nil {
				fmt.Printf("  %-12s unavailable: %v\n", r.Designation, r.Err)
				continue
			}
			fmt.Printf("  %-12s %.6e AU\n", r.Designation, r.ErrorAU)
		}
		validation = validate.ToMap(reports)
	}

	store := results.NewStore(storageDir(settings))
	if err := store.Init(); err != nil {
		return err
	}
	meta := results.RunMetadata{
		Start:        run.Start,
		RequestedEnd: run.End,
		FinalEpoch:   res.FinalEpoch,
		DtSeconds:    clock.DtSeconds(),
		Cycles:       clock.Cycles(),
		Integrator:   stepper.Name(),
		ResultFile:   run.ResultFile,
		BodyNames:    bodyNames(bodies),
		Designations: designationsOf(particles),
		Metrics:      res.Metrics,
		ValidationAU: validation,
	}
	id, err := store.Save(meta, res.Records)
	if err != nil {
		return err
	}
	fmt.Println("\nrun id:", id)
	fmt.Printf("max energy drift: %.3e\n", drift.Value())
	return nil
}

// fetchInitialStates resolves every designation at the start epoch. The
// default is all-or-none: one failed designation aborts the run so a typo
// cannot silently shrink the particle set.
func fetchInitialStates(ctx context.Context, client *horizons.Client, designations []string, epoch time.Time) ([]solar.Particle, error) {
	if len(designations) == 0 {
		return nil, nil
	}

	fmt.Printf("Fetching %d initial states from Horizons...\n", len(designations))
	client.Progress = func(done, total int) {
		if done%10 == 0 || done == total {
			fmt.Printf("  %d/%d\n", done, total)
		}
	}
	defer func() { client.Progress = nil }()

	batch := client.FetchAll(ctx, designations, epoch)
	failed := horizons.Failed(batch)
	if len(failed) > 0 && !allowPartial {
		for _, r := range batch {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", r.Designation, r.Err)
			}
		}
		return nil, fmt.Errorf("%d of %d initial states unavailable: %s",
			len(failed), len(designations), strings.Join(failed, ", "))
	}

	particles := make([]solar.Particle, 0, len(batch))
	for _, r := range batch {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "  skipping %s: %v\n", r.Designation, r.Err)
			continue
		}
		particles = append(particles, solar.Particle{
			Designation: r.Designation,
			Pos:         r.State.Pos,
			Vel:         r.State.Vel,
		})
	}
	return particles, nil
}

// runLive drives the engine under a bubbletea progress view. The engine runs
// on its own goroutine and feeds the view over a channel; quitting the view
// cancels the propagation.
func runLive(ctx context.Context, eng *engine.Engine, run *config.Run, clock engine.Clock) (*engine.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan tea.Msg, 16)
	eng.AddObserver(engine.ObserverFunc(func(cycle, total int, epoch time.Time) {
		select {
		case updates <- tui.ProgressMsg{Cycle: cycle, Total: total, Epoch: epoch}:
		default:
		}
	}))

	type outcome struct {
		res *engine.Result
		err error
	}
	resCh := make(chan outcome, 1)
	go func() {
		res, err := eng.Run(ctx)
		resCh <- outcome{res, err}
		updates <- tui.DoneMsg{Err: err}
	}()

	p := tea.NewProgram(tui.NewModel(run.Designations, run.Start, clock.Cycles(), updates))
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	cancel()

	out := <-resCh
	return out.res, out.err
}

func designationsOf(particles []solar.Particle) []string {
	out := make([]string, len(particles))
	for i, p := range particles {
		out[i] = p.Designation
	}
	return out
}

func bodyNames(bodies []solar.Body) []string {
	out := make([]string, len(bodies))
	for i, b := range bodies {
		out[i] = b.Name
	}
	return out
}

func listRuns(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	store := results.NewStore(storageDir(settings))
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTART\tFINAL\tDT\tCYCLES\tINTEG\tPARTICLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fd\t%d\t%s\t%d\n",
			run.ID,
			run.Start.Format(time.DateOnly),
			run.FinalEpoch.Format(time.DateOnly),
			run.DtSeconds/86400,
			run.Cycles,
			run.Integrator,
			len(run.Designations),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	store := results.NewStore(storageDir(settings))
	meta, records, err := store.LoadRecords(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return errors.New("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(records))

	numPlots := len(meta.Designations)
	const maxPlots = 6
	if numPlots > maxPlots {
		numPlots = maxPlots
	}

	for i := 0; i < numPlots; i++ {
		data := make([]float64, len(records))
		for j, rec := range records {
			if i < len(rec.Particles) {
				data[j] = rec.Particles[i].Norm() / solar.AU
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(meta.Designations[i]+" heliocentric distance (AU)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if len(meta.ValidationAU) > 0 {
		fmt.Println("validation errors at final epoch:")
		for _, des := range meta.Designations {
			if errAU, ok := meta.ValidationAU[des]; ok {
				fmt.Printf("  %-12s %.6e AU\n", des, errAU)
			}
		}
	}
	return nil
}

func validateRun(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	store := results.NewStore(storageDir(settings))
	meta, records, err := store.LoadRecords(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 || len(meta.Designations) == 0 {
		return errors.New("run has no particles to validate")
	}

	last := records[len(records)-1]
	if len(last.Particles) != len(meta.Designations) {
		return fmt.Errorf("run %s: %d particle columns for %d designations",
			meta.ID, len(last.Particles), len(meta.Designations))
	}
	particles := make([]solar.Particle, len(meta.Designations))
	for i, des := range meta.Designations {
		particles[i] = solar.Particle{Designation: des, Pos: last.Particles[i]}
	}

	client := horizons.NewClient(
		settings.Horizons.Endpoint,
		settings.Horizons.Center,
		time.Duration(settings.Horizons.TimeoutSeconds)*time.Second,
		settings.Horizons.Concurrency,
	)
	refs := client.FetchAll(context.Background(), meta.Designations, meta.FinalEpoch)

	fmt.Printf("run: %s  final epoch: %s\n\n", meta.ID, meta.FinalEpoch.Format(time.DateOnly))
	for _, r := range validate.Compare(particles, refs) {
		if r.Err != nil {
			fmt.Printf("%-12s unavailable: %v\n", r.Designation, r.Err)
			continue
		}
		fmt.Printf("%-12s %.6e AU\n", r.Designation, r.ErrorAU)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	store := results.NewStore(storageDir(settings))
	meta, records, err := store.LoadRecords(args[0])
	if err != nil {
		return err
	}
	return results.ExportJSON(os.Stdout, meta, records)
}
