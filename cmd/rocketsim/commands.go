package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/rocketsim/internal/analysis"
	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/experiment"
	"github.com/san-kum/rocketsim/internal/export"
	"github.com/san-kum/rocketsim/internal/optim"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/storage"
	"github.com/san-kum/rocketsim/internal/viz"
	"github.com/spf13/cobra"
)

// resolveConfig layers defaults, then the preset, then the config file,
// then any flag set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	overrides := []struct {
		flag string
		dst  *float64
		src  float64
	}{
		{"dt", &cfg.Dt, dt},
		{"max-duration", &cfg.MaxDuration, maxDuration},
		{"attitude", &cfg.InitialAttitudeDeg, attitude},
		{"propellant", &cfg.Engine.PropellantMass, propellant},
		{"burn", &cfg.Engine.BurnTime, burnTime},
		{"thrust", &cfg.Engine.AvgThrust, thrust},
		{"mass", &cfg.Engine.InitialMass, mass},
		{"diameter", &cfg.Aero.Diameter, diameter},
		{"cd", &cfg.Aero.DragCoeff, dragCoeff},
		{"cg-cp", &cfg.Aero.CGToCP, cgToCP},
		{"inertia", &cfg.Aero.Inertia, inertia},
		{"gravity", &cfg.Environment.Gravity, gravity},
		{"density", &cfg.Environment.AirDensity, density},
	}
	for _, o := range overrides {
		if changed(o.flag) {
			*o.dst = o.src
		}
	}
	if changed("variant") {
		cfg.Variant = variant
	}
	if changed("integrator") {
		cfg.Integrator = integrator
	}
	return cfg, nil
}

func newStore() *storage.Store {
	return storage.New(dataDir, logger)
}

func runFlight(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.Build(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	exp.SetLogger(logger)

	start := time.Now()
	result, runErr := exp.Run()
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	fmt.Print(viz.Summary(exp.Propagator().Rocket(), result))
	fmt.Printf("completed in %v\n", elapsed)

	if showPlot && result.Trajectory.Len() > 1 {
		fmt.Println()
		fmt.Println(viz.Plot(result.Trajectory.Altitudes(), "altitude (m)", 70, 12))
		fmt.Println()
		fmt.Print(viz.FlightPath(result.Trajectory, result.Variant, result.Events.Apogee.Index, 60, 16))
	}

	if runErr != nil {
		return runErr
	}

	if !noSave {
		st := newStore()
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, preset, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := newStore().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tPRESET\tTIME\tDT\tINTEG\tAPOGEE\tIMPACT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4fs\t%s\t%.2fm\t%.2fs\n",
			run.ID,
			run.Variant,
			run.Preset,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Dt,
			run.Integrator,
			run.Events.Apogee.Altitude,
			run.Events.GroundContact,
		)
	}

	return w.Flush()
}

// loadRun restores a stored run as a result.
func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := newStore()
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	v, err := dynamo.ParseVariant(meta.Variant)
	if err != nil {
		return nil, nil, err
	}

	res := &sim.Result{
		Variant:    v,
		Integrator: meta.Integrator,
		Phase:      dynamo.Landed,
		Trajectory: traj,
		Events:     meta.Events,
		Metrics:    meta.Metrics,
		Steps:      meta.Steps,
	}
	return meta, res, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if res.Trajectory.Len() == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Variant)

	columns := []string{"altitude", "velocity", "acceleration"}
	if res.Variant.HasRotation() {
		columns = append(columns, "theta", "aoa")
	}
	if column != "" {
		columns = []string{column}
	}

	for _, name := range columns {
		series, caption, ok := viz.Column(res.Trajectory, res.Variant, name)
		if !ok {
			return fmt.Errorf("unknown column: %s %s", name, columnHelp())
		}
		fmt.Println(viz.Plot(series, caption, 80, 10))
		fmt.Println()
	}

	if column == "" {
		fmt.Print(viz.FlightPath(res.Trajectory, res.Variant, res.Events.Apogee.Index, 60, 16))
	}
	return nil
}

func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	_, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := output(outPath)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(w, res.Trajectory); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w, err := output(outPath)
	if err != nil {
		return err
	}
	if err := export.WriteJSON(w, export.NewDocument(res, meta.Dt, meta.BurnTime)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportPNG(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	dir := outPath
	if dir == "" {
		dir = filepath.Join(dataDir, meta.ID, "plots")
	}

	paths, err := export.WritePNGs(dir, export.Charts(res, meta.BurnTime))
	for _, p := range paths {
		fmt.Println(p)
	}
	return err
}

func replayRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	m := viz.NewReplay(strings.ToUpper(meta.ID), res.Trajectory, res.Variant, res.Events)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, res, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if !res.Variant.HasRotation() {
		return fmt.Errorf("%s is a %s run; attitude analysis needs rigid-body", meta.ID, meta.Variant)
	}

	// Restrict to the ascent, where the restoring torque dominates.
	ascent := res.Trajectory.Samples()[:res.Events.Apogee.Index+1]
	aoa := analysis.AngleOfAttackDeg(res.Trajectory)[:len(ascent)]
	theta := make([]float64, len(ascent))
	for i, s := range ascent {
		theta[i] = s.Theta * 180 / math.Pi
	}

	fmt.Printf("attitude analysis: %s\n\n", meta.ID)
	fmt.Println(viz.Plot(aoa, "angle of attack to apogee (deg)", 80, 10))
	fmt.Println()

	maxAoA := 0.0
	for _, a := range aoa[1:] {
		maxAoA = math.Max(maxAoA, math.Abs(a))
	}
	fmt.Printf("max |aoa| to apogee:   %.3f deg\n", maxAoA)
	fmt.Printf("final attitude:        %.3f deg\n", theta[len(theta)-1])

	freq := analysis.DominantFrequency(theta, meta.Dt)
	fmt.Printf("dominant frequency:    %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period:                %.3f s\n", 1/freq)
	}
	return nil
}

func columnHelp() string { return fmt.Sprint(viz.ColumnNames) }

func sweepRuns(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	jobs := make([]sim.Job, len(sweepValues))
	labels := make([]string, len(sweepValues))
	for i, v := range sweepValues {
		cfg := base.Clone()
		if err := cfg.SetParam(sweepParam, v); err != nil {
			return err
		}
		exp, err := experiment.Build(reg, cfg)
		if err != nil {
			return fmt.Errorf("%s=%g: %w", sweepParam, v, err)
		}
		exp.SetLogger(logger)
		labels[i] = fmt.Sprintf("%s=%g", sweepParam, v)
		jobs[i] = exp.Job(labels[i])
	}

	results, err := sim.Sweep(context.Background(), jobs, workers)
	fmt.Printf("sweep over %s (%s, %d runs)\n\n", sweepParam, base.Variant, len(jobs))
	fmt.Print(viz.Table(labels, results))
	return err
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	names := args
	if len(names) == 0 {
		names = reg.ListIntegrators()
	}

	fmt.Printf("comparing integrators for %s (dt=%.4f)\n\n", cfg.Variant, cfg.Dt)

	results := make([]*sim.Result, len(names))
	drift := make([]float64, len(names))
	for i, name := range names {
		c := cfg.Clone()
		c.Integrator = name
		exp, err := experiment.Build(reg, c)
		if err != nil {
			return err
		}
		exp.SetLogger(logger)
		if results[i], err = exp.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			results[i] = nil
			continue
		}
		drift[i] = exp.Propagator().Rocket().CoastEnergyDrift(results[i].Trajectory)
	}
	fmt.Print(viz.Table(names, results))

	fmt.Println()
	for i, name := range names {
		if results[i] != nil {
			fmt.Printf("coast energy drift %-14s %+.3e\n", name+":", drift[i])
		}
	}

	if len(results) > 1 && results[0] != nil {
		fmt.Println()
		for i := 1; i < len(results); i++ {
			if results[i] == nil {
				continue
			}
			d := viz.RelativeDiff(results[0].Events.Apogee.Altitude, results[i].Events.Apogee.Altitude)
			fmt.Printf("apogee %s vs %s: %.3f%%\n", names[i], names[0], 100*d)
		}
	}
	return nil
}

// parseAxis reads name=v1,v2,... into a grid axis.
func parseAxis(arg string) (optim.Axis, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok || list == "" {
		return optim.Axis{}, fmt.Errorf("invalid axis %q, want name=v1,v2,...", arg)
	}
	ax := optim.Axis{Name: name}
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return optim.Axis{}, fmt.Errorf("axis %s: %w", name, err)
		}
		ax.Values = append(ax.Values, v)
	}
	return ax, nil
}

func optimizeDesign(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	axes := make([]optim.Axis, len(args))
	for i, arg := range args {
		if axes[i], err = parseAxis(arg); err != nil {
			return err
		}
	}

	obj := optim.MinimizeMetric(minimize)
	goal := "minimize " + minimize
	if targetApogee > 0 {
		obj = optim.TargetApogee(targetApogee)
		goal = fmt.Sprintf("apogee %.1f m", targetApogee)
	}

	g := optim.NewGridSearch(axes, workers)
	cands, best, err := g.Search(context.Background(), experiment.NewRegistry(), base, obj)
	if err != nil {
		return err
	}

	fmt.Printf("grid search (%s, %d points, %s)\n\n", base.Variant, len(cands), goal)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, ax := range axes {
		fmt.Fprintf(w, "%s\t", strings.ToUpper(ax.Name))
	}
	fmt.Fprintln(w, "APOGEE\tSCORE\t")
	for i, c := range cands {
		for _, ax := range axes {
			fmt.Fprintf(w, "%g\t", c.Params[ax.Name])
		}
		mark := ""
		if i == best {
			mark = "*"
		}
		if c.Result == nil {
			fmt.Fprintf(w, "-\tfailed\t%s\n", mark)
			continue
		}
		fmt.Fprintf(w, "%.2f\t%.4g\t%s\n", c.Result.Events.Apogee.Altitude, c.Score, mark)
	}
	return w.Flush()
}
