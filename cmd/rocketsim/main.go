package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/experiment"
	"github.com/san-kum/rocketsim/internal/logging"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logger   log.Logger = log.NewNopLogger()

	configFile string
	preset     string

	variant     string
	integrator  string
	dt          float64
	maxDuration float64
	attitude    float64

	propellant float64
	burnTime   float64
	thrust     float64
	mass       float64

	diameter  float64
	dragCoeff float64
	cgToCP    float64
	inertia   float64

	gravity float64
	density float64

	noSave   bool
	showPlot bool

	column  string
	outPath string

	sweepParam  string
	sweepValues []float64
	workers     int

	targetApogee float64
	minimize     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rocketsim",
		Short:         "model rocket flight simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(os.Stderr, logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rocketsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate one flight",
		Args:  cobra.NoArgs,
		RunE:  runFlight,
	}
	addFlightFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "draw altitude and flight path after the summary")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", fmt.Sprintf("single series to plot %v", columnHelp()))

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export the run with events and metrics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render the run charts as PNG files",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output directory (default <data>/<run_id>/plots)")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "play a stored flight back in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "attitude oscillation analysis of a rigid-body run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one configuration over a range of parameter values",
		Args:  cobra.NoArgs,
		RunE:  sweepRuns,
	}
	addFlightFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "drag_coeff", fmt.Sprintf("parameter to vary %v", config.ParamNames))
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", []float64{0, 0.25, 0.5, 0.75, 1.0}, "parameter values")
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "concurrent runs")

	optimizeCmd := &cobra.Command{
		Use:   "optimize name=v1,v2,... [name=v1,v2,...]",
		Short: "grid search design parameters for a target apogee or minimal metric",
		Args:  cobra.MinimumNArgs(1),
		RunE:  optimizeDesign,
	}
	addFlightFlags(optimizeCmd)
	optimizeCmd.Flags().Float64Var(&targetApogee, "target-apogee", 0, "wanted apogee (m); overrides --minimize")
	optimizeCmd.Flags().StringVar(&minimize, "minimize", "max_aoa_deg", "metric to minimize")
	optimizeCmd.Flags().IntVar(&workers, "workers", 4, "concurrent runs")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same configuration",
		Args:  cobra.ArbitraryArgs,
		RunE:  compareIntegrators,
	}
	addFlightFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-16s %-11s %5.1f N for %.1f s, %.3f kg\n",
					name, p.Variant, p.Engine.AvgThrust, p.Engine.BurnTime, p.Engine.InitialMass)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportPNGCmd,
		replayCmd, analyzeCmd, sweepCmd, optimizeCmd, compareCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		level.Error(logger).Log("err", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addFlightFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()

	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")

	f.StringVar(&variant, "variant", def.Variant, fmt.Sprintf("model fidelity %v", experiment.NewRegistry().ListVariants()))
	f.StringVar(&integrator, "integrator", def.Integrator, fmt.Sprintf("integrator %v", experiment.NewRegistry().ListIntegrators()))
	f.Float64Var(&dt, "dt", def.Dt, "timestep (s)")
	f.Float64Var(&maxDuration, "max-duration", def.MaxDuration, "abort if not landed after this many simulated seconds")
	f.Float64Var(&attitude, "attitude", def.InitialAttitudeDeg, "initial attitude from vertical (deg, rigid-body only)")

	f.Float64Var(&propellant, "propellant", def.Engine.PropellantMass, "propellant mass (kg)")
	f.Float64Var(&burnTime, "burn", def.Engine.BurnTime, "burn duration (s)")
	f.Float64Var(&thrust, "thrust", def.Engine.AvgThrust, "average thrust (N)")
	f.Float64Var(&mass, "mass", def.Engine.InitialMass, "initial vehicle mass (kg)")

	f.Float64Var(&diameter, "diameter", def.Aero.Diameter, "body diameter (m)")
	f.Float64Var(&dragCoeff, "cd", def.Aero.DragCoeff, "drag coefficient")
	f.Float64Var(&cgToCP, "cg-cp", def.Aero.CGToCP, "CG to CP distance, positive when CP is aft (m)")
	f.Float64Var(&inertia, "inertia", def.Aero.Inertia, "pitch moment of inertia (kg m²)")

	f.Float64Var(&gravity, "gravity", def.Environment.Gravity, "gravitational acceleration (m/s²)")
	f.Float64Var(&density, "density", def.Environment.AirDensity, "air density (kg/m³)")
}
