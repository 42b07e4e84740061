package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/piblocks/internal/analysis"
	"github.com/san-kum/piblocks/internal/audio"
	"github.com/san-kum/piblocks/internal/config"
	"github.com/san-kum/piblocks/internal/engine"
	"github.com/san-kum/piblocks/internal/storage"
	"github.com/san-kum/piblocks/internal/stream"
	"github.com/san-kum/piblocks/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	mass1          float64
	mass2          float64
	pos1           float64
	pos2           float64
	vel2           float64
	maxDenominator int64
	simplifyEvery  int
	maxSteps       int

	saveRun bool
	// Frame rate for the live view
	frameRate int
	sound     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "piblocks",
		Short: "computing pi with colliding blocks",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".piblocks", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation to completion",
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&saveRun, "save", false, "save the run and its event log")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().BoolVar(&sound, "sound", false, "play collision clicks")

	sweepCmd := &cobra.Command{
		Use:   "sweep [ratio...]",
		Short: "run several mass ratios in parallel",
		Args:  cobra.ArbitraryArgs,
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "velocity phase-space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run events to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSONStdout(args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream the simulation over HTTP and websockets",
		RunE:  runServe,
	}
	addScenarioFlags(serveCmd)

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, listCmd, plotCmd, phaseCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, presetsCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&mass1, "mass1", config.DefaultMass1, "small block mass")
	cmd.Flags().Float64Var(&mass2, "mass2", config.DefaultMass2, "large block mass")
	cmd.Flags().Float64Var(&pos1, "pos1", config.DefaultPos1, "small block position")
	cmd.Flags().Float64Var(&pos2, "pos2", config.DefaultPos2, "large block position")
	cmd.Flags().Float64Var(&vel2, "vel2", config.DefaultVel2, "large block velocity")
	cmd.Flags().Int64Var(&maxDenominator, "max-denominator", config.DefaultMaxDenominator, "denominator bound (0 = exact)")
	cmd.Flags().IntVar(&simplifyEvery, "simplify-every", config.DefaultSimplifyEvery, "events between limiting passes")
	cmd.Flags().IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "step budget")
}

// buildScenario resolves preset, config file, and flags in that order of
// increasing precedence.
func buildScenario(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("mass1") {
		cfg.Mass1 = mass1
	}
	if cmd.Flags().Changed("mass2") {
		cfg.Mass2 = mass2
	}
	if cmd.Flags().Changed("pos1") {
		cfg.Pos1 = pos1
	}
	if cmd.Flags().Changed("pos2") {
		cfg.Pos2 = pos2
	}
	if cmd.Flags().Changed("vel2") {
		cfg.Vel2 = vel2
	}
	if cmd.Flags().Changed("max-denominator") {
		cfg.MaxDenominator = maxDenominator
	}
	if cmd.Flags().Changed("simplify-every") {
		cfg.SimplifyEvery = simplifyEvery
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	scenario, err := buildScenario(cmd)
	if err != nil {
		return err
	}

	ecfg, err := scenario.Engine()
	if err != nil {
		return err
	}
	sim, err := engine.New(ecfg)
	if err != nil {
		return err
	}

	fmt.Printf("running mass ratio %.6g...\n", sim.MassRatio())
	start := time.Now()

	var events []engine.Event
	if saveRun {
		events = make([]engine.Event, 0, 1024)
		for {
			ev, ok := sim.Step()
			if !ok {
				break
			}
			events = append(events, ev)
			if len(events) >= scenario.MaxSteps {
				break
			}
		}
	} else {
		if _, err := sim.RunToCompletion(context.Background(), scenario.MaxSteps); err != nil {
			return err
		}
	}

	elapsed := time.Since(start)

	wall, block, total := sim.Counts()
	ratio := sim.MassRatio()
	pi := analysis.PiEstimate(total, ratio)

	fmt.Printf("completed in %v\n\n", elapsed)
	fmt.Printf("collisions:   %d  (wall %d, block %d)\n", total, wall, block)
	fmt.Printf("expected:     %d\n", analysis.ExpectedCollisions(ratio))
	fmt.Printf("pi estimate:  %.10f\n", pi)
	fmt.Printf("pi:           3.1415926536\n")
	fmt.Printf("error:        %.6f%%\n", analysis.ErrorPercent(pi))
	fmt.Printf("digits:       %d\n", analysis.MatchedDigits(pi))
	fmt.Printf("sim time:     %s\n", sim.Elapsed().String())

	if !sim.IsTerminal() {
		fmt.Println("\nwarning: step budget exhausted before the terminal state")
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Mass1:          sim.Block1().Mass.Float64(),
			Mass2:          sim.Block2().Mass.Float64(),
			MassRatio:      ratio,
			MaxDenominator: sim.MaxDenominator(),
			Wall:           wall,
			Block:          block,
			Total:          total,
			Elapsed:        sim.Elapsed().Float64(),
			ElapsedExact:   sim.Elapsed().String(),
			PiEstimate:     pi,
			Complete:       sim.IsTerminal(),
		}, events)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	scenario, err := buildScenario(cmd)
	if err != nil {
		return err
	}
	ecfg, err := scenario.Engine()
	if err != nil {
		return err
	}

	var clicker *audio.Clicker
	if sound {
		clicker = audio.NewClicker()
		if err := clicker.Initialize(); err != nil {
			return fmt.Errorf("audio init: %w", err)
		}
	}

	m, err := viz.NewModel(ecfg, frameRate, clicker)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	scenario, err := buildScenario(cmd)
	if err != nil {
		return err
	}
	base, err := scenario.Engine()
	if err != nil {
		return err
	}

	// Default to the powers of 100: each step buys one more digit of pi.
	ratios := []int64{1, 100, 10_000, 1_000_000}
	if len(args) > 0 {
		ratios = make([]int64, len(args))
		for i, arg := range args {
			r, err := strconv.ParseInt(arg, 10, 64)
			if err != nil || r < 1 {
				return fmt.Errorf("invalid mass ratio: %s", arg)
			}
			ratios[i] = r
		}
	}

	fmt.Printf("sweeping %d mass ratios...\n\n", len(ratios))
	start := time.Now()
	points := analysis.Sweep(context.Background(), analysis.ConfigsForRatios(base, ratios), scenario.MaxSteps)
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RATIO\tCOLLISIONS\tEXPECTED\tPI ESTIMATE\tERROR\tCOMPLETE")
	for i, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%d\terror: %v\t\t\t\t\n", ratios[i], p.Err)
			continue
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%.10f\t%.6f%%\t%v\n",
			ratios[i], p.Result.Total, p.Expected, p.Pi,
			analysis.ErrorPercent(p.Pi), p.Result.Complete)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", elapsed)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tRATIO\tCOLLISIONS\tPI ESTIMATE\tCOMPLETE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.6g\t%d\t%.10f\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.MassRatio,
			run.Total,
			run.PiEstimate,
			run.Complete,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	events, err := st.LoadEvents(runID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mass ratio: %.6g\n", meta.MassRatio)
	fmt.Printf("events: %d\n\n", len(events))

	series := []struct {
		caption string
		extract func(storage.EventRecord) float64
	}{
		{"small block velocity", func(e storage.EventRecord) float64 { return e.V1 }},
		{"large block velocity", func(e storage.EventRecord) float64 { return e.V2 }},
		{"small block position", func(e storage.EventRecord) float64 { return e.X1 }},
		{"large block position", func(e storage.EventRecord) float64 { return e.X2 }},
	}

	for _, s := range series {
		data := make([]float64, len(events))
		for i, ev := range events {
			data[i] = s.extract(ev)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption+" vs event"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

// phasePlot scatters (v1, v2) after every event. Under the velocity
// rescaling the points lie on an ellipse; the count of points is the
// collision count.
func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	events, err := st.LoadEvents(runID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("velocity phase space: %s\n", meta.ID)
	fmt.Printf("mass ratio: %.6g\n", meta.MassRatio)
	fmt.Printf("x-axis: v1, y-axis: v2\n\n")

	xData := make([]float64, len(events))
	yData := make([]float64, len(events))
	for i, ev := range events {
		xData[i] = ev.V1
		yData[i] = ev.V2
	}

	xMin, xMax := xData[0], xData[0]
	yMin, yMax := yData[0], yData[0]
	for i := range xData {
		if xData[i] < xMin {
			xMin = xData[i]
		}
		if xData[i] > xMax {
			xMax = xData[i]
		}
		if yData[i] < yMin {
			yMin = yData[i]
		}
		if yData[i] > yMax {
			yMax = yData[i]
		}
	}

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	width := 70
	height := 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range xData {
		px := int(float64(width-1) * (xData[i] - xMin) / xRange)
		py := int(float64(height-1) * (yData[i] - yMin) / yRange)
		py = height - 1 - py // Flip y-axis
		if px >= 0 && px < width && py >= 0 && py < height {
			if i < len(xData)/3 {
				canvas[py][px] = '.'
			} else if i < 2*len(xData)/3 {
				canvas[py][px] = 'o'
			} else {
				canvas[py][px] = '●'
			}
		}
	}

	fmt.Printf("  %.2f ┌", yMax)
	for i := 0; i < width; i++ {
		fmt.Print("─")
	}
	fmt.Println("┐")

	for i := range canvas {
		if i == height/2 {
			fmt.Printf("  %.2f │", (yMax+yMin)/2)
		} else {
			fmt.Print("       │")
		}
		fmt.Print(string(canvas[i]))
		fmt.Println("│")
	}

	fmt.Printf("  %.2f └", yMin)
	for i := 0; i < width; i++ {
		fmt.Print("─")
	}
	fmt.Println("┘")

	fmt.Printf("       %.2f", xMin)
	padding := width - 20
	for i := 0; i < padding; i++ {
		fmt.Print(" ")
	}
	fmt.Printf("%.2f\n", xMax)

	fmt.Printf("\nLegend: . = early, o = middle, ● = late\n")

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	events, err := st.LoadEvents(args[0])
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"seq", "kind", "time", "x1", "v1", "x2", "v2"}); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			strconv.Itoa(ev.Seq),
			ev.Kind,
			strconv.FormatFloat(ev.Time, 'f', 6, 64),
			strconv.FormatFloat(ev.X1, 'f', 6, 64),
			strconv.FormatFloat(ev.V1, 'f', 6, 64),
			strconv.FormatFloat(ev.X2, 'f', 6, 64),
			strconv.FormatFloat(ev.V2, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMASS RATIO\tMAX DENOM\tEXPECTED")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		ratio := p.Mass2 / p.Mass1
		fmt.Fprintf(w, "%s\t%.6g\t%d\t%d\n",
			name, ratio, p.MaxDenominator, analysis.ExpectedCollisions(ratio))
	}
	return w.Flush()
}

func runServe(cmd *cobra.Command, args []string) error {
	scenario, err := buildScenario(cmd)
	if err != nil {
		return err
	}

	sc := config.LoadServe()
	hub, err := stream.NewHub(scenario, sc)
	if err != nil {
		return err
	}

	return stream.NewServer(hub, sc).ListenAndServe()
}
