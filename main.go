package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/nevo/camera"
	"github.com/pthm-cable/nevo/config"
	"github.com/pthm-cable/nevo/game"
	"github.com/pthm-cable/nevo/renderer"
	"github.com/pthm-cable/nevo/telemetry"
)

var (
	configPath string
	seed       int64
	maxTicks   uint64
	outputDir  string
	logStats   bool
	realtime   bool
)

func main() {
	// Set up slog (JSON to stdout for structured logging)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	rootCmd := &cobra.Command{
		Use:          "nevo",
		Short:        "evolving plant and animal ecosystem",
		SilenceUsage: true,
		RunE:         runViewer,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "RNG seed (0 = config seed, then time-based)")
	rootCmd.PersistentFlags().Uint64Var(&maxTicks, "max-ticks", 0, "stop after N ticks (0 = unlimited)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory for CSV logs and config snapshot")
	rootCmd.PersistentFlags().BoolVar(&logStats, "log-stats", false, "log telemetry windows via slog")

	headlessCmd := &cobra.Command{
		Use:   "headless",
		Short: "run the simulation without a window",
		RunE:  runHeadless,
	}
	headlessCmd.Flags().BoolVar(&realtime, "realtime", false, "keep the configured tick delay instead of running flat out")
	rootCmd.AddCommand(headlessCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("exiting", "error", err)
		os.Exit(1)
	}
}

// run bundles what both commands build before the loop starts.
type run struct {
	cfg    *config.Config
	world  *game.World
	output *telemetry.OutputManager
}

func setup() (*run, error) {
	if err := config.Init(configPath); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	output, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	opts := game.Options{Seed: seed}
	if logStats || output != nil {
		opts.Collector = telemetry.NewCollector(cfg.Telemetry.WindowTicks)
		opts.Perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}

	return &run{cfg: cfg, world: game.New(cfg, opts), output: output}, nil
}

func (r *run) close() {
	if err := r.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	r, err := setup()
	if err != nil {
		return err
	}
	defer r.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.SchedulerOptions{
		MaxTicks: maxTicks,
		LogStats: logStats,
		Output:   r.output,
	}
	if realtime {
		opts.Delay = r.cfg.Derived.TickDelay
	}

	slog.Info("starting headless simulation",
		"seed", r.world.Seed(),
		"max_ticks", maxTicks,
		"output_dir", r.output.Dir(),
	)

	sched := game.NewScheduler(r.world, opts)
	if err := sched.Start(ctx); err != nil {
		return err
	}
	sched.Wait()
	return nil
}

func runViewer(cmd *cobra.Command, args []string) error {
	r, err := setup()
	if err != nil {
		return err
	}
	defer r.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(r.cfg.Screen.Width), int32(r.cfg.Screen.Height), "nevo")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(r.cfg.Screen.TargetFPS))

	ticks := make(chan uint64, 1)
	sched := game.NewScheduler(r.world, game.SchedulerOptions{
		Delay:    r.cfg.Derived.TickDelay,
		MaxTicks: maxTicks,
		OnTick:   game.NotifyChannel(ticks),
		LogStats: logStats,
		Output:   r.output,
	})
	if err := sched.Start(ctx); err != nil {
		return err
	}

	cam := camera.New(float32(r.cfg.Screen.Width), float32(r.cfg.Screen.Height), r.cfg.Derived.HalfWidth, r.cfg.Derived.HalfHeight)
	renderer.NewViewer(r.world, sched, ticks, cam).Run()

	sched.Stop()
	sched.Wait()
	return nil
}
