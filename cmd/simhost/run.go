package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"simhost/internal/admin"
	"simhost/internal/capture"
	"simhost/internal/config"
	"simhost/internal/engine"
	"simhost/internal/host"
	"simhost/internal/logging"
	"simhost/internal/pose"
	"simhost/internal/record"
)

var (
	runConfigPath string
	runAdminAddr  string
	runPeriod     time.Duration
	runSeed       int64
	runLogFile    string
	runPrintOnly  bool
	runTUI        bool
	runLogLevel   string
)

// launchArgs are the six positional arguments of the run command.
type launchArgs struct {
	DataPath     string
	ScenarioPath string
	Rate         float64
	Width        int
	Height       int
	Preset       string
}

const runUsage = "run <data-path> <scenario-path> <rate> <window-width> <window-height> <quality-preset>"

func requireLaunchArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 6 {
		return fmt.Errorf("not enough command-line arguments provided (got %d, want 6)\nusage: %s", len(args), runUsage)
	}
	return nil
}

func parseLaunchArgs(args []string) (launchArgs, error) {
	la := launchArgs{
		DataPath:     args[0],
		ScenarioPath: args[1],
		Preset:       args[5],
	}
	rate, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return la, fmt.Errorf("invalid rate %q: %w", args[2], err)
	}
	if rate <= 0 {
		return la, fmt.Errorf("invalid rate %q: must be positive", args[2])
	}
	la.Rate = rate
	if la.Width, err = strconv.Atoi(args[3]); err != nil {
		return la, fmt.Errorf("invalid window width %q: %w", args[3], err)
	}
	if la.Height, err = strconv.Atoi(args[4]); err != nil {
		return la, fmt.Errorf("invalid window height %q: %w", args[4], err)
	}
	return la, nil
}

// hostSettings merges the optional host config file with flags and env.
// Flags given explicitly win over the file; TICK_PERIOD wins over both.
func hostSettings(cmd *cobra.Command) (*config.HostConfig, time.Duration, error) {
	cfg := config.DefaultHostConfig()
	if runConfigPath != "" {
		var err error
		if cfg, err = config.LoadHost(runConfigPath); err != nil {
			return nil, 0, err
		}
	}
	if cmd.Flags().Changed("admin-addr") || cfg.AdminAddr == "" {
		cfg.AdminAddr = runAdminAddr
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = runSeed
	}
	period, err := cfg.TickPeriod()
	if err != nil {
		return nil, 0, err
	}
	if cmd.Flags().Changed("period") {
		period = runPeriod
	}
	if env := os.Getenv("TICK_PERIOD"); env != "" {
		d, err := time.ParseDuration(env)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid TICK_PERIOD: %w", err)
		}
		period = d
	}
	if period <= 0 {
		return nil, 0, fmt.Errorf("tick period must be positive, got %s", period)
	}
	return cfg, period, nil
}

var runCmd = &cobra.Command{
	Use:   runUsage,
	Short: "Run the simulation host",
	Long: "run starts the engine, ticks it at a fixed wall-clock period and serves\n" +
		"POST /generate-images to capture a sensor image from a random pose.",
	Args: requireLaunchArgs,
	RunE: runHost,
}

// runHost is shared by the run subcommand and the bare root invocation.
func runHost(cmd *cobra.Command, args []string) error {
	la, err := parseLaunchArgs(args)
	if err != nil {
		return err
	}
	hostCfg, period, err := hostSettings(cmd)
	if err != nil {
		return err
	}

	render, helpers, err := config.Resolve(la.Width, la.Height, la.Preset)
	if err != nil {
		return err
	}
	if runConfigPath != "" {
		helpers = hostCfg.Helpers
	}

	hostID := os.Getenv("HOST_ID")
	if hostID == "" {
		hostID = "simhost-01"
	}

	ws, err := newWriters(runPrintOnly, runTUI, runLogFile, record.Summary{
		HostID:   hostID,
		Scenario: la.ScenarioPath,
		Preset:   render.PresetName,
		Window:   fmt.Sprintf("%dx%d", la.Width, la.Height),
		Rate:     la.Rate,
		Period:   period,
	})
	if err != nil {
		return err
	}
	defer ws.Close()

	var logOut io.Writer = os.Stdout
	if ws.tui {
		logOut = io.Discard
	}
	log := logging.NewWithLevel(logOut, runLogLevel)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = logging.NewContext(ctx, log)

	eng, err := engine.NewHeadless(engine.Config{
		DataPath:     la.DataPath,
		ScenarioPath: la.ScenarioPath,
		Render:       render,
		Helpers:      helpers,
		Rate:         la.Rate,
	})
	if err != nil {
		return err
	}

	queue := record.NewQueue(ws.capture, ws.state, record.DefaultQueueSize, log)
	defer queue.Close()

	sampler := pose.NewSampler(hostCfg.Seed)
	handler := capture.NewHandler(eng, sampler, queue, capture.WithHostID(hostID))
	h := host.New(eng, handler,
		host.WithPeriod(period),
		host.WithHostID(hostID),
		host.WithStateWriter(queue, hostCfg.StateEvery),
	)

	if err := h.Start(ctx); err != nil {
		return err
	}
	handler.SetSensor(eng.Sensor().Name)
	tier, _ := render.Tier()
	log.Info("host ready",
		"preset", render.PresetName,
		"tier", tier,
		"period", h.Period(),
		"window", fmt.Sprintf("%dx%d", la.Width, la.Height),
		"rate", la.Rate,
		"seed", sampler.Seed(),
	)

	srv := admin.NewServer(h)
	go func() {
		log.Info("admin server listening", "addr", hostCfg.AdminAddr)
		if err := srv.Start(ctx, hostCfg.AdminAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("admin server failed", "err", err)
			cancel()
		}
	}()

	err = h.Run(ctx)
	log.Info("simulation host stopped", "frames", h.Stats().Frames, "dropped_records", queue.Dropped())
	return err
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&runConfigPath, "config", "", "Optional host configuration YAML")
	f.StringVar(&runAdminAddr, "admin-addr", config.DefaultAdminAddr, "Admin HTTP listen address")
	f.DurationVar(&runPeriod, "period", host.DefaultPeriod, "Wall-clock tick period")
	f.Int64Var(&runSeed, "seed", 0, "Pose sampler seed (0 = time-derived)")
	f.StringVar(&runLogFile, "log-file", "", "Path to export capture/state records (JSONL)")
	f.BoolVar(&runPrintOnly, "print-only", false, "Print records to STDOUT instead of writing to DB")
	f.BoolVar(&runTUI, "tui", false, "Show a terminal UI when STDOUT is a terminal")
	f.StringVar(&runLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
