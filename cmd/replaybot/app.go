package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/kataras/golog"
	hook "github.com/robotn/gohook"

	"github.com/vedantwpatil/replaybot/internal/config"
	"github.com/vedantwpatil/replaybot/internal/engine"
	"github.com/vedantwpatil/replaybot/internal/input"
	"github.com/vedantwpatil/replaybot/internal/logging"
	"github.com/vedantwpatil/replaybot/internal/script"
	"github.com/vedantwpatil/replaybot/internal/tracking"
)

// Application holds what a single command invocation shares.
type Application struct {
	cfg    *config.Config
	logger *golog.Logger
	runID  string

	closeLog func() error
}

func newApplication(cfg *config.Config, stderr io.Writer) (*Application, error) {
	logger, closeFn, err := logging.New(logging.Options{
		Debug:  cfg.Logging.Debug,
		File:   cfg.Logging.File,
		Output: stderr,
	})
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	return &Application{
		cfg:      cfg,
		logger:   logger.Child(fmt.Sprintf("[%s]", runID[:8])),
		runID:    runID,
		closeLog: closeFn,
	}, nil
}

func runCommand(args []string, stderr io.Writer) error {
	opts, path, err := parseRunFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := opts.config()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return err
	}
	app, err := newApplication(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "logging: %v\n", err)
		return err
	}
	defer app.closeLog()

	if err := app.replay(path); err != nil {
		app.logger.Errorf("run %s failed: %v", app.runID, err)
		return err
	}
	return nil
}

// replay plays the script at path for the configured run time.
func (a *Application) replay(path string) error {
	seed := a.cfg.Run.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	a.logger.Infof("run %s: backend %s, seed %d, runtime %s", a.runID, a.cfg.Run.Backend, seed, a.cfg.Runtime())
	rng := newRand(seed)

	injector, err := newInjector(a.cfg, a.logger)
	if err != nil {
		return err
	}

	exec := engine.NewExecutor(injector, rng, engine.Options{
		Resolution: a.cfg.Motion.Resolution,
		Jitter:     uint32(a.cfg.Motion.Jitter),
		KeyRepeat:  script.DelayRange{Min: a.cfg.Keys.RepeatMinMs, Max: a.cfg.Keys.RepeatMaxMs},
		Registry:   newRegistry(a.cfg),
		Clock:      engine.SystemClock,
		Logger:     a.logger.Child("[engine]"),
	})

	loader := &boundsLoader{
		check:  a.cfg.Run.Backend != config.BackendDryRun,
		logger: a.logger,
	}
	loop := engine.NewLoop(loader, exec, engine.SystemClock, a.logger.Child("[loop]"))
	loop.StartDelay = a.cfg.StartDelay()
	if n := a.cfg.Idle.EveryPasses; n > 0 {
		lo, hi := a.cfg.IdleRange()
		loop.SetHook(n, engine.IdleHook(rng, engine.SystemClock, lo, hi, a.logger.Child("[idle]")))
	}

	stop := a.exitOnSignal()
	defer stop()

	return loop.Run(path, a.cfg.Runtime())
}

// exitOnSignal ends the process on SIGINT or SIGTERM. The run goroutine is
// not interrupted cleanly, so a modifier held by a composite action may stay
// down.
func (a *Application) exitOnSignal() func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			a.logger.Warnf("received %s, exiting; a held modifier key may still be down", sig)
			a.closeLog()
			os.Exit(exitError)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newInjector(cfg *config.Config, logger *golog.Logger) (input.Injector, error) {
	switch cfg.Run.Backend {
	case config.BackendRobotgo:
		return input.NewRobot(), nil
	case config.BackendXdotool:
		return input.NewXdotool(cfg.Run.XdotoolBin, logger.Child("[xdotool]")), nil
	case config.BackendDryRun:
		return input.NewDryRun(script.Point{}, logger.Child("[dry-run]")), nil
	default:
		return nil, &config.ConfigError{Field: "run.backend", Err: fmt.Errorf("unknown backend %q", cfg.Run.Backend)}
	}
}

func newRegistry(cfg *config.Config) *engine.Registry {
	inv := cfg.Inventory
	// Validate has already accepted the modifier.
	mod, _ := input.ParseModifier(inv.Modifier)
	return engine.NewRegistry(engine.InventoryEntry(inv.Match, engine.Grid{
		Columns:  inv.Columns,
		Rows:     inv.Rows,
		StepX:    inv.StepX,
		StepY:    inv.StepY,
		Modifier: mod,
		Gap:      script.DelayRange{Min: inv.GapMinMs, Max: inv.GapMaxMs},
	}))
}

// boundsLoader loads scripts from disk and warns about targets that lie
// outside the attached displays.
type boundsLoader struct {
	check  bool
	logger *golog.Logger
}

func (b *boundsLoader) Load(path string) (script.Script, error) {
	s, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	if !b.check {
		return s, nil
	}
	bounds := input.DisplayBounds()
	if bounds.Empty() {
		b.logger.Warnf("no display found, skipping bounds check")
		return s, nil
	}
	for _, p := range input.OutOfBounds(s.Targets(), bounds) {
		b.logger.Warnf("target %s lies outside the screen %v", p, bounds)
	}
	return s, nil
}

func recordCommand(args []string, stderr io.Writer) error {
	opts, path, err := parseRecordFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := opts.config()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return err
	}
	app, err := newApplication(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "logging: %v\n", err)
		return err
	}
	defer app.closeLog()

	if err := app.record(path, tracking.Capture{Clicks: opts.clicks, Keys: opts.keys}); err != nil {
		app.logger.Errorf("record failed: %v", err)
		return err
	}
	return nil
}

// record captures a script until the stop key is pressed and saves it.
// SIGINT stops the capture like the stop key does.
func (a *Application) record(path string, capture tracking.Capture) error {
	session := tracking.NewSession(script.DelayRange{
		Min: a.cfg.Record.DelayMinMs,
		Max: a.cfg.Record.DelayMaxMs,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	defer func() {
		signal.Stop(sigChan)
		close(done)
	}()
	go func() {
		select {
		case sig := <-sigChan:
			a.logger.Infof("received %s, stopping", sig)
			hook.End()
		case <-done:
		}
	}()

	tracking.Listen(session, capture, a.logger.Child("[record]"))

	s := session.Script()
	if len(s) == 0 {
		return fmt.Errorf("nothing recorded, %s not written", path)
	}
	if err := script.Save(path, s); err != nil {
		return err
	}
	a.logger.Infof("saved %d events to %s", len(s), path)
	return nil
}
