package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/vedantwpatil/replaybot/internal/config"
)

// runOptions are the command line settings of the run command. Only flags
// that were given override the config file.
type runOptions struct {
	configPath string
	runtime    int
	debug      bool
	backend    string
	seed       uint64
	startDelay int
	logFile    string
	idleEvery  int

	set map[string]bool
}

func parseRunFlags(args []string, stderr io.Writer) (*runOptions, string, error) {
	defaults := config.NewConfig()
	o := &runOptions{}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.IntVar(&o.runtime, "r", defaults.Run.RuntimeSeconds, "run time in seconds (shorthand)")
	fs.IntVar(&o.runtime, "runtime", defaults.Run.RuntimeSeconds, "run time in seconds")
	fs.BoolVar(&o.debug, "g", false, "debug logging (shorthand)")
	fs.BoolVar(&o.debug, "debug", false, "debug logging")
	fs.StringVar(&o.backend, "backend", defaults.Run.Backend, "input backend: robotgo, xdotool or dry-run")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed, 0 picks one")
	fs.IntVar(&o.startDelay, "start-delay", defaults.Run.StartDelaySeconds, "seconds to wait before the first pass")
	fs.StringVar(&o.logFile, "log-file", "", "append log lines to this file")
	fs.IntVar(&o.idleEvery, "idle-every", defaults.Idle.EveryPasses, "take an idle break every n passes, 0 disables")

	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, "", usageErr(err)
	}
	if len(pos) != 1 {
		fmt.Fprintln(stderr, "run: expected exactly one script file")
		return nil, "", errUsage
	}

	o.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, pos[0], nil
}

// config loads the config file and applies the given flags on top.
func (o *runOptions) config() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.set["r"] || o.set["runtime"] {
		cfg.Run.RuntimeSeconds = o.runtime
	}
	if o.debug {
		cfg.Logging.Debug = true
	}
	if o.set["backend"] {
		cfg.Run.Backend = o.backend
	}
	if o.set["seed"] {
		cfg.Run.Seed = o.seed
	}
	if o.set["start-delay"] {
		cfg.Run.StartDelaySeconds = o.startDelay
	}
	if o.set["log-file"] {
		cfg.Logging.File = o.logFile
	}
	if o.set["idle-every"] {
		cfg.Idle.EveryPasses = o.idleEvery
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type recordOptions struct {
	configPath string
	debug      bool
	logFile    string
	clicks     bool
	keys       bool
}

func parseRecordFlags(args []string, stderr io.Writer) (*recordOptions, string, error) {
	o := &recordOptions{}

	fs := flag.NewFlagSet("record", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.BoolVar(&o.debug, "g", false, "debug logging (shorthand)")
	fs.BoolVar(&o.debug, "debug", false, "debug logging")
	fs.StringVar(&o.logFile, "log-file", "", "append log lines to this file")
	fs.BoolVar(&o.clicks, "clicks", false, "also record every left click")
	fs.BoolVar(&o.keys, "keys", false, "also record every other key press")

	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, "", usageErr(err)
	}
	if len(pos) != 1 {
		fmt.Fprintln(stderr, "record: expected exactly one output file")
		return nil, "", errUsage
	}
	return o, pos[0], nil
}

func (o *recordOptions) config() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.debug {
		cfg.Logging.Debug = true
	}
	if o.logFile != "" {
		cfg.Logging.File = o.logFile
	}
	return cfg, nil
}

// parseInterspersed lets flags follow positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}

func usageErr(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", errUsage, err)
}
