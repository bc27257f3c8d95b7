// Package config parses the command line into a validated session
// configuration.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"rapidclick/internal/click"
	"rapidclick/internal/timing"
	"rapidclick/internal/util"
)

const (
	defaultProfile = "burst"
	defaultRate    = 15
	defaultMode    = "toggle"
)

type Config struct {
	Profile     string
	Mode        click.GateMode
	Process     string
	LeftRate    uint8
	RightRate   uint8
	ToggleKey   int
	RunFor      time.Duration
	NoUI        bool
	ShowVersion bool
}

func ParseFlags(version string) (*Config, error) {
	flags := flag.NewFlagSet("rapidclick", flag.ExitOnError)

	profile := flags.String("profile", defaultProfile, fmt.Sprintf("Timing profile (%s)", strings.Join(timing.Names(), ", ")))
	cps := flags.Int("cps", defaultRate, "Target clicks per second for the left button (0-255)")
	rightCPS := flags.Int("right-cps", -1, "Target clicks per second for the right button (defaults to -cps)")
	mode := flags.String("mode", defaultMode, "Gating mode: toggle, hold, or mouse")
	process := flags.String("process", "", "Target process or window name (required)")
	runFor := flags.String("for", "", "Stop automatically after this long (e.g. \"90\" minutes or \"2h30m\")")
	toggleKey := flags.Int("toggle-key", 0, "Platform key code of the toggle/hold hotkey")
	noUI := flags.Bool("no-ui", false, "Run headless without the terminal interface")
	showVersion := flags.Bool("version", false, "Show version information")
	flags.BoolVar(showVersion, "v", false, "Show version information")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if *showVersion {
		fmt.Printf("rapidclick version %s\n", version)
		os.Exit(0)
	}

	cfg := &Config{
		Profile:     *profile,
		Process:     *process,
		ToggleKey:   *toggleKey,
		NoUI:        *noUI,
		ShowVersion: *showVersion,
	}

	if _, err := timing.ByName(*profile); err != nil {
		return nil, fmt.Errorf("config: %w (known profiles: %s)", err, strings.Join(timing.Names(), ", "))
	}

	gateMode, err := click.ParseGateMode(*mode)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Mode = gateMode

	if *rightCPS < 0 {
		*rightCPS = *cps
	}
	left, err := rateValue("cps", *cps)
	if err != nil {
		return nil, err
	}
	right, err := rateValue("right-cps", *rightCPS)
	if err != nil {
		return nil, err
	}
	cfg.LeftRate, cfg.RightRate = left, right

	if *process == "" {
		return nil, fmt.Errorf("config: -process is required")
	}

	if *runFor != "" {
		d, err := util.ParseDuration(*runFor)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		cfg.RunFor = d
	}

	return cfg, nil
}

func rateValue(name string, v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("config: -%s must be between 0 and 255, got %d", name, v)
	}
	return uint8(v), nil
}
