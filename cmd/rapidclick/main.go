package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rapidclick/internal/app"
	"rapidclick/internal/config"
	"rapidclick/internal/platform"
	"rapidclick/internal/ui"
)

const appVersion = "1.0.0"

// headlessStatusEvery is the logging cadence for -no-ui runs.
const headlessStatusEvery = 5 * time.Second

func main() {
	cfg, err := config.ParseFlags(appVersion)
	if err != nil {
		log.Fatal(err)
	}

	backend, err := platform.New(cfg.Process)
	if err != nil {
		log.Fatal(err)
	}
	defer backend.Close()

	opts := app.Options{
		ProfileName:   cfg.Profile,
		Mode:          cfg.Mode,
		TargetProcess: cfg.Process,
		LeftRate:      cfg.LeftRate,
		RightRate:     cfg.RightRate,
		ToggleKey:     cfg.ToggleKey,
		RunFor:        cfg.RunFor,
	}

	if cfg.NoUI {
		opts.StatusEvery = headlessStatusEvery
		runHeadless(opts, backend)
		return
	}

	session, err := app.New(opts, backend)
	if err != nil {
		log.Fatal(err)
	}

	// The TUI owns the terminal, so stdlib log output goes to a file.
	f, err := tea.LogToFile("debug.log", "debug")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, getSignalsForPlatform()...)

	model := ui.InitialModel(session)
	if cfg.RunFor > 0 {
		model = ui.InitialModelRunning(session)
	}
	model.SetVersion(appVersion)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	go func() {
		sig := <-sigChan
		log.Printf("received signal: %v", sig)
		if err := session.Stop(); err != nil {
			log.Printf("error stopping session: %v", err)
		}
		p.Kill()
	}()

	if _, err := p.Run(); err != nil {
		log.Printf("error running program: %v", err)
		os.Exit(1)
	}

	// The session may still be live if the user quit from the menu.
	if err := session.Stop(); err != nil {
		log.Printf("error stopping session: %v", err)
	}
}

// runHeadless drives a session without the TUI until a signal arrives
// or the configured run duration expires.
func runHeadless(opts app.Options, backend *platform.Backend) {
	session, err := app.New(opts, backend)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), getSignalsForPlatform()...)
	defer stop()

	if err := session.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
