package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/albumshelf/internal/adapter"
	"github.com/mmcdole/albumshelf/internal/catalog"
	"github.com/mmcdole/albumshelf/internal/domain"
	"github.com/mmcdole/albumshelf/internal/eventloop"
	"github.com/mmcdole/albumshelf/internal/store"
	"github.com/mmcdole/albumshelf/internal/tui"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// tabStore is the storage the session engine writes to, plus its lifetime hooks
type tabStore interface {
	domain.KeyValueStore
	EndTab() error
	Close() error
}

func main() {
	var (
		showVersion bool
		configPath  string
		initConfig  bool
		reset       bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&initConfig, "init-config", false, "write a default config file and exit")
	flag.BoolVar(&reset, "reset", false, "forget saved browse sessions for every tab and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("albumshelf %s\n", Version)
		return
	}

	var err error
	switch {
	case initConfig:
		err = runInitConfig(configPath)
	case reset:
		err = runReset(configPath)
	default:
		err = run(configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runInitConfig(path string) error {
	written, err := adapter.SaveConfig(adapter.DefaultConfig(), path)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Wrote %s\n", written)
	return nil
}

func runReset(path string) error {
	cfg, err := adapter.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := adapter.ClearSessions(cfg); err != nil {
		return err
	}
	fmt.Println("✓ Saved sessions cleared")
	return nil
}

func run(configPath string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("albumshelf needs an interactive terminal")
	}

	cfg, err := adapter.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting albumshelf", "version", Version)

	kv, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if !cfg.Session.Keep {
			if err := kv.EndTab(); err != nil {
				logger.Warn("failed to end tab session", "error", err)
			}
		}
		if err := kv.Close(); err != nil {
			logger.Warn("failed to close session store", "error", err)
		}
	}()

	loop := eventloop.New(nil, logger)
	engine := tui.NewEngine(loop, kv, logger)
	engine.Start()

	model := tui.NewModel(tui.Options{
		Engine:    engine,
		Loader:    catalog.NewLoader(afero.NewOsFs(), logger),
		VideoPath: cfg.Catalog.Video,
		AudioPath: cfg.Catalog.Audio,
		RowHeight: cfg.UI.RowHeight,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := loop.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		p := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithReportFocus(),
			tea.WithContext(gctx),
		)

		logger.Info("starting TUI")
		_, err := p.Run()
		if err != nil {
			// The model did not get to shut the engine down itself
			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			engine.Shutdown(sctx)
			scancel()
			logger.Error("TUI error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutting down")
	return nil
}

// openStore picks the session store the config asks for
func openStore(cfg *adapter.Config, logger *slog.Logger) (tabStore, error) {
	if cfg.Session.Store == adapter.StoreTypeMemory {
		return store.NewMemoryStore(), nil
	}

	tabID := store.ResolveTabID(cfg.Session.TabID)
	s, err := store.NewTabStore(cfg.Session.Path, tabID)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	logger.Debug("session store opened", "path", cfg.Session.Path, "tab_id", tabID)
	return s, nil
}
