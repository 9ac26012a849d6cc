package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"scenedit/internal/config"
	"scenedit/internal/logging"
	"scenedit/internal/scene"
	"scenedit/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfgPath := os.Getenv("SCENEDIT_CONFIG")
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	stack := scene.NewStack()
	stack.SetLogger(log)
	store := scene.NewStore(
		scene.WithLogger(log),
		scene.WithGrid(scene.Grid{
			Visible: cfg.Grid.Visible,
			Size:    cfg.Grid.Size,
			Snap:    cfg.Grid.Snap,
		}),
	)
	store.SetStack(stack)

	model := tui.New(store, cfg, log)
	defer model.Close()

	if len(args) > 0 {
		path := cfg.GetSavePath(args[0])
		switch err := store.LoadFromFile(path); {
		case err == nil:
			model.SetFilename(args[0])
		case errors.Is(err, os.ErrNotExist):
			// New scene; the first save creates the file.
			model.SetFilename(args[0])
		default:
			return err
		}
	}

	log.Info("editor started", zap.String("config", cfgPath), zap.Int("entities", store.Len()))

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}
