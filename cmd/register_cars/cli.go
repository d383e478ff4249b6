package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OCAP2/carscene/internal/assets"
	"github.com/OCAP2/carscene/internal/config"
	"github.com/OCAP2/carscene/internal/logging"
	"github.com/OCAP2/carscene/internal/register"
	"github.com/OCAP2/carscene/internal/tscn"

	"github.com/spf13/afero"
)

func run(ctx context.Context, stdout io.Writer, opts *options, names []string) error {
	if len(names) == 0 && opts.history <= 0 {
		return register.ErrUsage
	}

	root, err := filepath.Abs(opts.root)
	if err != nil {
		return fmt.Errorf("error resolving project root: %w", err)
	}
	configDir := opts.configDir
	if configDir == "" {
		configDir = root
	}
	if err := config.Load(configDir); err != nil {
		return err
	}
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	started := time.Now()
	logFile, err := openLogFile(root, cfg.LogsDir, started)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	slogManager := logging.NewSlogManager()
	var fileOut io.Writer
	if logFile != nil {
		fileOut = logFile
	}
	slogManager.Setup(fileOut, cfg.LogLevel, logging.Elapsed(started))
	logger := slogManager.Logger().With("root", root)

	if opts.history > 0 {
		return printHistory(ctx, stdout, root, cfg, fileOut, opts.history)
	}

	var recorder register.Recorder
	if cfg.Ledger.Enabled {
		m, err := openLedger(root, cfg, fileOut)
		if err != nil {
			logger.Warn("Ledger unavailable", "error", err)
		} else {
			defer m.Close()
			recorder = m
		}
	}

	layout := assets.Layout{
		Fs:           afero.NewOsFs(),
		Root:         root,
		ModelsDir:    cfg.Paths.Models,
		CarScenesDir: cfg.Paths.CarScenes,
		ModelExt:     cfg.Ext.Model,
		SceneExt:     cfg.Ext.Scene,
	}
	patcher := tscn.New(tscn.Options{
		ResourceType: cfg.ResourceType,
		ScenePrefix:  "res://" + strings.Trim(cfg.Paths.CarScenes, "/"),
		SceneExt:     cfg.Ext.Scene,
		ScenesArray:  cfg.Arrays.Scenes,
		NamesArray:   cfg.Arrays.Names,
	})

	reg, err := register.New(register.Dependencies{
		Layout:    layout,
		Patcher:   patcher,
		MainScene: cfg.Paths.MainScene,
		Logger:    logger,
		Out:       stdout,
		Ledger:    recorder,
	})
	if err != nil {
		return err
	}

	report, err := reg.Run(ctx, names)
	if err != nil {
		logger.Debug("Registration failed", "error", err)
		return err
	}
	logger.Debug("Registration finished", "cars", len(report.Scenes), "declared", len(report.Added), "run", report.RunID)
	return nil
}

// resolve anchors a configured path at the project root unless it is absolute.
func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}

func openLogFile(root, logsDir string, started time.Time) (*os.File, error) {
	if logsDir == "" {
		return nil, nil
	}
	return logging.OpenRunLog(resolve(root, logsDir), ProgramName, started)
}
