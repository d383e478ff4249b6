package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/OCAP2/carscene/internal/config"
	"github.com/OCAP2/carscene/internal/ledger"

	"github.com/rs/zerolog"
)

// newLedgerLogger builds the zerolog logger handed to the ledger. It writes to
// stderr and, when set, to the run's log file.
func newLedgerLogger(level string, file io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true, TimeFormat: time.RFC3339}
	if file != nil {
		out = zerolog.MultiLevelWriter(out, file)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("component", "ledger").Logger()
}

func openLedger(root string, cfg config.Config, logFile io.Writer) (*ledger.Manager, error) {
	return ledger.Open(resolve(root, cfg.Ledger.Path), newLedgerLogger(cfg.LogLevel, logFile))
}

func printHistory(ctx context.Context, out io.Writer, root string, cfg config.Config, logFile io.Writer, limit int) error {
	path := resolve(root, cfg.Ledger.Path)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("no ledger at %s", cfg.Ledger.Path)
	}

	m, err := openLedger(root, cfg, logFile)
	if err != nil {
		return err
	}
	defer m.Close()

	regs, err := m.History(ctx, limit)
	if err != nil {
		return err
	}
	for _, r := range regs {
		fmt.Fprintf(out, "%s  %-20s %-20s %s\n", r.CreatedAt.UTC().Format(time.RFC3339), r.Name, r.ResourceID, r.DisplayName)
	}
	return nil
}
