// Package ledger keeps a local SQLite history of car registrations.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one car of a run as handed to Record.
type Entry struct {
	Name         string
	ResourceID   string
	DisplayName  string
	ScenePath    string
	SceneCreated bool
	Declared     bool
}

// Manager handles the ledger database.
type Manager struct {
	DB     *gorm.DB
	SqlDB  *sql.DB
	Path   string
	Logger zerolog.Logger
}

// Open opens or creates the ledger at path and migrates its schema.
func Open(path string, log zerolog.Logger) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating ledger dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening ledger %s: %w", path, err)
	}

	m := &Manager{DB: db, Path: path, Logger: log}
	m.SqlDB, err = db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	// single writer
	m.SqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			_ = m.SqlDB.Close()
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(Models...); err != nil {
		_ = m.SqlDB.Close()
		return nil, fmt.Errorf("failed to migrate ledger schema: %w", err)
	}

	m.Logger.Debug().Str("path", path).Msg("Ledger ready")
	return m, nil
}

// Record stores a run and its entries in one transaction and returns the run id.
func (m *Manager) Record(ctx context.Context, document string, startedAt time.Time, entries []Entry) (string, error) {
	names := make([]string, 0, len(entries))
	run := Run{
		ID:        uuid.NewString(),
		StartedAt: startedAt,
		Document:  document,
	}
	for _, e := range entries {
		names = append(names, e.Name)
		if e.Declared {
			run.Added++
		}
		run.Registrations = append(run.Registrations, Registration{
			Name:         e.Name,
			ResourceID:   e.ResourceID,
			DisplayName:  e.DisplayName,
			ScenePath:    e.ScenePath,
			SceneCreated: e.SceneCreated,
			Declared:     e.Declared,
		})
	}

	cars, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("error encoding car names: %w", err)
	}
	run.Cars = datatypes.JSON(cars)

	err = m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&run).Error
	})
	if err != nil {
		return "", fmt.Errorf("error recording run: %w", err)
	}

	m.Logger.Info().Str("run", run.ID).Int("cars", len(entries)).Int("added", run.Added).Msg("Recorded run")
	return run.ID, nil
}

// History returns the latest registrations, newest first. limit <= 0 returns all.
func (m *Manager) History(ctx context.Context, limit int) ([]Registration, error) {
	var regs []Registration
	q := m.DB.WithContext(ctx).Model(&Registration{}).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("error reading history: %w", err)
	}
	return regs, nil
}

// Runs returns recorded runs with their registrations, oldest first.
func (m *Manager) Runs(ctx context.Context) ([]Run, error) {
	var runs []Run
	err := m.DB.WithContext(ctx).Preload("Registrations").Order("started_at ASC").Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("error reading runs: %w", err)
	}
	return runs, nil
}

// Close closes the underlying database.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	return m.SqlDB.Close()
}
