package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/service"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/storage/snapshot"
)

// DefaultSnapshotDir is the archive directory used when none is configured.
const DefaultSnapshotDir = "data/snapshots"

// Config configures the storage engine.
type Config struct {
	// Snapshot configures the archive manager.
	Snapshot snapshot.Config

	// SnapshotInterval enables periodic archiving when positive.
	SnapshotInterval time.Duration

	// Logger is the structured logger.
	Logger *slog.Logger
}

// DefaultConfig returns a configuration archiving into dir on demand only.
func DefaultConfig(dir string) Config {
	return Config{
		Snapshot: snapshot.DefaultConfig(dir),
		Logger:   slog.Default(),
	}
}

// Engine archives and restores the cabinet.
type Engine struct {
	cfg      Config
	cabinet  service.Cabinet
	snapshot *snapshot.Manager
	logger   *slog.Logger

	// mu serializes archive writes so retention sees a consistent directory.
	mu sync.Mutex

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// New creates an engine for cabinet.
//
// This does NOT load any archive. Call Recover() after New() to restore
// the latest one.
func New(cfg Config, cabinet service.Cabinet) (*Engine, error) {
	if cabinet == nil {
		return nil, fmt.Errorf("storage: cabinet is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	snapMgr, err := snapshot.NewManager(cfg.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("storage: create snapshot manager: %w", err)
	}

	e := &Engine{
		cfg:      cfg,
		cabinet:  cabinet,
		snapshot: snapMgr,
		logger:   cfg.Logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	if cfg.SnapshotInterval > 0 {
		go e.backgroundLoop()
	} else {
		close(e.doneCh)
	}

	return e, nil
}

// Recover restores the latest valid archive, if any.
func (e *Engine) Recover(ctx context.Context) (*domain.RestoreResult, error) {
	start := time.Now()

	res, info, err := e.restore(ctx, "")
	if errors.Is(err, snapshot.ErrNoSnapshots) {
		e.logger.Info("no snapshot found, starting with empty cabinet")
		return &domain.RestoreResult{Rejections: []domain.Rejection{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: recover: %w", err)
	}

	e.logger.Info("snapshot restored",
		"id", info.ID,
		"accepted", res.Accepted,
		"rejected", len(res.Rejections),
		"elapsed", time.Since(start))
	return res, nil
}

// RestoreArchive restores the archive with the given id, or the latest
// valid one when id is empty.
func (e *Engine) RestoreArchive(ctx context.Context, id string) (*domain.RestoreResult, *snapshot.Info, error) {
	return e.restore(ctx, id)
}

func (e *Engine) restore(ctx context.Context, id string) (*domain.RestoreResult, *snapshot.Info, error) {
	var (
		cands []domain.Candidate
		info  *snapshot.Info
		err   error
	)
	if id == "" {
		cands, info, err = e.snapshot.Load()
	} else {
		cands, info, err = e.snapshot.LoadID(id)
	}
	if err != nil {
		return nil, nil, err
	}

	res, err := e.cabinet.Restore(ctx, cands)
	if err != nil {
		return nil, nil, err
	}
	for _, r := range res.Rejections {
		e.logger.Warn("snapshot record rejected",
			"snapshot_id", info.ID,
			"record_id", r.ID,
			"reason", r.Reason)
	}
	return res, info, nil
}

// TriggerSnapshot archives the current cabinet contents.
//
// This is called by admin API or background tasks.
func (e *Engine) TriggerSnapshot(ctx context.Context) (*snapshot.Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.cabinet.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture snapshot: %w", err)
	}

	info, err := e.snapshot.Create(snap)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	e.logger.Info("snapshot created",
		"id", info.ID,
		"record_count", info.RecordCount,
		"encrypted", info.Encrypted,
		"size_bytes", info.Size)

	if err := e.snapshot.Prune(); err != nil {
		e.logger.Warn("snapshot cleanup failed", "error", err)
	}

	return info, nil
}

// ListSnapshots lists archives oldest first.
func (e *Engine) ListSnapshots() ([]*snapshot.Info, error) {
	return e.snapshot.List()
}

// backgroundLoop runs periodic snapshot creation.
func (e *Engine) backgroundLoop() {
	defer close(e.doneCh)

	ticker := time.NewTicker(e.cfg.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := e.TriggerSnapshot(ctx); err != nil {
				e.logger.Error("auto snapshot failed", "error", err)
			}
			cancel()

		case <-e.stopCh:
			return
		}
	}
}

// Close stops periodic archiving. It is safe to call more than once.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.stopCh)
		<-e.doneCh
		e.logger.Info("storage engine stopped")
	})
	return nil
}
