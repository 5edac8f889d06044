package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// Middleware wraps a Cabinet with cross-cutting behaviour.
// A middleware must not change results or errors of the wrapped Cabinet.
type Middleware func(Cabinet) Cabinet

// Chain wraps c with mws; the first middleware is the outermost.
func Chain(c Cabinet, mws ...Middleware) Cabinet {
	for i := len(mws) - 1; i >= 0; i-- {
		c = mws[i](c)
	}
	return c
}

// Operation names reported by the middlewares.
const (
	OpCreate            = "create"
	OpUpdate            = "update"
	OpRemove            = "remove"
	OpGet               = "get"
	OpFindByFirstName   = "find_by_first_name"
	OpFindByLastName    = "find_by_last_name"
	OpFindByDateOfBirth = "find_by_date_of_birth"
	OpGetAll            = "get_all"
	OpStat              = "stat"
	OpSnapshot          = "snapshot"
	OpRestore           = "restore"
)

// ============================================================================
// Logging
// ============================================================================

// WithLogging logs every operation with its inputs, outcome and latency.
func WithLogging(logger *slog.Logger) Middleware {
	return func(next Cabinet) Cabinet {
		return &loggingCabinet{next: next, logger: logger}
	}
}

type loggingCabinet struct {
	next   Cabinet
	logger *slog.Logger
}

func (l *loggingCabinet) log(ctx context.Context, op string, start time.Time, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "duration", time.Since(start))
	if err != nil {
		l.logger.WarnContext(ctx, "cabinet operation failed", append(attrs, "error", err)...)
		return
	}
	l.logger.DebugContext(ctx, "cabinet operation", attrs...)
}

func (l *loggingCabinet) CreateRecord(ctx context.Context, fields domain.Fields) (int, error) {
	start := time.Now()
	id, err := l.next.CreateRecord(ctx, fields)
	l.log(ctx, OpCreate, start, err, "id", id)
	return id, err
}

func (l *loggingCabinet) UpdateRecord(ctx context.Context, id int, fields domain.Fields) error {
	start := time.Now()
	err := l.next.UpdateRecord(ctx, id, fields)
	l.log(ctx, OpUpdate, start, err, "id", id)
	return err
}

func (l *loggingCabinet) RemoveRecord(ctx context.Context, id int) error {
	start := time.Now()
	err := l.next.RemoveRecord(ctx, id)
	l.log(ctx, OpRemove, start, err, "id", id)
	return err
}

func (l *loggingCabinet) GetRecord(ctx context.Context, id int) (domain.Record, error) {
	start := time.Now()
	rec, err := l.next.GetRecord(ctx, id)
	l.log(ctx, OpGet, start, err, "id", id)
	return rec, err
}

func (l *loggingCabinet) FindByFirstName(ctx context.Context, firstName string) ([]domain.Record, error) {
	start := time.Now()
	recs, err := l.next.FindByFirstName(ctx, firstName)
	l.log(ctx, OpFindByFirstName, start, err, "key", firstName, "found", len(recs))
	return recs, err
}

func (l *loggingCabinet) FindByLastName(ctx context.Context, lastName string) ([]domain.Record, error) {
	start := time.Now()
	recs, err := l.next.FindByLastName(ctx, lastName)
	l.log(ctx, OpFindByLastName, start, err, "key", lastName, "found", len(recs))
	return recs, err
}

func (l *loggingCabinet) FindByDateOfBirth(ctx context.Context, dateOfBirth time.Time) ([]domain.Record, error) {
	start := time.Now()
	recs, err := l.next.FindByDateOfBirth(ctx, dateOfBirth)
	l.log(ctx, OpFindByDateOfBirth, start, err, "key", domain.FormatDate(dateOfBirth), "found", len(recs))
	return recs, err
}

func (l *loggingCabinet) GetAll(ctx context.Context) ([]domain.Record, error) {
	start := time.Now()
	recs, err := l.next.GetAll(ctx)
	l.log(ctx, OpGetAll, start, err, "found", len(recs))
	return recs, err
}

func (l *loggingCabinet) Stat(ctx context.Context) (*Stat, error) {
	start := time.Now()
	st, err := l.next.Stat(ctx)
	l.log(ctx, OpStat, start, err)
	return st, err
}

func (l *loggingCabinet) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	start := time.Now()
	snap, err := l.next.Snapshot(ctx)
	n := 0
	if snap != nil {
		n = snap.Len()
	}
	l.log(ctx, OpSnapshot, start, err, "records", n)
	return snap, err
}

func (l *loggingCabinet) Restore(ctx context.Context, candidates []domain.Candidate) (*domain.RestoreResult, error) {
	start := time.Now()
	res, err := l.next.Restore(ctx, candidates)
	attrs := []any{"candidates", len(candidates)}
	if res != nil {
		attrs = append(attrs, "accepted", res.Accepted, "rejected", len(res.Rejections))
	}
	l.log(ctx, OpRestore, start, err, attrs...)
	return res, err
}

// ============================================================================
// Metrics
// ============================================================================

// MetricsRecorder receives operation measurements.
type MetricsRecorder interface {
	ObserveOperation(op string, err error, d time.Duration)
	ObserveRestore(accepted, rejected int)
	SetRecordCount(n int)
}

// WithMetrics reports latency and outcome of every operation to rec.
func WithMetrics(rec MetricsRecorder) Middleware {
	return func(next Cabinet) Cabinet {
		return &metricsCabinet{next: next, rec: rec}
	}
}

type metricsCabinet struct {
	next Cabinet
	rec  MetricsRecorder
}

func (m *metricsCabinet) observe(op string, start time.Time, err error) {
	m.rec.ObserveOperation(op, err, time.Since(start))
}

// refreshCount updates the record gauge after a successful mutation.
func (m *metricsCabinet) refreshCount(ctx context.Context, err error) {
	if err != nil {
		return
	}
	if st, serr := m.next.Stat(ctx); serr == nil {
		m.rec.SetRecordCount(st.Count)
	}
}

func (m *metricsCabinet) CreateRecord(ctx context.Context, fields domain.Fields) (int, error) {
	start := time.Now()
	id, err := m.next.CreateRecord(ctx, fields)
	m.observe(OpCreate, start, err)
	m.refreshCount(ctx, err)
	return id, err
}

func (m *metricsCabinet) UpdateRecord(ctx context.Context, id int, fields domain.Fields) error {
	start := time.Now()
	err := m.next.UpdateRecord(ctx, id, fields)
	m.observe(OpUpdate, start, err)
	return err
}

func (m *metricsCabinet) RemoveRecord(ctx context.Context, id int) error {
	start := time.Now()
	err := m.next.RemoveRecord(ctx, id)
	m.observe(OpRemove, start, err)
	m.refreshCount(ctx, err)
	return err
}

func (m *metricsCabinet) GetRecord(ctx context.Context, id int) (domain.Record, error) {
	start := time.Now()
	rec, err := m.next.GetRecord(ctx, id)
	m.observe(OpGet, start, err)
	return rec, err
}

func (m *metricsCabinet) FindByFirstName(ctx context.Context, firstName string) ([]domain.Record, error) {
	start := time.Now()
	recs, err := m.next.FindByFirstName(ctx, firstName)
	m.observe(OpFindByFirstName, start, err)
	return recs, err
}

func (m *metricsCabinet) FindByLastName(ctx context.Context, lastName string) ([]domain.Record, error) {
	start := time.Now()
	recs, err := m.next.FindByLastName(ctx, lastName)
	m.observe(OpFindByLastName, start, err)
	return recs, err
}

func (m *metricsCabinet) FindByDateOfBirth(ctx context.Context, dateOfBirth time.Time) ([]domain.Record, error) {
	start := time.Now()
	recs, err := m.next.FindByDateOfBirth(ctx, dateOfBirth)
	m.observe(OpFindByDateOfBirth, start, err)
	return recs, err
}

func (m *metricsCabinet) GetAll(ctx context.Context) ([]domain.Record, error) {
	start := time.Now()
	recs, err := m.next.GetAll(ctx)
	m.observe(OpGetAll, start, err)
	return recs, err
}

func (m *metricsCabinet) Stat(ctx context.Context) (*Stat, error) {
	start := time.Now()
	st, err := m.next.Stat(ctx)
	m.observe(OpStat, start, err)
	if err == nil {
		m.rec.SetRecordCount(st.Count)
	}
	return st, err
}

func (m *metricsCabinet) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	start := time.Now()
	snap, err := m.next.Snapshot(ctx)
	m.observe(OpSnapshot, start, err)
	return snap, err
}

func (m *metricsCabinet) Restore(ctx context.Context, candidates []domain.Candidate) (*domain.RestoreResult, error) {
	start := time.Now()
	res, err := m.next.Restore(ctx, candidates)
	m.observe(OpRestore, start, err)
	if res != nil {
		m.rec.ObserveRestore(res.Accepted, len(res.Rejections))
	}
	m.refreshCount(ctx, err)
	return res, err
}
