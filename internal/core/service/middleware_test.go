package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/service"
)

type recordingMetrics struct {
	mu       sync.Mutex
	ops      map[string]int
	failures map[string]int
	count    int
	accepted int
	rejected int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{ops: map[string]int{}, failures: map[string]int{}}
}

func (m *recordingMetrics) ObserveOperation(op string, err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops[op]++
	if err != nil {
		m.failures[op]++
	}
}

func (m *recordingMetrics) ObserveRestore(accepted, rejected int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accepted += accepted
	m.rejected += rejected
}

func (m *recordingMetrics) SetRecordCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count = n
}

func TestChain_PreservesOutcomes(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := newRecordingMetrics()

	c := service.Chain(svc, service.WithLogging(logger), service.WithMetrics(metrics))

	id, err := c.CreateRecord(ctx, fields("Jon", "Smith", day(1990, 1, 1), 10, 1000))
	require.NoError(t, err)
	require.Equal(t, 1, id)

	_, err = c.CreateRecord(ctx, fields("J", "Smith", day(1990, 1, 1), 10, 1000))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	require.ErrorIs(t, c.RemoveRecord(ctx, 99), domain.ErrRecordNotFound)

	found, err := c.FindByLastName(ctx, "SMITH")
	require.NoError(t, err)
	require.Len(t, found, 1)

	res, err := c.Restore(ctx, []domain.Candidate{
		{ID: 4, Fields: fields("Ann", "Lee", day(1985, 5, 5), 3, 2000)},
		{ID: 5, Err: errors.New("bad row")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Accepted)

	assert.Equal(t, 2, metrics.ops[service.OpCreate])
	assert.Equal(t, 1, metrics.failures[service.OpCreate])
	assert.Equal(t, 1, metrics.failures[service.OpRemove])
	assert.Equal(t, 1, metrics.accepted)
	assert.Equal(t, 1, metrics.rejected)
	assert.Equal(t, 2, metrics.count)

	out := buf.String()
	for _, want := range []string{"op=create", "op=remove", "cabinet operation failed", "op=restore", "rejected=1"} {
		assert.Contains(t, out, want)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	trace := func(name string) service.Middleware {
		return func(next service.Cabinet) service.Cabinet {
			order = append(order, name)
			return next
		}
	}

	svc, _ := newService(t)
	service.Chain(svc, trace("outer"), trace("inner"))

	// Wrapping happens inside-out.
	assert.Equal(t, []string{"inner", "outer"}, order)
}
