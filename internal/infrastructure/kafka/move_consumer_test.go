package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
)

// ───── fakes ─────

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	drained   chan struct{}
}

func newFakeReader(values ...string) *fakeReader {
	r := &fakeReader{drained: make(chan struct{})}
	for i, v := range values {
		r.msgs = append(r.msgs, kafka.Message{Offset: int64(i), Value: []byte(v)})
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	select {
	case <-r.drained:
	default:
		close(r.drained)
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type fakeHandler struct {
	mu    sync.Mutex
	calls []string
	errs  map[string][]error
}

func (h *fakeHandler) Handle(_ context.Context, companyID string, in dto.MoveRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, companyID+"/"+in.ID)
	if q := h.errs[in.ID]; len(q) > 0 {
		err := q[0]
		h.errs[in.ID] = q[1:]
		return err
	}
	return nil
}

type countRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countRecorder) EventConsumed(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[status]++
}

func run(t *testing.T, c *MoveConsumer, r *fakeReader) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	select {
	case <-r.drained:
	case <-time.After(5 * time.Second):
		t.Fatal("el consumidor no terminó de leer")
	}
	cancel()
	require.NoError(t, <-done)
}

const move = `{"id":"%s","product_id":"p1","source_location_id":"sup","destination_location_id":"a-stock",
	"quantity":"10","state":"done","price_unit":"10","date":"2026-03-01T08:00:00Z"%s}`

func msg(id, extra string) string {
	return fmt.Sprintf(move, id, extra)
}

// ───── tests ─────

func TestRun_ValoraYConfirma(t *testing.T) {
	r := newFakeReader(msg("m1", `,"company_id":"c1"`), msg("m2", ""))
	h := &fakeHandler{errs: map[string][]error{}}
	rec := &countRecorder{counts: map[string]int{}}
	c := NewMoveConsumer(r, h, "default", rec, nil)

	run(t, c, r)

	assert.Equal(t, []string{"c1/m1", "default/m2"}, h.calls)
	assert.Equal(t, []int64{0, 1}, r.committed)
	assert.Equal(t, 2, rec.counts["ok"])
}

func TestRun_MensajeInvalidoSeDescarta(t *testing.T) {
	r := newFakeReader(`{no es json`, `{"id":"m3","company_id":"c1"}`)
	h := &fakeHandler{errs: map[string][]error{}}
	rec := &countRecorder{counts: map[string]int{}}
	c := NewMoveConsumer(r, h, "", rec, nil)

	run(t, c, r)

	assert.Empty(t, h.calls)
	assert.Equal(t, []int64{0, 1}, r.committed)
	assert.Equal(t, 2, rec.counts["skipped"])
}

func TestRun_ErrorDeNegocioNoReintenta(t *testing.T) {
	r := newFakeReader(msg("m4", ""))
	h := &fakeHandler{errs: map[string][]error{"m4": {&domain.ShortageError{ProductID: "p1"}}}}
	c := NewMoveConsumer(r, h, "c1", nil, nil)

	run(t, c, r)

	assert.Equal(t, []string{"c1/m4"}, h.calls)
	assert.Equal(t, []int64{0}, r.committed)
}

func TestRun_ErrorTransitorioReintenta(t *testing.T) {
	r := newFakeReader(msg("m5", ""))
	h := &fakeHandler{errs: map[string][]error{"m5": {errors.New("conexión perdida")}}}
	rec := &countRecorder{counts: map[string]int{}}
	c := NewMoveConsumer(r, h, "c1", rec, nil)
	c.backoff = time.Millisecond

	run(t, c, r)

	assert.Equal(t, []string{"c1/m5", "c1/m5"}, h.calls)
	assert.Equal(t, []int64{0}, r.committed)
	assert.Equal(t, 1, rec.counts["failed"])
	assert.Equal(t, 1, rec.counts["ok"])
}
