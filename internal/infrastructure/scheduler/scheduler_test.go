package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fifo-valuation-api/internal/application/recalculation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

type fakeConfigs struct {
	mu   sync.Mutex
	list []*entity.RecalculationConfig
	ran  []string
}

func (f *fakeConfigs) Scheduled(context.Context) ([]*entity.RecalculationConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list, nil
}

func (f *fakeConfigs) RunConfig(_ context.Context, id string) (*recalculation.RunDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ran = append(f.ran, id)
	return &recalculation.RunDetail{Run: &entity.RecalculationRun{ID: "r-" + id, State: entity.RecalStatePreview}}, nil
}

type fakeBackups struct {
	calls int
}

func (f *fakeBackups) ExpireBackups(context.Context, time.Time) (int, error) {
	f.calls++
	return 1, nil
}

func TestReload_OmiteExpresionesInvalidas(t *testing.T) {
	cfgs := &fakeConfigs{list: []*entity.RecalculationConfig{
		{ID: "c1", Cron: "0 2 * * *"},
		{ID: "c2", Cron: "no es cron"},
		{ID: "c3", Cron: "@every 1h"},
	}}
	s := New(cfgs, &fakeBackups{}, "", nil, nil)

	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, 2, s.Entries())

	cfgs.list = cfgs.list[:1]
	require.NoError(t, s.Reload(context.Background()))
	assert.Equal(t, 1, s.Entries())
}

func TestStart_CronDeVencimientoInvalido(t *testing.T) {
	s := New(&fakeConfigs{}, &fakeBackups{}, "cada noche", nil, nil)
	assert.Error(t, s.Start(context.Background()))
}

func TestTrabajos_EjecutanCasosDeUso(t *testing.T) {
	cfgs := &fakeConfigs{}
	backups := &fakeBackups{}
	s := New(cfgs, backups, "30 3 * * *", nil, nil)

	s.runConfig("c1")
	s.expireBackups()

	assert.Equal(t, []string{"c1"}, cfgs.ran)
	assert.Equal(t, 1, backups.calls)
}
