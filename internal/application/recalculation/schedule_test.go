package recalculation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

func (f *fixture) configMarzo(name string) dto.RecalculationConfigRequest {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	return dto.RecalculationConfigRequest{
		Name:             name,
		Cron:             "0 2 * * *",
		DateFrom:         &from,
		DateTo:           &to,
		DeletionStrategy: entity.DeleteStrategyAllProduct,
		NotifyEmails:     []string{"costos@example.com"},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Configuraciones
// ─────────────────────────────────────────────────────────────────────────────

func TestConfig_UnicaPorDefecto(t *testing.T) {
	f := newFixture(t)

	in := f.configMarzo("nocturna")
	in.IsDefault = true
	first, err := f.schedule.CreateConfig(f.ctx, company, in)
	require.NoError(t, err)
	assert.True(t, first.Active)
	assert.Equal(t, entity.DefaultBatchSize, first.BatchSize)

	in = f.configMarzo("semanal")
	in.IsDefault = true
	second, err := f.schedule.CreateConfig(f.ctx, company, in)
	require.NoError(t, err)

	def, err := f.schedule.DefaultConfig(f.ctx, company)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	got, err := f.schedule.GetConfig(f.ctx, company, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)

	all, err := f.schedule.ListConfigs(f.ctx, company)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestConfig_Validaciones(t *testing.T) {
	f := newFixture(t)

	in := f.configMarzo("mala")
	in.Cron = "cada hora"
	_, err := f.schedule.CreateConfig(f.ctx, company, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = f.configMarzo("sin rango")
	in.DateFrom, in.DateTo = nil, nil
	_, err = f.schedule.CreateConfig(f.ctx, company, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = f.configMarzo("lote")
	in.BatchSize = 5000
	_, err = f.schedule.CreateConfig(f.ctx, company, in)
	assert.ErrorIs(t, err, domain.ErrInvalidBatchSize)

	_, err = f.schedule.CreateConfig(f.ctx, company, f.configMarzo("repetida"))
	require.NoError(t, err)
	_, err = f.schedule.CreateConfig(f.ctx, company, f.configMarzo("repetida"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.schedule.GetConfig(f.ctx, "otra", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Ejecución programada
// ─────────────────────────────────────────────────────────────────────────────

func TestRunConfig_AutoApplyNotificaConAdjunto(t *testing.T) {
	f := newFixture(t)
	f.historial()

	in := f.configMarzo("nocturna")
	in.AutoApply = true
	cfg, err := f.schedule.CreateConfig(f.ctx, company, in)
	require.NoError(t, err)

	detail, err := f.schedule.RunConfig(f.ctx, cfg.ID)
	require.NoError(t, err)
	run := detail.Run
	assert.Equal(t, entity.RecalStateDone, run.State)
	assert.Equal(t, cfg.ID, run.ConfigID)
	assert.Equal(t, "scheduler", run.CreatedBy)
	assert.False(t, run.DryRun)
	assert.Equal(t, 5, run.CreatedCount)
	assert.True(t, detail.CanRollback())

	require.Len(t, f.notifier.sent, 1)
	n := f.notifier.sent[0]
	assert.Equal(t, []string{"costos@example.com"}, n.To)
	assert.Contains(t, n.Subject, "nocturna")
	assert.Contains(t, n.Body, "Capas borradas: 5, creadas: 5")
	assert.Equal(t, "recalculo_"+run.ID+".xlsx", n.AttachmentName)
	assert.Equal(t, []byte("xlsx:"+run.ID), n.Attachment)

	got, err := f.schedule.GetConfig(f.ctx, company, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.LastRunID)
	assert.NotNil(t, got.LastRunAt)
}

func TestRunDefault_SinAutoApplyQuedaEnPreview(t *testing.T) {
	f := newFixture(t)
	f.historial()

	in := f.configMarzo("revisión")
	in.IsDefault = true
	_, err := f.schedule.CreateConfig(f.ctx, company, in)
	require.NoError(t, err)

	detail, err := f.schedule.RunDefault(f.ctx, company)
	require.NoError(t, err)
	assert.Equal(t, entity.RecalStatePreview, detail.Run.State)
	assert.True(t, detail.Run.DryRun)
	assert.Len(t, detail.Run.PreviewLines, 2)
	require.Len(t, f.notifier.sent, 1)
	assert.NotEmpty(t, f.notifier.sent[0].Attachment)

	_, err = f.recal.Apply(f.ctx, company, detail.Run.ID)
	assert.ErrorIs(t, err, domain.ErrDryRun)
}

func TestRunDefault_SinConfiguracion(t *testing.T) {
	f := newFixture(t)
	_, err := f.schedule.RunDefault(f.ctx, company)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.schedule.RunConfig(f.ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
