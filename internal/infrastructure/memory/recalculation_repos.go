package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

var (
	_ repository.RecalculationRepository = (*runRepo)(nil)
	_ repository.BackupRepository        = (*backupRepo)(nil)
	_ repository.ConfigRepository        = (*configRepo)(nil)
)

type runRepo struct{ s *state }

func copyRun(r entity.RecalculationRun) entity.RecalculationRun {
	r.Scope.WarehouseIDs = append([]string(nil), r.Scope.WarehouseIDs...)
	r.Scope.ProductIDs = append([]string(nil), r.Scope.ProductIDs...)
	r.Scope.CategoryIDs = append([]string(nil), r.Scope.CategoryIDs...)
	r.Log = append([]string(nil), r.Log...)
	lines := make([]entity.PreviewLine, len(r.PreviewLines))
	for i, l := range r.PreviewLines {
		l.Warnings = append([]string(nil), l.Warnings...)
		lines[i] = l
	}
	r.PreviewLines = lines
	return r
}

func (r *runRepo) Create(_ context.Context, run *entity.RecalculationRun) error {
	if _, ok := r.s.runs[run.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.runs[run.ID] = copyRun(*run)
	return nil
}

func (r *runRepo) Update(_ context.Context, run *entity.RecalculationRun) error {
	if _, ok := r.s.runs[run.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.runs[run.ID] = copyRun(*run)
	return nil
}

func (r *runRepo) GetByID(_ context.Context, id string) (*entity.RecalculationRun, error) {
	run, ok := r.s.runs[id]
	if !ok {
		return nil, nil
	}
	c := copyRun(run)
	return &c, nil
}

func (r *runRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.RecalculationRun, error) {
	var out []*entity.RecalculationRun
	for _, run := range r.s.runs {
		if run.Scope.CompanyID == companyID {
			c := copyRun(run)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

type backupRepo struct{ s *state }

var errSimulated = errors.New("falla simulada")

func (r *backupRepo) Create(_ context.Context, b *entity.RecalculationBackup) error {
	if _, ok := r.s.backups[b.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.backups[b.ID] = *b
	return nil
}

func (r *backupRepo) CreateLines(ctx context.Context, lines []*entity.BackupLine) error {
	if r.s.hooks != nil && r.s.hooks.FailBackupBatch {
		return errSimulated
	}
	for _, l := range lines {
		if err := r.CreateLine(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *backupRepo) CreateLine(_ context.Context, l *entity.BackupLine) error {
	if r.s.hooks != nil && r.s.hooks.FailBackupLine[l.LayerID] {
		return errSimulated
	}
	r.s.lineSeq++
	l.ID = r.s.lineSeq
	// append sobre una copia: el slice puede estar compartido con el estado publicado.
	cur := r.s.backupLines[l.BackupID]
	r.s.backupLines[l.BackupID] = append(append([]entity.BackupLine(nil), cur...), *l)
	return nil
}

func (r *backupRepo) CreateUsageLines(_ context.Context, lines []*entity.BackupUsageLine) error {
	for _, l := range lines {
		cur := r.s.backupUsages[l.BackupID]
		r.s.backupUsages[l.BackupID] = append(append([]entity.BackupUsageLine(nil), cur...), *l)
	}
	return nil
}

func (r *backupRepo) CreateAllocationLines(_ context.Context, lines []*entity.BackupAllocationLine) error {
	for _, l := range lines {
		cur := r.s.backupAllocs[l.BackupID]
		r.s.backupAllocs[l.BackupID] = append(append([]entity.BackupAllocationLine(nil), cur...), *l)
	}
	return nil
}

func (r *backupRepo) GetByID(_ context.Context, id string) (*entity.RecalculationBackup, error) {
	b, ok := r.s.backups[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *backupRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.RecalculationBackup, error) {
	var out []*entity.RecalculationBackup
	for _, b := range r.s.backups {
		if b.CompanyID == companyID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *backupRepo) ListLines(_ context.Context, backupID string) ([]*entity.BackupLine, error) {
	src := r.s.backupLines[backupID]
	out := make([]*entity.BackupLine, 0, len(src))
	for _, l := range src {
		l := l
		out = append(out, &l)
	}
	return out, nil
}

func (r *backupRepo) ListUsageLines(_ context.Context, backupID string) ([]*entity.BackupUsageLine, error) {
	src := r.s.backupUsages[backupID]
	out := make([]*entity.BackupUsageLine, 0, len(src))
	for _, l := range src {
		l := l
		out = append(out, &l)
	}
	return out, nil
}

func (r *backupRepo) ListAllocationLines(_ context.Context, backupID string) ([]*entity.BackupAllocationLine, error) {
	src := r.s.backupAllocs[backupID]
	out := make([]*entity.BackupAllocationLine, 0, len(src))
	for _, l := range src {
		l := l
		out = append(out, &l)
	}
	return out, nil
}

func (r *backupRepo) UpdateCounts(_ context.Context, b *entity.RecalculationBackup) error {
	cur, ok := r.s.backups[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.LayerCount, cur.FailedLineCount = b.LayerCount, b.FailedLineCount
	r.s.backups[b.ID] = cur
	return nil
}

func (r *backupRepo) UpdateState(_ context.Context, id, st string, at time.Time) error {
	cur, ok := r.s.backups[id]
	if !ok {
		return domain.ErrNotFound
	}
	cur.State = st
	if st == entity.BackupStateRestored {
		cur.RestoredAt = &at
	}
	r.s.backups[id] = cur
	return nil
}

func (r *backupRepo) ListExpired(_ context.Context, now time.Time) ([]*entity.RecalculationBackup, error) {
	var out []*entity.RecalculationBackup
	for _, b := range r.s.backups {
		if b.State == entity.BackupStateActive && !b.ExpiresAt.IsZero() && b.ExpiresAt.Before(now) {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type configRepo struct{ s *state }

func copyConfig(c entity.RecalculationConfig) entity.RecalculationConfig {
	c.WarehouseIDs = append([]string(nil), c.WarehouseIDs...)
	c.ProductIDs = append([]string(nil), c.ProductIDs...)
	c.CategoryIDs = append([]string(nil), c.CategoryIDs...)
	c.NotifyEmails = append([]string(nil), c.NotifyEmails...)
	return c
}

func (r *configRepo) GetParam(_ context.Context, key string) (string, bool, error) {
	v, ok := r.s.params[key]
	return v, ok, nil
}

func (r *configRepo) SetParam(_ context.Context, key, value string) error {
	r.s.params[key] = value
	return nil
}

func (r *configRepo) CreateConfig(_ context.Context, c *entity.RecalculationConfig) error {
	for _, other := range r.s.configs {
		if other.CompanyID == c.CompanyID && other.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.configs[c.ID] = copyConfig(*c)
	return nil
}

func (r *configRepo) UpdateConfig(_ context.Context, c *entity.RecalculationConfig) error {
	if _, ok := r.s.configs[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.configs {
		if other.ID != c.ID && other.CompanyID == c.CompanyID && other.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.configs[c.ID] = copyConfig(*c)
	return nil
}

func (r *configRepo) GetConfig(_ context.Context, id string) (*entity.RecalculationConfig, error) {
	c, ok := r.s.configs[id]
	if !ok {
		return nil, nil
	}
	cp := copyConfig(c)
	return &cp, nil
}

func (r *configRepo) GetDefaultConfig(_ context.Context, companyID string) (*entity.RecalculationConfig, error) {
	for _, c := range r.s.configs {
		if c.CompanyID == companyID && c.IsDefault {
			cp := copyConfig(c)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *configRepo) ListConfigs(_ context.Context, companyID string) ([]*entity.RecalculationConfig, error) {
	var out []*entity.RecalculationConfig
	for _, c := range r.s.configs {
		if c.CompanyID == companyID {
			cp := copyConfig(c)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *configRepo) ListScheduled(_ context.Context) ([]*entity.RecalculationConfig, error) {
	var out []*entity.RecalculationConfig
	for _, c := range r.s.configs {
		if c.Active && c.Cron != "" {
			cp := copyConfig(c)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *configRepo) ClearDefault(_ context.Context, companyID, exceptID string) error {
	for id, c := range r.s.configs {
		if c.CompanyID == companyID && id != exceptID && c.IsDefault {
			c.IsDefault = false
			r.s.configs[id] = c
		}
	}
	return nil
}
