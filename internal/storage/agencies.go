// internal/storage/agencies.go
package storage

import (
	"context"

	"group-bridge/internal/model"
)

// AgencyRepo reads agency records. Agencies are provisioned and
// mutated by the dashboard; this service never writes them.
type AgencyRepo struct {
	store *Storage
}

func NewAgencyRepo(store *Storage) *AgencyRepo {
	return &AgencyRepo{store: store}
}

func agencyFromRow(r Row) model.Agency {
	return model.Agency{
		ID:       r.Int64("id"),
		Name:     r.String("name"),
		Role:     r.String("role"),
		IsActive: r.Bool("is_active"),
	}
}

// ActiveNonOperators returns active agencies excluding platform
// operators, lowest id first. The ordering is what makes the
// multi-tenant default deterministic.
func (a *AgencyRepo) ActiveNonOperators(ctx context.Context) ([]model.Agency, error) {
	rows, err := a.store.Query(ctx,
		`SELECT id, name, role, is_active FROM agencies WHERE is_active = ? AND role != ? ORDER BY id`,
		a.store.Dialect().BoolValue(true), model.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}
	agencies := make([]model.Agency, 0, len(rows))
	for _, r := range rows {
		agencies = append(agencies, agencyFromRow(r))
	}
	return agencies, nil
}

// FirstActive returns the lowest-id active agency of any role, or
// ErrNotFound when none exists.
func (a *AgencyRepo) FirstActive(ctx context.Context) (*model.Agency, error) {
	rows, err := a.store.Query(ctx,
		`SELECT id, name, role, is_active FROM agencies WHERE is_active = ? ORDER BY id LIMIT 1`,
		a.store.Dialect().BoolValue(true))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	agency := agencyFromRow(rows[0])
	return &agency, nil
}

// List returns all agencies, lowest id first.
func (a *AgencyRepo) List(ctx context.Context) ([]model.Agency, error) {
	rows, err := a.store.Query(ctx,
		`SELECT id, name, role, is_active FROM agencies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	agencies := make([]model.Agency, 0, len(rows))
	for _, r := range rows {
		agencies = append(agencies, agencyFromRow(r))
	}
	return agencies, nil
}

// Count returns the number of agencies.
func (a *AgencyRepo) Count(ctx context.Context) (int64, error) {
	rows, err := a.store.Query(ctx, `SELECT COUNT(*) AS n FROM agencies`)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int64("n"), nil
}
