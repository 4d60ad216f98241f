// internal/storage/groups.go
package storage

import (
	"context"

	"group-bridge/internal/model"
)

// GroupRepo persists group ↔ agency mappings. No business logic lives
// here; ownership policy is the resolver's job.
type GroupRepo struct {
	store *Storage
}

func NewGroupRepo(store *Storage) *GroupRepo {
	return &GroupRepo{store: store}
}

func groupFromRow(r Row) *model.Group {
	return &model.Group{
		ID:         r.Int64("id"),
		AgencyID:   r.Int64("agency_id"),
		ExternalID: r.String("external_id"),
		Name:       r.String("name"),
		IsActive:   r.Bool("is_active"),
	}
}

// FindByExternalID returns the group observed under the platform's
// identifier, or ErrNotFound. At most one row can match; external_id
// is constraint-backed unique.
func (g *GroupRepo) FindByExternalID(ctx context.Context, externalID string) (*model.Group, error) {
	rows, err := g.store.Query(ctx,
		`SELECT id, agency_id, external_id, name, is_active FROM groups WHERE external_id = ?`,
		externalID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return groupFromRow(rows[0]), nil
}

// FindByID returns a group by its internal id, or ErrNotFound.
func (g *GroupRepo) FindByID(ctx context.Context, id int64) (*model.Group, error) {
	rows, err := g.store.Query(ctx,
		`SELECT id, agency_id, external_id, name, is_active FROM groups WHERE id = ?`,
		id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return groupFromRow(rows[0]), nil
}

// Create inserts a new group row and returns the generated id. A
// concurrent creator racing on the same external_id surfaces as a
// duplicate-key error (see IsDuplicate); callers recover by re-reading.
func (g *GroupRepo) Create(ctx context.Context, agencyID int64, externalID, name string, isActive bool) (int64, error) {
	return g.store.Insert(ctx,
		`INSERT INTO groups (agency_id, external_id, name, is_active) VALUES (?, ?, ?, ?)`,
		agencyID, externalID, name, g.store.Dialect().BoolValue(isActive))
}

// AgencyIDForGroup is the passthrough read used by message routing to
// find which agency a group's traffic belongs to.
func (g *GroupRepo) AgencyIDForGroup(ctx context.Context, id int64) (int64, error) {
	rows, err := g.store.Query(ctx, `SELECT agency_id FROM groups WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, ErrNotFound
	}
	return rows[0].Int64("agency_id"), nil
}

// List returns all groups, newest first.
func (g *GroupRepo) List(ctx context.Context) ([]model.Group, error) {
	rows, err := g.store.Query(ctx,
		`SELECT id, agency_id, external_id, name, is_active FROM groups ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	groups := make([]model.Group, 0, len(rows))
	for _, r := range rows {
		groups = append(groups, *groupFromRow(r))
	}
	return groups, nil
}

// Count returns the number of registered groups.
func (g *GroupRepo) Count(ctx context.Context) (int64, error) {
	rows, err := g.store.Query(ctx, `SELECT COUNT(*) AS n FROM groups`)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Int64("n"), nil
}
