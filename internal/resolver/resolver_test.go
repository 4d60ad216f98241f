package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"group-bridge/internal/model"
	"group-bridge/internal/storage"
)

type fakeDirectory struct {
	active []model.Agency
	first  *model.Agency
	err    error

	activeCalls int
	firstCalls  int
}

func (f *fakeDirectory) ActiveNonOperators(ctx context.Context) ([]model.Agency, error) {
	f.activeCalls++
	return f.active, f.err
}

func (f *fakeDirectory) FirstActive(ctx context.Context) (*model.Agency, error) {
	f.firstCalls++
	if f.err != nil {
		return nil, f.err
	}
	if f.first == nil {
		return nil, storage.ErrNotFound
	}
	return f.first, nil
}

func TestResolveOverrideBeatsAutoDetect(t *testing.T) {
	// Even with exactly one active non-operator agency present, the
	// configured override wins.
	dir := &fakeDirectory{active: []model.Agency{{ID: 5, Name: "Solo", Role: "agency", IsActive: true}}}
	r := New(dir)

	id, tier, err := r.Resolve(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
	require.Equal(t, TierOverride, tier)
	// Lazy: no query should have run at all.
	require.Zero(t, dir.activeCalls)
	require.Zero(t, dir.firstCalls)
}

func TestResolveSingleTenant(t *testing.T) {
	dir := &fakeDirectory{active: []model.Agency{{ID: 5, Name: "Solo", Role: "agency", IsActive: true}}}
	r := New(dir)

	id, tier, err := r.Resolve(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, int64(5), id)
	require.Equal(t, TierSingle, tier)
	require.Zero(t, dir.firstCalls)
}

func TestResolveMultiTenantLowestID(t *testing.T) {
	dir := &fakeDirectory{active: []model.Agency{
		{ID: 3, Name: "A", Role: "agency", IsActive: true},
		{ID: 7, Name: "B", Role: "agency", IsActive: true},
	}}
	r := New(dir)

	id, tier, err := r.Resolve(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), id)
	// The ambiguous pick must be distinguishable from the single-tenant
	// case so operators know to configure an override.
	require.Equal(t, TierAmbiguous, tier)
	require.NotEqual(t, TierSingle, tier)
}

func TestResolveAnyActiveFallback(t *testing.T) {
	dir := &fakeDirectory{
		first: &model.Agency{ID: 1, Name: "Platform Ops", Role: model.RoleSuperAdmin, IsActive: true},
	}
	r := New(dir)

	id, tier, err := r.Resolve(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
	require.Equal(t, TierAnyActive, tier)
	require.Equal(t, 1, dir.activeCalls)
	require.Equal(t, 1, dir.firstCalls)
}

func TestResolveNoAgency(t *testing.T) {
	r := New(&fakeDirectory{})

	_, _, err := r.Resolve(context.Background(), 0)
	require.ErrorIs(t, err, ErrNoAgencyAvailable)
}

func TestResolveStoreErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	r := New(&fakeDirectory{err: boom})

	_, _, err := r.Resolve(context.Background(), 0)
	require.ErrorIs(t, err, boom)
}
