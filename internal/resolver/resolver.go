// internal/resolver/resolver.go
package resolver

import (
	"context"
	"errors"
	"log"

	"group-bridge/internal/metrics"
	"group-bridge/internal/model"
	"group-bridge/internal/storage"
)

// ErrNoAgencyAvailable means no agency exists to own an implicitly
// created group. Requires operator action: create an agency or set the
// default_agency_id override.
var ErrNoAgencyAvailable = errors.New("no agency available to own group")

// AgencyDirectory is the read surface the resolver needs. Both queries
// map onto single statements in storage.AgencyRepo.
type AgencyDirectory interface {
	ActiveNonOperators(ctx context.Context) ([]model.Agency, error)
	FirstActive(ctx context.Context) (*model.Agency, error)
}

// Tier identifies which fallback level produced the agency.
type Tier int

const (
	// TierOverride: the configured default_agency_id, used verbatim.
	// An invalid configured id surfaces later as a foreign-key failure
	// at insert time, not here.
	TierOverride Tier = iota + 1
	// TierSingle: exactly one active non-operator agency exists.
	TierSingle
	// TierAmbiguous: several candidates, lowest id wins. Warned.
	TierAmbiguous
	// TierAnyActive: only operator agencies are active. Warned.
	TierAnyActive
)

func (t Tier) String() string {
	switch t {
	case TierOverride:
		return "override"
	case TierSingle:
		return "single"
	case TierAmbiguous:
		return "ambiguous"
	case TierAnyActive:
		return "any_active"
	}
	return "unknown"
}

// Resolver picks the owning agency for a group created without an
// explicit owner. Tiers are evaluated lazily, first match wins, and
// every tier is a single read.
type Resolver struct {
	agencies AgencyDirectory
}

func New(agencies AgencyDirectory) *Resolver {
	return &Resolver{agencies: agencies}
}

// Resolve returns the agency id to own a new group. overrideID is the
// operator-configured default (0 = unset), passed in explicitly so the
// resolver carries no ambient state.
func (r *Resolver) Resolve(ctx context.Context, overrideID int64) (int64, Tier, error) {
	if overrideID != 0 {
		return overrideID, TierOverride, nil
	}

	candidates, err := r.agencies.ActiveNonOperators(ctx)
	if err != nil {
		return 0, 0, err
	}
	switch {
	case len(candidates) == 1:
		return candidates[0].ID, TierSingle, nil
	case len(candidates) > 1:
		// Ordered by id, so the first is the deterministic pick. The
		// warning tells operators to configure default_agency_id.
		metrics.AmbiguousDefaults.Inc()
		log.Printf("⚠️ %d active agencies and no default_agency_id configured, defaulting to agency %d (%s)",
			len(candidates), candidates[0].ID, candidates[0].Name)
		return candidates[0].ID, TierAmbiguous, nil
	}

	// No active non-operator agency at all. Last resort: any active
	// agency, operators included.
	fallback, err := r.agencies.FirstActive(ctx)
	if err == nil {
		log.Printf("⚠️ no active non-operator agency, assigning group to %q (role=%s)",
			fallback.Name, fallback.Role)
		return fallback.ID, TierAnyActive, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return 0, 0, ErrNoAgencyAvailable
	}
	return 0, 0, err
}
