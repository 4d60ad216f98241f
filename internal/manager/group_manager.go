// internal/manager/group_manager.go
package manager

import (
	"context"
	"errors"
	"log"

	"group-bridge/internal/metrics"
	"group-bridge/internal/model"
	"group-bridge/internal/resolver"
	"group-bridge/internal/storage"
)

// GroupStore is the persistence surface the manager needs, implemented
// by storage.GroupRepo.
type GroupStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*model.Group, error)
	FindByID(ctx context.Context, id int64) (*model.Group, error)
	Create(ctx context.Context, agencyID int64, externalID, name string, isActive bool) (int64, error)
	AgencyIDForGroup(ctx context.Context, id int64) (int64, error)
}

// AgencyResolver picks the owning agency when none is given explicitly.
type AgencyResolver interface {
	Resolve(ctx context.Context, overrideID int64) (int64, resolver.Tier, error)
}

// GroupManager is the idempotent entry point mapping external group
// identifiers to owned group records. Correctness under concurrent
// first observations is delegated to the store's unique constraint on
// external_id plus the bounded duplicate-key recovery below; no
// in-process locking.
type GroupManager struct {
	groups   GroupStore
	resolver AgencyResolver

	// overrideID returns the operator-configured default agency id
	// (0 = unset), read once per resolution attempt.
	overrideID func() int64

	placeholderName string
}

func NewGroupManager(groups GroupStore, res AgencyResolver, overrideID func() int64, placeholderName string) *GroupManager {
	if overrideID == nil {
		overrideID = func() int64 { return 0 }
	}
	if placeholderName == "" {
		placeholderName = "Unnamed Group"
	}
	return &GroupManager{
		groups:          groups,
		resolver:        res,
		overrideID:      overrideID,
		placeholderName: placeholderName,
	}
}

// ResolveOrRegister returns the group for externalID, creating it on
// first sight. explicitAgencyID (0 = none) only applies to creation;
// ownership of an existing group is immutable here, so a differing
// explicit id on a later call is ignored.
func (m *GroupManager) ResolveOrRegister(ctx context.Context, externalID, displayName string, explicitAgencyID int64) (*model.Group, error) {
	existing, err := m.groups.FindByExternalID(ctx, externalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("find group %s failed: %v", externalID, err)
		return nil, storeErr("find group", externalID, err)
	}

	agencyID := explicitAgencyID
	if agencyID == 0 {
		var tier resolver.Tier
		agencyID, tier, err = m.resolver.Resolve(ctx, m.overrideID())
		if err != nil {
			if errors.Is(err, ErrNoAgencyAvailable) {
				metrics.ResolutionFailures.WithLabelValues("no_agency").Inc()
				log.Printf("cannot register group %s: no agency available", externalID)
				return nil, err
			}
			return nil, storeErr("resolve agency", externalID, err)
		}
		log.Printf("group %s: owner resolved to agency %d (tier=%s)", externalID, agencyID, tier)
	}

	name := displayName
	if name == "" {
		name = m.placeholderName
	}

	id, err := m.groups.Create(ctx, agencyID, externalID, name, true)
	if err != nil {
		if storage.IsDuplicate(err) {
			// A concurrent caller won the race for this external id.
			// Exactly one recovery attempt: re-read and return theirs.
			metrics.DuplicateRecoveries.Inc()
			log.Printf("group %s: lost creation race, returning existing row", externalID)
			winner, ferr := m.groups.FindByExternalID(ctx, externalID)
			if ferr == nil {
				return winner, nil
			}
			if errors.Is(ferr, storage.ErrNotFound) {
				metrics.ResolutionFailures.WithLabelValues("inconsistency").Inc()
				log.Printf("ERROR group %s: duplicate key reported but no row found", externalID)
				return nil, ErrCreationInconsistency
			}
			return nil, storeErr("find group after duplicate", externalID, ferr)
		}
		log.Printf("create group %s failed: %v", externalID, err)
		return nil, storeErr("create group", externalID, err)
	}

	// The insert only hands back a generated key; re-read for the
	// canonical row.
	created, err := m.groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			metrics.ResolutionFailures.WithLabelValues("inconsistency").Inc()
			log.Printf("ERROR group %s: insert returned id %d but the row is gone", externalID, id)
			return nil, ErrCreationInconsistency
		}
		return nil, storeErr("find created group", externalID, err)
	}

	metrics.GroupsRegistered.Inc()
	log.Printf("Registered group %s (id=%d) under agency %d", externalID, created.ID, created.AgencyID)
	return created, nil
}

// AgencyIDForGroup reports which agency a group's traffic belongs to.
// Returns storage.ErrNotFound for an unknown group id.
func (m *GroupManager) AgencyIDForGroup(ctx context.Context, groupID int64) (int64, error) {
	id, err := m.groups.AgencyIDForGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, err
		}
		return 0, storeErr("find agency for group", "", err)
	}
	return id, nil
}
