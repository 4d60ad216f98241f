package storage_test

import (
	"context"
	"errors"
	"testing"

	"group-bridge/internal/storage"
)

func TestGroupRepo_CreateAndFind(t *testing.T) {
	s := setupTestStorage(t)
	agencyID := seedAgency(t, s, "Acme", "agency", true)
	repo := storage.NewGroupRepo(s)
	ctx := context.Background()

	id, err := repo.Create(ctx, agencyID, "ext-123", "Support Group", true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a generated id")
	}

	byExt, err := repo.FindByExternalID(ctx, "ext-123")
	if err != nil {
		t.Fatalf("FindByExternalID failed: %v", err)
	}
	if byExt.ID != id || byExt.AgencyID != agencyID || byExt.Name != "Support Group" || !byExt.IsActive {
		t.Errorf("unexpected group: %+v", byExt)
	}

	byID, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byID.ExternalID != "ext-123" {
		t.Errorf("expected external id 'ext-123', got %q", byID.ExternalID)
	}
}

func TestGroupRepo_NotFound(t *testing.T) {
	s := setupTestStorage(t)
	repo := storage.NewGroupRepo(s)
	ctx := context.Background()

	if _, err := repo.FindByExternalID(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, 404); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.AgencyIDForGroup(ctx, 404); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGroupRepo_DuplicateExternalID(t *testing.T) {
	s := setupTestStorage(t)
	agencyID := seedAgency(t, s, "Acme", "agency", true)
	repo := storage.NewGroupRepo(s)
	ctx := context.Background()

	if _, err := repo.Create(ctx, agencyID, "ext-dup", "First", true); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := repo.Create(ctx, agencyID, "ext-dup", "Second", true)
	if err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
	if !storage.IsDuplicate(err) {
		t.Errorf("IsDuplicate(%v) = false, want true", err)
	}
}

func TestGroupRepo_AgencyIDForGroup(t *testing.T) {
	s := setupTestStorage(t)
	agencyID := seedAgency(t, s, "Acme", "agency", true)
	repo := storage.NewGroupRepo(s)
	ctx := context.Background()

	id, err := repo.Create(ctx, agencyID, "ext-9", "G", true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.AgencyIDForGroup(ctx, id)
	if err != nil {
		t.Fatalf("AgencyIDForGroup failed: %v", err)
	}
	if got != agencyID {
		t.Errorf("expected agency %d, got %d", agencyID, got)
	}
}

func TestGroupRepo_ListAndCount(t *testing.T) {
	s := setupTestStorage(t)
	agencyID := seedAgency(t, s, "Acme", "agency", true)
	repo := storage.NewGroupRepo(s)
	ctx := context.Background()

	for _, ext := range []string{"a", "b", "c"} {
		if _, err := repo.Create(ctx, agencyID, ext, "G-"+ext, true); err != nil {
			t.Fatalf("Create %s failed: %v", ext, err)
		}
	}

	groups, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	// Newest first
	if groups[0].ExternalID != "c" {
		t.Errorf("expected newest group first, got %q", groups[0].ExternalID)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected count 3, got %d", n)
	}
}
