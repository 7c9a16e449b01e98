package store

import (
	"context"
	"fmt"
	"sync"

	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"

	"github.com/smilemakc/trainerflow/internal/domain"
)

// MemStore is an in-memory Store, grounded on the teacher's
// MemoryStore (internal/infrastructure/storage/memory.go):
// map-per-entity state behind a single sync.RWMutex. Used by trainer
// package tests and as cmd/trainer's fallback when DATABASE_DSN is
// unset.
type MemStore struct {
	mu         sync.RWMutex
	profiles   map[string]domain.UserProfile
	blacklists map[string][]string
	variations []domain.ExerciseVariation
	archives   map[string][]SessionArchive
}

// NewMemStore builds an empty MemStore seeded with the given catalogue
// (shared across all users, matching spec.md's single global
// catalogue).
func NewMemStore(catalogue []domain.ExerciseVariation) *MemStore {
	return &MemStore{
		profiles:   make(map[string]domain.UserProfile),
		blacklists: make(map[string][]string),
		variations: catalogue,
		archives:   make(map[string][]SessionArchive),
	}
}

// SeedUser installs a profile and initial blacklist for a uid, the
// test-setup counterpart of a real GetUserProfile/GetBlacklistedVariationIDs
// pair.
func (s *MemStore) SeedUser(uid string, profile domain.UserProfile, blacklist []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[uid] = profile
	s.blacklists[uid] = blacklist
}

func (s *MemStore) GetUserProfile(ctx context.Context, uid string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[uid]
	if !ok {
		return domain.UserProfile{}, domainerrors.NewLoadError(uid, "missing-user", fmt.Errorf("no profile seeded for %q", uid))
	}
	return p, nil
}

func (s *MemStore) GetAllVariations(ctx context.Context) ([]domain.ExerciseVariation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ExerciseVariation, len(s.variations))
	copy(out, s.variations)
	return out, nil
}

func (s *MemStore) GetBlacklistedVariationIDs(ctx context.Context, uid string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.blacklists[uid]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *MemStore) WriteSessionArchive(ctx context.Context, uid string, archive SessionArchive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archives[uid] = append(s.archives[uid], archive)
	return nil
}

func (s *MemStore) UpdateUser(ctx context.Context, uid string, update UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[uid]; !ok {
		return domainerrors.NewPersistenceError("rotate-blacklist", fmt.Errorf("no profile seeded for %q", uid))
	}
	s.blacklists[uid] = update.BlacklistedVariationIDs
	return nil
}

// Archives returns the archived sessions for a uid, a test-only
// accessor mirroring what a real query against
// users/{uid}/sessions/... would return.
func (s *MemStore) Archives(uid string) []SessionArchive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SessionArchive, len(s.archives[uid]))
	copy(out, s.archives[uid])
	return out
}

// Blacklist returns the current blacklist for a uid, a test-only
// accessor for asserting invariant 7 of spec.md §8 ("After persistence,
// the stored blackListedVariationIds equals sessionUsedIds").
func (s *MemStore) Blacklist(uid string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.blacklists[uid]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

var _ Store = (*MemStore)(nil)
