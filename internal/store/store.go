// Package store defines the datastore interface of spec.md §6 and two
// implementations: BunStore (Postgres, via bun) for production and
// MemStore (in-memory) for tests, mirroring the teacher's split between
// internal/infrastructure/storage's BunStore and an in-memory fake.
package store

import (
	"context"
	"time"

	"github.com/smilemakc/trainerflow/internal/domain"
)

// SessionArchive is the document node 8 writes under the user on
// success: the full weekly plan, every assembled session, and the
// identifiers spec.md §6 lists for `users/{uid}/sessions/...`.
type SessionArchive struct {
	WeeklyPlan    domain.WeeklyPlan
	FinalSessions []domain.TrainingSession
	CreatedAt     time.Time
	WeekTimestamp string
}

// UserUpdate is the partial user-document update node 8 applies to
// rotate the blacklist.
type UserUpdate struct {
	BlacklistedVariationIDs []string
	LastUpdated             time.Time
}

// Store is the abstract datastore interface of spec.md §6: the
// Context Loader (node 1) reads through it, the Persistence node
// (node 8) writes through it.
type Store interface {
	// GetUserProfile fetches the full user document, projected to
	// domain.UserProfile by the caller's context-cleaner step.
	GetUserProfile(ctx context.Context, uid string) (domain.UserProfile, error)
	// GetAllVariations fetches the flattened exercise-variation catalogue.
	GetAllVariations(ctx context.Context) ([]domain.ExerciseVariation, error)
	// GetBlacklistedVariationIDs fetches the prior run's rolled blacklist.
	GetBlacklistedVariationIDs(ctx context.Context, uid string) ([]string, error)
	// WriteSessionArchive persists one run's plan and sessions (step A
	// of node 8).
	WriteSessionArchive(ctx context.Context, uid string, archive SessionArchive) error
	// UpdateUser rotates the blacklist and lastUpdated timestamp (step
	// B of node 8).
	UpdateUser(ctx context.Context, uid string, update UserUpdate) error
}
