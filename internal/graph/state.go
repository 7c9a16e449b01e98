// Package graph drives the fixed 13-node generation pipeline: a bounded
// loop over scheduled training days with a three-way parallel fan-out
// for the phase selectors, guarded by the channel-reducer discipline
// from spec.md §5. It plays the role the teacher's
// internal/application/executor.WorkflowEngine plays for a generic DAG,
// specialized to this module's one fixed topology.
package graph

import (
	"sync"

	"github.com/smilemakc/trainerflow/internal/domain"
)

// SessionContext is the per-session scratch written by the Phase
// Orchestrator (5.1) and cleared by the Invalidator (7).
type SessionContext struct {
	Focus       string
	Description string
	SystemGoal  string
	TargetTags  []string
}

// ScoredPool groups the filter engine's (5.2) per-phase scored
// candidates.
type ScoredPool struct {
	Warmup   []domain.ExerciseVariation
	Workout  []domain.ExerciseVariation
	Cooldown []domain.ExerciseVariation
}

// fields holds every piece of GraphState data (spec.md §3) without the
// guarding mutex, so it can be copied by value both as State's embedded
// storage and as the type Snapshot returns — copying a sync.RWMutex by
// value is a go vet copylocks violation, so the lock never travels with
// the data itself.
type fields struct {
	// Inputs
	UserProfile         domain.UserProfile
	AvailableVariations []domain.ExerciseVariation

	// Variability
	InitialBlacklist []string
	SessionUsedIds   []string

	// Orchestration
	WeeklyPlan    domain.WeeklyPlan
	FinalSessions []domain.TrainingSession

	// Loop control
	CurrentDayIndex       int
	CurrentSessionContext *SessionContext

	// Per-session scratch
	ScoredPool ScoredPool

	SelectedWarmup   []domain.ExerciseVariation
	SelectedWorkout  []domain.ExerciseVariation
	SelectedCooldown []domain.ExerciseVariation
}

// Snapshot is a read-only copy of GraphState returned by State.Snapshot,
// safe to pass around and read without holding any lock.
type Snapshot = fields

// State is the single in-memory record threaded through every node,
// the GraphState of spec.md §3. Every field is read by a node as a
// snapshot and replaced wholesale by the node's partial update; State
// itself just owns the memory and the mutex, the way the teacher's
// ExecutionState owns Variables/NodeStates behind a sync.RWMutex.
type State struct {
	mu sync.RWMutex
	fields
}

// NewState seeds a fresh State from the loader's raw inputs.
func NewState(profile domain.UserProfile, catalogue []domain.ExerciseVariation, blacklist []string) *State {
	return &State{
		fields: fields{
			UserProfile:         profile,
			AvailableVariations: catalogue,
			InitialBlacklist:    blacklist,
			SessionUsedIds:      make([]string, 0),
			FinalSessions:       make([]domain.TrainingSession, 0),
		},
	}
}

// Snapshot returns a shallow copy safe to read without further locking,
// excluding the mutex itself (copying a sync.RWMutex by value is a go
// vet copylocks violation). Slice/map fields are shared, but every node
// treats them as read-only and replaces them wholesale instead of
// mutating in place, matching the snapshot -> partial-update contract
// of spec.md §5.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fields
}

// ClearSessionScratch implements the Invalidator's (7) reset of
// per-session fields ahead of the next loop iteration.
func (s *State) ClearSessionScratch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CurrentSessionContext = nil
	s.ScoredPool = ScoredPool{}
	s.SelectedWarmup = nil
	s.SelectedWorkout = nil
	s.SelectedCooldown = nil
}

// ResetSelections implements the Phase Orchestrator's (5.1) reset of
// selectedVariations to empty per-phase lists at the start of a session.
func (s *State) ResetSelections(ctx SessionContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := ctx
	s.CurrentSessionContext = &c
	s.SelectedWarmup = nil
	s.SelectedWorkout = nil
	s.SelectedCooldown = nil
}

// SetUserProfile, SetAvailableVariations and SetInitialBlacklist are the
// Context Loader's (1) partial updates: the engine seeds State with
// only the requesting UID known, and the loader fills in the rest from
// the store.
func (s *State) SetUserProfile(p domain.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UserProfile = p
}

func (s *State) SetAvailableVariations(v []domain.ExerciseVariation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AvailableVariations = v
}

func (s *State) SetInitialBlacklist(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InitialBlacklist = ids
}

// SetScoredPool is the Filter Engine's (5.2) partial update.
func (s *State) SetScoredPool(pool ScoredPool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ScoredPool = pool
}

// SetWeeklyPlan is the Strategy node's (3) partial update.
func (s *State) SetWeeklyPlan(plan domain.WeeklyPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WeeklyPlan = plan
}

// AppendFinalSession is the Assembler's (6) replace-semantics update:
// it reconstructs the complete prior+new array, same as spec.md §5
// documents for the finalSessions channel.
func (s *State) AppendFinalSession(session domain.TrainingSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FinalSessions = append(append([]domain.TrainingSession{}, s.FinalSessions...), session)
}

// AppendSessionUsedIds is the append-only reducer for sessionUsedIds.
func (s *State) AppendSessionUsedIds(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SessionUsedIds = append(s.SessionUsedIds, ids...)
}

// AdvanceDay increments currentDayIndex, the Invalidator's (7) other
// effect.
func (s *State) AdvanceDay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CurrentDayIndex++
}

// SetSelectedWarmup/SetSelectedWorkout/SetSelectedCooldown are the three independent,
// last-writer-wins channels the design notes in spec.md §9 recommend
// in place of a custom per-phase merge: each selector goroutine calls
// exactly one of these, and the assembler only reads after the
// fan-out's WaitGroup has returned, so there is no race to reduce.

func (s *State) SetSelectedWarmup(v []domain.ExerciseVariation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedWarmup = v
}

func (s *State) SetSelectedWorkout(v []domain.ExerciseVariation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedWorkout = v
}

func (s *State) SetSelectedCooldown(v []domain.ExerciseVariation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedCooldown = v
}
