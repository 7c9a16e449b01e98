package nodes

import (
	"context"
	"fmt"
	"time"

	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"
	"github.com/smilemakc/trainerflow/internal/graph"
	"github.com/smilemakc/trainerflow/internal/store"
)

// Persistence is node 8: writes the session archive (write A), then
// rotates the user's blacklist to sessionUsedIds (write B), in that
// order — A's durability does not depend on B succeeding, per
// spec.md §4.12.
type Persistence struct {
	UID   string
	Store store.Store
	Now   func() time.Time
}

func (n *Persistence) Name() string { return graph.NodePersistence }

func (n *Persistence) Execute(ctx context.Context, state *graph.State) error {
	snap := state.Snapshot()

	// Compared against currentDayIndex, not weeklyPlan.totalTrainingDays:
	// the two coincide for a full weekly run (spec.md invariant 1), but a
	// daily/session request bounds the loop to fewer iterations
	// (graph.EngineConfig.LoopBound) and must not be rejected here.
	if len(snap.FinalSessions) != snap.CurrentDayIndex {
		return domainerrors.NewValidationError("finalSessions",
			fmt.Sprintf("length %d does not match currentDayIndex %d", len(snap.FinalSessions), snap.CurrentDayIndex))
	}

	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	createdAt := now()

	archive := store.SessionArchive{
		WeeklyPlan:    snap.WeeklyPlan,
		FinalSessions: snap.FinalSessions,
		CreatedAt:     createdAt,
		WeekTimestamp: fmt.Sprintf("%s-%d", snap.WeeklyPlan.StartDate, createdAt.Unix()),
	}
	if err := n.Store.WriteSessionArchive(ctx, n.UID, archive); err != nil {
		return err
	}

	update := store.UserUpdate{
		BlacklistedVariationIDs: snap.SessionUsedIds,
		LastUpdated:             createdAt,
	}
	if err := n.Store.UpdateUser(ctx, n.UID, update); err != nil {
		return err
	}

	return nil
}
