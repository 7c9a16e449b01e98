// Package nodes implements the thirteen nodes of the generation graph
// (spec.md §4), each satisfying graph.Node. Grounded on the teacher's
// node_executors.go: one small type per node kind, config captured at
// construction time, Execute doing the actual work and wrapping
// failures in the internal/domain/errors taxonomy.
package nodes

import (
	"context"

	"github.com/smilemakc/trainerflow/internal/graph"
	"github.com/smilemakc/trainerflow/internal/store"
)

// ContextLoader is node 1: loads the user profile, catalogue, and
// prior blacklist for the run's uid.
type ContextLoader struct {
	UID   string
	Store store.Store
}

func (n *ContextLoader) Name() string { return graph.NodeContextLoader }

func (n *ContextLoader) Execute(ctx context.Context, state *graph.State) error {
	profile, err := n.Store.GetUserProfile(ctx, n.UID)
	if err != nil {
		return err
	}

	catalogue, err := n.Store.GetAllVariations(ctx)
	if err != nil {
		return err
	}

	blacklist, err := n.Store.GetBlacklistedVariationIDs(ctx, n.UID)
	if err != nil {
		return err
	}

	state.SetUserProfile(profile)
	state.SetAvailableVariations(catalogue)
	state.SetInitialBlacklist(blacklist)
	return nil
}
