package identity

import (
	"context"

	"github.com/klinik/clinic-scheduler/internal/httperr"
)

// ParentLookup returns the parent of an agent, nil for a root agent.
type ParentLookup func(ctx context.Context, agentID uint) (*uint, error)

// CheckParent rejects a parent assignment that would put agentID on its
// own ancestor chain.
func CheckParent(ctx context.Context, agentID uint, parentID *uint, parentOf ParentLookup) error {
	if parentID == nil {
		return nil
	}
	if *parentID == agentID {
		return httperr.ErrBusiness("agent_cycle")
	}

	seen := map[uint]bool{agentID: true}
	cur := *parentID
	for {
		if seen[cur] {
			return httperr.ErrBusiness("agent_cycle")
		}
		seen[cur] = true

		next, err := parentOf(ctx, cur)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		cur = *next
	}
}
