package actions

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/recipe/internal/adapters/fs"
	"go.trai.ch/recipe/internal/adapters/shell"
	"go.trai.ch/recipe/internal/core/ports"
)

// NodeID is the unique identifier for the action factory Graft node.
const NodeID graft.ID = "adapter.actions"

func init() {
	graft.Register(graft.Node[ports.ActionFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, fs.ResolverNodeID},
		Run: func(ctx context.Context) (ports.ActionFactory, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(executor, resolver), nil
		},
	})
}
