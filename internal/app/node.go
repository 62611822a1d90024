package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/recipe/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/recipe/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/recipe/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/recipe/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the main App Graft node.
	NodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			watcher.WatcherNodeID,
			watcher.FingerprinterNodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			fingerprinter, err := graft.Dep[*watcher.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}
			return New(loader, log, w, fingerprinter), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}
