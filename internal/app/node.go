package app

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/forge/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/driver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			driver.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.GraphLoader](ctx)
			if err != nil {
				return nil, err
			}
			operation, err := graft.Dep[*driver.Operation](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(loader, operation, log), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
			driver.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	loader, err := graft.Dep[ports.GraphLoader](ctx)
	if err != nil {
		return nil, err
	}
	operation, err := graft.Dep[*driver.Operation](ctx)
	if err != nil {
		return nil, err
	}
	return &Components{
		App:         a,
		Logger:      log,
		GraphLoader: loader,
		Operation:   operation,
	}, nil
}
