package state

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the state adapter Graft node.
const NodeID graft.ID = "adapter.state"

func init() {
	graft.Register(graft.Node[ports.BuildRecordStoreOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildRecordStoreOpener, error) {
			return func(path string) (ports.BuildRecordStore, error) {
				return NewStore(path)
			}, nil
		},
	})
}
