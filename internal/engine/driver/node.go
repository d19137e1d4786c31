package driver

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/forge/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/state"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the build operation Graft node.
const NodeID graft.ID = "engine.driver"

func init() {
	graft.Register(graft.Node[*Operation]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			logger.DiagnosticsNodeID,
			progrock.NodeID,
			state.NodeID,
			fs.DepfileReaderNodeID,
			fs.PkgConfigNodeID,
		},
		Run: func(ctx context.Context) (*Operation, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			diagnostics, err := graft.Dep[ports.DiagnosticsSink](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			openStore, err := graft.Dep[ports.BuildRecordStoreOpener](ctx)
			if err != nil {
				return nil, err
			}
			readDepfile, err := graft.Dep[ports.DepfileReader](ctx)
			if err != nil {
				return nil, err
			}
			pkgConfig, err := graft.Dep[ports.PkgConfigLookup](ctx)
			if err != nil {
				return nil, err
			}
			return NewOperation(log, diagnostics, tracer, openStore, readDepfile, pkgConfig), nil
		},
	})
}
