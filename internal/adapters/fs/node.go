package fs

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/forge/internal/core/ports"
)

const (
	DepfileReaderNodeID graft.ID = "adapter.fs.depfile"
	PkgConfigNodeID     graft.ID = "adapter.fs.pkgconfig"
)

func init() {
	graft.Register(graft.Node[ports.DepfileReader]{
		ID:        DepfileReaderNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.DepfileReader, error) {
			return ReadDepfile, nil
		},
	})

	graft.Register(graft.Node[ports.PkgConfigLookup]{
		ID:        PkgConfigNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.PkgConfigLookup, error) {
			return NewPkgConfigLookup(), nil
		},
	})
}
