// Package driver implements the build operation: it decides whether a cached
// manifest may be reused, runs the planner when it may not, and namespaces
// all build state per (triple, configuration, destination).
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/llbuild"
	"go.trai.ch/forge/internal/engine/plan"
)

// CacheState is the driver's decision about the stored plan.
type CacheState string

const (
	// StateNoCache means no record or manifest exists yet for the key.
	StateNoCache CacheState = "no-cache"
	// StateStale means the structure signature or triple changed.
	StateStale CacheState = "stale"
	// StateValid means the cached manifest can be reused as-is.
	StateValid CacheState = "valid"
)

// Operation drives one or more planning passes. It is the only component
// with cross-invocation state, all of it on disk behind the record store.
type Operation struct {
	logger      ports.Logger
	diagnostics ports.DiagnosticsSink
	tracer      ports.Tracer
	openStore   ports.BuildRecordStoreOpener
	readDepfile ports.DepfileReader
	pkgConfig   ports.PkgConfigLookup
}

// NewOperation creates a build operation with its collaborators.
func NewOperation(
	logger ports.Logger,
	diagnostics ports.DiagnosticsSink,
	tracer ports.Tracer,
	openStore ports.BuildRecordStoreOpener,
	readDepfile ports.DepfileReader,
	pkgConfig ports.PkgConfigLookup,
) *Operation {
	return &Operation{
		logger:      logger,
		diagnostics: diagnostics,
		tracer:      tracer,
		openStore:   openStore,
		readDepfile: readDepfile,
		pkgConfig:   pkgConfig,
	}
}

// Result reports one destination's planning outcome.
type Result struct {
	State        CacheState
	ManifestPath string
	// Plan is nil when the cached manifest was reused.
	Plan *plan.BuildPlan
}

// ManifestPath is where a destination's manifest lives:
// BuildPath/<role>-<config>.yaml. BuildPath is triple-keyed, so planning the
// same package for two triples in a row never touches the same file.
func ManifestPath(params domain.BuildParameters) string {
	name := fmt.Sprintf("%s-%s.yaml", params.Destination, params.Configuration)
	return filepath.Join(params.BuildPath(), name)
}

// Plan runs the cache state machine for one destination and plans when the
// state demands it. Within one key the operation is the sole writer of the
// record and manifest; the read-decide-write sequence is one logical step.
func (o *Operation) Plan(ctx context.Context, graph *domain.PackageGraph, params domain.BuildParameters) (*Result, error) {
	_, span := o.tracer.Start(ctx, "plan "+string(params.Destination))
	defer span.End()
	span.SetAttribute("triple", params.Triple.String())
	span.SetAttribute("configuration", string(params.Configuration))

	store, err := o.openStore(filepath.Join(params.BuildPath(), "build-record.json"))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open build record store")
	}

	signature := graph.StructureSignature()
	manifestPath := ManifestPath(params)
	state := o.cacheState(store, signature, params, manifestPath)

	if state == StateValid {
		o.logger.Info(fmt.Sprintf("reusing cached manifest for %s (%s, %s)",
			params.Destination, params.Triple, params.Configuration))
		o.detectUnexpressedDependencies(graph, params)
		return &Result{State: state, ManifestPath: manifestPath}, nil
	}

	p, err := plan.NewBuildPlan(graph, params, plan.Options{
		Diagnostics: o.diagnostics,
		PkgConfig:   o.pkgConfig,
	})
	if err != nil {
		span.RecordError(err)
		return nil, zerr.Wrap(err, domain.ErrPlanningFailed.Error())
	}
	if err := p.WriteAuxiliaryFiles(); err != nil {
		return nil, err
	}

	manifest := llbuild.NewManifest(p)
	if err := manifest.Write(manifestPath); err != nil {
		return nil, err
	}

	record := domain.BuildRecord{
		Signature:     signature,
		Triple:        params.Triple.String(),
		Configuration: string(params.Configuration),
		Destination:   string(params.Destination),
		ManifestPath:  manifestPath,
		PlannedAt:     time.Now(),
	}
	if err := store.Put(record); err != nil {
		return nil, zerr.Wrap(err, "failed to persist build record")
	}

	o.detectUnexpressedDependencies(graph, params)
	return &Result{State: state, ManifestPath: manifestPath, Plan: p}, nil
}

// cacheState classifies the stored record against the current inputs. The
// first pass for a key is always NoCache and always re-plans; only the
// second and later passes are eligible for Valid.
func (o *Operation) cacheState(store ports.BuildRecordStore, signature string, params domain.BuildParameters, manifestPath string) CacheState {
	record, err := store.Get()
	if err != nil || record == nil {
		return StateNoCache
	}
	if _, statErr := os.Stat(manifestPath); statErr != nil {
		return StateNoCache
	}
	if record.Signature != signature || record.Triple != params.Triple.String() {
		return StateStale
	}
	return StateValid
}
