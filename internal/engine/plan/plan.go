package plan

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// BuildPlan is the completed plan of one destination: every reachable
// target's build description plus one link description per product. All
// slices are in deterministic order; a plan is recomputed from scratch on
// every planning pass and never mutated afterwards.
type BuildPlan struct {
	Graph  *domain.PackageGraph
	Params domain.BuildParameters

	// TargetDescriptions is ordered by target declaration order.
	TargetDescriptions []TargetBuildDescription
	// ProductDescriptions is ordered by product declaration order.
	ProductDescriptions []*ProductBuildDescription

	descriptions map[domain.InternedString]TargetBuildDescription
}

// Options carries the injectable collaborators of a planning pass.
type Options struct {
	Diagnostics ports.DiagnosticsSink
	PkgConfig   ports.PkgConfigLookup
}

// NewBuildPlan resolves the graph under one destination's parameters.
// Structural failures (no buildable target, platform requirement conflicts,
// mixed targets) abort the whole plan; recoverable per-unit problems surface
// as diagnostics.
func NewBuildPlan(graph *domain.PackageGraph, params domain.BuildParameters, opts Options) (*BuildPlan, error) {
	tr := &targetResolver{
		graph:         graph,
		params:        params,
		diagnostics:   opts.Diagnostics,
		pkgConfig:     opts.PkgConfig,
		descriptions:  make(map[domain.InternedString]TargetBuildDescription),
		systemResults: make(map[domain.InternedString]ports.PkgConfigResult),
	}
	if err := tr.resolve(); err != nil {
		return nil, err
	}

	p := &BuildPlan{
		Graph:        graph,
		Params:       params,
		descriptions: tr.descriptions,
	}
	for _, t := range graph.Targets() {
		if d, ok := tr.descriptions[t.Name]; ok {
			p.TargetDescriptions = append(p.TargetDescriptions, d)
		}
	}

	pr := &productResolver{
		graph:        graph,
		params:       params,
		descriptions: tr.descriptions,
		systemLibs:   tr.systemResults,
	}
	for i := range graph.Products() {
		product := &graph.Products()[i]
		d, err := pr.resolveProduct(product)
		if err != nil {
			return nil, err
		}
		p.ProductDescriptions = append(p.ProductDescriptions, d)
	}

	return p, nil
}

// Description returns the build description of one target, if it got one.
func (p *BuildPlan) Description(name domain.InternedString) (TargetBuildDescription, bool) {
	d, ok := p.descriptions[name]
	return d, ok
}

// WriteAuxiliaryFiles materializes the plan's derived files: the resource
// accessor source per resource-bearing Swift target, the derived module map
// per Clang target lacking one, and the Objects.LinkFileList per product.
// Contents are a pure function of the plan, so rewriting them on every pass
// is idempotent.
func (p *BuildPlan) WriteAuxiliaryFiles() error {
	for _, desc := range p.TargetDescriptions {
		switch d := desc.(type) {
		case *SwiftTargetBuildDescription:
			if d.ResourceAccessorSource == "" {
				continue
			}
			src := resourceAccessorSource(p.Graph.PackageName, d.Target.Name.String())
			if err := writeFile(d.ResourceAccessorSource, []byte(src)); err != nil {
				return err
			}
		case *ClangTargetBuildDescription:
			if d.Target.ModuleMapPath != "" {
				continue
			}
			mm := derivedModuleMap(d.Target.Name.String(), d.IncludeDir)
			if err := writeFile(d.ModuleMap, []byte(mm)); err != nil {
				return err
			}
		}
	}

	for _, d := range p.ProductDescriptions {
		var b strings.Builder
		for _, obj := range d.Objects {
			b.WriteString(escapeLinkPath(obj))
			b.WriteByte('\n')
		}
		if err := writeFile(d.LinkFileList, []byte(b.String())); err != nil {
			return err
		}
	}
	return nil
}

func derivedModuleMap(targetName, includeDir string) string {
	umbrella := ""
	if includeDir != "" {
		umbrella = "    umbrella \"" + includeDir + "\"\n"
	}
	return "module " + moduleName(targetName) + " {\n" + umbrella + "    export *\n}\n"
}

// escapeLinkPath escapes spaces for the linker's @file reader.
func escapeLinkPath(p string) string {
	return strings.ReplaceAll(p, " ", "\\ ")
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create derived file directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // Build outputs are world-readable
		return zerr.With(zerr.Wrap(err, "failed to write derived file"), "path", path)
	}
	return nil
}
