package plan

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// targetResolver walks the graph under one destination's environment,
// prunes inactive edges, classifies targets and produces their build
// descriptions.
type targetResolver struct {
	graph       *domain.PackageGraph
	params      domain.BuildParameters
	diagnostics ports.DiagnosticsSink
	pkgConfig   ports.PkgConfigLookup

	mu            sync.Mutex
	descriptions  map[domain.InternedString]TargetBuildDescription
	systemResults map[domain.InternedString]ports.PkgConfigResult
}

// activeDependencyTargets returns the target's dependency targets whose edges
// are active in the environment, in declaration order. Product references
// expand to the product's member targets.
func activeDependencyTargets(g *domain.PackageGraph, t *domain.Target, env domain.BuildEnvironment) []domain.InternedString {
	var out []domain.InternedString
	seen := make(map[domain.InternedString]bool)
	add := func(name domain.InternedString) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, dep := range t.Dependencies {
		if !dep.Condition.Active(env) {
			continue
		}
		if dep.Ref.Target != (domain.InternedString{}) {
			add(dep.Ref.Target)
			continue
		}
		if p, ok := g.Product(dep.Ref.Product); ok {
			for _, member := range p.Targets {
				add(member)
			}
		}
	}
	return out
}

// resolve computes descriptions for every target reachable from the
// products' member targets under the active environment. Targets inside one
// topological layer are resolved in parallel; layers run in dependency order.
func (r *targetResolver) resolve() error {
	env := r.params.BuildEnvironment()

	reachable, order := r.reachableTargets(env)
	if err := r.checkPlatformRequirements(reachable, env); err != nil {
		return err
	}

	layers := topologicalLayers(r.graph, order, env)
	for _, layer := range layers {
		var eg errgroup.Group
		for _, name := range layer {
			eg.Go(func() error {
				return r.resolveTarget(name, env)
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}

	buildable := 0
	for _, d := range r.descriptions {
		switch d.(type) {
		case *SwiftTargetBuildDescription, *ClangTargetBuildDescription:
			buildable++
		}
	}
	if buildable == 0 {
		return zerr.With(zerr.Wrap(domain.ErrNoBuildableTarget, "resolving package"), "package", r.graph.PackageName)
	}
	return nil
}

// reachableTargets walks active edges from every product's member targets.
// The returned order is deterministic: products in declaration order, then
// depth-first over active dependency edges in declaration order.
func (r *targetResolver) reachableTargets(env domain.BuildEnvironment) (map[domain.InternedString]bool, []domain.InternedString) {
	reachable := make(map[domain.InternedString]bool)
	var order []domain.InternedString

	var visit func(name domain.InternedString)
	visit = func(name domain.InternedString) {
		if reachable[name] {
			return
		}
		t, ok := r.graph.Target(name)
		if !ok {
			return
		}
		reachable[name] = true
		order = append(order, name)
		for _, dep := range activeDependencyTargets(r.graph, t, env) {
			visit(dep)
		}
	}

	for _, p := range r.graph.Products() {
		for _, member := range p.Targets {
			visit(member)
		}
	}
	return reachable, order
}

// topologicalLayers groups the reachable targets into dependency layers:
// layer 0 has no active dependencies inside the reachable set, layer n+1
// depends only on layers <= n. Within a layer the discovery order is kept.
func topologicalLayers(g *domain.PackageGraph, order []domain.InternedString, env domain.BuildEnvironment) [][]domain.InternedString {
	depth := make(map[domain.InternedString]int, len(order))
	inSet := make(map[domain.InternedString]bool, len(order))
	for _, name := range order {
		inSet[name] = true
	}

	var layerOf func(name domain.InternedString) int
	layerOf = func(name domain.InternedString) int {
		if d, ok := depth[name]; ok {
			return d
		}
		depth[name] = 0 // settled below; the graph is validated acyclic
		t, _ := g.Target(name)
		max := 0
		for _, dep := range activeDependencyTargets(g, t, env) {
			if !inSet[dep] {
				continue
			}
			if d := layerOf(dep) + 1; d > max {
				max = d
			}
		}
		depth[name] = max
		return max
	}

	maxDepth := 0
	for _, name := range order {
		if d := layerOf(name); d > maxDepth {
			maxDepth = d
		}
	}

	layers := make([][]domain.InternedString, maxDepth+1)
	for _, name := range order {
		d := depth[name]
		layers[d] = append(layers[d], name)
	}
	return layers
}

func (r *targetResolver) resolveTarget(name domain.InternedString, env domain.BuildEnvironment) error {
	t, _ := r.graph.Target(name)

	switch t.Implementation {
	case domain.ImplementationMixed:
		return zerr.With(zerr.Wrap(domain.ErrMixedTargetUnsupported, "resolving target"), "target", name.String())

	case domain.ImplementationBinary:
		meta, ok := r.graph.Artifacts[name.String()]
		if !ok {
			// No metadata for the artifact: contributes nothing.
			return nil
		}
		variant := meta.VariantFor(r.params.Triple)
		if variant == nil {
			// Other triples may match; absence is not an error.
			return nil
		}
		d := &BinaryTargetBuildDescription{
			Target:               t,
			Variant:              variant,
			HeaderSearchPaths:    variant.HeaderPaths,
			LibraryPaths:         variant.LibraryPaths,
			FrameworkSearchPaths: variant.FrameworkPaths,
			AvailableTools:       variant.Tools,
		}
		r.store(name, d)
		return nil

	case domain.ImplementationSwift:
		clangDeps, binaryDeps, _ := r.dependencyInputs(t, env)
		r.store(name, newSwiftTargetDescription(t, r.params, clangDeps, binaryDeps))
		return nil

	case domain.ImplementationClang:
		if t.Kind == domain.TargetKindSystem {
			r.resolveSystemTarget(t)
			return nil
		}
		clangDeps, binaryDeps, cflags := r.dependencyInputs(t, env)
		r.store(name, newClangTargetDescription(t, r.params, clangDeps, binaryDeps, cflags))
		return nil
	}
	return nil
}

// dependencyInputs gathers what a compile needs from the target's active
// dependencies: Clang module maps, binary search paths, and system-library
// compile flags, each in dependency declaration order.
func (r *targetResolver) dependencyInputs(t *domain.Target, env domain.BuildEnvironment) ([]clangDependency, []*BinaryTargetBuildDescription, []string) {
	var clangDeps []clangDependency
	var binaryDeps []*BinaryTargetBuildDescription
	var cflags []string

	for _, depName := range activeDependencyTargets(r.graph, t, env) {
		dep, ok := r.graph.Target(depName)
		if !ok {
			continue
		}
		switch dep.Implementation {
		case domain.ImplementationClang:
			if dep.Kind == domain.TargetKindSystem {
				if res, ok := r.systemResult(depName); ok {
					cflags = append(cflags, res.CFlags...)
				}
				continue
			}
			mm := dep.ModuleMapPath
			if mm == "" {
				mm = filepath.Join(r.params.TargetBuildDir(depName.String()), "module.modulemap")
			}
			clangDeps = append(clangDeps, clangDependency{moduleMap: mm, includeDir: dep.IncludeDir})
		case domain.ImplementationBinary:
			if d, ok := r.description(depName); ok {
				if bd, isBinary := d.(*BinaryTargetBuildDescription); isBinary {
					binaryDeps = append(binaryDeps, bd)
				}
			}
		}
	}
	return clangDeps, binaryDeps, cflags
}

func (r *targetResolver) resolveSystemTarget(t *domain.Target) {
	if t.PkgConfig == "" || r.pkgConfig == nil {
		return
	}
	res, err := r.pkgConfig(t.PkgConfig)
	if err != nil {
		msg := fmt.Sprintf("couldn't find pc file for %s", t.PkgConfig)
		r.emit(domain.Diagnostic{
			Severity: domain.SeverityWarning,
			Message:  msg,
			Target:   t.Name.String(),
		})
		for _, manager := range sortedKeys(t.PkgConfigProviders) {
			r.emit(domain.Diagnostic{
				Severity: domain.SeverityNote,
				Message:  fmt.Sprintf("you may be able to install %s using your system-packager: %s", t.PkgConfig, t.PkgConfigProviders[manager]),
				Target:   t.Name.String(),
			})
		}
		return
	}
	r.mu.Lock()
	r.systemResults[t.Name] = res
	r.mu.Unlock()
}

func (r *targetResolver) store(name domain.InternedString, d TargetBuildDescription) {
	r.mu.Lock()
	r.descriptions[name] = d
	r.mu.Unlock()
}

func (r *targetResolver) description(name domain.InternedString) (TargetBuildDescription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.descriptions[name]
	return d, ok
}

func (r *targetResolver) systemResult(name domain.InternedString) (ports.PkgConfigResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.systemResults[name]
	return res, ok
}

func (r *targetResolver) emit(d domain.Diagnostic) {
	if r.diagnostics != nil {
		r.diagnostics.Emit(d)
	}
}

// checkPlatformRequirements rejects plans where a target declares an older
// minimum platform version than one of its active dependencies requires.
func (r *targetResolver) checkPlatformRequirements(reachable map[domain.InternedString]bool, env domain.BuildEnvironment) error {
	for _, t := range r.graph.Targets() {
		if !reachable[t.Name] {
			continue
		}
		mins := platformVersionMap(t.MinimumPlatformVersions)
		if len(mins) == 0 {
			continue
		}
		for _, depName := range activeDependencyTargets(r.graph, &t, env) {
			dep, ok := r.graph.Target(depName)
			if !ok {
				continue
			}
			for _, req := range dep.MinimumPlatformVersions {
				min, declared := mins[req.Platform]
				if !declared {
					continue
				}
				if compareVersions(min, req.Version) < 0 {
					err := zerr.With(zerr.Wrap(domain.ErrPlatformRequirementConflict, "checking platform requirements"), "target", t.Name.String())
					err = zerr.With(err, "target_requirement", fmt.Sprintf("%s %s", req.Platform, min))
					err = zerr.With(err, "dependency", depName.String())
					err = zerr.With(err, "dependency_requirement", fmt.Sprintf("%s %s", req.Platform, req.Version))
					err = zerr.With(err, "hint", fmt.Sprintf("raise the %s deployment target of '%s' to at least %s", req.Platform, t.Name.String(), req.Version))
					return err
				}
			}
		}
	}
	return nil
}

func platformVersionMap(versions []domain.PlatformVersion) map[domain.PlatformID]string {
	if len(versions) == 0 {
		return nil
	}
	m := make(map[domain.PlatformID]string, len(versions))
	for _, v := range versions {
		m[v.Platform] = v.Version
	}
	return m
}

// compareVersions compares dotted numeric versions: -1, 0, or 1.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
