// Package domain contains the core model of the build planner: the consumed
// package graph, build destinations, and the condition algebra evaluated
// against a build environment.
package domain

import (
	"go.trai.ch/zerr"
)

// PackageGraph is the resolved, validated dependency graph the planner
// consumes. Targets and products are kept in declaration order so that every
// traversal is deterministic; lookups go through the name indexes.
type PackageGraph struct {
	// PackageName is the root package identity.
	PackageName string

	targets  []Target
	products []Product

	targetIndex  map[InternedString]int
	productIndex map[InternedString]int

	// Artifacts is prebuilt binary-artifact metadata keyed by target name.
	Artifacts map[string]ArtifactMetadata

	// PrebuiltLibraries is the set of known prebuilt libraries consumed by
	// the unexpressed-dependency detector.
	PrebuiltLibraries []PrebuiltLibrary
}

// PrebuiltLibrary identifies one known prebuilt library.
type PrebuiltLibrary struct {
	Identity    string
	Version     string
	ProductName string
}

// NewPackageGraph creates an empty graph for the named package.
func NewPackageGraph(packageName string) *PackageGraph {
	return &PackageGraph{
		PackageName:  packageName,
		targetIndex:  make(map[InternedString]int),
		productIndex: make(map[InternedString]int),
		Artifacts:    make(map[string]ArtifactMetadata),
	}
}

// AddTarget appends a target in declaration order.
func (g *PackageGraph) AddTarget(t Target) error {
	if _, exists := g.targetIndex[t.Name]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateTarget, "adding target"), "target", t.Name.String())
	}
	g.targetIndex[t.Name] = len(g.targets)
	g.targets = append(g.targets, t)
	return nil
}

// AddProduct appends a product in declaration order.
func (g *PackageGraph) AddProduct(p Product) error {
	if _, exists := g.productIndex[p.Name]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateProduct, "adding product"), "product", p.Name.String())
	}
	g.productIndex[p.Name] = len(g.products)
	g.products = append(g.products, p)
	return nil
}

// Target looks a target up by name.
func (g *PackageGraph) Target(name InternedString) (*Target, bool) {
	i, ok := g.targetIndex[name]
	if !ok {
		return nil, false
	}
	return &g.targets[i], true
}

// Product looks a product up by name.
func (g *PackageGraph) Product(name InternedString) (*Product, bool) {
	i, ok := g.productIndex[name]
	if !ok {
		return nil, false
	}
	return &g.products[i], true
}

// Targets returns all targets in declaration order.
func (g *PackageGraph) Targets() []Target {
	return g.targets
}

// Products returns all products in declaration order.
func (g *PackageGraph) Products() []Product {
	return g.products
}

// Validate checks referential integrity and rejects dependency cycles.
// Cycle detection ignores conditions: a conditioned cycle is still a
// structural error in the consumed graph.
func (g *PackageGraph) Validate() error {
	for i := range g.targets {
		t := &g.targets[i]
		for _, dep := range t.Dependencies {
			switch {
			case dep.Ref.Target != (InternedString{}):
				if _, ok := g.targetIndex[dep.Ref.Target]; !ok {
					return zerr.With(zerr.With(
						zerr.Wrap(ErrMissingDependency, "validating graph"),
						"target", t.Name.String()),
						"dependency", dep.Ref.Target.String())
				}
			case dep.Ref.Product != (InternedString{}):
				if _, ok := g.productIndex[dep.Ref.Product]; !ok {
					return zerr.With(zerr.With(
						zerr.Wrap(ErrMissingDependency, "validating graph"),
						"target", t.Name.String()),
						"dependency", dep.Ref.Product.String())
				}
			}
		}
	}
	for i := range g.products {
		p := &g.products[i]
		for _, name := range p.Targets {
			if _, ok := g.targetIndex[name]; !ok {
				return zerr.With(zerr.With(
					zerr.Wrap(ErrMissingDependency, "validating graph"),
					"product", p.Name.String()),
					"dependency", name.String())
			}
		}
	}
	return g.checkCycles()
}

func (g *PackageGraph) checkCycles() error {
	visited := make(map[InternedString]int, len(g.targets)) // 0 new, 1 on path, 2 done
	var path []InternedString

	var visit func(name InternedString) error
	var step func(next InternedString) error

	visit = func(name InternedString) error {
		visited[name] = 1
		path = append(path, name)

		t, _ := g.Target(name)
		for _, dep := range t.Dependencies {
			if dep.Ref.Target != (InternedString{}) {
				if err := step(dep.Ref.Target); err != nil {
					return err
				}
				continue
			}
			// Product edges fan out to the product's member targets.
			p, ok := g.Product(dep.Ref.Product)
			if !ok {
				continue
			}
			for _, pt := range p.Targets {
				if err := step(pt); err != nil {
					return err
				}
			}
		}

		visited[name] = 2
		path = path[:len(path)-1]
		return nil
	}

	step = func(next InternedString) error {
		switch visited[next] {
		case 1:
			return cycleError(path, next)
		case 0:
			return visit(next)
		}
		return nil
	}

	for i := range g.targets {
		if visited[g.targets[i].Name] == 0 {
			if err := visit(g.targets[i].Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func cycleError(path []InternedString, dep InternedString) error {
	start := 0
	for i, n := range path {
		if n == dep {
			start = i
			break
		}
	}
	cycle := ""
	for _, n := range path[start:] {
		cycle += n.String() + " -> "
	}
	cycle += dep.String()
	return zerr.With(zerr.Wrap(ErrCycleDetected, "validating graph"), "cycle", cycle)
}
