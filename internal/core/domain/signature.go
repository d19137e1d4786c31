package domain

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// StructureSignature computes a deterministic hash of the graph's structure:
// names, kinds, edges, conditions, settings and resources in declaration
// order. Two graphs with identical structure hash identically; the cache
// state machine compares signatures to decide staleness. Source file contents
// are deliberately not part of the signature; content changes invalidate
// individual commands inside the execution engine, not the plan shape.
func (g *PackageGraph) StructureSignature() string {
	h := xxhash.New()
	sep := []byte{0}

	_, _ = h.WriteString(g.PackageName)
	_, _ = h.Write(sep)

	for i := range g.targets {
		t := &g.targets[i]
		_, _ = h.WriteString(t.Name.String())
		_, _ = h.WriteString(string(t.Kind))
		_, _ = h.WriteString(string(t.Implementation))
		_, _ = h.WriteString(t.Path)
		_, _ = h.Write(sep)
		for _, s := range t.Sources {
			_, _ = h.WriteString(s)
			_, _ = h.Write(sep)
		}
		for _, d := range t.Dependencies {
			_, _ = h.WriteString(d.Ref.Target.String())
			_, _ = h.WriteString(d.Ref.Product.String())
			hashCondition(h, d.Condition)
			_, _ = h.Write(sep)
		}
		for _, s := range t.Settings {
			_, _ = h.WriteString(string(s.Tool))
			for _, f := range s.Flags {
				_, _ = h.WriteString(f)
				_, _ = h.Write(sep)
			}
			hashCondition(h, s.Condition)
			_, _ = h.Write(sep)
		}
		for _, r := range t.Resources {
			_, _ = h.WriteString(string(r.Rule))
			_, _ = h.WriteString(r.Path)
			_, _ = h.Write(sep)
		}
		_, _ = h.WriteString(t.SwiftVersion)
		for _, f := range t.UpcomingFeatures {
			_, _ = h.WriteString(f)
			_, _ = h.Write(sep)
		}
		_, _ = h.Write(sep)
	}

	for i := range g.products {
		p := &g.products[i]
		_, _ = h.WriteString(p.Name.String())
		_, _ = h.WriteString(string(p.Type))
		_, _ = h.WriteString(string(p.PreferredLinkage))
		for _, t := range p.Targets {
			_, _ = h.WriteString(t.String())
			_, _ = h.Write(sep)
		}
		for _, l := range p.LinkedLibraries {
			_, _ = h.WriteString(l)
			_, _ = h.Write(sep)
		}
		for _, f := range p.LinkedFrameworks {
			_, _ = h.WriteString(f)
			_, _ = h.Write(sep)
		}
		for _, f := range p.UnsafeFlags {
			_, _ = h.WriteString(f)
			_, _ = h.Write(sep)
		}
		_, _ = h.Write(sep)
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

func hashCondition(h *xxhash.Digest, c DependencyCondition) {
	for _, p := range c.Platforms {
		_, _ = h.WriteString(string(p))
		_, _ = h.Write([]byte{1})
	}
	if c.Configuration != nil {
		_, _ = h.WriteString(string(*c.Configuration))
	}
	_, _ = h.WriteString(strconv.FormatBool(c.Configuration != nil))
}
