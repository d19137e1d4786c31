package driver

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
)

// detectUnexpressedDependencies scans each target's compiler-emitted .d file
// for references to known prebuilt libraries the target never declared.
// Matching is by basename only; referenced paths that match no known library
// are ignored. At most one diagnostic is emitted per (target, library) pair.
func (o *Operation) detectUnexpressedDependencies(graph *domain.PackageGraph, params domain.BuildParameters) {
	if o.readDepfile == nil || len(graph.PrebuiltLibraries) == 0 {
		return
	}

	for _, t := range graph.Targets() {
		depfile := filepath.Join(params.TargetBuildDir(t.Name.String()), t.Name.String()+".d")
		refs, err := o.readDepfile(depfile)
		if err != nil {
			// No dependency data for this target yet; nothing to check.
			continue
		}
		declared := declaredDependencyNames(&t)
		emitted := make(map[string]bool)

		for _, ref := range refs {
			base := strings.TrimSuffix(filepath.Base(ref), ".framework")
			for _, lib := range graph.PrebuiltLibraries {
				if base != lib.ProductName {
					continue
				}
				if declared[lib.Identity] || declared[identityName(lib.Identity)] {
					continue
				}
				if emitted[lib.Identity] {
					continue
				}
				emitted[lib.Identity] = true
				o.diagnostics.Emit(domain.Diagnostic{
					Severity: domain.SeverityWarning,
					Target:   t.Name.String(),
					Message: fmt.Sprintf("target '%s' has an unexpressed depedency on '%s'",
						t.Name.String(), identityName(lib.Identity)),
				})
			}
		}
	}
}

func declaredDependencyNames(t *domain.Target) map[string]bool {
	names := make(map[string]bool, len(t.Dependencies))
	for _, dep := range t.Dependencies {
		if dep.Ref.Target != (domain.InternedString{}) {
			names[dep.Ref.Target.String()] = true
		}
		if dep.Ref.Product != (domain.InternedString{}) {
			names[dep.Ref.Product.String()] = true
		}
	}
	return names
}

// identityName is the last path component of a library identity:
// "org/foo" -> "foo".
func identityName(identity string) string {
	if i := strings.LastIndexByte(identity, '/'); i >= 0 {
		return identity[i+1:]
	}
	return identity
}
