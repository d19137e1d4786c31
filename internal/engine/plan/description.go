// Package plan implements the build planner: it resolves the consumed
// package graph under one build destination into per-target compile
// descriptions and per-product link descriptions. Planning is a pure
// function of (graph, environment, parameters); repeated runs over unchanged
// inputs produce byte-identical argument lists and object orderings.
package plan

import (
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
)

// TargetBuildDescription is the closed union of per-target descriptions.
// The three variants are Swift, Clang and BinaryArtifact; exhaustive type
// switches over this interface are the intended consumption pattern.
type TargetBuildDescription interface {
	// TargetName is the described target's name.
	TargetName() domain.InternedString
	// Objects lists the object files the target contributes, in a fixed
	// order: one per source file, then the resource-accessor object if the
	// target declares bundle resources, then the module-wrap object if the
	// destination requires one.
	Objects() []string

	sealedTargetDescription()
}

// SwiftTargetBuildDescription describes one Swift target's compilation.
type SwiftTargetBuildDescription struct {
	Target *domain.Target
	Params domain.BuildParameters

	// Sources are absolute source paths in declaration order.
	Sources []string
	// CompileArguments is the complete whole-module compile argv.
	CompileArguments []string
	// ModulePath is where the swiftmodule is emitted.
	ModulePath string
	// ModuleWrapObject is non-empty when the destination's object format
	// needs the emitted module wrapped into a native object.
	ModuleWrapObject string
	// ResourceAccessorSource and ResourceAccessorObject are set when the
	// target declares bundle resources.
	ResourceAccessorSource string
	ResourceAccessorObject string
	// EmittedObjCHeaderPath is set when the target builds with C or C++
	// interoperability enabled.
	EmittedObjCHeaderPath string

	objects []string
}

// TargetName implements TargetBuildDescription.
func (d *SwiftTargetBuildDescription) TargetName() domain.InternedString { return d.Target.Name }

// Objects implements TargetBuildDescription.
func (d *SwiftTargetBuildDescription) Objects() []string { return d.objects }

func (d *SwiftTargetBuildDescription) sealedTargetDescription() {}

// ClangTargetBuildDescription describes one C-family target's compilation.
type ClangTargetBuildDescription struct {
	Target *domain.Target
	Params domain.BuildParameters

	// Sources are absolute source paths in declaration order.
	Sources []string
	// BasicArguments is the per-file compile argv prefix; the manifest
	// builder appends "-c <source> -o <object>" per file.
	BasicArguments []string
	// ModuleMap is the module map exposing the target's headers.
	ModuleMap string
	// IncludeDir is the target's public header directory.
	IncludeDir string

	objects []string
}

// TargetName implements TargetBuildDescription.
func (d *ClangTargetBuildDescription) TargetName() domain.InternedString { return d.Target.Name }

// Objects implements TargetBuildDescription.
func (d *ClangTargetBuildDescription) Objects() []string { return d.objects }

func (d *ClangTargetBuildDescription) sealedTargetDescription() {}

// BinaryTargetBuildDescription describes a prebuilt binary-artifact target's
// contribution for the active triple. A target whose artifact has no variant
// for the triple gets no description at all.
type BinaryTargetBuildDescription struct {
	Target  *domain.Target
	Variant *domain.ArtifactVariant

	// HeaderSearchPaths feed dependents' compile commands.
	HeaderSearchPaths []string
	// LibraryPaths and FrameworkSearchPaths feed dependents' link commands.
	LibraryPaths         []string
	FrameworkSearchPaths []string
	// AvailableTools names executables an artifact bundle exposes; they
	// surface on dependent products.
	AvailableTools []string
}

// TargetName implements TargetBuildDescription.
func (d *BinaryTargetBuildDescription) TargetName() domain.InternedString { return d.Target.Name }

// Objects implements TargetBuildDescription. Binary artifacts contribute no
// objects, only search paths.
func (d *BinaryTargetBuildDescription) Objects() []string { return nil }

func (d *BinaryTargetBuildDescription) sealedTargetDescription() {}

// objectPath maps a source file to its object under the target build dir.
func objectPath(params domain.BuildParameters, targetName, source string) string {
	return filepath.Join(params.TargetBuildDir(targetName), source+".o")
}
