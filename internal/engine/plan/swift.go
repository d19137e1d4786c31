package plan

import (
	"path/filepath"
	"strconv"

	"go.trai.ch/forge/internal/core/domain"
)

// clangDependency is the module-map wiring one active Clang dependency
// contributes to a dependent compile.
type clangDependency struct {
	moduleMap  string
	includeDir string
}

// newSwiftTargetDescription builds the compile description for one Swift
// target. clangDeps carries the active Clang dependencies' module maps in
// traversal order; binaryDeps the active artifact search paths.
func newSwiftTargetDescription(
	target *domain.Target,
	params domain.BuildParameters,
	clangDeps []clangDependency,
	binaryDeps []*BinaryTargetBuildDescription,
) *SwiftTargetBuildDescription {
	buildDir := params.TargetBuildDir(target.Name.String())
	name := target.Name.String()

	d := &SwiftTargetBuildDescription{
		Target:     target,
		Params:     params,
		ModulePath: filepath.Join(params.BuildPath(), name+".swiftmodule"),
	}

	for _, src := range target.Sources {
		abs := filepath.Join(target.Path, src)
		d.Sources = append(d.Sources, abs)
		d.objects = append(d.objects, objectPath(params, name, src))
	}

	if target.HasBundleResources() {
		d.ResourceAccessorSource = filepath.Join(buildDir, "DerivedSources", "resource_bundle_accessor.swift")
		d.ResourceAccessorObject = filepath.Join(buildDir, "resource_bundle_accessor.swift.o")
		d.objects = append(d.objects, d.ResourceAccessorObject)
	}

	if params.Triple.RequiresModuleWrap() {
		d.ModuleWrapObject = filepath.Join(buildDir, name+".swiftmodule.o")
		d.objects = append(d.objects, d.ModuleWrapObject)
	}

	interop := target.InteropModeFor(params.BuildEnvironment())
	if interop != "" {
		d.EmittedObjCHeaderPath = filepath.Join(buildDir, name+"-Swift.h")
	}

	d.CompileArguments = swiftCompileArguments(d, interop, clangDeps, binaryDeps)
	return d
}

func swiftCompileArguments(
	d *SwiftTargetBuildDescription,
	interop string,
	clangDeps []clangDependency,
	binaryDeps []*BinaryTargetBuildDescription,
) []string {
	target := d.Target
	params := d.Params
	env := params.BuildEnvironment()

	args := []string{params.Toolchain.SwiftCompilerPath}
	args = append(args, "-module-name", target.Name.String())
	args = append(args, "-emit-module", "-emit-module-path", d.ModulePath)
	args = append(args, "-emit-dependencies")

	if d.EmittedObjCHeaderPath != "" {
		args = append(args, "-emit-objc-header", "-emit-objc-header-path", d.EmittedObjCHeaderPath)
	}

	switch params.Configuration {
	case domain.Debug:
		args = append(args, "-Onone", "-g", "-enable-testing", "-DDEBUG")
		args = append(args, "-enable-batch-mode")
		if params.JobCount > 0 {
			args = append(args, "-j"+strconv.Itoa(params.JobCount))
		}
	case domain.Release:
		args = append(args, "-O", "-whole-module-optimization")
	}

	args = append(args, "-module-cache-path", params.ModuleCachePath())

	if target.SwiftVersion != "" {
		args = append(args, "-swift-version", target.SwiftVersion)
	}

	if interop == "Cxx" {
		args = append(args, "-cxx-interoperability-mode=default")
	}

	if params.UseExplicitModuleBuild {
		args = append(args, "-experimental-explicit-module-build")
	}

	for _, dep := range clangDeps {
		args = append(args, "-Xcc", "-fmodule-map-file="+dep.moduleMap)
		args = append(args, "-Xcc", "-I"+dep.includeDir)
	}
	for _, dep := range binaryDeps {
		for _, hdr := range dep.HeaderSearchPaths {
			args = append(args, "-Xcc", "-I"+hdr)
		}
		for _, fw := range dep.FrameworkSearchPaths {
			args = append(args, "-F", fw)
		}
	}

	// Duplicates are legal here and must survive; declaration order only.
	for _, feature := range target.UpcomingFeatures {
		args = append(args, "-enable-upcoming-feature", feature)
	}

	if shouldParseAsLibrary(d.Sources) {
		args = append(args, "-parse-as-library")
	}

	// Renaming main lets test bundles link executable targets without a
	// duplicate-symbol clash; the executable's link step aliases it back.
	if params.CanRenameEntrypointFunctionName &&
		(target.Kind == domain.TargetKindExecutable || target.Kind == domain.TargetKindSnippet) {
		args = append(args, "-Xfrontend", "-entry-point-function-name",
			"-Xfrontend", moduleName(target.Name.String())+"_main")
	}

	for _, s := range params.Sanitizers {
		args = append(args, "-sanitize="+s)
	}
	if params.IndexStoreMode {
		args = append(args, "-index-store-path", filepath.Join(params.BuildPath(), "index", "store"))
	}
	if params.ShouldLinkStaticSwiftStdlib && !params.Triple.IsDarwin() {
		args = append(args, "-static-stdlib")
	}

	for _, setting := range target.Settings {
		if setting.Tool != domain.ToolSwift || !setting.Condition.Active(env) {
			continue
		}
		args = append(args, setting.Flags...)
	}

	args = append(args, params.Flags.SwiftCompilerFlags...)
	args = append(args, params.Toolchain.ExtraSwiftFlags...)

	args = append(args, "-c")
	args = append(args, d.Sources...)
	if d.ResourceAccessorSource != "" {
		args = append(args, d.ResourceAccessorSource)
	}
	return args
}
