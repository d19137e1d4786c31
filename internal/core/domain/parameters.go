package domain

import "path/filepath"

// Destination names the role a set of build parameters serves.
type Destination string

const (
	// DestinationTools builds for the host so that plugins and build tools
	// can run during the build itself.
	DestinationTools Destination = "tools"
	// DestinationProducts builds final artifacts for the target triple.
	DestinationProducts Destination = "products"
)

// Toolchain describes the compiler binaries a destination builds with.
// It is consumed as given; discovering toolchains is out of scope.
type Toolchain struct {
	SwiftCompilerPath string
	ClangCompilerPath string
	LinkerPath        string
	ArchiverPath      string
	// ExtraCFlags, ExtraSwiftFlags, ExtraLinkerFlags are per-platform
	// defaults appended after all target-scoped flags.
	ExtraCFlags      []string
	ExtraSwiftFlags  []string
	ExtraLinkerFlags []string
}

// BuildFlags carries user-supplied flag overrides per tool.
type BuildFlags struct {
	CCompilerFlags     []string
	SwiftCompilerFlags []string
	LinkerFlags        []string
}

// BuildParameters is the immutable description of one build destination.
// Two instances coexist per build operation: one for DestinationTools and one
// for DestinationProducts. Nothing in the planner may reach for ambient
// parameters; the value is threaded explicitly through every resolver.
type BuildParameters struct {
	Destination   Destination
	Triple        Triple
	Configuration BuildConfiguration
	Toolchain     Toolchain
	Flags         BuildFlags

	// DataPath is the root scratch directory of the destination. It must
	// be disjoint per (destination, triple, configuration).
	DataPath string

	Sanitizers []string

	ShouldLinkStaticSwiftStdlib     bool
	UseExplicitModuleBuild          bool
	IndexStoreMode                  bool
	LinkerDeadStrip                 bool
	CanRenameEntrypointFunctionName bool

	// JobCount bounds batch-mode compiler parallelism; 0 means default.
	JobCount int
}

// BuildEnvironment derives the condition-evaluation environment for the
// destination.
func (p BuildParameters) BuildEnvironment() BuildEnvironment {
	return BuildEnvironment{
		Platform:      p.Triple.Platform(),
		Configuration: p.Configuration,
	}
}

// BuildPath is the destination's output root: DataPath/<triple>/<config>.
func (p BuildParameters) BuildPath() string {
	return filepath.Join(p.DataPath, p.Triple.String(), string(p.Configuration))
}

// TargetBuildDir is the per-target scratch directory under BuildPath.
func (p BuildParameters) TargetBuildDir(targetName string) string {
	return filepath.Join(p.BuildPath(), targetName+".build")
}

// ProductDir is the per-product scratch directory under BuildPath.
func (p BuildParameters) ProductDir(productName string) string {
	return filepath.Join(p.BuildPath(), productName+".product")
}

// ModuleCachePath is the shared Clang/Swift module cache for the destination.
func (p BuildParameters) ModuleCachePath() string {
	return filepath.Join(p.BuildPath(), "ModuleCache")
}

// LLBuildTargetName namespaces an llbuild-visible target per triple,
// configuration and destination so host and target builds of identically
// named modules never collide.
func (p BuildParameters) LLBuildTargetName(name, suffix string) string {
	return name + "-" + p.Triple.String() + "-" + string(p.Configuration) +
		"-" + string(p.Destination) + "." + suffix
}
