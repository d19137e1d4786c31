package domain

// TargetKind classifies what a target produces.
type TargetKind string

const (
	// TargetKindRegular is a plain library target.
	TargetKindRegular TargetKind = "regular"
	// TargetKindExecutable is an executable target.
	TargetKindExecutable TargetKind = "executable"
	// TargetKindTest is a test target.
	TargetKindTest TargetKind = "test"
	// TargetKindSystem is a system-library target described by a module map
	// and an optional pkg-config name.
	TargetKindSystem TargetKind = "system"
	// TargetKindBinary is a prebuilt binary-artifact target.
	TargetKindBinary TargetKind = "binary"
	// TargetKindSnippet is a single-file snippet executable.
	TargetKindSnippet TargetKind = "snippet"
)

// TargetImplementation identifies the language the target is built with.
type TargetImplementation string

const (
	// ImplementationSwift is a Swift target.
	ImplementationSwift TargetImplementation = "swift"
	// ImplementationClang is a C-family target.
	ImplementationClang TargetImplementation = "clang"
	// ImplementationMixed is a target mixing Swift and C-family sources.
	ImplementationMixed TargetImplementation = "mixed"
	// ImplementationBinary is a prebuilt binary artifact.
	ImplementationBinary TargetImplementation = "binaryArtifact"
)

// DependencyRef points at either a target or a product by name.
// Exactly one of Target and Product is set.
type DependencyRef struct {
	Target  InternedString
	Product InternedString
}

// TargetDependency is one conditioned dependency edge.
type TargetDependency struct {
	Ref       DependencyRef
	Condition DependencyCondition
}

// ResourceRule says how a declared resource is handled.
type ResourceRule string

const (
	// ResourceRuleCopy copies the resource verbatim into the bundle.
	ResourceRuleCopy ResourceRule = "copy"
	// ResourceRuleProcess lets the build apply platform processing.
	ResourceRuleProcess ResourceRule = "process"
)

// Resource is one declared target resource.
type Resource struct {
	Rule ResourceRule
	Path string
}

// SettingTool names the tool a build setting applies to.
type SettingTool string

const (
	// ToolC applies to the C compiler.
	ToolC SettingTool = "c"
	// ToolCXX applies to the C++ compiler.
	ToolCXX SettingTool = "cxx"
	// ToolSwift applies to the Swift compiler.
	ToolSwift SettingTool = "swift"
	// ToolLinker applies to the linker.
	ToolLinker SettingTool = "linker"
)

// ToolSetting is one conditioned per-tool flag group, kept in declaration
// order. Duplicates are legal and preserved.
type ToolSetting struct {
	Tool      SettingTool
	Flags     []string
	Condition DependencyCondition
}

// Target is one buildable unit of the consumed package graph. The planner
// treats it as read-only input.
type Target struct {
	Name           InternedString
	Kind           TargetKind
	Implementation TargetImplementation

	// Path is the target's source directory, relative to the package root.
	Path string
	// Sources are source file paths relative to Path, in declaration order.
	Sources []string

	Dependencies []TargetDependency
	Resources    []Resource
	Settings     []ToolSetting

	// IncludeDir is the public headers directory of a Clang target.
	IncludeDir string
	// ModuleMapPath overrides the generated module map when set.
	ModuleMapPath string

	// SwiftVersion is the language version a Swift target compiles with.
	SwiftVersion string
	// InteroperabilityMode holds conditioned C/C++ interop settings; a
	// platform-specific entry overrides an unconditioned one.
	InteroperabilityMode []InteropSetting
	// UpcomingFeatures are -enable-upcoming-feature names, declaration
	// order preserved, duplicates legal.
	UpcomingFeatures []string

	// PkgConfig is the pkg-config name of a system target.
	PkgConfig string
	// PkgConfigProviders carries installer hints keyed by package manager.
	PkgConfigProviders map[string]string

	// MinimumPlatformVersions are declared deployment requirements.
	MinimumPlatformVersions []PlatformVersion
}

// InteropSetting is a conditioned interoperability-mode selection.
type InteropSetting struct {
	Mode      string // "C" or "Cxx"
	Condition DependencyCondition
}

// InteropModeFor resolves the interoperability mode for an environment.
// A condition-gated entry naming the environment's platform wins over an
// unconditioned entry; absence yields "".
func (t *Target) InteropModeFor(env BuildEnvironment) string {
	mode := ""
	for _, s := range t.InteroperabilityMode {
		if !s.Condition.Active(env) {
			continue
		}
		if len(s.Condition.Platforms) > 0 {
			return s.Mode
		}
		if mode == "" {
			mode = s.Mode
		}
	}
	return mode
}

// HasBundleResources reports whether the target declares at least one copy or
// process resource and therefore needs a synthesized bundle accessor.
func (t *Target) HasBundleResources() bool {
	for _, r := range t.Resources {
		if r.Rule == ResourceRuleCopy || r.Rule == ResourceRuleProcess {
			return true
		}
	}
	return false
}
