package domain

// PlatformID names a platform for dependency-condition evaluation.
type PlatformID string

const (
	// PlatformMacOS is the macOS platform.
	PlatformMacOS PlatformID = "macos"
	// PlatformIOS is the iOS platform.
	PlatformIOS PlatformID = "ios"
	// PlatformLinux is the Linux platform.
	PlatformLinux PlatformID = "linux"
	// PlatformWindows is the Windows platform.
	PlatformWindows PlatformID = "windows"
	// PlatformWASI is the WebAssembly/WASI platform.
	PlatformWASI PlatformID = "wasi"
	// PlatformAndroid is the Android platform.
	PlatformAndroid PlatformID = "android"
)

// BuildConfiguration selects the optimization/debug profile of a build.
type BuildConfiguration string

const (
	// Debug builds with debug info and no optimization.
	Debug BuildConfiguration = "debug"
	// Release builds optimized.
	Release BuildConfiguration = "release"
)

// BuildEnvironment is the pair a dependency condition is evaluated against.
type BuildEnvironment struct {
	Platform      PlatformID
	Configuration BuildConfiguration
}

// DependencyCondition restricts a dependency edge or a build setting to a set
// of platforms and/or one configuration. The zero value is unconditional.
type DependencyCondition struct {
	// Platforms is the set of platforms the edge is active on.
	// Empty means any platform.
	Platforms []PlatformID

	// Configuration restricts the edge to one configuration when non-nil.
	Configuration *BuildConfiguration
}

// Active evaluates the condition against an environment.
// A condition is active iff its platform set is empty or contains the
// environment's platform, and its configuration is unset or equals the
// environment's configuration.
func (c DependencyCondition) Active(env BuildEnvironment) bool {
	if len(c.Platforms) > 0 {
		found := false
		for _, p := range c.Platforms {
			if p == env.Platform {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.Configuration != nil && *c.Configuration != env.Configuration {
		return false
	}
	return true
}

// PlatformVersion is a declared minimum deployment requirement.
type PlatformVersion struct {
	Platform PlatformID
	Version  string
}
