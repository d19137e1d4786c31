package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// ObjectFormat identifies the native object container produced for a triple.
type ObjectFormat string

const (
	// ObjectFormatMachO is the Darwin object format.
	ObjectFormatMachO ObjectFormat = "macho"
	// ObjectFormatELF is the Unix object format.
	ObjectFormatELF ObjectFormat = "elf"
	// ObjectFormatCOFF is the Windows object format.
	ObjectFormatCOFF ObjectFormat = "coff"
	// ObjectFormatWasm is the WebAssembly object format.
	ObjectFormatWasm ObjectFormat = "wasm"
)

// Triple identifies a compilation destination as arch-vendor-os[-abi].
// It is a value type; two triples compare equal iff all components match.
type Triple struct {
	Arch   string
	Vendor string
	OS     string
	ABI    string
}

// ParseTriple parses a triple string such as "x86_64-unknown-linux-gnu" or
// "arm64-apple-macosx".
func ParseTriple(s string) (Triple, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 3 || len(parts) > 4 {
		return Triple{}, zerr.With(zerr.Wrap(ErrInvalidTriple, "parsing triple"), "triple", s)
	}
	for _, p := range parts {
		if p == "" {
			return Triple{}, zerr.With(zerr.Wrap(ErrInvalidTriple, "parsing triple"), "triple", s)
		}
	}
	t := Triple{Arch: parts[0], Vendor: parts[1], OS: parts[2]}
	if len(parts) == 4 {
		t.ABI = parts[3]
	}
	return t, nil
}

// String reassembles the canonical triple string.
func (t Triple) String() string {
	s := t.Arch + "-" + t.Vendor + "-" + t.OS
	if t.ABI != "" {
		s += "-" + t.ABI
	}
	return s
}

// IsDarwin reports whether the triple targets an Apple platform.
func (t Triple) IsDarwin() bool {
	return strings.HasPrefix(t.OS, "macosx") || strings.HasPrefix(t.OS, "darwin") ||
		strings.HasPrefix(t.OS, "ios") || strings.HasPrefix(t.OS, "tvos") ||
		strings.HasPrefix(t.OS, "watchos")
}

// IsLinux reports whether the triple targets Linux.
func (t Triple) IsLinux() bool {
	return strings.HasPrefix(t.OS, "linux")
}

// IsWindows reports whether the triple targets Windows.
func (t Triple) IsWindows() bool {
	return strings.HasPrefix(t.OS, "windows")
}

// IsWASI reports whether the triple targets WebAssembly/WASI.
func (t Triple) IsWASI() bool {
	return strings.HasPrefix(t.OS, "wasi") || t.Arch == "wasm32"
}

// ObjectFormat returns the object container format for the triple.
// Unknown operating systems fall back to ELF, matching the behavior of the
// toolchains the planner drives.
func (t Triple) ObjectFormat() ObjectFormat {
	switch {
	case t.IsDarwin():
		return ObjectFormatMachO
	case t.IsWindows():
		return ObjectFormatCOFF
	case t.IsWASI():
		return ObjectFormatWasm
	default:
		return ObjectFormatELF
	}
}

// ExecutableSuffix returns the filename suffix for executables on the triple.
func (t Triple) ExecutableSuffix() string {
	switch {
	case t.IsWindows():
		return ".exe"
	case t.IsWASI():
		return ".wasm"
	default:
		return ""
	}
}

// DynamicLibraryPrefix returns the filename prefix for dynamic libraries.
func (t Triple) DynamicLibraryPrefix() string {
	if t.IsWindows() {
		return ""
	}
	return "lib"
}

// DynamicLibrarySuffix returns the filename suffix for dynamic libraries.
func (t Triple) DynamicLibrarySuffix() string {
	switch {
	case t.IsDarwin():
		return ".dylib"
	case t.IsWindows():
		return ".dll"
	default:
		return ".so"
	}
}

// StaticLibrarySuffix returns the filename suffix for static archives.
func (t Triple) StaticLibrarySuffix() string {
	if t.IsWindows() {
		return ".lib"
	}
	return ".a"
}

// Platform maps the triple's OS component onto a PlatformID for condition
// evaluation.
func (t Triple) Platform() PlatformID {
	switch {
	case strings.HasPrefix(t.OS, "macosx"), strings.HasPrefix(t.OS, "darwin"):
		return PlatformMacOS
	case strings.HasPrefix(t.OS, "ios"):
		return PlatformIOS
	case t.IsLinux():
		return PlatformLinux
	case t.IsWindows():
		return PlatformWindows
	case t.IsWASI():
		return PlatformWASI
	default:
		return PlatformID(t.OS)
	}
}

// RequiresModuleWrap reports whether debug info for an emitted module must be
// wrapped into a native object on this triple. Darwin has its own lookup
// mechanism; wasm has no debugger-visible module wrapping at all.
func (t Triple) RequiresModuleWrap() bool {
	of := t.ObjectFormat()
	return of == ObjectFormatELF || of == ObjectFormatCOFF
}
