package domain

// ArtifactKind classifies a prebuilt binary artifact variant.
type ArtifactKind string

const (
	// ArtifactKindFramework is a prebuilt framework.
	ArtifactKindFramework ArtifactKind = "framework"
	// ArtifactKindStaticLibrary is a prebuilt static library.
	ArtifactKindStaticLibrary ArtifactKind = "staticLibrary"
	// ArtifactKindExecutable is a prebuilt tool bundle exposing
	// executables.
	ArtifactKindExecutable ArtifactKind = "executable"
)

// ArtifactVariant is one per-triple slice of a prebuilt artifact.
type ArtifactVariant struct {
	// Triples lists the destination triples the variant supports.
	// Selection requires an exact match against the active triple.
	Triples []string

	Kind ArtifactKind

	// HeaderPaths are header search directories contributed to compiles.
	HeaderPaths []string
	// LibraryPaths are library binaries contributed to links.
	LibraryPaths []string
	// FrameworkPaths are framework search directories (Darwin).
	FrameworkPaths []string
	// Tools names the executables an artifact bundle exposes.
	Tools []string
}

// ArtifactMetadata describes all variants of one prebuilt artifact, as read
// from its container's metadata. The on-disk container format is out of
// scope; only these fields are consumed.
type ArtifactMetadata struct {
	Name     string
	Variants []ArtifactVariant
}

// VariantFor selects the single variant matching the triple exactly.
// It returns nil when no variant matches; callers must treat absence as
// "contributes nothing", never as an error.
func (m *ArtifactMetadata) VariantFor(triple Triple) *ArtifactVariant {
	want := triple.String()
	for i := range m.Variants {
		for _, t := range m.Variants[i].Triples {
			if t == want {
				return &m.Variants[i]
			}
		}
	}
	return nil
}
