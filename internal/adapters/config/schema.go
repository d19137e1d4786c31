package config

// GraphFile is the root of the resolved-graph YAML document. The resolver
// that produced it is out of scope; this codec only validates shape and
// referential integrity.
type GraphFile struct {
	Package           string                 `yaml:"package"`
	Targets           []TargetDTO            `yaml:"targets"`
	Products          []ProductDTO           `yaml:"products"`
	Artifacts         map[string]ArtifactDTO `yaml:"artifacts"`
	PrebuiltLibraries []PrebuiltLibraryDTO   `yaml:"prebuiltLibraries"`
}

// TargetDTO is one target declaration.
type TargetDTO struct {
	Name             string               `yaml:"name"`
	Kind             string               `yaml:"kind"`
	Implementation   string               `yaml:"implementation"`
	Path             string               `yaml:"path"`
	Sources          []string             `yaml:"sources"`
	Dependencies     []DependencyDTO      `yaml:"dependencies"`
	Resources        []ResourceDTO        `yaml:"resources"`
	Settings         []SettingDTO         `yaml:"settings"`
	IncludeDir       string               `yaml:"includeDir"`
	ModuleMap        string               `yaml:"moduleMap"`
	SwiftVersion     string               `yaml:"swiftVersion"`
	Interoperability []InteropDTO         `yaml:"interoperability"`
	UpcomingFeatures []string             `yaml:"upcomingFeatures"`
	PkgConfig        string               `yaml:"pkgConfig"`
	Providers        map[string]string    `yaml:"providers"`
	Platforms        []PlatformVersionDTO `yaml:"platforms"`
}

// DependencyDTO is one conditioned dependency edge. Exactly one of Target
// and Product is set.
type DependencyDTO struct {
	Target    string        `yaml:"target"`
	Product   string        `yaml:"product"`
	Condition *ConditionDTO `yaml:"condition"`
}

// ConditionDTO gates an edge or setting on platforms and configuration.
type ConditionDTO struct {
	Platforms     []string `yaml:"platforms"`
	Configuration string   `yaml:"configuration"`
}

// ResourceDTO is one declared resource.
type ResourceDTO struct {
	Rule string `yaml:"rule"`
	Path string `yaml:"path"`
}

// SettingDTO is one conditioned per-tool flag group.
type SettingDTO struct {
	Tool      string        `yaml:"tool"`
	Flags     []string      `yaml:"flags"`
	Condition *ConditionDTO `yaml:"condition"`
}

// InteropDTO is one conditioned interoperability-mode selection.
type InteropDTO struct {
	Mode      string        `yaml:"mode"`
	Condition *ConditionDTO `yaml:"condition"`
}

// PlatformVersionDTO is one declared minimum deployment requirement.
type PlatformVersionDTO struct {
	Platform string `yaml:"platform"`
	Version  string `yaml:"version"`
}

// ProductDTO is one product declaration.
type ProductDTO struct {
	Name             string   `yaml:"name"`
	Type             string   `yaml:"type"`
	Targets          []string `yaml:"targets"`
	Linkage          string   `yaml:"linkage"`
	LinkedLibraries  []string `yaml:"linkedLibraries"`
	LinkedFrameworks []string `yaml:"linkedFrameworks"`
	UnsafeFlags      []string `yaml:"unsafeFlags"`
}

// ArtifactDTO is prebuilt binary-artifact metadata keyed by target name.
type ArtifactDTO struct {
	Name     string       `yaml:"name"`
	Variants []VariantDTO `yaml:"variants"`
}

// VariantDTO is one per-triple artifact slice.
type VariantDTO struct {
	Triples    []string `yaml:"triples"`
	Kind       string   `yaml:"kind"`
	Headers    []string `yaml:"headers"`
	Libraries  []string `yaml:"libraries"`
	Frameworks []string `yaml:"frameworks"`
	Tools      []string `yaml:"tools"`
}

// PrebuiltLibraryDTO identifies one known prebuilt library.
type PrebuiltLibraryDTO struct {
	Identity    string `yaml:"identity"`
	Version     string `yaml:"version"`
	ProductName string `yaml:"productName"`
}
