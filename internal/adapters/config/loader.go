// Package config provides the resolved-graph loader for forge.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// DefaultFilename is the graph document looked up in the working directory.
const DefaultFilename = "forge-graph.yaml"

var _ ports.GraphLoader = (*FileGraphLoader)(nil)

// FileGraphLoader implements ports.GraphLoader using a YAML file.
type FileGraphLoader struct {
	Filename string
	log      ports.Logger
}

// NewLoader creates a loader reading DefaultFilename.
func NewLoader(log ports.Logger) *FileGraphLoader {
	return &FileGraphLoader{Filename: DefaultFilename, log: log}
}

// Load reads the resolved graph from the given working directory.
func (l *FileGraphLoader) Load(cwd string) (*domain.PackageGraph, error) {
	path := filepath.Join(cwd, l.Filename)
	if l.log != nil {
		l.log.Info("loading package graph from " + path)
	}
	return Load(path)
}

// Load reads a graph document from the given path and returns a validated
// domain.PackageGraph.
func Load(path string) (*domain.PackageGraph, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read graph file")
	}

	var file GraphFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse graph file")
	}

	if file.Package == "" {
		return nil, zerr.New("graph file is missing a package name")
	}

	g := domain.NewPackageGraph(file.Package)

	for _, dto := range file.Targets {
		target, err := convertTarget(dto)
		if err != nil {
			return nil, err
		}
		if err := g.AddTarget(target); err != nil {
			return nil, err
		}
	}

	for _, dto := range file.Products {
		product, err := convertProduct(dto)
		if err != nil {
			return nil, err
		}
		if err := g.AddProduct(product); err != nil {
			return nil, err
		}
	}

	for name, dto := range file.Artifacts {
		g.Artifacts[name] = convertArtifact(dto)
	}

	for _, dto := range file.PrebuiltLibraries {
		g.PrebuiltLibraries = append(g.PrebuiltLibraries, domain.PrebuiltLibrary{
			Identity:    dto.Identity,
			Version:     dto.Version,
			ProductName: dto.ProductName,
		})
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

var targetKinds = map[string]domain.TargetKind{
	"regular":    domain.TargetKindRegular,
	"executable": domain.TargetKindExecutable,
	"test":       domain.TargetKindTest,
	"system":     domain.TargetKindSystem,
	"binary":     domain.TargetKindBinary,
	"snippet":    domain.TargetKindSnippet,
}

var implementations = map[string]domain.TargetImplementation{
	"swift":          domain.ImplementationSwift,
	"clang":          domain.ImplementationClang,
	"mixed":          domain.ImplementationMixed,
	"binaryArtifact": domain.ImplementationBinary,
}

var productTypes = map[string]domain.ProductType{
	"executable":       domain.ProductTypeExecutable,
	"staticLibrary":    domain.ProductTypeStaticLibrary,
	"dynamicLibrary":   domain.ProductTypeDynamicLibrary,
	"automaticLibrary": domain.ProductTypeAutomaticLibrary,
	"testBundle":       domain.ProductTypeTestBundle,
}

var linkages = map[string]domain.ProductType{
	"static":  domain.ProductTypeStaticLibrary,
	"dynamic": domain.ProductTypeDynamicLibrary,
}

var settingTools = map[string]domain.SettingTool{
	"c":      domain.ToolC,
	"cxx":    domain.ToolCXX,
	"swift":  domain.ToolSwift,
	"linker": domain.ToolLinker,
}

var resourceRules = map[string]domain.ResourceRule{
	"copy":    domain.ResourceRuleCopy,
	"process": domain.ResourceRuleProcess,
}

var platformIDs = map[string]domain.PlatformID{
	"macos":   domain.PlatformMacOS,
	"ios":     domain.PlatformIOS,
	"linux":   domain.PlatformLinux,
	"windows": domain.PlatformWindows,
	"wasi":    domain.PlatformWASI,
	"android": domain.PlatformAndroid,
}

var artifactKinds = map[string]domain.ArtifactKind{
	"framework":     domain.ArtifactKindFramework,
	"staticLibrary": domain.ArtifactKindStaticLibrary,
	"executable":    domain.ArtifactKindExecutable,
}

func convertTarget(dto TargetDTO) (domain.Target, error) {
	if dto.Name == "" {
		return domain.Target{}, zerr.New("target is missing a name")
	}

	kind, ok := targetKinds[dto.Kind]
	if !ok {
		err := zerr.With(zerr.New("unknown target kind"), "target", dto.Name)
		return domain.Target{}, zerr.With(err, "kind", dto.Kind)
	}
	impl, ok := implementations[dto.Implementation]
	if !ok {
		err := zerr.With(zerr.New("unknown target implementation"), "target", dto.Name)
		return domain.Target{}, zerr.With(err, "implementation", dto.Implementation)
	}

	t := domain.Target{
		Name:             domain.NewInternedString(dto.Name),
		Kind:             kind,
		Implementation:   impl,
		Path:             dto.Path,
		Sources:          dto.Sources,
		IncludeDir:       dto.IncludeDir,
		ModuleMapPath:    dto.ModuleMap,
		SwiftVersion:     dto.SwiftVersion,
		UpcomingFeatures: dto.UpcomingFeatures,
		PkgConfig:        dto.PkgConfig,
	}
	if len(dto.Providers) > 0 {
		t.PkgConfigProviders = dto.Providers
	}

	for _, dep := range dto.Dependencies {
		edge, err := convertDependency(dto.Name, dep)
		if err != nil {
			return domain.Target{}, err
		}
		t.Dependencies = append(t.Dependencies, edge)
	}

	for _, res := range dto.Resources {
		rule, ok := resourceRules[res.Rule]
		if !ok {
			err := zerr.With(zerr.New("unknown resource rule"), "target", dto.Name)
			return domain.Target{}, zerr.With(err, "rule", res.Rule)
		}
		t.Resources = append(t.Resources, domain.Resource{Rule: rule, Path: res.Path})
	}

	for _, s := range dto.Settings {
		tool, ok := settingTools[s.Tool]
		if !ok {
			err := zerr.With(zerr.New("unknown setting tool"), "target", dto.Name)
			return domain.Target{}, zerr.With(err, "tool", s.Tool)
		}
		cond, err := convertCondition(dto.Name, s.Condition)
		if err != nil {
			return domain.Target{}, err
		}
		t.Settings = append(t.Settings, domain.ToolSetting{Tool: tool, Flags: s.Flags, Condition: cond})
	}

	for _, i := range dto.Interoperability {
		if i.Mode != "C" && i.Mode != "Cxx" {
			err := zerr.With(zerr.New("unknown interoperability mode"), "target", dto.Name)
			return domain.Target{}, zerr.With(err, "mode", i.Mode)
		}
		cond, err := convertCondition(dto.Name, i.Condition)
		if err != nil {
			return domain.Target{}, err
		}
		t.InteroperabilityMode = append(t.InteroperabilityMode, domain.InteropSetting{Mode: i.Mode, Condition: cond})
	}

	for _, p := range dto.Platforms {
		id, ok := platformIDs[p.Platform]
		if !ok {
			err := zerr.With(zerr.New("unknown platform"), "target", dto.Name)
			return domain.Target{}, zerr.With(err, "platform", p.Platform)
		}
		t.MinimumPlatformVersions = append(t.MinimumPlatformVersions, domain.PlatformVersion{Platform: id, Version: p.Version})
	}

	return t, nil
}

func convertDependency(target string, dto DependencyDTO) (domain.TargetDependency, error) {
	if (dto.Target == "") == (dto.Product == "") {
		return domain.TargetDependency{}, zerr.With(
			zerr.New("dependency must name exactly one of target and product"),
			"target", target,
		)
	}
	cond, err := convertCondition(target, dto.Condition)
	if err != nil {
		return domain.TargetDependency{}, err
	}

	var ref domain.DependencyRef
	if dto.Target != "" {
		ref.Target = domain.NewInternedString(dto.Target)
	} else {
		ref.Product = domain.NewInternedString(dto.Product)
	}
	return domain.TargetDependency{Ref: ref, Condition: cond}, nil
}

func convertCondition(target string, dto *ConditionDTO) (domain.DependencyCondition, error) {
	if dto == nil {
		return domain.DependencyCondition{}, nil
	}

	var cond domain.DependencyCondition
	for _, p := range dto.Platforms {
		id, ok := platformIDs[p]
		if !ok {
			err := zerr.With(zerr.New("unknown platform"), "target", target)
			return domain.DependencyCondition{}, zerr.With(err, "platform", p)
		}
		cond.Platforms = append(cond.Platforms, id)
	}
	switch dto.Configuration {
	case "":
	case "debug":
		c := domain.Debug
		cond.Configuration = &c
	case "release":
		c := domain.Release
		cond.Configuration = &c
	default:
		err := zerr.With(zerr.New("unknown configuration"), "target", target)
		return domain.DependencyCondition{}, zerr.With(err, "configuration", dto.Configuration)
	}
	return cond, nil
}

func convertProduct(dto ProductDTO) (domain.Product, error) {
	if dto.Name == "" {
		return domain.Product{}, zerr.New("product is missing a name")
	}
	typ, ok := productTypes[dto.Type]
	if !ok {
		err := zerr.With(zerr.New("unknown product type"), "product", dto.Name)
		return domain.Product{}, zerr.With(err, "type", dto.Type)
	}

	p := domain.Product{
		Name:             domain.NewInternedString(dto.Name),
		Type:             typ,
		LinkedLibraries:  dto.LinkedLibraries,
		LinkedFrameworks: dto.LinkedFrameworks,
		UnsafeFlags:      dto.UnsafeFlags,
	}
	if dto.Linkage != "" {
		linkage, ok := linkages[dto.Linkage]
		if !ok {
			err := zerr.With(zerr.New("unknown linkage"), "product", dto.Name)
			return domain.Product{}, zerr.With(err, "linkage", dto.Linkage)
		}
		p.PreferredLinkage = linkage
	}
	p.Targets = domain.NewInternedStrings(dto.Targets)
	return p, nil
}

func convertArtifact(dto ArtifactDTO) domain.ArtifactMetadata {
	meta := domain.ArtifactMetadata{Name: dto.Name}
	for _, v := range dto.Variants {
		kind, ok := artifactKinds[v.Kind]
		if !ok {
			// Unknown variant kinds are skipped; other variants may still
			// serve the active triple.
			continue
		}
		meta.Variants = append(meta.Variants, domain.ArtifactVariant{
			Triples:        v.Triples,
			Kind:           kind,
			HeaderPaths:    v.Headers,
			LibraryPaths:   v.Libraries,
			FrameworkPaths: v.Frameworks,
			Tools:          v.Tools,
		})
	}
	return meta
}
