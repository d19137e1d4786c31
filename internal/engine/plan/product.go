package plan

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// ProductBuildDescription describes one product's link (or archive) step.
type ProductBuildDescription struct {
	Product *domain.Product
	Params  domain.BuildParameters

	// ConcreteType is the product type after automaticLibrary resolution.
	ConcreteType domain.ProductType

	// Objects is the transitive object closure in fixed post-order; two
	// planner runs over an unchanged graph yield the identical slice.
	Objects []string
	// LinkFileList is the indirection file the objects are written to;
	// LinkArguments reference it as @file so argv stays bounded.
	LinkFileList string
	// LinkArguments is the complete link argv. Empty for static
	// libraries, which archive instead.
	LinkArguments []string
	// ArchiveArguments is the archive argv for static libraries.
	ArchiveArguments []string
	// BinaryPath is the product's output binary.
	BinaryPath string

	// ClosureTargets is the deduplicated target closure in traversal
	// order.
	ClosureTargets []domain.InternedString
	// SwiftModules lists emitted swiftmodules in the closure, used for
	// Darwin debugging (-add_ast_path).
	SwiftModules []string
	// AvailableTools names executables contributed by artifact bundles in
	// the closure.
	AvailableTools []string
	// DependencyBinaries are linked artifact binaries; the manifest
	// declares them as link inputs.
	DependencyBinaries []string
}

// productResolver aggregates resolved target descriptions into product link
// descriptions.
type productResolver struct {
	graph        *domain.PackageGraph
	params       domain.BuildParameters
	descriptions map[domain.InternedString]TargetBuildDescription
	systemLibs   map[domain.InternedString]ports.PkgConfigResult
}

func (r *productResolver) resolveProduct(product *domain.Product) (*ProductBuildDescription, error) {
	env := r.params.BuildEnvironment()
	closure := r.targetClosure(product, env)
	if len(closure) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoBuildableTarget, "resolving product"), "product", product.Name.String())
	}

	name := product.Name.String()
	d := &ProductBuildDescription{
		Product:        product,
		Params:         r.params,
		ConcreteType:   product.ConcreteType(),
		ClosureTargets: closure,
		LinkFileList:   filepath.Join(r.params.ProductDir(name), "Objects.LinkFileList"),
	}

	var systemLibFlags []string
	var artifactFlags []string
	var settingFlags []string
	for _, targetName := range closure {
		if t, ok := r.graph.Target(targetName); ok {
			for _, setting := range t.Settings {
				if setting.Tool == domain.ToolLinker && setting.Condition.Active(env) {
					settingFlags = append(settingFlags, setting.Flags...)
				}
			}
		}
		desc, ok := r.descriptions[targetName]
		if !ok {
			if res, isSystem := r.systemLibs[targetName]; isSystem {
				systemLibFlags = append(systemLibFlags, res.Libs...)
			}
			continue
		}
		d.Objects = append(d.Objects, desc.Objects()...)
		switch td := desc.(type) {
		case *SwiftTargetBuildDescription:
			d.SwiftModules = append(d.SwiftModules, td.ModulePath)
		case *BinaryTargetBuildDescription:
			d.AvailableTools = append(d.AvailableTools, td.AvailableTools...)
			d.DependencyBinaries = append(d.DependencyBinaries, td.LibraryPaths...)
			for _, fw := range td.FrameworkSearchPaths {
				artifactFlags = append(artifactFlags, "-F", fw)
			}
			artifactFlags = append(artifactFlags, td.LibraryPaths...)
		}
	}

	if len(d.Objects) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoBuildableTarget, "resolving product"), "product", product.Name.String())
	}

	d.BinaryPath = binaryPath(r.params, product, d.ConcreteType)

	if d.ConcreteType == domain.ProductTypeStaticLibrary {
		d.ArchiveArguments = archiveArguments(r.params, d)
	} else {
		d.LinkArguments = linkArguments(r.params, d, settingFlags, systemLibFlags, artifactFlags, r.entrypointModule(d, closure))
	}
	return d, nil
}

// entrypointModule names the executable target whose main function was
// renamed at compile time and must be aliased back at link time. Empty when
// the toolchain cannot rename entrypoints or the product is not executable.
func (r *productResolver) entrypointModule(d *ProductBuildDescription, closure []domain.InternedString) string {
	if !r.params.CanRenameEntrypointFunctionName || d.ConcreteType != domain.ProductTypeExecutable {
		return ""
	}
	for _, name := range closure {
		t, ok := r.graph.Target(name)
		if !ok {
			continue
		}
		if t.Kind == domain.TargetKindExecutable || t.Kind == domain.TargetKindSnippet {
			return moduleName(t.Name.String())
		}
	}
	return ""
}

// targetClosure computes the product's transitive target closure over active
// edges only: member targets in declaration order, each expanded depth-first
// with a target appended after its dependencies (post-order), deduplicated by
// identity.
func (r *productResolver) targetClosure(product *domain.Product, env domain.BuildEnvironment) []domain.InternedString {
	var closure []domain.InternedString
	seen := make(map[domain.InternedString]bool)

	var visit func(name domain.InternedString)
	visit = func(name domain.InternedString) {
		if seen[name] {
			return
		}
		seen[name] = true
		t, ok := r.graph.Target(name)
		if !ok {
			return
		}
		for _, dep := range activeDependencyTargets(r.graph, t, env) {
			visit(dep)
		}
		closure = append(closure, name)
	}

	for _, member := range product.Targets {
		visit(member)
	}
	return closure
}

func binaryPath(params domain.BuildParameters, product *domain.Product, concrete domain.ProductType) string {
	name := product.Name.String()
	triple := params.Triple
	switch concrete {
	case domain.ProductTypeExecutable:
		return filepath.Join(params.BuildPath(), name+triple.ExecutableSuffix())
	case domain.ProductTypeDynamicLibrary:
		return filepath.Join(params.BuildPath(), triple.DynamicLibraryPrefix()+name+triple.DynamicLibrarySuffix())
	case domain.ProductTypeStaticLibrary:
		return filepath.Join(params.BuildPath(), triple.DynamicLibraryPrefix()+name+triple.StaticLibrarySuffix())
	case domain.ProductTypeTestBundle:
		if triple.IsDarwin() {
			return filepath.Join(params.BuildPath(), name+".xctest", "Contents", "MacOS", name)
		}
		return filepath.Join(params.BuildPath(), name+".xctest")
	default:
		return filepath.Join(params.BuildPath(), name)
	}
}

// linkArguments builds the link argv. Flag groups keep the fixed order:
// declared libraries, declared frameworks, unsafe flags, target linker
// settings, global linker flags, then resolved artifact flags. Per-triple
// branches are mutually exclusive.
func linkArguments(params domain.BuildParameters, d *ProductBuildDescription, settingFlags, systemLibFlags, artifactFlags []string, entryModule string) []string {
	product := d.Product
	triple := params.Triple

	args := []string{params.Toolchain.SwiftCompilerPath}
	args = append(args, "-L", params.BuildPath())
	args = append(args, "-o", d.BinaryPath)
	args = append(args, "-module-name", moduleName(product.Name.String()))

	switch d.ConcreteType {
	case domain.ProductTypeExecutable:
		args = append(args, "-emit-executable")
	case domain.ProductTypeDynamicLibrary:
		args = append(args, "-emit-library")
	case domain.ProductTypeTestBundle:
		if triple.IsDarwin() {
			args = append(args, "-Xlinker", "-bundle")
		} else {
			args = append(args, "-emit-executable")
		}
	}

	args = append(args, "@"+d.LinkFileList)

	for _, lib := range product.LinkedLibraries {
		args = append(args, "-l"+lib)
	}
	for _, fw := range product.LinkedFrameworks {
		args = append(args, "-framework", fw)
	}
	args = append(args, product.UnsafeFlags...)
	args = append(args, settingFlags...)
	args = append(args, params.Flags.LinkerFlags...)
	args = append(args, params.Toolchain.ExtraLinkerFlags...)
	args = append(args, systemLibFlags...)
	args = append(args, artifactFlags...)

	if params.ShouldLinkStaticSwiftStdlib && !triple.IsDarwin() {
		args = append(args, "-static-stdlib")
	}

	switch {
	case triple.IsDarwin():
		if d.ConcreteType == domain.ProductTypeDynamicLibrary {
			args = append(args, "-Xlinker", "-install_name", "-Xlinker", "@rpath/"+filepath.Base(d.BinaryPath))
		}
		args = append(args, "-Xlinker", "-rpath", "-Xlinker", "@loader_path")
		if entryModule != "" {
			args = append(args, "-Xlinker", "-alias", "-Xlinker", "_"+entryModule+"_main", "-Xlinker", "_main")
		}
		if params.Configuration == domain.Debug {
			for _, module := range d.SwiftModules {
				args = append(args, "-Xlinker", "-add_ast_path", "-Xlinker", module)
			}
		}
		if params.LinkerDeadStrip && params.Configuration == domain.Release {
			args = append(args, "-Xlinker", "-dead_strip")
		}
	case triple.IsWindows(), triple.IsWASI():
		// No rpath or dead-strip equivalents are emitted for these
		// destinations.
	default:
		args = append(args, "-Xlinker", "-rpath", "-Xlinker", "$ORIGIN")
		if entryModule != "" {
			args = append(args, "-Xlinker", "--defsym", "-Xlinker", "main="+entryModule+"_main")
		}
		if params.LinkerDeadStrip && params.Configuration == domain.Release {
			args = append(args, "-Xlinker", "--gc-sections")
		}
	}

	return args
}

// archiveArguments builds the platform archiver argv from the link-file-list.
func archiveArguments(params domain.BuildParameters, d *ProductBuildDescription) []string {
	triple := params.Triple
	switch {
	case triple.IsDarwin():
		return []string{params.Toolchain.ArchiverPath, "-static", "-o", d.BinaryPath, "-filelist", d.LinkFileList}
	case triple.IsWindows():
		return []string{params.Toolchain.ArchiverPath, "/OUT:" + d.BinaryPath, "@" + d.LinkFileList}
	default:
		return []string{params.Toolchain.ArchiverPath, "crs", d.BinaryPath, "@" + d.LinkFileList}
	}
}

// moduleName mangles a product name into a valid module name.
func moduleName(name string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(name)
}
