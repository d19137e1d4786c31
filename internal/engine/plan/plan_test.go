package plan_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/plan"
)

type recordingSink struct {
	diags []domain.Diagnostic
}

func (s *recordingSink) Emit(d domain.Diagnostic) {
	s.diags = append(s.diags, d)
}

func name(s string) domain.InternedString {
	return domain.NewInternedString(s)
}

func testParams(t *testing.T, triple string, config domain.BuildConfiguration) domain.BuildParameters {
	t.Helper()
	tr, err := domain.ParseTriple(triple)
	require.NoError(t, err)
	return domain.BuildParameters{
		Destination:   domain.DestinationProducts,
		Triple:        tr,
		Configuration: config,
		Toolchain: domain.Toolchain{
			SwiftCompilerPath: "swiftc",
			ClangCompilerPath: "clang",
			LinkerPath:        "clang",
			ArchiverPath:      "ar",
		},
		DataPath: t.TempDir(),
	}
}

func swiftTarget(n string, sources ...string) domain.Target {
	return domain.Target{
		Name:           name(n),
		Kind:           domain.TargetKindRegular,
		Implementation: domain.ImplementationSwift,
		Path:           filepath.Join("Sources", n),
		Sources:        sources,
	}
}

func executableProduct(n string, members ...string) domain.Product {
	p := domain.Product{Name: name(n), Type: domain.ProductTypeExecutable}
	for _, m := range members {
		p.Targets = append(p.Targets, name(m))
	}
	return p
}

func buildGraph(t *testing.T, targets []domain.Target, products []domain.Product) *domain.PackageGraph {
	t.Helper()
	g := domain.NewPackageGraph("demo")
	for _, target := range targets {
		require.NoError(t, g.AddTarget(target))
	}
	for _, product := range products {
		require.NoError(t, g.AddProduct(product))
	}
	require.NoError(t, g.Validate())
	return g
}

func TestNewBuildPlan_ConditionPruning(t *testing.T) {
	linuxOnly := domain.Target{
		Name:           name("App"),
		Kind:           domain.TargetKindExecutable,
		Implementation: domain.ImplementationSwift,
		Path:           filepath.Join("Sources", "App"),
		Sources:        []string{"main.swift"},
		Dependencies: []domain.TargetDependency{{
			Ref: domain.DependencyRef{Target: name("LinuxShim")},
			Condition: domain.DependencyCondition{
				Platforms: []domain.PlatformID{domain.PlatformLinux},
			},
		}},
	}
	graph := buildGraph(t,
		[]domain.Target{linuxOnly, swiftTarget("LinuxShim", "shim.swift")},
		[]domain.Product{executableProduct("app", "App")},
	)

	linux, err := plan.NewBuildPlan(graph, testParams(t, "x86_64-unknown-linux-gnu", domain.Debug), plan.Options{})
	require.NoError(t, err)
	assert.Len(t, linux.TargetDescriptions, 2)
	_, ok := linux.Description(name("LinuxShim"))
	assert.True(t, ok)

	macos, err := plan.NewBuildPlan(graph, testParams(t, "arm64-apple-macosx", domain.Debug), plan.Options{})
	require.NoError(t, err)
	assert.Len(t, macos.TargetDescriptions, 1)
	_, ok = macos.Description(name("LinuxShim"))
	assert.False(t, ok)
}

func TestNewBuildPlan_ModuleWrapObject(t *testing.T) {
	graph := buildGraph(t,
		[]domain.Target{swiftTarget("App", "main.swift")},
		[]domain.Product{executableProduct("app", "App")},
	)

	tests := []struct {
		triple string
		wrap   bool
	}{
		{"x86_64-unknown-linux-gnu", true},
		{"x86_64-unknown-windows-msvc", true},
		{"arm64-apple-macosx", false},
		{"wasm32-unknown-wasi", false},
	}
	for _, tt := range tests {
		t.Run(tt.triple, func(t *testing.T) {
			params := testParams(t, tt.triple, domain.Debug)
			p, err := plan.NewBuildPlan(graph, params, plan.Options{})
			require.NoError(t, err)

			desc, ok := p.Description(name("App"))
			require.True(t, ok)
			swift, isSwift := desc.(*plan.SwiftTargetBuildDescription)
			require.True(t, isSwift)

			wrapObject := filepath.Join(params.TargetBuildDir("App"), "App.swiftmodule.o")
			if tt.wrap {
				assert.Equal(t, wrapObject, swift.ModuleWrapObject)
				assert.Contains(t, swift.Objects(), wrapObject)
			} else {
				assert.Empty(t, swift.ModuleWrapObject)
				assert.NotContains(t, swift.Objects(), wrapObject)
			}
		})
	}
}

func TestNewBuildPlan_ParseAsLibrary(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "App.swift"), []byte("@main\nstruct App {}\n"), 0o644))

	target := domain.Target{
		Name:           name("App"),
		Kind:           domain.TargetKindExecutable,
		Implementation: domain.ImplementationSwift,
		Path:           srcDir,
		Sources:        []string{"App.swift"},
	}
	graph := buildGraph(t, []domain.Target{target}, []domain.Product{executableProduct("app", "App")})

	p, err := plan.NewBuildPlan(graph, testParams(t, "x86_64-unknown-linux-gnu", domain.Debug), plan.Options{})
	require.NoError(t, err)

	desc, _ := p.Description(name("App"))
	swift := desc.(*plan.SwiftTargetBuildDescription)
	assert.Contains(t, swift.CompileArguments, "-parse-as-library")
}

func TestNewBuildPlan_SwiftArgumentShape(t *testing.T) {
	target := swiftTarget("Core", "a.swift", "b.swift")
	target.SwiftVersion = "5"
	target.UpcomingFeatures = []string{"BareSlashRegex", "StrictConcurrency", "BareSlashRegex"}
	target.Settings = []domain.ToolSetting{
		{Tool: domain.ToolSwift, Flags: []string{"-DEXTRA"}},
		{
			Tool:      domain.ToolSwift,
			Flags:     []string{"-DNEVER"},
			Condition: domain.DependencyCondition{Platforms: []domain.PlatformID{domain.PlatformWindows}},
		},
	}
	graph := buildGraph(t,
		[]domain.Target{target},
		[]domain.Product{{Name: name("core"), Type: domain.ProductTypeStaticLibrary, Targets: []domain.InternedString{name("Core")}}},
	)

	params := testParams(t, "x86_64-unknown-linux-gnu", domain.Debug)
	params.JobCount = 4
	p, err := plan.NewBuildPlan(graph, params, plan.Options{})
	require.NoError(t, err)

	desc, _ := p.Description(name("Core"))
	args := desc.(*plan.SwiftTargetBuildDescription).CompileArguments

	assert.Equal(t, "swiftc", args[0])
	assert.Equal(t, []string{"-module-name", "Core"}, args[1:3])
	assert.Contains(t, args, "-emit-dependencies")
	assert.Contains(t, args, "-Onone")
	assert.Contains(t, args, "-enable-batch-mode")
	assert.Contains(t, args, "-j4")
	assert.Contains(t, args, "-swift-version")
	assert.Contains(t, args, "-DEXTRA")
	assert.NotContains(t, args, "-DNEVER")
	assert.NotContains(t, args, "-whole-module-optimization")

	// Duplicate upcoming features survive in declaration order.
	features := 0
	for i, a := range args {
		if a == "-enable-upcoming-feature" && args[i+1] == "BareSlashRegex" {
			features++
		}
	}
	assert.Equal(t, 2, features)

	// Sources trail the argv after -c.
	c := slices.Index(args, "-c")
	require.GreaterOrEqual(t, c, 0)
	assert.Equal(t, desc.(*plan.SwiftTargetBuildDescription).Sources, args[c+1:])
}

func TestNewBuildPlan_ReleaseArguments(t *testing.T) {
	graph := buildGraph(t,
		[]domain.Target{swiftTarget("App", "main.swift")},
		[]domain.Product{executableProduct("app", "App")},
	)

	p, err := plan.NewBuildPlan(graph, testParams(t, "x86_64-unknown-linux-gnu", domain.Release), plan.Options{})
	require.NoError(t, err)

	desc, _ := p.Description(name("App"))
	args := desc.(*plan.SwiftTargetBuildDescription).CompileArguments
	assert.Contains(t, args, "-O")
	assert.Contains(t, args, "-whole-module-optimization")
	assert.NotContains(t, args, "-Onone")
	assert.NotContains(t, args, "-enable-batch-mode")
}

func TestNewBuildPlan_ClangTarget(t *testing.T) {
	target := domain.Target{
		Name:           name("CZip"),
		Kind:           domain.TargetKindRegular,
		Implementation: domain.ImplementationClang,
		Path:           filepath.Join("Sources", "CZip"),
		Sources:        []string{"zip.c", "unzip.c"},
		IncludeDir:     filepath.Join("Sources", "CZip", "include"),
	}
	app := swiftTarget("App", "main.swift")
	app.Kind = domain.TargetKindExecutable
	app.Dependencies = []domain.TargetDependency{{Ref: domain.DependencyRef{Target: name("CZip")}}}

	graph := buildGraph(t, []domain.Target{app, target}, []domain.Product{executableProduct("app", "App")})
	params := testParams(t, "x86_64-unknown-linux-gnu", domain.Debug)
	p, err := plan.NewBuildPlan(graph, params, plan.Options{})
	require.NoError(t, err)

	desc, _ := p.Description(name("CZip"))
	clang, isClang := desc.(*plan.ClangTargetBuildDescription)
	require.True(t, isClang)

	derivedMap := filepath.Join(params.TargetBuildDir("CZip"), "module.modulemap")
	assert.Equal(t, derivedMap, clang.ModuleMap)
	assert.Contains(t, clang.BasicArguments, "-fmodule-name=CZip")
	assert.Contains(t, clang.BasicArguments, "-O0")
	assert.NotContains(t, clang.BasicArguments, "-fobjc-arc")
	require.Len(t, clang.Objects(), 2)
	assert.Equal(t, filepath.Join(params.TargetBuildDir("CZip"), "zip.c.o"), clang.Objects()[0])

	// The Swift dependent consumes the derived module map.
	appDesc, _ := p.Description(name("App"))
	appArgs := appDesc.(*plan.SwiftTargetBuildDescription).CompileArguments
	assert.Contains(t, appArgs, "-fmodule-map-file="+derivedMap)
}

func TestNewBuildPlan_MixedTargetRejected(t *testing.T) {
	target := swiftTarget("Blend", "a.swift")
	target.Implementation = domain.ImplementationMixed
	graph := buildGraph(t, []domain.Target{target}, []domain.Product{executableProduct("app", "Blend")})

	_, err := plan.NewBuildPlan(graph, testParams(t, "x86_64-unknown-linux-gnu", domain.Debug), plan.Options{})
	assert.ErrorIs(t, err, domain.ErrMixedTargetUnsupported)
}

func TestNewBuildPlan_NoBuildableTarget(t *testing.T) {
	binary := domain.Target{
		Name:           name("Blob"),
		Kind:           domain.TargetKindBinary,
		Implementation: domain.ImplementationBinary,
	}
	graph := buildGraph(t, []domain.Target{binary}, []domain.Product{executableProduct("app", "Blob")})

	_, err := plan.NewBuildPlan(graph, testParams(t, "x86_64-unknown-linux-gnu", domain.Debug), plan.Options{})
	assert.ErrorIs(t, err, domain.ErrNoBuildableTarget)
}

func TestNewBuildPlan_PlatformRequirementConflict(t *testing.T) {
	dep := swiftTarget("Modern", "modern.swift")
	dep.MinimumPlatformVersions = []domain.PlatformVersion{{Platform: domain.PlatformMacOS, Version: "13.0"}}
	app := swiftTarget("App", "main.swift")
	app.Kind = domain.TargetKindExecutable
	app.MinimumPlatformVersions = []domain.PlatformVersion{{Platform: domain.PlatformMacOS, Version: "11.0"}}
	app.Dependencies = []domain.TargetDependency{{Ref: domain.DependencyRef{Target: name("Modern")}}}

	graph := buildGraph(t, []domain.Target{app, dep}, []domain.Product{executableProduct("app", "App")})

	_, err := plan.NewBuildPlan(graph, testParams(t, "arm64-apple-macosx", domain.Debug), plan.Options{})
	require.ErrorIs(t, err, domain.ErrPlatformRequirementConflict)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "raise the macos deployment target of 'App' to at least 13.0", zErr.Metadata()["hint"])
}

func TestNewBuildPlan_BinaryArtifactVariant(t *testing.T) {
	binary := domain.Target{
		Name:           name("Analytics"),
		Kind:           domain.TargetKindBinary,
		Implementation: domain.ImplementationBinary,
	}
	app := swiftTarget("App", "main.swift")
	app.Kind = domain.TargetKindExecutable
	app.Dependencies = []domain.TargetDependency{{Ref: domain.DependencyRef{Target: name("Analytics")}}}

	graph := buildGraph(t, []domain.Target{app, binary}, []domain.Product{executableProduct("app", "App")})
	graph.Artifacts["Analytics"] = domain.ArtifactMetadata{
		Name: "Analytics",
		Variants: []domain.ArtifactVariant{{
			Triples:      []string{"x86_64-unknown-linux-gnu"},
			Kind:         domain.ArtifactKindStaticLibrary,
			HeaderPaths:  []string{filepath.Join("artifacts", "Analytics", "include")},
			LibraryPaths: []string{filepath.Join("artifacts", "Analytics", "libAnalytics.a")},
		}},
	}

	p, err := plan.NewBuildPlan(graph, testParams(t, "x86_64-unknown-linux-gnu", domain.Debug), plan.Options{})
	require.NoError(t, err)

	appDesc, _ := p.Description(name("App"))
	appArgs := appDesc.(*plan.SwiftTargetBuildDescription).CompileArguments
	assert.Contains(t, appArgs, "-I"+filepath.Join("artifacts", "Analytics", "include"))

	require.Len(t, p.ProductDescriptions, 1)
	product := p.ProductDescriptions[0]
	assert.Equal(t, []string{filepath.Join("artifacts", "Analytics", "libAnalytics.a")}, product.DependencyBinaries)

	// The other destination's triple has no variant: the artifact target
	// contributes nothing but planning still succeeds.
	p2, err := plan.NewBuildPlan(graph, testParams(t, "arm64-apple-macosx", domain.Debug), plan.Options{})
	require.NoError(t, err)
	_, ok := p2.Description(name("Analytics"))
	assert.False(t, ok)
}

func TestNewBuildPlan_SystemTargetMissingPkgConfig(t *testing.T) {
	system := domain.Target{
		Name:           name("CSQLite"),
		Kind:           domain.TargetKindSystem,
		Implementation: domain.ImplementationClang,
		PkgConfig:      "sqlite3",
		PkgConfigProviders: map[string]string{
			"brew": "brew install sqlite3",
			"apt":  "apt-get install libsqlite3-dev",
		},
	}
	app := swiftTarget("App", "main.swift")
	app.Kind = domain.TargetKindExecutable
	app.Dependencies = []domain.TargetDependency{{Ref: domain.DependencyRef{Target: name("CSQLite")}}}

	graph := buildGraph(t, []domain.Target{app, system}, []domain.Product{executableProduct("app", "App")})

	sink := &recordingSink{}
	missing := func(string) (ports.PkgConfigResult, error) {
		return ports.PkgConfigResult{}, os.ErrNotExist
	}
	_, err := plan.NewBuildPlan(graph, testParams(t, "x86_64-unknown-linux-gnu", domain.Debug), plan.Options{
		Diagnostics: sink,
		PkgConfig:   missing,
	})
	require.NoError(t, err)

	require.Len(t, sink.diags, 3)
	assert.Equal(t, domain.SeverityWarning, sink.diags[0].Severity)
	assert.Equal(t, "couldn't find pc file for sqlite3", sink.diags[0].Message)
	// Provider notes come out sorted by package manager.
	assert.Equal(t, "you may be able to install sqlite3 using your system-packager: apt-get install libsqlite3-dev", sink.diags[1].Message)
	assert.Equal(t, "you may be able to install sqlite3 using your system-packager: brew install sqlite3", sink.diags[2].Message)
}

func TestNewBuildPlan_SystemTargetFlagsFlow(t *testing.T) {
	system := domain.Target{
		Name:           name("CSQLite"),
		Kind:           domain.TargetKindSystem,
		Implementation: domain.ImplementationClang,
		PkgConfig:      "sqlite3",
	}
	clang := domain.Target{
		Name:           name("Wrapper"),
		Kind:           domain.TargetKindRegular,
		Implementation: domain.ImplementationClang,
		Path:           filepath.Join("Sources", "Wrapper"),
		Sources:        []string{"wrapper.c"},
		Dependencies:   []domain.TargetDependency{{Ref: domain.DependencyRef{Target: name("CSQLite")}}},
	}
	graph := buildGraph(t,
		[]domain.Target{clang, system},
		[]domain.Product{{Name: name("wrapper"), Type: domain.ProductTypeDynamicLibrary, Targets: []domain.InternedString{name("Wrapper")}}},
	)

	lookup := func(pkg string) (ports.PkgConfigResult, error) {
		require.Equal(t, "sqlite3", pkg)
		return ports.PkgConfigResult{
			CFlags: []string{"-I/usr/include/sqlite3"},
			Libs:   []string{"-lsqlite3"},
		}, nil
	}
	p, err := plan.NewBuildPlan(graph, testParams(t, "x86_64-unknown-linux-gnu", domain.Debug), plan.Options{PkgConfig: lookup})
	require.NoError(t, err)

	desc, _ := p.Description(name("Wrapper"))
	assert.Contains(t, desc.(*plan.ClangTargetBuildDescription).BasicArguments, "-I/usr/include/sqlite3")

	require.Len(t, p.ProductDescriptions, 1)
	assert.Contains(t, p.ProductDescriptions[0].LinkArguments, "-lsqlite3")
}

func TestNewBuildPlan_ClosureOrderDeterministic(t *testing.T) {
	leaf := swiftTarget("Leaf", "leaf.swift")
	mid := swiftTarget("Mid", "mid.swift")
	mid.Dependencies = []domain.TargetDependency{{Ref: domain.DependencyRef{Target: name("Leaf")}}}
	app := swiftTarget("App", "main.swift")
	app.Kind = domain.TargetKindExecutable
	app.Dependencies = []domain.TargetDependency{
		{Ref: domain.DependencyRef{Target: name("Mid")}},
		{Ref: domain.DependencyRef{Target: name("Leaf")}},
	}
	graph := buildGraph(t, []domain.Target{app, mid, leaf}, []domain.Product{executableProduct("app", "App")})
	params := testParams(t, "x86_64-unknown-linux-gnu", domain.Debug)

	first, err := plan.NewBuildPlan(graph, params, plan.Options{})
	require.NoError(t, err)
	second, err := plan.NewBuildPlan(graph, params, plan.Options{})
	require.NoError(t, err)

	require.Len(t, first.ProductDescriptions, 1)
	closure := first.ProductDescriptions[0].ClosureTargets
	got := make([]string, len(closure))
	for i, n := range closure {
		got[i] = n.String()
	}
	// Dependencies precede dependents; each target appears once.
	assert.Equal(t, []string{"Leaf", "Mid", "App"}, got)
	assert.Equal(t, first.ProductDescriptions[0].Objects, second.ProductDescriptions[0].Objects)
}

func TestNewBuildPlan_LinkArguments(t *testing.T) {
	target := swiftTarget("App", "main.swift")
	target.Kind = domain.TargetKindExecutable
	product := executableProduct("app", "App")
	product.LinkedLibraries = []string{"z"}
	product.UnsafeFlags = []string{"-Xlinker", "--allow-multiple-definition"}
	graph := buildGraph(t, []domain.Target{target}, []domain.Product{product})

	t.Run("linux release dead-strip", func(t *testing.T) {
		params := testParams(t, "x86_64-unknown-linux-gnu", domain.Release)
		params.LinkerDeadStrip = true
		p, err := plan.NewBuildPlan(graph, params, plan.Options{})
		require.NoError(t, err)

		args := p.ProductDescriptions[0].LinkArguments
		assert.Equal(t, "swiftc", args[0])
		assert.Contains(t, args, "-emit-executable")
		assert.Contains(t, args, "@"+p.ProductDescriptions[0].LinkFileList)
		assert.Contains(t, args, "-lz")
		assert.Contains(t, args, "--allow-multiple-definition")
		assert.Contains(t, args, "$ORIGIN")
		assert.Contains(t, args, "--gc-sections")
		assert.NotContains(t, args, "@loader_path")
	})

	t.Run("darwin debug ast paths", func(t *testing.T) {
		params := testParams(t, "arm64-apple-macosx", domain.Debug)
		p, err := plan.NewBuildPlan(graph, params, plan.Options{})
		require.NoError(t, err)

		args := p.ProductDescriptions[0].LinkArguments
		assert.Contains(t, args, "@loader_path")
		assert.Contains(t, args, "-add_ast_path")
		assert.NotContains(t, args, "$ORIGIN")
		assert.NotContains(t, args, "-dead_strip")
	})

	t.Run("wasi has no rpath", func(t *testing.T) {
		params := testParams(t, "wasm32-unknown-wasi", domain.Debug)
		p, err := plan.NewBuildPlan(graph, params, plan.Options{})
		require.NoError(t, err)

		args := p.ProductDescriptions[0].LinkArguments
		assert.NotContains(t, args, "-rpath")
		assert.Equal(t, filepath.Join(params.BuildPath(), "app.wasm"), p.ProductDescriptions[0].BinaryPath)
	})
}

func TestNewBuildPlan_LinkerSettingsReachLink(t *testing.T) {
	target := swiftTarget("App", "main.swift")
	target.Kind = domain.TargetKindExecutable
	target.Settings = []domain.ToolSetting{
		{Tool: domain.ToolLinker, Flags: []string{"-lsqlite3"}},
		{
			Tool:      domain.ToolLinker,
			Flags:     []string{"-lws2_32"},
			Condition: domain.DependencyCondition{Platforms: []domain.PlatformID{domain.PlatformWindows}},
		},
		{Tool: domain.ToolSwift, Flags: []string{"-DEXTRA"}},
	}
	dep := swiftTarget("Core", "core.swift")
	dep.Settings = []domain.ToolSetting{
		{Tool: domain.ToolLinker, Flags: []string{"-lz"}},
	}
	target.Dependencies = []domain.TargetDependency{{Ref: domain.DependencyRef{Target: name("Core")}}}
	graph := buildGraph(t, []domain.Target{target, dep}, []domain.Product{executableProduct("app", "App")})

	p, err := plan.NewBuildPlan(graph, testParams(t, "x86_64-unknown-linux-gnu", domain.Debug), plan.Options{})
	require.NoError(t, err)

	require.Len(t, p.ProductDescriptions, 1)
	args := p.ProductDescriptions[0].LinkArguments
	assert.Contains(t, args, "-lsqlite3")
	// The whole closure contributes, not just the member target.
	assert.Contains(t, args, "-lz")
	// Inactive conditions and other tools' settings stay out.
	assert.NotContains(t, args, "-lws2_32")
	assert.NotContains(t, args, "-DEXTRA")
}

func TestNewBuildPlan_EntrypointRename(t *testing.T) {
	target := swiftTarget("App", "main.swift")
	target.Kind = domain.TargetKindExecutable
	graph := buildGraph(t, []domain.Target{target}, []domain.Product{executableProduct("app", "App")})

	t.Run("linux defsym", func(t *testing.T) {
		params := testParams(t, "x86_64-unknown-linux-gnu", domain.Debug)
		params.CanRenameEntrypointFunctionName = true
		p, err := plan.NewBuildPlan(graph, params, plan.Options{})
		require.NoError(t, err)

		desc, _ := p.Description(name("App"))
		compile := desc.(*plan.SwiftTargetBuildDescription).CompileArguments
		assert.Contains(t, compile, "-entry-point-function-name")
		assert.Contains(t, compile, "App_main")

		link := p.ProductDescriptions[0].LinkArguments
		assert.Contains(t, link, "--defsym")
		assert.Contains(t, link, "main=App_main")
	})

	t.Run("darwin alias", func(t *testing.T) {
		params := testParams(t, "arm64-apple-macosx", domain.Debug)
		params.CanRenameEntrypointFunctionName = true
		p, err := plan.NewBuildPlan(graph, params, plan.Options{})
		require.NoError(t, err)

		link := p.ProductDescriptions[0].LinkArguments
		assert.Contains(t, link, "-alias")
		assert.Contains(t, link, "_App_main")
		assert.NotContains(t, link, "--defsym")
	})

	t.Run("disabled toolchain", func(t *testing.T) {
		p, err := plan.NewBuildPlan(graph, testParams(t, "x86_64-unknown-linux-gnu", domain.Debug), plan.Options{})
		require.NoError(t, err)

		desc, _ := p.Description(name("App"))
		assert.NotContains(t, desc.(*plan.SwiftTargetBuildDescription).CompileArguments, "-entry-point-function-name")
		assert.NotContains(t, p.ProductDescriptions[0].LinkArguments, "--defsym")
	})
}

func TestNewBuildPlan_StaticLibraryArchives(t *testing.T) {
	graph := buildGraph(t,
		[]domain.Target{swiftTarget("Core", "core.swift")},
		[]domain.Product{{Name: name("core"), Type: domain.ProductTypeStaticLibrary, Targets: []domain.InternedString{name("Core")}}},
	)

	params := testParams(t, "x86_64-unknown-linux-gnu", domain.Debug)
	p, err := plan.NewBuildPlan(graph, params, plan.Options{})
	require.NoError(t, err)

	d := p.ProductDescriptions[0]
	assert.Empty(t, d.LinkArguments)
	assert.Equal(t, []string{"ar", "crs", d.BinaryPath, "@" + d.LinkFileList}, d.ArchiveArguments)
	assert.Equal(t, filepath.Join(params.BuildPath(), "libcore.a"), d.BinaryPath)
}

func TestBuildPlan_WriteAuxiliaryFiles(t *testing.T) {
	clang := domain.Target{
		Name:           name("CZip"),
		Kind:           domain.TargetKindRegular,
		Implementation: domain.ImplementationClang,
		Path:           filepath.Join("Sources", "CZip"),
		Sources:        []string{"zip.c"},
		IncludeDir:     filepath.Join("Sources", "CZip", "include"),
	}
	swift := domain.Target{
		Name:           name("Assets"),
		Kind:           domain.TargetKindRegular,
		Implementation: domain.ImplementationSwift,
		Path:           filepath.Join("Sources", "My Assets"),
		Sources:        []string{"assets file.swift"},
		Resources:      []domain.Resource{{Rule: domain.ResourceRuleCopy, Path: "data.json"}},
	}
	graph := buildGraph(t,
		[]domain.Target{swift, clang},
		[]domain.Product{{Name: name("kit"), Type: domain.ProductTypeDynamicLibrary, Targets: []domain.InternedString{name("Assets"), name("CZip")}}},
	)

	params := testParams(t, "x86_64-unknown-linux-gnu", domain.Debug)
	p, err := plan.NewBuildPlan(graph, params, plan.Options{})
	require.NoError(t, err)
	require.NoError(t, p.WriteAuxiliaryFiles())

	desc, _ := p.Description(name("Assets"))
	accessor := desc.(*plan.SwiftTargetBuildDescription).ResourceAccessorSource
	content, err := os.ReadFile(accessor)
	require.NoError(t, err)
	assert.Contains(t, string(content), "extension Foundation.Bundle")
	assert.Contains(t, string(content), "demo_Assets.bundle")

	moduleMap, err := os.ReadFile(filepath.Join(params.TargetBuildDir("CZip"), "module.modulemap"))
	require.NoError(t, err)
	assert.Contains(t, string(moduleMap), "module CZip {")
	assert.Contains(t, string(moduleMap), "export *")

	list, err := os.ReadFile(p.ProductDescriptions[0].LinkFileList)
	require.NoError(t, err)
	assert.Contains(t, string(list), "assets\\ file.swift.o")
}
