package plan

import (
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
)

// newClangTargetDescription builds the compile description for one C-family
// target. pkgConfigCFlags carries compile flags contributed by active system
// dependencies.
func newClangTargetDescription(
	target *domain.Target,
	params domain.BuildParameters,
	clangDeps []clangDependency,
	binaryDeps []*BinaryTargetBuildDescription,
	pkgConfigCFlags []string,
) *ClangTargetBuildDescription {
	name := target.Name.String()

	d := &ClangTargetBuildDescription{
		Target:     target,
		Params:     params,
		IncludeDir: target.IncludeDir,
		ModuleMap:  target.ModuleMapPath,
	}
	if d.ModuleMap == "" {
		// No hand-written module map: the planner derives one so Swift
		// dependents can import the target.
		d.ModuleMap = filepath.Join(params.TargetBuildDir(name), "module.modulemap")
	}

	for _, src := range target.Sources {
		abs := filepath.Join(target.Path, src)
		d.Sources = append(d.Sources, abs)
		d.objects = append(d.objects, objectPath(params, name, src))
	}

	d.BasicArguments = clangBasicArguments(d, clangDeps, binaryDeps, pkgConfigCFlags)
	return d
}

func clangBasicArguments(
	d *ClangTargetBuildDescription,
	clangDeps []clangDependency,
	binaryDeps []*BinaryTargetBuildDescription,
	pkgConfigCFlags []string,
) []string {
	target := d.Target
	params := d.Params
	env := params.BuildEnvironment()

	args := []string{params.Toolchain.ClangCompilerPath}

	switch params.Configuration {
	case domain.Debug:
		args = append(args, "-O0", "-g", "-DDEBUG=1")
	case domain.Release:
		args = append(args, "-O2")
	}

	args = append(args, "-fblocks")
	args = append(args, "-fmodule-name="+target.Name.String())
	if params.Triple.IsDarwin() {
		args = append(args, "-fobjc-arc")
	}

	if target.IncludeDir != "" {
		args = append(args, "-I", target.IncludeDir)
	}
	args = append(args, "-iquote", target.Path)

	for _, dep := range clangDeps {
		args = append(args, "-fmodule-map-file="+dep.moduleMap)
		args = append(args, "-I", dep.includeDir)
	}
	for _, dep := range binaryDeps {
		for _, hdr := range dep.HeaderSearchPaths {
			args = append(args, "-I", hdr)
		}
		for _, fw := range dep.FrameworkSearchPaths {
			args = append(args, "-F", fw)
		}
	}
	args = append(args, pkgConfigCFlags...)

	for _, s := range params.Sanitizers {
		args = append(args, "-fsanitize="+s)
	}

	// Conditional per-tool settings in declaration order, then global
	// flags. C++ settings apply alongside C settings for C++ sources; the
	// planner concatenates both groups and lets the compiler ignore what
	// does not apply to the file's language.
	for _, setting := range target.Settings {
		if setting.Tool != domain.ToolC && setting.Tool != domain.ToolCXX {
			continue
		}
		if !setting.Condition.Active(env) {
			continue
		}
		args = append(args, setting.Flags...)
	}

	args = append(args, params.Flags.CCompilerFlags...)
	args = append(args, params.Toolchain.ExtraCFlags...)
	return args
}
