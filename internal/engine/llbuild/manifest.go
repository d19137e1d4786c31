// Package llbuild lowers a completed build plan into an explicit DAG of
// commands with declared inputs and outputs, consumable by an external
// incremental execution engine. Emission is fully deterministic: commands
// and targets are sorted by name and every list keeps plan order.
package llbuild

import (
	"fmt"
	"path/filepath"
	"sort"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/engine/plan"
)

// ToolKind selects the engine tool that executes a command.
type ToolKind string

const (
	// ToolSwiftCompiler compiles a whole Swift module in one command.
	ToolSwiftCompiler ToolKind = "swift-compiler"
	// ToolClang compiles one C-family source.
	ToolClang ToolKind = "clang"
	// ToolShell runs an arbitrary argv.
	ToolShell ToolKind = "shell"
	// ToolArchive archives objects into a static library.
	ToolArchive ToolKind = "archive"
	// ToolPhony aggregates nodes without running anything.
	ToolPhony ToolKind = "phony"
)

// Command is one node-producing step of the manifest DAG. Description is for
// human logs only; the engine's correctness depends solely on Inputs and
// Outputs.
type Command struct {
	Name        string
	Tool        ToolKind
	Description string
	Inputs      []string
	Outputs     []string
	Args        []string
}

// Manifest is the serializable DAG handed to the execution engine.
type Manifest struct {
	Client   string
	Targets  []Target
	Commands []Command
}

// Target is one engine-visible named node group.
type Target struct {
	Name  string
	Nodes []string
}

// NewManifest lowers a build plan. One compile command per Clang source, one
// whole-module command per Swift target, one module-wrap command per target
// needing it, one link or archive command per product, plus phony aggregates
// for the default and test groups.
func NewManifest(p *plan.BuildPlan) *Manifest {
	b := &builder{plan: p, params: p.Params}
	b.addTargets()
	b.addProducts()
	b.addAggregates()

	sort.Slice(b.commands, func(i, j int) bool { return b.commands[i].Name < b.commands[j].Name })
	sort.Slice(b.targets, func(i, j int) bool { return b.targets[i].Name < b.targets[j].Name })

	return &Manifest{
		Client:   "forge",
		Targets:  b.targets,
		Commands: b.commands,
	}
}

type builder struct {
	plan   *plan.BuildPlan
	params domain.BuildParameters

	commands []Command
	targets  []Target
}

func (b *builder) addTargets() {
	for _, desc := range b.plan.TargetDescriptions {
		switch d := desc.(type) {
		case *plan.SwiftTargetBuildDescription:
			b.addSwiftTarget(d)
		case *plan.ClangTargetBuildDescription:
			b.addClangTarget(d)
		case *plan.BinaryTargetBuildDescription:
			// Prebuilt artifacts contribute search paths to other
			// commands but have no commands of their own.
		}
	}
}

func (b *builder) addSwiftTarget(d *plan.SwiftTargetBuildDescription) {
	name := d.Target.Name.String()
	moduleTarget := b.params.LLBuildTargetName(name, "module")

	inputs := append([]string{}, d.Sources...)
	if d.ResourceAccessorSource != "" {
		inputs = append(inputs, d.ResourceAccessorSource)
	}
	inputs = append(inputs, b.dependencyInputs(d.Target)...)

	// The whole-module command owns every source object plus the emitted
	// module; the wrap object is produced by its own command below.
	outputs := []string{d.ModulePath}
	for _, obj := range d.Objects() {
		if obj == d.ModuleWrapObject {
			continue
		}
		outputs = append(outputs, obj)
	}

	b.commands = append(b.commands, Command{
		Name:        "C." + moduleTarget,
		Tool:        ToolSwiftCompiler,
		Description: "Compiling Swift module " + name,
		Inputs:      inputs,
		Outputs:     outputs,
		Args:        d.CompileArguments,
	})

	nodes := outputs
	if d.ModuleWrapObject != "" {
		b.commands = append(b.commands, Command{
			Name:        "C." + moduleTarget + ".modulewrap",
			Tool:        ToolShell,
			Description: "Wrapping AST for " + name + " for debugging",
			Inputs:      []string{d.ModulePath},
			Outputs:     []string{d.ModuleWrapObject},
			Args: []string{
				b.params.Toolchain.SwiftCompilerPath, "-modulewrap",
				d.ModulePath, "-o", d.ModuleWrapObject,
			},
		})
		nodes = append(nodes, d.ModuleWrapObject)
	}

	b.targets = append(b.targets, Target{Name: moduleTarget, Nodes: nodes})
}

func (b *builder) addClangTarget(d *plan.ClangTargetBuildDescription) {
	name := d.Target.Name.String()
	moduleTarget := b.params.LLBuildTargetName(name, "module")
	depInputs := b.dependencyInputs(d.Target)

	objects := d.Objects()
	for i, src := range d.Sources {
		obj := objects[i]
		args := append([]string{}, d.BasicArguments...)
		args = append(args, "-MD", "-MF", obj+".d")
		args = append(args, "-c", src, "-o", obj)

		inputs := append([]string{src}, depInputs...)
		b.commands = append(b.commands, Command{
			Name:        "C." + obj,
			Tool:        ToolClang,
			Description: fmt.Sprintf("Compiling %s %s", name, filepath.Base(src)),
			Inputs:      inputs,
			Outputs:     []string{obj},
			Args:        args,
		})
	}

	b.targets = append(b.targets, Target{Name: moduleTarget, Nodes: objects})
}

// dependencyInputs lists dependency-produced nodes a target's compile reads:
// emitted swiftmodules and module maps of active dependencies.
func (b *builder) dependencyInputs(t *domain.Target) []string {
	env := b.params.BuildEnvironment()
	var inputs []string
	for _, dep := range t.Dependencies {
		if !dep.Condition.Active(env) {
			continue
		}
		names := []domain.InternedString{}
		if dep.Ref.Target != (domain.InternedString{}) {
			names = append(names, dep.Ref.Target)
		} else if p, ok := b.plan.Graph.Product(dep.Ref.Product); ok {
			names = append(names, p.Targets...)
		}
		for _, n := range names {
			desc, ok := b.plan.Description(n)
			if !ok {
				continue
			}
			switch dd := desc.(type) {
			case *plan.SwiftTargetBuildDescription:
				inputs = append(inputs, dd.ModulePath)
			case *plan.ClangTargetBuildDescription:
				inputs = append(inputs, dd.ModuleMap)
			}
		}
	}
	return inputs
}

func (b *builder) addProducts() {
	for _, d := range b.plan.ProductDescriptions {
		name := d.Product.Name.String()
		llbuildName := b.params.LLBuildTargetName(name, productSuffix(d.ConcreteType))

		inputs := []string{d.LinkFileList}
		inputs = append(inputs, d.Objects...)
		inputs = append(inputs, d.DependencyBinaries...)

		cmd := Command{
			Name:    "C." + llbuildName,
			Inputs:  inputs,
			Outputs: []string{d.BinaryPath},
		}
		if d.ConcreteType == domain.ProductTypeStaticLibrary {
			cmd.Tool = ToolArchive
			cmd.Description = "Archiving " + filepath.Base(d.BinaryPath)
			cmd.Args = d.ArchiveArguments
		} else {
			cmd.Tool = ToolShell
			cmd.Description = "Linking " + filepath.Base(d.BinaryPath)
			cmd.Args = d.LinkArguments
		}
		b.commands = append(b.commands, cmd)
		b.targets = append(b.targets, Target{Name: llbuildName, Nodes: []string{d.BinaryPath}})
	}
}

// addAggregates emits the main and test phony groups over product binaries.
func (b *builder) addAggregates() {
	var main, test []string
	for _, d := range b.plan.ProductDescriptions {
		if d.ConcreteType == domain.ProductTypeTestBundle {
			test = append(test, d.BinaryPath)
		} else {
			main = append(main, d.BinaryPath)
		}
	}
	mainName := b.params.LLBuildTargetName("main", "top")
	testName := b.params.LLBuildTargetName("test", "top")
	b.commands = append(b.commands,
		Command{Name: "C." + mainName, Tool: ToolPhony, Description: "Planning build", Inputs: main, Outputs: []string{"<" + mainName + ">"}},
		Command{Name: "C." + testName, Tool: ToolPhony, Description: "Planning test build", Inputs: test, Outputs: []string{"<" + testName + ">"}},
	)
	b.targets = append(b.targets,
		Target{Name: mainName, Nodes: []string{"<" + mainName + ">"}},
		Target{Name: testName, Nodes: []string{"<" + testName + ">"}},
	)
}

func productSuffix(t domain.ProductType) string {
	switch t {
	case domain.ProductTypeExecutable:
		return "exe"
	case domain.ProductTypeTestBundle:
		return "test"
	default:
		return "product"
	}
}
