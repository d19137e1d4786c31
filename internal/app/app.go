// Package app implements the application layer for forge.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"go.trai.ch/zerr"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/driver"
)

// App represents the main application logic.
type App struct {
	graphLoader ports.GraphLoader
	operation   *driver.Operation
	logger      ports.Logger
}

// New creates a new App instance.
func New(loader ports.GraphLoader, operation *driver.Operation, logger ports.Logger) *App {
	return &App{
		graphLoader: loader,
		operation:   operation,
		logger:      logger,
	}
}

// PlanRequest carries the user-facing knobs of one planning invocation.
type PlanRequest struct {
	// WorkingDir is where the graph document is looked up.
	WorkingDir string
	// Triple is the destination triple for product builds. Empty selects
	// the host triple.
	Triple string
	// Configuration is "debug" or "release".
	Configuration string
	// DataPath is the scratch root. Empty defaults to .forge under the
	// working directory.
	DataPath string
	// Jobs bounds batch-mode compiler parallelism; 0 means default.
	Jobs int
}

// PlanSummary reports both destinations' outcomes in planning order.
type PlanSummary struct {
	Tools    *driver.Result
	Products *driver.Result
}

// Plan loads the package graph and plans both build destinations: tools for
// the host, products for the requested triple.
func (a *App) Plan(ctx context.Context, req PlanRequest) (*PlanSummary, error) {
	graph, err := a.graphLoader.Load(req.WorkingDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load package graph")
	}

	config, err := parseConfiguration(req.Configuration)
	if err != nil {
		return nil, err
	}

	host, err := domain.ParseTriple(HostTriple())
	if err != nil {
		return nil, zerr.Wrap(err, "failed to parse host triple")
	}
	target := host
	if req.Triple != "" {
		target, err = domain.ParseTriple(req.Triple)
		if err != nil {
			return nil, err
		}
	}

	dataPath := req.DataPath
	if dataPath == "" {
		dataPath = filepath.Join(req.WorkingDir, ".forge")
	}

	summary := &PlanSummary{}

	toolsParams := a.buildParameters(domain.DestinationTools, host, config, dataPath, req.Jobs)
	summary.Tools, err = a.operation.Plan(ctx, graph, toolsParams)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to plan tools destination")
	}

	productParams := a.buildParameters(domain.DestinationProducts, target, config, dataPath, req.Jobs)
	summary.Products, err = a.operation.Plan(ctx, graph, productParams)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to plan products destination")
	}

	a.logger.Info(fmt.Sprintf("planned %s for %s (%s)", graph.PackageName, target, config))
	return summary, nil
}

func (a *App) buildParameters(dest domain.Destination, triple domain.Triple, config domain.BuildConfiguration, dataPath string, jobs int) domain.BuildParameters {
	return domain.BuildParameters{
		Destination:   dest,
		Triple:        triple,
		Configuration: config,
		Toolchain: domain.Toolchain{
			SwiftCompilerPath: "swiftc",
			ClangCompilerPath: "clang",
			LinkerPath:        "clang",
			ArchiverPath:      archiverFor(triple),
		},
		DataPath: filepath.Join(dataPath, string(dest)),
		JobCount: jobs,
	}
}

// archiverFor picks the archiver matching the argv style the planner emits
// for the triple: libtool takes -static/-filelist on Darwin, lib takes /OUT:
// on Windows, ar takes crs elsewhere.
func archiverFor(triple domain.Triple) string {
	switch {
	case triple.IsDarwin():
		return "libtool"
	case triple.IsWindows():
		return "lib"
	default:
		return "ar"
	}
}

func parseConfiguration(s string) (domain.BuildConfiguration, error) {
	switch s {
	case "", "debug":
		return domain.Debug, nil
	case "release":
		return domain.Release, nil
	default:
		return "", zerr.With(zerr.New("unknown configuration"), "configuration", s)
	}
}

// HostTriple derives the host's destination triple from the Go runtime.
func HostTriple() string {
	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	}

	switch runtime.GOOS {
	case "darwin":
		if arch == "aarch64" {
			arch = "arm64"
		}
		return arch + "-apple-macosx"
	case "windows":
		return arch + "-unknown-windows-msvc"
	case "linux":
		return arch + "-unknown-linux-gnu"
	default:
		return arch + "-unknown-" + runtime.GOOS
	}
}
