package app_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/adapters/state"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/driver"
)

func planGraph(t *testing.T) *domain.PackageGraph {
	t.Helper()
	g := domain.NewPackageGraph("demo")
	require.NoError(t, g.AddTarget(domain.Target{
		Name:           domain.NewInternedString("App"),
		Kind:           domain.TargetKindExecutable,
		Implementation: domain.ImplementationSwift,
		Path:           filepath.Join("Sources", "App"),
		Sources:        []string{"main.swift"},
	}))
	require.NoError(t, g.AddProduct(domain.Product{
		Name:    domain.NewInternedString("app"),
		Type:    domain.ProductTypeExecutable,
		Targets: []domain.InternedString{domain.NewInternedString("App")},
	}))
	require.NoError(t, g.Validate())
	return g
}

func newTestApp(t *testing.T, loader ports.GraphLoader) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	opener := func(path string) (ports.BuildRecordStore, error) {
		return state.NewStore(path)
	}
	operation := driver.NewOperation(
		log,
		logger.NewDiagnostics(log),
		telemetry.NewNoOpTracer(),
		opener,
		fs.ReadDepfile,
		nil,
	)
	return app.New(loader, operation, log)
}

func TestApp_Plan_BothDestinations(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockGraphLoader(ctrl)

	workDir := t.TempDir()
	dataPath := t.TempDir()
	loader.EXPECT().Load(workDir).Return(planGraph(t), nil)

	a := newTestApp(t, loader)
	summary, err := a.Plan(context.Background(), app.PlanRequest{
		WorkingDir:    workDir,
		Triple:        "wasm32-unknown-wasi",
		Configuration: "release",
		DataPath:      dataPath,
	})
	require.NoError(t, err)

	require.NotNil(t, summary.Tools)
	require.NotNil(t, summary.Products)
	assert.Equal(t, driver.StateNoCache, summary.Tools.State)
	assert.Equal(t, driver.StateNoCache, summary.Products.State)

	// Tools build for the host, products for the requested triple; the two
	// destinations get disjoint scratch roots.
	host, err := domain.ParseTriple(app.HostTriple())
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(dataPath, "tools", host.String(), "release", "tools-release.yaml"),
		summary.Tools.ManifestPath)
	assert.Equal(t,
		filepath.Join(dataPath, "products", "wasm32-unknown-wasi", "release", "products-release.yaml"),
		summary.Products.ManifestPath)
	assert.FileExists(t, summary.Tools.ManifestPath)
	assert.FileExists(t, summary.Products.ManifestPath)
}

func TestApp_Plan_DefaultsToHostTripleAndDebug(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockGraphLoader(ctrl)

	workDir := t.TempDir()
	loader.EXPECT().Load(workDir).Return(planGraph(t), nil)

	a := newTestApp(t, loader)
	summary, err := a.Plan(context.Background(), app.PlanRequest{WorkingDir: workDir})
	require.NoError(t, err)

	host, err := domain.ParseTriple(app.HostTriple())
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(workDir, ".forge", "products", host.String(), "debug", "products-debug.yaml"),
		summary.Products.ManifestPath)
}

func TestApp_Plan_UnknownConfiguration(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockGraphLoader(ctrl)
	loader.EXPECT().Load(gomock.Any()).Return(planGraph(t), nil)

	a := newTestApp(t, loader)
	_, err := a.Plan(context.Background(), app.PlanRequest{
		WorkingDir:    t.TempDir(),
		Configuration: "fastest",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown configuration")
}

func TestApp_Plan_LoaderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockGraphLoader(ctrl)
	loadErr := errors.New("no graph document")
	loader.EXPECT().Load(gomock.Any()).Return(nil, loadErr)

	a := newTestApp(t, loader)
	_, err := a.Plan(context.Background(), app.PlanRequest{WorkingDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load package graph")
	assert.ErrorIs(t, err, loadErr)
}

func TestApp_Plan_InvalidTriple(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockGraphLoader(ctrl)
	loader.EXPECT().Load(gomock.Any()).Return(planGraph(t), nil)

	a := newTestApp(t, loader)
	_, err := a.Plan(context.Background(), app.PlanRequest{
		WorkingDir: t.TempDir(),
		Triple:     "nonsense",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTriple)
}

func TestApp_Plan_ArchiverFollowsTriple(t *testing.T) {
	archiveGraph := func(t *testing.T) *domain.PackageGraph {
		t.Helper()
		g := domain.NewPackageGraph("demo")
		require.NoError(t, g.AddTarget(domain.Target{
			Name:           domain.NewInternedString("Core"),
			Kind:           domain.TargetKindRegular,
			Implementation: domain.ImplementationSwift,
			Path:           filepath.Join("Sources", "Core"),
			Sources:        []string{"core.swift"},
		}))
		require.NoError(t, g.AddProduct(domain.Product{
			Name:    domain.NewInternedString("core"),
			Type:    domain.ProductTypeStaticLibrary,
			Targets: []domain.InternedString{domain.NewInternedString("Core")},
		}))
		require.NoError(t, g.Validate())
		return g
	}

	tests := []struct {
		triple   string
		archiver string
		flavor   string
	}{
		{"arm64-apple-macosx", "libtool", "-filelist"},
		{"x86_64-unknown-linux-gnu", "ar", "crs"},
	}
	for _, tt := range tests {
		t.Run(tt.triple, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := mocks.NewMockGraphLoader(ctrl)
			loader.EXPECT().Load(gomock.Any()).Return(archiveGraph(t), nil)

			a := newTestApp(t, loader)
			summary, err := a.Plan(context.Background(), app.PlanRequest{
				WorkingDir: t.TempDir(),
				Triple:     tt.triple,
				DataPath:   t.TempDir(),
			})
			require.NoError(t, err)

			require.NotNil(t, summary.Products.Plan)
			require.Len(t, summary.Products.Plan.ProductDescriptions, 1)
			args := summary.Products.Plan.ProductDescriptions[0].ArchiveArguments
			require.NotEmpty(t, args)
			assert.Equal(t, tt.archiver, args[0])
			assert.Contains(t, args, tt.flavor)
		})
	}
}

func TestHostTriple(t *testing.T) {
	triple, err := domain.ParseTriple(app.HostTriple())
	require.NoError(t, err)
	assert.NotEmpty(t, triple.Arch)
	assert.NotEmpty(t, triple.OS)
}
