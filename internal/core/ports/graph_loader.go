// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/forge/internal/core/domain"

// GraphLoader loads the resolved package graph the planner consumes.
// Producing the graph (manifest parsing, version resolution) is out of scope;
// this is the boundary it arrives through.
//
//go:generate go run go.uber.org/mock/mockgen -source=graph_loader.go -destination=mocks/mock_graph_loader.go -package=mocks
type GraphLoader interface {
	// Load reads the resolved graph from the given working directory.
	Load(cwd string) (*domain.PackageGraph, error)
}
