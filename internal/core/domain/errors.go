package domain

import "go.trai.ch/zerr"

var (
	// ErrNoBuildableTarget is returned when a plan or product closure
	// contains nothing that can produce build output.
	ErrNoBuildableTarget = zerr.New("no buildable target")

	// ErrPlatformRequirementConflict is returned when a target's minimum
	// platform version is older than a dependency's requirement.
	ErrPlatformRequirementConflict = zerr.New("platform deployment target conflict")

	// ErrDuplicateTarget is returned when two targets share a name.
	ErrDuplicateTarget = zerr.New("target already exists")

	// ErrDuplicateProduct is returned when two products share a name.
	ErrDuplicateProduct = zerr.New("product already exists")

	// ErrMissingDependency is returned when an edge references a target or
	// product that is not in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when the target graph has a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrInvalidTriple is returned for malformed destination triples.
	ErrInvalidTriple = zerr.New("invalid triple")

	// ErrMixedTargetUnsupported is returned for targets mixing Swift and
	// C-family sources.
	ErrMixedTargetUnsupported = zerr.New("mixed language targets are not supported")

	// ErrPlanningFailed wraps structural planning failures at the driver
	// boundary.
	ErrPlanningFailed = zerr.New("build planning failed")
)
