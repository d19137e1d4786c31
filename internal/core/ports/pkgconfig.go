package ports

// PkgConfigResult is what a pkg-config lookup contributes to dependents of a
// system-library target.
type PkgConfigResult struct {
	CFlags []string
	Libs   []string
}

// PkgConfigLookup resolves a system target's pkg-config name. A nil lookup
// disables system-library flag resolution entirely.
type PkgConfigLookup func(name string) (PkgConfigResult, error)
