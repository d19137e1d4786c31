package domain

// ProductType classifies what a product links into.
type ProductType string

const (
	// ProductTypeExecutable links an executable.
	ProductTypeExecutable ProductType = "executable"
	// ProductTypeStaticLibrary archives a static library.
	ProductTypeStaticLibrary ProductType = "staticLibrary"
	// ProductTypeDynamicLibrary links a dynamic library.
	ProductTypeDynamicLibrary ProductType = "dynamicLibrary"
	// ProductTypeAutomaticLibrary defers the linkage decision to the
	// consumer; the planner resolves it using supplied metadata.
	ProductTypeAutomaticLibrary ProductType = "automaticLibrary"
	// ProductTypeTestBundle links a test bundle.
	ProductTypeTestBundle ProductType = "testBundle"
)

// Product is one linkable unit of the consumed package graph.
type Product struct {
	Name    InternedString
	Type    ProductType
	Targets []InternedString

	// PreferredLinkage resolves automaticLibrary products. It is supplied
	// by the resolver that produced the graph; the planner only consumes
	// it. Valid values are ProductTypeStaticLibrary and
	// ProductTypeDynamicLibrary; empty defaults to static.
	PreferredLinkage ProductType

	// LinkedLibraries and LinkedFrameworks are declared link inputs,
	// emitted ahead of any other linker flags in declaration order.
	LinkedLibraries  []string
	LinkedFrameworks []string
	// UnsafeFlags are declared raw linker flags.
	UnsafeFlags []string
}

// ConcreteType resolves automaticLibrary to a concrete product type.
func (p *Product) ConcreteType() ProductType {
	if p.Type != ProductTypeAutomaticLibrary {
		return p.Type
	}
	if p.PreferredLinkage == ProductTypeDynamicLibrary {
		return ProductTypeDynamicLibrary
	}
	return ProductTypeStaticLibrary
}
