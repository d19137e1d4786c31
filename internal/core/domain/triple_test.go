package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/forge/internal/core/domain"
)

func TestParseTriple(t *testing.T) {
	tests := []struct {
		input string
		want  domain.Triple
	}{
		{"x86_64-unknown-linux-gnu", domain.Triple{Arch: "x86_64", Vendor: "unknown", OS: "linux", ABI: "gnu"}},
		{"arm64-apple-macosx", domain.Triple{Arch: "arm64", Vendor: "apple", OS: "macosx"}},
		{"wasm32-unknown-wasi", domain.Triple{Arch: "wasm32", Vendor: "unknown", OS: "wasi"}},
		{"x86_64-unknown-windows-msvc", domain.Triple{Arch: "x86_64", Vendor: "unknown", OS: "windows", ABI: "msvc"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := domain.ParseTriple(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParseTriple_Invalid(t *testing.T) {
	for _, input := range []string{"", "x86_64", "x86_64-unknown", "a-b-c-d-e", "x86_64--linux"} {
		t.Run(input, func(t *testing.T) {
			_, err := domain.ParseTriple(input)
			assert.ErrorIs(t, err, domain.ErrInvalidTriple)
		})
	}
}

func TestTriple_ObjectFormat(t *testing.T) {
	tests := []struct {
		triple string
		format domain.ObjectFormat
		wrap   bool
	}{
		{"arm64-apple-macosx", domain.ObjectFormatMachO, false},
		{"arm64-apple-ios", domain.ObjectFormatMachO, false},
		{"x86_64-unknown-linux-gnu", domain.ObjectFormatELF, true},
		{"x86_64-unknown-windows-msvc", domain.ObjectFormatCOFF, true},
		{"wasm32-unknown-wasi", domain.ObjectFormatWasm, false},
		// Unknown OS falls back to ELF semantics.
		{"x86_64-unknown-haiku", domain.ObjectFormatELF, true},
	}
	for _, tt := range tests {
		t.Run(tt.triple, func(t *testing.T) {
			triple, err := domain.ParseTriple(tt.triple)
			require.NoError(t, err)
			assert.Equal(t, tt.format, triple.ObjectFormat())
			assert.Equal(t, tt.wrap, triple.RequiresModuleWrap())
		})
	}
}

func TestTriple_Naming(t *testing.T) {
	linux, err := domain.ParseTriple("x86_64-unknown-linux-gnu")
	require.NoError(t, err)
	assert.Equal(t, "", linux.ExecutableSuffix())
	assert.Equal(t, "lib", linux.DynamicLibraryPrefix())
	assert.Equal(t, ".so", linux.DynamicLibrarySuffix())
	assert.Equal(t, ".a", linux.StaticLibrarySuffix())

	darwin, err := domain.ParseTriple("arm64-apple-macosx")
	require.NoError(t, err)
	assert.Equal(t, ".dylib", darwin.DynamicLibrarySuffix())
	assert.Equal(t, ".a", darwin.StaticLibrarySuffix())

	windows, err := domain.ParseTriple("x86_64-unknown-windows-msvc")
	require.NoError(t, err)
	assert.Equal(t, ".exe", windows.ExecutableSuffix())
	assert.Equal(t, "", windows.DynamicLibraryPrefix())
	assert.Equal(t, ".dll", windows.DynamicLibrarySuffix())
	assert.Equal(t, ".lib", windows.StaticLibrarySuffix())

	wasi, err := domain.ParseTriple("wasm32-unknown-wasi")
	require.NoError(t, err)
	assert.Equal(t, ".wasm", wasi.ExecutableSuffix())
}

func TestTriple_Platform(t *testing.T) {
	tests := []struct {
		triple   string
		platform domain.PlatformID
	}{
		{"arm64-apple-macosx", domain.PlatformMacOS},
		{"arm64-apple-ios", domain.PlatformIOS},
		{"x86_64-unknown-linux-gnu", domain.PlatformLinux},
		{"x86_64-unknown-windows-msvc", domain.PlatformWindows},
		{"wasm32-unknown-wasi", domain.PlatformWASI},
	}
	for _, tt := range tests {
		triple, err := domain.ParseTriple(tt.triple)
		require.NoError(t, err)
		assert.Equal(t, tt.platform, triple.Platform())
	}
}
