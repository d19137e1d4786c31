package fs

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/forge/internal/core/ports"
)

// Default search directories consulted after PKG_CONFIG_PATH.
var defaultPkgConfigDirs = []string{
	"/usr/local/lib/pkgconfig",
	"/usr/local/share/pkgconfig",
	"/usr/lib/pkgconfig",
	"/usr/share/pkgconfig",
}

// NewPkgConfigLookup returns a lookup that finds and parses .pc files on the
// local filesystem. Directories listed in PKG_CONFIG_PATH take precedence
// over the platform defaults. Requires entries are resolved transitively and
// their flags appended after the package's own.
func NewPkgConfigLookup() ports.PkgConfigLookup {
	dirs := filepath.SplitList(os.Getenv("PKG_CONFIG_PATH"))
	dirs = append(dirs, defaultPkgConfigDirs...)
	return func(name string) (ports.PkgConfigResult, error) {
		return lookupPkgConfig(name, dirs, map[string]bool{})
	}
}

func lookupPkgConfig(name string, dirs []string, visited map[string]bool) (ports.PkgConfigResult, error) {
	if visited[name] {
		return ports.PkgConfigResult{}, nil
	}
	visited[name] = true

	path, err := findPCFile(name, dirs)
	if err != nil {
		return ports.PkgConfigResult{}, err
	}

	pc, err := parsePCFile(path)
	if err != nil {
		return ports.PkgConfigResult{}, err
	}

	result := ports.PkgConfigResult{CFlags: pc.cflags, Libs: pc.libs}
	for _, dep := range pc.requires {
		depResult, err := lookupPkgConfig(dep, dirs, visited)
		if err != nil {
			return ports.PkgConfigResult{}, zerr.With(err, "required-by", name)
		}
		result.CFlags = append(result.CFlags, depResult.CFlags...)
		result.Libs = append(result.Libs, depResult.Libs...)
	}
	return result, nil
}

func findPCFile(name string, dirs []string) (string, error) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name+".pc")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", zerr.With(zerr.New("pc file not found"), "name", name)
}

type pcFile struct {
	cflags   []string
	libs     []string
	requires []string
}

func parsePCFile(path string) (pcFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the pkg-config search dirs
	if err != nil {
		return pcFile{}, zerr.With(zerr.Wrap(err, "failed to read pc file"), "path", path)
	}

	var pc pcFile
	variables := map[string]string{
		"pcfiledir": filepath.Dir(path),
	}

	for _, line := range strings.Split(string(data), "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if key, value, ok := splitPCLine(line, ':'); ok {
			value = substituteVariables(value, variables)
			switch key {
			case "Cflags", "CFlags":
				pc.cflags = append(pc.cflags, splitFlags(value)...)
			case "Libs":
				pc.libs = append(pc.libs, splitFlags(value)...)
			case "Requires":
				pc.requires = append(pc.requires, parseRequires(value)...)
			}
			continue
		}
		if key, value, ok := splitPCLine(line, '='); ok {
			variables[key] = substituteVariables(value, variables)
		}
	}

	return pc, nil
}

// splitPCLine splits on sep only when sep appears before the other marker
// character, so "prefix=/opt" is a variable even though '/' paths may later
// contain colons on some platforms.
func splitPCLine(line string, sep byte) (string, string, bool) {
	idx := strings.IndexByte(line, sep)
	if idx < 0 {
		return "", "", false
	}
	other := byte('=')
	if sep == '=' {
		other = ':'
	}
	if otherIdx := strings.IndexByte(line, other); otherIdx >= 0 && otherIdx < idx {
		return "", "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return key, strings.TrimSpace(line[idx+1:]), true
}

func substituteVariables(value string, variables map[string]string) string {
	var out strings.Builder
	for {
		start := strings.Index(value, "${")
		if start < 0 {
			out.WriteString(value)
			break
		}
		end := strings.Index(value[start:], "}")
		if end < 0 {
			out.WriteString(value)
			break
		}
		out.WriteString(value[:start])
		out.WriteString(variables[value[start+2:start+end]])
		value = value[start+end+1:]
	}
	return out.String()
}

func splitFlags(value string) []string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// parseRequires splits a Requires list on commas and whitespace, dropping
// version constraints like ">= 1.2".
func parseRequires(value string) []string {
	value = strings.ReplaceAll(value, ",", " ")
	fields := strings.Fields(value)
	var names []string
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch f {
		case "=", "<", ">", "<=", ">=", "!=":
			i++ // skip the version operand
		default:
			names = append(names, f)
		}
	}
	return names
}
