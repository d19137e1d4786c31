package fs

import (
	"os"
	"strings"

	"go.trai.ch/zerr"
)

// ReadDepfile parses a Makefile-style dependency file, as emitted by
// swiftc -emit-dependencies and clang -MD, into the list of paths it
// references. Rule targets (tokens ending in ':') are dropped, backslash
// line continuations are joined, and "\ " escapes inside paths are honored.
func ReadDepfile(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from the build layout
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read depfile"), "path", path)
	}
	return parseDepfile(string(data)), nil
}

func parseDepfile(data string) []string {
	var deps []string
	var token strings.Builder

	flush := func() {
		s := token.String()
		token.Reset()
		if s == "" {
			return
		}
		// A token ending in ':' names the rule, not a dependency.
		if strings.HasSuffix(s, ":") {
			return
		}
		deps = append(deps, s)
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch c {
		case '\\':
			if i+1 < len(data) {
				next := data[i+1]
				switch next {
				case '\n':
					flush()
					i++
					continue
				case '\r':
					flush()
					i++
					if i+1 < len(data) && data[i+1] == '\n' {
						i++
					}
					continue
				case ' ', '\\':
					token.WriteByte(next)
					i++
					continue
				}
			}
			token.WriteByte(c)
		case ' ', '\t', '\n', '\r':
			flush()
		default:
			token.WriteByte(c)
		}
	}
	flush()

	return deps
}
