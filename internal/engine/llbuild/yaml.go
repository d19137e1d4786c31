package llbuild

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EncodeYAML serializes the manifest with hand-ordered mapping nodes so that
// repeated encodings of the same manifest are byte-identical. Struct-tag
// marshaling is deliberately avoided: map iteration order must never leak
// into the output.
func (m *Manifest) EncodeYAML() ([]byte, error) {
	root := mapping()

	client := mapping()
	appendPair(client, "name", scalar(m.Client))
	appendPair(root, "client", client)

	targets := mapping()
	for _, t := range m.Targets {
		appendPair(targets, t.Name, sequence(t.Nodes))
	}
	appendPair(root, "targets", targets)

	commands := mapping()
	for _, c := range m.Commands {
		cmd := mapping()
		appendPair(cmd, "tool", scalar(string(c.Tool)))
		appendPair(cmd, "description", scalar(c.Description))
		appendPair(cmd, "inputs", sequence(c.Inputs))
		appendPair(cmd, "outputs", sequence(c.Outputs))
		if len(c.Args) > 0 {
			appendPair(cmd, "args", sequence(c.Args))
		}
		appendPair(commands, c.Name, cmd)
	}
	appendPair(root, "commands", commands)

	out, err := yaml.Marshal(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode manifest")
	}
	return out, nil
}

// Write encodes the manifest and writes it to path, creating parent
// directories as needed.
func (m *Manifest) Write(path string) error {
	data, err := m.EncodeYAML()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create manifest directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // Manifest is a build artifact
		return zerr.With(zerr.Wrap(err, "failed to write manifest"), "path", path)
	}
	return nil
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func sequence(values []string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, v := range values {
		n.Content = append(n.Content, scalar(v))
	}
	return n
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalar(key), value)
}
