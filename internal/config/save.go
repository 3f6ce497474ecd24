package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrNotMapping = errors.New("config key is not a mapping")

// SaveTheme sets the theme key of the config file at configPath, keeping
// the comments and layout of everything else.
func SaveTheme(configPath, name string) error {
	return SetValue(configPath, []string{"theme"}, name)
}

// SaveLexerOption sets lexer_options.<name>.
func SaveLexerOption(configPath, name, value string) error {
	return SetValue(configPath, []string{"lexer_options", name}, value)
}

// SaveFormatterOption sets formatter_options.<name>.
func SaveFormatterOption(configPath, name, value string) error {
	return SetValue(configPath, []string{"formatter_options", name}, value)
}

// SetValue sets the scalar at the key path in the config file, creating
// the file and intermediate mappings as needed.
func SetValue(configPath string, path []string, value string) error {
	if len(path) == 0 {
		return fmt.Errorf("empty key path")
	}
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fmt.Errorf("%w: document root", ErrNotMapping)
	}

	node := doc.Content[0]
	for i, key := range path {
		if node.Kind != yaml.MappingNode {
			return fmt.Errorf("%w: %v", ErrNotMapping, path[:i])
		}
		last := i == len(path)-1
		child := lookup(node, key)
		switch {
		case child == nil && last:
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				scalar(value))
		case child == nil:
			child = &yaml.Node{Kind: yaml.MappingNode}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, child)
		case last:
			child.Kind, child.Tag, child.Value, child.Content = yaml.ScalarNode, "", value, nil
		case child.Kind == yaml.ScalarNode && child.Tag == "!!null":
			child.Kind, child.Tag, child.Value = yaml.MappingNode, "", ""
		}
		node = child
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = enc.Close()
	return writeAtomic(configPath, buf.Bytes())
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

// writeAtomic writes data to a temporary file next to path and renames it
// over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	temp, err := os.CreateTemp(dir, ".hilite.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()
	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
