package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveWatch updates the auto_watch flag and watch section in the config
// file. Comments and formatting in other sections are preserved by editing
// the yaml.Node tree instead of re-marshaling the whole config.
func SaveWatch(configPath string, autoWatch bool, w WatchConfig) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: caller-supplied config path
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	watchNode, err := buildWatchNode(w)
	if err != nil {
		return fmt.Errorf("building watch node: %w", err)
	}
	autoWatchNode := &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%t", autoWatch)}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: "auto_watch"},
						autoWatchNode,
						{Kind: yaml.ScalarNode, Value: "watch"},
						watchNode,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			setMappingKey(root, "auto_watch", autoWatchNode)
			setMappingKey(root, "watch", watchNode)
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// setMappingKey replaces the value for key in a mapping node, appending the
// pair when the key is absent.
func setMappingKey(root *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i < len(root.Content)-1; i += 2 {
		if root.Content[i].Value == key {
			root.Content[i+1] = value
			return
		}
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

// buildWatchNode converts a WatchConfig to a yaml.Node via its YAML shape.
func buildWatchNode(w WatchConfig) (*yaml.Node, error) {
	// Round-trip through yaml to get a node with the right structure. The
	// mapstructure tags don't apply to yaml.Marshal, so use an explicit map
	// to keep the on-disk key names stable.
	shape := map[string]any{
		"package":     w.Package,
		"directory":   w.Directory,
		"debounce_ms": w.DebounceMS,
	}
	if len(w.Extensions) > 0 {
		shape["extensions"] = w.Extensions
	}
	if len(w.Exclude) > 0 {
		shape["exclude"] = w.Exclude
	}

	raw, err := yaml.Marshal(shape)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0], nil
	}
	return &node, nil
}

// writeAtomic writes to a temp file in the target directory, then renames.
func writeAtomic(configPath string, content []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".resman.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(content); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
