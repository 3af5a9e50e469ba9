package palette

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EncodeYAML renders the palette as a YAML mapping in canonical key order.
func (s *Store) EncodeYAML() ([]byte, error) {
	snap := s.Snapshot()

	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range Keys {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(k)},
			&yaml.Node{Kind: yaml.ScalarNode, Value: snap[k]},
		)
	}
	return yaml.Marshal(root)
}

// LoadFile reads a YAML palette file and applies its entries over the
// defaults. Unknown keys and malformed colors are rejected with an error so
// a bad file is caught up front rather than half-applied.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette: %w", err)
	}

	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing palette: %w", err)
	}

	s := NewStore()
	for k, v := range entries {
		if !s.Set(Key(k), v) {
			return nil, fmt.Errorf("palette entry %q: invalid key or color %q", k, v)
		}
	}
	return s, nil
}
