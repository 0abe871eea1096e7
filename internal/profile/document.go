package profile

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/muurk/autoinstall/internal/messages"
)

// ErrNotAMapping is returned when a profile document is not a flat mapping.
var ErrNotAMapping = errors.New("profile document must be a mapping of field names to values")

// MarshalYAML implements yaml.Marshaler. Keys are emitted in field order.
func (p *Profile) MarshalYAML() (interface{}, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range p.fields {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.name}
		value := &yaml.Node{}
		if err := value.Encode(f.Get()); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", f.name, err)
		}
		doc.Content = append(doc.Content, key, value)
	}
	return doc, nil
}

// Encode renders the profile as a YAML document.
func (p *Profile) Encode() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	return data, nil
}

// Decode parses a YAML profile document and overlays it on the defaults in
// document order. Only a document that cannot be parsed at all is an error;
// bad entries are reported to log and skipped.
func Decode(log *messages.Log, data []byte) (*Profile, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	p := New(log)

	// An empty document keeps every default
	if root.Kind == 0 || len(root.Content) == 0 {
		return p, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, ErrNotAMapping
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		keyNode, valueNode := doc.Content[i], doc.Content[i+1]

		var value any
		if err := valueNode.Decode(&value); err != nil {
			log.Warningf("Ignoring unreadable value for profile field %s", keyNode.Value)
			continue
		}
		switch value.(type) {
		case map[string]any, []any:
			log.Warningf("Ignoring nested value for profile field %s", keyNode.Value)
			continue
		}
		p.overlay(keyNode.Value, value)
	}

	return p, nil
}
