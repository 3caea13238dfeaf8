package option

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoOptions is returned when an input yields no options.
	ErrNoOptions = errors.New("no options")
	// ErrInvalidValue is returned for values that are not scalars.
	ErrInvalidValue = errors.New("invalid option value")
	// ErrDuplicateValue is returned when two options share a value.
	ErrDuplicateValue = errors.New("duplicate option value")
)

// document is one mapping element of an options file. Value stays a node
// so its scalar text is kept exactly as written.
type document struct {
	Label string    `yaml:"label"`
	Value yaml.Node `yaml:"value"`
}

// Parse reads options from data. YAML or JSON sequences are decoded as
// documents; anything else is read line by line (see ParseLines).
func Parse(data []byte) ([]Option[string], error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '-') {
		return ParseDocument(trimmed)
	}
	return ParseLines(bytes.NewReader(data))
}

// ParseDocument decodes a YAML (or JSON) sequence. Each element is either a
// scalar, used as both label and value, or a mapping with label and value.
// Values are the scalar text as written: 1.50 stays "1.50" and 0x1F stays
// "0x1F".
func ParseDocument(data []byte) ([]Option[string], error) {
	var raw []yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse options: %w", err)
	}

	out := make([]Option[string], 0, len(raw))
	for i, node := range raw {
		switch node.Kind {
		case yaml.ScalarNode:
			out = append(out, New(node.Value, node.Value))
		case yaml.MappingNode:
			var d document
			if err := node.Decode(&d); err != nil {
				return nil, fmt.Errorf("option %d: %w", i, err)
			}
			switch {
			case d.Value.Kind == 0 || d.Value.ShortTag() == "!!null":
				out = append(out, New(d.Label, d.Label))
			case d.Value.Kind == yaml.ScalarNode:
				out = append(out, New(d.Label, d.Value.Value))
			default:
				return nil, fmt.Errorf("option %d: %w", i, ErrInvalidValue)
			}
		default:
			return nil, fmt.Errorf("option %d: %w", i, ErrInvalidValue)
		}
	}
	return validate(out)
}

// ParseLines reads one option per non-blank line. "label=value" sets both;
// a bare line is used as label and value.
func ParseLines(r io.Reader) ([]Option[string], error) {
	var out []Option[string]
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		label, value, ok := strings.Cut(line, "=")
		label = strings.TrimSpace(label)
		if !ok {
			out = append(out, New(label, label))
			continue
		}
		out = append(out, New(label, strings.TrimSpace(value)))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	return validate(out)
}

// validate rejects empty lists and values that appear twice.
func validate(list []Option[string]) ([]Option[string], error) {
	if len(list) == 0 {
		return nil, ErrNoOptions
	}
	seen := make(map[string]struct{}, len(list))
	for _, o := range list {
		if _, ok := seen[o.Value]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateValue, o.Value)
		}
		seen[o.Value] = struct{}{}
	}
	return list, nil
}
