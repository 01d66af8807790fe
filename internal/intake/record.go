package intake

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/sprintpack/internal/task"
)

// field is a scalar that may arrive as a string, a number, a boolean, null,
// or a list of those. Lists are joined with commas, so a dependency list can
// be written either as "A, B" or as ["A", "B"].
type field string

func (f *field) set(v any) error {
	s, err := stringify(v)
	if err != nil {
		return err
	}
	*f = field(s)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *field) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return f.set(v)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *field) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return f.set(v)
}

// UnmarshalTOML implements toml.Unmarshaler.
func (f *field) UnmarshalTOML(v any) error {
	return f.set(v)
}

func stringify(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case json.Number:
		return x.String(), nil
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			s, err := stringify(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}

// record is one input row before it becomes a task.Descriptor. Sprint is
// accepted for compatibility with tracker exports and otherwise ignored.
type record struct {
	Key          field `json:"key" yaml:"key" toml:"key"`
	Summary      field `json:"summary" yaml:"summary" toml:"summary"`
	Points       field `json:"points" yaml:"points" toml:"points"`
	Priority     field `json:"priority" yaml:"priority" toml:"priority"`
	Type         field `json:"type" yaml:"type" toml:"type"`
	Epic         field `json:"epic" yaml:"epic" toml:"epic"`
	Dependencies field `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
	Status       field `json:"status" yaml:"status" toml:"status"`
	Sprint       field `json:"sprint" yaml:"sprint" toml:"sprint"`
}

func (r record) descriptor() task.Descriptor {
	return task.Descriptor{
		Key:          string(r.Key),
		Summary:      string(r.Summary),
		Effort:       string(r.Points),
		Priority:     string(r.Priority),
		Kind:         string(r.Type),
		GroupKey:     string(r.Epic),
		Dependencies: string(r.Dependencies),
		Status:       string(r.Status),
	}
}

// document is the wrapped form of an input file: {"issues": [...]}.
type document struct {
	Issues []record `json:"issues" yaml:"issues" toml:"issues"`
}
