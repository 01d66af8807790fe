// Package intake reads task descriptors from JSON, YAML, TOML and CSV files.
//
// Every format accepts the same record fields: key, summary, points,
// priority, type, epic, dependencies and status. JSON, YAML and TOML files
// may hold either a bare list of records or an object with an "issues" list
// (TOML only supports the latter, as [[issues]] tables). CSV files carry a
// header row; see csvColumns for the accepted column names.
//
// Records whose status is in Options.ExcludeStatuses are dropped. Nothing
// else is validated here: keys, effort values and dependencies are checked
// when the graph is built.
package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/sprintpack/internal/errors"
	"github.com/Iron-Ham/sprintpack/internal/task"
)

// Options controls decoding.
type Options struct {
	// ExcludeStatuses lists statuses whose records are dropped, compared
	// case-insensitively.
	ExcludeStatuses []string

	// SkipSchema disables JSON Schema validation of JSON input.
	SkipSchema bool
}

// DefaultOptions drops closed and done records and validates JSON input.
func DefaultOptions() Options {
	return Options{ExcludeStatuses: []string{"closed", "done"}}
}

// Excludes reports whether a record with the given status is dropped.
func (o Options) Excludes(status string) bool {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return false
	}
	return slices.ContainsFunc(o.ExcludeStatuses, func(s string) bool {
		return strings.ToLower(strings.TrimSpace(s)) == status
	})
}

// Load reads descriptors from path, choosing the format from its extension.
func Load(path string, opts Options) ([]task.Descriptor, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	descs, err := Decode(f, format, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return descs, nil
}

// Decode reads descriptors in the given format from r.
func Decode(r io.Reader, format Format, opts Options) ([]task.Descriptor, error) {
	var (
		records []record
		err     error
	)

	switch format {
	case FormatJSON:
		records, err = decodeJSON(r, opts)
	case FormatYAML:
		records, err = decodeYAML(r)
	case FormatTOML:
		records, err = decodeTOML(r)
	case FormatCSV:
		records, err = decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	descs := make([]task.Descriptor, 0, len(records))
	for _, rec := range records {
		if opts.Excludes(string(rec.Status)) {
			continue
		}
		descs = append(descs, rec.descriptor())
	}
	return descs, nil
}

func decodeJSON(r io.Reader, opts Options) ([]record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON input: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if !opts.SkipSchema {
		if err := validateSchema(data); err != nil {
			return nil, err
		}
	}

	if data[0] == '[' {
		var records []record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON input: %w", err)
		}
		return records, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON input: %w", err)
	}
	return doc.Issues, nil
}

func decodeYAML(r io.Reader) ([]record, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML input: %w", err)
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	if node.Kind == yaml.SequenceNode {
		var records []record
		if err := node.Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to parse YAML input: %w", err)
		}
		return records, nil
	}

	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML input: %w", err)
	}
	return doc.Issues, nil
}

func decodeTOML(r io.Reader) ([]record, error) {
	var doc document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML input: %w", err)
	}
	return doc.Issues, nil
}
