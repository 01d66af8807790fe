package intake

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/sprintpack/internal/errors"
)

// Format identifies an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
)

// Formats returns the supported input formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML, FormatCSV}
}

// ParseFormat maps a format name to a Format. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, s)
	}
}

// FormatFromPath picks a Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no file extension", errors.ErrUnsupportedFormat, filepath.Base(path))
	}
	return ParseFormat(ext)
}
