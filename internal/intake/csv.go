package intake

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/sprintpack/internal/errors"
)

// csvColumns maps accepted header names to record fields. Headers are
// compared after lowercasing and trimming.
var csvColumns = map[string]string{
	"key":          "key",
	"issue key":    "key",
	"summary":      "summary",
	"points":       "points",
	"effort":       "points",
	"story points": "points",
	"priority":     "priority",
	"type":         "type",
	"kind":         "type",
	"issue type":   "type",
	"epic":         "epic",
	"group":        "epic",
	"epic link":    "epic",
	"dependencies": "dependencies",
	"depends on":   "dependencies",
	"status":       "status",
	"sprint":       "sprint",
}

func decodeCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	hasKey := false
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[i] = csvColumns[name]
		if columns[i] == "key" {
			hasKey = true
		}
	}
	if !hasKey {
		return nil, errors.NewValidationError("CSV header has no key column").
			WithField("header").
			WithValue(strings.Join(header, ","))
	}

	var records []record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		var rec record
		for i, value := range row {
			setColumn(&rec, columns[i], value)
		}
		records = append(records, rec)
	}
	return records, nil
}

func setColumn(rec *record, column, value string) {
	f := field(value)
	switch column {
	case "key":
		rec.Key = f
	case "summary":
		rec.Summary = f
	case "points":
		rec.Points = f
	case "priority":
		rec.Priority = f
	case "type":
		rec.Type = f
	case "epic":
		rec.Epic = f
	case "dependencies":
		rec.Dependencies = f
	case "status":
		rec.Status = f
	case "sprint":
		rec.Sprint = f
	}
}
