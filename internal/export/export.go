// Package export writes labeled schedules as CSV, JSON or YAML.
package export

import (
	"cmp"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/sprintpack/internal/bucket"
	"github.com/Iron-Ham/sprintpack/internal/errors"
	"github.com/Iron-Ham/sprintpack/internal/period"
)

// Format identifies an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, s)
	}
}

// Row is one placement in flat form.
type Row struct {
	Period       int     `json:"period" yaml:"period"`
	Lane         int     `json:"lane" yaml:"lane"`
	Key          string  `json:"key" yaml:"key"`
	Summary      string  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Group        string  `json:"group,omitempty" yaml:"group,omitempty"`
	Effort       float64 `json:"effort" yaml:"effort"`
	WeightBefore float64 `json:"weight_before" yaml:"weight_before"`
	WeightAfter  float64 `json:"weight_after" yaml:"weight_after"`
}

// Document is the JSON and YAML output shape.
type Document struct {
	Lanes      int     `json:"lanes" yaml:"lanes"`
	Span       float64 `json:"span" yaml:"span"`
	Periods    int     `json:"periods" yaml:"periods"`
	Placements []Row   `json:"placements" yaml:"placements"`
}

// Rows flattens a schedule ordered by period, then start weight, then lane.
// Unlabeled placements sort after every labeled one.
func Rows(sched *bucket.Schedule) []Row {
	placements := sched.Placements()
	rows := make([]Row, 0, len(placements))
	for _, p := range placements {
		rows = append(rows, Row{
			Period:       p.Period,
			Lane:         p.Lane,
			Key:          p.Key(),
			Summary:      p.Task.Summary,
			Group:        p.Task.GroupKey,
			Effort:       p.Task.Effort,
			WeightBefore: p.WeightBefore,
			WeightAfter:  p.WeightAfter,
		})
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(periodRank(a.Period), periodRank(b.Period)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.WeightBefore, b.WeightBefore); c != 0 {
			return c
		}
		return cmp.Compare(a.Lane, b.Lane)
	})
	return rows
}

func periodRank(n int) int {
	if n == 0 {
		return math.MaxInt
	}
	return n
}

// NewDocument builds the JSON and YAML output for a schedule.
func NewDocument(sched *bucket.Schedule) Document {
	return Document{
		Lanes:      len(sched.Lanes),
		Span:       sched.Span(),
		Periods:    len(period.Group(sched.Placements())),
		Placements: Rows(sched),
	}
}

// Write encodes sched to w.
//
// CSV output has one "Sprint N" column per period with the keys of the
// tasks starting in that period listed down the column. Unlabeled placements
// are left out of CSV output.
func Write(w io.Writer, sched *bucket.Schedule, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, sched)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(sched))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(sched)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, format)
	}
}

func writeCSV(w io.Writer, sched *bucket.Schedule) error {
	byPeriod := make(map[int][]string)
	numbers := []int{}
	depth := 0
	for _, row := range Rows(sched) {
		if row.Period == 0 {
			continue
		}
		if _, ok := byPeriod[row.Period]; !ok {
			numbers = append(numbers, row.Period)
		}
		byPeriod[row.Period] = append(byPeriod[row.Period], row.Key)
		depth = max(depth, len(byPeriod[row.Period]))
	}

	cw := csv.NewWriter(w)

	header := make([]string, len(numbers))
	for i, n := range numbers {
		header[i] = fmt.Sprintf("Sprint %d", n)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := 0; i < depth; i++ {
		line := make([]string, len(numbers))
		for j, n := range numbers {
			if keys := byPeriod[n]; i < len(keys) {
				line[j] = keys[i]
			}
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
