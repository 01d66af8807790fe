// Package period labels placements with the fixed-size weight window
// ("sprint") they start in.
package period

import (
	"fmt"
	"slices"

	"github.com/Iron-Ham/sprintpack/internal/bucket"
	"github.com/Iron-Ham/sprintpack/internal/errors"
)

// DefaultMaxPeriods bounds the number of windows Label will scan.
const DefaultMaxPeriods = 100

// Period is one labeled window and the placements that start in it.
type Period struct {
	Number     int                 `json:"number" yaml:"number"`
	Placements []*bucket.Placement `json:"placements" yaml:"placements"`
}

// Label assigns Period = i+1 to every placement whose WeightBefore falls in
// [i*size, (i+1)*size), for i = 0, 1, ... It stops at the first window that
// contains no placement; anything beyond that window keeps Period 0. It
// returns the number of periods labeled. Existing labels are cleared first.
//
// Label fails with errors.ErrInvalidInput when size is not positive, and with
// errors.ErrNotConverged when more than maxPeriods windows would be needed.
// In that case the first maxPeriods windows are already labeled.
func Label(placements []*bucket.Placement, size float64, maxPeriods int) (int, error) {
	if size <= 0 {
		return 0, errors.NewValidationError("period size must be positive").
			WithField("size").
			WithValue(size)
	}

	for _, p := range placements {
		p.Period = 0
	}

	for i := 0; ; i++ {
		lo := float64(i) * size
		hi := float64(i+1) * size
		inWindow := func(p *bucket.Placement) bool {
			return p.WeightBefore >= lo && p.WeightBefore < hi
		}

		if !slices.ContainsFunc(placements, inWindow) {
			return i, nil
		}
		if i >= maxPeriods {
			return i, errors.NewSchedulingError(
				fmt.Sprintf("labeling needs more than %d periods", maxPeriods),
				errors.ErrNotConverged,
			).WithRemaining(unlabeledKeys(placements))
		}

		for _, p := range placements {
			if inWindow(p) {
				p.Period = i + 1
			}
		}
	}
}

// Group collects labeled placements by period number, in ascending order.
// Within a period placements keep their input order.
func Group(placements []*bucket.Placement) []Period {
	byNumber := make(map[int][]*bucket.Placement)
	for _, p := range placements {
		if p.Period > 0 {
			byNumber[p.Period] = append(byNumber[p.Period], p)
		}
	}

	numbers := make([]int, 0, len(byNumber))
	for n := range byNumber {
		numbers = append(numbers, n)
	}
	slices.Sort(numbers)

	out := make([]Period, len(numbers))
	for i, n := range numbers {
		out[i] = Period{Number: n, Placements: byNumber[n]}
	}
	return out
}

// Unlabeled returns the placements that were not assigned a period.
func Unlabeled(placements []*bucket.Placement) []*bucket.Placement {
	var out []*bucket.Placement
	for _, p := range placements {
		if p.Period == 0 {
			out = append(out, p)
		}
	}
	return out
}

func unlabeledKeys(placements []*bucket.Placement) []string {
	var keys []string
	for _, p := range Unlabeled(placements) {
		keys = append(keys, p.Key())
	}
	return keys
}
