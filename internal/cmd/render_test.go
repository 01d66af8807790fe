package cmd

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"short summary unchanged", "Cart API", 10, "Cart API"},
		{"exact width unchanged", "Cart model", 10, "Cart model"},
		{"long summary truncated", "Payment provider", 10, "Payment..."},
		{"tiny width", "Cart", 3, "..."},
		{"empty", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncate_Styled(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("a fairly long summary line")
	got := truncate(styled, 12)
	if w := lipgloss.Width(got); w > 12 {
		t.Errorf("truncated width = %d, want at most 12", w)
	}
}

func TestPeriodHeader(t *testing.T) {
	tests := []struct {
		number int
		size   float64
		want   []string
	}{
		{1, 6, []string{"Sprint 1", "[0, 6)"}},
		{3, 2.5, []string{"Sprint 3", "[5, 7.5)"}},
		{0, 6, []string{"Unscheduled"}},
	}

	for _, tt := range tests {
		got := periodHeader(tt.number, tt.size)
		for _, want := range tt.want {
			if !strings.Contains(got, want) {
				t.Errorf("periodHeader(%d, %v) = %q, missing %q", tt.number, tt.size, got, want)
			}
		}
	}
}

func TestFormatWeight(t *testing.T) {
	tests := map[float64]string{
		0:     "0",
		3:     "3",
		0.5:   "0.5",
		12.25: "12.25",
	}
	for in, want := range tests {
		if got := formatWeight(in); got != want {
			t.Errorf("formatWeight(%v) = %q, want %q", in, got, want)
		}
	}
}
