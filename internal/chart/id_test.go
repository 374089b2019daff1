package chart

import "testing"

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ClimbsByNation", "climbs-by-nation"},
		{"climbs-by-nation", "climbs-by-nation"},
		{"climbs_by  nation", "climbs-by-nation"},
		{"TimeByPeakAO", "time-by-peak-ao"},
		{"Top 20 Climbs by Nation", "top-20-climbs-by-nation"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeID(tt.in); got != tt.want {
				t.Errorf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeID_CamelAndKebabMatch(t *testing.T) {
	if NormalizeID("ClimbsByNation") != NormalizeID("climbs-by-nation") {
		t.Error("camel and kebab forms of the same id must normalize equally")
	}
}

func TestPascalID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"new-chart", "NewChart"},
		{"climbs_by_nation", "ClimbsByNation"},
		{"ClimbsByNation", "ClimbsByNation"},
		{"a--b", "AB"},
	}
	for _, tt := range tests {
		if got := PascalID(tt.in); got != tt.want {
			t.Errorf("PascalID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
