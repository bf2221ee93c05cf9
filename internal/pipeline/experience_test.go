package pipeline

import (
	"testing"
	"time"
)

func TestExperienceFormatsYearsAndMonths(t *testing.T) {
	now := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		joined time.Time
		want   string
	}{
		{time.Date(2024, time.August, 29, 0, 0, 0, 0, time.UTC), "2 years 0 months"},
		{time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), "0 years 4 months"},
		{now, "0 years 0 months"},
	}
	for _, tc := range cases {
		if got := Experience(tc.joined, now); got != tc.want {
			t.Fatalf("Experience(%v) = %q, want %q", tc.joined, got, tc.want)
		}
	}
}

func TestExperienceHandlesMissingOrFutureDates(t *testing.T) {
	now := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)
	if got := Experience(time.Time{}, now); got != "N/A" {
		t.Fatalf("Experience(zero) = %q", got)
	}
	if got := Experience(now.AddDate(0, 1, 0), now); got != "N/A" {
		t.Fatalf("Experience(future) = %q", got)
	}
}

func TestEnrichExperienceAddsDerivedColumn(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := []map[string]any{
		{"Name": "Alice", "JoiningDate": time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"Name": "Bob", "JoiningDate": nil},
		{"Name": "Cara"},
	}

	got := enrichExperience(rows, now)
	if got[0]["Experience"] != "3 years 0 months" {
		t.Fatalf("rows[0][Experience] = %v", got[0]["Experience"])
	}
	if _, ok := got[1]["Experience"]; ok {
		t.Fatal("nil joining date should not produce experience")
	}
	if _, ok := got[2]["Experience"]; ok {
		t.Fatal("row without joining date should not produce experience")
	}
	// The executor's rows must not be mutated.
	if _, ok := rows[0]["Experience"]; ok {
		t.Fatal("enrichExperience mutated its input")
	}
}

func TestEnrichExperienceRecognizesSnakeCase(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := []map[string]any{
		{"name": "Dee", "hire_date": time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)},
	}
	got := enrichExperience(rows, now)
	if got[0]["Experience"] != "0 years 6 months" {
		t.Fatalf("Experience = %v", got[0]["Experience"])
	}
}
