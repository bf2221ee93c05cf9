package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// Columns treated as an employment start date when deriving tenure.
var joiningColumns = map[string]bool{
	"joiningdate":  true,
	"joining_date": true,
	"hiredate":     true,
	"hire_date":    true,
	"startdate":    true,
	"start_date":   true,
}

// Experience renders tenure since joined as "N years M months", counting
// whole 365-day years and 30-day months of the remainder.
func Experience(joined, now time.Time) string {
	if joined.IsZero() || joined.After(now) {
		return "N/A"
	}
	days := int(now.Sub(joined).Hours() / 24)
	years := days / 365
	months := (days % 365) / 30
	return fmt.Sprintf("%d years %d months", years, months)
}

// enrichExperience adds a derived Experience value to every row carrying a
// joining-date column, so the summarizer can mention tenure without
// computing dates itself. Rows are copied; the executor's result is left
// untouched for the caller.
func enrichExperience(rows []map[string]any, now time.Time) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		copied := make(map[string]any, len(row)+1)
		for column, value := range row {
			copied[column] = value
		}
		for column, value := range row {
			if !joiningColumns[strings.ToLower(column)] {
				continue
			}
			if joined, ok := value.(time.Time); ok {
				copied["Experience"] = Experience(joined, now)
			}
			break
		}
		out = append(out, copied)
	}
	return out
}
