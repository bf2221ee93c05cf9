// Package sqlgate is the sole trust boundary between free-form model output
// and a live database connection. It validates lexically, not semantically:
// a statement that passes the gate can still be rejected by the database.
package sqlgate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrPolicyViolation is the class both rejection kinds wrap.
	ErrPolicyViolation = errors.New("unsafe sql rejected")

	ErrNotAReadQuery    = fmt.Errorf("%w: only SELECT queries are allowed", ErrPolicyViolation)
	ErrForbiddenKeyword = fmt.Errorf("%w: forbidden keyword", ErrPolicyViolation)
)

// Keywords are matched as standalone words so identifiers like createdDate
// pass while CREATE TABLE does not. Multi-statement inputs are only caught
// when a denylisted keyword follows the separator.
var forbiddenKeywords = regexp.MustCompile(`\b(insert|update|delete|drop|alter|truncate|exec|merge|create)\b`)

var fenceMarkers = regexp.MustCompile("(?i)```sql|```")

// StripFormatting removes markdown code-fence markers and backticks anywhere
// in the text and trims surrounding whitespace. It is idempotent.
func StripFormatting(text string) string {
	text = fenceMarkers.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "`", "")
	return strings.TrimSpace(text)
}

// Validate returns the statement unchanged (original casing preserved) if it
// passes the read-only policy, and a policy violation otherwise.
func Validate(statement string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(statement))
	if !strings.HasPrefix(normalized, "select") {
		return "", ErrNotAReadQuery
	}
	if match := forbiddenKeywords.FindString(normalized); match != "" {
		return "", fmt.Errorf("%w: %q", ErrForbiddenKeyword, match)
	}
	return statement, nil
}

// Clean strips formatting and validates in one step.
func Clean(raw string) (string, error) {
	return Validate(StripFormatting(raw))
}
