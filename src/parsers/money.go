package parsers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseMoney converts a CSV money field to a float. Currency symbols and
// thousands separators are stripped; a value wrapped in parentheses is
// accounting notation for negative.
func ParseMoney(s string) (float64, error) {
	cleaned := strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\""))
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := strings.ContainsAny(cleaned, "()")
	replacer := strings.NewReplacer("$", "", ",", "", "(", "", ")", "", " ", "")
	cleaned = replacer.Replace(cleaned)

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		value = -value
	}
	return value, nil
}

var dateLayouts = []string{"1/2/2006", "01/02/2006", "2006-01-02"}

// ParseDate parses a US-locale M/D/YYYY (or ISO) date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
