package devices

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var weightPattern = regexp.MustCompile(`(-?\s*[0-9]+(?:[\.,][0-9]+)?)\s?kg`)

// parseWeight extracts a kilogram value from a scale line such as
// "ST,GS,  12.345 kg" or "12,5".
func parseWeight(raw string) (float64, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return 0, errors.New("no data to parse")
	}

	if match := weightPattern.FindStringSubmatch(strings.ToLower(clean)); len(match) == 2 {
		return parseNumber(match[1])
	}

	normalized := strings.TrimSuffix(strings.ToLower(clean), "kg")
	return parseNumber(normalized)
}

func parseNumber(s string) (float64, error) {
	normalized := strings.ReplaceAll(s, ",", ".")
	normalized = strings.ReplaceAll(normalized, " ", "")
	return strconv.ParseFloat(normalized, 64)
}
