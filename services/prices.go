package services

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	priceCharsRegex = regexp.MustCompile(`[^\d.,]`)
	digitRunRegex   = regexp.MustCompile(`\d+`)
)

// CleanPrice converts scraped price text to a float. Currency symbols and
// whitespace are stripped; when both separators appear the rightmost one is
// the decimal point ("1.500,50" -> 1500.50, "1,500.50" -> 1500.50), a lone
// comma is a decimal comma ("150,50" -> 150.50). Empty or unparsable text
// yields 0.
func CleanPrice(text string) float64 {
	if text == "" {
		return 0.0
	}

	clean := priceCharsRegex.ReplaceAllString(text, "")
	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		clean = strings.Replace(clean, ",", ".", 1)
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0.0
	}
	return val
}

// ApplyIncrement applies the configured markup multiplier to a price,
// truncating (not rounding) the result to an integer. Non-positive input
// yields 0.
func ApplyIncrement(price, multiplier float64) float64 {
	if price <= 0 {
		return 0.0
	}
	return float64(int64(price * multiplier))
}

// ExtractNumber returns the first run of digits in text as an integer, or
// nil when the text contains no digits.
func ExtractNumber(text string) *int {
	if text == "" {
		return nil
	}
	match := digitRunRegex.FindString(text)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &n
}
