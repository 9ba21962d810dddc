package utils

import (
	"log"
	"math"
	"strconv"
	"strings"
)

// GoSafe runs fn in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}

// ParsePositiveFloat parses text as a strictly positive finite number.
func ParsePositiveFloat(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// FormatPrice renders a price without trailing zeros (65000.5, 0.0821).
func FormatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return s
}

// FormatFloat renders v with the given number of decimals.
func FormatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatSignedPercent renders a percentage with sign, e.g. "+2.35%".
func FormatSignedPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if v > 0 {
		return "+" + s + "%"
	}
	return s + "%"
}

// FormatR renders an R-multiple, e.g. "+1.50R".
func FormatR(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	if v > 0 {
		return "+" + s + "R"
	}
	return s + "R"
}
