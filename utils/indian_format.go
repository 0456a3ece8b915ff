package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatIndianNumber renders an amount with Indian digit grouping
// (12,34,56,789): the last three digits form one group, every pair of digits
// after that forms another.
func FormatIndianNumber(amount float64) string {
	if amount == 0 {
		return "0"
	}

	negative := amount < 0
	text := strconv.FormatFloat(math.Abs(amount), 'f', -1, 64)

	integerPart := text
	decimalPart := ""
	if idx := strings.Index(text, "."); idx >= 0 {
		integerPart = text[:idx]
		decimalPart = text[idx:]
	}

	if len(integerPart) > 3 {
		head := integerPart[:len(integerPart)-3]
		tail := integerPart[len(integerPart)-3:]

		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		integerPart = strings.Join(append(groups, tail), ",")
	}

	formatted := integerPart + decimalPart
	if negative {
		return "-" + formatted
	}
	return formatted
}

// ParseIndianNumber parses a grouped amount string back into a number.
func ParseIndianNumber(text string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// IndianNumberLabel returns a short rupee label using lakh/crore units.
func IndianNumberLabel(amount float64) string {
	abs := math.Abs(amount)
	switch {
	case abs >= 1e7:
		crores := abs / 1e7
		suffix := ""
		if crores != 1 {
			suffix = "s"
		}
		return fmt.Sprintf("₹%.1f Crore%s", crores, suffix)
	case abs >= 1e5:
		lakhs := abs / 1e5
		suffix := ""
		if lakhs != 1 {
			suffix = "s"
		}
		return fmt.Sprintf("₹%.1f Lakh%s", lakhs, suffix)
	case abs >= 1e3:
		return fmt.Sprintf("₹%.1f Thousand", abs/1e3)
	default:
		return fmt.Sprintf("₹%.0f", abs)
	}
}
