package render

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatCount renders an integer with locale digit grouping, e.g. 1234567 -> "1,234,567".
func formatCount(n uint64) string {
	return printer.Sprintf("%d", n)
}

// formatSeconds renders a duration in seconds with the shortest decimal and an "s" suffix.
func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64) + "s"
}
