package record

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ParseCurrency reads a market-value display string like "€1.5m", "€500k"
// or "€1.2b" into absolute currency units. The placeholder "-" and anything
// else unparseable yields (MarketValueMissing, false).
func ParseCurrency(raw string) (int64, bool) {
	value := strings.TrimSpace(raw)
	value = strings.Trim(value, "€$£")
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return MarketValueMissing, false
	}

	multiplier := float64(1)
	switch suffix := value[len(value)-1]; suffix {
	case 'k', 'K':
		multiplier = 1e3
		value = value[:len(value)-1]
	case 'm', 'M':
		multiplier = 1e6
		value = value[:len(value)-1]
	case 'b', 'B':
		multiplier = 1e9
		value = value[:len(value)-1]
	}

	number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || number < 0 {
		return MarketValueMissing, false
	}
	return int64(math.Round(number * multiplier)), true
}

// ParseHeight reads a height display string into centimeters. Accepted
// shapes: metric meter strings with a decimal comma or point ("1,85m"),
// and centimeter strings ("185 cm", "185").
func ParseHeight(raw string) (int, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == "-" {
		return 0, false
	}
	value = strings.TrimSuffix(value, "cm")
	value = strings.TrimSuffix(value, "m")
	value = strings.ReplaceAll(value, ",", ".")
	value = strings.TrimSpace(value)

	number, err := strconv.ParseFloat(value, 64)
	if err != nil || number <= 0 {
		return 0, false
	}
	// Meter-scale values get converted; anything else is already cm.
	if number < 3 {
		number *= 100
	}
	cm := int(math.Round(number))
	if cm < 100 || cm > 250 {
		return 0, false
	}
	return cm, true
}

// CmToFtIn converts centimeters to (feet, inches), rounding total inches to
// nearest before splitting: 185cm → 72.8in → 73in → (6, 1).
func CmToFtIn(cm int) (int, int) {
	inches := int(math.Round(float64(cm) / 2.54))
	return inches / 12, inches % 12
}

// YearsMonthsBetween is the calendar-aware difference between two dates,
// accounting for day-of-month rollover. Operand order does not matter.
func YearsMonthsBetween(d1, d2 time.Time) (int, int) {
	if d1.After(d2) {
		d1, d2 = d2, d1
	}

	years := d2.Year() - d1.Year()
	if d2.Month() < d1.Month() || (d2.Month() == d1.Month() && d2.Day() < d1.Day()) {
		years--
	}

	months := int(d2.Month()) - int(d1.Month())
	if months < 0 {
		months += 12
	}
	if d2.Day() < d1.Day() {
		months--
		if months < 0 {
			months = 11
		}
	}

	return years, months
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldName strips diacritics and lowercases for name search, so "Ødegaard"
// and "odegaard" compare equal.
func FoldName(raw string) string {
	folded, _, err := transform.String(foldTransformer, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ReplaceAll(folded, "Ø", "O")
	folded = strings.ReplaceAll(folded, "ø", "o")
	folded = strings.ReplaceAll(folded, "Đ", "D")
	folded = strings.ReplaceAll(folded, "đ", "d")
	folded = strings.ReplaceAll(folded, "ß", "ss")
	folded = strings.ReplaceAll(folded, "Ł", "L")
	folded = strings.ReplaceAll(folded, "ł", "l")
	return strings.ToLower(strings.TrimSpace(folded))
}

var dobLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"Jan 02, 2006",
	"2006-01-02T15:04:05Z07:00",
	time.RFC3339,
}

// ParseDOB reads the date-of-birth display strings the providers send.
// Trailing age annotations like "Feb 14, 1997 (27)" are ignored.
func ParseDOB(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if idx := strings.Index(value, "("); idx > 0 {
		value = strings.TrimSpace(value[:idx])
	}
	if value == "" || value == "-" {
		return time.Time{}, false
	}
	for _, layout := range dobLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// PositionCode abbreviates a position label: "Goalkeeper" → "GK", otherwise
// word initials with hyphens treated as separators ("Centre-Back" → "CB").
func PositionCode(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	if strings.EqualFold(label, "Goalkeeper") {
		return "GK"
	}
	if len(label) <= 3 && strings.ToUpper(label) == label {
		return label
	}
	words := strings.Fields(strings.ReplaceAll(label, "-", " "))
	var sb strings.Builder
	for _, word := range words {
		sb.WriteString(strings.ToUpper(word[:1]))
	}
	return sb.String()
}
