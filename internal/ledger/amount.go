package ledger

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numericPrefix matches the leading number of a user-typed amount, the way a
// lenient float parser reads "12.5 €" as 12.5.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber reads user-typed numeric text. A comma is accepted as decimal
// separator. ok is false when the text is empty or has no leading number.
func ParseNumber(text string) (value float64, ok bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	s = strings.Replace(s, ",", ".", 1)

	m := numericPrefix.FindString(s)
	if m == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return 0, false
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseOrZero is the rule of plain amount fields.
func parseOrZero(text string) float64 {
	v, _ := ParseNumber(text)
	return v
}

// parseOrNull is the rule of optional unit fields: empty text clears the value,
// unreadable text stores zero.
func parseOrNull(text string) *float64 {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	v, _ := ParseNumber(text)
	return &v
}

// parseOptional is the rule used at creation: empty or unreadable text is null.
func parseOptional(text string) *float64 {
	v, ok := ParseNumber(text)
	if !ok {
		return nil
	}
	return &v
}

func dec(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// product multiplies exactly in decimal and rounds once at the end.
func product(factors ...float64) float64 {
	d := decimal.NewFromInt(1)
	for _, f := range factors {
		d = d.Mul(dec(f))
	}
	return d.InexactFloat64()
}

// percentOf returns part / whole × 100, or 0 when whole is not positive.
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// isSet mirrors the truthiness test used by the derivation rules: a unit field
// takes part in a recomputation only when it is present and non-zero.
func isSet(f *float64) bool {
	return f != nil && *f != 0
}
