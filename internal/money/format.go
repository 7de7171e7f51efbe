package money

import "strings"

const rupeeSymbol = "₹"

// Format renders an amount the way the console displays it: rupee symbol, Indian digit
// grouping (lakh/crore) and two fractional digits, e.g. ₹1,23,456.70.
func Format(a Amount) string {
	sign := ""
	if a.IsNegative() {
		sign = "-"
		a = Amount{d: a.d.Neg()}
	}

	fixed := a.d.StringFixed(Scale)
	whole, frac, _ := strings.Cut(fixed, ".")

	return sign + rupeeSymbol + groupIndian(whole) + "." + frac
}

// groupIndian groups the last three digits, then every two digits before them.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}

	return strings.Join(parts, ",") + "," + tail
}
