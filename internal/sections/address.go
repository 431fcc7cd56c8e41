package sections

import "strings"

// formatAddress joins city, state and postal code. Countries that print the
// postal code first set swap.
func formatAddress(city, state, zip string, swap bool) string {
	var b strings.Builder
	if swap {
		if zip != "" {
			b.WriteString(zip + " ")
		}
		b.WriteString(city)
		switch {
		case city != "" && state != "":
			b.WriteString(", ")
		case city != "":
			b.WriteString(" ")
		}
		b.WriteString(state)
	} else {
		b.WriteString(city)
		switch {
		case city != "" && state != "":
			b.WriteString(", ")
		case state != "":
			b.WriteString(" ")
		}
		b.WriteString(state + " " + zip)
	}
	return strings.TrimSpace(b.String())
}

func cityStatePostal(city, state, zip string, swap bool) string {
	if city == "" && state == "" && zip == "" {
		return ""
	}
	return formatAddress(city, state, zip, swap)
}
