package sections

import (
	"regexp"
	"strconv"
	"time"
)

var dateVariable = regexp.MustCompile(`:(MONTH|QUARTER|YEAR)([+-]\d+)?`)

// expandVariables replaces :MONTH, :QUARTER and :YEAR, each with an optional
// signed offset, by the matching date part relative to now.
func expandVariables(s string, now time.Time) string {
	if s == "" {
		return ""
	}
	return dateVariable.ReplaceAllStringFunc(s, func(match string) string {
		m := dateVariable.FindStringSubmatch(match)
		offset := 0
		if m[2] != "" {
			offset, _ = strconv.Atoi(m[2])
		}
		return datePart(m[1], offset, now)
	})
}

func datePart(part string, offset int, now time.Time) string {
	switch part {
	case "MONTH":
		month := mod(int(now.Month())-1+offset, 12)
		return time.Month(month + 1).String()
	case "QUARTER":
		quarter := (int(now.Month())-1)/3 + offset
		return "Q" + strconv.Itoa(mod(quarter, 4)+1)
	default:
		return strconv.Itoa(now.Year() + offset)
	}
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
