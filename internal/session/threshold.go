package session

import (
	"math"
	"strconv"
	"strings"
)

// ParseThreshold reads the leading integer of text the way a lenient number
// field does: leading spaces and a sign are allowed, parsing stops at the
// first non-digit, and no digits at all means 0. Negative results become 0.
func ParseThreshold(text string) int {
	s := strings.TrimLeft(text, " \t\r\n")

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || neg {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return math.MaxInt
	}
	return n
}
