package users

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCustomID renders PREFIX-0001 style identifiers.
func FormatCustomID(prefix string, n int) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// ParseCustomIDNumber extracts the numeric suffix of id for prefix.
func ParseCustomIDNumber(prefix, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextCustomID returns the id following the highest existing number.
func NextCustomID(prefix string, maxExisting int) string {
	return FormatCustomID(prefix, maxExisting+1)
}
