package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration parses composite forms like "1y2w3d4h5m6s" into seconds,
// grounded on InspIRCd::Duration. A bare number with no unit suffix is
// treated as a count of seconds.
func ParseDuration(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("utils: empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	var total int64
	var num int64
	sawDigit := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			num = num*10 + int64(c-'0')
			sawDigit = true
		case sawDigit:
			mult, ok := durationUnit(c)
			if !ok {
				return 0, fmt.Errorf("utils: invalid duration unit %q in %q", c, s)
			}
			total += num * mult
			num = 0
			sawDigit = false
		default:
			return 0, fmt.Errorf("utils: invalid duration %q", s)
		}
	}
	if sawDigit {
		return 0, fmt.Errorf("utils: trailing digits with no unit in %q", s)
	}
	return total, nil
}

func durationUnit(c rune) (int64, bool) {
	switch c {
	case 's', 'S':
		return 1, true
	case 'm', 'M':
		return 60, true
	case 'h', 'H':
		return 3600, true
	case 'd', 'D':
		return 86400, true
	case 'w', 'W':
		return 86400 * 7, true
	case 'y', 'Y':
		return 86400 * 365, true
	default:
		return 0, false
	}
}

// CheckMagnitude applies a trailing K/M/G magnitude specifier (case
// insensitive, 1024-based) to num, or returns def if tail names an
// unrecognized specifier. Mirrors configparser.cpp's CheckMagnitude.
func CheckMagnitude(num int64, def int64, tail byte) int64 {
	if tail == 0 {
		return num
	}
	switch tail {
	case 'k', 'K':
		return num * 1024
	case 'm', 'M':
		return num * 1024 * 1024
	case 'g', 'G':
		return num * 1024 * 1024 * 1024
	default:
		return def
	}
}

// CheckRange returns def if num falls outside [min, max], otherwise num.
// Mirrors configparser.cpp's CheckRange (warn-and-default).
func CheckRange(num, def, min, max int64) int64 {
	if num < min || num > max {
		return def
	}
	return num
}
