package modes

import "strings"

// CleanMask normalizes a raw ban-style mask to nick!ident@host form,
// inserting `*` wildcards where components are missing. Grounded on
// mode.cpp's CleanMask heuristics (spec §4.4):
//   - a string of the form "X:payload" (extban) passes through unchanged
//   - "nick@host" with no "!" becomes "*!nick@host"
//   - "nick!ident" with no "@" becomes "nick!ident@*"
//   - a bare token with no "." or "::" is treated as a nick -> "tok!*@*"
//   - a bare token containing "." or "::" is treated as a host -> "*!*@tok"
func CleanMask(raw string) string {
	if len(raw) >= 2 && isExtbanPrefix(raw) {
		return raw
	}

	hasBang := strings.Contains(raw, "!")
	hasAt := strings.Contains(raw, "@")

	switch {
	case hasBang && hasAt:
		return raw
	case hasAt && !hasBang:
		return "*!" + raw
	case hasBang && !hasAt:
		return raw + "@*"
	default:
		if strings.Contains(raw, ".") || strings.Contains(raw, "::") {
			return "*!*@" + raw
		}
		return raw + "!*@*"
	}
}

// isExtbanPrefix reports whether raw looks like "X:..." — a single
// alphanumeric kind letter followed by a colon, the ext-ban opaque form
// which CleanMask must pass through untouched.
func isExtbanPrefix(raw string) bool {
	if raw[1] != ':' {
		return false
	}
	c := raw[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
