package utils

import "strings"

// SplitCommaList splits a dispatcher argument that accepts a comma-separated
// list of targets into its components, used by the "loop-call" step of
// command processing (spec §4.5 step 5) for verbs like KICK/MODE that accept
// multiple targets in one position.
func SplitCommaList(arg string) []string {
	if arg == "" {
		return nil
	}
	parts := strings.Split(arg, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
