package utils

import (
	"regexp"
	"strings"
)

// CompileMask turns a glob-style mask using `*` and `?` wildcards into a
// compiled, anchored regular expression, mirroring client_lookup_set.go's
// setRegexp: each mask is split on `*`, then each of those parts split on
// `?`, every literal fragment is meta-escaped, and the fragments are
// rejoined with `.*`/`.` respectively.
func CompileMask(mask string) (*regexp.Regexp, error) {
	return regexp.Compile("^" + maskToExpr(mask) + "$")
}

// CompileMaskSet ORs together the regexp forms of every mask into one
// alternation, anchored as a whole. An empty input yields a nil regexp
// (matches nothing).
func CompileMaskSet(masks []string) (*regexp.Regexp, error) {
	if len(masks) == 0 {
		return nil, nil
	}
	exprs := make([]string, len(masks))
	for i, m := range masks {
		exprs[i] = maskToExpr(m)
	}
	return regexp.Compile("^" + strings.Join(exprs, "|") + "$")
}

func maskToExpr(mask string) string {
	manyParts := strings.Split(mask, "*")
	manyExprs := make([]string, len(manyParts))
	for i, part := range manyParts {
		oneParts := strings.Split(part, "?")
		oneExprs := make([]string, len(oneParts))
		for j, one := range oneParts {
			oneExprs[j] = regexp.QuoteMeta(one)
		}
		manyExprs[i] = strings.Join(oneExprs, ".")
	}
	return strings.Join(manyExprs, ".*")
}
