package utils

import (
	"errors"

	"github.com/ergochat/confusables"
	"golang.org/x/text/secure/precis"
	"golang.org/x/text/unicode/norm"
)

var errCouldNotStabilize = errors.New("utils: could not stabilize casefold under PRECIS")
var errStringIsEmpty = errors.New("utils: string is empty")
var errInvalidCharacter = errors.New("utils: invalid character")

// iterateFolding applies profile.CompareKey repeatedly (up to four times,
// per the PRECIS stabilizing rule
// https://tools.ietf.org/html/draft-ietf-precis-7564bis-10.html#section-7),
// since one pass of PRECIS casefolding is idempotent in its component
// operations but not as a whole.
func iterateFolding(profile *precis.Profile, oldStr string) (str string, err error) {
	str = oldStr
	for i := 0; i < 4; i++ {
		str, err = profile.CompareKey(str)
		if err != nil {
			return "", err
		}
		if oldStr == str {
			break
		}
		oldStr = str
	}
	if oldStr != str {
		return "", errCouldNotStabilize
	}
	return str, nil
}

// Casefold returns a casefolded form of str with no name/channel specific
// character checks.
func Casefold(str string) (string, error) {
	return iterateFolding(precis.UsernameCaseMapped, str)
}

// CasefoldName returns a casefolded nickname/username, used for
// case-insensitive uniqueness in the User store.
func CasefoldName(name string) (string, error) {
	if len(name) == 0 {
		return "", errStringIsEmpty
	}
	return Casefold(name)
}

// CasefoldChannel returns a casefolded channel name. Leading `#` characters
// are preserved verbatim (not casefolded, since they carry no case) and at
// least one must be present.
func CasefoldChannel(name string) (string, error) {
	if len(name) == 0 {
		return "", errStringIsEmpty
	}
	start := 0
	for start < len(name) && name[start] == '#' {
		start++
	}
	if start == 0 {
		return "", errInvalidCharacter
	}
	lowered, err := Casefold(name[start:])
	if err != nil {
		return "", err
	}
	return name[:start] + lowered, nil
}

var skeletonCasefolder = precis.NewIdentifier(precis.FoldWidth, precis.LowerCase(), precis.Norm(norm.NFC))

// isBoring reports whether name consists only of characters confusables.txt
// never flags as visually confusable with anything else, letting us skip
// skeletonization for the common ASCII case.
func isBoring(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			continue
		}
		switch c {
		case '$', '%', '^', '&', '(', ')', '{', '}', '[', ']', '<', '>', '=':
			continue
		default:
			return false
		}
	}
	return true
}

// Skeleton produces a canonicalized identifier used to catch homoglyphic
// nick/channel-name collisions (ergochat/ergo's TR39-derived skeleton
// algorithm): the skeleton transform is applied before casefolding, since
// casefolding first would discard information about visual confusability.
func Skeleton(name string) (string, error) {
	if !isBoring(name) {
		name = confusables.Skeleton(name)
	}
	return iterateFolding(skeletonCasefolder, name)
}
