package vars

import "strings"

// StrToBool parses the usual spellings of a boolean. ok is false when str is
// none of them.
func StrToBool(str string) (value bool, ok bool) {
	str = strings.ToLower(strings.TrimSpace(str))
	switch str {
	case "true", "t", "yes", "y":
		return true, true
	case "false", "f", "no", "n":
		return false, true
	}
	return false, false
}
