package core

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CompareVersions orders version strings such as "1.8.0".
// Valid semantic versions sort by precedence and above anything else;
// the rest falls back to byte order.
func CompareVersions(a, b string) int {
	va, vb := canonical(a), canonical(b)
	okA, okB := semver.IsValid(va), semver.IsValid(vb)
	switch {
	case okA && okB:
		if c := semver.Compare(va, vb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case okA:
		return 1
	case okB:
		return -1
	}
	return strings.Compare(a, b)
}

func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
