package parcel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/lucy-clownfish/internal/cferr"
)

// Version is a semver-like (major, minor, patch) triple. The literal "v0"
// manifest form parses to the zero Version and compares below everything
// except another zero Version.
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion parses a manifest version string: "vMAJOR.MINOR.PATCH" or
// the bare "v0" shorthand.
func ParseVersion(s string) (Version, error) {
	if s == "v0" {
		return Version{}, nil
	}
	if !strings.HasPrefix(s, "v") {
		return Version{}, cferr.Inputf("version %q must start with 'v'", s)
	}
	parts := strings.SplitN(s[1:], ".", 3)
	if len(parts) != 3 {
		return Version{}, cferr.Inputf("version %q must be vMAJOR.MINOR.PATCH", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, cferr.Inputf("version %q: invalid component %q", s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	if v == (Version{}) {
		return "v0"
	}
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// o, ordering lexicographically by (Major, Minor, Patch).
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmp(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmp(v.Minor, o.Minor)
	default:
		return cmp(v.Patch, o.Patch)
	}
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether v >= min.
func (v Version) AtLeast(min Version) bool { return v.Compare(min) >= 0 }
