// Package symbol implements the Clownfish identifier and naming discipline
// (spec.md §4.A): it derives every emitted identifier mechanically from a
// parcel prefix, a class name, and a member name, and validates the rules
// that make those derivations injective.
//
// Every exported function here is a pure string transform with no shared
// state, mirroring the teacher's strutil.go tokenizing helpers.
package symbol

import (
	"strings"
	"unicode"

	"github.com/golang/glog"

	"github.com/apache/lucy-clownfish/internal/cferr"
)

// MaxIdentifierLength bounds every derived or declared identifier.
const MaxIdentifierLength = 64

// Exposure is the visibility of a method, function, or variable.
type Exposure int

const (
	Public Exposure = iota
	Parcel
	Private
	Local
)

func (e Exposure) String() string {
	switch e {
	case Public:
		return "public"
	case Parcel:
		return "parcel"
	case Private:
		return "private"
	case Local:
		return "local"
	default:
		return "unknown"
	}
}

// ParseExposure maps a declaration-file token to an Exposure. An empty
// string defaults to Parcel, per spec.md §4.A ("absent ⇒ parcel").
func ParseExposure(tok string) (Exposure, error) {
	switch tok {
	case "", "parcel":
		return Parcel, nil
	case "public":
		return Public, nil
	case "private":
		return Private, nil
	case "local":
		return Local, nil
	default:
		return Parcel, cferr.Semanticf("invalid exposure %q", tok)
	}
}

// ValidateIdentifier enforces: first char alphabetic or underscore,
// subsequent chars alphanumeric or underscore, bounded length.
func ValidateIdentifier(name string) error {
	if name == "" {
		return cferr.Semanticf("empty identifier")
	}
	if len(name) > MaxIdentifierLength {
		return cferr.Semanticf("identifier %q exceeds maximum length %d", name, MaxIdentifierLength)
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return cferr.Semanticf("invalid identifier %q: must start with a letter or underscore", name)
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return cferr.Semanticf("invalid identifier %q: illegal character %q", name, r)
		}
	}
	return nil
}

// ValidateClassName enforces: dot-separated UpperCamel components, and the
// last component must contain at least one lowercase letter (so a class
// name can never collide textually with an all-uppercase constant).
func ValidateClassName(name string) error {
	parts := strings.Split(name, ".")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return cferr.Semanticf("invalid class name %q", name)
	}
	for i, p := range parts {
		if err := validateUpperCamelComponent(p, true); err != nil {
			return cferr.Semanticf("invalid class name %q: component %q: %v", name, p, err)
		}
		if i == len(parts)-1 && !hasLower(p) {
			return cferr.Semanticf("invalid class name %q: last component %q must contain a lowercase letter", name, p)
		}
	}
	return nil
}

// ValidateNickname enforces: a single UpperCamel component, optionally
// all-uppercase (e.g. "HTTP" is a legal nickname, "httpClient" is not).
func ValidateNickname(nick string) error {
	if strings.Contains(nick, ".") {
		return cferr.Semanticf("invalid nickname %q: must be a single component", nick)
	}
	if isAllUpper(nick) {
		return ValidateIdentifier(nick)
	}
	return validateUpperCamelComponent(nick, false)
}

func validateUpperCamelComponent(s string, allowAllUpper bool) error {
	if err := ValidateIdentifier(s); err != nil {
		return err
	}
	r := []rune(s)
	if !unicode.IsUpper(r[0]) {
		return cferr.Semanticf("must start with an uppercase letter")
	}
	if allowAllUpper && isAllUpper(s) {
		return nil
	}
	return nil
}

func isAllUpper(s string) bool {
	seenLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			seenLetter = true
		}
	}
	return seenLetter
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// DefaultNickname returns the last dotted component of a class name, used
// when a class or parcel declaration omits an explicit nickname.
func DefaultNickname(dottedName string) string {
	parts := strings.Split(dottedName, ".")
	return parts[len(parts)-1]
}

// ShortSym derives the short symbol for a member "name" owned by a class
// or parcel whose nickname is "nickname": nickname_name.
func ShortSym(nickname, name string) string {
	sym := nickname + "_" + name
	glog.V(3).Infof("symbol: short_sym(%q,%q) = %q", nickname, name, sym)
	return sym
}

// FullSym prepends a parcel's lowercase prefix (e.g. "cfish_") to a short
// symbol, per spec.md §4.A.
func FullSym(prefix, shortSym string) string {
	full := prefix + shortSym
	glog.V(3).Infof("symbol: full_sym(%q,%q) = %q", prefix, shortSym, full)
	return full
}

// ClassVarSym derives a class-variable name: the uppercased full struct
// symbol (e.g. full struct "cfish_Foo" -> class var "CFISH_FOO").
func ClassVarSym(fullStructSym string) string {
	return strings.ToUpper(fullStructSym)
}

// ImplFuncSym derives the C implementation-function symbol for method
// "methodName" declared (fresh) on a class with nickname "nickname" in a
// parcel with prefix "prefix": prefix + nickname + "_" + downcased(name).
func ImplFuncSym(prefix, nickname, methodName string) string {
	return prefix + nickname + "_" + downcaseCanonical(methodName)
}

// downcaseCanonical lowercases an UpperCamel identifier into the stable
// form used in generated implementation-function names (Foo -> foo,
// HTTPGet -> http_get is NOT performed here: Clownfish's C names are a
// straight ASCII downcase, not a word-boundary split, matching how the
// reference compiler names its "_IMPL" functions).
func downcaseCanonical(s string) string {
	return strings.ToLower(s)
}

// OffsetSym derives a method's vtable-offset variable name from its full
// method (dispatch macro) symbol.
func OffsetSym(fullMethodSym string) string { return fullMethodSym + "_OFFSET" }

// TypedefSym derives a method's function-pointer typedef name from its
// full method symbol.
func TypedefSym(fullMethodSym string) string { return fullMethodSym + "_t" }

// PrivacyGuardSym derives the preprocessor guard that exposes a class's
// (or parcel's) private members to its own implementation file, e.g. a
// full struct symbol "cfish_Foo" yields the guard "C_CFISH_FOO".
func PrivacyGuardSym(fullSym string) string {
	return "C_" + strings.ToUpper(fullSym)
}
