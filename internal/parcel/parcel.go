// Package parcel implements the Clownfish parcel (namespace) model and
// process-wide registry (spec.md §4.B): manifest loading, prerequisite
// version checking, and the dependent/inherited-parcel traversals the
// emitter needs to decide #include order and bootstrap chaining.
package parcel

import (
	"strings"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/apache/lucy-clownfish/internal/cferr"
	"github.com/apache/lucy-clownfish/internal/symbol"
)

// Prereq names a required parcel and the minimum version it must satisfy.
// A nil MinVersion means any registered version satisfies the prereq.
type Prereq struct {
	Name       string
	MinVersion *Version
}

// Parcel is a namespace unit: the unit of visibility, prerequisite
// declaration, and bootstrap.
type Parcel struct {
	Name        string
	Nickname    string
	Version     Version
	HostVisible bool
	SourceDir   string
	Included    bool
	Prereqs     []Prereq

	// CfpPath is the manifest file this parcel was loaded from, used by
	// the source/include de-duplication rule in Register.
	CfpPath string

	id int32 // 0 = unclaimed; claimed lazily via atomic CAS against idCounter
}

// idCounter is the process-wide atomic counter parcels claim an id from.
// It mirrors spec.md §4.B: "Each parcel claims an integer id at first-use
// via an atomic compare-and-swap against a shared counter."
var idCounter int32

// NewParcel constructs a Parcel, defaulting Nickname from Name when empty
// and validating both.
func NewParcel(name, nickname, versionStr, visibility, cfpPath, sourceDir string, included bool, prereqs []Prereq) (*Parcel, error) {
	if err := symbol.ValidateClassName(name); err != nil {
		return nil, cferr.Wrap(cferr.Semantic, err, "invalid parcel name %q", name)
	}
	if nickname == "" {
		nickname = symbol.DefaultNickname(name)
	}
	if err := symbol.ValidateNickname(nickname); err != nil {
		return nil, cferr.Wrap(cferr.Semantic, err, "invalid parcel nickname %q", nickname)
	}
	v, err := ParseVersion(versionStr)
	if err != nil {
		return nil, err
	}
	p := &Parcel{
		Name:        name,
		Nickname:    nickname,
		Version:     v,
		HostVisible: visibility != "" && visibility != "private",
		SourceDir:   sourceDir,
		Included:    included,
		Prereqs:     prereqs,
		CfpPath:     cfpPath,
	}
	glog.V(1).Infof("parcel: new %s (nickname %s, version %s, included=%v)", name, nickname, v, included)
	return p, nil
}

// Prefix is the lowercase nickname plus underscore, e.g. "cfish_".
func (p *Parcel) Prefix() string { return strings.ToLower(p.Nickname) + "_" }

// PrefixUpperCamel is the UpperCamel nickname plus underscore, e.g. "Cfish_".
func (p *Parcel) PrefixUpperCamel() string { return p.Nickname + "_" }

// PREFIX is the uppercase nickname plus underscore, e.g. "CFISH_".
func (p *Parcel) PREFIX() string { return strings.ToUpper(p.Nickname) + "_" }

// PrivacyGuard is the preprocessor symbol that exposes this parcel's own
// root-level private members to its own implementation files.
func (p *Parcel) PrivacyGuard() string {
	return symbol.PrivacyGuardSym(strings.TrimSuffix(p.Prefix(), "_"))
}

// IncludeGuard is the #ifndef guard for this parcel's emitted header.
func (p *Parcel) IncludeGuard() string { return p.PREFIX() + "PARCEL_H" }

// IsRoot reports whether this is the privileged root parcel, the one that
// owns the base object header and the generic dispatch machinery.
// spec.md's open questions call out "parcel is the privileged root" as a
// predicate that must be replicated exactly; by Clownfish convention the
// root parcel's nickname is fixed at "Cfish".
func (p *Parcel) IsRoot() bool { return p.Nickname == "Cfish" }

// ID returns this parcel's process-unique id, claiming one from the shared
// counter on first call. The claim is a compare-and-swap loop so that a
// concurrent runtime bootstrapping parcels from multiple goroutines (per
// spec.md §5) can call ID() safely, even though the compiler itself only
// ever calls it serially.
func (p *Parcel) ID() int32 {
	for {
		cur := atomic.LoadInt32(&p.id)
		if cur != 0 {
			return cur
		}
		next := atomic.AddInt32(&idCounter, 1)
		if atomic.CompareAndSwapInt32(&p.id, 0, next) {
			glog.V(2).Infof("parcel: %s claimed id %d", p.Name, next)
			return next
		}
	}
}
