package emit

import (
	"encoding/json"

	"github.com/apache/lucy-clownfish/internal/class"
	"github.com/apache/lucy-clownfish/internal/parcel"
)

type callbackEntry struct {
	ReturnSpelling string
	ParamSpelling  string
	CallbackSym    string
}

type callbacksData struct {
	Header, Footer string
	Root           *parcel.Parcel
	Entries        []callbackEntry
}

// buildCallbacks renders the single, hierarchy-wide callbacks.h every
// parcel.c #includes: a prototype (or a NULL-defining macro, when no host
// bindings are linked) for every overridable method's callback hook, so a
// host language can plug a subclass implementation into a class's vtable
// without the C library knowing the host exists at compile time.
func (e *Emitter) buildCallbacks(classes []*class.Class) (string, error) {
	data := callbacksData{Header: e.Header, Footer: e.Footer, Root: e.rootParcel()}
	for _, c := range classes {
		if c.Inert {
			continue
		}
		for _, m := range c.FreshMethods {
			sym := callbackSym(m)
			if sym == "" {
				continue
			}
			data.Entries = append(data.Entries, callbackEntry{
				ReturnSpelling: m.Return.CSpelling(),
				ParamSpelling:  paramSpelling(m.Params),
				CallbackSym:    sym,
			})
		}
	}
	tmpl := callbacksActiveTmpl
	if !e.HostBindings {
		tmpl = callbacksInactiveTmpl
	}
	return render(tmpl, data)
}

type hostDefsData struct {
	Header, Footer   string
	Root             *parcel.Parcel
	UseRefcountUnion bool
}

// buildHostDefs renders hostdefs.h, the single knob a host binding flips
// to fold its own object header into every Clownfish instance's leading
// bytes instead of a bare refcount (spec.md's host-integration Non-goal
// excludes generating the binding itself, not this placeholder it needs).
func (e *Emitter) buildHostDefs() (string, error) {
	data := hostDefsData{
		Header:           e.Header,
		Footer:           e.Footer,
		Root:             e.rootParcel(),
		UseRefcountUnion: e.HostBindings,
	}
	return render(hostDefsTmpl, data)
}

type hierarchySummary struct {
	Parcels []parcelSummary `json:"parcels"`
}

type parcelSummary struct {
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Classes []classSummary  `json:"classes"`
}

type classSummary struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
	Inert  bool   `json:"inert,omitempty"`
	Final  bool   `json:"final,omitempty"`
}

// buildHierarchyJSON renders a machine-readable snapshot of the built
// hierarchy, consumed by downstream tooling (documentation generators,
// host-binding generators) that would otherwise need to re-parse every
// declaration file themselves.
func (e *Emitter) buildHierarchyJSON(parcels []*parcel.Parcel, classes []*class.Class) ([]byte, error) {
	byParcel := make(map[string][]classSummary)
	for _, c := range classes {
		parentName := ""
		if c.Parent != nil {
			parentName = c.Parent.Name
		}
		byParcel[c.Parcel.Name] = append(byParcel[c.Parcel.Name], classSummary{
			Name:   c.Name,
			Parent: parentName,
			Inert:  c.Inert,
			Final:  c.Final,
		})
	}
	summary := hierarchySummary{}
	for _, p := range parcels {
		summary.Parcels = append(summary.Parcels, parcelSummary{
			Name:    p.Name,
			Version: p.Version.String(),
			Classes: byParcel[p.Name],
		})
	}
	return json.MarshalIndent(summary, "", "  ")
}
