package emit

import (
	"github.com/apache/lucy-clownfish/internal/class"
	"github.com/apache/lucy-clownfish/internal/parcel"
)

type parcelHeaderData struct {
	Header, Footer string
	IncludeGuard   string
	IsRoot         bool
	RootHelper     string
	Dependents     []*parcel.Parcel
	PrivacyGuard   string
	Prefix         string
	ForwardDecls   []string
}

// buildParcelHeader renders <prefix>parcel.h: the root parcel's copy
// carries the generic dispatch machinery (Method, ClassSpec, the
// METHOD_PTR family of macros); every other parcel's copy #includes its
// prerequisite parcels' headers and forward-declares its own classes.
func (e *Emitter) buildParcelHeader(p *parcel.Parcel, classes []*class.Class) (string, error) {
	data := parcelHeaderData{
		Header:       e.Header,
		Footer:       e.Footer,
		IncludeGuard: p.IncludeGuard(),
		IsRoot:       p.IsRoot(),
		PrivacyGuard: p.PrivacyGuard(),
		Prefix:       p.Prefix(),
	}
	for _, c := range classes {
		data.ForwardDecls = append(data.ForwardDecls, c.FullStructSym)
	}

	if data.IsRoot {
		root, err := render(rootHelperTmpl, struct {
			Prefix string
			PREFIX string
		}{p.PrefixUpperCamel(), p.PREFIX()})
		if err != nil {
			return "", err
		}
		data.RootHelper = root
	} else {
		seen := map[string]bool{p.Name: true}
		if root := e.rootParcel(); root != nil {
			data.Dependents = append(data.Dependents, root)
			seen[root.Name] = true
		}
		for _, dep := range e.Hierarchy.Parcels.DependentParcels(p) {
			if seen[dep.Name] {
				continue
			}
			seen[dep.Name] = true
			data.Dependents = append(data.Dependents, dep)
		}
	}

	return render(parcelHeaderTmpl, data)
}
