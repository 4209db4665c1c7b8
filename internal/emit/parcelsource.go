package emit

import (
	"strings"

	"github.com/apache/lucy-clownfish/internal/class"
	"github.com/apache/lucy-clownfish/internal/parcel"
)

type methodSpecBlock struct {
	MethodSpecSym string
	Body          string
}

type parcelSourceData struct {
	Header, Footer   string
	Root             *parcel.Parcel
	Prefix           string
	ParcelName       string
	PrivacyGuards    []string
	ClassIncludes    []string
	OffsetStorage    []string
	ClassVars        []string
	MethodSpecBlocks []methodSpecBlock
	VTableSpecs      []string
	InheritedParcels []*parcel.Parcel
	DependentParcels []*parcel.Parcel
	HasInitParcel    bool
}

// buildParcelSource renders <prefix>parcel.c: one method-spec array and one
// vtable-spec entry per non-inert class owned by p, and the two-phase
// bootstrap_inheritance/bootstrap_parcel state machine (spec.md §4.E)
// that walks inherited parcels before running Class_bootstrap, then walks
// dependent parcels before calling the parcel's own init hook.
func (e *Emitter) buildParcelSource(p *parcel.Parcel, classes []*class.Class) (string, error) {
	root := e.rootParcel()
	data := parcelSourceData{
		Header:        e.Header,
		Footer:        e.Footer,
		Root:          root,
		Prefix:        p.Prefix(),
		ParcelName:    p.Name,
		PrivacyGuards: []string{p.PrivacyGuard()},
	}

	for _, c := range classes {
		data.ClassIncludes = append(data.ClassIncludes, c.RelativeIncludePath())
		if c.Inert {
			continue
		}

		data.ClassVars = append(data.ClassVars, c.ClassVarSymFull)
		data.OffsetStorage = append(data.OffsetStorage, c.IvarsOffsetSym)

		var body strings.Builder
		for _, m := range c.CompleteMethods {
			text, err := render(methodSpecTmpl, struct {
				Name        string
				ImplFuncSym string
				CallbackSym string
				OffsetSym   string
				Root        *parcel.Parcel
			}{m.Name, m.ImplFuncSym, callbackSym(m), m.OffsetSym, root})
			if err != nil {
				return "", err
			}
			body.WriteString(text)
		}
		data.MethodSpecBlocks = append(data.MethodSpecBlocks, methodSpecBlock{
			MethodSpecSym: methodSpecSym(c),
			Body:          body.String(),
		})

		numFresh, numNovel := 0, 0
		for _, m := range c.FreshMethods {
			numFresh++
			if m.Novel {
				numNovel++
			}
			if m.Novel {
				data.OffsetStorage = append(data.OffsetStorage, m.OffsetSym)
			}
		}
		parentVar := ""
		if c.Parent != nil {
			parentVar = c.Parent.ClassVarSymFull
		}
		vtext, err := render(vtableSpecTmpl, struct {
			ClassVarSymFull       string
			ParentClassVarSymFull string
			Name                  string
			IvarsSize             string
			IvarsOffsetSym        string
			NumFreshMethods       int
			NumNovelMethods       int
			MethodSpecSym         string
		}{
			c.ClassVarSymFull, parentVar, c.Name, ivarsSize(c),
			c.IvarsOffsetSym, numFresh, numNovel, methodSpecSym(c),
		})
		if err != nil {
			return "", err
		}
		data.VTableSpecs = append(data.VTableSpecs, vtext)
	}

	for _, dep := range e.Hierarchy.Parcels.InheritedParcels(p) {
		if dep.Name == p.Name {
			continue
		}
		data.InheritedParcels = append(data.InheritedParcels, dep)
	}
	for _, dep := range e.Hierarchy.Parcels.DependentParcels(p) {
		if dep.Name == p.Name {
			continue
		}
		data.DependentParcels = append(data.DependentParcels, dep)
	}

	return render(parcelSourceTmpl, data)
}
