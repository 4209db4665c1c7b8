package emit

import (
	"strings"

	"github.com/apache/lucy-clownfish/internal/class"
	"github.com/apache/lucy-clownfish/internal/parcel"
)

type methodHeaderData struct {
	Name           string
	Final          bool
	Abstract       bool
	ReturnSpelling string
	ReturnsVoid    bool
	ParamSpelling  string
	ArgNames       string
	FullSym        string
	ImplFuncSym    string
	OffsetSym      string
	TypedefSym     string
}

type classHeaderData struct {
	Header, Footer  string
	Root            *parcel.Parcel
	IncludeGuard    string
	FullStructSym   string
	ClassVarSymFull string
	Methods         []methodHeaderData
}

func paramSpelling(params []class.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type.CSpelling() + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

func argNames(params []class.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// buildClassHeader renders a class's own header: a forward declaration of
// its struct, and a dispatch macro (or, for final methods, a direct alias
// to the implementing function) for every method fresh to this class,
// per spec.md §4.C's "fresh to this class" ownership rule — inherited,
// unoverridden methods keep the macro their declaring ancestor's header
// already defined.
func (e *Emitter) buildClassHeader(p *parcel.Parcel, c *class.Class) (string, error) {
	data := classHeaderData{
		Header:          e.Header,
		Footer:          e.Footer,
		Root:            e.rootParcel(),
		IncludeGuard:    strings.ToUpper(c.FullStructSym) + "_H",
		FullStructSym:   c.FullStructSym,
		ClassVarSymFull: c.ClassVarSymFull,
	}
	for _, m := range c.FreshMethods {
		data.Methods = append(data.Methods, methodHeaderData{
			Name:           m.Name,
			Final:          m.Final,
			Abstract:       m.Abstract,
			ReturnSpelling: m.Return.CSpelling(),
			ReturnsVoid:    m.Return.Kind == class.KindPrimitive && m.Return.Primitive == class.Void,
			ParamSpelling:  paramSpelling(m.Params),
			ArgNames:       argNames(m.Params),
			FullSym:        m.FullSym,
			ImplFuncSym:    m.ImplFuncSym,
			OffsetSym:      m.OffsetSym,
			TypedefSym:     m.TypedefSym,
		})
	}
	return render(classHeaderTmpl, data)
}
