// Package hierarchy drives the Clownfish build pipeline (spec.md §4.D):
// it walks source and include directories, invokes the parser on every
// declaration file, registers parcels and classes, connects parent links,
// grows the inheritance tree, and tracks which files need re-emission.
package hierarchy

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/apache/lucy-clownfish/internal/cferr"
	"github.com/apache/lucy-clownfish/internal/class"
	"github.com/apache/lucy-clownfish/internal/decl"
	"github.com/apache/lucy-clownfish/internal/parcel"
	"github.com/apache/lucy-clownfish/internal/symbol"
)

func exposureOf(tok string) (symbol.Exposure, error) { return symbol.ParseExposure(tok) }

var primitiveMap = map[string]class.Primitive{
	"void": class.Void, "bool": class.Bool, "char": class.Char,
	"int8_t": class.Int8, "int16_t": class.Int16, "int32_t": class.Int32, "int64_t": class.Int64,
	"uint8_t": class.UInt8, "uint16_t": class.UInt16, "uint32_t": class.UInt32, "uint64_t": class.UInt64,
	"float": class.Float32, "double": class.Float64, "size_t": class.SizeT,
}

func convertType(dt *decl.Type) *class.Type {
	if dt == nil {
		return class.NewPrimitiveType(class.Void)
	}
	var base *class.Type
	if dt.IsObject {
		base = class.NewObjectType(dt.ClassName, dt.Nullable, dt.Incremented, dt.Decremented)
	} else {
		base = class.NewPrimitiveType(primitiveMap[dt.Primitive])
	}
	if dt.Array {
		return class.NewArrayType(base)
	}
	return base
}

func convertParams(ps []decl.Param) []class.Param {
	out := make([]class.Param, len(ps))
	for i, p := range ps {
		out[i] = class.Param{Name: p.Name, Type: convertType(p.Type)}
	}
	return out
}

// Hierarchy is the process-wide build root (spec.md §3 "Hierarchy").
type Hierarchy struct {
	SourceDirs          []string
	IncludeDirs         []string
	RequiredParcelNames []string
	DestDir             string

	Parser  Parser
	Parcels *parcel.Registry
	Classes *class.Registry

	Files []*class.File
	Roots []*class.Class

	filesByPathPart map[string]*class.File
	requiredSet     map[string]bool
}

// New builds an empty Hierarchy bound to the given declaration parser.
func New(p Parser) *Hierarchy {
	preg := parcel.NewRegistry()
	return &Hierarchy{
		Parser:          p,
		Parcels:         preg,
		Classes:         class.NewRegistry(preg),
		filesByPathPart: make(map[string]*class.File),
		requiredSet:     make(map[string]bool),
	}
}

// Build runs the full pipeline of spec.md §4.D steps 1-8.
func (h *Hierarchy) Build() error {
	for _, dir := range h.SourceDirs {
		if err := h.loadParcels(dir, false); err != nil {
			return err
		}
	}
	for _, dir := range h.IncludeDirs {
		if err := h.loadParcels(dir, true); err != nil {
			return err
		}
	}

	for _, p := range h.Parcels.All() {
		if !p.Included {
			h.requiredSet[p.Name] = true
		}
	}
	for _, name := range h.RequiredParcelNames {
		if h.Parcels.Fetch(name) == nil {
			return cferr.Semanticf("required parcel %q not found in any include directory", name)
		}
		h.requiredSet[name] = true
	}

	for _, p := range h.Parcels.All() {
		if err := h.Parcels.CheckPrereqs(p); err != nil {
			return err
		}
	}

	for _, dir := range h.SourceDirs {
		if err := h.loadDecls(dir, false); err != nil {
			return err
		}
	}
	for _, dir := range h.IncludeDirs {
		if err := h.loadDecls(dir, true); err != nil {
			return err
		}
	}

	if err := h.Classes.ResolveTypes(); err != nil {
		return err
	}
	if err := h.connectClasses(); err != nil {
		return err
	}
	if err := h.Classes.GrowTree(h.Roots); err != nil {
		return err
	}
	return nil
}

func (h *Hierarchy) loadParcels(dir string, included bool) error {
	paths, err := findFiles(dir, ".cfp")
	if err != nil {
		return cferr.Wrap(cferr.Input, err, "walking %s", dir)
	}
	for _, path := range paths {
		p, err := parcel.NewFromFile(path, dir, included)
		if err != nil {
			return err
		}
		if err := h.Parcels.Register(p); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hierarchy) loadDecls(dir string, included bool) error {
	paths, err := findFiles(dir, ".cfh")
	if err != nil {
		return cferr.Wrap(cferr.Input, err, "walking %s", dir)
	}
	for _, path := range paths {
		part, err := pathPart(dir, path)
		if err != nil {
			return cferr.Wrap(cferr.Input, err, "%s", path)
		}
		parsed, err := h.Parser.ParseFile(path)
		if err != nil {
			return err
		}
		owner := h.Parcels.Fetch(parsed.ParcelName)
		if owner == nil {
			return cferr.At(cferr.Semantic, path, 0, "declares unknown parcel %q", parsed.ParcelName)
		}

		info, statErr := os.Stat(path)
		f := &class.File{
			PathPart:   part,
			SourcePath: path,
			SourceDir:  dir,
			Included:   included,
		}
		if statErr == nil {
			f.ModTime = info.ModTime()
		}

		for _, dc := range parsed.Classes {
			c, err := h.buildClass(owner, dc, path)
			if err != nil {
				return err
			}
			f.AddClass(c)
			if err := h.Classes.Add(c); err != nil {
				return err
			}
		}

		if h.requiredSet[owner.Name] {
			if existing, ok := h.filesByPathPart[part]; ok {
				return cferr.At(cferr.Integrity, path, 0, "path-part %q already produced by %s", part, existing.SourcePath)
			}
			h.filesByPathPart[part] = f
			h.Files = append(h.Files, f)
			glog.V(1).Infof("hierarchy: installed file %s (path-part %s)", path, part)
		} else {
			glog.V(1).Infof("hierarchy: parcel %s not required; %s registered for type resolution only", owner.Name, path)
		}
	}
	return nil
}

// RootClassName is the universal base object class every non-inert class
// implicitly extends when its declaration omits a parent, per spec.md §3:
// "parent class name (defaults to the root object class unless the class
// is marked inert)". By Clownfish convention it lives in the privileged
// root parcel (nickname "Cfish") under the short name "Obj".
const RootClassName = "Obj"

func (h *Hierarchy) buildClass(owner *parcel.Parcel, dc decl.Class, path string) (*class.Class, error) {
	parentName := dc.ParentName
	isTheRoot := owner.IsRoot() && dc.Name == RootClassName
	if !dc.Inert && parentName == "" && !isTheRoot {
		parentName = RootClassName
	}
	c, err := class.NewClass(owner, dc.Name, dc.Nickname, parentName, dc.DocComment, dc.Final, dc.Inert)
	if err != nil {
		return nil, cferr.Wrap(cferr.Semantic, err, "%s", path)
	}
	c.SetIncludePath(dc.Name)

	for _, dm := range dc.Methods {
		exposure, err := exposureOf(dm.Exposure)
		if err != nil {
			return nil, cferr.Wrap(cferr.Semantic, err, "%s: method %s", path, dm.Name)
		}
		m, err := class.NewMethod(c, dm.Name, convertParams(dm.Params), convertType(dm.Return), exposure, dm.Final, dm.Abstract)
		if err != nil {
			return nil, err
		}
		m.HostAlias = dm.HostAlias
		m.HostExcluded = dm.HostExcluded
		m.DocComment = dm.DocComment
		if err := c.AddMethod(m); err != nil {
			return nil, err
		}
	}
	for _, df := range dc.Functions {
		exposure, err := exposureOf(df.Exposure)
		if err != nil {
			return nil, err
		}
		fn, err := class.NewFunction(c, df.Name, convertParams(df.Params), convertType(df.Return), exposure)
		if err != nil {
			return nil, err
		}
		fn.DocComment = df.DocComment
		if err := c.AddFunction(fn); err != nil {
			return nil, err
		}
	}
	for _, dv := range dc.MemberVars {
		exposure, err := exposureOf(dv.Exposure)
		if err != nil {
			return nil, err
		}
		v, err := class.NewVariable(c, dv.Name, convertType(dv.Type), exposure, false)
		if err != nil {
			return nil, err
		}
		if err := c.AddMemberVar(v); err != nil {
			return nil, err
		}
	}
	for _, dv := range dc.InertVars {
		exposure, err := exposureOf(dv.Exposure)
		if err != nil {
			return nil, err
		}
		v, err := class.NewVariable(c, dv.Name, convertType(dv.Type), exposure, true)
		if err != nil {
			return nil, err
		}
		if err := c.AddInertVar(v); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// connectClasses implements spec.md §4.D step 7: link each class with a
// parent-name to its parent (adding it as a child, and recording a
// cross-parcel inheritance edge in the parcel registry when the two live
// in different parcels), or install it as a new tree root when it
// declares no parent.
func (h *Hierarchy) connectClasses() error {
	all := h.Classes.All()
	byName := make(map[string]*class.Class, len(all))
	for _, c := range all {
		byName[c.Name] = c
	}
	for _, c := range all {
		if c.Inert || c.ParentName == "" {
			if !c.Inert {
				h.Roots = append(h.Roots, c)
			}
			continue
		}
		parentClass, ok := byName[c.ParentName]
		if !ok {
			return cferr.Semanticf("class %s: parent %q not found", c.Name, c.ParentName)
		}
		if err := parentClass.AddChild(c); err != nil {
			return err
		}
		if parentClass.Parcel.Name != c.Parcel.Name {
			h.Parcels.AddInheritedParcel(c.Parcel, parentClass.Parcel)
		}
	}
	return nil
}
