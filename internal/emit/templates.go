package emit

import (
	"bytes"
	"text/template"
)

// The emitter builds every output file from a small set of named
// text/template bodies rather than ad-hoc string concatenation (per
// spec.md §9 "String building"): each template takes a plain data struct
// and is executed into a buffer, the same templated-substitution style
// the teacher (google/kati) uses for its bootstrap makefile text in
// bootstrap.go, scaled up with named fields instead of fmt.Sprintf calls.

var funcs = template.FuncMap{}

func must(name, body string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(body))
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var rootHelperTmpl = must("rootHelper", `
/* The privileged root parcel defines the generic dispatch machinery every
 * other parcel builds on. */
typedef void (*{{.PREFIX}}METHOD_PTR_t)(void);

typedef struct {{.Prefix}}Method {
    const char *name;
    {{.PREFIX}}METHOD_PTR_t func;
    {{.PREFIX}}METHOD_PTR_t callback_func;
    size_t *offset;
} {{.Prefix}}Method;

typedef struct {{.Prefix}}Class {{.Prefix}}Class;

typedef struct {{.Prefix}}ClassSpec {
    {{.Prefix}}Class **class_p;
    {{.Prefix}}Class **parent_p;
    const char *name;
    size_t ivars_size;
    size_t *ivars_offset_p;
    size_t num_fresh_methods;
    size_t num_novel_methods;
    {{.Prefix}}Method *method_specs;
} {{.Prefix}}ClassSpec;

#define {{.PREFIX}}METHOD_PTR(_vtable, _offset) \
    (*(({{.PREFIX}}METHOD_PTR_t*)(((char*)(_vtable)) + (_offset))))
#define {{.PREFIX}}SUPER_METHOD_PTR(_parent_class, _offset) \
    (*(({{.PREFIX}}METHOD_PTR_t*)(((char*)(_parent_class)) + (_offset))))
#define {{.PREFIX}}OVERRIDDEN(_self, _offset, _func) \
    ({{.PREFIX}}METHOD_PTR(*((void**)(_self)), (_offset)) != (({{.PREFIX}}METHOD_PTR_t)(_func)))

#ifdef {{.PREFIX}}USE_SHORT_NAMES
  #define METHOD_PTR {{.PREFIX}}METHOD_PTR
  #define SUPER_METHOD_PTR {{.PREFIX}}SUPER_METHOD_PTR
  #define OVERRIDDEN {{.PREFIX}}OVERRIDDEN
#endif

#if defined(__GNUC__) || defined(__clang__)
  #define {{.PREFIX}}INLINE static __inline__
#else
  #define {{.PREFIX}}INLINE static
#endif
`)

var parcelHeaderTmpl = must("parcelHeader", `{{.Header}}
#ifndef {{.IncludeGuard}}
#define {{.IncludeGuard}} 1

#ifdef __cplusplus
extern "C" {
#endif
{{if .IsRoot}}
{{.RootHelper}}
{{else}}
{{range .Dependents}}#include "{{.Prefix}}parcel.h"
{{end}}
#ifdef {{.PrivacyGuard}}
  #define {{.Prefix}}EXPORT
#else
  #define {{.Prefix}}IMPORT
#endif
{{end}}
{{range .ForwardDecls}}typedef struct {{.}} {{.}};
{{end}}
void
{{.Prefix}}bootstrap_inheritance(void);

void
{{.Prefix}}bootstrap_parcel(void);

#ifdef __cplusplus
}
#endif
#endif /* {{.IncludeGuard}} */
{{.Footer}}
`)

var methodSpecTmpl = must("methodSpec", `    { "{{.Name}}", ({{.Root.PREFIX}}METHOD_PTR_t){{.ImplFuncSym}}, {{if .CallbackSym}}({{.Root.PREFIX}}METHOD_PTR_t){{.CallbackSym}}{{else}}NULL{{end}}, &{{.OffsetSym}} },
`)

var vtableSpecTmpl = must("vtableSpec", `    {
        &{{.ClassVarSymFull}},
        {{if .ParentClassVarSymFull}}&{{.ParentClassVarSymFull}}{{else}}NULL{{end}},
        "{{.Name}}",
        {{.IvarsSize}},
        &{{.IvarsOffsetSym}},
        {{.NumFreshMethods}},
        {{.NumNovelMethods}},
        {{.MethodSpecSym}}
    },
`)

var parcelSourceTmpl = must("parcelSource", `{{.Header}}
{{range .PrivacyGuards}}#define {{.}}
{{end}}
#include "{{.Prefix}}parcel.h"
#include "callbacks.h"
{{range .ClassIncludes}}#include "{{.}}"
{{end}}

{{range .OffsetStorage}}size_t {{.}};
{{end}}
{{range .ClassVars}}{{$.Root.PrefixUpperCamel}}Class *{{.}};
{{end}}
{{range .MethodSpecBlocks}}static {{$.Root.PrefixUpperCamel}}Method {{.MethodSpecSym}}[] = {
{{.Body}}};
{{end}}

static {{.Root.PrefixUpperCamel}}ClassSpec {{.Prefix}}class_specs[] = {
{{range .VTableSpecs}}{{.}}{{end}}};

static int {{.Prefix}}bootstrap_state = 0;

void
{{.Prefix}}bootstrap_inheritance(void) {
    if ({{.Prefix}}bootstrap_state == 1) {
        {{.Root.PREFIX}}ERROR("cycle detected bootstrapping parcel '{{.ParcelName}}'");
    }
    if ({{.Prefix}}bootstrap_state >= 2) {
        return;
    }
    {{.Prefix}}bootstrap_state = 1;
{{range .InheritedParcels}}    {{.Prefix}}bootstrap_inheritance();
{{end}}    {{$.Root.Prefix}}Class_bootstrap({{.Prefix}}class_specs,
        sizeof({{.Prefix}}class_specs) / sizeof({{.Prefix}}class_specs[0]));
    {{.Prefix}}bootstrap_state = 2;
}

void
{{.Prefix}}bootstrap_parcel(void) {
    if ({{.Prefix}}bootstrap_state >= 3) {
        return;
    }
    {{.Prefix}}bootstrap_inheritance();
    {{.Prefix}}bootstrap_state = 3;
{{range .DependentParcels}}    {{.Prefix}}bootstrap_parcel();
{{end}}{{if .HasInitParcel}}    {{.Prefix}}init_parcel();
{{end}}}
{{.Footer}}
`)

var classHeaderTmpl = must("classHeader", `{{.Header}}
#ifndef {{.IncludeGuard}}
#define {{.IncludeGuard}} 1

#ifdef __cplusplus
extern "C" {
#endif

struct {{.FullStructSym}};
extern {{.Root.PrefixUpperCamel}}Class *{{.ClassVarSymFull}};

{{range .Methods}}typedef {{.ReturnSpelling}}
(*{{.TypedefSym}})({{.ParamSpelling}});

{{if .Final}}extern size_t {{.OffsetSym}};
#define {{.FullSym}} {{.ImplFuncSym}}
{{else}}extern size_t {{.OffsetSym}};

{{$.Root.PREFIX}}INLINE {{.ReturnSpelling}}
{{.FullSym}}({{.ParamSpelling}}) {
    {{$.Root.PREFIX}}METHOD_PTR_t method = {{$.Root.PREFIX}}METHOD_PTR(*((void**)self), {{.OffsetSym}});
    return (({{.TypedefSym}})method)({{.ArgNames}});
}
{{end}}
{{if .Abstract}}{{.ReturnSpelling}}
{{.ImplFuncSym}}({{.ParamSpelling}}) {
    {{$.Root.Prefix}}Err_abstract_method_call(({{$.Root.Prefix}}Obj*)self, "{{.Name}}");
{{if not .ReturnsVoid}}    return ({{.ReturnSpelling}})0;
{{end}}}
{{end}}
{{end}}
#ifdef __cplusplus
}
#endif
#endif /* {{.IncludeGuard}} */
{{.Footer}}
`)

var callbacksActiveTmpl = must("callbacksActive", `{{.Header}}
#ifndef {{.Root.PREFIX}}CALLBACKS_H
#define {{.Root.PREFIX}}CALLBACKS_H 1

{{range .Entries}}{{.ReturnSpelling}}
{{.CallbackSym}}({{.ParamSpelling}});
{{end}}
#endif
{{.Footer}}
`)

var callbacksInactiveTmpl = must("callbacksInactive", `{{.Header}}
#ifndef {{.Root.PREFIX}}CALLBACKS_H
#define {{.Root.PREFIX}}CALLBACKS_H 1

{{range .Entries}}#define {{.CallbackSym}} NULL
{{end}}
#endif
{{.Footer}}
`)

var hostDefsTmpl = must("hostDefs", `{{.Header}}
#ifndef {{.Root.PREFIX}}HOSTDEFS_H
#define {{.Root.PREFIX}}HOSTDEFS_H 1

{{if .UseRefcountUnion}}typedef union {
    size_t refcount;
    void *host_obj;
} {{.Root.PrefixUpperCamel}}RefcountOrHost;
#define {{.Root.PREFIX}}OBJ_HEADER {{.Root.PrefixUpperCamel}}RefcountOrHost ref;
{{else}}#define {{.Root.PREFIX}}OBJ_HEADER size_t refcount;
{{end}}
#endif
{{.Footer}}
`)
