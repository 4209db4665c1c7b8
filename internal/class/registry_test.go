package class

import (
	"testing"

	"github.com/apache/lucy-clownfish/internal/parcel"
	"github.com/apache/lucy-clownfish/internal/symbol"
)

func mustParcel(t *testing.T, name string) *parcel.Parcel {
	t.Helper()
	p, err := parcel.NewParcel(name, "", "v0", "", name+".cfp", "/src", false, nil)
	if err != nil {
		t.Fatalf("NewParcel(%s): %v", name, err)
	}
	return p
}

func selfParam(c *Class) Param {
	return Param{Name: "self", Type: NewObjectType(c.ShortStructSym, false, false, false)}
}

func TestGrowTreeBequeathsMethodsAndOverrides(t *testing.T) {
	p := mustParcel(t, "Animal")
	preg := parcel.NewRegistry()
	preg.Register(p)
	creg := NewRegistry(preg)

	base, err := NewClass(p, "Animal", "", "", "", false, false)
	if err != nil {
		t.Fatal(err)
	}
	speak, err := NewMethod(base, "Speak", []Param{selfParam(base)}, nil, symbol.Public, false, false)
	if err != nil {
		t.Fatal(err)
	}
	base.AddMethod(speak)

	dog, err := NewClass(p, "Animal.Dog", "Dog", "Animal", "", false, false)
	if err != nil {
		t.Fatal(err)
	}
	dogSpeak, err := NewMethod(dog, "Speak", []Param{selfParam(dog)}, nil, symbol.Public, false, false)
	if err != nil {
		t.Fatal(err)
	}
	dog.AddMethod(dogSpeak)
	bark, err := NewMethod(dog, "Bark", []Param{selfParam(dog)}, nil, symbol.Public, false, false)
	if err != nil {
		t.Fatal(err)
	}
	dog.AddMethod(bark)

	for _, c := range []*Class{base, dog} {
		if err := creg.Add(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := base.AddChild(dog); err != nil {
		t.Fatal(err)
	}

	if err := creg.GrowTree([]*Class{base}); err != nil {
		t.Fatalf("GrowTree: %v", err)
	}

	if len(base.CompleteMethods) != 1 {
		t.Fatalf("base.CompleteMethods = %d, want 1", len(base.CompleteMethods))
	}
	if len(dog.CompleteMethods) != 2 {
		t.Fatalf("dog.CompleteMethods = %d, want 2", len(dog.CompleteMethods))
	}
	if dog.CompleteMethods[0].Class != dog {
		t.Errorf("dog's Speak slot should hold dog's override")
	}
	if dog.CompleteMethods[0].Override != speak {
		t.Errorf("dog's Speak override link not set to base's Speak")
	}
	if dog.CompleteMethods[0].OffsetSym != speak.OffsetSym {
		t.Errorf("override offset symbol %q != base offset symbol %q", dog.CompleteMethods[0].OffsetSym, speak.OffsetSym)
	}
	if dog.CompleteMethods[1].Name != "Bark" || !dog.CompleteMethods[1].Novel {
		t.Errorf("dog's second slot should be the novel Bark method")
	}
}

func TestGrowTreeFinalPromotesAllSlots(t *testing.T) {
	p := mustParcel(t, "Animal")
	preg := parcel.NewRegistry()
	preg.Register(p)
	creg := NewRegistry(preg)

	base, _ := NewClass(p, "Animal", "", "", "", false, false)
	m, _ := NewMethod(base, "Speak", []Param{selfParam(base)}, nil, symbol.Public, false, false)
	base.AddMethod(m)

	dog, _ := NewClass(p, "Animal.Dog", "Dog", "Animal", "", true, false) // final
	creg.Add(base)
	creg.Add(dog)
	base.AddChild(dog)

	if err := creg.GrowTree([]*Class{base}); err != nil {
		t.Fatalf("GrowTree: %v", err)
	}
	for _, cm := range dog.CompleteMethods {
		if !cm.Final {
			t.Errorf("final class %s: method %s not promoted to final", dog.Name, cm.Name)
		}
	}
	if base.CompleteMethods[0].Final {
		t.Error("base class's own method should not be final")
	}
}

func TestFinalMethodCannotBeOverridden(t *testing.T) {
	p := mustParcel(t, "Animal")
	preg := parcel.NewRegistry()
	preg.Register(p)
	creg := NewRegistry(preg)

	base, _ := NewClass(p, "Animal", "", "", "", false, false)
	m, _ := NewMethod(base, "Foo", []Param{selfParam(base)}, nil, symbol.Public, true, false) // final method
	base.AddMethod(m)

	child, _ := NewClass(p, "Animal.Child", "Child", "Animal", "", false, false)
	cm, _ := NewMethod(child, "Foo", []Param{selfParam(child)}, nil, symbol.Public, false, false)
	child.AddMethod(cm)

	creg.Add(base)
	creg.Add(child)
	base.AddChild(child)

	if err := creg.GrowTree([]*Class{base}); err == nil {
		t.Error("expected error overriding a final method")
	}
}

func TestMutationAfterGrowTreeFails(t *testing.T) {
	p := mustParcel(t, "Animal")
	preg := parcel.NewRegistry()
	preg.Register(p)
	creg := NewRegistry(preg)

	base, _ := NewClass(p, "Animal", "", "", "", false, false)
	creg.Add(base)
	if err := creg.GrowTree([]*Class{base}); err != nil {
		t.Fatal(err)
	}
	v, _ := NewVariable(base, "x", NewPrimitiveType(Int32), symbol.Public, false)
	if err := base.AddMemberVar(v); err == nil {
		t.Error("expected mutation-after-grow_tree to fail")
	}
}

func TestInertClassInvariants(t *testing.T) {
	p := mustParcel(t, "Animal")
	if _, err := NewClass(p, "Animal.Utils", "Utils", "Animal", "", false, true); err == nil {
		t.Error("expected error: inert class with a parent")
	}
	base, _ := NewClass(p, "Animal", "", "", "", false, false)
	inert, _ := NewClass(p, "Animal.Utils", "Utils", "", "", false, true)
	if err := inert.AddChild(base); err == nil {
		t.Error("expected error: inert class with a child")
	}
	m, _ := NewMethod(base, "Foo", []Param{selfParam(base)}, nil, symbol.Public, false, false)
	if err := inert.AddMethod(m); err == nil {
		t.Error("expected error: inert class declaring a method")
	}
}

func TestResolveTypesCrossParcel(t *testing.T) {
	cfish := mustParcel(t, "Cfish")
	minVer, _ := parcel.ParseVersion("v0")
	animalP, err := parcel.NewParcel("Animal", "", "v0", "", "animal.cfp", "/src", false,
		[]parcel.Prereq{{Name: "Cfish", MinVersion: &minVer}})
	if err != nil {
		t.Fatal(err)
	}

	preg := parcel.NewRegistry()
	preg.Register(cfish)
	preg.Register(animalP)
	creg := NewRegistry(preg)

	obj, _ := NewClass(cfish, "Obj", "Obj", "", "", false, false)
	creg.Add(obj)

	dog, _ := NewClass(animalP, "Animal.Dog", "Dog", "", "", false, false)
	unresolved := NewObjectType("Obj", false, false, false)
	v, _ := NewVariable(dog, "owner", unresolved, symbol.Public, false)
	dog.AddMemberVar(v)
	creg.Add(dog)

	if err := creg.ResolveTypes(); err != nil {
		t.Fatalf("ResolveTypes: %v", err)
	}
	if unresolved.Class != obj {
		t.Errorf("cross-parcel type did not resolve to Obj class")
	}
}
