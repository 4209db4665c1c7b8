package decl

import "testing"

func TestParseSingleClassParcel(t *testing.T) {
	src := `
parcel Animal;

class Animal {
    public Animal* init(Animal *self);
}
`
	f, err := ParseString("Animal.cfh", src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if f.ParcelName != "Animal" {
		t.Errorf("ParcelName = %q, want Animal", f.ParcelName)
	}
	if len(f.Classes) != 1 {
		t.Fatalf("len(Classes) = %d, want 1", len(f.Classes))
	}
	c := f.Classes[0]
	if c.Name != "Animal" {
		t.Errorf("class name = %q, want Animal", c.Name)
	}
	if len(c.Methods) != 1 || c.Methods[0].Name != "init" {
		t.Fatalf("Methods = %+v", c.Methods)
	}
	m := c.Methods[0]
	if len(m.Params) != 1 || m.Params[0].Name != "self" {
		t.Errorf("Params = %+v", m.Params)
	}
	if !m.Return.IsObject || m.Return.ClassName != "Animal" {
		t.Errorf("Return = %+v", m.Return)
	}
	if m.Exposure != "public" {
		t.Errorf("Exposure = %q, want public", m.Exposure)
	}
}

func TestParseInheritanceAndModifiers(t *testing.T) {
	src := `
parcel Animal;

final class Animal.Dog extends Animal.Animal {
    inert int32_t num_dogs;

    public final Dog* init(Dog *self);
    abstract void speak(Dog *self);
}
`
	f, err := ParseString("Dog.cfh", src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	c := f.Classes[0]
	if c.ParentName != "Animal.Animal" {
		t.Errorf("ParentName = %q, want Animal.Animal", c.ParentName)
	}
	if !c.Final {
		t.Error("expected class-level final modifier")
	}
	if len(c.InertVars) != 1 || c.InertVars[0].Name != "num_dogs" {
		t.Fatalf("InertVars = %+v", c.InertVars)
	}
	if len(c.Methods) != 2 {
		t.Fatalf("Methods = %+v", c.Methods)
	}
	if !c.Methods[0].Final {
		t.Error("expected init to be final")
	}
	if !c.Methods[1].Abstract {
		t.Error("expected speak to be abstract")
	}
}

func TestParseInertClassWithFunctionsAndDecorators(t *testing.T) {
	src := `
parcel Animal;

inert class Animal.Utils {
    public nullable Animal* find(size_t id);
}
`
	f, err := ParseString("Utils.cfh", src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	c := f.Classes[0]
	if !c.Inert {
		t.Error("expected inert class")
	}
	if len(c.Functions) != 1 || c.Functions[0].Name != "find" {
		t.Fatalf("Functions = %+v", c.Functions)
	}
	fn := c.Functions[0]
	if !fn.Return.Nullable {
		t.Error("expected nullable decorator on return type")
	}
	if len(fn.Params) != 1 || fn.Params[0].Type.Primitive != "size_t" {
		t.Errorf("Params = %+v", fn.Params)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		`class Foo {}`,                     // missing parcel statement
		`parcel Foo; class Bar { int32_t` + "\n" + `x }`, // missing semicolon
		`parcel Foo; class Bar { int32_t* x; }`,          // '*' on a primitive type
	} {
		if _, err := ParseString("bad.cfh", src); err == nil {
			t.Errorf("ParseString(%q): expected error, got nil", src)
		}
	}
}
