package parcel

import "testing"

func TestNewFromJSON(t *testing.T) {
	text := []byte(`{
		"name": "Animal",
		"version": "v0.1.0",
		"prerequisites": {"Cfish": "v0.1.0"}
	}`)
	p, err := NewFromJSON(text, "Animal.cfp", "/src", false)
	if err != nil {
		t.Fatalf("NewFromJSON: %v", err)
	}
	if p.Nickname != "Animal" {
		t.Errorf("Nickname = %q, want Animal", p.Nickname)
	}
	if p.Prefix() != "animal_" {
		t.Errorf("Prefix() = %q, want animal_", p.Prefix())
	}
	if p.PREFIX() != "ANIMAL_" {
		t.Errorf("PREFIX() = %q, want ANIMAL_", p.PREFIX())
	}
	if len(p.Prereqs) != 1 || p.Prereqs[0].Name != "Cfish" {
		t.Errorf("Prereqs = %+v, want one Cfish entry", p.Prereqs)
	}
}

func TestNewFromJSONMissingFields(t *testing.T) {
	if _, err := NewFromJSON([]byte(`{"version":"v0"}`), "x.cfp", "/src", false); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := NewFromJSON([]byte(`{"name":"Foo"}`), "x.cfp", "/src", false); err == nil {
		t.Error("expected error for missing version")
	}
}

func TestRegistryRegisterConflict(t *testing.T) {
	r := NewRegistry()
	a, _ := NewParcel("Foo", "", "v0", "", "a.cfp", "/srcA", false, nil)
	b, _ := NewParcel("Foo", "", "v0", "", "b.cfp", "/srcB", false, nil)

	if err := r.Register(a); err != nil {
		t.Fatalf("Register(a): %v", err)
	}
	if err := r.Register(b); err == nil {
		t.Error("expected conflict registering Foo from a different source dir")
	}

	// Re-registering from the same source dir is idempotent.
	aAgain, _ := NewParcel("Foo", "", "v0", "", "a.cfp", "/srcA", false, nil)
	if err := r.Register(aAgain); err != nil {
		t.Errorf("idempotent re-register failed: %v", err)
	}
}

func TestRegistryCheckPrereqs(t *testing.T) {
	r := NewRegistry()
	cfish, _ := NewParcel("Cfish", "", "v0.2.0", "", "cfish.cfp", "/src", false, nil)
	r.Register(cfish)

	minVer, _ := ParseVersion("v0.1.0")
	dog, _ := NewParcel("Dog", "", "v0", "", "dog.cfp", "/src", false, []Prereq{{Name: "Cfish", MinVersion: &minVer}})
	if err := r.CheckPrereqs(dog); err != nil {
		t.Errorf("CheckPrereqs: %v", err)
	}

	tooNew, _ := ParseVersion("v9.0.0")
	cat, _ := NewParcel("Cat", "", "v0", "", "cat.cfp", "/src", false, []Prereq{{Name: "Cfish", MinVersion: &tooNew}})
	if err := r.CheckPrereqs(cat); err == nil {
		t.Error("expected version-too-low error")
	}

	missing, _ := NewParcel("Fish", "", "v0", "", "fish.cfp", "/src", false, []Prereq{{Name: "Nope"}})
	if err := r.CheckPrereqs(missing); err == nil {
		t.Error("expected missing-prerequisite error")
	}
}

func TestParcelIDUniqueAndStable(t *testing.T) {
	p, _ := NewParcel("Uniq", "", "v0", "", "u.cfp", "/src", false, nil)
	id1 := p.ID()
	id2 := p.ID()
	if id1 != id2 {
		t.Errorf("ID() not stable: %d != %d", id1, id2)
	}
	other, _ := NewParcel("Uniq2", "", "v0", "", "u2.cfp", "/src", false, nil)
	if other.ID() == id1 {
		t.Error("two parcels claimed the same id")
	}
}

func TestDependentAndInheritedParcels(t *testing.T) {
	r := NewRegistry()
	cfish, _ := NewParcel("Cfish", "", "v0", "", "cfish.cfp", "/src", false, nil)
	animal, _ := NewParcel("Animal", "", "v0", "", "animal.cfp", "/src", false, []Prereq{{Name: "Cfish"}})
	dog, _ := NewParcel("Dog", "", "v0", "", "dog.cfp", "/src", false, []Prereq{{Name: "Animal"}})
	for _, p := range []*Parcel{cfish, animal, dog} {
		if err := r.Register(p); err != nil {
			t.Fatal(err)
		}
	}
	r.AddInheritedParcel(dog, animal)
	r.AddInheritedParcel(animal, cfish)

	dependents := r.DependentParcels(dog)
	if len(dependents) != 2 {
		t.Fatalf("DependentParcels(dog) = %v, want 2 entries", namesOf(dependents))
	}
	if dependents[0].Name != "Cfish" || dependents[1].Name != "Animal" {
		t.Errorf("DependentParcels(dog) = %v, want [Cfish Animal]", namesOf(dependents))
	}

	inherited := r.InheritedParcels(dog)
	if len(inherited) != 2 || inherited[0].Name != "Cfish" || inherited[1].Name != "Animal" {
		t.Errorf("InheritedParcels(dog) = %v, want [Cfish Animal]", namesOf(inherited))
	}
}

func namesOf(ps []*Parcel) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
