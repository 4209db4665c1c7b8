package hierarchy

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func buildFixture(t *testing.T, srcDir string) {
	t.Helper()
	writeFile(t, filepath.Join(srcDir, "Cfish.cfp"), `{"name":"Cfish","version":"v0.1.0"}`)
	writeFile(t, filepath.Join(srcDir, "Cfish", "Obj.cfh"), `
parcel Cfish;

class Obj {
    public Obj* init(Obj *self);
}
`)
	writeFile(t, filepath.Join(srcDir, "Animal.cfp"), `{"name":"Animal","version":"v0.1.0","prerequisites":{"Cfish":null}}`)
	writeFile(t, filepath.Join(srcDir, "Animal", "Animal.cfh"), `
parcel Animal;

class Animal {
    public void speak(Animal *self);
}
`)
	writeFile(t, filepath.Join(srcDir, "Animal", "Dog.cfh"), `
parcel Animal;

class Animal.Dog extends Animal {
    public void speak(Dog *self);
    public void bark(Dog *self);
}
`)
}

func TestBuildSingleTreeGrowsCorrectly(t *testing.T) {
	srcDir := t.TempDir()
	buildFixture(t, srcDir)

	h := New(DefaultParser{})
	h.SourceDirs = []string{srcDir}
	h.DestDir = t.TempDir()

	if err := h.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	dog := h.Classes.Fetch("Animal.Dog")
	if dog == nil {
		t.Fatal("Animal.Dog not registered")
	}
	if dog.Parent == nil || dog.Parent.Name != "Animal" {
		t.Fatalf("Dog's parent = %v, want Animal", dog.Parent)
	}
	// Dog inherits Obj's "init" unchanged, overrides Animal's "speak", and
	// adds its own novel "bark" — three slots total.
	if len(dog.CompleteMethods) != 3 {
		t.Fatalf("Dog.CompleteMethods = %d, want 3 (inherited init + override speak + novel bark)", len(dog.CompleteMethods))
	}
	if dog.CompleteMethods[0].Name != "init" || dog.CompleteMethods[0].Class.Name != "Obj" {
		t.Errorf("Dog's first slot should be Obj's inherited init, got %+v", dog.CompleteMethods[0])
	}
	if dog.CompleteMethods[1].Name != "speak" || dog.CompleteMethods[1].Override == nil {
		t.Errorf("Dog's second slot should override speak")
	}
	if dog.CompleteMethods[2].Name != "bark" || !dog.CompleteMethods[2].Novel {
		t.Errorf("Dog's third slot should be the novel bark method")
	}

	animal := h.Classes.Fetch("Animal")
	if animal.Parent == nil || animal.Parent.Name != "Obj" {
		t.Fatalf("Animal's parent = %v, want Obj (implicit root default)", animal.Parent)
	}

	if _, err := h.PropagateModified(true); err != nil {
		t.Fatalf("PropagateModified: %v", err)
	}
	for _, f := range h.Files {
		if !f.Modified {
			t.Errorf("file %s should be marked modified on initial build", f.SourcePath)
		}
	}
}

func TestPropagateModifiedSkipsUpToDateFiles(t *testing.T) {
	srcDir := t.TempDir()
	buildFixture(t, srcDir)
	destDir := t.TempDir()

	h := New(DefaultParser{})
	h.SourceDirs = []string{srcDir}
	h.DestDir = destDir
	if err := h.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Simulate a prior emission: write a header for every class, dated
	// after every source file.
	future := time.Now().Add(time.Hour)
	for _, c := range h.OrderedClasses() {
		hp := filepath.Join(destDir, "include", c.RelativeIncludePath())
		writeFile(t, hp, "")
		os.Chtimes(hp, future, future)
	}

	modified, err := h.PropagateModified(false)
	if err != nil {
		t.Fatalf("PropagateModified: %v", err)
	}
	if modified {
		t.Error("expected no modifications when emitted headers are newer than sources")
	}
}

func TestBuildFailsOnMissingPrerequisite(t *testing.T) {
	srcDir := t.TempDir()
	buildFixture(t, srcDir)
	// Cat is in a parcel with no prerequisite on Animal, but extends it.
	writeFile(t, filepath.Join(srcDir, "Cat.cfp"), `{"name":"Cat","version":"v0.1.0"}`)
	writeFile(t, filepath.Join(srcDir, "Cat", "Cat.cfh"), `
parcel Cat;

class Cat.Cat extends Animal {
    public void speak(Cat *self);
}
`)

	h := New(DefaultParser{})
	h.SourceDirs = []string{srcDir}
	h.DestDir = t.TempDir()

	if err := h.Build(); err == nil {
		t.Fatal("expected error: Animal is not a prerequisite of Cat")
	}
}
