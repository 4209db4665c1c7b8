package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/apache/lucy-clownfish/internal/hierarchy"
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

func buildFixtureHierarchy(t *testing.T, destDir string) *hierarchy.Hierarchy {
	t.Helper()
	srcDir := t.TempDir()
	writeFile(t, filepath.Join(srcDir, "Cfish.cfp"), `{"name":"Cfish","version":"v0.1.0"}`)
	writeFile(t, filepath.Join(srcDir, "Cfish", "Obj.cfh"), `
parcel Cfish;

class Obj {
    public Obj* init(Obj *self);
    public final void destroy(Obj *self);
}
`)
	writeFile(t, filepath.Join(srcDir, "Animal.cfp"), `{"name":"Animal","version":"v0.1.0","prerequisites":{"Cfish":null}}`)
	writeFile(t, filepath.Join(srcDir, "Animal", "Animal.cfh"), `
parcel Animal;

class Animal {
    public abstract void speak(Animal *self);
}
`)
	writeFile(t, filepath.Join(srcDir, "Animal", "Dog.cfh"), `
parcel Animal;

class Animal.Dog extends Animal {
    public void speak(Dog *self);
    public void bark(Dog *self);
}
`)

	h := hierarchy.New(hierarchy.DefaultParser{})
	h.SourceDirs = []string{srcDir}
	h.DestDir = destDir
	if err := h.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return h
}

func TestWriteAllEmitsExpectedFiles(t *testing.T) {
	destDir := t.TempDir()
	h := buildFixtureHierarchy(t, destDir)

	e := New(h, destDir, "/* generated */", "")
	e.HostBindings = true
	written, err := e.WriteAll()
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if written == 0 {
		t.Fatal("expected at least one file written on first run")
	}

	for _, rel := range []string{
		filepath.Join("include", "cfish_parcel.h"),
		filepath.Join("source", "cfish_parcel.c"),
		filepath.Join("include", "animal_parcel.h"),
		filepath.Join("source", "animal_parcel.c"),
		filepath.Join("include", "callbacks.h"),
		filepath.Join("include", "cfish_hostdefs.h"),
		"hierarchy.json",
	} {
		if _, err := os.Stat(filepath.Join(destDir, rel)); err != nil {
			t.Errorf("expected %s to exist: %v", rel, err)
		}
	}

	dogHeader, err := os.ReadFile(filepath.Join(destDir, "include", "Animal.Dog.h"))
	if err != nil {
		t.Fatalf("reading Dog.h: %v", err)
	}
	if !strings.Contains(string(dogHeader), "Dog_speak") {
		t.Error("Dog.h should define a dispatch macro for its override of speak")
	}
	if !strings.Contains(string(dogHeader), "Dog_bark") {
		t.Error("Dog.h should define a dispatch macro for its novel bark method")
	}

	animalHeader, err := os.ReadFile(filepath.Join(destDir, "include", "Animal.h"))
	if err != nil {
		t.Fatalf("reading Animal.h: %v", err)
	}
	if !strings.Contains(string(animalHeader), "Err_abstract_method_call") {
		t.Error("Animal's abstract speak method should emit an abstract-call stub")
	}
}

func TestWriteAllSkipsUnchangedOnSecondRun(t *testing.T) {
	destDir := t.TempDir()
	h := buildFixtureHierarchy(t, destDir)

	e := New(h, destDir, "", "")
	if _, err := e.WriteAll(); err != nil {
		t.Fatalf("first WriteAll: %v", err)
	}

	h2 := buildFixtureHierarchy(t, destDir)
	e2 := New(h2, destDir, "", "")
	written, err := e2.WriteAll()
	if err != nil {
		t.Fatalf("second WriteAll: %v", err)
	}
	if written != 0 {
		t.Errorf("expected zero files written re-emitting an unchanged hierarchy, got %d", written)
	}
}

// TestClassHeaderStableAcrossRebuilds guards the content-hash write
// discipline's precondition: emitting the same hierarchy twice from
// scratch must produce byte-identical output, or WriteIfDifferent's
// "skip unchanged" guarantee is meaningless.
func TestClassHeaderStableAcrossRebuilds(t *testing.T) {
	h1 := buildFixtureHierarchy(t, t.TempDir())
	h2 := buildFixtureHierarchy(t, t.TempDir())

	e1 := New(h1, t.TempDir(), "", "")
	e2 := New(h2, t.TempDir(), "", "")

	var dogClass1, dogClass2 = h1.Classes.Fetch("Animal.Dog"), h2.Classes.Fetch("Animal.Dog")
	animalParcel1 := h1.Parcels.Fetch("Animal")
	animalParcel2 := h2.Parcels.Fetch("Animal")

	text1, err := e1.buildClassHeader(animalParcel1, dogClass1)
	if err != nil {
		t.Fatalf("buildClassHeader 1: %v", err)
	}
	text2, err := e2.buildClassHeader(animalParcel2, dogClass2)
	if err != nil {
		t.Fatalf("buildClassHeader 2: %v", err)
	}
	if text1 != text2 {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(text1, text2, false)
		t.Errorf("Dog.h differs across identical rebuilds:\n%s", dmp.DiffPrettyText(diffs))
	}
}
