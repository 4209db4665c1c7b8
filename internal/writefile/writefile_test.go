package writefile

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteIfDifferentSkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "out.h")

	wrote, err := WriteIfDifferent(path, []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if !wrote {
		t.Fatal("expected first write to occur")
	}
	info1, _ := os.Stat(path)

	time.Sleep(10 * time.Millisecond)
	wrote, err = WriteIfDifferent(path, []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if wrote {
		t.Error("expected second write with identical content to be skipped")
	}
	info2, _ := os.Stat(path)
	if !info1.ModTime().Equal(info2.ModTime()) {
		t.Error("mtime changed even though content was identical")
	}

	wrote, err = WriteIfDifferent(path, []byte("goodbye"))
	if err != nil {
		t.Fatal(err)
	}
	if !wrote {
		t.Error("expected write with different content to occur")
	}
}
