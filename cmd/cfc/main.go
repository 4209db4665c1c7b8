// Command cfc is the Clownfish compiler driver: it walks --source and
// --include directories, builds a Hierarchy, and emits C sources into
// --dest (spec.md §6 "EXTERNAL INTERFACES").
package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/golang/glog"

	"github.com/apache/lucy-clownfish/internal/cferr"
	"github.com/apache/lucy-clownfish/internal/emit"
	"github.com/apache/lucy-clownfish/internal/hierarchy"
)

// defaultSystemIncludeDirs are consulted when CLOWNFISH_INCLUDE is unset,
// on platforms where a system Clownfish install might live in one of the
// usual Unix prefixes.
var defaultSystemIncludeDirs = []string{
	"/usr/local/include/clownfish",
	"/usr/include/clownfish",
}

// CLI is the flag/argument surface kong parses into, one field per row of
// spec.md §6's flag table plus the Host switch. Dest is required; Source,
// Include and Parcel are repeatable; Header and Footer each take one file.
type CLI struct {
	Dest    string   `required:"" placeholder:"DIR" help:"Root of the emitted tree; include/ and source/ are created beneath it."`
	Source  []string `placeholder:"DIR" help:"A directory of .cfp and .cfh files to compile."`
	Include []string `placeholder:"DIR" help:"A directory whose parcels/classes are visible but not emitted."`
	Parcel  []string `placeholder:"NAME" help:"A prerequisite parcel that must exist in some include dir."`
	Header  string   `placeholder:"FILE" help:"Literal text prepended to every emitted file."`
	Footer  string   `placeholder:"FILE" help:"Literal text appended to every emitted file."`

	Host bool `help:"Emit real callback prototypes for a linked host binding instead of NULL stubs."`
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", cferr.Wrap(cferr.Input, err, "reading %s", path)
	}
	return string(data), nil
}

// envIncludeDirs implements spec.md §6's CLOWNFISH_INCLUDE fallback: a
// colon (or, on Windows, semicolon) delimited list of include directories,
// falling back to fixed system paths on a Unix-like filesystem when unset.
func envIncludeDirs() []string {
	raw := os.Getenv("CLOWNFISH_INCLUDE")
	if raw == "" {
		if runtime.GOOS != "windows" {
			return defaultSystemIncludeDirs
		}
		return nil
	}
	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	var dirs []string
	for _, dir := range strings.Split(raw, sep) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func run(cli *CLI) error {
	header, err := readOptional(cli.Header)
	if err != nil {
		return err
	}
	footer, err := readOptional(cli.Footer)
	if err != nil {
		return err
	}

	h := hierarchy.New(hierarchy.DefaultParser{})
	h.SourceDirs = cli.Source
	h.IncludeDirs = append(append([]string{}, cli.Include...), envIncludeDirs()...)
	h.RequiredParcelNames = cli.Parcel
	h.DestDir = cli.Dest

	glog.V(1).Infof("cfc: %d source dir(s), %d include dir(s)", len(h.SourceDirs), len(h.IncludeDirs))

	if err := h.Build(); err != nil {
		return err
	}

	e := emit.New(h, cli.Dest, header, footer)
	e.HostBindings = cli.Host
	written, err := e.WriteAll()
	if err != nil {
		return err
	}
	glog.V(1).Infof("cfc: wrote %d file(s)", written)
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("cfc"),
		kong.Description("Compile Clownfish parcel declarations into C source."))

	if err := run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "cfc: %v\n", err)
		kctx.Exit(1)
	}
}
