package parcel

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/apache/lucy-clownfish/internal/cferr"
)

// manifestJSON is the wire shape of a ".cfp" parcel manifest (spec.md §6).
type manifestJSON struct {
	Name          string             `json:"name"`
	Nickname      string             `json:"nickname"`
	Version       string             `json:"version"`
	Visibility    string             `json:"visibility"`
	Prerequisites map[string]*string `json:"prerequisites"`
}

// NewFromJSON parses manifest text into a Parcel. sourceDir and included
// describe where the manifest was found (a --source or --include
// directory), per spec.md's Parcel attributes.
func NewFromJSON(text []byte, cfpPath, sourceDir string, included bool) (*Parcel, error) {
	var m manifestJSON
	if err := json.Unmarshal(text, &m); err != nil {
		return nil, cferr.Wrap(cferr.Input, err, "%s: malformed parcel manifest", cfpPath)
	}
	if m.Name == "" {
		return nil, cferr.At(cferr.Input, cfpPath, 0, "manifest missing required field \"name\"")
	}
	if m.Version == "" {
		return nil, cferr.At(cferr.Input, cfpPath, 0, "manifest missing required field \"version\"")
	}
	var prereqs []Prereq
	for name, minVer := range m.Prerequisites {
		req := Prereq{Name: name}
		if minVer != nil && *minVer != "" {
			v, err := ParseVersion(*minVer)
			if err != nil {
				return nil, cferr.Wrap(cferr.Input, err, "%s: prerequisite %q", cfpPath, name)
			}
			req.MinVersion = &v
		}
		prereqs = append(prereqs, req)
	}
	p, err := NewParcel(m.Name, m.Nickname, m.Version, m.Visibility, cfpPath, sourceDir, included, prereqs)
	if err != nil {
		return nil, cferr.Wrap(cferr.Input, err, "%s", cfpPath)
	}
	return p, nil
}

// NewFromFile reads and parses a ".cfp" manifest file from disk.
func NewFromFile(path, sourceDir string, included bool) (*Parcel, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, cferr.Wrap(cferr.Input, err, "%s: cannot read parcel manifest", path)
	}
	glog.V(1).Infof("parcel: loading manifest %s", filepath.Clean(path))
	return NewFromJSON(text, path, sourceDir, included)
}
