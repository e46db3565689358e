package fixtures

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formify/pkg/model"
	"github.com/goliatone/go-formify/pkg/schema"
)

// Fixture is one form read from a file. Name is the file stem, suffixed with
// "/<index>" for files holding a list of forms.
type Fixture struct {
	Name   string
	Source string
	Form   schema.Form
}

// Set holds the fixtures of a filesystem in walk order.
type Set struct {
	fixtures []Fixture
	byName   map[string]int
}

// LoadFS walks fsys and parses every .json, .yaml and .yml file. A file holds
// either a single form or a document with a "forms" list. Every form must
// pass model.ValidateForm. A nil fsys yields an empty set.
func LoadFS(fsys fs.FS) (*Set, error) {
	set := &Set{byName: make(map[string]int)}
	if fsys == nil {
		return set, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isFormFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("fixtures: read %s: %w", p, err)
		}

		doc, err := parseDocument(data, p)
		if err != nil {
			return err
		}

		stem := strings.TrimSuffix(path.Base(p), path.Ext(p))
		if len(doc.Forms) == 0 {
			return set.add(Fixture{Name: stem, Source: p, Form: doc.Form})
		}
		for i, form := range doc.Forms {
			name := stem + "/" + strconv.Itoa(i)
			if err := set.add(Fixture{Name: name, Source: p, Form: form}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Fixtures returns the loaded fixtures in walk order.
func (s *Set) Fixtures() []Fixture {
	if s == nil {
		return nil
	}
	return append([]Fixture(nil), s.fixtures...)
}

// Forms returns just the forms, in walk order.
func (s *Set) Forms() []schema.Form {
	if s == nil {
		return nil
	}
	out := make([]schema.Form, len(s.fixtures))
	for i, f := range s.fixtures {
		out[i] = f.Form
	}
	return out
}

// Get returns the fixture with the supplied name.
func (s *Set) Get(name string) (Fixture, bool) {
	if s == nil {
		return Fixture{}, false
	}
	i, ok := s.byName[name]
	if !ok {
		return Fixture{}, false
	}
	return s.fixtures[i], true
}

// Len reports how many forms were loaded.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fixtures)
}

func (s *Set) add(f Fixture) error {
	if err := model.ValidateForm(f.Form); err != nil {
		return fmt.Errorf("fixtures: %s (%s): %w", f.Name, f.Source, err)
	}
	if _, exists := s.byName[f.Name]; exists {
		return fmt.Errorf("fixtures: duplicate fixture %q (file %s)", f.Name, f.Source)
	}
	s.byName[f.Name] = len(s.fixtures)
	s.fixtures = append(s.fixtures, f)
	return nil
}

type documentFile struct {
	Forms       []schema.Form `json:"forms" yaml:"forms"`
	schema.Form `yaml:",inline"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("fixtures: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("fixtures: parse %s: invalid JSON or YAML", source)
}

func isFormFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
