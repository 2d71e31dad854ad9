package docschema

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML schema file layout:
//
//	schemas:
//	  - name: person
//	    fields:
//	      - name: name
//	        order: 1
//	      - name: child
//	        order: 3
//	        schema: person
type yamlFile struct {
	Schemas []yamlSchema `yaml:"schemas"`
}

type yamlSchema struct {
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name   string `yaml:"name"`
	Order  int    `yaml:"order"`
	Schema string `yaml:"schema"`
}

// LoadSet reads a YAML schema document and returns the validated Set.
func LoadSet(r io.Reader) (*Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("docschema: reading schema: %w", err)
	}
	return parseSet(data)
}

// LoadSetFile reads a YAML schema file and returns the validated Set.
func LoadSetFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docschema: reading %s: %w", path, err)
	}
	set, err := parseSet(data)
	if err != nil {
		return nil, fmt.Errorf("docschema: %s: %w", path, err)
	}
	return set, nil
}

// LoadSetDir loads every *.yaml and *.yml file under dir into one Set.
// Files are read in sorted name order so duplicate detection is stable.
func LoadSetDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("docschema: reading %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var schemas []*Schema
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("docschema: reading %s: %w", name, err)
		}
		var f yamlFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("docschema: %s: %w", name, err)
		}
		schemas = append(schemas, fileSchemas(f)...)
	}
	return NewSet(schemas...)
}

func parseSet(data []byte) (*Set, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("docschema: parsing schema: %w", err)
	}
	if len(f.Schemas) == 0 {
		return nil, fmt.Errorf("docschema: no schemas declared")
	}
	return NewSet(fileSchemas(f)...)
}

func fileSchemas(f yamlFile) []*Schema {
	out := make([]*Schema, 0, len(f.Schemas))
	for _, ys := range f.Schemas {
		sc := &Schema{Name: ys.Name}
		for _, yf := range ys.Fields {
			sc.Fields = append(sc.Fields, FieldDef{Name: yf.Name, Order: yf.Order, Schema: yf.Schema})
		}
		out = append(out, sc)
	}
	return out
}
