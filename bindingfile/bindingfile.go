// Package bindingfile reads and writes binding tables as YAML, so bindings
// can be declared without struct tags:
//
//	version: "1"
//	tables:
//	  - type: Invoice
//	    bindings:
//	      - field: Items
//	        source: Lines
//	        start: 1
//	    ignore: [Internal]
package bindingfile

import (
	"os"
	"reflect"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/paultyng/go-fieldmapper/mapper"
)

const currentVersion = "1"

type File struct {
	Version string      `yaml:"version"`
	Tables  []TableSpec `yaml:"tables"`
}

type TableSpec struct {
	Type     string        `yaml:"type"`
	Bindings []BindingSpec `yaml:"bindings,omitempty"`
	Ignore   []string      `yaml:"ignore,omitempty"`
	Prefixes []string      `yaml:"prefixes,omitempty"`
}

type BindingSpec struct {
	Field  string `yaml:"field"`
	Source string `yaml:"source"`
	Start  int    `yaml:"start,omitempty"`
}

// Types resolves the type names used in a file.
type Types map[string]reflect.Type

// TypesOf returns Types keyed by the struct name of each value.
func TypesOf(values ...interface{}) Types {
	types := Types{}
	for _, v := range values {
		t := reflect.TypeOf(v)
		for t != nil && t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t == nil {
			continue
		}
		types[t.Name()] = t
	}
	return types
}

// LoadFile loads and parses a YAML binding file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read binding file %s", path)
	}
	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "unable to parse binding YAML")
	}
	applyDefaults(&f)
	if f.Version != currentVersion {
		return nil, errors.Errorf("unsupported binding file version %q", f.Version)
	}
	return &f, nil
}

func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = currentVersion
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	b, err := yaml.Marshal(f)
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal binding file")
	}
	return b, nil
}

func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "unable to write binding file %s", path)
	}
	return nil
}

// FromTables builds a File describing tables, sorted by type name.
func FromTables(tables ...mapper.Table) *File {
	f := &File{Version: currentVersion}
	for _, t := range tables {
		spec := TableSpec{
			Type:     t.Type.Name(),
			Ignore:   t.Ignore,
			Prefixes: t.Prefixes,
		}
		for _, b := range t.Bindings {
			spec.Bindings = append(spec.Bindings, BindingSpec{Field: b.Field, Source: b.Source, Start: b.Start})
		}
		f.Tables = append(f.Tables, spec)
	}
	sort.SliceStable(f.Tables, func(i, j int) bool {
		return f.Tables[i].Type < f.Tables[j].Type
	})
	return f
}

// Tables resolves every table in f against types and validates it.
func (f *File) Tables(types Types) ([]mapper.Table, error) {
	tables := make([]mapper.Table, 0, len(f.Tables))
	for _, spec := range f.Tables {
		t, ok := types[spec.Type]
		if !ok {
			return nil, errors.Errorf("unknown type %q", spec.Type)
		}
		table := mapper.Table{
			Type:     t,
			Ignore:   spec.Ignore,
			Prefixes: spec.Prefixes,
		}
		for _, b := range spec.Bindings {
			table.Bindings = append(table.Bindings, mapper.Binding{Field: b.Field, Source: b.Source, Start: b.Start})
		}
		if err := table.Validate(); err != nil {
			return nil, errors.Wrapf(err, "table %s", spec.Type)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// Register resolves the tables of f and registers them with reg. Nothing is
// registered if any table is invalid.
func (f *File) Register(reg *mapper.Registry, types Types) error {
	tables, err := f.Tables(types)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}
