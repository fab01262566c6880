package mapper

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultTagName is the struct tag key binding declarations are read from.
const DefaultTagName = "map"

// Binding declares that the target field Field is populated from the source
// field named Source. For multi-valued sources the first Start elements are
// skipped.
type Binding struct {
	Field  string
	Source string
	Start  int
}

// Table is an explicit binding table for a target type. A registered table
// replaces struct tag scanning for that type.
type Table struct {
	Type     reflect.Type
	Bindings []Binding
	Ignore   []string
	Prefixes []string
}

// TagSpec is the parsed form of a binding tag.
type TagSpec struct {
	Source string
	Start  int
	Ignore bool
}

// ParseTag parses a tag value of the form "Source", "Source,start=N" or "-".
// An empty tag yields a zero TagSpec and ok == false.
func ParseTag(tag string) (spec TagSpec, ok bool, err error) {
	if tag == "" {
		return TagSpec{}, false, nil
	}
	if tag == "-" {
		return TagSpec{Ignore: true}, true, nil
	}

	parts := strings.Split(tag, ",")
	spec.Source = strings.TrimSpace(parts[0])
	if spec.Source == "" {
		return TagSpec{}, false, errors.New("missing source field name")
	}
	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "":
		case strings.HasPrefix(opt, "start="):
			n, err := strconv.Atoi(strings.TrimPrefix(opt, "start="))
			if err != nil {
				return TagSpec{}, false, errors.Wrapf(err, "unable to parse start option %q", opt)
			}
			spec.Start = n
		default:
			return TagSpec{}, false, errors.Errorf("unknown option %q", opt)
		}
	}
	return spec, true, nil
}

// TableFromTags builds a Table for t from its struct tags.
func TableFromTags(t reflect.Type, tagName string) (Table, error) {
	st := unwrapStruct(t)
	if st == nil {
		return Table{}, errors.Errorf("unexpected type %v, expected struct", t)
	}
	if tagName == "" {
		tagName = DefaultTagName
	}

	table := Table{Type: st}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		tag, has := f.Tag.Lookup(tagName)
		if !has {
			continue
		}
		spec, ok, err := ParseTag(tag)
		if err != nil {
			return Table{}, errors.WithStack(&TagError{
				Type:  st,
				Field: f.Name,
				Tag:   tag,
				Msg:   err.Error(),
			})
		}
		if !ok {
			continue
		}
		if spec.Ignore {
			table.Ignore = append(table.Ignore, f.Name)
			continue
		}
		table.Bindings = append(table.Bindings, Binding{
			Field:  f.Name,
			Source: spec.Source,
			Start:  spec.Start,
		})
	}
	return table, nil
}

// Validate checks that every field named by the table exists on its type.
func (t Table) Validate() error {
	st := unwrapStruct(t.Type)
	if st == nil {
		return errors.Errorf("unexpected type %v, expected struct", t.Type)
	}
	names := make([]string, 0, st.NumField())
	for i := 0; i < st.NumField(); i++ {
		names = append(names, st.Field(i).Name)
	}
	referenced := append([]string{}, t.Ignore...)
	for _, b := range t.Bindings {
		if b.Source == "" {
			return errors.Errorf("binding for %v.%s has no source field", st, b.Field)
		}
		referenced = append(referenced, b.Field)
	}
	if unknown := difference(referenced, names); len(unknown) > 0 {
		return errors.Errorf("unknown fields on %v: %s", st, strings.Join(unknown, ", "))
	}
	return nil
}
