package mapper

import (
	"reflect"
	"strings"
)

// StructMapper resolves which target field each source field feeds.
type StructMapper struct {
	prefixes []string
	ignore   []string
	bindings []Binding

	src reflect.Type
	dst reflect.Type
}

// NewStructMapper returns nil unless both src and dst are structs or
// pointers to structs.
func NewStructMapper(src, dst reflect.Type) *StructMapper {
	m := &StructMapper{}

	m.src = unwrapStruct(src)
	m.dst = unwrapStruct(dst)
	if m.src == nil || m.dst == nil {
		return nil
	}

	return m
}

func (m *StructMapper) RecognizePrefixes(prefixes ...string) *StructMapper {
	m.prefixes = prefixes
	return m
}

func (m *StructMapper) MapField(srcField, dstField string) *StructMapper {
	return m.Bind(Binding{Field: dstField, Source: srcField})
}

// Bind adds a binding, replacing any earlier binding for the same target
// field.
func (m *StructMapper) Bind(b Binding) *StructMapper {
	for i := range m.bindings {
		if m.bindings[i].Field == b.Field {
			m.bindings[i] = b
			return m
		}
	}
	m.bindings = append(m.bindings, b)
	return m
}

func (m *StructMapper) IgnoreFields(dstFields ...string) *StructMapper {
	m.ignore = append(m.ignore, dstFields...)
	return m
}

// WithTable applies every binding, ignore and prefix of t.
func (m *StructMapper) WithTable(t Table) *StructMapper {
	for _, b := range t.Bindings {
		m.Bind(b)
	}
	if len(t.Ignore) > 0 {
		m.IgnoreFields(t.Ignore...)
	}
	if len(t.Prefixes) > 0 {
		m.RecognizePrefixes(t.Prefixes...)
	}
	return m
}

func (m *StructMapper) typesMappable(src, dst reflect.Type) bool {
	if src.AssignableTo(dst) {
		return true
	}

	// int => string? etc... probably need an explicit listing of valid options
	// if src.ConvertibleTo(dst) {
	// 	return true
	// }

	if dst.Kind() == reflect.Ptr {
		return m.typesMappable(src, dst.Elem())
	}
	if src.Kind() == reflect.Ptr {
		return m.typesMappable(src.Elem(), dst)
	}

	return false
}

func (m *StructMapper) namesMatch(src, dst string) bool {
	srcNames := []string{src}
	dstNames := []string{dst}

	for _, prefix := range m.prefixes {
		if prefix != "" {
			if strings.HasPrefix(srcNames[0], prefix) {
				srcNames = append(srcNames, strings.TrimPrefix(srcNames[0], prefix))
			}

			if strings.HasPrefix(dstNames[0], prefix) {
				dstNames = append(dstNames, strings.TrimPrefix(dstNames[0], prefix))
			}
		}
	}

	for _, dstName := range dstNames {
		if dstName == "" {
			continue
		}
		for _, srcName := range srcNames {
			if srcName == "" {
				continue
			}
			if dstName == srcName {
				return true
			}
		}
	}
	return false
}

func (m *StructMapper) isBound(dstField string) bool {
	for _, b := range m.bindings {
		if b.Field == dstField {
			return true
		}
	}
	return false
}

func (m *StructMapper) isIgnored(dstField string) bool {
	for _, ig := range m.ignore {
		if ig == dstField {
			return true
		}
	}
	return false
}

func (m *StructMapper) dstField(name string) (Field, bool) {
	sf, ok := m.dst.FieldByName(name)
	if !ok || len(sf.Index) != 1 {
		return Field{}, false
	}
	return fieldFromStructField(sf.Index[0], sf), true
}

// resolve returns the target field bound to srcName. With several bindings
// naming the same source the first one wins.
func (m *StructMapper) resolve(srcName string) (Field, Binding, bool) {
	for _, b := range m.bindings {
		if b.Source != srcName {
			continue
		}
		if f, ok := m.dstField(b.Field); ok {
			return f, b, true
		}
	}
	return Field{}, Binding{}, false
}

func (m *StructMapper) findPair(srcField Field) (FieldPair, bool) {
	if dstField, b, ok := m.resolve(srcField.Name()); ok {
		return FieldPair{
			Source:      srcField,
			Destination: dstField,
			Bound:       true,
			Start:       b.Start,
		}, true
	}

	// only scalars are matched by name, everything else needs a binding
	if srcField.Shape() != Scalar {
		return FieldPair{}, false
	}

	for i := 0; i < m.dst.NumField(); i++ {
		sf := m.dst.Field(i)
		if sf.Name == "_" || !sf.IsExported() || m.isBound(sf.Name) || m.isIgnored(sf.Name) {
			continue
		}
		if !m.namesMatch(srcField.Name(), sf.Name) {
			continue
		}
		if !m.typesMappable(srcField.Type(), sf.Type) {
			continue
		}
		return FieldPair{
			Source:      srcField,
			Destination: fieldFromStructField(i, sf),
		}, true
	}
	return FieldPair{}, false
}

// Map resolves a pair for every exported source field that has a
// destination, in source declaration order.
func (m *StructMapper) Map() MapConfiguration {
	pairs := []FieldPair{}
	fed := map[string]struct{}{}

	for i := 0; i < m.src.NumField(); i++ {
		sf := m.src.Field(i)
		if sf.Name == "_" || !sf.IsExported() {
			continue
		}
		p, ok := m.findPair(fieldFromStructField(i, sf))
		if !ok {
			continue
		}
		pairs = append(pairs, p)
		fed[p.Destination.Name()] = struct{}{}
	}

	noMatch := []Field{}
	for i := 0; i < m.dst.NumField(); i++ {
		sf := m.dst.Field(i)
		if sf.Name == "_" || m.isIgnored(sf.Name) {
			continue
		}
		if _, ok := fed[sf.Name]; ok {
			continue
		}
		noMatch = append(noMatch, fieldFromStructField(i, sf))
	}

	return MapConfiguration{
		Pairs:   pairs,
		NoMatch: noMatch,
	}
}
