package mapper

import (
	"reflect"

	"github.com/pkg/errors"
)

type entry struct {
	key   reflect.Value
	value reflect.Value
}

func asMapContainer(v reflect.Value) (MapContainer, bool) {
	for v.IsValid() {
		if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
			return nil, false
		}
		if v.Type().Implements(mapContainerType) && v.CanInterface() {
			return v.Interface().(MapContainer), true
		}
		if v.Kind() != reflect.Ptr && reflect.PtrTo(v.Type()).Implements(mapContainerType) {
			return addressable(v).Interface().(MapContainer), true
		}
		if v.Kind() != reflect.Ptr {
			break
		}
		v = v.Elem()
	}
	return nil, false
}

func asCollectionContainer(v reflect.Value) (CollectionContainer, bool) {
	for v.IsValid() {
		if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
			return nil, false
		}
		if v.Type().Implements(collectionContainerType) && v.CanInterface() {
			return v.Interface().(CollectionContainer), true
		}
		if v.Kind() != reflect.Ptr && reflect.PtrTo(v.Type()).Implements(collectionContainerType) {
			return addressable(v).Interface().(CollectionContainer), true
		}
		if v.Kind() != reflect.Ptr {
			break
		}
		v = v.Elem()
	}
	return nil, false
}

// addressable returns a pointer to v, or to a copy of v when v cannot be
// addressed. Writes through a copy are lost, so destinations must be
// addressable.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}

func isContainerValue(v reflect.Value) bool {
	t := v.Type()
	if t.Implements(mapContainerType) || t.Implements(collectionContainerType) {
		return true
	}
	if t.Kind() == reflect.Ptr || !v.CanAddr() {
		return false
	}
	pt := reflect.PtrTo(t)
	return pt.Implements(mapContainerType) || pt.Implements(collectionContainerType)
}

// mapEntries returns the entries of a map-like value in iteration order:
// sorted by key for Go maps, container order otherwise.
func mapEntries(v reflect.Value) []entry {
	if mc, ok := asMapContainer(v); ok {
		entries := make([]entry, 0, mc.Len())
		mc.RangeEntries(func(k, val interface{}) bool {
			entries = append(entries, entry{key: reflect.ValueOf(k), value: reflect.ValueOf(val)})
			return true
		})
		return entries
	}
	m := indirect(v)
	if !m.IsValid() || m.Kind() != reflect.Map {
		return nil
	}
	keys := sortedMapKeys(m)
	entries := make([]entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, entry{key: k, value: m.MapIndex(k)})
	}
	return entries
}

// collectionValues returns the elements of a collection-like value in order.
func collectionValues(v reflect.Value) []reflect.Value {
	if cc, ok := asCollectionContainer(v); ok {
		values := make([]reflect.Value, 0, cc.Len())
		cc.RangeValues(func(val interface{}) bool {
			values = append(values, reflect.ValueOf(val))
			return true
		})
		return values
	}
	s := indirect(v)
	if !s.IsValid() || s.Kind() != reflect.Slice {
		return nil
	}
	values := make([]reflect.Value, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		values = append(values, s.Index(i))
	}
	return values
}

func entryValues(entries []entry) []reflect.Value {
	values := make([]reflect.Value, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.value)
	}
	return values
}

// sequenceLen is the number of elements held by a map-like or
// collection-like value, 0 for anything else.
func sequenceLen(v reflect.Value) int {
	if mc, ok := asMapContainer(v); ok {
		return mc.Len()
	}
	if cc, ok := asCollectionContainer(v); ok {
		return cc.Len()
	}
	v = indirect(v)
	if !v.IsValid() {
		return 0
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return v.Len()
	}
	return 0
}

// putEntry stores key and value into the map-like destination dst,
// converting both to the destination's key and value types.
func (f *filler) putEntry(dst reflect.Value, e entry, depth int, field string) error {
	if mc, ok := asMapContainer(dst); ok {
		k, err := f.convertElement(e.key, mc.KeyType(), depth, field)
		if err != nil || !k.IsValid() {
			return err
		}
		v, err := f.convertElement(e.value, mc.ValueType(), depth, field)
		if err != nil || !v.IsValid() {
			return err
		}
		if err := mc.PutEntry(k.Interface(), v.Interface()); err != nil {
			return f.report(errors.Wrapf(err, "field %s", field))
		}
		return nil
	}

	m := indirect(dst)
	k, err := f.convertElement(e.key, m.Type().Key(), depth, field)
	if err != nil || !k.IsValid() {
		return err
	}
	v, err := f.convertElement(e.value, m.Type().Elem(), depth, field)
	if err != nil || !v.IsValid() {
		return err
	}
	m.SetMapIndex(k, v)
	return nil
}

// addValue appends value to the collection-like destination dst.
func (f *filler) addValue(dst reflect.Value, value reflect.Value, depth int, field string) error {
	if cc, ok := asCollectionContainer(dst); ok {
		v, err := f.convertElement(value, cc.ElemType(), depth, field)
		if err != nil || !v.IsValid() {
			return err
		}
		if err := cc.AddValue(v.Interface()); err != nil {
			return f.report(errors.Wrapf(err, "field %s", field))
		}
		return nil
	}

	for dst.Kind() == reflect.Ptr {
		dst = dst.Elem()
	}
	v, err := f.convertElement(value, dst.Type().Elem(), depth, field)
	if err != nil || !v.IsValid() {
		return err
	}
	if !dst.CanSet() {
		return f.report(errors.WithStack(&AccessError{Type: dst.Type(), Field: field}))
	}
	dst.Set(reflect.Append(dst, v))
	return nil
}

// convertElement converts v to type to. Struct elements are converted by
// allocating a new element and filling it from v. An invalid result with a
// nil error means the element is skipped.
func (f *filler) convertElement(v reflect.Value, to reflect.Type, depth int, field string) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(to), nil
	}
	if v.Type().AssignableTo(to) {
		return v, nil
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Zero(to), nil
		}
		return f.convertElement(v.Elem(), to, depth, field)
	}
	if to.Kind() == reflect.Ptr && v.Type().AssignableTo(to.Elem()) {
		p := reflect.New(to.Elem())
		p.Elem().Set(v)
		return p, nil
	}
	if v.Kind() == reflect.Ptr && v.Type().Elem().AssignableTo(to) {
		if v.IsNil() {
			return reflect.Zero(to), nil
		}
		return v.Elem(), nil
	}

	srcStruct, dstStruct := unwrapStruct(v.Type()), unwrapStruct(to)
	if srcStruct != nil && dstStruct != nil && (to.Kind() == reflect.Struct || to.Elem().Kind() == reflect.Struct) {
		if isAbsent(v) {
			return reflect.Zero(to), nil
		}
		out := reflect.New(dstStruct)
		if err := f.fillStruct(out, v, depth+1); err != nil {
			return reflect.Value{}, err
		}
		if to.Kind() == reflect.Ptr {
			return out, nil
		}
		return out.Elem(), nil
	}

	return reflect.Value{}, f.report(errors.WithStack(&TypeMismatchError{
		Field:       field,
		Source:      v.Type(),
		Destination: to,
	}))
}
