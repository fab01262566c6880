package mapper

import (
	"reflect"

	"github.com/pkg/errors"
)

type shapePair struct {
	src Shape
	dst Shape
}

// adaptFunc moves the elements of src into dst. For the many-to-one pairs
// dst is the raw destination field, instantiated only when an element is
// selected; for the others it is the ensured container.
type adaptFunc func(f *filler, src, dst reflect.Value, start, depth int, field string) error

// adapters lists every supported shape pair. Array sources are absent on
// purpose: they are never copied.
var adapters map[shapePair]adaptFunc

func init() {
	adapters = map[shapePair]adaptFunc{
		{MapLike, MapLike}:               mapToMap,
		{MapLike, CollectionLike}:        mapToCollection,
		{MapLike, ArrayLike}:             mapToArray,
		{CollectionLike, CollectionLike}: collectionToCollection,
		{CollectionLike, ArrayLike}:      collectionToArray,
		{MapLike, Composite}:             mapToOne,
		{CollectionLike, Composite}:      collectionToOne,
	}
}

func lookupAdapter(src, dst Shape) (adaptFunc, bool) {
	fn, ok := adapters[shapePair{src: src, dst: dst}]
	return fn, ok
}

// skipPrefix walks n elements with a counter starting at start and calls fn
// for each element visited while the counter is <= 0. The counter drops
// after every element, so the first start elements are skipped and all the
// rest are visited.
func skipPrefix(n, start int, fn func(i int) error) error {
	counter := start
	for i := 0; i < n; i++ {
		if counter <= 0 {
			if err := fn(i); err != nil {
				return err
			}
		}
		counter--
	}
	return nil
}

func mapToMap(f *filler, src, dst reflect.Value, start, depth int, field string) error {
	entries := mapEntries(src)
	return skipPrefix(len(entries), start, func(i int) error {
		return f.putEntry(dst, entries[i], depth, field)
	})
}

func mapToCollection(f *filler, src, dst reflect.Value, start, depth int, field string) error {
	values := entryValues(mapEntries(src))
	return skipPrefix(len(values), start, func(i int) error {
		return f.addValue(dst, values[i], depth, field)
	})
}

func mapToArray(f *filler, src, dst reflect.Value, start, depth int, field string) error {
	return f.toArray(entryValues(mapEntries(src)), dst, start, depth, field)
}

func collectionToCollection(f *filler, src, dst reflect.Value, start, depth int, field string) error {
	values := collectionValues(src)
	return skipPrefix(len(values), start, func(i int) error {
		return f.addValue(dst, values[i], depth, field)
	})
}

func collectionToArray(f *filler, src, dst reflect.Value, start, depth int, field string) error {
	return f.toArray(collectionValues(src), dst, start, depth, field)
}

func mapToOne(f *filler, src, dst reflect.Value, start, depth int, field string) error {
	return f.selectOne(entryValues(mapEntries(src)), dst, start, depth, field)
}

func collectionToOne(f *filler, src, dst reflect.Value, start, depth int, field string) error {
	return f.selectOne(collectionValues(src), dst, start, depth, field)
}

// toArray writes the windowed values into the array slots from index 0.
func (f *filler) toArray(values []reflect.Value, dst reflect.Value, start, depth int, field string) error {
	arr := indirect(dst)
	if !arr.IsValid() || arr.Kind() != reflect.Array {
		return f.report(errors.WithStack(&UnsupportedShapeError{Field: field, Source: CollectionLike, Destination: Classify(dst.Type())}))
	}
	if !arr.CanSet() {
		return f.report(errors.WithStack(&AccessError{Type: arr.Type(), Field: field}))
	}

	slot := 0
	err := skipPrefix(len(values), start, func(i int) error {
		if slot >= arr.Len() {
			slot++
			return nil
		}
		v, err := f.convertElement(values[i], arr.Type().Elem(), depth, field)
		if err != nil {
			return err
		}
		if v.IsValid() {
			arr.Index(slot).Set(v)
		}
		slot++
		return nil
	})
	if err != nil {
		return err
	}
	if slot > arr.Len() {
		return f.report(errors.WithStack(&CapacityError{Field: field, Length: arr.Len(), Required: slot}))
	}
	return nil
}

// selectOne fills the single destination dst from one element of values.
// The counter is never decremented here, unlike skipPrefix, so only a start
// <= 0 selects anything (the first element) and a positive start leaves dst
// unset.
func (f *filler) selectOne(values []reflect.Value, dst reflect.Value, start, depth int, field string) error {
	counter := start
	for _, v := range values {
		if counter > 0 {
			continue
		}
		target, err := f.ensure(dst, v, field)
		if err != nil {
			return f.report(err)
		}
		return f.fillStruct(target, v, depth+1)
	}
	return nil
}
