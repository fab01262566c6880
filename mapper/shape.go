package mapper

import "reflect"

// Shape is the structural classification of a type.
type Shape int

const (
	Scalar Shape = iota
	MapLike
	CollectionLike
	ArrayLike
	Composite
)

func (s Shape) String() string {
	switch s {
	case Scalar:
		return "Scalar"
	case MapLike:
		return "MapLike"
	case CollectionLike:
		return "CollectionLike"
	case ArrayLike:
		return "ArrayLike"
	case Composite:
		return "Composite"
	}
	return "Shape(?)"
}

// IsContainer reports whether s is one of the multi-valued shapes.
func (s Shape) IsContainer() bool {
	return s == MapLike || s == CollectionLike || s == ArrayLike
}

var (
	mapContainerType        = reflect.TypeOf((*MapContainer)(nil)).Elem()
	collectionContainerType = reflect.TypeOf((*CollectionContainer)(nil)).Elem()
)

// scalarTypes is matched by type identity: named types built on these
// (type Celsius float64) are Composite.
var scalarTypes = func() map[reflect.Type]struct{} {
	m := map[reflect.Type]struct{}{}
	for _, v := range []interface{}{
		int(0), int8(0), int16(0), int32(0), int64(0),
		uint(0), uint8(0), uint16(0), uint32(0), uint64(0),
		false,
		float32(0), float64(0),
		"",
	} {
		t := reflect.TypeOf(v)
		m[t] = struct{}{}
		m[reflect.PtrTo(t)] = struct{}{}
	}
	return m
}()

// Classify computes the shape of t. Map and collection detection follows
// the pointer chain, so *map[K]V is MapLike. A type satisfying both
// container contracts is MapLike.
func Classify(t reflect.Type) Shape {
	if t == nil {
		return Composite
	}
	switch {
	case isFrom(t, reflect.Map, mapContainerType):
		return MapLike
	case isFrom(t, reflect.Slice, collectionContainerType):
		return CollectionLike
	case unwrapPointer(t).Kind() == reflect.Array:
		return ArrayLike
	}
	if _, ok := scalarTypes[t]; ok {
		return Scalar
	}
	return Composite
}

func isFrom(t reflect.Type, kind reflect.Kind, contract reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == kind || t.Implements(contract) {
		return true
	}
	if t.Kind() != reflect.Ptr && reflect.PtrTo(t).Implements(contract) {
		return true
	}
	if t.Kind() == reflect.Ptr {
		return isFrom(t.Elem(), kind, contract)
	}
	return false
}
