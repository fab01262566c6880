package mapper

import "reflect"

// MapContainer is implemented by map-like types that are not Go maps. The
// engine iterates entries in the order RangeEntries yields them.
type MapContainer interface {
	Len() int
	KeyType() reflect.Type
	ValueType() reflect.Type
	RangeEntries(fn func(key, value interface{}) bool)
	PutEntry(key, value interface{}) error
}

// CollectionContainer is implemented by collection-like types that are not
// slices.
type CollectionContainer interface {
	Len() int
	ElemType() reflect.Type
	RangeValues(fn func(value interface{}) bool)
	AddValue(value interface{}) error
}
