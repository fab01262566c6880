package container

import (
	"reflect"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/paultyng/go-fieldmapper/mapper"
)

var _ mapper.MapContainer = (*OrderedMap[string, int])(nil)

// OrderedMap is a map that remembers insertion order. The zero value is
// ready to use.
type OrderedMap[K comparable, V any] struct {
	m *orderedmap.OrderedMap[K, V]
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{m: orderedmap.New[K, V]()}
}

func (o *OrderedMap[K, V]) lazyInit() {
	if o.m == nil {
		o.m = orderedmap.New[K, V]()
	}
}

// Set stores value under key. Updating an existing key keeps its position.
func (o *OrderedMap[K, V]) Set(key K, value V) {
	o.lazyInit()
	o.m.Set(key, value)
}

func (o *OrderedMap[K, V]) Get(key K) (V, bool) {
	if o.m == nil {
		var zero V
		return zero, false
	}
	return o.m.Get(key)
}

func (o *OrderedMap[K, V]) Delete(key K) {
	if o.m != nil {
		o.m.Delete(key)
	}
}

func (o *OrderedMap[K, V]) Len() int {
	if o.m == nil {
		return 0
	}
	return o.m.Len()
}

// Keys returns the keys in insertion order.
func (o *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, o.Len())
	o.Range(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (o *OrderedMap[K, V]) Range(fn func(key K, value V) bool) {
	if o.m == nil {
		return
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

func (o *OrderedMap[K, V]) KeyType() reflect.Type {
	return reflect.TypeOf((*K)(nil)).Elem()
}

func (o *OrderedMap[K, V]) ValueType() reflect.Type {
	return reflect.TypeOf((*V)(nil)).Elem()
}

func (o *OrderedMap[K, V]) RangeEntries(fn func(key, value interface{}) bool) {
	o.Range(func(k K, v V) bool {
		return fn(k, v)
	})
}

func (o *OrderedMap[K, V]) PutEntry(key, value interface{}) error {
	k, ok := key.(K)
	if !ok {
		return errors.Errorf("unexpected key type %T, expected %v", key, o.KeyType())
	}
	var v V
	if value != nil {
		v, ok = value.(V)
		if !ok {
			return errors.Errorf("unexpected value type %T, expected %v", value, o.ValueType())
		}
	}
	o.Set(k, v)
	return nil
}
