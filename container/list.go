package container

import (
	"reflect"

	list "github.com/bahlo/generic-list-go"
	"github.com/pkg/errors"

	"github.com/paultyng/go-fieldmapper/mapper"
)

var _ mapper.CollectionContainer = (*List[int])(nil)

// List is a doubly linked list of T. The zero value is ready to use.
type List[T any] struct {
	l *list.List[T]
}

func NewList[T any](values ...T) *List[T] {
	l := &List[T]{l: list.New[T]()}
	for _, v := range values {
		l.l.PushBack(v)
	}
	return l
}

func (c *List[T]) lazyInit() {
	if c.l == nil {
		c.l = list.New[T]()
	}
}

func (c *List[T]) PushBack(v T) {
	c.lazyInit()
	c.l.PushBack(v)
}

func (c *List[T]) PushFront(v T) {
	c.lazyInit()
	c.l.PushFront(v)
}

func (c *List[T]) Len() int {
	if c.l == nil {
		return 0
	}
	return c.l.Len()
}

// Values returns the elements front to back.
func (c *List[T]) Values() []T {
	values := make([]T, 0, c.Len())
	c.Range(func(v T) bool {
		values = append(values, v)
		return true
	})
	return values
}

func (c *List[T]) Range(fn func(value T) bool) {
	if c.l == nil {
		return
	}
	for e := c.l.Front(); e != nil; e = e.Next() {
		if !fn(e.Value) {
			return
		}
	}
}

func (c *List[T]) ElemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (c *List[T]) RangeValues(fn func(value interface{}) bool) {
	c.Range(func(v T) bool {
		return fn(v)
	})
}

func (c *List[T]) AddValue(value interface{}) error {
	var v T
	if value != nil {
		var ok bool
		v, ok = value.(T)
		if !ok {
			return errors.Errorf("unexpected value type %T, expected %v", value, c.ElemType())
		}
	}
	c.PushBack(v)
	return nil
}
