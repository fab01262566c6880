package mapper

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// Registry holds explicit binding tables and zero-argument constructors.
// It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	gen          uint64
	tables       map[reflect.Type]Table
	constructors map[reflect.Type]func() interface{}
}

// DefaultRegistry is used by engines created without a registry. Generated
// binding tables register themselves here.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		tables:       map[reflect.Type]Table{},
		constructors: map[reflect.Type]func() interface{}{},
	}
}

// Register stores t for its struct type, replacing any earlier table.
func (r *Registry) Register(t Table) error {
	if err := t.Validate(); err != nil {
		return errors.WithStack(err)
	}
	st := unwrapStruct(t.Type)
	t.Type = st

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[st] = t
	r.gen++
	return nil
}

func (r *Registry) MustRegister(t Table) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

func (r *Registry) Table(t reflect.Type) (Table, bool) {
	st := unwrapStruct(t)
	if st == nil {
		return Table{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	table, ok := r.tables[st]
	return table, ok
}

// RegisterConstructor makes fn the zero-argument constructor for values of
// exactly type t. fn must return a value assignable to t.
func (r *Registry) RegisterConstructor(t reflect.Type, fn func() interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[t] = fn
}

func (r *Registry) constructor(t reflect.Type) (func() interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.constructors[t]
	return fn, ok
}

func (r *Registry) generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gen
}
