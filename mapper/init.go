package mapper

import (
	"reflect"

	"github.com/pkg/errors"
)

// initialize stores a new empty value in the absent destination dv. Maps
// and slices are sized from the source value.
func (f *filler) initialize(dv, sv reflect.Value, field string) error {
	t := dv.Type()
	if !dv.CanSet() {
		return errors.WithStack(&AccessError{Type: t, Field: field})
	}

	if ctor, ok := f.e.registry.constructor(t); ok {
		raw := ctor()
		v := reflect.ValueOf(raw)
		if !v.IsValid() || !v.Type().AssignableTo(t) {
			return errors.WithStack(&InstantiationError{
				Type:  t,
				Field: field,
				Err:   errors.Errorf("constructor returned %T", raw),
			})
		}
		dv.Set(v)
		return nil
	}

	n := sequenceLen(sv)
	switch t.Kind() {
	case reflect.Ptr:
		dv.Set(reflect.New(t.Elem()))
	case reflect.Map:
		dv.Set(reflect.MakeMapWithSize(t, n))
	case reflect.Slice:
		dv.Set(reflect.MakeSlice(t, 0, n))
	default:
		return errors.WithStack(&InstantiationError{
			Type:  t,
			Field: field,
			Err:   errors.Errorf("no zero-argument constructor for kind %s", t.Kind()),
		})
	}
	return nil
}

// ensure returns the value to write into for destination dv, instantiating
// it first when absent. Container types implemented on a pointer are
// returned as that pointer.
func (f *filler) ensure(dv, sv reflect.Value, field string) (reflect.Value, error) {
	for {
		if dv.Kind() == reflect.Interface && dv.IsNil() {
			return reflect.Value{}, errors.WithStack(&InstantiationError{
				Type:  dv.Type(),
				Field: field,
				Err:   errors.New("interface destinations have no constructor"),
			})
		}
		if isContainerValue(dv) {
			if dv.Kind() == reflect.Ptr && dv.IsNil() {
				if err := f.initialize(dv, sv, field); err != nil {
					return reflect.Value{}, err
				}
			}
			return dv, nil
		}

		switch dv.Kind() {
		case reflect.Ptr:
			if dv.IsNil() {
				if err := f.initialize(dv, sv, field); err != nil {
					return reflect.Value{}, err
				}
			}
			dv = dv.Elem()
		case reflect.Map, reflect.Slice:
			if dv.IsNil() {
				if err := f.initialize(dv, sv, field); err != nil {
					return reflect.Value{}, err
				}
			}
			return dv, nil
		case reflect.Interface:
			e := dv.Elem()
			if e.Kind() != reflect.Ptr {
				return reflect.Value{}, errors.WithStack(&AccessError{Type: dv.Type(), Field: field})
			}
			dv = e
		default:
			return dv, nil
		}
	}
}

// instantiate allocates a new *T for a struct type t, using a registered
// constructor for *T or T when there is one.
func (e *Engine) instantiate(t reflect.Type) (reflect.Value, error) {
	st := unwrapStruct(t)
	if st == nil {
		return reflect.Value{}, errors.WithStack(&InstantiationError{
			Type: t,
			Err:  errors.New("target type is not a struct"),
		})
	}

	pt := reflect.PtrTo(st)
	if ctor, ok := e.registry.constructor(pt); ok {
		v := reflect.ValueOf(ctor())
		if v.IsValid() && v.Type() == pt && !v.IsNil() {
			return v, nil
		}
		return reflect.Value{}, errors.WithStack(&InstantiationError{
			Type: pt,
			Err:  errors.New("constructor returned an unusable value"),
		})
	}
	if ctor, ok := e.registry.constructor(st); ok {
		v := reflect.ValueOf(ctor())
		if !v.IsValid() || v.Type() != st {
			return reflect.Value{}, errors.WithStack(&InstantiationError{
				Type: st,
				Err:  errors.New("constructor returned an unusable value"),
			})
		}
		p := reflect.New(st)
		p.Elem().Set(v)
		return p, nil
	}
	return reflect.New(st), nil
}
