package mapper

import (
	"reflect"
)

type FieldPair struct {
	Source      Field
	Destination Field

	// Bound is set when the pair comes from a binding rather than a name
	// match; Start is the binding's offset.
	Bound bool
	Start int
}

type Field struct {
	key      string
	ty       reflect.Type
	index    int
	exported bool
}

func (f *Field) Name() string {
	return f.key
}

func (f *Field) Type() reflect.Type {
	return f.ty
}

func (f *Field) Index() int {
	return f.index
}

func (f *Field) Exported() bool {
	return f.exported
}

func (f *Field) IsPointer() bool {
	return f.ty != nil && f.ty.Kind() == reflect.Ptr
}

func (f *Field) Shape() Shape {
	return Classify(f.ty)
}

func fieldFromStructField(index int, sf reflect.StructField) Field {
	return Field{
		key:      sf.Name,
		ty:       sf.Type,
		index:    index,
		exported: sf.IsExported(),
	}
}

type MapConfiguration struct {
	Pairs   []FieldPair
	NoMatch []Field
}
