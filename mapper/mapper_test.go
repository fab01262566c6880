package mapper

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatchingField(t *testing.T) {
	type fooString struct{ Foo string }
	type fooPtrString struct{ Foo *string }
	type fooInt struct{ Foo int }
	type getFooString struct{ GetFoo string }
	type barInt struct{ Bar int }
	type fooStringBarInt struct {
		Foo string
		Bar int
	}
	type empty struct{}
	type unexported struct{ foo string }

	for i, c := range []struct {
		expected string
		src      interface{}
		dst      interface{}
	}{
		{"", empty{}, fooString{}},
		{"", barInt{}, fooString{}},

		{"", fooInt{}, fooString{}},

		{"Foo", fooString{}, fooString{}},
		{"Foo", fooString{}, fooPtrString{}},
		{"Foo", fooPtrString{}, fooString{}},
		{"Foo", fooStringBarInt{}, fooString{}},
		{"Foo", fooStringBarInt{}, fooStringBarInt{}},

		{"", fooString{}, unexported{}},

		// prefix tests, both directions
		{"GetFoo", fooString{}, getFooString{}},
		{"Foo", getFooString{}, fooString{}},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			sm := NewStructMapper(reflect.TypeOf(c.src), reflect.TypeOf(c.dst))
			require.NotNil(t, sm)
			sm.RecognizePrefixes("Get")
			sm.MapField("MapFieldSrc", "MapFieldDst")

			actual := ""
			for _, p := range sm.Map().Pairs {
				if p.Destination.Name() != "" {
					actual = p.Destination.Name()
					break
				}
			}
			assert.Equal(t, c.expected, actual)
		})
	}
}

func TestNewStructMapperRejectsNonStructs(t *testing.T) {
	assert.Nil(t, NewStructMapper(reflect.TypeOf(1), reflect.TypeOf(struct{}{})))
	assert.Nil(t, NewStructMapper(reflect.TypeOf(struct{}{}), reflect.TypeOf([]int{})))
}

func TestBindingBeatsNameMatch(t *testing.T) {
	type src struct {
		X int
	}
	type dst struct {
		X int
		Y int
	}

	sm := NewStructMapper(reflect.TypeOf(src{}), reflect.TypeOf(dst{}))
	sm.Bind(Binding{Field: "Y", Source: "X"})
	cfg := sm.Map()

	require.Len(t, cfg.Pairs, 1)
	assert.Equal(t, "Y", cfg.Pairs[0].Destination.Name())
	assert.True(t, cfg.Pairs[0].Bound)
	require.Len(t, cfg.NoMatch, 1)
	assert.Equal(t, "X", cfg.NoMatch[0].Name())
}

func TestFirstBindingWins(t *testing.T) {
	type src struct{ Items []int }
	type dst struct {
		A []int
		B []int
	}

	sm := NewStructMapper(reflect.TypeOf(src{}), reflect.TypeOf(dst{}))
	sm.Bind(Binding{Field: "A", Source: "Items", Start: 1})
	sm.Bind(Binding{Field: "B", Source: "Items"})
	cfg := sm.Map()

	require.Len(t, cfg.Pairs, 1)
	assert.Equal(t, "A", cfg.Pairs[0].Destination.Name())
	assert.Equal(t, 1, cfg.Pairs[0].Start)
}

func TestNonScalarNeedsBinding(t *testing.T) {
	type inner struct{ V int }
	type src struct {
		Inner inner
		List  []int
	}
	type dst struct {
		Inner inner
		List  []int
	}

	cfg := NewStructMapper(reflect.TypeOf(src{}), reflect.TypeOf(dst{})).Map()
	assert.Empty(t, cfg.Pairs)
	assert.Len(t, cfg.NoMatch, 2)
}

func TestIgnoreFields(t *testing.T) {
	type src struct {
		A string
		B string
	}
	type dst struct {
		A string
		B string
	}

	cfg := NewStructMapper(reflect.TypeOf(src{}), reflect.TypeOf(dst{})).IgnoreFields("B").Map()
	require.Len(t, cfg.Pairs, 1)
	assert.Equal(t, "A", cfg.Pairs[0].Destination.Name())
	assert.Empty(t, cfg.NoMatch)
}
