package mapper

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipPrefix(t *testing.T) {
	for i, c := range []struct {
		n        int
		start    int
		expected []int
	}{
		{0, 0, nil},
		{3, 0, []int{0, 1, 2}},
		{3, -1, []int{0, 1, 2}},
		{3, 1, []int{1, 2}},
		{3, 2, []int{2}},
		{3, 3, nil},
		{3, 10, nil},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			var visited []int
			err := skipPrefix(c.n, c.start, func(i int) error {
				visited = append(visited, i)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, c.expected, visited)
		})
	}
}

func TestRegistryOverridesTags(t *testing.T) {
	type src struct {
		A int
		B int
	}
	type dst struct {
		Out int `map:"A"`
	}

	reg := NewRegistry()
	e := newTestEngine(t, Options{Registry: reg})

	var d dst
	require.NoError(t, e.Fill(&d, src{A: 1, B: 2}))
	assert.Equal(t, 1, d.Out)

	// registering bumps the generation so the cached configuration is not reused
	reg.MustRegister(Table{
		Type:     reflect.TypeOf(&dst{}),
		Bindings: []Binding{{Field: "Out", Source: "B"}},
	})
	table, ok := reg.Table(reflect.TypeOf(dst{}))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(dst{}), table.Type)

	require.NoError(t, e.Fill(&d, src{A: 1, B: 2}))
	assert.Equal(t, 2, d.Out)
}

func TestRegistryRejectsInvalidTables(t *testing.T) {
	type dst struct {
		Out int
	}

	reg := NewRegistry()
	assert.Error(t, reg.Register(Table{Type: reflect.TypeOf(dst{}), Bindings: []Binding{{Field: "Missing", Source: "A"}}}))
	assert.Panics(t, func() {
		reg.MustRegister(Table{Type: reflect.TypeOf(0)})
	})
	_, ok := reg.Table(reflect.TypeOf(dst{}))
	assert.False(t, ok)
}

func TestRegistryConstructors(t *testing.T) {
	type src struct {
		Attrs map[string]int
	}
	type dst struct {
		Attrs map[string]int `map:"Attrs"`
	}

	reg := NewRegistry()
	reg.RegisterConstructor(reflect.TypeOf(map[string]int{}), func() interface{} {
		return map[string]int{"seed": 0}
	})
	e := newTestEngine(t, Options{Registry: reg})

	var d dst
	require.NoError(t, e.Fill(&d, src{Attrs: map[string]int{"a": 1}}))
	assert.Equal(t, map[string]int{"seed": 0, "a": 1}, d.Attrs)
}

func TestRegistryBadConstructor(t *testing.T) {
	type src struct {
		Attrs map[string]int
	}
	type dst struct {
		Attrs map[string]int `map:"Attrs"`
	}

	reg := NewRegistry()
	reg.RegisterConstructor(reflect.TypeOf(map[string]int{}), func() interface{} {
		return "not a map"
	})
	e := newTestEngine(t, Options{Registry: reg})

	var d dst
	err := e.Fill(&d, src{Attrs: map[string]int{"a": 1}})
	var inst *InstantiationError
	require.ErrorAs(t, err, &inst)
	assert.Nil(t, d.Attrs)
}

func TestEngineNew(t *testing.T) {
	type target struct {
		Name string
	}

	reg := NewRegistry()
	e := newTestEngine(t, Options{Registry: reg})

	v, err := e.New(reflect.TypeOf(target{}))
	require.NoError(t, err)
	assert.Equal(t, &target{}, v.Interface())

	reg.RegisterConstructor(reflect.TypeOf(&target{}), func() interface{} {
		return &target{Name: "ctor"}
	})
	v, err = e.New(reflect.TypeOf(&target{}))
	require.NoError(t, err)
	assert.Equal(t, &target{Name: "ctor"}, v.Interface())

	_, err = e.New(reflect.TypeOf(0))
	var inst *InstantiationError
	assert.ErrorAs(t, err, &inst)
}

func TestConfigurationCacheDisabled(t *testing.T) {
	type src struct{ A int }
	type dst struct{ A int }

	e := newTestEngine(t, Options{CacheSize: -1})
	cfg, err := e.Configuration(reflect.TypeOf(src{}), reflect.TypeOf(dst{}))
	require.NoError(t, err)
	require.Len(t, cfg.Pairs, 1)

	_, err = e.Configuration(reflect.TypeOf(0), reflect.TypeOf(dst{}))
	assert.Error(t, err)
}

func TestEngineConcurrentFill(t *testing.T) {
	type src struct {
		Name  string
		Items []int
	}
	type dst struct {
		Name  string
		Items []int `map:"Items,start=1"`
	}

	e := newTestEngine(t, Options{CacheSize: 2})
	var wg sync.WaitGroup
	results := make([]dst, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, e.Fill(&results[i], src{Name: fmt.Sprint(i), Items: []int{i, i + 1}}))
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		assert.Equal(t, dst{Name: fmt.Sprint(i), Items: []int{i + 1}}, r)
	}
}
