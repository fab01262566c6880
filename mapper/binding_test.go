package mapper

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	for i, c := range []struct {
		tag      string
		expected TagSpec
		ok       bool
		err      bool
	}{
		{"", TagSpec{}, false, false},
		{"-", TagSpec{Ignore: true}, true, false},
		{"Items", TagSpec{Source: "Items"}, true, false},
		{"Items,start=2", TagSpec{Source: "Items", Start: 2}, true, false},
		{" Items , start=-1 ", TagSpec{Source: "Items", Start: -1}, true, false},
		{"Items,", TagSpec{Source: "Items"}, true, false},
		{",start=1", TagSpec{}, false, true},
		{"Items,start=x", TagSpec{}, false, true},
		{"Items,omitempty", TagSpec{}, false, true},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			spec, ok, err := ParseTag(c.tag)
			if c.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.expected, spec)
		})
	}
}

func TestTableFromTags(t *testing.T) {
	type dst struct {
		Name     string
		Lines    []string `map:"Items,start=1"`
		Internal string   `map:"-"`
		Other    int      `json:"other"`
	}

	table, err := TableFromTags(reflect.TypeOf(&dst{}), "")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(dst{}), table.Type)
	assert.Equal(t, []Binding{{Field: "Lines", Source: "Items", Start: 1}}, table.Bindings)
	assert.Equal(t, []string{"Internal"}, table.Ignore)
	assert.NoError(t, table.Validate())
}

func TestTableFromTagsCustomTag(t *testing.T) {
	type dst struct {
		Lines []string `bind:"Items"`
		Other []string `map:"Items"`
	}

	table, err := TableFromTags(reflect.TypeOf(dst{}), "bind")
	require.NoError(t, err)
	assert.Equal(t, []Binding{{Field: "Lines", Source: "Items"}}, table.Bindings)
}

func TestTableFromTagsMalformed(t *testing.T) {
	type dst struct {
		Lines []string `map:"Items,start=many"`
	}

	_, err := TableFromTags(reflect.TypeOf(dst{}), "")
	var tagErr *TagError
	require.True(t, errors.As(err, &tagErr))
	assert.Equal(t, "Lines", tagErr.Field)

	_, err = TableFromTags(reflect.TypeOf(1), "")
	assert.Error(t, err)
}

func TestTableValidate(t *testing.T) {
	type dst struct {
		A string
	}

	assert.NoError(t, Table{Type: reflect.TypeOf(dst{}), Bindings: []Binding{{Field: "A", Source: "X"}}}.Validate())
	assert.Error(t, Table{Type: reflect.TypeOf(dst{}), Bindings: []Binding{{Field: "B", Source: "X"}}}.Validate())
	assert.Error(t, Table{Type: reflect.TypeOf(dst{}), Bindings: []Binding{{Field: "A"}}}.Validate())
	assert.Error(t, Table{Type: reflect.TypeOf(dst{}), Ignore: []string{"Nope"}}.Validate())
	assert.Error(t, Table{Type: reflect.TypeOf("")}.Validate())
}
