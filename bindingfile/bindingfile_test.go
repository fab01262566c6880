package bindingfile

import (
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paultyng/go-fieldmapper/mapper"
)

type Line struct {
	SKU string
}

type Order struct {
	ID    string
	Lines []Line
	Meta  map[string]string
}

type Invoice struct {
	ID       string
	Internal string
	Items    []Line
	Labels   map[string]string
}

type Summary struct {
	First *Line
}

func TestLoadFile(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "invoice.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Tables, 2)
	assert.Equal(t, TableSpec{
		Type: "Invoice",
		Bindings: []BindingSpec{
			{Field: "Items", Source: "Lines", Start: 1},
			{Field: "Labels", Source: "Meta"},
		},
		Ignore: []string{"Internal"},
	}, f.Tables[0])

	_, err = LoadFile(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("tables: [\n"))
	assert.Error(t, err)

	_, err = Parse([]byte(`version: "2"`))
	assert.Error(t, err)
}

func TestTables(t *testing.T) {
	f, err := Parse([]byte(`
tables:
  - type: Invoice
    bindings:
      - field: Nope
        source: Lines
`))
	require.NoError(t, err)

	_, err = f.Tables(TypesOf(Invoice{}))
	assert.Error(t, err)

	_, err = f.Tables(Types{})
	assert.Error(t, err)
}

func TestRegisterAndFill(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "invoice.yaml"))
	require.NoError(t, err)

	reg := mapper.NewRegistry()
	require.NoError(t, f.Register(reg, TypesOf(&Invoice{}, Summary{})))

	table, ok := reg.Table(reflect.TypeOf(Invoice{}))
	require.True(t, ok)
	assert.Equal(t, []string{"Internal"}, table.Ignore)

	e, err := mapper.NewEngine(mapper.Options{
		Registry: reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	src := Order{ID: "o-1", Lines: []Line{{"a"}, {"b"}}, Meta: map[string]string{"k": "v"}}
	var inv Invoice
	require.NoError(t, e.Fill(&inv, src))
	assert.Equal(t, Invoice{ID: "o-1", Items: []Line{{"b"}}, Labels: map[string]string{"k": "v"}}, inv)

	var sum Summary
	require.NoError(t, e.Fill(&sum, src))
	assert.Equal(t, &Line{"a"}, sum.First)
}

func TestWriteFileRoundTrip(t *testing.T) {
	tables := []mapper.Table{
		{
			Type:     reflect.TypeOf(Summary{}),
			Bindings: []mapper.Binding{{Field: "First", Source: "Lines"}},
		},
		{
			Type:     reflect.TypeOf(Invoice{}),
			Bindings: []mapper.Binding{{Field: "Items", Source: "Lines", Start: 1}},
			Ignore:   []string{"Internal"},
			Prefixes: []string{"Get"},
		},
	}

	path := filepath.Join(t.TempDir(), "bindings.yaml")
	require.NoError(t, WriteFile(FromTables(tables...), path))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Invoice", f.Tables[0].Type)

	got, err := f.Tables(TypesOf(Invoice{}, Summary{}))
	require.NoError(t, err)
	assert.Equal(t, []mapper.Table{tables[1], tables[0]}, got)
}
