package generator

import (
	"go/types"
	"io"
	"reflect"

	"github.com/dave/jennifer/jen"
	"github.com/pkg/errors"

	"github.com/paultyng/go-fieldmapper/mapper"
)

const mapperPath = "github.com/paultyng/go-fieldmapper/mapper"

// Generator renders binding tables for the tagged structs of a package as an
// init func registering them with mapper.DefaultRegistry.
type Generator struct {
	file    *jen.File
	pkg     *types.Package
	tagName string

	tables []table
}

type table struct {
	name     string
	bindings []mapper.Binding
	ignore   []string
}

func NewGenerator(pkg *types.Package, tagName string, comments ...string) *Generator {
	if tagName == "" {
		tagName = mapper.DefaultTagName
	}
	g := &Generator{
		file:    jen.NewFilePathName(pkg.Path(), pkg.Name()),
		pkg:     pkg,
		tagName: tagName,
	}

	for _, c := range comments {
		g.file.HeaderComment(c)
	}

	return g
}

// Count is the number of tables generated so far.
func (g *Generator) Count() int {
	return len(g.tables)
}

func (g *Generator) Render(w io.Writer) error {
	if len(g.tables) > 0 {
		stmts := make([]jen.Code, 0, len(g.tables))
		for _, t := range g.tables {
			stmts = append(stmts, g.register(t))
		}
		g.file.Func().Id("init").Params().Block(stmts...)
	}
	return g.file.Render(w)
}

// GenerateBindings adds a table for every non-generic struct type in the
// package scope that declares at least one binding tag.
func (g *Generator) GenerateBindings() error {
	scope := g.pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		if err := g.GenerateTable(named); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// GenerateTable adds the table of a single named struct type. Types without
// binding tags are skipped.
func (g *Generator) GenerateTable(named *types.Named) error {
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	t := table{name: named.Obj().Name()}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		tag, has := reflect.StructTag(st.Tag(i)).Lookup(g.tagName)
		if !has {
			continue
		}
		spec, ok, err := mapper.ParseTag(tag)
		if err != nil {
			return errors.Wrapf(err, "invalid %s tag on %s.%s", g.tagName, t.name, f.Name())
		}
		if !ok {
			continue
		}
		if spec.Ignore {
			t.ignore = append(t.ignore, f.Name())
			continue
		}
		t.bindings = append(t.bindings, mapper.Binding{
			Field:  f.Name(),
			Source: spec.Source,
			Start:  spec.Start,
		})
	}

	if len(t.bindings) == 0 && len(t.ignore) == 0 {
		return nil
	}
	g.tables = append(g.tables, t)
	return nil
}

// register renders
//
//	mapper.DefaultRegistry.MustRegister(mapper.Table{...})
func (g *Generator) register(t table) jen.Code {
	values := jen.Dict{
		jen.Id("Type"): jen.Qual("reflect", "TypeOf").Call(
			jen.Parens(jen.Op("*").Qual(g.pkg.Path(), t.name)).Call(jen.Nil()),
		).Dot("Elem").Call(),
	}

	if len(t.bindings) > 0 {
		bindings := make([]jen.Code, 0, len(t.bindings))
		for _, b := range t.bindings {
			d := jen.Dict{
				jen.Id("Field"):  jen.Lit(b.Field),
				jen.Id("Source"): jen.Lit(b.Source),
			}
			if b.Start != 0 {
				d[jen.Id("Start")] = jen.Lit(b.Start)
			}
			bindings = append(bindings, jen.Values(d))
		}
		values[jen.Id("Bindings")] = jen.Index().Qual(mapperPath, "Binding").Values(bindings...)
	}

	if len(t.ignore) > 0 {
		ignore := make([]jen.Code, 0, len(t.ignore))
		for _, name := range t.ignore {
			ignore = append(ignore, jen.Lit(name))
		}
		values[jen.Id("Ignore")] = jen.Index().String().Values(ignore...)
	}

	return jen.Qual(mapperPath, "DefaultRegistry").Dot("MustRegister").Call(
		jen.Qual(mapperPath, "Table").Values(values),
	)
}
