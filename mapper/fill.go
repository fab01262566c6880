package mapper

import (
	"log/slog"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

const (
	// DefaultMaxDepth bounds recursion when Options.MaxDepth is zero.
	DefaultMaxDepth = 256

	// DefaultCacheSize is the number of resolved type pairs kept when
	// Options.CacheSize is zero.
	DefaultCacheSize = 512
)

type Options struct {
	// Registry supplies binding tables and constructors. Defaults to
	// DefaultRegistry.
	Registry *Registry

	// TagName is the struct tag key bindings are read from. Defaults to
	// DefaultTagName.
	TagName string

	// BestEffort skips failing branches instead of aborting. Skipped
	// failures are logged and returned together as a *PartialFillError.
	BestEffort bool

	// MaxDepth bounds recursion. Zero means DefaultMaxDepth, negative
	// means unbounded.
	MaxDepth int

	// CacheSize is the number of resolved type pairs to cache. Zero means
	// DefaultCacheSize, negative disables the cache.
	CacheSize int

	Logger *slog.Logger
}

// Engine copies fields from source structs into target structs.
type Engine struct {
	registry   *Registry
	tagName    string
	bestEffort bool
	maxDepth   int
	logger     *slog.Logger

	configs *lru.Cache[configKey, MapConfiguration]
}

type configKey struct {
	src reflect.Type
	dst reflect.Type
	gen uint64
}

func NewEngine(opts Options) (*Engine, error) {
	e := &Engine{
		registry:   opts.Registry,
		tagName:    opts.TagName,
		bestEffort: opts.BestEffort,
		maxDepth:   opts.MaxDepth,
		logger:     opts.Logger,
	}
	if e.registry == nil {
		e.registry = DefaultRegistry
	}
	if e.tagName == "" {
		e.tagName = DefaultTagName
	}
	if e.maxDepth == 0 {
		e.maxDepth = DefaultMaxDepth
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[configKey, MapConfiguration](size)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create configuration cache")
		}
		e.configs = cache
	}
	return e, nil
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// Configuration returns the resolved field pairs for filling dst from src.
func (e *Engine) Configuration(src, dst reflect.Type) (MapConfiguration, error) {
	key := configKey{src: unwrapStruct(src), dst: unwrapStruct(dst), gen: e.registry.generation()}
	if e.configs != nil {
		if cfg, ok := e.configs.Get(key); ok {
			return cfg, nil
		}
	}

	m := NewStructMapper(src, dst)
	if m == nil {
		return MapConfiguration{}, errors.Errorf("unable to map %v to %v, expected structs", src, dst)
	}

	table, ok := e.registry.Table(dst)
	if !ok {
		var err error
		table, err = TableFromTags(dst, e.tagName)
		if err != nil {
			return MapConfiguration{}, errors.WithStack(err)
		}
	}
	cfg := m.WithTable(table).Map()

	if e.configs != nil {
		e.configs.Add(key, cfg)
	}
	return cfg, nil
}

// Fill merges every non-nil source into target, which must be a non-nil
// pointer to a struct. Later sources overwrite earlier ones.
func (e *Engine) Fill(target interface{}, sources ...interface{}) error {
	tv := reflect.ValueOf(target)
	if !tv.IsValid() || tv.Kind() != reflect.Ptr || tv.IsNil() || unwrapStruct(tv.Type()) == nil {
		return errors.Errorf("target must be a non-nil pointer to a struct, got %T", target)
	}

	vs := make([]reflect.Value, 0, len(sources))
	for _, s := range sources {
		if s == nil {
			continue
		}
		sv := reflect.ValueOf(s)
		if sv.Kind() == reflect.Ptr && sv.IsNil() {
			continue
		}
		if unwrapStruct(sv.Type()) == nil {
			return errors.Errorf("source must be a struct or a pointer to a struct, got %T", s)
		}
		vs = append(vs, sv)
	}
	return e.FillValue(tv, vs...)
}

// FillValue is Fill for values already in reflect form. target must be a
// pointer to a struct or an addressable struct.
func (e *Engine) FillValue(target reflect.Value, sources ...reflect.Value) error {
	f := &filler{e: e}
	for _, sv := range sources {
		if err := f.fillStruct(target, sv, 0); err != nil {
			return err
		}
	}
	return f.result()
}

// New allocates a *T for the struct type t.
func (e *Engine) New(t reflect.Type) (reflect.Value, error) {
	return e.instantiate(t)
}

// filler carries the state of one top-level fill.
type filler struct {
	e    *Engine
	errs []error
}

// report returns err in strict mode. In best-effort mode it logs and
// records err and returns nil so the caller skips the branch.
func (f *filler) report(err error) error {
	if err == nil {
		return nil
	}
	if !f.e.bestEffort {
		return err
	}
	f.e.logger.Warn("fill.skip", slog.String("err", err.Error()))
	f.errs = append(f.errs, err)
	return nil
}

// skip records an unsupported shape pair. The field is left untouched and
// the fill continues in either mode; the pair is reported when the fill
// finishes.
func (f *filler) skip(err error) error {
	if f.e.bestEffort {
		return f.report(err)
	}
	f.e.logger.Debug("fill.unsupported", slog.String("err", err.Error()))
	f.errs = append(f.errs, err)
	return nil
}

func (f *filler) result() error {
	if len(f.errs) == 0 {
		return nil
	}
	return errors.WithStack(&PartialFillError{Errors: f.errs})
}

func (f *filler) fillStruct(dst, src reflect.Value, depth int) error {
	src = indirect(src)
	if !src.IsValid() || src.Kind() != reflect.Struct {
		return nil
	}
	dst = indirect(dst)
	if !dst.IsValid() || dst.Kind() != reflect.Struct {
		return nil
	}
	if f.e.maxDepth > 0 && depth > f.e.maxDepth {
		return f.report(errors.WithStack(&DepthError{Depth: f.e.maxDepth}))
	}

	cfg, err := f.e.Configuration(src.Type(), dst.Type())
	if err != nil {
		return f.report(err)
	}

	f.e.logger.Debug("fill.struct",
		slog.String("source", src.Type().String()),
		slog.String("target", dst.Type().String()),
		slog.Int("depth", depth),
	)

	for _, p := range cfg.Pairs {
		if err := f.fillPair(dst, src, p, depth); err != nil {
			return err
		}
	}
	return nil
}

func (f *filler) fillPair(dst, src reflect.Value, p FieldPair, depth int) error {
	field := dst.Type().Name() + "." + p.Destination.Name()
	if !p.Destination.Exported() {
		return f.report(errors.WithStack(&AccessError{Type: dst.Type(), Field: p.Destination.Name()}))
	}

	dv := dst.Field(p.Destination.Index())
	if !dv.CanSet() {
		return f.report(errors.WithStack(&AccessError{Type: dst.Type(), Field: p.Destination.Name()}))
	}
	sv := src.Field(p.Source.Index())

	if p.Source.Shape() == Scalar {
		return f.assignScalar(dv, sv, field)
	}
	return f.deepFill(dv, sv, p, depth, field)
}

// assignScalar copies a scalar. Pointer scalars are copied into a fresh
// pointer, never aliased.
func (f *filler) assignScalar(dv, sv reflect.Value, field string) error {
	v, ok := scalarValue(sv, dv.Type())
	if !ok {
		return f.report(errors.WithStack(&TypeMismatchError{
			Field:       field,
			Source:      sv.Type(),
			Destination: dv.Type(),
		}))
	}
	if v.IsValid() {
		dv.Set(v)
	}
	return nil
}

// scalarValue converts sv to a value of type to. An invalid value with ok
// set means there is nothing to assign (a nil pointer into a non-pointer).
func scalarValue(sv reflect.Value, to reflect.Type) (reflect.Value, bool) {
	st := sv.Type()
	switch {
	case st.AssignableTo(to):
		if st.Kind() != reflect.Ptr {
			return sv, true
		}
		if sv.IsNil() {
			return reflect.Zero(to), true
		}
		cp := reflect.New(st.Elem())
		cp.Elem().Set(sv.Elem())
		return cp, true
	case to.Kind() == reflect.Ptr:
		inner, ok := scalarValue(sv, to.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		if !inner.IsValid() {
			return reflect.Zero(to), true
		}
		p := reflect.New(to.Elem())
		p.Elem().Set(inner)
		return p, true
	case st.Kind() == reflect.Ptr:
		if sv.IsNil() {
			return reflect.Value{}, st.Elem().AssignableTo(to)
		}
		return scalarValue(sv.Elem(), to)
	}
	return reflect.Value{}, false
}

func (f *filler) deepFill(dv, sv reflect.Value, p FieldPair, depth int, field string) error {
	// an absent source never clears an existing destination
	if isAbsent(sv) {
		return nil
	}

	srcShape, dstShape := p.Source.Shape(), p.Destination.Shape()
	unsupported := func() error {
		return f.skip(errors.WithStack(&UnsupportedShapeError{
			Field:       field,
			Source:      srcShape,
			Destination: dstShape,
		}))
	}

	if srcShape == Composite {
		if dstShape != Composite {
			return unsupported()
		}
		target, err := f.ensure(dv, sv, field)
		if err != nil {
			return f.report(err)
		}
		return f.fillStruct(target, sv, depth+1)
	}

	adapt, ok := lookupAdapter(srcShape, dstShape)
	if !ok {
		return unsupported()
	}

	if dstShape == Composite {
		return adapt(f, sv, dv, p.Start, depth, field)
	}

	target, err := f.ensure(dv, sv, field)
	if err != nil {
		return f.report(err)
	}
	// a container holds nothing beyond its elements, so adapting it
	// completes the descent
	return adapt(f, sv, target, p.Start, depth, field)
}
