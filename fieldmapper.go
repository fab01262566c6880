package fieldmapper // import "github.com/paultyng/go-fieldmapper"

import (
	"log/slog"
	"reflect"

	"github.com/pkg/errors"

	"github.com/paultyng/go-fieldmapper/mapper"
)

// ErrNilSource is returned by the single-source conversions when the source
// is nil.
var ErrNilSource = errors.New("source is nil")

// Mapper copies matching fields from source structs into target structs.
// It is safe for concurrent use on distinct targets.
type Mapper struct {
	engine *mapper.Engine
	codec  Codec
}

type settings struct {
	engine mapper.Options
	codec  Codec
}

type Option func(*settings)

// WithBestEffort makes failures skip the failing branch instead of aborting
// the fill. The fill then returns a *mapper.PartialFillError listing them.
func WithBestEffort() Option {
	return func(s *settings) { s.engine.BestEffort = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.engine.Logger = l }
}

func WithMaxDepth(n int) Option {
	return func(s *settings) { s.engine.MaxDepth = n }
}

func WithCacheSize(n int) Option {
	return func(s *settings) { s.engine.CacheSize = n }
}

func WithRegistry(r *mapper.Registry) Option {
	return func(s *settings) { s.engine.Registry = r }
}

func WithTagName(name string) Option {
	return func(s *settings) { s.engine.TagName = name }
}

func WithCodec(c Codec) Option {
	return func(s *settings) { s.codec = c }
}

func New(opts ...Option) (*Mapper, error) {
	s := &settings{}
	for _, o := range opts {
		o(s)
	}
	if s.codec == nil {
		s.codec = NewJSONCodec()
	}
	e, err := mapper.NewEngine(s.engine)
	if err != nil {
		return nil, err
	}
	return &Mapper{engine: e, codec: s.codec}, nil
}

// Engine exposes the underlying engine, for example to inspect resolved
// field pairs.
func (m *Mapper) Engine() *mapper.Engine {
	return m.engine
}

// Fill merges sources into target, a non-nil pointer to a struct. Sources
// are applied in order so later ones win on colliding fields. Nil sources
// are skipped.
func (m *Mapper) Fill(target any, sources ...any) error {
	return m.engine.Fill(target, sources...)
}

// Convert allocates a new targetType and fills it from sources. The result
// is a pointer to the target struct. In best-effort mode the partially
// filled result is returned together with the *mapper.PartialFillError.
func (m *Mapper) Convert(targetType reflect.Type, sources ...any) (any, error) {
	if targetType == nil {
		return nil, errors.New("target type is nil")
	}
	v, err := m.engine.New(targetType)
	if err != nil {
		return nil, err
	}
	return finish(v.Interface(), m.engine.Fill(v.Interface(), sources...))
}

// ConvertFrom converts a single source into a new targetType.
func (m *Mapper) ConvertFrom(source any, targetType reflect.Type) (any, error) {
	if isNil(source) {
		return nil, errors.WithStack(ErrNilSource)
	}
	return m.Convert(targetType, source)
}

// ConvertAs converts source into a new targetType, reading source through
// the fields of sourceType. source must be convertible to sourceType.
func (m *Mapper) ConvertAs(sourceType, targetType reflect.Type, source any) (any, error) {
	if isNil(source) {
		return nil, errors.WithStack(ErrNilSource)
	}
	if sourceType == nil || targetType == nil {
		return nil, errors.New("source and target types are required")
	}

	sv := reflect.Indirect(reflect.ValueOf(source))
	st := sourceType
	for st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, errors.Errorf("unexpected source type %v, expected struct", sourceType)
	}
	if !sv.Type().ConvertibleTo(st) {
		return nil, errors.WithStack(&mapper.TypeMismatchError{
			Source:      sv.Type(),
			Destination: st,
		})
	}

	v, err := m.engine.New(targetType)
	if err != nil {
		return nil, err
	}
	return finish(v.Interface(), m.engine.FillValue(v, sv.Convert(st)))
}

// ConvertJSON decodes data straight into a new targetType.
func (m *Mapper) ConvertJSON(data string, targetType reflect.Type) (any, error) {
	if targetType == nil {
		return nil, errors.New("target type is nil")
	}
	v, err := m.engine.New(targetType)
	if err != nil {
		return nil, err
	}
	if err := m.codec.Unmarshal([]byte(data), v.Interface()); err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// ConvertJSONAs decodes data into a new sourceType and converts that into a
// new targetType.
func (m *Mapper) ConvertJSONAs(data string, sourceType, targetType reflect.Type) (any, error) {
	src, err := m.ConvertJSON(data, sourceType)
	if err != nil {
		return nil, err
	}
	return m.ConvertAs(sourceType, targetType, src)
}

// ToJSON encodes v with the mapper's codec.
func (m *Mapper) ToJSON(v any) (string, error) {
	b, err := m.codec.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// To converts sources into a new T.
func To[T any](m *Mapper, sources ...any) (*T, error) {
	v, err := m.Convert(reflect.TypeOf((*T)(nil)).Elem(), sources...)
	if v == nil {
		return nil, err
	}
	return v.(*T), err
}

// FromJSON decodes data into a new T.
func FromJSON[T any](m *Mapper, data string) (*T, error) {
	v, err := m.ConvertJSON(data, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

// ToJSON encodes v with m's codec.
func ToJSON(m *Mapper, v any) (string, error) {
	return m.ToJSON(v)
}

// finish keeps the partially filled result of a best-effort fill.
func finish(result any, err error) (any, error) {
	if err == nil {
		return result, nil
	}
	var partial *mapper.PartialFillError
	if errors.As(err, &partial) {
		return result, err
	}
	return nil, err
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
