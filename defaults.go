package fieldmapper

import (
	"log/slog"
	"reflect"
	"sync"
)

var (
	defaultOnce   sync.Once
	defaultMapper *Mapper
)

// Default returns the package-level Mapper used by the top-level functions.
// It is configured from the environment on first use.
func Default() *Mapper {
	defaultOnce.Do(func() {
		defaultMapper = fromEnvOrDefault(slog.Default())
	})
	return defaultMapper
}

// fromEnvOrDefault configures a Mapper from the environment, logging and
// falling back to the defaults when the environment is malformed.
func fromEnvOrDefault(logger *slog.Logger) *Mapper {
	m, err := NewFromEnv()
	if err == nil {
		return m
	}
	logger.Warn("default.env", slog.String("err", err.Error()))
	m, err = New()
	if err != nil {
		panic(err)
	}
	return m
}

func Fill(target any, sources ...any) error {
	return Default().Fill(target, sources...)
}

func Convert(targetType reflect.Type, sources ...any) (any, error) {
	return Default().Convert(targetType, sources...)
}

func ConvertFrom(source any, targetType reflect.Type) (any, error) {
	return Default().ConvertFrom(source, targetType)
}

func ConvertAs(sourceType, targetType reflect.Type, source any) (any, error) {
	return Default().ConvertAs(sourceType, targetType, source)
}

func ConvertJSON(data string, targetType reflect.Type) (any, error) {
	return Default().ConvertJSON(data, targetType)
}

func ConvertJSONAs(data string, sourceType, targetType reflect.Type) (any, error) {
	return Default().ConvertJSONAs(data, sourceType, targetType)
}
