package fieldmapper

import (
	"github.com/joeshaw/envdecode"
	"github.com/pkg/errors"
)

// Config for a Mapper. Defaults can be loaded via envdecode.
type Config struct {
	// BestEffort skips failing branches instead of aborting. ENV: FIELDMAPPER_BEST_EFFORT
	BestEffort bool `env:"FIELDMAPPER_BEST_EFFORT,default=false,strict"`
	// MaxDepth bounds recursion, negative for unbounded. ENV: FIELDMAPPER_MAX_DEPTH
	MaxDepth int `env:"FIELDMAPPER_MAX_DEPTH,default=256,strict"`
	// CacheSize of the resolved type pair cache, negative to disable. ENV: FIELDMAPPER_CACHE_SIZE
	CacheSize int `env:"FIELDMAPPER_CACHE_SIZE,default=512,strict"`
	// TagName is the struct tag key for bindings. ENV: FIELDMAPPER_TAG
	TagName string `env:"FIELDMAPPER_TAG,default=map"`
}

// ConfigFromEnv decodes a Config from the environment. Unset variables take
// their tag defaults.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return Config{}, errors.Wrap(err, "unable to decode environment")
	}
	return cfg, nil
}

// Options converts cfg into Mapper options.
func (cfg Config) Options() []Option {
	opts := []Option{
		WithMaxDepth(cfg.MaxDepth),
		WithCacheSize(cfg.CacheSize),
		WithTagName(cfg.TagName),
	}
	if cfg.BestEffort {
		opts = append(opts, WithBestEffort())
	}
	return opts
}

// NewFromEnv builds a Mapper using envdecode to populate Config. Explicit
// options are applied after the environment.
func NewFromEnv(opts ...Option) (*Mapper, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(append(cfg.Options(), opts...)...)
}
