// Command fieldmapper generates binding tables for the tagged structs of Go
// packages, so binding declarations are resolved at compile time:
//
//	//go:generate fieldmapper -tag map .
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joeshaw/envdecode"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"

	"github.com/paultyng/go-fieldmapper/generator"
)

// loadMode specifies what information to load from packages.
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedImports

// config defaults can be loaded via envdecode and overridden by flags.
type config struct {
	// Output file name, written into each package directory. ENV: FIELDMAPPER_GEN_OUTPUT
	Output string `env:"FIELDMAPPER_GEN_OUTPUT,default=fieldmapper_bindings.go"`
	// TagName of the binding tag. ENV: FIELDMAPPER_TAG
	TagName string `env:"FIELDMAPPER_TAG,default=map"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Args[1:], logger); err != nil {
		logger.Error("fieldmapper.failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(args []string, logger *slog.Logger) error {
	var cfg config
	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return errors.Wrap(err, "unable to decode environment")
	}

	fs := flag.NewFlagSet("fieldmapper", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: fieldmapper [-tag name] [-output file] [packages]\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Output, "output", cfg.Output, "name of the generated file in each package directory")
	fs.StringVar(&cfg.TagName, "tag", cfg.TagName, "struct tag key holding binding declarations")
	if err := fs.Parse(args); err != nil {
		return err
	}
	patterns := fs.Args()
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	pkgs, err := packages.Load(&packages.Config{Mode: loadMode}, patterns...)
	if err != nil {
		return errors.Wrap(err, "unable to load packages")
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return errors.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		if err := generate(pkg, cfg, logger); err != nil {
			return errors.Wrapf(err, "package %s", pkg.PkgPath)
		}
	}
	return nil
}

func generate(pkg *packages.Package, cfg config, logger *slog.Logger) error {
	if len(pkg.GoFiles) == 0 {
		return nil
	}

	g := generator.NewGenerator(pkg.Types, cfg.TagName, "Code generated by fieldmapper. DO NOT EDIT.")
	if err := g.GenerateBindings(); err != nil {
		return err
	}

	path := filepath.Join(filepath.Dir(pkg.GoFiles[0]), cfg.Output)
	if g.Count() == 0 {
		logger.Debug("fieldmapper.skip", slog.String("package", pkg.PkgPath))
		return nil
	}

	var buf bytes.Buffer
	if err := g.Render(&buf); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "unable to write %s", path)
	}
	logger.Info("fieldmapper.wrote",
		slog.String("package", pkg.PkgPath),
		slog.String("file", path),
		slog.Int("tables", g.Count()),
	)
	return nil
}
