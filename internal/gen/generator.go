/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package gen

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/packages"
)

// ErrLoad is returned when packages cannot be loaded or type-checked.
var ErrLoad = errors.New("mirror(gen): load packages")

// Generator loads packages and writes their descriptor files.
type Generator struct {
	// Dir is the working directory patterns are resolved in.
	Dir string
	// External registers every type instead of making it intrusive.
	External bool
	// Out overrides the output file name (relative to each package directory).
	Out string
	// DryRun renders without writing.
	DryRun bool
	// Logger receives progress; nil means slog.Default().
	Logger *slog.Logger
}

// Output is one rendered file.
type Output struct {
	Path string
	Src  []byte
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// Run generates the descriptor files of the packages matching patterns.
// Packages without annotated types produce no file.
func (g *Generator) Run(ctx context.Context, patterns ...string) ([]Output, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	log := g.logger()

	overlay, err := g.maskGenerated(ctx, patterns)
	if err != nil {
		return nil, err
	}
	cfg := &packages.Config{
		Context: ctx,
		Overlay: overlay,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo,
		Dir: g.Dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(ErrLoad, err.Error())
	}
	if len(pkgs) == 0 {
		return nil, errors.Wrapf(ErrLoad, "no packages match %q", patterns)
	}

	var outs []Output
	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			return nil, errors.Wrapf(ErrLoad, "%s: %v", p.PkgPath, p.Errors[0])
		}
		if len(p.GoFiles) == 0 {
			continue
		}
		model, err := Collect(p.Fset, p.Syntax, p.Types, g.External)
		if err != nil {
			return nil, err
		}
		if len(model.Types) == 0 {
			log.DebugContext(ctx, "no annotated types", slog.String("package", p.PkgPath))
			continue
		}
		model.Dir = filepath.Dir(p.GoFiles[0])

		path := filepath.Join(model.Dir, g.fileName(model.Name))
		src, err := Render(model, path)
		if err != nil {
			return nil, err
		}
		for _, t := range model.Types {
			log.DebugContext(ctx, "reflected type",
				slog.String("package", p.PkgPath),
				slog.String("type", t.GoName),
				slog.Int("fields", len(t.Fields)),
				slog.Int("methods", len(t.Methods)),
				slog.Bool("external", t.External),
			)
		}

		if !g.DryRun {
			if err := os.WriteFile(path, src, 0o644); err != nil {
				return nil, errors.Wrapf(err, "mirror(gen): write %s", path)
			}
			log.InfoContext(ctx, "wrote descriptors",
				slog.String("file", path),
				slog.Int("types", len(model.Types)),
			)
		}
		outs = append(outs, Output{Path: path, Src: src})
	}
	return outs, nil
}

func (g *Generator) fileName(pkgName string) string {
	if g.Out != "" {
		return g.Out
	}
	return FileName(&Package{Name: pkgName})
}

// maskGenerated returns an overlay that replaces every file previously
// written by the generator with an empty file of the same package. A stale
// descriptor file would otherwise fail to type-check against the edited
// types it describes, and keep them from being regenerated.
func (g *Generator) maskGenerated(ctx context.Context, patterns []string) (map[string][]byte, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
		Dir:     g.Dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(ErrLoad, err.Error())
	}
	overlay := map[string][]byte{}
	for _, p := range pkgs {
		for _, f := range p.GoFiles {
			src, err := os.ReadFile(f)
			if err != nil {
				return nil, errors.Wrapf(err, "mirror(gen): read %s", f)
			}
			if !bytes.HasPrefix(src, []byte(generatedHeader)) {
				continue
			}
			g.logger().DebugContext(ctx, "masking generated file", slog.String("file", f))
			overlay[f] = []byte("package " + p.Name + "\n")
		}
	}
	return overlay, nil
}
