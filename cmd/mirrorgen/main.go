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

// Command mirrorgen writes type descriptors for structs annotated with
// //mirror:reflect.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"dirpx.dev/mirror/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Log every reflected type." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" default:"withargs" help:"Generate descriptor files."`
	Check   CheckCmd   `cmd:"" help:"Report descriptor files that are missing or out of date."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(out io.Writer) error {
	_, err := fmt.Fprintln(out, Version())
	return err
}

type GenCmd struct {
	Patterns []string `arg:"" optional:"" default:"." help:"Package patterns to load."`
	Dir      string   `help:"Directory patterns are resolved in." short:"C" type:"existingdir"`
	External bool     `help:"Register every type from init instead of declaring MirrorType."`
	Out      string   `help:"Output file name inside each package directory (default <package>_mirror.go)." short:"o"`
	DryRun   bool     `help:"Print generated sources instead of writing them." name:"dry-run" short:"n"`
}

func (c *GenCmd) Run(ctx context.Context, log *slog.Logger, out io.Writer) error {
	g := &gen.Generator{
		Dir:      c.Dir,
		External: c.External,
		Out:      c.Out,
		DryRun:   c.DryRun,
		Logger:   log,
	}
	outs, err := g.Run(ctx, c.Patterns...)
	if err != nil {
		return err
	}
	if c.DryRun {
		for _, o := range outs {
			if _, err := fmt.Fprintf(out, "// %s\n%s\n", o.Path, o.Src); err != nil {
				return err
			}
		}
	}
	if len(outs) == 0 {
		log.Warn("no annotated types found", slog.Any("patterns", c.Patterns))
	}
	return nil
}

type CheckCmd struct {
	Patterns []string `arg:"" optional:"" default:"." help:"Package patterns to load."`
	Dir      string   `help:"Directory patterns are resolved in." short:"C" type:"existingdir"`
	External bool     `help:"Check files generated with --external."`
	Out      string   `help:"Output file name inside each package directory (default <package>_mirror.go)." short:"o"`
}

func (c *CheckCmd) Run(ctx context.Context, log *slog.Logger, out io.Writer) error {
	g := &gen.Generator{
		Dir:      c.Dir,
		External: c.External,
		Out:      c.Out,
		DryRun:   true,
		Logger:   log,
	}
	outs, err := g.Run(ctx, c.Patterns...)
	if err != nil {
		return err
	}
	return report(out, outs)
}

// report prints the diff of every stale output and fails when there is one.
func report(out io.Writer, outs []gen.Output) error {
	del := color.New(color.FgRed).SprintFunc()
	add := color.New(color.FgGreen).SprintFunc()
	stale := 0
	for _, o := range outs {
		d, err := gen.Diff(o)
		if err != nil {
			return err
		}
		if d == "" {
			continue
		}
		stale++
		fmt.Fprintf(out, "%s\n", color.New(color.Bold).Sprint(o.Path))
		for _, line := range strings.SplitAfter(d, "\n") {
			switch {
			case strings.HasPrefix(line, "-"):
				fmt.Fprint(out, del(line))
			case strings.HasPrefix(line, "+"):
				fmt.Fprint(out, add(line))
			}
		}
	}
	if stale > 0 {
		return errors.Wrapf(gen.ErrStale, "%d of %d files", stale, len(outs))
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("mirrorgen"),
		kong.Description("Generate mirror type descriptors for annotated Go structs."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	log := newLogger(os.Stderr, cli.Verbose)
	err := kctx.Run(log)
	kctx.FatalIfErrorf(err)
}
