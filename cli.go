package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"
)

// verboseMode gates extra diagnostic printing to stderr, matching the
// teacher's own package-level verbosity switch.
var verboseMode bool

func verbosef(format string, args ...interface{}) {
	if verboseMode {
		log.Printf(format, args...)
	}
}

// NewApp builds the urfave/cli application: one command accepting one or
// more input files and exactly one target-language subcommand (spec.md
// §6 "CLI surface").
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "wireforge"
	app.Usage = "compile a wire-format schema into generated source"
	app.Version = "0.1.0"
	app.ArgsUsage = "<input ...>"

	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "output, o", Usage: "output file path"},
		cli.BoolFlag{Name: "verbose, v", Usage: "print diagnostic trace to stderr"},
	}

	app.Before = func(c *cli.Context) error {
		verboseMode = c.GlobalBool("verbose")
		log.SetFlags(0)
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:      "cpp",
			Usage:     "emit C++ encode/decode routines",
			ArgsUsage: "<input ...>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "lib", Value: "stdc++", Usage: "container dialect: frigg|stdc++"},
				cli.BoolFlag{Name: "protobuf", Usage: "also emit a FileDescriptorProto companion"},
			},
			Action: func(c *cli.Context) error {
				return runCommand(c, "cpp", func(u *Unit) Backend {
					return &CppBackend{Lib: c.String("lib"), Protobuf: c.Bool("protobuf"), Namespace: u.Namespace}
				})
			},
		},
		{
			Name:      "rust",
			Usage:     "emit Rust encode/decode routines",
			ArgsUsage: "<input ...>",
			Action: func(c *cli.Context) error {
				return runCommand(c, "rust", func(*Unit) Backend { return &RustBackend{} })
			},
		},
		{
			Name:      "wireshark",
			Usage:     "emit a Wireshark Lua dissector",
			ArgsUsage: "<input ...>",
			Action: func(c *cli.Context) error {
				return runCommand(c, "wireshark", func(*Unit) Backend { return &WiresharkBackend{} })
			},
		},
	}

	return app
}

// runCommand runs the shared compile pipeline: parse + verify every input,
// merge into one Unit, run the chosen backend, and write one output file
// (spec.md §6: "Inputs are always read in full; output is written as one
// text file").
func runCommand(c *cli.Context, name string, chooseBackend func(*Unit) Backend) error {
	inputs := c.Args()
	if len(inputs) == 0 {
		return cli.NewExitError("wireforge: at least one input file is required", 1)
	}
	output := c.GlobalString("output")
	if output == "" {
		return cli.NewExitError("wireforge: -o/--output is required", 1)
	}

	// The protobuf sidecar needs a fully compiled Unit regardless, so a
	// cache hit would save nothing there; skip the cache entirely in that
	// case rather than caching a result that still needs full compilation.
	cacheable := !(name == "cpp" && c.Bool("protobuf"))
	cacheKey, cache := lookupCacheKey(c, name, inputs)
	if cacheable && cache != nil {
		if cached, ok := cache.Get(cacheKey); ok {
			verbosef("cache hit for %s backend, skipping parse and emit", name)
			if err := os.WriteFile(output, []byte(cached), 0o644); err != nil {
				return cli.NewExitError(fmt.Sprintf("wireforge: writing %s: %v", output, err), 1)
			}
			return nil
		}
	}

	unit, err := CompileInputs(inputs)
	if err != nil {
		reportFatal(err, inputs)
		return cli.NewExitError(err.Error(), 1)
	}

	backend := chooseBackend(unit)
	text, err := backend.Generate(unit)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("wireforge: %s: %v", backend.Name(), err), 1)
	}

	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return cli.NewExitError(fmt.Sprintf("wireforge: writing %s: %v", output, err), 1)
	}
	verbosef("wrote %s (%d bytes) via %s backend", output, len(text), backend.Name())

	if cacheable && cache != nil {
		if err := cache.Put(cacheKey, text); err != nil {
			verbosef("compile cache: %v", err)
		}
	}

	if cb, ok := backend.(*CppBackend); ok && cb.Protobuf {
		pkg := unit.Namespace
		if pkg == "" {
			pkg = "wireforge"
		}
		descBytes, err := GenerateProtobufDescriptor(unit, pkg)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("wireforge: protobuf descriptor: %v", err), 1)
		}
		descPath := output + ".desc.pb"
		if err := os.WriteFile(descPath, descBytes, 0o644); err != nil {
			return cli.NewExitError(fmt.Sprintf("wireforge: writing %s: %v", descPath, err), 1)
		}
		verbosef("wrote %s (%d bytes)", descPath, len(descBytes))
	}

	return nil
}

// lookupCacheKey opens the default compile cache and computes this
// invocation's cache key from the concatenated bytes of every input file
// plus the backend dialect (SPEC_FULL.md §11.1). Caching is best-effort: if
// the cache directory can't be opened or an input can't be read here, it
// returns a nil cache and runCommand falls back to the full pipeline, same
// as any other cache miss.
func lookupCacheKey(c *cli.Context, name string, inputs []string) (string, *CompileCache) {
	cache, err := NewCompileCache("")
	if err != nil {
		return "", nil
	}
	var combined []byte
	for _, in := range inputs {
		src, err := os.ReadFile(in)
		if err != nil {
			return "", nil
		}
		combined = append(combined, src...)
		combined = append(combined, 0)
	}
	dialect := name
	if dialect == "cpp" {
		dialect += ":" + c.String("lib")
	}
	return cache.Key(combined, dialect), cache
}

// reportFatal prints a Diagnostic's caret diagram against the offending
// input's source text, falling back to a bare error message for anything
// that isn't source-located.
func reportFatal(err error, inputs []string) {
	d, ok := err.(*Diagnostic)
	if !ok {
		fmt.Fprintf(os.Stderr, "wireforge: %v\n", err)
		return
	}
	for _, in := range inputs {
		if in != d.File {
			continue
		}
		if src, rerr := os.ReadFile(in); rerr == nil {
			fmt.Fprint(os.Stderr, d.Render(string(src)))
			return
		}
	}
	fmt.Fprintln(os.Stderr, d.Error())
}
