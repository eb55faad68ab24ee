package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

// CompileInputs parses and verifies every input file, merging their
// declarations into one Unit sharing one Registry (spec.md §5: "the type
// registry is owned by exactly one compilation unit"). It returns the
// first Diagnostic encountered, aborting the whole compilation of that
// input (spec.md §4.2/§7: "the first fatal error aborts the compilation").
func CompileInputs(paths []string) (*Unit, error) {
	reg := NewRegistry()
	unit := &Unit{}

	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		verbosef("parsing %s (%d bytes)", path, len(src))

		p, err := NewParser(path, string(src))
		if err != nil {
			return nil, err
		}
		fileUnit, err := p.ParseUnit()
		if err != nil {
			return nil, err
		}
		unit.Declarations = append(unit.Declarations, fileUnit.Declarations...)
		if fileUnit.Namespace != "" {
			unit.Namespace = fileUnit.Namespace
		}
	}

	v := NewVerifier(reg)
	if err := v.Verify(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func main() {
	app := NewApp()
	if err := app.Run(os.Args); err != nil {
		if ec, ok := err.(cli.ExitCoder); ok {
			fmt.Fprintln(os.Stderr, ec.Error())
			os.Exit(ec.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
