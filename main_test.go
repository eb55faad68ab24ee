package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCompileInputsMergesMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.idl", `struct Point { uint32 x; uint32 y; }`)
	b := writeTempFile(t, dir, "b.idl", `message Move 1 { head(16): Point p; }`)

	unit, err := CompileInputs([]string{a, b})
	if err != nil {
		t.Fatalf("CompileInputs: %v", err)
	}
	if len(unit.AllStructs()) != 1 {
		t.Fatalf("got %d structs, want 1", len(unit.AllStructs()))
	}
	if len(unit.AllMessages()) != 1 {
		t.Fatalf("got %d messages, want 1", len(unit.AllMessages()))
	}
}

func TestCompileInputsLatchesLastNonEmptyNamespace(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.idl", `namespace "first"; struct A { uint32 x; }`)
	b := writeTempFile(t, dir, "b.idl", `namespace "second"; struct B { uint32 x; }`)

	unit, err := CompileInputs([]string{a, b})
	if err != nil {
		t.Fatalf("CompileInputs: %v", err)
	}
	if unit.Namespace != "second" {
		t.Fatalf("got namespace %q, want %q", unit.Namespace, "second")
	}
}

func TestCompileInputsPropagatesVerifierError(t *testing.T) {
	dir := t.TempDir()
	a := writeTempFile(t, dir, "a.idl", `message A 1 { head(8): }`)
	b := writeTempFile(t, dir, "b.idl", `message B 1 { head(8): }`)

	if _, err := CompileInputs([]string{a, b}); err == nil {
		t.Fatalf("expected a duplicate message id error across merged files")
	}
}

func TestCompileInputsMissingFile(t *testing.T) {
	if _, err := CompileInputs([]string{filepath.Join(t.TempDir(), "missing.idl")}); err == nil {
		t.Fatalf("expected an error for a missing input file")
	}
}

func TestNewAppHasExpectedCommands(t *testing.T) {
	app := NewApp()
	names := map[string]bool{}
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, want := range []string{"cpp", "rust", "wireshark"} {
		if !names[want] {
			t.Fatalf("missing command %q", want)
		}
	}
}

func TestRunCommandRequiresOutputFlag(t *testing.T) {
	app := NewApp()
	dir := t.TempDir()
	input := writeTempFile(t, dir, "a.idl", `message A 1 { head(8): }`)
	if err := app.Run([]string{"wireforge", "rust", input}); err == nil {
		t.Fatalf("expected an error when -o/--output is missing")
	}
}

func TestRunCommandEndToEndRust(t *testing.T) {
	app := NewApp()
	dir := t.TempDir()
	input := writeTempFile(t, dir, "a.idl", `message Ping 1 { head(16): uint32 seq; }`)
	output := filepath.Join(dir, "out.rs")

	if err := app.Run([]string{"wireforge", "-o", output, "rust", input}); err != nil {
		t.Fatalf("app.Run: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty generated output")
	}
}

func TestRunCommandSameInputTwiceIsByteIdentical(t *testing.T) {
	// SPEC_FULL.md §11.1: the compile cache must be invisible to observable
	// output — a cache hit or miss produces the same bytes either way.
	app := NewApp()
	dir := t.TempDir()
	input := writeTempFile(t, dir, "a.idl", `message Ping 1 { head(16): uint32 seq; }`)
	out1 := filepath.Join(dir, "out1.rs")
	out2 := filepath.Join(dir, "out2.rs")

	if err := app.Run([]string{"wireforge", "-o", out1, "rust", input}); err != nil {
		t.Fatalf("app.Run (first): %v", err)
	}
	if err := app.Run([]string{"wireforge", "-o", out2, "rust", input}); err != nil {
		t.Fatalf("app.Run (second): %v", err)
	}
	first, err := os.ReadFile(out1)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	second, err := os.ReadFile(out2)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("outputs diverged between a miss and a possible cache hit:\n%s\n---\n%s", first, second)
	}
}
