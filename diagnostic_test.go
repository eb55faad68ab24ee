package main

import "testing"

func TestDiagnosticErrorWithoutExpected(t *testing.T) {
	d := &Diagnostic{File: "x.idl", Pos: Position{Line: 2, Column: 5}, Message: "boom"}
	want := "x.idl:2:5: boom"
	if got := d.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDiagnosticErrorWithExpected(t *testing.T) {
	d := &Diagnostic{
		File: "x.idl", Pos: Position{Line: 1, Column: 1},
		Message: "unexpected end of file", Expected: []string{"'{'", "'}'"},
	}
	want := "x.idl:1:1: unexpected end of file (expected '{', '}')"
	if got := d.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDiagnosticRenderShowsOffendingLine(t *testing.T) {
	src := "message A 1 {\n  bogus x;\n}\n"
	d := &Diagnostic{File: "x.idl", Pos: Position{Line: 2, Column: 3}, Message: "unknown type"}
	out := d.Render(src)
	if !contains(out, "bogus x;") {
		t.Fatalf("rendered output missing offending line:\n%s", out)
	}
	if !contains(out, "^") {
		t.Fatalf("rendered output missing caret:\n%s", out)
	}
}

func TestDiagnosticRenderOutOfRangeLineIsSafe(t *testing.T) {
	d := &Diagnostic{File: "x.idl", Pos: Position{Line: 99, Column: 1}, Message: "oops"}
	out := d.Render("one line only")
	if !contains(out, "oops") {
		t.Fatalf("expected the message to still be rendered:\n%s", out)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
