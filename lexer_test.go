package main

import "testing"

func TestLexerKeywordsAndIdents(t *testing.T) {
	lex := NewLexer(`message head tail Foo_Bar`)
	want := []TokenType{TokMessage, TokHead, TokTail, TokIdent, TokEOF}
	for i, w := range want {
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Type != w {
			t.Fatalf("token %d: got %v, want %v", i, tok.Type, w)
		}
	}
}

func TestLexerIntegers(t *testing.T) {
	lex := NewLexer(`42 -7 0`)
	for _, want := range []int64{42, -7, 0} {
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type != TokInt {
			t.Fatalf("got %v, want TokInt", tok.Type)
		}
		if tok.Int != want {
			t.Fatalf("got %d, want %d", tok.Int, want)
		}
	}
}

func TestLexerString(t *testing.T) {
	lex := NewLexer(`"hello\nworld"`)
	tok, err := lex.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != TokString {
		t.Fatalf("got %v, want TokString", tok.Type)
	}
	if tok.Text != "hello\nworld" {
		t.Fatalf("got %q", tok.Text)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	lex := NewLexer(`"oops`)
	if _, err := lex.Next(); err == nil {
		t.Fatalf("expected an error for an unterminated string")
	}
}

func TestLexerComments(t *testing.T) {
	lex := NewLexer("// a comment\nmessage /* block */ head")
	tok, err := lex.Next()
	if err != nil || tok.Type != TokMessage {
		t.Fatalf("got %v, %v; want TokMessage", tok, err)
	}
	tok, err = lex.Next()
	if err != nil || tok.Type != TokHead {
		t.Fatalf("got %v, %v; want TokHead", tok, err)
	}
}

func TestLexerPunctuation(t *testing.T) {
	lex := NewLexer(`{}()[];:,=`)
	want := []TokenType{TokLBrace, TokRBrace, TokLParen, TokRParen,
		TokLBracket, TokRBracket, TokSemicolon, TokColon, TokComma, TokEquals}
	for i, w := range want {
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Type != w {
			t.Fatalf("token %d: got %v, want %v", i, tok.Type, w)
		}
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	lex := NewLexer(`#`)
	if _, err := lex.Next(); err == nil {
		t.Fatalf("expected an error for '#'")
	}
}
