package main

import (
	"fmt"
)

// Parser turns a token stream into a Unit of Declarations (component C),
// following the grammar of spec.md §6. It performs no type resolution or
// semantic checking — that is the Verifier's job (component D); the parser
// only builds the source model (component A).
type Parser struct {
	lex       *Lexer
	file      string
	tok       Token
	namespace string
	nextBlock int // counter handing out unique TagsBlock ids across the whole unit
}

// NewParser creates a Parser for the given file name (used in diagnostics)
// and source text.
func NewParser(file, src string) (*Parser, error) {
	p := &Parser{lex: NewLexer(src), file: file}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) next() error {
	tok, err := p.lex.Next()
	if err != nil {
		if d, ok := err.(*Diagnostic); ok {
			d.File = p.file
		}
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &Diagnostic{File: p.file, Pos: p.tok.Pos, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) unexpected(expected ...string) error {
	return &Diagnostic{
		File: p.file, Pos: p.tok.Pos,
		Message:  fmt.Sprintf("unexpected %s", describeToken(p.tok)),
		Expected: expected,
	}
}

func describeToken(t Token) string {
	switch t.Type {
	case TokIdent:
		return fmt.Sprintf("name %q", t.Text)
	case TokInt:
		return fmt.Sprintf("number %d", t.Int)
	case TokString:
		return fmt.Sprintf("string %q", t.Text)
	case TokEOF:
		return "end of file"
	default:
		return t.Type.String()
	}
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	if p.tok.Type != tt {
		return Token{}, p.unexpected(tt.String())
	}
	t := p.tok
	if err := p.next(); err != nil {
		return Token{}, err
	}
	return t, nil
}

// ParseUnit parses the whole token stream into a Unit. Stops at the first
// fatal error, per spec.md §7 ("the first fatal error aborts the
// compilation of that input").
func (p *Parser) ParseUnit() (*Unit, error) {
	u := &Unit{}
	for p.tok.Type != TokEOF {
		decl, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		if decl != nil {
			u.Declarations = append(u.Declarations, decl)
		}
	}
	u.Namespace = p.namespace
	return u, nil
}

func (p *Parser) parseTopLevel() (Declaration, error) {
	switch p.tok.Type {
	case TokMessage:
		return p.parseMessage()
	case TokStruct:
		return p.parseStruct()
	case TokEnum:
		return p.parseEnum(EnumModeEnum)
	case TokConsts:
		return p.parseEnum(EnumModeConsts)
	case TokNamespace:
		return p.parseNamespace()
	case TokUsing:
		return p.parseUsing()
	case TokGroup:
		return p.parseGroup()
	default:
		return nil, p.unexpected("\"message\"", "\"struct\"", "\"enum\"", "\"consts\"",
			"\"namespace\"", "\"using\"", "\"group\"")
	}
}

func (p *Parser) parseNamespace() (Declaration, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokNamespace); err != nil {
		return nil, err
	}
	str, err := p.expect(TokString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	p.namespace = str.Text
	return &NamespaceDecl{Pos_: pos, Path: str.Text}, nil
}

func (p *Parser) parseUsing() (Declaration, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokUsing); err != nil {
		return nil, err
	}
	from, err := p.expect(TokString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokEquals); err != nil {
		return nil, err
	}
	to, err := p.expect(TokString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	return &UsingAlias{Pos_: pos, From: from.Text, To: to.Text}, nil
}

func (p *Parser) parseGroup() (Declaration, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokGroup); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	g := &Group{Pos_: pos}
	for p.tok.Type != TokRBrace {
		if p.tok.Type != TokMessage {
			return nil, p.unexpected("\"message\"", "'}'")
		}
		decl, err := p.parseMessage()
		if err != nil {
			return nil, err
		}
		msg := decl.(*Message)
		msg.Group = g
		g.Messages = append(g.Messages, msg)
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *Parser) parseMessage() (Declaration, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokMessage); err != nil {
		return nil, err
	}
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	idTok, err := p.expect(TokInt)
	if err != nil {
		return nil, err
	}
	if idTok.Int < 0 {
		return nil, &Diagnostic{File: p.file, Pos: idTok.Pos, Message: "message id must be non-negative"}
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}

	msg := &Message{Pos_: pos, Name: name.Text, ID: uint32(idTok.Int), Namespace: p.namespace}
	for p.tok.Type == TokHead || p.tok.Type == TokTail {
		if p.tok.Type == TokHead {
			if msg.Head != nil {
				return nil, p.errorf("message %q already has a head section", msg.Name)
			}
			head, err := p.parseHead()
			if err != nil {
				return nil, err
			}
			msg.Head = head
		} else {
			if msg.Tail != nil {
				return nil, p.errorf("message %q already has a tail section", msg.Name)
			}
			tail, err := p.parseTail()
			if err != nil {
				return nil, err
			}
			msg.Tail = tail
		}
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return msg, nil
}

func (p *Parser) parseHead() (*HeadSection, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokHead); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	size, err := p.expect(TokInt)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	h := &HeadSection{Pos_: pos, Size: int(size.Int)}
	for p.tok.Type == TokTag || p.tok.Type == TokIdent || p.tok.Type == TokTags {
		members, err := p.parseMemberOrTagsBlock()
		if err != nil {
			return nil, err
		}
		h.Members = append(h.Members, members...)
	}
	return h, nil
}

func (p *Parser) parseTail() (*TailSection, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokTail); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokColon); err != nil {
		return nil, err
	}
	t := &TailSection{Pos_: pos}
	for p.tok.Type == TokTag || p.tok.Type == TokIdent || p.tok.Type == TokTags {
		members, err := p.parseMemberOrTagsBlock()
		if err != nil {
			return nil, err
		}
		t.Members = append(t.Members, members...)
	}
	return t, nil
}

// parseMemberOrTagsBlock parses either one plain/tagged member or a whole
// `tags { member+ }` block, returning the resulting Members (more than one
// for a tags block). Per spec.md §3 invariant 3, tags blocks do not nest;
// the grammar enforces this structurally since a tags block's body only
// accepts plain members, not another `tags` keyword.
func (p *Parser) parseMemberOrTagsBlock() ([]*Member, error) {
	if p.tok.Type == TokTags {
		if _, err := p.expect(TokTags); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokLBrace); err != nil {
			return nil, err
		}
		p.nextBlock++
		block := p.nextBlock
		var members []*Member
		for p.tok.Type != TokRBrace {
			if p.tok.Type == TokTags {
				return nil, p.errorf("tags blocks cannot be nested")
			}
			m, err := p.parseMember(true)
			if err != nil {
				return nil, err
			}
			m.Block = block
			members = append(members, m)
		}
		if _, err := p.expect(TokRBrace); err != nil {
			return nil, err
		}
		if len(members) == 0 {
			return nil, p.errorf("tags block must declare at least one member")
		}
		return members, nil
	}

	m, err := p.parseMember(false)
	if err != nil {
		return nil, err
	}
	return []*Member{m}, nil
}

func (p *Parser) parseMember(inTags bool) (*Member, error) {
	pos := p.tok.Pos
	tag := 0
	if p.tok.Type == TokTag {
		if _, err := p.expect(TokTag); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokLParen); err != nil {
			return nil, err
		}
		tagTok, err := p.expect(TokInt)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		tag = int(tagTok.Int)
	}

	typeExpr, err := p.parseTypeExpression()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokSemicolon); err != nil {
		return nil, err
	}
	return &Member{Pos_: pos, Name: name.Text, TypeExp: typeExpr, Tag: tag, InTags: inTags}, nil
}

// parseTypeExpression consumes `NAME ("[" INT? "]")*` and returns its raw
// surface text, e.g. "uint32[4]" or "string[]".
func (p *Parser) parseTypeExpression() (string, error) {
	name, err := p.expect(TokIdent)
	if err != nil {
		return "", err
	}
	text := name.Text
	for p.tok.Type == TokLBracket {
		if _, err := p.expect(TokLBracket); err != nil {
			return "", err
		}
		if p.tok.Type == TokInt {
			n := p.tok.Int
			if _, err := p.expect(TokInt); err != nil {
				return "", err
			}
			text += fmt.Sprintf("[%d]", n)
		} else {
			text += "[]"
		}
		if _, err := p.expect(TokRBracket); err != nil {
			return "", err
		}
	}
	return text, nil
}

func (p *Parser) parseStruct() (Declaration, error) {
	pos := p.tok.Pos
	if _, err := p.expect(TokStruct); err != nil {
		return nil, err
	}
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	s := &Struct{Pos_: pos, Name: name.Text, Namespace: p.namespace}
	for p.tok.Type == TokTag || p.tok.Type == TokIdent || p.tok.Type == TokTags {
		members, err := p.parseMemberOrTagsBlock()
		if err != nil {
			return nil, err
		}
		s.Members = append(s.Members, members...)
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseEnum(mode EnumMode) (Declaration, error) {
	pos := p.tok.Pos
	if mode == EnumModeConsts {
		if _, err := p.expect(TokConsts); err != nil {
			return nil, err
		}
	} else {
		if _, err := p.expect(TokEnum); err != nil {
			return nil, err
		}
	}
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	e := &Enum{Pos_: pos, Name: name.Text, Mode: mode, Namespace: p.namespace}
	if mode == EnumModeConsts {
		underlying, err := p.parseTypeExpression()
		if err != nil {
			return nil, err
		}
		e.UnderlyingExp = underlying
	}
	if _, err := p.expect(TokLBrace); err != nil {
		return nil, err
	}
	for {
		m, err := p.parseEnumMember()
		if err != nil {
			return nil, err
		}
		e.Members = append(e.Members, m)
		if p.tok.Type == TokComma {
			if _, err := p.expect(TokComma); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(TokRBrace); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) parseEnumMember() (*EnumMember, error) {
	pos := p.tok.Pos
	name, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	m := &EnumMember{Pos_: pos, Name: name.Text}
	if p.tok.Type == TokEquals {
		if _, err := p.expect(TokEquals); err != nil {
			return nil, err
		}
		vTok, err := p.expect(TokInt)
		if err != nil {
			return nil, err
		}
		m.Value = vTok.Int
		m.HasValue = true
	}
	return m, nil
}
