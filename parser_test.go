package main

import "testing"

func parseUnit(t *testing.T, src string) *Unit {
	t.Helper()
	p, err := NewParser("test.idl", src)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	u, err := p.ParseUnit()
	if err != nil {
		t.Fatalf("ParseUnit: %v", err)
	}
	return u
}

func TestParseMessageWithHeadAndTail(t *testing.T) {
	u := parseUnit(t, `
		message Ping 7 {
			head(16): uint32 seq;
			tail: tag(1) string note;
		}
	`)
	msgs := u.AllMessages()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	m := msgs[0]
	if m.Name != "Ping" || m.ID != 7 {
		t.Fatalf("got name=%q id=%d", m.Name, m.ID)
	}
	if m.Head == nil || m.Head.Size != 16 || len(m.Head.Members) != 1 {
		t.Fatalf("bad head: %+v", m.Head)
	}
	if m.Tail == nil || len(m.Tail.Members) != 1 {
		t.Fatalf("bad tail: %+v", m.Tail)
	}
	if !m.Tail.Members[0].HasTag() || m.Tail.Members[0].Tag != 1 {
		t.Fatalf("expected tail member to carry tag 1, got %+v", m.Tail.Members[0])
	}
}

func TestParseTagsBlockFlattensMembers(t *testing.T) {
	u := parseUnit(t, `
		message A 1 {
			head(16):
			tags {
				tag(1) uint32 x;
				tag(2) string y;
			}
		}
	`)
	head := u.AllMessages()[0].Head
	if len(head.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(head.Members))
	}
	if head.Members[0].Block != head.Members[1].Block {
		t.Fatalf("tags block members should share one Block id: %d != %d",
			head.Members[0].Block, head.Members[1].Block)
	}
	if head.Members[0].Block == 0 {
		t.Fatalf("Block id should be non-zero for a tags block member")
	}
}

func TestParseTagsBlockRejectsNesting(t *testing.T) {
	_, err := NewParser("test.idl", "")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	src := `message A 1 { head(16): tags { tags { uint32 x; } } }`
	p, err := NewParser("test.idl", src)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if _, err := p.ParseUnit(); err == nil {
		t.Fatalf("expected an error for nested tags blocks")
	}
}

func TestParseTagsBlockRejectsEmpty(t *testing.T) {
	p, err := NewParser("test.idl", `message A 1 { head(16): tags { } }`)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if _, err := p.ParseUnit(); err == nil {
		t.Fatalf("expected an error for an empty tags block")
	}
}

func TestParseStructWithTagsBlock(t *testing.T) {
	u := parseUnit(t, `
		struct Point {
			uint32 x;
			tags { tag(1) uint32 extra; }
		}
	`)
	structs := u.AllStructs()
	if len(structs) != 1 {
		t.Fatalf("got %d structs, want 1", len(structs))
	}
	if len(structs[0].Members) != 2 {
		t.Fatalf("got %d members, want 2", len(structs[0].Members))
	}
}

func TestParseEnumWithExplicitValues(t *testing.T) {
	u := parseUnit(t, `enum Color { Red = 1, Green = 2, Blue }`)
	enums := u.AllEnums()
	if len(enums) != 1 {
		t.Fatalf("got %d enums, want 1", len(enums))
	}
	e := enums[0]
	if len(e.Members) != 3 {
		t.Fatalf("got %d members, want 3", len(e.Members))
	}
	if !e.Members[0].HasValue || e.Members[0].Value != 1 {
		t.Fatalf("bad Red member: %+v", e.Members[0])
	}
	if e.Members[2].HasValue {
		t.Fatalf("Blue should have no explicit value")
	}
}

func TestParseConstsRequiresUnderlyingType(t *testing.T) {
	u := parseUnit(t, `consts Limits uint16 { Max = 100 }`)
	e := u.AllEnums()[0]
	if e.Mode != EnumModeConsts {
		t.Fatalf("got mode %v, want EnumModeConsts", e.Mode)
	}
	if e.UnderlyingExp != "uint16" {
		t.Fatalf("got underlying %q", e.UnderlyingExp)
	}
}

func TestParseNamespaceAppliesToFollowingDecls(t *testing.T) {
	u := parseUnit(t, `
		namespace "wire.example";
		struct A { uint32 x; }
	`)
	s := u.AllStructs()[0]
	if s.Namespace != "wire.example" {
		t.Fatalf("got namespace %q", s.Namespace)
	}
}

func TestParseUsingAlias(t *testing.T) {
	u := parseUnit(t, `using "a.idl" = "b.idl";`)
	if len(u.Declarations) != 1 {
		t.Fatalf("got %d declarations, want 1", len(u.Declarations))
	}
	alias, ok := u.Declarations[0].(*UsingAlias)
	if !ok {
		t.Fatalf("got %T, want *UsingAlias", u.Declarations[0])
	}
	if alias.From != "a.idl" || alias.To != "b.idl" {
		t.Fatalf("got %+v", alias)
	}
}

func TestParseGroupAssignsBackReference(t *testing.T) {
	u := parseUnit(t, `
		group {
			message A 1 { head(8): }
			message B 2 { head(8): }
		}
	`)
	msgs := u.AllMessages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	for _, m := range msgs {
		if m.Group == nil {
			t.Fatalf("message %q missing Group back-reference", m.Name)
		}
	}
}

func TestParseRejectsNegativeMessageID(t *testing.T) {
	p, err := NewParser("test.idl", `message A -1 { head(8): }`)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if _, err := p.ParseUnit(); err == nil {
		t.Fatalf("expected an error for a negative message id")
	}
}

func TestParseRejectsDuplicateHeadSection(t *testing.T) {
	p, err := NewParser("test.idl", `message A 1 { head(8): head(8): }`)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if _, err := p.ParseUnit(); err == nil {
		t.Fatalf("expected an error for a duplicate head section")
	}
}

func TestParseTypeExpressionArraySyntax(t *testing.T) {
	u := parseUnit(t, `struct A { uint8[4] buf; uint32[] dyn; }`)
	members := u.AllStructs()[0].Members
	if members[0].TypeExp != "uint8[4]" {
		t.Fatalf("got %q", members[0].TypeExp)
	}
	if members[1].TypeExp != "uint32[]" {
		t.Fatalf("got %q", members[1].TypeExp)
	}
}

func TestParseUnexpectedTopLevelToken(t *testing.T) {
	p, err := NewParser("test.idl", `42`)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if _, err := p.ParseUnit(); err == nil {
		t.Fatalf("expected an error for a stray integer at top level")
	}
}
