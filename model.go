package main

import (
	"fmt"
	"strings"
)

// Declaration is the common interface for every top-level construct a
// compilation unit can contain: messages, structs, enums, namespace tags,
// using-aliases, and groups.
type Declaration interface {
	declarationNode()
	// Pos returns the source position the declaration starts at, used for
	// diagnostics.
	Pos() Position
}

// Position is a line/column pair, 1-based, matching how text editors and
// the reference compiler report source locations.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Unit is a single parsed and (after verification) resolved compilation
// unit: the declarations of one or more separately parsed input files,
// appended in input order by the driver (spec.md §6: "Inputs are always read in full").
type Unit struct {
	Declarations []Declaration
	Namespace    string // latched by the most recent NamespaceDecl, "" if none
}

// Message is a wire message: a 32-bit id, an optional head, an optional tail.
type Message struct {
	Pos_     Position
	Name     string
	ID       uint32
	Head     *HeadSection // nil if absent
	Tail     *TailSection // nil if absent
	Group    *Group       // nil if declared at top level
	Namespace string
}

func (m *Message) declarationNode()  {}
func (m *Message) Pos() Position     { return m.Pos_ }
func (m *Message) String() string {
	return fmt.Sprintf("message %s %d", m.Name, m.ID)
}

// HeadSection is the message's fixed-size region. Size is the user-declared
// byte budget for the entire region, including the implicit 8-byte id/
// tail-size prefix (spec.md §4.3).
type HeadSection struct {
	Pos_    Position
	Size    int
	Members []*Member
}

func (h *HeadSection) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "head(%d):", h.Size)
	for _, m := range h.Members {
		fmt.Fprintf(&b, " %s;", m.String())
	}
	return b.String()
}

// TailSection is the message's variable-length region. Every member of a
// tail must be declared inside an explicit `tags { }` block; the verifier
// rejects any tail member outside one, tagged or not.
type TailSection struct {
	Pos_    Position
	Members []*Member
}

func (t *TailSection) String() string {
	var b strings.Builder
	b.WriteString("tail:")
	for _, m := range t.Members {
		fmt.Fprintf(&b, " %s;", m.String())
	}
	return b.String()
}

// Member is one field of a Head, Tail, or Struct: a name, a resolved Type,
// and an optional tag (present iff it sits inside a TagsBlock).
type Member struct {
	Pos_    Position
	Name    string
	TypeExp string // surface type expression, e.g. "uint32[]"
	Type    Type   // resolved during verification; zero value until then
	Tag     int    // 0 means "no tag"
	InTags  bool   // true if declared inside a `tags { }` block
	Block   int    // 1-based id of the enclosing tags{} block, unique within one parsed file; 0 if none
}

func (m *Member) String() string {
	if m.Tag != 0 {
		return fmt.Sprintf("tag(%d) %s %s", m.Tag, m.TypeExp, m.Name)
	}
	return fmt.Sprintf("%s %s", m.TypeExp, m.Name)
}

// HasTag reports whether this member carries a non-zero tag.
func (m *Member) HasTag() bool { return m.Tag != 0 }

// Struct is a named composite whose body is always treated as dynamic-size
// content (spec.md §3: "Struct: ... always treated as dynamic-size").
type Struct struct {
	Pos_      Position
	Name      string
	Members   []*Member
	Namespace string
}

func (s *Struct) declarationNode() {}
func (s *Struct) Pos() Position    { return s.Pos_ }
func (s *Struct) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {", s.Name)
	for _, m := range s.Members {
		fmt.Fprintf(&b, " %s;", m.String())
	}
	b.WriteString(" }")
	return b.String()
}

// EnumMode distinguishes a plain enum (a closed symbol set) from a consts
// block (a named bag of constants that behaves like its underlying integer
// type wherever a type is expected; spec.md §3).
type EnumMode int

const (
	EnumModeEnum EnumMode = iota
	EnumModeConsts
)

func (m EnumMode) String() string {
	if m == EnumModeConsts {
		return "consts"
	}
	return "enum"
}

// EnumMember is one symbol of an Enum/Consts declaration. HasValue is false
// when the surface syntax omitted an explicit `= N` and the value was
// auto-assigned during verification (spec.md §9 supplement: auto-assigned
// values must be non-decreasing, mirroring the reference compiler).
type EnumMember struct {
	Pos_     Position
	Name     string
	Value    int64
	HasValue bool
}

// Enum is a named symbol-set (mode=enum) or constant bag (mode=consts)
// whose underlying type must be an Integer (spec.md §3 invariant 7).
type Enum struct {
	Pos_         Position
	Name         string
	Mode         EnumMode
	UnderlyingExp string // surface type expression for the underlying type, "" means default int32
	Underlying   Type    // resolved during verification
	Members      []*EnumMember
	Namespace    string
}

func (e *Enum) declarationNode() {}
func (e *Enum) Pos() Position    { return e.Pos_ }
func (e *Enum) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s {", e.Mode, e.Name)
	for i, m := range e.Members {
		if i > 0 {
			b.WriteString(",")
		}
		if m.HasValue {
			fmt.Fprintf(&b, " %s = %d", m.Name, m.Value)
		} else {
			fmt.Fprintf(&b, " %s", m.Name)
		}
	}
	b.WriteString(" }")
	return b.String()
}

// NamespaceDecl latches a namespace for every subsequent declaration in the
// compilation unit, per spec.md §3 ("process-wide latching").
type NamespaceDecl struct {
	Pos_ Position
	Path string
}

func (n *NamespaceDecl) declarationNode() {}
func (n *NamespaceDecl) Pos() Position    { return n.Pos_ }
func (n *NamespaceDecl) String() string   { return fmt.Sprintf("namespace %q;", n.Path) }

// UsingAlias renames one fully-qualified output name to another.
type UsingAlias struct {
	Pos_  Position
	From  string
	To    string
}

func (u *UsingAlias) declarationNode() {}
func (u *UsingAlias) Pos() Position    { return u.Pos_ }
func (u *UsingAlias) String() string   { return fmt.Sprintf("using %q = %q;", u.From, u.To) }

// Group scopes message-id uniqueness to its own members (spec.md §3, global
// invariant 2).
type Group struct {
	Pos_     Position
	Messages []*Message
}

func (g *Group) declarationNode() {}
func (g *Group) Pos() Position    { return g.Pos_ }
func (g *Group) String() string {
	var b strings.Builder
	b.WriteString("group {")
	for _, m := range g.Messages {
		fmt.Fprintf(&b, " %s;", m.String())
	}
	b.WriteString(" }")
	return b.String()
}

// AllMessages walks the unit and returns every message, both top-level and
// nested inside groups, in declaration order. Used by the verifier for
// cross-message id-uniqueness checks and by the driver to enumerate
// emission targets.
func (u *Unit) AllMessages() []*Message {
	var out []*Message
	for _, d := range u.Declarations {
		switch v := d.(type) {
		case *Message:
			out = append(out, v)
		case *Group:
			out = append(out, v.Messages...)
		}
	}
	return out
}

// AllStructs returns every struct declared at top level, in declaration order.
func (u *Unit) AllStructs() []*Struct {
	var out []*Struct
	for _, d := range u.Declarations {
		if s, ok := d.(*Struct); ok {
			out = append(out, s)
		}
	}
	return out
}

// AllEnums returns every enum/consts declared at top level, in declaration order.
func (u *Unit) AllEnums() []*Enum {
	var out []*Enum
	for _, d := range u.Declarations {
		if e, ok := d.(*Enum); ok {
			out = append(out, e)
		}
	}
	return out
}

// TagsBlockMembers returns, in order, the members of the given slice that
// were declared inside a `tags {}` block. HeadSection/TailSection members
// may be a plain run of fixed members, a single nested `tags {}` block, or
// (per the grammar in spec.md §6) a mix at the top level is disallowed by
// the verifier — a member is either untagged (fixed or ordinary dynamic) or
// tagged (must have come from a tags{} block).
func TagsBlockMembers(members []*Member) []*Member {
	var out []*Member
	for _, m := range members {
		if m.InTags {
			out = append(out, m)
		}
	}
	return out
}
