package main

import "fmt"

// Verifier walks a parsed Unit and enforces the invariants of the data
// model (component D). It resolves every member's surface type expression
// to a canonical Type along the way, using and populating the shared
// Registry (component B). The first invariant violation aborts verification
// and is returned as a *Diagnostic, matching the reference compiler's
// fail-fast behavior (spec.md §4.2).
type Verifier struct {
	reg *Registry
	// names is the growing top-level name set, seeded with reserved names
	// (spec.md §4.2: "Name-uniqueness checks maintain a growing set
	// initialized with reserved names").
	names map[string]Position
}

// NewVerifier creates a Verifier backed by reg.
func NewVerifier(reg *Registry) *Verifier {
	return &Verifier{reg: reg, names: make(map[string]Position)}
}

// Verify resolves and checks every declaration of u in place, returning the
// first error encountered.
func (v *Verifier) Verify(u *Unit) error {
	if err := v.checkTopLevelNames(u); err != nil {
		return err
	}
	if err := v.checkMessageIDs(u); err != nil {
		return err
	}

	// Structs are registered shallowly first so that any struct may
	// reference any other struct as a member type regardless of the
	// order the two appear in the source; the grammar has no forward
	// declaration syntax, but member-type resolution happens in a
	// separate, later pass below (see DESIGN.md's Open Question entry).
	for _, s := range u.AllStructs() {
		if err := v.reg.RegisterStruct(s); err != nil {
			return v.wrap(s.Pos(), err)
		}
	}
	for _, e := range u.AllEnums() {
		if err := v.resolveEnum(e); err != nil {
			return err
		}
	}
	for _, s := range u.AllStructs() {
		if err := v.resolveMembers(s.Pos(), s.Name, s.Members); err != nil {
			return err
		}
	}
	for _, m := range u.AllMessages() {
		if err := v.verifyMessage(m); err != nil {
			return err
		}
	}
	return nil
}

func (v *Verifier) wrap(pos Position, err error) error {
	if _, ok := err.(*Diagnostic); ok {
		return err
	}
	return &Diagnostic{Pos: pos, Message: err.Error()}
}

// checkTopLevelNames enforces global invariant 1.
func (v *Verifier) checkTopLevelNames(u *Unit) error {
	for name := range reservedNames {
		v.names[name] = Position{}
	}
	declare := func(name string, pos Position) error {
		if IsReserved(name) {
			return &Diagnostic{Pos: pos, Message: fmt.Sprintf("%q collides with a reserved name", name)}
		}
		if prev, exists := v.names[name]; exists {
			return &Diagnostic{Pos: pos, Message: fmt.Sprintf("%q is already declared at %s", name, prev)}
		}
		v.names[name] = pos
		return nil
	}
	for _, d := range u.Declarations {
		switch decl := d.(type) {
		case *Message:
			if err := declare(decl.Name, decl.Pos()); err != nil {
				return err
			}
		case *Struct:
			if err := declare(decl.Name, decl.Pos()); err != nil {
				return err
			}
		case *Enum:
			if err := declare(decl.Name, decl.Pos()); err != nil {
				return err
			}
		case *Group:
			for _, m := range decl.Messages {
				if err := declare(m.Name, m.Pos()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// checkMessageIDs enforces global invariant 2: ids are unique across the
// unit, except that each Group scopes uniqueness to its own members.
func (v *Verifier) checkMessageIDs(u *Unit) error {
	top := make(map[uint32]Position)
	for _, d := range u.Declarations {
		switch decl := d.(type) {
		case *Message:
			if prev, exists := top[decl.ID]; exists {
				return &Diagnostic{Pos: decl.Pos(), Message: fmt.Sprintf("message id %d already used at %s", decl.ID, prev)}
			}
			top[decl.ID] = decl.Pos()
		case *Group:
			scoped := make(map[uint32]Position)
			for _, m := range decl.Messages {
				if prev, exists := scoped[m.ID]; exists {
					return &Diagnostic{Pos: m.Pos(), Message: fmt.Sprintf("message id %d already used in this group at %s", m.ID, prev)}
				}
				scoped[m.ID] = m.Pos()
			}
		}
	}
	return nil
}

// resolveEnum resolves an enum/consts declaration's underlying type and
// member values, enforcing global invariant 7 and the auto-value
// monotonicity supplement (original_source/idl.py: verify_enum — "enum
// value must not go backwards").
func (v *Verifier) resolveEnum(e *Enum) error {
	underlyingExp := e.UnderlyingExp
	if underlyingExp == "" {
		underlyingExp = "int32" // spec.md §3: "default underlying is 32-bit signed"
	}
	underlying, ok := v.reg.ParseTypeExpression(underlyingExp)
	if !ok {
		return &Diagnostic{Pos: e.Pos(), Message: fmt.Sprintf("unknown underlying type %q for %s %s", underlyingExp, e.Mode, e.Name)}
	}
	if underlying.Kind != KindInteger {
		return &Diagnostic{Pos: e.Pos(), Message: fmt.Sprintf("underlying type of %s %s must be an integer, got %s", e.Mode, e.Name, underlying.Kind)}
	}
	e.Underlying = underlying

	members := make(map[string]Position)
	var next int64
	for _, m := range e.Members {
		if IsReserved(m.Name) {
			return &Diagnostic{Pos: m.Pos_, Message: fmt.Sprintf("%q collides with a reserved name", m.Name)}
		}
		if prev, exists := members[m.Name]; exists {
			return &Diagnostic{Pos: m.Pos_, Message: fmt.Sprintf("member %q already declared at %s", m.Name, prev)}
		}
		members[m.Name] = m.Pos_

		if m.HasValue {
			if m.Value < next {
				return &Diagnostic{Pos: m.Pos_, Message: fmt.Sprintf(
					"%s value must not go backwards: %s = %d follows a member with value %d", e.Mode, m.Name, m.Value, next-1)}
			}
			next = m.Value
		} else {
			m.Value = next
		}
		next++
	}

	return v.reg.RegisterEnum(e, underlying)
}

// resolveMembers resolves every member's Type and enforces global
// invariants 3, 4, and 5 over one member list (a Struct body, or a
// Message's combined head+tail members via verifyMessage).
func (v *Verifier) resolveMembers(pos Position, owner string, members []*Member) error {
	names := make(map[string]Position)
	blockTags := make(map[int]map[int]Position)

	for _, m := range members {
		if IsReserved(m.Name) {
			return &Diagnostic{Pos: m.Pos_, Message: fmt.Sprintf("%q collides with a reserved name", m.Name)}
		}
		if prev, exists := names[m.Name]; exists {
			return &Diagnostic{Pos: m.Pos_, Message: fmt.Sprintf("member %q of %q already declared at %s", m.Name, owner, prev)}
		}
		names[m.Name] = m.Pos_

		t, ok := v.reg.ParseTypeExpression(m.TypeExp)
		if !ok {
			return &Diagnostic{Pos: m.Pos_, Message: fmt.Sprintf("unknown type %q", m.TypeExp)}
		}
		m.Type = t

		if m.Tag != 0 && !m.InTags {
			return &Diagnostic{Pos: m.Pos_, Message: fmt.Sprintf("member %q has a tag outside a tags block", m.Name)}
		}
		if m.InTags {
			if m.Tag == 0 {
				return &Diagnostic{Pos: m.Pos_, Message: fmt.Sprintf("untagged member %q inside a tags block", m.Name)}
			}
			used := blockTags[m.Block]
			if used == nil {
				used = make(map[int]Position)
				blockTags[m.Block] = used
			}
			if prev, exists := used[m.Tag]; exists {
				return &Diagnostic{Pos: m.Pos_, Message: fmt.Sprintf("tag %d already used in this tags block at %s", m.Tag, prev)}
			}
			used[m.Tag] = m.Pos_
		}
	}
	return nil
}

// verifyMessage resolves a message's head and tail members (sharing one
// name scope per global invariant 4) and checks the head-size invariant.
func (v *Verifier) verifyMessage(m *Message) error {
	var all []*Member
	if m.Head != nil {
		all = append(all, m.Head.Members...)
	}
	if m.Tail != nil {
		for _, tm := range m.Tail.Members {
			if !tm.InTags {
				return &Diagnostic{Pos: tm.Pos_, Message: fmt.Sprintf("tail member %q must be declared inside a tags block", tm.Name)}
			}
		}
		all = append(all, m.Tail.Members...)
	}
	if err := v.resolveMembers(m.Pos(), m.Name, all); err != nil {
		return err
	}

	if m.Head != nil {
		_, shortfall, ok := CheckHeadSize(m.Head)
		if !ok {
			return &Diagnostic{Pos: m.Head.Pos_, Message: fmt.Sprintf(
				"head(%d) is too small for message %q: needs %d more byte(s)", m.Head.Size, m.Name, shortfall)}
		}
	}
	return nil
}
