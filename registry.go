package main

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// Kind is the tagged-variant discriminant for Type (spec.md §3: "Type
// identity is a tagged variant with six cases").
type Kind int

const (
	KindInteger Kind = iota
	KindEnum
	KindConsts
	KindStruct
	KindArray
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindEnum:
		return "enum"
	case KindConsts:
		return "consts"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Type is the canonical, immutable representation of a resolved wire type.
// Only the fields relevant to the Kind are meaningful; the zero Type is not
// a valid type (use (Type{}).Valid() to check).
type Type struct {
	Kind Kind
	Name string // canonical name as registered, e.g. "uint32", "Color", "string"

	// Integer
	FixedSize int // bytes: 1, 2, 4, or 8
	Signed    bool

	// Enum / Consts
	Underlying *Type
	EnumDecl   *Enum

	// Struct
	StructDecl *Struct

	// Array (subtype + optional element count; also used for the string
	// pseudo-type, whose Elem is the predefined "char" type and whose
	// NElements is always -1)
	Elem      *Type
	NElements int // -1 means "no fixed count" (dynamic-count array or string)

	Dynamic bool // true iff wire size cannot be determined from the type alone
}

func (t Type) Valid() bool { return t.Name != "" }

// String renders the surface-syntax form of the type, e.g. "uint32[4]".
func (t Type) String() string {
	switch t.Kind {
	case KindArray:
		if t.NElements >= 0 {
			return fmt.Sprintf("%s[%d]", t.Elem.String(), t.NElements)
		}
		return t.Elem.String() + "[]"
	default:
		return t.Name
	}
}

// Registry stores the mapping from name to canonical Type for one
// compilation unit (component B). It is pre-populated with the predefined
// integer types, byte, char, and string, per spec.md §4.1.
type Registry struct {
	types map[string]Type

	// exprCache memoizes ParseTypeExpression: the same array/pointer-like
	// expression (e.g. "uint32[]") recurs across many member declarations
	// in a realistic schema, and the parse result is a pure function of
	// the registry's current contents plus the text. Bounded LRU rather
	// than an unbounded map so a pathological schema with thousands of
	// distinct one-off expressions cannot grow memory without limit.
	exprCache *lru.Cache
}

// reservedNames are keywords the grammar reserves; a top-level declaration
// or member name colliding with one of these is rejected (spec.md §3,
// global invariant 1).
var reservedNames = map[string]bool{
	"message": true, "head": true, "tail": true, "struct": true,
	"enum": true, "consts": true, "namespace": true, "using": true,
	"group": true, "tags": true, "tag": true, "string": true,
	"int8": true, "int16": true, "int32": true, "int64": true,
	"uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"byte": true, "char": true,
}

// NewRegistry builds a Registry pre-populated with the predefined types.
func NewRegistry() *Registry {
	cache, err := lru.New(256)
	if err != nil {
		// lru.New only fails for size <= 0, never true for our constant.
		panic(err)
	}
	r := &Registry{types: make(map[string]Type), exprCache: cache}
	for _, it := range []struct {
		name   string
		size   int
		signed bool
	}{
		{"int8", 1, true}, {"int16", 2, true}, {"int32", 4, true}, {"int64", 8, true},
		{"uint8", 1, false}, {"uint16", 2, false}, {"uint32", 4, false}, {"uint64", 8, false},
		{"byte", 1, false}, {"char", 1, false},
	} {
		r.types[it.name] = Type{Kind: KindInteger, Name: it.name, FixedSize: it.size, Signed: it.signed}
	}
	charType := r.types["char"]
	r.types["string"] = Type{Kind: KindString, Name: "string", Dynamic: true, Elem: &charType, NElements: -1}
	return r
}

// Lookup resolves a bare (non-array) name to its canonical Type.
func (r *Registry) Lookup(name string) (Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Register binds a new name to a Type, failing if the name is already bound
// (spec.md §4.1: "register(type) — fails if the name is already bound").
func (r *Registry) Register(t Type) error {
	if _, exists := r.types[t.Name]; exists {
		return fmt.Errorf("type %q is already registered", t.Name)
	}
	r.types[t.Name] = t
	r.exprCache.Purge() // a new name may change how previously-unresolvable expressions parse
	return nil
}

// RegisterEnum registers an Enum declaration's Type under its name, with the
// given (already-resolved) underlying integer type.
func (r *Registry) RegisterEnum(decl *Enum, underlying Type) error {
	kind := KindEnum
	if decl.Mode == EnumModeConsts {
		kind = KindConsts
	}
	return r.Register(Type{
		Kind: kind, Name: decl.Name,
		Underlying: &underlying, EnumDecl: decl,
		FixedSize: underlying.FixedSize, Signed: underlying.Signed,
	})
}

// RegisterStruct registers a Struct declaration's Type. Structs are always
// dynamic (spec.md §3: "Struct: ... always treated as dynamic-size").
func (r *Registry) RegisterStruct(decl *Struct) error {
	return r.Register(Type{Kind: KindStruct, Name: decl.Name, StructDecl: decl, Dynamic: true})
}

// ParseTypeExpression parses a surface type expression: a base name
// followed by zero or more `[N]`/`[]` suffixes, peeled right-to-left
// (spec.md §4.1). Returns false if the base name is unknown or a `[N]`
// suffix is malformed.
func (r *Registry) ParseTypeExpression(text string) (Type, bool) {
	if cached, ok := r.exprCache.Get(text); ok {
		ct := cached.(Type)
		return ct, ct.Valid()
	}
	t, ok := r.parseTypeExpressionUncached(text)
	if ok {
		r.exprCache.Add(text, t)
	}
	return t, ok
}

func (r *Registry) parseTypeExpressionUncached(text string) (Type, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Type{}, false
	}

	// Split off a run of trailing "[...]" suffixes, then peel them
	// right-to-left: the suffix closest to the base name wraps first.
	base := text
	var suffixes []string
	for strings.HasSuffix(base, "]") {
		open := strings.LastIndex(base, "[")
		if open < 0 {
			return Type{}, false
		}
		suffixes = append(suffixes, base[open+1:len(base)-1])
		base = base[:open]
	}

	result, ok := r.Lookup(base)
	if !ok {
		return Type{}, false
	}

	// suffixes was collected outermost-first; peel in reverse so the
	// innermost (closest to the base name) suffix is applied first, per
	// spec.md §4.1's "right-to-left peel of bracketed suffixes".
	for i := len(suffixes) - 1; i >= 0; i-- {
		sub := result
		spec := suffixes[i]
		arr := Type{Kind: KindArray, Elem: &sub}
		if spec == "" {
			arr.NElements = -1
			arr.Dynamic = true
		} else {
			n, err := strconv.Atoi(spec)
			if err != nil || n < 0 {
				return Type{}, false
			}
			arr.NElements = n
			if sub.Dynamic {
				arr.Dynamic = true
			} else {
				arr.FixedSize = n * sub.FixedSize
			}
		}
		arr.Name = arr.String()
		result = arr
	}
	return result, true
}

// IsReserved reports whether name collides with a grammar keyword.
func IsReserved(name string) bool { return reservedNames[name] }
