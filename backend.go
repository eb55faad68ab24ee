package main

import "fmt"

// Backend is the interface every target-language emitter implements
// (component G). The emission core hands it a verified Unit; the backend
// is responsible only for rendering the Plans the core already computed
// into target-language source text (spec.md §4.5 "Target matrix").
type Backend interface {
	Name() string
	Generate(u *Unit) (string, error)
}

// Traits parameterizes a systems-language backend's container, string,
// allocator, and assertion choices, so the shared emission logic does not
// need to special-case each dialect inline (spec.md REDESIGN FLAGS: "Define
// a traits abstraction enumerating: container-of-T name, string type,
// assert operation, includes/imports, optional-wrapper strategy, numeric
// suffix rules. Each backend supplies one traits value.").
type Traits struct {
	// ContainerOfT renders a dynamic-count array's container type given
	// the element's rendered type, e.g. "std::vector<%s>".
	ContainerOfT func(elem string) string
	// StringType is the rendered type used for the `string` pseudo-type.
	StringType string
	// Assert renders a runtime contract check over a boolean expression.
	Assert func(expr string) string
	// Includes lists the headers/imports the generated file requires.
	Includes []string
	// OptionalOf renders the option-typed holder used for tagged or
	// optional presence tracking, given the held type.
	OptionalOf func(held string) string
	// IntSuffix renders the scalar integer type name for a given byte
	// width and signedness, e.g. (4, false) -> "uint32_t".
	IntSuffix func(size int, signed bool) string
	// AllocatorParam, if non-empty, is a template parameter every
	// dynamic-holding type must propagate (spec.md §4.5: "allocator
	// propagates to all dynamic members"); empty for dialects that use a
	// fixed standard allocator.
	AllocatorParam string
}

// StdCppTraits is the standard-library C++ dialect: std::vector,
// std::string, a fixed default allocator, and <cassert>'s assert().
var StdCppTraits = Traits{
	ContainerOfT: func(elem string) string { return fmt.Sprintf("std::vector<%s>", elem) },
	StringType:   "std::string",
	Assert:       func(expr string) string { return fmt.Sprintf("assert(%s);", expr) },
	Includes:     []string{"<cassert>", "<cstdint>", "<optional>", "<string>", "<vector>"},
	OptionalOf:   func(held string) string { return fmt.Sprintf("std::optional<%s>", held) },
	IntSuffix:    cppIntName,
}

// FriggCppTraits is the embedded-environment dialect: frigg's own
// containers, parameterized by an injected Allocator template parameter
// that propagates to every dynamic member (spec.md §4.5).
var FriggCppTraits = Traits{
	ContainerOfT: func(elem string) string { return fmt.Sprintf("frigg::Vector<%s, Allocator>", elem) },
	StringType:   "frigg::String<Allocator>",
	Assert:       func(expr string) string { return fmt.Sprintf("FRIGG_ASSERT(%s);", expr) },
	Includes:     []string{"<frigg/vector.hpp>", "<frigg/string.hpp>", "<frigg/optional.hpp>", "<cstdint>"},
	OptionalOf:   func(held string) string { return fmt.Sprintf("frigg::Optional<%s>", held) },
	IntSuffix:    cppIntName,
	AllocatorParam: "Allocator",
}

func cppIntName(size int, signed bool) string {
	prefix := "uint"
	if signed {
		prefix = "int"
	}
	return fmt.Sprintf("%s%d_t", prefix, size*8)
}

// cppTypeName renders t in the vocabulary of the given Traits. Shared by
// backend_cpp.go (direct use) and by anything else reasoning about C++
// type names.
func cppTypeName(t Type, tr Traits) string {
	switch t.Kind {
	case KindInteger:
		if t.Name == "char" {
			return "char"
		}
		return tr.IntSuffix(t.FixedSize, t.Signed)
	case KindEnum, KindConsts, KindStruct:
		return t.Name
	case KindString:
		return tr.StringType
	case KindArray:
		elem := cppTypeName(*t.Elem, tr)
		if t.NElements >= 0 {
			return fmt.Sprintf("std::array<%s, %d>", elem, t.NElements)
		}
		return tr.ContainerOfT(elem)
	default:
		return "void"
	}
}

// rustTypeName renders t as a Rust type.
func rustTypeName(t Type) string {
	switch t.Kind {
	case KindInteger:
		if t.Name == "char" {
			return "u8"
		}
		prefix := "u"
		if t.Signed {
			prefix = "i"
		}
		return fmt.Sprintf("%s%d", prefix, t.FixedSize*8)
	case KindEnum, KindConsts, KindStruct:
		return t.Name
	case KindString:
		return "String"
	case KindArray:
		elem := rustTypeName(*t.Elem)
		if t.NElements >= 0 {
			return fmt.Sprintf("[%s; %d]", elem, t.NElements)
		}
		return fmt.Sprintf("Vec<%s>", elem)
	default:
		return "()"
	}
}
