package main

// The emission core (component F) turns a verified, resolved Unit into a
// target-agnostic Plan per Message and Struct. Target backends (component
// G) walk these plans to produce source text; none of them re-derive
// offsets, pointer widths, or slot grouping themselves, so every backend
// is guaranteed to agree on the wire format by construction.

// FieldPlan describes one member's place in a fixed-part section (a Head
// or a Tail): whether it is written inline or through a dynamic pointer,
// and, for a pointer, every member sharing its TagsBlock.
type FieldPlan struct {
	Slot   Slot
	Offset int // byte offset of this slot within the section's fixed part
}

// SectionPlan is a fully planned Head or Tail: the fixed-part layout plus
// the pointer width every dynamic slot in it uses.
type SectionPlan struct {
	PointerWidth  int
	Fields        []FieldPlan
	FixedPartSize int
}

func planSection(members []*Member, ptrWidth int, prefixBytes int) SectionPlan {
	slots := PlanSlots(members)
	fields := make([]FieldPlan, len(slots))
	offset := prefixBytes
	for i, s := range slots {
		fields[i] = FieldPlan{Slot: s, Offset: offset}
		if s.Kind == SlotFixed {
			offset += s.FixedSize
		} else {
			offset += ptrWidth
		}
	}
	return SectionPlan{PointerWidth: ptrWidth, Fields: fields, FixedPartSize: offset}
}

// MessagePlan is the complete emission plan for one Message.
type MessagePlan struct {
	Message *Message
	Head    *SectionPlan // nil if the message has no head
	Tail    *SectionPlan // nil if the message has no tail; always 8-byte pointers
}

// PlanMessage builds the emission plan for m. m must already be verified
// (its members' Type fields resolved).
func PlanMessage(m *Message) MessagePlan {
	plan := MessagePlan{Message: m}
	if m.Head != nil {
		ptrWidth := PointerWidth(m.Head.Size)
		sec := planSection(m.Head.Members, ptrWidth, HeadImplicitBytes)
		plan.Head = &sec
	}
	if m.Tail != nil {
		sec := planSection(m.Tail.Members, TailPointerWidth, 0)
		plan.Tail = &sec
	}
	return plan
}

// StructPlan is the emission plan for a Struct: simply its members in
// declaration order, since a struct's dynamic encoding is the flat
// concatenation of each member's own dynamic encoding (spec.md §4.3) —
// there is no fixed/pointer split inside a struct body.
type StructPlan struct {
	Struct  *Struct
	Members []*Member
}

// PlanStruct builds the emission plan for s.
func PlanStruct(s *Struct) StructPlan {
	return StructPlan{Struct: s, Members: s.Members}
}

// DynamicKind classifies how a member's dynamic (payload-region) encoding
// is shaped, driving which backend helper call the emitter generates.
type DynamicKind int

const (
	DynInteger DynamicKind = iota
	DynByte                // size-1 integer: one raw byte, no varint
	DynEnum
	DynString
	DynArray
	DynStruct
	DynTagsBlock
)

// ClassifyDynamic reports how t is dynamically encoded (spec.md §4.3
// "Dynamic encoding of a value").
func ClassifyDynamic(t Type) DynamicKind {
	switch t.Kind {
	case KindInteger:
		if t.FixedSize == 1 {
			return DynByte
		}
		return DynInteger
	case KindEnum, KindConsts:
		return DynEnum
	case KindString:
		return DynString
	case KindArray:
		return DynArray
	case KindStruct:
		return DynStruct
	default:
		return DynInteger
	}
}

// FieldDescriptor is a flattened, language-agnostic description of one
// field, suitable for driving a table-based backend (spec.md §4.5: "a
// dissector script ... driven by tables of field descriptors derived from
// the same model"). Every backend can build its own richer view from a
// Plan, but the Wireshark backend in particular consumes this directly.
type FieldDescriptor struct {
	Name     string
	Tag      int // 0 if untagged
	Type     Type
	Fixed    bool // true if encoded inline in the fixed part
	Offset   int  // fixed-part byte offset, meaningful only if Fixed
	Dynamic  DynamicKind
}

// Describe flattens a SectionPlan into FieldDescriptors, one per member
// (a TagsBlock's slot expands back into one descriptor per tagged member,
// all sharing Fixed=false since the block itself is the pointer target).
func Describe(sec *SectionPlan) []FieldDescriptor {
	var out []FieldDescriptor
	if sec == nil {
		return out
	}
	for _, f := range sec.Fields {
		for _, m := range f.Slot.Members {
			out = append(out, FieldDescriptor{
				Name:    m.Name,
				Tag:     m.Tag,
				Type:    m.Type,
				Fixed:   f.Slot.Kind == SlotFixed,
				Offset:  f.Offset,
				Dynamic: ClassifyDynamic(m.Type),
			})
		}
	}
	return out
}
