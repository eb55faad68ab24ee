package main

import "fmt"

// SlotKind discriminates the two ways a declared member occupies the fixed
// part of a Head or Tail section (spec.md §4.3); struct bodies have no
// fixed part and are not planned into slots.
type SlotKind int

const (
	SlotFixed SlotKind = iota
	SlotPointer
)

// Slot is one fixed-part entry: either a single non-dynamic member encoded
// inline, or a dynamic pointer to a payload. A TagsBlock collapses to a
// single SlotPointer covering every member in the block (spec.md §3
// worked example: "the fixed part holds one pointer").
type Slot struct {
	Kind      SlotKind
	Members   []*Member
	FixedSize int // meaningful only for SlotFixed
}

// PlanSlots walks a member list in declaration order and groups it into
// fixed-part slots: a contiguous run sharing the same nonzero Block becomes
// one SlotPointer, a dynamic member becomes its own SlotPointer, and
// anything else becomes a SlotFixed.
func PlanSlots(members []*Member) []Slot {
	var slots []Slot
	i := 0
	for i < len(members) {
		m := members[i]
		if m.InTags && m.Block != 0 {
			j := i
			block := m.Block
			var run []*Member
			for j < len(members) && members[j].InTags && members[j].Block == block {
				run = append(run, members[j])
				j++
			}
			slots = append(slots, Slot{Kind: SlotPointer, Members: run})
			i = j
			continue
		}
		if m.Type.Dynamic {
			slots = append(slots, Slot{Kind: SlotPointer, Members: []*Member{m}})
		} else {
			slots = append(slots, Slot{Kind: SlotFixed, Members: []*Member{m}, FixedSize: m.Type.FixedSize})
		}
		i++
	}
	return slots
}

// PointerWidth returns the smallest of {1,2,4,8} bytes sufficient to address
// every byte offset up to headSize-1 (spec.md §4.3).
func PointerWidth(headSize int) int {
	for _, w := range [...]int{1, 2, 4, 8} {
		if uint64(headSize) <= uint64(1)<<(8*uint(w)) {
			return w
		}
	}
	return 8
}

// FixedPartSize sums the byte contribution of every slot in members, using
// ptrWidth for each SlotPointer.
func FixedPartSize(members []*Member, ptrWidth int) int {
	size := 0
	for _, s := range PlanSlots(members) {
		if s.Kind == SlotFixed {
			size += s.FixedSize
		} else {
			size += ptrWidth
		}
	}
	return size
}

// HeadIDSizeBytes and HeadTailSizeBytes are the two implicit 4-byte fields
// that prefix every head section (spec.md §4.3: "A 4-byte unsigned message
// id ... A 4-byte unsigned value giving the size of the tail section").
const (
	HeadIDSizeBytes       = 4
	HeadTailSizeSizeBytes = 4
	HeadImplicitBytes     = HeadIDSizeBytes + HeadTailSizeSizeBytes

	// TailPointerWidth is fixed regardless of head.size (spec.md §4.3:
	// "a tail is a sequence of dynamic pointers (8-byte) ... with pointer
	// width always 8").
	TailPointerWidth = 8
)

// HeadLayout is the fully planned fixed-part layout of one message's head
// section: the chosen pointer width and the byte offset each slot starts
// at. The verifier uses it (through CheckHeadSize) to check head.size; the
// emission core computes the same offsets separately in emit.go's
// planSection.
type HeadLayout struct {
	PointerWidth  int
	Slots         []Slot
	SlotOffsets   []int // parallel to Slots; byte offset each slot starts at
	FixedPartSize int   // HeadImplicitBytes + sum of per-slot contributions
}

// PlanHead computes the fixed-part layout of a head section. It does not
// check head.Size against the result; that is the verifier's job
// (invariant 6).
func PlanHead(h *HeadSection) HeadLayout {
	ptrWidth := PointerWidth(h.Size)
	slots := PlanSlots(h.Members)
	offsets := make([]int, len(slots))
	offset := HeadImplicitBytes
	for i, s := range slots {
		offsets[i] = offset
		if s.Kind == SlotFixed {
			offset += s.FixedSize
		} else {
			offset += ptrWidth
		}
	}
	return HeadLayout{PointerWidth: ptrWidth, Slots: slots, SlotOffsets: offsets, FixedPartSize: offset}
}

// TailLayout is the analogous plan for a tail section: always 8-byte
// pointers, no implicit prefix.
type TailLayout struct {
	Slots         []Slot
	SlotOffsets   []int
	FixedPartSize int
}

// PlanTail computes the fixed-part layout of a tail section.
func PlanTail(t *TailSection) TailLayout {
	slots := PlanSlots(t.Members)
	offsets := make([]int, len(slots))
	offset := 0
	for i, s := range slots {
		offsets[i] = offset
		if s.Kind == SlotFixed {
			offset += s.FixedSize
		} else {
			offset += TailPointerWidth
		}
	}
	return TailLayout{Slots: slots, SlotOffsets: offsets, FixedPartSize: offset}
}

// CheckHeadSize reports whether the section's declared Size accommodates
// its own fixed part (global invariant 6). On failure it returns the exact
// shortfall so the verifier can render a precise diagnostic.
func CheckHeadSize(h *HeadSection) (layout HeadLayout, shortfall int, ok bool) {
	layout = PlanHead(h)
	if h.Size >= layout.FixedPartSize {
		return layout, 0, true
	}
	return layout, layout.FixedPartSize - h.Size, false
}

// FixedEncodingSize returns the size, in bytes, of a non-dynamic value's
// fixed encoding (spec.md §4.3 "Fixed encoding of a value"). t must satisfy
// !t.Dynamic.
func FixedEncodingSize(t Type) (int, error) {
	if t.Dynamic {
		return 0, fmt.Errorf("type %q is dynamic, has no fixed encoding", t.String())
	}
	switch t.Kind {
	case KindInteger, KindEnum, KindConsts:
		return t.FixedSize, nil
	case KindArray:
		return t.FixedSize, nil
	default:
		return 0, fmt.Errorf("type %q has no fixed encoding", t.String())
	}
}
