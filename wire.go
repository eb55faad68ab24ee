package main

import "fmt"

// The reference wire codec (component F's concrete half). planSection and
// friends in emit.go only compute offsets and slot groupings; this file
// actually walks those plans to produce and consume real bytes, the same
// way varint.go is the executable definition of spec.md §4.4 rather than
// just a description of it. Every target backend's generated encode/decode
// routines implement this same algorithm in their own language; this is the
// one written in Go, and the one the test suite checks spec.md §8's worked
// scenarios against directly.

// Values is the runtime data for one Head, Tail, or Struct body: a flat map
// from member name to its value, in the shapes ClassifyDynamic expects:
//
//	integer / enum / consts -> int64 (sign bits already in place; unsigned
//	                           values just happen to fit in the lower bits)
//	string                  -> string
//	array                   -> []interface{}, each element in one of these
//	                           shapes
//	struct                  -> Values, nested
//
// A key absent from the map is "not present": for a TagsBlock member that
// means the member is omitted from the wire entirely; for any other member
// it means "zero value" (spec.md §4.3's fixed-array overflow rule already
// requires a zero fill, so this falls out naturally rather than needing a
// special case).
type Values map[string]interface{}

// MessageInstance is the populated head/tail data for one message, the
// input to EncodeMessage and the output of DecodeMessage.
type MessageInstance struct {
	Head Values
	Tail Values
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case uint64:
		return int64(n)
	case uint32:
		return int64(n)
	case nil:
		return 0
	default:
		return 0
	}
}

func putLE(dst []byte, v uint64, width int) {
	for i := 0; i < width; i++ {
		dst[i] = byte(v >> (8 * uint(i)))
	}
}

func getLE(src []byte, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(src[i]) << (8 * uint(i))
	}
	return v
}

// signExtend sign-extends the low fixedSize*8 bits of v to a full int64, per
// spec.md §4.3's fixed encoding of a signed integer.
func signExtend(v uint64, fixedSize int) int64 {
	bits := uint(fixedSize * 8)
	if bits >= 64 {
		return int64(v)
	}
	mask := uint64(1) << (bits - 1)
	return int64((v ^ mask) - mask)
}

// isTagsBlockSlot reports whether a pointer slot is a TagsBlock (every
// member sharing it was declared inside a `tags {}` block) rather than a
// single ordinary dynamic member.
func isTagsBlockSlot(s Slot) bool {
	return len(s.Members) > 0 && s.Members[0].InTags
}

// encodeFixedValue renders v in t's fixed encoding (spec.md §4.3 "Fixed
// encoding of a value"). t must be non-dynamic.
func encodeFixedValue(t Type, v interface{}) []byte {
	switch t.Kind {
	case KindInteger, KindEnum, KindConsts:
		buf := make([]byte, t.FixedSize)
		putLE(buf, uint64(toInt64(v)), t.FixedSize)
		return buf
	case KindArray:
		elems, _ := v.([]interface{})
		buf := make([]byte, 0, t.FixedSize)
		for i := 0; i < t.NElements; i++ {
			var ev interface{}
			if i < len(elems) {
				ev = elems[i]
			}
			buf = append(buf, encodeFixedValue(*t.Elem, ev)...)
		}
		return buf
	default:
		return nil
	}
}

// decodeFixedValue is the inverse of encodeFixedValue.
func decodeFixedValue(t Type, buf []byte) (interface{}, error) {
	switch t.Kind {
	case KindInteger, KindEnum, KindConsts:
		if len(buf) < t.FixedSize {
			return nil, fmt.Errorf("wire: short fixed read for %q: need %d, have %d", t.Name, t.FixedSize, len(buf))
		}
		raw := getLE(buf, t.FixedSize)
		if t.Signed {
			return signExtend(raw, t.FixedSize), nil
		}
		return int64(raw), nil
	case KindArray:
		elemSize := t.Elem.FixedSize
		elems := make([]interface{}, t.NElements)
		for i := 0; i < t.NElements; i++ {
			off := i * elemSize
			if off+elemSize > len(buf) {
				return nil, fmt.Errorf("wire: short fixed array read at element %d", i)
			}
			ev, err := decodeFixedValue(*t.Elem, buf[off:off+elemSize])
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return elems, nil
	default:
		return nil, fmt.Errorf("wire: type %q has no fixed decoding", t.Name)
	}
}

// encodeDynamicValue renders v in t's dynamic (payload-region) encoding
// (spec.md §4.3 "Dynamic encoding of a value").
func encodeDynamicValue(t Type, v interface{}) []byte {
	switch ClassifyDynamic(t) {
	case DynByte:
		return []byte{byte(toInt64(v))}
	case DynInteger, DynEnum:
		return EncodeVarint(nil, uint64(toInt64(v)))
	case DynString:
		s, _ := v.(string)
		buf := EncodeVarint(nil, uint64(len(s)))
		return append(buf, []byte(s)...)
	case DynArray:
		elems, _ := v.([]interface{})
		buf := EncodeVarint(nil, uint64(len(elems)))
		for _, e := range elems {
			buf = append(buf, encodeDynamicValue(*t.Elem, e)...)
		}
		return buf
	case DynStruct:
		nested, _ := v.(Values)
		return EncodeStructBody(t.StructDecl, nested)
	default:
		return nil
	}
}

// decodeDynamicValue is the inverse of encodeDynamicValue, returning the
// decoded value and the number of bytes of buf it consumed.
func decodeDynamicValue(t Type, buf []byte) (interface{}, int, error) {
	switch ClassifyDynamic(t) {
	case DynByte:
		if len(buf) < 1 {
			return nil, 0, fmt.Errorf("wire: short byte read")
		}
		return int64(buf[0]), 1, nil
	case DynInteger, DynEnum:
		raw, n, err := DecodeVarint(buf)
		if err != nil {
			return nil, 0, err
		}
		if t.Signed {
			return signExtend(raw, 8), n, nil
		}
		return int64(raw), n, nil
	case DynString:
		length, n, err := DecodeVarint(buf)
		if err != nil {
			return nil, 0, err
		}
		end := n + int(length)
		if end > len(buf) {
			return nil, 0, fmt.Errorf("wire: short string payload: need %d bytes, have %d", length, len(buf)-n)
		}
		return string(buf[n:end]), end, nil
	case DynArray:
		count, n, err := DecodeVarint(buf)
		if err != nil {
			return nil, 0, err
		}
		pos := n
		elems := make([]interface{}, 0, count)
		for i := uint64(0); i < count; i++ {
			ev, consumed, err := decodeDynamicValue(*t.Elem, buf[pos:])
			if err != nil {
				return nil, 0, err
			}
			elems = append(elems, ev)
			pos += consumed
		}
		return elems, pos, nil
	case DynStruct:
		values, n, err := DecodeStructBody(t.StructDecl, buf)
		if err != nil {
			return nil, 0, err
		}
		return values, n, nil
	default:
		return nil, 0, fmt.Errorf("wire: type %q has no dynamic decoding", t.Name)
	}
}

// encodeTagsBlock renders a TagsBlock's present members as a sequence of
// (varint tag, dynamic value) pairs, terminated by a varint 0 (spec.md
// §4.3, §8 testable property 5).
func encodeTagsBlock(members []*Member, values Values) []byte {
	var buf []byte
	for _, m := range members {
		v, present := values[m.Name]
		if !present {
			continue
		}
		buf = EncodeVarint(buf, uint64(m.Tag))
		buf = append(buf, encodeDynamicValue(m.Type, v)...)
	}
	return EncodeVarint(buf, 0)
}

// decodeTagsBlock reads (tag, value) pairs from buf until the terminator,
// writing each decoded member into values. An unknown tag is a fatal decode
// error (spec.md §8 testable property 7).
func decodeTagsBlock(members []*Member, buf []byte, values Values) (int, error) {
	byTag := make(map[int]*Member, len(members))
	for _, m := range members {
		byTag[m.Tag] = m
	}
	pos := 0
	for {
		tag, n, err := DecodeVarint(buf[pos:])
		if err != nil {
			return 0, err
		}
		pos += n
		if tag == 0 {
			return pos, nil
		}
		m, ok := byTag[int(tag)]
		if !ok {
			return 0, fmt.Errorf("wire: unknown tag %d in tags block", tag)
		}
		v, consumed, err := decodeDynamicValue(m.Type, buf[pos:])
		if err != nil {
			return 0, err
		}
		values[m.Name] = v
		pos += consumed
	}
}

// encodeSectionBody renders a Head or Tail section's fixed part plus
// trailing dynamic payloads (spec.md §4.5 "Encode plan", steps 1-5).
// Dynamic payloads begin immediately at fixed_part_size, per spec.md §4.3's
// own resolution of its head-layout paragraph ("dynamic payloads begin at
// offset fixed_part_size ... not necessarily at head.size") — see
// DESIGN.md's Open Question on head padding. A head whose declared size
// exceeds fixed_part_size (legal per invariant 6, which only requires
// size >= fixed_part_size) simply never manifests that extra budget as
// wire bytes; it is headroom for future fields, not padding that is
// actually emitted.
func encodeSectionBody(sec *SectionPlan, values Values) ([]byte, error) {
	if sec == nil {
		return nil, nil
	}
	base := sec.FixedPartSize

	payloads := make([][]byte, len(sec.Fields))
	for i, f := range sec.Fields {
		if f.Slot.Kind != SlotPointer {
			continue
		}
		if isTagsBlockSlot(f.Slot) {
			payloads[i] = encodeTagsBlock(f.Slot.Members, values)
		} else {
			m := f.Slot.Members[0]
			payloads[i] = encodeDynamicValue(m.Type, values[m.Name])
		}
	}

	buf := make([]byte, base)
	offset := base
	dynOffs := make([]int, len(sec.Fields))
	for i, f := range sec.Fields {
		if f.Slot.Kind == SlotPointer {
			dynOffs[i] = offset
			offset += len(payloads[i])
		}
	}

	for i, f := range sec.Fields {
		switch f.Slot.Kind {
		case SlotFixed:
			m := f.Slot.Members[0]
			fv := encodeFixedValue(m.Type, values[m.Name])
			copy(buf[f.Offset:], fv)
		case SlotPointer:
			putLE(buf[f.Offset:f.Offset+sec.PointerWidth], uint64(dynOffs[i]), sec.PointerWidth)
		}
	}
	for i, f := range sec.Fields {
		if f.Slot.Kind == SlotPointer {
			buf = append(buf, payloads[i]...)
		}
	}
	return buf, nil
}

// decodeSectionBody is the inverse of encodeSectionBody.
func decodeSectionBody(sec *SectionPlan, buf []byte) (Values, error) {
	values := Values{}
	if sec == nil {
		return values, nil
	}
	for _, f := range sec.Fields {
		switch f.Slot.Kind {
		case SlotFixed:
			m := f.Slot.Members[0]
			if f.Offset+f.Slot.FixedSize > len(buf) {
				return nil, fmt.Errorf("wire: short fixed read for %q", m.Name)
			}
			v, err := decodeFixedValue(m.Type, buf[f.Offset:f.Offset+f.Slot.FixedSize])
			if err != nil {
				return nil, err
			}
			values[m.Name] = v
		case SlotPointer:
			if f.Offset+sec.PointerWidth > len(buf) {
				return nil, fmt.Errorf("wire: short pointer read at offset %d", f.Offset)
			}
			ptr := int(getLE(buf[f.Offset:f.Offset+sec.PointerWidth], sec.PointerWidth))
			if ptr > len(buf) {
				return nil, fmt.Errorf("wire: dynamic pointer %d past end of section (%d bytes)", ptr, len(buf))
			}
			if isTagsBlockSlot(f.Slot) {
				if _, err := decodeTagsBlock(f.Slot.Members, buf[ptr:], values); err != nil {
					return nil, err
				}
			} else {
				m := f.Slot.Members[0]
				v, _, err := decodeDynamicValue(m.Type, buf[ptr:])
				if err != nil {
					return nil, err
				}
				values[m.Name] = v
			}
		}
	}
	return values, nil
}

// EncodeStructBody renders a struct instance as the concatenation of its
// members' dynamic encodings, in declaration order (spec.md §4.3 "Struct").
func EncodeStructBody(decl *Struct, values Values) []byte {
	var buf []byte
	for _, m := range PlanStruct(decl).Members {
		buf = append(buf, encodeDynamicValue(m.Type, values[m.Name])...)
	}
	return buf
}

// DecodeStructBody is the inverse of EncodeStructBody, returning the decoded
// Values and the number of bytes of buf consumed.
func DecodeStructBody(decl *Struct, buf []byte) (Values, int, error) {
	values := Values{}
	pos := 0
	for _, m := range PlanStruct(decl).Members {
		v, n, err := decodeDynamicValue(m.Type, buf[pos:])
		if err != nil {
			return nil, 0, err
		}
		values[m.Name] = v
		pos += n
	}
	return values, pos, nil
}

// EncodeMessage renders a full message — head then tail — per spec.md §4.3:
// the head is its fixed part followed by its dynamic payloads (or just the
// 8-byte id/tail-size prefix if the message declares no head at all); the
// declared head.size adds no padding. The head is immediately followed by
// the tail section, whose total length is also recorded in the head's
// tail-size field.
func EncodeMessage(m *Message, inst MessageInstance) ([]byte, error) {
	plan := PlanMessage(m)

	var tailBuf []byte
	if plan.Tail != nil {
		b, err := encodeSectionBody(plan.Tail, inst.Tail)
		if err != nil {
			return nil, fmt.Errorf("wire: encoding tail of %q: %w", m.Name, err)
		}
		tailBuf = b
	}

	var headBuf []byte
	if plan.Head != nil {
		b, err := encodeSectionBody(plan.Head, inst.Head)
		if err != nil {
			return nil, fmt.Errorf("wire: encoding head of %q: %w", m.Name, err)
		}
		headBuf = b
	} else {
		headBuf = make([]byte, HeadImplicitBytes)
	}

	putLE(headBuf[0:4], uint64(m.ID), 4)
	putLE(headBuf[4:8], uint64(len(tailBuf)), 4)

	out := make([]byte, 0, len(headBuf)+len(tailBuf))
	out = append(out, headBuf...)
	out = append(out, tailBuf...)
	return out, nil
}

// DecodeMessage is the inverse of EncodeMessage. It fails if the buffer's
// message id does not match m.ID without touching any member (spec.md §8
// testable property 6).
func DecodeMessage(m *Message, buf []byte) (MessageInstance, error) {
	if len(buf) < HeadImplicitBytes {
		return MessageInstance{}, fmt.Errorf("wire: buffer too short for message header: %d bytes", len(buf))
	}
	id := uint32(getLE(buf[0:4], 4))
	if id != m.ID {
		return MessageInstance{}, fmt.Errorf("wire: id mismatch: got %d, want %d (%s)", id, m.ID, m.Name)
	}
	tailSize := int(getLE(buf[4:8], 4))
	if tailSize > len(buf) {
		return MessageInstance{}, fmt.Errorf("wire: tail_size %d exceeds buffer length %d", tailSize, len(buf))
	}
	// The tail, when present, is always the trailing tailSize bytes of the
	// message; everything before that is the head, whatever its own fixed
	// part and dynamic payloads worked out to (spec.md §4.3: "The tail's
	// presence and total byte count are conveyed through the head's
	// tail-size field").
	headSize := len(buf) - tailSize

	var inst MessageInstance
	plan := PlanMessage(m)
	if plan.Head != nil {
		head, err := decodeSectionBody(plan.Head, buf[:headSize])
		if err != nil {
			return MessageInstance{}, fmt.Errorf("wire: decoding head of %q: %w", m.Name, err)
		}
		inst.Head = head
	}
	if plan.Tail != nil {
		tail, err := decodeSectionBody(plan.Tail, buf[headSize:])
		if err != nil {
			return MessageInstance{}, fmt.Errorf("wire: decoding tail of %q: %w", m.Name, err)
		}
		inst.Tail = tail
	}
	return inst, nil
}
