package main

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// CppBackend emits C++ source implementing every Message/Struct's
// size_of/encode/decode routines and accessors (spec.md §4.5), in either
// the standard-library or frigg dialect (§4.5 "Target matrix").
type CppBackend struct {
	Lib       string // "stdc++" or "frigg"
	Protobuf  bool
	Namespace string
}

func (b *CppBackend) Name() string { return "cpp" }

func (b *CppBackend) traits() Traits {
	if b.Lib == "frigg" {
		return FriggCppTraits
	}
	return StdCppTraits
}

// Generate renders u as a single C++ header. It returns only the header
// text; the Protobuf companion descriptor is produced separately by
// GenerateProtobufDescriptor, which the driver calls when Protobuf is set.
func (b *CppBackend) Generate(u *Unit) (string, error) {
	tr := b.traits()
	var out strings.Builder

	out.WriteString("#pragma once\n\n")
	for _, inc := range tr.Includes {
		fmt.Fprintf(&out, "#include %s\n", inc)
	}
	out.WriteString("\n")
	emitCppRuntimeHelpers(&out)

	ns := u.Namespace
	if ns != "" {
		fmt.Fprintf(&out, "namespace %s {\n\n", cppNamespace(ns))
	}

	for _, e := range u.AllEnums() {
		b.emitEnum(&out, e)
	}
	for _, s := range u.AllStructs() {
		b.emitStruct(&out, s, tr)
	}
	for _, m := range u.AllMessages() {
		b.emitMessage(&out, m, tr)
	}

	if ns != "" {
		fmt.Fprintf(&out, "} // namespace %s\n", cppNamespace(ns))
	}
	return out.String(), nil
}

// emitCppRuntimeHelpers writes the small set of free functions every
// generated size_of/encode/decode body calls: varint and fixed-width
// little-endian primitives implementing spec.md §4.3/§4.4 exactly as
// varint.go and wire.go do on the Go side, so the three languages agree on
// the wire format byte for byte (spec.md §1).
func emitCppRuntimeHelpers(out *strings.Builder) {
	out.WriteString(`namespace wireforge_rt {

inline void write_fixed_at(std::vector<char>& out, size_t offset, uint64_t v, int width) {
	for (int i = 0; i < width; ++i) out[offset + i] = char((v >> (8 * i)) & 0xff);
}

inline uint64_t read_fixed(const char *buf, size_t offset, int width) {
	uint64_t v = 0;
	for (int i = 0; i < width; ++i) v |= uint64_t(uint8_t(buf[offset + i])) << (8 * i);
	return v;
}

inline void write_varint(std::vector<char>& out, uint64_t v) {
	int n = 9;
	for (int i = 1; i <= 8; ++i) {
		if (v < (uint64_t(1) << (7 * i))) { n = i; break; }
	}
	if (n == 9) {
		out.push_back(0);
		for (int i = 0; i < 8; ++i) out.push_back(char((v >> (8 * i)) & 0xff));
		return;
	}
	int freebits = 8 - n;
	uint64_t low = freebits > 0 ? (v & ((uint64_t(1) << freebits) - 1)) : 0;
	uint64_t high = freebits > 0 ? (v >> freebits) : v;
	out.push_back(char((low << n) | (uint64_t(1) << (n - 1))));
	for (int i = 0; i < n - 1; ++i) out.push_back(char((high >> (8 * i)) & 0xff));
}

inline uint64_t read_varint(const char *buf, size_t &offset) {
	uint8_t byte0 = uint8_t(buf[offset]);
	int n = 9;
	for (int i = 0; i < 8; ++i) {
		if (byte0 & (1 << i)) { n = i + 1; break; }
	}
	if (n == 9) {
		uint64_t v = 0;
		for (int i = 0; i < 8; ++i) v |= uint64_t(uint8_t(buf[offset + 1 + i])) << (8 * i);
		offset += 9;
		return v;
	}
	int freebits = 8 - n;
	uint64_t low = byte0 >> n;
	uint64_t high = 0;
	for (int i = 0; i < n - 1; ++i) high |= uint64_t(uint8_t(buf[offset + 1 + i])) << (8 * i);
	offset += n;
	return (high << freebits) | low;
}

} // namespace wireforge_rt

`)
}

func cppNamespace(ns string) string {
	return strings.ReplaceAll(ns, ".", "::")
}

func (b *CppBackend) emitEnum(out *strings.Builder, e *Enum) {
	underlying := cppTypeName(e.Underlying, b.traits())
	kw := "enum class"
	if e.Mode == EnumModeConsts {
		// Consts behave like their underlying integer wherever a type is
		// expected (spec.md §3), so they are rendered as a plain struct
		// of static constexpr members rather than a scoped enum.
		fmt.Fprintf(out, "struct %s {\n", e.Name)
		for _, m := range e.Members {
			fmt.Fprintf(out, "\tstatic constexpr %s %s = %d;\n", underlying, m.Name, m.Value)
		}
		out.WriteString("};\n\n")
		return
	}
	fmt.Fprintf(out, "%s %s : %s {\n", kw, e.Name, underlying)
	for _, m := range e.Members {
		fmt.Fprintf(out, "\t%s = %d,\n", m.Name, m.Value)
	}
	out.WriteString("};\n\n")
}

// emitStruct renders a Struct's fields plus real size_of_body/encode_body/
// decode_body definitions. A struct's dynamic encoding is the flat
// concatenation of each member's own dynamic encoding, in declaration
// order (spec.md §4.3 "Struct"; mirrors wire.go's EncodeStructBody exactly,
// just unrolled into C++ statements at generation time instead of walked
// at runtime over a StructPlan).
func (b *CppBackend) emitStruct(out *strings.Builder, s *Struct, tr Traits) {
	plan := PlanStruct(s)
	tmplParam := ""
	if tr.AllocatorParam != "" {
		fmt.Fprintf(out, "template<typename %s>\n", tr.AllocatorParam)
		tmplParam = tr.AllocatorParam
	}
	fmt.Fprintf(out, "struct %s {\n", s.Name)
	for _, m := range plan.Members {
		fmt.Fprintf(out, "\t%s %s{};\n", cppTypeName(m.Type, tr), m.Name)
	}
	out.WriteString("\n\tsize_t size_of_body() const {\n")
	out.WriteString("\t\tstd::vector<char> tmp;\n\t\tencode_body(tmp);\n\t\treturn tmp.size();\n\t}\n\n")

	out.WriteString("\tvoid encode_body(std::vector<char> &buf) const {\n")
	for _, m := range plan.Members {
		cppEmitEncodeDynamic(out, "\t\t", "buf", "this->"+m.Name, m.Type, tr)
	}
	out.WriteString("\t}\n\n")

	out.WriteString("\tvoid decode_body(const char *buf, size_t len, size_t &pos) {\n")
	for _, m := range plan.Members {
		cppEmitDecodeDynamic(out, "\t\t", "buf", "len", "pos", "this->"+m.Name, m.Type, tr)
	}
	out.WriteString("\t}\n")
	out.WriteString("};\n\n")
	_ = tmplParam
}

// emitMessage renders a Message as a head/tail-aware struct with real
// encode()/decode() methods mirroring wire.go's EncodeMessage/DecodeMessage:
// the id and tail-size prefix, then the head section's fixed part and
// dynamic payloads, then the tail section the same way. TagsBlock members
// share one pointer slot and are written as (varint tag, value) pairs
// terminated by a varint zero (spec.md §4.3, §8 property 5).
func (b *CppBackend) emitMessage(out *strings.Builder, m *Message, tr Traits) {
	plan := PlanMessage(m)
	fmt.Fprintf(out, "struct %s {\n", m.Name)
	fmt.Fprintf(out, "\tstatic constexpr uint32_t MESSAGE_ID = %d;\n\n", m.ID)

	emitMembers := func(sec *SectionPlan) {
		if sec == nil {
			return
		}
		for _, f := range sec.Fields {
			for _, fm := range f.Slot.Members {
				t := cppTypeName(fm.Type, tr)
				if f.Slot.Kind == SlotPointer && isTagsBlockSlotCpp(f.Slot) {
					t = tr.OptionalOf(t)
				}
				fmt.Fprintf(out, "\t%s %s{};\n", t, fm.Name)
			}
		}
	}
	emitMembers(plan.Head)
	emitMembers(plan.Tail)
	out.WriteString("\n")

	out.WriteString("\tstd::vector<char> encode() const {\n")
	out.WriteString("\t\tstd::vector<char> tail_buf;\n")
	cppEmitEncodeSection(out, "\t\t", "tail_buf", plan.Tail, tr)
	out.WriteString("\t\tstd::vector<char> head_buf;\n")
	cppEmitEncodeSection(out, "\t\t", "head_buf", plan.Head, tr)
	out.WriteString("\t\tif (head_buf.size() < 8) head_buf.resize(8, 0);\n")
	out.WriteString("\t\twireforge_rt::write_fixed_at(head_buf, 0, MESSAGE_ID, 4);\n")
	out.WriteString("\t\twireforge_rt::write_fixed_at(head_buf, 4, tail_buf.size(), 4);\n")
	out.WriteString("\t\tstd::vector<char> out(head_buf);\n")
	out.WriteString("\t\tout.insert(out.end(), tail_buf.begin(), tail_buf.end());\n")
	out.WriteString("\t\treturn out;\n")
	out.WriteString("\t}\n\n")

	out.WriteString("\tstatic " + m.Name + " decode(const char *buf, size_t len) {\n")
	out.WriteString("\t\t" + tr.Assert("len >= 8") + "\n")
	out.WriteString("\t\tuint32_t id = uint32_t(wireforge_rt::read_fixed(buf, 0, 4));\n")
	out.WriteString("\t\t" + tr.Assert("id == MESSAGE_ID") + "\n")
	out.WriteString("\t\tsize_t tail_size = size_t(wireforge_rt::read_fixed(buf, 4, 4));\n")
	out.WriteString("\t\t" + tr.Assert("tail_size <= len") + "\n")
	out.WriteString("\t\tsize_t head_size = len - tail_size;\n")
	out.WriteString("\t\t" + m.Name + " out{};\n")
	cppEmitDecodeSection(out, "\t\t", "buf", "head_size", "0", plan.Head, tr)
	cppEmitDecodeSection(out, "\t\t", "buf + head_size", "tail_size", "0", plan.Tail, tr)
	out.WriteString("\t\treturn out;\n")
	out.WriteString("\t}\n")
	out.WriteString("};\n\n")
}

func isTagsBlockSlotCpp(s Slot) bool {
	return len(s.Members) > 0 && s.Members[0].InTags
}

// cppEmitEncodeSection renders one Head/Tail section's fixed part plus
// trailing dynamic payloads into bufVar, mirroring wire.go's
// encodeSectionBody exactly, one field at a time (field count and types
// are fixed at generation time, so each field gets its own straight-line
// statements rather than a runtime loop over Slots).
func cppEmitEncodeSection(out *strings.Builder, indent, bufVar string, sec *SectionPlan, tr Traits) {
	if sec == nil {
		return
	}
	fmt.Fprintf(out, "%s%s.resize(%d, 0);\n", indent, bufVar, sec.FixedPartSize)
	payloadVars := make([]string, len(sec.Fields))
	for i, f := range sec.Fields {
		if f.Slot.Kind != SlotPointer {
			continue
		}
		payloadVar := fmt.Sprintf("payload_%d", cppNextID())
		payloadVars[i] = payloadVar
		fmt.Fprintf(out, "%sstd::vector<char> %s;\n", indent, payloadVar)
		if isTagsBlockSlotCpp(f.Slot) {
			for _, fm := range f.Slot.Members {
				fmt.Fprintf(out, "%sif (this->%s.has_value()) {\n", indent, fm.Name)
				fmt.Fprintf(out, "%s\twireforge_rt::write_varint(%s, %d);\n", indent, payloadVar, fm.Tag)
				cppEmitEncodeDynamic(out, indent+"\t", payloadVar, "this->"+fm.Name+".value()", fm.Type, tr)
				fmt.Fprintf(out, "%s}\n", indent)
			}
			fmt.Fprintf(out, "%swireforge_rt::write_varint(%s, 0);\n", indent, payloadVar)
		} else {
			fm := f.Slot.Members[0]
			expr := "this->" + fm.Name
			if f.Slot.Kind == SlotPointer && fm.Tag != 0 {
				expr = "this->" + fm.Name + ".value()"
			}
			cppEmitEncodeDynamic(out, indent, payloadVar, expr, fm.Type, tr)
		}
	}
	for _, f := range sec.Fields {
		if f.Slot.Kind == SlotFixed {
			m := f.Slot.Members[0]
			cppEmitEncodeFixedAt(out, indent, bufVar, f.Offset, "this->"+m.Name, m.Type, tr)
		}
	}
	cursorVar := fmt.Sprintf("cursor_%d", cppNextID())
	fmt.Fprintf(out, "%ssize_t %s = %d;\n", indent, cursorVar, sec.FixedPartSize)
	for i, f := range sec.Fields {
		if f.Slot.Kind != SlotPointer {
			continue
		}
		fmt.Fprintf(out, "%swireforge_rt::write_fixed_at(%s, %d, %s, %d);\n", indent, bufVar, f.Offset, cursorVar, sec.PointerWidth)
		fmt.Fprintf(out, "%s%s += %s.size();\n", indent, cursorVar, payloadVars[i])
	}
	for i, f := range sec.Fields {
		if f.Slot.Kind != SlotPointer {
			continue
		}
		payloadVar := payloadVars[i]
		fmt.Fprintf(out, "%s%s.insert(%s.end(), %s.begin(), %s.end());\n", indent, bufVar, bufVar, payloadVar, payloadVar)
	}
}

// cppNextID hands out a process-wide unique integer for naming temporary
// variables in generated C++, so two sections emitted into the same
// function body (a message's head and tail) never collide on a local name.
var cppIDCounter int

func cppNextID() int {
	cppIDCounter++
	return cppIDCounter
}

// cppEmitDecodeSection is the inverse of cppEmitEncodeSection, reading from
// bufVar[offsetVar : offsetVar+lenVar] and assigning into out.<field>.
func cppEmitDecodeSection(out *strings.Builder, indent, bufVar, lenVar, offsetVar string, sec *SectionPlan, tr Traits) {
	if sec == nil {
		return
	}
	for _, f := range sec.Fields {
		switch f.Slot.Kind {
		case SlotFixed:
			m := f.Slot.Members[0]
			cppEmitDecodeFixedAt(out, indent, bufVar, f.Offset, "out."+m.Name, m.Type, tr)
		case SlotPointer:
			ptrVar := fmt.Sprintf("ptr_%d", cppNextID())
			fmt.Fprintf(out, "%ssize_t %s = size_t(wireforge_rt::read_fixed(%s, %d, %d));\n", indent, ptrVar, bufVar, f.Offset, sec.PointerWidth)
			if isTagsBlockSlotCpp(f.Slot) {
				posVar := fmt.Sprintf("pos_%d", cppNextID())
				fmt.Fprintf(out, "%ssize_t %s = %s;\n", indent, posVar, ptrVar)
				fmt.Fprintf(out, "%sfor (;;) {\n", indent)
				fmt.Fprintf(out, "%s\tuint64_t tag = wireforge_rt::read_varint(%s, %s);\n", indent, bufVar, posVar)
				fmt.Fprintf(out, "%s\tif (tag == 0) break;\n", indent)
				fmt.Fprintf(out, "%s\tswitch (tag) {\n", indent)
				for _, fm := range f.Slot.Members {
					fmt.Fprintf(out, "%s\tcase %d: {\n", indent, fm.Tag)
					cppEmitDecodeDynamic(out, indent+"\t\t", bufVar, lenVar, posVar, "out."+fm.Name, fm.Type, tr)
					out.WriteString(indent + "\t\tbreak;\n")
					out.WriteString(indent + "\t}\n")
				}
				fmt.Fprintf(out, "%s\tdefault: %s break;\n", indent, tr.Assert("false"))
				fmt.Fprintf(out, "%s\t}\n", indent)
				fmt.Fprintf(out, "%s}\n", indent)
			} else {
				m := f.Slot.Members[0]
				posVar := fmt.Sprintf("pos_%d", cppNextID())
				fmt.Fprintf(out, "%ssize_t %s = %s;\n", indent, posVar, ptrVar)
				cppEmitDecodeDynamic(out, indent, bufVar, lenVar, posVar, "out."+m.Name, m.Type, tr)
			}
		}
	}
}

// cppEmitEncodeFixedAt writes expr's fixed encoding directly at byte offset
// off within bufVar (spec.md §4.3 "Fixed encoding of a value").
func cppEmitEncodeFixedAt(out *strings.Builder, indent, bufVar string, off int, expr string, t Type, tr Traits) {
	switch t.Kind {
	case KindInteger, KindEnum, KindConsts:
		fmt.Fprintf(out, "%swireforge_rt::write_fixed_at(%s, %d, uint64_t(%s), %d);\n", indent, bufVar, off, expr, t.FixedSize)
	case KindArray:
		elemSize := t.Elem.FixedSize
		for i := 0; i < t.NElements; i++ {
			elemExpr := fmt.Sprintf("(%d < %s.size() ? %s[%d] : %s{})", i, expr, expr, i, cppTypeName(*t.Elem, tr))
			cppEmitEncodeFixedAt(out, indent, bufVar, off+i*elemSize, elemExpr, *t.Elem, tr)
		}
	}
}

// cppEmitDecodeFixedAt is the inverse of cppEmitEncodeFixedAt.
func cppEmitDecodeFixedAt(out *strings.Builder, indent, bufVar string, off int, destExpr string, t Type, tr Traits) {
	switch t.Kind {
	case KindInteger, KindEnum, KindConsts:
		if t.Signed {
			fmt.Fprintf(out, "%s%s = (%s)(int64_t)wireforge_rt::read_fixed(%s, %d, %d);\n", indent, destExpr, cppTypeName(t, tr), bufVar, off, t.FixedSize)
		} else {
			fmt.Fprintf(out, "%s%s = (%s)wireforge_rt::read_fixed(%s, %d, %d);\n", indent, destExpr, cppTypeName(t, tr), bufVar, off, t.FixedSize)
		}
	case KindArray:
		elemSize := t.Elem.FixedSize
		for i := 0; i < t.NElements; i++ {
			cppEmitDecodeFixedAt(out, indent, bufVar, off+i*elemSize, fmt.Sprintf("%s[%d]", destExpr, i), *t.Elem, tr)
		}
	}
}

// cppEmitEncodeDynamic appends expr's dynamic encoding to buf (spec.md
// §4.3 "Dynamic encoding of a value"), recursing into arrays and structs.
func cppEmitEncodeDynamic(out *strings.Builder, indent, buf, expr string, t Type, tr Traits) {
	switch ClassifyDynamic(t) {
	case DynByte:
		fmt.Fprintf(out, "%s%s.push_back(char(%s));\n", indent, buf, expr)
	case DynInteger, DynEnum:
		fmt.Fprintf(out, "%swireforge_rt::write_varint(%s, uint64_t(%s));\n", indent, buf, expr)
	case DynString:
		fmt.Fprintf(out, "%swireforge_rt::write_varint(%s, %s.size());\n", indent, buf, expr)
		fmt.Fprintf(out, "%s%s.insert(%s.end(), %s.begin(), %s.end());\n", indent, buf, buf, expr, expr)
	case DynArray:
		fmt.Fprintf(out, "%swireforge_rt::write_varint(%s, %s.size());\n", indent, buf, expr)
		fmt.Fprintf(out, "%sfor (const auto &elem : %s) {\n", indent, expr)
		cppEmitEncodeDynamic(out, indent+"\t", buf, "elem", *t.Elem, tr)
		fmt.Fprintf(out, "%s}\n", indent)
	case DynStruct:
		fmt.Fprintf(out, "%s%s.encode_body(%s);\n", indent, expr, buf)
	}
}

// cppEmitDecodeDynamic is the inverse of cppEmitEncodeDynamic, reading from
// bufVar starting at posVar (advanced in place) and assigning into destExpr.
func cppEmitDecodeDynamic(out *strings.Builder, indent, bufVar, lenVar, posVar, destExpr string, t Type, tr Traits) {
	switch ClassifyDynamic(t) {
	case DynByte:
		fmt.Fprintf(out, "%s%s = (%s)uint8_t(%s[%s]); %s += 1;\n", indent, destExpr, cppTypeName(t, tr), bufVar, posVar, posVar)
	case DynInteger, DynEnum:
		if t.Signed {
			fmt.Fprintf(out, "%s%s = (%s)(int64_t)wireforge_rt::read_varint(%s, %s);\n", indent, destExpr, cppTypeName(t, tr), bufVar, posVar)
		} else {
			fmt.Fprintf(out, "%s%s = (%s)wireforge_rt::read_varint(%s, %s);\n", indent, destExpr, cppTypeName(t, tr), bufVar, posVar)
		}
	case DynString:
		fmt.Fprintf(out, "%s{\n", indent)
		fmt.Fprintf(out, "%s\tuint64_t len = wireforge_rt::read_varint(%s, %s);\n", indent, bufVar, posVar)
		fmt.Fprintf(out, "%s\t%s = %s(%s + %s, size_t(len));\n", indent, destExpr, tr.StringType, bufVar, posVar)
		fmt.Fprintf(out, "%s\t%s += size_t(len);\n", indent, posVar)
		fmt.Fprintf(out, "%s}\n", indent)
	case DynArray:
		fmt.Fprintf(out, "%s{\n", indent)
		fmt.Fprintf(out, "%s\tuint64_t count = wireforge_rt::read_varint(%s, %s);\n", indent, bufVar, posVar)
		fmt.Fprintf(out, "%s\t%s.clear();\n", indent, destExpr)
		fmt.Fprintf(out, "%s\tfor (uint64_t i = 0; i < count; ++i) {\n", indent)
		fmt.Fprintf(out, "%s\t\t%s elem{};\n", indent, cppTypeName(*t.Elem, tr))
		cppEmitDecodeDynamic(out, indent+"\t\t", bufVar, lenVar, posVar, "elem", *t.Elem, tr)
		fmt.Fprintf(out, "%s\t\t%s.push_back(elem);\n", indent, destExpr)
		fmt.Fprintf(out, "%s\t}\n", indent)
		fmt.Fprintf(out, "%s}\n", indent)
	case DynStruct:
		fmt.Fprintf(out, "%s%s.decode_body(%s, %s, %s);\n", indent, destExpr, bufVar, lenVar, posVar)
	}
}

// GenerateProtobufDescriptor builds a FileDescriptorProto summarizing u's
// messages and serializes it with proto.Marshal, for the --protobuf flag
// (SPEC_FULL.md §10.1). This is an auxiliary interop artifact, not part of
// the wire format itself: message field numbers here are unrelated to the
// wire format's tags, and nesting/array/struct members are flattened to
// their closest protobuf scalar equivalent on a best-effort basis.
func GenerateProtobufDescriptor(u *Unit, packageName string) ([]byte, error) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String(packageName + ".proto"),
		Package: proto.String(packageName),
		Syntax:  proto.String("proto3"),
	}
	for _, m := range u.AllMessages() {
		dm := &descriptorpb.DescriptorProto{Name: proto.String(m.Name)}
		fieldNum := int32(1)
		addField := func(name string, t Type) {
			dm.Field = append(dm.Field, &descriptorpb.FieldDescriptorProto{
				Name:   proto.String(name),
				Number: proto.Int32(fieldNum),
				Type:   protoScalarType(t),
				Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			})
			fieldNum++
		}
		if m.Head != nil {
			for _, mem := range m.Head.Members {
				addField(mem.Name, mem.Type)
			}
		}
		if m.Tail != nil {
			for _, mem := range m.Tail.Members {
				addField(mem.Name, mem.Type)
			}
		}
		fd.MessageType = append(fd.MessageType, dm)
	}
	return proto.Marshal(fd)
}

func protoScalarType(t Type) *descriptorpb.FieldDescriptorProto_Type {
	switch t.Kind {
	case KindInteger:
		switch {
		case t.FixedSize <= 4 && t.Signed:
			return descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum()
		case t.FixedSize <= 4:
			return descriptorpb.FieldDescriptorProto_TYPE_UINT32.Enum()
		case t.Signed:
			return descriptorpb.FieldDescriptorProto_TYPE_INT64.Enum()
		default:
			return descriptorpb.FieldDescriptorProto_TYPE_UINT64.Enum()
		}
	case KindString:
		return descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()
	case KindEnum, KindConsts:
		return descriptorpb.FieldDescriptorProto_TYPE_INT32.Enum()
	default:
		return descriptorpb.FieldDescriptorProto_TYPE_BYTES.Enum()
	}
}
