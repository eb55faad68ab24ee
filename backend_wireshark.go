package main

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// WiresharkBackend emits a Lua dissector script that parses the wire
// format for human inspection (spec.md §4.5), driven by a table of
// FieldDescriptors per message, the same way original_source/bragi's
// wireshark_generator.py builds its proto_field tables from the model.
type WiresharkBackend struct{}

func (b *WiresharkBackend) Name() string { return "wireshark" }

// luaVarintHelper is the Lua `parse_varint` function ported from
// original_source/bragi/wireshark_generator.py: generate_header, adjusted
// to match this compiler's resolved varint layout (see varint.go and
// DESIGN.md's Open Question entry on the N=8 shift). Every varint-encoded
// value, length, count, and tag the dissector walks below is read through
// this; single-byte fields are read directly (spec.md §4.4).
const luaVarintHelper = `function parse_varint(buf)
	local byte0 = buf(0, 1):uint()
	local nbytes = 9
	for i = 1, 8 do
		if bit.band(bit.rshift(byte0, i - 1), 1) ~= 0 then
			nbytes = i
			break
		end
	end
	if nbytes == 9 then
		local value = 0
		for i = 1, 8 do
			value = value + buf(i, 1):uint() * (2 ^ (8 * (i - 1)))
		end
		return 9, value
	end
	local high = 0
	for i = 1, nbytes - 1 do
		high = high + buf(i, 1):uint() * (2 ^ (8 * (i - 1)))
	end
	local freebits = 8 - nbytes
	local low = bit.rshift(byte0, nbytes)
	local value = high * (2 ^ freebits) + low
	return nbytes, value
end

`

func (b *WiresharkBackend) Generate(u *Unit) (string, error) {
	var out strings.Builder
	out.WriteString("-- generated dissector; do not edit by hand\n\n")
	out.WriteString(luaVarintHelper)

	for _, m := range u.AllMessages() {
		b.emitMessageDissector(&out, m)
	}
	return out.String(), nil
}

var luaIDCounter int

func luaNextID() int {
	luaIDCounter++
	return luaIDCounter
}

func (b *WiresharkBackend) emitMessageDissector(out *strings.Builder, m *Message) {
	plan := PlanMessage(m)
	discriminant := xxhash.Sum64String(m.Name) & 0xffffffff
	prefix := fmt.Sprintf("msg_%08x", discriminant)

	fmt.Fprintf(out, "local %s_proto = Proto(%q, %q)\n", prefix, m.Name, m.Name)

	var fields []FieldDescriptor
	fields = append(fields, Describe(plan.Head)...)
	fields = append(fields, Describe(plan.Tail)...)

	fmt.Fprintf(out, "%s_proto.fields = {\n", prefix)
	for _, f := range fields {
		fmt.Fprintf(out, "\t[%q] = ProtoField.new(%q, %q, ftypes.BYTES),\n", f.Name, f.Name, fmt.Sprintf("%s.%s", m.Name, f.Name))
	}
	out.WriteString("}\n\n")

	fmt.Fprintf(out, "function %s_proto.dissector(tvb, pinfo, tree)\n", prefix)
	fmt.Fprintf(out, "\tpinfo.cols.protocol = %q\n", m.Name)
	fmt.Fprintf(out, "\tlocal subtree = tree:add(%s_proto, tvb(), %q)\n", prefix, m.Name)
	out.WriteString("\tlocal msg_id = tvb(0, 4):le_uint()\n")
	out.WriteString("\tlocal tail_size = tvb(4, 4):le_uint()\n")
	fmt.Fprintf(out, "\tsubtree:add(tvb(0, 4), \"id: \" .. msg_id .. \" (expected %d)\")\n", m.ID)
	out.WriteString("\tsubtree:add(tvb(4, 4), \"tail_size: \" .. tail_size)\n")
	out.WriteString("\tlocal head_size = tvb:len() - tail_size\n")

	luaEmitSection(out, "\t", "subtree", plan.Head, "0")
	luaEmitSection(out, "\t", "subtree", plan.Tail, "head_size")

	out.WriteString("end\n\n")

	fmt.Fprintf(out, "local msg_id_table = DissectorTable.get(\"wireforge.message_id\")\n")
	fmt.Fprintf(out, "if msg_id_table then msg_id_table:add(%d, %s_proto) end\n\n", m.ID, prefix)
}

// luaEmitSection walks one Head/Tail section's fixed part and dynamic
// payloads (mirrors wire.go's decodeSectionBody): fixed members are read
// directly at baseExpr+offset; pointer slots are followed into the payload
// region, each pointer value being an offset from baseExpr, the start of the
// section (spec.md §4.3 "dynamic payloads begin at offset fixed_part_size");
// TagsBlock slots loop (tag, value) pairs
// until the terminator, the Lua twin of decodeTagsBlock.
func luaEmitSection(out *strings.Builder, indent, tree string, sec *SectionPlan, baseExpr string) {
	if sec == nil {
		return
	}
	for _, f := range sec.Fields {
		switch f.Slot.Kind {
		case SlotFixed:
			m := f.Slot.Members[0]
			luaEmitFixedField(out, indent, tree, baseExpr, f.Offset, m, f.Slot.FixedSize)
		case SlotPointer:
			ptrVar := fmt.Sprintf("ptr_%d", luaNextID())
			fmt.Fprintf(out, "%slocal %s = tvb(%s + %d, %d):le_uint()\n", indent, ptrVar, baseExpr, f.Offset, sec.PointerWidth)
			posVar := fmt.Sprintf("pos_%d", luaNextID())
			fmt.Fprintf(out, "%slocal %s = %s + %s\n", indent, posVar, baseExpr, ptrVar)
			if isTagsBlockSlotLua(f.Slot) {
				fmt.Fprintf(out, "%swhile true do\n", indent)
				nVar := fmt.Sprintf("n_%d", luaNextID())
				tagVar := fmt.Sprintf("tag_%d", luaNextID())
				fmt.Fprintf(out, "%s\tlocal %s, %s = parse_varint(tvb(%s):tvb())\n", indent, nVar, tagVar, posVar)
				fmt.Fprintf(out, "%s\t%s = %s + %s\n", indent, posVar, posVar, nVar)
				fmt.Fprintf(out, "%s\tif %s == 0 then break end\n", indent, tagVar)
				for i, fm := range f.Slot.Members {
					kw := "if"
					if i > 0 {
						kw = "elseif"
					}
					fmt.Fprintf(out, "%s\t%s %s == %d then\n", indent, kw, tagVar, fm.Tag)
					luaEmitDecodeDynamic(out, indent+"\t\t", tree, posVar, fm.Name, fm.Type)
				}
				fmt.Fprintf(out, "%s\telse\n", indent)
				fmt.Fprintf(out, "%s\t\t%s:add(tvb(%s, 0), \"unknown tag \" .. %s)\n", indent, tree, posVar, tagVar)
				fmt.Fprintf(out, "%s\t\tbreak\n", indent)
				fmt.Fprintf(out, "%s\tend\n", indent)
				fmt.Fprintf(out, "%send\n", indent)
			} else {
				m := f.Slot.Members[0]
				luaEmitDecodeDynamic(out, indent, tree, posVar, m.Name, m.Type)
			}
		}
	}
}

func isTagsBlockSlotLua(s Slot) bool {
	return len(s.Members) > 0 && s.Members[0].InTags
}

func luaEmitFixedField(out *strings.Builder, indent, tree, baseExpr string, offset int, m *Member, width int) {
	fmt.Fprintf(out, "%s%s:add(tvb(%s + %d, %d), %q)\n", indent, tree, baseExpr, offset, width, m.Name)
}

// luaEmitDecodeDynamic appends Lua statements that read label's dynamic
// encoding starting at posVar (a local already in scope, reassigned in
// place to advance past what was read) and annotate tree with the result
// (spec.md §4.3 "Dynamic encoding of a value"; mirrors wire.go's
// decodeDynamicValue, recursing the same way into arrays and structs).
func luaEmitDecodeDynamic(out *strings.Builder, indent, tree, posVar, label string, t Type) {
	switch ClassifyDynamic(t) {
	case DynByte:
		fmt.Fprintf(out, "%s%s:add(tvb(%s, 1), %q .. \": \" .. tvb(%s, 1):uint())\n", indent, tree, posVar, label, posVar)
		fmt.Fprintf(out, "%s%s = %s + 1\n", indent, posVar, posVar)
	case DynInteger, DynEnum:
		id := luaNextID()
		nVar := fmt.Sprintf("n_%d", id)
		vVar := fmt.Sprintf("v_%d", id)
		fmt.Fprintf(out, "%slocal %s, %s = parse_varint(tvb(%s):tvb())\n", indent, nVar, vVar, posVar)
		fmt.Fprintf(out, "%s%s:add(tvb(%s, %s), %q .. \": \" .. %s)\n", indent, tree, posVar, nVar, label, vVar)
		fmt.Fprintf(out, "%s%s = %s + %s\n", indent, posVar, posVar, nVar)
	case DynString:
		id := luaNextID()
		nVar := fmt.Sprintf("n_%d", id)
		lenVar := fmt.Sprintf("len_%d", id)
		fmt.Fprintf(out, "%slocal %s, %s = parse_varint(tvb(%s):tvb())\n", indent, nVar, lenVar, posVar)
		fmt.Fprintf(out, "%s%s:add(tvb(%s + %s, %s), %q .. \": \" .. tvb(%s + %s, %s):string())\n", indent, tree, posVar, nVar, lenVar, label, posVar, nVar, lenVar)
		fmt.Fprintf(out, "%s%s = %s + %s + %s\n", indent, posVar, posVar, nVar, lenVar)
	case DynArray:
		id := luaNextID()
		nVar := fmt.Sprintf("n_%d", id)
		countVar := fmt.Sprintf("count_%d", id)
		arrTree := fmt.Sprintf("arrtree_%d", id)
		iVar := fmt.Sprintf("i_%d", id)
		fmt.Fprintf(out, "%slocal %s, %s = parse_varint(tvb(%s):tvb())\n", indent, nVar, countVar, posVar)
		fmt.Fprintf(out, "%s%s = %s + %s\n", indent, posVar, posVar, nVar)
		fmt.Fprintf(out, "%slocal %s = %s:add(tvb(%s, 0), %q .. \" (\" .. %s .. \" elements)\")\n", indent, arrTree, tree, posVar, label, countVar)
		fmt.Fprintf(out, "%sfor %s = 1, %s do\n", indent, iVar, countVar)
		luaEmitDecodeDynamic(out, indent+"\t", arrTree, posVar, label+"[]", *t.Elem)
		fmt.Fprintf(out, "%send\n", indent)
	case DynStruct:
		id := luaNextID()
		structTree := fmt.Sprintf("structtree_%d", id)
		fmt.Fprintf(out, "%slocal %s = %s:add(tvb(%s, 0), %q)\n", indent, structTree, tree, posVar, label)
		for _, sm := range PlanStruct(t.StructDecl).Members {
			luaEmitDecodeDynamic(out, indent, structTree, posVar, sm.Name, sm.Type)
		}
	}
}

func fixedWidth(f FieldDescriptor) int {
	if f.Type.FixedSize > 0 {
		return f.Type.FixedSize
	}
	return 1
}
