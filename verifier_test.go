package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAndVerify(t *testing.T, src string) (*Unit, error) {
	t.Helper()
	p, err := NewParser("test.idl", src)
	require.NoError(t, err)
	u, err := p.ParseUnit()
	require.NoError(t, err)
	v := NewVerifier(NewRegistry())
	return u, v.Verify(u)
}

func TestVerifyEmptyMessage(t *testing.T) {
	_, err := parseAndVerify(t, `message Ping 1 { head(8): }`)
	assert.NoError(t, err)
}

func TestVerifyDuplicateTopLevelName(t *testing.T) {
	_, err := parseAndVerify(t, `
		message Ping 1 { head(8): }
		struct Ping { uint32 x; }
	`)
	require.Error(t, err)
}

func TestVerifyReservedTopLevelName(t *testing.T) {
	_, err := parseAndVerify(t, `struct uint32 { uint32 x; }`)
	assert.Error(t, err)
}

func TestVerifyDuplicateMessageID(t *testing.T) {
	_, err := parseAndVerify(t, `
		message A 1 { head(8): }
		message B 1 { head(8): }
	`)
	assert.Error(t, err)
}

func TestVerifyGroupScopesMessageIDs(t *testing.T) {
	_, err := parseAndVerify(t, `
		message A 1 { head(8): }
		group {
			message B 1 { head(8): }
			message C 2 { head(8): }
		}
	`)
	assert.NoError(t, err, "a group-scoped id may reuse a top-level id")
}

func TestVerifyGroupRejectsDuplicateWithinItself(t *testing.T) {
	_, err := parseAndVerify(t, `
		group {
			message A 1 { head(8): }
			message B 1 { head(8): }
		}
	`)
	assert.Error(t, err)
}

func TestVerifyTagOutsideTagsBlock(t *testing.T) {
	_, err := parseAndVerify(t, `message A 1 { head(16): tag(1) uint32 x; }`)
	assert.Error(t, err)
}

func TestVerifyUntaggedInsideTagsBlock(t *testing.T) {
	// The grammar allows a tags-block member without a `tag(N)` prefix to
	// parse structurally; the verifier is what rejects it.
	_, err := parseAndVerify(t, `message A 1 { head(16): tags { uint32 x; } }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "untagged member")
}

func TestVerifyDuplicateTagInBlock(t *testing.T) {
	_, err := parseAndVerify(t, `
		message A 1 {
			head(16): tags { tag(1) uint32 x; tag(1) uint32 y; }
		}
	`)
	assert.Error(t, err)
}

func TestVerifyDuplicateMemberName(t *testing.T) {
	_, err := parseAndVerify(t, `
		message A 1 { head(16): uint32 x; uint32 x; }
	`)
	assert.Error(t, err)
}

func TestVerifyTailMemberMustBeTagged(t *testing.T) {
	_, err := parseAndVerify(t, `message A 1 { tail: uint32 x; }`)
	assert.Error(t, err)
}

func TestVerifyHeadTooSmall(t *testing.T) {
	_, err := parseAndVerify(t, `message A 1 { head(8): uint64 x; }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestVerifyUnknownType(t *testing.T) {
	_, err := parseAndVerify(t, `message A 1 { head(16): Bogus x; }`)
	assert.Error(t, err)
}

func TestVerifyEnumDefaultUnderlying(t *testing.T) {
	u, err := parseAndVerify(t, `
		enum Color { Red, Green, Blue }
		message A 1 { head(16): Color c; }
	`)
	require.NoError(t, err)
	enums := u.AllEnums()
	require.Len(t, enums, 1)
	assert.Equal(t, "int32", enums[0].Underlying.Name)
	assert.Equal(t, int64(0), enums[0].Members[0].Value)
	assert.Equal(t, int64(1), enums[0].Members[1].Value)
	assert.Equal(t, int64(2), enums[0].Members[2].Value)
}

func TestVerifyEnumExplicitValuesMustNotGoBackwards(t *testing.T) {
	_, err := parseAndVerify(t, `enum Color { Red = 5, Green = 3 }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "go backwards")
}

func TestVerifyEnumUnderlyingMustBeInteger(t *testing.T) {
	_, err := parseAndVerify(t, `
		struct S { uint32 x; }
		consts Bad S { A = 1 }
	`)
	assert.Error(t, err)
}

func TestVerifyConstsBehavesAsIntegerType(t *testing.T) {
	u, err := parseAndVerify(t, `
		consts Limits uint16 { Max = 100 }
		message A 1 { head(16): Limits l; }
	`)
	require.NoError(t, err)
	assert.Equal(t, EnumModeConsts, u.AllEnums()[0].Mode)
}

func TestVerifyStructOrderIndependence(t *testing.T) {
	// B is declared before A but references it; this is accepted because
	// structs are all shallow-registered before any member resolution.
	_, err := parseAndVerify(t, `
		struct B { A a; }
		struct A { uint32 x; }
	`)
	assert.NoError(t, err)
}
