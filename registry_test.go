package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPredefinedTypes(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"int8", "int16", "int32", "int64",
		"uint8", "uint16", "uint32", "uint64", "byte", "char", "string"} {
		ty, ok := reg.Lookup(name)
		require.True(t, ok, "missing predefined type %q", name)
		assert.Equal(t, name, ty.Name)
	}

	u32, _ := reg.Lookup("uint32")
	assert.Equal(t, KindInteger, u32.Kind)
	assert.Equal(t, 4, u32.FixedSize)
	assert.False(t, u32.Signed)
	assert.False(t, u32.Dynamic)

	str, _ := reg.Lookup("string")
	assert.Equal(t, KindString, str.Kind)
	assert.True(t, str.Dynamic)
}

func TestParseTypeExpressionFixedArray(t *testing.T) {
	reg := NewRegistry()
	ty, ok := reg.ParseTypeExpression("uint32[4]")
	require.True(t, ok)
	assert.Equal(t, KindArray, ty.Kind)
	assert.Equal(t, 4, ty.NElements)
	assert.Equal(t, 16, ty.FixedSize)
	assert.False(t, ty.Dynamic)
}

func TestParseTypeExpressionDynamicArray(t *testing.T) {
	reg := NewRegistry()
	ty, ok := reg.ParseTypeExpression("uint8[]")
	require.True(t, ok)
	assert.Equal(t, KindArray, ty.Kind)
	assert.Equal(t, -1, ty.NElements)
	assert.True(t, ty.Dynamic)
}

func TestParseTypeExpressionNestedArray(t *testing.T) {
	reg := NewRegistry()
	ty, ok := reg.ParseTypeExpression("uint8[2][3]")
	require.True(t, ok)
	assert.Equal(t, KindArray, ty.Kind)
	assert.Equal(t, 3, ty.NElements)
	assert.Equal(t, KindArray, ty.Elem.Kind)
	assert.Equal(t, 2, ty.Elem.NElements)
	assert.Equal(t, 3*2*1, ty.FixedSize)
}

func TestParseTypeExpressionDynamicSubtypeForcesDynamic(t *testing.T) {
	reg := NewRegistry()
	ty, ok := reg.ParseTypeExpression("string[4]")
	require.True(t, ok)
	assert.True(t, ty.Dynamic, "a fixed-count array of a dynamic subtype must itself be dynamic")
}

func TestParseTypeExpressionUnknownBase(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.ParseTypeExpression("Frobnicator")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(Type{Kind: KindStruct, Name: "uint32"})
	assert.Error(t, err)
}

func TestRegisterStructThenReferenceIt(t *testing.T) {
	reg := NewRegistry()
	s := &Struct{Name: "Point"}
	require.NoError(t, reg.RegisterStruct(s))

	ty, ok := reg.ParseTypeExpression("Point[]")
	require.True(t, ok)
	assert.Equal(t, KindArray, ty.Kind)
	assert.Equal(t, KindStruct, ty.Elem.Kind)
	assert.True(t, ty.Dynamic)
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved("message"))
	assert.True(t, IsReserved("uint32"))
	assert.False(t, IsReserved("MyMessage"))
}
